package csvfeed

import (
	"encoding/csv"
	"log"
	"strings"

	"coffee-proximity-service/internal/validate"

	"github.com/shopspring/decimal"
)

// Row is one validated shop entry parsed from the feed.
type Row struct {
	Name      string
	Latitude  decimal.Decimal
	Longitude decimal.Decimal
}

// Parser turns raw feed text into validated rows. A malformed or invalid
// line is skipped with a warning; one bad row never aborts the batch, so
// partial success is the normal case.
type Parser struct {
	Logger *log.Logger
}

func NewParser(logger *log.Logger) *Parser {
	if logger == nil {
		logger = log.Default()
	}
	return &Parser{Logger: logger}
}

// Parse returns the valid rows of content in input line order. Blank input
// and blank lines yield nothing, not an error.
func (p *Parser) Parse(content string) []Row {
	rows := []Row{}
	if strings.TrimSpace(content) == "" {
		return rows
	}

	for i, line := range strings.Split(content, "\n") {
		lineNumber := i + 1
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		columns, err := splitColumns(line)
		if err != nil || !validate.ValidStructure(columns) {
			p.skip(lineNumber, line)
			continue
		}

		latitude, latOK := validate.ToDecimal(columns[1])
		longitude, lngOK := validate.ToDecimal(columns[2])
		if !latOK || !lngOK || !validate.ValidData(columns[0], latitude, longitude) {
			p.skip(lineNumber, line)
			continue
		}

		rows = append(rows, Row{Name: columns[0], Latitude: latitude, Longitude: longitude})
	}

	return rows
}

// splitColumns splits a single line respecting quoted fields that embed
// commas, and trims whitespace from every field. Parsing line by line keeps
// one unbalanced quote from poisoning the rest of the feed.
func splitColumns(line string) ([]string, error) {
	r := csv.NewReader(strings.NewReader(line))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	record, err := r.Read()
	if err != nil {
		return nil, err
	}

	for i := range record {
		record[i] = strings.TrimSpace(record[i])
	}
	return record, nil
}

func (p *Parser) skip(lineNumber int, line string) {
	p.Logger.Printf("[csv.parser] skipping malformed line %d: %q", lineNumber, line)
}
