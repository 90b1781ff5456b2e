package validate

import (
	"regexp"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// A feed line carries exactly name, latitude, longitude.
const ExpectedColumns = 3

const MaxNameLength = 255

// Shop names are allow-listed: letters in any script, digits, whitespace,
// and -'.&,(). Markup or SQL payloads fail the pattern and the row is
// rejected whole; nothing is escaped or rewritten.
var namePattern = regexp.MustCompile(`^[\p{L}\p{N}\s\-'.&,()]+$`)

// ValidStructure reports whether a split feed line has the expected
// column count.
func ValidStructure(columns []string) bool {
	return len(columns) == ExpectedColumns
}

// ValidName reports whether name is non-empty, within the length limit,
// and made only of allow-listed characters.
func ValidName(name string) bool {
	if name == "" || utf8.RuneCountInString(name) > MaxNameLength {
		return false
	}
	return namePattern.MatchString(name)
}

// ValidData reports whether a parsed entry is acceptable for ingestion.
func ValidData(name string, latitude, longitude decimal.Decimal) bool {
	return ValidName(name) && LatitudeInRange(latitude) && LongitudeInRange(longitude)
}
