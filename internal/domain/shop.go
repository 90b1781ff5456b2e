package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"coffee-proximity-service/internal/validate"

	"github.com/shopspring/decimal"
)

const (
	MaxNameLength     = 255
	MaxAddressLength  = 500
	MaxScheduleLength = 255
)

// CoffeeShop is a durable shop location. Rows are created by ingestion on
// first sight of a (name, latitude, longitude) triple, or directly through
// the administrative create path; ingestion updates rows in place and never
// deletes them.
type CoffeeShop struct {
	ID         int64
	Name       string
	Latitude   decimal.Decimal
	Longitude  decimal.Decimal
	Address    string
	Schedule   string
	ExternalID string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// GenerateExternalID derives the content-based identity of a shop: the
// SHA-256 hex digest of "name|latitude|longitude". Identical triples hash
// to the same id across runs, so re-imports resolve to the existing row;
// changing any of the three fields makes a new shop.
func GenerateExternalID(name string, latitude, longitude decimal.Decimal) string {
	sum := sha256.Sum256([]byte(name + "|" + latitude.String() + "|" + longitude.String()))
	return hex.EncodeToString(sum[:])
}

// FieldError is one field-level validation message, surfaced to callers as
// data rather than as an error value.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) String() string {
	return e.Field + " " + e.Message
}

// Validate checks persistence-level constraints for the direct create path.
// The batch ingestion path does not call it: feed rows are gated by the row
// validator before they reach the store.
func (s *CoffeeShop) Validate() []FieldError {
	var errs []FieldError

	if strings.TrimSpace(s.Name) == "" {
		errs = append(errs, FieldError{Field: "name", Message: "can't be blank"})
	} else if utf8.RuneCountInString(s.Name) > MaxNameLength {
		errs = append(errs, FieldError{Field: "name", Message: fmt.Sprintf("is too long (maximum is %d characters)", MaxNameLength)})
	}

	if !validate.LatitudeInRange(s.Latitude) {
		errs = append(errs, FieldError{Field: "latitude", Message: "must be between -90 and 90"})
	}
	if !validate.LongitudeInRange(s.Longitude) {
		errs = append(errs, FieldError{Field: "longitude", Message: "must be between -180 and 180"})
	}

	if utf8.RuneCountInString(s.Address) > MaxAddressLength {
		errs = append(errs, FieldError{Field: "address", Message: fmt.Sprintf("is too long (maximum is %d characters)", MaxAddressLength)})
	}
	if utf8.RuneCountInString(s.Schedule) > MaxScheduleLength {
		errs = append(errs, FieldError{Field: "schedule", Message: fmt.Sprintf("is too long (maximum is %d characters)", MaxScheduleLength)})
	}

	return errs
}
