package validate

import (
	"regexp"

	"github.com/shopspring/decimal"
)

// Coordinates must be plain decimal numbers: an optional leading minus,
// digits, and at most one fractional part. Anything else (letters, bare
// leading dots, multiple dots) is rejected outright rather than coerced.
var coordinatePattern = regexp.MustCompile(`^-?\d+(\.\d+)?$`)

var (
	latitudeMin  = decimal.NewFromInt(-90)
	latitudeMax  = decimal.NewFromInt(90)
	longitudeMin = decimal.NewFromInt(-180)
	longitudeMax = decimal.NewFromInt(180)
)

// ToDecimal parses v as a fixed-point decimal. It is a total function:
// invalid input yields ok=false, never a panic or an error value.
func ToDecimal(v string) (decimal.Decimal, bool) {
	if !coordinatePattern.MatchString(v) {
		return decimal.Decimal{}, false
	}

	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// ValidLatitude reports whether v parses as a decimal in [-90, 90].
func ValidLatitude(v string) bool {
	d, ok := ToDecimal(v)
	return ok && LatitudeInRange(d)
}

// ValidLongitude reports whether v parses as a decimal in [-180, 180].
func ValidLongitude(v string) bool {
	d, ok := ToDecimal(v)
	return ok && LongitudeInRange(d)
}

// Valid reports whether both coordinates are valid per their closed ranges.
func Valid(latitude, longitude string) bool {
	return ValidLatitude(latitude) && ValidLongitude(longitude)
}

// Range checks use decimal comparison so that exactly ±90 and ±180 sit
// inside the range regardless of float rounding.

func LatitudeInRange(d decimal.Decimal) bool {
	return d.Cmp(latitudeMin) >= 0 && d.Cmp(latitudeMax) <= 0
}

func LongitudeInRange(d decimal.Decimal) bool {
	return d.Cmp(longitudeMin) >= 0 && d.Cmp(longitudeMax) <= 0
}
