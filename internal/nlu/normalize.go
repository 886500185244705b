// internal/nlu/normalize.go
package nlu

import (
	"strconv"
	"strings"
)

// South Asian numbering units recognized as amount suffixes.
const (
	lakhMultiplier  = 100_000
	croreMultiplier = 10_000_000
)

var (
	lakhUnits  = map[string]bool{"l": true, "lac": true, "lakh": true, "lakhs": true}
	croreUnits = map[string]bool{"cr": true, "crore": true, "crores": true}
)

// NormalizeAmount converts a numeric literal plus an optional unit token
// into a base currency amount. Thousands separators are stripped before
// parsing. The unit is matched case-insensitively; an unknown unit leaves
// the value unscaled. Returns false when the literal is not numeric.
func NormalizeAmount(rawDigits, unit string) (float64, bool) {
	cleaned := strings.ReplaceAll(rawDigits, ",", "")
	if cleaned == "" {
		return 0, false
	}
	amount, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	if unit == "" {
		return amount, true
	}
	switch u := strings.ToLower(unit); {
	case lakhUnits[u]:
		return amount * lakhMultiplier, true
	case croreUnits[u]:
		return amount * croreMultiplier, true
	default:
		return amount, true
	}
}
