// internal/nlu/extract.go
package nlu

import (
	"regexp"
	"strconv"
	"strings"
	"sync"

	"loan-clarity-resolver/internal/models"
)

// Field extractors scan a raw utterance for one semantic field each.
// All of them are pure and case-insensitive, and report absence via the
// ok return instead of an error. A matched value of zero is treated as
// absent so it never overwrites a remembered value.

var (
	rateRegex     = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*%`)
	yearsRegex    = regexp.MustCompile(`(?i)(\d+)\s*(years|yrs|year|y)\b`)
	paymentsRegex = regexp.MustCompile(`(?i)(\d+)\s*(payments|months|installments)\b`)

	quarterRegex = regexp.MustCompile(`(?i)quarter`)
	annualRegex  = regexp.MustCompile(`(?i)annual|yearly`)
)

// amountRegexes caches the per-keyword amount pattern; the keyword set is
// small and fixed so the cache never grows unbounded.
var (
	amountMu      sync.RWMutex
	amountRegexes = map[string]*regexp.Regexp{}
)

func amountRegexFor(keyword string) *regexp.Regexp {
	amountMu.RLock()
	re, ok := amountRegexes[keyword]
	amountMu.RUnlock()
	if ok {
		return re
	}

	// keyword, then an optional currency marker, then the numeric literal
	// with an optional lakh/crore suffix, all within the same clause.
	pattern := `(?i)` + regexp.QuoteMeta(keyword) +
		`\D*(₹|rs\.?|rupees)?\s*([\d,.]+)(?:\s*(l|lac|lakh|lakhs|cr|crore|crores))?`
	re = regexp.MustCompile(pattern)

	amountMu.Lock()
	amountRegexes[keyword] = re
	amountMu.Unlock()
	return re
}

// ExtractAmount searches, per keyword in order, for the first occurrence
// of the keyword followed by a numeric literal with an optional unit
// suffix, normalized via NormalizeAmount. The first keyword that yields a
// match wins.
func ExtractAmount(input string, keywords ...string) (float64, bool) {
	for _, keyword := range keywords {
		match := amountRegexFor(keyword).FindStringSubmatch(input)
		if match == nil {
			continue
		}
		if value, ok := NormalizeAmount(match[2], match[3]); ok && value != 0 {
			return value, true
		}
	}
	return 0, false
}

// ExtractRate finds the first `<number>%` pattern.
func ExtractRate(input string) (float64, bool) {
	match := rateRegex.FindStringSubmatch(input)
	if match == nil {
		return 0, false
	}
	value, err := strconv.ParseFloat(match[1], 64)
	if err != nil || value == 0 {
		return 0, false
	}
	return value, true
}

// ExtractYears finds the first `<number> years|yrs|year|y` pattern.
func ExtractYears(input string) (float64, bool) {
	return matchCount(yearsRegex, input)
}

// ExtractPayments finds the first `<number> payments|months|installments`
// pattern.
func ExtractPayments(input string) (float64, bool) {
	return matchCount(paymentsRegex, input)
}

func matchCount(re *regexp.Regexp, input string) (float64, bool) {
	match := re.FindStringSubmatch(input)
	if match == nil {
		return 0, false
	}
	value, err := strconv.ParseFloat(match[1], 64)
	if err != nil || value == 0 {
		return 0, false
	}
	return value, true
}

// ExtractFrequency returns the repayment frequency named in the
// utterance. The second return reports whether a frequency word was
// actually present; without one the monthly default applies.
func ExtractFrequency(input string) (string, bool) {
	if quarterRegex.MatchString(input) {
		return models.FrequencyQuarterly, true
	}
	if annualRegex.MatchString(input) {
		return models.FrequencyAnnually, true
	}
	return models.FrequencyMonthly, false
}

// ExtractInterestMethod returns flat when the utterance says so, else the
// reducing default. The second return reports an explicit mention.
func ExtractInterestMethod(input string) (string, bool) {
	if strings.Contains(strings.ToLower(input), "flat") {
		return models.MethodFlat, true
	}
	return models.MethodReducing, false
}

// fieldKeywords anchors each amount-valued slot field to its keyword list.
var fieldKeywords = map[string][]string{
	"principal":           {"principal", "loan", "amount"},
	"prepayment_amount":   {"prepayment", "lump sum"},
	"new_emi":             {"new emi"},
	"monthly_income":      {"income", "salary"},
	"existing_emis":       {"existing emi"},
	"desired_loan_amount": {"desired loan", "loan amount"},
	"processing_fee":      {"processing fee"},
	"other_charges":       {"other charges", "charges"},
}

// ExtractField runs the extractor for a named slot field over the
// utterance. Unknown fields report absence; loan_options is populated by
// the payload builder, never slot-filled.
func ExtractField(field, input string) (float64, bool) {
	switch field {
	case "annual_rate":
		return ExtractRate(input)
	case "tenure_years", "new_tenure_years":
		return ExtractYears(input)
	case "payments_made":
		return ExtractPayments(input)
	default:
		if keywords, ok := fieldKeywords[field]; ok {
			return ExtractAmount(input, keywords...)
		}
		return 0, false
	}
}
