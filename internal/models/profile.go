// internal/models/profile.go
package models

import (
	"encoding/json"
	"strconv"
)

// Repayment frequency values accepted by the calculation gateway.
const (
	FrequencyMonthly   = "monthly"
	FrequencyQuarterly = "quarterly"
	FrequencyAnnually  = "annually"
)

// Interest method values accepted by the calculation gateway.
const (
	MethodReducing = "reducing"
	MethodFlat     = "flat"
)

// Loan type values accepted by the calculation gateway.
const (
	LoanTypeHome     = "home_loan"
	LoanTypeVehicle  = "vehicle_loan"
	LoanTypePersonal = "personal_loan"
)

// LoanProfile is the per-user remembered state: a flat field->value map.
// Numeric fields are stored as float64, enums as strings, flags as bool.
// A field, once set, stays set until a later utterance overwrites it.
type LoanProfile map[string]interface{}

// DefaultProfile returns a fresh profile carrying only the documented
// default values. Slot fields (principal, annual_rate, ...) start absent.
func DefaultProfile() LoanProfile {
	return LoanProfile{
		"repayment_frequency": FrequencyMonthly,
		"interest_method":     MethodReducing,
		"reduce_emi":          true,
		"emi_to_income_ratio": 0.4,
		"tax_slab":            30.0,
		"is_first_time_buyer": false,
		"is_self_occupied":    true,
		"loan_type":           LoanTypeHome,
	}
}

// HydrateProfile layers raw stored values over the defaults, coercing
// string-valued numerics to float64. Empty and nil entries are skipped;
// a string that does not parse as a number is kept as-is.
func HydrateProfile(raw map[string]interface{}) LoanProfile {
	p := DefaultProfile()
	for key, value := range raw {
		switch v := value.(type) {
		case nil:
			continue
		case string:
			if v == "" {
				continue
			}
			if n, err := strconv.ParseFloat(v, 64); err == nil {
				p[key] = n
			} else {
				p[key] = v
			}
		case json.Number:
			if n, err := v.Float64(); err == nil {
				p[key] = n
			}
		default:
			p[key] = value
		}
	}
	return p
}

// ParseProfile decodes a stored JSON blob. Malformed JSON yields the
// default profile rather than an error; corruption is never fatal to the
// conversation.
func ParseProfile(data []byte) LoanProfile {
	if len(data) == 0 {
		return DefaultProfile()
	}
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return DefaultProfile()
	}
	return HydrateProfile(raw)
}

// Clone returns a shallow copy. The payload of a dialog turn starts as a
// clone so in-turn mutation never leaks into the stored profile.
func (p LoanProfile) Clone() LoanProfile {
	out := make(LoanProfile, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Number reads a numeric field. Absent or non-numeric values report false.
func (p LoanProfile) Number(key string) (float64, bool) {
	switch v := p[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case json.Number:
		n, err := v.Float64()
		return n, err == nil
	default:
		return 0, false
	}
}

// NumberOr reads a numeric field with a fallback.
func (p LoanProfile) NumberOr(key string, fallback float64) float64 {
	if v, ok := p.Number(key); ok {
		return v
	}
	return fallback
}

// StringOr reads a string field with a fallback.
func (p LoanProfile) StringOr(key, fallback string) string {
	if v, ok := p[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

// BoolOr reads a boolean field with a fallback.
func (p LoanProfile) BoolOr(key string, fallback bool) bool {
	if v, ok := p[key].(bool); ok {
		return v
	}
	return fallback
}

// MergeNumbers writes the given numeric fields into the profile. Fields
// already present are overwritten; nothing is ever cleared.
func (p LoanProfile) MergeNumbers(fields map[string]float64) {
	for k, v := range fields {
		p[k] = v
	}
}
