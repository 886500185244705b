// internal/intent/schema.go
package intent

// Slot schema: the fixed required-field set per intent, in prompt order.
// loan_options is a list populated by the payload builder, not slot-filled,
// so Compare has no required fields here.
var requiredFields = map[Intent][]string{
	EMI:           {"principal", "annual_rate", "tenure_years"},
	Schedule:      {"principal", "annual_rate", "tenure_years"},
	Outstanding:   {"principal", "annual_rate", "tenure_years", "payments_made"},
	Prepayment:    {"principal", "annual_rate", "tenure_years", "payments_made", "prepayment_amount"},
	Settlement:    {"principal", "annual_rate", "tenure_years", "payments_made"},
	ModifyEMI:     {"principal", "annual_rate", "tenure_years", "new_emi"},
	ModifyTenure:  {"principal", "annual_rate", "tenure_years", "new_tenure_years"},
	Compare:       {},
	Tax:           {"principal", "annual_rate", "tenure_years"},
	Eligibility:   {"monthly_income", "annual_rate", "tenure_years"},
	Affordability: {"desired_loan_amount", "monthly_income", "annual_rate", "tenure_years"},
	EffectiveRate: {"principal", "annual_rate", "tenure_years"},
}

var defaultFields = []string{"principal", "annual_rate", "tenure_years"}

// RequiredFields returns the slot fields an intent needs before dispatch.
// The returned slice must not be mutated.
func RequiredFields(i Intent) []string {
	if fields, ok := requiredFields[i]; ok {
		return fields
	}
	return defaultFields
}
