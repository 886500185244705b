// internal/payload/builder.go
package payload

import (
	"strings"

	"loan-clarity-resolver/internal/intent"
	"loan-clarity-resolver/internal/models"
	"loan-clarity-resolver/internal/nlu"
)

// Defaults applied only on the zero-argument path, never to satisfy a
// required slot (those demand explicit completeness before building).
const (
	DefaultPrincipal   = 3_000_000.0
	DefaultAnnualRate  = 9.5
	DefaultTenureYears = 20.0
	DefaultTaxSlab     = 30.0
)

// Build assembles the gateway request body for an intent from the merged
// payload and the current utterance. Building never fails: absent optional
// fields fall back to documented defaults.
func Build(in intent.Intent, p models.LoanProfile, utterance string) map[string]interface{} {
	lower := strings.ToLower(utterance)

	switch in {
	case intent.Eligibility:
		return eligibilityBody(p)
	case intent.Affordability:
		body := eligibilityBody(p)
		body["desired_loan_amount"] = p.NumberOr("desired_loan_amount", 0)
		return body
	case intent.Compare:
		return compareBody(p, utterance)
	}

	body := baseLoanBody(p, utterance)

	switch in {
	case intent.Schedule:
		body["start_date"] = nil
	case intent.Outstanding:
		body["payments_made"] = p.NumberOr("payments_made", 0)
	case intent.Settlement:
		body["payments_made"] = p.NumberOr("payments_made", 0)
		body["prepayment_charges"] = p.NumberOr("prepayment_charges", 0)
	case intent.Prepayment:
		body["payments_made"] = p.NumberOr("payments_made", 0)
		body["prepayment_amount"] = p.NumberOr("prepayment_amount", 0)
		body["reduce_emi"] = deriveReduceEMI(lower)
	case intent.ModifyEMI:
		body["new_emi"] = p.NumberOr("new_emi", 0)
	case intent.ModifyTenure:
		body["new_tenure_years"] = p.NumberOr("new_tenure_years", 0)
	case intent.EffectiveRate:
		body["processing_fee"] = optionalCharge(p, utterance, "processing_fee")
		body["other_charges"] = optionalCharge(p, utterance, "other_charges")
	case intent.Tax:
		body["loan_type"] = deriveLoanType(lower)
		body["tax_slab"] = deriveTaxSlab(p, utterance)
		body["is_first_time_buyer"] = strings.Contains(lower, "first")
		body["is_self_occupied"] = !strings.Contains(lower, "rented")
	}

	return body
}

// baseLoanBody carries the fields shared by every loan-shaped request.
// Frequency and interest method come from the utterance when explicitly
// mentioned, otherwise from the remembered profile.
func baseLoanBody(p models.LoanProfile, utterance string) map[string]interface{} {
	frequency := p.StringOr("repayment_frequency", models.FrequencyMonthly)
	if f, explicit := nlu.ExtractFrequency(utterance); explicit {
		frequency = f
	}
	method := p.StringOr("interest_method", models.MethodReducing)
	if m, explicit := nlu.ExtractInterestMethod(utterance); explicit {
		method = m
	}

	return map[string]interface{}{
		"principal":           p.NumberOr("principal", DefaultPrincipal),
		"annual_rate":         p.NumberOr("annual_rate", DefaultAnnualRate),
		"tenure_years":        p.NumberOr("tenure_years", DefaultTenureYears),
		"repayment_frequency": frequency,
		"interest_method":     method,
	}
}

// eligibilityBody builds from the full merged payload, so fields like
// monthly_income remembered from earlier turns are always carried.
func eligibilityBody(p models.LoanProfile) map[string]interface{} {
	return map[string]interface{}{
		"monthly_income":      p.NumberOr("monthly_income", 0),
		"annual_rate":         p.NumberOr("annual_rate", 0),
		"tenure_years":        p.NumberOr("tenure_years", 0),
		"repayment_frequency": models.FrequencyMonthly,
		"interest_method":     models.MethodReducing,
		"existing_emis":       p.NumberOr("existing_emis", 0),
		"emi_to_income_ratio": p.NumberOr("emi_to_income_ratio", 0.4),
	}
}

// compareBody builds a fixed pair of illustrative options parameterized
// by any extracted principal; comparison is never slot-filled.
func compareBody(p models.LoanProfile, utterance string) map[string]interface{} {
	principal, ok := nlu.ExtractAmount(utterance, "₹", "loan")
	if !ok {
		principal = p.NumberOr("principal", DefaultPrincipal)
	}
	option := func(name string, rate, tenure, fee float64) map[string]interface{} {
		return map[string]interface{}{
			"principal":           principal,
			"annual_rate":         rate,
			"tenure_years":        tenure,
			"repayment_frequency": models.FrequencyMonthly,
			"interest_method":     models.MethodReducing,
			"processing_fee":      fee,
			"loan_name":           name,
		}
	}
	return map[string]interface{}{
		"loan_options": []map[string]interface{}{
			option("Bank A (15Y)", 9.2, 15, 10000),
			option("Bank B (20Y)", 8.9, 20, 15000),
		},
	}
}

// deriveReduceEMI: mentioning tenure means the user wants the tenure cut
// instead of the EMI; "emi increase" is an explicit opt-out; prepayment
// reduces the EMI by default.
func deriveReduceEMI(lower string) bool {
	if strings.Contains(lower, "tenure") {
		return false
	}
	if strings.Contains(lower, "emi increase") {
		return false
	}
	return true
}

func deriveLoanType(lower string) string {
	switch {
	case strings.Contains(lower, "vehicle"):
		return models.LoanTypeVehicle
	case strings.Contains(lower, "personal"):
		return models.LoanTypePersonal
	default:
		return models.LoanTypeHome
	}
}

func deriveTaxSlab(p models.LoanProfile, utterance string) float64 {
	if slab, ok := p.Number("tax_slab"); ok && slab != 0 {
		return slab
	}
	if slab, ok := nlu.ExtractAmount(utterance, "slab", "tax"); ok {
		return slab
	}
	return DefaultTaxSlab
}

func optionalCharge(p models.LoanProfile, utterance, field string) float64 {
	if v, ok := nlu.ExtractField(field, utterance); ok {
		return v
	}
	return p.NumberOr(field, 0)
}
