// internal/intent/intent.go
package intent

import "strings"

// Intent names one of the twelve loan-calculation operations.
type Intent string

const (
	EMI           Intent = "emi"
	Schedule      Intent = "schedule"
	Outstanding   Intent = "outstanding"
	Prepayment    Intent = "prepayment"
	Settlement    Intent = "settlement"
	ModifyEMI     Intent = "modify_emi"
	ModifyTenure  Intent = "modify_tenure"
	Compare       Intent = "compare"
	Tax           Intent = "tax"
	Eligibility   Intent = "eligibility"
	Affordability Intent = "affordability"
	EffectiveRate Intent = "effective_rate"
)

// None marks the absence of a pending intent.
const None Intent = ""

// rule pairs a keyword group with the intent it selects.
type rule struct {
	keywords []string
	intent   Intent
}

// rules is evaluated first-match-wins. The ordering is deliberate: more
// specific financial operations are checked before the generic EMI
// fallback, so "what's my outstanding balance" never lands on a plain
// EMI query.
var rules = []rule{
	{[]string{"prepayment", "pre-pay"}, Prepayment},
	{[]string{"early settlement", "foreclose"}, Settlement},
	{[]string{"modify tenure", "change tenure"}, ModifyTenure},
	{[]string{"modify emi", "change emi"}, ModifyEMI},
	{[]string{"compare"}, Compare},
	{[]string{"tax"}, Tax},
	{[]string{"eligibility"}, Eligibility},
	{[]string{"afford", "can i afford"}, Affordability},
	{[]string{"effective rate", "apr"}, EffectiveRate},
	{[]string{"schedule", "amortization"}, Schedule},
	{[]string{"outstanding", "balance"}, Outstanding},
}

// Classify maps an utterance to an intent. An active pending intent is
// authoritative and bypasses the keyword rules entirely, so a multi-turn
// slot-filling dialog cannot change topic mid-fill.
func Classify(utterance string, pending Intent) Intent {
	if pending != None {
		return pending
	}
	lower := strings.ToLower(utterance)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(lower, kw) {
				return r.intent
			}
		}
	}
	return EMI
}

// Valid reports whether s names a known intent.
func Valid(s string) bool {
	switch Intent(s) {
	case EMI, Schedule, Outstanding, Prepayment, Settlement, ModifyEMI,
		ModifyTenure, Compare, Tax, Eligibility, Affordability, EffectiveRate:
		return true
	}
	return false
}
