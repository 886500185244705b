package payload

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loan-clarity-resolver/internal/intent"
	"loan-clarity-resolver/internal/models"
)

func fullProfile() models.LoanProfile {
	p := models.DefaultProfile()
	p.MergeNumbers(map[string]float64{
		"principal":    2500000,
		"annual_rate":  8.5,
		"tenure_years": 20,
	})
	return p
}

// ==========================================
// BASE BODY TESTS
// ==========================================

func TestBuildEMI(t *testing.T) {
	body := Build(intent.EMI, fullProfile(), "what is my emi")

	assert.InDelta(t, 2500000, body["principal"].(float64), 0.001)
	assert.InDelta(t, 8.5, body["annual_rate"].(float64), 0.001)
	assert.InDelta(t, 20, body["tenure_years"].(float64), 0.001)
	assert.Equal(t, models.FrequencyMonthly, body["repayment_frequency"])
	assert.Equal(t, models.MethodReducing, body["interest_method"])
}

func TestBuildDefaultsWhenProfileEmpty(t *testing.T) {
	body := Build(intent.EMI, models.DefaultProfile(), "emi please")

	assert.InDelta(t, DefaultPrincipal, body["principal"].(float64), 0.001)
	assert.InDelta(t, DefaultAnnualRate, body["annual_rate"].(float64), 0.001)
	assert.InDelta(t, DefaultTenureYears, body["tenure_years"].(float64), 0.001)
}

func TestBuildUtteranceOverridesFrequencyAndMethod(t *testing.T) {
	p := fullProfile()
	p["repayment_frequency"] = models.FrequencyMonthly
	p["interest_method"] = models.MethodReducing

	body := Build(intent.EMI, p, "use flat interest with quarterly payments")

	assert.Equal(t, models.FrequencyQuarterly, body["repayment_frequency"])
	assert.Equal(t, models.MethodFlat, body["interest_method"])

	// Without an explicit mention the remembered profile wins.
	p["repayment_frequency"] = models.FrequencyAnnually
	body = Build(intent.EMI, p, "what is my emi")
	assert.Equal(t, models.FrequencyAnnually, body["repayment_frequency"])
}

// ==========================================
// PER-INTENT EXTRAS TESTS
// ==========================================

func TestBuildSchedule(t *testing.T) {
	body := Build(intent.Schedule, fullProfile(), "show the schedule")
	assert.Contains(t, body, "start_date")
	assert.Nil(t, body["start_date"])
}

func TestBuildOutstanding(t *testing.T) {
	p := fullProfile()
	p["payments_made"] = 24.0

	body := Build(intent.Outstanding, p, "outstanding balance")
	assert.InDelta(t, 24, body["payments_made"].(float64), 0.001)
}

func TestBuildSettlement(t *testing.T) {
	p := fullProfile()
	p["payments_made"] = 36.0

	body := Build(intent.Settlement, p, "foreclose my loan")
	assert.InDelta(t, 36, body["payments_made"].(float64), 0.001)
	assert.InDelta(t, 0, body["prepayment_charges"].(float64), 0.001)
}

func TestBuildPrepaymentReduceEMI(t *testing.T) {
	p := fullProfile()
	p["payments_made"] = 12.0
	p["prepayment_amount"] = 200000.0

	tests := []struct {
		name      string
		utterance string
		reduceEMI bool
	}{
		{"default reduces emi", "prepayment of 2 lakh", true},
		{"tenure mention reduces tenure instead", "prepayment of 2 lakh, cut the tenure", false},
		{"explicit emi increase opt-out", "prepayment with emi increase", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := Build(intent.Prepayment, p, tt.utterance)
			assert.Equal(t, tt.reduceEMI, body["reduce_emi"])
			assert.InDelta(t, 200000, body["prepayment_amount"].(float64), 0.001)
		})
	}
}

func TestBuildModify(t *testing.T) {
	p := fullProfile()
	p["new_emi"] = 35000.0
	body := Build(intent.ModifyEMI, p, "change emi")
	assert.InDelta(t, 35000, body["new_emi"].(float64), 0.001)

	p = fullProfile()
	p["new_tenure_years"] = 12.0
	body = Build(intent.ModifyTenure, p, "change tenure")
	assert.InDelta(t, 12, body["new_tenure_years"].(float64), 0.001)
}

func TestBuildEffectiveRate(t *testing.T) {
	p := fullProfile()
	body := Build(intent.EffectiveRate, p, "effective rate with processing fee of 10000")

	assert.InDelta(t, 10000, body["processing_fee"].(float64), 0.001)
	assert.InDelta(t, 0, body["other_charges"].(float64), 0.001)
}

func TestBuildTax(t *testing.T) {
	body := Build(intent.Tax, fullProfile(), "tax benefits for my first vehicle loan, rented out")

	assert.Equal(t, models.LoanTypeVehicle, body["loan_type"])
	assert.InDelta(t, 30.0, body["tax_slab"].(float64), 0.001)
	assert.Equal(t, true, body["is_first_time_buyer"])
	assert.Equal(t, false, body["is_self_occupied"])

	body = Build(intent.Tax, fullProfile(), "tax benefits on my home loan")
	assert.Equal(t, models.LoanTypeHome, body["loan_type"])
	assert.Equal(t, false, body["is_first_time_buyer"])
	assert.Equal(t, true, body["is_self_occupied"])
}

// ==========================================
// ELIGIBILITY / AFFORDABILITY / COMPARE TESTS
// ==========================================

func TestBuildEligibilityUsesFullMerge(t *testing.T) {
	p := fullProfile()
	p.MergeNumbers(map[string]float64{
		"monthly_income": 120000,
		"existing_emis":  15000,
	})

	body := Build(intent.Eligibility, p, "check my eligibility")

	assert.InDelta(t, 120000, body["monthly_income"].(float64), 0.001)
	assert.InDelta(t, 8.5, body["annual_rate"].(float64), 0.001)
	assert.InDelta(t, 20, body["tenure_years"].(float64), 0.001)
	assert.InDelta(t, 15000, body["existing_emis"].(float64), 0.001)
	assert.InDelta(t, 0.4, body["emi_to_income_ratio"].(float64), 0.001)
}

func TestBuildAffordability(t *testing.T) {
	p := fullProfile()
	p.MergeNumbers(map[string]float64{
		"monthly_income":      120000,
		"desired_loan_amount": 5000000,
	})

	body := Build(intent.Affordability, p, "can I afford this")

	assert.InDelta(t, 5000000, body["desired_loan_amount"].(float64), 0.001)
	assert.InDelta(t, 120000, body["monthly_income"].(float64), 0.001)
}

func TestBuildCompare(t *testing.T) {
	body := Build(intent.Compare, models.DefaultProfile(), "compare loan of 40 lakh")

	options, ok := body["loan_options"].([]map[string]interface{})
	require.True(t, ok)
	require.Len(t, options, 2)

	// Extracted principal parameterizes both options.
	assert.InDelta(t, 4000000, options[0]["principal"].(float64), 0.001)
	assert.InDelta(t, 4000000, options[1]["principal"].(float64), 0.001)
	assert.Equal(t, "Bank A (15Y)", options[0]["loan_name"])
	assert.Equal(t, "Bank B (20Y)", options[1]["loan_name"])
	assert.InDelta(t, 9.2, options[0]["annual_rate"].(float64), 0.001)
	assert.InDelta(t, 8.9, options[1]["annual_rate"].(float64), 0.001)
}

func TestBuildCompareFallsBackToProfile(t *testing.T) {
	p := models.DefaultProfile()
	p["principal"] = 2000000.0

	body := Build(intent.Compare, p, "compare offers")
	options := body["loan_options"].([]map[string]interface{})
	assert.InDelta(t, 2000000, options[0]["principal"].(float64), 0.001)
}
