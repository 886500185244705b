package nlu

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"loan-clarity-resolver/internal/models"
)

// ==========================================
// AMOUNT NORMALIZATION TESTS
// ==========================================

func TestNormalizeAmount(t *testing.T) {
	tests := []struct {
		name      string
		rawDigits string
		unit      string
		expected  float64
		ok        bool
	}{
		{"plain number", "500000", "", 500000, true},
		{"thousands separators stripped", "25,00,000", "", 2500000, true},
		{"lakh suffix", "25", "lakh", 2500000, true},
		{"lakhs suffix", "2.5", "lakhs", 250000, true},
		{"short l suffix", "30", "l", 3000000, true},
		{"lac suffix", "5", "lac", 500000, true},
		{"crore suffix", "1.2", "crore", 12000000, true},
		{"cr suffix", "2", "cr", 20000000, true},
		{"uppercase unit", "25", "LAKH", 2500000, true},
		{"unknown unit left unscaled", "25", "dollars", 25, true},
		{"decimal value", "12.75", "", 12.75, true},
		{"empty digits", "", "", 0, false},
		{"non numeric", "abc", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, ok := NormalizeAmount(tt.rawDigits, tt.unit)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.expected, value, 0.001)
			}
		})
	}
}

// ==========================================
// AMOUNT EXTRACTION TESTS
// ==========================================

func TestExtractAmount(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		keywords []string
		expected float64
		ok       bool
	}{
		{
			name:     "keyword then amount with lakh",
			input:    "I have a loan of 25 lakh",
			keywords: []string{"loan"},
			expected: 2500000,
			ok:       true,
		},
		{
			name:     "currency marker between keyword and amount",
			input:    "principal of ₹50,00,000",
			keywords: []string{"principal"},
			expected: 5000000,
			ok:       true,
		},
		{
			name:     "rs marker",
			input:    "loan rs. 300000",
			keywords: []string{"loan"},
			expected: 300000,
			ok:       true,
		},
		{
			name:     "first matching keyword wins",
			input:    "principal 10 lakh and income 50000",
			keywords: []string{"principal", "income"},
			expected: 1000000,
			ok:       true,
		},
		{
			name:     "later keyword used when first absent",
			input:    "my income is 75000",
			keywords: []string{"salary", "income"},
			expected: 75000,
			ok:       true,
		},
		{
			name:     "crore amount",
			input:    "loan of 1.5 crore",
			keywords: []string{"loan"},
			expected: 15000000,
			ok:       true,
		},
		{
			name:     "no keyword match",
			input:    "hello there",
			keywords: []string{"loan"},
			ok:       false,
		},
		{
			name:     "keyword without amount",
			input:    "tell me about my loan",
			keywords: []string{"loan"},
			ok:       false,
		},
		{
			name:     "zero treated as absent",
			input:    "loan of 0",
			keywords: []string{"loan"},
			ok:       false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, ok := ExtractAmount(tt.input, tt.keywords...)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.expected, value, 0.001)
			}
		})
	}
}

// ==========================================
// RATE / TENURE / PAYMENTS TESTS
// ==========================================

func TestExtractRate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected float64
		ok       bool
	}{
		{"whole percent", "at 9% interest", 9, true},
		{"decimal percent", "rate is 8.5%", 8.5, true},
		{"space before percent", "10 %", 10, true},
		{"no percent sign", "rate of 9", 0, false},
		{"zero rate absent", "0%", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, ok := ExtractRate(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.expected, value, 0.001)
			}
		})
	}
}

func TestExtractYears(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected float64
		ok       bool
	}{
		{"years word", "for 20 years", 20, true},
		{"yrs abbreviation", "15 yrs", 15, true},
		{"single y", "10 y", 10, true},
		{"case insensitive", "25 YEARS", 25, true},
		{"no tenure", "tell me my emi", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, ok := ExtractYears(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.expected, value, 0.001)
			}
		})
	}
}

func TestExtractPayments(t *testing.T) {
	value, ok := ExtractPayments("I have made 24 payments so far")
	assert.True(t, ok)
	assert.InDelta(t, 24.0, value, 0.001)

	value, ok = ExtractPayments("paid 36 months already")
	assert.True(t, ok)
	assert.InDelta(t, 36.0, value, 0.001)

	_, ok = ExtractPayments("no installment count here")
	assert.False(t, ok)
}

// ==========================================
// FREQUENCY / METHOD TESTS
// ==========================================

func TestExtractFrequency(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		explicit bool
	}{
		{"quarterly mention", "pay quarterly", models.FrequencyQuarterly, true},
		{"annual mention", "annual payments", models.FrequencyAnnually, true},
		{"yearly mention", "yearly installments", models.FrequencyAnnually, true},
		{"no mention defaults monthly", "calculate my emi", models.FrequencyMonthly, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			freq, explicit := ExtractFrequency(tt.input)
			assert.Equal(t, tt.expected, freq)
			assert.Equal(t, tt.explicit, explicit)
		})
	}
}

func TestExtractInterestMethod(t *testing.T) {
	method, explicit := ExtractInterestMethod("use FLAT interest")
	assert.Equal(t, models.MethodFlat, method)
	assert.True(t, explicit)

	method, explicit = ExtractInterestMethod("calculate my emi")
	assert.Equal(t, models.MethodReducing, method)
	assert.False(t, explicit)
}

// ==========================================
// FIELD DISPATCH TESTS
// ==========================================

func TestExtractField(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		input    string
		expected float64
		ok       bool
	}{
		{"annual_rate routes to rate", "annual_rate", "at 8.5%", 8.5, true},
		{"tenure_years routes to years", "tenure_years", "for 20 years", 20, true},
		{"new_tenure_years routes to years", "new_tenure_years", "change to 12 years", 12, true},
		{"payments_made routes to payments", "payments_made", "24 payments done", 24, true},
		{"principal via keywords", "principal", "loan of 30 lakh", 3000000, true},
		{"monthly_income via keywords", "monthly_income", "my salary is 80,000", 80000, true},
		{"prepayment_amount via keywords", "prepayment_amount", "prepayment of 2 lakh", 200000, true},
		{"new_emi via keywords", "new_emi", "new emi of 35000", 35000, true},
		{"desired_loan_amount via keywords", "desired_loan_amount", "desired loan of 50 lakh", 5000000, true},
		{"unknown field reports absent", "loan_options", "compare loans", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, ok := ExtractField(tt.field, tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.expected, value, 0.001)
			}
		})
	}
}
