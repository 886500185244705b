package gateway

import (
	"fmt"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"loan-clarity-resolver/internal/common/errors"
	"loan-clarity-resolver/internal/intent"
)

// Request bodies are validated before dispatch so a malformed body is
// caught locally instead of as an opaque 422 from the gateway. The
// constraints mirror the gateway's own: positive principals, rates in
// [0, 100], whole-year tenures up to 50.

const loanCoreProperties = `
	"principal":           {"type": "number", "exclusiveMinimum": 0},
	"annual_rate":         {"type": "number", "minimum": 0, "maximum": 100},
	"tenure_years":        {"type": "number", "exclusiveMinimum": 0, "maximum": 50},
	"repayment_frequency": {"type": "string", "enum": ["monthly", "quarterly", "annually"]},
	"interest_method":     {"type": "string", "enum": ["reducing", "flat"]}
`

func loanSchema(extraProps string, extraRequired ...string) string {
	required := `"principal", "annual_rate", "tenure_years", "repayment_frequency", "interest_method"`
	for _, r := range extraRequired {
		required += fmt.Sprintf(", %q", r)
	}
	props := loanCoreProperties
	if extraProps != "" {
		props += ",\n" + extraProps
	}
	return fmt.Sprintf(`{
		"type": "object",
		"properties": {%s},
		"required": [%s]
	}`, props, required)
}

var schemaSources = map[intent.Intent]string{
	intent.EMI:      loanSchema(""),
	intent.Schedule: loanSchema(`"start_date": {"type": ["string", "null"]}`),
	intent.Outstanding: loanSchema(
		`"payments_made": {"type": "number", "minimum": 0}`,
		"payments_made",
	),
	intent.Prepayment: loanSchema(
		`"payments_made":     {"type": "number", "minimum": 0},
		 "prepayment_amount": {"type": "number", "exclusiveMinimum": 0},
		 "reduce_emi":        {"type": "boolean"}`,
		"payments_made", "prepayment_amount",
	),
	intent.Settlement: loanSchema(
		`"payments_made":      {"type": "number", "minimum": 0},
		 "prepayment_charges": {"type": "number", "minimum": 0}`,
		"payments_made",
	),
	intent.ModifyEMI: loanSchema(
		`"new_emi": {"type": "number", "exclusiveMinimum": 0}`,
		"new_emi",
	),
	intent.ModifyTenure: loanSchema(
		`"new_tenure_years": {"type": "number", "exclusiveMinimum": 0, "maximum": 50}`,
		"new_tenure_years",
	),
	intent.Tax: loanSchema(
		`"loan_type":           {"type": "string", "enum": ["home_loan", "vehicle_loan", "personal_loan"]},
		 "tax_slab":            {"type": "number", "minimum": 0, "maximum": 100},
		 "is_first_time_buyer": {"type": "boolean"},
		 "is_self_occupied":    {"type": "boolean"}`,
		"loan_type", "tax_slab",
	),
	intent.EffectiveRate: loanSchema(
		`"processing_fee": {"type": "number", "minimum": 0},
		 "other_charges":  {"type": "number", "minimum": 0}`,
	),
	intent.Eligibility: `{
		"type": "object",
		"properties": {
			"monthly_income":      {"type": "number", "exclusiveMinimum": 0},
			"annual_rate":         {"type": "number", "minimum": 0, "maximum": 100},
			"tenure_years":        {"type": "number", "exclusiveMinimum": 0, "maximum": 50},
			"repayment_frequency": {"type": "string"},
			"interest_method":     {"type": "string"},
			"existing_emis":       {"type": "number", "minimum": 0},
			"emi_to_income_ratio": {"type": "number", "exclusiveMinimum": 0, "maximum": 1}
		},
		"required": ["monthly_income", "annual_rate", "tenure_years"]
	}`,
	intent.Affordability: `{
		"type": "object",
		"properties": {
			"desired_loan_amount": {"type": "number", "exclusiveMinimum": 0},
			"monthly_income":      {"type": "number", "exclusiveMinimum": 0},
			"annual_rate":         {"type": "number", "minimum": 0, "maximum": 100},
			"tenure_years":        {"type": "number", "exclusiveMinimum": 0, "maximum": 50},
			"existing_emis":       {"type": "number", "minimum": 0},
			"emi_to_income_ratio": {"type": "number", "exclusiveMinimum": 0, "maximum": 1}
		},
		"required": ["desired_loan_amount", "monthly_income", "annual_rate", "tenure_years"]
	}`,
	intent.Compare: `{
		"type": "object",
		"properties": {
			"loan_options": {
				"type": "array",
				"minItems": 2,
				"items": {
					"type": "object",
					"properties": {
						"principal":    {"type": "number", "exclusiveMinimum": 0},
						"annual_rate":  {"type": "number", "minimum": 0, "maximum": 100},
						"tenure_years": {"type": "number", "exclusiveMinimum": 0, "maximum": 50},
						"loan_name":    {"type": "string"}
					},
					"required": ["principal", "annual_rate", "tenure_years"]
				}
			}
		},
		"required": ["loan_options"]
	}`,
}

var (
	schemaOnce     sync.Once
	compiledSchema map[intent.Intent]*gojsonschema.Schema
)

func compiledSchemas() map[intent.Intent]*gojsonschema.Schema {
	schemaOnce.Do(func() {
		compiledSchema = make(map[intent.Intent]*gojsonschema.Schema, len(schemaSources))
		for in, src := range schemaSources {
			schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
			if err != nil {
				panic(fmt.Sprintf("invalid request schema for %s: %v", in, err))
			}
			compiledSchema[in] = schema
		}
	})
	return compiledSchema
}

// Validate checks a request body against the endpoint's schema.
func Validate(in intent.Intent, body map[string]interface{}) error {
	schema, ok := compiledSchemas()[in]
	if !ok {
		return errors.NewInvalidRequestError(fmt.Sprintf("unknown intent %q", in))
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(body))
	if err != nil {
		return errors.NewInvalidRequestError(fmt.Sprintf("schema validation failed: %v", err))
	}
	if !result.Valid() {
		first := result.Errors()[0]
		return errors.NewInvalidRequestError(fmt.Sprintf("invalid request body: %s", first.String()))
	}
	return nil
}
