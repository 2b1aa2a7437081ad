package validator

import (
	"encoding/json"
	"fmt"
)

// recordFields are the top-level fields every interchange record must carry.
// invoice_issue_date is optional and deliberately absent from this list.
var recordFields = []string{
	"customer_name",
	"contact_person",
	"phone",
	"tax_id",
	"invoice_number",
	"invoice_date",
	"invoice_type",
	"notes",
	"items",
}

// itemFields are the fields every element of items must carry.
var itemFields = []string{"name", "quantity", "unit_price", "amount"}

// MissingFieldError reports the first required field absent from a record.
// Validation stops at the first offence; there is no partial repair.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}

// ValidateBytes decodes raw interchange JSON and validates its structure.
func ValidateBytes(data []byte) error {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse interchange data: %w", err)
	}
	return Validate(doc)
}

// Validate checks a decoded interchange document against the required-field
// contract. Both a single record object and a list of records are accepted.
// The check is structural only: field presence, never numeric format —
// numeric coercion failures are the calculation engine's defaulting rule.
func Validate(doc any) error {
	switch v := doc.(type) {
	case []any:
		for _, elem := range v {
			rec, ok := elem.(map[string]any)
			if !ok {
				return fmt.Errorf("batch element must be a record object")
			}
			if err := validateRecord(rec); err != nil {
				return err
			}
		}
		return nil
	case map[string]any:
		return validateRecord(v)
	default:
		return fmt.Errorf("document must be a record object or an array of record objects")
	}
}

func validateRecord(rec map[string]any) error {
	for _, field := range recordFields {
		if _, ok := rec[field]; !ok {
			return &MissingFieldError{Field: field}
		}
	}

	items, ok := rec["items"].([]any)
	if !ok {
		return fmt.Errorf("items must be an array")
	}
	for _, elem := range items {
		item, ok := elem.(map[string]any)
		if !ok {
			return fmt.Errorf("item must be an object")
		}
		for _, field := range itemFields {
			if _, ok := item[field]; !ok {
				return &MissingFieldError{Field: field}
			}
		}
	}
	return nil
}
