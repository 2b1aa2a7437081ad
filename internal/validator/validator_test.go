package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRecord() map[string]any {
	return map[string]any{
		"customer_name":  "甲公司",
		"contact_person": "張三",
		"phone":          "03-1234567",
		"tax_id":         "12345678",
		"invoice_number": "INV-001",
		"invoice_date":   "2024-01-15",
		"invoice_type":   "三聯",
		"notes":          "",
		"items": []any{
			map[string]any{
				"name":       "網站維護",
				"quantity":   "1",
				"unit_price": "5000",
				"amount":     "",
			},
		},
	}
}

func TestValidate(t *testing.T) {
	t.Run("accepts a valid single record", func(t *testing.T) {
		assert.NoError(t, Validate(validRecord()))
	})

	t.Run("accepts a valid batch", func(t *testing.T) {
		assert.NoError(t, Validate([]any{validRecord(), validRecord()}))
	})

	t.Run("accepts an empty items list", func(t *testing.T) {
		rec := validRecord()
		rec["items"] = []any{}
		assert.NoError(t, Validate(rec))
	})

	t.Run("reports the first missing top-level field", func(t *testing.T) {
		rec := validRecord()
		delete(rec, "notes")

		err := Validate(rec)
		require.Error(t, err)

		var missing *MissingFieldError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, "notes", missing.Field)
	})

	t.Run("invoice_issue_date is optional", func(t *testing.T) {
		rec := validRecord()
		rec["invoice_issue_date"] = "2024-01-14"
		assert.NoError(t, Validate(rec))
	})

	t.Run("reports a missing item field", func(t *testing.T) {
		rec := validRecord()
		rec["items"] = []any{map[string]any{
			"name":     "網站維護",
			"quantity": "1",
			"amount":   "",
		}}

		err := Validate(rec)
		var missing *MissingFieldError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, "unit_price", missing.Field)
	})

	t.Run("rejects non-array items", func(t *testing.T) {
		rec := validRecord()
		rec["items"] = "not a list"
		assert.Error(t, Validate(rec))
	})

	t.Run("does not check numeric formats", func(t *testing.T) {
		rec := validRecord()
		rec["items"] = []any{map[string]any{
			"name":       "網站維護",
			"quantity":   "若干",
			"unit_price": "面議",
			"amount":     "not-a-number",
		}}
		assert.NoError(t, Validate(rec), "numeric coercion is the calculation engine's job")
	})

	t.Run("rejects an unexpected document shape", func(t *testing.T) {
		assert.Error(t, Validate("just a string"))
		assert.Error(t, Validate([]any{"not a record"}))
	})

	t.Run("a batch fails on the first offending record", func(t *testing.T) {
		bad := validRecord()
		delete(bad, "phone")

		err := Validate([]any{validRecord(), bad})
		var missing *MissingFieldError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, "phone", missing.Field)
	})
}

func TestValidateBytes(t *testing.T) {
	t.Run("validates raw JSON in either shape", func(t *testing.T) {
		assert.NoError(t, ValidateBytes([]byte(`[]`)))
		assert.Error(t, ValidateBytes([]byte(`{"customer_name": "甲公司"}`)))
	})

	t.Run("malformed JSON is a format error", func(t *testing.T) {
		assert.Error(t, ValidateBytes([]byte(`{`)))
	})
}
