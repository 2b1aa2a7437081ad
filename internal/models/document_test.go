package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentJSON(t *testing.T) {
	rec := Record{
		CustomerName:  "甲公司",
		InvoiceNumber: "INV-001",
		Items:         []LineItem{{Name: "網站維護", Quantity: "1", UnitPrice: "5000"}},
	}

	t.Run("array decodes as a batch", func(t *testing.T) {
		var doc Document
		require.NoError(t, json.Unmarshal([]byte(`[{"customer_name":"甲公司","items":[]}]`), &doc))
		assert.Equal(t, 1, doc.Len())
		assert.False(t, doc.Single())
	})

	t.Run("object decodes as a single-record document", func(t *testing.T) {
		var doc Document
		require.NoError(t, json.Unmarshal([]byte(`{"customer_name":"甲公司","items":[]}`), &doc))
		assert.Equal(t, 1, doc.Len())
		assert.True(t, doc.Single())
	})

	t.Run("marshal preserves the wire shape", func(t *testing.T) {
		single, err := json.Marshal(NewSingle(rec))
		require.NoError(t, err)
		assert.Equal(t, byte('{'), single[0])

		batch, err := json.Marshal(NewBatch([]Record{rec}))
		require.NoError(t, err)
		assert.Equal(t, byte('['), batch[0])
	})

	t.Run("scalar JSON is rejected", func(t *testing.T) {
		var doc Document
		assert.Error(t, json.Unmarshal([]byte(`"nope"`), &doc))
	})

	t.Run("invoice_issue_date is omitted when empty", func(t *testing.T) {
		data, err := json.Marshal(rec)
		require.NoError(t, err)
		assert.NotContains(t, string(data), "invoice_issue_date")
	})
}
