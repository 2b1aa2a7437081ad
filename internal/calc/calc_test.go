package calc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/weihung-tw/billingen/internal/models"
)

func newTestEngine() *Engine {
	e := NewEngine(zap.NewNop())
	e.now = func() time.Time {
		return time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	}
	return e
}

func TestParseDecimal(t *testing.T) {
	t.Run("parses plain decimals", func(t *testing.T) {
		d, ok := ParseDecimal("1234.5")
		require.True(t, ok)
		assert.Equal(t, "1234.5", d.String())
	})

	t.Run("distinguishes parse failure from valid zero", func(t *testing.T) {
		d, ok := ParseDecimal("0")
		require.True(t, ok)
		assert.True(t, d.IsZero())

		_, ok = ParseDecimal("abc")
		assert.False(t, ok)

		_, ok = ParseDecimal("")
		assert.False(t, ok)
	})
}

func TestEngine_ItemAmount(t *testing.T) {
	e := newTestEngine()

	t.Run("non-empty amount is used verbatim", func(t *testing.T) {
		item := models.LineItem{Name: "主機代管", Quantity: "2", UnitPrice: "1000", Amount: "999"}
		assert.Equal(t, "999", e.ItemAmount(item))
	})

	t.Run("derives amount from quantity and unit price", func(t *testing.T) {
		item := models.LineItem{Name: "網站維護", Quantity: "2", UnitPrice: "1500"}
		assert.Equal(t, "3000", e.ItemAmount(item))
	})

	t.Run("discards trailing unit text in quantity", func(t *testing.T) {
		item := models.LineItem{Name: "雲端空間", Quantity: "2 months", UnitPrice: "800"}
		assert.Equal(t, "1600", e.ItemAmount(item))
	})

	t.Run("month-count quantity calculates on the digits", func(t *testing.T) {
		item := models.LineItem{Name: "網域託管", Quantity: "3 月", UnitPrice: "1000"}
		assert.Equal(t, "3000", e.ItemAmount(item))
	})

	t.Run("unparsable operand yields empty amount", func(t *testing.T) {
		assert.Equal(t, "", e.ItemAmount(models.LineItem{Name: "a", Quantity: "若干", UnitPrice: "100"}))
		assert.Equal(t, "", e.ItemAmount(models.LineItem{Name: "b", Quantity: "2", UnitPrice: "面議"}))
	})

	t.Run("zero product yields empty amount", func(t *testing.T) {
		item := models.LineItem{Name: "c", Quantity: "0", UnitPrice: "100"}
		assert.Equal(t, "", e.ItemAmount(item))
	})
}

func TestDisplayQuantity(t *testing.T) {
	assert.Equal(t, "3個月", displayQuantity("3 月"))
	assert.Equal(t, "12個月", displayQuantity(" 12月 "))
	assert.Equal(t, "3 個月", displayQuantity("3 個月"))
	assert.Equal(t, "2 months", displayQuantity("2 months"))
	assert.Equal(t, "5", displayQuantity("5"))
}

func TestEngine_Totals(t *testing.T) {
	e := newTestEngine()

	items := []PreparedItem{
		{Name: "a", Amount: "1000"},
		{Name: "b", Amount: "2500"},
		{Name: "c", Amount: ""}, // contributes 0, no error
	}

	t.Run("triplicate invoice adds 5% business tax", func(t *testing.T) {
		totals := e.Totals(items, models.InvoiceTypeTriplicate)
		assert.Equal(t, "3500", totals.Subtotal.String())
		assert.Equal(t, "175", totals.Tax.StringFixed(0))
		assert.Equal(t, "3675", totals.Total.StringFixed(0))
	})

	t.Run("duplicate invoice is untaxed", func(t *testing.T) {
		totals := e.Totals(items, models.InvoiceTypeDuplicate)
		assert.Equal(t, "3500", totals.Subtotal.String())
		assert.True(t, totals.Tax.IsZero())
		assert.True(t, totals.Total.Equal(totals.Subtotal))
	})

	t.Run("unknown or empty type is untaxed", func(t *testing.T) {
		totals := e.Totals(items, "")
		assert.True(t, totals.Tax.IsZero())
		assert.Equal(t, "3500", totals.Total.String())
	})
}

func TestEngine_Prepare(t *testing.T) {
	e := newTestEngine()

	rec := models.Record{
		CustomerName:     "測試公司",
		ContactPerson:    "王小明",
		Phone:            "03-1234567",
		TaxID:            "12345678",
		InvoiceNumber:    "INV-100",
		InvoiceDate:      "2023-12-31", // source value, replaced at prepare time
		InvoiceIssueDate: "2024-02-28",
		InvoiceType:      models.InvoiceTypeDuplicate,
		Notes:            "測試",
		Items: []models.LineItem{
			{Name: "網域託管", Quantity: "3 月", UnitPrice: "1000"},
		},
	}

	prepared := e.Prepare(rec)

	t.Run("billing date is the processing date, not the source value", func(t *testing.T) {
		assert.Equal(t, "2024-03-01", prepared.InvoiceDate)
		assert.Equal(t, "2024-02-28", prepared.InvoiceIssueDate)
	})

	t.Run("items carry derived amount and display quantity", func(t *testing.T) {
		require.Len(t, prepared.Items, 1)
		assert.Equal(t, "3000", prepared.Items[0].Amount)
		assert.Equal(t, "3個月", prepared.Items[0].DisplayQuantity)
		assert.Equal(t, "3 月", prepared.Items[0].Quantity)
	})

	t.Run("duplicate invoice carries the tax-included note", func(t *testing.T) {
		assert.Equal(t, TaxIncludedNote, prepared.TaxNote)
		assert.True(t, prepared.Totals.Tax.IsZero())
	})

	t.Run("canonical record is not mutated", func(t *testing.T) {
		assert.Equal(t, "2023-12-31", rec.InvoiceDate)
		assert.Equal(t, "", rec.Items[0].Amount)
	})
}

func TestEngine_Summarize(t *testing.T) {
	e := newTestEngine()

	records := []models.Record{
		{
			InvoiceType: models.InvoiceTypeTriplicate,
			Items:       []models.LineItem{{Name: "a", Amount: "1000"}},
		},
		{
			InvoiceType: models.InvoiceTypeDuplicate,
			Items: []models.LineItem{
				{Name: "b", Amount: "1500"},
				{Name: "c", Quantity: "1", UnitPrice: "500"}, // derived
			},
		},
		{
			InvoiceType: "",
			Items:       []models.LineItem{{Name: "d", Amount: "500"}},
		},
	}

	summary := e.Summarize(records)

	// Flat 5% at the aggregate level, regardless of each record's type.
	assert.Equal(t, 3, summary.InvoiceCount)
	assert.Equal(t, 4, summary.TotalItems)
	assert.Equal(t, "3500", summary.TotalAmount.StringFixed(0))
	assert.Equal(t, "175", summary.TaxAmount.StringFixed(0))
	assert.Equal(t, "3675", summary.FinalTotal.StringFixed(0))
}
