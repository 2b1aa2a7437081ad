package calc

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/weihung-tw/billingen/internal/models"
)

// taxRate is the Taiwanese business tax rate (營業稅 5%).
var taxRate = decimal.RequireFromString("0.05")

// monthQuantityPattern matches a bare month count such as "3 月",
// which is rewritten to "3個月" for display.
var monthQuantityPattern = regexp.MustCompile(`^\s*(\d+)\s*月\s*$`)

// TaxIncludedNote is attached to two-part invoices: the subtotal already
// includes tax, so no separate tax line is computed.
const TaxIncludedNote = "已包含"

// ParseDecimal parses a decimal-formatted string. It is a total function:
// the second return value tells a parse failure apart from a valid zero, and
// callers decide explicitly whether to default to zero.
func ParseDecimal(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// Totals holds the monetary totals of one billing statement.
type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// BatchSummary aggregates totals across a batch of records. The tax here is
// a flat 5% of the grand total regardless of each record's invoice type,
// which intentionally differs from the per-record policy.
type BatchSummary struct {
	InvoiceCount int
	TotalItems   int
	TotalAmount  decimal.Decimal
	TaxAmount    decimal.Decimal
	FinalTotal   decimal.Decimal
}

// PreparedItem is a line item augmented with the derived amount and the
// display form of its quantity.
type PreparedItem struct {
	Name            string
	Quantity        string
	DisplayQuantity string
	UnitPrice       string
	Amount          string
}

// PreparedInvoice is the render-ready view of a record. It is built fresh
// from the canonical record, which is never mutated.
type PreparedInvoice struct {
	CustomerName     string
	ContactPerson    string
	Phone            string
	TaxID            string
	InvoiceNumber    string
	InvoiceDate      string // billing date, always the current processing date
	InvoiceIssueDate string
	InvoiceType      string
	Notes            string
	Items            []PreparedItem
	Totals           Totals
	TaxNote          string
}

// Engine derives line-item amounts and computes totals.
type Engine struct {
	logger *zap.Logger
	now    func() time.Time
}

// NewEngine creates a new calculation engine.
func NewEngine(logger *zap.Logger) *Engine {
	return &Engine{
		logger: logger,
		now:    time.Now,
	}
}

// ItemAmount resolves the amount of one line item. A non-empty amount is
// trusted verbatim. Otherwise the amount is quantity × unit price, rounded
// to an integer string; it is empty when the product is not positive or when
// either operand does not parse.
func (e *Engine) ItemAmount(item models.LineItem) string {
	if strings.TrimSpace(item.Amount) != "" {
		return item.Amount
	}

	qty, qtyOK := ParseDecimal(numericPart(item.Quantity))
	price, priceOK := ParseDecimal(item.UnitPrice)
	if !qtyOK || !priceOK {
		e.logger.Debug("Item amount not derivable, defaulting to empty",
			zap.String("item", item.Name),
			zap.String("quantity", item.Quantity),
			zap.String("unit_price", item.UnitPrice))
		return ""
	}

	amount := qty.Mul(price).Round(0)
	if amount.Sign() <= 0 {
		return ""
	}
	return amount.String()
}

// Totals sums the parsable item amounts and applies the invoice-type tax
// policy: 三聯 adds 5% business tax, everything else is untaxed.
func (e *Engine) Totals(items []PreparedItem, invoiceType string) Totals {
	subtotal := decimal.Zero
	for _, item := range items {
		amount, ok := ParseDecimal(item.Amount)
		if !ok {
			continue
		}
		subtotal = subtotal.Add(amount)
	}

	totals := Totals{Subtotal: subtotal}
	if invoiceType == models.InvoiceTypeTriplicate {
		totals.Tax = subtotal.Mul(taxRate)
		totals.Total = subtotal.Add(totals.Tax)
	} else {
		totals.Tax = decimal.Zero
		totals.Total = subtotal
	}
	return totals
}

// Prepare builds the render-ready view of a record: derived item amounts,
// display quantities, totals under the record's invoice type, and the
// billing date stamped with the current processing date.
func (e *Engine) Prepare(rec models.Record) PreparedInvoice {
	items := make([]PreparedItem, 0, len(rec.Items))
	for _, item := range rec.Items {
		items = append(items, PreparedItem{
			Name:            item.Name,
			Quantity:        item.Quantity,
			DisplayQuantity: displayQuantity(item.Quantity),
			UnitPrice:       item.UnitPrice,
			Amount:          e.ItemAmount(item),
		})
	}

	prepared := PreparedInvoice{
		CustomerName:     rec.CustomerName,
		ContactPerson:    rec.ContactPerson,
		Phone:            rec.Phone,
		TaxID:            rec.TaxID,
		InvoiceNumber:    rec.InvoiceNumber,
		InvoiceDate:      e.now().Format("2006-01-02"),
		InvoiceIssueDate: rec.InvoiceIssueDate,
		InvoiceType:      rec.InvoiceType,
		Notes:            rec.Notes,
		Items:            items,
		Totals:           e.Totals(items, rec.InvoiceType),
	}
	if rec.InvoiceType == models.InvoiceTypeDuplicate {
		prepared.TaxNote = TaxIncludedNote
	}
	return prepared
}

// Summarize aggregates a batch: total item count, the sum of every record's
// item amounts, and a flat 5% tax on that sum regardless of invoice type.
func (e *Engine) Summarize(records []models.Record) BatchSummary {
	summary := BatchSummary{InvoiceCount: len(records)}

	total := decimal.Zero
	for _, rec := range records {
		summary.TotalItems += len(rec.Items)
		for _, item := range rec.Items {
			amount, ok := ParseDecimal(e.ItemAmount(item))
			if !ok {
				continue
			}
			total = total.Add(amount)
		}
	}

	summary.TotalAmount = total
	summary.TaxAmount = total.Mul(taxRate)
	summary.FinalTotal = total.Add(summary.TaxAmount)
	return summary
}

// displayQuantity rewrites a bare month count ("3 月") to "3個月" for
// presentation. The value used for calculation is unaffected.
func displayQuantity(quantity string) string {
	if m := monthQuantityPattern.FindStringSubmatch(quantity); m != nil {
		return m[1] + "個月"
	}
	return quantity
}

// numericPart keeps only digit and decimal-point characters, discarding any
// unit text such as "2 months" or "3 月".
func numericPart(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
