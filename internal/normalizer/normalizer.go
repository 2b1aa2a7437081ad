package normalizer

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/weihung-tw/billingen/internal/models"
)

// Source column labels (fixed header contract).
const (
	labelCustomerName = "客戶名稱"
	labelContact      = "聯絡人"
	labelPhone        = "電話"
	labelTaxID        = "客戶統編"
	labelInvoiceNo    = "發票號碼"
	labelInvoiceDate  = "發票日期"
	labelInvoiceType  = "發票"
	labelNotes        = "備註"
	labelItem         = "品項"
	labelQuantity     = "數量"
	labelUnitPrice    = "單價"
)

// maxItemSlots is the number of fixed line-item positions in a source row.
const maxItemSlots = 4

// requiredHeaders are the columns every source table must carry. Slot 1 uses
// the base quantity/price labels; slots 2-4 use suffixed labels and are
// optional columns.
var requiredHeaders = []string{
	labelCustomerName,
	labelContact,
	labelPhone,
	labelTaxID,
	labelInvoiceNo,
	labelInvoiceDate,
	labelInvoiceType,
	labelNotes,
	labelItem + "1",
	labelQuantity,
	labelUnitPrice,
}

// Row is one raw source row keyed by column label.
type Row map[string]string

// Normalizer converts raw tabular rows into canonical records. It is
// permissive by design: absent fields default to empty strings, empty-name
// item slots are dropped silently, and no row is ever rejected. Structural
// problems are the validator's job, not this package's.
type Normalizer struct {
	logger *zap.Logger
}

// New creates a new record normalizer.
func New(logger *zap.Logger) *Normalizer {
	return &Normalizer{logger: logger}
}

// Normalize converts source rows into records, collapsing the four item
// slots to the populated ones in slot order.
func (n *Normalizer) Normalize(rows []Row) []models.Record {
	records := make([]models.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, n.normalizeRow(row))
	}
	return records
}

func (n *Normalizer) normalizeRow(row Row) models.Record {
	rec := models.Record{
		CustomerName:  strings.TrimSpace(row[labelCustomerName]),
		ContactPerson: strings.TrimSpace(row[labelContact]),
		Phone:         strings.TrimSpace(row[labelPhone]),
		TaxID:         strings.TrimSpace(row[labelTaxID]),
		InvoiceNumber: strings.TrimSpace(row[labelInvoiceNo]),
		InvoiceDate:   strings.TrimSpace(row[labelInvoiceDate]),
		InvoiceType:   strings.TrimSpace(row[labelInvoiceType]),
		Notes:         strings.TrimSpace(row[labelNotes]),
		Items:         make([]models.LineItem, 0, maxItemSlots),
	}

	for slot := 1; slot <= maxItemSlots; slot++ {
		nameKey := fmt.Sprintf("%s%d", labelItem, slot)
		quantityKey := labelQuantity
		unitPriceKey := labelUnitPrice
		if slot > 1 {
			quantityKey = fmt.Sprintf("%s%d", labelQuantity, slot)
			unitPriceKey = fmt.Sprintf("%s%d", labelUnitPrice, slot)
		}

		name := strings.TrimSpace(row[nameKey])
		if name == "" {
			continue
		}

		rec.Items = append(rec.Items, models.LineItem{
			Name:      name,
			Quantity:  strings.TrimSpace(row[quantityKey]),
			UnitPrice: strings.TrimSpace(row[unitPriceKey]),
			Amount:    "", // derived by the calculation engine
		})
	}

	return rec
}
