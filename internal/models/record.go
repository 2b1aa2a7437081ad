package models

// Invoice type constants (發票種類)
const (
	InvoiceTypeTriplicate = "三聯" // three-part invoice, 5% business tax applies
	InvoiceTypeDuplicate  = "二聯" // two-part invoice, tax already included
)

// LineItem represents one billed item on a billing statement (品項)
type LineItem struct {
	Name      string `json:"name"`       // 品項名稱
	Quantity  string `json:"quantity"`   // 數量, may carry a unit suffix such as "3 月"
	UnitPrice string `json:"unit_price"` // 單價
	Amount    string `json:"amount"`     // 金額, empty until derived from quantity × unit price
}

// Record represents one billing statement's source data (請款單)
type Record struct {
	CustomerName     string     `json:"customer_name"`                // 客戶名稱
	ContactPerson    string     `json:"contact_person"`               // 聯絡人
	Phone            string     `json:"phone"`                        // 電話
	TaxID            string     `json:"tax_id"`                       // 客戶統編
	InvoiceNumber    string     `json:"invoice_number"`               // 發票號碼
	InvoiceDate      string     `json:"invoice_date"`                 // 發票日期 column; the billing date is system-assigned at render time
	InvoiceIssueDate string     `json:"invoice_issue_date,omitempty"` // optional caller-supplied issue date
	InvoiceType      string     `json:"invoice_type"`                 // 發票: 三聯 / 二聯 / empty
	Notes            string     `json:"notes"`                        // 備註
	Items            []LineItem `json:"items"`
}
