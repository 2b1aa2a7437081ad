package interchange

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/weihung-tw/billingen/internal/models"
	"github.com/weihung-tw/billingen/internal/validator"
)

// Load reads an interchange JSON file into a document. The raw structure is
// validated before decoding into the typed model, so a missing field is
// reported by name instead of silently zero-valued — validation is the gate
// between loading and any calculation.
func Load(path string) (models.Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return models.Document{}, fmt.Errorf("failed to read interchange file: %w", err)
	}

	if err := validator.ValidateBytes(raw); err != nil {
		return models.Document{}, err
	}

	var doc models.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return models.Document{}, fmt.Errorf("failed to decode interchange file: %w", err)
	}
	return doc, nil
}

// Save writes a document as pretty-printed UTF-8 JSON, overwriting any
// existing file at the path.
func Save(doc models.Document, path string) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode interchange data: %w", err)
	}
	data = append(data, '\n')

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write interchange file: %w", err)
	}
	return nil
}

// Sample returns a two-record sample batch, one per invoice type, for the
// sample entry point and for batch editing outside the pipeline.
func Sample() models.Document {
	return models.NewBatch([]models.Record{
		{
			CustomerName:     "範例公司A",
			ContactPerson:    "張三",
			Phone:            "03-1234567",
			TaxID:            "12345678",
			InvoiceNumber:    "INV-001",
			InvoiceDate:      "2024-01-15",
			InvoiceIssueDate: "2024-01-14",
			InvoiceType:      models.InvoiceTypeDuplicate,
			Notes:            "範例備註",
			Items: []models.LineItem{
				{Name: "範例品項1", Quantity: "1", UnitPrice: "1000", Amount: "1000"},
				{Name: "範例品項2", Quantity: "2", UnitPrice: "500", Amount: "1000"},
			},
		},
		{
			CustomerName:     "範例公司B",
			ContactPerson:    "李四",
			Phone:            "03-7654321",
			TaxID:            "87654321",
			InvoiceNumber:    "INV-002",
			InvoiceDate:      "2024-01-16",
			InvoiceIssueDate: "2024-01-15",
			InvoiceType:      models.InvoiceTypeTriplicate,
			Notes:            "另一個範例",
			Items: []models.LineItem{
				{Name: "範例品項3", Quantity: "3", UnitPrice: "300", Amount: "900"},
			},
		},
	})
}
