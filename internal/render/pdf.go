package render

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"

	"github.com/weihung-tw/billingen/internal/calc"
)

// PDFExporter writes prepared records as an A4 PDF, one page per record.
// It is a parallel output surface to the HTML artifact, drawing the same
// prepared data cell by cell.
type PDFExporter struct {
	fontPath string // TTF with CJK coverage; built-in Helvetica when empty
	logger   *zap.Logger
}

// NewPDFExporter creates a PDF exporter. fontPath may be empty, in which
// case the built-in Helvetica is used and CJK text will not render.
func NewPDFExporter(fontPath string, logger *zap.Logger) *PDFExporter {
	return &PDFExporter{fontPath: fontPath, logger: logger}
}

// Write renders the invoices into a single PDF at outputPath, overwriting
// any existing file.
func (p *PDFExporter) Write(invoices []calc.PreparedInvoice, outputPath string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")

	family := "Helvetica"
	if p.fontPath != "" {
		family = "statement"
		pdf.AddUTF8Font(family, "", p.fontPath)
		pdf.AddUTF8Font(family, "B", p.fontPath)
	} else {
		p.logger.Warn("No PDF font configured, CJK text will not render")
	}

	for _, inv := range invoices {
		p.drawPage(pdf, family, inv)
	}

	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := pdf.OutputFileAndClose(outputPath); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}

	p.logger.Info("PDF written",
		zap.String("output_path", outputPath),
		zap.Int("pages", len(invoices)))
	return nil
}

func (p *PDFExporter) drawPage(pdf *gofpdf.Fpdf, family string, inv calc.PreparedInvoice) {
	pdf.AddPage()

	pdf.SetFont(family, "B", 18)
	pdf.CellFormat(0, 12, "請款單", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont(family, "", 11)
	left := [][2]string{
		{"客戶名稱", inv.CustomerName},
		{"聯絡人", inv.ContactPerson},
		{"電話", inv.Phone},
		{"統一編號", inv.TaxID},
	}
	right := [][2]string{
		{"請款日期", inv.InvoiceDate},
		{"發票號碼", inv.InvoiceNumber},
		{"發票日期", inv.InvoiceIssueDate},
		{"發票種類", inv.InvoiceType},
	}
	for i := range left {
		pdf.CellFormat(25, 8, left[i][0], "", 0, "L", false, 0, "")
		pdf.CellFormat(70, 8, left[i][1], "", 0, "L", false, 0, "")
		pdf.CellFormat(25, 8, right[i][0], "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 8, right[i][1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	// Item table
	pdf.SetFont(family, "B", 11)
	pdf.CellFormat(80, 9, "品項", "1", 0, "L", false, 0, "")
	pdf.CellFormat(30, 9, "數量", "1", 0, "C", false, 0, "")
	pdf.CellFormat(35, 9, "單價", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 9, "金額", "1", 1, "R", false, 0, "")

	pdf.SetFont(family, "", 11)
	for _, item := range inv.Items {
		pdf.CellFormat(80, 9, item.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 9, item.DisplayQuantity, "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 9, FormatCurrency(item.UnitPrice), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 9, FormatCurrency(item.Amount), "1", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.CellFormat(110, 8, "", "", 0, "L", false, 0, "")
	pdf.CellFormat(35, 8, "小計", "", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, FormatCurrency(inv.Totals.Subtotal), "", 1, "R", false, 0, "")

	taxLabel := "營業稅 (5%)"
	taxValue := FormatCurrency(inv.Totals.Tax)
	if inv.TaxNote != "" {
		taxValue = inv.TaxNote
	}
	pdf.CellFormat(110, 8, "", "", 0, "L", false, 0, "")
	pdf.CellFormat(35, 8, taxLabel, "", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, taxValue, "", 1, "R", false, 0, "")

	pdf.SetFont(family, "B", 12)
	pdf.CellFormat(110, 9, "", "", 0, "L", false, 0, "")
	pdf.CellFormat(35, 9, "總計", "", 0, "R", false, 0, "")
	pdf.CellFormat(35, 9, FormatCurrency(inv.Totals.Total), "", 1, "R", false, 0, "")

	if inv.Notes != "" {
		pdf.Ln(4)
		pdf.SetFont(family, "", 10)
		pdf.MultiCell(0, 6, "備註："+inv.Notes, "", "L", false)
	}
}
