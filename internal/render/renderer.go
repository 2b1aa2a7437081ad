package render

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/weihung-tw/billingen/internal/calc"
)

// PageBreak separates consecutive documents in a multi-page artifact. The
// stylesheet maps the class to a forced page break when printing.
const PageBreak = `<div class="page-break"></div>`

// Config holds the renderer's file locations. It is scoped to one pipeline
// run and passed into the constructor; there is no process-wide state.
type Config struct {
	TemplateDir  string
	TemplateName string
	Stylesheet   string // optional, inlined into the artifact when present
}

// Renderer maps prepared records into template input and produces a single
// HTML artifact, paginated with explicit page-break markers for a batch.
type Renderer struct {
	cfg    Config
	tmpl   *template.Template
	logger *zap.Logger
}

// New creates a renderer. A missing or unparsable template file is fatal.
func New(cfg Config, logger *zap.Logger) (*Renderer, error) {
	path := filepath.Join(cfg.TemplateDir, cfg.TemplateName)
	tmpl, err := template.New(cfg.TemplateName).Funcs(template.FuncMap{
		"currency": FormatCurrency,
		"number":   FormatCurrency,
	}).ParseFiles(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load template %s: %w", path, err)
	}

	return &Renderer{
		cfg:    cfg,
		tmpl:   tmpl,
		logger: logger,
	}, nil
}

// RenderDocument renders one prepared record into its document markup.
func (r *Renderer) RenderDocument(inv calc.PreparedInvoice) (string, error) {
	var b strings.Builder
	if err := r.tmpl.ExecuteTemplate(&b, r.cfg.TemplateName, inv); err != nil {
		return "", fmt.Errorf("failed to render document: %w", err)
	}
	return b.String(), nil
}

// RenderBatch renders each document independently, under its own invoice
// type, and concatenates the markup in input order with a page-break marker
// between consecutive documents. N documents yield N-1 markers.
func (r *Renderer) RenderBatch(invoices []calc.PreparedInvoice) (string, error) {
	parts := make([]string, 0, len(invoices))
	for i, inv := range invoices {
		doc, err := r.RenderDocument(inv)
		if err != nil {
			return "", err
		}
		if i < len(invoices)-1 {
			doc += PageBreak
		}
		parts = append(parts, doc)
	}
	return strings.Join(parts, "\n"), nil
}

// WriteArtifact writes the combined markup to the output path, overwriting
// any existing file. The stylesheet is inlined when readable; a missing
// stylesheet is tolerated and rendering proceeds without it.
func (r *Renderer) WriteArtifact(markup, outputPath string) error {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	if r.cfg.Stylesheet != "" {
		css, err := os.ReadFile(r.cfg.Stylesheet)
		if err != nil {
			r.logger.Warn("Stylesheet not readable, rendering without it",
				zap.String("stylesheet", r.cfg.Stylesheet),
				zap.Error(err))
		} else {
			b.WriteString("<style>\n")
			b.Write(css)
			b.WriteString("\n</style>\n")
		}
	}
	b.WriteString("</head>\n<body>\n")
	b.WriteString(markup)
	b.WriteString("\n</body>\n</html>\n")

	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(outputPath, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("failed to write artifact: %w", err)
	}

	r.logger.Info("Artifact written", zap.String("output_path", outputPath))
	return nil
}
