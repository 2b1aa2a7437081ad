package pipeline

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/weihung-tw/billingen/internal/calc"
	"github.com/weihung-tw/billingen/internal/config"
	"github.com/weihung-tw/billingen/internal/interchange"
	"github.com/weihung-tw/billingen/internal/models"
	"github.com/weihung-tw/billingen/internal/normalizer"
	"github.com/weihung-tw/billingen/internal/render"
)

// Processor runs the batch pipeline: normalize, validate, calculate, render.
// The stages execute strictly in sequence; it is a one-shot tool with no
// retries and no shared mutable state across documents.
type Processor struct {
	cfg        *config.Config
	normalizer *normalizer.Normalizer
	engine     *calc.Engine
	logger     *zap.Logger
}

// New creates a pipeline processor.
func New(cfg *config.Config, logger *zap.Logger) *Processor {
	return &Processor{
		cfg:        cfg,
		normalizer: normalizer.New(logger),
		engine:     calc.NewEngine(logger),
		logger:     logger,
	}
}

// ConvertToIntermediate reads a tabular source file and writes the
// normalized records as interchange JSON.
func (p *Processor) ConvertToIntermediate(sourcePath, outPath string) error {
	logger := p.runLogger()

	records, err := p.loadSource(sourcePath)
	if err != nil {
		return err
	}

	if err := interchange.Save(models.NewBatch(records), outPath); err != nil {
		return err
	}

	p.logSummary(logger, "Source converted to intermediate form", records,
		zap.String("source", sourcePath),
		zap.String("output", outPath))
	return nil
}

// RenderFromSource reads a tabular source file and renders all records into
// one artifact.
func (p *Processor) RenderFromSource(sourcePath, outPath string, asPDF bool) error {
	logger := p.runLogger()

	records, err := p.loadSource(sourcePath)
	if err != nil {
		return err
	}

	if err := p.renderRecords(records, outPath, asPDF); err != nil {
		return err
	}

	p.logSummary(logger, "Artifact generated from source", records,
		zap.String("source", sourcePath),
		zap.String("output", outPath))
	return nil
}

// RenderFromIntermediate loads interchange JSON (single record or batch),
// validates its structure as a gate before any calculation, and renders all
// records into one artifact.
func (p *Processor) RenderFromIntermediate(jsonPath, outPath string, asPDF bool) error {
	logger := p.runLogger()

	doc, err := interchange.Load(jsonPath)
	if err != nil {
		return err
	}

	if err := p.renderRecords(doc.Records, outPath, asPDF); err != nil {
		return err
	}

	p.logSummary(logger, "Artifact generated from intermediate form", doc.Records,
		zap.String("source", jsonPath),
		zap.String("output", outPath),
		zap.Bool("single", doc.Single()))
	return nil
}

// WriteSample emits a two-record sample interchange file.
func (p *Processor) WriteSample(outPath string) error {
	doc := interchange.Sample()
	if err := interchange.Save(doc, outPath); err != nil {
		return err
	}
	p.logger.Info("Sample interchange file written",
		zap.String("output", outPath),
		zap.Int("records", doc.Len()))
	return nil
}

func (p *Processor) loadSource(sourcePath string) ([]models.Record, error) {
	var rows []normalizer.Row
	var err error
	switch p.cfg.Source.Format {
	case "csv":
		rows, err = normalizer.ReadCSV(sourcePath)
	case "xlsx":
		rows, err = normalizer.ReadXLSX(sourcePath)
	default:
		rows, err = normalizer.ReadSource(sourcePath)
	}
	if err != nil {
		return nil, err
	}
	return p.normalizer.Normalize(rows), nil
}

func (p *Processor) renderRecords(records []models.Record, outPath string, asPDF bool) error {
	prepared := make([]calc.PreparedInvoice, 0, len(records))
	for _, rec := range records {
		prepared = append(prepared, p.engine.Prepare(rec))
	}

	if asPDF {
		exporter := render.NewPDFExporter(p.cfg.Render.PDFFont, p.logger)
		return exporter.Write(prepared, outPath)
	}

	renderer, err := render.New(render.Config{
		TemplateDir:  p.cfg.Render.TemplateDir,
		TemplateName: p.cfg.Render.TemplateName,
		Stylesheet:   p.cfg.Render.Stylesheet,
	}, p.logger)
	if err != nil {
		return err
	}

	markup, err := renderer.RenderBatch(prepared)
	if err != nil {
		return err
	}
	return renderer.WriteArtifact(markup, outPath)
}

// runLogger tags every log line of one pipeline run with a run id.
func (p *Processor) runLogger() *zap.Logger {
	return p.logger.With(zap.String("run_id", uuid.NewString()))
}

// logSummary logs the batch aggregate: record and item counts, the summed
// amount, and the flat 5% tax convention applied at the aggregate level.
func (p *Processor) logSummary(logger *zap.Logger, msg string, records []models.Record, fields ...zap.Field) {
	summary := p.engine.Summarize(records)
	fields = append(fields,
		zap.Int("records", summary.InvoiceCount),
		zap.Int("total_items", summary.TotalItems),
		zap.String("total_amount", summary.TotalAmount.StringFixed(0)),
		zap.String("tax_amount", summary.TaxAmount.StringFixed(0)),
		zap.String("final_total", summary.FinalTotal.StringFixed(0)),
	)
	logger.Info(msg, fields...)
}

// DefaultOutputName derives an artifact name from a source file name, the
// way the CLI names outputs when --output is not given.
func DefaultOutputName(sourcePath, ext string) string {
	base := filepath.Base(sourcePath)
	return fmt.Sprintf("%s%s", strings.TrimSuffix(base, filepath.Ext(base)), ext)
}
