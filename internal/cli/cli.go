package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/weihung-tw/billingen/internal/config"
	"github.com/weihung-tw/billingen/internal/pipeline"
	"github.com/weihung-tw/billingen/pkg/utils"
)

// app holds the dependencies shared by all subcommands, built once in the
// root command's PersistentPreRunE.
type app struct {
	cfgFile string
	verbose bool

	cfg       *config.Config
	logger    *zap.Logger
	processor *pipeline.Processor
}

// New builds the command tree.
func New(version string) *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "billingen",
		Short: "Batch billing-statement generator",
		Long: `billingen ingests tabular billing records (CSV or XLSX), normalizes them
into a canonical document model, derives line-item amounts and invoice-type
dependent totals, and renders all records into a single paginated artifact.

A JSON intermediate form sits between the source table and the rendered
output so a batch can be edited outside the pipeline and re-rendered.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "configs/config.yaml",
		"Path to the configuration file")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false,
		"Enable debug logging")

	root.AddCommand(
		a.convertCmd(),
		a.renderCmd(),
		a.renderJSONCmd(),
		a.sampleCmd(),
		versionCmd(version),
	)
	return root
}

// setup loads configuration and builds the logger and processor before any
// subcommand runs.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}
	if a.verbose {
		cfg.Logger.Level = "debug"
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	a.cfg = cfg
	a.logger = logger
	a.processor = pipeline.New(cfg, logger)
	return nil
}

// defaultOutput derives an output path under the configured output
// directory when --output is not given.
func (a *app) defaultOutput(flag, source, ext string) string {
	if flag != "" {
		return flag
	}
	return filepath.Join(a.cfg.Render.OutputDir, pipeline.DefaultOutputName(source, ext))
}

func (a *app) convertCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "convert <source-file>",
		Short: "Convert a tabular source file to the JSON intermediate form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.processor.ConvertToIntermediate(args[0], a.defaultOutput(output, args[0], ".json"))
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file path (default: <source>.json)")
	return cmd
}

func (a *app) renderCmd() *cobra.Command {
	var output string
	var asPDF bool

	cmd := &cobra.Command{
		Use:   "render <source-file>",
		Short: "Render a tabular source file into a paginated artifact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.processor.RenderFromSource(args[0], a.defaultOutput(output, args[0], artifactExt(asPDF)), asPDF)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output artifact path")
	cmd.Flags().BoolVar(&asPDF, "pdf", false, "Write a PDF instead of HTML")
	return cmd
}

func (a *app) renderJSONCmd() *cobra.Command {
	var output string
	var asPDF bool

	cmd := &cobra.Command{
		Use:   "render-json <json-file>",
		Short: "Render an intermediate JSON file into a paginated artifact",
		Long: `Render an intermediate JSON file into a paginated artifact. The file may
hold a single record object or an array of records; its structure is
validated before any calculation runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.processor.RenderFromIntermediate(args[0], a.defaultOutput(output, args[0], artifactExt(asPDF)), asPDF)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output artifact path")
	cmd.Flags().BoolVar(&asPDF, "pdf", false, "Write a PDF instead of HTML")
	return cmd
}

func (a *app) sampleCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Write a sample intermediate JSON file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				output = filepath.Join(a.cfg.Render.OutputDir, "sample_invoices.json")
			}
			return a.processor.WriteSample(output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file path (default: sample_invoices.json)")
	return cmd
}

func versionCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("billingen %s\n", version)
		},
	}
}

func artifactExt(asPDF bool) string {
	if asPDF {
		return ".pdf"
	}
	return ".html"
}
