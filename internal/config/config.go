package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Source SourceConfig `mapstructure:"source"`
	Render RenderConfig `mapstructure:"render"`
	Logger LoggerConfig `mapstructure:"logger"`
}

// SourceConfig holds source-table reading configuration
type SourceConfig struct {
	Format string `mapstructure:"format"` // auto, csv or xlsx
}

// RenderConfig holds document rendering configuration
type RenderConfig struct {
	TemplateDir  string `mapstructure:"template_dir"`
	TemplateName string `mapstructure:"template_name"`
	Stylesheet   string `mapstructure:"stylesheet"`
	OutputDir    string `mapstructure:"output_dir"`
	PDFFont      string `mapstructure:"pdf_font"` // TTF with CJK coverage for PDF export
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Load loads configuration from file and environment variables. A missing
// config file is tolerated; defaults and environment variables apply.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	v.AutomaticEnv()

	setDefaults(v)

	if _, err := os.Stat(configPath); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Source defaults
	v.SetDefault("source.format", "auto")

	// Render defaults
	v.SetDefault("render.template_dir", "templates")
	v.SetDefault("render.template_name", "invoice.html")
	v.SetDefault("render.stylesheet", "templates/styles.css")
	v.SetDefault("render.output_dir", ".")

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.output_path", "stdout")
	v.SetDefault("logger.format", "console")
}

// bindEnvVars binds environment variables to configuration
func bindEnvVars(v *viper.Viper) {
	v.BindEnv("render.template_dir", "BILLINGEN_TEMPLATE_DIR")
	v.BindEnv("render.output_dir", "BILLINGEN_OUTPUT_DIR")
	v.BindEnv("render.pdf_font", "BILLINGEN_PDF_FONT")
	v.BindEnv("logger.level", "BILLINGEN_LOG_LEVEL")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Source.Format {
	case "auto", "csv", "xlsx":
	default:
		return fmt.Errorf("source.format must be auto, csv or xlsx, got %q", c.Source.Format)
	}

	if c.Render.TemplateDir == "" {
		return fmt.Errorf("render.template_dir is required")
	}
	if c.Render.TemplateName == "" {
		return fmt.Errorf("render.template_name is required")
	}

	switch c.Logger.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logger.format must be json or console, got %q", c.Logger.Format)
	}

	return nil
}
