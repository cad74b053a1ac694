package config

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"strconv"

	"gorcr/domain/expression"
	"gorcr/internal/errors"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the complete application configuration
type Config struct {
	Analysis AnalysisConfig `yaml:"analysis" validate:"required"`
	Paths    PathConfig     `yaml:"paths"`
	Columns  ColumnConfig   `yaml:"columns" validate:"required"`
	Database DatabaseConfig `yaml:"database"`
	Server   ServerConfig   `yaml:"server" validate:"required"`
	Render   RenderConfig   `yaml:"render" validate:"required"`
}

// AnalysisConfig holds the thresholds and execution settings of a run
type AnalysisConfig struct {
	PValueThreshold     float64 `yaml:"p_value_threshold" validate:"gt=0,lte=1"`
	FoldChangeThreshold float64 `yaml:"fold_change_threshold" validate:"gte=0"`
	Workers             int     `yaml:"workers" validate:"gte=1"`
	UnmappedAsAmbiguous bool    `yaml:"unmapped_as_ambiguous"`
}

// Thresholds returns the StateClassifier thresholds
func (a AnalysisConfig) Thresholds() expression.Thresholds {
	return expression.Thresholds{PValue: a.PValueThreshold, FoldChange: a.FoldChangeThreshold}
}

// PathConfig holds input and output locations
type PathConfig struct {
	ExpressionFile string `yaml:"expression_file"`
	PathwayFile    string `yaml:"pathway_file"`
	MappingFile    string `yaml:"mapping_file"`
	OutputDir      string `yaml:"output_dir" validate:"required"`
}

// ColumnConfig maps expression table headers to record fields
type ColumnConfig struct {
	Symbol        string `yaml:"symbol" validate:"required"`
	LogFoldChange string `yaml:"log_fold_change" validate:"required"`
	PValue        string `yaml:"p_value" validate:"required"`
}

// DatabaseConfig holds database connection settings; persistence is off when URL is empty
type DatabaseConfig struct {
	URL string `yaml:"url" validate:"omitempty,url"`
}

// Enabled reports whether runs should be persisted
func (d DatabaseConfig) Enabled() bool {
	return d.URL != ""
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string `yaml:"port" validate:"required,numeric"`
	GinMode string `yaml:"gin_mode" validate:"oneof=debug release test"`
}

// RenderConfig holds graphviz settings for network plots
type RenderConfig struct {
	GraphvizBin string `yaml:"graphviz_bin" validate:"required"`
	DPI         int    `yaml:"dpi" validate:"gte=36,lte=1200"`
}

// Default returns the canonical configuration
func Default() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			PValueThreshold:     expression.DefaultPValueThreshold,
			FoldChangeThreshold: expression.DefaultFoldChangeThreshold,
			Workers:             runtime.GOMAXPROCS(0),
		},
		Paths: PathConfig{
			OutputDir: ".",
		},
		Columns: ColumnConfig{
			Symbol:        "Gene.symbol",
			LogFoldChange: "logFC",
			PValue:        "adj.P.Val",
		},
		Server: ServerConfig{
			Port:    "8080",
			GinMode: "release",
		},
		Render: RenderConfig{
			GraphvizBin: "dot",
			DPI:         72,
		},
	}
}

// LoadDotEnv loads a .env file if present
func LoadDotEnv(paths ...string) error {
	if err := godotenv.Load(paths...); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
		return errors.Wrap(err, "failed to load .env file")
	}
	return nil
}

// Load builds the configuration from defaults, an optional YAML file named by
// RCR_CONFIG_FILE, and environment variables, in that order, then validates it
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("RCR_CONFIG_FILE"); path != "" {
		if err := loadYAML(path, cfg); err != nil {
			return nil, errors.Wrap(err, "failed to load configuration file")
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, errors.Wrap(err, "failed to read environment configuration")
	}

	if err := Validate(cfg); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return cfg, nil
}

func loadYAML(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return errors.ConfigInvalid(fmt.Sprintf("%s: %v", path, err))
	}
	return nil
}

func applyEnv(cfg *Config) error {
	var err error
	a := &cfg.Analysis
	if a.PValueThreshold, err = getEnvFloatOrDefault("RCR_P_THRESHOLD", a.PValueThreshold); err != nil {
		return err
	}
	if a.FoldChangeThreshold, err = getEnvFloatOrDefault("RCR_FC_THRESHOLD", a.FoldChangeThreshold); err != nil {
		return err
	}
	if a.Workers, err = getEnvIntOrDefault("RCR_WORKERS", a.Workers); err != nil {
		return err
	}
	if a.UnmappedAsAmbiguous, err = getEnvBoolOrDefault("RCR_UNMAPPED_AS_AMBIGUOUS", a.UnmappedAsAmbiguous); err != nil {
		return err
	}

	cfg.Paths.ExpressionFile = getEnvOrDefault("RCR_EXPRESSION_FILE", cfg.Paths.ExpressionFile)
	cfg.Paths.PathwayFile = getEnvOrDefault("RCR_PATHWAY_FILE", cfg.Paths.PathwayFile)
	cfg.Paths.MappingFile = getEnvOrDefault("RCR_MAPPING_FILE", cfg.Paths.MappingFile)
	cfg.Paths.OutputDir = getEnvOrDefault("RCR_OUTPUT_DIR", cfg.Paths.OutputDir)

	cfg.Columns.Symbol = getEnvOrDefault("RCR_COL_SYMBOL", cfg.Columns.Symbol)
	cfg.Columns.LogFoldChange = getEnvOrDefault("RCR_COL_LOGFC", cfg.Columns.LogFoldChange)
	cfg.Columns.PValue = getEnvOrDefault("RCR_COL_PVALUE", cfg.Columns.PValue)

	cfg.Database.URL = getEnvOrDefault("DATABASE_URL", cfg.Database.URL)

	cfg.Server.Port = getEnvOrDefault("PORT", cfg.Server.Port)
	cfg.Server.GinMode = getEnvOrDefault("GIN_MODE", cfg.Server.GinMode)

	cfg.Render.GraphvizBin = getEnvOrDefault("RCR_GRAPHVIZ_BIN", cfg.Render.GraphvizBin)
	if cfg.Render.DPI, err = getEnvIntOrDefault("RCR_DPI", cfg.Render.DPI); err != nil {
		return err
	}
	return nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks struct constraints and reports the first failing field
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if stderrors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return errors.ConfigInvalid(fmt.Sprintf("%s failed %q constraint (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
		}
		return errors.ConfigInvalid(err.Error())
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return 0, errors.ConfigInvalid(fmt.Sprintf("%s must be an integer, got %q", key, value))
	}
	return intValue, nil
}

func getEnvFloatOrDefault(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, errors.ConfigInvalid(fmt.Sprintf("%s must be a number, got %q", key, value))
	}
	return floatValue, nil
}

func getEnvBoolOrDefault(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		return false, errors.ConfigInvalid(fmt.Sprintf("%s must be a boolean, got %q", key, value))
	}
	return boolValue, nil
}
