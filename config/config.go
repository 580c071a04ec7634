package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	// DefaultPath is read when ZIPPER_CONFIG is not set.
	DefaultPath = "./config/config.yml"

	EntryNamePath = "path"
	EntryNameBase = "base"

	ExporterNone   = "none"
	ExporterJaeger = "jaeger"
	ExporterOTLP   = "otlp"
)

type (
	// Config -.
	Config struct {
		App     `yaml:"app"`
		Log     `yaml:"logger"`
		Archive `yaml:"archive"`
		OTEL    `yaml:"otel"`
		Metrics `yaml:"metrics"`
	}

	// App -.
	App struct {
		Name    string `yaml:"name"    env:"APP_NAME"    env-default:"zipper"`
		Version string `yaml:"version" env:"APP_VERSION" env-default:"1.0.0"`
	}

	// Log -.
	Log struct {
		Level string `yaml:"log_level" env:"LOG_LEVEL" env-default:"warn"`
	}

	// Archive -.
	Archive struct {
		// CompressionLevel applies to Deflate and Bzip2 entries.
		CompressionLevel int `yaml:"compression_level" env:"ARCHIVE_COMPRESSION_LEVEL" env-default:"6"`
		// EntryName selects the stored entry name: the literal source path or its base name.
		EntryName string `yaml:"entry_name" env:"ARCHIVE_ENTRY_NAME" env-default:"path"`
	}

	// OTEL -.
	OTEL struct {
		Exporter       string `yaml:"exporter"        env:"OTEL_EXPORTER"   env-default:"none"`
		JaegerEndpoint string `yaml:"jaeger_endpoint" env:"JAEGER_ENDPOINT"`
		OTLPEndpoint   string `yaml:"otlp_endpoint"   env:"OTLP_ENDPOINT"`
	}

	// Metrics -.
	Metrics struct {
		TextfilePath string `yaml:"textfile" env:"METRICS_TEXTFILE"`
	}
)

// NewConfig returns app config. The yaml file is optional; environment
// variables override it.
func NewConfig() (*Config, error) {
	path := os.Getenv("ZIPPER_CONFIG")
	if path == "" {
		path = DefaultPath
	}
	return Load(path)
}

// Load reads the config at path, falling back to environment and defaults
// when no such file exists.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	var err error
	if _, statErr := os.Stat(path); statErr == nil {
		err = cleanenv.ReadConfig(path, cfg)
	} else {
		err = cleanenv.ReadEnv(cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (cfg *Config) Validate() error {
	switch strings.ToLower(cfg.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be one of debug, info, warn, error, got %q", cfg.Log.Level)
	}

	if cfg.CompressionLevel < 1 || cfg.CompressionLevel > 9 {
		return fmt.Errorf("compression_level must be between 1 and 9, got %d", cfg.CompressionLevel)
	}

	switch cfg.EntryName {
	case EntryNamePath, EntryNameBase:
	default:
		return fmt.Errorf("entry_name must be %q or %q, got %q", EntryNamePath, EntryNameBase, cfg.EntryName)
	}

	switch cfg.Exporter {
	case "", ExporterNone:
	case ExporterJaeger:
		if cfg.JaegerEndpoint == "" {
			return fmt.Errorf("jaeger_endpoint is required for the jaeger exporter")
		}
	case ExporterOTLP:
		if cfg.OTLPEndpoint == "" {
			return fmt.Errorf("otlp_endpoint is required for the otlp exporter")
		}
	default:
		return fmt.Errorf("unknown otel exporter %q", cfg.Exporter)
	}

	return nil
}
