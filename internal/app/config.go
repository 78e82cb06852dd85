package app

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	SchemaPaths []string `yaml:"schema_paths"` // hcl files or directories

	LogFormat string `yaml:"log_format"`
	LogLevel  string `yaml:"log_level"`
	// Strict turns metamodel warnings into errors.
	Strict bool `yaml:"strict"`
}

// NewConfig fills in defaults and validates cfg.
func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.SchemaPaths) == 0 {
		return nil, errors.New("SchemaPaths is a required configuration field and cannot be empty")
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid log level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.LogLevel)
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("invalid log format %q: must be 'text' or 'json'", cfg.LogFormat)
	}
	return &cfg, nil
}

// LoadConfigFile reads a YAML configuration file. Unknown keys are rejected.
// Relative schema paths are taken relative to the file's directory.
func LoadConfigFile(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	base := filepath.Dir(path)
	for i, p := range cfg.SchemaPaths {
		if !filepath.IsAbs(p) {
			cfg.SchemaPaths[i] = filepath.Join(base, p)
		}
	}
	return cfg, nil
}
