// Package config loads the sqlplay YAML configuration file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/vegasq/sqlplay/output"
	"github.com/vegasq/sqlplay/query"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the file read when no --config flag is given.
const DefaultPath = ".sqlplay.yaml"

// Log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Config holds the settings shared by every command. Command-line flags
// override whatever the file sets.
type Config struct {
	// Format is the output format: table, json or csv.
	Format string `yaml:"format"`

	// LogLevel is a logrus level name.
	LogLevel string `yaml:"log_level"`

	// LogFormat is text or json.
	LogFormat string `yaml:"log_format"`

	// QuoteAwareClauses keeps clause keywords inside string literals from
	// splitting a query.
	QuoteAwareClauses bool `yaml:"quote_aware_clauses"`

	// MaxQueryLength caps the size of a query in bytes.
	MaxQueryLength int `yaml:"max_query_length"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Format:         output.FormatTable,
		LogLevel:       logrus.WarnLevel.String(),
		LogFormat:      LogFormatText,
		MaxQueryLength: query.MaxQueryLength,
	}
}

// Load reads the file at path on top of the defaults. A missing file is
// not an error; unknown keys are.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every field against its allowed values.
func (c Config) Validate() error {
	switch c.Format {
	case output.FormatTable, output.FormatJSON, output.FormatCSV:
	default:
		return fmt.Errorf("format %q must be one of %s, %s, %s", c.Format, output.FormatTable, output.FormatJSON, output.FormatCSV)
	}

	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}

	switch c.LogFormat {
	case LogFormatText, LogFormatJSON:
	default:
		return fmt.Errorf("log_format %q must be %s or %s", c.LogFormat, LogFormatText, LogFormatJSON)
	}

	if c.MaxQueryLength <= 0 {
		return fmt.Errorf("max_query_length must be positive, got %d", c.MaxQueryLength)
	}
	return nil
}

// QueryOptions returns the engine options the configuration selects.
func (c Config) QueryOptions() query.Options {
	return query.Options{
		QuoteAwareClauses: c.QuoteAwareClauses,
		MaxQueryLength:    c.MaxQueryLength,
	}
}

// NewLogger builds a logrus logger writing to w with the configured level
// and formatter.
func (c Config) NewLogger(w io.Writer) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}

	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetLevel(level)
	if c.LogFormat == LogFormatJSON {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	}
	return logger, nil
}
