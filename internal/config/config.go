// Package config loads vp8enc tool configuration.
//
// Configuration comes from Default, then an optional file, then command
// line flags. The file format is chosen by extension: .yaml and .yml are
// YAML, .json and .jsonc are JSON with comments and trailing commas.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	FormatRaw     = "raw"     // concatenated first partitions
	FormatRecords = "records" // CBOR record stream
)

// Config is the vp8enc configuration.
type Config struct {
	// Input is the IVF file to read. "-" reads standard input.
	Input string `yaml:"input" json:"input"`

	// Output is the file to write. "-" writes standard output.
	Output string `yaml:"output" json:"output"`

	// Format is FormatRaw or FormatRecords.
	Format string `yaml:"format" json:"format"`

	// Compression applies to record payloads: none, lz4 or zstd.
	Compression string `yaml:"compression" json:"compression"`

	// Resume, if set, is a checkpoint to restore before the first frame.
	Resume string `yaml:"resume" json:"resume"`

	// Checkpoint, if set, receives the codec state after the last frame.
	Checkpoint string `yaml:"checkpoint" json:"checkpoint"`

	Log LogConfig `yaml:"log" json:"log"`
}

// LogConfig configures the tool's logger.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `yaml:"level" json:"level"`

	// Format is text or json.
	Format string `yaml:"format" json:"format"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Input:       "-",
		Output:      "-",
		Format:      FormatRaw,
		Compression: "none",
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadFile returns Default overlaid with the file at path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := cfg.parse(filepath.Ext(path), data); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) parse(ext string, data []byte) error {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, c)
	case ".json", ".jsonc":
		return json.Unmarshal(jsonc.ToJSON(data), c)
	default:
		return fmt.Errorf("unsupported config format %q", ext)
	}
}

// Validate checks every field and reports all problems at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Input == "" {
		errs = append(errs, errors.New("input is required"))
	}
	if c.Output == "" {
		errs = append(errs, errors.New("output is required"))
	}
	if c.Format != FormatRaw && c.Format != FormatRecords {
		errs = append(errs, fmt.Errorf("format must be %q or %q, got %q", FormatRaw, FormatRecords, c.Format))
	}
	switch c.Compression {
	case "none", "lz4", "zstd":
	default:
		errs = append(errs, fmt.Errorf("compression must be none, lz4 or zstd, got %q", c.Compression))
	}
	if c.Compression != "none" && c.Format == FormatRaw {
		errs = append(errs, errors.New("compression requires the records format"))
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		errs = append(errs, fmt.Errorf("log.format must be text or json, got %q", c.Log.Format))
	}
	return errors.Join(errs...)
}

// SlogLevel parses Level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}
