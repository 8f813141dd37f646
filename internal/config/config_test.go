package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault_Valid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestLoadFile_YAML(t *testing.T) {
	path := writeFile(t, "vp8enc.yaml", `
input: in.ivf
format: records
compression: zstd
log:
  level: debug
`)
	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "in.ivf", cfg.Input)
	assert.Equal(t, "-", cfg.Output, "unset fields keep their defaults")
	assert.Equal(t, FormatRecords, cfg.Format)
	assert.Equal(t, "zstd", cfg.Compression)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFile_JSONC(t *testing.T) {
	path := writeFile(t, "vp8enc.jsonc", `{
  // checkpoint after the last frame
  "checkpoint": "state.cbor",
  "log": {"format": "json",},
}`)
	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "state.cbor", cfg.Checkpoint)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, FormatRaw, cfg.Format)
}

func TestLoadFile_Errors(t *testing.T) {
	tests := []struct {
		name string
		file string
		body string
	}{
		{"unknown extension", "vp8enc.toml", "input = 1"},
		{"bad yaml", "vp8enc.yml", "input: [unterminated"},
		{"bad json", "vp8enc.json", `{"input": }`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFile(writeFile(t, tt.file, tt.body))
			assert.Error(t, err)
		})
	}

	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(c *Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"records with lz4", func(c *Config) { c.Format, c.Compression = FormatRecords, "lz4" }, false},
		{"unknown format", func(c *Config) { c.Format = "webm" }, true},
		{"compressed raw output", func(c *Config) { c.Compression = "zstd" }, true},
		{"unknown compression", func(c *Config) { c.Format, c.Compression = FormatRecords, "gzip" }, true},
		{"empty input", func(c *Config) { c.Input = "" }, true},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, true},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.modify(c)
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLogConfig_SlogLevel(t *testing.T) {
	level, err := LogConfig{Level: "warn"}.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)
}
