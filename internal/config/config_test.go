package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Config System:
// - Default() returns valid configuration with all expected defaults
// - Load() uses defaults when no config file exists
// - Load() loads from .typescan/config.yml when present
// - Load() merges config file with defaults
// - Environment variables override config file values
// - Load() returns error for malformed YAML
// - Load() returns error for invalid configuration values
// - Validate() rejects non-positive max depth and cache size
// - Validate() rejects unknown output formats and log levels
// - Validate() returns multiple errors for multiple invalid fields
// - SourceExtensions() derives extensions from include patterns

func TestDefault_ReturnsValidConfiguration(t *testing.T) {
	cfg := Default()
	require.NotNil(t, cfg)

	assert.NotEmpty(t, cfg.Paths.Include)
	assert.NotEmpty(t, cfg.Paths.Ignore)
	assert.Equal(t, 64, cfg.Analysis.MaxDepth)
	assert.True(t, cfg.Analysis.ExportedOnly)
	assert.Equal(t, 1024, cfg.Resolution.CacheSize)
	assert.Equal(t, []string{"node_modules"}, cfg.Resolution.ModuleFolders)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, 300, cfg.Watch.DebounceMs)
	assert.Equal(t, "info", cfg.Logging.Level)

	assert.NoError(t, Validate(cfg))
}

func TestLoad_UsesDefaultsWhenNoConfigFile(t *testing.T) {
	cfg, err := NewLoader(t.TempDir()).Load()
	require.NoError(t, err)

	expected := Default()
	assert.Equal(t, expected.Analysis.MaxDepth, cfg.Analysis.MaxDepth)
	assert.Equal(t, expected.Output.Format, cfg.Output.Format)
	assert.Equal(t, expected.Paths.Include, cfg.Paths.Include)
}

func TestLoad_LoadsFromConfigYml(t *testing.T) {
	dir := t.TempDir()
	configDir := filepath.Join(dir, ".typescan")
	require.NoError(t, os.MkdirAll(configDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.yml"), []byte(`
analysis:
  max_depth: 16
output:
  format: pretty
`), 0o644))

	cfg, err := NewLoader(dir).Load()
	require.NoError(t, err)

	assert.Equal(t, 16, cfg.Analysis.MaxDepth)
	assert.Equal(t, "pretty", cfg.Output.Format)
	// Unset values keep their defaults.
	assert.Equal(t, Default().Resolution.CacheSize, cfg.Resolution.CacheSize)
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	dir := t.TempDir()
	configDir := filepath.Join(dir, ".typescan")
	require.NoError(t, os.MkdirAll(configDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.yml"),
		[]byte("analysis:\n  max_depth: 16\n"), 0o644))

	t.Setenv("TYPESCAN_ANALYSIS_MAX_DEPTH", "8")

	cfg, err := NewLoader(dir).Load()
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Analysis.MaxDepth)
}

func TestLoad_MalformedYAML(t *testing.T) {
	dir := t.TempDir()
	configDir := filepath.Join(dir, ".typescan")
	require.NoError(t, os.MkdirAll(configDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.yml"),
		[]byte("analysis: [unclosed"), 0o644))

	_, err := NewLoader(dir).Load()
	assert.Error(t, err)
}

func TestLoad_InvalidValues(t *testing.T) {
	dir := t.TempDir()
	configDir := filepath.Join(dir, ".typescan")
	require.NoError(t, os.MkdirAll(configDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.yml"),
		[]byte("analysis:\n  max_depth: -1\n"), 0o644))

	_, err := NewLoader(dir).Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidMaxDepth)
}

func TestValidate_RejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"no includes", func(c *Config) { c.Paths.Include = nil }, ErrNoIncludePatterns},
		{"zero depth", func(c *Config) { c.Analysis.MaxDepth = 0 }, ErrInvalidMaxDepth},
		{"zero cache", func(c *Config) { c.Resolution.CacheSize = 0 }, ErrInvalidCacheSize},
		{"bad format", func(c *Config) { c.Output.Format = "xml" }, ErrInvalidFormat},
		{"negative debounce", func(c *Config) { c.Watch.DebounceMs = -5 }, ErrInvalidDebounce},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, ErrInvalidLogLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := Validate(cfg)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidate_CollectsMultipleErrors(t *testing.T) {
	cfg := Default()
	cfg.Analysis.MaxDepth = 0
	cfg.Output.Format = "xml"

	err := Validate(cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidMaxDepth)
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestSourceExtensions(t *testing.T) {
	cfg := Default()
	exts := cfg.SourceExtensions()
	assert.Contains(t, exts, ".ts")
	assert.Contains(t, exts, ".tsx")
	assert.Contains(t, exts, ".d.ts")
}
