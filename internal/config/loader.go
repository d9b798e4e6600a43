package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads configuration from file and environment variables.
	// Priority: defaults → config file → environment variables (env wins)
	Load() (*Config, error)
}

type loader struct {
	rootDir string
}

// NewLoader creates a new configuration loader for the given root directory.
func NewLoader(rootDir string) Loader {
	return &loader{
		rootDir: rootDir,
	}
}

// Load loads configuration with the following priority (highest to lowest):
// 1. Environment variables (TYPESCAN_*)
// 2. Config file (.typescan/config.yml or .typescan/config.yaml)
// 3. Default values
func (l *loader) Load() (*Config, error) {
	v := viper.New()

	configDir := filepath.Join(l.rootDir, ".typescan")
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)

	// Enable environment variable overrides
	v.SetEnvPrefix("TYPESCAN")
	v.AutomaticEnv()
	// Replace . with _ in env var names (e.g., TYPESCAN_ANALYSIS_MAX_DEPTH)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.BindEnv("analysis.max_depth")
	v.BindEnv("analysis.include_docs")
	v.BindEnv("analysis.exported_only")

	v.BindEnv("resolution.cache_size")

	v.BindEnv("output.format")
	v.BindEnv("output.indent")

	v.BindEnv("watch.debounce_ms")

	v.BindEnv("logging.level")
	v.BindEnv("logging.development")

	setDefaults(v)

	// Config file not found is acceptable - defaults + env vars apply.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setDefaults configures viper with default values.
func setDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("paths.include", defaults.Paths.Include)
	v.SetDefault("paths.ignore", defaults.Paths.Ignore)

	v.SetDefault("analysis.max_depth", defaults.Analysis.MaxDepth)
	v.SetDefault("analysis.include_docs", defaults.Analysis.IncludeDocs)
	v.SetDefault("analysis.exported_only", defaults.Analysis.ExportedOnly)

	v.SetDefault("resolution.cache_size", defaults.Resolution.CacheSize)
	v.SetDefault("resolution.module_folders", defaults.Resolution.ModuleFolders)

	v.SetDefault("output.format", defaults.Output.Format)
	v.SetDefault("output.indent", defaults.Output.Indent)

	v.SetDefault("watch.debounce_ms", defaults.Watch.DebounceMs)

	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.development", defaults.Logging.Development)
}
