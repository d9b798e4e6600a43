package config

import "strings"

// Config represents the complete typescan configuration.
// It can be loaded from .typescan/config.yml with environment variable overrides.
type Config struct {
	Paths      PathsConfig      `yaml:"paths" mapstructure:"paths"`
	Analysis   AnalysisConfig   `yaml:"analysis" mapstructure:"analysis"`
	Resolution ResolutionConfig `yaml:"resolution" mapstructure:"resolution"`
	Output     OutputConfig     `yaml:"output" mapstructure:"output"`
	Watch      WatchConfig      `yaml:"watch" mapstructure:"watch"`
	Logging    LoggingConfig    `yaml:"logging" mapstructure:"logging"`
}

// PathsConfig defines which declaration files to analyze and which to skip.
type PathsConfig struct {
	Include []string `yaml:"include" mapstructure:"include"` // glob patterns for declaration files
	Ignore  []string `yaml:"ignore" mapstructure:"ignore"`   // glob patterns to ignore
}

// AnalysisConfig tunes the extraction engine.
type AnalysisConfig struct {
	MaxDepth     int  `yaml:"max_depth" mapstructure:"max_depth"`         // recursion cap per property tree
	IncludeDocs  bool `yaml:"include_docs" mapstructure:"include_docs"`   // carry doc comments into the output
	ExportedOnly bool `yaml:"exported_only" mapstructure:"exported_only"` // limit whole-file runs to exported declarations
}

// ResolutionConfig tunes symbol resolution.
type ResolutionConfig struct {
	CacheSize     int      `yaml:"cache_size" mapstructure:"cache_size"`         // per-file entries in the symbol cache
	ModuleFolders []string `yaml:"module_folders" mapstructure:"module_folders"` // dependency roots, e.g. node_modules
}

// OutputConfig defines how results are rendered.
type OutputConfig struct {
	Format string `yaml:"format" mapstructure:"format"` // "json" or "pretty"
	Indent bool   `yaml:"indent" mapstructure:"indent"` // indent JSON output
}

// WatchConfig tunes watch mode.
type WatchConfig struct {
	DebounceMs int `yaml:"debounce_ms" mapstructure:"debounce_ms"` // quiet period before re-analysis
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level       string `yaml:"level" mapstructure:"level"` // debug, info, warn, error
	Development bool   `yaml:"development" mapstructure:"development"`
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			Include: []string{
				"**/*.ts",
				"**/*.tsx",
				"**/*.d.ts",
			},
			Ignore: []string{
				"node_modules/**",
				".git/**",
				"dist/**",
				"build/**",
				"coverage/**",
			},
		},
		Analysis: AnalysisConfig{
			MaxDepth:     64,
			IncludeDocs:  true,
			ExportedOnly: true,
		},
		Resolution: ResolutionConfig{
			CacheSize:     1024,
			ModuleFolders: []string{"node_modules"},
		},
		Output: OutputConfig{
			Format: "json",
			Indent: true,
		},
		Watch: WatchConfig{
			DebounceMs: 300,
		},
		Logging: LoggingConfig{
			Level:       "info",
			Development: false,
		},
	}
}

// SourceExtensions extracts unique file extensions from the include patterns.
// Returns extensions with leading dot (e.g., []string{".ts", ".tsx"}).
func (c *Config) SourceExtensions() []string {
	extMap := make(map[string]bool)
	for _, pattern := range c.Paths.Include {
		if ext := extractExtension(pattern); ext != "" {
			extMap[ext] = true
		}
	}
	extensions := make([]string, 0, len(extMap))
	for ext := range extMap {
		extensions = append(extensions, ext)
	}
	return extensions
}

// extractExtension extracts the file extension from a glob pattern.
// Examples: "**/*.ts" -> ".ts", "*.tsx" -> ".tsx".
func extractExtension(pattern string) string {
	idx := strings.LastIndex(pattern, "*.")
	if idx < 0 {
		return ""
	}
	ext := pattern[idx+1:]
	if strings.ContainsAny(ext, "*/") {
		return ""
	}
	return ext
}
