package config

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoIncludePatterns indicates an empty include pattern list
	ErrNoIncludePatterns = errors.New("no include patterns")

	// ErrInvalidMaxDepth indicates a non-positive analysis depth cap
	ErrInvalidMaxDepth = errors.New("invalid max depth")

	// ErrInvalidCacheSize indicates a non-positive symbol cache size
	ErrInvalidCacheSize = errors.New("invalid cache size")

	// ErrInvalidFormat indicates an unsupported output format
	ErrInvalidFormat = errors.New("invalid output format")

	// ErrInvalidDebounce indicates a negative watch debounce
	ErrInvalidDebounce = errors.New("invalid debounce")

	// ErrInvalidLogLevel indicates an unsupported logging level
	ErrInvalidLogLevel = errors.New("invalid log level")
)

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	if len(cfg.Paths.Include) == 0 {
		errs = append(errs, ErrNoIncludePatterns)
	}
	if cfg.Analysis.MaxDepth <= 0 {
		errs = append(errs, fmt.Errorf("%w: %d (must be positive)", ErrInvalidMaxDepth, cfg.Analysis.MaxDepth))
	}
	if cfg.Resolution.CacheSize <= 0 {
		errs = append(errs, fmt.Errorf("%w: %d (must be positive)", ErrInvalidCacheSize, cfg.Resolution.CacheSize))
	}
	switch cfg.Output.Format {
	case "json", "pretty":
	default:
		errs = append(errs, fmt.Errorf("%w: %q (must be json or pretty)", ErrInvalidFormat, cfg.Output.Format))
	}
	if cfg.Watch.DebounceMs < 0 {
		errs = append(errs, fmt.Errorf("%w: %d (must not be negative)", ErrInvalidDebounce, cfg.Watch.DebounceMs))
	}
	switch strings.ToLower(cfg.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidLogLevel, cfg.Logging.Level))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
