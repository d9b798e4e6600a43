// Package diagnostic collects the engine's non-fatal warnings. Nothing in
// the extraction engine raises past the top-level call; problems surface
// here as structured log lines.
package diagnostic

import (
	"fmt"

	"go.uber.org/zap"
)

// Category classifies diagnostics for filtering.
type Category string

const (
	// CategoryArity flags utility-type invocations with the wrong number of
	// type arguments.
	CategoryArity Category = "arity-mismatch"
	// CategoryUnresolved flags references that could not be traced to a
	// declaration.
	CategoryUnresolved Category = "unresolved-symbol"
	// CategoryStructural flags nodes that did not match the analyzer or
	// expander asked to handle them.
	CategoryStructural Category = "structural-mismatch"
	// CategoryRecovered flags properties whose analysis panicked and was
	// replaced with a fallback.
	CategoryRecovered Category = "recovered-panic"
	// CategoryNamespace flags namespaced references whose root could not be
	// resolved.
	CategoryNamespace Category = "unresolved-namespace"
)

// Diagnostic is one recorded warning.
type Diagnostic struct {
	Category Category `json:"category"`
	File     string   `json:"file,omitempty"`
	Subject  string   `json:"subject,omitempty"` // property or type name
	Message  string   `json:"message"`
}

func (d Diagnostic) String() string {
	if d.Subject != "" {
		return fmt.Sprintf("[%s] %s: %s", d.Category, d.Subject, d.Message)
	}
	return fmt.Sprintf("[%s] %s", d.Category, d.Message)
}

// Collector accumulates diagnostics for one analysis run and mirrors them to
// a zap logger. It is not safe for concurrent use; each run owns its own
// collector.
type Collector struct {
	logger  *zap.Logger
	entries []Diagnostic
}

// NewCollector creates a collector logging through the given zap logger.
// A nil logger discards log output but still records entries.
func NewCollector(logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{logger: logger}
}

// Warnf records a warning.
func (c *Collector) Warnf(category Category, subject, format string, args ...any) {
	d := Diagnostic{
		Category: category,
		Subject:  subject,
		Message:  fmt.Sprintf(format, args...),
	}
	c.entries = append(c.entries, d)
	c.logger.Warn(d.Message,
		zap.String("category", string(category)),
		zap.String("subject", subject),
	)
}

// WarnFile records a warning attributed to a source file.
func (c *Collector) WarnFile(category Category, file, subject, format string, args ...any) {
	d := Diagnostic{
		Category: category,
		File:     file,
		Subject:  subject,
		Message:  fmt.Sprintf(format, args...),
	}
	c.entries = append(c.entries, d)
	c.logger.Warn(d.Message,
		zap.String("category", string(category)),
		zap.String("file", file),
		zap.String("subject", subject),
	)
}

// Entries returns all recorded diagnostics in order.
func (c *Collector) Entries() []Diagnostic {
	return c.entries
}

// Count returns the number of recorded diagnostics.
func (c *Collector) Count() int {
	return len(c.entries)
}

// Reset clears recorded diagnostics.
func (c *Collector) Reset() {
	c.entries = nil
}
