package extract

import (
	"github.com/typescan/typescan/internal/property"
	"github.com/typescan/typescan/internal/typenode"
)

// arrayAnalyzer recognizes bracket-array syntax and the generic array
// wrappers, recursing into the element type with isArray injected.
type arrayAnalyzer struct {
	d *Dispatcher
}

func (a *arrayAnalyzer) Name() string { return "array" }

func (a *arrayAnalyzer) CanHandle(node typenode.Node) bool {
	return node.IsArray()
}

func (a *arrayAnalyzer) Analyze(req Request) *property.PropertyInfo {
	element := req.Node.ElementType()
	if !element.Valid() {
		// Malformed wrapper: fall back to unknown[] rather than failing the
		// whole property.
		return a.unknownArray(req)
	}

	childOpts := req.Options.deeper()
	childOpts.IsArray = true

	result := a.d.Analyze(Request{
		Name:    req.Name,
		Node:    element,
		Context: req.Context,
		Options: childOpts,
	})
	if result == nil {
		return a.unknownArray(req)
	}
	result.IsArray = true
	result.IsOptional = req.Options.IsOptional
	return result
}

func (a *arrayAnalyzer) unknownArray(req Request) *property.PropertyInfo {
	info := unknownTerminal(req.Name, "unknown[]", req.Options)
	info.IsArray = true
	return info
}
