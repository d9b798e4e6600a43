package extract

import (
	"github.com/typescan/typescan/internal/diagnostic"
	"github.com/typescan/typescan/internal/property"
	"github.com/typescan/typescan/internal/typenode"
)

// intersectionAnalyzer merges the object properties contributed by every
// member, later members winning on name conflict. Non-object members fold
// into the merged list as synthetic empty-name properties, preserving
// intersections like `{a: string} & string`.
type intersectionAnalyzer struct {
	d *Dispatcher
}

func (a *intersectionAnalyzer) Name() string { return "intersection" }

func (a *intersectionAnalyzer) CanHandle(node typenode.Node) bool {
	return node.IsIntersection()
}

func (a *intersectionAnalyzer) Analyze(req Request) *property.PropertyInfo {
	var collected []property.PropertyInfo
	acceptsUnknown := false

	for _, member := range req.Node.CompositionMembers() {
		result := a.d.Analyze(Request{
			Name:    "",
			Node:    member,
			Context: req.Context,
			Options: req.Options.deeper(),
		})
		if result == nil {
			// Members that fail analysis are skipped, not fatal.
			a.d.diags.Warnf(diagnostic.CategoryStructural, req.Name,
				"intersection member %q could not be analyzed; skipping", member.Text())
			continue
		}
		if result.IsObject() {
			collected = append(collected, result.Properties...)
			acceptsUnknown = acceptsUnknown || result.AcceptsUnknownProperties
			continue
		}
		collected = append(collected, *result)
	}

	return &property.PropertyInfo{
		Kind:                     property.KindNonTerminal,
		Type:                     property.TypeObject,
		Name:                     req.Name,
		TypeAsString:             req.Node.Text(),
		IsOptional:               req.Options.IsOptional,
		IsArray:                  req.Options.IsArray,
		Properties:               property.MergeProperties(collected),
		AcceptsUnknownProperties: acceptsUnknown,
	}
}

// unionAnalyzer normalizes union compositions. Null/undefined members are
// stripped and surface as optionality; a single remaining member collapses
// to that member's analysis, and wider unions become a composite whose
// members are synthetic positional children.
type unionAnalyzer struct {
	d *Dispatcher
}

func (a *unionAnalyzer) Name() string { return "union" }

func (a *unionAnalyzer) CanHandle(node typenode.Node) bool {
	return node.IsUnion()
}

func (a *unionAnalyzer) Analyze(req Request) *property.PropertyInfo {
	members := req.Node.CompositionMembers()

	nullish := false
	var real []typenode.Node
	for _, member := range members {
		if member.IsNullish() {
			nullish = true
			continue
		}
		real = append(real, member)
	}

	opts := req.Options
	if nullish {
		opts.IsOptional = true
	}

	switch len(real) {
	case 0:
		// The union was only null/undefined.
		return unknownTerminal(req.Name, req.Node.Text(), opts)
	case 1:
		result := a.d.Analyze(Request{
			Name:    req.Name,
			Node:    real[0],
			Context: req.Context,
			Options: Options{IsOptional: opts.IsOptional, IsArray: opts.IsArray, Depth: opts.Depth + 1},
		})
		if result == nil {
			return unknownTerminal(req.Name, req.Node.Text(), opts)
		}
		return result
	}

	var children []property.PropertyInfo
	for _, member := range real {
		result := a.d.Analyze(Request{
			Name:    "",
			Node:    member,
			Context: req.Context,
			Options: req.Options.deeper(),
		})
		if result == nil {
			continue
		}
		children = append(children, *result)
	}

	return &property.PropertyInfo{
		Kind:         property.KindNonTerminal,
		Type:         property.TypeUnion,
		Name:         req.Name,
		TypeAsString: req.Node.Text(),
		IsOptional:   opts.IsOptional,
		IsArray:      opts.IsArray,
		Properties:   children,
	}
}
