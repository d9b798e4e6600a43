package extract

import (
	"github.com/typescan/typescan/internal/property"
	"github.com/typescan/typescan/internal/typenode"
)

// objectAnalyzer walks inline object literals and interface bodies. Each
// member is analyzed independently behind panic isolation, so one broken
// member degrades to an opaque leaf instead of losing its siblings.
type objectAnalyzer struct {
	d *Dispatcher
}

func (a *objectAnalyzer) Name() string { return "object" }

func (a *objectAnalyzer) CanHandle(node typenode.Node) bool {
	return node.IsObject()
}

func (a *objectAnalyzer) Analyze(req Request) *property.PropertyInfo {
	props, acceptsUnknown := a.analyzeMembers(req.Node, req.Context, req.Options)
	return &property.PropertyInfo{
		Kind:                     property.KindNonTerminal,
		Type:                     property.TypeObject,
		Name:                     req.Name,
		TypeAsString:             req.Node.Text(),
		IsOptional:               req.Options.IsOptional,
		IsArray:                  req.Options.IsArray,
		Properties:               props,
		AcceptsUnknownProperties: acceptsUnknown,
	}
}

// analyzeMembers normalizes the named members of an object body. Index
// signatures contribute no property; they flip the open-shape flag.
func (a *objectAnalyzer) analyzeMembers(body typenode.Node, ctx *Context, opts Options) ([]property.PropertyInfo, bool) {
	members := body.ObjectMembers()
	props := make([]property.PropertyInfo, 0, len(members))
	acceptsUnknown := false

	for _, member := range members {
		if member.IsIndex {
			acceptsUnknown = true
			continue
		}
		childOpts := opts.deeper()
		childOpts.IsOptional = member.Optional

		fallback := unknownTerminal(member.Name, member.Type.Text(), childOpts)
		result := a.d.AnalyzeProperty(Request{
			Name:    member.Name,
			Node:    member.Type,
			Context: ctx,
			Options: childOpts,
		}, fallback)
		if result == nil {
			continue
		}
		if member.Optional {
			result.IsOptional = true
		}
		if a.d.includeDocs && result.Documentation == "" {
			result.Documentation = member.Doc
		}
		props = append(props, *result)
	}

	return property.MergeProperties(props), acceptsUnknown
}
