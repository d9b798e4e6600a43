package extract

import (
	"github.com/typescan/typescan/internal/property"
	"github.com/typescan/typescan/internal/typenode"
)

// primitiveAnalyzer classifies predefined keywords and literal forms.
type primitiveAnalyzer struct{}

func (a *primitiveAnalyzer) Name() string { return "primitive" }

func (a *primitiveAnalyzer) CanHandle(node typenode.Node) bool {
	return node.IsPredefined() || node.IsLiteral()
}

func (a *primitiveAnalyzer) Analyze(req Request) *property.PropertyInfo {
	node := req.Node

	if node.IsLiteral() {
		value, tag, ok := node.LiteralValue()
		if !ok {
			return unknownTerminal(req.Name, node.Text(), req.Options)
		}
		info := &property.PropertyInfo{
			Kind:         property.KindTerminal,
			Type:         tag,
			Name:         req.Name,
			TypeAsString: node.Text(),
			IsOptional:   req.Options.IsOptional,
			IsArray:      req.Options.IsArray,
			Value:        value,
		}
		return info
	}

	return &property.PropertyInfo{
		Kind:         property.KindTerminal,
		Type:         semanticTag(node.Text()),
		Name:         req.Name,
		TypeAsString: node.Text(),
		IsOptional:   req.Options.IsOptional,
		IsArray:      req.Options.IsArray,
	}
}

// semanticTag maps a predefined keyword to its semantic type tag. Keywords
// the downstream generators have no use for collapse to unknown.
func semanticTag(keyword string) string {
	switch keyword {
	case "string", "number", "boolean", "object":
		return keyword
	default:
		// any, unknown, never, void, symbol
		return property.TypeUnknown
	}
}
