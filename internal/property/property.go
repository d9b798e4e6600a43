// Package property defines the normalized, language-agnostic property tree
// produced by the extraction engine and consumed by downstream generators.
package property

// Kind classifies a normalized node as a leaf or a composite.
type Kind string

const (
	// KindTerminal marks primitives, literals, and opaque/unknown leaves.
	KindTerminal Kind = "terminal"
	// KindNonTerminal marks objects, arrays-of, and composites.
	KindNonTerminal Kind = "non-terminal"
)

// Semantic type tags carried by PropertyInfo.Type.
const (
	TypeString  = "string"
	TypeNumber  = "number"
	TypeBoolean = "boolean"
	TypeObject  = "object"
	TypeArray   = "array"
	TypeUnion   = "union"
	TypeNull    = "null"
	TypeUnknown = "unknown"
)

// PropertyInfo is one node of the normalized property tree.
type PropertyInfo struct {
	// Kind is terminal for leaves and non-terminal for composites.
	Kind Kind `json:"kind"`

	// Type is the semantic tag (string, number, boolean, object, unknown, ...).
	Type string `json:"type"`

	// Name is the declared property name. Synthetic members produced by
	// composition carry an empty name.
	Name string `json:"name"`

	// TypeAsString preserves the original textual form for diagnostics and
	// code generation.
	TypeAsString string `json:"typeAsString"`

	IsOptional bool `json:"isOptional,omitempty"`
	IsArray    bool `json:"isArray,omitempty"`

	// Value holds the constant for literal types.
	Value any `json:"value,omitempty"`

	// Properties is the ordered child list for object-kind nodes.
	Properties []PropertyInfo `json:"properties,omitempty"`

	// AcceptsUnknownProperties is set when the source declaration carries an
	// index signature.
	AcceptsUnknownProperties bool `json:"acceptsUnknownProperties,omitempty"`

	// Documentation is the doc comment carried over from the declaration.
	Documentation string `json:"documentation,omitempty"`
}

// IsObject reports whether the node carries object properties.
func (p *PropertyInfo) IsObject() bool {
	return p.Kind == KindNonTerminal && p.Type == TypeObject
}

// Property returns the child with the given name, or nil.
func (p *PropertyInfo) Property(name string) *PropertyInfo {
	for i := range p.Properties {
		if p.Properties[i].Name == name {
			return &p.Properties[i]
		}
	}
	return nil
}

// PropertyNames returns the child names in declaration order.
func (p *PropertyInfo) PropertyNames() []string {
	names := make([]string, 0, len(p.Properties))
	for i := range p.Properties {
		names = append(names, p.Properties[i].Name)
	}
	return names
}

// MergeProperties merges property lists by name with last-write-wins
// semantics: when two sources contribute the same name, the later occurrence
// replaces the earlier one in place, preserving first-seen ordering.
func MergeProperties(props []PropertyInfo) []PropertyInfo {
	seen := make(map[string]int, len(props))
	merged := make([]PropertyInfo, 0, len(props))

	for _, prop := range props {
		// Synthetic members (empty name) never collide.
		if prop.Name == "" {
			merged = append(merged, prop)
			continue
		}
		if idx, ok := seen[prop.Name]; ok {
			merged[idx] = prop
			continue
		}
		seen[prop.Name] = len(merged)
		merged = append(merged, prop)
	}

	return merged
}

// TargetKind distinguishes resolution targets.
type TargetKind string

const (
	// TargetLocal points at a declaration inside the workspace.
	TargetLocal TargetKind = "local"
	// TargetModule points at a declaration published by an external package.
	TargetModule TargetKind = "module"
)

// Target identifies where a resolved symbol lives.
type Target struct {
	Kind TargetKind `json:"kind"`

	// FilePath is set for local targets.
	FilePath string `json:"filePath,omitempty"`

	// Name is the symbol name for local targets and the scope-aware package
	// name for module targets.
	Name string `json:"name"`
}

// LocalTarget builds a Target for a workspace declaration.
func LocalTarget(filePath, name string) Target {
	return Target{Kind: TargetLocal, FilePath: filePath, Name: name}
}

// ModuleTarget builds a Target for an external package.
func ModuleTarget(module string) Target {
	return Target{Kind: TargetModule, Name: module}
}

// Dependency records one named type a normalized tree references, for
// downstream import generation.
type Dependency struct {
	// Target mirrors the resolved symbol's target shape.
	Target Target `json:"target"`

	// Dependency is the referenced type's declared name.
	Dependency string `json:"dependency"`
}
