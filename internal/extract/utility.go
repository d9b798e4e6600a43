package extract

import (
	"github.com/typescan/typescan/internal/diagnostic"
	"github.com/typescan/typescan/internal/property"
	"github.com/typescan/typescan/internal/typenode"
)

// expandFunc applies one utility-type operator to its type arguments.
type expandFunc func(d *Dispatcher, req Request, args []typenode.Node) *property.PropertyInfo

type utilitySpec struct {
	arity  int
	expand expandFunc
	// subjectFirst marks operators whose first argument is the wrapped
	// subject type, which makes them peelable by UnwrapUtility.
	subjectFirst bool
}

// UtilityRegistry maps recognized utility-type operator names to their
// expansion behavior. Unrecognized generic references fall through to plain
// reference expansion.
type UtilityRegistry struct {
	specs map[string]utilitySpec
}

// NewUtilityRegistry builds the default registry: Pick, Omit, Partial,
// Required, Record, NonNullable.
func NewUtilityRegistry() *UtilityRegistry {
	return &UtilityRegistry{specs: map[string]utilitySpec{
		"Pick":        {arity: 2, expand: expandPick, subjectFirst: true},
		"Omit":        {arity: 2, expand: expandOmit, subjectFirst: true},
		"Partial":     {arity: 1, expand: expandPartial, subjectFirst: true},
		"Required":    {arity: 1, expand: expandRequired, subjectFirst: true},
		"Record":      {arity: 2, expand: expandRecord},
		"NonNullable": {arity: 1, expand: expandNonNullable, subjectFirst: true},
	}}
}

// Recognizes reports whether name is a registered utility operator.
func (r *UtilityRegistry) Recognizes(name string) bool {
	_, ok := r.specs[name]
	return ok
}

// UnwrapUtility peels nested subject-carrying utility wrappers down to the
// innermost subject node, so Required<NonNullable<X>> yields X. It is
// idempotent: a node with no recognized wrapper is returned unchanged.
func (r *UtilityRegistry) UnwrapUtility(node typenode.Node) typenode.Node {
	for {
		node = node.Unwrap()
		if !node.IsGeneric() {
			return node
		}
		spec, ok := r.specs[node.BaseName()]
		if !ok || !spec.subjectFirst {
			return node
		}
		args := node.TypeArguments()
		if len(args) == 0 {
			return node
		}
		node = args[0]
	}
}

// utilityAnalyzer expands recognized utility-type applications. Wrong arity
// is reported and yields no property rather than a partial expansion.
type utilityAnalyzer struct {
	d *Dispatcher
}

func (a *utilityAnalyzer) Name() string { return "utility" }

func (a *utilityAnalyzer) CanHandle(node typenode.Node) bool {
	return node.IsGeneric() && a.d.registry.Recognizes(node.BaseName())
}

func (a *utilityAnalyzer) Analyze(req Request) *property.PropertyInfo {
	name := req.Node.BaseName()
	spec := a.d.registry.specs[name]
	args := req.Node.TypeArguments()
	if len(args) != spec.arity {
		a.d.diags.Warnf(diagnostic.CategoryArity, req.Name,
			"%s expects %d type arguments, got %d", name, spec.arity, len(args))
		return nil
	}
	return spec.expand(a.d, req, args)
}

// expandSubject analyzes a utility's subject argument into an object shape.
// nil when the subject fails analysis or is not object-like.
func expandSubject(d *Dispatcher, req Request, subject typenode.Node) *property.PropertyInfo {
	result := d.Analyze(Request{
		Name:    req.Name,
		Node:    subject,
		Context: req.Context,
		Options: req.Options.deeper(),
	})
	if result == nil || !result.IsObject() {
		return nil
	}
	return result
}

func expandPick(d *Dispatcher, req Request, args []typenode.Node) *property.PropertyInfo {
	keys, ok := literalKeys(args[1])
	if !ok || len(keys) == 0 {
		d.diags.Warnf(diagnostic.CategoryStructural, req.Name,
			"Pick key argument %q is not a literal key set", args[1].Text())
		return nil
	}
	// The subject is unwrapped to its bare reference first, so keys filter
	// the source declaration's own properties.
	subject := d.registry.UnwrapUtility(args[0])
	base := expandSubject(d, req, subject)
	if base == nil {
		d.diags.Warnf(diagnostic.CategoryStructural, req.Name,
			"Pick subject %q did not expand to an object", subject.Text())
		return nil
	}

	keySet := make(map[string]bool, len(keys))
	for _, key := range keys {
		keySet[key] = true
	}
	// Keys absent from the subject are silently ignored.
	var kept []property.PropertyInfo
	for _, p := range base.Properties {
		if keySet[p.Name] {
			kept = append(kept, p)
		}
	}
	base.Properties = kept
	base.TypeAsString = req.Node.Text()
	return finishUtility(base, req)
}

func expandOmit(d *Dispatcher, req Request, args []typenode.Node) *property.PropertyInfo {
	keys, ok := literalKeys(args[1])
	if !ok || len(keys) == 0 {
		d.diags.Warnf(diagnostic.CategoryStructural, req.Name,
			"Omit key argument %q is not a literal key set", args[1].Text())
		return nil
	}
	subject := d.registry.UnwrapUtility(args[0])
	base := expandSubject(d, req, subject)
	if base == nil {
		d.diags.Warnf(diagnostic.CategoryStructural, req.Name,
			"Omit subject %q did not expand to an object", subject.Text())
		return nil
	}

	dropped := make(map[string]bool, len(keys))
	for _, key := range keys {
		dropped[key] = true
	}
	var kept []property.PropertyInfo
	for _, p := range base.Properties {
		if !dropped[p.Name] {
			kept = append(kept, p)
		}
	}
	base.Properties = kept
	base.TypeAsString = req.Node.Text()
	return finishUtility(base, req)
}

func expandPartial(d *Dispatcher, req Request, args []typenode.Node) *property.PropertyInfo {
	base := expandSubject(d, req, args[0])
	if base == nil {
		return nil
	}
	// Only the immediate level becomes optional; nested shapes keep theirs.
	for i := range base.Properties {
		base.Properties[i].IsOptional = true
	}
	base.TypeAsString = req.Node.Text()
	return finishUtility(base, req)
}

func expandRequired(d *Dispatcher, req Request, args []typenode.Node) *property.PropertyInfo {
	base := expandSubject(d, req, args[0])
	if base == nil {
		return nil
	}
	for i := range base.Properties {
		base.Properties[i].IsOptional = false
	}
	base.TypeAsString = req.Node.Text()
	return finishUtility(base, req)
}

func expandNonNullable(d *Dispatcher, req Request, args []typenode.Node) *property.PropertyInfo {
	result := d.Analyze(Request{
		Name:    req.Name,
		Node:    args[0],
		Context: req.Context,
		Options: req.Options.deeper(),
	})
	if result == nil {
		return unknownTerminal(req.Name, req.Node.Text(), req.Options)
	}
	// Nullish union members surface as optionality; stripping them means
	// cancelling it.
	result.IsOptional = req.Options.IsOptional
	result.TypeAsString = req.Node.Text()
	result.IsArray = result.IsArray || req.Options.IsArray
	result.Name = req.Name
	return result
}

func expandRecord(d *Dispatcher, req Request, args []typenode.Node) *property.PropertyInfo {
	keyArg, valueArg := args[0], args[1]

	out := &property.PropertyInfo{
		Kind:         property.KindNonTerminal,
		Type:         property.TypeObject,
		Name:         req.Name,
		TypeAsString: req.Node.Text(),
		IsOptional:   req.Options.IsOptional,
		IsArray:      req.Options.IsArray,
	}

	if keys, ok := literalKeys(keyArg); ok && len(keys) > 0 {
		props := make([]property.PropertyInfo, 0, len(keys))
		for _, key := range keys {
			opts := req.Options.deeper()
			value := d.AnalyzeProperty(Request{
				Name:    key,
				Node:    valueArg,
				Context: req.Context,
				Options: opts,
			}, unknownTerminal(key, valueArg.Text(), opts))
			if value == nil {
				value = unknownTerminal(key, valueArg.Text(), opts)
			}
			value.Name = key
			props = append(props, *value)
		}
		out.Properties = property.MergeProperties(props)
		return out
	}

	// Open key domain: the value shape is kept as a nameless template and
	// the object accepts arbitrary keys.
	out.AcceptsUnknownProperties = true
	if template := d.Analyze(Request{
		Node:    valueArg,
		Context: req.Context,
		Options: req.Options.deeper(),
	}); template != nil {
		template.Name = ""
		out.Properties = []property.PropertyInfo{*template}
	}
	return out
}

// finishUtility restamps the request-level attributes a subject expansion
// may have overwritten.
func finishUtility(base *property.PropertyInfo, req Request) *property.PropertyInfo {
	base.Name = req.Name
	base.IsOptional = base.IsOptional || req.Options.IsOptional
	base.IsArray = base.IsArray || req.Options.IsArray
	return base
}

// literalKeys extracts the string key set from a literal type or a union
// containing literal types. Union members that are not string literals are
// skipped; ok is false when no key can be extracted at all.
func literalKeys(node typenode.Node) ([]string, bool) {
	node = node.Unwrap()

	single := func(n typenode.Node) (string, bool) {
		value, tag, ok := n.LiteralValue()
		if !ok || tag != "string" {
			return "", false
		}
		s, ok := value.(string)
		return s, ok
	}

	if node.IsLiteral() {
		key, ok := single(node)
		if !ok {
			return nil, false
		}
		return []string{key}, true
	}
	if node.IsUnion() {
		// Non-literal union members are ignored; the caller rejects an empty
		// result.
		var keys []string
		for _, member := range node.CompositionMembers() {
			if key, ok := single(member.Unwrap()); ok {
				keys = append(keys, key)
			}
		}
		return keys, len(keys) > 0
	}
	return nil, false
}
