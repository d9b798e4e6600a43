package extract

import (
	"github.com/typescan/typescan/internal/diagnostic"
	"github.com/typescan/typescan/internal/property"
	"github.com/typescan/typescan/internal/typenode"
)

// defaultMaxDepth caps recursion on pathological or infinitely expanding
// declarations that the circular guard cannot catch.
const defaultMaxDepth = 64

// Options propagate downward through the analysis. Children read and
// override them on their own requests; they never mutate the parent's.
type Options struct {
	IsOptional bool
	IsArray    bool
	Depth      int
}

func (o Options) deeper() Options {
	child := o
	child.Depth++
	child.IsArray = false
	return child
}

// Request is one analysis of one type node.
type Request struct {
	// Name is the property name the result will carry; empty for synthetic
	// members produced by composition.
	Name    string
	Node    typenode.Node
	Context *Context
	Options Options
}

// Analyzer is one kind-specific analyzer. CanHandle is a structural
// predicate on the syntactic shape of the node, not its resolved type.
type Analyzer interface {
	Name() string
	CanHandle(node typenode.Node) bool
	Analyze(req Request) *property.PropertyInfo
}

// Dispatcher tries analyzers in a fixed priority order; the first whose
// CanHandle matches owns the node. A nil result means the property is
// absent, never an error.
type Dispatcher struct {
	analyzers   []Analyzer
	registry    *UtilityRegistry
	diags       *diagnostic.Collector
	maxDepth    int
	includeDocs bool
}

// NewDispatcher builds the default analyzer chain: primitive/literal, array,
// intersection, union, object, utility-type, bare reference. A non-positive
// maxDepth falls back to the default cap.
func NewDispatcher(diags *diagnostic.Collector, maxDepth int, includeDocs bool) *Dispatcher {
	if diags == nil {
		diags = diagnostic.NewCollector(nil)
	}
	if maxDepth <= 0 {
		maxDepth = defaultMaxDepth
	}
	d := &Dispatcher{
		registry:    NewUtilityRegistry(),
		diags:       diags,
		maxDepth:    maxDepth,
		includeDocs: includeDocs,
	}
	d.analyzers = []Analyzer{
		&primitiveAnalyzer{},
		&arrayAnalyzer{d: d},
		&intersectionAnalyzer{d: d},
		&unionAnalyzer{d: d},
		&objectAnalyzer{d: d},
		&utilityAnalyzer{d: d},
		&referenceAnalyzer{d: d},
	}
	return d
}

// Registry exposes the utility-type registry.
func (d *Dispatcher) Registry() *UtilityRegistry { return d.registry }

// Analyze normalizes one type node. Returns nil when no analyzer matches;
// the caller treats the property as absent rather than raising.
func (d *Dispatcher) Analyze(req Request) *property.PropertyInfo {
	node := req.Node.Unwrap()
	if !node.Valid() {
		return nil
	}
	if req.Options.Depth > d.maxDepth {
		return unknownTerminal(req.Name, node.Text(), req.Options)
	}
	req.Node = node

	for _, analyzer := range d.analyzers {
		if analyzer.CanHandle(node) {
			return analyzer.Analyze(req)
		}
	}
	return nil
}

// AnalyzeProperty analyzes one property with panic isolation: an unexpected
// panic is logged with full context and replaced by the caller-supplied
// fallback, so one malformed property never aborts its siblings.
func (d *Dispatcher) AnalyzeProperty(req Request, fallback *property.PropertyInfo) (result *property.PropertyInfo) {
	defer func() {
		if r := recover(); r != nil {
			d.diags.Warnf(diagnostic.CategoryRecovered, req.Name,
				"analysis of %q (%s) panicked: %v; using fallback", req.Name, req.Node.Text(), r)
			result = fallback
		}
	}()
	return d.Analyze(req)
}

// unknownTerminal builds the opaque leaf used when a node cannot be traced
// to anything more specific.
func unknownTerminal(name, typeAsString string, opts Options) *property.PropertyInfo {
	return &property.PropertyInfo{
		Kind:         property.KindTerminal,
		Type:         property.TypeUnknown,
		Name:         name,
		TypeAsString: typeAsString,
		IsOptional:   opts.IsOptional,
		IsArray:      opts.IsArray,
	}
}
