package extract

import (
	"fmt"

	"github.com/typescan/typescan/internal/diagnostic"
	"github.com/typescan/typescan/internal/property"
	"github.com/typescan/typescan/internal/resolve"
	"github.com/typescan/typescan/internal/workspace"
)

// EngineOptions tunes one engine instance. The zero value of a numeric
// field falls back to its default.
type EngineOptions struct {
	// MaxDepth caps analysis recursion per property tree.
	MaxDepth int

	// IncludeDocs carries doc comments into the normalized output.
	IncludeDocs bool

	// ExportedOnly limits whole-file runs to exported declarations, falling
	// back to all declarations when a file exports none.
	ExportedOnly bool

	// CacheSize bounds the symbol cache, in source files.
	CacheSize int
}

// DefaultEngineOptions returns the options NewEngine runs with.
func DefaultEngineOptions() EngineOptions {
	return EngineOptions{
		MaxDepth:     defaultMaxDepth,
		IncludeDocs:  true,
		ExportedOnly: true,
		CacheSize:    resolve.DefaultCacheSize,
	}
}

// Engine is the public entry point: it owns the dispatcher, the symbol
// resolver, and the diagnostic collector, and runs one Context per
// normalized top-level type.
type Engine struct {
	project    *workspace.Project
	resolver   *resolve.Resolver
	dispatcher *Dispatcher
	diags      *diagnostic.Collector
	opts       EngineOptions
}

// NewEngine wires an engine over the given project with default options. A
// nil collector discards diagnostics.
func NewEngine(project *workspace.Project, diags *diagnostic.Collector) *Engine {
	return NewEngineWith(project, diags, DefaultEngineOptions())
}

// NewEngineWith wires an engine with explicit options.
func NewEngineWith(project *workspace.Project, diags *diagnostic.Collector, opts EngineOptions) *Engine {
	if diags == nil {
		diags = diagnostic.NewCollector(nil)
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = defaultMaxDepth
	}
	return &Engine{
		project:    project,
		resolver:   resolve.NewSized(project, diags, opts.CacheSize),
		dispatcher: NewDispatcher(diags, opts.MaxDepth, opts.IncludeDocs),
		diags:      diags,
		opts:       opts,
	}
}

// Project returns the workspace the engine analyzes.
func (e *Engine) Project() *workspace.Project { return e.project }

// Resolver exposes the engine's symbol resolver, mainly for cache
// inspection.
func (e *Engine) Resolver() *resolve.Resolver { return e.resolver }

// Dispatcher exposes the analyzer chain.
func (e *Engine) Dispatcher() *Dispatcher { return e.dispatcher }

// Diagnostics returns the collector shared by every component.
func (e *Engine) Diagnostics() *diagnostic.Collector { return e.diags }

// Result is the full outcome of normalizing one top-level type.
type Result struct {
	// RunID identifies the analysis run in diagnostics.
	RunID string

	Declaration *workspace.Declaration
	Property    *property.PropertyInfo

	// Dependencies lists every named type the normalized tree references,
	// deduplicated, excluding the root type and generic parameters.
	Dependencies []property.Dependency

	// NamespaceMembers maps bare member names to the namespace root they
	// were referenced through.
	NamespaceMembers map[string]string
}

// AnalyzeNamedType normalizes the named declaration reachable from file,
// following imports when the name is not declared locally. The whole run is
// panic-isolated: an unexpected failure yields an opaque root rather than
// an aborted run.
func (e *Engine) AnalyzeNamedType(file *workspace.SourceFile, name string) (*Result, error) {
	decl := file.Declaration(name)
	if decl == nil {
		if sym := e.resolver.Resolve(name, file); sym != nil {
			decl = sym.Declaration
		}
	}
	if decl == nil {
		return nil, fmt.Errorf("type %s is not reachable from %s", name, file.Path())
	}

	ctx := NewContext(e.project, e.resolver, e.diags)
	ctx.SetRootType(decl.Name)
	restore := ctx.SwitchFile(decl.File)
	defer restore()

	prop := e.analyzeRoot(ctx, decl)
	if e.opts.IncludeDocs && prop.Documentation == "" {
		prop.Documentation = decl.Doc
	}

	return &Result{
		RunID:            ctx.RunID,
		Declaration:      decl,
		Property:         prop,
		Dependencies:     ctx.Dependencies(),
		NamespaceMembers: ctx.NamespaceMembers(),
	}, nil
}

func (e *Engine) analyzeRoot(ctx *Context, decl *workspace.Declaration) (result *property.PropertyInfo) {
	defer func() {
		if r := recover(); r != nil {
			e.diags.Warnf(diagnostic.CategoryRecovered, decl.Name,
				"analysis of %s panicked: %v; emitting opaque root", decl.Name, r)
			result = unknownTerminal(decl.Name, decl.Name, Options{})
		}
	}()

	release, ok := ctx.Enter(decl.Name)
	if !ok {
		return unknownTerminal(decl.Name, decl.Name, Options{})
	}
	defer release()

	req := Request{Name: decl.Name, Node: decl.Node, Context: ctx}
	result = e.dispatcher.analyzeDeclaration(req, decl, nil, decl.Name)
	return result
}

// AnalyzeFile normalizes one file's declarations: every exported one when
// the engine runs exported-only (falling back to all declarations when the
// file exports none), otherwise every declaration.
func (e *Engine) AnalyzeFile(path string) ([]*Result, error) {
	file, err := e.project.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	decls := file.Declarations()
	if e.opts.ExportedOnly {
		if exported := file.ExportedDeclarations(); len(exported) > 0 {
			decls = exported
		}
	}

	results := make([]*Result, 0, len(decls))
	for _, decl := range decls {
		result, err := e.AnalyzeNamedType(file, decl.Name)
		if err != nil {
			e.diags.WarnFile(diagnostic.CategoryStructural, path, decl.Name, "%s", err)
			continue
		}
		results = append(results, result)
	}
	return results, nil
}
