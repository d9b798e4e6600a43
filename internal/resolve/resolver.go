// Package resolve traces type references to their declarations across local
// files, relative imports, and external packages. Strategies are tried in
// order and the chain stops at the first one that claims the name; results,
// including confirmed misses, are cached per (file, name) pair.
package resolve

import (
	"github.com/typescan/typescan/internal/diagnostic"
	"github.com/typescan/typescan/internal/property"
	"github.com/typescan/typescan/internal/workspace"
)

// ResolvedSymbol is the outcome of a successful resolution. Entries are
// immutable once created; re-resolution replaces the cache slot wholesale.
type ResolvedSymbol struct {
	// Declaration is the located declaration. It may be nil for external
	// symbols whose package layout could not be traversed.
	Declaration *workspace.Declaration

	// Target identifies where the symbol lives, shaped for import
	// generation.
	Target property.Target

	// IsLocal marks symbols declared inside the workspace.
	IsLocal bool

	// TypeOnly records that the symbol arrived through a type-only import.
	TypeOnly bool
}

// Strategy is one link of the resolution chain.
type Strategy interface {
	// Name identifies the strategy in diagnostics.
	Name() string

	// CanResolve reports whether this strategy applies to the reference.
	CanResolve(name string, file *workspace.SourceFile) bool

	// Resolve locates the declaration. A nil result means the strategy
	// claimed the name but could not trace it; the chain does not continue.
	Resolve(name string, file *workspace.SourceFile) *ResolvedSymbol
}

// Resolver runs the strategy chain behind the symbol cache.
type Resolver struct {
	strategies []Strategy
	cache      *Cache
	diags      *diagnostic.Collector
}

// New builds a resolver with the default chain: local declaration, then
// import resolution backed by the external module resolver.
func New(project *workspace.Project, diags *diagnostic.Collector) *Resolver {
	return NewSized(project, diags, DefaultCacheSize)
}

// NewSized builds the default chain with an explicit symbol cache bound.
func NewSized(project *workspace.Project, diags *diagnostic.Collector, cacheSize int) *Resolver {
	if diags == nil {
		diags = diagnostic.NewCollector(nil)
	}
	external := NewExternalResolver(project)
	return &Resolver{
		strategies: []Strategy{
			&localStrategy{},
			&importStrategy{project: project, external: external},
		},
		cache: NewCache(cacheSize),
		diags: diags,
	}
}

// NewWithStrategies builds a resolver over an explicit chain, for callers
// adding workspace layout conventions.
func NewWithStrategies(diags *diagnostic.Collector, strategies ...Strategy) *Resolver {
	if diags == nil {
		diags = diagnostic.NewCollector(nil)
	}
	return &Resolver{
		strategies: strategies,
		cache:      NewCache(DefaultCacheSize),
		diags:      diags,
	}
}

// Cache exposes the symbol cache for lifecycle control.
func (r *Resolver) Cache() *Cache { return r.cache }

// Resolve traces a reference name from the given file to its declaration.
// Returns nil when no strategy can trace it; the miss is cached and not
// re-attempted until the cache is cleared.
func (r *Resolver) Resolve(name string, file *workspace.SourceFile) *ResolvedSymbol {
	if name == "" || file == nil {
		return nil
	}

	if sym, queried := r.cache.Lookup(file.Path(), name); queried {
		return sym
	}

	var resolved *ResolvedSymbol
	for _, strategy := range r.strategies {
		if !strategy.CanResolve(name, file) {
			continue
		}
		resolved = strategy.Resolve(name, file)
		break
	}

	if resolved == nil {
		r.diags.WarnFile(diagnostic.CategoryUnresolved, file.Path(), name,
			"could not resolve %q to a declaration", name)
	}

	r.cache.Set(file.Path(), name, resolved)
	return resolved
}
