// Package extract normalizes TypeScript type declarations into the
// language-agnostic property trees downstream generators consume. The
// dispatcher classifies nodes by syntactic shape and recurses depth-first,
// consulting symbol resolution for named references and the utility-type
// registry for recognized operators.
package extract

import (
	"github.com/google/uuid"

	"github.com/typescan/typescan/internal/diagnostic"
	"github.com/typescan/typescan/internal/property"
	"github.com/typescan/typescan/internal/resolve"
	"github.com/typescan/typescan/internal/typenode"
	"github.com/typescan/typescan/internal/workspace"
)

// Context carries the per-analysis-run state: the circular-reference guard
// stack, the dependency list, the generic-parameter frame, and the source
// file currently being analyzed. One context serves one top-level type and
// is discarded after collection completes. Contexts are not safe to share
// across concurrent runs.
type Context struct {
	// RunID tags this run's diagnostics.
	RunID string

	Project  *workspace.Project
	Resolver *resolve.Resolver
	Diags    *diagnostic.Collector

	// rootType is the name of the top-level type being normalized; it is
	// excluded from the dependency list.
	rootType string

	// file is the source file references are currently resolved against.
	file *workspace.SourceFile

	// inProgress is the set of type names currently being expanded.
	inProgress map[string]bool

	// generics maps the current declaration's generic parameter symbols to
	// their bindings (invalid node = fully generic).
	generics map[string]GenericBinding

	deps    []property.Dependency
	depSeen map[string]bool

	// namespaceMembers records which bare member names resolve through
	// which namespace root.
	namespaceMembers map[string]string
}

// NewContext creates a context for one analysis run.
func NewContext(project *workspace.Project, resolver *resolve.Resolver, diags *diagnostic.Collector) *Context {
	if diags == nil {
		diags = diagnostic.NewCollector(nil)
	}
	return &Context{
		RunID:            uuid.NewString(),
		Project:          project,
		Resolver:         resolver,
		Diags:            diags,
		inProgress:       make(map[string]bool),
		generics:         make(map[string]GenericBinding),
		depSeen:          make(map[string]bool),
		namespaceMembers: make(map[string]string),
	}
}

// Enter pushes a type name onto the in-progress stack. ok is false when the
// name is already being expanded; callers then stop recursing. The returned
// release runs on every exit path.
func (c *Context) Enter(name string) (release func(), ok bool) {
	if c.inProgress[name] {
		return func() {}, false
	}
	c.inProgress[name] = true
	return func() { delete(c.inProgress, name) }, true
}

// InProgress reports whether a type name is currently being expanded.
func (c *Context) InProgress(name string) bool {
	return c.inProgress[name]
}

// SetRootType names the top-level type this run normalizes.
func (c *Context) SetRootType(name string) { c.rootType = name }

// RootType returns the top-level type name.
func (c *Context) RootType() string { return c.rootType }

// File returns the file references are currently resolved against.
func (c *Context) File() *workspace.SourceFile { return c.file }

// SwitchFile makes references resolve against another file, returning a
// restore for the previous one. Reference expansion switches files when it
// follows a declaration into its defining file.
func (c *Context) SwitchFile(file *workspace.SourceFile) (restore func()) {
	prev := c.file
	c.file = file
	return func() { c.file = prev }
}

// GenericBinding is one generic parameter's bound type together with the
// file its syntax came from. Use-site type arguments keep the use site's
// file so their references resolve against the importing file, not the
// generic's declaring file.
type GenericBinding struct {
	// Node is the bound type; invalid when the parameter is fully generic.
	Node typenode.Node

	// File is the source file Node's references resolve against.
	File *workspace.SourceFile
}

// PushGenerics installs a generic-parameter frame for a declaration being
// expanded, returning a restore for the enclosing frame. Parameter symbols
// are never resolved through the symbol chain and never collected as
// dependencies.
func (c *Context) PushGenerics(frame map[string]GenericBinding) (restore func()) {
	prev := c.generics
	next := make(map[string]GenericBinding, len(frame))
	for name, binding := range frame {
		next[name] = binding
	}
	c.generics = next
	return func() { c.generics = prev }
}

// GenericParam looks up a generic parameter symbol. ok reports membership in
// the current frame; the binding's node is invalid when the parameter has no
// resolvable effective type.
func (c *Context) GenericParam(name string) (GenericBinding, bool) {
	binding, ok := c.generics[name]
	return binding, ok
}

// GenericParams returns the symbols of the current generic frame.
func (c *Context) GenericParams() map[string]bool {
	out := make(map[string]bool, len(c.generics))
	for name := range c.generics {
		out[name] = true
	}
	return out
}

// AddDependency appends a referenced named type, deduplicated by target and
// name. Self-references and generic parameters never land here.
func (c *Context) AddDependency(target property.Target, name string) {
	if name == "" || name == c.rootType {
		return
	}
	if _, isParam := c.generics[name]; isParam {
		return
	}
	key := string(target.Kind) + "\x00" + target.FilePath + "\x00" + target.Name + "\x00" + name
	if c.depSeen[key] {
		return
	}
	c.depSeen[key] = true
	c.deps = append(c.deps, property.Dependency{Target: target, Dependency: name})
}

// Dependencies returns the recorded dependency list in encounter order.
func (c *Context) Dependencies() []property.Dependency {
	return c.deps
}

// ResetDependencies clears the dependency list and namespace map at the
// start of a collection pass.
func (c *Context) ResetDependencies() {
	c.deps = nil
	c.depSeen = make(map[string]bool)
	c.namespaceMembers = make(map[string]string)
}

// AddNamespaceMember records that a bare member name resolves through a
// namespace root.
func (c *Context) AddNamespaceMember(member, root string) {
	if member == "" || root == "" {
		return
	}
	c.namespaceMembers[member] = root
}

// NamespaceMembers returns the member-to-namespace side map.
func (c *Context) NamespaceMembers() map[string]string {
	return c.namespaceMembers
}
