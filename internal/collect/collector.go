// Package collect gathers the named type references of a declaration
// straight from its syntax. Unlike the normalized property tree, this walk
// sees generic constraints and defaults, so import generation does not miss
// types that only appear in a type-parameter clause.
package collect

import (
	"strings"

	"github.com/typescan/typescan/internal/property"
	"github.com/typescan/typescan/internal/resolve"
	"github.com/typescan/typescan/internal/typenode"
	"github.com/typescan/typescan/internal/workspace"
)

// builtinTypes are ambient in every TypeScript program and never become
// import dependencies.
var builtinTypes = map[string]bool{
	"Array":         true,
	"ReadonlyArray": true,
	"Promise":       true,
	"Record":        true,
	"Partial":       true,
	"Required":      true,
	"Readonly":      true,
	"Pick":          true,
	"Omit":          true,
	"Exclude":       true,
	"Extract":       true,
	"NonNullable":   true,
	"Awaited":       true,
	"Date":          true,
	"Map":           true,
	"Set":           true,
	"WeakMap":       true,
	"WeakSet":       true,
	"RegExp":        true,
	"Error":         true,
	"Function":      true,
}

// Result is the reference inventory of one declaration.
type Result struct {
	// Dependencies lists every referenced type with its resolution target,
	// deduplicated in first-seen order.
	Dependencies []property.Dependency

	// NamespaceMembers maps member names referenced as `ns.Member` to their
	// namespace root.
	NamespaceMembers map[string]string
}

// Collector resolves collected names through the shared resolver so each
// dependency carries a local-file or external-module target.
type Collector struct {
	resolver *resolve.Resolver
}

// New creates a collector over the given resolver.
func New(resolver *resolve.Resolver) *Collector {
	return &Collector{resolver: resolver}
}

// Collect walks decl's full syntax, including heritage clauses and generic
// parameter constraints and defaults. The declaration's own name and its
// generic parameter symbols are excluded.
func (c *Collector) Collect(decl *workspace.Declaration) Result {
	excluded := map[string]bool{decl.Name: true}
	for _, param := range decl.TypeParameters() {
		excluded[param.Name] = true
	}

	result := Result{NamespaceMembers: make(map[string]string)}
	seen := make(map[string]bool)

	record := func(name string) {
		if name == "" || excluded[name] || builtinTypes[name] || seen[name] {
			return
		}
		seen[name] = true
		result.Dependencies = append(result.Dependencies, property.Dependency{
			Target:     c.targetFor(name, decl.File),
			Dependency: name,
		})
	}

	var walk func(node typenode.Node)
	walk = func(node typenode.Node) {
		switch node.Kind() {
		case typenode.KindTypeIdentifier:
			record(node.Text())
			return
		case typenode.KindNestedTypeIdentifier:
			if root, member, ok := node.NamespaceParts(); ok {
				result.NamespaceMembers[member] = root
				record(root)
				return
			}
		case typenode.KindGenericType:
			// The name field may be namespaced; arguments are walked either
			// way.
			if root, member, ok := node.NamespaceParts(); ok {
				result.NamespaceMembers[member] = root
				record(root)
			} else {
				record(node.BaseName())
			}
			for _, arg := range node.TypeArguments() {
				walk(arg)
			}
			return
		}
		for _, child := range node.NamedChildren() {
			walk(child)
		}
	}
	walk(decl.Node)

	return result
}

// targetFor resolves a collected name to its target; names the resolver
// cannot place stay local to the declaring file.
func (c *Collector) targetFor(name string, file *workspace.SourceFile) property.Target {
	if sym := c.resolver.Resolve(name, file); sym != nil {
		return sym.Target
	}
	return property.LocalTarget(file.Path(), name)
}

// ModuleDependencies filters a dependency list down to external packages,
// returning the distinct module names in first-seen order.
func ModuleDependencies(deps []property.Dependency) []string {
	seen := make(map[string]bool)
	var modules []string
	for _, dep := range deps {
		if dep.Target.Kind != property.TargetModule {
			continue
		}
		if seen[dep.Target.Name] {
			continue
		}
		seen[dep.Target.Name] = true
		modules = append(modules, dep.Target.Name)
	}
	return modules
}

// SplitName separates a possibly namespaced reference into root and member.
func SplitName(name string) (root, member string, ok bool) {
	idx := strings.LastIndex(name, ".")
	if idx < 0 {
		return name, "", false
	}
	return name[:idx], name[idx+1:], true
}
