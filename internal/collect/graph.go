package collect

import (
	"errors"
	"fmt"
	"io"

	"github.com/dominikbraun/graph"
	"github.com/dominikbraun/graph/draw"

	"github.com/typescan/typescan/internal/property"
)

// TypeNode is one vertex of the type dependency graph.
type TypeNode struct {
	Name string
	// Module is the providing package for external types, empty for
	// workspace declarations.
	Module string
	// File is the declaring file for workspace declarations.
	File string
}

// ID is the vertex hash: external types are qualified by their package so
// `Options` from two packages stays two vertices.
func (n TypeNode) ID() string {
	if n.Module != "" {
		return n.Module + "#" + n.Name
	}
	return n.Name
}

// DependencyGraph accumulates type-to-type edges across declarations.
type DependencyGraph struct {
	g graph.Graph[string, TypeNode]
}

// NewDependencyGraph creates an empty directed graph. Cycles are allowed;
// circular type references are legal in TypeScript.
func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		g: graph.New(func(n TypeNode) string { return n.ID() }, graph.Directed()),
	}
}

// AddType registers a vertex; re-adding an existing type is a no-op.
func (dg *DependencyGraph) AddType(node TypeNode) error {
	attrs := []func(*graph.VertexProperties){
		graph.VertexAttribute("label", vertexLabel(node)),
	}
	if node.Module != "" {
		attrs = append(attrs, graph.VertexAttribute("shape", "box"))
	}
	err := dg.g.AddVertex(node, attrs...)
	if errors.Is(err, graph.ErrVertexAlreadyExists) {
		return nil
	}
	return err
}

func vertexLabel(node TypeNode) string {
	if node.Module != "" {
		return fmt.Sprintf("%s\n(%s)", node.Name, node.Module)
	}
	return node.Name
}

// AddEdge records that from depends on to; duplicates are no-ops.
func (dg *DependencyGraph) AddEdge(from, to TypeNode) error {
	err := dg.g.AddEdge(from.ID(), to.ID())
	if errors.Is(err, graph.ErrEdgeAlreadyExists) {
		return nil
	}
	return err
}

// AddResult folds one declaration's collected references into the graph.
func (dg *DependencyGraph) AddResult(declName, declFile string, result Result) error {
	root := TypeNode{Name: declName, File: declFile}
	if err := dg.AddType(root); err != nil {
		return err
	}
	for _, dep := range result.Dependencies {
		node := dependencyNode(dep)
		if err := dg.AddType(node); err != nil {
			return err
		}
		if err := dg.AddEdge(root, node); err != nil {
			return err
		}
	}
	return nil
}

func dependencyNode(dep property.Dependency) TypeNode {
	node := TypeNode{Name: dep.Dependency}
	switch dep.Target.Kind {
	case property.TargetModule:
		node.Module = dep.Target.Name
	case property.TargetLocal:
		node.File = dep.Target.FilePath
	}
	return node
}

// TopologicalOrder returns vertex IDs with every type ahead of the types it
// depends on, ties broken lexically for stable output. Fails when the graph
// has a cycle.
func (dg *DependencyGraph) TopologicalOrder() ([]string, error) {
	return graph.StableTopologicalSort(dg.g, func(a, b string) bool { return a < b })
}

// Order returns the vertex count.
func (dg *DependencyGraph) Order() (int, error) {
	return dg.g.Order()
}

// WriteDOT renders the graph in Graphviz DOT format.
func (dg *DependencyGraph) WriteDOT(w io.Writer) error {
	return draw.DOT(dg.g, w)
}
