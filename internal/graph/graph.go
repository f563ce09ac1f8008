// Package graph builds the workspace's dependency graph: nodes for every
// package, edges for every declared dependency, each edge tagged Resolved
// (the name matches a workspace member whose version satisfies the spec) or
// Unresolved (owned elsewhere — npm, a private registry, nothing at all).
// Only Resolved edges participate in cycle detection and ordering; an
// Unresolved edge is recorded, never elided, so callers can tell "externally
// owned" from "we own this" at a glance (§4.B).
package graph

import (
	"fmt"
	"sort"

	"github.com/monoship/monoship/internal/model"
)

// Node is one workspace package in the graph.
type Node struct {
	Package model.Package
	SCC     int // strongly-connected-component id; 0 means not in a cycle
}

// Edge is a single declared dependency.
type Edge struct {
	From     string
	To       string
	Kind     model.DependencyKind
	Spec     string
	Resolved bool
}

// DependencyGraph is a directed graph of package dependencies.
type DependencyGraph struct {
	nodes map[string]*Node
	edges map[string][]Edge
}

// New returns an empty graph.
func New() *DependencyGraph {
	return &DependencyGraph{
		nodes: make(map[string]*Node),
		edges: make(map[string][]Edge),
	}
}

// AddNode registers a package. Returns an error if it is already present.
func (g *DependencyGraph) AddNode(pkg model.Package) error {
	if _, exists := g.nodes[pkg.Name]; exists {
		return fmt.Errorf("node already exists: %s", pkg.Name)
	}
	g.nodes[pkg.Name] = &Node{Package: pkg}
	if g.edges[pkg.Name] == nil {
		g.edges[pkg.Name] = []Edge{}
	}
	return nil
}

// AddEdge adds a declared dependency from "from" to "to". "from" must already
// be a node; "to" need not be — an Unresolved edge may point to a package
// this workspace doesn't own.
func (g *DependencyGraph) AddEdge(from, to string, kind model.DependencyKind, spec string, resolved bool) error {
	if _, exists := g.nodes[from]; !exists {
		return fmt.Errorf("source node not found: %s", from)
	}
	g.edges[from] = append(g.edges[from], Edge{From: from, To: to, Kind: kind, Spec: spec, Resolved: resolved})
	return nil
}

// GetNode returns the node with the given name.
func (g *DependencyGraph) GetNode(name string) (*Node, bool) {
	n, ok := g.nodes[name]
	return n, ok
}

// EdgesFrom returns every edge (resolved and unresolved) declared by name.
func (g *DependencyGraph) EdgesFrom(name string) []Edge {
	return g.edges[name]
}

// resolvedEdgesFrom returns only the internal sub-graph's edges, the ones
// cycle detection and ordering operate on.
func (g *DependencyGraph) resolvedEdgesFrom(name string) []Edge {
	var out []Edge
	for _, e := range g.edges[name] {
		if e.Resolved {
			out = append(out, e)
		}
	}
	return out
}

// Nodes returns every node, in no particular order.
func (g *DependencyGraph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		out = append(out, n)
	}
	return out
}

// NodeCount returns the number of nodes in the graph.
func (g *DependencyGraph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the total number of edges, resolved and unresolved.
func (g *DependencyGraph) EdgeCount() int {
	count := 0
	for _, edges := range g.edges {
		count += len(edges)
	}
	return count
}

func (g *DependencyGraph) setSCC(name string, id int) {
	if n, ok := g.nodes[name]; ok {
		n.SCC = id
	}
}

// sortedNames returns every node name, sorted ascending — used wherever an
// operation must break ties deterministically.
func (g *DependencyGraph) sortedNames() []string {
	names := make([]string, 0, len(g.nodes))
	for name := range g.nodes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
