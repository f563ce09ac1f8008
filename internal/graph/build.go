package graph

import (
	"fmt"

	"github.com/monoship/monoship/internal/model"
	"github.com/monoship/monoship/internal/semver"
)

// Build constructs a dependency graph from a set of workspace packages.
// Construction never fails on a dependency it can't resolve internally —
// that dependency becomes an Unresolved edge instead.
func Build(packages []model.Package) (*DependencyGraph, error) {
	g := New()

	byName := make(map[string]model.Package, len(packages))
	for _, pkg := range packages {
		if err := g.AddNode(pkg); err != nil {
			return nil, fmt.Errorf("adding package node %s: %w", pkg.Name, err)
		}
		byName[pkg.Name] = pkg
	}

	for _, pkg := range packages {
		for _, decl := range pkg.AllDependencySpecs() {
			target, isInternal := byName[decl.Name]
			resolved := false
			if isInternal {
				resolved = specIsSatisfiedBy(decl.Spec, target.Version)
			}
			if err := g.AddEdge(pkg.Name, decl.Name, decl.Kind, decl.Spec, resolved); err != nil {
				return nil, fmt.Errorf("adding dependency edge %s -> %s: %w", pkg.Name, decl.Name, err)
			}
		}
	}

	return g, nil
}

// specIsSatisfiedBy reports whether version satisfies spec. A spec or
// version that fails to parse is treated as unsatisfied rather than a fatal
// construction error — the edge becomes Unresolved and callers can diagnose
// it without graph construction itself failing (§4.B's "never fails").
func specIsSatisfiedBy(spec, version string) bool {
	v, err := semver.Parse(version)
	if err != nil {
		return false
	}
	ok, err := semver.Satisfies(spec, v)
	if err != nil {
		return false
	}
	return ok
}
