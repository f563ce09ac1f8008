package graph

import (
	"sort"

	"github.com/monoship/monoship/internal/model"
)

// DependentsOf returns the workspace packages that declare a resolved
// dependency on pkg, sorted by name.
func (g *DependencyGraph) DependentsOf(pkg string) []string {
	var out []string
	for _, name := range g.sortedNames() {
		for _, edge := range g.resolvedEdgesFrom(name) {
			if edge.To == pkg {
				out = append(out, name)
				break
			}
		}
	}
	return out
}

// DependentsOfKinds is DependentsOf restricted to edges whose Kind is in
// kinds, used by the Version Resolver's propagation step (§4.F step 3) to
// gate peer/optional dependents out of propagation by default.
func (g *DependencyGraph) DependentsOfKinds(pkg string, kinds map[model.DependencyKind]bool) []string {
	var out []string
	for _, name := range g.sortedNames() {
		for _, edge := range g.resolvedEdgesFrom(name) {
			if edge.To == pkg && kinds[edge.Kind] {
				out = append(out, name)
				break
			}
		}
	}
	return out
}

// TransitiveDependentsOf returns the reflexive-transitive closure of
// DependentsOf: pkg itself, plus every package that depends on it directly
// or through a chain of other workspace packages.
func (g *DependencyGraph) TransitiveDependentsOf(pkg string) []string {
	visited := map[string]bool{pkg: true}
	queue := []string{pkg}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, dependent := range g.DependentsOf(current) {
			if !visited[dependent] {
				visited[dependent] = true
				queue = append(queue, dependent)
			}
		}
	}

	out := make([]string, 0, len(visited))
	for name := range visited {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// VersionConflict is the set of distinct specs declared against one
// dependency name by different dependents.
type VersionConflict struct {
	Name  string
	Specs []string // distinct declared specs, sorted
}

// FindVersionConflicts returns, per dependency name, the set of distinct
// specs declared against it by different dependents, when more than one
// distinct spec exists (§4.B).
func (g *DependencyGraph) FindVersionConflicts() []VersionConflict {
	specsByName := make(map[string]map[string]bool)
	for _, name := range g.sortedNames() {
		for _, edge := range g.EdgesFrom(name) {
			if specsByName[edge.To] == nil {
				specsByName[edge.To] = make(map[string]bool)
			}
			specsByName[edge.To][edge.Spec] = true
		}
	}

	var conflicts []VersionConflict
	for name, specSet := range specsByName {
		if len(specSet) < 2 {
			continue
		}
		specs := make([]string, 0, len(specSet))
		for spec := range specSet {
			specs = append(specs, spec)
		}
		sort.Strings(specs)
		conflicts = append(conflicts, VersionConflict{Name: name, Specs: specs})
	}

	sort.Slice(conflicts, func(i, j int) bool { return conflicts[i].Name < conflicts[j].Name })
	return conflicts
}
