package graph

import "sort"

// Cycle is a strongly-connected component of size >= 2 on the internal
// sub-graph — packages that depend on each other, directly or transitively.
type Cycle struct {
	Packages []string
}

// Cycles returns the set of strongly-connected components of size >= 2,
// per §4.B. Each cycle's members and the overall list are both in stable
// ascending-name order.
func (g *DependencyGraph) Cycles() []Cycle {
	sccs := stronglyConnectedComponents(g)

	var cycles []Cycle
	for _, scc := range sccs {
		if len(scc) < 2 {
			continue
		}
		members := append([]string(nil), scc...)
		sort.Strings(members)
		cycles = append(cycles, Cycle{Packages: members})
	}

	sort.Slice(cycles, func(i, j int) bool { return cycles[i].Packages[0] < cycles[j].Packages[0] })
	return cycles
}
