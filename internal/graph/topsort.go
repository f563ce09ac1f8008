package graph

import (
	"sort"
)

// group is a condensation node: either a single package (non-cyclic) or an
// entire cycle's members, kept together.
type group struct {
	repr    string // lexicographically-smallest member; used for tie-breaking
	members []string
}

// TopologicalOrder returns package names in dependency-before-dependent
// order. Ties among nodes with no remaining unsatisfied internal dependency
// are broken by name ascending. Where cycles exist, ordering is defined on
// the acyclic condensation, with each cycle's members listed together in
// stable name order (§4.B).
func (g *DependencyGraph) TopologicalOrder() []string {
	if g.NodeCount() == 0 {
		return nil
	}

	stronglyConnectedComponents(g) // stamps Node.SCC

	groupOf := make(map[string]*group) // package name -> its group
	groups := make(map[string]*group)  // repr -> group

	sccMembers := make(map[int][]string)
	for _, name := range g.sortedNames() {
		n := g.nodes[name]
		sccMembers[n.SCC] = append(sccMembers[n.SCC], name)
	}

	for sccID, members := range sccMembers {
		if sccID == 0 {
			// 0 means "not in a cycle"; every member here is its own singleton
			// group, not one shared group.
			for _, m := range members {
				grp := &group{repr: m, members: []string{m}}
				groups[m] = grp
				groupOf[m] = grp
			}
			continue
		}
		sorted := append([]string(nil), members...)
		sort.Strings(sorted)
		grp := &group{repr: sorted[0], members: sorted}
		groups[sorted[0]] = grp
		for _, m := range sorted {
			groupOf[m] = grp
		}
	}

	// Build condensation edges and in-degree counts between distinct groups.
	inDegree := make(map[*group]int)
	adjacency := make(map[*group]map[*group]bool)
	for _, grp := range groups {
		inDegree[grp] = 0
		adjacency[grp] = make(map[*group]bool)
	}
	for _, name := range g.sortedNames() {
		fromGrp := groupOf[name]
		for _, edge := range g.resolvedEdgesFrom(name) {
			toGrp := groupOf[edge.To]
			if toGrp == fromGrp || toGrp == nil {
				continue
			}
			if !adjacency[toGrp][fromGrp] {
				adjacency[toGrp][fromGrp] = true
				inDegree[fromGrp]++
			}
		}
	}

	// Kahn's algorithm over the condensation. Edges point dependency ->
	// dependent, so a ready group (in-degree 0) is one whose dependencies
	// are already placed; among ready groups the smallest repr goes first.
	var ready []*group
	for grp, deg := range inDegree {
		if deg == 0 {
			ready = append(ready, grp)
		}
	}
	sortGroups(ready)

	var order []*group
	for len(ready) > 0 {
		sortGroups(ready)
		current := ready[0]
		ready = ready[1:]
		order = append(order, current)

		for to := range adjacency[current] {
			inDegree[to]--
			if inDegree[to] == 0 {
				ready = append(ready, to)
			}
		}
	}

	out := make([]string, 0, len(g.nodes))
	for _, grp := range order {
		out = append(out, grp.members...)
	}
	return out
}

func sortGroups(groups []*group) {
	sort.Slice(groups, func(i, j int) bool { return groups[i].repr < groups[j].repr })
}
