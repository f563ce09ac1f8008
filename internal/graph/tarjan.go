package graph

// stronglyConnectedComponents runs Tarjan's algorithm over the graph's
// internal (Resolved-edge) sub-graph and returns its SCCs, each a slice of
// package names. It also stamps the SCC field of every member of a component
// of size >= 2 with that component's id; other nodes keep 0.
func stronglyConnectedComponents(g *DependencyGraph) [][]string {
	if g == nil || len(g.nodes) == 0 {
		return [][]string{}
	}

	s := &tarjanState{
		graph:    g,
		indices:  make(map[string]int),
		lowlinks: make(map[string]int),
		onStack:  make(map[string]bool),
		sccID:    1, // 0 means "not in a cycle"
	}

	for _, name := range g.sortedNames() {
		if _, visited := s.indices[name]; !visited {
			s.strongConnect(name)
		}
	}

	return s.sccs
}

type tarjanState struct {
	graph    *DependencyGraph
	index    int
	indices  map[string]int
	lowlinks map[string]int
	onStack  map[string]bool
	stack    []string
	sccs     [][]string
	sccID    int
}

func (s *tarjanState) strongConnect(name string) {
	s.indices[name] = s.index
	s.lowlinks[name] = s.index
	s.index++
	s.stack = append(s.stack, name)
	s.onStack[name] = true

	for _, edge := range s.graph.resolvedEdgesFrom(name) {
		successor := edge.To
		if _, visited := s.indices[successor]; !visited {
			s.strongConnect(successor)
			s.lowlinks[name] = min(s.lowlinks[name], s.lowlinks[successor])
		} else if s.onStack[successor] {
			s.lowlinks[name] = min(s.lowlinks[name], s.indices[successor])
		}
	}

	if s.lowlinks[name] == s.indices[name] {
		var scc []string
		for {
			w := s.stack[len(s.stack)-1]
			s.stack = s.stack[:len(s.stack)-1]
			s.onStack[w] = false
			scc = append(scc, w)
			if w == name {
				break
			}
		}
		if len(scc) >= 2 {
			for _, w := range scc {
				s.graph.setSCC(w, s.sccID)
			}
			s.sccID++
		}
		s.sccs = append(s.sccs, scc)
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
