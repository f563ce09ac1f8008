package resolve

import (
	"github.com/monoship/monoship/internal/graph"
	"github.com/monoship/monoship/internal/model"
)

// orderUpdates implements §4.F step 6: the plan's update list is sorted by
// the graph's topological order on internal edges (leaves first), with ties
// within the same rank broken by package name ascending — both already
// guaranteed by DependencyGraph.TopologicalOrder.
func orderUpdates(g *graph.DependencyGraph, updates map[string]*model.VersionUpdate) []model.VersionUpdate {
	ordered := make([]model.VersionUpdate, 0, len(updates))
	for _, name := range g.TopologicalOrder() {
		if update, ok := updates[name]; ok {
			ordered = append(ordered, *update)
		}
	}
	return ordered
}

// cyclesFromGraph converts the graph's reported cycles into the resolver's
// output shape.
func cyclesFromGraph(g *graph.DependencyGraph) []model.Cycle {
	var out []model.Cycle
	for _, c := range g.Cycles() {
		out = append(out, model.Cycle{Packages: c.Packages})
	}
	return out
}
