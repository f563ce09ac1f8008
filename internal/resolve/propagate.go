package resolve

import (
	"sort"

	"github.com/monoship/monoship/internal/graph"
	"github.com/monoship/monoship/internal/model"
)

// propagated is one package's propagated bump signal.
type propagated struct {
	bump   model.BumpType
	origin string // immediate upstream package that caused this propagation
}

// propagateBumps implements §4.F step 3: transitive propagation of direct
// bumps through the dependency graph. A dependent already carrying a direct
// bump never receives a propagated one (direct always wins). When a
// dependent is reachable through more than one path, the maximum bump wins.
// Propagation proceeds level by level; since only a strictly higher bump
// re-enters the frontier, and priority is bounded, this always terminates
// even across the cyclic edges a graph may contain.
func propagateBumps(g *graph.DependencyGraph, direct map[string]directBump, opts Options) map[string]propagated {
	result := make(map[string]propagated)
	kinds := opts.propagationKinds()
	mode := opts.propagationMode()

	frontier := make(map[string]model.BumpType, len(direct))
	for pkg, d := range direct {
		frontier[pkg] = d.bump
	}

	for len(frontier) > 0 {
		origins := make([]string, 0, len(frontier))
		for pkg := range frontier {
			origins = append(origins, pkg)
		}
		sort.Strings(origins)

		next := make(map[string]model.BumpType)
		for _, origin := range origins {
			upstreamBump := frontier[origin]
			for _, dependent := range g.DependentsOfKinds(origin, kinds) {
				if _, isDirect := direct[dependent]; isDirect {
					continue
				}
				bump := propagationBump(mode, upstreamBump)
				existing, has := result[dependent]
				if has && bump.Priority() <= existing.bump.Priority() {
					continue
				}
				result[dependent] = propagated{bump: bump, origin: origin}
				next[dependent] = bump
			}
		}
		frontier = next
	}

	return result
}

// propagationBump derives a propagated bump's size from the upstream bump,
// per the configured PropagationMode.
func propagationBump(mode PropagationMode, upstream model.BumpType) model.BumpType {
	if mode == MatchUpstreamPropagation {
		return upstream
	}
	return model.BumpPatch
}
