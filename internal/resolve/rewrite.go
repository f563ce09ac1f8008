package resolve

import (
	"github.com/monoship/monoship/internal/graph"
	"github.com/monoship/monoship/internal/model"
	"github.com/monoship/monoship/internal/semver"
)

// ReasonDependencyRewrite marks a VersionUpdate created solely to carry
// dependency-spec rewrites: the package itself received no bump, but it
// declares a dependency on a package that did (§4.F step 5).
const ReasonDependencyRewrite model.UpdateReasonKind = "dependency_rewrite"

// rewriteDependencySpecs implements §4.F step 5: for every bumped package P,
// every internal dependent's declaration of P is rewritten to the new
// version, preserving the declaration's operator. Dependents with no bump
// of their own still get a VersionUpdate entry so the rewrite has somewhere
// to live; the manifest writer applies it as a no-op version change.
func rewriteDependencySpecs(g *graph.DependencyGraph, updates map[string]*model.VersionUpdate) {
	for _, node := range g.Nodes() {
		dependent := node.Package.Name
		for _, edge := range g.EdgesFrom(dependent) {
			bumped, ok := updates[edge.To]
			if !ok {
				continue
			}
			newVersion, err := semver.Parse(bumped.NewVersion)
			if err != nil {
				continue
			}

			update, ok := updates[dependent]
			if !ok {
				update = &model.VersionUpdate{
					Package:        dependent,
					CurrentVersion: node.Package.Version,
					NewVersion:     node.Package.Version,
					Reason:         model.UpdateReason{Kind: ReasonDependencyRewrite},
				}
				updates[dependent] = update
			}
			update.DependencyUpdates = append(update.DependencyUpdates, model.DependencyUpdate{
				DependencyName: edge.To,
				Kind:           edge.Kind,
				OldSpec:        edge.Spec,
				NewSpec:        semver.RewriteSpec(edge.Spec, newVersion),
			})
		}
	}
}
