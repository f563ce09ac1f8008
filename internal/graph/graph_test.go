package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monoship/monoship/internal/model"
)

func pkg(name, version string, deps map[string]string) model.Package {
	return model.Package{
		Name:    name,
		Version: version,
		Dependencies: map[model.DependencyKind]map[string]string{
			model.DependencyProd:     deps,
			model.DependencyDev:      {},
			model.DependencyPeer:     {},
			model.DependencyOptional: {},
		},
	}
}

func TestBuild_ResolvedAndUnresolvedEdges(t *testing.T) {
	packages := []model.Package{
		pkg("a", "1.0.0", map[string]string{"b": "^1.0.0", "left-pad": "^1.0.0"}),
		pkg("b", "1.2.0", nil),
	}

	g, err := Build(packages)
	require.NoError(t, err)
	assert.Equal(t, 2, g.NodeCount())
	assert.Equal(t, 2, g.EdgeCount())

	edges := g.EdgesFrom("a")
	var toB, toLeftPad *Edge
	for i := range edges {
		switch edges[i].To {
		case "b":
			toB = &edges[i]
		case "left-pad":
			toLeftPad = &edges[i]
		}
	}
	require.NotNil(t, toB)
	require.NotNil(t, toLeftPad)
	assert.True(t, toB.Resolved)
	assert.False(t, toLeftPad.Resolved)
}

func TestBuild_UnsatisfiedVersionIsUnresolved(t *testing.T) {
	packages := []model.Package{
		pkg("a", "1.0.0", map[string]string{"b": "^2.0.0"}),
		pkg("b", "1.0.0", nil),
	}
	g, err := Build(packages)
	require.NoError(t, err)

	edges := g.EdgesFrom("a")
	require.Len(t, edges, 1)
	assert.False(t, edges[0].Resolved)
}

func TestCycles_DetectsMultiNodeCycle(t *testing.T) {
	packages := []model.Package{
		pkg("a", "1.0.0", map[string]string{"b": "^1.0.0"}),
		pkg("b", "1.0.0", map[string]string{"c": "^1.0.0"}),
		pkg("c", "1.0.0", map[string]string{"a": "^1.0.0"}),
	}
	g, err := Build(packages)
	require.NoError(t, err)

	cycles := g.Cycles()
	require.Len(t, cycles, 1)
	assert.Equal(t, []string{"a", "b", "c"}, cycles[0].Packages)
}

func TestCycles_NoSelfLoopWithoutActualCycle(t *testing.T) {
	packages := []model.Package{
		pkg("a", "1.0.0", map[string]string{"b": "^1.0.0"}),
		pkg("b", "1.0.0", nil),
	}
	g, err := Build(packages)
	require.NoError(t, err)
	assert.Empty(t, g.Cycles())
}

func TestTopologicalOrder_DependenciesBeforeDependents(t *testing.T) {
	packages := []model.Package{
		pkg("app", "1.0.0", map[string]string{"lib": "^1.0.0"}),
		pkg("lib", "1.0.0", map[string]string{"core": "^1.0.0"}),
		pkg("core", "1.0.0", nil),
	}
	g, err := Build(packages)
	require.NoError(t, err)

	order := g.TopologicalOrder()
	assert.Equal(t, []string{"core", "lib", "app"}, order)
}

func TestTopologicalOrder_TiesBreakByNameAscending(t *testing.T) {
	packages := []model.Package{
		pkg("z", "1.0.0", nil),
		pkg("a", "1.0.0", nil),
		pkg("m", "1.0.0", nil),
	}
	g, err := Build(packages)
	require.NoError(t, err)

	order := g.TopologicalOrder()
	assert.Equal(t, []string{"a", "m", "z"}, order)
}

func TestTopologicalOrder_CyclicGroupStaysTogether(t *testing.T) {
	packages := []model.Package{
		pkg("app", "1.0.0", map[string]string{"b": "^1.0.0"}),
		pkg("b", "1.0.0", map[string]string{"a": "^1.0.0"}),
		pkg("a", "1.0.0", map[string]string{"b": "^1.0.0"}),
	}
	g, err := Build(packages)
	require.NoError(t, err)

	order := g.TopologicalOrder()
	require.Len(t, order, 3)
	// a and b form a cycle; they must be adjacent, sorted, and before app.
	assert.Equal(t, []string{"a", "b", "app"}, order)
}

func TestDependentsOf(t *testing.T) {
	packages := []model.Package{
		pkg("app", "1.0.0", map[string]string{"lib": "^1.0.0"}),
		pkg("other", "1.0.0", map[string]string{"lib": "^1.0.0"}),
		pkg("lib", "1.0.0", nil),
	}
	g, err := Build(packages)
	require.NoError(t, err)
	assert.Equal(t, []string{"app", "other"}, g.DependentsOf("lib"))
}

func TestTransitiveDependentsOf(t *testing.T) {
	packages := []model.Package{
		pkg("app", "1.0.0", map[string]string{"lib": "^1.0.0"}),
		pkg("lib", "1.0.0", map[string]string{"core": "^1.0.0"}),
		pkg("core", "1.0.0", nil),
	}
	g, err := Build(packages)
	require.NoError(t, err)
	assert.Equal(t, []string{"app", "core", "lib"}, g.TransitiveDependentsOf("core"))
}

func TestFindVersionConflicts(t *testing.T) {
	packages := []model.Package{
		pkg("a", "1.0.0", map[string]string{"shared": "^1.0.0"}),
		pkg("b", "1.0.0", map[string]string{"shared": "^2.0.0"}),
		pkg("shared", "2.0.0", nil),
	}
	g, err := Build(packages)
	require.NoError(t, err)

	conflicts := g.FindVersionConflicts()
	require.Len(t, conflicts, 1)
	assert.Equal(t, "shared", conflicts[0].Name)
	assert.Equal(t, []string{"^1.0.0", "^2.0.0"}, conflicts[0].Specs)
}

func TestFindVersionConflicts_NoConflictWhenSpecsMatch(t *testing.T) {
	packages := []model.Package{
		pkg("a", "1.0.0", map[string]string{"shared": "^1.0.0"}),
		pkg("b", "1.0.0", map[string]string{"shared": "^1.0.0"}),
		pkg("shared", "1.0.0", nil),
	}
	g, err := Build(packages)
	require.NoError(t, err)
	assert.Empty(t, g.FindVersionConflicts())
}
