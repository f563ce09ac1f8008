package resolve

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monoship/monoship/internal/graph"
	"github.com/monoship/monoship/internal/model"
)

func pkg(name, version string, deps map[string]string) model.Package {
	prod := make(map[string]string)
	for dep, spec := range deps {
		prod[dep] = spec
	}
	return model.Package{
		Name:    name,
		Version: version,
		RelPath: "packages/" + name,
		Dependencies: map[model.DependencyKind]map[string]string{
			model.DependencyProd:     prod,
			model.DependencyDev:      {},
			model.DependencyPeer:     {},
			model.DependencyOptional: {},
		},
	}
}

func changeset(id, pkgName string, bump model.BumpType) *model.Changeset {
	return &model.Changeset{
		ID: id, Package: pkgName, Bump: bump,
		Status: model.ChangesetPending, CreatedAt: time.Now(),
	}
}

func TestResolveIndependent_SeedFromChangeset(t *testing.T) {
	g, err := graph.Build([]model.Package{pkg("core", "1.0.0", nil)})
	require.NoError(t, err)

	plan, err := Resolve(g, []*model.Changeset{changeset("cs1", "core", model.BumpMinor)}, nil, Options{})
	require.NoError(t, err)

	update := plan.UpdateFor("core")
	require.NotNil(t, update)
	assert.Equal(t, "1.1.0", update.NewVersion)
	assert.Equal(t, model.BumpMinor, update.BumpType)
	assert.Equal(t, "Changeset", update.Reason.String())
}

func TestResolveIndependent_ChangesetOverridesCommitSuggestion(t *testing.T) {
	g, err := graph.Build([]model.Package{pkg("core", "1.0.0", nil)})
	require.NoError(t, err)

	commits := map[string][]model.ConventionalCommit{
		"core": {{Type: "feat"}}, // would suggest minor
	}
	plan, err := Resolve(g, []*model.Changeset{changeset("cs1", "core", model.BumpPatch)}, commits, Options{})
	require.NoError(t, err)

	update := plan.UpdateFor("core")
	require.NotNil(t, update)
	assert.Equal(t, "1.0.1", update.NewVersion) // patch from changeset, not minor from commit
	assert.Equal(t, "Changeset", update.Reason.String())
}

func TestResolveIndependent_CommitFallbackWhenNoChangeset(t *testing.T) {
	g, err := graph.Build([]model.Package{pkg("core", "1.0.0", nil)})
	require.NoError(t, err)

	commits := map[string][]model.ConventionalCommit{
		"core": {{Type: "fix"}, {Type: "feat"}},
	}
	plan, err := Resolve(g, nil, commits, Options{})
	require.NoError(t, err)

	update := plan.UpdateFor("core")
	require.NotNil(t, update)
	assert.Equal(t, model.BumpMinor, update.BumpType) // max(patch, minor)
	assert.Equal(t, "ConventionalCommits", update.Reason.String())
}

func TestResolveIndependent_PackageWithNoSignalIsNotBumped(t *testing.T) {
	g, err := graph.Build([]model.Package{pkg("core", "1.0.0", nil)})
	require.NoError(t, err)

	plan, err := Resolve(g, nil, nil, Options{})
	require.NoError(t, err)
	assert.Nil(t, plan.UpdateFor("core"))
}

func TestResolveIndependent_UnknownPackageChangesetFails(t *testing.T) {
	g, err := graph.Build([]model.Package{pkg("core", "1.0.0", nil)})
	require.NoError(t, err)

	plan, err := Resolve(g, []*model.Changeset{changeset("cs1", "ghost", model.BumpMinor)}, nil, Options{})
	require.NoError(t, err)

	require.Len(t, plan.ChangesetFailures, 1)
	assert.Equal(t, "ghost", plan.ChangesetFailures[0].Package)
	assert.Equal(t, "UnknownPackage", plan.ChangesetFailures[0].Reason)
	assert.Nil(t, plan.UpdateFor("core"))
}

func TestResolveIndependent_PropagatesPatchByDefault(t *testing.T) {
	packages := []model.Package{
		pkg("core", "1.0.0", nil),
		pkg("api", "1.0.0", map[string]string{"core": "^1.0.0"}),
	}
	g, err := graph.Build(packages)
	require.NoError(t, err)

	plan, err := Resolve(g, []*model.Changeset{changeset("cs1", "core", model.BumpMajor)}, nil, Options{})
	require.NoError(t, err)

	coreUpdate := plan.UpdateFor("core")
	require.NotNil(t, coreUpdate)
	assert.Equal(t, "2.0.0", coreUpdate.NewVersion)

	apiUpdate := plan.UpdateFor("api")
	require.NotNil(t, apiUpdate)
	assert.Equal(t, "1.0.1", apiUpdate.NewVersion) // patch propagation regardless of upstream major
	assert.Equal(t, model.BumpPatch, apiUpdate.BumpType)
	assert.Equal(t, "PropagatedFrom(core)", apiUpdate.Reason.String())
}

func TestResolveIndependent_MatchUpstreamPropagation(t *testing.T) {
	packages := []model.Package{
		pkg("core", "1.0.0", nil),
		pkg("api", "1.0.0", map[string]string{"core": "^1.0.0"}),
	}
	g, err := graph.Build(packages)
	require.NoError(t, err)

	plan, err := Resolve(g, []*model.Changeset{changeset("cs1", "core", model.BumpMajor)}, nil,
		Options{Propagation: MatchUpstreamPropagation})
	require.NoError(t, err)

	apiUpdate := plan.UpdateFor("api")
	require.NotNil(t, apiUpdate)
	assert.Equal(t, "2.0.0", apiUpdate.NewVersion)
	assert.Equal(t, model.BumpMajor, apiUpdate.BumpType)
}

func TestResolveIndependent_DirectBumpWinsOverPropagation(t *testing.T) {
	packages := []model.Package{
		pkg("core", "1.0.0", nil),
		pkg("api", "1.0.0", map[string]string{"core": "^1.0.0"}),
	}
	g, err := graph.Build(packages)
	require.NoError(t, err)

	plan, err := Resolve(g, []*model.Changeset{
		changeset("cs1", "core", model.BumpMinor),
		changeset("cs2", "api", model.BumpMajor),
	}, nil, Options{})
	require.NoError(t, err)

	apiUpdate := plan.UpdateFor("api")
	require.NotNil(t, apiUpdate)
	assert.Equal(t, "2.0.0", apiUpdate.NewVersion) // direct major, not propagated patch
	assert.Equal(t, "Changeset", apiUpdate.Reason.String())
}

func TestResolveIndependent_DiamondTakesMaximumPropagation(t *testing.T) {
	// d depends on b and c, both depend on a. a bumps; d should still only
	// receive a single (maximum) propagated bump, not be double-counted.
	packages := []model.Package{
		pkg("a", "1.0.0", nil),
		pkg("b", "1.0.0", map[string]string{"a": "^1.0.0"}),
		pkg("c", "1.0.0", map[string]string{"a": "^1.0.0"}),
		pkg("d", "1.0.0", map[string]string{"b": "^1.0.0", "c": "^1.0.0"}),
	}
	g, err := graph.Build(packages)
	require.NoError(t, err)

	plan, err := Resolve(g, []*model.Changeset{changeset("cs1", "a", model.BumpMinor)}, nil,
		Options{Propagation: MatchUpstreamPropagation})
	require.NoError(t, err)

	for _, name := range []string{"a", "b", "c", "d"} {
		update := plan.UpdateFor(name)
		require.NotNilf(t, update, "expected update for %s", name)
		assert.Equal(t, model.BumpMinor, update.BumpType, "package %s", name)
	}
}

func TestResolveIndependent_PeerDependencyDoesNotPropagateByDefault(t *testing.T) {
	packages := []model.Package{
		pkg("core", "1.0.0", nil),
		{
			Name: "plugin", Version: "1.0.0", RelPath: "packages/plugin",
			Dependencies: map[model.DependencyKind]map[string]string{
				model.DependencyProd:     {},
				model.DependencyDev:      {},
				model.DependencyPeer:     {"core": "^1.0.0"},
				model.DependencyOptional: {},
			},
		},
	}
	g, err := graph.Build(packages)
	require.NoError(t, err)

	plan, err := Resolve(g, []*model.Changeset{changeset("cs1", "core", model.BumpMajor)}, nil, Options{})
	require.NoError(t, err)

	// plugin still gets a rewrite-only update for its peer spec, but no bump.
	pluginUpdate := plan.UpdateFor("plugin")
	require.NotNil(t, pluginUpdate)
	assert.Equal(t, pluginUpdate.CurrentVersion, pluginUpdate.NewVersion)
}

func TestResolveIndependent_PeerDependencyPropagatesWhenEnabled(t *testing.T) {
	packages := []model.Package{
		pkg("core", "1.0.0", nil),
		{
			Name: "plugin", Version: "1.0.0", RelPath: "packages/plugin",
			Dependencies: map[model.DependencyKind]map[string]string{
				model.DependencyProd:     {},
				model.DependencyDev:      {},
				model.DependencyPeer:     {"core": "^1.0.0"},
				model.DependencyOptional: {},
			},
		},
	}
	g, err := graph.Build(packages)
	require.NoError(t, err)

	plan, err := Resolve(g, []*model.Changeset{changeset("cs1", "core", model.BumpMajor)}, nil,
		Options{PropagateThroughPeerDependencies: true})
	require.NoError(t, err)

	assert.NotNil(t, plan.UpdateFor("plugin"))
}

func TestResolveIndependent_DependencySpecRewrite(t *testing.T) {
	packages := []model.Package{
		pkg("core", "1.0.0", nil),
		pkg("api", "1.0.0", map[string]string{"core": "^1.0.0"}),
	}
	g, err := graph.Build(packages)
	require.NoError(t, err)

	plan, err := Resolve(g, []*model.Changeset{changeset("cs1", "core", model.BumpMajor)}, nil, Options{})
	require.NoError(t, err)

	apiUpdate := plan.UpdateFor("api")
	require.NotNil(t, apiUpdate)
	require.Len(t, apiUpdate.DependencyUpdates, 1)
	dep := apiUpdate.DependencyUpdates[0]
	assert.Equal(t, "core", dep.DependencyName)
	assert.Equal(t, "^1.0.0", dep.OldSpec)
	assert.Equal(t, "^2.0.0", dep.NewSpec)
}

func TestResolveIndependent_RewriteOnlyUpdateForUnbumpedDependent(t *testing.T) {
	// plugin depends on core only via a peer edge, which doesn't propagate
	// by default, so plugin receives no bump of its own — but it still
	// needs its manifest's peer dependency spec rewritten to core's new
	// version, so it still gets a VersionUpdate to carry that rewrite.
	packages := []model.Package{
		pkg("core", "1.0.0", nil),
		{
			Name: "plugin", Version: "1.0.0", RelPath: "packages/plugin",
			Dependencies: map[model.DependencyKind]map[string]string{
				model.DependencyProd:     {},
				model.DependencyDev:      {},
				model.DependencyPeer:     {"core": "^1.0.0"},
				model.DependencyOptional: {},
			},
		},
	}
	g, err := graph.Build(packages)
	require.NoError(t, err)

	plan, err := Resolve(g, []*model.Changeset{changeset("cs1", "core", model.BumpMinor)}, nil, Options{})
	require.NoError(t, err)

	pluginUpdate := plan.UpdateFor("plugin")
	require.NotNil(t, pluginUpdate)
	assert.Equal(t, "DependencyRewrite", pluginUpdate.Reason.String())
	assert.Equal(t, pluginUpdate.CurrentVersion, pluginUpdate.NewVersion) // not itself bumped
	require.Len(t, pluginUpdate.DependencyUpdates, 1)
	assert.Equal(t, "^1.1.0", pluginUpdate.DependencyUpdates[0].NewSpec)
}

func TestResolveIndependent_SnapshotMode(t *testing.T) {
	g, err := graph.Build([]model.Package{pkg("core", "1.0.0", nil)})
	require.NoError(t, err)

	plan, err := Resolve(g, []*model.Changeset{changeset("cs1", "core", model.BumpMinor)}, nil,
		Options{Snapshot: true, SnapshotSHA: "abc1234"})
	require.NoError(t, err)

	update := plan.UpdateFor("core")
	require.NotNil(t, update)
	assert.Equal(t, "1.1.0-0.abc1234", update.NewVersion)
}

func TestResolveIndependent_UpdatesOrderedTopologically(t *testing.T) {
	packages := []model.Package{
		pkg("api", "1.0.0", map[string]string{"core": "^1.0.0"}),
		pkg("core", "1.0.0", nil),
	}
	g, err := graph.Build(packages)
	require.NoError(t, err)

	plan, err := Resolve(g, []*model.Changeset{
		changeset("cs1", "core", model.BumpMinor),
		changeset("cs2", "api", model.BumpMinor),
	}, nil, Options{})
	require.NoError(t, err)

	require.Len(t, plan.Updates, 2)
	assert.Equal(t, "core", plan.Updates[0].Package) // leaf first
	assert.Equal(t, "api", plan.Updates[1].Package)
}

func TestResolveIndependent_CyclesReportedNotFatal(t *testing.T) {
	packages := []model.Package{
		pkg("a", "1.0.0", map[string]string{"b": "^1.0.0"}),
		pkg("b", "1.0.0", map[string]string{"a": "^1.0.0"}),
	}
	g, err := graph.Build(packages)
	require.NoError(t, err)

	plan, err := Resolve(g, []*model.Changeset{changeset("cs1", "a", model.BumpPatch)}, nil, Options{})
	require.NoError(t, err)
	require.Len(t, plan.Cycles, 1)
	assert.ElementsMatch(t, []string{"a", "b"}, plan.Cycles[0].Packages)
}

func TestResolveSynchronized(t *testing.T) {
	packages := []model.Package{
		pkg("core", "1.0.0", nil),
		pkg("api", "2.3.1", map[string]string{"core": "^1.0.0"}),
	}
	g, err := graph.Build(packages)
	require.NoError(t, err)

	plan, err := Resolve(g, nil, nil, Options{Strategy: Synchronized, Version: "3.0.0"})
	require.NoError(t, err)

	for _, name := range []string{"core", "api"} {
		update := plan.UpdateFor(name)
		require.NotNil(t, update)
		assert.Equal(t, "3.0.0", update.NewVersion)
		assert.Equal(t, "Manual", update.Reason.String())
	}
	apiUpdate := plan.UpdateFor("api")
	assert.Equal(t, "^3.0.0", apiUpdate.DependencyUpdates[0].NewSpec)
}

func TestResolveSynchronized_InvalidVersionFailsWholeOperation(t *testing.T) {
	g, err := graph.Build([]model.Package{pkg("core", "1.0.0", nil)})
	require.NoError(t, err)

	_, err = Resolve(g, nil, nil, Options{Strategy: Synchronized, Version: "not-a-version"})
	assert.Error(t, err)
}

func TestResolveManual(t *testing.T) {
	packages := []model.Package{
		pkg("core", "1.0.0", nil),
		pkg("api", "1.0.0", nil),
	}
	g, err := graph.Build(packages)
	require.NoError(t, err)

	plan, err := Resolve(g, nil, nil, Options{Strategy: Manual, Versions: map[string]string{"core": "5.0.0"}})
	require.NoError(t, err)

	coreUpdate := plan.UpdateFor("core")
	require.NotNil(t, coreUpdate)
	assert.Equal(t, "5.0.0", coreUpdate.NewVersion)
	assert.Nil(t, plan.UpdateFor("api")) // not in the map, not bumped
}

func TestResolveManual_UnparsableVersionFailsOnlyThatUpdate(t *testing.T) {
	packages := []model.Package{
		pkg("core", "1.0.0", nil),
		pkg("api", "1.0.0", nil),
	}
	g, err := graph.Build(packages)
	require.NoError(t, err)

	plan, err := Resolve(g, nil, nil, Options{Strategy: Manual, Versions: map[string]string{
		"core": "not-a-version",
		"api":  "2.0.0",
	}})
	require.NoError(t, err)

	coreUpdate := plan.UpdateFor("core")
	require.NotNil(t, coreUpdate)
	assert.True(t, coreUpdate.Failed)

	apiUpdate := plan.UpdateFor("api")
	require.NotNil(t, apiUpdate)
	assert.False(t, apiUpdate.Failed)
	assert.Equal(t, "2.0.0", apiUpdate.NewVersion)
}
