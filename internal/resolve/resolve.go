// Package resolve is the Version Resolver (§4.F): given a dependency graph,
// pending changesets, and optional commit-derived suggestions, it computes a
// ResolutionPlan describing every package's new version, the dependency-spec
// rewrites that follow from it, and any dependency cycles encountered. It
// never touches disk — applying a plan is the Manifest Writer's job (§4.G).
package resolve

import (
	"fmt"

	"github.com/monoship/monoship/internal/graph"
	"github.com/monoship/monoship/internal/model"
	"github.com/monoship/monoship/internal/semver"
)

// Resolve computes a ResolutionPlan for g given pending changesets and
// optional commit-derived suggestions keyed by package name (as produced by
// the Change Analyzer, §4.E). Strategy in opts selects the algorithm.
func Resolve(
	g *graph.DependencyGraph,
	changesets []*model.Changeset,
	commitsByPackage map[string][]model.ConventionalCommit,
	opts Options,
) (*model.ResolutionPlan, error) {
	switch opts.Strategy {
	case Synchronized:
		return resolveSynchronized(g, opts)
	case Manual:
		return resolveManual(g, opts)
	default:
		return resolveIndependent(g, changesets, commitsByPackage, opts)
	}
}

// resolveIndependent runs the full seed -> commit fallback -> propagation ->
// arithmetic -> dependency rewrite -> ordering pipeline (§4.F steps 1-6).
func resolveIndependent(
	g *graph.DependencyGraph,
	changesets []*model.Changeset,
	commitsByPackage map[string][]model.ConventionalCommit,
	opts Options,
) (*model.ResolutionPlan, error) {
	knownPackages := make(map[string]bool)
	for _, node := range g.Nodes() {
		knownPackages[node.Package.Name] = true
	}

	direct, failures := seedDirectBumps(knownPackages, changesets, commitsByPackage, opts.BumpTable)
	propagatedBumps := propagateBumps(g, direct, opts)

	updates := make(map[string]*model.VersionUpdate, len(direct)+len(propagatedBumps))
	for name, d := range direct {
		update := buildBumpUpdate(g, name, d.bump, d.reason, opts)
		updates[name] = &update
	}
	for name, p := range propagatedBumps {
		if _, exists := updates[name]; exists {
			continue
		}
		reason := model.UpdateReason{Kind: model.ReasonPropagatedFrom, Origin: p.origin}
		update := buildBumpUpdate(g, name, p.bump, reason, opts)
		updates[name] = &update
	}

	rewriteDependencySpecs(g, updates)

	return &model.ResolutionPlan{
		Updates:           orderUpdates(g, updates),
		Cycles:            cyclesFromGraph(g),
		ChangesetFailures: failures,
	}, nil
}

// buildBumpUpdate computes one package's new version from its current
// version and a bump type (§4.F step 4). A version that fails to parse, or
// a bump that fails to apply, fails only this update — the caller's other
// updates still proceed.
func buildBumpUpdate(g *graph.DependencyGraph, name string, bump model.BumpType, reason model.UpdateReason, opts Options) model.VersionUpdate {
	node, ok := g.GetNode(name)
	if !ok {
		return model.VersionUpdate{
			Package: name, BumpType: bump, Reason: reason,
			Failed: true, Error: fmt.Sprintf("package %q not found in graph", name),
		}
	}

	current, err := semver.Parse(node.Package.Version)
	if err != nil {
		return model.VersionUpdate{
			Package: name, CurrentVersion: node.Package.Version, BumpType: bump, Reason: reason,
			Failed: true, Error: err.Error(),
		}
	}

	newVersion, err := current.Bump(bump)
	if err != nil {
		return model.VersionUpdate{
			Package: name, CurrentVersion: node.Package.Version, BumpType: bump, Reason: reason,
			Failed: true, Error: err.Error(),
		}
	}

	if opts.Snapshot {
		newVersion, err = semver.ApplySnapshot(newVersion, opts.SnapshotSHA)
		if err != nil {
			return model.VersionUpdate{
				Package: name, CurrentVersion: node.Package.Version, BumpType: bump, Reason: reason,
				Failed: true, Error: err.Error(),
			}
		}
	}

	return model.VersionUpdate{
		Package:        name,
		CurrentVersion: node.Package.Version,
		NewVersion:     newVersion.String(),
		BumpType:       bump,
		Reason:         reason,
	}
}

// resolveSynchronized gives every workspace package exactly opts.Version. A
// Synchronized version that fails to parse fails the whole operation, per
// §4.F's failure modes.
func resolveSynchronized(g *graph.DependencyGraph, opts Options) (*model.ResolutionPlan, error) {
	target, err := semver.Parse(opts.Version)
	if err != nil {
		return nil, fmt.Errorf("synchronized version %q: %w", opts.Version, err)
	}
	if opts.Snapshot {
		target, err = semver.ApplySnapshot(target, opts.SnapshotSHA)
		if err != nil {
			return nil, fmt.Errorf("synchronized snapshot version: %w", err)
		}
	}

	updates := make(map[string]*model.VersionUpdate)
	for _, node := range g.Nodes() {
		updates[node.Package.Name] = &model.VersionUpdate{
			Package:        node.Package.Name,
			CurrentVersion: node.Package.Version,
			NewVersion:     target.String(),
			BumpType:       inferBumpType(node.Package.Version, target),
			Reason:         model.UpdateReason{Kind: model.ReasonManual},
		}
	}

	rewriteDependencySpecs(g, updates)

	return &model.ResolutionPlan{
		Updates: orderUpdates(g, updates),
		Cycles:  cyclesFromGraph(g),
	}, nil
}

// resolveManual gives each package in opts.Versions its mapped version. A
// package the map names that isn't in the workspace, or a version that
// fails to parse, fails only that package's update.
func resolveManual(g *graph.DependencyGraph, opts Options) (*model.ResolutionPlan, error) {
	updates := make(map[string]*model.VersionUpdate, len(opts.Versions))
	for name, versionStr := range opts.Versions {
		node, ok := g.GetNode(name)
		if !ok {
			updates[name] = &model.VersionUpdate{
				Package: name, NewVersion: versionStr, Reason: model.UpdateReason{Kind: model.ReasonManual},
				Failed: true, Error: fmt.Sprintf("package %q not found in workspace", name),
			}
			continue
		}

		target, err := semver.Parse(versionStr)
		if err != nil {
			updates[name] = &model.VersionUpdate{
				Package: name, CurrentVersion: node.Package.Version, Reason: model.UpdateReason{Kind: model.ReasonManual},
				Failed: true, Error: err.Error(),
			}
			continue
		}
		if opts.Snapshot {
			target, err = semver.ApplySnapshot(target, opts.SnapshotSHA)
			if err != nil {
				updates[name] = &model.VersionUpdate{
					Package: name, CurrentVersion: node.Package.Version, Reason: model.UpdateReason{Kind: model.ReasonManual},
					Failed: true, Error: err.Error(),
				}
				continue
			}
		}

		updates[name] = &model.VersionUpdate{
			Package:        name,
			CurrentVersion: node.Package.Version,
			NewVersion:     target.String(),
			BumpType:       inferBumpType(node.Package.Version, target),
			Reason:         model.UpdateReason{Kind: model.ReasonManual},
		}
	}

	rewriteDependencySpecs(g, updates)

	return &model.ResolutionPlan{
		Updates: orderUpdates(g, updates),
		Cycles:  cyclesFromGraph(g),
	}, nil
}

// inferBumpType reports the bump type that would take oldStr to new, for
// display/changelog-grouping purposes only — Manual and Synchronized
// updates aren't computed from a bump, but still carry one. An old version
// that fails to parse leaves BumpType empty.
func inferBumpType(oldStr string, new semver.Version) model.BumpType {
	old, err := semver.Parse(oldStr)
	if err != nil {
		return ""
	}
	switch {
	case old.Major() != new.Major():
		return model.BumpMajor
	case old.Minor() != new.Minor():
		return model.BumpMinor
	default:
		return model.BumpPatch
	}
}
