package resolve

import "github.com/monoship/monoship/internal/model"

// Strategy selects how Resolve computes each package's new version.
type Strategy int

const (
	// Independent bumps each package by the maximum of its own signals
	// (changeset, commit fallback, propagation) — the default strategy and
	// the only one that runs the propagation algorithm.
	Independent Strategy = iota
	// Synchronized gives every workspace package exactly Options.Version
	// with reason Manual.
	Synchronized
	// Manual gives each package named in Options.Versions its mapped
	// version; packages absent from the map are not bumped.
	Manual
)

// PropagationMode controls how a propagated bump's size is derived from the
// upstream package's own bump.
type PropagationMode string

const (
	// PatchPropagation always propagates as a patch bump, regardless of the
	// upstream package's bump size. The default.
	PatchPropagation PropagationMode = "patch"
	// MatchUpstreamPropagation propagates the same bump size the upstream
	// package received (major->major, minor->minor, patch->patch).
	MatchUpstreamPropagation PropagationMode = "match_upstream"
)

// Options configures a single Resolve call.
type Options struct {
	Strategy Strategy

	// Version is required when Strategy is Synchronized.
	Version string
	// Versions is required when Strategy is Manual: package name -> target
	// version.
	Versions map[string]string

	// Propagation selects the propagation-bump-size policy for Independent
	// resolution. Zero value is treated as PatchPropagation.
	Propagation PropagationMode

	// PropagateThroughPeerDependencies / PropagateThroughOptionalDependencies
	// gate whether peer/optional edges participate in propagation. Both
	// default false.
	PropagateThroughPeerDependencies     bool
	PropagateThroughOptionalDependencies bool

	// BumpTable overrides the conventional-commit-type-to-bump table used
	// by the commit fallback step. Nil uses commit.DefaultBumpTable.
	BumpTable map[string]model.BumpType

	// Snapshot mode appends "-0.<SnapshotSHA>" to every computed version
	// instead of stripping prerelease metadata.
	Snapshot    bool
	SnapshotSHA string
}

func (o Options) propagationMode() PropagationMode {
	if o.Propagation == "" {
		return PatchPropagation
	}
	return o.Propagation
}

// propagationKinds returns the dependency kinds eligible to carry a
// propagated bump, per the peer/optional toggles.
func (o Options) propagationKinds() map[model.DependencyKind]bool {
	kinds := map[model.DependencyKind]bool{
		model.DependencyProd: true,
		model.DependencyDev:  true,
	}
	if o.PropagateThroughPeerDependencies {
		kinds[model.DependencyPeer] = true
	}
	if o.PropagateThroughOptionalDependencies {
		kinds[model.DependencyOptional] = true
	}
	return kinds
}
