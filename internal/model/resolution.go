package model

// UpdateReason explains why a VersionUpdate happened.
type UpdateReason struct {
	// Kind is one of Changeset, PropagatedFrom, ConventionalCommits, Manual,
	// or the resolver's DependencyRewrite for a rewrite-only update.
	Kind UpdateReasonKind
	// Origin is the upstream package name, set only when Kind is
	// PropagatedFrom.
	Origin string
}

type UpdateReasonKind string

const (
	ReasonChangeset            UpdateReasonKind = "changeset"
	ReasonPropagatedFrom       UpdateReasonKind = "propagated_from"
	ReasonConventionalCommits  UpdateReasonKind = "conventional_commits"
	ReasonManual               UpdateReasonKind = "manual"
)

// String renders the reason the way ResolutionPlan reports and tests expect,
// e.g. "PropagatedFrom(pkg-a)".
func (r UpdateReason) String() string {
	if r.Kind == ReasonPropagatedFrom {
		return "PropagatedFrom(" + r.Origin + ")"
	}
	switch r.Kind {
	case ReasonChangeset:
		return "Changeset"
	case ReasonConventionalCommits:
		return "ConventionalCommits"
	case ReasonManual:
		return "Manual"
	case "dependency_rewrite":
		return "DependencyRewrite"
	default:
		return string(r.Kind)
	}
}

// DependencyUpdate records one rewritten dependency declaration on a
// dependent package's manifest: (dependent_pkg, dep_kind, old_spec, new_spec)
// is implicit — DependencyUpdate itself is the dep_kind/old/new triple; the
// dependent package is the VersionUpdate that owns the slice.
type DependencyUpdate struct {
	DependencyName string
	Kind           DependencyKind
	OldSpec        string
	NewSpec        string
}

// VersionUpdate is one package's resolved version change.
type VersionUpdate struct {
	Package           string
	CurrentVersion    string
	NewVersion        string
	BumpType          BumpType
	Reason            UpdateReason
	DependencyUpdates []DependencyUpdate

	// Failed carries a per-update failure (§7: resolution-time errors are
	// recorded on the update, not fatal to the plan).
	Failed bool
	Error  string
}

// Cycle is a reported strongly-connected component of size >= 2, in stable
// name order. A package that depends only on itself is not reported.
type Cycle struct {
	Packages []string
}

// ChangesetFailure records a changeset that could not be applied during
// resolution — e.g. naming a package absent from the workspace. Other
// changesets and the overall plan still resolve (§4.F failure modes).
type ChangesetFailure struct {
	ChangesetID string
	Package     string
	Reason      string
}

// ResolutionPlan is the Version Resolver's output: an ordered list of
// updates (topological, leaves first) plus any cycles detected along the
// way. Cycles are informational — their presence never aborts resolution.
type ResolutionPlan struct {
	Updates           []VersionUpdate
	Cycles            []Cycle
	ChangesetFailures []ChangesetFailure
}

// UpdateFor returns the update for a package name, or nil if that package
// was not bumped.
func (p *ResolutionPlan) UpdateFor(pkg string) *VersionUpdate {
	for i := range p.Updates {
		if p.Updates[i].Package == pkg {
			return &p.Updates[i]
		}
	}
	return nil
}
