package resolve

import (
	"github.com/monoship/monoship/internal/commit"
	"github.com/monoship/monoship/internal/model"
)

// directBump is one package's direct (non-propagated) bump signal.
type directBump struct {
	bump   model.BumpType
	reason model.UpdateReason
}

// seedDirectBumps implements §4.F steps 1-2: changesets are authoritative
// per package (ignoring commit-derived suggestions for the same package),
// falling back to the highest conventional-commit bump for packages with
// commits but no changeset. Changesets naming an unknown package are
// reported as failures and otherwise skipped; resolution continues.
func seedDirectBumps(
	knownPackages map[string]bool,
	changesets []*model.Changeset,
	commitsByPackage map[string][]model.ConventionalCommit,
	bumpTable map[string]model.BumpType,
) (map[string]directBump, []model.ChangesetFailure) {
	direct := make(map[string]directBump)
	var failures []model.ChangesetFailure

	for _, cs := range changesets {
		if !knownPackages[cs.Package] {
			failures = append(failures, model.ChangesetFailure{
				ChangesetID: cs.ID,
				Package:     cs.Package,
				Reason:      "UnknownPackage",
			})
			continue
		}
		if existing, ok := direct[cs.Package]; ok {
			direct[cs.Package] = directBump{
				bump:   model.MaxBump(existing.bump, cs.Bump),
				reason: model.UpdateReason{Kind: model.ReasonChangeset},
			}
			continue
		}
		direct[cs.Package] = directBump{
			bump:   cs.Bump,
			reason: model.UpdateReason{Kind: model.ReasonChangeset},
		}
	}

	for pkg, commits := range commitsByPackage {
		if !knownPackages[pkg] {
			continue
		}
		if _, hasChangeset := direct[pkg]; hasChangeset {
			continue
		}
		bump, ok := commit.HighestBump(commits, bumpTable)
		if !ok {
			continue
		}
		direct[pkg] = directBump{
			bump:   bump,
			reason: model.UpdateReason{Kind: model.ReasonConventionalCommits},
		}
	}

	return direct, failures
}
