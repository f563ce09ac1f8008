package model

import "time"

// BumpType is a semver increment.
type BumpType string

const (
	BumpMajor BumpType = "major"
	BumpMinor BumpType = "minor"
	BumpPatch BumpType = "patch"
)

// bumpPriority ranks bump types so callers can take the maximum of several.
var bumpPriority = map[BumpType]int{BumpPatch: 1, BumpMinor: 2, BumpMajor: 3}

// Priority returns this bump's rank; higher is more significant. Unknown
// values rank below patch so they never win a max comparison.
func (b BumpType) Priority() int { return bumpPriority[b] }

// MaxBump returns whichever of a, b has the higher priority. Ties keep a.
func MaxBump(a, b BumpType) BumpType {
	if b.Priority() > a.Priority() {
		return b
	}
	return a
}

// ChangesetStatus is the lifecycle state of a Changeset.
type ChangesetStatus string

const (
	ChangesetPending  ChangesetStatus = "pending"
	ChangesetApplied  ChangesetStatus = "applied"
	ChangesetRejected ChangesetStatus = "rejected"
)

// Changeset is a persisted declaration that a named package should receive a
// specific semver bump in the next release.
type Changeset struct {
	ID          string
	Package     string
	Bump        BumpType
	Summary     string
	Author      string
	Branch      string
	CreatedAt   time.Time
	Status      ChangesetStatus
	Environments map[string]struct{}
	CommitRefs  []string
}

// ShortID returns the first 8 characters of ID, the convenience form
// changeset lookups accept alongside the full id.
func (c *Changeset) ShortID() string {
	if len(c.ID) <= 8 {
		return c.ID
	}
	return c.ID[:8]
}
