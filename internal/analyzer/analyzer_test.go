package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/monoship/monoship/internal/model"
)

func packages() []model.Package {
	return []model.Package{
		{Name: "core", RelPath: "packages/core"},
		{Name: "core-utils", RelPath: "packages/core-utils"},
		{Name: "web", RelPath: "apps/web"},
	}
}

func TestOwnerOf_LongestPrefixMatch(t *testing.T) {
	a := New("/repo", packages())

	assert.Equal(t, "core", a.ownerOf("packages/core/src/index.ts"))
	assert.Equal(t, "core-utils", a.ownerOf("packages/core-utils/src/index.ts"))
	assert.Equal(t, "web", a.ownerOf("apps/web/pages/index.tsx"))
}

func TestOwnerOf_DoesNotConfusePrefixSiblings(t *testing.T) {
	a := New("/repo", packages())
	// "packages/core-utils" must not be attributed to "core" just because
	// "packages/core" is a string prefix of it.
	assert.Equal(t, "core-utils", a.ownerOf("packages/core-utils/README.md"))
}

func TestOwnerOf_UnownedFallsBackToRoot(t *testing.T) {
	a := New("/repo", packages())
	assert.Equal(t, unowned, a.ownerOf("README.md"))
	assert.Equal(t, unowned, a.ownerOf("turbo.json"))
}

func TestResultSet_AggregatesStatsByType(t *testing.T) {
	rs := newResultSet(packages())
	rs.addFile("core", model.FileChange{Path: "packages/core/a.ts", Type: model.FileAdded, LinesAdded: 10})
	rs.addFile("core", model.FileChange{Path: "packages/core/b.ts", Type: model.FileModified, LinesAdded: 3, LinesDeleted: 1})
	rs.addFile("core", model.FileChange{Path: "packages/core/img.png", Type: model.FileAdded, Binary: true, LinesAdded: 999})
	rs.addCommit("core", "sha1")
	rs.addCommit("core", "sha1") // deduped
	rs.addCommit("core", "sha2")

	result := rs.finish()
	core := result["core"]
	assert.True(t, core.HasChanges)
	assert.Equal(t, 3, core.Stats.FilesChanged)
	assert.Equal(t, 2, core.Stats.Added)
	assert.Equal(t, 1, core.Stats.Modified)
	assert.Equal(t, 13, core.Stats.LinesAdded) // binary file's 999 excluded
	assert.Equal(t, []string{"sha1", "sha2"}, core.Commits)
}

func TestResultSet_IncludesUntouchedPackages(t *testing.T) {
	rs := newResultSet(packages())
	result := rs.finish()
	web, ok := result["web"]
	assert.True(t, ok)
	assert.False(t, web.HasChanges)
	assert.Empty(t, web.Files)
}
