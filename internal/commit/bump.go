package commit

import "github.com/monoship/monoship/internal/model"

// DefaultBumpTable is the conventional-commit type to version-bump mapping
// named in §4.D. Callers may supply an alternative table to BumpFor.
var DefaultBumpTable = map[string]model.BumpType{
	"feat":     model.BumpMinor,
	"fix":      model.BumpPatch,
	"perf":     model.BumpPatch,
	"refactor": model.BumpPatch,
	"revert":   model.BumpPatch,
	"style":    model.BumpPatch,
	"test":     model.BumpPatch,
	"docs":     model.BumpPatch,
	"chore":    model.BumpPatch,
	"ci":       model.BumpPatch,
	"build":    model.BumpPatch,
}

// BumpFor derives the suggested bump for a single commit: breaking changes
// always win as major; otherwise the type is looked up in table (falling
// back to DefaultBumpTable when table is nil), with an unknown type
// conservatively treated as patch.
func BumpFor(c model.ConventionalCommit, table map[string]model.BumpType) model.BumpType {
	if c.Breaking {
		return model.BumpMajor
	}
	if table == nil {
		table = DefaultBumpTable
	}
	if bump, ok := table[c.Type]; ok {
		return bump
	}
	return model.BumpPatch
}

// HighestBump returns the most significant bump suggested across commits,
// or ("", false) if commits is empty.
func HighestBump(commits []model.ConventionalCommit, table map[string]model.BumpType) (model.BumpType, bool) {
	if len(commits) == 0 {
		return "", false
	}
	highest := model.BumpPatch
	for _, c := range commits {
		highest = model.MaxBump(highest, BumpFor(c, table))
	}
	return highest, true
}
