// Package changelog turns a package's grouped commits into rendered
// changelog sections in one of three output formats, merges a new release
// section into an existing changelog file, and renders merge-commit
// messages from the same placeholder set.
package changelog

import (
	"time"

	"github.com/monoship/monoship/internal/model"
)

// Entry is one package's release: everything needed to render a changelog
// section or a merge message for it.
type Entry struct {
	PackageName     string
	Version         string
	PreviousVersion string
	Date            time.Time
	BumpType        model.BumpType
	RepositoryURL   string
	CompareURL      string
	Author          string
	Commits         []model.ConventionalCommit
}

// TemplateContext is Entry reshaped into the named placeholders a changelog
// or merge-message template can reference (`{package_name}`, `{version}`,
// ... `{bump_type}`), realized as Go template fields (`{{.PackageName}}`,
// ...) for internal/template's text/template-based renderer.
type TemplateContext struct {
	PackageName           string
	Version               string
	PreviousVersion       string
	Date                  string
	RepositoryURL         string
	CompareURL            string
	BreakingChangesCount  int
	FeaturesCount         int
	FixesCount            int
	ChangelogSummary      string
	Author                string
	BumpType              string
}

// NewTemplateContext builds the placeholder context for e, with summary
// pre-rendered in the requested format so `{changelog_summary}` can be
// embedded verbatim into a merge message or custom template.
func NewTemplateContext(e Entry, summary string) TemplateContext {
	counts := countByType(e.Commits)
	return TemplateContext{
		PackageName:          e.PackageName,
		Version:              e.Version,
		PreviousVersion:      e.PreviousVersion,
		Date:                 e.Date.Format("2006-01-02"),
		RepositoryURL:        e.RepositoryURL,
		CompareURL:           e.CompareURL,
		BreakingChangesCount: countBreaking(e.Commits),
		FeaturesCount:        counts["feat"],
		FixesCount:           counts["fix"],
		ChangelogSummary:     summary,
		Author:               e.Author,
		BumpType:             string(e.BumpType),
	}
}

func countBreaking(commits []model.ConventionalCommit) int {
	n := 0
	for _, c := range commits {
		if c.Breaking {
			n++
		}
	}
	return n
}

func countByType(commits []model.ConventionalCommit) map[string]int {
	counts := make(map[string]int)
	for _, c := range commits {
		counts[c.Type]++
	}
	return counts
}
