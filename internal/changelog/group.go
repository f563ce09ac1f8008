package changelog

import (
	"sort"

	"github.com/monoship/monoship/internal/model"
)

// Grouping selects how a package's commits are sectioned for rendering.
type Grouping string

const (
	GroupByType   Grouping = "type"
	GroupByScope  Grouping = "scope"
	GroupUngrouped Grouping = "ungrouped"
)

// Section is one rendered grouping bucket: a display heading plus the
// commits that belong to it, in original order.
type Section struct {
	Key     string
	Heading string
	Commits []model.ConventionalCommit
}

// sectionOrder is the default markdown section order (§4.H): BREAKING
// first, then conventional-commit types in this fixed order, with anything
// else falling into "others".
var sectionOrder = []struct {
	key     string
	heading string
}{
	{"breaking", "BREAKING CHANGES"},
	{"feat", "Features"},
	{"fix", "Bug Fixes"},
	{"perf", "Performance Improvements"},
	{"refactor", "Code Refactoring"},
	{"revert", "Reverts"},
	{"docs", "Documentation"},
	{"style", "Styles"},
	{"test", "Tests"},
	{"build", "Build System"},
	{"ci", "Continuous Integration"},
	{"chore", "Chores"},
	{"others", "Other Changes"},
}

// GroupCommits partitions commits into sections per the requested Grouping.
// Empty sections are omitted; section order is stable and deterministic.
func GroupCommits(commits []model.ConventionalCommit, grouping Grouping) []Section {
	switch grouping {
	case GroupByScope:
		return groupByScope(commits)
	case GroupUngrouped:
		if len(commits) == 0 {
			return nil
		}
		return []Section{{Key: "all", Heading: "Changes", Commits: commits}}
	default:
		return groupByType(commits)
	}
}

// groupByType buckets breaking commits into their own leading section
// (regardless of conventional type) and everything else by commit type in
// sectionOrder, falling back to "others" for unrecognized types.
func groupByType(commits []model.ConventionalCommit) []Section {
	byKey := make(map[string][]model.ConventionalCommit)
	for _, c := range commits {
		if c.Breaking {
			byKey["breaking"] = append(byKey["breaking"], c)
			continue
		}
		key := c.Type
		if !isKnownType(key) {
			key = "others"
		}
		byKey[key] = append(byKey[key], c)
	}

	var sections []Section
	for _, s := range sectionOrder {
		if cs := byKey[s.key]; len(cs) > 0 {
			sections = append(sections, Section{Key: s.key, Heading: s.heading, Commits: cs})
		}
	}
	return sections
}

func isKnownType(t string) bool {
	for _, s := range sectionOrder {
		if s.key == t {
			return true
		}
	}
	return false
}

// groupByScope buckets commits by their conventional-commit scope, unscoped
// commits first under "General", remaining scopes alphabetical.
func groupByScope(commits []model.ConventionalCommit) []Section {
	byScope := make(map[string][]model.ConventionalCommit)
	for _, c := range commits {
		byScope[c.Scope] = append(byScope[c.Scope], c)
	}

	var scopes []string
	for scope := range byScope {
		if scope != "" {
			scopes = append(scopes, scope)
		}
	}
	sort.Strings(scopes)

	var sections []Section
	if cs := byScope[""]; len(cs) > 0 {
		sections = append(sections, Section{Key: "general", Heading: "General", Commits: cs})
	}
	for _, scope := range scopes {
		sections = append(sections, Section{Key: scope, Heading: scope, Commits: byScope[scope]})
	}
	return sections
}
