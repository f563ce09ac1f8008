package changelog

import "regexp"

// releaseHeaderPattern matches a rendered release section's header line:
// `## [vMAJOR.MINOR.PATCH(-pre)(+build)] - YYYY-MM-DD`, per §4.H "Existing
// changelog merge". The leading "v" is optional since renderMarkdown itself
// doesn't emit one, but hand-authored changelogs often do.
var releaseHeaderPattern = regexp.MustCompile(`(?m)^## \[v?\d+\.\d+\.\d+(?:-[0-9A-Za-z.-]+)?(?:\+[0-9A-Za-z.-]+)?\].*$`)

// MergeIntoExisting inserts newSection above the most recent release
// section in existing (i.e. immediately before the first header
// releaseHeaderPattern matches). If existing has no recognizable release
// header, newSection is appended after existing's content — a file with
// only a title/preamble and no prior release yet.
func MergeIntoExisting(existing, newSection string) string {
	loc := releaseHeaderPattern.FindStringIndex(existing)
	if loc == nil {
		if existing == "" {
			return newSection
		}
		sep := "\n"
		if len(existing) > 0 && existing[len(existing)-1] == '\n' {
			sep = ""
		}
		return existing + sep + "\n" + newSection
	}

	insertAt := loc[0]
	before := existing[:insertAt]
	after := existing[insertAt:]
	return before + newSection + "\n" + after
}
