// Package commit parses conventional-commit messages (conventionalcommits.org)
// and derives a suggested version bump from them, per §4.D.
package commit

import (
	"regexp"
	"strings"
	"time"

	"github.com/monoship/monoship/internal/model"
)

// headerPattern matches "type(scope)!: description", scope and "!" optional.
var headerPattern = regexp.MustCompile(`^([a-zA-Z][a-zA-Z0-9_-]*)(\(([^)]*)\))?(!)?:\s*(.*)$`)

// Parse parses a raw commit message with its git metadata into a
// ConventionalCommit. A first line that doesn't match the conventional
// format parses as type=chore, no scope, description=the trimmed first
// line, not breaking — it never errors.
func Parse(hash, author string, date time.Time, message string) model.ConventionalCommit {
	lines := strings.SplitN(message, "\n", 2)
	firstLine := strings.TrimSpace(lines[0])
	body := ""
	if len(lines) > 1 {
		body = extractBody(lines[1])
	}

	commitType := "chore"
	scope := ""
	description := firstLine
	breaking := false

	if m := headerPattern.FindStringSubmatch(firstLine); m != nil {
		commitType = m[1]
		scope = m[3]
		breaking = m[4] == "!"
		description = m[5]
	}

	if hasBreakingFooter(body) {
		breaking = true
	}

	return model.ConventionalCommit{
		Hash:        hash,
		Author:      author,
		Date:        date,
		Type:        commitType,
		Scope:       scope,
		Description: description,
		Body:        body,
		Breaking:    breaking,
	}
}

// extractBody returns everything after the first blank line, per §4.D.
func extractBody(rest string) string {
	// rest starts on the message's second line; prefixing the header's line
	// break lets a blank second line count as the first blank line.
	withHeaderBreak := "\n" + rest
	idx := strings.Index(withHeaderBreak, "\n\n")
	if idx == -1 {
		// No blank-line-delimited body section; treat the remainder itself
		// as the body so BREAKING CHANGE footers are still detected.
		return strings.TrimSpace(rest)
	}
	return strings.TrimSpace(withHeaderBreak[idx+2:])
}

func hasBreakingFooter(body string) bool {
	for _, line := range strings.Split(body, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "BREAKING CHANGE:") {
			return true
		}
	}
	return false
}
