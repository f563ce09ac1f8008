package changelog

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Format selects the changelog's output representation.
type Format string

const (
	FormatMarkdown   Format = "markdown"
	FormatPlainText  Format = "plaintext"
	FormatStructured Format = "structured"
)

// StructuredChangelog is the machine-readable rendering of an Entry,
// serialized as JSON by Render when Format is FormatStructured.
type StructuredChangelog struct {
	Package         string             `json:"package"`
	Version         string             `json:"version"`
	PreviousVersion string             `json:"previous_version,omitempty"`
	Date            string             `json:"date"`
	BumpType        string             `json:"bump_type,omitempty"`
	Sections        []StructuredSection `json:"sections"`
}

// StructuredSection is one rendered section in structured-data form.
type StructuredSection struct {
	Heading string               `json:"heading"`
	Changes []StructuredChange   `json:"changes"`
}

// StructuredChange is one commit rendered as structured data.
type StructuredChange struct {
	Scope       string `json:"scope,omitempty"`
	Description string `json:"description"`
	Breaking    bool   `json:"breaking,omitempty"`
	Hash        string `json:"hash,omitempty"`
}

// Render renders entry's grouped commits in the requested format.
func Render(entry Entry, grouping Grouping, format Format) (string, error) {
	sections := GroupCommits(entry.Commits, grouping)

	switch format {
	case FormatPlainText:
		return renderPlainText(entry, sections), nil
	case FormatStructured:
		return renderStructured(entry, sections)
	default:
		return renderMarkdown(entry, sections), nil
	}
}

func renderMarkdown(entry Entry, sections []Section) string {
	var buf strings.Builder

	header := fmt.Sprintf("## [%s]", entry.Version)
	if entry.PackageName != "" {
		header += fmt.Sprintf(" - %s", entry.PackageName)
	}
	header += fmt.Sprintf(" - %s\n\n", entry.Date.Format("2006-01-02"))
	buf.WriteString(header)

	if len(sections) == 0 {
		buf.WriteString("No notable changes.\n")
		return buf.String()
	}

	for _, section := range sections {
		buf.WriteString(fmt.Sprintf("### %s\n\n", section.Heading))
		for _, c := range section.Commits {
			line := c.Description
			if c.Scope != "" {
				line = fmt.Sprintf("**%s:** %s", c.Scope, line)
			}
			buf.WriteString(fmt.Sprintf("- %s\n", line))
		}
		buf.WriteString("\n")
	}

	return strings.TrimRight(buf.String(), "\n") + "\n"
}

// markdownStrip removes the heading/bold/list markers renderMarkdown emits,
// for FormatPlainText — it is not a general-purpose Markdown stripper, only
// the inverse of renderMarkdown's own output.
var (
	headingPattern = regexp.MustCompile(`(?m)^#+\s*`)
	listItemPattern = regexp.MustCompile(`(?m)^- `)
	boldPattern     = regexp.MustCompile(`\*\*(.+?)\*\*`)
)

func renderPlainText(entry Entry, sections []Section) string {
	md := renderMarkdown(entry, sections)
	plain := headingPattern.ReplaceAllString(md, "")
	plain = listItemPattern.ReplaceAllString(plain, "")
	plain = boldPattern.ReplaceAllString(plain, "$1")
	plain = strings.ReplaceAll(plain, "[", "")
	plain = strings.ReplaceAll(plain, "]", "")
	return plain
}

func renderStructured(entry Entry, sections []Section) (string, error) {
	out := StructuredChangelog{
		Package:         entry.PackageName,
		Version:         entry.Version,
		PreviousVersion: entry.PreviousVersion,
		Date:            entry.Date.Format("2006-01-02"),
		BumpType:        string(entry.BumpType),
	}
	for _, section := range sections {
		s := StructuredSection{Heading: section.Heading}
		for _, c := range section.Commits {
			s.Changes = append(s.Changes, StructuredChange{
				Scope:       c.Scope,
				Description: c.Description,
				Breaking:    c.Breaking,
				Hash:        c.Hash,
			})
		}
		out.Sections = append(out.Sections, s)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal structured changelog: %w", err)
	}
	return string(data), nil
}
