package changeset

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"

	"github.com/monoship/monoship/internal/model"
)

// record is the YAML frontmatter shape; Summary lives in the markdown body
// instead, matching how a human would actually write one of these by hand.
type record struct {
	ID           string   `yaml:"id"`
	Package      string   `yaml:"package"`
	Bump         string   `yaml:"bump"`
	Author       string   `yaml:"author"`
	Branch       string   `yaml:"branch"`
	CreatedAt    string   `yaml:"createdAt"`
	Status       string   `yaml:"status"`
	Environments []string `yaml:"environments,omitempty"`
	CommitRefs   []string `yaml:"commitRefs,omitempty"`
}

// serialize renders cs as YAML frontmatter followed by its summary as a
// markdown body.
func serialize(cs *model.Changeset) ([]byte, error) {
	r := record{
		ID:         cs.ID,
		Package:    cs.Package,
		Bump:       string(cs.Bump),
		Author:     cs.Author,
		Branch:     cs.Branch,
		CreatedAt:  cs.CreatedAt.UTC().Format(timeLayout),
		Status:     string(cs.Status),
		CommitRefs: cs.CommitRefs,
	}
	for env := range cs.Environments {
		r.Environments = append(r.Environments, env)
	}
	sort.Strings(r.Environments)

	yamlBytes, err := yaml.Marshal(&r)
	if err != nil {
		return nil, fmt.Errorf("marshaling frontmatter: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(yamlBytes)
	buf.WriteString("---\n\n")
	buf.WriteString(strings.TrimSpace(cs.Summary))
	buf.WriteString("\n")

	return buf.Bytes(), nil
}

const timeLayout = "2006-01-02T15:04:05Z"

// deserialize parses a changeset file's bytes (YAML frontmatter + markdown
// body) back into a model.Changeset.
func deserialize(data []byte) (*model.Changeset, error) {
	var r record
	body, err := frontmatter.Parse(bytes.NewReader(data), &r)
	if err != nil {
		return nil, fmt.Errorf("parsing frontmatter: %w", err)
	}

	if r.ID == "" {
		return nil, fmt.Errorf("missing required field: id")
	}
	if r.Package == "" {
		return nil, fmt.Errorf("missing required field: package")
	}

	createdAt, err := parseTime(r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid createdAt %q: %w", r.CreatedAt, err)
	}

	environments := make(map[string]struct{}, len(r.Environments))
	for _, env := range r.Environments {
		environments[env] = struct{}{}
	}

	status := model.ChangesetStatus(r.Status)
	if status == "" {
		status = model.ChangesetPending
	}

	return &model.Changeset{
		ID:           r.ID,
		Package:      r.Package,
		Bump:         model.BumpType(r.Bump),
		Summary:      strings.TrimSpace(string(body)),
		Author:       r.Author,
		Branch:       r.Branch,
		CreatedAt:    createdAt,
		Status:       status,
		Environments: environments,
		CommitRefs:   r.CommitRefs,
	}, nil
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}
