// Package changeset persists individual changesets as frontmatter+markdown
// files under a configured directory, one file per changeset, per §4.C.
package changeset

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"github.com/monoship/monoship/internal/fileutil"
	"github.com/monoship/monoship/internal/model"
)

// Store reads and writes changesets under Dir, naming new files per Format
// (see DefaultFilenameFormat).
type Store struct {
	Dir    string
	Format string
}

// NewStore returns a Store rooted at dir using the default filename format.
func NewStore(dir string) *Store {
	return &Store{Dir: dir, Format: DefaultFilenameFormat}
}

// New builds a fresh, unsaved Changeset with a generated id and timestamp.
func New(pkg string, bump model.BumpType, summary, author, branch string) (*model.Changeset, error) {
	now := time.Now().UTC()
	id, err := GenerateID(now)
	if err != nil {
		return nil, err
	}
	return &model.Changeset{
		ID:        id,
		Package:   pkg,
		Bump:      bump,
		Summary:   summary,
		Author:    author,
		Branch:    branch,
		CreatedAt: now,
		Status:    model.ChangesetPending,
	}, nil
}

// Save writes cs to its own file under Dir, creating the directory if
// needed and locking its lockfile for the duration of the write so
// concurrent `shipyard add` invocations don't interleave.
func (s *Store) Save(cs *model.Changeset) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("creating changeset directory: %w", err)
	}

	path := filepath.Join(s.Dir, filename(s.Format, cs))

	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("locking %s: %w", path, err)
	}
	defer lock.Unlock()

	data, err := serialize(cs)
	if err != nil {
		return fmt.Errorf("serializing changeset %s: %w", cs.ID, err)
	}
	if err := fileutil.AtomicWrite(path, data, 0o644); err != nil {
		return fmt.Errorf("writing changeset file %s: %w", path, err)
	}
	return nil
}

// Load finds the changeset matching id, by full id or its first 8
// characters. A collision between a full match and a short-hash match
// resolves in favor of the full match. Returns (nil, nil) if not found.
func (s *Store) Load(id string) (*model.Changeset, error) {
	all, err := s.list(nil)
	if err != nil {
		return nil, err
	}

	var shortMatch *model.Changeset
	for _, cs := range all {
		if cs.ID == id {
			return cs, nil
		}
		if shortMatch == nil && len(id) == 8 && cs.ShortID() == id {
			shortMatch = cs
		}
	}
	return shortMatch, nil
}

// Filter restricts List results conjunctively on Package, Status,
// Environment, Branch, and Author. An empty field imposes no restriction.
type Filter struct {
	Package     string
	Status      model.ChangesetStatus
	Environment string
	Branch      string
	Author      string
}

func (f Filter) matches(cs *model.Changeset) bool {
	if f.Package != "" && cs.Package != f.Package {
		return false
	}
	if f.Status != "" && cs.Status != f.Status {
		return false
	}
	if f.Branch != "" && cs.Branch != f.Branch {
		return false
	}
	if f.Author != "" && cs.Author != f.Author {
		return false
	}
	if f.Environment != "" {
		if _, ok := cs.Environments[f.Environment]; !ok {
			return false
		}
	}
	return true
}

// List returns changesets matching filter, sorted by CreatedAt descending.
// A missing directory yields an empty result, not an error.
func (s *Store) List(filter Filter) ([]*model.Changeset, error) {
	return s.list(&filter)
}

func (s *Store) list(filter *Filter) ([]*model.Changeset, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading changeset directory: %w", err)
	}

	var out []*model.Changeset
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		path := filepath.Join(s.Dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		cs, err := deserialize(data)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		if filter != nil && !filter.matches(cs) {
			continue
		}
		out = append(out, cs)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// Delete removes the changeset matching id (full or short form). Reports
// whether a matching file was found and removed.
func (s *Store) Delete(id string) (bool, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("reading changeset directory: %w", err)
	}

	var target string
	var shortMatch string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		path := filepath.Join(s.Dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return false, fmt.Errorf("reading %s: %w", path, err)
		}
		cs, err := deserialize(data)
		if err != nil {
			return false, fmt.Errorf("parsing %s: %w", path, err)
		}
		if cs.ID == id {
			target = path
			break
		}
		if shortMatch == "" && len(id) == 8 && cs.ShortID() == id {
			shortMatch = path
		}
	}

	if target == "" {
		target = shortMatch
	}
	if target == "" {
		return false, nil
	}
	if err := os.Remove(target); err != nil {
		return false, fmt.Errorf("deleting %s: %w", target, err)
	}
	return true, nil
}
