// Package analyzer correlates commits and file diffs with workspace
// packages, attributing each changed file to the package that owns it and
// aggregating the result into per-package change sets (§4.E).
package analyzer

import (
	"sort"
	"strings"

	"github.com/monoship/monoship/internal/commit"
	"github.com/monoship/monoship/internal/git"
	"github.com/monoship/monoship/internal/model"
)

// unowned is the attribution bucket for a file that matches no package's
// relative location.
const unowned = ""

// Analyzer correlates a repository's commits/working-tree state against a
// fixed set of workspace packages.
type Analyzer struct {
	RepoPath string
	Packages []model.Package
}

// New returns an Analyzer over packages, rooted at repoPath.
func New(repoPath string, packages []model.Package) *Analyzer {
	return &Analyzer{RepoPath: repoPath, Packages: packages}
}

// ownerOf attributes a repo-relative file path to a package by longest-prefix
// match on the package's RelPath, falling back to "unowned" (the root).
func (a *Analyzer) ownerOf(filePath string) string {
	best := unowned
	bestLen := -1
	for _, pkg := range a.Packages {
		prefix := pkg.RelPath
		if prefix == "" || prefix == "." {
			continue
		}
		if filePath == prefix || strings.HasPrefix(filePath, prefix+"/") {
			if len(prefix) > bestLen {
				best = pkg.Name
				bestLen = len(prefix)
			}
		}
	}
	return best
}

// AnalyzeWorkingDirectory lists files with uncommitted changes, attributes
// each to a package, and aggregates per-package file statistics.
func (a *Analyzer) AnalyzeWorkingDirectory() (map[string]*model.PackageChange, error) {
	paths, err := git.StatusPorcelain(a.RepoPath)
	if err != nil {
		return nil, err
	}

	result := newResultSet(a.Packages)
	for _, p := range paths {
		owner := a.ownerOf(p)
		result.addFile(owner, model.FileChange{Path: p, Type: model.FileModified})
	}
	return result.finish(), nil
}

// AnalyzeCommitRange enumerates commits in (base, head] and distributes
// each commit's files across packages by prefix match. A package's
// attributed commit set is the deduped union over its files' commits.
func (a *Analyzer) AnalyzeCommitRange(base, head string) (map[string]*model.PackageChange, error) {
	commits, err := git.CommitsInRange(a.RepoPath, base, head)
	if err != nil {
		return nil, err
	}
	hashes := make([]string, len(commits))
	for i, c := range commits {
		hashes[i] = c.Hash
	}
	return a.AnalyzeCommitList(hashes)
}

// AnalyzeSingleCommit analyzes one commit's file changes.
func (a *Analyzer) AnalyzeSingleCommit(hash string) (map[string]*model.PackageChange, error) {
	return a.AnalyzeCommitList([]string{hash})
}

// AnalyzeCommitList analyzes an explicit list of commit hashes.
func (a *Analyzer) AnalyzeCommitList(hashes []string) (map[string]*model.PackageChange, error) {
	result := newResultSet(a.Packages)

	for _, hash := range hashes {
		files, err := git.FileChangesInCommit(a.RepoPath, hash)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			owner := a.ownerOf(f.Path)
			result.addFile(owner, f)
			result.addCommit(owner, hash)
		}
	}

	return result.finish(), nil
}

// ParseCommits parses raw commit metadata into conventional-commit records,
// a convenience wrapper over internal/commit.Parse for callers that already
// hold RepoCommits from the Git capability.
func ParseCommits(commits []git.RepoCommit) []model.ConventionalCommit {
	out := make([]model.ConventionalCommit, len(commits))
	for i, c := range commits {
		out[i] = commit.Parse(c.Hash, c.AuthorName, c.AuthorDate, c.Message)
	}
	return out
}

// resultSet accumulates files/commits per package name (or "" for unowned)
// before being finalized into PackageChange aggregates.
type resultSet struct {
	files       map[string][]model.FileChange
	commitsSeen map[string]map[string]bool
	order       []string // package names, plus "" for unowned, in first-seen order
	seen        map[string]bool
}

func newResultSet(packages []model.Package) *resultSet {
	rs := &resultSet{
		files:       make(map[string][]model.FileChange),
		commitsSeen: make(map[string]map[string]bool),
		seen:        make(map[string]bool),
	}
	for _, pkg := range packages {
		rs.touch(pkg.Name)
	}
	return rs
}

func (rs *resultSet) touch(name string) {
	if !rs.seen[name] {
		rs.seen[name] = true
		rs.order = append(rs.order, name)
	}
}

func (rs *resultSet) addFile(owner string, f model.FileChange) {
	rs.touch(owner)
	rs.files[owner] = append(rs.files[owner], f)
}

func (rs *resultSet) addCommit(owner, hash string) {
	rs.touch(owner)
	if rs.commitsSeen[owner] == nil {
		rs.commitsSeen[owner] = make(map[string]bool)
	}
	rs.commitsSeen[owner][hash] = true
}

func (rs *resultSet) finish() map[string]*model.PackageChange {
	out := make(map[string]*model.PackageChange, len(rs.order))
	for _, name := range rs.order {
		files := rs.files[name]
		var commits []string
		for hash := range rs.commitsSeen[name] {
			commits = append(commits, hash)
		}
		sort.Strings(commits)

		out[name] = &model.PackageChange{
			Package:    name,
			Files:      files,
			Commits:    commits,
			Stats:      statsFor(files),
			HasChanges: len(files) > 0,
		}
	}
	return out
}

func statsFor(files []model.FileChange) model.ChangeStats {
	var s model.ChangeStats
	s.FilesChanged = len(files)
	for _, f := range files {
		switch f.Type {
		case model.FileAdded:
			s.Added++
		case model.FileModified:
			s.Modified++
		case model.FileDeleted:
			s.Deleted++
		}
		// Binary files and renames contribute to counts above but not to
		// line totals, per §4.E.
		if !f.Binary && f.Type != model.FileRenamed {
			s.LinesAdded += f.LinesAdded
			s.LinesDeleted += f.LinesDeleted
		}
	}
	return s
}
