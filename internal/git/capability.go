package git

import (
	"fmt"
	"sort"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"

	"github.com/monoship/monoship/internal/model"
)

// RepoCommit is one commit as surfaced by the Git capability (§6):
// hash, raw message, and author identity/timestamp, left unparsed for the
// commit parser to turn into a model.ConventionalCommit.
type RepoCommit struct {
	Hash        string
	Message     string
	AuthorName  string
	AuthorEmail string
	AuthorDate  time.Time
}

// StatusPorcelain lists paths with uncommitted changes (staged, unstaged,
// or untracked), relative to the repository root.
func StatusPorcelain(repoPath string) ([]string, error) {
	repo, err := gogit.PlainOpen(repoPath)
	if err != nil {
		return nil, fmt.Errorf("opening repository: %w", err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("getting worktree: %w", err)
	}
	status, err := worktree.Status()
	if err != nil {
		return nil, fmt.Errorf("getting status: %w", err)
	}

	var paths []string
	for path, st := range status {
		if st.Staging != gogit.Unmodified || st.Worktree != gogit.Unmodified {
			paths = append(paths, path)
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// CurrentSHA returns HEAD's full commit hash.
func CurrentSHA(repoPath string) (string, error) {
	repo, err := gogit.PlainOpen(repoPath)
	if err != nil {
		return "", fmt.Errorf("opening repository: %w", err)
	}
	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("getting HEAD: %w", err)
	}
	return head.Hash().String(), nil
}

// PreviousSHA returns HEAD~1's commit hash.
func PreviousSHA(repoPath string) (string, error) {
	repo, err := gogit.PlainOpen(repoPath)
	if err != nil {
		return "", fmt.Errorf("opening repository: %w", err)
	}
	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("getting HEAD: %w", err)
	}
	commit, err := repo.CommitObject(head.Hash())
	if err != nil {
		return "", fmt.Errorf("getting HEAD commit: %w", err)
	}
	parents := commit.Parents()
	parent, err := parents.Next()
	if err != nil {
		return "", fmt.Errorf("HEAD has no parent commit: %w", err)
	}
	return parent.Hash.String(), nil
}

// CurrentBranch returns HEAD's branch name, or an error if HEAD is detached.
func CurrentBranch(repoPath string) (string, error) {
	repo, err := gogit.PlainOpen(repoPath)
	if err != nil {
		return "", fmt.Errorf("opening repository: %w", err)
	}
	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("getting HEAD: %w", err)
	}
	if !head.Name().IsBranch() {
		return "", fmt.Errorf("HEAD is not on a branch (detached)")
	}
	return head.Name().Short(), nil
}

// ListBranches returns every local branch name, sorted.
func ListBranches(repoPath string) ([]string, error) {
	repo, err := gogit.PlainOpen(repoPath)
	if err != nil {
		return nil, fmt.Errorf("opening repository: %w", err)
	}
	iter, err := repo.Branches()
	if err != nil {
		return nil, fmt.Errorf("listing branches: %w", err)
	}

	var names []string
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		names = append(names, ref.Name().Short())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterating branches: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

// FilesChangedSince returns the paths that differ between base and the
// working tree's HEAD commit.
func FilesChangedSince(repoPath, base string) ([]string, error) {
	repo, err := gogit.PlainOpen(repoPath)
	if err != nil {
		return nil, fmt.Errorf("opening repository: %w", err)
	}

	baseCommit, err := repo.CommitObject(plumbing.NewHash(base))
	if err != nil {
		return nil, fmt.Errorf("resolving base %s: %w", base, err)
	}
	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("getting HEAD: %w", err)
	}
	headCommit, err := repo.CommitObject(head.Hash())
	if err != nil {
		return nil, fmt.Errorf("getting HEAD commit: %w", err)
	}

	baseTree, err := baseCommit.Tree()
	if err != nil {
		return nil, fmt.Errorf("getting base tree: %w", err)
	}
	headTree, err := headCommit.Tree()
	if err != nil {
		return nil, fmt.Errorf("getting head tree: %w", err)
	}

	changes, err := baseTree.Diff(headTree)
	if err != nil {
		return nil, fmt.Errorf("diffing trees: %w", err)
	}

	paths := make(map[string]bool)
	for _, change := range changes {
		from, to, err := change.Files()
		if err != nil {
			continue
		}
		if from != nil {
			paths[from.Name] = true
		}
		if to != nil {
			paths[to.Name] = true
		}
	}

	out := make([]string, 0, len(paths))
	for p := range paths {
		out = append(out, p)
	}
	sort.Strings(out)
	return out, nil
}

// CommitsInRange enumerates commits in (base, head], oldest first.
func CommitsInRange(repoPath, base, head string) ([]RepoCommit, error) {
	repo, err := gogit.PlainOpen(repoPath)
	if err != nil {
		return nil, fmt.Errorf("opening repository: %w", err)
	}

	headHash := plumbing.NewHash(head)
	iter, err := repo.Log(&gogit.LogOptions{From: headHash})
	if err != nil {
		return nil, fmt.Errorf("walking log from %s: %w", head, err)
	}

	baseHash := plumbing.NewHash(base)
	var commits []RepoCommit
	err = iter.ForEach(func(c *object.Commit) error {
		if c.Hash == baseHash {
			return storer.ErrStop
		}
		commits = append(commits, RepoCommit{
			Hash:        c.Hash.String(),
			Message:     c.Message,
			AuthorName:  c.Author.Name,
			AuthorEmail: c.Author.Email,
			AuthorDate:  c.Author.When,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterating commits: %w", err)
	}

	// iter.ForEach walks newest-first; reverse to oldest-first per §4.E.
	for i, j := 0, len(commits)-1; i < j; i, j = i+1, j-1 {
		commits[i], commits[j] = commits[j], commits[i]
	}
	return commits, nil
}

// FileChangesInCommit returns the FileChange list for a single commit,
// compared against its first parent (or the empty tree, for a root commit).
func FileChangesInCommit(repoPath, hash string) ([]model.FileChange, error) {
	repo, err := gogit.PlainOpen(repoPath)
	if err != nil {
		return nil, fmt.Errorf("opening repository: %w", err)
	}
	commit, err := repo.CommitObject(plumbing.NewHash(hash))
	if err != nil {
		return nil, fmt.Errorf("resolving commit %s: %w", hash, err)
	}
	commitTree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("getting commit tree: %w", err)
	}

	var parentTree *object.Tree
	parents := commit.Parents()
	if parent, perr := parents.Next(); perr == nil {
		parentTree, err = parent.Tree()
		if err != nil {
			return nil, fmt.Errorf("getting parent tree: %w", err)
		}
	}

	if parentTree == nil {
		// Root commit: every file in the tree is newly added.
		var out []model.FileChange
		err = commitTree.Files().ForEach(func(f *object.File) error {
			out = append(out, model.FileChange{Path: f.Name, Type: model.FileAdded})
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking root commit tree: %w", err)
		}
		return out, nil
	}

	changes, err := parentTree.Diff(commitTree)
	if err != nil {
		return nil, fmt.Errorf("diffing trees: %w", err)
	}

	var out []model.FileChange
	for _, change := range changes {
		from, to, ferr := change.Files()
		if ferr != nil {
			continue
		}
		out = append(out, fileChangeFrom(from, to))
	}
	return out, nil
}

func fileChangeFrom(from, to *object.File) model.FileChange {
	switch {
	case from == nil && to != nil:
		return model.FileChange{Path: to.Name, Type: model.FileAdded}
	case from != nil && to == nil:
		return model.FileChange{Path: from.Name, Type: model.FileDeleted}
	case from != nil && to != nil && from.Name != to.Name:
		return model.FileChange{Path: to.Name, Type: model.FileRenamed}
	default:
		return model.FileChange{Path: to.Name, Type: model.FileModified}
	}
}
