// Package checkpoint tracks which base-language files changed since the
// last translation pass. The marker is a lightweight git tag, moved
// forward with `glotfill done`, and everything runs through go-git so the
// git binary does not need to be installed.
package checkpoint

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// DefaultTag is the checkpoint tag name used when none is configured.
const DefaultTag = "glotfill-checkpoint"

// Manager wraps one repository.
type Manager struct {
	repo *git.Repository
}

// Status describes base-language changes relative to the checkpoint.
type Status struct {
	Tag         string
	TagExists   bool
	Committed   []string // committed since the checkpoint tag
	Uncommitted []string // modified or untracked in the working tree
}

// HasChanges returns true if any base files moved since the checkpoint
func (s Status) HasChanges() bool {
	return len(s.Committed) > 0 || len(s.Uncommitted) > 0
}

// Done describes a checkpoint update.
type Done struct {
	Tag    string
	Commit string // short hash the tag now points at
	Moved  bool   // an older checkpoint existed and was replaced
}

// Open finds the repository containing dir. Returns an error outside a
// git repository; callers treat that as "checkpointing unavailable".
func Open(dir string) (*Manager, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("not a git repository: %w", err)
	}
	return &Manager{repo: repo}, nil
}

// Root returns the working tree root of the repository.
func (m *Manager) Root() (string, error) {
	wt, err := m.repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("failed to get worktree: %w", err)
	}
	return wt.Filesystem.Root(), nil
}

// Status reports which files under the given repo-relative prefixes
// changed since the checkpoint tag. Empty prefixes mean the whole tree.
func (m *Manager) Status(tag string, prefixes []string) (*Status, error) {
	st := &Status{Tag: tag}

	uncommitted, err := m.worktreeChanges(prefixes)
	if err != nil {
		return nil, err
	}
	st.Uncommitted = uncommitted

	tagHash, err := m.repo.ResolveRevision(plumbing.Revision(tag))
	if err != nil {
		// No checkpoint yet: nothing to compare against.
		return st, nil
	}
	st.TagExists = true

	headRef, err := m.repo.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to get HEAD: %w", err)
	}

	committed, err := m.diffPaths(*tagHash, headRef.Hash(), prefixes)
	if err != nil {
		return nil, err
	}
	st.Committed = committed

	return st, nil
}

// Done moves the checkpoint tag to HEAD, replacing any previous one.
func (m *Manager) Done(tag string) (*Done, error) {
	headRef, err := m.repo.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to get HEAD: %w", err)
	}

	res := &Done{Tag: tag, Commit: shortHash(headRef.Hash())}

	if _, err := m.repo.Tag(tag); err == nil {
		if err := m.repo.DeleteTag(tag); err != nil {
			return nil, fmt.Errorf("failed to delete old tag: %w", err)
		}
		res.Moved = true
	}

	if _, err := m.repo.CreateTag(tag, headRef.Hash(), nil); err != nil {
		return nil, fmt.Errorf("failed to create tag: %w", err)
	}

	return res, nil
}

// diffPaths lists the paths that differ between two commits, filtered by
// prefix.
func (m *Manager) diffPaths(from, to plumbing.Hash, prefixes []string) ([]string, error) {
	fromTree, err := m.commitTree(from)
	if err != nil {
		return nil, err
	}
	toTree, err := m.commitTree(to)
	if err != nil {
		return nil, err
	}

	changes, err := object.DiffTree(fromTree, toTree)
	if err != nil {
		return nil, fmt.Errorf("failed to diff trees: %w", err)
	}

	var paths []string
	for _, change := range changes {
		name := change.To.Name
		if name == "" {
			name = change.From.Name
		}
		if matchesPrefix(name, prefixes) {
			paths = append(paths, name)
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// worktreeChanges lists modified and untracked files, filtered by prefix.
func (m *Manager) worktreeChanges(prefixes []string) ([]string, error) {
	wt, err := m.repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to get worktree: %w", err)
	}

	status, err := wt.Status()
	if err != nil {
		return nil, fmt.Errorf("failed to get status: %w", err)
	}

	var paths []string
	for path, fileStatus := range status {
		if fileStatus.Worktree == git.Unmodified && fileStatus.Staging == git.Unmodified {
			continue
		}
		if matchesPrefix(path, prefixes) {
			paths = append(paths, path)
		}
	}
	sort.Strings(paths)
	return paths, nil
}

func (m *Manager) commitTree(hash plumbing.Hash) (*object.Tree, error) {
	commit, err := m.repo.CommitObject(hash)
	if err != nil {
		return nil, fmt.Errorf("failed to load commit %s: %w", shortHash(hash), err)
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("failed to load tree of %s: %w", shortHash(hash), err)
	}
	return tree, nil
}

func matchesPrefix(path string, prefixes []string) bool {
	if len(prefixes) == 0 {
		return true
	}
	for _, prefix := range prefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

func shortHash(hash plumbing.Hash) string {
	s := hash.String()
	if len(s) > 8 {
		s = s[:8]
	}
	return s
}
