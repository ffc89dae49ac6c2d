package checkpoint

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

func initRepo(t *testing.T) (string, *git.Repository) {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("Failed to init repository: %v", err)
	}
	return dir, repo
}

func writeAndCommit(t *testing.T, dir string, repo *git.Repository, path, content string) {
	t.Helper()
	full := filepath.Join(dir, path)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Failed to get worktree: %v", err)
	}
	if _, err := wt.Add(path); err != nil {
		t.Fatalf("Failed to add %s: %v", path, err)
	}
	_, err = wt.Commit("update "+path, &git.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@example.com", When: time.Now()},
	})
	if err != nil {
		t.Fatalf("Failed to commit: %v", err)
	}
}

func TestOpenOutsideRepository(t *testing.T) {
	if _, err := Open(t.TempDir()); err == nil {
		t.Error("Expected an error outside a git repository")
	}
}

func TestOpenFromSubdirectory(t *testing.T) {
	dir, repo := initRepo(t)
	writeAndCommit(t, dir, repo, "i18n/en/app.json", `{}`)

	mgr, err := Open(filepath.Join(dir, "i18n", "en"))
	if err != nil {
		t.Fatalf("Expected dot-git detection to walk up, got %v", err)
	}
	root, err := mgr.Root()
	if err != nil {
		t.Fatalf("Root failed: %v", err)
	}
	if root != dir {
		t.Errorf("Expected root %s, got %s", dir, root)
	}
}

func TestStatusWithoutCheckpoint(t *testing.T) {
	dir, repo := initRepo(t)
	writeAndCommit(t, dir, repo, "i18n/en/app.json", `{"a": "1"}`)

	mgr, err := Open(dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	st, err := mgr.Status(DefaultTag, nil)
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if st.TagExists {
		t.Error("Expected no checkpoint tag yet")
	}
	if st.HasChanges() {
		t.Errorf("Expected a clean tree, got %+v", st)
	}
}

func TestCheckpointFlow(t *testing.T) {
	dir, repo := initRepo(t)
	writeAndCommit(t, dir, repo, "i18n/en/app.json", `{"a": "1"}`)
	writeAndCommit(t, dir, repo, "docs/readme.md", "v1")

	mgr, err := Open(dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	done, err := mgr.Done(DefaultTag)
	if err != nil {
		t.Fatalf("Done failed: %v", err)
	}
	if done.Moved {
		t.Error("Expected the first checkpoint not to be a move")
	}
	if len(done.Commit) != 8 {
		t.Errorf("Expected a short hash, got %q", done.Commit)
	}

	st, err := mgr.Status(DefaultTag, []string{"i18n/en"})
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if !st.TagExists || st.HasChanges() {
		t.Errorf("Expected a clean checkpoint, got %+v", st)
	}

	// Base change and an unrelated change land after the checkpoint.
	writeAndCommit(t, dir, repo, "i18n/en/app.json", `{"a": "2"}`)
	writeAndCommit(t, dir, repo, "docs/readme.md", "v2")

	st, err = mgr.Status(DefaultTag, []string{"i18n/en"})
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if len(st.Committed) != 1 || st.Committed[0] != "i18n/en/app.json" {
		t.Errorf("Expected only the base file change, got %v", st.Committed)
	}
	if !st.HasChanges() {
		t.Error("Expected changes to be reported")
	}

	// Without a prefix filter the unrelated change shows up too.
	st, err = mgr.Status(DefaultTag, nil)
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if len(st.Committed) != 2 {
		t.Errorf("Expected both changes without a filter, got %v", st.Committed)
	}

	// Moving the checkpoint settles everything.
	done, err = mgr.Done(DefaultTag)
	if err != nil {
		t.Fatalf("Done failed: %v", err)
	}
	if !done.Moved {
		t.Error("Expected the second checkpoint to move the tag")
	}

	st, err = mgr.Status(DefaultTag, nil)
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if st.HasChanges() {
		t.Errorf("Expected a clean tree after done, got %+v", st)
	}
}

func TestStatusUncommitted(t *testing.T) {
	dir, repo := initRepo(t)
	writeAndCommit(t, dir, repo, "i18n/en/app.json", `{"a": "1"}`)

	mgr, err := Open(dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if _, err := mgr.Done(DefaultTag); err != nil {
		t.Fatalf("Done failed: %v", err)
	}

	// One tracked edit, one untracked file, one change outside the prefix.
	if err := os.WriteFile(filepath.Join(dir, "i18n/en/app.json"), []byte(`{"a": "dirty"}`), 0o644); err != nil {
		t.Fatalf("Failed to write: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "i18n/en/new.json"), []byte(`{}`), 0o644); err != nil {
		t.Fatalf("Failed to write: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "stray.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("Failed to write: %v", err)
	}

	st, err := mgr.Status(DefaultTag, []string{"i18n/en"})
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	want := []string{"i18n/en/app.json", "i18n/en/new.json"}
	if len(st.Uncommitted) != len(want) {
		t.Fatalf("Expected uncommitted %v, got %v", want, st.Uncommitted)
	}
	for i := range want {
		if st.Uncommitted[i] != want[i] {
			t.Errorf("Expected uncommitted %d to be %s, got %s", i, want[i], st.Uncommitted[i])
		}
	}
	if len(st.Committed) != 0 {
		t.Errorf("Expected no committed changes, got %v", st.Committed)
	}
}

func TestMatchesPrefix(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		prefixes []string
		want     bool
	}{
		{"no prefixes matches all", "anything", nil, true},
		{"exact", "i18n/en", []string{"i18n/en"}, true},
		{"under prefix", "i18n/en/app.json", []string{"i18n/en"}, true},
		{"sibling not matched", "i18n/en-US/app.json", []string{"i18n/en"}, false},
		{"outside", "docs/readme.md", []string{"i18n/en"}, false},
		{"second prefix", "msgs/en.json", []string{"i18n/en", "msgs/en.json"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := matchesPrefix(tt.path, tt.prefixes); got != tt.want {
				t.Errorf("matchesPrefix(%q, %v) = %v, want %v", tt.path, tt.prefixes, got, tt.want)
			}
		})
	}
}
