package store

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// createTestRepo initializes a git repo in a temp dir with some dummy
// content and returns the path to that directory.
//
// Structure:
// v1.0.0 (tag)
//   - diagram.flow ("v1 content")
//
// v2.0.0 (tag)
//   - diagram.flow ("v2 content")
//   - nested/other.flow ("nested content")
func createTestRepo(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()

	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("Failed to init git repo: %v", err)
	}
	w, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Failed to get worktree: %v", err)
	}

	commit := func(msg string) {
		if _, err := w.Add("."); err != nil {
			t.Fatalf("Failed to add files: %v", err)
		}
		_, err := w.Commit(msg, &git.CommitOptions{
			Author: &object.Signature{Name: "Test User", Email: "test@example.com", When: time.Now()},
		})
		if err != nil {
			t.Fatalf("Failed to commit: %v", err)
		}
	}

	if err := os.WriteFile(filepath.Join(dir, "diagram.flow"), []byte("v1 content"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	commit("Initial commit")

	head, err := repo.Head()
	if err != nil {
		t.Fatalf("Failed to get HEAD: %v", err)
	}
	if _, err := repo.CreateTag("v1.0.0", head.Hash(), nil); err != nil {
		t.Fatalf("Failed to create tag v1.0.0: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "diagram.flow"), []byte("v2 content"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	if err := os.Mkdir(filepath.Join(dir, "nested"), 0755); err != nil {
		t.Fatalf("Failed to create subdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "nested", "other.flow"), []byte("nested content"), 0644); err != nil {
		t.Fatalf("Failed to write nested file: %v", err)
	}
	commit("Second commit")

	head, err = repo.Head()
	if err != nil {
		t.Fatalf("Failed to get HEAD: %v", err)
	}
	if _, err := repo.CreateTag("v2.0.0", head.Hash(), nil); err != nil {
		t.Fatalf("Failed to create tag v2.0.0: %v", err)
	}

	// Leave HEAD on master, matching what a plain clone would check out.
	if err := w.Checkout(&git.CheckoutOptions{Branch: plumbing.NewBranchReferenceName("master")}); err != nil {
		t.Fatalf("Failed to checkout master: %v", err)
	}

	return dir
}

func TestGitStore_ReadFile_AtRevision(t *testing.T) {
	repoPath := createTestRepo(t)

	v1, err := NewGitStore(repoPath, "v1.0.0", nil)
	if err != nil {
		t.Fatalf("NewGitStore(v1.0.0) failed: %v", err)
	}
	content, err := v1.ReadFile("diagram.flow")
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(content) != "v1 content" {
		t.Errorf("v1.0.0: got %q, want %q", content, "v1 content")
	}

	v2, err := NewGitStore(repoPath, "v2.0.0", nil)
	if err != nil {
		t.Fatalf("NewGitStore(v2.0.0) failed: %v", err)
	}
	content, err = v2.ReadFile("diagram.flow")
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(content) != "v2 content" {
		t.Errorf("v2.0.0: got %q, want %q", content, "v2 content")
	}
}

func TestGitStore_ReadFile_InvalidRevision(t *testing.T) {
	repoPath := createTestRepo(t)
	gs, err := NewGitStore(repoPath, "does-not-exist", nil)
	if err != nil {
		t.Fatalf("NewGitStore failed: %v", err)
	}
	if _, err := gs.ReadFile("diagram.flow"); err == nil {
		t.Error("expected an error reading at a non-existent revision")
	}
}

func TestGitStore_ListFiles(t *testing.T) {
	repoPath := createTestRepo(t)
	gs, err := NewGitStore(repoPath, "v2.0.0", nil)
	if err != nil {
		t.Fatalf("NewGitStore failed: %v", err)
	}

	files, err := gs.ListFiles(".", ".flow")
	if err != nil {
		t.Fatalf("ListFiles failed: %v", err)
	}
	want := []string{"diagram.flow", "nested/other.flow"}
	if len(files) != len(want) {
		t.Errorf("ListFiles(.) got %v, want %v", files, want)
	}
	for _, w := range want {
		if !slices.Contains(files, w) {
			t.Errorf("ListFiles(.) missing %q", w)
		}
	}

	sub, err := gs.ListFiles("nested")
	if err != nil {
		t.Fatalf("ListFiles(nested) failed: %v", err)
	}
	if len(sub) != 1 || sub[0] != "nested/other.flow" {
		t.Errorf("ListFiles(nested) got %v, want [nested/other.flow]", sub)
	}
}
