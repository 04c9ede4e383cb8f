// Package store abstracts where diagram-source files and the render
// config come from: a local directory, or a specific revision of a
// remote git repository. Callers (internal/config, cmd/layoutctl) read
// through the Store interface and never touch os or gitclient directly.
package store

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dnswlt/layoutctl/internal/gitclient"
)

// Store reads diagram-source files and the config file by path, and can
// list every diagram-source file under a directory. Paths are always
// slash-separated and relative to the store's root.
type Store interface {
	ReadFile(path string) ([]byte, error)
	ListFiles(dir string, extensions ...string) ([]string, error)
}

// DiskStore reads files from a directory on the local filesystem.
type DiskStore struct {
	root string
}

// NewDiskStore returns a Store rooted at root. root must exist; it is
// not created.
func NewDiskStore(root string) (*DiskStore, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to stat store root %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("store root %s is not a directory", root)
	}
	return &DiskStore{root: filepath.Clean(root)}, nil
}

func (s *DiskStore) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(s.root, filepath.FromSlash(path))
}

func (s *DiskStore) ReadFile(path string) ([]byte, error) {
	bs, err := os.ReadFile(s.resolve(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return bs, nil
}

// ListFiles walks dir (relative to the store root) recursively and
// returns every regular file whose extension (case-insensitive, with
// leading dot) matches one of extensions, as paths relative to root. If
// extensions is empty, every regular file is returned. Results are
// sorted for deterministic iteration order downstream.
func (s *DiskStore) ListFiles(dir string, extensions ...string) ([]string, error) {
	root := s.resolve(dir)
	var out []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !matchesExt(d.Name(), extensions) {
			return nil
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		out = append(out, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", dir, err)
	}
	sort.Strings(out)
	return out, nil
}

func matchesExt(name string, extensions []string) bool {
	if len(extensions) == 0 {
		return true
	}
	lower := strings.ToLower(name)
	for _, ext := range extensions {
		if strings.HasSuffix(lower, strings.ToLower(ext)) {
			return true
		}
	}
	return false
}

// GitStore reads files from a single revision of a remote git
// repository, via an in-memory clone (internal/gitclient). It never
// materializes a worktree on disk.
type GitStore struct {
	loader   *gitclient.SourceLoader
	revision string
}

// NewGitStore clones url in-memory and returns a Store that serves file
// contents as they existed at revision (a branch, tag, or commit-ish).
func NewGitStore(url, revision string, auth *gitclient.Auth) (*GitStore, error) {
	loader, err := gitclient.NewSourceLoader(url, auth)
	if err != nil {
		return nil, fmt.Errorf("failed to open git store %s: %w", url, err)
	}
	return &GitStore{loader: loader, revision: revision}, nil
}

func (s *GitStore) ReadFile(path string) ([]byte, error) {
	bs, err := s.loader.ReadFile(s.revision, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s@%s: %w", path, s.revision, err)
	}
	return bs, nil
}

func (s *GitStore) ListFiles(dir string, extensions ...string) ([]string, error) {
	files, err := s.loader.ListFilesRecursive(s.revision, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s@%s: %w", dir, s.revision, err)
	}
	var out []string
	for _, f := range files {
		if dir != "" && dir != "." && dir != "/" {
			f = filepath.ToSlash(filepath.Join(dir, f))
		}
		if matchesExt(filepath.Base(f), extensions) {
			out = append(out, f)
		}
	}
	sort.Strings(out)
	return out, nil
}
