// Package fsys provides the filesystem primitives shared by the scanner and
// the merger: stat, read, write, copy, and a materialized file walk.
//
// Both consumers depend on the FS interface rather than the os package so
// that tests can substitute failing or recording implementations.
package fsys

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/charlievieth/fastwalk"
)

// FS is the set of filesystem operations the scanner and merger need.
type FS interface {
	// Stat follows symlinks, like os.Stat.
	Stat(name string) (fs.FileInfo, error)

	// ReadFile returns the full contents of name.
	ReadFile(name string) ([]byte, error)

	// WriteFile replaces the contents of name, creating it with perm if needed.
	WriteFile(name string, data []byte, perm fs.FileMode) error

	// CopyFile duplicates src at dst byte for byte, creating any missing
	// parent directories of dst and carrying over the permission bits of src.
	// It returns the number of bytes written.
	CopyFile(dst, src string) (int64, error)

	// Files returns the regular files below root in lexicographic order.
	// maxDepth limits how far below root to descend: 1 lists only the
	// immediate children of root, 0 means unlimited.
	Files(root string, maxDepth int) ([]string, error)

	// Dirs returns the directories below root in lexicographic order, with
	// the same depth semantics as Files. root itself is not included.
	Dirs(root string, maxDepth int) ([]string, error)
}

// OS implements FS on top of the host filesystem.
type OS struct{}

// Ensure OS implements FS.
var _ FS = OS{}

// Stat implements FS.
func (OS) Stat(name string) (fs.FileInfo, error) {
	return os.Stat(name)
}

// ReadFile implements FS.
func (OS) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

// WriteFile implements FS.
func (OS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	return os.WriteFile(name, data, perm)
}

// CopyFile implements FS.
func (OS) CopyFile(dst, src string) (n int64, err error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, fmt.Errorf("opening source file: %w", err)
	}
	defer func() { _ = in.Close() }()

	info, err := in.Stat()
	if err != nil {
		return 0, fmt.Errorf("stat source file: %w", err)
	}
	if info.IsDir() {
		return 0, fmt.Errorf("copying %s: %w", src, errIsDir)
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return 0, fmt.Errorf("creating destination directory: %w", err)
	}

	perm := info.Mode().Perm()
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return 0, fmt.Errorf("opening destination file: %w", err)
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing destination file: %w", closeErr)
		}
	}()

	n, err = io.Copy(out, in)
	if err != nil {
		return n, fmt.Errorf("copying %s to %s: %w", src, dst, err)
	}

	// OpenFile only applies perm on creation; an existing file keeps its
	// old bits unless they are set explicitly.
	if err := out.Chmod(perm); err != nil {
		return n, fmt.Errorf("setting permissions on %s: %w", dst, err)
	}

	return n, nil
}

var errIsDir = errors.New("is a directory")

// Files implements FS.
func (OS) Files(root string, maxDepth int) ([]string, error) {
	return walk(root, maxDepth, isRegular)
}

// Dirs implements FS.
func (OS) Dirs(root string, maxDepth int) ([]string, error) {
	return walk(root, maxDepth, func(_ string, d fs.DirEntry) bool {
		return d.IsDir()
	})
}

// walk collects the entries below root accepted by keep, using fastwalk
// with a single worker so the callback never runs concurrently with itself.
func walk(root string, maxDepth int, keep func(path string, d fs.DirEntry) bool) ([]string, error) {
	conf := fastwalk.Config{
		Follow:     false, // Symlinked directories are not descended.
		NumWorkers: 1,
	}

	root = filepath.Clean(root)

	var (
		paths []string
		mu    sync.Mutex
	)

	err := fastwalk.Walk(&conf, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}

		depth := depthBelow(root, path)
		if maxDepth > 0 && depth > maxDepth {
			if d.IsDir() {
				return fastwalk.SkipDir
			}
			return nil
		}

		if keep(path, d) {
			mu.Lock()
			paths = append(paths, path)
			mu.Unlock()
		}

		if d.IsDir() && maxDepth > 0 && depth == maxDepth {
			return fastwalk.SkipDir
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.Sort(paths)
	return paths, nil
}

// depthBelow returns how many path elements path sits below root.
// A direct child of root has depth 1.
func depthBelow(root, path string) int {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return 0
	}
	return strings.Count(rel, string(filepath.Separator)) + 1
}

// isRegular reports whether the entry is a regular file, resolving symlinks
// so that a link to a file counts as a file.
func isRegular(path string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}
