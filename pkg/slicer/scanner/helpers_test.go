package scanner

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/cookieslicer/pkg/slicer/fsys"
)

// writeTree creates the given files (slash separated, relative to root)
// with small contents and returns root.
func writeTree(t *testing.T, root string, files ...string) string {
	t.Helper()

	for _, name := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(name), 0o644))
	}
	return root
}

// abs joins root with slash separated names.
func abs(root string, names ...string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		out = append(out, filepath.Join(root, filepath.FromSlash(name)))
	}
	return out
}

// touchFS fails the test on any filesystem access.
type touchFS struct {
	t *testing.T
}

var _ fsys.FS = touchFS{}

func (f touchFS) Stat(name string) (fs.FileInfo, error) {
	f.t.Errorf("unexpected Stat(%q)", name)
	return nil, fs.ErrNotExist
}

func (f touchFS) ReadFile(name string) ([]byte, error) {
	f.t.Errorf("unexpected ReadFile(%q)", name)
	return nil, fs.ErrNotExist
}

func (f touchFS) WriteFile(name string, _ []byte, _ fs.FileMode) error {
	f.t.Errorf("unexpected WriteFile(%q)", name)
	return fs.ErrPermission
}

func (f touchFS) CopyFile(dst, src string) (int64, error) {
	f.t.Errorf("unexpected CopyFile(%q, %q)", dst, src)
	return 0, fs.ErrPermission
}

func (f touchFS) Files(root string, _ int) ([]string, error) {
	f.t.Errorf("unexpected Files(%q)", root)
	return nil, fs.ErrNotExist
}

func (f touchFS) Dirs(root string, _ int) ([]string, error) {
	f.t.Errorf("unexpected Dirs(%q)", root)
	return nil, fs.ErrNotExist
}

// deniedFS reports every path as unreadable.
type deniedFS struct {
	fsys.OS
}

func (deniedFS) Stat(name string) (fs.FileInfo, error) {
	return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrPermission}
}
