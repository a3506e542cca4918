package scanner

import (
	"errors"
	"io/fs"
	"path/filepath"
	"slices"

	"github.com/jamesainslie/cookieslicer/pkg/slicer/fsys"
	"github.com/jamesainslie/cookieslicer/pkg/slicer/logging"
)

// logger is the package-level logger for scan operations.
var logger = logging.Get("scanner")

// Scanner resolves scan roots into a list of matching files.
type Scanner struct {
	opts Options
}

// New creates a new Scanner with the given options.
// Options are validated and defaults are applied.
func New(opts Options) *Scanner {
	_ = opts.Validate()
	return &Scanner{opts: opts}
}

// Scan validates the extension list and resolves every root.
//
// An invalid extension list fails with an *ExtensionError before the
// filesystem is touched. Any root failure aborts the scan with a *ScanError
// and no partial result. An empty result is not an error.
func (s *Scanner) Scan() ([]string, error) {
	exts, err := NormalizeExtensions(s.opts.Extensions)
	if err != nil {
		return nil, err
	}

	logger.Debug("scan started", "roots", len(s.opts.Roots), "extensions", exts.String(), "recurse", s.opts.Recurse)

	files, err := Resolve(s.opts.FS, s.opts.Roots, exts, s.opts.Recurse)
	if err != nil {
		logger.Debug("scan failed", "error", err)
		return nil, err
	}

	logger.Info("scan complete", "files", len(files))
	return files, nil
}

// Resolve expands each root in order and returns the absolute paths that
// match exts, sorted ascending with duplicates removed.
//
// Files found through directories or globs are silently filtered by
// extension; a file named directly must match or the scan fails with
// ErrFileNotValid.
func Resolve(fsys fsys.FS, roots []string, exts ExtensionSet, recurse bool) ([]string, error) {
	var found []string
	for _, root := range roots {
		paths, err := resolveRoot(fsys, root, exts, recurse)
		if err != nil {
			return nil, err
		}
		found = append(found, paths...)
	}

	files := make([]string, 0, len(found))
	for _, path := range found {
		if exts.Matches(path) {
			files = append(files, path)
		}
	}

	slices.Sort(files)
	return slices.Compact(files), nil
}

// resolveRoot returns the candidate paths for a single root.
func resolveRoot(fsys fsys.FS, root string, exts ExtensionSet, recurse bool) ([]string, error) {
	info, err := fsys.Stat(root)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, &ScanError{Root: root, Err: err}
		}
		if !hasGlobMeta(root) {
			return nil, &ScanError{Root: root, Err: ErrPathNotFound}
		}
		return resolveGlob(fsys, root, recurse)
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, &ScanError{Root: root, Err: err}
	}

	if info.IsDir() {
		files, err := listDir(fsys, abs, recurse)
		if err != nil {
			return nil, &ScanError{Root: root, Err: err}
		}
		logger.Debug("listed directory", "root", root, "recurse", recurse, "files", len(files))
		return files, nil
	}

	if !exts.Matches(abs) {
		return nil, &ScanError{Root: root, Err: ErrFileNotValid}
	}
	return []string{abs}, nil
}

// listDir returns the files of dir, descending into subdirectories only
// when recurse is set.
func listDir(fsys fsys.FS, dir string, recurse bool) ([]string, error) {
	depth := 1
	if recurse {
		depth = 0
	}
	return fsys.Files(dir, depth)
}

// resolveGlob expands a root that is not a literal path. Matched directories
// are listed the same way as directory roots.
func resolveGlob(fsys fsys.FS, root string, recurse bool) ([]string, error) {
	matches, err := expandGlob(fsys, root)
	if err != nil {
		return nil, &ScanError{Root: root, Err: err}
	}
	if matches.empty() {
		return nil, &ScanError{Root: root, Err: ErrGlobNoMatch}
	}

	files := matches.files
	for _, dir := range matches.dirs {
		listed, err := listDir(fsys, dir, recurse)
		if err != nil {
			return nil, &ScanError{Root: root, Err: err}
		}
		files = append(files, listed...)
	}
	return files, nil
}
