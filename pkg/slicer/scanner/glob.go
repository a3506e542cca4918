package scanner

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
	"github.com/jamesainslie/cookieslicer/pkg/slicer/fsys"
)

// globMeta holds the characters that make a root a glob pattern rather than
// a literal path.
const globMeta = "*?[{"

// hasGlobMeta reports whether s contains any glob metacharacter.
func hasGlobMeta(s string) bool {
	return strings.ContainsAny(s, globMeta)
}

// globMatches holds the result of expanding one pattern.
type globMatches struct {
	files []string
	dirs  []string
}

func (m globMatches) empty() bool {
	return len(m.files) == 0 && len(m.dirs) == 0
}

// expandGlob returns the regular files and directories matching pattern,
// each sorted.
//
// Matching uses '/' as the separator, so "*" stays within one path element
// while "**" crosses elements. Only the directory below the longest literal
// prefix of the pattern is walked, and unless the pattern contains "**" the
// walk stops at the depth the pattern can reach. The literal prefix,
// including the working directory of a relative pattern, is quoted before
// compiling. Names starting with a period only match pattern elements that
// start with a period.
func expandGlob(fsys fsys.FS, pattern string) (globMatches, error) {
	var out globMatches

	anchor, rel, err := anchorPattern(pattern)
	if err != nil {
		return out, fmt.Errorf("resolving glob pattern: %w", err)
	}

	literal, rest, depth := globBase(rel)
	baseDir := filepath.Join(anchor, filepath.FromSlash(literal))

	prefix := glob.QuoteMeta(filepath.ToSlash(baseDir))
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	g, err := glob.Compile(prefix+rest, '/')
	if err != nil {
		return out, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
	}

	info, err := fsys.Stat(baseDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return out, nil
		}
		return out, err
	}
	if !info.IsDir() {
		return out, nil
	}

	restSegments := strings.Split(rest, "/")
	match := func(candidates []string) []string {
		var matched []string
		for _, candidate := range candidates {
			if !g.Match(filepath.ToSlash(candidate)) {
				continue
			}
			if revealsHidden(baseDir, candidate, restSegments) {
				continue
			}
			matched = append(matched, candidate)
		}
		return matched
	}

	files, err := fsys.Files(baseDir, depth)
	if err != nil {
		return out, err
	}
	dirs, err := fsys.Dirs(baseDir, depth)
	if err != nil {
		return out, err
	}
	out.files, out.dirs = match(files), match(dirs)

	logger.Debug("expanded glob",
		"pattern", pattern,
		"base", baseDir,
		"candidates", len(files)+len(dirs),
		"files", len(out.files),
		"dirs", len(out.dirs))

	return out, nil
}

// anchorPattern splits pattern into an absolute directory that is taken
// literally and a cleaned, slash separated pattern relative to it. Relative
// patterns are anchored at the working directory; leading ".." elements
// move the anchor up.
func anchorPattern(pattern string) (anchor, rel string, err error) {
	if filepath.IsAbs(pattern) {
		vol := filepath.VolumeName(pattern)
		rel = strings.TrimLeft(filepath.ToSlash(pattern[len(vol):]), "/")
		return vol + string(filepath.Separator), path.Clean(rel), nil
	}

	anchor, err = os.Getwd()
	if err != nil {
		return "", "", err
	}

	rel = path.Clean(filepath.ToSlash(pattern))
	for rel == ".." || strings.HasPrefix(rel, "../") {
		anchor = filepath.Dir(anchor)
		rel = strings.TrimPrefix(strings.TrimPrefix(rel, ".."), "/")
	}
	return anchor, rel, nil
}

// globBase splits a slash separated relative pattern into the literal
// directory prefix that can be walked, the remaining pattern, and the
// maximum walk depth below the prefix. A depth of 0 means unlimited and is
// returned when the remainder contains "**".
func globBase(pattern string) (literal, rest string, depth int) {
	segments := strings.Split(pattern, "/")

	first := len(segments)
	for i, segment := range segments {
		if hasGlobMeta(segment) {
			first = i
			break
		}
	}

	literal = strings.Join(segments[:first], "/")
	rest = strings.Join(segments[first:], "/")

	for _, segment := range segments[first:] {
		if strings.Contains(segment, "**") {
			return literal, rest, 0
		}
	}
	return literal, rest, len(segments) - first
}

// revealsHidden reports whether candidate has an element below base that
// starts with a period where the pattern element at the same position does
// not.
func revealsHidden(base, candidate string, patternSegments []string) bool {
	rel, err := filepath.Rel(base, candidate)
	if err != nil {
		return false
	}
	for i, segment := range strings.Split(filepath.ToSlash(rel), "/") {
		if !strings.HasPrefix(segment, ".") {
			continue
		}
		if i >= len(patternSegments) || !strings.HasPrefix(patternSegments[i], ".") {
			return true
		}
	}
	return false
}
