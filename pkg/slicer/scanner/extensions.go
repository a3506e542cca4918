package scanner

import (
	"path/filepath"
	"strings"
)

// ExtensionSet is an ordered allow-list of file extensions. Every entry is
// non-empty and begins with a period; case is kept as supplied.
type ExtensionSet []string

// NormalizeExtensions parses a comma separated extension list such as
// ".md,.txt". Whitespace around each token is trimmed. Duplicates are kept;
// only membership matters for matching.
//
// It returns an *ExtensionError for the first token that is empty or does not
// start with a period. No filesystem access takes place.
func NormalizeExtensions(spec string) (ExtensionSet, error) {
	tokens := strings.Split(spec, ",")
	exts := make(ExtensionSet, 0, len(tokens))

	for _, token := range tokens {
		ext := strings.TrimSpace(token)
		if ext == "" || !strings.HasPrefix(ext, ".") {
			return nil, &ExtensionError{Extension: ext}
		}
		exts = append(exts, ext)
	}

	return exts, nil
}

// Matches reports whether the base name of path ends with one of the
// extensions. The comparison is case-sensitive.
func (s ExtensionSet) Matches(path string) bool {
	name := filepath.Base(path)
	for _, ext := range s {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// String returns the set in its comma separated form.
func (s ExtensionSet) String() string {
	return strings.Join(s, ",")
}
