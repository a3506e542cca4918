// Package scanner discovers files under plain paths, directories, and glob
// patterns, filters them against an extension allow-list, and returns a
// sorted, de-duplicated list of absolute paths.
//
// Basic usage:
//
//	s := scanner.New(scanner.Options{
//	    Roots:      []string{"docs", "README.md"},
//	    Extensions: ".md",
//	    Recurse:    true,
//	})
//	files, err := s.Scan()
package scanner

import (
	"github.com/jamesainslie/cookieslicer/pkg/slicer/fsys"
)

// DefaultExtensions is the extension list used when none is configured.
const DefaultExtensions = ".md"

// Options configures a scan. It is a plain value; nothing is cached between
// scans.
type Options struct {
	// Roots are the user supplied paths, directories, or glob patterns,
	// processed in order.
	Roots []string

	// Extensions is the comma separated extension allow-list (e.g. ".md,.txt").
	// It is required; DefaultOptions supplies DefaultExtensions.
	Extensions string

	// Recurse descends into subdirectories of directory roots. Without it only
	// the immediate files of a directory are considered.
	Recurse bool

	// FS is the filesystem to scan. Nil means the host filesystem.
	FS fsys.FS
}

// DefaultOptions returns options scanning the current directory for
// DefaultExtensions without recursion.
func DefaultOptions() Options {
	return Options{
		Roots:      []string{"."},
		Extensions: DefaultExtensions,
	}
}

// Validate fills in the host filesystem when FS is unset and checks the
// extension list. An empty list is an *ExtensionError, not the default.
func (o *Options) Validate() error {
	if o.FS == nil {
		o.FS = fsys.OS{}
	}
	_, err := NormalizeExtensions(o.Extensions)
	return err
}
