// Package output renders scan results and merge reports in the formats
// selectable from the command line (plain, paths, null, json, yaml, pretty,
// template).
//
// The package uses a registry pattern so that formatters can be selected
// by name at runtime.
//
// Basic usage:
//
//	formatter, err := output.Get("plain")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	var buf bytes.Buffer
//	if err := formatter.FormatMerge(&buf, result); err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Print(buf.String())
package output

import (
	"bytes"
	"fmt"
	"sort"
	"sync"
	"time"
)

// Default formatter names per command.
const (
	DefaultScanFormat  = "paths"
	DefaultMergeFormat = "plain"
)

// FileInfo describes one file found by a scan.
type FileInfo struct {
	// Path is the absolute path to the file.
	Path string `json:"path" yaml:"path"`

	// Size is the file size in bytes.
	Size int64 `json:"size" yaml:"size"`

	// SizeHuman is the human-readable file size (e.g., "1.5 KiB").
	SizeHuman string `json:"size_human" yaml:"size_human"`

	// ModTime is the last modification time of the file.
	ModTime time.Time `json:"mod_time" yaml:"mod_time"`
}

// ScanResult contains the output data of a scan.
type ScanResult struct {
	// Files holds the matching files in ascending path order.
	Files []FileInfo `json:"files" yaml:"files"`

	// Roots are the paths, directories and globs that were scanned.
	Roots []string `json:"roots" yaml:"roots"`

	// Extensions is the extension allow-list used.
	Extensions string `json:"extensions" yaml:"extensions"`

	// Recurse reports whether directories were scanned recursively.
	Recurse bool `json:"recurse" yaml:"recurse"`

	// Duration is the time the scan took.
	Duration time.Duration `json:"duration" yaml:"duration"`
}

// TotalSize returns the sum of all file sizes in the result.
func (r *ScanResult) TotalSize() int64 {
	var total int64
	for _, f := range r.Files {
		total += f.Size
	}
	return total
}

// MergeResult contains the output data of a merge.
type MergeResult struct {
	// Source and Destination are the merged directories.
	Source      string `json:"source" yaml:"source"`
	Destination string `json:"destination" yaml:"destination"`

	// Copied is the number of files copied.
	Copied int `json:"copied" yaml:"copied"`

	// BytesCopied is the total size of the copied files.
	BytesCopied int64 `json:"bytes_copied" yaml:"bytes_copied"`

	// Attention holds destination paths that need a manual review.
	Attention []string `json:"attention" yaml:"attention"`

	// Remove holds relative paths the template marks for removal.
	Remove []string `json:"remove" yaml:"remove"`

	// Skipped holds once files that already existed at the destination.
	Skipped []string `json:"skipped" yaml:"skipped"`

	// TemplateVersion is the template's config version.
	TemplateVersion int `json:"template_version" yaml:"template_version"`

	// PreviousVersion is the destination marker version before the merge,
	// or 0 when the destination had no marker.
	PreviousVersion int `json:"previous_version" yaml:"previous_version"`

	// Duration is the time the merge took.
	Duration time.Duration `json:"duration" yaml:"duration"`

	// JournalID is the journal entry recorded for the merge, if any.
	JournalID string `json:"journal_id,omitempty" yaml:"journal_id,omitempty"`
}

// Formatter is the interface that all output formatters must implement.
type Formatter interface {
	// FormatScan writes a scan result to the buffer.
	FormatScan(w *bytes.Buffer, r *ScanResult) error

	// FormatMerge writes a merge result to the buffer.
	FormatMerge(w *bytes.Buffer, r *MergeResult) error
}

// FormatterFactory is a function that creates a new Formatter instance.
type FormatterFactory func() Formatter

// Registry manages formatter registration and lookup.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]FormatterFactory
}

// NewRegistry creates a new formatter registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]FormatterFactory),
	}
}

// Register adds a formatter factory to the registry.
// It will replace any existing formatter with the same name.
func (r *Registry) Register(name string, factory FormatterFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Get returns a new formatter instance by name.
// It returns an error if the formatter is not found.
func (r *Registry) Get(name string) (Formatter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown formatter: %s", name)
	}
	return factory(), nil
}

// Available returns a sorted list of all registered formatter names.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry is the global formatter registry.
var DefaultRegistry = NewRegistry()

// Register adds a formatter factory to the default registry.
func Register(name string, factory FormatterFactory) {
	DefaultRegistry.Register(name, factory)
}

// Get returns a new formatter instance from the default registry.
func Get(name string) (Formatter, error) {
	return DefaultRegistry.Get(name)
}

// Available returns all formatter names from the default registry.
func Available() []string {
	return DefaultRegistry.Available()
}
