// Package journal keeps a history of merge runs on disk, one JSON document
// per run.
package journal

import "time"

// OperationType represents the type of operation.
type OperationType string

const (
	// OpMerge represents a template merge.
	OpMerge OperationType = "merge"
)

// Entry represents a single journal entry.
type Entry struct {
	ID        string        `json:"id"`
	Timestamp time.Time     `json:"timestamp"`
	Operation OperationType `json:"operation"`

	Source      string `json:"source"`
	Destination string `json:"destination"`

	Copied      int   `json:"copied"`
	BytesCopied int64 `json:"bytes_copied"`

	Attention []string `json:"attention"`
	Remove    []string `json:"remove"`
	Skipped   []string `json:"skipped,omitempty"`

	TemplateVersion int `json:"template_version"`
	PreviousVersion int `json:"previous_version,omitempty"`
}
