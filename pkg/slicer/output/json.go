package output

import (
	"bytes"
	"encoding/json"
	"time"
)

// jsonScan represents a scan result in JSON output.
type jsonScan struct {
	Files []FileInfo `json:"files"`
	Meta  jsonMeta   `json:"meta"`
}

// jsonMeta represents scan metadata in JSON output.
type jsonMeta struct {
	Roots      []string `json:"roots"`
	Extensions string   `json:"extensions"`
	Recurse    bool     `json:"recurse"`
	TotalFiles int      `json:"total_files"`
	TotalSize  int64    `json:"total_size"`
	Duration   string   `json:"duration,omitempty"`
}

// jsonMerge represents a merge result in JSON output.
type jsonMerge struct {
	Source          string   `json:"source"`
	Destination     string   `json:"destination"`
	Copied          int      `json:"copied"`
	BytesCopied     int64    `json:"bytes_copied"`
	Attention       []string `json:"attention"`
	Remove          []string `json:"remove"`
	Skipped         []string `json:"skipped"`
	TemplateVersion int      `json:"template_version"`
	PreviousVersion int      `json:"previous_version,omitempty"`
	Duration        string   `json:"duration,omitempty"`
	JournalID       string   `json:"journal_id,omitempty"`
}

// JSONFormatter formats output as a single indented JSON object.
type JSONFormatter struct{}

// FormatScan writes the formatted output to the buffer.
func (f *JSONFormatter) FormatScan(w *bytes.Buffer, r *ScanResult) error {
	files := r.Files
	if files == nil {
		files = []FileInfo{}
	}

	return encodeJSON(w, jsonScan{
		Files: files,
		Meta: jsonMeta{
			Roots:      nonNil(r.Roots),
			Extensions: r.Extensions,
			Recurse:    r.Recurse,
			TotalFiles: len(r.Files),
			TotalSize:  r.TotalSize(),
			Duration:   formatDurationString(r.Duration),
		},
	})
}

// FormatMerge writes the formatted output to the buffer.
func (f *JSONFormatter) FormatMerge(w *bytes.Buffer, r *MergeResult) error {
	return encodeJSON(w, jsonMerge{
		Source:          r.Source,
		Destination:     r.Destination,
		Copied:          r.Copied,
		BytesCopied:     r.BytesCopied,
		Attention:       nonNil(r.Attention),
		Remove:          nonNil(r.Remove),
		Skipped:         nonNil(r.Skipped),
		TemplateVersion: r.TemplateVersion,
		PreviousVersion: r.PreviousVersion,
		Duration:        formatDurationString(r.Duration),
		JournalID:       r.JournalID,
	})
}

func encodeJSON(w *bytes.Buffer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// formatDurationString formats a duration as a string for structured output.
func formatDurationString(d time.Duration) string {
	if d == 0 {
		return ""
	}
	return d.String()
}

// nonNil returns s, or an empty slice when s is nil, so lists encode as []
// rather than null.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func init() {
	Register("json", func() Formatter {
		return &JSONFormatter{}
	})
}

// Ensure JSONFormatter implements Formatter.
var _ Formatter = (*JSONFormatter)(nil)
