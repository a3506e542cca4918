package output

import (
	"bytes"
)

// PathsFormatter formats output as one path per line.
// For a scan these are the matching files; for a merge they are the
// destination paths that need attention, ready to pipe into an editor.
type PathsFormatter struct{}

// FormatScan writes the formatted output to the buffer.
func (f *PathsFormatter) FormatScan(w *bytes.Buffer, r *ScanResult) error {
	for _, file := range r.Files {
		w.WriteString(file.Path)
		w.WriteByte('\n')
	}
	return nil
}

// FormatMerge writes the formatted output to the buffer.
func (f *PathsFormatter) FormatMerge(w *bytes.Buffer, r *MergeResult) error {
	for _, path := range r.Attention {
		w.WriteString(path)
		w.WriteByte('\n')
	}
	return nil
}

func init() {
	Register("paths", func() Formatter {
		return &PathsFormatter{}
	})
}

// Ensure PathsFormatter implements Formatter.
var _ Formatter = (*PathsFormatter)(nil)

// NullFormatter is PathsFormatter with null byte delimiters, suitable for
// xargs -0. It safely handles paths containing spaces or newlines.
type NullFormatter struct{}

// FormatScan writes the formatted output to the buffer.
func (f *NullFormatter) FormatScan(w *bytes.Buffer, r *ScanResult) error {
	for _, file := range r.Files {
		w.WriteString(file.Path)
		w.WriteByte(0)
	}
	return nil
}

// FormatMerge writes the formatted output to the buffer.
func (f *NullFormatter) FormatMerge(w *bytes.Buffer, r *MergeResult) error {
	for _, path := range r.Attention {
		w.WriteString(path)
		w.WriteByte(0)
	}
	return nil
}

func init() {
	Register("null", func() Formatter {
		return &NullFormatter{}
	})
}

// Ensure NullFormatter implements Formatter.
var _ Formatter = (*NullFormatter)(nil)
