package output

import (
	"bytes"

	"gopkg.in/yaml.v3"
)

// yamlScan represents a scan result in YAML output.
type yamlScan struct {
	Files []yamlFile `yaml:"files"`
	Meta  yamlMeta   `yaml:"meta"`
}

// yamlFile represents a file in YAML output.
type yamlFile struct {
	Path      string `yaml:"path"`
	Size      int64  `yaml:"size"`
	SizeHuman string `yaml:"size_human"`
}

// yamlMeta represents scan metadata in YAML output.
type yamlMeta struct {
	Roots      []string `yaml:"roots"`
	Extensions string   `yaml:"extensions"`
	Recurse    bool     `yaml:"recurse"`
	TotalFiles int      `yaml:"total_files"`
	TotalSize  int64    `yaml:"total_size"`
	Duration   string   `yaml:"duration,omitempty"`
}

// yamlMerge represents a merge result in YAML output.
type yamlMerge struct {
	Source          string   `yaml:"source"`
	Destination     string   `yaml:"destination"`
	Copied          int      `yaml:"copied"`
	BytesCopied     int64    `yaml:"bytes_copied"`
	Attention       []string `yaml:"attention"`
	Remove          []string `yaml:"remove"`
	Skipped         []string `yaml:"skipped"`
	TemplateVersion int      `yaml:"template_version"`
	PreviousVersion int      `yaml:"previous_version,omitempty"`
	Duration        string   `yaml:"duration,omitempty"`
	JournalID       string   `yaml:"journal_id,omitempty"`
}

// YAMLFormatter formats output as YAML.
// It produces the same structure as JSONFormatter but in YAML format.
type YAMLFormatter struct{}

// FormatScan writes the formatted output to the buffer.
func (f *YAMLFormatter) FormatScan(w *bytes.Buffer, r *ScanResult) error {
	files := make([]yamlFile, len(r.Files))
	for i, file := range r.Files {
		files[i] = yamlFile{
			Path:      file.Path,
			Size:      file.Size,
			SizeHuman: file.SizeHuman,
		}
	}

	return encodeYAML(w, yamlScan{
		Files: files,
		Meta: yamlMeta{
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
func (f *YAMLFormatter) FormatMerge(w *bytes.Buffer, r *MergeResult) error {
	return encodeYAML(w, yamlMerge{
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

func encodeYAML(w *bytes.Buffer, v any) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		return err
	}
	return encoder.Close()
}

func init() {
	Register("yaml", func() Formatter {
		return &YAMLFormatter{}
	})
}

// Ensure YAMLFormatter implements Formatter.
var _ Formatter = (*YAMLFormatter)(nil)
