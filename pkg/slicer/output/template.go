package output

import (
	"bytes"
	"strings"
	"sync"
	"text/template"
	"time"

	"github.com/dustin/go-humanize"
)

// TemplateFormatter formats output using a custom Go text/template.
// The scan template receives a *ScanResult and the merge template a
// *MergeResult.
type TemplateFormatter struct {
	scanText  string
	mergeText string
	scan      *template.Template
	merge     *template.Template
	mu        sync.Mutex
}

// NewTemplateFormatter creates a template formatter. Empty strings select
// the default templates.
func NewTemplateFormatter(scanText, mergeText string) *TemplateFormatter {
	f := &TemplateFormatter{}
	f.SetTemplates(scanText, mergeText)
	return f
}

// SetTemplates replaces the templates. Empty strings select the defaults.
func (f *TemplateFormatter) SetTemplates(scanText, mergeText string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if scanText == "" {
		scanText = defaultScanTemplate
	}
	if mergeText == "" {
		mergeText = defaultMergeTemplate
	}
	f.scanText, f.mergeText = scanText, mergeText
	f.scan, f.merge = nil, nil
}

// templateFuncs returns the custom template functions.
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		// bytes formats a size in bytes as a human-readable string.
		// Usage: {{bytes .BytesCopied}}
		"bytes": func(size int64) string {
			return humanize.IBytes(uint64(size))
		},

		// duration formats a duration.
		// Usage: {{duration .Duration}}
		"duration": func(d time.Duration) string {
			return d.String()
		},

		// join joins a list with a separator.
		// Usage: {{join .Remove ","}}
		"join": strings.Join,

		// repr renders a list in the plain report form.
		// Usage: {{repr .Attention}}
		"repr": ReprList,
	}
}

// FormatScan writes the formatted output to the buffer.
func (f *TemplateFormatter) FormatScan(w *bytes.Buffer, r *ScanResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.scan == nil {
		tmpl, err := template.New("scan").Funcs(templateFuncs()).Parse(f.scanText)
		if err != nil {
			return err
		}
		f.scan = tmpl
	}
	return f.scan.Execute(w, r)
}

// FormatMerge writes the formatted output to the buffer.
func (f *TemplateFormatter) FormatMerge(w *bytes.Buffer, r *MergeResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.merge == nil {
		tmpl, err := template.New("merge").Funcs(templateFuncs()).Parse(f.mergeText)
		if err != nil {
			return err
		}
		f.merge = tmpl
	}
	return f.merge.Execute(w, r)
}

// Default templates used when none is configured.
const (
	defaultScanTemplate = `{{range .Files}}{{.SizeHuman}}	{{.Path}}
{{end}}`
	defaultMergeTemplate = `{{.Copied}} files ({{bytes .BytesCopied}}) copied to {{.Destination}}
{{range .Attention}}attention: {{.}}
{{end}}{{range .Remove}}remove: {{.}}
{{end}}`
)

func init() {
	Register("template", func() Formatter {
		return NewTemplateFormatter("", "")
	})
}

// Ensure TemplateFormatter implements Formatter.
var _ Formatter = (*TemplateFormatter)(nil)
