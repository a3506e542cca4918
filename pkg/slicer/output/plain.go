package output

import (
	"bytes"
	"fmt"
	"strings"
)

// PlainFormatter writes unstyled text.
//
// Scan results are one path per line. Merge results use the line oriented
// report other tools parse: a "REMOVE:<path>" line per removal candidate,
// then "att:<list>" and "number_copied:<count>".
type PlainFormatter struct{}

// FormatScan writes one path per line.
func (f *PlainFormatter) FormatScan(w *bytes.Buffer, r *ScanResult) error {
	for _, file := range r.Files {
		w.WriteString(file.Path)
		w.WriteByte('\n')
	}
	return nil
}

// FormatMerge writes the merge report.
func (f *PlainFormatter) FormatMerge(w *bytes.Buffer, r *MergeResult) error {
	for _, rel := range r.Remove {
		fmt.Fprintf(w, "REMOVE:%s\n", rel)
	}
	fmt.Fprintf(w, "att:%s\n", ReprList(r.Attention))
	fmt.Fprintf(w, "number_copied:%d\n", r.Copied)
	return nil
}

// ReprList renders a list of strings in bracketed, quoted form:
// ['a', 'b'], or [] when empty.
func ReprList(items []string) string {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = reprString(item)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

// reprString quotes s with single quotes, switching to double quotes when
// s contains a single quote but no double quote.
func reprString(s string) string {
	quote := '\''
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		quote = '"'
	}

	var sb strings.Builder
	sb.WriteRune(quote)
	for _, r := range s {
		switch {
		case r == quote || r == '\\':
			sb.WriteByte('\\')
			sb.WriteRune(r)
		case r == '\n':
			sb.WriteString(`\n`)
		case r == '\r':
			sb.WriteString(`\r`)
		case r == '\t':
			sb.WriteString(`\t`)
		case r < 0x20 || r == 0x7f:
			fmt.Fprintf(&sb, `\x%02x`, r)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteRune(quote)
	return sb.String()
}

func init() {
	Register("plain", func() Formatter {
		return &PlainFormatter{}
	})
}

// Ensure PlainFormatter implements Formatter.
var _ Formatter = (*PlainFormatter)(nil)
