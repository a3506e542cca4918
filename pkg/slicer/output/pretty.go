package output

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/jamesainslie/cookieslicer/pkg/slicer/manifest"
)

// PrettyFormatter formats output with colors and styling using lipgloss.
// It produces a visually appealing output suitable for terminal display.
type PrettyFormatter struct {
	// Color enables ANSI colors. Borders are drawn either way.
	Color bool
}

// FormatScan writes the formatted output to the buffer.
func (f *PrettyFormatter) FormatScan(w *bytes.Buffer, r *ScanResult) error {
	s := newStyles(w, f.Color)

	header := []string{
		fmt.Sprintf("%s %s", s.label.Render("Roots:"), s.value.Render(strings.Join(r.Roots, " "))),
		fmt.Sprintf("%s %s  %s %s",
			s.label.Render("Extensions:"), s.value.Render(r.Extensions),
			s.label.Render("Recursive:"), s.value.Render(yesNo(r.Recurse))),
	}
	w.WriteString(s.header.Render(strings.Join(header, "\n")))
	w.WriteString("\n")

	if len(r.Files) == 0 {
		w.WriteString(s.muted.Render("  No matching files found"))
		w.WriteString("\n")
	}

	width := 8
	for _, file := range r.Files {
		width = max(width, len(file.SizeHuman))
	}
	for _, file := range r.Files {
		fmt.Fprintf(w, "  %s  %s\n", s.size.Render(padLeft(file.SizeHuman, width)), s.value.Render(file.Path))
	}

	footer := []string{
		fmt.Sprintf("%s %s", s.label.Render("Files:"), s.value.Render(fmt.Sprintf("%d", len(r.Files)))),
		fmt.Sprintf("%s %s", s.label.Render("Total:"), s.size.Render(humanize.IBytes(uint64(r.TotalSize())))),
	}
	if r.Duration > 0 {
		footer = append(footer, s.muted.Render("in "+formatDuration(r.Duration)))
	}
	w.WriteString(s.footer.Render(strings.Join(footer, "  ")))
	w.WriteString("\n")
	return nil
}

// FormatMerge writes the formatted output to the buffer.
func (f *PrettyFormatter) FormatMerge(w *bytes.Buffer, r *MergeResult) error {
	s := newStyles(w, f.Color)

	header := []string{
		fmt.Sprintf("%s %s", s.label.Render("Template:"), s.value.Render(r.Source)),
		fmt.Sprintf("%s %s", s.label.Render("Destination:"), s.value.Render(r.Destination)),
		fmt.Sprintf("%s %s", s.label.Render("Marker:"), s.value.Render(markerTransition(r))),
	}
	w.WriteString(s.header.Render(strings.Join(header, "\n")))
	w.WriteString("\n")

	section := func(title string, style lipgloss.Style, items []string) {
		if len(items) == 0 {
			return
		}
		w.WriteString(s.title.Render(title))
		w.WriteString("\n")
		for _, item := range items {
			w.WriteString("  " + style.Render(item) + "\n")
		}
	}
	section("Needs attention", s.warning, r.Attention)
	section("Remove from destination", s.danger, r.Remove)
	section("Kept (copied once)", s.muted, r.Skipped)

	footer := []string{
		fmt.Sprintf("%s %s", s.label.Render("Copied:"), s.success.Render(fmt.Sprintf("%d files", r.Copied))),
		fmt.Sprintf("%s %s", s.label.Render("Total:"), s.size.Render(humanize.IBytes(uint64(r.BytesCopied)))),
	}
	if r.Duration > 0 {
		footer = append(footer, s.muted.Render("in "+formatDuration(r.Duration)))
	}
	if r.JournalID != "" {
		footer = append(footer, s.muted.Render("journal: "+r.JournalID))
	}
	w.WriteString(s.footer.Render(strings.Join(footer, "  ")))
	w.WriteString("\n")
	return nil
}

// markerTransition describes the marker version change, e.g. "none -> 1".
func markerTransition(r *MergeResult) string {
	previous := "none"
	if r.PreviousVersion > 0 {
		previous = fmt.Sprintf("%d", r.PreviousVersion)
	}
	return fmt.Sprintf("%s -> %d (template config %d)", previous, manifest.MarkerConfigVersion, r.TemplateVersion)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// padLeft pads a string with spaces on the left to achieve the desired width.
func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}

// formatDuration formats a duration in a human-friendly way.
func formatDuration(d time.Duration) string {
	sec := d.Seconds()
	if sec < 1 {
		return fmt.Sprintf("%.0fms", sec*1000)
	}
	if sec < 60 {
		return fmt.Sprintf("%.1fs", sec)
	}
	minutes := int(sec) / 60
	seconds := int(sec) % 60
	if minutes < 60 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

// stdoutIsTerminal reports whether standard output is an interactive
// terminal and NO_COLOR is unset.
func stdoutIsTerminal() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func init() {
	Register("pretty", func() Formatter {
		return &PrettyFormatter{Color: stdoutIsTerminal()}
	})
}

// Ensure PrettyFormatter implements Formatter.
var _ Formatter = (*PrettyFormatter)(nil)
