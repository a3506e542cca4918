package output

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrettyFormatter_FormatMerge(t *testing.T) {
	t.Parallel()

	r := sampleMerge()
	r.Duration = 250 * time.Millisecond

	var buf bytes.Buffer
	require.NoError(t, (&PrettyFormatter{}).FormatMerge(&buf, r))

	out := buf.String()
	assert.NotContains(t, out, "\x1b[", "no ANSI escapes without color")
	assert.Contains(t, out, "/tmpl")
	assert.Contains(t, out, "1 -> 1 (template config 2)")
	assert.Contains(t, out, "Needs attention")
	assert.Contains(t, out, "/dst/b.txt")
	assert.Contains(t, out, "Remove from destination")
	assert.Contains(t, out, "old/d.txt")
	assert.Contains(t, out, "3 files")
	assert.Contains(t, out, "2.0 KiB")
	assert.Contains(t, out, "250ms")
}

func TestPrettyFormatter_FormatMerge_NoMarker(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, (&PrettyFormatter{}).FormatMerge(&buf, &MergeResult{TemplateVersion: 1}))

	assert.Contains(t, buf.String(), "none -> 1")
	assert.NotContains(t, buf.String(), "Needs attention")
}

func TestPrettyFormatter_FormatScan(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, (&PrettyFormatter{}).FormatScan(&buf, sampleScan()))

	out := buf.String()
	assert.Contains(t, out, "/docs/a.md")
	assert.Contains(t, out, " 1.0 KiB")
	assert.Contains(t, out, "Files:")
	assert.NotContains(t, out, "No matching files found")

	buf.Reset()
	require.NoError(t, (&PrettyFormatter{}).FormatScan(&buf, &ScanResult{Extensions: ".md"}))
	assert.Contains(t, buf.String(), "No matching files found")
}

func TestPrettyFormatter_Color(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, (&PrettyFormatter{Color: true}).FormatMerge(&buf, sampleMerge()))
	assert.Contains(t, buf.String(), "\x1b[")
}

func TestPadLeft(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "   ab", padLeft("ab", 5))
	assert.Equal(t, "abcdef", padLeft("abcdef", 3))
}

func TestFormatDuration(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "500ms", formatDuration(500*time.Millisecond))
	assert.Equal(t, "2.5s", formatDuration(2500*time.Millisecond))
	assert.Equal(t, "2m 5s", formatDuration(125*time.Second))
	assert.Equal(t, "1h 1m", formatDuration(61*time.Minute))
}
