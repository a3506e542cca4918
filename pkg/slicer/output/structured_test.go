package output

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestJSONFormatter_FormatMerge(t *testing.T) {
	t.Parallel()

	r := sampleMerge()
	r.Duration = 1500 * time.Millisecond
	r.JournalID = "merge-2026-01-02T03-04-05-abcd1234"

	var buf bytes.Buffer
	require.NoError(t, (&JSONFormatter{}).FormatMerge(&buf, r))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))

	assert.Equal(t, "/tmpl", got["source"])
	assert.Equal(t, float64(3), got["copied"])
	assert.Equal(t, float64(2048), got["bytes_copied"])
	assert.Equal(t, []any{"/dst/b.txt"}, got["attention"])
	assert.Equal(t, []any{"c.txt", "old/d.txt"}, got["remove"])
	assert.Equal(t, "1.5s", got["duration"])
	assert.Equal(t, r.JournalID, got["journal_id"])
}

func TestJSONFormatter_EmptyListsAreArrays(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, (&JSONFormatter{}).FormatMerge(&buf, &MergeResult{}))
	assert.Contains(t, buf.String(), `"attention": []`)
	assert.Contains(t, buf.String(), `"remove": []`)
	assert.NotContains(t, buf.String(), "journal_id")

	buf.Reset()
	require.NoError(t, (&JSONFormatter{}).FormatScan(&buf, &ScanResult{}))
	assert.Contains(t, buf.String(), `"files": []`)
}

func TestJSONFormatter_FormatScan(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, (&JSONFormatter{}).FormatScan(&buf, sampleScan()))

	var got struct {
		Files []FileInfo `json:"files"`
		Meta  struct {
			TotalFiles int   `json:"total_files"`
			TotalSize  int64 `json:"total_size"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))

	require.Len(t, got.Files, 2)
	assert.Equal(t, "/docs/a.md", got.Files[0].Path)
	assert.Equal(t, 2, got.Meta.TotalFiles)
	assert.Equal(t, int64(1034), got.Meta.TotalSize)
}

func TestYAMLFormatter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, (&YAMLFormatter{}).FormatMerge(&buf, sampleMerge()))

	var merge yamlMerge
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &merge))
	assert.Equal(t, "/dst", merge.Destination)
	assert.Equal(t, 3, merge.Copied)
	assert.Equal(t, []string{"a.txt"}, merge.Skipped)
	assert.Equal(t, 1, merge.PreviousVersion)

	buf.Reset()
	require.NoError(t, (&YAMLFormatter{}).FormatScan(&buf, sampleScan()))

	var scan yamlScan
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &scan))
	require.Len(t, scan.Files, 2)
	assert.Equal(t, "10 B", scan.Files[1].SizeHuman)
	assert.Equal(t, ".md", scan.Meta.Extensions)
}
