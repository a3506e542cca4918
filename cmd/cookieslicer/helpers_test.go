package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/cookieslicer/pkg/slicer/scanner"
)

// resetViper gives a test a fresh global viper instance.
func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

// sandbox points config, log and journal locations at a temp dir and
// returns the journal directory.
func sandbox(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	journalDir := filepath.Join(dir, "journal")
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("COOKIESLICER_LOGGING_PATH", filepath.Join(dir, "state", "cookieslicer.log"))
	t.Setenv("COOKIESLICER_JOURNAL_PATH", journalDir)
	return journalDir
}

type result struct {
	stdout string
	stderr string
	code   int
}

// execute runs the command tree with args the way main does and captures
// its output.
func execute(t *testing.T, args ...string) result {
	t.Helper()
	resetViper(t)

	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(scanner.NormalizeArgs(args))

	code := run(context.Background(), cmd)
	return result{stdout: stdout.String(), stderr: stderr.String(), code: code}
}

// writeFiles creates files below root from a map of relative paths to
// contents.
func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}
