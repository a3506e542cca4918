package main

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/jamesainslie/cookieslicer/pkg/slicer/journal"
	"github.com/jamesainslie/cookieslicer/pkg/slicer/logging"
	"github.com/jamesainslie/cookieslicer/pkg/slicer/merger"
	"github.com/jamesainslie/cookieslicer/pkg/slicer/output"
	"github.com/spf13/cobra"
)

func newMergeCmd() *cobra.Command {
	var src, dst string

	cmd := &cobra.Command{
		Use:   "merge -i DIR -o DIR",
		Short: "Apply a template directory to a destination",
		Long: `Copy the files of a template directory into a destination directory,
following the template's cookieslicer.json manifest:

  once       copied only if the destination does not have the file yet
  attention  copied, and listed as needing a manual review
  remove     never copied; listed as candidates to delete by hand

Every other file is copied. After a successful merge the destination
gets a cookieslicer.json marker with its config version.

The default output prints REMOVE:<path> lines, the attention list and
the number of files copied.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMerge(cmd, src, dst)
		},
	}

	cmd.Flags().StringVarP(&src, "input-directory", "i", "", "template directory to merge from")
	cmd.Flags().StringVarP(&dst, "output-directory", "o", "", "directory to merge into")
	_ = cmd.MarkFlagRequired("input-directory")
	_ = cmd.MarkFlagRequired("output-directory")

	return cmd
}

// directoryError reports a merge directory that is missing or not a
// directory.
type directoryError struct {
	dir string
}

func (e *directoryError) Error() string {
	return fmt.Sprintf("Specified directory '%s' does not exist.", e.dir)
}

// requireDirectory fails unless dir exists and is a directory.
func requireDirectory(dir string) error {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return &directoryError{dir: dir}
	}
	return nil
}

// runMerge merges src into dst, records the run in the journal and prints
// the report.
func runMerge(cmd *cobra.Command, src, dst string) error {
	if err := requireDirectory(src); err != nil {
		return err
	}
	if err := requireDirectory(dst); err != nil {
		return err
	}

	formatter, err := selectFormatter(output.DefaultMergeFormat, func(text string) output.Formatter {
		return output.NewTemplateFormatter("", text)
	})
	if err != nil {
		return err
	}

	start := time.Now()
	report, err := merger.New(nil).Merge(cmd.Context(), src, dst)
	if err != nil {
		return err
	}

	result := toMergeResult(report, time.Since(start))
	result.JournalID = recordMerge(report)

	var buf bytes.Buffer
	if err := formatter.FormatMerge(&buf, result); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(buf.Bytes())
	return err
}

// recordMerge writes a journal entry for report when the journal is
// enabled and returns its ID. Journal failures never fail the merge.
func recordMerge(report *merger.Report) string {
	logger := logging.Get("journal")

	cfg, err := loadConfig()
	if err != nil {
		logger.Warn("skipping journal", "error", err)
		return ""
	}
	if !cfg.Journal.Enabled {
		return ""
	}

	j, err := journal.New(cfg.Journal.Path)
	if err == nil {
		err = j.EnsureDir()
	}
	if err != nil {
		logger.Warn("skipping journal", "error", err)
		return ""
	}

	entry, err := j.LogMerge(journal.Entry{
		Source:          report.Source,
		Destination:     report.Destination,
		Copied:          report.Copied,
		BytesCopied:     report.BytesCopied,
		Attention:       report.Attention,
		Remove:          report.Remove,
		Skipped:         report.Skipped,
		TemplateVersion: report.TemplateVersion,
		PreviousVersion: report.PreviousVersion,
	})
	if err != nil {
		logger.Warn("failed to record merge", "error", err)
		return ""
	}

	logger.Debug("recorded merge", "id", entry.ID)
	return entry.ID
}

func toMergeResult(report *merger.Report, elapsed time.Duration) *output.MergeResult {
	return &output.MergeResult{
		Source:          report.Source,
		Destination:     report.Destination,
		Copied:          report.Copied,
		BytesCopied:     report.BytesCopied,
		Attention:       report.Attention,
		Remove:          report.Remove,
		Skipped:         report.Skipped,
		TemplateVersion: report.TemplateVersion,
		PreviousVersion: report.PreviousVersion,
		Duration:        elapsed,
	}
}
