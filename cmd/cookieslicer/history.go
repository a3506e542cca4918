package main

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jamesainslie/cookieslicer/pkg/slicer/journal"
	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	var limit int

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "View merge history",
		Long: `View the history of merge operations.

The journal stores a record of every merge performed by cookieslicer,
including the attention files and removal candidates it reported.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHistory(cmd, limit)
		},
	}
	historyCmd.Flags().IntVarP(&limit, "limit", "l", 20, "maximum number of entries to show")

	historyShowCmd := &cobra.Command{
		Use:   "show [id]",
		Short: "Show details of a specific merge",
		Long:  `Display detailed information about a merge by its ID.`,
		Args:  cobra.ExactArgs(1),
		RunE:  runHistoryShow,
	}

	historyCleanCmd := &cobra.Command{
		Use:   "clean",
		Short: "Clean up old history entries",
		Long:  `Remove history entries older than journal.retention_days.`,
		Args:  cobra.NoArgs,
		RunE:  runHistoryClean,
	}

	historyCmd.AddCommand(historyShowCmd, historyCleanCmd)
	return historyCmd
}

// getJournal returns a journal for the configured directory.
func getJournal() (*journal.Journal, int, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, 0, err
	}

	j, err := journal.New(cfg.Journal.Path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to initialize journal: %w", err)
	}
	return j, cfg.Journal.RetentionDays, nil
}

// runHistory lists recent merges.
func runHistory(cmd *cobra.Command, limit int) error {
	j, _, err := getJournal()
	if err != nil {
		return err
	}

	entries, err := j.List(limit)
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}

	if len(entries) == 0 {
		printInfo(cmd, "No history entries found.")
		printInfo(cmd, "Run 'cookieslicer merge -i <template> -o <dir>' to record one.")
		return nil
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "%-34s  %-19s  %-6s  %-10s  %s\n", "ID", "TIME", "FILES", "SIZE", "DESTINATION")
	_, _ = fmt.Fprintln(out, strings.Repeat("-", 100))

	for _, entry := range entries {
		_, _ = fmt.Fprintf(out, "%-34s  %-19s  %-6d  %-10s  %s\n",
			entry.ID,
			entry.Timestamp.Local().Format("2006-01-02 15:04:05"),
			entry.Copied,
			humanize.IBytes(uint64(entry.BytesCopied)),
			entry.Destination,
		)
	}

	printInfo(cmd, "\nShowing %d entries. Use 'cookieslicer history show <id>' for details.", len(entries))
	return nil
}

// runHistoryShow displays details of a specific merge.
func runHistoryShow(cmd *cobra.Command, args []string) error {
	j, _, err := getJournal()
	if err != nil {
		return err
	}

	entry, err := j.Get(args[0])
	if err != nil {
		return fmt.Errorf("failed to get entry: %w", err)
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintln(out, "Merge Details")
	_, _ = fmt.Fprintln(out, strings.Repeat("=", 60))
	_, _ = fmt.Fprintf(out, "ID:           %s\n", entry.ID)
	_, _ = fmt.Fprintf(out, "Timestamp:    %s\n", entry.Timestamp.Local().Format("2006-01-02 15:04:05 MST"))
	_, _ = fmt.Fprintf(out, "Source:       %s\n", entry.Source)
	_, _ = fmt.Fprintf(out, "Destination:  %s\n", entry.Destination)
	_, _ = fmt.Fprintf(out, "Copied:       %d (%s)\n", entry.Copied, humanize.IBytes(uint64(entry.BytesCopied)))
	_, _ = fmt.Fprintf(out, "Config:       %s\n", versionTransition(entry.PreviousVersion, entry.TemplateVersion))

	list := func(title string, items []string) {
		if len(items) == 0 {
			return
		}
		_, _ = fmt.Fprintf(out, "\n%s:\n", title)
		for _, item := range items {
			_, _ = fmt.Fprintf(out, "  %s\n", item)
		}
	}
	list("Needs attention", entry.Attention)
	list("Remove from destination", entry.Remove)
	list("Kept (copied once)", entry.Skipped)

	return nil
}

// versionTransition describes the marker versions of a merge.
func versionTransition(previous, template int) string {
	if previous == 0 {
		return fmt.Sprintf("new destination, template version %d", template)
	}
	return fmt.Sprintf("marker version %d, template version %d", previous, template)
}

// runHistoryClean removes entries older than the retention period.
func runHistoryClean(cmd *cobra.Command, _ []string) error {
	j, retentionDays, err := getJournal()
	if err != nil {
		return err
	}

	removed, err := j.Cleanup(retentionDays)
	if err != nil {
		return fmt.Errorf("failed to clean history: %w", err)
	}

	printInfo(cmd, "Removed %d entries older than %d days.", removed, retentionDays)
	return nil
}
