package main

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jamesainslie/cookieslicer/pkg/slicer/config"
	"github.com/jamesainslie/cookieslicer/pkg/slicer/output"
	"github.com/jamesainslie/cookieslicer/pkg/slicer/scanner"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan path [path ...]",
		Short: "Find files matching an extension list",
		Long: `Scan files, directories, and glob patterns for files whose extension is
in the allow-list.

Directories are scanned for their immediate files unless --recurse is
given. Glob patterns use / as the separator; * stays within one
directory and ** crosses directories.

The default extension list comes from scan.extensions in the config
file (default ".md").

With --list-files the matching paths are printed one per line and the
command exits 0, or it prints "No matching files found." to stderr and
exits 1.`,
		Args: cobra.MinimumNArgs(1),
	}

	// The literal default is always valid, so AddFlags cannot fail here.
	flags, _ := scanner.AddFlags(cmd, config.DefaultExtensions, scanner.FlagOptions{
		FileTypeName: "Markdown",
	})
	cmd.Long += "\n\nArguments:\n  path    " + flags.PathHelp()

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runScan(cmd, flags, args)
	}
	return cmd
}

// runScan resolves the roots and prints the result in list mode or with the
// selected formatter.
func runScan(cmd *cobra.Command, flags *scanner.Flags, args []string) error {
	opts := flags.Options(args)
	if !cmd.Flags().Changed(scanner.FlagAlternateExtensions) {
		opts.Extensions = viper.GetString("scan.extensions")
	}
	if !cmd.Flags().Changed(scanner.FlagRecurse) {
		opts.Recurse = viper.GetBool("scan.recurse")
	}

	start := time.Now()
	files, err := scanner.New(opts).Scan()
	if err != nil {
		return err
	}

	if flags.ListFiles() {
		if code := scanner.ListFiles(cmd.OutOrStdout(), cmd.ErrOrStderr(), files); code != scanner.ExitFound {
			return &exitError{code: code}
		}
		return nil
	}

	formatter, err := selectFormatter(output.DefaultScanFormat, func(text string) output.Formatter {
		return output.NewTemplateFormatter(text, "")
	})
	if err != nil {
		return err
	}

	result, err := buildScanResult(files, opts, time.Since(start))
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := formatter.FormatScan(&buf, result); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(buf.Bytes())
	return err
}

// buildScanResult stats each matched file for the structured formatters.
func buildScanResult(files []string, opts scanner.Options, elapsed time.Duration) (*output.ScanResult, error) {
	infos := make([]output.FileInfo, 0, len(files))
	for _, path := range files {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}
		infos = append(infos, output.FileInfo{
			Path:      path,
			Size:      info.Size(),
			SizeHuman: humanize.IBytes(uint64(info.Size())),
			ModTime:   info.ModTime(),
		})
	}

	return &output.ScanResult{
		Files:      infos,
		Roots:      opts.Roots,
		Extensions: opts.Extensions,
		Recurse:    opts.Recurse,
		Duration:   elapsed,
	}, nil
}
