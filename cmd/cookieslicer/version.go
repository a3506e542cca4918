package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Build-time variables set by go build -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Display the version, commit hash, and build date of cookieslicer.`,
		Args:  cobra.NoArgs,
		Run:   runVersion,
	}
}

// runVersion prints version information.
func runVersion(cmd *cobra.Command, _ []string) {
	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "cookieslicer %s\n", version)
	_, _ = fmt.Fprintf(out, "  commit:  %s\n", commit)
	_, _ = fmt.Fprintf(out, "  built:   %s\n", date)
	_, _ = fmt.Fprintf(out, "  go:      %s\n", runtime.Version())
	_, _ = fmt.Fprintf(out, "  os/arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
}
