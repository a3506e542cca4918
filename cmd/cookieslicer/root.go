package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/jamesainslie/cookieslicer/pkg/slicer/logging"
	"github.com/jamesainslie/cookieslicer/pkg/slicer/output"
	"github.com/jamesainslie/cookieslicer/pkg/slicer/scanner"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// newRootCmd builds the command tree. Each call returns fresh commands and
// flag state.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cookieslicer",
		Short: "Apply project templates and find eligible files",
		Long: `cookieslicer merges a project template into an existing directory and
scans paths for files with a given set of extensions.

The template directory carries a cookieslicer.json manifest that marks
files to copy only once, files that need attention after copying, and
files that should be removed from the destination.

Examples:
  cookieslicer merge -i template -o project   # Apply a template
  cookieslicer scan -r docs README.md         # List Markdown files
  cookieslicer scan -l -ae .md,.txt notes     # List mode with exit codes
  cookieslicer history                        # View merge history
  cookieslicer config show                    # Show configuration`,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: initializeLogging,
	}

	// Persistent flags (available to all commands)
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: ~/.config/cookieslicer/config.yaml)")
	flags.BoolP("verbose", "v", false, "debug output on stderr")
	flags.BoolP("quiet", "q", false, "minimal output")
	flags.Bool("stack-trace", false, "if an error occurs, print out the stack trace for debug purposes")
	flags.StringP("format", "f", "", "output format: "+fmt.Sprint(output.Available()))
	flags.String("template", "", "Go template used with --format template")

	// Bind flags to viper
	_ = viper.BindPFlag("verbose", flags.Lookup("verbose"))
	_ = viper.BindPFlag("quiet", flags.Lookup("quiet"))
	_ = viper.BindPFlag("stack_trace", flags.Lookup("stack-trace"))
	_ = viper.BindPFlag("output.format", flags.Lookup("format"))
	_ = viper.BindPFlag("output.template", flags.Lookup("template"))

	rootCmd.AddCommand(
		newScanCmd(),
		newMergeCmd(),
		newHistoryCmd(),
		newConfigCmd(),
		newVersionCmd(),
	)

	return rootCmd
}

// Execute runs the root command against the process arguments and returns
// the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := newRootCmd()
	rootCmd.SetArgs(scanner.NormalizeArgs(os.Args[1:]))
	return run(ctx, rootCmd)
}

// run executes cmd and turns its error into an exit code, reporting it on
// the command's error stream.
func run(ctx context.Context, cmd *cobra.Command) int {
	err := cmd.ExecuteContext(ctx)
	defer func() { _ = logging.Close() }()

	if err == nil {
		return 0
	}

	var exit *exitError
	if errors.As(err, &exit) {
		return exit.code
	}

	logging.Get("cli").Error("command failed", "error", err)
	reportError(cmd.ErrOrStderr(), err, viper.GetBool("stack_trace"))
	return 1
}

// exitError ends the process with a code after the command has already
// written its own diagnostics.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// reportError writes err to w preceded by a blank line. With stackTrace the
// wrapped error chain and the goroutine stack follow.
func reportError(w io.Writer, err error, stackTrace bool) {
	_, _ = fmt.Fprintf(w, "\n\n%s\n", err)
	if !stackTrace {
		return
	}

	for cause := errors.Unwrap(err); cause != nil; cause = errors.Unwrap(cause) {
		_, _ = fmt.Fprintf(w, "caused by: %s\n", cause)
	}
	_, _ = w.Write(debug.Stack())
}

// getQuiet returns true if quiet mode is enabled.
func getQuiet() bool {
	return viper.GetBool("quiet")
}

// printInfo prints a message to the command's error stream unless quiet
// mode is enabled. Standard output is reserved for results.
func printInfo(cmd *cobra.Command, format string, args ...interface{}) {
	if !getQuiet() {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), format+"\n", args...)
	}
}

// selectFormatter resolves the --format flag (or output.format setting) to
// a formatter, falling back to def. The template format uses the
// --template text for the running command.
func selectFormatter(def string, withTemplate func(text string) output.Formatter) (output.Formatter, error) {
	name := viper.GetString("output.format")
	if name == "" {
		name = def
	}

	if name == "template" {
		return withTemplate(viper.GetString("output.template")), nil
	}

	formatter, err := output.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unknown output format %q: available formats are %v", name, output.Available())
	}
	return formatter, nil
}
