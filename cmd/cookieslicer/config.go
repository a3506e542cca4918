package main

import (
	"fmt"
	"os"
	"os/exec"
	"sort"

	"github.com/jamesainslie/cookieslicer/pkg/slicer/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long: `Manage cookieslicer configuration settings.

Configuration is loaded from:
  1. $XDG_CONFIG_HOME/cookieslicer/config.yaml (if set)
  2. ~/.config/cookieslicer/config.yaml

Environment variables can override config file settings using the
COOKIESLICER_ prefix:
  COOKIESLICER_SCAN_EXTENSIONS=.md,.txt
  COOKIESLICER_OUTPUT_FORMAT=json
  COOKIESLICER_JOURNAL_ENABLED=false`,
	}

	configCmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show current configuration",
			Long:  `Display the current configuration settings from all sources.`,
			Args:  cobra.NoArgs,
			RunE:  runConfigShow,
		},
		&cobra.Command{
			Use:   "edit",
			Short: "Edit configuration file",
			Long: `Open the configuration file in your default editor.

The editor is determined by:
  1. $VISUAL environment variable
  2. $EDITOR environment variable
  3. Falls back to 'vi'

If the config file doesn't exist, a default one will be created first.`,
			Args: cobra.NoArgs,
			RunE: runConfigEdit,
		},
		&cobra.Command{
			Use:   "init",
			Short: "Create default configuration file",
			Long:  `Create a default configuration file if one doesn't exist.`,
			Args:  cobra.NoArgs,
			RunE:  runConfigInit,
		},
		&cobra.Command{
			Use:   "path",
			Short: "Show configuration file path",
			Long:  `Display the path to the configuration file.`,
			Args:  cobra.NoArgs,
			RunE:  runConfigPath,
		},
	)

	return configCmd
}

// runConfigShow displays the current configuration.
func runConfigShow(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	out := cmd.OutOrStdout()
	if configFile := viper.ConfigFileUsed(); configFile != "" {
		_, _ = fmt.Fprintf(out, "Config file: %s\n\n", configFile)
	} else {
		_, _ = fmt.Fprintf(out, "Config file: (using defaults, no file found)\n\n")
	}

	format := cfg.Output.Format
	if format == "" {
		format = "(command default)"
	}

	_, _ = fmt.Fprintln(out, "Current Configuration:")
	_, _ = fmt.Fprintln(out, "----------------------")
	_, _ = fmt.Fprintf(out, "scan.extensions:          %s\n", cfg.Scan.Extensions)
	_, _ = fmt.Fprintf(out, "scan.recurse:             %t\n", cfg.Scan.Recurse)
	_, _ = fmt.Fprintf(out, "output.format:            %s\n", format)
	_, _ = fmt.Fprintf(out, "journal.enabled:          %t\n", cfg.Journal.Enabled)
	_, _ = fmt.Fprintf(out, "journal.path:             %s\n", cfg.Journal.Path)
	_, _ = fmt.Fprintf(out, "journal.retention_days:   %d\n", cfg.Journal.RetentionDays)
	_, _ = fmt.Fprintf(out, "logging.level:            %s\n", cfg.Logging.Level)
	logPath := cfg.Logging.Path
	if logPath == "" {
		logPath = config.DefaultLogPath()
	}
	_, _ = fmt.Fprintf(out, "logging.path:             %s\n", logPath)
	_, _ = fmt.Fprintf(out, "logging.rotation.max_size: %s\n", cfg.Logging.Rotation.MaxSize)
	_, _ = fmt.Fprintf(out, "logging.rotation.max_backups: %d\n", cfg.Logging.Rotation.MaxBackups)

	components := make([]string, 0, len(cfg.Logging.Components))
	for name := range cfg.Logging.Components {
		components = append(components, name)
	}
	sort.Strings(components)
	for _, name := range components {
		_, _ = fmt.Fprintf(out, "logging.components.%s: %s\n", name, cfg.Logging.Components[name])
	}

	_, _ = fmt.Fprintln(out, "\nEnvironment Overrides:")
	_, _ = fmt.Fprintln(out, "----------------------")
	envVars := []string{
		"COOKIESLICER_SCAN_EXTENSIONS",
		"COOKIESLICER_SCAN_RECURSE",
		"COOKIESLICER_OUTPUT_FORMAT",
		"COOKIESLICER_OUTPUT_TEMPLATE",
		"COOKIESLICER_JOURNAL_ENABLED",
		"COOKIESLICER_JOURNAL_PATH",
		"COOKIESLICER_JOURNAL_RETENTION_DAYS",
		"COOKIESLICER_LOGGING_LEVEL",
		"COOKIESLICER_LOGGING_PATH",
	}

	anyOverrides := false
	for _, name := range envVars {
		if val := os.Getenv(name); val != "" {
			_, _ = fmt.Fprintf(out, "%s=%s\n", name, val)
			anyOverrides = true
		}
	}
	if !anyOverrides {
		_, _ = fmt.Fprintln(out, "(none)")
	}

	return nil
}

// runConfigEdit opens the config file in an editor.
func runConfigEdit(cmd *cobra.Command, _ []string) error {
	if _, err := config.WriteDefault(); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	configPath, err := config.ConfigFile()
	if err != nil {
		return fmt.Errorf("failed to get config directory: %w", err)
	}

	editor := os.Getenv("VISUAL")
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}
	if editor == "" {
		editor = "vi"
	}

	editorCmd := exec.CommandContext(cmd.Context(), editor, configPath)
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = cmd.OutOrStdout()
	editorCmd.Stderr = cmd.ErrOrStderr()

	if err := editorCmd.Run(); err != nil {
		return fmt.Errorf("editor command failed: %w", err)
	}

	return nil
}

// runConfigInit creates a default config file.
func runConfigInit(cmd *cobra.Command, _ []string) error {
	configPath, err := config.ConfigFile()
	if err != nil {
		return fmt.Errorf("failed to get config directory: %w", err)
	}

	created, err := config.WriteDefault()
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	if !created {
		printInfo(cmd, "Config file already exists: %s", configPath)
		printInfo(cmd, "Use 'cookieslicer config edit' to modify it.")
		return nil
	}

	printInfo(cmd, "Created default config file: %s", configPath)
	return nil
}

// runConfigPath shows the config file path.
func runConfigPath(cmd *cobra.Command, _ []string) error {
	configPath, err := config.ConfigFile()
	if err != nil {
		return fmt.Errorf("failed to get config directory: %w", err)
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), configPath)
	return nil
}
