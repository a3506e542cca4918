package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jamesainslie/cookieslicer/pkg/slicer/config"
	"github.com/jamesainslie/cookieslicer/pkg/slicer/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// initConfig points the global viper instance at the config file and
// registers defaults and environment overrides.
func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")

		if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
			viper.AddConfigPath(filepath.Join(xdgConfigHome, config.AppName))
		}

		homeDir, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(homeDir, ".config", config.AppName))
		}
	}

	config.SetDefaults(viper.GetViper())

	err := viper.ReadInConfig()
	if err == nil {
		return nil
	}

	// An explicit --config that cannot be read is fatal.
	if cfgFile != "" {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		return nil
	}
	return fmt.Errorf("failed to read config file: %w", err)
}

// loadConfig decodes the global viper state.
func loadConfig() (*config.Config, error) {
	return config.FromViper(viper.GetViper())
}

// initializeLogging is the root PersistentPreRunE hook. It makes sure the
// XDG directories exist and starts file logging; --verbose adds debug
// output on stderr.
func initializeLogging(cmd *cobra.Command, _ []string) error {
	if err := initConfig(); err != nil {
		return err
	}

	if err := config.EnsureConfigDir(); err != nil {
		return err
	}
	if err := config.EnsureDataDir(); err != nil {
		return err
	}
	if err := config.EnsureStateDir(); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logCfg := logging.Config{
		Level:      cfg.Logging.Level,
		Path:       cfg.Logging.Path,
		Rotation:   parseRotationConfig(cfg.Logging.Rotation),
		Components: cfg.Logging.Components,
	}
	if logCfg.Path == "" {
		logCfg.Path = config.DefaultLogPath()
	}
	if viper.GetBool("verbose") {
		logCfg.ConsoleLevel = "debug"
		if cmd != nil {
			logCfg.Console = cmd.ErrOrStderr()
		}
	}

	if err := logging.Init(logCfg); err != nil {
		return fmt.Errorf("initializing logging: %w", err)
	}
	return nil
}

// parseRotationConfig converts the configured rotation settings, falling
// back to the default size when max_size is empty or unparsable.
func parseRotationConfig(cfg config.RotationConfig) logging.RotationConfig {
	maxSize := logging.DefaultMaxSize
	if cfg.MaxSize != "" {
		if size, err := logging.ParseSize(cfg.MaxSize); err == nil && size > 0 {
			maxSize = size
		}
	}

	return logging.RotationConfig{
		MaxSize:    maxSize,
		MaxBackups: cfg.MaxBackups,
	}
}
