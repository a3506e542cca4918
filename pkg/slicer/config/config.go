package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

// RotationConfig configures log file rotation.
type RotationConfig struct {
	MaxSize    string `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
}

// LoggingConfig configures application logging.
type LoggingConfig struct {
	Level      string            `mapstructure:"level"`
	Path       string            `mapstructure:"path"`
	Rotation   RotationConfig    `mapstructure:"rotation"`
	Components map[string]string `mapstructure:"components"`
}

// ScanConfig holds the scan command defaults.
type ScanConfig struct {
	Extensions string `mapstructure:"extensions"`
	Recurse    bool   `mapstructure:"recurse"`
}

// OutputConfig selects the output format. An empty Format means the
// command's own default.
type OutputConfig struct {
	Format   string `mapstructure:"format"`
	Template string `mapstructure:"template"`
}

// JournalConfig configures the merge journal.
type JournalConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	Path          string `mapstructure:"path"`
	RetentionDays int    `mapstructure:"retention_days"`
}

// Config represents the application configuration.
type Config struct {
	Scan    ScanConfig    `mapstructure:"scan"`
	Output  OutputConfig  `mapstructure:"output"`
	Journal JournalConfig `mapstructure:"journal"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// Load loads configuration from file and environment variables.
// Config file locations (in order of precedence):
//   - $XDG_CONFIG_HOME/cookieslicer/config.yaml
//   - $HOME/.config/cookieslicer/config.yaml
//
// Environment variables are prefixed with COOKIESLICER_
// (e.g., COOKIESLICER_SCAN_EXTENSIONS).
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		v.AddConfigPath(filepath.Join(xdgConfigHome, AppName))
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}
	v.AddConfigPath(filepath.Join(homeDir, ".config", AppName))

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is acceptable; we use defaults
	}

	return FromViper(v)
}

// SetDefaults registers defaults and environment binding on v. The CLI
// calls it on the global viper instance so flags, file and environment
// share one precedence chain.
func SetDefaults(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("scan.extensions", DefaultExtensions)
	v.SetDefault("scan.recurse", false)

	v.SetDefault("output.format", "") // Empty means the command default
	v.SetDefault("output.template", "")

	v.SetDefault("journal.enabled", true)
	v.SetDefault("journal.path", JournalDir())
	v.SetDefault("journal.retention_days", DefaultRetentionDays)

	v.SetDefault("logging.level", DefaultLogLevel)
	v.SetDefault("logging.path", "") // Empty means use DefaultLogPath
	v.SetDefault("logging.rotation.max_size", DefaultMaxLogSize)
	v.SetDefault("logging.rotation.max_backups", DefaultMaxLogBackups)
	v.SetDefault("logging.components", DefaultComponents)
}

// FromViper applies defaults to v and decodes it into a Config, expanding
// ~ in path settings.
func FromViper(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	var err error
	if cfg.Journal.Path, err = ExpandPath(cfg.Journal.Path); err != nil {
		return nil, err
	}
	if cfg.Logging.Path, err = ExpandPath(cfg.Logging.Path); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ConfigDir returns the configuration directory path.
func ConfigDir() (string, error) {
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return filepath.Join(xdgConfigHome, AppName), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, ".config", AppName), nil
}

// ConfigFile returns the path of the config file written by WriteDefault.
func ConfigFile() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// EnsureConfigDir creates the config directory if it doesn't exist.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return nil
}

// WriteDefault writes a default config file if none exists and reports
// whether it created one.
func WriteDefault() (bool, error) {
	if err := EnsureConfigDir(); err != nil {
		return false, err
	}

	configPath, err := ConfigFile()
	if err != nil {
		return false, err
	}

	if _, err := os.Stat(configPath); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("failed to check config file: %w", err)
	}

	defaultConfig := fmt.Sprintf(`# cookieslicer configuration

# Defaults for the scan command
scan:
  # Comma separated extension allow-list
  extensions: "%s"
  recurse: false

# Output format: plain, paths, null, json, yaml, pretty, template
# (empty means paths for scan and plain for merge)
output:
  format: ""
  # text/template used by the template format
  template: ""

# Journal of merge runs
journal:
  enabled: true
  path: %s
  retention_days: %d

# Logging configuration
logging:
  # Log level: debug, info, warn, error
  level: %s
  # Log file path (empty means use default: $XDG_STATE_HOME/cookieslicer/cookieslicer.log)
  path: ""
  rotation:
    max_size: %s
    max_backups: %d   # numbered copies kept as cookieslicer.log.1, .2, ...
  # Per-component log levels
  components:
    scanner: info
    merger: info
    journal: info
`, DefaultExtensions, JournalDir(), DefaultRetentionDays, DefaultLogLevel, DefaultMaxLogSize, DefaultMaxLogBackups)

	if err := os.WriteFile(configPath, []byte(defaultConfig), 0o644); err != nil {
		return false, fmt.Errorf("failed to write default config: %w", err)
	}

	return true, nil
}

// ExpandPath expands ~ in a path to the user's home directory.
func ExpandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, path[1:]), nil
}

// DataDir returns $XDG_DATA_HOME/cookieslicer/ for the merge journal.
func DataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// StateDir returns $XDG_STATE_HOME/cookieslicer/ for log files.
func StateDir() string {
	return filepath.Join(xdg.StateHome, AppName)
}

// JournalDir returns the default merge journal directory.
func JournalDir() string {
	return filepath.Join(DataDir(), "journal")
}

// DefaultLogPath returns the default log file path.
func DefaultLogPath() string {
	return filepath.Join(StateDir(), AppName+".log")
}

// EnsureDataDir creates the data directory if it doesn't exist.
func EnsureDataDir() error {
	if err := os.MkdirAll(DataDir(), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	return nil
}

// EnsureStateDir creates the state directory if it doesn't exist.
func EnsureStateDir() error {
	if err := os.MkdirAll(StateDir(), 0o755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}
	return nil
}
