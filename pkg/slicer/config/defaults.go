// Package config provides configuration management for cookieslicer.
package config

// AppName names the XDG subdirectories and the environment prefix.
const AppName = "cookieslicer"

// EnvPrefix prefixes environment overrides (e.g. COOKIESLICER_SCAN_EXTENSIONS).
const EnvPrefix = "COOKIESLICER"

// Default configuration values for cookieslicer.
const (
	// DefaultExtensions is the extension allow-list used by scan.
	DefaultExtensions = ".md"

	// DefaultRetentionDays is the default number of days to retain journal entries.
	DefaultRetentionDays = 30

	// DefaultLogLevel is the default file log level.
	DefaultLogLevel = "info"

	// DefaultMaxLogSize is the default rotation size of the log file.
	DefaultMaxLogSize = "10MiB"

	// DefaultMaxLogBackups is how many rotated log files are kept.
	DefaultMaxLogBackups = 5
)

// DefaultComponents holds the default per-component log levels.
var DefaultComponents = map[string]string{
	"scanner": "info",
	"merger":  "info",
	"journal": "info",
}
