// Package logging provides per-component loggers for cookieslicer. Records
// go to a rotating log file; a console copy on stderr is opt-in so it never
// mixes with command output on stdout.
//
// Package level loggers can be taken before Init and start writing once it
// runs:
//
//	var logger = logging.Get("merger")
//
//	if err := logging.Init(logging.Config{Level: "info"}); err != nil {
//	    return err
//	}
//	defer logging.Close()
//	logger.Info("merge started", "source", "/src")
package logging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/log"
)

// ErrInvalidLevel is returned for a level name that is not debug, info,
// warn (or warning) or error.
var ErrInvalidLevel = errors.New("invalid log level")

// ParseLevel converts a level name, ignoring case, into a log.Level.
func ParseLevel(s string) (log.Level, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "warning" {
		name = "warn"
	}
	level, err := log.ParseLevel(name)
	if err != nil || level == log.FatalLevel {
		return log.InfoLevel, fmt.Errorf("%w: %s", ErrInvalidLevel, s)
	}
	return level, nil
}

// Config configures Init.
type Config struct {
	// Level applies to every component without an entry in Components.
	Level string

	// Path is the log file. Empty means DefaultLogPath().
	Path string

	Rotation RotationConfig

	// Components overrides Level per component name.
	Components map[string]string

	// ConsoleLevel enables a copy of records at or above it on Console.
	// Empty disables the console.
	ConsoleLevel string

	// Console defaults to os.Stderr.
	Console io.Writer
}

// Logger writes records tagged with its component.
type Logger struct {
	component string

	// pinned is set by With. Such loggers keep the outputs they were
	// created with instead of following Init.
	pinned []*log.Logger
}

// Debug logs at debug level.
func (l *Logger) Debug(msg string, args ...any) { l.emit(log.DebugLevel, msg, args) }

// Info logs at info level.
func (l *Logger) Info(msg string, args ...any) { l.emit(log.InfoLevel, msg, args) }

// Warn logs at warn level.
func (l *Logger) Warn(msg string, args ...any) { l.emit(log.WarnLevel, msg, args) }

// Error logs at error level.
func (l *Logger) Error(msg string, args ...any) { l.emit(log.ErrorLevel, msg, args) }

// With returns a logger that adds args to every record.
func (l *Logger) With(args ...any) *Logger {
	outputs := l.outputs()
	pinned := make([]*log.Logger, len(outputs))
	for i, out := range outputs {
		pinned[i] = out.With(args...)
	}
	return &Logger{component: l.component, pinned: pinned}
}

func (l *Logger) emit(level log.Level, msg string, args []any) {
	for _, out := range l.outputs() {
		out.Log(level, msg, args...)
	}
}

func (l *Logger) outputs() []*log.Logger {
	if l.pinned != nil {
		return l.pinned
	}
	return registry.outputsFor(l.component)
}

// sinks holds what Init configured. The zero value discards everything.
type sinks struct {
	mu sync.RWMutex

	writer     *RotatingWriter
	level      log.Level
	components map[string]log.Level
	console    io.Writer // nil when disabled
	consoleLvl log.Level

	// outputs caches the charm loggers built for each component since the
	// last Init.
	outputs map[string][]*log.Logger
	loggers map[string]*Logger
}

var registry = &sinks{loggers: make(map[string]*Logger)}

// outputsFor returns the charm loggers records of component go to.
func (s *sinks) outputsFor(component string) []*log.Logger {
	s.mu.RLock()
	outs, ok := s.outputs[component]
	ready := s.writer != nil
	s.mu.RUnlock()
	if ok || !ready {
		return outs
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writer == nil {
		return nil
	}
	if outs, ok := s.outputs[component]; ok {
		return outs
	}

	level, ok := s.components[component]
	if !ok {
		level = s.level
	}
	outs = []*log.Logger{log.NewWithOptions(s.writer, log.Options{
		Level:           level,
		Prefix:          component,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
	})}
	if s.console != nil {
		outs = append(outs, log.NewWithOptions(s.console, log.Options{
			Level:           s.consoleLvl,
			Prefix:          component,
			ReportTimestamp: true,
			TimeFormat:      time.TimeOnly,
		}))
	}
	s.outputs[component] = outs
	return outs
}

// Init opens the log file and routes every logger to it, replacing any
// earlier configuration. On error the previous configuration stays active.
func Init(cfg Config) error {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("parsing log level: %w", err)
	}

	components := make(map[string]log.Level, len(cfg.Components))
	for name, value := range cfg.Components {
		if components[name], err = ParseLevel(value); err != nil {
			return fmt.Errorf("parsing level for component %s: %w", name, err)
		}
	}

	var console io.Writer
	consoleLvl := log.InfoLevel
	if cfg.ConsoleLevel != "" {
		if consoleLvl, err = ParseLevel(cfg.ConsoleLevel); err != nil {
			return fmt.Errorf("parsing console level: %w", err)
		}
		console = cfg.Console
		if console == nil {
			console = os.Stderr
		}
	}

	path := cfg.Path
	if path == "" {
		path = DefaultLogPath()
	}
	writer, err := NewRotatingWriter(path, cfg.Rotation)
	if err != nil {
		return fmt.Errorf("creating log writer: %w", err)
	}

	registry.mu.Lock()
	defer registry.mu.Unlock()

	if registry.writer != nil {
		if err := registry.writer.Close(); err != nil {
			_ = writer.Close()
			return fmt.Errorf("closing existing writer: %w", err)
		}
	}

	registry.writer = writer
	registry.level = level
	registry.components = components
	registry.console = console
	registry.consoleLvl = consoleLvl
	registry.outputs = make(map[string][]*log.Logger)
	return nil
}

// Get returns the logger for component, creating it on first use. The same
// pointer is returned for every call with the same name.
func Get(component string) *Logger {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	logger, ok := registry.loggers[component]
	if !ok {
		logger = &Logger{component: component}
		registry.loggers[component] = logger
	}
	return logger
}

// Close flushes and closes the log file. Loggers discard records until the
// next Init.
func Close() error {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	writer := registry.writer
	registry.writer = nil
	registry.outputs = nil
	registry.console = nil
	registry.components = nil

	if writer == nil {
		return nil
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("closing log writer: %w", err)
	}
	return nil
}

// DefaultLogPath returns $XDG_STATE_HOME/cookieslicer/cookieslicer.log.
func DefaultLogPath() string {
	return filepath.Join(xdg.StateHome, "cookieslicer", "cookieslicer.log")
}
