package logging

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/gofrs/flock"
)

// Rotation defaults.
const (
	DefaultMaxSize    int64 = 10 * 1024 * 1024
	DefaultMaxBackups       = 5
)

// RotationConfig bounds the size of the log file and how many rotated
// copies survive.
type RotationConfig struct {
	// MaxSize is the size in bytes a write may not push the file past.
	// Zero or less means DefaultMaxSize.
	MaxSize int64

	// MaxBackups is the number of numbered copies (name.log.1 being the
	// newest) kept after rotation. Zero or less keeps none.
	MaxBackups int
}

// ErrInvalidSize indicates a rotation size that could not be parsed.
var ErrInvalidSize = errors.New("invalid size")

// ParseSize parses a human readable size such as "10MiB" or "5MB".
// SI suffixes are powers of 1000, IEC suffixes powers of 1024.
func ParseSize(s string) (int64, error) {
	n, err := humanize.ParseBytes(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}
	return int64(n), nil
}

// RotatingWriter appends to a log file and shifts it to numbered backups
// once a write would exceed MaxSize. Writes and rotations hold an advisory
// lock on path+".lock" so concurrent cookieslicer processes can share a log.
type RotatingWriter struct {
	mu   sync.Mutex
	path string
	cfg  RotationConfig
	lock *flock.Flock
	file *os.File
	size int64
}

// NewRotatingWriter opens path for appending, creating parent directories
// as needed.
func NewRotatingWriter(path string, cfg RotationConfig) (*RotatingWriter, error) {
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = DefaultMaxSize
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}

	w := &RotatingWriter{path: path, cfg: cfg, lock: flock.New(path + ".lock")}
	if err := w.open(); err != nil {
		return nil, err
	}
	return w, nil
}

// Write implements io.Writer.
func (w *RotatingWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return 0, os.ErrClosed
	}

	if err := w.lock.Lock(); err != nil {
		return 0, fmt.Errorf("acquiring file lock: %w", err)
	}
	defer func() { _ = w.lock.Unlock() }()

	if w.size > 0 && w.size+int64(len(p)) > w.cfg.MaxSize {
		if err := w.rotate(); err != nil {
			return 0, fmt.Errorf("rotating log file: %w", err)
		}
	}

	n, err := w.file.Write(p)
	w.size += int64(n)
	if err != nil {
		return n, fmt.Errorf("writing to log file: %w", err)
	}
	return n, nil
}

// Close syncs and closes the file. Closing twice is a no-op.
func (w *RotatingWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return nil
	}
	defer func() { _ = w.lock.Close() }()

	syncErr := w.file.Sync()
	closeErr := w.file.Close()
	w.file = nil
	return errors.Join(syncErr, closeErr)
}

func (w *RotatingWriter) open() error {
	file, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	info, err := file.Stat()
	if err != nil {
		return errors.Join(fmt.Errorf("stat log file: %w", err), file.Close())
	}
	w.file, w.size = file, info.Size()
	return nil
}

// backup returns the name of the n-th rotated copy.
func (w *RotatingWriter) backup(n int) string {
	return w.path + "." + strconv.Itoa(n)
}

// rotate shifts name.log.N to name.log.N+1, dropping the oldest, moves the
// current file to name.log.1 and reopens an empty file. Must be called with
// mu and the file lock held.
func (w *RotatingWriter) rotate() error {
	if err := w.file.Close(); err != nil {
		return fmt.Errorf("closing current file: %w", err)
	}
	w.file = nil

	if w.cfg.MaxBackups > 0 {
		if err := removeIfExists(w.backup(w.cfg.MaxBackups)); err != nil {
			return err
		}
		for n := w.cfg.MaxBackups - 1; n >= 1; n-- {
			if err := renameIfExists(w.backup(n), w.backup(n+1)); err != nil {
				return err
			}
		}
		if err := renameIfExists(w.path, w.backup(1)); err != nil {
			return err
		}
	} else if err := removeIfExists(w.path); err != nil {
		return err
	}

	return w.open()
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing %s: %w", path, err)
	}
	return nil
}

func renameIfExists(from, to string) error {
	if err := os.Rename(from, to); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("renaming %s: %w", from, err)
	}
	return nil
}
