package scanner

import (
	"errors"
	"fmt"
)

// Sentinel errors for the scan error taxonomy. Use errors.Is to test for them;
// the concrete error returned by a scan is always an *ExtensionError or a
// *ScanError.
var (
	// ErrInvalidExtension indicates a malformed extension specification.
	ErrInvalidExtension = errors.New("invalid extension")

	// ErrPathNotFound indicates a named root that does not exist and is not a glob.
	ErrPathNotFound = errors.New("path not found")

	// ErrFileNotValid indicates a directly named file outside the extension allow-list.
	ErrFileNotValid = errors.New("file not valid")

	// ErrGlobNoMatch indicates a glob pattern that matched no files.
	ErrGlobNoMatch = errors.New("glob did not match")
)

// ExtensionError describes a single rejected extension token.
type ExtensionError struct {
	// Extension is the offending token after whitespace trimming.
	Extension string
}

// Error implements error.
func (e *ExtensionError) Error() string {
	return fmt.Sprintf("Extension '%s' is not a valid extension: Extension '%s' must start with a period.",
		e.Extension, e.Extension)
}

// Unwrap returns ErrInvalidExtension.
func (e *ExtensionError) Unwrap() error {
	return ErrInvalidExtension
}

// ScanError is the single error surfaced when resolving a root fails.
// Err is one of the sentinels above or an unclassified I/O error.
type ScanError struct {
	// Root is the user supplied path, glob, or directory that failed.
	Root string

	// Err is the underlying cause.
	Err error
}

// Error implements error. The messages for the classified causes are part of
// the command line contract and must not change.
func (e *ScanError) Error() string {
	switch {
	case errors.Is(e.Err, ErrPathNotFound):
		return fmt.Sprintf("Provided path '%s' does not exist.", e.Root)
	case errors.Is(e.Err, ErrFileNotValid):
		return fmt.Sprintf("Provided path '%s' is not a valid file.", e.Root)
	case errors.Is(e.Err, ErrGlobNoMatch):
		return fmt.Sprintf("Provided glob path '%s' did not match any files.", e.Root)
	default:
		return fmt.Sprintf("Provided path '%s' could not be scanned: %v", e.Root, e.Err)
	}
}

// Unwrap returns the underlying cause.
func (e *ScanError) Unwrap() error {
	return e.Err
}
