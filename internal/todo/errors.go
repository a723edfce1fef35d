package todo

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrCorrupt matches any *CorruptError.
	ErrCorrupt = errors.New("data file is corrupt")
	// ErrStorage matches any *StorageError.
	ErrStorage = errors.New("storage failure")
)

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path string // Dotted path to the error location
	Err  error  // Underlying error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// CorruptError reports a data file that exists but cannot be trusted.
// The file is left untouched.
type CorruptError struct {
	Path     string
	Err      error   // Parse error, if the content is not JSON
	Problems []error // Schema or invariant violations
}

func (e *CorruptError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", ErrCorrupt, e.Path)
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	for i, p := range e.Problems {
		if i == 0 && e.Err == nil {
			b.WriteString(": ")
		} else {
			b.WriteString("; ")
		}
		b.WriteString(p.Error())
	}
	return b.String()
}

// Unwrap returns the underlying parse error, if any.
func (e *CorruptError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrCorrupt.
func (e *CorruptError) Is(target error) bool {
	return target == ErrCorrupt
}

// StorageError reports a failed read or write of the data directory.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying I/O error.
func (e *StorageError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrStorage.
func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}
