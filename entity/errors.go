package entity

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a run failed.
type ErrorKind int

const (
	// ErrSourceUnavailable: the source file could not be opened or read.
	ErrSourceUnavailable ErrorKind = iota + 1

	// ErrDestinationUnavailable: the destination container could not be created.
	ErrDestinationUnavailable

	// ErrWriteFailed: writing the entry or sealing the container failed. A
	// partial destination file may remain.
	ErrWriteFailed

	// ErrInputReadFailed: a prompt line could not be read from the input.
	ErrInputReadFailed
)

func (k ErrorKind) String() string {
	switch k {
	case ErrSourceUnavailable:
		return "source unavailable"
	case ErrDestinationUnavailable:
		return "destination unavailable"
	case ErrWriteFailed:
		return "write failed"
	case ErrInputReadFailed:
		return "input read failed"
	default:
		return "unknown"
	}
}

type ArchiveError struct {
	Kind ErrorKind
	Path string
	Err  error
}

func NewArchiveError(kind ErrorKind, path string, err error) *ArchiveError {
	return &ArchiveError{Kind: kind, Path: path, Err: err}
}

func (e *ArchiveError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%v: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%v: %q: %v", e.Kind, e.Path, e.Err)
}

func (e *ArchiveError) Unwrap() error {
	return e.Err
}

// IsErrorKind reports whether err carries an ArchiveError of the given kind.
func IsErrorKind(err error, kind ErrorKind) bool {
	var ae *ArchiveError
	if errors.As(err, &ae) {
		return ae.Kind == kind
	}
	return false
}
