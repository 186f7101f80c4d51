// Package errors defines the error taxonomy shared by sources, the snapshot
// engine, storage and the HTTP layer.
package errors

import (
	"errors"
	"fmt"
	"io/fs"
)

var (
	// Source errors
	ErrSourceUnavailable   = errors.New("source unavailable")
	ErrMalformedData       = errors.New("malformed data")
	ErrUnsupportedPlatform = errors.New("unsupported platform")

	// Sampling errors
	ErrMeasurement = errors.New("measurement error")
	ErrCancelled   = errors.New("sampling cancelled")

	// Common errors
	ErrMetricNotFound  = errors.New("metric not found")
	ErrUnknownCategory = errors.New("unknown category")
	ErrNotCached       = errors.New("category is sampled, not cached")

	// Storage errors
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// SourceError describes why a source could not produce its record. Kind is
// one of ErrSourceUnavailable, ErrMalformedData or ErrUnsupportedPlatform, so
// callers match with errors.Is against the kind as well as the cause.
type SourceError struct {
	Source string
	Path   string
	Kind   error
	Err    error
}

func (e *SourceError) Error() string {
	msg := e.Source
	if e.Path != "" {
		msg += " " + e.Path
	}
	msg += ": " + e.Kind.Error()
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *SourceError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Unavailable wraps an I/O failure reading path.
func Unavailable(source, path string, err error) error {
	return &SourceError{Source: source, Path: path, Kind: ErrSourceUnavailable, Err: err}
}

// Malformed reports content at path that does not match the expected layout.
func Malformed(source, path string, format string, args ...any) error {
	return &SourceError{Source: source, Path: path, Kind: ErrMalformedData, Err: fmt.Errorf(format, args...)}
}

// Unsupported reports a platform or architecture the source cannot serve.
func Unsupported(source, what string) error {
	return &SourceError{Source: source, Kind: ErrUnsupportedPlatform, Err: errors.New(what)}
}

// IsNotExist reports whether err is a missing-file condition from any source.
func IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

// IsCancelled reports whether err ended a sample early.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled)
}
