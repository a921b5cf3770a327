// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Storage errors.
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEntry = errors.New("duplicate entry")

	// Document errors.
	ErrUnsupportedFormat = errors.New("unsupported document format")
	ErrEmptyDocument     = errors.New("document contains no extractable text")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// ExtractionError indicates a document could not be converted into text.
// It is never retried automatically; the caller is expected to surface it
// with guidance to submit the document text manually.
type ExtractionError struct {
	Err  error
	Path string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("failed to extract text from %s: %v", e.Path, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// NewExtractionError wraps an underlying extraction failure for a document.
func NewExtractionError(path string, err error) error {
	return &ExtractionError{Path: path, Err: err}
}

// PatternError indicates a catalogue pattern failed to compile. This is a
// configuration defect, not a runtime condition: it is fatal at startup.
type PatternError struct {
	Err   error
	Field string
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("malformed pattern for field %q: %v", e.Field, e.Err)
}

func (e *PatternError) Unwrap() error {
	return e.Err
}

// StoreWriteError indicates a persistence commit failed. The completed
// in-memory analysis is still returned alongside it so the caller does not
// lose a finished audit; the record must be reported as unsaved.
type StoreWriteError struct {
	Err error
	Op  string
}

func (e *StoreWriteError) Error() string {
	return fmt.Sprintf("store write failed during %s: %v", e.Op, e.Err)
}

func (e *StoreWriteError) Unwrap() error {
	return e.Err
}

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}
