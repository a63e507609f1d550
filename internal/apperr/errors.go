// Package apperr defines the error taxonomy shared by the core and its callers.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrValidation = errors.New("validation failed")
	ErrFatalParse = errors.New("fatal parse error")
)

// ValidationError reports a raw input that is missing, non-numeric or out of range.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Unwrap lets callers match with errors.Is(err, ErrValidation).
func (e *ValidationError) Unwrap() error { return ErrValidation }

// ParseError reports a document defect that makes import impossible.
type ParseError struct {
	Field  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %s", e.Field, e.Reason)
}

// Unwrap lets callers match with errors.Is(err, ErrFatalParse).
func (e *ParseError) Unwrap() error { return ErrFatalParse }
