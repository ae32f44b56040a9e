// Package errors provides custom error types for the bidsmerge system.
// These errors enable programmatic error checking and carry enough
// context to identify the sidecar artifact that caused a failure.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Common sentinel errors for the bidsmerge system
var (
	// ErrMissingFile indicates a required sidecar file does not exist
	ErrMissingFile = errors.New("missing file")

	// ErrSchemaMismatch indicates a loaded table lacks an expected column
	// or has a shape the requested merge cannot work with
	ErrSchemaMismatch = errors.New("schema mismatch")

	// ErrCapabilityUnavailable indicates a merge was requested that the
	// environment cannot perform (e.g. mark handling not present)
	ErrCapabilityUnavailable = errors.New("capability unavailable")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")
)

// MissingFileError reports a required sidecar that does not exist on disk.
type MissingFileError struct {
	Kind string // "electrodes", "events", "ica weights", "annotation companion", ...
	Path string
}

// Error implements the error interface
func (e *MissingFileError) Error() string {
	if e.Kind != "" {
		return fmt.Sprintf("%s file %s does not exist", e.Kind, e.Path)
	}
	return fmt.Sprintf("file %s does not exist", e.Path)
}

// Is implements errors.Is support
func (e *MissingFileError) Is(target error) bool {
	return target == ErrMissingFile
}

// NewMissingFileError creates a new MissingFileError
func NewMissingFileError(kind, path string) *MissingFileError {
	return &MissingFileError{Kind: kind, Path: path}
}

// SchemaError reports a table whose columns or dimensions do not match
// what the requested merge needs. Downstream indexing by column name is
// meaningless once this fires, so it is always fatal.
type SchemaError struct {
	Table   string // path or kind of the offending table
	Column  string // missing/offending column, if column-level
	Message string
}

// Error implements the error interface
func (e *SchemaError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("table %s: missing column %q: %s", e.Table, e.Column, e.Message)
	}
	return fmt.Sprintf("table %s: %s", e.Table, e.Message)
}

// Is implements errors.Is support
func (e *SchemaError) Is(target error) bool {
	return target == ErrSchemaMismatch
}

// NewSchemaError creates a new SchemaError
func NewSchemaError(table, column, message string) *SchemaError {
	return &SchemaError{Table: table, Column: column, Message: message}
}

// CapabilityError reports a requested merge the environment cannot perform.
type CapabilityError struct {
	Capability string
	Message    string
}

// Error implements the error interface
func (e *CapabilityError) Error() string {
	return fmt.Sprintf("capability %s unavailable: %s", e.Capability, e.Message)
}

// Is implements errors.Is support
func (e *CapabilityError) Is(target error) bool {
	return target == ErrCapabilityUnavailable
}

// NewCapabilityError creates a new CapabilityError
func NewCapabilityError(capability, message string) *CapabilityError {
	return &CapabilityError{Capability: capability, Message: message}
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// ParseError represents an error when parsing a sidecar file
type ParseError struct {
	Format  string // "tsv", "json", "matrix", "mrk"
	File    string
	Line    int
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" && e.Line > 0 {
		return fmt.Sprintf("parse error in %s at %s:%d: %s", e.Format, e.File, e.Line, e.Message)
	}
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(format, file, message string, err error) *ParseError {
	return &ParseError{Format: format, File: file, Message: message, Err: err}
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "open", "map", "close"
	Path      string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("IO error during %s: %v", e.Operation, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError
func NewIOError(operation, path string, err error) *IOError {
	return &IOError{Operation: operation, Path: path, Err: err}
}

// Helper functions for error checking

// IsMissingFile checks if an error reports a missing sidecar file
func IsMissingFile(err error) bool {
	return errors.Is(err, ErrMissingFile)
}

// IsSchemaMismatch checks if an error reports a table schema mismatch
func IsSchemaMismatch(err error) bool {
	return errors.Is(err, ErrSchemaMismatch)
}

// IsCapabilityUnavailable checks if an error reports a missing capability
func IsCapabilityUnavailable(err error) bool {
	return errors.Is(err, ErrCapabilityUnavailable)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// Helper wrapping functions for common patterns

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}
