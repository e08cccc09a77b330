// Package errors provides custom error types for the shelf system.
// These errors enable programmatic error checking with errors.Is and errors.As
// and carry enough context to surface a useful message to the caller.
//
// None of the errors in this package are fatal: every condition is recoverable
// to the last known good local state.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Is reports whether any error in err's tree matches target.
var Is = errors.Is

// As finds the first error in err's tree that matches target.
var As = errors.As

// Common sentinel errors for the shelf system
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates that a resource already exists
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrSourceUnavailable indicates the remote catalog could not be fetched
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrCorruptOverlay indicates a stored overlay blob could not be decoded
	ErrCorruptOverlay = errors.New("corrupt overlay")

	// ErrInvalidEditValue indicates an edit was rejected at the edit boundary
	ErrInvalidEditValue = errors.New("invalid edit value")

	// ErrOrderMembershipMismatch indicates a reorder tried to add or drop members
	ErrOrderMembershipMismatch = errors.New("order/membership mismatch")

	// ErrRemoteWriteFailure indicates a best-effort remote write was dropped
	ErrRemoteWriteFailure = errors.New("remote write failure")

	// ErrStale indicates a result was superseded by a newer request
	ErrStale = errors.New("stale result")

	// ErrClosed indicates an operation on a closed component
	ErrClosed = errors.New("closed")
)

// NotFoundError represents an error when a resource is not found
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   any
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

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// SourceUnavailableError is returned when a catalog fetch fails or times out.
// The previously rendered view is retained and flagged as degraded.
type SourceUnavailableError struct {
	Source string
	Err    error
}

// Error implements the error interface
func (e *SourceUnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("source %s unavailable: %v", e.Source, e.Err)
	}
	return fmt.Sprintf("source %s unavailable", e.Source)
}

// Unwrap implements errors.Unwrap
func (e *SourceUnavailableError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *SourceUnavailableError) Is(target error) bool {
	return target == ErrSourceUnavailable
}

// NewSourceUnavailableError creates a new SourceUnavailableError
func NewSourceUnavailableError(source string, err error) *SourceUnavailableError {
	return &SourceUnavailableError{Source: source, Err: err}
}

// CorruptOverlayError is reported when a persisted overlay blob cannot be decoded.
// The overlay is reset to an empty area and the blob is overwritten on next save.
type CorruptOverlayError struct {
	Key     string
	Version int
	Err     error
}

// Error implements the error interface
func (e *CorruptOverlayError) Error() string {
	if e.Version != 0 {
		return fmt.Sprintf("overlay %s has unsupported version %d", e.Key, e.Version)
	}
	return fmt.Sprintf("overlay %s is corrupt: %v", e.Key, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *CorruptOverlayError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *CorruptOverlayError) Is(target error) bool {
	return target == ErrCorruptOverlay
}

// InvalidEditValueError is returned when an edit is rejected before it touches the overlay.
type InvalidEditValueError struct {
	Field   string
	Value   string
	Message string
}

// Error implements the error interface
func (e *InvalidEditValueError) Error() string {
	return fmt.Sprintf("invalid value %q for %s: %s", e.Value, e.Field, e.Message)
}

// Is implements errors.Is support
func (e *InvalidEditValueError) Is(target error) bool {
	return target == ErrInvalidEditValue || target == ErrInvalidInput
}

// NewInvalidEditValueError creates a new InvalidEditValueError
func NewInvalidEditValueError(field, value, message string) *InvalidEditValueError {
	return &InvalidEditValueError{Field: field, Value: value, Message: message}
}

// OrderMembershipMismatchError is returned when a new order does not hold exactly
// the current members.
type OrderMembershipMismatchError struct {
	Missing    []string
	Unexpected []string
	Duplicates []string
}

// Error implements the error interface
func (e *OrderMembershipMismatchError) Error() string {
	return fmt.Sprintf("order/membership mismatch (missing: %v, unexpected: %v, duplicates: %v)",
		e.Missing, e.Unexpected, e.Duplicates)
}

// Is implements errors.Is support
func (e *OrderMembershipMismatchError) Is(target error) bool {
	return target == ErrOrderMembershipMismatch
}

// RemoteWriteFailureError describes a dropped best-effort remote write.
type RemoteWriteFailureError struct {
	Action   string
	ItemID   string
	ActionID string
	Err      error
}

// Error implements the error interface
func (e *RemoteWriteFailureError) Error() string {
	return fmt.Sprintf("remote %s of item %s failed: %v", e.Action, e.ItemID, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *RemoteWriteFailureError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *RemoteWriteFailureError) Is(target error) bool {
	return target == ErrRemoteWriteFailure
}

// APIError represents an error response from a remote endpoint
type APIError struct {
	Endpoint   string
	StatusCode int
	Message    string
	Err        error
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("API error from %s (status %d): %s", e.Endpoint, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error from %s: %s", e.Endpoint, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *APIError) Unwrap() error {
	return e.Err
}

// NewAPIError creates a new APIError
func NewAPIError(endpoint string, statusCode int, message string) *APIError {
	return &APIError{
		Endpoint:   endpoint,
		StatusCode: statusCode,
		Message:    message,
	}
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{
		Component: component,
		Message:   message,
		Err:       err,
	}
}

// ParseError represents an error when parsing data formats
type ParseError struct {
	Format  string // "json", "yaml"
	File    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
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
func NewParseError(format, file string, message string, err error) *ParseError {
	return &ParseError{
		Format:  format,
		File:    file,
		Message: message,
		Err:     err,
	}
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "open", "close"
	Path      string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError
func NewIOError(operation, path string, err error) *IOError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &IOError{
		Operation: operation,
		Path:      path,
		Message:   message,
		Err:       err,
	}
}

// ResourceError represents an error during resource operations
type ResourceError struct {
	Operation string // "create", "update", "delete", "fetch"
	Resource  string // "overlay", "item", "source"
	ID        string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ResourceError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("failed to %s %s %s: %s", e.Operation, e.Resource, e.ID, e.Message)
	}
	return fmt.Sprintf("failed to %s %s: %s", e.Operation, e.Resource, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ResourceError) Unwrap() error {
	return e.Err
}

// NewResourceError creates a new ResourceError
func NewResourceError(operation, resource, id string, err error) *ResourceError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ResourceError{
		Operation: operation,
		Resource:  resource,
		ID:        id,
		Message:   message,
		Err:       err,
	}
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsSourceUnavailable checks if an error reports an unavailable catalog source
func IsSourceUnavailable(err error) bool {
	return errors.Is(err, ErrSourceUnavailable)
}

// IsCorruptOverlay checks if an error reports a corrupt overlay blob
func IsCorruptOverlay(err error) bool {
	return errors.Is(err, ErrCorruptOverlay)
}

// IsInvalidEditValue checks if an error reports a rejected edit
func IsInvalidEditValue(err error) bool {
	return errors.Is(err, ErrInvalidEditValue)
}

// IsOrderMembershipMismatch checks if an error reports a rejected reorder
func IsOrderMembershipMismatch(err error) bool {
	return errors.Is(err, ErrOrderMembershipMismatch)
}

// IsRemoteWriteFailure checks if an error reports a dropped remote write
func IsRemoteWriteFailure(err error) bool {
	return errors.Is(err, ErrRemoteWriteFailure)
}

// Helper wrapping functions for common patterns

// WrapValidation wraps an error as a ValidationError
func WrapValidation(field string, err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Field: field, Message: err.Error()}
}

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapResource wraps an error as a ResourceError
func WrapResource(operation, resource, id string, err error) error {
	if err == nil {
		return nil
	}
	return NewResourceError(operation, resource, id, err)
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}

// WrapSource wraps an error as a SourceUnavailableError
func WrapSource(source string, err error) error {
	if err == nil {
		return nil
	}
	return NewSourceUnavailableError(source, err)
}
