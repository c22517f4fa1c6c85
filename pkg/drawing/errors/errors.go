// Package errors provides error codes and the error type returned by drawing
// sessions and the purge pipeline. It is a leaf package so that session
// backends and the core can both import it without cycles.
//
// Import graph: errors <- drawing <- {memory, snapshot, acad} <- purge
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode classifies a drawing error.
type ErrorCode int

const (
	// ErrSessionUnavailable indicates the CAD session cannot be reached at all.
	// This is the only fatal code: callers abort the run with no partial results.
	ErrSessionUnavailable ErrorCode = iota + 1

	// ErrEnumerationFailed indicates a single enumeration pass (block table or
	// model space) failed. The pass yields an empty result.
	ErrEnumerationFailed

	// ErrNotFound indicates a block definition lookup by name found nothing.
	ErrNotFound

	// ErrCommandFailed indicates the native purge command was rejected or errored.
	ErrCommandFailed

	// ErrInvalidDrawing indicates a drawing export could not be decoded.
	ErrInvalidDrawing
)

// String returns a human-readable name for the error code.
func (c ErrorCode) String() string {
	switch c {
	case ErrSessionUnavailable:
		return "SessionUnavailable"
	case ErrEnumerationFailed:
		return "EnumerationFailed"
	case ErrNotFound:
		return "NotFound"
	case ErrCommandFailed:
		return "CommandFailed"
	case ErrInvalidDrawing:
		return "InvalidDrawing"
	default:
		return fmt.Sprintf("Unknown(%d)", c)
	}
}

// Error is the error type returned by drawing sessions.
type Error struct {
	// Code classifies the failure.
	Code ErrorCode

	// Name is the block name or enumeration target the error refers to.
	Name string

	// Message is a human-readable description.
	Message string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Code.String()
	}
	if e.Name != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Name)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewSessionUnavailableError creates an Error for an unreachable session.
func NewSessionUnavailableError(cause error) *Error {
	return &Error{
		Code:    ErrSessionUnavailable,
		Message: "drawing session unavailable",
		Err:     cause,
	}
}

// NewEnumerationError creates an Error for a failed enumeration pass.
// target names the collection being enumerated ("blocks", "model space").
func NewEnumerationError(target string, cause error) *Error {
	return &Error{
		Code:    ErrEnumerationFailed,
		Name:    target,
		Message: "enumeration failed",
		Err:     cause,
	}
}

// NewNotFoundError creates an Error for a missing block definition.
func NewNotFoundError(name string) *Error {
	return &Error{
		Code:    ErrNotFound,
		Name:    name,
		Message: "block definition not found",
	}
}

// NewCommandError creates an Error for a rejected purge command.
func NewCommandError(name string, cause error) *Error {
	return &Error{
		Code:    ErrCommandFailed,
		Name:    name,
		Message: "purge command failed",
		Err:     cause,
	}
}

// NewInvalidDrawingError creates an Error for an undecodable drawing export.
func NewInvalidDrawingError(path string, cause error) *Error {
	return &Error{
		Code:    ErrInvalidDrawing,
		Name:    path,
		Message: "invalid drawing export",
		Err:     cause,
	}
}

// CodeOf returns the ErrorCode carried by err, or 0 when err is not an *Error.
func CodeOf(err error) ErrorCode {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return 0
}

// IsSessionUnavailable reports whether err carries ErrSessionUnavailable.
func IsSessionUnavailable(err error) bool {
	return CodeOf(err) == ErrSessionUnavailable
}

// IsEnumerationError reports whether err carries ErrEnumerationFailed.
func IsEnumerationError(err error) bool {
	return CodeOf(err) == ErrEnumerationFailed
}

// IsNotFound reports whether err carries ErrNotFound.
func IsNotFound(err error) bool {
	return CodeOf(err) == ErrNotFound
}

// IsCommandError reports whether err carries ErrCommandFailed.
func IsCommandError(err error) bool {
	return CodeOf(err) == ErrCommandFailed
}
