package errors

import (
	"fmt"
	"time"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
	// ErrorTypeInput represents errors reading the log source
	ErrorTypeInput ErrorType = "input"
	// ErrorTypeParse represents chat log parsing errors
	ErrorTypeParse ErrorType = "parse"
	// ErrorTypeEmit represents graph emission errors
	ErrorTypeEmit ErrorType = "emit"
)

// BaseError is the base error type with common fields
type BaseError struct {
	Type      ErrorType
	Message   string
	Timestamp time.Time
	Err       error // Wrapped error
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error for error unwrapping
func (e *BaseError) Unwrap() error {
	return e.Err
}

// Category returns the error's type category. Promoted through embedding,
// so every typed error in this package exposes it.
func (e *BaseError) Category() ErrorType {
	return e.Type
}

// NewBaseError creates a new base error
func NewBaseError(errType ErrorType, message string, err error) *BaseError {
	return &BaseError{
		Type:      errType,
		Message:   message,
		Timestamp: time.Now(),
		Err:       err,
	}
}

// Input Errors

// ErrInputDirUnreadable is returned when the log directory cannot be read
type ErrInputDirUnreadable struct {
	*BaseError
	Dir string
}

func NewInputDirUnreadable(dir string, err error) *ErrInputDirUnreadable {
	return &ErrInputDirUnreadable{
		BaseError: NewBaseError(ErrorTypeInput, fmt.Sprintf("failed to read log directory: %s", dir), err),
		Dir:       dir,
	}
}

// ErrNoLogsFound is returned when the log directory contains no parsable files
type ErrNoLogsFound struct {
	*BaseError
	Dir string
}

func NewNoLogsFound(dir string) *ErrNoLogsFound {
	return &ErrNoLogsFound{
		BaseError: NewBaseError(ErrorTypeInput, fmt.Sprintf("no chat logs found in: %s", dir), nil),
		Dir:       dir,
	}
}

// Parse Errors

// ErrLogParseFailed is returned when a single chat log file cannot be parsed
type ErrLogParseFailed struct {
	*BaseError
	File string
}

func NewLogParseFailed(file string, err error) *ErrLogParseFailed {
	return &ErrLogParseFailed{
		BaseError: NewBaseError(ErrorTypeParse, fmt.Sprintf("failed to parse chat log: %s", file), err),
		File:      file,
	}
}

// Config Errors

// ErrConfigMissingRequired is returned when a required config value is missing
type ErrConfigMissingRequired struct {
	*BaseError
	Field string
}

func NewConfigMissingRequired(field string) *ErrConfigMissingRequired {
	return &ErrConfigMissingRequired{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("missing required config: %s", field), nil),
		Field:     field,
	}
}

// Emit Errors

// ErrEmitFailed is returned when writing the graph description fails
type ErrEmitFailed struct {
	*BaseError
}

func NewEmitFailed(err error) *ErrEmitFailed {
	return &ErrEmitFailed{
		BaseError: NewBaseError(ErrorTypeEmit, "failed to write graph description", err),
	}
}

// Helper functions

// IsErrorType checks if an error is of a specific type
func IsErrorType(err error, errType ErrorType) bool {
	if typed, ok := err.(interface{ Category() ErrorType }); ok {
		return typed.Category() == errType
	}
	// Check wrapped errors
	if wrapped, ok := err.(interface{ Unwrap() error }); ok {
		if inner := wrapped.Unwrap(); inner != nil {
			return IsErrorType(inner, errType)
		}
	}
	return false
}
