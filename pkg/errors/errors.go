// Package errors provides typed errors for gptizer
package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the category of error
type ErrorType int

const (
	// ErrInvalidConfiguration indicates a bad capacity, mode, path or config file
	ErrInvalidConfiguration ErrorType = iota
	// ErrTokenization indicates the token counter could not count a text
	ErrTokenization
	// ErrFilesystem indicates listing or reading source files failed
	ErrFilesystem
	// ErrWrite indicates persisting an output bundle failed
	ErrWrite
	// ErrTree indicates the directory tree could not be rendered
	ErrTree
)

// GptizerError is the base error type for all gptizer errors
type GptizerError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error returns the error message
func (e *GptizerError) Error() string {
	msg := e.Message
	if path, ok := e.Context["path"]; ok {
		msg = fmt.Sprintf("%s (%v)", msg, path)
	}
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", errorTypeString(e.Type), msg, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", errorTypeString(e.Type), msg)
}

// Unwrap returns the underlying cause
func (e *GptizerError) Unwrap() error {
	return e.Cause
}

// New creates a new GptizerError
func New(errType ErrorType, message string, cause error) *GptizerError {
	return &GptizerError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// WithContext adds context to the error
func (e *GptizerError) WithContext(key string, value interface{}) *GptizerError {
	e.Context[key] = value
	return e
}

// WithPath records the file the error refers to
func (e *GptizerError) WithPath(path string) *GptizerError {
	return e.WithContext("path", path)
}

// IsType checks if an error is of a specific type
func IsType(err error, errType ErrorType) bool {
	var gErr *GptizerError
	if err == nil {
		return false
	}
	if errors.As(err, &gErr) {
		return gErr.Type == errType
	}
	return false
}

// PathOf returns the file path recorded on err, if any
func PathOf(err error) (string, bool) {
	var gErr *GptizerError
	if !errors.As(err, &gErr) {
		return "", false
	}
	path, ok := gErr.Context["path"].(string)
	return path, ok
}

// IsFatal returns true if the error must abort the whole run.
// Only tree rendering failures are survivable: the tree degrades to "".
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	return !IsType(err, ErrTree)
}

// ExitCode maps an error to a process exit status.
func ExitCode(err error) int {
	var gErr *GptizerError
	if !errors.As(err, &gErr) {
		return 1
	}

	switch gErr.Type {
	case ErrInvalidConfiguration:
		return 2
	case ErrTokenization:
		return 3
	case ErrFilesystem, ErrWrite:
		return 4
	default:
		return 1
	}
}

func errorTypeString(et ErrorType) string {
	switch et {
	case ErrInvalidConfiguration:
		return "INVALID_CONFIGURATION"
	case ErrTokenization:
		return "TOKENIZATION"
	case ErrFilesystem:
		return "FILESYSTEM"
	case ErrWrite:
		return "WRITE"
	case ErrTree:
		return "TREE"
	default:
		return "UNKNOWN"
	}
}

// Convenience functions for common errors

// ConfigError creates an invalid configuration error
func ConfigError(message string, cause error) *GptizerError {
	return New(ErrInvalidConfiguration, message, cause)
}

// TokenizationError creates a tokenization failure for one item
func TokenizationError(message string, cause error) *GptizerError {
	return New(ErrTokenization, message, cause)
}

// FilesystemError creates a source listing or reading error
func FilesystemError(message string, cause error) *GptizerError {
	return New(ErrFilesystem, message, cause)
}

// WriteError creates an output write error
func WriteError(message string, cause error) *GptizerError {
	return New(ErrWrite, message, cause)
}

// TreeError creates a directory tree rendering error
func TreeError(message string, cause error) *GptizerError {
	return New(ErrTree, message, cause)
}
