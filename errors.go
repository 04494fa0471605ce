// Package weft structured error types for better error handling
package weft

import (
	"fmt"
)

// ErrorKind represents categories of errors
type ErrorKind int

const (
	// Descriptor errors: tile keys outside the closed tables
	ErrKindDescriptor ErrorKind = iota
	// Invalid argument errors
	ErrKindInvalidArg
	// Memory errors
	ErrKindMemory
	// Operations the selected unit cannot execute
	ErrKindUnsupported
	// Execution errors
	ErrKindExecution
	// Device errors
	ErrKindDevice
)

// Error represents a structured error with context
type Error struct {
	Kind    ErrorKind
	Op      string // Operation that failed
	Message string // Human-readable message
	Err     error  // Underlying error if any
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("weft %s error in %s: %s (caused by: %v)",
			e.Kind.String(), e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("weft %s error in %s: %s",
		e.Kind.String(), e.Op, e.Message)
}

// Unwrap allows error chain inspection
func (e *Error) Unwrap() error {
	return e.Err
}

// String returns the error kind as a string
func (k ErrorKind) String() string {
	switch k {
	case ErrKindDescriptor:
		return "Descriptor"
	case ErrKindInvalidArg:
		return "InvalidArgument"
	case ErrKindMemory:
		return "Memory"
	case ErrKindUnsupported:
		return "Unsupported"
	case ErrKindExecution:
		return "Execution"
	case ErrKindDevice:
		return "Device"
	default:
		return "Unknown"
	}
}

// unsupportedMessage is the single message every rejected dispatch
// carries, no matter which instruction family was missing.
const unsupportedMessage = "operation not supported on this device"

// Common error constructors

// NewDescriptorError creates an error for a tile key outside the
// closed tables
func NewDescriptorError(op string, message string) error {
	return &Error{
		Kind:    ErrKindDescriptor,
		Op:      op,
		Message: message,
	}
}

// NewInvalidArgError creates an invalid argument error
func NewInvalidArgError(op string, message string) error {
	return &Error{
		Kind:    ErrKindInvalidArg,
		Op:      op,
		Message: message,
	}
}

// NewMemoryError creates a memory-related error
func NewMemoryError(op string, message string, err error) error {
	return &Error{
		Kind:    ErrKindMemory,
		Op:      op,
		Message: message,
		Err:     err,
	}
}

// NewUnsupportedError creates the uniform error for an operation the
// selected unit cannot execute
func NewUnsupportedError(op string) error {
	return &Error{
		Kind:    ErrKindUnsupported,
		Op:      op,
		Message: unsupportedMessage,
	}
}

// NewExecutionError creates an execution error
func NewExecutionError(op string, message string, err error) error {
	return &Error{
		Kind:    ErrKindExecution,
		Op:      op,
		Message: message,
		Err:     err,
	}
}

// NewDeviceError creates a device error
func NewDeviceError(op string, message string) error {
	return &Error{
		Kind:    ErrKindDevice,
		Op:      op,
		Message: message,
	}
}

// Common pre-defined errors

var (
	// ErrOutOfMemory indicates memory allocation failure
	ErrOutOfMemory = NewMemoryError("Malloc", "out of memory", nil)

	// ErrInvalidSize indicates invalid size parameter
	ErrInvalidSize = NewInvalidArgError("Malloc", "size must be positive")

	// ErrNilPointer indicates nil pointer access
	ErrNilPointer = NewInvalidArgError("Memory", "nil pointer")

	// ErrDoubleFree indicates double free attempt
	ErrDoubleFree = NewMemoryError("Free", "double free detected", nil)

	// ErrNoUnit indicates no matrix unit is available
	ErrNoUnit = NewDeviceError("Open", "no matrix unit available")
)

// IsDescriptorError checks if an error is a descriptor error
func IsDescriptorError(err error) bool {
	if e, ok := err.(*Error); ok {
		return e.Kind == ErrKindDescriptor
	}
	return false
}

// IsInvalidArgError checks if an error is an invalid argument error
func IsInvalidArgError(err error) bool {
	if e, ok := err.(*Error); ok {
		return e.Kind == ErrKindInvalidArg
	}
	return false
}

// IsMemoryError checks if an error is a memory error
func IsMemoryError(err error) bool {
	if e, ok := err.(*Error); ok {
		return e.Kind == ErrKindMemory
	}
	return false
}

// IsUnsupported checks if an error reports an operation the selected
// unit cannot execute
func IsUnsupported(err error) bool {
	if e, ok := err.(*Error); ok {
		return e.Kind == ErrKindUnsupported
	}
	return false
}
