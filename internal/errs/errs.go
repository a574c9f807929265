// Package errs defines the error taxonomy shared by the service layer and
// the HTTP boundary. Services wrap these sentinels with fmt.Errorf("%w");
// the API layer maps them to status codes with errors.Is.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means a referenced entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput means the caller supplied a malformed or
	// out-of-range value.
	ErrInvalidInput = errors.New("invalid input")
	// ErrConflict means a concurrent write invalidated the operation
	// and the internal retry also failed.
	ErrConflict = errors.New("conflict")
)

// NotFound wraps ErrNotFound with a formatted detail message.
func NotFound(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// InvalidInput wraps ErrInvalidInput with a formatted detail message.
func InvalidInput(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// Conflict wraps ErrConflict with a formatted detail message.
func Conflict(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}
