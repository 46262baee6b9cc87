package pep263

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common failure scenarios.
// These enable callers to distinguish error types using errors.Is().
//
// Example usage:
//
//	err := writer.Write(stream, "utf-8", false)
//	if errors.Is(err, pep263.ErrAlreadyDeclared) {
//	    // Leave the file alone
//	}
var (
	// ErrNotFound indicates a path or file does not exist.
	ErrNotFound = errors.New("file not found")

	// ErrPermissionDenied indicates a path cannot be read or written.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrNotADirectory indicates a directory was expected.
	ErrNotADirectory = errors.New("not a directory")

	// ErrIsADirectory indicates a regular file was expected.
	ErrIsADirectory = errors.New("is a directory")

	// ErrInvalidEncoding indicates an encoding name is not in the codec registry.
	ErrInvalidEncoding = errors.New("unknown encoding")

	// ErrDeclarationNotFound indicates neither of the first two lines declares an encoding.
	ErrDeclarationNotFound = errors.New("encoding not found")

	// ErrAlreadyDeclared indicates the writer refused to overwrite an existing declaration.
	ErrAlreadyDeclared = errors.New("encoding already exists")

	// ErrInvalidConfig indicates the project configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrApprovalDenied indicates the user denied replacing existing declarations.
	ErrApprovalDenied = errors.New("approval denied")

	// ErrCheckFailed indicates at least one file lacks a valid declaration.
	ErrCheckFailed = errors.New("check failed")
)

// InvalidEncodingError reports an encoding name that the codec registry does not know.
type InvalidEncodingError struct {
	Name string
}

func (e *InvalidEncodingError) Error() string {
	return fmt.Sprintf("unknown encoding: %s", e.Name)
}

// Is reports whether target is ErrInvalidEncoding.
func (e *InvalidEncodingError) Is(target error) bool {
	return target == ErrInvalidEncoding
}

// AlreadyDeclaredError reports the declaration that blocked a non-forced write.
type AlreadyDeclaredError struct {
	Name string
	Line int
}

func (e *AlreadyDeclaredError) Error() string {
	return fmt.Sprintf("encoding already exists: %s on line %d", e.Name, e.Line)
}

// Is reports whether target is ErrAlreadyDeclared.
func (e *AlreadyDeclaredError) Is(target error) bool {
	return target == ErrAlreadyDeclared
}

// usagePatterns are message fragments cobra and pflag produce for bad invocations.
var usagePatterns = []string{
	"unknown flag",
	"unknown shorthand flag",
	"unknown command",
	"accepts ",
	"requires at least",
	"required flag",
	"invalid argument",
	"flag needs an argument",
	"path does not exist",
}

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrInvalidConfig):
		return ExitConfigError
	case errors.Is(err, ErrInvalidEncoding):
		return ExitInvalidEncoding
	case errors.Is(err, ErrApprovalDenied):
		return ExitApprovalDenied
	case errors.Is(err, ErrCheckFailed):
		return ExitCheckFailed
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrNotADirectory),
		errors.Is(err, ErrPermissionDenied):
		return ExitPathError
	}

	errStr := err.Error()
	for _, p := range usagePatterns {
		if strings.Contains(errStr, p) {
			return ExitUsageError
		}
	}

	return ExitGeneralError
}
