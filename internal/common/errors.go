package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Failure taxonomy. The per-file processor and the CLI wrap lower-level
// failures into these sentinels so callers can classify with errors.Is.
var (
	// ErrLoad marks an unreadable, corrupt, undersized or oversized input image.
	// Terminal for that file; recognition is never attempted.
	ErrLoad = errors.New("image load failed")

	// ErrRecognition marks a text-recognition engine failure. Non-terminal:
	// the pipeline continues with empty text and zero confidence.
	ErrRecognition = errors.New("recognition failed")

	// ErrAIAdapter marks a vision-extractor failure (network, timeout, auth,
	// unparsable response). Local fields remain authoritative.
	ErrAIAdapter = errors.New("ai extraction failed")

	// ErrTask marks anything else uncaught inside one file's task. Caught at
	// the task boundary; the record goes to status Error, the batch continues.
	ErrTask = errors.New("task failed")

	// ErrStartup marks a configuration-time failure (engine unavailable,
	// required AI provider misconfigured). Fatal before any file is processed.
	ErrStartup = errors.New("startup failed")

	ErrInvalidInput = errors.New("invalid input")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
