package domain

import (
	"fmt"
	"strings"
	"time"
)

// ValidationError reports a bad or missing prerequisite (unknown browser,
// yt-dlp not installed, malformed flag value). Fatal immediately, never
// retried.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// NewValidationError builds a ValidationError from a format string.
func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// TimeoutError reports that a yt-dlp invocation exceeded its deadline.
// Timeouts terminate the session without retry.
type TimeoutError struct {
	Stage string // "metadata", "formats" or "download"
	Limit time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s call exceeded the %s deadline", e.Stage, e.Limit)
}

// ExhaustedError is the terminal failure after the retry machine gave up:
// fallback disabled, catalog exhausted, bound reached, timeout, or an
// unclassified failure.
type ExhaustedError struct {
	Tried       []Client
	Category    ErrorCategory
	Diagnostics string
	Hint        string
}

func (e *ExhaustedError) Error() string {
	names := make([]string, len(e.Tried))
	for i, c := range e.Tried {
		names[i] = string(c)
	}
	return fmt.Sprintf("download failed (%s) after trying clients [%s]",
		e.Category, strings.Join(names, ", "))
}
