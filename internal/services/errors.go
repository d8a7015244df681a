package services

import (
	"context"
	"errors"
	"fmt"
)

var ErrEmptyCompletion = errors.New("model returned an empty response")

// ValidationError carries a message that is safe to show to the user.
type ValidationError struct {
	Message string
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

func (e *ValidationError) Error() string {
	return e.Message
}

// UpstreamError wraps a failed call to the job ad site or the completion API.
// Message is safe to show to the user; Err is for logs.
type UpstreamError struct {
	Op      string
	Message string
	Err     error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the upstream call ran out of time.
func (e *UpstreamError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var timeoutErr interface{ Timeout() bool }
	return errors.As(e.Err, &timeoutErr) && timeoutErr.Timeout()
}
