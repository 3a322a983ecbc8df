package stream

import (
	"errors"
	"fmt"
)

// Common stream error types
var (
	ErrInvalidStreamName   = errors.New("invalid stream name")
	ErrEmptyRecord         = errors.New("empty record")
	ErrStreamClosed        = errors.New("stream closed")
	ErrStreamUnavailable   = errors.New("stream service unavailable")
	ErrThrottled           = errors.New("stream write throttled")
	ErrPermissionDenied    = errors.New("permission denied")
	ErrStreamNotFound      = errors.New("stream not found")
	ErrRecordTooLarge      = errors.New("record too large")
	ErrUnsupportedProvider = errors.New("unsupported stream type")
)

// StreamError represents a stream operation error with additional context
type StreamError struct {
	Op        string // Operation that failed (e.g., "PutRecord")
	Stream    string // Stream name involved in the operation
	Err       error  // Underlying error
	Retryable bool   // Whether the caller's redelivery could succeed
}

func (e *StreamError) Error() string {
	if e.Stream != "" {
		return fmt.Sprintf("stream %s operation failed for '%s': %v", e.Op, e.Stream, e.Err)
	}
	return fmt.Sprintf("stream %s operation failed: %v", e.Op, e.Err)
}

func (e *StreamError) Unwrap() error {
	return e.Err
}

// IsRetryable returns true if the error indicates a retryable condition
func (e *StreamError) IsRetryable() bool {
	return e.Retryable
}

// NewStreamError creates a new StreamError
func NewStreamError(op, stream string, err error, retryable bool) *StreamError {
	return &StreamError{
		Op:        op,
		Stream:    stream,
		Err:       err,
		Retryable: retryable,
	}
}

// IsRetryable returns true if the error indicates a retryable condition.
// Nothing in this module retries; the flag is reported so the front door's
// redelivery policy can be reasoned about from logs.
func IsRetryable(err error) bool {
	var streamErr *StreamError
	if errors.As(err, &streamErr) {
		return streamErr.IsRetryable()
	}

	return errors.Is(err, ErrStreamUnavailable) ||
		errors.Is(err, ErrThrottled)
}

// IsClosed returns true if the error was caused by writing to a closed stream
func IsClosed(err error) bool {
	return errors.Is(err, ErrStreamClosed)
}
