package ingest

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidBase64 is returned when a body flagged as base64 cannot be decoded
	ErrInvalidBase64 = errors.New("body is not valid base64")

	// ErrInvalidJSON is returned when a body is not a JSON document
	ErrInvalidJSON = errors.New("body is not valid JSON")

	// ErrNotObject is returned when a body is valid JSON but not an object
	ErrNotObject = errors.New("body must be a JSON object")

	// ErrInvalidTimestamp is returned when ts cannot be coerced to an integer
	ErrInvalidTimestamp = errors.New("ts must be an integer")
)

// DecodeError reports a body that could not be turned into a mapping
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode request body: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// MissingFieldError reports a required key absent from the payload
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field %q", e.Field)
}

// IsDecodeError returns true if err was caused by an undecodable body
func IsDecodeError(err error) bool {
	var decodeErr *DecodeError
	return errors.As(err, &decodeErr)
}

// IsMissingField returns true if err reports a missing required field
func IsMissingField(err error) bool {
	var missing *MissingFieldError
	return errors.As(err, &missing)
}
