package chunk

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidChunkSize is reported when the chunk size is missing, zero, or
	// negative.
	ErrInvalidChunkSize = errors.New("chunk size must be a positive integer")

	// ErrNilStage is reported when a Chunker is built without a downstream
	// stage.
	ErrNilStage = errors.New("downstream stage cannot be nil")

	// ErrEnded is wrapped by StateError when an operation is attempted after
	// Complete.
	ErrEnded = errors.New("chunk: transform has ended")

	// ErrFailed is wrapped by StateError when an operation is attempted after
	// the transform failed.
	ErrFailed = errors.New("chunk: transform has failed")

	// ErrNilFailure is returned by Fail when it is given a nil error.
	ErrNilFailure = errors.New("chunk: Fail called with a nil error")
)

// ConfigurationError is returned when a Chunker cannot be constructed.
type ConfigurationError struct {
	// Field names the offending setting.
	Field string
	Err   error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %v", e.Field, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// StateError is returned when an operation is called on a Chunker that has
// already ended or failed. It unwraps to ErrEnded or ErrFailed.
type StateError struct {
	Op    string
	State State
}

func (e *StateError) Error() string {
	return fmt.Sprintf("chunk: %s called in %s state", e.Op, e.State)
}

func (e *StateError) Unwrap() error {
	if e.State == StateEnded {
		return ErrEnded
	}
	return ErrFailed
}
