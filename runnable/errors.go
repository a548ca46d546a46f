package runnable

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned when a runnable receives an input of a type
	// it cannot handle.
	ErrInvalidInput = errors.New("invalid input type")

	// ErrNoChoices is returned when a model response contains no choices.
	ErrNoChoices = errors.New("model returned no choices")

	// ErrPanic wraps a panic recovered from a concurrently executed input.
	ErrPanic = errors.New("panic during execution")

	// ErrSessionIDRequired is returned by a history-wrapped runnable invoked
	// without a session ID.
	ErrSessionIDRequired = errors.New("session id required")
)

// BatchError reports which input of a Batch call failed.
type BatchError struct {
	// Index is the position of the failing input.
	Index int
	// Err is the underlying error.
	Err error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("batch input %d: %v", e.Index, e.Err)
}

func (e *BatchError) Unwrap() error {
	return e.Err
}
