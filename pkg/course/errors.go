package course

import (
	"errors"
	"fmt"
)

var (
	// ErrWaitTimeout reports that a bounded readiness wait expired.
	ErrWaitTimeout = errors.New("wait timed out")

	// ErrUnexpectedState reports page content the engine does not recognise,
	// such as a clock readout with an unsupported field count.
	ErrUnexpectedState = errors.New("unexpected state")

	// ErrFatal marks failures that abort the whole run (backend bootstrap,
	// login verification). Nothing inside traversal returns it.
	ErrFatal = errors.New("fatal")

	// ErrNothingToDo reports that no requested task resolved.
	ErrNothingToDo = errors.New("no tasks to run")
)

// UnexpectedStateError describes unrecognised page content.
type UnexpectedStateError struct {
	// What names the thing being interpreted (e.g. "clock readout")
	What string
	// Value is the raw text that could not be interpreted
	Value string
	// Reason explains why it was rejected
	Reason string
}

func (e *UnexpectedStateError) Error() string {
	return fmt.Sprintf("unexpected %s %q: %s", e.What, e.Value, e.Reason)
}

// Unwrap lets errors.Is match ErrUnexpectedState.
func (e *UnexpectedStateError) Unwrap() error {
	return ErrUnexpectedState
}

// FatalError wraps err so errors.Is(err, ErrFatal) holds.
func FatalError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrFatal, err)
}
