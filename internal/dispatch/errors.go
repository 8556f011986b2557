package dispatch

import (
	"fmt"
)

// BinaryNotFoundError reports a formatter binary that could not be resolved
// at all, as opposed to one that ran and failed.
type BinaryNotFoundError struct {
	Wrapped error
	Binary  string
}

func (e *BinaryNotFoundError) Error() string {
	return fmt.Sprintf("formatter binary not found: %s: %v", e.Binary, e.Wrapped)
}

func (e *BinaryNotFoundError) Unwrap() error { return e.Wrapped }

// BatchError reports a formatter child process that exited nonzero, carrying
// the exit code of the failing batch. ExitCode is -1 when the process could
// not be started at all.
type BatchError struct {
	Wrapped  error
	Batch    int
	ExitCode int
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("formatter batch %d failed with exit code %d: %v", e.Batch, e.ExitCode, e.Wrapped)
}

func (e *BatchError) Unwrap() error { return e.Wrapped }
