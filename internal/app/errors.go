package app

import (
	"errors"
	"fmt"

	"github.com/bitshepherds/codefmt/internal/dispatch"
)

// Exit codes reported by the codefmt binary.
const (
	ExitSuccess          = 0
	ExitSetupFailure     = 1
	ExitDirtyTree        = 2
	ExitFormatterFailure = 3
)

// DirtyTreeError reports files left modified or untracked after a verify run.
type DirtyTreeError struct {
	Entries []string
}

func (e *DirtyTreeError) Error() string {
	return fmt.Sprintf("verification failed: %d file(s) modified or untracked after formatting", len(e.Entries))
}

// ExitCode maps an error returned by Run to the process exit code.
// Binary-not-found and configuration errors count as setup failures; only a
// formatter child process that ran and exited nonzero yields
// ExitFormatterFailure.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var dirty *DirtyTreeError
	if errors.As(err, &dirty) {
		return ExitDirtyTree
	}

	var notFound *dispatch.BinaryNotFoundError
	if errors.As(err, &notFound) {
		return ExitSetupFailure
	}

	var batch *dispatch.BatchError
	if errors.As(err, &batch) {
		return ExitFormatterFailure
	}

	return ExitSetupFailure
}
