// Package dispatch partitions file lists into batches and launches the
// external formatter once per batch.
package dispatch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os/exec"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// BatchSize is the maximum number of file paths passed to a single formatter
// invocation.
const BatchSize = 30

// Partition splits paths into ordered batches of at most size entries. The
// concatenation of the batches reproduces the input exactly; the last batch
// may be shorter.
func Partition(paths []string, size int) [][]string {
	if len(paths) == 0 {
		return nil
	}
	batches := make([][]string, 0, (len(paths)+size-1)/size)
	for start := 0; start < len(paths); start += size {
		end := min(start+size, len(paths))
		batches = append(batches, paths[start:end])
	}
	return batches
}

// Dispatcher launches formatter child processes. The formatter's own console
// output goes straight to the configured writers, normally the launcher's
// inherited streams.
type Dispatcher struct {
	logger *slog.Logger
	stdout io.Writer
	stderr io.Writer

	// lookPath is a seam for tests.
	lookPath func(file string) (string, error)
}

// NewDispatcher creates a Dispatcher writing formatter output to the given streams.
func NewDispatcher(logger *slog.Logger, stdout, stderr io.Writer) *Dispatcher {
	return &Dispatcher{
		logger:   logger.With("component", "dispatcher"),
		stdout:   stdout,
		stderr:   stderr,
		lookPath: exec.LookPath,
	}
}

// Run invokes the formatter once per batch of files, with dir as the working
// directory and argPrefix ahead of the batch's paths. Batches run
// concurrently, bounded by GOMAXPROCS; all batches are waited for even after
// a failure so every exit code is observed. The returned error is the
// failure of the lowest-numbered failing batch, or nil if every batch
// succeeded. Before any batch launches the binary must resolve, otherwise a
// BinaryNotFoundError is returned immediately.
func (d *Dispatcher) Run(ctx context.Context, binary, dir string, argPrefix, files []string) error {
	path, err := d.lookPath(binary)
	if err != nil {
		return &BinaryNotFoundError{Binary: binary, Wrapped: err}
	}

	batches := Partition(files, BatchSize)
	if len(batches) == 0 {
		d.logger.Debug("no batches to dispatch", "binary", binary)
		return nil
	}

	outcomes := make([]error, len(batches))

	g := &errgroup.Group{}
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, batch := range batches {
		g.Go(func() error {
			outcomes[i] = d.runBatch(ctx, path, dir, argPrefix, batch, i)
			return nil
		})
	}
	_ = g.Wait()

	for _, outcome := range outcomes {
		if outcome != nil {
			return outcome
		}
	}
	return nil
}

// RunOne invokes the formatter exactly once with the given arguments and no
// trailing file paths. Used for raw passthrough.
func (d *Dispatcher) RunOne(ctx context.Context, binary, dir string, args []string) error {
	path, err := d.lookPath(binary)
	if err != nil {
		return &BinaryNotFoundError{Binary: binary, Wrapped: err}
	}
	return d.runBatch(ctx, path, dir, args, nil, 0)
}

func (d *Dispatcher) runBatch(ctx context.Context, path, dir string, argPrefix, batch []string, index int) error {
	args := make([]string, 0, len(argPrefix)+len(batch))
	args = append(args, argPrefix...)
	args = append(args, batch...)

	d.logger.Debug("launching formatter", "batch", index, "files", len(batch), "args", len(args))

	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Dir = dir
	cmd.Stdout = d.stdout
	cmd.Stderr = d.stderr

	if err := cmd.Run(); err != nil {
		code := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code = exitErr.ExitCode()
		}
		return &BatchError{Batch: index, ExitCode: code, Wrapped: err}
	}
	return nil
}
