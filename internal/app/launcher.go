package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/bitshepherds/codefmt/internal/config"
	"github.com/bitshepherds/codefmt/internal/dispatch"
	"github.com/bitshepherds/codefmt/internal/filter"
	"github.com/bitshepherds/codefmt/internal/repo"
	"github.com/bitshepherds/codefmt/internal/watch"
)

// Formatter flags composed by the launcher. The style argument, when
// configured, is prepended ahead of these.
const (
	warningsAsErrorsFlag = "--Werror"
	inPlaceFlag          = "-i"
	dryRunFlag           = "--dry-run"
)

// Launcher orchestrates the discover-filter-dispatch pipeline for one
// invocation. The configuration is read-only after construction.
type Launcher struct {
	logger     *slog.Logger
	cfg        *config.Config
	gitter     repo.Gitter
	dispatcher *dispatch.Dispatcher
	stdout     io.Writer
}

// NewLauncher wires a Launcher from its collaborators.
func NewLauncher(
	logger *slog.Logger,
	cfg *config.Config,
	gitter repo.Gitter,
	dispatcher *dispatch.Dispatcher,
	stdout io.Writer,
) *Launcher {
	return &Launcher{
		logger:     logger,
		cfg:        cfg,
		gitter:     gitter,
		dispatcher: dispatcher,
		stdout:     stdout,
	}
}

// Fix formats the filtered tracked files in place.
func (l *Launcher) Fix(ctx context.Context, passthrough []string) error {
	files := l.discover(ctx)

	args := l.argPrefix(inPlaceFlag, passthrough)
	if err := l.dispatcher.Run(ctx, l.cfg.FormatterBinary, l.cfg.RootDirectory, args, files); err != nil {
		return err
	}

	fmt.Fprintf(l.stdout, "Formatted %d files\n", len(files))
	return nil
}

// Verify dry-runs the formatter over the filtered tracked files and then
// requires a clean working tree, so both formatter warnings and uncommitted
// formatting changes fail the run.
func (l *Launcher) Verify(ctx context.Context, passthrough []string) error {
	files := l.discover(ctx)

	args := l.argPrefix(dryRunFlag, passthrough)
	if err := l.dispatcher.Run(ctx, l.cfg.FormatterBinary, l.cfg.RootDirectory, args, files); err != nil {
		return err
	}

	entries, err := l.gitter.Status(ctx, l.cfg.RootDirectory)
	if err != nil {
		return fmt.Errorf("working-tree status check failed: %w", err)
	}
	if len(entries) > 0 {
		for _, entry := range entries {
			l.logger.Info(entry)
		}
		return &DirtyTreeError{Entries: entries}
	}

	fmt.Fprintf(l.stdout, "Verified %d files; working tree clean\n", len(files))
	return nil
}

// FixAndWatch runs Fix once and then re-runs it whenever a qualifying file
// under the root changes, until the context is cancelled.
func (l *Launcher) FixAndWatch(ctx context.Context, passthrough []string) error {
	if err := l.Fix(ctx, passthrough); err != nil {
		return err
	}

	rules := filter.RulesFromConfig(l.cfg)
	w := watch.NewWatcher(l.cfg.RootDirectory, func(rel string) bool {
		return filter.Qualifies(rel, rules)
	}, l.logger)

	// Serialize re-runs; overlapping formatter fleets over the same files
	// would race on disk.
	var mu sync.Mutex
	err := w.Watch(ctx, func(rel string) {
		mu.Lock()
		defer mu.Unlock()
		l.logger.Info("Change detected, reformatting", "path", rel)
		if fixErr := l.Fix(ctx, passthrough); fixErr != nil {
			l.logger.Error("Reformat failed", "error", fixErr)
		}
	})
	if errors.Is(err, context.Canceled) {
		l.logger.Info("Interrupted by user")
		return nil
	}
	return err
}

// RunRaw forwards the passthrough arguments to the formatter binary with no
// configuration loading or file discovery.
func RunRaw(ctx context.Context, dispatcher *dispatch.Dispatcher, binary, workDir string, passthrough []string) error {
	return dispatcher.RunOne(ctx, binary, workDir, passthrough)
}

// discover lists the tracked files under the root and narrows them by the
// configured rules. A failed listing degrades to an empty list with a
// warning rather than aborting the run.
func (l *Launcher) discover(ctx context.Context) []string {
	paths, err := l.gitter.LsFiles(ctx, l.cfg.RootDirectory)
	if err != nil {
		l.logger.Warn("git listing failed; formatting no files", "error", err)
		return nil
	}

	files := filter.Apply(paths, filter.RulesFromConfig(l.cfg))
	l.logger.Debug("discovered files", "tracked", len(paths), "qualifying", len(files))
	return files
}

// argPrefix composes the formatter argument prefix for fix or verify runs:
// [styleArgument?, --Werror, modeFlag, passthrough...].
func (l *Launcher) argPrefix(modeFlag string, passthrough []string) []string {
	args := make([]string, 0, len(passthrough)+3)
	if l.cfg.StyleArgument != "" {
		args = append(args, l.cfg.StyleArgument)
	}
	args = append(args, warningsAsErrorsFlag, modeFlag)
	args = append(args, passthrough...)
	return args
}
