// Package watch monitors the formatter root for changes to qualifying files.
package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounceDuration = 250 * time.Millisecond

// Watcher monitors a directory tree and triggers a callback whenever a file
// accepted by the qualifier changes.
type Watcher struct {
	root      string
	logger    *slog.Logger
	qualifies func(relPath string) bool
	Ready     chan struct{}

	newWatcher func() (*fsnotify.Watcher, error)
}

// NewWatcher creates a Watcher rooted at root. qualifies receives paths
// relative to root with forward slashes, matching git's tracked-file listing.
func NewWatcher(root string, qualifies func(string) bool, logger *slog.Logger) *Watcher {
	return &Watcher{
		root:       root,
		logger:     logger.With("component", "watcher"),
		qualifies:  qualifies,
		Ready:      make(chan struct{}),
		newWatcher: fsnotify.NewWatcher,
	}
}

// Watch starts monitoring the root for changes. It calls the provided
// callback with the changed path whenever a qualifying file is written or
// created, debounced so a burst of events triggers one callback. It blocks
// until the context is cancelled.
func (w *Watcher) Watch(ctx context.Context, callback func(relPath string)) error {
	watcher, err := w.newWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := w.addRecursive(watcher, w.root); err != nil {
		return err
	}

	w.logger.Info("Watching for changes", "root", w.root)
	if w.Ready != nil {
		close(w.Ready)
	}

	var timer *time.Timer

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-watcher.Errors:
			w.logger.Error("Watcher error", "error", err)
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if rel := w.handleEvent(watcher, event); rel != "" {
				if timer != nil {
					timer.Stop()
				}
				// The path is captured per timer: a timer that fired
				// before Stop must not observe a later event's path.
				timer = time.AfterFunc(debounceDuration, func() {
					callback(rel)
				})
			}
		}
	}
}

// handleEvent processes a single fsnotify event. New directories are added to
// the watch set; qualifying file changes return the repo-relative path.
func (w *Watcher) handleEvent(watcher *fsnotify.Watcher, event fsnotify.Event) string {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return ""
	}

	if event.Has(fsnotify.Create) {
		info, err := os.Stat(event.Name)
		if err == nil && info.IsDir() {
			if err := w.addRecursive(watcher, event.Name); err != nil {
				w.logger.Error("Failed to watch new directory", "path", event.Name, "error", err)
			}
			return ""
		}
	}

	rel, err := filepath.Rel(w.root, event.Name)
	if err != nil {
		return ""
	}
	rel = filepath.ToSlash(rel)

	if !w.qualifies(rel) {
		return ""
	}
	return rel
}

// addRecursive adds the given path and all its subdirectories to the watcher,
// skipping hidden directories such as .git.
func (w *Watcher) addRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if strings.HasPrefix(filepath.Base(path), ".") && path != root {
				return filepath.SkipDir
			}
			return watcher.Add(path)
		}
		return nil
	})
}
