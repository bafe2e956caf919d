package watcher

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	syncerr "github.com/arthur-debert/modsync/pkg/errors"
	"github.com/arthur-debert/modsync/pkg/logging"
	"github.com/arthur-debert/modsync/pkg/paths"
)

// Sink receives raw create and delete notifications. There is no
// rename primitive: the OS rename of a watched file surfaces as a
// delete of the old path, and the following create event of the new
// path arrives on its own. Downstream coalescing tolerates duplicates.
type Sink interface {
	Create(path string)
	Delete(path string)
}

// Watcher recursively watches a project tree and forwards source-file
// events to a Sink.
type Watcher struct {
	sink   Sink
	ignore []string
	logger zerolog.Logger
}

// New creates a watcher forwarding to sink. ignore entries are literal
// directory names or glob patterns matched against basenames.
func New(sink Sink, ignore []string) *Watcher {
	return &Watcher{
		sink:   sink,
		ignore: ignore,
		logger: logging.GetLogger("watcher"),
	}
}

// Start watches root until ctx is cancelled. Newly created directories
// are added to the watch set on the fly.
func (w *Watcher) Start(ctx context.Context, root string) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return syncerr.Wrap(err, syncerr.ErrWatchSetup, "failed to create filesystem watcher")
	}
	defer func() { _ = fsw.Close() }()

	if err := w.addRecursive(fsw, root); err != nil {
		return err
	}
	w.logger.Info().Str("root", root).Msg("Watching")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.handle(fsw, event)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn().Err(err).Msg("Watch error")
		}
	}
}

func (w *Watcher) handle(fsw *fsnotify.Watcher, event fsnotify.Event) {
	path := event.Name
	if w.Ignored(path) {
		return
	}

	switch {
	case event.Op.Has(fsnotify.Create):
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if err := w.addRecursive(fsw, path); err != nil {
				w.logger.Warn().Err(err).Str("dir", path).Msg("Failed to watch new directory")
			}
			return
		}
		if paths.IsSource(path) {
			w.logger.Trace().Str("path", path).Msg("Raw create")
			w.sink.Create(path)
		}
	case event.Op.Has(fsnotify.Remove), event.Op.Has(fsnotify.Rename):
		// a rename delivers only the old path; the new path shows up
		// as an independent create event
		if paths.IsSource(path) {
			w.logger.Trace().Str("path", path).Msg("Raw delete")
			w.sink.Delete(path)
		}
	}
}

// addRecursive adds dir and every non-ignored subdirectory to the
// watch set.
func (w *Watcher) addRecursive(fsw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return syncerr.Wrapf(err, syncerr.ErrWatchSetup, "failed to watch %s", dir)
			}
			w.logger.Warn().Err(err).Str("path", path).Msg("Skipping unreadable path")
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && w.Ignored(path) {
			return filepath.SkipDir
		}
		if err := fsw.Add(path); err != nil {
			return syncerr.Wrapf(err, syncerr.ErrWatchSetup, "failed to watch %s", path)
		}
		return nil
	})
}

// Ignored checks the basename of path against the ignore patterns.
func (w *Watcher) Ignored(path string) bool {
	base := filepath.Base(path)
	for _, pattern := range w.ignore {
		if pattern == base {
			return true
		}
		if ok, err := filepath.Match(pattern, base); err == nil && ok {
			return true
		}
	}
	return false
}
