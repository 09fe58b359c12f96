// Package watcher reports changes to inventory files on disk.
package watcher

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher watches a set of files and calls onChange once per burst of
// writes to any of them
type Watcher struct {
	paths    []string
	onChange func(path string)
	debounce time.Duration
	log      *zap.Logger
}

// Option configures a Watcher
type Option func(*Watcher)

// WithDebounce sets the debounce duration
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// WithLogger sets the watcher logger
func WithLogger(log *zap.Logger) Option {
	return func(w *Watcher) {
		if log != nil {
			w.log = log
		}
	}
}

// New creates a new file watcher
func New(paths []string, onChange func(path string), opts ...Option) *Watcher {
	w := &Watcher{
		paths:    paths,
		onChange: onChange,
		debounce: 500 * time.Millisecond,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Watch blocks until the context is cancelled or the watcher fails.
// Directories are watched rather than files so editors that replace the
// file on save are still seen.
func (w *Watcher) Watch(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	watchedDirs := make(map[string]bool)
	fileSet := make(map[string]bool)

	for _, path := range w.paths {
		absPath, err := filepath.Abs(path)
		if err != nil {
			w.log.Warn("cannot resolve path", zap.String("path", path), zap.Error(err))
			continue
		}

		dir := filepath.Dir(absPath)
		if !watchedDirs[dir] {
			if err := fw.Add(dir); err != nil {
				w.log.Warn("failed to watch directory", zap.String("dir", dir), zap.Error(err))
				continue
			}
			watchedDirs[dir] = true
		}

		fileSet[absPath] = true
		w.log.Info("watching for changes", zap.String("path", absPath))
	}

	var mu sync.Mutex
	timers := make(map[string]*time.Timer)
	defer func() {
		mu.Lock()
		for _, timer := range timers {
			timer.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}

			absPath, err := filepath.Abs(event.Name)
			if err != nil || !fileSet[absPath] {
				continue
			}

			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			mu.Lock()
			if timer, exists := timers[absPath]; exists {
				timer.Stop()
			}
			timers[absPath] = time.AfterFunc(w.debounce, func() {
				w.log.Info("file changed", zap.String("path", absPath))
				w.onChange(absPath)
			})
			mu.Unlock()

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watcher error", zap.Error(err))

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
