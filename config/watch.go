package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// WatchOption configures Watch.
type WatchOption func(*watcher)

// WithLogger sets the logger used to report reload failures.
func WithLogger(l *slog.Logger) WatchOption {
	return func(w *watcher) {
		w.logger = l
	}
}

type watcher struct {
	path     string
	onChange func(*Config)
	logger   *slog.Logger
}

// Watch calls onChange with the reloaded configuration each time the file at
// path is written or replaced. Invalid configurations are logged and skipped.
// Watch blocks until ctx is done.
func Watch(ctx context.Context, path string, onChange func(*Config), opts ...WatchOption) error {
	w := &watcher{path: filepath.Clean(path), onChange: onChange, logger: slog.Default()}
	for _, opt := range opts {
		opt(w)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config: watch: %w", err)
	}
	defer fw.Close()
	// Watch the directory: editors and config management replace the file.
	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("config: watch %s: %w", w.path, err)
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path || !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			w.reload()
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("config: watch error", slog.String("path", w.path), slog.Any("error", err))
		}
	}
}

func (w *watcher) reload() {
	cfg, err := Load(w.path)
	if err != nil {
		w.logger.Error("config: reload failed", slog.String("path", w.path), slog.Any("error", err))
		return
	}
	w.logger.Info("config: reloaded", slog.String("path", w.path))
	w.onChange(cfg)
}
