package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/macropower/clipfix/pkg/log"
)

// Watcher reloads the configuration file when it changes.
type Watcher struct {
	watcher  *fsnotify.Watcher
	onChange func(*Config)
	path     string
	opts     []LoaderOpt
	debounce time.Duration
}

// NewWatcher creates a [Watcher] for path. onChange is called with every
// successfully loaded configuration; invalid configurations are logged and
// ignored.
func NewWatcher(path string, onChange func(*Config), opts ...LoaderOpt) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	// Editors often replace the file, so watch the directory.
	err = w.Add(filepath.Dir(abs))
	if err != nil {
		_ = w.Close() //nolint:errcheck // Already failing.

		return nil, fmt.Errorf("watch config directory: %w", err)
	}

	return &Watcher{
		watcher:  w,
		onChange: onChange,
		path:     abs,
		opts:     opts,
		debounce: 100 * time.Millisecond,
	}, nil
}

// Run handles file events until ctx is cancelled, then closes the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	logger := log.WithContext(ctx).With(slog.String("path", w.path))

	defer func() {
		err := w.watcher.Close()
		if err != nil {
			logger.Error("close watcher", slog.Any("err", err))
		}
	}()

	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(evt.Name) != w.path {
				continue
			}
			if evt.Has(fsnotify.Chmod) || evt.Has(fsnotify.Remove) {
				continue
			}

			pending = time.After(w.debounce)

		case <-pending:
			pending = nil

			w.reload(logger)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}

			logger.Warn("watch config", slog.Any("err", err))
		}
	}
}

func (w *Watcher) reload(logger *slog.Logger) {
	l, err := NewLoaderFromFile(w.path, w.opts...)
	if err != nil {
		logger.Warn("reload config", slog.Any("err", err))

		return
	}

	c, err := l.Load()
	if err != nil {
		logger.Warn("reload config", slog.Any("err", err))

		return
	}

	logger.Info("reloaded config", slog.Int("recipes", len(c.Recipes)))
	w.onChange(c)
}
