package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// Watcher holds the latest valid configuration read from a file and reloads
// it when the file changes. A reload that fails to parse or validate is
// logged and the previous configuration stays in effect.
type Watcher struct {
	path     string
	logger   *log.Logger
	mu       sync.RWMutex
	current  Config
	onChange []func(Config)
}

// NewWatcher creates a Watcher and performs the initial load.
// A nil logger falls back to log.Default().
func NewWatcher(path string, logger *log.Logger) (*Watcher, error) {
	if logger == nil {
		logger = log.Default()
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	return &Watcher{path: path, logger: logger, current: cfg}, nil
}

// Current returns the latest valid configuration.
func (w *Watcher) Current() Config {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// OnChange registers a callback invoked after every successful reload.
// Callbacks run on the watcher goroutine.
func (w *Watcher) OnChange(fn func(Config)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = append(w.onChange, fn)
}

// Reload re-reads the file immediately and notifies callbacks on success.
func (w *Watcher) Reload() (Config, error) {
	cfg, err := Load(w.path)
	if err != nil {
		return Config{}, err
	}
	w.mu.Lock()
	w.current = cfg
	callbacks := make([]func(Config), len(w.onChange))
	copy(callbacks, w.onChange)
	w.mu.Unlock()
	for _, fn := range callbacks {
		fn(cfg)
	}
	return cfg, nil
}

// Watch reloads the configuration on every write to the file until ctx is
// done. The parent directory is watched so that editors which replace the
// file atomically are handled. Watch returns once the watcher is running.
func (w *Watcher) Watch(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config watcher: %w", err)
	}
	dir := filepath.Dir(w.path)
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return fmt.Errorf("config watcher add %s: %w", dir, err)
	}

	target := filepath.Clean(w.path)
	go func() {
		defer fw.Close()
		for {
			select {
			case ev, ok := <-fw.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
					continue
				}
				if _, err := w.Reload(); err != nil {
					w.logger.Warn("config reload rejected", "path", w.path, "err", err)
					continue
				}
				w.logger.Info("config reloaded", "path", w.path)
			case err, ok := <-fw.Errors:
				if !ok {
					return
				}
				w.logger.Debug("config watcher error", "err", err)
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}
