package config

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher reloads the configuration when the CONFIG_FILE overlay
// changes on disk. Subscribers receive the new config on a channel;
// a failed reload keeps the previous config in place.
type Watcher struct {
	path      string
	logger    *zap.Logger
	mu        sync.RWMutex
	current   *Config
	listeners []chan *Config
}

// NewWatcher creates a watcher for the given overlay file
func NewWatcher(path string, initial *Config, logger *zap.Logger) *Watcher {
	return &Watcher{
		path:    path,
		logger:  logger,
		current: initial,
	}
}

// Current returns the most recently loaded configuration
func (w *Watcher) Current() *Config {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// Subscribe returns a channel that receives each successfully reloaded
// configuration. The channel is buffered; a slow consumer drops updates
// rather than blocking the watcher.
func (w *Watcher) Subscribe() <-chan *Config {
	w.mu.Lock()
	defer w.mu.Unlock()
	ch := make(chan *Config, 1)
	w.listeners = append(w.listeners, ch)
	return ch
}

// Run watches the overlay file until the context is cancelled. Editors
// often replace files rather than write in place, so the parent
// directory is watched and events are debounced.
func (w *Watcher) Run(ctx context.Context) error {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsWatcher.Close()

	if err := fsWatcher.Add(filepath.Dir(w.path)); err != nil {
		return err
	}

	var debounce *time.Timer
	reload := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fsWatcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(200*time.Millisecond, func() {
				select {
				case reload <- struct{}{}:
				default:
				}
			})

		case <-reload:
			w.reload()

		case err, ok := <-fsWatcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("config watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := Load()
	if err != nil {
		w.logger.Error("config reload failed, keeping previous config",
			zap.String("path", w.path),
			zap.Error(err))
		return
	}

	w.mu.Lock()
	w.current = cfg
	listeners := append([]chan *Config(nil), w.listeners...)
	w.mu.Unlock()

	w.logger.Info("configuration reloaded", zap.String("path", w.path))
	for _, ch := range listeners {
		select {
		case ch <- cfg:
		default:
		}
	}
}
