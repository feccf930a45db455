package config

import (
	"fmt"
	"path/filepath"
	"reflect"
	"sync"
	"time"

	"booklog-backend/domain/layout"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const reloadDebounce = 100 * time.Millisecond

// LayoutWatcher reloads the layout section of the config file when it changes
type LayoutWatcher struct {
	path     string
	watcher  *fsnotify.Watcher
	logger   *zap.Logger
	mu       sync.RWMutex
	current  layout.Params
	onChange []func(layout.Params)
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewLayoutWatcher watches path, starting from the layout it holds now
func NewLayoutWatcher(path string, logger *zap.Logger) (*LayoutWatcher, error) {
	initial, err := readLayout(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load initial layout: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	// Editors save atomically by rename, so the directory is watched rather than the file
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch config directory: %w", err)
	}

	return &LayoutWatcher{
		path:    path,
		watcher: watcher,
		logger:  logger,
		current: initial,
		stopCh:  make(chan struct{}),
	}, nil
}

// OnChange registers fn to receive every reloaded layout. Register before Start.
func (w *LayoutWatcher) OnChange(fn func(layout.Params)) {
	w.onChange = append(w.onChange, fn)
}

// Current returns the last successfully loaded layout
func (w *LayoutWatcher) Current() layout.Params {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// Start begins watching for configuration changes
func (w *LayoutWatcher) Start() {
	go w.watchLoop()
	w.logger.Info("Configuration watcher started", zap.String("path", w.path))
}

// Stop stops watching. It is safe to call more than once.
func (w *LayoutWatcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		w.watcher.Close()
		w.logger.Info("Configuration watcher stopped")
	})
}

func (w *LayoutWatcher) watchLoop() {
	var debounce *time.Timer
	for {
		select {
		case <-w.stopCh:
			if debounce != nil {
				debounce.Stop()
			}
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(reloadDebounce, w.reload)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("File watcher error", zap.Error(err))
		}
	}
}

func (w *LayoutWatcher) reload() {
	next, err := readLayout(w.path)
	if err != nil {
		w.logger.Error("Invalid configuration, keeping current", zap.Error(err))
		return
	}

	w.mu.Lock()
	unchanged := reflect.DeepEqual(w.current, next)
	w.current = next
	w.mu.Unlock()
	if unchanged {
		return
	}

	w.logger.Info("Layout configuration reloaded", zap.String("path", w.path))
	for _, fn := range w.onChange {
		fn(next)
	}
}

func readLayout(path string) (layout.Params, error) {
	cfg := Default()
	if err := cfg.mergeFile(path); err != nil {
		return layout.Params{}, err
	}
	return cfg.Layout.WithDefaults(), nil
}
