// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package indexing

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long a path must stay quiet before a change
// notification fires. Editors tend to emit several events per save.
const DefaultDebounce = 500 * time.Millisecond

// Watcher monitors a content directory for markdown changes and invokes a
// callback once per settled burst of filesystem events. The callback runs on
// a timer goroutine, so it must be safe to call concurrently with the caller.
type Watcher struct {
	watcher  *fsnotify.Watcher
	onChange func(path string)
	logger   *slog.Logger
	debounce time.Duration

	stopChan chan struct{}
	stopOnce sync.Once

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher) error

// WithDebounce overrides the quiet period before a change fires.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) error {
		if d <= 0 {
			return fmt.Errorf("debounce must be positive, got %s", d)
		}
		w.debounce = d
		return nil
	}
}

// WithWatcherLogger sets the logger for watch events.
func WithWatcherLogger(logger *slog.Logger) WatcherOption {
	return func(w *Watcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		w.logger = logger
		return nil
	}
}

// NewWatcher watches dir for markdown changes. The onChange callback receives
// the path of the file that settled; deletions and renames also fire, since
// a removed document still requires a rebuild.
func NewWatcher(dir string, onChange func(path string), opts ...WatcherOption) (*Watcher, error) {
	if onChange == nil {
		return nil, ErrCallbackRequired
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create filesystem watcher: %w", err)
	}

	w := &Watcher{
		watcher:  fsw,
		onChange: onChange,
		logger:   slog.Default(),
		debounce: DefaultDebounce,
		stopChan: make(chan struct{}),
		timers:   make(map[string]*time.Timer),
	}

	for _, opt := range opts {
		if err := opt(w); err != nil {
			fsw.Close()
			return nil, err
		}
	}

	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	return w, nil
}

// Start begins delivering change notifications.
func (w *Watcher) Start() {
	go w.watchLoop()
	w.logger.Info("started content watcher", "debounce", w.debounce)
}

// Stop halts the watcher and cancels pending notifications. Safe to call
// more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopChan)
		w.watcher.Close()

		w.mu.Lock()
		for path, timer := range w.timers {
			timer.Stop()
			delete(w.timers, path)
		}
		w.mu.Unlock()

		w.logger.Info("stopped content watcher")
	})
}

func (w *Watcher) watchLoop() {
	for {
		select {
		case <-w.stopChan:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			if !strings.EqualFold(filepath.Ext(event.Name), ".md") {
				continue
			}

			if event.Has(fsnotify.Create) || event.Has(fsnotify.Write) ||
				event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				w.schedule(event.Name)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("watcher error", "error", err)
		}
	}
}

// schedule arms (or re-arms) the debounce timer for a path. The timer map is
// shared with the timer callbacks, so every touch holds the mutex.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, exists := w.timers[path]; exists {
		timer.Stop()
	}

	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()

		w.logger.Info("content changed", "path", path)
		w.onChange(path)
	})
}
