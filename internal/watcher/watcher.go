// Package watcher reports batches of source file changes for watch mode.
package watcher

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Event represents a file change event.
type Event struct {
	Path string
	Op   string // "create", "write", "remove"
}

// DefaultDebounce is the quiet period after the last event before a batch is
// delivered.
const DefaultDebounce = 200 * time.Millisecond

// Watcher watches directories (not recursively) for changes to files with
// the given extensions and delivers them in debounced batches.
type Watcher struct {
	dirs       []string
	extensions []string // e.g., [".vue", ".ts"]
	debounce   time.Duration
	onChange   func(events []Event)
	logger     *slog.Logger

	mu      sync.Mutex
	pending []Event
	timer   *time.Timer
	stopped bool
	stopCh  chan struct{}
	done    chan struct{}
	fs      *fsnotify.Watcher
}

// New creates a new file watcher. Duplicate directories are watched once.
func New(dirs []string, extensions []string, debounce time.Duration, onChange func(events []Event)) *Watcher {
	unique := make([]string, 0, len(dirs))
	for _, d := range dirs {
		d = filepath.Clean(d)
		if !slices.Contains(unique, d) {
			unique = append(unique, d)
		}
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		dirs:       unique,
		extensions: extensions,
		debounce:   debounce,
		onChange:   onChange,
		logger:     slog.New(slog.DiscardHandler),
		stopCh:     make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// SetLogger sets the logger for watcher errors and raw events.
func (w *Watcher) SetLogger(logger *slog.Logger) {
	w.logger = logger
}

// Dirs returns the watched directories.
func (w *Watcher) Dirs() []string {
	return w.dirs
}

// Start registers the directories and processes events in the background
// until Stop is called.
func (w *Watcher) Start() error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	for _, dir := range w.dirs {
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		fw.Close()
		return fmt.Errorf("watcher already stopped")
	}
	w.fs = fw
	w.mu.Unlock()

	go w.loop(fw)
	return nil
}

// Watch starts the watcher and blocks until Stop is called.
func (w *Watcher) Watch() error {
	if err := w.Start(); err != nil {
		return err
	}
	<-w.done
	return nil
}

// Stop stops the watcher and drops undelivered events. It is safe to call
// more than once.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	w.stopped = true
	close(w.stopCh)
	if w.timer != nil {
		w.timer.Stop()
	}
	w.pending = nil
	if w.fs == nil {
		close(w.done)
	}
}

func (w *Watcher) loop(fw *fsnotify.Watcher) {
	defer close(w.done)
	defer fw.Close()
	for {
		select {
		case <-w.stopCh:
			return
		case ev, ok := <-fw.Events:
			if !ok {
				return
			}
			if e, ok := w.translate(ev); ok {
				w.logger.Debug("file event", "op", e.Op, "file", e.Path)
				w.enqueue(e)
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			w.logger.Error("file watcher error", "error", err)
		}
	}
}

// translate maps a raw event to an Event, dropping files with other
// extensions and attribute-only changes.
func (w *Watcher) translate(ev fsnotify.Event) (Event, bool) {
	if !w.matches(ev.Name) {
		return Event{}, false
	}
	switch {
	case ev.Has(fsnotify.Create):
		return Event{Path: ev.Name, Op: "create"}, true
	case ev.Has(fsnotify.Write):
		return Event{Path: ev.Name, Op: "write"}, true
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		return Event{Path: ev.Name, Op: "remove"}, true
	}
	return Event{}, false
}

func (w *Watcher) matches(path string) bool {
	return slices.Contains(w.extensions, filepath.Ext(path))
}

// enqueue adds e to the pending batch and restarts the debounce timer.
func (w *Watcher) enqueue(e Event) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	w.pending = append(w.pending, e)
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		pending := w.pending
		w.pending = nil
		w.mu.Unlock()
		if len(pending) > 0 {
			w.onChange(pending)
		}
	})
}
