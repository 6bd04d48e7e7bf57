package vocabulary

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"resumeparser/internal/errors"
)

// Watcher reloads a vocabulary file into a Holder whenever it changes.
// A file that fails to parse is logged and the previous vocabulary stays live.
type Watcher struct {
	mu sync.Mutex

	path          string
	holder        *Holder
	fsWatcher     *fsnotify.Watcher
	debounceDelay time.Duration
	debounceTimer *time.Timer

	stopChan   chan struct{}
	reloadChan chan struct{}
	onReload   func(*Vocabulary)
	logger     *errors.Logger

	running bool
}

// NewWatcher creates a watcher for path. onReload may be nil.
func NewWatcher(path string, holder *Holder, debounceDelay time.Duration, onReload func(*Vocabulary), logger *errors.Logger) *Watcher {
	if debounceDelay == 0 {
		debounceDelay = 500 * time.Millisecond
	}
	return &Watcher{
		path:          path,
		holder:        holder,
		debounceDelay: debounceDelay,
		reloadChan:    make(chan struct{}, 1),
		onReload:      onReload,
		logger:        logger,
	}
}

// Start begins watching. The file's directory is watched so that editors
// replacing the file through a rename are noticed.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return fmt.Errorf("vocabulary watcher is already running")
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	dir := filepath.Dir(w.path)
	if err := fsWatcher.Add(dir); err != nil {
		_ = fsWatcher.Close()
		return fmt.Errorf("failed to watch directory %s: %w", dir, err)
	}

	w.fsWatcher = fsWatcher
	w.stopChan = make(chan struct{})
	w.running = true
	go w.watchLoop(fsWatcher, w.stopChan)

	if w.logger != nil {
		w.logger.Info("Vocabulary watcher started", "file", w.path, "debounce_delay", w.debounceDelay)
	}
	return nil
}

// Stop ends watching. It is safe to call more than once, and a stopped
// watcher may be started again.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return nil
	}
	close(w.stopChan)
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.running = false

	if err := w.fsWatcher.Close(); err != nil {
		if w.logger != nil {
			w.logger.LogError(err, "Failed to close vocabulary watcher")
		}
		return err
	}
	return nil
}

func (w *Watcher) watchLoop(fsWatcher *fsnotify.Watcher, stop <-chan struct{}) {
	for {
		select {
		case event, ok := <-fsWatcher.Events:
			if !ok {
				return
			}
			if w.shouldProcessEvent(event) {
				w.scheduleReload()
			}

		case err, ok := <-fsWatcher.Errors:
			if !ok {
				return
			}
			if w.logger != nil {
				w.logger.LogError(err, "Vocabulary watcher error")
			}

		case <-w.reloadChan:
			w.Reload()

		case <-stop:
			return
		}
	}
}

// Reload parses the file and publishes it on success.
func (w *Watcher) Reload() {
	v, err := Load(w.path)
	if err != nil {
		if w.logger != nil {
			w.logger.LogError(err, "Vocabulary reload failed, keeping previous vocabulary", "file", w.path)
		}
		return
	}

	w.holder.Set(v)
	if w.logger != nil {
		w.logger.Info("Vocabulary reloaded", "file", w.path, "stats", v.Stats())
	}
	if w.onReload != nil {
		w.onReload(v)
	}
}

func (w *Watcher) shouldProcessEvent(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != filepath.Clean(w.path) &&
		filepath.Base(event.Name) != filepath.Base(w.path) {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}

func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debounceDelay, func() {
		select {
		case w.reloadChan <- struct{}{}:
		default:
		}
	})
}
