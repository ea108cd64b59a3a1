package config

import (
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/teranos/winrtgen/errors"
	"github.com/teranos/winrtgen/logger"
)

// DefaultDebounce collapses bursts of file events into one change.
const DefaultDebounce = 300 * time.Millisecond

// ChangeCallback is called with the files that changed since the last call.
type ChangeCallback func(changed []string) error

// Watcher watches metadata snapshots and config files for changes. It
// watches the parent directories so editors that replace files on save are
// still noticed.
type Watcher struct {
	watcher  *fsnotify.Watcher
	files    map[string]bool
	debounce time.Duration

	mu        sync.Mutex
	callbacks []ChangeCallback
	pending   map[string]bool
	timer     *time.Timer
	stopped   bool

	// inflight counts fire calls that are running callbacks.
	inflight sync.WaitGroup
	done     chan struct{}
}

// NewWatcher watches the given files.
func NewWatcher(debounce time.Duration, files ...string) (*Watcher, error) {
	if len(files) == 0 {
		return nil, errors.NewInvalidInputf("nothing to watch")
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}

	w := &Watcher{
		watcher:  fw,
		files:    make(map[string]bool, len(files)),
		debounce: debounce,
		pending:  make(map[string]bool),
		done:     make(chan struct{}),
	}

	dirs := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			fw.Close()
			return nil, errors.Wrapf(err, "resolving %s", f)
		}
		w.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, errors.Wrapf(err, "failed to watch %s", dir)
		}
	}
	return w, nil
}

// OnChange registers a callback.
func (w *Watcher) OnChange(cb ChangeCallback) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, cb)
}

// Start begins watching in the background.
func (w *Watcher) Start() {
	go w.watchLoop()
}

// Stop ends watching and waits for the event loop and any running callbacks
// to finish. Pending changes are dropped.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	w.stopped = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	err := w.watcher.Close()
	<-w.done
	w.inflight.Wait()
	return err
}

func (w *Watcher) watchLoop() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if isBackupFile(event.Name) {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || !w.files[abs] {
				continue
			}
			logger.Debugw("Watcher detected change",
				logger.FieldFile, abs,
				logger.FieldOperation, event.Op.String())
			w.schedule(abs)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warnw("Watcher error", logger.FieldError, err.Error())
		}
	}
}

// schedule records a change and restarts the debounce timer.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}

	w.pending[path] = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.fire)
}

func (w *Watcher) fire() {
	w.mu.Lock()
	if w.stopped || len(w.pending) == 0 {
		w.mu.Unlock()
		return
	}
	changed := make([]string, 0, len(w.pending))
	for p := range w.pending {
		changed = append(changed, p)
	}
	sort.Strings(changed)
	w.pending = make(map[string]bool)
	callbacks := append([]ChangeCallback(nil), w.callbacks...)
	// Counted under mu so a concurrent Stop waits for it.
	w.inflight.Add(1)
	w.mu.Unlock()
	defer w.inflight.Done()

	logger.Infow("Watched files changed", logger.FieldCount, len(changed))
	for _, cb := range callbacks {
		if err := cb(changed); err != nil {
			// Remaining callbacks still run.
			logger.Warnw("Change callback failed", logger.FieldError, err.Error())
		}
	}
}

func isBackupFile(path string) bool {
	ext := filepath.Ext(path)
	return strings.HasPrefix(ext, ".back")
}
