package confloader

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/yndnr/contacts-cli/internal/telemetry/logger"
)

// defaultDebounce coalesces the burst of events editors emit on save.
const defaultDebounce = 100 * time.Millisecond

// Watcher reports changes to watched configuration files.
type Watcher struct {
	watcher  *fsnotify.Watcher
	logger   logger.Logger
	debounce time.Duration

	mu        sync.RWMutex
	files     map[string]struct{}
	callbacks []func(string)

	stopOnce sync.Once
	done     chan struct{}
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithWatcherLogger sets the logger.
func WithWatcherLogger(l logger.Logger) WatcherOption {
	return func(w *Watcher) {
		w.logger = l
	}
}

// WithDebounce sets the quiet period before a change is reported.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// NewWatcher creates a watcher. Call Watch, OnChange and StartAsync.
func NewWatcher(opts ...WatcherOption) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		watcher:  fw,
		logger:   logger.Default(),
		debounce: defaultDebounce,
		files:    make(map[string]struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Watch starts watching path. The parent directory is watched so that
// editors that save by rename are still seen.
func (w *Watcher) Watch(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(abs)
	if err := w.watcher.Add(dir); err != nil {
		w.logger.Warn("cannot watch config directory", "path", dir, "error", err)
		return err
	}

	w.mu.Lock()
	w.files[abs] = struct{}{}
	w.mu.Unlock()

	w.logger.Debug("watching config file", "path", abs)
	return nil
}

// OnChange registers fn, called with the path of a changed file.
func (w *Watcher) OnChange(fn func(string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, fn)
}

// Start processes events until Stop is called.
func (w *Watcher) Start() {
	pending := make(map[string]struct{})
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			name := filepath.Clean(event.Name)
			if !w.watched(name) {
				continue
			}
			pending[name] = struct{}{}
			timer.Reset(w.debounce)

		case <-timer.C:
			for name := range pending {
				w.logger.Debug("config file changed", "path", name)
				w.notify(name)
			}
			clear(pending)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("config watcher error", "error", err)

		case <-w.done:
			return
		}
	}
}

// StartAsync runs Start in a goroutine.
func (w *Watcher) StartAsync() {
	go w.Start()
}

// Stop stops the watcher. It is safe to call more than once.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) watched(name string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	_, ok := w.files[name]
	return ok
}

func (w *Watcher) notify(path string) {
	w.mu.RLock()
	callbacks := append([]func(string){}, w.callbacks...)
	w.mu.RUnlock()
	for _, fn := range callbacks {
		fn(path)
	}
}
