package loader

import (
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-anim/engine/model"
	"github.com/fsnotify/fsnotify"
)

// DefaultWatchDebounce is the quiet period a file must see before it is reloaded.
const DefaultWatchDebounce = 100 * time.Millisecond

// WatchEvent reports one hot-reload outcome.
type WatchEvent struct {
	// Path is the asset file that changed.
	Path string

	// Model is the freshly loaded model, or nil when the file was removed and forgotten.
	Model model.Model
}

// Watcher hot-reloads assets in a Loader when their files change on disk.
//
// Editors often save in several writes, so each path is reloaded once after DefaultWatchDebounce
// (or the configured debounce) of quiet. A file that no longer exists is forgotten, a new file in
// a watched directory is loaded, and a file that fails to load keeps its previous model. Outcomes
// are sent on Events and failures on Errors; both drop values rather than block when full.
type Watcher struct {
	loader   Loader
	watcher  *fsnotify.Watcher
	debounce time.Duration

	Events chan WatchEvent
	Errors chan error

	mu      sync.Mutex
	pending map[string]*time.Timer
	closed  bool

	closeCh chan struct{}
	doneCh  chan struct{}
	once    sync.Once
}

// NewWatcher starts watching directories and reloading their assets into a Loader.
//
// Parameters:
//   - l: the loader whose cache is kept current
//   - debounce: the quiet period before a reload, DefaultWatchDebounce when not positive
//   - dirs: the directories to watch
//
// Returns:
//   - *Watcher: the running watcher, stop it with Close
//   - error: error if a directory cannot be watched
func NewWatcher(l Loader, debounce time.Duration, dirs ...string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	if debounce <= 0 {
		debounce = DefaultWatchDebounce
	}

	watcher := &Watcher{
		loader:   l,
		watcher:  w,
		debounce: debounce,
		Events:   make(chan WatchEvent, 16),
		Errors:   make(chan error, 4),
		pending:  make(map[string]*time.Timer),
		closeCh:  make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

// Close stops watching, cancels pending reloads and closes Events and Errors.
//
// Returns:
//   - error: error from closing the underlying file watcher
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		w.mu.Lock()
		w.closed = true
		for path, t := range w.pending {
			t.Stop()
			delete(w.pending, path)
		}
		w.mu.Unlock()

		close(w.closeCh)
		err = w.watcher.Close()
		<-w.doneCh

		w.mu.Lock()
		close(w.Events)
		close(w.Errors)
		w.mu.Unlock()
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.doneCh)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if _, err := BackendTypeForPath(event.Name); err != nil {
				continue
			}
			w.schedule(event.Name)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.report(nil, err)
		case <-w.closeCh:
			return
		}
	}
}

// schedule restarts the debounce timer for a path.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	if t, ok := w.pending[path]; ok {
		t.Reset(w.debounce)
		return
	}
	w.pending[path] = time.AfterFunc(w.debounce, func() { w.apply(path) })
}

// apply reloads, loads or forgets a path once its debounce has elapsed.
func (w *Watcher) apply(path string) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	delete(w.pending, path)
	w.mu.Unlock()

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if w.loader.ForgetPath(path) {
			log.Printf("[Loader] forgot %s", path)
			w.report(&WatchEvent{Path: path}, nil)
		}
		return
	}

	var m model.Model
	var err error
	if w.loader.Loaded(path) {
		m, err = w.loader.Reload(path)
	} else {
		m, err = w.loader.Load(path)
	}
	if err != nil {
		log.Printf("[Loader] reload of %s failed: %v", path, err)
		w.report(nil, err)
		return
	}

	log.Printf("[Loader] reloaded %q from %s", m.Name(), path)
	w.report(&WatchEvent{Path: path, Model: m}, nil)
}

// report delivers an event or error without blocking. Nothing is sent after Close.
func (w *Watcher) report(event *WatchEvent, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	if event != nil {
		select {
		case w.Events <- *event:
		default:
		}
	}
	if err != nil {
		select {
		case w.Errors <- err:
		default:
		}
	}
}
