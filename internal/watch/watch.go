// Package watch notifies when the recipe collection changes on disk, so an
// open view can refresh after another process edits the store.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/hammamikhairi/recipebox/internal/logger"
)

// DefaultDebounce coalesces the burst of events a single save produces.
const DefaultDebounce = 250 * time.Millisecond

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before a change is reported.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// Watcher reports changes to a single file.
type Watcher struct {
	path     string
	log      *logger.Logger
	watcher  *fsnotify.Watcher
	debounce time.Duration

	changes chan struct{}
	pending chan struct{}
	stop    chan struct{}
	once    sync.Once
}

// New creates a watcher for path. The file does not need to exist yet.
func New(path string, log *logger.Logger, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve watch path: %w", err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	w := &Watcher{
		path:     abs,
		log:      log.Named("watch"),
		watcher:  fw,
		debounce: DefaultDebounce,
		changes:  make(chan struct{}, 1),
		pending:  make(chan struct{}, 1),
		stop:     make(chan struct{}),
	}
	for _, o := range opts {
		o(w)
	}
	return w, nil
}

// Changes delivers one value per settled burst of changes. Deliveries are
// coalesced while the receiver is busy.
func (w *Watcher) Changes() <-chan struct{} { return w.changes }

// Start watches the file's directory until ctx is done or Stop is called.
// Editors and atomic writers replace the file, so the directory is watched
// rather than the file itself.
func (w *Watcher) Start(ctx context.Context) error {
	dir := filepath.Dir(w.path)
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch directory %s: %w", dir, err)
	}
	w.log.Debug("watching %s", w.path)

	go w.watchLoop(ctx)
	go w.debounceLoop(ctx)
	return nil
}

// Stop ends watching. It is safe to call more than once.
func (w *Watcher) Stop() error {
	var err error
	w.once.Do(func() {
		close(w.stop)
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) watchLoop(ctx context.Context) {
	name := filepath.Base(w.path)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stop:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Rename) {
				w.log.Debug("change detected: %s", event)
				w.trigger()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("watcher error: %v", err)
		}
	}
}

func (w *Watcher) debounceLoop(ctx context.Context) {
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stop:
			return
		case <-w.pending:
			timer.Reset(w.debounce)
		case <-timer.C:
			select {
			case w.changes <- struct{}{}:
			default:
			}
		}
	}
}

func (w *Watcher) trigger() {
	select {
	case w.pending <- struct{}{}:
	default:
	}
}
