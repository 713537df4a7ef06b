package watch

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/tidy/internal/logger"
)

// DefaultDebounce is the quiet period before a reload is triggered.
const DefaultDebounce = 250 * time.Millisecond

// DefaultMinInterval is the minimum spacing between two reloads. Every
// execution rewrites the task document, so busy schedules would otherwise
// reload continuously.
const DefaultMinInterval = time.Second

const (
	restartBackoffBase = 250 * time.Millisecond
	restartBackoffMax  = 5 * time.Second
)

// ReloadFunc is called after the watched file changed.
type ReloadFunc func(ctx context.Context) error

// Watcher calls a ReloadFunc when a file changes.
type Watcher struct {
	path     string
	dir      string
	file     string
	reload   ReloadFunc
	debounce time.Duration
	limiter  *rate.Limiter

	mu    sync.Mutex
	timer *time.Timer
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period. Non-positive values are ignored.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithMinInterval sets the minimum spacing between reloads. Non-positive
// values are ignored.
func WithMinInterval(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.limiter = rate.NewLimiter(rate.Every(d), 1)
		}
	}
}

// New creates a Watcher for path.
func New(path string, reload ReloadFunc, opts ...Option) (*Watcher, error) {
	if path == "" {
		return nil, errors.New("watch path is required")
	}
	if reload == nil {
		return nil, errors.New("reload function is required")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		path:     abs,
		dir:      filepath.Dir(abs),
		file:     filepath.Base(abs),
		reload:   reload,
		debounce: DefaultDebounce,
		limiter:  rate.NewLimiter(rate.Every(DefaultMinInterval), 1),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Path returns the watched file.
func (w *Watcher) Path() string {
	return w.path
}

// Watch blocks until ctx is done. A broken fsnotify watcher is recreated
// with backoff.
func (w *Watcher) Watch(ctx context.Context) error {
	defer w.cancelPending()

	backoff := restartBackoffBase
	for {
		if ctx.Err() != nil {
			return nil
		}

		err := w.run(ctx)
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			logger.Warn("watch: %v; restarting in %s", err, backoff)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, restartBackoffMax)
	}
}

// run serves one fsnotify watcher until it breaks or ctx ends.
func (w *Watcher) run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return err
	}
	logger.Debug("watch: watching %s", w.path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return errors.New("event channel closed")
			}
			if w.matches(ev.Name) && ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0 {
				w.schedule(ctx)
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return errors.New("error channel closed")
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				logger.Warn("watch: event overflow; forcing reload")
				w.schedule(ctx)
				continue
			}
			logger.Warn("watch: %v", err)
		}
	}
}

// matches accepts the file itself and sidecars named "<file>-*"
// (SQLite keeps its write-ahead log in "<file>-wal").
func (w *Watcher) matches(name string) bool {
	base := filepath.Base(name)
	return base == w.file || strings.HasPrefix(base, w.file+"-")
}

func (w *Watcher) schedule(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		if err := w.limiter.Wait(ctx); err != nil {
			return
		}
		if err := w.reload(ctx); err != nil {
			logger.Warn("watch: reload of %s failed: %v", w.path, err)
		}
	})
}

func (w *Watcher) cancelPending() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}
