package registry

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/roach88/morphsynth/internal/compiler"
)

// DefaultDebounce batches rapid saves into one reload.
const DefaultDebounce = 250 * time.Millisecond

// ErrWatcherStopped is returned by Start after Stop.
var ErrWatcherStopped = errors.New("registry: watcher stopped")

// ReloadEvent reports one debounced reload.
type ReloadEvent struct {
	Trigger  string    // path of the last change in the batch
	Snapshot *Snapshot // published snapshot; unchanged on failure
	Errors   []error
}

// OK reports whether the reload was accepted.
func (e ReloadEvent) OK() bool { return len(e.Errors) == 0 }

// Watcher reloads a Registry when card files under a directory change.
type Watcher struct {
	mu       sync.Mutex
	fsw      *fsnotify.Watcher
	reg      *Registry
	dir      string
	debounce time.Duration
	logger   *slog.Logger
	reloads  chan ReloadEvent
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
	stopped  bool
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets the quiet period before a reload.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithWatcherLogger sets the watcher's logger.
func WithWatcherLogger(l *slog.Logger) WatcherOption {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// NewWatcher creates a watcher over dir for reg.
func NewWatcher(reg *Registry, dir string, opts ...WatcherOption) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		fsw:      fsw,
		reg:      reg,
		dir:      dir,
		debounce: DefaultDebounce,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		reloads:  make(chan ReloadEvent, 8),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Reloads delivers one event per debounced reload. The channel is closed
// when the watcher's loop exits. Events are dropped when nobody reads.
func (w *Watcher) Reloads() <-chan ReloadEvent {
	return w.reloads
}

// Start watches dir and every subdirectory. It is non-blocking.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return ErrWatcherStopped
	}
	if w.running {
		w.mu.Unlock()
		return nil // Already running
	}
	w.running = true
	w.mu.Unlock()

	err := filepath.WalkDir(w.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.fsw.Add(path)
		}
		return nil
	})
	if err != nil {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		return err
	}

	w.logger.Info("watching cards", "dir", w.dir, "debounce", w.debounce)
	go w.run(ctx)
	return nil
}

// Stop ends the loop, waits for it, and releases the fsnotify watcher.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	w.stopped = true
	wasRunning := w.running
	w.running = false
	w.mu.Unlock()

	if wasRunning {
		close(w.stopCh)
		<-w.doneCh
	} else {
		close(w.reloads)
	}

	if err := w.fsw.Close(); err != nil {
		w.logger.Error("closing watcher", "error", err)
	}
	w.logger.Info("watcher stopped", "dir", w.dir)
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)
	defer close(w.reloads)

	var (
		timer   *time.Timer
		timerC  <-chan time.Time
		trigger string
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watcher stopping: context cancelled")
			return

		case <-w.stopCh:
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			trigger = event.Name
			w.logger.Debug("card change", "path", event.Name, "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Stop()
				timer.Reset(w.debounce)
			}
			timerC = timer.C

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Error("watcher error", "error", err)

		case <-timerC:
			timerC = nil
			w.reload(trigger)
		}
	}
}

// relevant filters events to card files and tracks new subdirectories.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.fsw.Add(event.Name); err != nil {
				w.logger.Warn("watching new directory", "path", event.Name, "error", err)
			}
			return true
		}
	}
	if strings.HasPrefix(filepath.Base(event.Name), ".") {
		return false
	}
	if !compiler.IsCardFile(event.Name) {
		return false
	}
	return event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0
}

func (w *Watcher) reload(trigger string) {
	errs := w.reg.Reload(w.dir)
	ev := ReloadEvent{Trigger: trigger, Snapshot: w.reg.Current(), Errors: errs}
	if ev.OK() {
		w.logger.Info("reload accepted", "trigger", trigger, "cards", ev.Snapshot.Len())
	} else {
		w.logger.Warn("reload rejected", "trigger", trigger, "errors", len(errs))
	}

	select {
	case w.reloads <- ev:
	default:
		w.logger.Debug("reload event dropped: no reader", "trigger", trigger)
	}
}
