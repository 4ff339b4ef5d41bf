package pack

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/singleflight"

	"github.com/yapb/amxx-release/internal/config"
)

const regenerateKey = "regenerate"

// Watcher monitors the build output directories and triggers packaging when a
// platform binary is written.
type Watcher struct {
	cfg      *config.Config
	logger   *slog.Logger
	Ready    chan struct{}
	Debounce time.Duration

	group      singleflight.Group
	pending    atomic.Bool
	newWatcher func() (*fsnotify.Watcher, error)
}

// NewWatcher creates a Watcher for the build directories named in cfg.
func NewWatcher(cfg *config.Config, logger *slog.Logger) *Watcher {
	return &Watcher{
		cfg:        cfg,
		logger:     logger.With("component", "watcher"),
		Ready:      make(chan struct{}),
		Debounce:   500 * time.Millisecond,
		newWatcher: fsnotify.NewWatcher,
	}
}

// Watch blocks until ctx is cancelled, calling regenerate after each burst of
// binary writes. Calls to regenerate never overlap; triggers that arrive while
// one is running cause exactly one more run once it returns.
func (w *Watcher) Watch(ctx context.Context, regenerate func(context.Context) error) error {
	watcher, err := w.newWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Build directories may not exist yet, so the root is watched too and
	// they are added as they appear.
	if err = watcher.Add(w.cfg.RootDir); err != nil {
		return err
	}
	for _, dir := range w.buildDirs() {
		if info, sErr := os.Stat(dir); sErr == nil && info.IsDir() {
			if err = watcher.Add(dir); err != nil {
				return err
			}
		}
	}

	w.logger.Info("Watching for new binaries", "root", w.cfg.RootDir)
	if w.Ready != nil {
		close(w.Ready)
	}

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-watcher.Errors:
			w.logger.Error("Watcher error", "error", err)
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !w.handleEvent(watcher, event) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.Debounce, func() {
				w.trigger(ctx, regenerate)
			})
		}
	}
}

func (w *Watcher) trigger(ctx context.Context, regenerate func(context.Context) error) {
	w.pending.Store(true)
	// A caller that joins a run which has already passed its last pending
	// check goes round again.
	for w.pending.Load() && ctx.Err() == nil {
		_, err, shared := w.group.Do(regenerateKey, func() (interface{}, error) {
			return nil, w.drain(ctx, regenerate)
		})
		if shared {
			w.logger.Debug("joined packaging run already in progress")
		}
		if err != nil {
			w.logger.Error("Packaging failed", "error", err)
		}
	}
}

// drain runs regenerate until no trigger is pending. Only the last error is
// returned; earlier ones are logged.
func (w *Watcher) drain(ctx context.Context, regenerate func(context.Context) error) error {
	var err error
	for w.pending.Swap(false) {
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			w.logger.Error("Packaging failed", "error", err)
		}
		err = regenerate(ctx)
	}
	return err
}

// handleEvent reports whether event should trigger packaging. A newly created
// build directory is added to the watcher.
func (w *Watcher) handleEvent(watcher *fsnotify.Watcher, event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}

	if event.Has(fsnotify.Create) && w.isBuildDir(event.Name) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := watcher.Add(event.Name); err != nil {
				w.logger.Error("Failed to watch build directory", "path", event.Name, "error", err)
			}
			// The binary may have landed before the directory was watched.
			return true
		}
	}

	for _, p := range w.cfg.Platforms {
		if filepath.Clean(event.Name) == w.cfg.SourcePath(p) {
			w.logger.Debug("binary changed", "platform", p.Name, "path", event.Name)
			return true
		}
	}
	return false
}

func (w *Watcher) buildDirs() []string {
	dirs := make([]string, 0, len(w.cfg.Platforms))
	for _, p := range w.cfg.Platforms {
		dirs = append(dirs, filepath.Dir(w.cfg.SourcePath(p)))
	}
	return dirs
}

func (w *Watcher) isBuildDir(path string) bool {
	path = filepath.Clean(path)
	for _, dir := range w.buildDirs() {
		if path == dir {
			return true
		}
	}
	return false
}
