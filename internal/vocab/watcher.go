package vocab

import (
	"context"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher serves a registry that tracks the pack directory. Pack edits swap
// in a freshly compiled registry; a directory that fails to compile leaves
// the last good registry in place so a half-saved file cannot take down
// normalization.
type Watcher struct {
	dir      string
	logger   *zap.Logger
	current  atomic.Pointer[Registry]
	notifier *fsnotify.Watcher
	done     chan struct{}
}

const reloadDebounce = 500 * time.Millisecond

// Watch loads dir and begins tracking it. Close the context to stop.
func Watch(ctx context.Context, dir string, logger *zap.Logger) (*Watcher, error) {
	reg, err := LoadDir(dir)
	if err != nil {
		return nil, err
	}

	notifier, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := notifier.Add(dir); err != nil {
		_ = notifier.Close()
		return nil, err
	}

	w := &Watcher{
		dir:      dir,
		logger:   logger,
		notifier: notifier,
		done:     make(chan struct{}),
	}
	w.current.Store(reg)
	go w.run(ctx)
	return w, nil
}

// Registry returns the current registry. Safe for concurrent use; callers
// must not hold the pointer across requests if they want fresh mappings.
func (w *Watcher) Registry() *Registry {
	return w.current.Load()
}

// Done is closed once the watch loop has exited.
func (w *Watcher) Done() <-chan struct{} {
	return w.done
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.done)
	defer func() { _ = w.notifier.Close() }() // Best effort cleanup

	var debounce *time.Timer
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.notifier.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			if !strings.HasSuffix(filepath.Base(event.Name), ".toml") {
				continue
			}
			// Debounce rapid changes (editors fire several events per save)
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(reloadDebounce, w.reload)
		case err, ok := <-w.notifier.Errors:
			if !ok {
				return
			}
			w.logger.Warn("vocab watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) reload() {
	reg, err := LoadDir(w.dir)
	if err != nil {
		w.logger.Error("vocab reload failed, keeping previous packs",
			zap.String("dir", w.dir), zap.Error(err))
		return
	}
	w.current.Store(reg)
	w.logger.Info("vocab packs reloaded",
		zap.String("dir", w.dir), zap.Int("packs", reg.Len()))
}
