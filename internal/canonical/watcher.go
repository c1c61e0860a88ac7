package canonical

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const reloadDebounce = 200 * time.Millisecond

// Watcher reloads a Normalizer whenever its corrections file changes.
// The parent directory is watched so editors that replace the file by rename
// are still picked up.
type Watcher struct {
	path       string
	normalizer *Normalizer
	logger     *zap.Logger
	watcher    *fsnotify.Watcher
	done       chan struct{}

	// Reloaded receives the table size after each successful reload. Optional.
	Reloaded chan int
	// OnReload is called with the renames implied by each reload, before
	// Reloaded is signalled. Optional.
	OnReload func(ctx context.Context, renames []Rename)
}

// NewWatcher prepares a watcher for path.
func NewWatcher(path string, normalizer *Normalizer, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		path:       abs,
		normalizer: normalizer,
		logger:     logger,
		watcher:    fw,
		done:       make(chan struct{}),
	}, nil
}

// Start begins watching until ctx is cancelled or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		_ = w.watcher.Close()
		return err
	}
	go w.loop(ctx)
	return nil
}

// Stop closes the watcher and waits for the loop to exit.
func (w *Watcher) Stop() {
	_ = w.watcher.Close()
	<-w.done
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.done)

	var pending time.Time
	ticker := time.NewTicker(reloadDebounce / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = w.watcher.Close()
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				pending = time.Now()
			}
		case <-ticker.C:
			if pending.IsZero() || time.Since(pending) < reloadDebounce {
				continue
			}
			pending = time.Time{}
			w.reload(ctx)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("corrections watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) reload(ctx context.Context) {
	renames, err := w.normalizer.LoadFile(w.path)
	if err != nil {
		// Keep the previous table; a half-written file will trigger another event.
		w.logger.Warn("corrections reload failed", zap.String("path", w.path), zap.Error(err))
		return
	}
	size := w.normalizer.Len()
	w.logger.Info("corrections reloaded", zap.String("path", w.path), zap.Int("entries", size), zap.Int("renames", len(renames)))
	if w.OnReload != nil && len(renames) > 0 {
		w.OnReload(ctx, renames)
	}
	if w.Reloaded != nil {
		select {
		case w.Reloaded <- size:
		default:
		}
	}
}
