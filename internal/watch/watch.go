// Package watch re-runs a callback when documents under a directory change.
package watch

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/goliatone/go-doclint/internal/collector"
	"github.com/goliatone/go-doclint/internal/logging"
	"github.com/goliatone/go-doclint/pkg/interfaces"
)

// DefaultDebounce groups rapid saves into one batch.
const DefaultDebounce = 300 * time.Millisecond

// Config configures a Watcher.
type Config struct {
	Root       string
	Extensions []string
	Ignore     []string
	Debounce   time.Duration
	Logger     interfaces.Logger
}

// Handler receives the changed paths of one debounced batch, sorted.
type Handler func(ctx context.Context, changed []string) error

// Watcher observes Root and every directory below it.
type Watcher struct {
	cfg     Config
	fsw     *fsnotify.Watcher
	ignore  map[string]struct{}
	logger  interfaces.Logger
	pending map[string]struct{}
}

// New starts watching cfg.Root recursively. The returned Watcher must be
// drained with Run, which releases the underlying notifier.
func New(cfg Config) (*Watcher, error) {
	if strings.TrimSpace(cfg.Root) == "" {
		cfg.Root = "."
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		cfg:     cfg,
		fsw:     fsw,
		ignore:  map[string]struct{}{},
		logger:  logging.Ensure(cfg.Logger),
		pending: map[string]struct{}{},
	}
	for _, name := range cfg.Ignore {
		w.ignore[name] = struct{}{}
	}
	if err := w.addTree(cfg.Root); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return w, nil
}

// Run delivers batches to fn until ctx is done. Errors from fn are logged and
// do not stop the watcher.
func (w *Watcher) Run(ctx context.Context, fn Handler) error {
	defer w.fsw.Close()

	timer := time.NewTimer(w.cfg.Debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if w.handle(event) {
				timer.Reset(w.cfg.Debounce)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watch.notifier.error", "error", err)
		case <-timer.C:
			batch := w.drain()
			if len(batch) == 0 {
				continue
			}
			w.logger.Debug("watch.batch", "files", len(batch))
			if err := fn(ctx, batch); err != nil {
				w.logger.Error("watch.handler.failed", "error", err)
			}
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addTree(event.Name); err != nil {
				w.logger.Warn("watch.add.failed", "path", event.Name, "error", err)
			}
			return false
		}
	}
	if len(collector.FilterByExtension([]string{event.Name}, w.cfg.Extensions...)) == 0 {
		return false
	}
	w.pending[event.Name] = struct{}{}
	return true
}

func (w *Watcher) drain() []string {
	out := make([]string, 0, len(w.pending))
	for name := range w.pending {
		out = append(out, name)
	}
	clear(w.pending)
	sort.Strings(out)
	return out
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(current string, d fs.DirEntry, err error) error {
		if err != nil {
			if current == root {
				return err
			}
			w.logger.Warn("watch.entry.skipped", "path", current, "error", err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if current != root {
			if _, skip := w.ignore[d.Name()]; skip {
				return filepath.SkipDir
			}
		}
		if err := w.fsw.Add(current); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		return nil
	})
}
