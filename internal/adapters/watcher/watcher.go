// Package watcher turns raw file system notifications into settled,
// ignore-filtered changes delivered one at a time.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/engine/debounce"
	"go.trai.ch/zerr"
)

var _ ports.Watcher = (*Watcher)(nil)

const settledBuffer = 256

// Config configures a Watcher.
type Config struct {
	// Root is the directory watched recursively.
	Root string
	// Ignore lists the rules a settled path is checked against. Dotfiles
	// are always ignored.
	Ignore []domain.IgnoreRule
	// Debounce is the per-path settle window. Defaults to domain.DefaultPathDebounce.
	Debounce time.Duration
	// Recorder receives superseded ticket counts. Optional.
	Recorder ports.Recorder
}

// Watcher watches a directory tree. Raw events are debounced per path; a
// path that settles is checked against the ignore rules and handed to the
// single consumer in settlement order.
type Watcher struct {
	root     string
	rules    []domain.IgnoreRule
	debounce time.Duration
	logger   ports.Logger
	recorder ports.Recorder
	queue    *debounce.Queue[string]

	settled   chan ports.WatchEvent
	done      chan struct{}
	closeOnce sync.Once

	mu        sync.Mutex
	fsWatcher *fsnotify.Watcher

	// dirs maps every watched directory to its real path. gone holds
	// directories removed since, whose late removal events are dropped.
	dirMu sync.Mutex
	dirs  map[string]string
	gone  map[string]struct{}
}

// New creates a Watcher. No file system work happens until Start.
func New(cfg Config, logger ports.Logger) *Watcher {
	if cfg.Debounce <= 0 {
		cfg.Debounce = domain.DefaultPathDebounce
	}
	if cfg.Recorder == nil {
		cfg.Recorder = ports.NopRecorder{}
	}
	root := cfg.Root
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	return &Watcher{
		root:     root,
		rules:    cfg.Ignore,
		debounce: cfg.Debounce,
		logger:   logger,
		recorder: cfg.Recorder,
		queue:    debounce.New[string](),
		settled:  make(chan ports.WatchEvent, settledBuffer),
		done:     make(chan struct{}),
		dirs:     make(map[string]string),
		gone:     make(map[string]struct{}),
	}
}

// Start registers every non-ignored directory below the root and begins
// processing raw events. It returns once watching is live.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed() {
		return domain.ErrWatcherClosed
	}
	if w.fsWatcher != nil {
		return nil
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return zerr.Wrap(err, domain.ErrWatcherStartFailed.Error())
	}
	if err := w.addTree(fsw, w.root); err != nil {
		_ = fsw.Close()
		return zerr.With(zerr.Wrap(err, domain.ErrWatcherStartFailed.Error()), "root", w.root)
	}
	w.fsWatcher = fsw

	go w.processEvents(ctx, fsw)
	return nil
}

// Events yields settled changes in settlement order until the watcher is
// closed. It must have a single consumer.
func (w *Watcher) Events() iter.Seq[ports.WatchEvent] {
	return func(yield func(ports.WatchEvent) bool) {
		for {
			select {
			case <-w.done:
				return
			case ev := <-w.settled:
				if !yield(ev) {
					return
				}
			}
		}
	}
}

// Serve runs onChange for every settled change until ctx is cancelled or
// the watcher is closed. The next handler starts only after the previous
// one returned. Handler errors and panics are logged and swallowed.
func (w *Watcher) Serve(ctx context.Context, onChange ports.ChangeHandler) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case ev := <-w.settled:
			w.dispatch(ctx, onChange, ev)
		}
	}
}

// Watch starts the watcher and serves onChange in the background.
func (w *Watcher) Watch(ctx context.Context, onChange ports.ChangeHandler) error {
	if err := w.Start(ctx); err != nil {
		return err
	}
	go w.Serve(ctx, onChange)
	return nil
}

// ShouldIgnore reports whether a change at path would be dropped.
func (w *Watcher) ShouldIgnore(path string) bool {
	return domain.MatchAny(w.rules, path, w.rel(path))
}

// Close stops watching and drops every pending path ticket. It is safe to
// call more than once.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		w.queue.Close()

		w.mu.Lock()
		defer w.mu.Unlock()
		if w.fsWatcher != nil {
			err = w.fsWatcher.Close()
		}
	})
	return err
}

func (w *Watcher) dispatch(ctx context.Context, onChange ports.ChangeHandler, ev ports.WatchEvent) {
	defer func() {
		if r := recover(); r != nil {
			err := zerr.With(domain.ErrChangeHandlerFailed, "panic", fmt.Sprint(r))
			w.logger.Error(zerr.With(err, "path", ev.Path))
		}
	}()
	if err := onChange(ctx, ev); err != nil {
		w.logger.Error(zerr.With(zerr.Wrap(err, domain.ErrChangeHandlerFailed.Error()), "path", ev.Path))
	}
}

func (w *Watcher) closed() bool {
	select {
	case <-w.done:
		return true
	default:
		return false
	}
}

func (w *Watcher) processEvents(ctx context.Context, fsw *fsnotify.Watcher) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			w.handleRaw(fsw, event)
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn(fmt.Sprintf("file watcher error: %v", err))
		}
	}
}

func (w *Watcher) handleRaw(fsw *fsnotify.Watcher, event fsnotify.Event) {
	path := filepath.Clean(event.Name)

	switch {
	case event.Has(fsnotify.Create):
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			// Files created together with the directory may predate the watch.
			if err := w.addTree(fsw, path); err != nil {
				w.logger.Warn(fmt.Sprintf("failed to watch new directory %s: %v", path, err))
			}
			return
		}
		w.clearGone(path)
		w.ingest(ports.OpAdded, path)
	case event.Has(fsnotify.Write):
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			return
		}
		w.ingest(ports.OpModified, path)
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		if w.forgetDir(path) {
			return
		}
		w.ingest(ports.OpRemoved, path)
	}
}

// ingest feeds one raw change into the path debounce. When the path settles
// it is filtered and queued for the consumer.
func (w *Watcher) ingest(op ports.WatchOp, path string) {
	w.queue.TickFunc(path, w.debounce, func(settled bool) {
		if !settled {
			if !w.closed() {
				w.recorder.IncSuperseded("path")
			}
			return
		}
		if w.ShouldIgnore(path) {
			return
		}
		select {
		case w.settled <- ports.WatchEvent{Path: path, Op: op}:
		case <-w.done:
		}
	})
}

// addTree watches dir and every directory below it that is not ignored.
// Symlinked directories are followed; a directory whose real path is
// already watched is not added again.
func (w *Watcher) addTree(fsw *fsnotify.Watcher, dir string) error {
	realPath, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return err
	}
	if !w.trackDir(dir, realPath) {
		return nil
	}
	if err := fsw.Add(dir); err != nil {
		w.forgetDir(dir)
		return zerr.With(zerr.Wrap(err, "failed to watch directory"), "dir", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		isDir := entry.IsDir()
		if entry.Type()&fs.ModeSymlink != 0 {
			info, err := os.Stat(path)
			if err != nil {
				// Dangling link.
				continue
			}
			isDir = info.IsDir()
		}
		if !isDir || w.skipDir(path) {
			continue
		}
		if err := w.addTree(fsw, path); err != nil {
			if errors.Is(err, fs.ErrPermission) || errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return err
		}
	}
	return nil
}

// trackDir records dir as watched. It returns false when dir or another
// directory with the same real path is already watched.
func (w *Watcher) trackDir(dir, realPath string) bool {
	w.dirMu.Lock()
	defer w.dirMu.Unlock()
	if _, ok := w.dirs[dir]; ok {
		return false
	}
	for _, r := range w.dirs {
		if r == realPath {
			return false
		}
	}
	w.dirs[dir] = realPath
	delete(w.gone, dir)
	return true
}

// forgetDir drops dir and everything below it from the watched set. It
// reports whether dir was a watched directory.
func (w *Watcher) forgetDir(dir string) bool {
	w.dirMu.Lock()
	defer w.dirMu.Unlock()
	_, ok := w.dirs[dir]
	if _, removed := w.gone[dir]; removed {
		ok = true
	}
	prefix := dir + string(filepath.Separator)
	for d := range w.dirs {
		if d == dir || strings.HasPrefix(d, prefix) {
			delete(w.dirs, d)
			w.gone[d] = struct{}{}
		}
	}
	return ok
}

func (w *Watcher) clearGone(path string) {
	w.dirMu.Lock()
	defer w.dirMu.Unlock()
	delete(w.gone, path)
}

// skipDir reports whether a directory is excluded from watching. Predicate
// rules only apply to settled files.
func (w *Watcher) skipDir(path string) bool {
	rel := w.rel(path)
	if domain.IsDotfile(rel) {
		return true
	}
	slashRel := filepath.ToSlash(rel)
	for _, rule := range w.rules {
		if rule.Kind() == domain.IgnorePredicate {
			continue
		}
		if rule.Match(path, slashRel) || rule.Match(path+"/", slashRel+"/") {
			return true
		}
	}
	return false
}

func (w *Watcher) rel(path string) string {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return path
	}
	return rel
}
