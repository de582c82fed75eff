// Package watch watches a directory tree for changes with fsnotify and
// drives incremental re-indexing: a created or modified file is
// re-analyzed through the caller's index function, and a removed file is
// deleted from the store through the caller's delete function. Rapid
// successive writes to the same path are debounced.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/cogfs/cogfs/internal/classify"
)

// defaultDebounce is used when Options.Debounce is zero.
const defaultDebounce = 500 * time.Millisecond

// IndexFunc (re-)indexes a single created or modified file.
type IndexFunc func(ctx context.Context, path string) error

// DeleteFunc removes a deleted file's documents from the store.
type DeleteFunc func(ctx context.Context, path string) error

// Options configures a Watcher run.
type Options struct {
	Debounce time.Duration
	Index    IndexFunc
	Delete   DeleteFunc
}

// Watcher watches base (and every non-protected subdirectory) for
// changes.
type Watcher struct {
	fw       *fsnotify.Watcher
	base     string
	opts     Options
	debounce time.Duration
}

// New creates a Watcher rooted at base.
func New(base string, opts Options) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	return &Watcher{fw: fw, base: filepath.Clean(base), opts: opts, debounce: debounce}, nil
}

// Run adds base and its subdirectories to the watch list and processes
// events until ctx is canceled or an unrecoverable error occurs.
func (w *Watcher) Run(ctx context.Context) error {
	if err := w.addDirRecursive(w.base); err != nil {
		return err
	}
	defer w.fw.Close()

	pending := make(map[string]*time.Timer)
	defer func() {
		for _, t := range pending {
			t.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ctx, event, pending)

		case err, ok := <-w.fw.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "watch: %v\n", err)
		}
	}
}

func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event, pending map[string]*time.Timer) {
	path := event.Name

	if event.Has(fsnotify.Create) {
		if fi, err := os.Stat(path); err == nil && fi.IsDir() {
			_ = w.addDirRecursive(path)
			return
		}
	}

	if classify.IsProtected(path, w.base) {
		return
	}

	switch {
	case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
		if t, ok := pending[path]; ok {
			t.Stop()
			delete(pending, path)
		}
		if w.opts.Delete != nil {
			if err := w.opts.Delete(ctx, path); err != nil {
				fmt.Fprintf(os.Stderr, "watch: delete %s: %v\n", path, err)
			}
		}

	case event.Has(fsnotify.Write) || event.Has(fsnotify.Create):
		if t, ok := pending[path]; ok {
			t.Stop()
		}
		pending[path] = time.AfterFunc(w.debounce, func() {
			if w.opts.Index == nil {
				return
			}
			if err := w.opts.Index(ctx, path); err != nil {
				fmt.Fprintf(os.Stderr, "watch: index %s: %v\n", path, err)
			}
		})
	}
}

// addDirRecursive adds dir and every non-protected subdirectory to the
// watcher.
func (w *Watcher) addDirRecursive(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	if err := w.fw.Add(dir); err != nil {
		return fmt.Errorf("watch: %s: %w", dir, err)
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		full := filepath.Join(dir, e.Name())
		if classify.IsProtected(full, w.base) || (strings.HasPrefix(e.Name(), ".") && full != w.base) {
			continue
		}
		if err := w.addDirRecursive(full); err != nil {
			fmt.Fprintf(os.Stderr, "watch: skip directory %s: %v\n", full, err)
		}
	}
	return nil
}
