package archive

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the live document must stay quiet before a
// watch pass runs.
const DefaultDebounce = 300 * time.Millisecond

// WatchOptions controls [Archiver.Watch].
type WatchOptions struct {
	Debounce time.Duration

	// OnPass is called after every pass with its result or error. A failed
	// pass does not stop the watch.
	OnPass func(Result, error)

	// OnError receives watcher errors.
	OnError func(error)

	// Logf is forwarded to each run.
	Logf func(format string, args ...any)
}

// Watch runs the archive once, then again whenever the live document is
// written, until ctx is done. Passes run with SkipUnchanged, so the watch's
// own rewrite of the live document settles after one extra no-op pass.
func (a *Archiver) Watch(ctx context.Context, opts WatchOptions) error {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Watch the directory: editors and atomic writers replace the file,
	// which would drop a watch on the file itself.
	dir := filepath.Dir(a.cfg.TodoFileAbs)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	pass := func() {
		res, runErr := a.Run(ctx, RunOptions{SkipUnchanged: true, Logf: opts.Logf})
		if opts.OnPass != nil {
			opts.OnPass(res, runErr)
		}
	}

	pass()

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)

	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if filepath.Clean(event.Name) != a.cfg.TodoFileAbs {
				continue
			}

			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			if timer == nil {
				timer = time.NewTimer(opts.Debounce)
			} else {
				timer.Reset(opts.Debounce)
			}

			fire = timer.C
		case <-fire:
			fire = nil

			pass()
		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			if opts.OnError != nil {
				opts.OnError(watchErr)
			}
		}
	}
}
