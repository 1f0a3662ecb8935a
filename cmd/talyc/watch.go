package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// runWatch recompiles opts.InputPath every time a write or create event
// arrives for that file, until ctx is canceled. It watches the file's
// directory, since editors commonly replace a file via rename+write rather
// than an in-place write, but events for other files there are ignored. It never recompiles
// incrementally — every change re-runs the whole pipeline from scratch,
// honoring the non-goal that excludes incremental compilation from the
// compiler's internals while still letting the CLI loop.
func runWatch(ctx context.Context, opts compileOptions) int {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		fmt.Fprintf(os.Stderr, "talyc: starting file watcher: %v\n", err)
		return ExitIOFailure
	}
	defer watcher.Close()

	dir := filepath.Dir(opts.InputPath)
	if err := watcher.Add(dir); err != nil {
		fmt.Fprintf(os.Stderr, "talyc: watching %s: %v\n", dir, err)
		return ExitIOFailure
	}

	target, err := filepath.Abs(opts.InputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "talyc: resolving %s: %v\n", opts.InputPath, err)
		return ExitIOFailure
	}

	fmt.Fprintf(os.Stderr, "talyc: watching %s (ctrl-c to stop)\n", opts.InputPath)
	lastCode := runOnce(opts)

	for {
		select {
		case <-ctx.Done():
			return lastCode
		case ev, ok := <-watcher.Events:
			if !ok {
				return lastCode
			}
			abs, err := filepath.Abs(ev.Name)
			if err != nil || abs != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			fmt.Fprintf(os.Stderr, "talyc: %s changed, recompiling\n", opts.InputPath)
			lastCode = runOnce(opts)
		case err, ok := <-watcher.Errors:
			if !ok {
				return lastCode
			}
			fmt.Fprintf(os.Stderr, "talyc: watcher error: %v\n", err)
		}
	}
}
