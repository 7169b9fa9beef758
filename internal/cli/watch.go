package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounce lets editors finish writing before the file is reloaded.
const debounce = 100 * time.Millisecond

// RunWatch renders the last file of opts, then re-renders it into the same container
// every time it changes, printing the new state. It returns when ctx is done.
// A file that fails to load or render is reported and the previous commit stays on screen.
func RunWatch(ctx context.Context, opts RenderOptions, w io.Writer) error {
	if len(opts.Files) == 0 {
		return errors.New("no tree files given")
	}
	if err := checkFormat(opts.Format); err != nil {
		return err
	}
	logger := createLogger(opts.Debug)
	e := newEnv(opts, logger)

	for _, f := range opts.Files {
		if err := e.renderFile(ctx, f); err != nil {
			return err
		}
	}
	if err := e.write(ctx, w, opts.Format, opts.Color); err != nil {
		return err
	}

	path, err := filepath.Abs(opts.Files[len(opts.Files)-1])
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory: editors often replace the file instead of writing it.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	logger.Info("Starting Watcher", "path", path)
	printSystemMessage(w, "Watching '%s'.", filepath.Base(path))

	var timer <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			logger.Info("Stopping watcher")
			return nil
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error", "err", err)
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			timer = time.After(debounce)
		case <-timer:
			timer = nil
			printSystemMessage(w, "Change detected in '%s'.", filepath.Base(path))
			if err := e.renderFile(ctx, path); err != nil {
				logger.Error("Reload failed", "err", err)
				printSystemMessage(w, "Reload failed: %v", err)
				continue
			}
			if err := e.write(ctx, w, opts.Format, opts.Color); err != nil {
				return err
			}
		}
	}
}
