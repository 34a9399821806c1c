package main

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"

	"github.com/jingkaihe/skillcheck/pkg/logger"
	"github.com/jingkaihe/skillcheck/pkg/presenter"
	"github.com/jingkaihe/skillcheck/pkg/validator"
)

const watchDebounce = 300 * time.Millisecond

var watchIgnoreDirs = map[string]bool{".git": true, "node_modules": true}

// FileEvent is the last file system event of a debounced burst.
type FileEvent struct {
	Path string
	Op   fsnotify.Op
	Time time.Time
}

// watchAndValidate validates target once, then again after every burst of
// file changes below it, until ctx is cancelled or the process is signalled.
// A target that fails validation and cannot be watched ends the run with the
// exit code of that first report.
func watchAndValidate(ctx context.Context, w io.Writer, v *validator.Validator, target string, vc *ValidateConfig) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create file watcher")
	}
	defer watcher.Close()

	code, err := validateOnce(ctx, w, v, target, vc)
	if err != nil {
		return err
	}

	if err := addWatchDirs(watcher, target); err != nil {
		if code != exitOK {
			// The report already names the problem, e.g. a missing directory.
			logger.G(ctx).WithError(err).Debug("target cannot be watched")
			return &exitError{code: code}
		}
		return err
	}
	presenter.Info(fmt.Sprintf("Watching %s for changes, press Ctrl-C to stop", target))

	changes := make(chan FileEvent)
	go debounceEvents(ctx, watcher, changes, watchDebounce)

	for {
		select {
		case <-ctx.Done():
			logger.G(ctx).Debug("watch stopped")
			return nil
		case event := <-changes:
			logger.G(ctx).WithFields(map[string]interface{}{
				"file":      event.Path,
				"operation": event.Op.String(),
			}).Debug("file change detected")
			presenter.Separator()
			if _, err := validateOnce(ctx, w, v, target, vc); err != nil {
				presenter.Warning(fmt.Sprintf("validation failed: %v", err))
			}
		}
	}
}

// debounceEvents forwards the last event of each burst once no further event
// has arrived for delay. Newly created directories are added to the watch.
func debounceEvents(ctx context.Context, watcher *fsnotify.Watcher, output chan<- FileEvent, delay time.Duration) {
	var (
		timer *time.Timer
		fire  <-chan time.Time
		last  FileEvent
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := addWatchDirs(watcher, event.Name); err != nil {
						logger.G(ctx).WithError(err).Warn("failed to watch new directory")
					}
				}
			}

			last = FileEvent{Path: event.Name, Op: event.Op, Time: time.Now()}
			if timer == nil {
				timer = time.NewTimer(delay)
			} else {
				timer.Reset(delay)
			}
			fire = timer.C
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.G(ctx).WithError(err).Warn("file watcher error")
		case <-fire:
			fire = nil
			select {
			case output <- last:
			case <-ctx.Done():
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

// addWatchDirs watches root and every directory below it.
func addWatchDirs(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.IsDir() {
			return nil
		}
		if path != root && watchIgnoreDirs[entry.Name()] {
			return filepath.SkipDir
		}
		return errors.Wrapf(watcher.Add(path), "failed to watch %s", path)
	})
}
