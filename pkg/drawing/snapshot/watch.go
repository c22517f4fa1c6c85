package snapshot

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/marmos91/blockpurge/internal/logger"
)

// DefaultDebounce is how long Watch waits for writes to settle.
const DefaultDebounce = 500 * time.Millisecond

// Watch calls fn each time the export at path changes, after writes have
// been quiet for debounce. It blocks until ctx is done or fn returns an
// error, and runs fn on the calling goroutine.
//
// The parent directory is watched rather than the file, so editors that
// save by rename keep triggering events.
func Watch(ctx context.Context, path string, debounce time.Duration, fn func() error) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	dir := filepath.Dir(absPath)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	logger.Debug("Watching drawing export", logger.Path(absPath))

	base := filepath.Base(absPath)
	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			if event.Op.Has(fsnotify.Remove) {
				logger.Warn("Drawing export removed", logger.Path(event.Name))
				continue
			}
			if event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Rename) {
				timer.Reset(debounce)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Drawing watcher error", logger.Err(err))

		case <-timer.C:
			if err := fn(); err != nil {
				return err
			}
		}
	}
}
