package store

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/ansuz/internal/checksum"
)

// ReloadCallback is called after the watcher reloads the collection from
// an externally modified file.
type ReloadCallback func()

// Watch observes the collection file for external modifications (another
// process, a sync client) and reloads the store when one lands, until ctx
// is cancelled. Events are debounced because an atomic replace shows up
// as a burst, and the provider's last-written checksum is used to ignore
// the store's own saves.
//
// The parent directory is watched rather than the file itself: the
// rename-based save cycle would otherwise detach the watch.
func Watch(ctx context.Context, s *Store, provider *File, logger *slog.Logger, cb ReloadCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	dir := filepath.Dir(provider.Path())
	if err := w.Add(dir); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("file", provider.Path()))

	var debounce *time.Timer
	var debounceCh <-chan time.Time

	schedule := func() {
		if debounce == nil {
			debounce = time.NewTimer(200 * time.Millisecond)
			debounceCh = debounce.C
		} else {
			debounce.Reset(200 * time.Millisecond)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-debounceCh:
			reloadIfChanged(s, provider, logger, cb)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Name != provider.Path() {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0 {
				schedule()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// reloadIfChanged reloads the store unless the on-disk bytes are the ones
// this process wrote last.
func reloadIfChanged(s *Store, provider *File, logger *slog.Logger, cb ReloadCallback) {
	data, err := os.ReadFile(provider.Path())
	if err != nil {
		logger.Warn("watcher: read failed", slog.String("error", err.Error()))
		return
	}
	if checksum.Sum(data) == provider.LastChecksum() {
		return // our own save
	}

	if err := s.Reload(); err != nil {
		logger.Warn("watcher: reload failed", slog.String("error", err.Error()))
		return
	}
	logger.Info("watcher: collection reloaded from disk")
	if cb != nil {
		cb()
	}
}
