package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/renato0307/issuetree/internal/logging"
)

// reloadDebounce coalesces the burst of events editors emit on save
const reloadDebounce = 200 * time.Millisecond

// Watch reloads the settings file at path whenever it changes and passes the
// result to onChange. Invalid files are logged and ignored so the previous
// settings stay in effect. Blocks until ctx is done.
func Watch(ctx context.Context, path string, onChange func(*Settings)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create settings watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory: editors often replace the file instead of writing it
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		logging.Logger.Warn("Settings directory not watchable, live reload disabled",
			"dir", dir, "error", err)
		<-ctx.Done()
		return nil
	}
	logging.Logger.Info("Watching settings for changes", "path", path)

	var (
		timer  *time.Timer
		reload <-chan time.Time
	)
	name := filepath.Base(path)

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			logging.Logger.Debug("Settings file event", "op", event.Op.String(), "path", event.Name)
			if timer == nil {
				timer = time.NewTimer(reloadDebounce)
			} else {
				timer.Reset(reloadDebounce)
			}
			reload = timer.C

		case <-reload:
			reload = nil
			settings, err := LoadSettingsFrom(path)
			if err != nil {
				logging.Logger.Warn("Ignoring invalid settings change", "path", path, "error", err)
				continue
			}
			logging.Logger.Info("Settings reloaded", "path", path)
			onChange(settings)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logging.Logger.Warn("Settings watcher error", "error", err)
		}
	}
}
