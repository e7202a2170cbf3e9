package storage

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	xlog "teatimer/internal/log"
	"teatimer/internal/ui/preferences"
)

const reloadDebounce = 250 * time.Millisecond

// Watcher reloads the settings file when it changes on disk.
type Watcher struct {
	path      string
	watcher   *fsnotify.Watcher
	onChange  func(preferences.Settings)
	logger    zerolog.Logger
	done      chan struct{}
	closeOnce sync.Once
}

// WatchSettings calls onChange with freshly loaded settings after every
// burst of writes to path. The parent directory is watched so atomic
// replacements are seen.
func WatchSettings(path string, onChange func(preferences.Settings)) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsWatcher.Add(filepath.Dir(path)); err != nil {
		_ = fsWatcher.Close()
		return nil, fmt.Errorf("watch settings dir: %w", err)
	}

	watcher := &Watcher{
		path:     filepath.Clean(path),
		watcher:  fsWatcher,
		onChange: onChange,
		logger:   xlog.WithComponent("storage"),
		done:     make(chan struct{}),
	}
	go watcher.loop()

	watcher.logger.Debug().
		Str(xlog.FieldEvent, "settings.watcher_started").
		Str(xlog.FieldPath, watcher.path).
		Msg("watching settings file")
	return watcher, nil
}

// Close stops watching and waits for the watch loop to exit.
func (watcher *Watcher) Close() error {
	var err error
	watcher.closeOnce.Do(func() {
		err = watcher.watcher.Close()
		<-watcher.done
	})
	return err
}

func (watcher *Watcher) loop() {
	defer close(watcher.done)

	var debounceTimer *time.Timer
	var debounce <-chan time.Time
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-watcher.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != watcher.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if debounceTimer == nil {
				debounceTimer = time.NewTimer(reloadDebounce)
			} else {
				debounceTimer.Reset(reloadDebounce)
			}
			debounce = debounceTimer.C

		case <-debounce:
			debounce = nil
			watcher.reload()

		case err, ok := <-watcher.watcher.Errors:
			if !ok {
				return
			}
			watcher.logger.Error().Err(err).
				Str(xlog.FieldEvent, "settings.watcher_error").
				Msg("settings watcher error")
		}
	}
}

func (watcher *Watcher) reload() {
	settings, err := LoadSettings(watcher.path)
	if err != nil {
		watcher.logger.Error().Err(err).
			Str(xlog.FieldEvent, "settings.reload_failed").
			Str(xlog.FieldPath, watcher.path).
			Msg("reload settings")
		return
	}
	watcher.logger.Info().
		Str(xlog.FieldEvent, "settings.reloaded").
		Str(xlog.FieldPath, watcher.path).
		Msg("settings reloaded")
	if watcher.onChange != nil {
		watcher.onChange(settings)
	}
}
