package main

import (
	"errors"
	"os"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"

	"teatimer/internal/audio"
	"teatimer/internal/core/model"
	"teatimer/internal/core/timer"
	xlog "teatimer/internal/log"
	"teatimer/internal/platform"
	"teatimer/internal/storage"
	"teatimer/internal/ui/preferences"
	"teatimer/internal/ui/timerwindow"
	"teatimer/internal/ui/tray"
	"teatimer/resources"
)

const appName = "TeaTimer"

func main() {
	xlog.Configure(xlog.Config{Level: os.Getenv("TEATIMER_LOG_LEVEL")})
	logger := xlog.WithComponent("main")

	guard, err := platform.AcquireSingleInstance(appName)
	if err != nil {
		if errors.Is(err, platform.ErrAlreadyRunning) {
			logger.Info().Str(xlog.FieldEvent, "app.already_running").Msg("raised running instance")
			return
		}
		logger.Error().Err(err).Msg("single instance")
		return
	}
	defer func() {
		_ = guard.Release()
	}()

	service := platform.NewService()
	appDir, err := platform.AppDir(service, appName)
	if err != nil {
		logger.Error().Err(err).Msg("resolve config dir")
		return
	}
	settingsPath := storage.SettingsPath(appDir)
	settings, err := storage.LoadSettings(settingsPath)
	if err != nil {
		logger.Warn().Err(err).Str(xlog.FieldPath, settingsPath).Msg("using default settings")
	}

	fyneApp := app.NewWithID("com.teatimer.app")
	desktopApp, ok := fyneApp.(desktop.App)
	if !ok {
		logger.Error().Msg("system tray unsupported on this platform")
		return
	}

	engine := timer.New(settings.TimerConfig(), timer.Config{})
	sounds := resources.NewSounds(os.DirFS(soundsDir(appDir, settings)))
	if missing := sounds.Missing(soundNames()...); len(missing) > 0 {
		logger.Warn().
			Strs("missing", missing).
			Str(xlog.FieldPath, soundsDir(appDir, settings)).
			Msg("sound assets not found")
	}
	backend := audio.NewBeepBackend(sounds)
	if err := backend.Init(); err != nil {
		logger.Warn().Err(err).Msg("audio output unavailable")
	}
	if err := backend.Preload(allSounds()...); err != nil {
		logger.Debug().Err(err).Msg("preload sounds")
	}
	player := audio.NewManager(backend)
	engine.SetSounder(player)

	presenter := timerwindow.NewPresenter(engine, separatorFor(settings))
	timerWindow := timerwindow.New(fyneApp, presenter)
	timerWindow.SetDefaults(settings.DefaultMinutes, settings.DefaultSeconds)

	var prefsWindow *preferences.Window
	apply := func(updated preferences.Settings) {
		settings = updated
		engine.UpdateConfig(settings.TimerConfig())
		presenter.SetSeparator(separatorFor(settings))
		timerWindow.SetDefaults(settings.DefaultMinutes, settings.DefaultSeconds)
		timerWindow.Refresh()
		syncAutostart(service, settings)
	}
	prefsWindow = preferences.New(fyneApp, settings, func(updated preferences.Settings) {
		apply(updated)
		if err := storage.SaveSettings(settingsPath, updated); err != nil {
			logger.Error().Err(err).Str(xlog.FieldPath, settingsPath).Msg("save settings")
		}
	})
	syncAutostart(service, settings)

	var watcher *storage.Watcher
	if err := os.MkdirAll(appDir, 0o755); err != nil {
		logger.Warn().Err(err).Msg("create config dir")
	} else {
		watcher, err = storage.WatchSettings(settingsPath, func(updated preferences.Settings) {
			fyne.Do(func() {
				if updated == settings {
					return
				}
				apply(updated)
				prefsWindow.UpdateSettings(updated)
			})
		})
		if err != nil {
			logger.Warn().Err(err).Msg("settings reload disabled")
		}
	}

	trayManager := tray.New(desktopApp, tray.Callbacks{
		OnShowTimer:   timerWindow.Show,
		OnPerform:     timerWindow.PerformExposedCommand,
		OnPreferences: prefsWindow.Show,
		OnQuit:        fyneApp.Quit,
	})
	updateTray := func() {
		view := presenter.View()
		trayManager.SetStatus(tray.Status{
			State:     string(view.State),
			Remaining: view.Remaining,
			Action:    view.Action,
		})
	}

	events := engine.Subscribe(16)
	go func() {
		for event := range events {
			fyne.Do(func() {
				timerWindow.Refresh()
				updateTray()
				if event.Type == timer.EventStateChange && event.State == timer.StateRinging {
					timerWindow.Show()
				}
			})
		}
	}()

	guard.Serve(func() {
		fyne.Do(timerWindow.Show)
	})

	fyneApp.Lifecycle().SetOnStopped(func() {
		timerWindow.Close()
		engine.Close()
		player.Close()
		if watcher != nil {
			_ = watcher.Close()
		}
		logger.Info().Str(xlog.FieldEvent, "app.stopped").Msg("shutdown complete")
	})

	logger.Info().Str(xlog.FieldEvent, "app.started").Str(xlog.FieldPath, appDir).Msg("TeaTimer running")
	timerWindow.Show()
	fyneApp.Run()
}

func soundsDir(appDir string, settings preferences.Settings) string {
	if settings.SoundsDir != "" {
		return settings.SoundsDir
	}
	return filepath.Join(appDir, "sounds")
}

func allSounds() []timer.Sound {
	sounds := []timer.Sound{timer.SoundAlarm}
	for seconds := int(model.SpokenCountdownLower); seconds <= int(model.SpokenCountdownUpper); seconds++ {
		sounds = append(sounds, timer.CountdownSound(seconds))
	}
	return sounds
}

func soundNames() []string {
	var names []string
	for _, sound := range allSounds() {
		names = append(names, string(sound))
	}
	return names
}

func separatorFor(settings preferences.Settings) string {
	if settings.TimeSeparator != "" {
		return settings.TimeSeparator
	}
	return platform.TimeSeparator()
}

func syncAutostart(service platform.Service, settings preferences.Settings) {
	logger := xlog.WithComponent("platform")
	enabled, err := service.AutostartEnabled(appName)
	if err == nil && enabled == settings.LaunchAtLogin {
		return
	}

	execPath, err := os.Executable()
	if err != nil {
		logger.Warn().Err(err).Msg("resolve executable")
		return
	}
	if err := service.SetAutostart(appName, execPath, settings.LaunchAtLogin); err != nil {
		logger.Warn().Err(err).Msg("update autostart")
	}
}
