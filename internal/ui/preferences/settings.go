package preferences

import (
	"teatimer/internal/core/model"
)

// Settings defines editable user preferences.
type Settings struct {
	DefaultMinutes  uint8
	DefaultSeconds  uint8
	SpokenCountdown bool
	LaunchAtLogin   bool

	// SoundsDir overrides the sound asset directory when non-empty.
	SoundsDir string
	// TimeSeparator overrides the locale separator when non-empty.
	TimeSeparator string
}

// DefaultSettings returns default settings for TeaTimer.
func DefaultSettings() Settings {
	return Settings{
		DefaultMinutes:  3,
		DefaultSeconds:  0,
		SpokenCountdown: true,
		LaunchAtLogin:   false,
	}
}

// TimerConfig converts settings to the engine configuration.
func (settings Settings) TimerConfig() model.TimerConfig {
	config := model.DefaultTimerConfig()
	config.SpokenCountdown = settings.SpokenCountdown
	return config
}
