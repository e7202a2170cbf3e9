package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
	"gopkg.in/yaml.v3"

	xlog "teatimer/internal/log"
	"teatimer/internal/ui/preferences"
)

const settingsFileName = "settings.yaml"

type yamlSettings struct {
	DefaultMinutes  *int   `yaml:"default_minutes,omitempty"`
	DefaultSeconds  *int   `yaml:"default_seconds,omitempty"`
	SpokenCountdown *bool  `yaml:"spoken_countdown,omitempty"`
	LaunchAtLogin   bool   `yaml:"launch_at_login"`
	SoundsDir       string `yaml:"sounds_dir,omitempty"`
	TimeSeparator   string `yaml:"time_separator,omitempty"`
}

// SettingsPath returns the settings file location inside appDir.
func SettingsPath(appDir string) string {
	return filepath.Join(appDir, settingsFileName)
}

// LoadSettings reads user preferences from YAML.
// If the file does not exist, default settings are returned.
func LoadSettings(path string) (preferences.Settings, error) {
	settings := preferences.DefaultSettings()

	rawData, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	return settings, nil
}

// SaveSettings atomically replaces the YAML settings file.
func SaveSettings(path string, settings preferences.Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	minutes := int(settings.DefaultMinutes)
	seconds := int(settings.DefaultSeconds)
	spoken := settings.SpokenCountdown
	fileData := yamlSettings{
		DefaultMinutes:  &minutes,
		DefaultSeconds:  &seconds,
		SpokenCountdown: &spoken,
		LaunchAtLogin:   settings.LaunchAtLogin,
		SoundsDir:       settings.SoundsDir,
		TimeSeparator:   settings.TimeSeparator,
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	pendingFile, err := renameio.NewPendingFile(path, renameio.WithPermissions(0o644))
	if err != nil {
		return fmt.Errorf("create pending settings file: %w", err)
	}
	defer func() {
		if err := pendingFile.Cleanup(); err != nil {
			logger := xlog.WithComponent("storage")
			logger.Debug().Err(err).Str(xlog.FieldPath, path).Msg("cleanup pending settings file")
		}
	}()

	if _, err := pendingFile.Write(serialized); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}
	if err := pendingFile.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("replace settings file: %w", err)
	}

	return nil
}

func applyYamlSettings(settings *preferences.Settings, fileData yamlSettings) {
	if fileData.DefaultMinutes != nil && *fileData.DefaultMinutes >= 0 && *fileData.DefaultMinutes <= 255 {
		settings.DefaultMinutes = uint8(*fileData.DefaultMinutes)
	}
	if fileData.DefaultSeconds != nil && *fileData.DefaultSeconds >= 0 && *fileData.DefaultSeconds <= 59 {
		settings.DefaultSeconds = uint8(*fileData.DefaultSeconds)
	}
	if fileData.SpokenCountdown != nil {
		settings.SpokenCountdown = *fileData.SpokenCountdown
	}

	settings.LaunchAtLogin = fileData.LaunchAtLogin
	settings.SoundsDir = fileData.SoundsDir
	settings.TimeSeparator = fileData.TimeSeparator
}
