package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Service defines OS-specific helpers needed by the application.
type Service interface {
	ConfigDir() (string, error)
	AutostartEnabled(appName string) (bool, error)
	SetAutostart(appName, execPath string, enabled bool) error
}

type platformService struct{}

// NewService returns a platform-specific implementation.
func NewService() Service {
	return &platformService{}
}

// ConfigDir returns the OS-standard configuration directory.
func (service *platformService) ConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err == nil && configDir != "" {
		return configDir, nil
	}

	homeDir, homeErr := os.UserHomeDir()
	if homeErr != nil {
		if err != nil {
			return "", fmt.Errorf("get config dir: %w", err)
		}
		return "", fmt.Errorf("get config dir: %w", homeErr)
	}

	return fallbackConfigDir(homeDir), nil
}

// SetAutostart installs or removes the login entry for appName. Both
// directions are idempotent.
func (service *platformService) SetAutostart(appName, execPath string, enabled bool) error {
	if appName == "" {
		return fmt.Errorf("set autostart: app name is empty")
	}
	if !enabled {
		if err := service.removeAutostart(appName); err != nil {
			return fmt.Errorf("disable autostart: %w", err)
		}
		return nil
	}
	if execPath == "" {
		return fmt.Errorf("enable autostart: exec path is empty")
	}
	if err := service.installAutostart(appName, execPath); err != nil {
		return fmt.Errorf("enable autostart: %w", err)
	}
	return nil
}

// AppDir returns the per-application directory inside the config dir.
func AppDir(service Service, appName string) (string, error) {
	configDir, err := service.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, appName), nil
}

func slug(appName string) string {
	name := strings.TrimSpace(appName)
	if name == "" {
		name = "teatimer"
	}
	name = strings.ToLower(name)
	return strings.ReplaceAll(name, " ", "-")
}
