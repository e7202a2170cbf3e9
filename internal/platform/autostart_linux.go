//go:build linux

package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (service *platformService) AutostartEnabled(appName string) (bool, error) {
	path, err := service.desktopEntryPath(appName)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("stat desktop entry: %w", err)
	}
	return true, nil
}

func (service *platformService) installAutostart(appName, execPath string) error {
	path, err := service.desktopEntryPath(appName)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create autostart dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(buildDesktopEntry(appName, execPath)), 0o644); err != nil {
		return fmt.Errorf("write desktop entry: %w", err)
	}
	return nil
}

func (service *platformService) removeAutostart(appName string) error {
	path, err := service.desktopEntryPath(appName)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove desktop entry: %w", err)
	}
	return nil
}

func (service *platformService) desktopEntryPath(appName string) (string, error) {
	configDir, err := service.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "autostart", slug(appName)+".desktop"), nil
}

func fallbackConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config")
}

func buildDesktopEntry(appName, execPath string) string {
	execLine := execPath
	if strings.Contains(execLine, " ") && !strings.HasPrefix(execLine, `"`) {
		execLine = `"` + execLine + `"`
	}

	var entry strings.Builder
	entry.WriteString("[Desktop Entry]\n")
	entry.WriteString("Type=Application\n")
	fmt.Fprintf(&entry, "Name=%s\n", appName)
	entry.WriteString("Comment=Countdown timer with a spoken finish\n")
	fmt.Fprintf(&entry, "Exec=%s\n", execLine)
	entry.WriteString("X-GNOME-Autostart-enabled=true\n")
	entry.WriteString("Terminal=false\n")
	return entry.String()
}
