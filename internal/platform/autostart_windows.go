//go:build windows

package platform

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

const registryRunKey = `HKCU\Software\Microsoft\Windows\CurrentVersion\Run`

func (service *platformService) AutostartEnabled(appName string) (bool, error) {
	// reg query exits non-zero when the value is absent.
	if err := exec.Command("reg", "query", registryRunKey, "/v", appName).Run(); err != nil {
		if _, ok := err.(*exec.ExitError); ok {
			return false, nil
		}
		return false, fmt.Errorf("reg query: %w", err)
	}
	return true, nil
}

func (service *platformService) installAutostart(appName, execPath string) error {
	return runReg("add", registryRunKey, "/v", appName, "/t", "REG_SZ", "/d", quoteWindowsPath(execPath), "/f")
}

func (service *platformService) removeAutostart(appName string) error {
	enabled, err := service.AutostartEnabled(appName)
	if err != nil || !enabled {
		return err
	}
	return runReg("delete", registryRunKey, "/v", appName, "/f")
}

func runReg(args ...string) error {
	output, err := exec.Command("reg", args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("reg %s failed: %w: %s", args[0], err, strings.TrimSpace(string(output)))
	}
	return nil
}

func fallbackConfigDir(homeDir string) string {
	return filepath.Join(homeDir, "AppData", "Roaming")
}

func quoteWindowsPath(execPath string) string {
	return `"` + strings.Trim(execPath, `"`) + `"`
}
