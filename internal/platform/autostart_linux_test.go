//go:build linux

package platform

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAutostartRoundTrip(t *testing.T) {
	configDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configDir)
	service := NewService()

	enabled, err := service.AutostartEnabled("Tea Timer")
	require.NoError(t, err)
	assert.False(t, enabled)

	require.NoError(t, service.SetAutostart("Tea Timer", "/opt/tea timer/teatimer", true))

	enabled, err = service.AutostartEnabled("Tea Timer")
	require.NoError(t, err)
	assert.True(t, enabled)

	content, err := os.ReadFile(filepath.Join(configDir, "autostart", "tea-timer.desktop"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "Name=Tea Timer\n")
	assert.Contains(t, string(content), `Exec="/opt/tea timer/teatimer"`)

	require.NoError(t, service.SetAutostart("Tea Timer", "", false))
	require.NoError(t, service.SetAutostart("Tea Timer", "", false))

	enabled, err = service.AutostartEnabled("Tea Timer")
	require.NoError(t, err)
	assert.False(t, enabled)
}

func TestSetAutostartValidatesArguments(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	service := NewService()

	assert.Error(t, service.SetAutostart("", "/usr/bin/teatimer", true))
	assert.Error(t, service.SetAutostart("TeaTimer", "", true))
}

func TestAppDir(t *testing.T) {
	configDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configDir)

	dir, err := AppDir(NewService(), "TeaTimer")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(configDir, "TeaTimer"), dir)
}
