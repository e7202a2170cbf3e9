package storage

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"teatimer/internal/ui/preferences"
)

func TestWatcherReloadsOnReplace(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	path := SettingsPath(t.TempDir())
	require.NoError(t, SaveSettings(path, preferences.DefaultSettings()))

	changes := make(chan preferences.Settings, 4)
	watcher, err := WatchSettings(path, func(settings preferences.Settings) {
		changes <- settings
	})
	require.NoError(t, err)

	updated := preferences.DefaultSettings()
	updated.DefaultMinutes = 5
	updated.SpokenCountdown = false
	require.NoError(t, SaveSettings(path, updated))

	select {
	case got := <-changes:
		assert.Equal(t, updated, got)
	case <-time.After(3 * time.Second):
		t.Fatal("settings change not observed")
	}

	require.NoError(t, watcher.Close())
	require.NoError(t, watcher.Close())
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	dir := t.TempDir()
	path := SettingsPath(dir)
	changes := make(chan preferences.Settings, 1)
	watcher, err := WatchSettings(path, func(settings preferences.Settings) {
		changes <- settings
	})
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(dir+"/notes.txt", []byte("darjeeling"), 0o644))

	select {
	case <-changes:
		t.Fatal("unexpected reload")
	case <-time.After(2 * reloadDebounce):
	}

	require.NoError(t, watcher.Close())
}

func TestWatchSettingsMissingDirectory(t *testing.T) {
	_, err := WatchSettings(t.TempDir()+"/absent/settings.yaml", nil)

	assert.Error(t, err)
}
