package resources

import (
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSoundLoadsAndCaches(t *testing.T) {
	fsys := fstest.MapFS{
		"Alarm.flac": &fstest.MapFile{Data: []byte("alarm")},
	}
	sounds := NewSounds(fsys)

	data, err := sounds.Sound("Alarm")
	require.NoError(t, err)
	assert.Equal(t, []byte("alarm"), data)

	delete(fsys, "Alarm.flac")
	data, err = sounds.Sound("Alarm")
	require.NoError(t, err)
	assert.Equal(t, []byte("alarm"), data)
}

func TestSoundMissing(t *testing.T) {
	sounds := NewSounds(fstest.MapFS{})

	_, err := sounds.Sound("3")

	require.ErrorIs(t, err, fs.ErrNotExist)
	assert.Contains(t, err.Error(), "3.flac")
}

func TestMissingListsAbsentAssets(t *testing.T) {
	sounds := NewSounds(fstest.MapFS{
		"Alarm.flac": &fstest.MapFile{Data: []byte("alarm")},
		"1.flac":     &fstest.MapFile{Data: []byte("one")},
	})

	assert.Equal(t, []string{"2"}, sounds.Missing("Alarm", "1", "2"))
}
