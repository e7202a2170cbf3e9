package resources

import (
	"errors"
	"fmt"
	"io/fs"
	"sync"
)

const soundExtension = ".flac"

// Sounds loads sound assets by name from a file system. Loaded files are
// cached for the lifetime of the loader.
type Sounds struct {
	fsys  fs.FS
	cache sync.Map
}

// NewSounds creates a loader reading <name>.flac files from fsys.
func NewSounds(fsys fs.FS) *Sounds {
	return &Sounds{fsys: fsys}
}

// FileName returns the asset file name for a sound.
func FileName(name string) string {
	return name + soundExtension
}

// Sound returns the raw bytes of the named sound.
func (sounds *Sounds) Sound(name string) ([]byte, error) {
	path := FileName(name)
	if cached, ok := sounds.cache.Load(path); ok {
		return cached.([]byte), nil
	}

	data, err := fs.ReadFile(sounds.fsys, path)
	if err != nil {
		return nil, fmt.Errorf("load sound %s: %w", path, err)
	}

	sounds.cache.Store(path, data)
	return data, nil
}

// Missing returns the names among names that have no asset file.
func (sounds *Sounds) Missing(names ...string) []string {
	var missing []string
	for _, name := range names {
		if _, err := fs.Stat(sounds.fsys, FileName(name)); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				missing = append(missing, name)
			}
		}
	}
	return missing
}
