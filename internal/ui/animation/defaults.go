package animation

import "time"

// DefaultConfig returns the flash rhythm used while the alarm rings.
func DefaultConfig() Config {
	return Config{
		Visible: 600 * time.Millisecond,
		Hidden:  400 * time.Millisecond,
	}
}
