package model

// Spoken countdown bounds, inclusive, in remaining seconds.
const (
	SpokenCountdownUpper uint8 = 5
	SpokenCountdownLower uint8 = 1
)

// TimerConfig contains runtime settings for the timer state machine.
type TimerConfig struct {
	// SpokenCountdown announces the last seconds of a countdown while no
	// minutes remain.
	SpokenCountdown bool
	SpokenFrom      uint8
	SpokenTo        uint8
}

// DefaultTimerConfig returns the configuration used when no settings exist.
func DefaultTimerConfig() TimerConfig {
	return TimerConfig{
		SpokenCountdown: true,
		SpokenFrom:      SpokenCountdownUpper,
		SpokenTo:        SpokenCountdownLower,
	}
}

// Speaks reports whether a remaining value of 0 minutes and the given seconds
// falls inside the spoken window.
func (config TimerConfig) Speaks(seconds int) bool {
	if !config.SpokenCountdown {
		return false
	}
	return seconds >= int(config.SpokenTo) && seconds <= int(config.SpokenFrom)
}
