package timer

import "time"

// Ticker delivers periodic ticks until stopped.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// Clock provides time-related operations so tests can drive the countdown.
type Clock interface {
	Now() time.Time
	NewTicker(interval time.Duration) Ticker
}

// SystemClock is the default Clock implementation using the standard library.
var SystemClock Clock = systemClock{}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

func (systemClock) NewTicker(interval time.Duration) Ticker {
	return systemTicker{ticker: time.NewTicker(interval)}
}

type systemTicker struct {
	ticker *time.Ticker
}

func (ticker systemTicker) C() <-chan time.Time { return ticker.ticker.C }
func (ticker systemTicker) Stop()               { ticker.ticker.Stop() }
