package timer

import "time"

// EventType defines the type of timer event.
type EventType string

const (
	EventStateChange EventType = "state_change"
	EventRemaining   EventType = "remaining"
)

// Event represents a timer update for observers.
type Event struct {
	Type           EventType
	State          State
	Via            Command
	ExposedCommand Command
	Remaining      Remaining
	At             time.Time
}

// Snapshot is a consistent view of the engine.
type Snapshot struct {
	State          State
	ExposedCommand Command
	Remaining      Remaining
}
