package timer

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

var (
	// ErrInvalidTransition indicates a command that is not permitted from the
	// current state.
	ErrInvalidTransition = errors.New("invalid transition")
	// ErrZeroDuration indicates a start request without any time on it.
	ErrZeroDuration = errors.New("zero duration")
	// ErrClosed indicates the engine has been shut down.
	ErrClosed = errors.New("timer closed")
)

// State represents the current timer mode.
type State string

const (
	StateInactive State = "Inactive"
	StateActive   State = "Active"
	StateRinging  State = "Ringing"
)

// Command drives transitions between states.
type Command string

const (
	CommandStart   Command = "Start"
	CommandStop    Command = "Stop"
	CommandRemind  Command = "Remind"
	CommandDismiss Command = "Dismiss"
)

// ExposedCommandFor returns the single command a user may invoke in state.
func ExposedCommandFor(state State) Command {
	switch state {
	case StateActive:
		return CommandStop
	case StateRinging:
		return CommandDismiss
	default:
		return CommandStart
	}
}

type transitionKey struct {
	from State
	via  Command
}

type transition struct {
	to     State
	ignore bool
}

// Pairs missing from the table are invalid.
var transitions = map[transitionKey]transition{
	{StateInactive, CommandStart}:  {to: StateActive},
	{StateInactive, CommandStop}:   {ignore: true},
	{StateActive, CommandStart}:    {ignore: true},
	{StateActive, CommandStop}:     {to: StateInactive},
	{StateActive, CommandRemind}:   {to: StateRinging},
	{StateRinging, CommandRemind}:  {ignore: true},
	{StateRinging, CommandDismiss}: {to: StateInactive},
}

func lookupTransition(from State, via Command) (transition, error) {
	next, ok := transitions[transitionKey{from: from, via: via}]
	if !ok {
		return transition{}, fmt.Errorf("cannot transition from %s via %s: %w", from, via, ErrInvalidTransition)
	}
	return next, nil
}

// Remaining is a countdown value with one-second resolution.
type Remaining struct {
	Minutes int
	Seconds int
}

// RemainingFrom splits a duration into whole minutes and seconds.
// Negative durations are clamped to zero.
func RemainingFrom(value time.Duration) Remaining {
	if value < 0 {
		value = 0
	}
	total := int(value / time.Second)
	return Remaining{Minutes: total / 60, Seconds: total % 60}
}

// Duration returns the remaining time as a duration.
func (remaining Remaining) Duration() time.Duration {
	return time.Duration(remaining.Minutes)*time.Minute + time.Duration(remaining.Seconds)*time.Second
}

// IsZero reports whether no time remains.
func (remaining Remaining) IsZero() bool {
	return remaining.Minutes == 0 && remaining.Seconds == 0
}

// Format renders the value as MM<separator>SS.
func (remaining Remaining) Format(separator string) string {
	return fmt.Sprintf("%02d%s%02d", remaining.Minutes, separator, remaining.Seconds)
}

// Sound identifies a playable sound asset.
type Sound string

// SoundAlarm is looped while the timer rings.
const SoundAlarm Sound = "Alarm"

// CountdownSound returns the spoken sound for a remaining seconds value.
func CountdownSound(seconds int) Sound {
	return Sound(strconv.Itoa(seconds))
}

// Sounder receives playback intents. Implementations must not block and must
// not call back into the engine.
type Sounder interface {
	Play(sound Sound, looped bool)
	StopCurrent()
}
