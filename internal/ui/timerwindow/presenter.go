package timerwindow

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"teatimer/internal/core/timer"
	xlog "teatimer/internal/log"
)

// ErrInvalidInput reports a duration field that is not a number from 0 to 255.
var ErrInvalidInput = errors.New("enter a whole number from 0 to 255")

// Engine is the part of the timer the window drives.
type Engine interface {
	Snapshot() timer.Snapshot
	PerformExposed(minutes, seconds uint8) (timer.Command, error)
}

// View is everything the window renders for one engine snapshot.
type View struct {
	State         timer.State
	Remaining     string
	Action        string
	InputsEnabled bool
	Flashing      bool
}

// Presenter turns engine snapshots into views and user input into commands.
type Presenter struct {
	engine    Engine
	logger    zerolog.Logger
	mu        sync.Mutex
	separator string
}

// NewPresenter creates a presenter rendering remaining time with separator.
func NewPresenter(engine Engine, separator string) *Presenter {
	if separator == "" {
		separator = ":"
	}
	return &Presenter{
		engine:    engine,
		logger:    xlog.WithComponent("ui"),
		separator: separator,
	}
}

// SetSeparator changes the minutes/seconds separator.
func (presenter *Presenter) SetSeparator(separator string) {
	if separator == "" {
		separator = ":"
	}
	presenter.mu.Lock()
	presenter.separator = separator
	presenter.mu.Unlock()
}

// View renders the current engine state.
func (presenter *Presenter) View() View {
	snapshot := presenter.engine.Snapshot()
	presenter.mu.Lock()
	separator := presenter.separator
	presenter.mu.Unlock()

	return View{
		State:         snapshot.State,
		Remaining:     snapshot.Remaining.Format(separator),
		Action:        string(snapshot.ExposedCommand),
		InputsEnabled: snapshot.ExposedCommand == timer.CommandStart,
		Flashing:      snapshot.State == timer.StateRinging,
	}
}

// PerformExposedCommand runs the single command currently offered to the
// user. The inputs are read only when that command is Start: an all-zero
// duration is ignored and a field that is not a number from 0 to 255 is
// rejected with ErrInvalidInput.
func (presenter *Presenter) PerformExposedCommand(minutesInput, secondsInput string) error {
	snapshot := presenter.engine.Snapshot()

	var minutes, seconds uint8
	if snapshot.ExposedCommand == timer.CommandStart {
		var err error
		if minutes, err = ParseInput(minutesInput); err != nil {
			return fmt.Errorf("minutes: %w", err)
		}
		if seconds, err = ParseInput(secondsInput); err != nil {
			return fmt.Errorf("seconds: %w", err)
		}
		if minutes == 0 && seconds == 0 {
			presenter.logger.Debug().
				Str(xlog.FieldEvent, "ui.empty_duration").
				Msg("ignoring start without duration")
			return nil
		}
	}

	command, err := presenter.engine.PerformExposed(minutes, seconds)
	if err != nil {
		event := presenter.logger.Error()
		if errors.Is(err, timer.ErrClosed) {
			event = presenter.logger.Warn()
		}
		event.Err(err).
			Str(xlog.FieldEvent, "ui.command_failed").
			Str(xlog.FieldVia, string(command)).
			Msg("perform exposed command")
	}
	return nil
}

// ParseInput converts a duration field to a byte. An empty field counts as
// zero.
func ParseInput(value string) (uint8, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	parsed, err := strconv.ParseUint(value, 10, 8)
	if err != nil {
		return 0, fmt.Errorf("%q: %w", value, ErrInvalidInput)
	}
	return uint8(parsed), nil
}
