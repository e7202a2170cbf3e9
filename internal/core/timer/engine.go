package timer

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"teatimer/internal/core/model"
	xlog "teatimer/internal/log"
)

// Config contains runtime options for Engine.
type Config struct {
	TickInterval time.Duration
	Clock        Clock
}

// Engine is the countdown state machine. It owns the remaining time and
// decides which single command the user may invoke.
type Engine struct {
	mu         sync.Mutex
	config     model.TimerConfig
	options    Config
	logger     zerolog.Logger
	sounder    Sounder
	state      State
	exposed    Command
	remaining  time.Duration
	spoken     map[int]bool
	generation uint64
	stopCh     chan struct{}
	events     []chan Event
	closed     bool
	wg         sync.WaitGroup
}

// New creates an inactive Engine.
func New(config model.TimerConfig, options Config) *Engine {
	if options.TickInterval <= 0 {
		options.TickInterval = time.Second
	}
	if options.Clock == nil {
		options.Clock = SystemClock
	}

	return &Engine{
		config:  config,
		options: options,
		logger:  xlog.WithComponent("timer"),
		state:   StateInactive,
		exposed: ExposedCommandFor(StateInactive),
	}
}

// SetSounder injects the audio collaborator.
func (engine *Engine) SetSounder(sounder Sounder) {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	engine.sounder = sounder
}

// UpdateConfig replaces the runtime configuration. A running countdown keeps
// going; the new settings apply from the next tick.
func (engine *Engine) UpdateConfig(config model.TimerConfig) {
	engine.mu.Lock()
	engine.config = config
	engine.mu.Unlock()
}

// Subscribe registers a new observer channel. Delivery never blocks the
// engine; events are dropped for observers whose buffer is full.
func (engine *Engine) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	engine.mu.Lock()
	if engine.closed {
		close(ch)
	} else {
		engine.events = append(engine.events, ch)
	}
	engine.mu.Unlock()
	return ch
}

// State returns the current state.
func (engine *Engine) State() State {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.state
}

// ExposedCommand returns the command currently offered to the user.
func (engine *Engine) ExposedCommand() Command {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.exposed
}

// Remaining returns the time left on the countdown.
func (engine *Engine) Remaining() Remaining {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return RemainingFrom(engine.remaining)
}

// Snapshot returns state, exposed command and remaining time together.
func (engine *Engine) Snapshot() Snapshot {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.snapshotLocked()
}

// Start begins a countdown of minutes:seconds. Starting while a countdown
// is already running is ignored.
func (engine *Engine) Start(minutes, seconds uint8) error {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.closed {
		return ErrClosed
	}
	return engine.startLocked(minutes, seconds)
}

// PerformExposed executes the currently exposed command in one step, so a
// tick cannot change the exposed command between reading and firing it.
// minutes and seconds are only used when the exposed command is Start.
func (engine *Engine) PerformExposed(minutes, seconds uint8) (Command, error) {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.closed {
		return engine.exposed, ErrClosed
	}

	command := engine.exposed
	if command == CommandStart {
		return command, engine.startLocked(minutes, seconds)
	}
	return command, engine.fireLocked(command)
}

// Stop cancels a running countdown.
func (engine *Engine) Stop() error {
	return engine.Fire(CommandStop)
}

// Dismiss silences a ringing timer.
func (engine *Engine) Dismiss() error {
	return engine.Fire(CommandDismiss)
}

// Fire executes a parameterless command. Start carries a duration and must
// go through Start instead.
func (engine *Engine) Fire(command Command) error {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.closed {
		return ErrClosed
	}
	if command == CommandStart {
		return fmt.Errorf("fire %s without duration: %w", command, ErrInvalidTransition)
	}
	return engine.fireLocked(command)
}

// Tick advances the countdown by one step. It is a no-op outside Active.
func (engine *Engine) Tick() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	engine.tickLocked()
}

// Close cancels any scheduled ticks and closes observer channels.
func (engine *Engine) Close() {
	engine.mu.Lock()
	if engine.closed {
		engine.mu.Unlock()
		return
	}
	engine.closed = true
	engine.cancelScheduleLocked()
	events := engine.events
	engine.events = nil
	engine.mu.Unlock()

	engine.wg.Wait()
	for _, ch := range events {
		close(ch)
	}
}

func (engine *Engine) startLocked(minutes, seconds uint8) error {
	next, err := lookupTransition(engine.state, CommandStart)
	if err != nil {
		return err
	}
	if next.ignore {
		engine.logIgnoredLocked(CommandStart)
		return nil
	}
	if minutes == 0 && seconds == 0 {
		return fmt.Errorf("start timer: %w", ErrZeroDuration)
	}

	duration := time.Duration(minutes)*time.Minute + time.Duration(seconds)*time.Second
	engine.applyLocked(next, CommandStart, func() {
		engine.enterActiveLocked(duration)
	})
	return nil
}

func (engine *Engine) fireLocked(command Command) error {
	next, err := lookupTransition(engine.state, command)
	if err != nil {
		return err
	}
	if next.ignore {
		engine.logIgnoredLocked(command)
		return nil
	}

	var enter func()
	switch command {
	case CommandStop:
		enter = engine.enterStoppedLocked
	case CommandRemind:
		enter = engine.enterRingingLocked
	case CommandDismiss:
		enter = engine.enterDismissedLocked
	}
	engine.applyLocked(next, command, enter)
	return nil
}

// applyLocked updates the state first so entry actions and observers see it.
func (engine *Engine) applyLocked(next transition, via Command, enter func()) {
	from := engine.state
	engine.state = next.to
	engine.exposed = ExposedCommandFor(next.to)

	if enter != nil {
		enter()
	}

	engine.logger.Debug().
		Str(xlog.FieldEvent, "timer.transition").
		Str(xlog.FieldFrom, string(from)).
		Str(xlog.FieldTo, string(next.to)).
		Str(xlog.FieldVia, string(via)).
		Str(xlog.FieldRemaining, RemainingFrom(engine.remaining).Format(":")).
		Msg("transitioned")

	engine.emitLocked(Event{
		Type:           EventStateChange,
		State:          engine.state,
		Via:            via,
		ExposedCommand: engine.exposed,
		Remaining:      RemainingFrom(engine.remaining),
		At:             engine.options.Clock.Now(),
	})
}

func (engine *Engine) enterActiveLocked(duration time.Duration) {
	engine.remaining = duration
	engine.spoken = make(map[int]bool)
	engine.startScheduleLocked()
	engine.speakLocked()
}

func (engine *Engine) enterStoppedLocked() {
	engine.cancelScheduleLocked()
	engine.remaining = 0
	if engine.sounder != nil {
		engine.sounder.StopCurrent()
	}
}

func (engine *Engine) enterRingingLocked() {
	engine.cancelScheduleLocked()
	engine.remaining = 0
	if engine.sounder != nil {
		engine.sounder.Play(SoundAlarm, true)
	}
}

func (engine *Engine) enterDismissedLocked() {
	if engine.sounder != nil {
		engine.sounder.StopCurrent()
	}
}

func (engine *Engine) tickLocked() {
	if engine.state != StateActive {
		return
	}
	if engine.remaining > 0 {
		engine.remaining -= time.Second
		if engine.remaining < 0 {
			engine.remaining = 0
		}
		engine.emitLocked(Event{
			Type:           EventRemaining,
			State:          engine.state,
			ExposedCommand: engine.exposed,
			Remaining:      RemainingFrom(engine.remaining),
			At:             engine.options.Clock.Now(),
		})
		if engine.remaining > 0 {
			engine.speakLocked()
			return
		}
	}
	// Remind is always permitted from Active.
	_ = engine.fireLocked(CommandRemind)
}

func (engine *Engine) speakLocked() {
	if engine.sounder == nil || engine.state != StateActive {
		return
	}
	remaining := RemainingFrom(engine.remaining)
	if remaining.Minutes != 0 || !engine.config.Speaks(remaining.Seconds) {
		return
	}
	if engine.spoken[remaining.Seconds] {
		return
	}
	engine.spoken[remaining.Seconds] = true
	engine.sounder.Play(CountdownSound(remaining.Seconds), false)
}

func (engine *Engine) startScheduleLocked() {
	engine.cancelScheduleLocked()
	generation := engine.generation
	stopCh := make(chan struct{})
	engine.stopCh = stopCh
	ticker := engine.options.Clock.NewTicker(engine.options.TickInterval)

	engine.wg.Add(1)
	go engine.run(generation, ticker, stopCh)
}

// cancelScheduleLocked bumps the generation so a tick already waiting on the
// mutex for the old run is discarded.
func (engine *Engine) cancelScheduleLocked() {
	engine.generation++
	if engine.stopCh != nil {
		close(engine.stopCh)
		engine.stopCh = nil
	}
}

func (engine *Engine) run(generation uint64, ticker Ticker, stopCh <-chan struct{}) {
	defer engine.wg.Done()
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C():
			engine.scheduledTick(generation)
		}
	}
}

func (engine *Engine) scheduledTick(generation uint64) {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if generation != engine.generation {
		return
	}
	engine.tickLocked()
}

func (engine *Engine) snapshotLocked() Snapshot {
	return Snapshot{
		State:          engine.state,
		ExposedCommand: engine.exposed,
		Remaining:      RemainingFrom(engine.remaining),
	}
}

func (engine *Engine) logIgnoredLocked(command Command) {
	engine.logger.Debug().
		Str(xlog.FieldEvent, "timer.ignored").
		Str(xlog.FieldFrom, string(engine.state)).
		Str(xlog.FieldVia, string(command)).
		Msg("command ignored")
}

func (engine *Engine) emitLocked(event Event) {
	for _, ch := range engine.events {
		select {
		case ch <- event:
		default:
		}
	}
}
