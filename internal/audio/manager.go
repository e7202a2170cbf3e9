package audio

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"teatimer/internal/core/timer"
	xlog "teatimer/internal/log"
)

// Stream is an opened sound ready for playback.
type Stream interface {
	// Play starts output. onEnd is called from a backend goroutine when the
	// stream runs out or is stopped; it must not be called synchronously.
	Play(onEnd func())
	// Restart rewinds the stream and plays it again.
	Restart() error
	// Stop silences output. It must not wait for the device.
	Stop()
	// Close releases decoder resources and may block.
	Close() error
}

// Backend opens streams for sounds.
type Backend interface {
	Open(sound timer.Sound) (Stream, error)
}

type session struct {
	id         uuid.UUID
	generation uint64
	sound      timer.Sound
	looped     bool
	// stream is nil until the backend has opened the sound.
	stream Stream
	// released is set once the session stops being current.
	released chan struct{}
}

// Manager owns the single current playback session. Streams are opened and
// released in the background so callers never wait on the backend.
type Manager struct {
	mu         sync.Mutex
	backend    Backend
	logger     zerolog.Logger
	current    *session
	generation uint64
	pending    sync.WaitGroup
	closed     bool
}

// NewManager creates a Manager playing through backend.
func NewManager(backend Backend) *Manager {
	return &Manager{
		backend: backend,
		logger:  xlog.WithComponent("audio"),
	}
}

// Play replaces the current session with a new one for sound. It returns
// before the sound is opened; an open that completes after the session was
// replaced is discarded.
func (manager *Manager) Play(sound timer.Sound, looped bool) {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	if manager.closed {
		return
	}

	manager.generation++
	next := &session{
		id:         uuid.New(),
		generation: manager.generation,
		sound:      sound,
		looped:     looped,
	}
	if manager.current != nil {
		manager.releaseLocked(manager.current)
	}
	manager.current = next

	manager.pending.Add(1)
	go manager.open(next)
}

// StopCurrent stops the current session without waiting for its release.
func (manager *Manager) StopCurrent() {
	manager.Detach()
}

// Detach stops the current session and returns a channel closed once its
// resources have been released. The channel is already closed when nothing
// is playing.
func (manager *Manager) Detach() <-chan struct{} {
	manager.mu.Lock()
	defer manager.mu.Unlock()

	current := manager.current
	manager.current = nil
	if current == nil {
		done := make(chan struct{})
		close(done)
		return done
	}
	return manager.releaseLocked(current)
}

// Playing reports the sound of the current session.
func (manager *Manager) Playing() (timer.Sound, bool) {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	if manager.current == nil {
		return "", false
	}
	return manager.current.sound, true
}

// Close stops playback and waits for every pending open and release.
func (manager *Manager) Close() {
	manager.mu.Lock()
	manager.closed = true
	if manager.current != nil {
		manager.releaseLocked(manager.current)
		manager.current = nil
	}
	manager.mu.Unlock()

	manager.pending.Wait()
}

func (manager *Manager) open(next *session) {
	defer manager.pending.Done()

	stream, err := manager.backend.Open(next.sound)

	manager.mu.Lock()
	if manager.current != next {
		released := next.released
		manager.mu.Unlock()

		if stream != nil {
			_ = stream.Close()
		}
		if released != nil {
			close(released)
		}
		manager.logger.Debug().
			Str(xlog.FieldEvent, "audio.stale_open").
			Str(xlog.FieldSessionID, next.id.String()).
			Uint64(xlog.FieldGeneration, next.generation).
			Msg("dropping sound opened for replaced session")
		return
	}
	if err != nil {
		manager.current = nil
		manager.mu.Unlock()
		manager.logger.Error().Err(err).
			Str(xlog.FieldEvent, "audio.open_failed").
			Str(xlog.FieldSound, string(next.sound)).
			Msg("open sound")
		return
	}

	next.stream = stream
	// Started under the lock so a concurrent release cannot close the
	// stream before output begins.
	stream.Play(func() {
		manager.handleEnd(next)
	})
	manager.mu.Unlock()

	manager.logger.Debug().
		Str(xlog.FieldEvent, "audio.play").
		Str(xlog.FieldSound, string(next.sound)).
		Str(xlog.FieldSessionID, next.id.String()).
		Uint64(xlog.FieldGeneration, next.generation).
		Bool(xlog.FieldLooped, next.looped).
		Msg("playing sound")
}

func (manager *Manager) handleEnd(ended *session) {
	manager.mu.Lock()
	defer manager.mu.Unlock()

	if manager.current != ended {
		manager.logger.Debug().
			Str(xlog.FieldEvent, "audio.stale_end").
			Str(xlog.FieldSessionID, ended.id.String()).
			Uint64(xlog.FieldGeneration, ended.generation).
			Msg("ignoring end of replaced session")
		return
	}

	if ended.looped {
		if err := ended.stream.Restart(); err != nil {
			manager.logger.Error().Err(err).
				Str(xlog.FieldEvent, "audio.loop_failed").
				Str(xlog.FieldSessionID, ended.id.String()).
				Msg("restart looped sound")
			manager.current = nil
			manager.releaseLocked(ended)
		}
		return
	}

	manager.current = nil
	manager.releaseLocked(ended)
}

// releaseLocked returns a channel closed once the session's stream is
// stopped and closed. A session still being opened is finished by open.
func (manager *Manager) releaseLocked(released *session) <-chan struct{} {
	if released.released != nil {
		return released.released
	}
	done := make(chan struct{})
	released.released = done

	stream := released.stream
	if stream == nil {
		return done
	}

	manager.pending.Add(1)
	go func() {
		defer manager.pending.Done()
		defer close(done)

		stream.Stop()
		if err := stream.Close(); err != nil {
			manager.logger.Warn().Err(err).
				Str(xlog.FieldEvent, "audio.close_failed").
				Str(xlog.FieldSessionID, released.id.String()).
				Msg("close sound stream")
			return
		}
		manager.logger.Debug().
			Str(xlog.FieldEvent, "audio.released").
			Str(xlog.FieldSessionID, released.id.String()).
			Uint64(xlog.FieldGeneration, released.generation).
			Msg("released sound session")
	}()

	return done
}
