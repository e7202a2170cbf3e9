package audio

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"teatimer/internal/core/timer"
)

type fakeStream struct {
	sound      timer.Sound
	closeGate  chan struct{}
	mu         sync.Mutex
	onEnd      func()
	plays      int
	restarts   int
	stops      int
	closes     int
	restartErr error
}

func (stream *fakeStream) Play(onEnd func()) {
	stream.mu.Lock()
	defer stream.mu.Unlock()
	stream.onEnd = onEnd
	stream.plays++
}

func (stream *fakeStream) Restart() error {
	stream.mu.Lock()
	defer stream.mu.Unlock()
	stream.restarts++
	return stream.restartErr
}

func (stream *fakeStream) Stop() {
	stream.mu.Lock()
	defer stream.mu.Unlock()
	stream.stops++
}

func (stream *fakeStream) Close() error {
	if stream.closeGate != nil {
		<-stream.closeGate
	}
	stream.mu.Lock()
	defer stream.mu.Unlock()
	stream.closes++
	return nil
}

// end simulates the backend reaching the end of the stream.
func (stream *fakeStream) end() {
	stream.mu.Lock()
	onEnd := stream.onEnd
	stream.mu.Unlock()
	onEnd()
}

func (stream *fakeStream) counts() (plays, restarts, stops, closes int) {
	stream.mu.Lock()
	defer stream.mu.Unlock()
	return stream.plays, stream.restarts, stream.stops, stream.closes
}

type fakeBackend struct {
	mu        sync.Mutex
	streams   []*fakeStream
	openErr   error
	openGate  chan struct{}
	closeGate chan struct{}
}

func (backend *fakeBackend) Open(sound timer.Sound) (Stream, error) {
	if backend.openGate != nil {
		<-backend.openGate
	}
	backend.mu.Lock()
	defer backend.mu.Unlock()
	if backend.openErr != nil {
		return nil, backend.openErr
	}
	stream := &fakeStream{sound: sound, closeGate: backend.closeGate}
	backend.streams = append(backend.streams, stream)
	return stream, nil
}

func (backend *fakeBackend) stream(index int) *fakeStream {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	return backend.streams[index]
}

func (backend *fakeBackend) opened() int {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	return len(backend.streams)
}

// settle waits for background opens and releases to finish.
func settle(manager *Manager) {
	manager.pending.Wait()
}

func waitClosed(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("release did not complete")
	}
}

func TestPlayStartsSession(t *testing.T) {
	backend := &fakeBackend{}
	manager := NewManager(backend)
	defer manager.Close()

	manager.Play(timer.SoundAlarm, true)
	settle(manager)

	sound, ok := manager.Playing()
	require.True(t, ok)
	assert.Equal(t, timer.SoundAlarm, sound)
	plays, _, _, _ := backend.stream(0).counts()
	assert.Equal(t, 1, plays)
}

func TestPlayReplacesAndReleasesPrevious(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	backend := &fakeBackend{}
	manager := NewManager(backend)

	manager.Play(timer.CountdownSound(5), false)
	settle(manager)
	manager.Play(timer.CountdownSound(4), false)
	settle(manager)
	manager.Close()

	_, _, stops, closes := backend.stream(0).counts()
	assert.Equal(t, 1, stops)
	assert.Equal(t, 1, closes)
	_, _, stops, closes = backend.stream(1).counts()
	assert.Equal(t, 1, stops)
	assert.Equal(t, 1, closes)
}

func TestLoopedSessionRestartsOnEnd(t *testing.T) {
	backend := &fakeBackend{}
	manager := NewManager(backend)
	defer manager.Close()

	manager.Play(timer.SoundAlarm, true)
	settle(manager)
	stream := backend.stream(0)
	stream.end()
	stream.end()

	_, restarts, stops, _ := stream.counts()
	assert.Equal(t, 2, restarts)
	assert.Zero(t, stops)
	_, ok := manager.Playing()
	assert.True(t, ok)
}

func TestStaleEndIsIgnored(t *testing.T) {
	backend := &fakeBackend{}
	manager := NewManager(backend)
	defer manager.Close()

	manager.Play(timer.SoundAlarm, true)
	settle(manager)
	stale := backend.stream(0)
	waitClosed(t, manager.Detach())
	manager.Play(timer.SoundAlarm, true)
	settle(manager)

	stale.end()

	_, restarts, _, closes := stale.counts()
	assert.Zero(t, restarts)
	assert.Equal(t, 1, closes)
	sound, ok := manager.Playing()
	require.True(t, ok)
	assert.Equal(t, timer.SoundAlarm, sound)
	_, restarts, stops, _ := backend.stream(1).counts()
	assert.Zero(t, restarts)
	assert.Zero(t, stops)
}

func TestOneShotSessionReleasedOnEnd(t *testing.T) {
	backend := &fakeBackend{}
	manager := NewManager(backend)

	manager.Play(timer.CountdownSound(3), false)
	settle(manager)
	backend.stream(0).end()
	manager.Close()

	_, ok := manager.Playing()
	assert.False(t, ok)
	_, restarts, _, closes := backend.stream(0).counts()
	assert.Zero(t, restarts)
	assert.Equal(t, 1, closes)
}

func TestLoopRestartFailureReleasesSession(t *testing.T) {
	backend := &fakeBackend{}
	manager := NewManager(backend)

	manager.Play(timer.SoundAlarm, true)
	settle(manager)
	stream := backend.stream(0)
	stream.mu.Lock()
	stream.restartErr = errors.New("seek failed")
	stream.mu.Unlock()
	stream.end()
	manager.Close()

	_, ok := manager.Playing()
	assert.False(t, ok)
	_, _, _, closes := stream.counts()
	assert.Equal(t, 1, closes)
}

func TestStopCurrentDoesNotWaitForRelease(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	gate := make(chan struct{})
	backend := &fakeBackend{closeGate: gate}
	manager := NewManager(backend)
	manager.Play(timer.SoundAlarm, true)
	settle(manager)

	returned := make(chan struct{})
	go func() {
		manager.StopCurrent()
		close(returned)
	}()
	waitClosed(t, returned)

	_, ok := manager.Playing()
	assert.False(t, ok)
	_, _, _, closes := backend.stream(0).counts()
	assert.Zero(t, closes)

	close(gate)
	manager.Close()
	_, _, _, closes = backend.stream(0).counts()
	assert.Equal(t, 1, closes)
}

func TestDetachSignalsCompletion(t *testing.T) {
	backend := &fakeBackend{}
	manager := NewManager(backend)
	defer manager.Close()

	manager.Play(timer.SoundAlarm, true)
	settle(manager)
	waitClosed(t, manager.Detach())

	_, _, stops, closes := backend.stream(0).counts()
	assert.Equal(t, 1, stops)
	assert.Equal(t, 1, closes)
}

func TestDetachWithoutSessionIsClosed(t *testing.T) {
	manager := NewManager(&fakeBackend{})
	defer manager.Close()

	waitClosed(t, manager.Detach())
}

func TestOpenFailureKeepsNoSession(t *testing.T) {
	manager := NewManager(&fakeBackend{openErr: errors.New("missing asset")})
	defer manager.Close()

	manager.Play(timer.SoundAlarm, true)
	settle(manager)

	_, ok := manager.Playing()
	assert.False(t, ok)
}

func TestPlayAfterCloseOpensNothing(t *testing.T) {
	backend := &fakeBackend{}
	manager := NewManager(backend)
	manager.Close()

	manager.Play(timer.SoundAlarm, true)
	settle(manager)

	_, ok := manager.Playing()
	assert.False(t, ok)
	assert.Zero(t, backend.opened())
}

func TestPlayDoesNotWaitForSlowOpen(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	gate := make(chan struct{})
	backend := &fakeBackend{openGate: gate}
	manager := NewManager(backend)

	returned := make(chan struct{})
	go func() {
		manager.Play(timer.SoundAlarm, true)
		close(returned)
	}()
	waitClosed(t, returned)

	sound, ok := manager.Playing()
	require.True(t, ok)
	assert.Equal(t, timer.SoundAlarm, sound)
	assert.Zero(t, backend.opened())

	close(gate)
	settle(manager)
	plays, _, _, _ := backend.stream(0).counts()
	assert.Equal(t, 1, plays)
	manager.Close()
}

func TestStaleOpenIsDropped(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	gate := make(chan struct{})
	backend := &fakeBackend{openGate: gate}
	manager := NewManager(backend)

	manager.Play(timer.SoundAlarm, true)
	done := manager.Detach()
	select {
	case <-done:
		t.Fatal("release finished before the open completed")
	default:
	}

	close(gate)
	waitClosed(t, done)
	settle(manager)

	_, ok := manager.Playing()
	assert.False(t, ok)
	plays, _, _, closes := backend.stream(0).counts()
	assert.Zero(t, plays)
	assert.Equal(t, 1, closes)
	manager.Close()
}

func TestReplacedWhileOpeningPlaysOnlyLatest(t *testing.T) {
	gate := make(chan struct{})
	backend := &fakeBackend{openGate: gate}
	manager := NewManager(backend)
	defer manager.Close()

	manager.Play(timer.CountdownSound(2), false)
	manager.Play(timer.CountdownSound(1), false)
	close(gate)
	settle(manager)

	require.Equal(t, 2, backend.opened())
	var played, closed []timer.Sound
	for index := 0; index < 2; index++ {
		stream := backend.stream(index)
		plays, _, _, closes := stream.counts()
		if plays > 0 {
			played = append(played, stream.sound)
		}
		if closes > 0 {
			closed = append(closed, stream.sound)
		}
	}
	assert.Equal(t, []timer.Sound{timer.CountdownSound(1)}, played)
	assert.Equal(t, []timer.Sound{timer.CountdownSound(2)}, closed)
	sound, ok := manager.Playing()
	require.True(t, ok)
	assert.Equal(t, timer.CountdownSound(1), sound)
}

func TestSessionsAreTagged(t *testing.T) {
	backend := &fakeBackend{}
	manager := NewManager(backend)
	defer manager.Close()

	manager.Play(timer.CountdownSound(2), false)
	manager.mu.Lock()
	first := *manager.current
	manager.mu.Unlock()
	manager.Play(timer.CountdownSound(1), false)
	manager.mu.Lock()
	second := *manager.current
	manager.mu.Unlock()

	assert.NotEqual(t, first.id, second.id)
	assert.Greater(t, second.generation, first.generation)
}
