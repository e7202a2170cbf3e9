package animation

import (
	"context"
	"sync"
	"time"
)

// Config contains flash timing values.
type Config struct {
	Visible time.Duration
	Hidden  time.Duration
}

// Engine flashes a display element on and off until stopped.
type Engine struct {
	mu      sync.Mutex
	config  Config
	update  func(visible bool)
	cancel  context.CancelFunc
	running sync.WaitGroup
}

// New creates a flash engine. update receives every visibility change and
// is called from the engine goroutine.
func New(config Config, update func(visible bool)) *Engine {
	if config.Visible <= 0 || config.Hidden <= 0 {
		config = DefaultConfig()
	}
	return &Engine{
		config: config,
		update: update,
	}
}

// Start begins flashing, replacing any running sequence.
func (engine *Engine) Start(ctx context.Context) {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	engine.stopLocked()

	runCtx, cancel := context.WithCancel(ctx)
	engine.cancel = cancel
	engine.running.Add(1)
	go func() {
		defer engine.running.Done()
		engine.run(runCtx)
	}()
}

// Stop ends flashing and leaves the element visible.
func (engine *Engine) Stop() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.cancel == nil {
		return
	}
	engine.stopLocked()
	engine.update(true)
}

// Running reports whether a flash sequence is active.
func (engine *Engine) Running() bool {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.cancel != nil
}

func (engine *Engine) stopLocked() {
	if engine.cancel != nil {
		engine.cancel()
		engine.cancel = nil
	}
	engine.running.Wait()
}

func (engine *Engine) run(ctx context.Context) {
	for {
		engine.update(false)
		if !sleepWithContext(ctx, engine.config.Hidden) {
			return
		}
		engine.update(true)
		if !sleepWithContext(ctx, engine.config.Visible) {
			return
		}
	}
}

func sleepWithContext(ctx context.Context, duration time.Duration) bool {
	timer := time.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
