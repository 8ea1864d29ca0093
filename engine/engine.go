package engine

import (
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-dungeon/common"
	"github.com/Carmen-Shannon/oxy-dungeon/engine/profiler"
	"github.com/Carmen-Shannon/oxy-dungeon/engine/renderer"
	"github.com/Carmen-Shannon/oxy-dungeon/engine/scene"
	"github.com/Carmen-Shannon/oxy-dungeon/engine/window"
	"go.uber.org/zap"
)

const (
	// defaultTickRate is the fixed simulation rate used when none is configured.
	defaultTickRate = time.Second / 60

	// maxCatchUpTicks bounds how many ticks a single iteration may run after a stall,
	// so a long pause does not turn into a burst of simulation.
	maxCatchUpTicks = 5
)

// engine implements the Engine interface.
// Everything runs on the goroutine that calls Run, which must be the locked main thread when a window is attached.
type engine struct {
	mu *sync.Mutex

	window   window.Window
	renderer renderer.Renderer
	logger   *zap.Logger

	profiler         *profiler.Profiler
	profilingEnabled bool

	tickRate     time.Duration
	tickCallback func(deltaTime float32) error

	scene scene.Scene

	lastFrame   time.Time
	accumulator time.Duration
	ticks       uint64

	quit     bool
	err      error
	shutdown sync.Once
}

// Engine is the main entry point for the engine.
// It owns the window, renderer and profiler and drives the fixed-rate tick callback from a single-threaded loop.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance, or nil when running headless
	Window() window.Window

	// Renderer returns the renderer frames are presented with.
	//
	// Returns:
	//   - renderer.Renderer: the renderer, or nil when running headless
	Renderer() renderer.Renderer

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickRate sets the engine tick rate in frames per second.
	// The tick callback will be called at this rate for game logic updates.
	//
	// Parameters:
	//   - fps: target frames per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// TickRate returns the fixed tick interval.
	TickRate() time.Duration

	// SetTickCallback registers the function called each engine tick.
	// A non-nil error from the callback stops the loop and is returned from Run.
	//
	// Parameters:
	//   - callback: function to call at the configured tick rate, receiving the fixed delta time in seconds
	SetTickCallback(callback func(deltaTime float32) error)

	// SetScene sets the scene whose environment supplies the clear color and whose camera follows window resizes.
	//
	// Parameters:
	//   - s: the scene, or nil to clear
	SetScene(s scene.Scene)

	// Scene returns the scene set with SetScene.
	Scene() scene.Scene

	// Ticks returns the number of ticks run so far.
	Ticks() uint64

	// Run starts the main engine loop. It blocks until the window closes, Quit is called,
	// or the tick callback fails.
	//
	// Returns:
	//   - error: the tick callback's error, or nil on a normal shutdown
	Run() error

	// Quit asks the loop to stop after the current iteration.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

// NewEngine creates a new Engine instance with the provided options.
// Options are applied directly to the engine struct via the option-builder pattern.
// The engine runs headless unless a window is supplied with WithWindow.
//
// Parameters:
//   - options: functional options for engine configuration (profiling, tick rate, etc.)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		mu:       &sync.Mutex{},
		logger:   zap.NewNop(),
		tickRate: defaultTickRate,
	}
	for _, opt := range options {
		opt(e)
	}
	e.profiler = profiler.NewProfiler(e.logger)
	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Renderer() renderer.Renderer {
	return e.renderer
}

func (e *engine) EnableProfiler() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profilingEnabled = true
}

func (e *engine) DisableProfiler() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profilingEnabled = false
}

func (e *engine) SetTickRate(fps float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tickRate = tickInterval(fps)
}

func (e *engine) TickRate() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tickRate
}

func (e *engine) SetTickCallback(callback func(deltaTime float32) error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tickCallback = callback
}

func (e *engine) SetScene(s scene.Scene) {
	e.mu.Lock()
	e.scene = s
	e.mu.Unlock()

	if s != nil && e.window != nil {
		e.updateAspect(s, e.window.Size())
	}
}

func (e *engine) Scene() scene.Scene {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.scene
}

func (e *engine) Ticks() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ticks
}

func (e *engine) Run() error {
	e.lastFrame = time.Now()
	e.logger.Info("engine starting",
		zap.Duration("tick_rate", e.TickRate()),
		zap.Bool("headless", e.window == nil),
	)

	if e.window == nil {
		e.runHeadless()
	} else {
		e.window.SetResizeCallback(e.onResize)
		e.window.SetUpdateCallback(func() {
			if !e.frame(time.Now()) {
				e.close()
			}
		})
		e.window.ProcessMessages()
	}
	e.close()

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.err != nil {
		e.logger.Error("engine stopped", zap.Uint64("ticks", e.ticks), zap.Error(e.err))
		return e.err
	}
	e.logger.Info("engine stopped", zap.Uint64("ticks", e.ticks))
	return nil
}

func (e *engine) Quit() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.quit = true
}

// runHeadless drives the loop without a window, sleeping until the next tick is due.
func (e *engine) runHeadless() {
	for e.frame(time.Now()) {
		e.mu.Lock()
		wait := e.tickRate - e.accumulator
		e.mu.Unlock()
		if wait > 0 {
			time.Sleep(wait)
		}
	}
}

// frame runs one loop iteration: every tick that has come due, then one presented frame.
//
// Parameters:
//   - now: the time of this iteration
//
// Returns:
//   - bool: false once the loop should stop
func (e *engine) frame(now time.Time) bool {
	e.mu.Lock()
	if e.quit {
		e.mu.Unlock()
		return false
	}
	rate := e.tickRate
	callback := e.tickCallback

	elapsed := now.Sub(e.lastFrame)
	e.lastFrame = now
	if elapsed > 0 {
		e.accumulator += elapsed
	}
	if limit := maxCatchUpTicks * rate; e.accumulator > limit {
		e.accumulator = limit
	}
	due := int(e.accumulator / rate)
	e.accumulator -= time.Duration(due) * rate
	e.mu.Unlock()

	dt := float32(rate.Seconds())
	for range due {
		if callback != nil {
			if err := callback(dt); err != nil {
				e.mu.Lock()
				e.err = err
				e.quit = true
				e.mu.Unlock()
				return false
			}
		}
		e.mu.Lock()
		e.ticks++
		e.mu.Unlock()
	}

	e.present()

	e.mu.Lock()
	profiling := e.profilingEnabled
	quit := e.quit
	e.mu.Unlock()
	if profiling {
		e.profiler.Tick()
	}
	return !quit
}

// present clears the surface to the scene's clear color. A failed frame is logged and skipped.
func (e *engine) present() {
	if e.renderer == nil {
		return
	}
	var clearColor common.Color
	if s := e.Scene(); s != nil {
		clearColor = s.Environment().ClearColor
	}
	if err := e.renderer.RenderFrame(clearColor); err != nil {
		e.logger.Warn("frame dropped", zap.Error(err))
	}
}

func (e *engine) onResize(width, height int) {
	if e.renderer != nil {
		e.renderer.Resize(width, height)
	}
	if s := e.Scene(); s != nil {
		e.updateAspect(s, width, height)
	}
	e.logger.Debug("window resized", zap.Int("width", width), zap.Int("height", height))
}

func (e *engine) updateAspect(s scene.Scene, width, height int) {
	cam := s.Camera()
	if cam == nil || width <= 0 || height <= 0 {
		return
	}
	cam.SetAspect(float32(width) / float32(height))
}

// close releases the renderer before the window so the surface never outlives its window.
func (e *engine) close() {
	e.shutdown.Do(func() {
		if e.renderer != nil {
			e.renderer.Close()
		}
		if e.window != nil {
			if err := e.window.Close(); err != nil {
				e.logger.Warn("window close failed", zap.Error(err))
			}
		}
	})
}

// tickInterval converts a tick rate into the fixed tick duration, falling back to 60Hz.
func tickInterval(fps float64) time.Duration {
	if fps <= 0 {
		return defaultTickRate
	}
	return time.Duration(float64(time.Second) / fps)
}
