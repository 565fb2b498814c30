package engine

import (
	"maps"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/eriks112/Snake3D/engine/profiler"
	"github.com/eriks112/Snake3D/engine/scene"
	"github.com/rs/zerolog"
)

// Window is the part of the platform window that the engine drives.
// window.Window satisfies it.
type Window interface {
	// SetResizeCallback sets the function called with the new framebuffer size.
	SetResizeCallback(callback func(width, height int))

	// ProcessMessages runs the platform message loop until the window closes.
	ProcessMessages()
}

// engine implements the Engine interface.
// Coordinates engine, render, and window threads.
type engine struct {
	mu *sync.Mutex // guards scenes and frames

	tickRateChannel chan time.Duration // Channel for dynamic tick rate updates

	running atomic.Bool
	wg      sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	window Window

	tickProfiler     *profiler.Profiler
	renderProfiler   *profiler.Profiler
	profilingEnabled atomic.Bool

	engineTickRate time.Duration
	tickCallback   func(deltaMillis float32)
	renderCallback func(deltaMillis float32, frames []scene.Frame)
	resizeCallback func(width, height int)

	scenes map[int]scene.Scene
	frames []scene.Frame

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped

	log zerolog.Logger
}

// Engine is the main entry point for the engine.
// It orchestrates the engine loop, render loop, and window management.
//
// Each engine tick runs the tick callback, then moves tracked children and bakes every active
// scene on the tick goroutine. The render loop only ever sees the baked frames, so game state
// is never read concurrently with the tick.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - Window: the window, nil when running headless
	Window() Window

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickRate sets the engine tick rate in ticks per second.
	// The tick callback will be called at this rate for game logic updates.
	//
	// Parameters:
	//   - fps: target ticks per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// TickRate returns the duration of one engine tick.
	//
	// Returns:
	//   - time.Duration: the tick period
	TickRate() time.Duration

	// SetTickCallback registers the function called each engine tick.
	// Use this for game logic, input processing, and animation updates.
	//
	// Parameters:
	//   - callback: function receiving the time since the previous tick in milliseconds
	SetTickCallback(callback func(deltaMillis float32))

	// SetRenderCallback registers the function called each render frame with the latest baked frames.
	//
	// Parameters:
	//   - callback: function receiving the time since the previous render in milliseconds and
	//     one frame per active scene in ascending z-index order
	SetRenderCallback(callback func(deltaMillis float32, frames []scene.Frame))

	// SetResizeCallback registers a function called after the scene cameras took the new
	// aspect ratio of a resized window. It is not called for a zero height.
	//
	// Parameters:
	//   - callback: function receiving the new framebuffer size in pixels
	SetResizeCallback(callback func(width, height int))

	// SetRenderFrameLimit sets an optional render frame rate cap in frames per second.
	// Pass 0 to uncap the render loop.
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// AddScene registers a scene at the given z-index key.
	// Scenes are baked in ascending key order.
	//
	// Parameters:
	//   - key: the z-index determining order (lower first)
	//   - s: the Scene to register
	AddScene(key int, s scene.Scene)

	// RemoveScene removes the scene at the given z-index key.
	//
	// Parameters:
	//   - key: the z-index of the scene to remove
	RemoveScene(key int)

	// Scene retrieves the scene registered at the given z-index key.
	// Returns nil if no scene exists at that key.
	//
	// Parameters:
	//   - key: the z-index of the scene to retrieve
	//
	// Returns:
	//   - scene.Scene: the scene at the key, or nil if not found
	Scene(key int) scene.Scene

	// Scenes returns a copy of all registered scenes keyed by z-index.
	//
	// Returns:
	//   - map[int]scene.Scene: a copy of the scenes map
	Scenes() map[int]scene.Scene

	// Step runs one tick synchronously: the tick callback, parent tracking and baking.
	// Run calls it from the tick goroutine; headless drivers and tests may call it directly
	// as long as Run is not active.
	//
	// Parameters:
	//   - deltaMillis: the simulated time since the previous tick in milliseconds
	//
	// Returns:
	//   - []scene.Frame: one frame per active scene in ascending z-index order
	Step(deltaMillis float32) []scene.Frame

	// Frames returns the frames baked by the most recent tick.
	//
	// Returns:
	//   - []scene.Frame: the latest frames, nil before the first tick
	Frames() []scene.Frame

	// Run starts the engine loops and blocks until the window closes or Quit is called.
	// Without a window it runs until Quit.
	Run()

	// Quit signals all engine goroutines to stop and shuts down the engine.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()

	// Done is closed once Quit has been called.
	//
	// Returns:
	//   - <-chan struct{}: the quit channel
	Done() <-chan struct{}
}

var _ Engine = &engine{}

// NewEngine creates a new Engine instance with the provided options.
// Initializes message channels and profilers with sensible defaults.
// Options are applied directly to the engine struct via the option-builder pattern.
//
// Parameters:
//   - options: functional options for engine configuration (profiling, tick rate, etc.)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		mu:               &sync.Mutex{},
		tickRateChannel:  make(chan time.Duration, 1),
		quitChannel:      make(chan struct{}),
		scenes:           make(map[int]scene.Scene),
		engineTickRate:   time.Second / 60,
		renderFrameLimit: time.Second / 60,
		log:              zerolog.Nop(),
	}

	for _, opt := range options {
		opt(e)
	}

	e.tickProfiler = profiler.NewProfiler("tick", profiler.WithLogger(e.log))
	e.renderProfiler = profiler.NewProfiler("render", profiler.WithLogger(e.log))

	if e.window != nil {
		e.window.SetResizeCallback(func(width, height int) {
			if height <= 0 {
				return
			}
			for _, s := range e.Scenes() {
				if c := s.Camera(); c != nil {
					c.SetAspect(float32(width) / float32(height))
				}
			}
			e.mu.Lock()
			cb := e.resizeCallback
			e.mu.Unlock()
			if cb != nil {
				cb(width, height)
			}
		})
	}

	return e
}

func (e *engine) Window() Window {
	return e.window
}

func (e *engine) Run() {
	e.running.Store(true)
	e.handle()

	if e.window != nil {
		e.window.ProcessMessages()
		e.signalQuit()
	} else {
		<-e.quitChannel
	}

	e.wg.Wait()
	e.running.Store(false)
}

// Quit signals all engine goroutines to stop and shuts down the engine.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.signalQuit()
}

func (e *engine) Done() <-chan struct{} {
	return e.quitChannel
}

// signalQuit closes the quit channel to signal all goroutines to exit.
// Uses sync.Once to ensure the channel is only closed once.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}

// handle launches the engine and render goroutines.
// Each goroutine is tracked by the engine's WaitGroup.
func (e *engine) handle() {
	e.wg.Add(2)
	go e.handleEngine()
	go e.handleRender()
}

// handleEngine runs the fixed-rate engine tick loop in its own goroutine.
// Steps the engine at the configured tick rate and listens for dynamic rate changes
// via tickRateChannel. Exits when the quit channel is closed.
func (e *engine) handleEngine() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.engineTickRate)
	defer ticker.Stop()

	lastTick := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		case <-ticker.C:
			now := time.Now()
			dt := float32(now.Sub(lastTick).Seconds() * 1000)
			lastTick = now

			e.Step(dt)
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
			e.engineTickRate = newRate
		}
	}
}

func (e *engine) Step(deltaMillis float32) []scene.Frame {
	if e.tickCallback != nil {
		e.tickCallback(deltaMillis)
	}

	active := e.activeScenes()
	frames := make([]scene.Frame, 0, len(active))
	for _, s := range active {
		s.UpdateParentTracking()
		frames = append(frames, s.Bake())
	}

	e.mu.Lock()
	e.frames = frames
	e.mu.Unlock()

	if e.profilingEnabled.Load() {
		e.tickProfiler.Tick()
	}
	return frames
}

func (e *engine) Frames() []scene.Frame {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.frames
}

// activeScenes returns the active scenes in ascending z-index order.
func (e *engine) activeScenes() []scene.Scene {
	e.mu.Lock()
	defer e.mu.Unlock()

	var active []scene.Scene
	for _, k := range slices.Sorted(maps.Keys(e.scenes)) {
		if s := e.scenes[k]; s.Active() {
			active = append(active, s)
		}
	}
	return active
}

// handleRender runs the frame-limited render loop in its own goroutine and hands the latest
// baked frames to the render callback.
// Recovers from panics to avoid crashing the process and signals quit on recovery.
func (e *engine) handleRender() {
	defer e.wg.Done()
	// Recover from panics inside the render goroutine to avoid crashing the whole process.
	defer func() {
		if r := recover(); r != nil {
			e.log.Error().Interface("panic", r).Msg("render goroutine recovered from panic")
			e.signalQuit()
		}
	}()

	lastRender := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		default:
			now := time.Now()
			dt := float32(now.Sub(lastRender).Seconds() * 1000)
			lastRender = now

			if e.renderCallback != nil {
				e.renderCallback(dt, e.Frames())
			}

			if e.profilingEnabled.Load() {
				e.renderProfiler.Tick()
			}

			// Frame rate limiting
			if e.renderFrameLimit > 0 {
				elapsed := time.Since(lastRender)
				if remaining := e.renderFrameLimit - elapsed; remaining > 0 {
					time.Sleep(remaining)
				}
			}
		}
	}
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled.Store(true)
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled.Store(false)
}

// SetTickRate sets the engine tick rate in ticks per second.
// If the engine is running, the change takes effect immediately.
func (e *engine) SetTickRate(fps float64) {
	if fps <= 0 {
		fps = 60
	}
	newRate := time.Duration(float64(time.Second) / fps)

	if e.running.Load() {
		// Non-blocking send - if channel is full, replace the pending value
		select {
		case e.tickRateChannel <- newRate:
		default:
			select {
			case <-e.tickRateChannel:
			default:
			}
			e.tickRateChannel <- newRate
		}
	} else {
		e.engineTickRate = newRate
	}
}

func (e *engine) TickRate() time.Duration {
	return e.engineTickRate
}

// SetTickCallback registers the function called each engine tick.
func (e *engine) SetTickCallback(callback func(deltaMillis float32)) {
	e.tickCallback = callback
}

// SetRenderCallback registers the function called each render frame.
func (e *engine) SetRenderCallback(callback func(deltaMillis float32, frames []scene.Frame)) {
	e.renderCallback = callback
}

func (e *engine) SetResizeCallback(callback func(width, height int)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.resizeCallback = callback
}

// SetRenderFrameLimit sets an optional render frame rate cap.
// Pass 0 to uncap the render loop.
func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
}

func (e *engine) AddScene(key int, s scene.Scene) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.scenes[key] = s
}

func (e *engine) RemoveScene(key int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.scenes, key)
}

func (e *engine) Scene(key int) scene.Scene {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.scenes[key]
}

func (e *engine) Scenes() map[int]scene.Scene {
	e.mu.Lock()
	defer e.mu.Unlock()
	return maps.Clone(e.scenes)
}
