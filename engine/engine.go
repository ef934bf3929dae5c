package engine

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-gl/engine/logger"
	"github.com/Carmen-Shannon/oxy-gl/engine/profiler"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer"
	"github.com/Carmen-Shannon/oxy-gl/engine/window"
	"go.uber.org/zap"
)

// ErrNoWindow is returned by Run when the engine was built without a window.
var ErrNoWindow = errors.New("engine has no window")

// engine implements the Engine interface.
// Everything runs on the window's thread: the window's update callback drives one frame,
// which advances the fixed-step loop and then draws.
type engine struct {
	mu *sync.Mutex

	window   window.Window
	renderer renderer.Renderer
	loop     *Loop

	profiler         *profiler.Profiler
	profilingEnabled bool

	tickCallback   func(deltaTime float32)
	renderCallback func(deltaTime float32)

	scenes map[int]*Scene

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped

	now       func() time.Time
	sleep     func(time.Duration)
	lastFrame time.Time

	quitting bool
	quitOnce sync.Once
	log      *zap.Logger
}

// Engine is the main entry point for the engine.
// It owns the fixed-rate tick loop and the per-frame drawing of registered scenes.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Renderer returns the renderer used to draw scenes.
	//
	// Returns:
	//   - renderer.Renderer: the renderer, or nil if none was configured
	Renderer() renderer.Renderer

	// Loop returns the fixed-timestep loop driving ticks.
	//
	// Returns:
	//   - *Loop: the loop
	Loop() *Loop

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

	// SetTickCallback registers the function called each engine tick.
	// Use this for game logic, input processing, and animation updates.
	//
	// Parameters:
	//   - callback: function to call at the configured tick rate, receiving the fixed step in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetRenderCallback registers the function called each render frame after the scenes are drawn.
	//
	// Parameters:
	//   - callback: function to call each render frame, receiving the frame time in seconds
	SetRenderCallback(callback func(deltaTime float32))

	// SetRenderFrameLimit sets an optional render frame rate cap in frames per second.
	// Pass 0 to uncap the render loop (default).
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// AddScene registers a scene at the given z-index key.
	// Scenes are rendered in ascending key order.
	//
	// Parameters:
	//   - key: the z-index determining render order (lower renders first)
	//   - s: the Scene to register
	AddScene(key int, s *Scene)

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
	//   - *Scene: the scene at the key, or nil if not found
	Scene(key int) *Scene

	// Scenes returns a copy of all registered scenes keyed by z-index.
	//
	// Returns:
	//   - map[int]*Scene: a copy of the scenes map
	Scenes() map[int]*Scene

	// Run drives frames from the window's message loop and blocks until the window closes.
	// Must be called from the thread that owns the window's GL context.
	//
	// Returns:
	//   - error: ErrNoWindow if the engine has no window
	Run() error

	// Quit closes the window at the end of the current frame.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

var _ Engine = &engine{}

// NewEngine creates a new Engine instance with the provided options.
//
// Parameters:
//   - options: functional options for engine configuration (window, renderer, tick rate, etc.)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		mu:               &sync.Mutex{},
		scenes:           make(map[int]*Scene),
		loop:             NewLoop(),
		profilingEnabled: false,
		now:              time.Now,
		sleep:            time.Sleep,
		log:              logger.Named("engine"),
	}

	for _, opt := range options {
		opt(e)
	}
	if e.profiler == nil {
		e.profiler = profiler.NewProfiler(profiler.WithClock(e.now))
	}
	e.loop.SetTickCallback(e.tick)

	if e.window != nil {
		e.window.SetResizeCallback(func(width, height int) {
			e.log.Debug("framebuffer resized", zap.Int("width", width), zap.Int("height", height))
		})
	}

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Renderer() renderer.Renderer {
	return e.renderer
}

func (e *engine) Loop() *Loop {
	return e.loop
}

func (e *engine) Run() error {
	if e.window == nil {
		return ErrNoWindow
	}
	e.lastFrame = e.now()
	e.window.SetUpdateCallback(e.frame)
	e.window.ProcessMessages()
	return nil
}

func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		e.mu.Lock()
		e.quitting = true
		e.mu.Unlock()
	})
}

// tick runs one fixed step: movement rigs first, then the user tick callback.
func (e *engine) tick(dt float32) {
	for _, s := range e.orderedScenes() {
		if s.Keys != nil {
			s.Graph.UpdateRigs(s.Root, s.Keys, dt)
		}
	}
	if e.tickCallback != nil {
		e.tickCallback(dt)
	}
}

// frame runs one display frame: ticks owed since the previous frame, scene drawing in
// ascending z-index order, the render callback, profiling and the optional frame cap.
func (e *engine) frame() {
	start := e.now()
	elapsed := start.Sub(e.lastFrame)
	e.lastFrame = start

	e.loop.Advance(elapsed)

	if e.renderer != nil {
		for _, s := range e.orderedScenes() {
			var err error
			if s.Postprocessor != nil {
				err = s.Postprocessor.Render()
			} else {
				err = e.renderer.Render(s.Graph, s.Root, s.Camera, s.Target)
			}
			if err != nil {
				e.log.Error("failed to render scene", zap.Error(err))
			}
		}
	}

	if e.renderCallback != nil {
		e.renderCallback(float32(elapsed.Seconds()))
	}

	if e.profilingEnabled && e.profiler != nil {
		e.profiler.Tick()
	}

	if e.renderFrameLimit > 0 {
		if remaining := e.renderFrameLimit - e.now().Sub(start); remaining > 0 {
			e.sleep(remaining)
		}
	}

	e.mu.Lock()
	quitting := e.quitting
	e.mu.Unlock()
	if quitting && e.window != nil && e.window.IsRunning() {
		if err := e.window.Close(); err != nil {
			e.log.Warn("failed to close window", zap.Error(err))
		}
	}
}

// orderedScenes returns the active scenes in ascending key order.
func (e *engine) orderedScenes() []*Scene {
	e.mu.Lock()
	defer e.mu.Unlock()
	keys := make([]int, 0, len(e.scenes))
	for k := range e.scenes {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	active := make([]*Scene, 0, len(keys))
	for _, k := range keys {
		if s := e.scenes[k]; s.Active() {
			active = append(active, s)
		}
	}
	return active
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

// SetTickRate sets the engine tick rate in ticks per second. Takes effect on the next frame.
func (e *engine) SetTickRate(fps float64) {
	e.loop.SetRate(fps)
}

// SetTickCallback registers the function called each engine tick.
func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.tickCallback = callback
}

// SetRenderCallback registers the function called each render frame.
func (e *engine) SetRenderCallback(callback func(deltaTime float32)) {
	e.renderCallback = callback
}

// SetRenderFrameLimit sets an optional render frame rate cap.
// Pass 0 to uncap the render loop.
func (e *engine) SetRenderFrameLimit(fps float64) {
	e.renderFrameLimit = frameLimit(fps)
}

func frameLimit(fps float64) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / fps)
}

func (e *engine) AddScene(key int, s *Scene) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.scenes[key] = s
}

func (e *engine) RemoveScene(key int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.scenes, key)
}

func (e *engine) Scene(key int) *Scene {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.scenes[key]
}

func (e *engine) Scenes() map[int]*Scene {
	e.mu.Lock()
	defer e.mu.Unlock()
	cp := make(map[int]*Scene, len(e.scenes))
	for k, v := range e.scenes {
		cp[k] = v
	}
	return cp
}
