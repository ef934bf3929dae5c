package engine

import (
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/camera"
	"github.com/Carmen-Shannon/oxy-gl/engine/device"
	"github.com/Carmen-Shannon/oxy-gl/engine/device/devicetest"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/geometry"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/mesh"
	"github.com/Carmen-Shannon/oxy-gl/engine/scene"
	"github.com/Carmen-Shannon/oxy-gl/engine/window"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeWindow runs a fixed number of frames, advancing a shared clock before each one.
type fakeWindow struct {
	frames    int
	frameTime time.Duration
	clock     *time.Time
	closed    bool
	ran       int
	onUpdate  func()
	onResize  func(width, height int)
}

var _ window.Window = &fakeWindow{}

func (w *fakeWindow) SetUpdateCallback(callback func())                  { w.onUpdate = callback }
func (w *fakeWindow) SetResizeCallback(callback func(width, height int)) { w.onResize = callback }
func (w *fakeWindow) SetScrollCallback(func(delta float32))              {}
func (w *fakeWindow) SetKeyDownCallback(func(keyCode int))               {}
func (w *fakeWindow) SetKeyUpCallback(func(keyCode int))                 {}
func (w *fakeWindow) SetMiddleMouseDownCallback(func(x, y int32))        {}
func (w *fakeWindow) SetMiddleMouseUpCallback(func(x, y int32))          {}
func (w *fakeWindow) SetMouseMoveCallback(func(x, y int32))              {}
func (w *fakeWindow) MakeContextCurrent()                                {}
func (w *fakeWindow) SwapBuffers()                                       {}
func (w *fakeWindow) IsRunning() bool                                    { return !w.closed }
func (w *fakeWindow) Width() int                                         { return 800 }
func (w *fakeWindow) Height() int                                        { return 600 }

func (w *fakeWindow) Close() error {
	w.closed = true
	return nil
}

func (w *fakeWindow) ProcessMessages() {
	for w.ran < w.frames && w.IsRunning() {
		*w.clock = w.clock.Add(w.frameTime)
		w.ran++
		if w.onUpdate != nil {
			w.onUpdate()
		}
	}
}

type harness struct {
	clock  time.Time
	slept  []time.Duration
	window *fakeWindow
}

func newHarness(frames int, frameTime time.Duration) *harness {
	h := &harness{clock: time.Unix(100, 0)}
	h.window = &fakeWindow{frames: frames, frameTime: frameTime, clock: &h.clock}
	return h
}

func (h *harness) options() []EngineBuilderOption {
	return []EngineBuilderOption{
		WithWindow(h.window),
		WithClock(
			func() time.Time { return h.clock },
			func(d time.Duration) { h.slept = append(h.slept, d) },
		),
	}
}

type pressedKeys map[int]bool

func (k pressedKeys) IsPressed(key int) bool { return k[key] }

func newLayer(t *testing.T, dev *devicetest.FakeDevice) (*Scene, material.Material) {
	t.Helper()
	g := scene.NewGraph()
	root := g.NewGroup()
	cam := g.NewCamera(camera.NewPerspective(camera.DefaultPerspective()))

	mat, err := material.NewSurface(dev, material.DefaultSurfaceProperties())
	require.NoError(t, err)
	geom, err := geometry.FromFloat32(map[string][]float32{
		geometry.AttributePosition: {0, 0, 0, 1, 0, 0, 0, 1, 0},
	}, nil, geometry.AttributePosition)
	require.NoError(t, err)
	p, err := mesh.NewPrimitive(dev, geom, nil, mat, device.DrawModeTriangles)
	require.NoError(t, err)
	require.NoError(t, g.AddChild(root, g.NewMesh(mesh.New(p))))

	return &Scene{Graph: g, Root: root, Camera: cam}, mat
}

func TestRunRequiresWindow(t *testing.T) {
	assert.ErrorIs(t, NewEngine().Run(), ErrNoWindow)
}

func TestRunTicksAtFixedRate(t *testing.T) {
	h := newHarness(5, 16*time.Millisecond)
	var ticks int
	var rendered []float32

	e := NewEngine(append(h.options(), WithTickRate(100))...)
	e.SetTickCallback(func(dt float32) {
		ticks++
		assert.InDelta(t, 0.01, dt, 1e-7)
	})
	e.SetRenderCallback(func(dt float32) { rendered = append(rendered, dt) })

	require.NoError(t, e.Run())
	assert.Equal(t, 8, ticks)
	assert.Equal(t, uint64(8), e.Loop().Ticks())
	require.Len(t, rendered, 5)
	assert.InDelta(t, 0.016, rendered[0], 1e-6)
	assert.Empty(t, h.slept)
}

func TestRunDrawsScenesInKeyOrder(t *testing.T) {
	dev := devicetest.NewFakeDevice()
	back, backMat := newLayer(t, dev)
	front, frontMat := newLayer(t, dev)
	hidden, _ := newLayer(t, dev)
	hidden.Disabled = true

	h := newHarness(1, 16*time.Millisecond)
	r := renderer.New(dev)
	e := NewEngine(append(h.options(),
		WithRenderer(r),
		WithScene(2, front),
		WithScene(1, back),
		WithScene(0, hidden),
	)...)
	dev.Reset()

	require.NoError(t, e.Run())
	require.Len(t, dev.Draws, 2)
	assert.Equal(t, backMat.Program().Handle(), dev.Draws[0].Program)
	assert.Equal(t, frontMat.Program().Handle(), dev.Draws[1].Program)

	assert.Len(t, e.Scenes(), 3)
	e.RemoveScene(2)
	assert.Nil(t, e.Scene(2))
	assert.Same(t, back, e.Scene(1))
}

func TestTickDrivesMovementRigs(t *testing.T) {
	h := newHarness(2, 50*time.Millisecond)
	g := scene.NewGraph()
	root := g.NewGroup()
	rig := g.NewMovementRig(scene.DefaultRigProperties())
	require.NoError(t, g.AddChild(root, rig))

	e := NewEngine(append(h.options(), WithTickRate(100))...)
	e.AddScene(0, &Scene{Graph: g, Root: root, Keys: pressedKeys{common.KeyW: true}})

	require.NoError(t, e.Run())
	assert.InDelta(t, -0.1, g.Position(rig).Z(), 1e-4)
}

func TestQuitClosesWindowAfterFrame(t *testing.T) {
	h := newHarness(10, 20*time.Millisecond)
	var e Engine
	frames := 0
	e = NewEngine(h.options()...)
	e.SetRenderCallback(func(float32) {
		frames++
		e.Quit()
		e.Quit()
	})

	require.NoError(t, e.Run())
	assert.Equal(t, 1, frames)
	assert.True(t, h.window.closed)
}

func TestRenderFrameLimitSleepsRemainder(t *testing.T) {
	h := newHarness(2, 5*time.Millisecond)
	e := NewEngine(append(h.options(), WithRenderFrameLimit(50))...)

	require.NoError(t, e.Run())
	assert.Equal(t, []time.Duration{20 * time.Millisecond, 20 * time.Millisecond}, h.slept)

	e.SetRenderFrameLimit(0)
	h.window.frames = 3
	require.NoError(t, e.Run())
	assert.Len(t, h.slept, 2)
}

func TestSetTickRate(t *testing.T) {
	e := NewEngine()
	e.SetTickRate(30)
	assert.Equal(t, time.Duration(33333333), e.Loop().Step())
	e.SetTickRate(-1)
	assert.Equal(t, time.Duration(16666666), e.Loop().Step())
}
