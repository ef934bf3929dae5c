package renderer

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/device"
	"github.com/Carmen-Shannon/oxy-gl/engine/light"
	"github.com/Carmen-Shannon/oxy-gl/engine/logger"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/mesh"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/rendertarget"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shadow"
	"github.com/Carmen-Shannon/oxy-gl/engine/scene"
	"go.uber.org/zap"
)

// ErrNoCamera is returned by Render when the camera node holds no camera.
var ErrNoCamera = errors.New("node holds no camera")

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu  *sync.Mutex
	dev device.Device

	clearColor common.Color
	clearMask  device.ClearMask
	blending   bool
	lightCount int
	updater    material.UniformUpdater
	shadow     *shadow.Shadow
}

// Renderer draws a scene graph from a camera node into the default framebuffer or a render target.
//
// Each Render call runs one complete cycle: an optional shadow pass into the shadow's depth target,
// then the main pass. Lit materials receive the scene's lights through the fixed light0..lightN-1
// slots and the shadow block through shadow0, each only when their program declares the slot.
type Renderer interface {
	// Render draws every mesh node below root as seen from cameraNode.
	//
	// Parameters:
	//   - graph: the scene graph
	//   - root: the traversal root
	//   - cameraNode: a node holding a camera; need not be below root
	//   - target: the destination, nil for the default framebuffer
	//
	// Returns:
	//   - error: ErrNoCamera if cameraNode holds no camera
	Render(graph scene.Graph, root, cameraNode scene.NodeID, target *rendertarget.RenderTarget) error

	// Device returns the device the renderer draws with.
	Device() device.Device

	// Shadow returns the configured shadow, nil when the shadow pass is disabled.
	Shadow() *shadow.Shadow

	// SetShadow enables the shadow pass with s, or disables it when s is nil.
	SetShadow(s *shadow.Shadow)

	// SetGlobalUniformUpdater replaces the updater invoked for every drawn primitive.
	SetGlobalUniformUpdater(updater material.UniformUpdater)

	// ClearColor returns the color the main pass clears to.
	ClearColor() common.Color

	// SetClearColor sets the color the main pass clears to.
	SetClearColor(c common.Color)

	// SetClearMask sets which buffers the main pass clears.
	SetClearMask(mask device.ClearMask)

	// LightCount returns the fixed number of light slots filled for lit materials.
	LightCount() int
}

var _ Renderer = &renderer{}

// New creates a renderer and applies its global state: depth testing, program point size and,
// unless disabled, SRC_ALPHA / ONE_MINUS_SRC_ALPHA blending.
//
// Parameters:
//   - dev: the device to draw with
//   - options: functional options
//
// Returns:
//   - Renderer: the new renderer
func New(dev device.Device, options ...RendererBuilderOption) Renderer {
	r := &renderer{
		mu:         &sync.Mutex{},
		dev:        dev,
		clearColor: common.Gray,
		clearMask:  device.ClearAll,
		blending:   true,
		lightCount: shader.DefaultLightCount,
		updater:    material.NoopUpdater,
	}
	for _, opt := range options {
		opt(r)
	}

	dev.Enable(device.CapabilityDepthTest)
	dev.Enable(device.CapabilityProgramPointSize)
	if r.blending {
		dev.Enable(device.CapabilityBlend)
		dev.BlendFunc(device.BlendSrcAlpha, device.BlendOneMinusSrcAlpha)
	}
	logger.Named("renderer").Debug("renderer initialized",
		zap.Int("lightCount", r.lightCount),
		zap.Bool("blending", r.blending),
		zap.String("version", dev.Parameter(device.ParameterVersion)))
	return r
}

type drawable struct {
	node scene.NodeID
	mesh *mesh.Mesh
}

func (r *renderer) Render(graph scene.Graph, root, cameraNode scene.NodeID, target *rendertarget.RenderTarget) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cam, ok := graph.Camera(cameraNode)
	if !ok {
		return fmt.Errorf("render from node %d: %w", cameraNode, ErrNoCamera)
	}

	var res rendertarget.Resolution
	if target != nil {
		res = target.Resolution()
	} else {
		res.Width, res.Height = r.dev.DrawingBufferSize()
	}

	var drawables []drawable
	for _, id := range graph.Descendants(root) {
		if m, ok := graph.Mesh(id); ok && m != nil {
			drawables = append(drawables, drawable{node: id, mesh: m})
		}
	}
	lights := CollectLights(graph, root)
	lights.Update()
	if lights.Len() > r.lightCount {
		logger.Named("renderer").Debug("scene has more lights than slots, extra lights are not bound",
			zap.Int("lights", lights.Len()),
			zap.Int("slots", r.lightCount))
	}

	cam.SetAspectRatio(res.Width, res.Height)
	if !graph.UpdateCamera(cameraNode) {
		logger.Named("renderer").Debug("camera transform is singular, keeping previous view", zap.Int("node", int(cameraNode)))
	}

	if r.shadow != nil {
		r.renderShadowPass(graph, drawables)
	}

	if target != nil {
		target.Bind(r.dev)
	} else {
		r.dev.BindFramebuffer(device.DefaultFramebuffer)
	}
	r.dev.ClearColor(r.clearColor.R, r.clearColor.G, r.clearColor.B, r.clearColor.A)
	r.dev.Clear(r.clearMask)
	r.dev.Viewport(0, 0, int32(res.Width), int32(res.Height))

	viewProjection := cam.ViewProjectionMatrix()
	viewPosition := material.Vec3(graph.WorldPosition(cameraNode))
	view := material.Mat4(cam.ViewMatrix())
	for _, d := range drawables {
		if d.mesh.HasUniform(lightUniformName(0)) {
			lights.ForEachIndexed(r.lightCount, func(i int, li light.Light) {
				d.mesh.UpdateUniform(r.dev, lightUniformName(i), lightUniform(li), material.LevelIgnore)
			})
		}
		if r.shadow != nil && d.mesh.HasUniform("shadow0") {
			d.mesh.UpdateUniform(r.dev, "shadow0", r.shadow.Uniform(), material.LevelIgnore)
		}
		d.mesh.UpdateUniform(r.dev, material.UniformViewPosition, viewPosition, material.LevelIgnore)
		d.mesh.UpdateUniform(r.dev, material.UniformViewMatrix, view, material.LevelIgnore)
		d.mesh.Render(r.dev, graph.GlobalTransform(d.node), graph.NormalTransform(d.node), viewProjection, r.updater)
	}
	return nil
}

// renderShadowPass draws the triangle-based primitives of every mesh with the depth material.
func (r *renderer) renderShadowPass(graph scene.Graph, drawables []drawable) {
	r.shadow.Update()
	r.shadow.Bind(r.dev)
	r.dev.ClearColor(1, 0, 0, 1)
	r.dev.Clear(device.ClearAll)
	lightViewProjection := r.shadow.ViewProjection()
	depth := r.shadow.Material()
	for _, d := range drawables {
		d.mesh.RenderWith(r.dev, depth, graph.GlobalTransform(d.node), graph.NormalTransform(d.node), lightViewProjection, r.updater)
	}
}

func (r *renderer) Device() device.Device {
	return r.dev
}

func (r *renderer) Shadow() *shadow.Shadow {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.shadow
}

func (r *renderer) SetShadow(s *shadow.Shadow) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shadow = s
}

func (r *renderer) SetGlobalUniformUpdater(updater material.UniformUpdater) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if updater == nil {
		updater = material.NoopUpdater
	}
	r.updater = updater
}

func (r *renderer) ClearColor() common.Color {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.clearColor
}

func (r *renderer) SetClearColor(c common.Color) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clearColor = c
}

func (r *renderer) SetClearMask(mask device.ClearMask) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clearMask = mask
}

func (r *renderer) LightCount() int {
	return r.lightCount
}
