// Package postprocess chains full-screen effect passes behind a rendered scene.
//
// The first pass renders the caller's scene. Every effect added afterwards draws a screen
// quad whose material samples the texture the previous pass rendered into, and the final
// destination always stays attached to the last pass.
package postprocess

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-gl/engine/camera"
	"github.com/Carmen-Shannon/oxy-gl/engine/device"
	"github.com/Carmen-Shannon/oxy-gl/engine/logger"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/buffer"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/geometry"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/mesh"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/rendertarget"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/texture"
	"github.com/Carmen-Shannon/oxy-gl/engine/scene"
	"go.uber.org/zap"
)

// DefaultTextureUnit is the unit each effect samples the previous pass from.
const DefaultTextureUnit uint32 = 0

// Factory builds an effect material given a sampler bound to the previous pass's output.
type Factory func(sampler material.Sampler2D) (material.Material, error)

type pass struct {
	graph  scene.Graph
	root   scene.NodeID
	camera scene.NodeID
	target *rendertarget.RenderTarget
}

// Postprocessor owns the pass chain and the intermediate render targets between passes.
type Postprocessor struct {
	dev        device.Device
	renderer   renderer.Renderer
	resolution rendertarget.Resolution
	unit       uint32

	passes []pass

	// Effect passes share one graph, one quad geometry and one orthographic camera.
	effects *effectScene
}

type effectScene struct {
	graph  scene.Graph
	camera scene.NodeID
	quad   *geometry.Geometry
}

// Initialize creates a chain of length one that renders the scene at root from cameraNode
// straight into finalTarget.
//
// Parameters:
//   - dev: the device to allocate and draw with
//   - r: the renderer executing every pass
//   - graph: the scene graph of the base pass
//   - root: the traversal root of the base pass
//   - cameraNode: the camera node of the base pass
//   - finalTarget: the chain's destination, nil for the default framebuffer
//   - options: functional options for resolution and texture unit
//
// Returns:
//   - *Postprocessor: the new postprocessor
//   - error: an error if the screen quad cannot be built
func Initialize(dev device.Device, r renderer.Renderer, graph scene.Graph, root, cameraNode scene.NodeID, finalTarget *rendertarget.RenderTarget, options ...PostprocessorBuilderOption) (*Postprocessor, error) {
	p := &Postprocessor{
		dev:      dev,
		renderer: r,
		unit:     DefaultTextureUnit,
		passes:   []pass{{graph: graph, root: root, camera: cameraNode, target: finalTarget}},
	}
	for _, opt := range options {
		opt(p)
	}
	if p.resolution == (rendertarget.Resolution{}) {
		if finalTarget != nil {
			p.resolution = finalTarget.Resolution()
		} else {
			p.resolution.Width, p.resolution.Height = dev.DrawingBufferSize()
		}
	}

	quad, err := quadGeometry()
	if err != nil {
		return nil, fmt.Errorf("failed to create screen quad: %w", err)
	}
	effects := &effectScene{graph: scene.NewGraph(), quad: quad}
	effects.camera = effects.graph.NewCamera(camera.NewOrthographic(camera.DefaultOrthographic()))
	p.effects = effects
	return p, nil
}

// quadGeometry is two triangles covering clip space with matching texture coordinates.
func quadGeometry() (*geometry.Geometry, error) {
	positions := []float32{
		-1, -1, 1, -1, 1, 1,
		-1, -1, 1, 1, -1, 1,
	}
	uvs := []float32{
		0, 0, 1, 0, 1, 1,
		0, 0, 1, 1, 0, 1,
	}
	return geometry.FromFloat32(
		map[string][]float32{
			geometry.AttributePosition:  positions,
			geometry.AttributeTexcoord0: uvs,
		},
		map[string]buffer.ElementType{
			geometry.AttributePosition:  buffer.ElementVec2,
			geometry.AttributeTexcoord0: buffer.ElementVec2,
		},
		geometry.AttributePosition, geometry.AttributeTexcoord0,
	)
}

// AddEffect appends an effect pass. The previous last pass is redirected into a new render
// target whose texture the effect samples, and the effect pass takes over the final destination.
//
// Parameters:
//   - factory: builds the effect material from the sampler of the new intermediate texture
//
// Returns:
//   - error: render target, factory or primitive errors; the chain is unchanged on failure
func (p *Postprocessor) AddEffect(factory Factory) error {
	target, err := rendertarget.New(p.dev, p.resolution)
	if err != nil {
		return fmt.Errorf("failed to create effect render target: %w", err)
	}
	effect, err := factory(material.Sampler2D{Texture: target.Texture(), Unit: p.unit})
	if err != nil {
		target.Release(p.dev)
		return fmt.Errorf("failed to create effect material: %w", err)
	}
	prim, err := mesh.NewPrimitive(p.dev, p.effects.quad, nil, effect, device.DrawModeTriangles)
	if err != nil {
		effect.Release(p.dev)
		target.Release(p.dev)
		return fmt.Errorf("failed to create effect quad: %w", err)
	}

	// The quad node is the pass root; nothing is added to the graph until every resource exists.
	g := p.effects.graph
	root := g.NewMesh(mesh.New(prim))
	g.SetName(root, fmt.Sprintf("effect pass %d", len(p.passes)))

	last := len(p.passes) - 1
	final := p.passes[last].target
	p.passes[last].target = target
	p.passes = append(p.passes, pass{graph: g, root: root, camera: p.effects.camera, target: final})

	logger.Named("postprocess").Debug("effect added",
		zap.Int("passes", len(p.passes)),
		zap.Stringer("resolution", p.resolution))
	return nil
}

// Render executes the passes in chain order.
//
// Returns:
//   - error: the first renderer error, later passes are skipped
func (p *Postprocessor) Render() error {
	for i, ps := range p.passes {
		if err := p.renderer.Render(ps.graph, ps.root, ps.camera, ps.target); err != nil {
			return fmt.Errorf("postprocess pass %d: %w", i, err)
		}
	}
	return nil
}

// Passes returns the length of the chain.
func (p *Postprocessor) Passes() int {
	return len(p.passes)
}

// Resolution returns the size of the intermediate render targets.
func (p *Postprocessor) Resolution() rendertarget.Resolution {
	return p.resolution
}

// Target returns the destination of pass i, nil for the default framebuffer.
func (p *Postprocessor) Target(i int) *rendertarget.RenderTarget {
	if i < 0 || i >= len(p.passes) {
		return nil
	}
	return p.passes[i].target
}

// Texture returns the color texture pass i renders into.
//
// Parameters:
//   - i: the pass index
//
// Returns:
//   - *texture.Texture: the pass output
//   - bool: false if i is out of range or the pass renders to the default framebuffer
func (p *Postprocessor) Texture(i int) (*texture.Texture, bool) {
	target := p.Target(i)
	if target == nil {
		return nil, false
	}
	return target.Texture(), true
}

// Release deletes the intermediate render targets. The final target belongs to the caller.
func (p *Postprocessor) Release() {
	for _, ps := range p.passes[:len(p.passes)-1] {
		ps.target.Release(p.dev)
	}
}
