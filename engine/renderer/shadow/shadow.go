// Package shadow renders a depth map from a directional light's point of view and exposes it
// as the Shadow uniform struct that lit materials sample during the main pass.
package shadow

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-gl/engine/camera"
	"github.com/Carmen-Shannon/oxy-gl/engine/device"
	"github.com/Carmen-Shannon/oxy-gl/engine/light"
	"github.com/Carmen-Shannon/oxy-gl/engine/logger"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/rendertarget"
	"github.com/Carmen-Shannon/oxy-gl/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// DefaultTextureUnit is the texture unit the depth texture is sampled from.
// It is the highest unit an OpenGL 4.1 core context guarantees.
const DefaultTextureUnit uint32 = 15

// ErrNotDirectional is returned when a shadow is requested for a node that holds no directional light.
var ErrNotDirectional = errors.New("shadow requires a directional light")

// Shadow owns the light-space camera node, the depth render target and the depth-only material.
type Shadow struct {
	graph      scene.Graph
	lightNode  scene.NodeID
	cameraNode scene.NodeID
	camera     camera.Camera
	target     *rendertarget.RenderTarget
	material   material.Material

	bounds   light.ShadowBounds
	unit     uint32
	strength float32
	bias     float32
}

// Initialize attaches an orthographic camera spanning the shadow bounds as a child of lightNode
// and allocates the depth target and material.
//
// Parameters:
//   - dev: the device to allocate on
//   - graph: the scene graph holding lightNode
//   - lightNode: a node holding a directional light
//   - resolution: the size of the depth texture
//   - options: functional options for bounds, strength, bias and texture unit
//
// Returns:
//   - *Shadow: the initialized shadow
//   - error: ErrNotDirectional for any other node, or the render target and material creation errors
func Initialize(dev device.Device, graph scene.Graph, lightNode scene.NodeID, resolution rendertarget.Resolution, options ...ShadowBuilderOption) (*Shadow, error) {
	l, ok := graph.Light(lightNode)
	if !ok || !l.IsDirectional() {
		return nil, fmt.Errorf("initialize shadow for node %d: %w", lightNode, ErrNotDirectional)
	}
	s := &Shadow{
		graph:     graph,
		lightNode: lightNode,
		bounds:    light.DefaultShadowBounds,
		unit:      DefaultTextureUnit,
		strength:  light.DefaultShadowStrength,
		bias:      light.DefaultShadowBias,
	}
	for _, opt := range options {
		opt(s)
	}

	target, err := rendertarget.New(dev, resolution)
	if err != nil {
		return nil, fmt.Errorf("failed to create shadow render target: %w", err)
	}
	depth, err := material.NewDepth(dev)
	if err != nil {
		target.Release(dev)
		return nil, fmt.Errorf("failed to create shadow depth material: %w", err)
	}
	s.target = target
	s.material = depth

	s.camera = camera.NewOrthographic(camera.Orthographic{
		Left:   s.bounds.Min.X(),
		Right:  s.bounds.Max.X(),
		Bottom: s.bounds.Min.Y(),
		Top:    s.bounds.Max.Y(),
		Near:   s.bounds.Min.Z(),
		Far:    s.bounds.Max.Z(),
	})
	s.cameraNode = graph.NewCamera(s.camera)
	graph.SetName(s.cameraNode, "shadow camera")
	if err := graph.AddChild(lightNode, s.cameraNode); err != nil {
		target.Release(dev)
		depth.Release(dev)
		return nil, fmt.Errorf("failed to attach shadow camera: %w", err)
	}
	s.Update()

	logger.Named("shadow").Debug("shadow initialized",
		zap.Int("light", int(lightNode)),
		zap.Stringer("resolution", resolution))
	return s, nil
}

// Update refreshes the light camera view matrix from the light node's world transform.
func (s *Shadow) Update() {
	if !s.graph.UpdateCamera(s.cameraNode) {
		logger.Named("shadow").Debug("shadow camera transform is singular, keeping previous view")
	}
}

// Bind directs draws into the depth target and sets the viewport to its resolution.
func (s *Shadow) Bind(dev device.Device) {
	s.target.Bind(dev)
	res := s.target.Resolution()
	dev.Viewport(0, 0, int32(res.Width), int32(res.Height))
}

// LightNode returns the node holding the directional light.
func (s *Shadow) LightNode() scene.NodeID {
	return s.lightNode
}

// CameraNode returns the light-space camera node.
func (s *Shadow) CameraNode() scene.NodeID {
	return s.cameraNode
}

// Camera returns the light-space orthographic camera.
func (s *Shadow) Camera() camera.Camera {
	return s.camera
}

// Target returns the depth render target.
func (s *Shadow) Target() *rendertarget.RenderTarget {
	return s.target
}

// Material returns the depth-only material used for the shadow pass.
func (s *Shadow) Material() material.Material {
	return s.material
}

// ViewProjection returns the light camera's combined view projection matrix.
func (s *Shadow) ViewProjection() mgl32.Mat4 {
	return s.camera.ViewProjectionMatrix()
}

// Strength returns how much fully shadowed fragments are darkened.
func (s *Shadow) Strength() float32 {
	return s.strength
}

// SetStrength sets how much fully shadowed fragments are darkened, in [0, 1].
func (s *Shadow) SetStrength(strength float32) {
	s.strength = mgl32.Clamp(strength, 0, 1)
}

// Bias returns the depth comparison bias.
func (s *Shadow) Bias() float32 {
	return s.bias
}

// SetBias sets the depth comparison bias.
func (s *Shadow) SetBias(bias float32) {
	s.bias = bias
}

// Uniform returns the Shadow struct value for the current frame.
//
// Returns:
//   - material.Struct: the lightDirection, projectionMatrix, viewMatrix, depthTexture, strength and bias members
func (s *Shadow) Uniform() material.Struct {
	var direction mgl32.Vec3
	if l, ok := s.graph.Light(s.lightNode); ok {
		direction = l.Direction()
	}
	return material.Struct{
		light.MemberLightDirection:   material.Vec3(direction),
		light.MemberProjectionMatrix: material.Mat4(s.camera.ProjectionMatrix()),
		light.MemberViewMatrix:       material.Mat4(s.camera.ViewMatrix()),
		light.MemberDepthTexture:     material.Sampler2D{Texture: s.target.Texture(), Unit: s.unit},
		light.MemberStrength:         material.Float(s.strength),
		light.MemberBias:             material.Float(s.bias),
	}
}

// Release deletes the depth target and material.
func (s *Shadow) Release(dev device.Device) {
	s.target.Release(dev)
	s.material.Release(dev)
}
