package engine

import (
	"github.com/Carmen-Shannon/oxy-gl/engine/postprocess"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/rendertarget"
	"github.com/Carmen-Shannon/oxy-gl/engine/scene"
)

// Scene is one renderable layer registered with the engine: a graph, the subtree to draw
// and the camera to draw it with.
type Scene struct {
	Graph  scene.Graph
	Root   scene.NodeID
	Camera scene.NodeID

	// Target receives the frame when set; nil draws to the default framebuffer.
	// Ignored when Postprocessor is set.
	Target *rendertarget.RenderTarget

	// Postprocessor, when set, renders the layer through its pass chain instead of drawing
	// the graph directly.
	Postprocessor *postprocess.Postprocessor

	// Keys drives the movement rigs under Root once per tick. Nil leaves rigs untouched.
	Keys scene.KeyState

	// Disabled layers are neither ticked nor drawn.
	Disabled bool
}

// Active reports whether the layer takes part in the frame.
func (s *Scene) Active() bool {
	return s != nil && !s.Disabled && s.Graph != nil
}
