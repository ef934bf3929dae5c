package renderer

import (
	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/device"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shadow"
)

// RendererBuilderOption is a functional option applied to a renderer during construction via New.
type RendererBuilderOption func(*renderer)

// WithClearColor sets the color the main pass clears to. The default is gray.
//
// Parameters:
//   - c: the clear color
//
// Returns:
//   - RendererBuilderOption: a function that applies the clear color option to a renderer
func WithClearColor(c common.Color) RendererBuilderOption {
	return func(r *renderer) {
		r.clearColor = c
	}
}

// WithClearMask sets which buffers the main pass clears. The default clears color and depth.
//
// Parameters:
//   - mask: the buffers to clear
//
// Returns:
//   - RendererBuilderOption: a function that applies the clear mask option to a renderer
func WithClearMask(mask device.ClearMask) RendererBuilderOption {
	return func(r *renderer) {
		r.clearMask = mask
	}
}

// WithBlending toggles SRC_ALPHA / ONE_MINUS_SRC_ALPHA blending at construction. Enabled by default.
//
// Parameters:
//   - enabled: false leaves blending disabled
//
// Returns:
//   - RendererBuilderOption: a function that applies the blending option to a renderer
func WithBlending(enabled bool) RendererBuilderOption {
	return func(r *renderer) {
		r.blending = enabled
	}
}

// WithLightCount sets the fixed number of light slots. It must match the count the lit
// materials were built with.
//
// Parameters:
//   - count: the number of slots, ignored unless positive
//
// Returns:
//   - RendererBuilderOption: a function that applies the light count option to a renderer
func WithLightCount(count int) RendererBuilderOption {
	return func(r *renderer) {
		if count > 0 {
			r.lightCount = count
		}
	}
}

// WithShadow enables the shadow pass.
//
// Parameters:
//   - s: the shadow to render and bind
//
// Returns:
//   - RendererBuilderOption: a function that applies the shadow option to a renderer
func WithShadow(s *shadow.Shadow) RendererBuilderOption {
	return func(r *renderer) {
		r.shadow = s
	}
}

// WithGlobalUniformUpdater sets the updater invoked for every drawn primitive after its
// transforms are pushed.
//
// Parameters:
//   - updater: the scene-wide uniform updater
//
// Returns:
//   - RendererBuilderOption: a function that applies the updater option to a renderer
func WithGlobalUniformUpdater(updater material.UniformUpdater) RendererBuilderOption {
	return func(r *renderer) {
		if updater != nil {
			r.updater = updater
		}
	}
}
