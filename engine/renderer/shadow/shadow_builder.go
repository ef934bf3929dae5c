package shadow

import "github.com/Carmen-Shannon/oxy-gl/engine/light"

// ShadowBuilderOption is a functional option applied to a Shadow during Initialize.
type ShadowBuilderOption func(*Shadow)

// WithBounds sets the light-space box captured by the orthographic camera.
//
// Parameters:
//   - bounds: the box; X and Y span the frustum, Z holds near and far
//
// Returns:
//   - ShadowBuilderOption: option function to apply
func WithBounds(bounds light.ShadowBounds) ShadowBuilderOption {
	return func(s *Shadow) {
		s.bounds = bounds
	}
}

// WithStrength sets how much fully shadowed fragments are darkened.
//
// Parameters:
//   - strength: the darkening in [0, 1]
//
// Returns:
//   - ShadowBuilderOption: option function to apply
func WithStrength(strength float32) ShadowBuilderOption {
	return func(s *Shadow) {
		s.SetStrength(strength)
	}
}

// WithBias sets the depth comparison bias.
//
// Parameters:
//   - bias: the bias added before comparing depths
//
// Returns:
//   - ShadowBuilderOption: option function to apply
func WithBias(bias float32) ShadowBuilderOption {
	return func(s *Shadow) {
		s.bias = bias
	}
}

// WithTextureUnit sets the unit the depth texture is bound to when sampled.
//
// Parameters:
//   - unit: the texture unit
//
// Returns:
//   - ShadowBuilderOption: option function to apply
func WithTextureUnit(unit uint32) ShadowBuilderOption {
	return func(s *Shadow) {
		s.unit = unit
	}
}
