package loader

import (
	"github.com/Carmen-Shannon/oxy-gl/common"
)

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithUnlit maps every material to an unlit surface or texture material.
// Materials carrying KHR_materials_unlit are always unlit.
//
// Returns:
//   - LoaderBuilderOption: a function that applies the option to a loader
func WithUnlit() LoaderBuilderOption {
	return func(l *loader) {
		l.settings.lit = false
	}
}

// WithShadows makes lit materials sample the renderer's shadow map.
//
// Parameters:
//   - enabled: whether lit materials receive shadows
//
// Returns:
//   - LoaderBuilderOption: a function that applies the option to a loader
func WithShadows(enabled bool) LoaderBuilderOption {
	return func(l *loader) {
		l.settings.shadows = enabled
	}
}

// WithAmbient sets the ambient color of lit materials.
//
// Parameters:
//   - c: the ambient color
//
// Returns:
//   - LoaderBuilderOption: a function that applies the option to a loader
func WithAmbient(c common.Color) LoaderBuilderOption {
	return func(l *loader) {
		l.settings.ambient = c
	}
}

// WithTextureUnit sets the texture unit base color textures are bound to.
//
// Parameters:
//   - unit: the texture unit
//
// Returns:
//   - LoaderBuilderOption: a function that applies the option to a loader
func WithTextureUnit(unit uint32) LoaderBuilderOption {
	return func(l *loader) {
		l.settings.textureUnit = unit
	}
}

// WithModel pre-populates the model cache.
//
// Parameters:
//   - uri: the cache key
//   - m: the model
//
// Returns:
//   - LoaderBuilderOption: a function that applies the option to a loader
func WithModel(uri string, m *Model) LoaderBuilderOption {
	return func(l *loader) {
		l.modelCache[uri] = m
	}
}
