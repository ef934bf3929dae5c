package material

import (
	"github.com/Carmen-Shannon/oxy-gl/engine/device"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
)

// MaterialBuilderOption is a function that configures a material instance during construction.
type MaterialBuilderOption func(*materialImpl)

// WithDoubleSided sets whether back faces are drawn.
//
// Parameters:
//   - doubleSided: true disables face culling while the material is bound
//
// Returns:
//   - MaterialBuilderOption: a function that applies the option to a material
func WithDoubleSided(doubleSided bool) MaterialBuilderOption {
	return func(m *materialImpl) {
		m.settings.DoubleSided = doubleSided
	}
}

// WithLineWidth sets the rasterized line width applied on bind.
//
// Parameters:
//   - width: the line width in pixels
//
// Returns:
//   - MaterialBuilderOption: a function that applies the option to a material
func WithLineWidth(width float32) MaterialBuilderOption {
	return func(m *materialImpl) {
		m.settings.LineWidth = width
	}
}

// WithBlend enables blending with the given factors while the material is bound.
//
// Parameters:
//   - src: the source factor
//   - dst: the destination factor
//
// Returns:
//   - MaterialBuilderOption: a function that applies the option to a material
func WithBlend(src, dst device.BlendFactor) MaterialBuilderOption {
	return func(m *materialImpl) {
		m.settings.Blend = &Blend{Src: src, Dst: dst}
	}
}

// WithLevel sets the strictness used when stored values are uploaded.
//
// Parameters:
//   - level: the mismatch reporting level
//
// Returns:
//   - MaterialBuilderOption: a function that applies the option to a material
func WithLevel(level Level) MaterialBuilderOption {
	return func(m *materialImpl) {
		m.level = level
	}
}

// WithDrawMode overrides the default draw mode of the material.
//
// Parameters:
//   - mode: the primitive topology
//
// Returns:
//   - MaterialBuilderOption: a function that applies the option to a material
func WithDrawMode(mode device.DrawMode) MaterialBuilderOption {
	return func(m *materialImpl) {
		m.drawMode = mode
	}
}

// WithUniform stores an initial uniform value uploaded on every bind.
//
// Parameters:
//   - name: the uniform name
//   - value: the value
//
// Returns:
//   - MaterialBuilderOption: a function that applies the option to a material
func WithUniform(name string, value Value) MaterialBuilderOption {
	return func(m *materialImpl) {
		m.SetUniform(name, value)
	}
}

// withKind tags a built-in material.
func withKind(kind Kind) MaterialBuilderOption {
	return func(m *materialImpl) {
		m.kind = kind
	}
}

// KindBuilderOption configures how a built-in material kind pre-processes its shaders.
type KindBuilderOption func(*kindConfig)

type kindConfig struct {
	lightCount int
	options    []MaterialBuilderOption
}

// WithLightCount sets the number of light slots lit kinds declare. Must match the renderer.
//
// Parameters:
//   - count: the fixed light slot count
//
// Returns:
//   - KindBuilderOption: a function that applies the option
func WithLightCount(count int) KindBuilderOption {
	return func(c *kindConfig) {
		if count > 0 {
			c.lightCount = count
		}
	}
}

// WithMaterialOptions forwards generic material options to a built-in kind.
// They are applied after the kind's own defaults.
//
// Parameters:
//   - options: the material options
//
// Returns:
//   - KindBuilderOption: a function that applies the option
func WithMaterialOptions(options ...MaterialBuilderOption) KindBuilderOption {
	return func(c *kindConfig) {
		c.options = append(c.options, options...)
	}
}

func newKindConfig(options []KindBuilderOption) *kindConfig {
	c := &kindConfig{lightCount: shader.DefaultLightCount}
	for _, opt := range options {
		opt(c)
	}
	return c
}
