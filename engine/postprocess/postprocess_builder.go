package postprocess

import "github.com/Carmen-Shannon/oxy-gl/engine/renderer/rendertarget"

// PostprocessorBuilderOption is a functional option applied to a Postprocessor during Initialize.
type PostprocessorBuilderOption func(*Postprocessor)

// WithResolution sets the size of the intermediate render targets. Defaults to the final
// target's resolution, or the drawing buffer when rendering to the screen.
//
// Parameters:
//   - resolution: the intermediate target size
//
// Returns:
//   - PostprocessorBuilderOption: option function to apply
func WithResolution(resolution rendertarget.Resolution) PostprocessorBuilderOption {
	return func(p *Postprocessor) {
		p.resolution = resolution
	}
}

// WithTextureUnit sets the unit effects sample the previous pass from.
//
// Parameters:
//   - unit: the texture unit
//
// Returns:
//   - PostprocessorBuilderOption: option function to apply
func WithTextureUnit(unit uint32) PostprocessorBuilderOption {
	return func(p *Postprocessor) {
		p.unit = unit
	}
}
