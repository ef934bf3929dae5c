package shader

// PreProcessorBuilderOption is a functional option for configuring the pre-processor.
type PreProcessorBuilderOption func(*preProcessor)

// WithVersion sets the line emitted for @oxy:version.
//
// Parameters:
//   - version: the full version directive, e.g. "#version 410 core"
//
// Returns:
//   - PreProcessorBuilderOption: option function to apply
func WithVersion(version string) PreProcessorBuilderOption {
	return func(p *preProcessor) {
		if version != "" {
			p.version = version
		}
	}
}

// WithLightCount sets the number of light slots emitted by @oxy:lights.
// Non-positive counts are ignored.
//
// Parameters:
//   - count: the fixed light slot count
//
// Returns:
//   - PreProcessorBuilderOption: option function to apply
func WithLightCount(count int) PreProcessorBuilderOption {
	return func(p *preProcessor) {
		if count > 0 {
			p.lightCount = count
		}
	}
}

// WithInclude registers an additional source for @oxy:include, replacing any existing entry.
//
// Parameters:
//   - key: the include key used in annotations
//   - source: the GLSL source injected at the annotation site
//
// Returns:
//   - PreProcessorBuilderOption: option function to apply
func WithInclude(key AnnotationArg, source string) PreProcessorBuilderOption {
	return func(p *preProcessor) {
		p.registry[key] = source
	}
}
