// pre_processor.go implements the Oxy GLSL shader pre-processor. It scans shader
// source code for @oxy: annotations and replaces them with the configured version
// line, injected struct or helper source, or generated light uniform declarations.
//
// The pre-processor maintains a registry mapping include keys to embedded GLSL
// sources. Light and shadow structs come from the light package so the GLSL layout
// and the Go uniform values that fill it are defined side by side.
package shader

import (
	_ "embed"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/Carmen-Shannon/oxy-gl/engine/light"
)

// DefaultVersion is the GLSL version line emitted by @oxy:version.
const DefaultVersion = "#version 330 core"

// DefaultLightCount is the number of light slots emitted by @oxy:lights.
const DefaultLightCount = 4

// attenuationSource is the distance attenuation helper injected by @oxy:include attenuation.
//
//go:embed assets/attenuation.glsl
var attenuationSource string

// shadowCalcSource is the shadow lookup helper injected by @oxy:include shadow_calc.
//
//go:embed assets/shadow_calc.glsl
var shadowCalcSource string

// preProcessor is the implementation of the PreProcessor interface.
type preProcessor struct {
	// registry maps include keys to their GLSL source.
	registry map[AnnotationArg]string

	// version is the line emitted for @oxy:version.
	version string

	// lightCount is the number of light slots emitted for @oxy:lights.
	lightCount int

	// declarations accumulates every annotation seen during a Process call.
	declarations []Annotation
}

// PreProcessor processes raw GLSL shader source code containing @oxy: annotations,
// replacing them with generated declarations or injected sources.
type PreProcessor interface {
	// Process takes raw GLSL shader source code and pre-processes it by replacing
	// @oxy: annotations with their corresponding GLSL output.
	//
	// The declarations list is reset at the start of each call and can be retrieved
	// via Declarations() after Process returns.
	//
	// Parameters:
	//   - source: the raw GLSL shader source code containing annotations to be processed
	//
	// Returns:
	//   - string: the processed GLSL shader source code with annotations replaced
	//   - error: an error if any annotation is malformed or references an unknown include
	Process(source string) (string, error)

	// Declarations returns the annotations collected during the most recent call to
	// Process, in source order. Returns nil if Process has not been called.
	//
	// Returns:
	//   - []Annotation: the annotations collected during the last Process call
	Declarations() []Annotation

	// LightCount returns the number of light slots @oxy:lights expands to.
	//
	// Returns:
	//   - int: the light slot count
	LightCount() int
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a new PreProcessor with the built-in include sources registered.
//
// Parameters:
//   - options: functional options for version, light count and extra includes
//
// Returns:
//   - PreProcessor: a ready-to-use pre-processor instance
func NewPreProcessor(options ...PreProcessorBuilderOption) PreProcessor {
	p := &preProcessor{
		registry: map[AnnotationArg]string{
			AnnotationArgLight:       light.GLSLLightSource,
			AnnotationArgShadow:      light.GLSLShadowSource,
			AnnotationArgAttenuation: attenuationSource,
			AnnotationArgShadowCalc:  shadowCalcSource,
		},
		version:    DefaultVersion,
		lightCount: DefaultLightCount,
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *preProcessor) Process(source string) (string, error) {
	p.declarations = p.declarations[:0]
	includes := slices.Sorted(maps.Keys(p.registry))

	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))
	sawCode := false

	for i, line := range lines {
		a, err := parseAnnotation(line, i+1, includes)
		if err != nil {
			return "", err
		}
		if a == nil {
			if t := strings.TrimSpace(line); t != "" && !strings.HasPrefix(t, "//") {
				sawCode = true
			}
			out = append(out, line)
			continue
		}
		p.declarations = append(p.declarations, *a)

		switch a.Type {
		case AnnotationTypeVersion:
			if sawCode {
				return "", fmt.Errorf("line %d: @oxy version annotation must precede all other source", a.Line)
			}
			out = append(out, p.version)
		case AnnotationTypeInclude:
			out = append(out, strings.TrimRight(p.registry[a.Args[0]], "\n"))
		case AnnotationTypeLights:
			out = append(out, p.lights(a)...)
		default:
			return "", fmt.Errorf("line %d: unknown annotation type %q", a.Line, a.Type)
		}
		sawCode = true
	}
	return strings.Join(out, "\n"), nil
}

// lights generates the light slot declarations and the optional applyLights aggregator.
func (p *preProcessor) lights(a *Annotation) []string {
	out := make([]string, 0, 2*p.lightCount+4)
	for i := range p.lightCount {
		out = append(out, fmt.Sprintf("uniform Light light%d;", i))
	}
	if len(a.Args) == 0 {
		return out
	}
	fn := string(a.Args[0])
	out = append(out, "vec3 applyLights(vec3 position, vec3 normal) {", "    vec3 total = vec3(0.0);")
	for i := range p.lightCount {
		out = append(out, fmt.Sprintf("    total += %s(light%d, position, normal);", fn, i))
	}
	return append(out, "    return total;", "}")
}

func (p *preProcessor) Declarations() []Annotation {
	return p.declarations
}

func (p *preProcessor) LightCount() int {
	return p.lightCount
}
