// annotations.go defines the annotation types, argument constants, and parser for the
// Oxy GLSL shader pre-processor. Annotations are single-line GLSL comments prefixed
// with @oxy: that drive version line emission, struct injection, and generation of the
// fixed-size light uniform block. The parsed results are stored as Annotation values
// and consumed by the PreProcessor.
package shader

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// annotationPrefix is the marker that identifies an Oxy annotation within a GLSL comment line.
// Every annotation must appear on a line beginning with "//" followed by this prefix.
const annotationPrefix = "@oxy:"

// AnnotationType identifies the kind of annotation parsed from a GLSL comment line.
type AnnotationType string

const (
	// AnnotationTypeVersion emits the "#version" line configured on the pre-processor.
	// It must be the first non-blank line of the shader.
	//
	// Syntax: //@oxy:version
	AnnotationTypeVersion AnnotationType = "version"

	// AnnotationTypeInclude injects the GLSL source of a registered struct or helper
	// definition at the annotation site. It produces no declaration.
	//
	// Syntax: //@oxy:include <source>
	//
	// Example: //@oxy:include light
	AnnotationTypeInclude AnnotationType = "include"

	// AnnotationTypeLights emits one "uniform Light lightN;" declaration per configured
	// light slot. With a function argument it also emits
	//   vec3 applyLights(vec3 position, vec3 normal)
	// which sums <fn>(lightN, position, normal) over every slot. The function must be
	// declared above the annotation with the signature vec3 <fn>(Light, vec3, vec3).
	//
	// Syntax:
	//   //@oxy:lights
	//   //@oxy:lights <fn>
	//
	// Example: //@oxy:lights lambertLight
	AnnotationTypeLights AnnotationType = "lights"
)

// Annotation represents a single parsed @oxy: annotation from a GLSL shader source line.
type Annotation struct {
	// Type identifies which annotation was parsed.
	Type AnnotationType

	// Args holds the annotation's arguments. The contents depend on Type:
	//   - version: none
	//   - include: [0] = registered source key (e.g. "light")
	//   - lights:  [0] = per-light function name (optional)
	Args []AnnotationArg

	// Line is the 1-based line number in the original GLSL source where this annotation
	// was found. Used for error reporting.
	Line int
}

// AnnotationArg is a typed string used as an annotation argument.
type AnnotationArg string

// Registered include sources.
const (
	// AnnotationArgLight identifies the Light struct.
	// Source: engine/light/assets/light.glsl
	AnnotationArgLight AnnotationArg = "light"

	// AnnotationArgShadow identifies the Shadow struct.
	// Source: engine/light/assets/shadow.glsl
	AnnotationArgShadow AnnotationArg = "shadow"

	// AnnotationArgAttenuation identifies the distance attenuation helper.
	// Source: engine/renderer/shader/assets/attenuation.glsl
	AnnotationArgAttenuation AnnotationArg = "attenuation"

	// AnnotationArgShadowCalc identifies the shadow map lookup helper. Requires the shadow include.
	// Source: engine/renderer/shader/assets/shadow_calc.glsl
	AnnotationArgShadowCalc AnnotationArg = "shadow_calc"
)

// identifier matches a GLSL identifier.
var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// parseAnnotation attempts to parse a single line of GLSL source as an @oxy: annotation.
// Returns nil with no error for lines that do not contain the annotation prefix. Returns
// a populated Annotation for valid annotations, or an error describing the problem for
// malformed annotations with correct prefix but invalid syntax or unknown arguments.
//
// Parameters:
//   - line: the raw GLSL source line to parse
//   - lineNum: the 1-based line number for error reporting
//   - includes: the registered include keys
//
// Returns:
//   - *Annotation: the parsed annotation, or nil if the line is not an annotation
//   - error: a descriptive error if the annotation is malformed
func parseAnnotation(line string, lineNum int, includes []AnnotationArg) (*Annotation, error) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "//") {
		return nil, nil
	}
	_, after, ok := strings.Cut(trimmed, annotationPrefix)
	if !ok {
		return nil, nil
	}

	args := strings.Fields(after)
	if len(args) == 0 {
		return nil, fmt.Errorf("line %d: empty @oxy annotation", lineNum)
	}

	switch args[0] {
	case string(AnnotationTypeVersion):
		if len(args) != 1 {
			return nil, fmt.Errorf("line %d: @oxy version annotation takes no arguments", lineNum)
		}
		return &Annotation{Type: AnnotationTypeVersion, Line: lineNum}, nil
	case string(AnnotationTypeInclude):
		if len(args) != 2 {
			return nil, fmt.Errorf("line %d: @oxy include annotation requires exactly one argument", lineNum)
		}
		if !slices.Contains(includes, AnnotationArg(args[1])) {
			return nil, fmt.Errorf("line %d: unknown include %q in @oxy include annotation", lineNum, args[1])
		}
		return &Annotation{
			Type: AnnotationTypeInclude,
			Args: []AnnotationArg{AnnotationArg(args[1])},
			Line: lineNum,
		}, nil
	case string(AnnotationTypeLights):
		if len(args) > 2 {
			return nil, fmt.Errorf("line %d: @oxy lights annotation takes at most one argument", lineNum)
		}
		a := &Annotation{Type: AnnotationTypeLights, Line: lineNum}
		if len(args) == 2 {
			if !identifier.MatchString(args[1]) {
				return nil, fmt.Errorf("line %d: invalid function name %q in @oxy lights annotation", lineNum, args[1])
			}
			a.Args = []AnnotationArg{AnnotationArg(args[1])}
		}
		return a, nil
	default:
		return nil, fmt.Errorf("line %d: unknown @oxy annotation type %q", lineNum, args[0])
	}
}
