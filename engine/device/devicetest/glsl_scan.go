package devicetest

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/oxy-gl/engine/device"
)

var (
	lineCommentPattern  = regexp.MustCompile(`//[^\n]*`)
	blockCommentPattern = regexp.MustCompile(`(?s)/\*.*?\*/`)
	structPattern       = regexp.MustCompile(`struct\s+(\w+)\s*\{([^}]*)\}\s*;`)
	uniformPattern      = regexp.MustCompile(`uniform\s+(?:(?:lowp|mediump|highp)\s+)?(\w+)\s+(\w+)\s*(?:\[\s*(\d+)\s*\])?\s*;`)
	attributePattern    = regexp.MustCompile(`(?m)^\s*(?:layout\s*\([^)]*\)\s*)?(?:in|attribute)\s+(?:(?:lowp|mediump|highp)\s+)?(\w+)\s+(\w+)\s*;`)
)

var glslTypes = map[string]device.UniformType{
	"int":       device.UniformTypeInt,
	"uint":      device.UniformTypeUnsignedInt,
	"float":     device.UniformTypeFloat,
	"vec2":      device.UniformTypeFloatVec2,
	"vec3":      device.UniformTypeFloatVec3,
	"vec4":      device.UniformTypeFloatVec4,
	"bool":      device.UniformTypeBool,
	"mat2":      device.UniformTypeFloatMat2,
	"mat3":      device.UniformTypeFloatMat3,
	"mat4":      device.UniformTypeFloatMat4,
	"sampler2D": device.UniformTypeSampler2D,
}

type structMember struct {
	typeName string
	name     string
	length   int
}

// stripComments removes GLSL line and block comments.
func stripComments(source string) string {
	source = blockCommentPattern.ReplaceAllString(source, "")
	return lineCommentPattern.ReplaceAllString(source, "")
}

// scanStructs collects struct definitions declared in the sources.
func scanStructs(sources ...string) map[string][]structMember {
	structs := make(map[string][]structMember)
	for _, src := range sources {
		for _, m := range structPattern.FindAllStringSubmatch(src, -1) {
			var members []structMember
			for _, decl := range strings.Split(m[2], ";") {
				fields := strings.Fields(strings.NewReplacer(",", " , ").Replace(decl))
				if len(fields) < 2 {
					continue
				}
				typeName := fields[0]
				for _, f := range fields[1:] {
					if f == "," {
						continue
					}
					name, length := splitArray(f)
					members = append(members, structMember{typeName: typeName, name: name, length: length})
				}
			}
			structs[m[1]] = members
		}
	}
	return structs
}

// splitArray splits "name[4]" into ("name", 4). Non-arrays report length 0.
func splitArray(decl string) (string, int) {
	open := strings.IndexByte(decl, '[')
	if open < 0 {
		return decl, 0
	}
	n, err := strconv.Atoi(strings.TrimSuffix(decl[open+1:], "]"))
	if err != nil {
		return decl[:open], 0
	}
	return decl[:open], n
}

// scanUniforms expands every uniform declaration into the flat list a GL driver would report.
// Unlike a real driver the fake does not eliminate uniforms unused by the shader body.
func scanUniforms(vertex, fragment string) []device.ActiveInfo {
	vertex, fragment = stripComments(vertex), stripComments(fragment)
	structs := scanStructs(vertex, fragment)

	seen := make(map[string]bool)
	var out []device.ActiveInfo
	var add func(prefix, typeName string, length int)
	add = func(prefix, typeName string, length int) {
		if members, ok := structs[typeName]; ok {
			count := max(length, 1)
			for i := range count {
				base := prefix
				if length > 0 {
					base = fmt.Sprintf("%s[%d]", prefix, i)
				}
				for _, m := range members {
					add(base+"."+m.name, m.typeName, m.length)
				}
			}
			return
		}
		ut, ok := glslTypes[typeName]
		if !ok {
			return
		}
		name := prefix
		size := int32(1)
		if length > 0 {
			name = prefix + "[0]"
			size = int32(length)
		}
		if seen[name] {
			return
		}
		seen[name] = true
		out = append(out, device.ActiveInfo{Name: name, Type: ut, Size: size})
	}

	for _, src := range []string{vertex, fragment} {
		for _, m := range uniformPattern.FindAllStringSubmatch(src, -1) {
			length := 0
			if m[3] != "" {
				length, _ = strconv.Atoi(m[3])
			}
			add(m[2], m[1], length)
		}
	}
	return out
}

// scanAttributes lists the vertex shader inputs.
func scanAttributes(vertex string) []device.ActiveInfo {
	vertex = stripComments(vertex)
	var out []device.ActiveInfo
	for _, m := range attributePattern.FindAllStringSubmatch(vertex, -1) {
		ut, ok := glslTypes[m[1]]
		if !ok {
			continue
		}
		out = append(out, device.ActiveInfo{Name: m[2], Type: ut, Size: 1})
	}
	return out
}
