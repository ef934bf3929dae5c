package shader

import (
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-gl/engine/device"
	"github.com/Carmen-Shannon/oxy-gl/engine/light"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const litFragment = `//@oxy:version
precision highp float;
//@oxy:include light
vec3 lambertLight(Light light, vec3 position, vec3 normal) {
    return light.color;
}
//@oxy:lights lambertLight
out vec4 fragColor;
void main() {
    fragColor = vec4(applyLights(vec3(0.0), vec3(0.0, 0.0, 1.0)), 1.0);
}`

func TestProcessExpandsAnnotations(t *testing.T) {
	pp := NewPreProcessor(WithLightCount(2))
	out, err := pp.Process(litFragment)
	require.NoError(t, err)

	lines := strings.Split(out, "\n")
	assert.Equal(t, DefaultVersion, lines[0])
	assert.Contains(t, out, strings.TrimSpace(light.GLSLLightSource))
	assert.Contains(t, out, "uniform Light light0;")
	assert.Contains(t, out, "uniform Light light1;")
	assert.NotContains(t, out, "uniform Light light2;")
	assert.Contains(t, out, "total += lambertLight(light1, position, normal);")
	assert.NotContains(t, out, annotationPrefix)

	decls := pp.Declarations()
	require.Len(t, decls, 3)
	assert.Equal(t, AnnotationTypeVersion, decls[0].Type)
	assert.Equal(t, AnnotationTypeInclude, decls[1].Type)
	assert.Equal(t, AnnotationArgLight, decls[1].Args[0])
	assert.Equal(t, 7, decls[2].Line)
}

func TestProcessDeclarationsOnly(t *testing.T) {
	pp := NewPreProcessor()
	out, err := pp.Process("//@oxy:include light\n//@oxy:lights\n")
	require.NoError(t, err)
	assert.Equal(t, DefaultLightCount, strings.Count(out, "uniform Light light"))
	assert.NotContains(t, out, "applyLights")
}

func TestProcessErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{name: "unknown type", source: "void main() {}\n//@oxy:bogus", want: "line 2"},
		{name: "unknown include", source: "//@oxy:include camera", want: `unknown include "camera"`},
		{name: "include arity", source: "//@oxy:include", want: "exactly one argument"},
		{name: "late version", source: "uniform float x;\n//@oxy:version", want: "must precede"},
		{name: "bad function", source: "//@oxy:lights 9lives", want: "invalid function name"},
		{name: "empty", source: "//@oxy:", want: "empty @oxy annotation"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPreProcessor().Process(tt.source)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestWithIncludeAndVersion(t *testing.T) {
	pp := NewPreProcessor(WithVersion("#version 410 core"), WithInclude("noise", "float noise(vec2 p) { return 0.0; }"))
	out, err := pp.Process("// header comment\n//@oxy:version\n//@oxy:include noise")
	require.NoError(t, err)
	assert.Contains(t, out, "#version 410 core")
	assert.Contains(t, out, "float noise(vec2 p)")
}

func TestNewShaderWrapsErrors(t *testing.T) {
	_, err := NewShader("broken", device.ShaderTypeFragment, "//@oxy:include nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shader broken")

	s, err := NewShader("ok", device.ShaderTypeVertex, "//@oxy:version\nvoid main() {}")
	require.NoError(t, err)
	assert.Equal(t, "ok", s.Key())
	assert.Equal(t, device.ShaderTypeVertex, s.ShaderType())
	assert.True(t, strings.HasPrefix(s.Source(), DefaultVersion))
	assert.Len(t, s.Declarations(), 1)
}

func TestNewShaderFromPathMissingFile(t *testing.T) {
	_, err := NewShaderFromPath("missing", device.ShaderTypeVertex, "does/not/exist.vert")
	assert.Error(t, err)
}
