package devicetest

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-gl/engine/device"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testVertex = `#version 330 core
in vec3 a_position;
layout(location = 1) in vec2 a_texcoord_0;
uniform mat4 u_ModelMatrix; // model
/* uniform float ignored; */
void main() {}
`

const testFragment = `#version 330 core
struct Light {
    int lightType;
    vec3 color, direction;
};
uniform Light light0;
uniform Light lights[2];
uniform float weights[3];
out vec4 fragColor;
void main() {}
`

func linkTestProgram(t *testing.T, d *FakeDevice) device.Program {
	t.Helper()
	vs, err := d.CreateShader(device.ShaderTypeVertex)
	require.NoError(t, err)
	d.ShaderSource(vs, testVertex)
	require.True(t, d.CompileShader(vs))
	fs, err := d.CreateShader(device.ShaderTypeFragment)
	require.NoError(t, err)
	d.ShaderSource(fs, testFragment)
	require.True(t, d.CompileShader(fs))
	p, err := d.CreateProgram()
	require.NoError(t, err)
	d.AttachShader(p, vs)
	d.AttachShader(p, fs)
	require.True(t, d.LinkProgram(p))
	return p
}

func TestActiveUniformsExpandStructs(t *testing.T) {
	d := NewFakeDevice()
	p := linkTestProgram(t, d)

	names := map[string]device.UniformType{}
	for _, u := range d.ActiveUniforms(p) {
		names[u.Name] = u.Type
	}
	assert.Equal(t, device.UniformTypeFloatMat4, names["u_ModelMatrix"])
	assert.Equal(t, device.UniformTypeInt, names["light0.lightType"])
	assert.Equal(t, device.UniformTypeFloatVec3, names["light0.direction"])
	assert.Equal(t, device.UniformTypeFloatVec3, names["lights[1].color"])
	assert.Equal(t, device.UniformTypeFloat, names["weights[0]"])
	assert.NotContains(t, names, "ignored")
}

func TestActiveAttributes(t *testing.T) {
	d := NewFakeDevice()
	p := linkTestProgram(t, d)

	attrs := d.ActiveAttributes(p)
	require.Len(t, attrs, 2)
	assert.Equal(t, "a_position", attrs[0].Name)
	assert.Equal(t, "a_texcoord_0", attrs[1].Name)
}

func TestUploadsResolveNames(t *testing.T) {
	d := NewFakeDevice()
	p := linkTestProgram(t, d)
	d.UseProgram(p)
	d.Uniform1i(1, 2)

	v, ok := d.LastUpload(p, "light0.lightType")
	require.True(t, ok)
	assert.Equal(t, int32(2), v)
}

func TestScriptedFailures(t *testing.T) {
	boom := errors.New("boom")
	d := NewFakeDevice(
		WithCreateFailure("CreateBuffer", boom),
		WithCompileFailure(device.ShaderTypeFragment, "bad fragment"),
		WithLinkFailure("bad link"),
	)

	_, err := d.CreateBuffer()
	assert.ErrorIs(t, err, boom)

	fs, err := d.CreateShader(device.ShaderTypeFragment)
	require.NoError(t, err)
	assert.False(t, d.CompileShader(fs))
	assert.Equal(t, "bad fragment", d.ShaderInfoLog(fs))

	p, err := d.CreateProgram()
	require.NoError(t, err)
	assert.False(t, d.LinkProgram(p))
	assert.Equal(t, "bad link", d.ProgramInfoLog(p))
	assert.Equal(t, 1, d.Calls("CreateBuffer"))
}

func TestResetKeepsObjects(t *testing.T) {
	d := NewFakeDevice()
	b, err := d.CreateBuffer()
	require.NoError(t, err)
	d.Reset()
	assert.Zero(t, d.TotalCalls())
	assert.Contains(t, d.Buffers, b)
}
