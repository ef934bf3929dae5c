package material

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/device"
	"github.com/Carmen-Shannon/oxy-gl/engine/device/devicetest"
	"github.com/Carmen-Shannon/oxy-gl/engine/errs"
	"github.com/Carmen-Shannon/oxy-gl/engine/logger"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/texture"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const testVertex = `#version 330 core
in vec3 a_position;
in vec2 a_texcoord_0;
uniform mat4 u_ModelMatrix;
uniform vec3 offsets[4];
void main() {
    gl_Position = u_ModelMatrix * vec4(a_position + offsets[0], 1.0);
}`

const testFragment = `#version 330 core
uniform vec4 baseColor;
uniform float strength;
uniform sampler2D texture0;
out vec4 fragColor;
void main() {
    fragColor = baseColor * strength;
}`

func observeWarnings(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zap.WarnLevel)
	logger.SetLogger(zap.New(core))
	t.Cleanup(func() { logger.SetLogger(nil) })
	return logs
}

func TestCompileBuildsUniformAndAttributeTables(t *testing.T) {
	dev := devicetest.NewFakeDevice()
	p, err := Compile(dev, testVertex, testFragment)
	require.NoError(t, err)

	loc, ok := p.UniformLocation("baseColor")
	assert.True(t, ok)
	u, _ := p.Uniform("baseColor")
	assert.Equal(t, loc, u.Location)
	assert.Equal(t, device.UniformTypeFloatVec4, u.Type)

	arr, ok := p.Uniform("offsets[0]")
	require.True(t, ok)
	assert.Equal(t, int32(4), arr.Size)
	alias, ok := p.Uniform("offsets")
	require.True(t, ok)
	assert.Equal(t, arr.Location, alias.Location)

	_, ok = p.AttributeLocation("a_position")
	assert.True(t, ok)
	_, ok = p.AttributeLocation("a_normal")
	assert.False(t, ok)

	assert.Zero(t, dev.LiveShaders())
	assert.Equal(t, 1, dev.LivePrograms())
}

func TestCompileFailuresReleaseObjects(t *testing.T) {
	tests := []struct {
		name string
		opt  devicetest.FakeDeviceOption
		want error
		log  string
	}{
		{name: "vertex", opt: devicetest.WithCompileFailure(device.ShaderTypeVertex, "0:3 syntax error"), want: errs.ErrShaderCompile, log: "0:3 syntax error"},
		{name: "fragment", opt: devicetest.WithCompileFailure(device.ShaderTypeFragment, "0:5 undeclared"), want: errs.ErrShaderCompile, log: "0:5 undeclared"},
		{name: "link", opt: devicetest.WithLinkFailure("varying mismatch"), want: errs.ErrShaderLink, log: "varying mismatch"},
		{name: "create program", opt: devicetest.WithCreateFailure("CreateProgram", errors.New("no names")), want: errs.ErrResourceCreation, log: "no names"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := devicetest.NewFakeDevice(tt.opt)
			_, err := Compile(dev, testVertex, testFragment)
			require.ErrorIs(t, err, tt.want)
			assert.Contains(t, err.Error(), tt.log)
			assert.Zero(t, dev.LiveShaders())
			assert.Zero(t, dev.LivePrograms())
		})
	}
}

func TestHasUniformMatchesStructAndArrayMembers(t *testing.T) {
	dev := devicetest.NewFakeDevice()
	m, err := NewLambert(dev, DefaultLitProperties())
	require.NoError(t, err)

	assert.True(t, m.HasUniform("light0"))
	assert.True(t, m.HasUniform("light3"))
	assert.False(t, m.HasUniform("light4"))
	assert.True(t, m.HasUniform("shadow0"))
	assert.True(t, m.HasUniform("light0.color"))
	assert.False(t, m.HasUniform("light"))

	p, err := Compile(dev, testVertex, testFragment)
	require.NoError(t, err)
	assert.True(t, p.HasUniform("offsets"))
	assert.False(t, p.HasUniform("offset"))
}

func TestUpdateUniformExpandsStructs(t *testing.T) {
	dev := devicetest.NewFakeDevice()
	m, err := NewLambert(dev, DefaultLitProperties())
	require.NoError(t, err)

	light := Struct{
		"lightType":   Int(1),
		"color":       Vec3{1, 1, 1},
		"direction":   Vec3{0, -1, 0},
		"position":    Vec3{},
		"attenuation": Vec3{1, 0, 0},
	}
	assert.True(t, m.UpdateUniform(dev, "light2", light, LevelPanic))
	prog := m.Program().Handle()
	assert.Equal(t, prog, dev.CurrentProgram())

	v, ok := dev.LastUpload(prog, "light2.lightType")
	require.True(t, ok)
	assert.Equal(t, int32(1), v)
	v, _ = dev.LastUpload(prog, "light2.direction")
	assert.Equal(t, [3]float32{0, -1, 0}, v)
}

func TestLevelWarnLogsMissingAndMismatchedUniforms(t *testing.T) {
	logs := observeWarnings(t)
	dev := devicetest.NewFakeDevice()
	p, err := Compile(dev, testVertex, testFragment)
	require.NoError(t, err)
	p.Use(dev)

	assert.False(t, p.UpdateUniform(dev, "missing", Float(1), LevelWarn))
	assert.Empty(t, dev.Uploads)

	// Declared float, supplied int: reported and uploaded anyway.
	assert.True(t, p.UpdateUniform(dev, "strength", Int(2), LevelWarn))
	assert.Len(t, dev.Uploads, 1)

	entries := logs.FilterMessage("uniform binding mismatch").All()
	require.Len(t, entries, 2)
	assert.Contains(t, entries[0].ContextMap()["error"], `uniform "missing" not found`)
	assert.Contains(t, entries[1].ContextMap()["error"], "uniform type = float, value type = int")

	p.UpdateUniform(dev, "missing", Float(1), LevelIgnore)
	assert.Equal(t, 2, logs.Len())
}

func TestLevelPanicPanicsWithTypedError(t *testing.T) {
	dev := devicetest.NewFakeDevice()
	p, err := Compile(dev, testVertex, testFragment)
	require.NoError(t, err)
	p.Use(dev)

	var recovered any
	func() {
		defer func() { recovered = recover() }()
		p.UpdateUniform(dev, "missing", Float(1), LevelPanic)
	}()
	rerr, ok := recovered.(error)
	require.True(t, ok)
	assert.ErrorIs(t, rerr, errs.ErrUniformBindingMismatch)
}

func TestBindUploadsStoredValuesAndSettings(t *testing.T) {
	dev := devicetest.NewFakeDevice()
	tex, err := texture.NewEmpty(dev, 4, 4)
	require.NoError(t, err)

	m, err := NewMaterial(dev, testVertex, testFragment,
		WithUniform("baseColor", Color(common.Red)),
		WithUniform("texture0", Sampler2D{Texture: tex, Unit: 2}),
		WithLineWidth(3),
		WithBlend(device.BlendSrcAlpha, device.BlendOneMinusSrcAlpha),
	)
	require.NoError(t, err)
	m.SetUniform("baseColor", Color(common.Blue))

	m.Bind(dev)
	prog := m.Program().Handle()
	v, ok := dev.LastUpload(prog, "baseColor")
	require.True(t, ok)
	assert.Equal(t, [4]float32{0, 0, 1, 1}, v)
	v, _ = dev.LastUpload(prog, "texture0")
	assert.Equal(t, int32(2), v)
	assert.Equal(t, tex.Handle(), dev.BoundTexture(2))

	assert.True(t, dev.Enabled[device.CapabilityCullFace])
	assert.True(t, dev.Enabled[device.CapabilityBlend])
	assert.Equal(t, []float32{3}, dev.LineWidths)
	assert.Equal(t, [2]device.BlendFactor{device.BlendSrcAlpha, device.BlendOneMinusSrcAlpha}, dev.Blend)
}

func TestUpdateInvokesGlobalUpdater(t *testing.T) {
	dev := devicetest.NewFakeDevice()
	m, err := NewMaterial(dev, testVertex, testFragment)
	require.NoError(t, err)
	other, err := NewMaterial(dev, testVertex, testFragment)
	require.NoError(t, err)
	other.Bind(dev)
	dev.Reset()

	calls := 0
	m.Update(dev, UniformUpdaterFunc(func(d device.Device, p *Program) {
		calls++
		p.UpdateUniform(d, "strength", Float(0.5), LevelPanic)
	}))
	m.Update(dev, nil)
	assert.Equal(t, 1, calls)
	v, ok := dev.LastUpload(m.Program().Handle(), "strength")
	require.True(t, ok)
	assert.Equal(t, float32(0.5), v)
	_, ok = dev.LastUpload(other.Program().Handle(), "strength")
	assert.False(t, ok)
	assert.Equal(t, 1, dev.Calls("UseProgram"))
}

func TestKindsDefaults(t *testing.T) {
	dev := devicetest.NewFakeDevice()

	points, err := NewPoints(dev, DefaultPointProperties())
	require.NoError(t, err)
	assert.Equal(t, KindBasic, points.Kind())
	assert.Equal(t, device.DrawModePoints, points.DrawMode())
	size, _ := points.Uniform("pointSize")
	assert.Equal(t, Float(8), size)

	lineProps := DefaultLineProperties()
	lineProps.LineType = LineLoop
	lines, err := NewLines(dev, lineProps)
	require.NoError(t, err)
	assert.Equal(t, device.DrawModeLineLoop, lines.DrawMode())
	assert.Equal(t, float32(1), lines.Settings().LineWidth)

	lambert, err := NewLambert(dev, DefaultLitProperties())
	require.NoError(t, err)
	assert.True(t, lambert.Settings().DoubleSided)
	lambert.Bind(dev)
	assert.False(t, dev.Enabled[device.CapabilityCullFace])
	mat, _ := lambert.Uniform(UniformMaterial)
	assert.Equal(t, Bool(false), mat.(Struct)["useTexture"])

	phong, err := NewPhong(dev, DefaultLitProperties(), WithLightCount(2))
	require.NoError(t, err)
	assert.True(t, phong.HasUniform("light1"))
	assert.False(t, phong.HasUniform("light2"))
	assert.True(t, phong.HasUniform(UniformViewPosition))
	assert.True(t, phong.HasUniform("material.shininess"))

	sprite, err := NewSprite(dev, Sampler2D{Unit: 1}, DefaultSpriteProperties())
	require.NoError(t, err)
	tile, _ := sprite.Uniform("tileCount")
	assert.Equal(t, Vec2(mgl32.Vec2{1, 1}), tile)

	depth, err := NewDepth(dev)
	require.NoError(t, err)
	assert.Equal(t, KindDepth, depth.Kind())
	assert.False(t, depth.HasUniform("light0"))
}

func TestEffectPreprocessErrorMakesNoDeviceCalls(t *testing.T) {
	dev := devicetest.NewFakeDevice()
	_, err := NewEffect(dev, "//@oxy:include nope\nvoid main() {}", Sampler2D{})
	require.ErrorIs(t, err, errs.ErrShaderCompile)
	assert.Zero(t, dev.TotalCalls())

	m, err := NewEffect(dev, "//@oxy:version\nuniform sampler2D texture0;\nin vec2 v_uv;\nout vec4 fragColor;\nvoid main() { fragColor = texture(texture0, v_uv); }", Sampler2D{Unit: 0})
	require.NoError(t, err)
	assert.Equal(t, KindEffect, m.Kind())
	_, ok := m.Program().AttributeLocation("a_texcoord_0")
	assert.True(t, ok)
}
