package mesh

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/device"
	"github.com/Carmen-Shannon/oxy-gl/engine/device/devicetest"
	"github.com/Carmen-Shannon/oxy-gl/engine/errs"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/buffer"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/geometry"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func triangle(t *testing.T, names ...string) *geometry.Geometry {
	t.Helper()
	values := map[string][]float32{
		geometry.AttributePosition: {0, 0, 0, 1, 0, 0, 0, 1, 0},
		geometry.AttributeNormal:   {0, 0, 1, 0, 0, 1, 0, 0, 1},
		geometry.AttributeColor0:   {1, 0, 0, 0, 1, 0, 0, 0, 1},
	}
	g, err := geometry.FromFloat32(values, nil, names...)
	require.NoError(t, err)
	return g
}

func lambert(t *testing.T, dev device.Device) material.Material {
	t.Helper()
	m, err := material.NewLambert(dev, material.DefaultLitProperties())
	require.NoError(t, err)
	return m
}

func TestNewPrimitiveMissingPositionMakesNoDeviceCalls(t *testing.T) {
	dev := devicetest.NewFakeDevice()
	mat := lambert(t, dev)
	dev.Reset()

	_, err := NewPrimitive(dev, triangle(t, geometry.AttributeNormal), nil, mat, device.DrawModeTriangles)
	require.ErrorIs(t, err, errs.ErrGeometryValidation)
	assert.Contains(t, err.Error(), "POSITION")
	assert.Zero(t, dev.TotalCalls())
}

func TestNewPrimitiveValidation(t *testing.T) {
	dev := devicetest.NewFakeDevice()
	mat := lambert(t, dev)

	mismatched := triangle(t, geometry.AttributePosition)
	short, err := buffer.FromFloat32([]float32{0, 0, 1, 0, 0, 1}, buffer.ElementVec3)
	require.NoError(t, err)
	mismatched.Set(geometry.AttributeNormal, short)

	floatIndices, err := buffer.FromFloat32([]float32{0, 1, 2}, buffer.ElementScalar)
	require.NoError(t, err)

	tests := []struct {
		name    string
		geom    *geometry.Geometry
		indices *buffer.Accessor
		mode    device.DrawMode
	}{
		{name: "mismatched counts", geom: mismatched, mode: device.DrawModeTriangles},
		{name: "triangle fan", geom: triangle(t, geometry.AttributePosition), mode: device.DrawModeTriangleFan},
		{name: "unknown mode", geom: triangle(t, geometry.AttributePosition), mode: device.DrawMode(42)},
		{name: "float indices", geom: triangle(t, geometry.AttributePosition), indices: floatIndices, mode: device.DrawModeTriangles},
		{name: "nil geometry", mode: device.DrawModeTriangles},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev.Reset()
			_, err := NewPrimitive(dev, tt.geom, tt.indices, mat, tt.mode)
			require.ErrorIs(t, err, errs.ErrGeometryValidation)
			assert.Zero(t, dev.TotalCalls())
		})
	}
}

func TestNewPrimitiveBindsDeclaredAttributesOnly(t *testing.T) {
	dev := devicetest.NewFakeDevice()
	mat := lambert(t, dev)
	dev.Reset()

	p, err := NewPrimitive(dev, triangle(t, geometry.AttributePosition, geometry.AttributeNormal, geometry.AttributeColor0), nil, mat, device.DrawModeTriangles)
	require.NoError(t, err)
	assert.Equal(t, 1, dev.Calls("CreateVertexArray"))
	assert.Equal(t, 2, dev.Calls("VertexAttribPointer"))
	assert.Equal(t, 2, dev.Calls("CreateBuffer"))
	assert.Equal(t, int32(3), p.Count())
	assert.False(t, p.Indexed())
}

func TestNewPrimitiveVertexArrayFailure(t *testing.T) {
	dev := devicetest.NewFakeDevice(devicetest.WithCreateFailure("CreateVertexArray", errors.New("out of names")))
	mat := lambert(t, dev)

	_, err := NewPrimitive(dev, triangle(t, geometry.AttributePosition), nil, mat, device.DrawModeTriangles)
	require.ErrorIs(t, err, errs.ErrResourceCreation)
	assert.Contains(t, err.Error(), "out of names")
}

func TestRenderPushesTransformsAndDraws(t *testing.T) {
	dev := devicetest.NewFakeDevice()
	mat := lambert(t, dev)
	indices, err := buffer.FromUint16Indices([]uint16{0, 1, 2})
	require.NoError(t, err)

	indexed, err := NewPrimitive(dev, triangle(t, geometry.AttributePosition, geometry.AttributeNormal), indices, mat, device.DrawModeTriangles)
	require.NoError(t, err)
	arrays, err := NewPrimitive(dev, triangle(t, geometry.AttributePosition), nil, mat, device.DrawModeLineLoop)
	require.NoError(t, err)
	m := New(indexed, arrays)

	model := mgl32.Translate3D(1, 2, 3)
	vp := mgl32.Perspective(mgl32.DegToRad(60), 1, 0.1, 100)
	updates := 0
	m.Render(dev, model, mgl32.Ident4(), vp, material.UniformUpdaterFunc(func(device.Device, *material.Program) { updates++ }))

	require.Len(t, dev.Draws, 2)
	assert.True(t, dev.Draws[0].Indexed)
	assert.Equal(t, device.ComponentTypeUnsignedShort, dev.Draws[0].IndexType)
	assert.Equal(t, int32(3), dev.Draws[0].Count)
	assert.False(t, dev.Draws[1].Indexed)
	assert.Equal(t, device.DrawModeLineLoop, dev.Draws[1].Mode)
	assert.Equal(t, 2, updates)

	prog := mat.Program().Handle()
	v, ok := dev.LastUpload(prog, material.UniformModelMatrix)
	require.True(t, ok)
	assert.Equal(t, [16]float32(model), v)
	v, _ = dev.LastUpload(prog, material.UniformViewProjectionMatrix)
	assert.Equal(t, [16]float32(vp), v)
	_, ok = dev.LastUpload(prog, material.UniformNormalMatrix)
	assert.True(t, ok)
}

func TestRenderSharedIndexViewUsesAccessorOffset(t *testing.T) {
	dev := devicetest.NewFakeDevice()
	mat := lambert(t, dev)
	shared := buffer.NewBuffer(common.SliceToBytes([]uint16{0, 1, 2, 2, 1, 0}))
	view, err := buffer.NewBufferView(shared, device.BufferTargetElementArray)
	require.NoError(t, err)
	first, err := buffer.NewAccessor(view, device.ComponentTypeUnsignedShort, buffer.ElementScalar, 3)
	require.NoError(t, err)
	second, err := buffer.NewAccessor(view, device.ComponentTypeUnsignedShort, buffer.ElementScalar, 3, buffer.WithAccessorByteOffset(6))
	require.NoError(t, err)

	a, err := NewPrimitive(dev, triangle(t, geometry.AttributePosition), first, mat, device.DrawModeTriangles)
	require.NoError(t, err)
	b, err := NewPrimitive(dev, triangle(t, geometry.AttributePosition), second, mat, device.DrawModeTriangles)
	require.NoError(t, err)
	dev.Reset()

	New(a, b).Render(dev, mgl32.Ident4(), mgl32.Ident4(), mgl32.Ident4(), nil)

	require.Len(t, dev.Draws, 2)
	assert.Equal(t, 0, dev.Draws[0].Offset)
	assert.Equal(t, 6, dev.Draws[1].Offset)
	assert.Equal(t, int32(3), dev.Draws[1].Count)
}

func TestRenderWithSkipsNonTriangleModes(t *testing.T) {
	dev := devicetest.NewFakeDevice()
	mat := lambert(t, dev)
	depth, err := material.NewDepth(dev)
	require.NoError(t, err)

	tri, err := NewPrimitive(dev, triangle(t, geometry.AttributePosition), nil, mat, device.DrawModeTriangles)
	require.NoError(t, err)
	points, err := NewPrimitive(dev, triangle(t, geometry.AttributePosition), nil, mat, device.DrawModePoints)
	require.NoError(t, err)
	m := New(tri, points)
	dev.Reset()

	drawn := m.RenderWith(dev, depth, mgl32.Ident4(), mgl32.Ident4(), mgl32.Ident4(), nil)
	assert.Equal(t, 1, drawn)
	require.Len(t, dev.Draws, 1)
	assert.Equal(t, depth.Program().Handle(), dev.Draws[0].Program)
}

func TestMeshUniformFanOut(t *testing.T) {
	dev := devicetest.NewFakeDevice()
	lit := lambert(t, dev)
	depth, err := material.NewDepth(dev)
	require.NoError(t, err)

	a, err := NewPrimitive(dev, triangle(t, geometry.AttributePosition), nil, lit, device.DrawModeTriangles)
	require.NoError(t, err)
	b, err := NewPrimitive(dev, triangle(t, geometry.AttributePosition), nil, depth, device.DrawModeTriangles)
	require.NoError(t, err)
	m := New(a)
	assert.True(t, m.HasUniform("light0"))
	m = New(b)
	assert.False(t, m.HasUniform("light0"))
	m.AddPrimitive(a)
	assert.True(t, m.HasUniform("light0"))

	dev.Reset()
	m.UpdateUniform(dev, material.UniformUseShadow, material.Bool(true), material.LevelIgnore)
	v, ok := dev.LastUpload(lit.Program().Handle(), material.UniformUseShadow)
	require.True(t, ok)
	assert.Equal(t, int32(1), v)
	_, ok = dev.LastUpload(depth.Program().Handle(), material.UniformUseShadow)
	assert.False(t, ok)

	m.Release(dev)
	assert.Equal(t, 2, dev.Calls("DeleteVertexArray"))
}
