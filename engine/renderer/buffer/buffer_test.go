package buffer

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/device"
	"github.com/Carmen-Shannon/oxy-gl/engine/device/devicetest"
	"github.com/Carmen-Shannon/oxy-gl/engine/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferViewRejectsBadTarget(t *testing.T) {
	_, err := NewBufferView(NewBuffer(make([]byte, 16)), device.BufferTarget(0x1234))
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrGeometryValidation)
}

func TestBufferViewRejectsOutOfRange(t *testing.T) {
	buf := NewBuffer(make([]byte, 16))
	_, err := NewBufferView(buf, device.BufferTargetArray, WithByteOffset(8), WithByteLength(12))
	assert.ErrorIs(t, err, errs.ErrGeometryValidation)

	_, err = NewBufferView(buf, device.BufferTargetArray, WithByteStride(2))
	assert.ErrorIs(t, err, errs.ErrGeometryValidation)

	v, err := NewBufferView(buf, device.BufferTargetArray, WithByteOffset(4))
	require.NoError(t, err)
	assert.Equal(t, 12, v.ByteLength())
}

func TestBufferViewUploadsOnce(t *testing.T) {
	dev := devicetest.NewFakeDevice()
	acc, err := FromFloat32([]float32{0, 0, 0, 1, 0, 0, 0, 1, 0}, ElementVec3)
	require.NoError(t, err)
	assert.False(t, acc.View().Uploaded())
	assert.Zero(t, dev.TotalCalls())

	require.NoError(t, acc.Bind(dev))
	require.NoError(t, acc.Bind(dev))
	require.NoError(t, acc.Bind(dev))

	assert.Equal(t, 1, dev.Calls("CreateBuffer"))
	assert.Equal(t, 1, dev.Calls("BufferData"))
	assert.Equal(t, 3, dev.Calls("BindBuffer"))
	assert.True(t, acc.View().Uploaded())
	assert.Len(t, dev.Buffers[acc.View().Handle()], 36)
}

func TestBufferViewAllocationFailure(t *testing.T) {
	dev := devicetest.NewFakeDevice(devicetest.WithCreateFailure("CreateBuffer", errors.New("out of memory")))
	acc, err := FromUint16Indices([]uint16{0, 1, 2})
	require.NoError(t, err)

	err = acc.Bind(dev)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrResourceCreation)
	assert.Contains(t, err.Error(), "out of memory")
	assert.False(t, acc.View().Uploaded())
}

func TestAccessorValidation(t *testing.T) {
	view, err := NewBufferView(NewBuffer(make([]byte, 24)), device.BufferTargetArray)
	require.NoError(t, err)

	tests := []struct {
		name          string
		componentType device.ComponentType
		elementType   ElementType
		count         int
		options       []AccessorOption
	}{
		{name: "unknown component type", componentType: device.ComponentType(0x1404), elementType: ElementVec3, count: 2},
		{name: "unknown element type", componentType: device.ComponentTypeFloat, elementType: ElementType(42), count: 2},
		{name: "zero count", componentType: device.ComponentTypeFloat, elementType: ElementVec3, count: 0},
		{name: "exceeds view", componentType: device.ComponentTypeFloat, elementType: ElementVec3, count: 3},
		{name: "offset exceeds view", componentType: device.ComponentTypeFloat, elementType: ElementVec3, count: 2, options: []AccessorOption{WithAccessorByteOffset(4)}},
		{name: "bounds width", componentType: device.ComponentTypeFloat, elementType: ElementVec3, count: 2, options: []AccessorOption{WithBounds([]float32{0}, []float32{1})}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewAccessor(view, tt.componentType, tt.elementType, tt.count, tt.options...)
			assert.ErrorIs(t, err, errs.ErrGeometryValidation)
		})
	}

	acc, err := NewAccessor(view, device.ComponentTypeFloat, ElementVec3, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, acc.Count())
}

func TestTypedDataIsCached(t *testing.T) {
	values := []float32{1, 2, 3, 4, 5, 6}
	acc, err := FromFloat32(values, ElementVec2)
	require.NoError(t, err)
	assert.Zero(t, acc.Materializations())

	first := acc.TypedData()
	second := acc.TypedData()
	assert.Equal(t, 1, acc.Materializations())
	assert.Equal(t, values, first)
	assert.Equal(t, first, second)
	assert.Equal(t, 3, acc.Count())
}

func TestTypedDataHonorsStride(t *testing.T) {
	// interleaved position (vec3) and uv (vec2)
	interleaved := []float32{
		0, 0, 0, 0, 0,
		1, 0, 0, 1, 0,
		0, 1, 0, 0, 1,
	}
	buf := NewBuffer(common.SliceToBytes(interleaved))
	view, err := NewBufferView(buf, device.BufferTargetArray, WithByteStride(20))
	require.NoError(t, err)

	pos, err := NewAccessor(view, device.ComponentTypeFloat, ElementVec3, 3)
	require.NoError(t, err)
	uv, err := NewAccessor(view, device.ComponentTypeFloat, ElementVec2, 3, WithAccessorByteOffset(12))
	require.NoError(t, err)

	assert.Equal(t, []float32{0, 0, 0, 1, 0, 0, 0, 1, 0}, pos.TypedData())
	assert.Equal(t, []float32{0, 0, 1, 0, 0, 1}, uv.TypedData())
	assert.Equal(t, 13, pos.ArrayLength())
	assert.Equal(t, 12, uv.ArrayLength())
}

func TestIndexAccessors(t *testing.T) {
	small, err := FromUint16Indices([]uint16{0, 1, 2, 2, 1, 3})
	require.NoError(t, err)
	assert.Equal(t, device.ComponentTypeUnsignedShort, small.ComponentType())
	assert.Equal(t, device.BufferTargetElementArray, small.View().Target())
	assert.Equal(t, []uint16{0, 1, 2, 2, 1, 3}, small.TypedData())

	large, err := FromUint32Indices([]uint32{70000, 1})
	require.NoError(t, err)
	assert.Equal(t, []uint32{70000, 1}, large.TypedData())
}

func TestNormalizedFloat32s(t *testing.T) {
	view, err := NewBufferView(NewBuffer([]byte{0, 255, 51, 255}), device.BufferTargetArray)
	require.NoError(t, err)
	acc, err := NewAccessor(view, device.ComponentTypeUnsignedByte, ElementVec4, 1, WithNormalized())
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float32{0, 1, 0.2, 1}, acc.Float32s(), 1e-6)
}

func TestSetVertexAttribute(t *testing.T) {
	dev := devicetest.NewFakeDevice()
	acc, err := FromFloat32([]float32{0, 0, 1, 1}, ElementVec2)
	require.NoError(t, err)
	require.NoError(t, acc.SetVertexAttribute(dev, 0))
	assert.Equal(t, 1, dev.Calls("VertexAttribPointer"))
	assert.Equal(t, 1, dev.Calls("EnableVertexAttribArray"))
}
