package buffer

import (
	"encoding/binary"
	"math"
	"slices"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/device"
	"github.com/Carmen-Shannon/oxy-gl/engine/errs"
)

// ElementType is the vector or matrix shape of one accessor element.
type ElementType int

const (
	ElementScalar ElementType = iota + 1
	ElementVec2
	ElementVec3
	ElementVec4
	ElementMat2
	ElementMat3
	ElementMat4
)

// Components returns the number of components per element.
func (e ElementType) Components() int {
	switch e {
	case ElementScalar:
		return 1
	case ElementVec2:
		return 2
	case ElementVec3:
		return 3
	case ElementVec4, ElementMat2:
		return 4
	case ElementMat3:
		return 9
	case ElementMat4:
		return 16
	default:
		return 0
	}
}

// componentTypes is the closed set of component types an Accessor may declare.
var componentTypes = []device.ComponentType{
	device.ComponentTypeByte,
	device.ComponentTypeUnsignedByte,
	device.ComponentTypeShort,
	device.ComponentTypeUnsignedShort,
	device.ComponentTypeUnsignedInt,
	device.ComponentTypeFloat,
}

// Accessor interprets a BufferView's bytes as count elements of a typed vector shape.
type Accessor struct {
	view          *BufferView
	byteOffset    int
	componentType device.ComponentType
	elementType   ElementType
	count         int
	normalized    bool
	min, max      []float32

	typed        any
	materialized int
}

// AccessorOption is a functional option for configuring an Accessor.
type AccessorOption func(*Accessor)

// WithAccessorByteOffset sets the offset of the first element relative to the view.
//
// Parameters:
//   - offset: byte offset into the view
//
// Returns:
//   - AccessorOption: option function to apply
func WithAccessorByteOffset(offset int) AccessorOption {
	return func(a *Accessor) {
		a.byteOffset = offset
	}
}

// WithNormalized marks integer data as normalized to [0, 1] or [-1, 1] when read by the shader.
//
// Returns:
//   - AccessorOption: option function to apply
func WithNormalized() AccessorOption {
	return func(a *Accessor) {
		a.normalized = true
	}
}

// WithBounds records per-component minimum and maximum values.
//
// Parameters:
//   - min: per-component minimum
//   - max: per-component maximum
//
// Returns:
//   - AccessorOption: option function to apply
func WithBounds(min, max []float32) AccessorOption {
	return func(a *Accessor) {
		a.min = slices.Clone(min)
		a.max = slices.Clone(max)
	}
}

// NewAccessor creates an accessor over view.
// Fails with a GeometryValidation error for unknown component or element types, bounds of
// the wrong width, or an element span that does not fit in the view.
//
// Parameters:
//   - view: the backing buffer view
//   - componentType: scalar type of each component
//   - elementType: vector shape of each element
//   - count: number of elements
//   - options: functional options
//
// Returns:
//   - *Accessor: the new accessor
//   - error: error if validation fails
func NewAccessor(view *BufferView, componentType device.ComponentType, elementType ElementType, count int, options ...AccessorOption) (*Accessor, error) {
	if view == nil {
		return nil, errs.New(errs.KindGeometryValidation, "new accessor", "nil buffer view")
	}
	if !slices.Contains(componentTypes, componentType) {
		return nil, errs.Newf(errs.KindGeometryValidation, "new accessor", "unknown component type 0x%X", uint32(componentType))
	}
	if elementType.Components() == 0 {
		return nil, errs.Newf(errs.KindGeometryValidation, "new accessor", "unknown element type %d", int(elementType))
	}
	if count < 1 {
		return nil, errs.Newf(errs.KindGeometryValidation, "new accessor", "count must be positive, got %d", count)
	}
	a := &Accessor{view: view, componentType: componentType, elementType: elementType, count: count}
	for _, opt := range options {
		opt(a)
	}
	n := elementType.Components()
	if (a.min != nil && len(a.min) != n) || (a.max != nil && len(a.max) != n) {
		return nil, errs.Newf(errs.KindGeometryValidation, "new accessor", "bounds must have %d components", n)
	}
	if a.byteOffset < 0 || a.byteOffset+a.ByteLength() > view.ByteLength() {
		return nil, errs.Newf(errs.KindGeometryValidation, "new accessor",
			"%d elements at offset %d need %d bytes, view has %d", count, a.byteOffset, a.ByteLength(), view.ByteLength())
	}
	return a, nil
}

// FromFloat32 builds a tightly packed float vertex attribute accessor over its own buffer.
//
// Parameters:
//   - values: flat component values
//   - elementType: vector shape of each element
//
// Returns:
//   - *Accessor: the new accessor
//   - error: error if len(values) is not a multiple of the element width
func FromFloat32(values []float32, elementType ElementType) (*Accessor, error) {
	n := elementType.Components()
	if n == 0 || len(values) == 0 || len(values)%n != 0 {
		return nil, errs.Newf(errs.KindGeometryValidation, "accessor from float32", "%d values do not form whole elements of width %d", len(values), n)
	}
	view, err := NewBufferView(NewBuffer(slices.Clone(common.SliceToBytes(values))), device.BufferTargetArray)
	if err != nil {
		return nil, err
	}
	return NewAccessor(view, device.ComponentTypeFloat, elementType, len(values)/n)
}

// FromUint16Indices builds an index accessor over its own element array buffer.
func FromUint16Indices(indices []uint16) (*Accessor, error) {
	view, err := NewBufferView(NewBuffer(slices.Clone(common.SliceToBytes(indices))), device.BufferTargetElementArray)
	if err != nil {
		return nil, err
	}
	return NewAccessor(view, device.ComponentTypeUnsignedShort, ElementScalar, len(indices))
}

// FromUint32Indices builds an index accessor over its own element array buffer.
func FromUint32Indices(indices []uint32) (*Accessor, error) {
	view, err := NewBufferView(NewBuffer(slices.Clone(common.SliceToBytes(indices))), device.BufferTargetElementArray)
	if err != nil {
		return nil, err
	}
	return NewAccessor(view, device.ComponentTypeUnsignedInt, ElementScalar, len(indices))
}

// View returns the backing buffer view.
func (a *Accessor) View() *BufferView {
	return a.view
}

// Count returns the number of elements. For vertex attributes this is the vertex count.
func (a *Accessor) Count() int {
	return a.count
}

// ComponentType returns the scalar type of each component.
func (a *Accessor) ComponentType() device.ComponentType {
	return a.componentType
}

// ElementType returns the vector shape of each element.
func (a *Accessor) ElementType() ElementType {
	return a.elementType
}

// Normalized reports whether integer components are normalized.
func (a *Accessor) Normalized() bool {
	return a.normalized
}

// ByteOffset returns the offset of the first element within the view.
func (a *Accessor) ByteOffset() int {
	return a.byteOffset
}

// Bounds returns the per-component minimum and maximum, or nil when not recorded.
func (a *Accessor) Bounds() (min, max []float32) {
	return a.min, a.max
}

// ElementSize returns the packed size of one element in bytes.
func (a *Accessor) ElementSize() int {
	return a.componentType.Size() * a.elementType.Components()
}

// ByteLength returns the number of bytes spanned by the accessor within its view.
func (a *Accessor) ByteLength() int {
	if stride := a.view.ByteStride(); stride > 0 {
		return stride*(a.count-1) + a.ElementSize()
	}
	return a.count * a.ElementSize()
}

// ArrayLength returns the number of components a typed array covering the accessor's span holds,
// including the interleaved gaps of a strided view.
func (a *Accessor) ArrayLength() int {
	size := a.elementType.Components()
	if stride := a.view.ByteStride(); stride > 0 {
		return stride/a.componentType.Size()*(a.count-1) + size
	}
	return a.count * size
}

// Materializations returns how many times the typed view has been decoded from bytes.
func (a *Accessor) Materializations() int {
	return a.materialized
}

// TypedData returns the accessor's elements as a packed Go slice matching the component type
// ([]int8, []uint8, []int16, []uint16, []uint32 or []float32). The slice is decoded once and cached.
//
// Returns:
//   - any: the typed, tightly packed component slice
func (a *Accessor) TypedData() any {
	if a.typed != nil {
		return a.typed
	}
	data := a.view.Bytes()[a.byteOffset:]
	comps := a.elementType.Components()
	compSize := a.componentType.Size()
	stride := a.view.ByteStride()
	if stride == 0 {
		stride = a.ElementSize()
	}
	total := a.count * comps
	at := func(i int) []byte {
		element, component := i/comps, i%comps
		off := element*stride + component*compSize
		return data[off : off+compSize]
	}
	switch a.componentType {
	case device.ComponentTypeByte:
		out := make([]int8, total)
		for i := range out {
			out[i] = int8(at(i)[0])
		}
		a.typed = out
	case device.ComponentTypeUnsignedByte:
		out := make([]uint8, total)
		for i := range out {
			out[i] = at(i)[0]
		}
		a.typed = out
	case device.ComponentTypeShort:
		out := make([]int16, total)
		for i := range out {
			out[i] = int16(binary.LittleEndian.Uint16(at(i)))
		}
		a.typed = out
	case device.ComponentTypeUnsignedShort:
		out := make([]uint16, total)
		for i := range out {
			out[i] = binary.LittleEndian.Uint16(at(i))
		}
		a.typed = out
	case device.ComponentTypeUnsignedInt:
		out := make([]uint32, total)
		for i := range out {
			out[i] = binary.LittleEndian.Uint32(at(i))
		}
		a.typed = out
	case device.ComponentTypeFloat:
		out := make([]float32, total)
		for i := range out {
			out[i] = math.Float32frombits(binary.LittleEndian.Uint32(at(i)))
		}
		a.typed = out
	}
	a.materialized++
	return a.typed
}

// Float32s returns the typed data converted to float32, applying normalization for integer types.
func (a *Accessor) Float32s() []float32 {
	switch data := a.TypedData().(type) {
	case []float32:
		return data
	case []int8:
		return convert(data, a.normalized, 127, -1)
	case []uint8:
		return convert(data, a.normalized, 255, 0)
	case []int16:
		return convert(data, a.normalized, 32767, -1)
	case []uint16:
		return convert(data, a.normalized, 65535, 0)
	case []uint32:
		return convert(data, a.normalized, math.MaxUint32, 0)
	default:
		return nil
	}
}

func convert[T int8 | uint8 | int16 | uint16 | uint32](data []T, normalized bool, scale float64, floor float32) []float32 {
	out := make([]float32, len(data))
	for i, v := range data {
		f := float32(v)
		if normalized {
			f = max(float32(float64(v)/scale), floor)
		}
		out[i] = f
	}
	return out
}

// Bind binds (uploading on first use) the accessor's GPU buffer.
//
// Parameters:
//   - dev: the device to bind on
//
// Returns:
//   - error: a ResourceCreation error if the GPU buffer cannot be allocated
func (a *Accessor) Bind(dev device.Device) error {
	return a.view.Bind(dev)
}

// SetVertexAttribute binds the accessor and points the vertex attribute at index to its data.
// The caller must have the target vertex array bound.
//
// Parameters:
//   - dev: the device to configure
//   - index: the shader attribute location
//
// Returns:
//   - error: a ResourceCreation error if the GPU buffer cannot be allocated
func (a *Accessor) SetVertexAttribute(dev device.Device, index uint32) error {
	if err := a.Bind(dev); err != nil {
		return err
	}
	dev.VertexAttribPointer(index, int32(a.elementType.Components()), a.componentType, a.normalized, int32(a.view.ByteStride()), a.byteOffset)
	dev.EnableVertexAttribArray(index)
	return nil
}
