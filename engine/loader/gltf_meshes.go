package loader

import (
	"fmt"
	"slices"
	"sort"

	"github.com/Carmen-Shannon/oxy-gl/engine/device"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/buffer"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/geometry"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/mesh"
)

var elementTypes = map[string]buffer.ElementType{
	"SCALAR": buffer.ElementScalar,
	"VEC2":   buffer.ElementVec2,
	"VEC3":   buffer.ElementVec3,
	"VEC4":   buffer.ElementVec4,
	"MAT2":   buffer.ElementMat2,
	"MAT3":   buffer.ElementMat3,
	"MAT4":   buffer.ElementMat4,
}

// attributeOrder puts the well-known attributes first; the rest follow by name.
var attributeOrder = []string{
	geometry.AttributePosition,
	geometry.AttributeNormal,
	geometry.AttributeTangent,
	geometry.AttributeTexcoord0,
	geometry.AttributeTexcoord1,
	geometry.AttributeColor0,
}

// viewKey identifies a buffer view bound to one target. glTF views may omit their target,
// so the same view can be needed as both vertex and index data.
type viewKey struct {
	index  int
	target device.BufferTarget
}

// document turns a parsed glTF document into engine resources.
type document struct {
	dev     device.Device
	gltf    *gltfDocument
	buffers []*buffer.Buffer

	views     map[viewKey]*buffer.BufferView
	accessors map[viewKey]*buffer.Accessor
}

func newDocument(dev device.Device, doc *gltfDocument, buffers []*buffer.Buffer) *document {
	return &document{
		dev:       dev,
		gltf:      doc,
		buffers:   buffers,
		views:     make(map[viewKey]*buffer.BufferView),
		accessors: make(map[viewKey]*buffer.Accessor),
	}
}

// view returns the buffer view at index bound to target, creating it on first use.
// Byte strides only apply to vertex data.
func (d *document) view(index int, target device.BufferTarget) (*buffer.BufferView, error) {
	key := viewKey{index, target}
	if v, ok := d.views[key]; ok {
		return v, nil
	}
	if index < 0 || index >= len(d.gltf.BufferViews) {
		return nil, fmt.Errorf("buffer view %d out of range", index)
	}
	bv := d.gltf.BufferViews[index]
	if bv.Buffer < 0 || bv.Buffer >= len(d.buffers) {
		return nil, fmt.Errorf("buffer view %d: buffer %d out of range", index, bv.Buffer)
	}
	options := []buffer.BufferViewOption{
		buffer.WithByteOffset(bv.ByteOffset),
		buffer.WithByteLength(bv.ByteLength),
	}
	if bv.ByteStride != nil && target == device.BufferTargetArray {
		options = append(options, buffer.WithByteStride(*bv.ByteStride))
	}
	v, err := buffer.NewBufferView(d.buffers[bv.Buffer], target, options...)
	if err != nil {
		return nil, fmt.Errorf("buffer view %d: %w", index, err)
	}
	d.views[key] = v
	return v, nil
}

// viewBytes returns the raw bytes of a buffer view, used for embedded images.
func (d *document) viewBytes(index int) ([]byte, error) {
	if index < 0 || index >= len(d.gltf.BufferViews) {
		return nil, fmt.Errorf("buffer view %d out of range", index)
	}
	bv := d.gltf.BufferViews[index]
	if bv.Buffer < 0 || bv.Buffer >= len(d.buffers) {
		return nil, fmt.Errorf("buffer view %d: buffer %d out of range", index, bv.Buffer)
	}
	data := d.buffers[bv.Buffer].Bytes()
	if bv.ByteOffset < 0 || bv.ByteLength < 0 || bv.ByteOffset+bv.ByteLength > len(data) {
		return nil, fmt.Errorf("buffer view %d: range exceeds buffer of %d bytes", index, len(data))
	}
	return data[bv.ByteOffset : bv.ByteOffset+bv.ByteLength], nil
}

// accessor returns the accessor at index bound to target, creating it on first use.
// Accessors without a buffer view read as zeros.
func (d *document) accessor(index int, target device.BufferTarget) (*buffer.Accessor, error) {
	key := viewKey{index, target}
	if a, ok := d.accessors[key]; ok {
		return a, nil
	}
	if index < 0 || index >= len(d.gltf.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", index)
	}
	ga := d.gltf.Accessors[index]
	if ga.Sparse != nil {
		return nil, fmt.Errorf("accessor %d: sparse accessors are not supported", index)
	}
	elementType, ok := elementTypes[ga.Type]
	if !ok {
		return nil, fmt.Errorf("accessor %d: unknown type %q", index, ga.Type)
	}
	componentType := device.ComponentType(ga.ComponentType)

	var view *buffer.BufferView
	var err error
	if ga.BufferView == nil {
		size := ga.Count * elementType.Components() * componentType.Size()
		view, err = buffer.NewBufferView(buffer.NewBuffer(make([]byte, max(size, 0))), target)
	} else {
		view, err = d.view(*ga.BufferView, target)
	}
	if err != nil {
		return nil, fmt.Errorf("accessor %d: %w", index, err)
	}

	options := []buffer.AccessorOption{buffer.WithAccessorByteOffset(ga.ByteOffset)}
	if ga.Normalized {
		options = append(options, buffer.WithNormalized())
	}
	if len(ga.Min) > 0 && len(ga.Max) > 0 {
		options = append(options, buffer.WithBounds(ga.Min, ga.Max))
	}
	a, err := buffer.NewAccessor(view, componentType, elementType, ga.Count, options...)
	if err != nil {
		return nil, fmt.Errorf("accessor %d: %w", index, err)
	}
	d.accessors[key] = a
	return a, nil
}

// primitive builds one drawable primitive with mat.
func (d *document) primitive(p gltfPrimitive, mat material.Material) (*mesh.Primitive, error) {
	names := make([]string, 0, len(p.Attributes))
	for name := range p.Attributes {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		ri, rj := attributeRank(names[i]), attributeRank(names[j])
		if ri != rj {
			return ri < rj
		}
		return names[i] < names[j]
	})

	attributes := make([]geometry.Attribute, 0, len(names))
	for _, name := range names {
		a, err := d.accessor(p.Attributes[name], device.BufferTargetArray)
		if err != nil {
			return nil, fmt.Errorf("attribute %s: %w", name, err)
		}
		attributes = append(attributes, geometry.Attribute{Name: name, Accessor: a})
	}
	geom, err := geometry.New(attributes...)
	if err != nil {
		return nil, err
	}

	var indices *buffer.Accessor
	if p.Indices != nil {
		if indices, err = d.accessor(*p.Indices, device.BufferTargetElementArray); err != nil {
			return nil, fmt.Errorf("indices: %w", err)
		}
	}

	mode := gltfModeTriangles
	if p.Mode != nil {
		mode = *p.Mode
	}
	return mesh.NewPrimitive(d.dev, geom, indices, mat, device.DrawMode(mode))
}

func attributeRank(name string) int {
	if i := slices.Index(attributeOrder, name); i >= 0 {
		return i
	}
	return len(attributeOrder)
}

// mesh builds every primitive of the glTF mesh at index, resolving materials through materialFor.
func (d *document) mesh(index int, materialFor func(index *int) (material.Material, error)) (*mesh.Mesh, error) {
	gm := d.gltf.Meshes[index]
	prims := make([]*mesh.Primitive, 0, len(gm.Primitives))
	for i, p := range gm.Primitives {
		mat, err := materialFor(p.Material)
		if err != nil {
			return nil, fmt.Errorf("mesh %d primitive %d: %w", index, i, err)
		}
		prim, err := d.primitive(p, mat)
		if err != nil {
			return nil, fmt.Errorf("mesh %d primitive %d: %w", index, i, err)
		}
		prims = append(prims, prim)
	}
	return mesh.New(prims...), nil
}
