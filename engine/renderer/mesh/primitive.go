// Package mesh binds geometry and index data to a material's vertex inputs and issues the
// draw calls for it.
package mesh

import (
	"slices"

	"github.com/Carmen-Shannon/oxy-gl/engine/device"
	"github.com/Carmen-Shannon/oxy-gl/engine/errs"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/buffer"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/geometry"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
)

// drawModes is the closed set of topologies a Primitive accepts.
var drawModes = []device.DrawMode{
	device.DrawModePoints,
	device.DrawModeLines,
	device.DrawModeLineLoop,
	device.DrawModeLineStrip,
	device.DrawModeTriangles,
	device.DrawModeTriangleStrip,
}

// indexTypes is the closed set of index component types.
var indexTypes = []device.ComponentType{
	device.ComponentTypeUnsignedByte,
	device.ComponentTypeUnsignedShort,
	device.ComponentTypeUnsignedInt,
}

// Primitive is one draw call: a vertex array over a geometry, optional indices, a material and a topology.
type Primitive struct {
	vertexArray device.VertexArray
	geometry    *geometry.Geometry
	indices     *buffer.Accessor
	material    material.Material
	mode        device.DrawMode
	count       int32
}

// NewPrimitive validates its inputs, then creates a vertex array and points every geometry
// attribute the material's program reads at its accessor. Attributes the program does not
// declare are skipped. Validation happens before the first device call.
//
// Parameters:
//   - dev: the device to allocate on
//   - geom: the vertex attributes, POSITION required
//   - indices: an optional unsigned index accessor, nil draws arrays
//   - mat: the material whose program consumes the attributes
//   - mode: the primitive topology
//
// Returns:
//   - *Primitive: the new primitive
//   - error: GeometryValidation for bad input, ResourceCreation if an allocation fails
func NewPrimitive(dev device.Device, geom *geometry.Geometry, indices *buffer.Accessor, mat material.Material, mode device.DrawMode) (*Primitive, error) {
	if !slices.Contains(drawModes, mode) {
		return nil, errs.Newf(errs.KindGeometryValidation, "new primitive", "unknown mode: %s", mode)
	}
	if geom == nil {
		return nil, errs.New(errs.KindGeometryValidation, "new primitive", "nil geometry")
	}
	if mat == nil {
		return nil, errs.New(errs.KindGeometryValidation, "new primitive", "nil material")
	}
	if err := geom.Validate(); err != nil {
		return nil, err
	}
	vertices, err := geom.CountVertices()
	if err != nil {
		return nil, err
	}
	count := int32(vertices)
	if indices != nil {
		if !slices.Contains(indexTypes, indices.ComponentType()) || indices.ElementType() != buffer.ElementScalar {
			return nil, errs.Newf(errs.KindGeometryValidation, "new primitive",
				"indices must be unsigned scalars, got component type 0x%X", uint32(indices.ComponentType()))
		}
		if indices.View().Target() != device.BufferTargetElementArray {
			return nil, errs.New(errs.KindGeometryValidation, "new primitive", "indices must live in an element array buffer view")
		}
		count = int32(indices.Count())
	}

	vao, err := dev.CreateVertexArray()
	if err != nil {
		return nil, errs.Wrap(errs.KindResourceCreation, "create vertex array", err)
	}
	p := &Primitive{
		vertexArray: vao,
		geometry:    geom,
		indices:     indices,
		material:    mat,
		mode:        mode,
		count:       count,
	}
	if err := p.setVertexArray(dev); err != nil {
		dev.DeleteVertexArray(vao)
		return nil, err
	}
	return p, nil
}

func (p *Primitive) setVertexArray(dev device.Device) error {
	program := p.material.Program()
	program.Use(dev)
	dev.BindVertexArray(p.vertexArray)
	defer dev.BindVertexArray(0)
	for _, attr := range p.geometry.Attributes() {
		location, ok := program.AttributeLocation(geometry.ShaderAttributeName(attr.Name))
		if !ok {
			continue
		}
		if err := attr.Accessor.SetVertexAttribute(dev, location); err != nil {
			return err
		}
	}
	if p.indices != nil {
		if err := p.indices.Bind(dev); err != nil {
			return err
		}
	}
	return nil
}

// Material returns the primitive's material.
func (p *Primitive) Material() material.Material {
	return p.material
}

// Geometry returns the primitive's vertex attributes.
func (p *Primitive) Geometry() *geometry.Geometry {
	return p.geometry
}

// Mode returns the primitive topology.
func (p *Primitive) Mode() device.DrawMode {
	return p.mode
}

// Count returns the number of vertices or indices drawn.
func (p *Primitive) Count() int32 {
	return p.count
}

// Indexed reports whether the primitive draws through an index accessor.
func (p *Primitive) Indexed() bool {
	return p.indices != nil
}

// Render binds the primitive's material, pushes the transform uniforms, runs the global
// updater and draws.
//
// Parameters:
//   - dev: the device to draw on
//   - model: the node's global transform
//   - normal: the node's normal transform
//   - viewProjection: the camera's view-projection matrix
//   - updater: the scene-wide uniform updater, may be nil
func (p *Primitive) Render(dev device.Device, model, normal, viewProjection mgl32.Mat4, updater material.UniformUpdater) {
	p.render(dev, p.material, model, normal, viewProjection, updater)
}

// RenderWith draws the primitive's geometry with an override material, as the shadow depth
// pass does. Primitives that are not triangle based are skipped.
//
// Parameters:
//   - dev: the device to draw on
//   - override: the material to draw with
//   - model: the node's global transform
//   - normal: the node's normal transform
//   - viewProjection: the view-projection matrix of the pass
//   - updater: the scene-wide uniform updater, may be nil
//
// Returns:
//   - bool: true if the primitive was drawn
func (p *Primitive) RenderWith(dev device.Device, override material.Material, model, normal, viewProjection mgl32.Mat4, updater material.UniformUpdater) bool {
	if !p.mode.IsTriangleBased() {
		return false
	}
	p.render(dev, override, model, normal, viewProjection, updater)
	return true
}

func (p *Primitive) render(dev device.Device, mat material.Material, model, normal, viewProjection mgl32.Mat4, updater material.UniformUpdater) {
	mat.Bind(dev)
	program := mat.Program()
	program.UpdateUniform(dev, material.UniformViewProjectionMatrix, material.Mat4(viewProjection), material.LevelIgnore)
	program.UpdateUniform(dev, material.UniformModelMatrix, material.Mat4(model), material.LevelIgnore)
	program.UpdateUniform(dev, material.UniformNormalMatrix, material.Mat4(normal), material.LevelIgnore)
	mat.Update(dev, updater)

	dev.BindVertexArray(p.vertexArray)
	if p.indices != nil {
		dev.DrawElements(p.mode, p.count, p.indices.ComponentType(), p.indices.ByteOffset())
	} else {
		dev.DrawArrays(p.mode, 0, p.count)
	}
	dev.BindVertexArray(0)
}

// Release deletes the vertex array. Buffers and the material are shared and left alone.
func (p *Primitive) Release(dev device.Device) {
	if p.vertexArray != 0 {
		dev.DeleteVertexArray(p.vertexArray)
		p.vertexArray = 0
	}
}
