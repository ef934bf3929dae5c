package mesh

import (
	"github.com/Carmen-Shannon/oxy-gl/engine/device"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
)

// Mesh is an ordered list of primitives drawn with the same transform.
type Mesh struct {
	primitives []*Primitive
}

// New creates a mesh from primitives in draw order.
//
// Parameters:
//   - primitives: the primitives to draw
//
// Returns:
//   - *Mesh: the new mesh
func New(primitives ...*Primitive) *Mesh {
	return &Mesh{primitives: primitives}
}

// Primitives returns the primitives in draw order.
func (m *Mesh) Primitives() []*Primitive {
	return m.primitives
}

// AddPrimitive appends a primitive.
func (m *Mesh) AddPrimitive(p *Primitive) {
	m.primitives = append(m.primitives, p)
}

// HasUniform reports whether any primitive's material declares name.
//
// Parameters:
//   - name: the uniform, struct or array name
//
// Returns:
//   - bool: true if at least one material declares it
func (m *Mesh) HasUniform(name string) bool {
	for _, p := range m.primitives {
		if p.material.HasUniform(name) {
			return true
		}
	}
	return false
}

// UpdateUniform uploads value into the material of every primitive.
//
// Parameters:
//   - dev: the device to upload on
//   - name: the uniform name
//   - value: the value
//   - level: how mismatches are reported
func (m *Mesh) UpdateUniform(dev device.Device, name string, value material.Value, level material.Level) {
	for _, p := range m.primitives {
		p.material.UpdateUniform(dev, name, value, level)
	}
}

// Render draws every primitive with its own material.
//
// Parameters:
//   - dev: the device to draw on
//   - model: the node's global transform
//   - normal: the node's normal transform
//   - viewProjection: the camera's view-projection matrix
//   - updater: the scene-wide uniform updater, may be nil
func (m *Mesh) Render(dev device.Device, model, normal, viewProjection mgl32.Mat4, updater material.UniformUpdater) {
	for _, p := range m.primitives {
		p.Render(dev, model, normal, viewProjection, updater)
	}
}

// RenderWith draws every triangle-based primitive with override.
//
// Returns:
//   - int: the number of primitives drawn
func (m *Mesh) RenderWith(dev device.Device, override material.Material, model, normal, viewProjection mgl32.Mat4, updater material.UniformUpdater) int {
	drawn := 0
	for _, p := range m.primitives {
		if p.RenderWith(dev, override, model, normal, viewProjection, updater) {
			drawn++
		}
	}
	return drawn
}

// Release deletes every primitive's vertex array.
func (m *Mesh) Release(dev device.Device) {
	for _, p := range m.primitives {
		p.Release(dev)
	}
}
