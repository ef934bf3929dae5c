// Package shape generates vertex data for common primitives: boxes, rectangles, regular
// polygons and parametric surfaces such as planes, spheres, cylinders and cones.
//
// Every surface generator returns unindexed triangle-list Data carrying positions,
// normals, texture coordinates and vertex colors. The Axes and Grid helpers return line
// segment pairs with positions and colors only. Data can be transformed and merged before
// it is turned into a Geometry.
package shape

import (
	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/errs"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/buffer"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/geometry"
	"github.com/go-gl/mathgl/mgl32"
)

// Data is an unindexed list of vertex attributes. Normals, UVs and Colors are either empty
// or as long as Positions.
type Data struct {
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	UVs       []mgl32.Vec2
	Colors    []mgl32.Vec3
}

// Len returns the number of vertices.
func (d Data) Len() int {
	return len(d.Positions)
}

// Transform applies m to every position and the normal matrix of m to every normal.
//
// Parameters:
//   - m: the transform
//
// Returns:
//   - error: a TransformSingularity error if m has no inverse and normals are present
func (d *Data) Transform(m mgl32.Mat4) error {
	for i, p := range d.Positions {
		d.Positions[i] = mgl32.TransformCoordinate(p, m)
	}
	if len(d.Normals) == 0 {
		return nil
	}
	nm, ok := common.NormalMatrix(m)
	if !ok {
		return errs.New(errs.KindTransformSingularity, "transform shape", "transform has no inverse")
	}
	for i, n := range d.Normals {
		d.Normals[i] = common.Normalize3(nm.Mul4x1(n.Vec4(0)).Vec3())
	}
	return nil
}

// Append adds the vertices of other to d. Both must carry the same set of attributes.
//
// Parameters:
//   - other: the data to append
//
// Returns:
//   - error: a GeometryValidation error if the attribute sets differ
func (d *Data) Append(other Data) error {
	if d.Len() > 0 && other.Len() > 0 &&
		(hasAttr(len(d.Normals)) != hasAttr(len(other.Normals)) ||
			hasAttr(len(d.UVs)) != hasAttr(len(other.UVs)) ||
			hasAttr(len(d.Colors)) != hasAttr(len(other.Colors))) {
		return errs.New(errs.KindGeometryValidation, "append shape", "attribute sets differ")
	}
	d.Positions = append(d.Positions, other.Positions...)
	d.Normals = append(d.Normals, other.Normals...)
	d.UVs = append(d.UVs, other.UVs...)
	d.Colors = append(d.Colors, other.Colors...)
	return nil
}

func hasAttr(n int) bool {
	return n > 0
}

// Geometry packs the data into tightly packed float accessors in POSITION, NORMAL,
// TEXCOORD_0, COLOR_0 order. Empty attributes are left out.
//
// Returns:
//   - *geometry.Geometry: the geometry
//   - error: a GeometryValidation error if there are no positions or an attribute's length differs
func (d Data) Geometry() (*geometry.Geometry, error) {
	n := d.Len()
	if n == 0 {
		return nil, errs.New(errs.KindGeometryValidation, "shape geometry", "no positions")
	}
	attributes := map[string][]float32{geometry.AttributePosition: flatten3(d.Positions)}
	order := []string{geometry.AttributePosition}
	add := func(name string, length int, values []float32) error {
		if length == 0 {
			return nil
		}
		if length != n {
			return errs.Newf(errs.KindGeometryValidation, "shape geometry",
				"%s has %d values for %d positions", name, length, n)
		}
		attributes[name] = values
		order = append(order, name)
		return nil
	}
	if err := add(geometry.AttributeNormal, len(d.Normals), flatten3(d.Normals)); err != nil {
		return nil, err
	}
	if err := add(geometry.AttributeTexcoord0, len(d.UVs), flatten2(d.UVs)); err != nil {
		return nil, err
	}
	if err := add(geometry.AttributeColor0, len(d.Colors), flatten3(d.Colors)); err != nil {
		return nil, err
	}
	return geometry.FromFloat32(attributes, map[string]buffer.ElementType{
		geometry.AttributeTexcoord0: buffer.ElementVec2,
	}, order...)
}

func flatten3(v []mgl32.Vec3) []float32 {
	out := make([]float32, 0, 3*len(v))
	for _, e := range v {
		out = append(out, e[0], e[1], e[2])
	}
	return out
}

func flatten2(v []mgl32.Vec2) []float32 {
	out := make([]float32, 0, 2*len(v))
	for _, e := range v {
		out = append(out, e[0], e[1])
	}
	return out
}

// gather returns values[i] for every index.
func gather[T any](values []T, indices ...int) []T {
	out := make([]T, len(indices))
	for i, idx := range indices {
		out[i] = values[idx]
	}
	return out
}

// repeat returns v n times.
func repeat[T any](n int, v T) []T {
	out := make([]T, n)
	for i := range out {
		out[i] = v
	}
	return out
}
