package shape

import (
	"math"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/errs"
	"github.com/go-gl/mathgl/mgl32"
)

// normalStep is the parameter offset used to estimate surface normals.
const normalStep = 1e-4

// surfaceColors cycle per grid cell, one color per cell vertex.
var surfaceColors = []mgl32.Vec3{
	{1, 0, 0}, // red
	{0, 1, 0}, // lime
	{0, 0, 1}, // blue
	{0, 1, 1}, // aqua
	{1, 0, 1}, // fuchsia
	{1, 1, 0}, // yellow
}

// Surface is a parametric surface sampled on a USegments by VSegments grid over
// [UMin, UMax] x [VMin, VMax]. Each grid cell becomes two triangles.
type Surface struct {
	UMin, UMax float32
	VMin, VMax float32
	USegments  int
	VSegments  int
	Func       func(u, v float32) mgl32.Vec3

	// FaceNormals gives every triangle its flat normal instead of per-vertex normals.
	FaceNormals bool
}

// Data samples the surface. UVs run from (0,0) at (UMin, VMin) to (1,1) at (UMax, VMax).
//
// Returns:
//   - Data: 6*USegments*VSegments vertices
//   - error: a GeometryValidation error if a segment count is not positive or Func is nil
func (s Surface) Data() (Data, error) {
	if s.USegments < 1 || s.VSegments < 1 {
		return Data{}, errs.Newf(errs.KindGeometryValidation, "parametric surface",
			"segments must be positive, got %dx%d", s.USegments, s.VSegments)
	}
	if s.Func == nil {
		return Data{}, errs.New(errs.KindGeometryValidation, "parametric surface", "no surface function")
	}

	du := (s.UMax - s.UMin) / float32(s.USegments)
	dv := (s.VMax - s.VMin) / float32(s.VSegments)
	rows := s.USegments + 1
	cols := s.VSegments + 1
	positions := make([]mgl32.Vec3, rows*cols)
	normals := make([]mgl32.Vec3, rows*cols)
	uvs := make([]mgl32.Vec2, rows*cols)
	for i := range rows {
		for j := range cols {
			u := s.UMin + float32(i)*du
			v := s.VMin + float32(j)*dv
			p := s.Func(u, v)
			positions[i*cols+j] = p
			normals[i*cols+j] = triangleNormal(p, s.Func(u+normalStep, v), s.Func(u, v+normalStep))
			uvs[i*cols+j] = mgl32.Vec2{float32(i) / float32(s.USegments), float32(j) / float32(s.VSegments)}
		}
	}

	n := 6 * s.USegments * s.VSegments
	out := Data{
		Positions: make([]mgl32.Vec3, 0, n),
		Normals:   make([]mgl32.Vec3, 0, n),
		UVs:       make([]mgl32.Vec2, 0, n),
		Colors:    make([]mgl32.Vec3, 0, n),
	}
	for i := range s.USegments {
		for j := range s.VSegments {
			// a, b, c, d run counter-clockwise around the cell.
			a, b, c, d := i*cols+j, (i+1)*cols+j, (i+1)*cols+j+1, i*cols+j+1
			cell := []int{a, b, c, a, c, d}
			out.Positions = append(out.Positions, gather(positions, cell...)...)
			out.UVs = append(out.UVs, gather(uvs, cell...)...)
			out.Colors = append(out.Colors, surfaceColors...)
			if s.FaceNormals {
				n0 := triangleNormal(positions[a], positions[b], positions[c])
				n1 := triangleNormal(positions[a], positions[c], positions[d])
				out.Normals = append(out.Normals, n0, n0, n0, n1, n1, n1)
			} else {
				out.Normals = append(out.Normals, gather(normals, cell...)...)
			}
		}
	}
	return out, nil
}

// triangleNormal is the unit normal of the counter-clockwise triangle p0 p1 p2, zero if degenerate.
func triangleNormal(p0, p1, p2 mgl32.Vec3) mgl32.Vec3 {
	return common.Normalize3(p1.Sub(p0).Cross(p2.Sub(p0)))
}

// PlaneProperties sizes a segmented plane in the XY plane facing +Z.
type PlaneProperties struct {
	Width, Height                 float32
	WidthSegments, HeightSegments int
}

// DefaultPlaneProperties returns a unit plane with 8x8 segments.
func DefaultPlaneProperties() PlaneProperties {
	return PlaneProperties{Width: 1, Height: 1, WidthSegments: 8, HeightSegments: 8}
}

// Plane returns a segmented plane centered on the origin.
func Plane(p PlaneProperties) (Data, error) {
	return Surface{
		UMin: -p.Width / 2, UMax: p.Width / 2,
		VMin: -p.Height / 2, VMax: p.Height / 2,
		USegments: p.WidthSegments, VSegments: p.HeightSegments,
		Func: func(u, v float32) mgl32.Vec3 { return mgl32.Vec3{u, v, 0} },
	}.Data()
}

// EllipsoidProperties sizes an ellipsoid centered on the origin.
type EllipsoidProperties struct {
	Width, Height, Depth           float32
	RadiusSegments, HeightSegments int
}

// DefaultEllipsoidProperties returns a unit-diameter ellipsoid with 32 radial and 16 vertical segments.
func DefaultEllipsoidProperties() EllipsoidProperties {
	return EllipsoidProperties{Width: 1, Height: 1, Depth: 1, RadiusSegments: 32, HeightSegments: 16}
}

// Ellipsoid returns an ellipsoid whose axes span Width, Height and Depth.
func Ellipsoid(p EllipsoidProperties) (Data, error) {
	return Surface{
		UMin: 0, UMax: 2 * math.Pi,
		VMin: -math.Pi / 2, VMax: math.Pi / 2,
		USegments: p.RadiusSegments, VSegments: p.HeightSegments,
		Func: func(u, v float32) mgl32.Vec3 {
			su, cu := math.Sincos(float64(u))
			sv, cv := math.Sincos(float64(v))
			return mgl32.Vec3{
				p.Width / 2 * float32(su*cv),
				p.Height / 2 * float32(sv),
				p.Depth / 2 * float32(cu*cv),
			}
		},
	}.Data()
}

// SphereProperties sizes a sphere centered on the origin.
type SphereProperties struct {
	Radius                         float32
	RadiusSegments, HeightSegments int
}

// DefaultSphereProperties returns a unit sphere with 32 radial and 16 vertical segments.
func DefaultSphereProperties() SphereProperties {
	return SphereProperties{Radius: 1, RadiusSegments: 32, HeightSegments: 16}
}

// Sphere returns a sphere.
func Sphere(p SphereProperties) (Data, error) {
	return Ellipsoid(EllipsoidProperties{
		Width: 2 * p.Radius, Height: 2 * p.Radius, Depth: 2 * p.Radius,
		RadiusSegments: p.RadiusSegments, HeightSegments: p.HeightSegments,
	})
}

// CylindricalProperties describes a truncated cone along +Y centered on the origin.
// Cylinders, prisms, cones and pyramids are special cases.
type CylindricalProperties struct {
	RadiusTop, RadiusBottom float32
	Height                  float32
	RadialSegments          int
	HeightSegments          int
	ClosedTop, ClosedBottom bool
}

// DefaultCylindricalProperties returns a closed unit cylinder with 32 radial and 4 vertical segments.
func DefaultCylindricalProperties() CylindricalProperties {
	return CylindricalProperties{
		RadiusTop: 1, RadiusBottom: 1, Height: 1,
		RadialSegments: 32, HeightSegments: 4,
		ClosedTop: true, ClosedBottom: true,
	}
}

// Cylindrical returns the side surface plus polygon caps for the closed ends.
func Cylindrical(p CylindricalProperties) (Data, error) {
	out, err := Surface{
		UMin: 0, UMax: 2 * math.Pi,
		VMin: 0, VMax: 1,
		USegments: p.RadialSegments, VSegments: p.HeightSegments,
		Func: func(u, v float32) mgl32.Vec3 {
			r := p.RadiusBottom + (p.RadiusTop-p.RadiusBottom)*v
			su, cu := math.Sincos(float64(u))
			return mgl32.Vec3{r * float32(su), p.Height * (v - 0.5), r * float32(cu)}
		},
	}.Data()
	if err != nil {
		return Data{}, err
	}

	const right = math.Pi / 2
	caps := []struct {
		closed    bool
		radius    float32
		transform mgl32.Mat4
	}{
		{p.ClosedTop, p.RadiusTop, mgl32.Translate3D(0, p.Height/2, 0).
			Mul4(mgl32.HomogRotate3DY(-right)).
			Mul4(mgl32.HomogRotate3DX(-right))},
		{p.ClosedBottom, p.RadiusBottom, mgl32.Translate3D(0, -p.Height/2, 0).
			Mul4(mgl32.HomogRotate3DY(-right)).
			Mul4(mgl32.HomogRotate3DX(right))},
	}
	for _, c := range caps {
		if !c.closed {
			continue
		}
		lid, err := Polygon(p.RadialSegments, c.radius)
		if err != nil {
			return Data{}, err
		}
		if err := lid.Transform(c.transform); err != nil {
			return Data{}, err
		}
		if err := out.Append(lid); err != nil {
			return Data{}, err
		}
	}
	return out, nil
}

// Cylinder returns a cylinder of the given radius and height.
func Cylinder(radius, height float32, radialSegments, heightSegments int, closed bool) (Data, error) {
	return Cylindrical(CylindricalProperties{
		RadiusTop: radius, RadiusBottom: radius, Height: height,
		RadialSegments: radialSegments, HeightSegments: heightSegments,
		ClosedTop: closed, ClosedBottom: closed,
	})
}

// Prism returns a prism with the given number of sides.
func Prism(radius, height float32, sides, heightSegments int, closed bool) (Data, error) {
	return Cylinder(radius, height, sides, heightSegments, closed)
}

// Cone returns a cone with its apex on +Y. Only the base can be closed.
func Cone(radius, height float32, radialSegments, heightSegments int, closed bool) (Data, error) {
	return Cylindrical(CylindricalProperties{
		RadiusBottom: radius, Height: height,
		RadialSegments: radialSegments, HeightSegments: heightSegments,
		ClosedBottom: closed,
	})
}

// Pyramid returns a pyramid with the given number of sides and its apex on +Y.
func Pyramid(radius, height float32, sides, heightSegments int, closed bool) (Data, error) {
	return Cone(radius, height, sides, heightSegments, closed)
}
