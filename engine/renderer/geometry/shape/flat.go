package shape

import (
	"math"

	"github.com/Carmen-Shannon/oxy-gl/engine/errs"
	"github.com/go-gl/mathgl/mgl32"
)

// Vertex color palettes.
var (
	faceColors = []mgl32.Vec3{
		{0.94, 0.5, 0.5},   // light coral
		{0.5, 0, 0},        // maroon
		{0.56, 0.93, 0.56}, // light green
		{0, 0.5, 0},        // green
		{0.48, 0.41, 0.93}, // medium slate blue
		{0, 0, 0.5},        // navy
	}
	cornerColors = []mgl32.Vec3{{1, 1, 1}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	quadUVs      = []mgl32.Vec2{{0, 0}, {1, 0}, {0, 1}, {1, 1}}
)

// quadTriangles splits a quad with corners 0 bottom-left, 1 bottom-right, 2 top-left and
// 3 top-right into two counter-clockwise triangles.
var quadTriangles = []int{0, 1, 3, 0, 3, 2}

// BoxProperties sizes a box centered on the origin.
type BoxProperties struct {
	Width, Height, Depth float32
}

// DefaultBoxProperties returns a unit cube.
func DefaultBoxProperties() BoxProperties {
	return BoxProperties{Width: 1, Height: 1, Depth: 1}
}

// Cube returns the properties of a cube with edge length size.
func Cube(size float32) BoxProperties {
	return BoxProperties{Width: size, Height: size, Depth: size}
}

// Box returns 36 vertices, two triangles per face, in +X, -X, +Y, -Y, +Z, -Z face order.
// Every face has its own color and the full texture.
func Box(p BoxProperties) Data {
	w, h, d := p.Width/2, p.Height/2, p.Depth/2
	corners := []mgl32.Vec3{
		{-w, -h, -d}, {w, -h, -d}, {-w, h, -d}, {w, h, -d},
		{-w, -h, d}, {w, -h, d}, {-w, h, d}, {w, h, d},
	}
	// Each face lists its quad corners in quadTriangles order.
	faces := [][4]int{
		{5, 1, 7, 3},
		{0, 4, 2, 6},
		{6, 7, 2, 3},
		{0, 1, 4, 5},
		{4, 5, 6, 7},
		{1, 0, 3, 2},
	}
	normals := []mgl32.Vec3{{1, 0, 0}, {-1, 0, 0}, {0, 1, 0}, {0, -1, 0}, {0, 0, 1}, {0, 0, -1}}

	var out Data
	for i, f := range faces {
		for _, q := range quadTriangles {
			out.Positions = append(out.Positions, corners[f[q]])
		}
		out.UVs = append(out.UVs, gather(quadUVs, quadTriangles...)...)
		out.Normals = append(out.Normals, repeat(6, normals[i])...)
		out.Colors = append(out.Colors, repeat(6, faceColors[i])...)
	}
	return out
}

// RectangleProperties places a rectangle in the XY plane.
type RectangleProperties struct {
	Width, Height float32
	// Position is the anchor point.
	Position mgl32.Vec2
	// Alignment is the anchor's location within the rectangle, (0,0) bottom left to (1,1) top right.
	Alignment mgl32.Vec2
}

// DefaultRectangleProperties returns a unit square centered on the origin.
func DefaultRectangleProperties() RectangleProperties {
	return RectangleProperties{Width: 1, Height: 1, Alignment: mgl32.Vec2{0.5, 0.5}}
}

// Rectangle returns two triangles facing +Z.
func Rectangle(p RectangleProperties) Data {
	x, y := p.Position[0], p.Position[1]
	a, b := p.Alignment[0], p.Alignment[1]
	corners := []mgl32.Vec3{
		{x - a*p.Width, y - b*p.Height, 0},
		{x + (1-a)*p.Width, y - b*p.Height, 0},
		{x - a*p.Width, y + (1-b)*p.Height, 0},
		{x + (1-a)*p.Width, y + (1-b)*p.Height, 0},
	}
	return Data{
		Positions: gather(corners, quadTriangles...),
		Normals:   repeat(6, mgl32.Vec3{0, 0, 1}),
		UVs:       gather(quadUVs, quadTriangles...),
		Colors:    gather(cornerColors, quadTriangles...),
	}
}

// Polygon returns a regular polygon in the XY plane facing +Z, one triangle fan slice per side.
//
// Parameters:
//   - sides: the number of sides, at least 3
//   - radius: the distance from the center to each corner
//
// Returns:
//   - Data: 3*sides vertices
//   - error: a GeometryValidation error if sides is below 3
func Polygon(sides int, radius float32) (Data, error) {
	if sides < 3 {
		return Data{}, errs.Newf(errs.KindGeometryValidation, "polygon", "needs at least 3 sides, got %d", sides)
	}
	out := Data{
		Positions: make([]mgl32.Vec3, 0, 3*sides),
		Normals:   repeat(3*sides, mgl32.Vec3{0, 0, 1}),
		UVs:       make([]mgl32.Vec2, 0, 3*sides),
		Colors:    make([]mgl32.Vec3, 0, 3*sides),
	}
	step := 2 * math.Pi / float64(sides)
	for n := range sides {
		s0, c0 := math.Sincos(step * float64(n))
		s1, c1 := math.Sincos(step * float64(n+1))
		out.Positions = append(out.Positions,
			mgl32.Vec3{},
			mgl32.Vec3{radius * float32(c0), radius * float32(s0), 0},
			mgl32.Vec3{radius * float32(c1), radius * float32(s1), 0})
		out.UVs = append(out.UVs,
			mgl32.Vec2{0.5, 0.5},
			mgl32.Vec2{float32(c0)*0.5 + 0.5, float32(s0)*0.5 + 0.5},
			mgl32.Vec2{float32(c1)*0.5 + 0.5, float32(s1)*0.5 + 0.5})
		out.Colors = append(out.Colors, cornerColors[0], cornerColors[1], cornerColors[3])
	}
	return out, nil
}
