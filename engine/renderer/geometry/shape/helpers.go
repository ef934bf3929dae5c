package shape

import (
	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/errs"
	"github.com/go-gl/mathgl/mgl32"
)

// AxesProperties configures the X, Y and Z axis lines.
type AxesProperties struct {
	Length float32
	// Colors are the X, Y and Z axis colors.
	Colors [3]common.Color
}

// DefaultAxesProperties returns unit axes colored red, green and blue.
func DefaultAxesProperties() AxesProperties {
	return AxesProperties{Length: 1, Colors: [3]common.Color{common.Red, common.Green, common.Blue}}
}

// Axes returns three line segments from the origin along +X, +Y and +Z.
// Draw them with a line material in segment mode and vertex colors enabled.
func Axes(p AxesProperties) Data {
	var out Data
	for i := range 3 {
		var tip mgl32.Vec3
		tip[i] = p.Length
		c := p.Colors[i].Vec3()
		out.Positions = append(out.Positions, mgl32.Vec3{}, tip)
		out.Colors = append(out.Colors, c, c)
	}
	return out
}

// GridProperties configures a square grid of lines in the XY plane.
type GridProperties struct {
	Size      float32
	Divisions int
	Color     common.Color
	// CenterColor colors the two lines through the origin.
	CenterColor common.Color
}

// DefaultGridProperties returns a 10 by 10 black grid with gray center lines.
func DefaultGridProperties() GridProperties {
	return GridProperties{Size: 10, Divisions: 10, Color: common.Black, CenterColor: common.Gray}
}

// Grid returns Divisions+1 vertical then Divisions+1 horizontal line segments centered on
// the origin. Rotate it by -90 degrees about X to lay it on the XZ ground plane.
//
// Parameters:
//   - p: size, divisions and colors
//
// Returns:
//   - Data: 4*(Divisions+1) vertices
//   - error: a GeometryValidation error if Divisions is not positive
func Grid(p GridProperties) (Data, error) {
	if p.Divisions < 1 {
		return Data{}, errs.Newf(errs.KindGeometryValidation, "grid", "divisions must be positive, got %d", p.Divisions)
	}
	half := p.Size / 2
	step := p.Size / float32(p.Divisions)
	var out Data
	for axis := range 2 {
		for n := 0; n <= p.Divisions; n++ {
			c := p.Color.Vec3()
			// The middle line only exists for an even number of divisions.
			if 2*n == p.Divisions {
				c = p.CenterColor.Vec3()
			}
			offset := -half + float32(n)*step
			if axis == 0 {
				out.Positions = append(out.Positions, mgl32.Vec3{offset, -half, 0}, mgl32.Vec3{offset, half, 0})
			} else {
				out.Positions = append(out.Positions, mgl32.Vec3{-half, offset, 0}, mgl32.Vec3{half, offset, 0})
			}
			out.Colors = append(out.Colors, c, c)
		}
	}
	return out, nil
}
