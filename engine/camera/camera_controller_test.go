package camera

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func assertVec3(t *testing.T, want, got mgl32.Vec3) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-4, "want %v, got %v", want, got)
	}
}

func TestOrbitControllerPosition(t *testing.T) {
	cc := NewOrbitController(WithRadius(5), WithElevation(0), WithTarget(mgl32.Vec3{1, 0, 0}))
	assertVec3(t, mgl32.Vec3{1, 0, 5}, cc.Position())

	cc.SetAzimuth(float32(math.Pi / 2))
	assertVec3(t, mgl32.Vec3{6, 0, 0}, cc.Position())

	cc.SetTarget(mgl32.Vec3{})
	assertVec3(t, mgl32.Vec3{5, 0, 0}, cc.Position())
}

func TestOrbitControllerClamps(t *testing.T) {
	cc := NewOrbitController(WithRadius(5), WithRadiusBounds(2, 8), WithElevationBounds(-0.5, 0.5))
	assert.Equal(t, float32(0.5), cc.Elevation())

	cc.Zoom(10)
	assert.Equal(t, float32(2), cc.Radius())
	cc.SetRadius(100)
	assert.Equal(t, float32(8), cc.Radius())

	cc.Orbit(0, -1000)
	assert.Equal(t, float32(-0.5), cc.Elevation())
}

func TestOrbitControllerSteps(t *testing.T) {
	cc := NewOrbitController(WithElevation(0), WithOrbitSpeed(0.1), WithMouseSensitivity(0.01))
	cc.Orbit(2, 1)
	assert.InDelta(t, 0.2, cc.Azimuth(), 1e-6)
	assert.InDelta(t, 0.1, cc.Elevation(), 1e-6)

	cc.Drag(10, -10)
	assert.InDelta(t, 0.3, cc.Azimuth(), 1e-6)
	assert.InDelta(t, 0, cc.Elevation(), 1e-6)
}

func TestOrbitControllerPanKeepsOffset(t *testing.T) {
	cc := NewOrbitController(WithRadius(5), WithElevation(0))
	before := cc.Position().Sub(cc.Target())

	cc.Pan(1, 2, 3)
	assertVec3(t, mgl32.Vec3{1, 2, -3}, cc.Target())
	assertVec3(t, before, cc.Position().Sub(cc.Target()))
}

func TestOrbitControllerWorldMatrixFacesTarget(t *testing.T) {
	cc := NewOrbitController(WithRadius(5), WithElevation(0.3), WithAzimuth(0.7))
	cam := NewPerspective(DefaultPerspective())
	assert.True(t, cam.UpdateViewMatrix(cc.WorldMatrix()))

	// The target sits straight ahead on the view's -Z axis.
	v := cam.ViewMatrix().Mul4x1(cc.Target().Vec4(1))
	assert.InDelta(t, 0, v.X(), 1e-4)
	assert.InDelta(t, 0, v.Y(), 1e-4)
	assert.InDelta(t, -5, v.Z(), 1e-4)
}
