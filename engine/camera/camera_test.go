package camera

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertMat4Near(t *testing.T, want, got mgl32.Mat4, delta float64) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], delta, "element %d: want %v, got %v", i, want, got)
	}
}

func TestSetAspectRatioPerspective(t *testing.T) {
	c := NewCamera()
	p, ok := c.Perspective()
	require.True(t, ok)
	assert.Equal(t, float32(1), p.AspectRatio)
	before := c.ProjectionMatrix()

	c.SetAspectRatio(800, 600)
	assert.Equal(t, float32(1.3333334), c.AspectRatio())
	assert.NotEqual(t, before, c.ProjectionMatrix())
	assert.InDelta(t, before[0]/1.3333334, c.ProjectionMatrix()[0], 1e-6)
}

func TestSetAspectRatioOrthographicIsNoop(t *testing.T) {
	c := NewOrthographic(DefaultOrthographic())
	before := c.ProjectionMatrix()
	c.SetAspectRatio(800, 600)
	assert.Equal(t, before, c.ProjectionMatrix())
	assert.Equal(t, mgl32.Ortho(-1, 1, -1, 1, -1, 1), before)
	_, ok := c.Perspective()
	assert.False(t, ok)
}

func TestSetAspectRatioIgnoresZeroHeight(t *testing.T) {
	c := NewCamera()
	c.SetAspectRatio(800, 0)
	assert.Equal(t, float32(1), c.AspectRatio())
}

func TestUpdateViewMatrix(t *testing.T) {
	c := NewCamera()
	world := mgl32.Translate3D(1, 2, 3)
	require.True(t, c.UpdateViewMatrix(world))
	assertMat4Near(t, mgl32.Translate3D(-1, -2, -3), c.ViewMatrix(), 1e-5)

	assert.False(t, c.UpdateViewMatrix(mgl32.Scale3D(0, 1, 1)))
	assertMat4Near(t, mgl32.Translate3D(-1, -2, -3), c.ViewMatrix(), 1e-5)

	vp := c.ViewProjectionMatrix()
	assertMat4Near(t, c.ProjectionMatrix().Mul4(c.ViewMatrix()), vp, 1e-5)
}

func TestInfinitePerspective(t *testing.T) {
	c := NewCamera(WithFov(90), WithClip(0.5, 0))
	m := c.ProjectionMatrix()
	assert.InDelta(t, 1, m[0], 1e-6)
	assert.InDelta(t, 1, m[5], 1e-6)
	assert.Equal(t, float32(-1), m[10])
	assert.Equal(t, float32(-1), m[11])
	assert.Equal(t, float32(-1), m[14])

	finite := NewPerspective(Perspective{AspectRatio: 1, FovAngle: 90, Near: 0.5, Far: 1e7}).ProjectionMatrix()
	assertMat4Near(t, finite, m, 1e-4)
}

func TestSwitchProjection(t *testing.T) {
	c := NewCamera(WithOrthographic(Orthographic{Left: -2, Right: 2, Bottom: -1, Top: 1, Near: 0, Far: 10}))
	assert.Equal(t, ProjectionOrthographic, c.Kind())
	assert.Equal(t, float32(1), c.AspectRatio())
	o, ok := c.Orthographic()
	require.True(t, ok)
	assert.Equal(t, float32(10), o.Far)

	c.SetPerspective(DefaultPerspective())
	assert.Equal(t, ProjectionPerspective, c.Kind())
	assert.Equal(t, "perspective", c.Kind().String())
}
