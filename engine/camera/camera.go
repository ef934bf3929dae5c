// Package camera holds the projection model and the view matrix derived from a camera
// node's world transform.
package camera

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/go-gl/mathgl/mgl32"
)

// ProjectionKind identifies the projection variant of a camera.
type ProjectionKind int

const (
	ProjectionPerspective ProjectionKind = iota
	ProjectionOrthographic
)

func (k ProjectionKind) String() string {
	switch k {
	case ProjectionPerspective:
		return "perspective"
	case ProjectionOrthographic:
		return "orthographic"
	default:
		return "unknown"
	}
}

// Perspective is a symmetric perspective frustum.
type Perspective struct {
	// AspectRatio is width divided by height.
	AspectRatio float32

	// FovAngle is the vertical field of view in degrees.
	FovAngle float32

	Near float32

	// Far is the far plane distance. Zero builds an infinite projection.
	Far float32
}

// DefaultPerspective returns a 60 degree frustum with aspect 1, near 0.1 and far 1000.
func DefaultPerspective() Perspective {
	return Perspective{AspectRatio: 1, FovAngle: 60, Near: 0.1, Far: 1000}
}

// Matrix returns the projection matrix of p.
func (p Perspective) Matrix() mgl32.Mat4 {
	fov := mgl32.DegToRad(p.FovAngle)
	if p.Far == 0 {
		return infinitePerspective(fov, p.AspectRatio, p.Near)
	}
	return mgl32.Perspective(fov, p.AspectRatio, p.Near, p.Far)
}

// infinitePerspective is the right-handed, [-1, 1] depth range limit of Perspective as far tends to infinity.
func infinitePerspective(fovy, aspect, near float32) mgl32.Mat4 {
	f := float32(1 / math.Tan(float64(fovy)/2))
	return mgl32.Mat4{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, -1, -1,
		0, 0, -2 * near, 0,
	}
}

// Orthographic is an axis-aligned view volume.
type Orthographic struct {
	Left, Right float32
	Bottom, Top float32
	Near, Far   float32
}

// DefaultOrthographic returns the unit cube: -1..1 on every axis.
func DefaultOrthographic() Orthographic {
	return Orthographic{Left: -1, Right: 1, Bottom: -1, Top: 1, Near: -1, Far: 1}
}

// Matrix returns the projection matrix of o.
func (o Orthographic) Matrix() mgl32.Mat4 {
	return mgl32.Ortho(o.Left, o.Right, o.Bottom, o.Top, o.Near, o.Far)
}

type cameraImpl struct {
	mu sync.Mutex

	kind         ProjectionKind
	perspective  Perspective
	orthographic Orthographic

	viewMatrix mgl32.Mat4
}

// Camera owns a projection and a view matrix kept in sync with the world transform of the
// node that holds it.
type Camera interface {
	// Kind returns the projection variant.
	//
	// Returns:
	//   - ProjectionKind: perspective or orthographic
	Kind() ProjectionKind

	// Perspective returns the perspective parameters.
	//
	// Returns:
	//   - Perspective: the frustum
	//   - bool: false for an orthographic camera
	Perspective() (Perspective, bool)

	// Orthographic returns the orthographic parameters.
	//
	// Returns:
	//   - Orthographic: the view volume
	//   - bool: false for a perspective camera
	Orthographic() (Orthographic, bool)

	// SetPerspective switches the camera to a perspective projection.
	//
	// Parameters:
	//   - p: the new frustum
	SetPerspective(p Perspective)

	// SetOrthographic switches the camera to an orthographic projection.
	//
	// Parameters:
	//   - o: the new view volume
	SetOrthographic(o Orthographic)

	// UpdateViewMatrix sets the view matrix to the inverse of world.
	// A singular world matrix is rejected and the previous view matrix is kept.
	//
	// Parameters:
	//   - world: the camera node's global transform
	//
	// Returns:
	//   - bool: false if world could not be inverted
	UpdateViewMatrix(world mgl32.Mat4) bool

	// SetAspectRatio updates the aspect term of a perspective camera to width / height.
	// Orthographic cameras are unchanged. A zero height is ignored.
	//
	// Parameters:
	//   - width, height: the target resolution in pixels
	SetAspectRatio(width, height int)

	// AspectRatio returns the perspective aspect ratio, or 1 for an orthographic camera.
	AspectRatio() float32

	// ViewMatrix returns the cached view matrix.
	//
	// Returns:
	//   - mgl32.Mat4: the view matrix
	ViewMatrix() mgl32.Mat4

	// ProjectionMatrix computes the projection matrix from the current parameters.
	//
	// Returns:
	//   - mgl32.Mat4: the projection matrix
	ProjectionMatrix() mgl32.Mat4

	// ViewProjectionMatrix returns projection times view.
	//
	// Returns:
	//   - mgl32.Mat4: the combined matrix
	ViewProjectionMatrix() mgl32.Mat4
}

var _ Camera = &cameraImpl{}

// NewCamera creates a camera with the default perspective projection and an identity view.
//
// Parameters:
//   - options: functional options applied in order
//
// Returns:
//   - Camera: the new camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		kind:         ProjectionPerspective,
		perspective:  DefaultPerspective(),
		orthographic: DefaultOrthographic(),
		viewMatrix:   mgl32.Ident4(),
	}
	for _, option := range options {
		option(c)
	}
	return c
}

// NewPerspective creates a perspective camera.
//
// Parameters:
//   - p: the frustum
//
// Returns:
//   - Camera: the new camera
func NewPerspective(p Perspective) Camera {
	return NewCamera(WithPerspective(p))
}

// NewOrthographic creates an orthographic camera.
//
// Parameters:
//   - o: the view volume
//
// Returns:
//   - Camera: the new camera
func NewOrthographic(o Orthographic) Camera {
	return NewCamera(WithOrthographic(o))
}

func (c *cameraImpl) Kind() ProjectionKind {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.kind
}

func (c *cameraImpl) Perspective() (Perspective, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.perspective, c.kind == ProjectionPerspective
}

func (c *cameraImpl) Orthographic() (Orthographic, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.orthographic, c.kind == ProjectionOrthographic
}

func (c *cameraImpl) SetPerspective(p Perspective) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.kind = ProjectionPerspective
	c.perspective = p
}

func (c *cameraImpl) SetOrthographic(o Orthographic) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.kind = ProjectionOrthographic
	c.orthographic = o
}

func (c *cameraImpl) UpdateViewMatrix(world mgl32.Mat4) bool {
	inverse, ok := common.Invert(world)
	if !ok {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.viewMatrix = inverse
	return true
}

func (c *cameraImpl) SetAspectRatio(width, height int) {
	if height == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.kind == ProjectionPerspective {
		c.perspective.AspectRatio = float32(width) / float32(height)
	}
}

func (c *cameraImpl) AspectRatio() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.kind == ProjectionPerspective {
		return c.perspective.AspectRatio
	}
	return 1
}

func (c *cameraImpl) ViewMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix()
}

func (c *cameraImpl) ViewProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix().Mul4(c.viewMatrix)
}

// projectionMatrix requires c.mu to be held.
func (c *cameraImpl) projectionMatrix() mgl32.Mat4 {
	if c.kind == ProjectionOrthographic {
		return c.orthographic.Matrix()
	}
	return c.perspective.Matrix()
}
