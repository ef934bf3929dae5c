package camera

// CameraBuilderOption is a function that configures a camera during construction.
type CameraBuilderOption func(*cameraImpl)

// WithPerspective selects a perspective projection.
//
// Parameters:
//   - p: the frustum
//
// Returns:
//   - CameraBuilderOption: a function that sets the projection
func WithPerspective(p Perspective) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.kind = ProjectionPerspective
		c.perspective = p
	}
}

// WithOrthographic selects an orthographic projection.
//
// Parameters:
//   - o: the view volume
//
// Returns:
//   - CameraBuilderOption: a function that sets the projection
func WithOrthographic(o Orthographic) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.kind = ProjectionOrthographic
		c.orthographic = o
	}
}

// WithFov sets the vertical field of view of the perspective frustum.
//
// Parameters:
//   - degrees: the field of view in degrees
//
// Returns:
//   - CameraBuilderOption: a function that sets the field of view
func WithFov(degrees float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.perspective.FovAngle = degrees
	}
}

// WithAspect sets the aspect ratio (width / height) of the perspective frustum.
//
// Parameters:
//   - aspect: the aspect ratio
//
// Returns:
//   - CameraBuilderOption: a function that sets the aspect ratio
func WithAspect(aspect float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.perspective.AspectRatio = aspect
	}
}

// WithClip sets the near and far planes of whichever projection is selected when the option runs.
//
// Parameters:
//   - near: near plane distance
//   - far: far plane distance, zero for an infinite perspective frustum
//
// Returns:
//   - CameraBuilderOption: a function that sets the clip planes
func WithClip(near, far float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		if c.kind == ProjectionOrthographic {
			c.orthographic.Near, c.orthographic.Far = near, far
			return
		}
		c.perspective.Near, c.perspective.Far = near, far
	}
}
