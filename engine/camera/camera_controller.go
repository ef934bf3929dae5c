package camera

import "github.com/go-gl/mathgl/mgl32"

// OrbitController keeps a camera on a sphere around a target point. Orbit methods change the
// spherical coordinates; pan methods move the target and the eye together along the camera's
// local axes. The controller does not own a camera: apply WorldMatrix to the camera's node.
type OrbitController interface {
	// Position returns the eye position in world space.
	Position() mgl32.Vec3

	// Target returns the look-at point.
	Target() mgl32.Vec3

	// SetTarget moves the pivot point and recomputes the eye from the spherical coordinates.
	SetTarget(target mgl32.Vec3)

	// WorldMatrix returns the object matrix of a -Z forward camera at the eye facing the target.
	//
	// Returns:
	//   - mgl32.Mat4: the world transform to give the camera node
	WorldMatrix() mgl32.Mat4

	// Zoom moves the eye toward the target. Positive delta zooms in.
	//
	// Parameters:
	//   - delta: zoom amount scaled by the zoom speed
	Zoom(delta float32)

	// Orbit rotates around the target by whole orbit speed steps.
	// Positive azimuth steps turn right; positive elevation steps tilt up, clamped to the bounds.
	//
	// Parameters:
	//   - azimuthSteps: horizontal steps
	//   - elevationSteps: vertical steps
	Orbit(azimuthSteps, elevationSteps float32)

	// Drag orbits by a mouse delta in pixels scaled by the mouse sensitivity.
	Drag(dx, dy float32)

	// Pan translates eye and target along the camera's right, up and forward axes.
	//
	// Parameters:
	//   - right, up, forward: distances scaled by the pan speed
	Pan(right, up, forward float32)

	// Radius returns the distance from the target.
	Radius() float32

	// SetRadius sets the distance from the target, clamped to the bounds.
	SetRadius(radius float32)

	// Azimuth returns the horizontal angle around Y in radians, 0 on +Z.
	Azimuth() float32

	// SetAzimuth sets the horizontal angle in radians.
	SetAzimuth(azimuth float32)

	// Elevation returns the angle above the horizontal plane in radians.
	Elevation() float32

	// SetElevation sets the vertical angle in radians, clamped to the bounds.
	SetElevation(elevation float32)
}
