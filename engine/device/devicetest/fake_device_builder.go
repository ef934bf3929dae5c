package devicetest

import "github.com/Carmen-Shannon/oxy-gl/engine/device"

// FakeDeviceOption is a functional option for configuring a FakeDevice.
type FakeDeviceOption func(*FakeDevice)

// WithResolution sets the default framebuffer size reported by DrawingBufferSize.
//
// Parameters:
//   - width, height: the drawing buffer size in pixels
//
// Returns:
//   - FakeDeviceOption: option function to apply
func WithResolution(width, height int) FakeDeviceOption {
	return func(d *FakeDevice) {
		d.width = width
		d.height = height
	}
}

// WithCompileFailure makes every shader of the given stage fail to compile with infoLog.
//
// Parameters:
//   - stage: the shader stage to fail
//   - infoLog: the diagnostic returned by ShaderInfoLog
//
// Returns:
//   - FakeDeviceOption: option function to apply
func WithCompileFailure(stage device.ShaderType, infoLog string) FakeDeviceOption {
	return func(d *FakeDevice) {
		d.compileFailures[stage] = infoLog
	}
}

// WithLinkFailure makes every program fail to link with infoLog.
//
// Parameters:
//   - infoLog: the diagnostic returned by ProgramInfoLog
//
// Returns:
//   - FakeDeviceOption: option function to apply
func WithLinkFailure(infoLog string) FakeDeviceOption {
	return func(d *FakeDevice) {
		d.linkFailure = infoLog
	}
}

// WithCreateFailure makes the named creation method (e.g. "CreateBuffer") return err.
//
// Parameters:
//   - method: the Device creation method name
//   - err: the error to return
//
// Returns:
//   - FakeDeviceOption: option function to apply
func WithCreateFailure(method string, err error) FakeDeviceOption {
	return func(d *FakeDevice) {
		d.createFailures[method] = err
	}
}

// WithFramebufferStatus overrides the status returned by CheckFramebufferStatus.
//
// Parameters:
//   - status: the framebuffer status to report
//
// Returns:
//   - FakeDeviceOption: option function to apply
func WithFramebufferStatus(status device.FramebufferStatus) FakeDeviceOption {
	return func(d *FakeDevice) {
		d.fbStatus = status
	}
}
