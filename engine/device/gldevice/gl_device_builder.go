package gldevice

// DeviceBuilderOption is a functional option for configuring the GL device.
type DeviceBuilderOption func(*glDevice)

// WithDrawingBufferSize sets the function used to report the default framebuffer size.
// Typically bound to the window's framebuffer dimensions; defaults to the current GL viewport.
//
// Parameters:
//   - size: function returning width and height in pixels
//
// Returns:
//   - DeviceBuilderOption: option function to apply
func WithDrawingBufferSize(size func() (width, height int)) DeviceBuilderOption {
	return func(d *glDevice) {
		if size != nil {
			d.drawingBufferSize = size
		}
	}
}
