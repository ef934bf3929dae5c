package buffer

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-gl/engine/device"
	"github.com/Carmen-Shannon/oxy-gl/engine/errs"
)

// BufferView is a byte range of a Buffer bound to one GPU buffer target.
// The GPU buffer is created and filled the first time the view is bound and never re-uploaded.
type BufferView struct {
	buffer     *Buffer
	byteOffset int
	byteLength int
	byteStride int
	target     device.BufferTarget

	handle   device.Buffer
	uploaded bool
}

// BufferViewOption is a functional option for configuring a BufferView.
type BufferViewOption func(*BufferView)

// WithByteOffset sets the offset of the view into its buffer.
//
// Parameters:
//   - offset: byte offset into the buffer
//
// Returns:
//   - BufferViewOption: option function to apply
func WithByteOffset(offset int) BufferViewOption {
	return func(v *BufferView) {
		v.byteOffset = offset
	}
}

// WithByteLength sets the length of the view. Defaults to the rest of the buffer.
//
// Parameters:
//   - length: byte length of the view
//
// Returns:
//   - BufferViewOption: option function to apply
func WithByteLength(length int) BufferViewOption {
	return func(v *BufferView) {
		v.byteLength = length
	}
}

// WithByteStride sets the distance in bytes between consecutive elements. Zero means tightly packed.
//
// Parameters:
//   - stride: byte stride between elements
//
// Returns:
//   - BufferViewOption: option function to apply
func WithByteStride(stride int) BufferViewOption {
	return func(v *BufferView) {
		v.byteStride = stride
	}
}

// NewBufferView creates a view over buf for the given target.
// Fails with a GeometryValidation error for an unknown target or an out of range byte span.
//
// Parameters:
//   - buf: the backing buffer
//   - target: ARRAY_BUFFER or ELEMENT_ARRAY_BUFFER
//   - options: functional options for offset, length and stride
//
// Returns:
//   - *BufferView: the new view
//   - error: error if validation fails
func NewBufferView(buf *Buffer, target device.BufferTarget, options ...BufferViewOption) (*BufferView, error) {
	if buf == nil {
		return nil, errs.New(errs.KindGeometryValidation, "new buffer view", "nil buffer")
	}
	if target != device.BufferTargetArray && target != device.BufferTargetElementArray {
		return nil, errs.Newf(errs.KindGeometryValidation, "new buffer view", "unknown buffer target 0x%X", uint32(target))
	}
	v := &BufferView{buffer: buf, target: target, byteLength: -1}
	for _, opt := range options {
		opt(v)
	}
	if v.byteLength < 0 {
		v.byteLength = buf.Len() - v.byteOffset
	}
	if v.byteOffset < 0 || v.byteLength < 0 || v.byteOffset+v.byteLength > buf.Len() {
		return nil, errs.Newf(errs.KindGeometryValidation, "new buffer view",
			"range [%d, %d) exceeds buffer of %d bytes", v.byteOffset, v.byteOffset+v.byteLength, buf.Len())
	}
	if v.byteStride < 0 || (v.byteStride > 0 && (v.byteStride < 4 || v.byteStride > 252)) {
		return nil, errs.Newf(errs.KindGeometryValidation, "new buffer view", "invalid byte stride %d", v.byteStride)
	}
	return v, nil
}

// Bytes returns the bytes covered by the view.
func (v *BufferView) Bytes() []byte {
	return v.buffer.Bytes()[v.byteOffset : v.byteOffset+v.byteLength]
}

// Target returns the GPU binding target.
func (v *BufferView) Target() device.BufferTarget {
	return v.target
}

// ByteStride returns the element stride, or 0 when tightly packed.
func (v *BufferView) ByteStride() int {
	return v.byteStride
}

// ByteLength returns the length of the view in bytes.
func (v *BufferView) ByteLength() int {
	return v.byteLength
}

// Uploaded reports whether the GPU buffer has been created and filled.
func (v *BufferView) Uploaded() bool {
	return v.uploaded
}

// Handle returns the GPU buffer name, or 0 before the first Bind.
func (v *BufferView) Handle() device.Buffer {
	return v.handle
}

// Bind binds the view's GPU buffer to its target, creating and uploading it on first use.
//
// Parameters:
//   - dev: the device to bind on
//
// Returns:
//   - error: a ResourceCreation error if the GPU buffer cannot be allocated
func (v *BufferView) Bind(dev device.Device) error {
	if !v.uploaded {
		handle, err := dev.CreateBuffer()
		if err != nil {
			return errs.Wrap(errs.KindResourceCreation, "create buffer", err)
		}
		v.handle = handle
		dev.BindBuffer(v.target, v.handle)
		dev.BufferData(v.target, v.Bytes(), device.BufferUsageStaticDraw)
		v.uploaded = true
		return nil
	}
	dev.BindBuffer(v.target, v.handle)
	return nil
}

// Release deletes the GPU buffer. The view can be bound again afterwards and will re-upload.
func (v *BufferView) Release(dev device.Device) {
	if !v.uploaded {
		return
	}
	dev.DeleteBuffer(v.handle)
	v.handle = 0
	v.uploaded = false
}

func (v *BufferView) String() string {
	return fmt.Sprintf("BufferView{target=0x%X offset=%d length=%d stride=%d}", uint32(v.target), v.byteOffset, v.byteLength, v.byteStride)
}
