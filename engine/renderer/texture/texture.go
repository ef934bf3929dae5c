// Package texture uploads images to GPU textures with validated sampling parameters.
package texture

import (
	"fmt"
	"image"

	"github.com/Carmen-Shannon/oxy-gl/engine/device"
	"github.com/Carmen-Shannon/oxy-gl/engine/errs"
	"github.com/Carmen-Shannon/oxy-gl/engine/logger"
	"go.uber.org/zap"
	"golang.org/x/image/draw"
)

// Texture is a 2D RGBA texture owned by the GPU.
type Texture struct {
	handle        device.Texture
	width, height int
	sampler       Sampler
	flipY         bool
	resize        *image.Point
}

// TextureBuilderOption is a functional option for configuring a Texture.
type TextureBuilderOption func(*Texture)

// WithSampler overrides the default sampler.
//
// Parameters:
//   - sampler: the filtering and wrapping parameters
//
// Returns:
//   - TextureBuilderOption: option function to apply
func WithSampler(sampler Sampler) TextureBuilderOption {
	return func(t *Texture) {
		t.sampler = sampler
	}
}

// WithFlipY flips image rows before upload so the first row lands at v = 0.
//
// Returns:
//   - TextureBuilderOption: option function to apply
func WithFlipY() TextureBuilderOption {
	return func(t *Texture) {
		t.flipY = true
	}
}

// WithResize resamples the source image to width x height before upload.
//
// Parameters:
//   - width: target width in pixels
//   - height: target height in pixels
//
// Returns:
//   - TextureBuilderOption: option function to apply
func WithResize(width, height int) TextureBuilderOption {
	return func(t *Texture) {
		t.resize = &image.Point{X: width, Y: height}
	}
}

// New converts img to RGBA, uploads it, applies the sampler and generates mipmaps
// when the min filter uses them.
//
// Parameters:
//   - dev: the device to upload on
//   - img: the source image, any color model
//   - options: functional options
//
// Returns:
//   - *Texture: the new texture
//   - error: a GeometryValidation error for a bad sampler or empty image, ResourceCreation on allocation failure
func New(dev device.Device, img image.Image, options ...TextureBuilderOption) (*Texture, error) {
	t := &Texture{sampler: DefaultSampler}
	for _, opt := range options {
		opt(t)
	}
	if err := t.sampler.Validate(); err != nil {
		return nil, err
	}
	rgba := toRGBA(img, t.resize)
	t.width, t.height = rgba.Rect.Dx(), rgba.Rect.Dy()
	if t.width == 0 || t.height == 0 {
		return nil, errs.New(errs.KindGeometryValidation, "new texture", "image has no pixels")
	}
	if t.flipY {
		flip(rgba)
	}
	if err := t.upload(dev, rgba.Pix); err != nil {
		return nil, err
	}
	return t, nil
}

// NewEmpty allocates an uninitialized RGBA texture, used as a render target color attachment.
//
// Parameters:
//   - dev: the device to allocate on
//   - width: width in pixels
//   - height: height in pixels
//   - options: functional options; the default sampler is TargetSampler
//
// Returns:
//   - *Texture: the new texture
//   - error: a GeometryValidation error for a bad size or sampler, ResourceCreation on allocation failure
func NewEmpty(dev device.Device, width, height int, options ...TextureBuilderOption) (*Texture, error) {
	t := &Texture{sampler: TargetSampler, width: width, height: height}
	for _, opt := range options {
		opt(t)
	}
	if width <= 0 || height <= 0 {
		return nil, errs.Newf(errs.KindGeometryValidation, "new texture", "invalid size %dx%d", width, height)
	}
	if err := t.sampler.Validate(); err != nil {
		return nil, err
	}
	if err := t.upload(dev, nil); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Texture) upload(dev device.Device, pixels []byte) error {
	handle, err := dev.CreateTexture()
	if err != nil {
		return errs.Wrap(errs.KindResourceCreation, "create texture", err)
	}
	t.handle = handle
	dev.BindTexture(handle)
	dev.TexImage2D(device.TextureFormatRGBA8, int32(t.width), int32(t.height), device.TextureFormatRGBA, device.ComponentTypeUnsignedByte, pixels)
	t.sampler.apply(dev)
	if t.sampler.HasMipmapFilter() {
		dev.GenerateMipmap()
	}
	logger.Log().Debug("texture uploaded", zap.Uint32("handle", uint32(handle)), zap.Int("width", t.width), zap.Int("height", t.height))
	return nil
}

// toRGBA returns img as tightly packed RGBA, resampling when size is set.
func toRGBA(img image.Image, size *image.Point) *image.RGBA {
	if size != nil {
		dst := image.NewRGBA(image.Rect(0, 0, size.X, size.Y))
		draw.ApproxBiLinear.Scale(dst, dst.Rect, img, img.Bounds(), draw.Src, nil)
		return dst
	}
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) && rgba.Stride == 4*rgba.Rect.Dx() {
		return rgba
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Rect, img, b.Min, draw.Src)
	return dst
}

// flip reverses the row order of img in place.
func flip(img *image.RGBA) {
	h := img.Rect.Dy()
	row := make([]byte, img.Stride)
	for y := range h / 2 {
		top := img.Pix[y*img.Stride : (y+1)*img.Stride]
		bottom := img.Pix[(h-1-y)*img.Stride : (h-y)*img.Stride]
		copy(row, top)
		copy(top, bottom)
		copy(bottom, row)
	}
}

// Handle returns the GPU texture name.
func (t *Texture) Handle() device.Texture {
	return t.handle
}

// Size returns the texture width and height in pixels.
func (t *Texture) Size() (width, height int) {
	return t.width, t.height
}

// Sampler returns the sampling parameters.
func (t *Texture) Sampler() Sampler {
	return t.sampler
}

// Bind makes the texture current on a texture unit.
//
// Parameters:
//   - dev: the device to bind on
//   - unit: the zero-based texture unit
func (t *Texture) Bind(dev device.Device, unit uint32) {
	dev.ActiveTexture(unit)
	dev.BindTexture(t.handle)
}

// Release deletes the GPU texture.
func (t *Texture) Release(dev device.Device) {
	if t.handle != 0 {
		dev.DeleteTexture(t.handle)
		t.handle = 0
	}
}

func (t *Texture) String() string {
	return fmt.Sprintf("Texture{handle=%d %dx%d}", t.handle, t.width, t.height)
}
