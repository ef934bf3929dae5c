// Package rendertarget provides offscreen framebuffers with a sampled color texture and a depth renderbuffer.
package rendertarget

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-gl/engine/device"
	"github.com/Carmen-Shannon/oxy-gl/engine/errs"
	"github.com/Carmen-Shannon/oxy-gl/engine/logger"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/texture"
	"go.uber.org/zap"
)

// Resolution is a framebuffer size in pixels.
type Resolution struct {
	Width  int
	Height int
}

// AspectRatio returns width / height, or 1 for a degenerate resolution.
func (r Resolution) AspectRatio() float32 {
	if r.Height == 0 {
		return 1
	}
	return float32(r.Width) / float32(r.Height)
}

func (r Resolution) String() string {
	return fmt.Sprintf("%dx%d", r.Width, r.Height)
}

// RenderTarget is a framebuffer whose color attachment is a texture that later passes can sample.
type RenderTarget struct {
	resolution   Resolution
	framebuffer  device.Framebuffer
	renderbuffer device.Renderbuffer
	texture      *texture.Texture
	ownsTexture  bool
}

// RenderTargetBuilderOption is a functional option for configuring a RenderTarget.
type RenderTargetBuilderOption func(*RenderTarget)

// WithTexture attaches an existing texture instead of allocating one.
// The texture must already have the target resolution.
//
// Parameters:
//   - tex: the color attachment
//
// Returns:
//   - RenderTargetBuilderOption: option function to apply
func WithTexture(tex *texture.Texture) RenderTargetBuilderOption {
	return func(rt *RenderTarget) {
		rt.texture = tex
	}
}

// New creates a framebuffer with a LINEAR / CLAMP_TO_EDGE color texture and a DEPTH_COMPONENT16
// renderbuffer, then verifies completeness. The default framebuffer is bound again before returning.
//
// Parameters:
//   - dev: the device to allocate on
//   - resolution: the fixed size of the target
//   - options: functional options
//
// Returns:
//   - *RenderTarget: the new render target
//   - error: GeometryValidation for a bad size, ResourceCreation on allocation failure or an incomplete framebuffer
func New(dev device.Device, resolution Resolution, options ...RenderTargetBuilderOption) (*RenderTarget, error) {
	if resolution.Width <= 0 || resolution.Height <= 0 {
		return nil, errs.Newf(errs.KindGeometryValidation, "new render target", "invalid resolution %s", resolution)
	}
	rt := &RenderTarget{resolution: resolution}
	for _, opt := range options {
		opt(rt)
	}
	if rt.texture == nil {
		tex, err := texture.NewEmpty(dev, resolution.Width, resolution.Height)
		if err != nil {
			return nil, fmt.Errorf("failed to create render target texture: %w", err)
		}
		rt.texture = tex
		rt.ownsTexture = true
	}

	fb, err := dev.CreateFramebuffer()
	if err != nil {
		rt.Release(dev)
		return nil, errs.Wrap(errs.KindResourceCreation, "create framebuffer", err)
	}
	rt.framebuffer = fb
	dev.BindFramebuffer(fb)
	dev.FramebufferTexture2D(rt.texture.Handle())

	rb, err := dev.CreateRenderbuffer()
	if err != nil {
		dev.BindFramebuffer(device.DefaultFramebuffer)
		rt.Release(dev)
		return nil, errs.Wrap(errs.KindResourceCreation, "create renderbuffer", err)
	}
	rt.renderbuffer = rb
	dev.BindRenderbuffer(rb)
	dev.RenderbufferStorage(device.TextureFormatDepthComponent16, int32(resolution.Width), int32(resolution.Height))
	dev.FramebufferRenderbuffer(rb)

	status := dev.CheckFramebufferStatus()
	dev.BindFramebuffer(device.DefaultFramebuffer)
	if status != device.FramebufferComplete {
		rt.Release(dev)
		return nil, errs.Newf(errs.KindResourceCreation, "check framebuffer status", "framebuffer incomplete: %s", status)
	}
	logger.Log().Debug("render target created", zap.Uint32("framebuffer", uint32(fb)), zap.Stringer("resolution", resolution))
	return rt, nil
}

// Bind directs subsequent draws into the target.
func (rt *RenderTarget) Bind(dev device.Device) {
	dev.BindFramebuffer(rt.framebuffer)
}

// Resolution returns the fixed size of the target.
func (rt *RenderTarget) Resolution() Resolution {
	return rt.resolution
}

// Texture returns the color attachment.
func (rt *RenderTarget) Texture() *texture.Texture {
	return rt.texture
}

// Framebuffer returns the GPU framebuffer name.
func (rt *RenderTarget) Framebuffer() device.Framebuffer {
	return rt.framebuffer
}

// Release deletes the framebuffer, the depth renderbuffer and the color texture if the target allocated it.
func (rt *RenderTarget) Release(dev device.Device) {
	if rt.framebuffer != 0 {
		dev.DeleteFramebuffer(rt.framebuffer)
		rt.framebuffer = 0
	}
	if rt.renderbuffer != 0 {
		dev.DeleteRenderbuffer(rt.renderbuffer)
		rt.renderbuffer = 0
	}
	if rt.ownsTexture && rt.texture != nil {
		rt.texture.Release(dev)
	}
}
