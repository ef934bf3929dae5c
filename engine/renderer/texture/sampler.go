package texture

import (
	"slices"

	"github.com/Carmen-Shannon/oxy-gl/engine/device"
	"github.com/Carmen-Shannon/oxy-gl/engine/errs"
)

var (
	magFilters = []int32{device.FilterNearest, device.FilterLinear}
	minFilters = []int32{
		device.FilterNearest,
		device.FilterLinear,
		device.FilterNearestMipmapNearest,
		device.FilterLinearMipmapNearest,
		device.FilterNearestMipmapLinear,
		device.FilterLinearMipmapLinear,
	}
	wraps = []int32{device.WrapClampToEdge, device.WrapMirroredRepeat, device.WrapRepeat}
)

// Sampler holds the filtering and wrapping parameters applied to a texture.
type Sampler struct {
	MagFilter int32
	MinFilter int32
	WrapS     int32
	WrapT     int32
}

// DefaultSampler filters linearly with trilinear mipmapping and repeats in both directions.
var DefaultSampler = Sampler{
	MagFilter: device.FilterLinear,
	MinFilter: device.FilterLinearMipmapLinear,
	WrapS:     device.WrapRepeat,
	WrapT:     device.WrapRepeat,
}

// TargetSampler is used for render target color textures: linear, no mipmaps, clamped.
var TargetSampler = Sampler{
	MagFilter: device.FilterLinear,
	MinFilter: device.FilterLinear,
	WrapS:     device.WrapClampToEdge,
	WrapT:     device.WrapClampToEdge,
}

// Validate checks every parameter against the values GL accepts for it.
//
// Returns:
//   - error: a GeometryValidation error naming the first unknown parameter
func (s Sampler) Validate() error {
	switch {
	case !slices.Contains(magFilters, s.MagFilter):
		return errs.Newf(errs.KindGeometryValidation, "validate sampler", "unknown mag filter 0x%X", s.MagFilter)
	case !slices.Contains(minFilters, s.MinFilter):
		return errs.Newf(errs.KindGeometryValidation, "validate sampler", "unknown min filter 0x%X", s.MinFilter)
	case !slices.Contains(wraps, s.WrapS):
		return errs.Newf(errs.KindGeometryValidation, "validate sampler", "unknown wrap s parameter 0x%X", s.WrapS)
	case !slices.Contains(wraps, s.WrapT):
		return errs.Newf(errs.KindGeometryValidation, "validate sampler", "unknown wrap t parameter 0x%X", s.WrapT)
	}
	return nil
}

// HasMipmapFilter reports whether the min filter samples mipmaps.
func (s Sampler) HasMipmapFilter() bool {
	switch s.MinFilter {
	case device.FilterNearestMipmapNearest, device.FilterLinearMipmapNearest,
		device.FilterNearestMipmapLinear, device.FilterLinearMipmapLinear:
		return true
	}
	return false
}

// apply sets the parameters on the currently bound texture.
func (s Sampler) apply(dev device.Device) {
	dev.TexParameteri(device.TextureParamMagFilter, s.MagFilter)
	dev.TexParameteri(device.TextureParamMinFilter, s.MinFilter)
	dev.TexParameteri(device.TextureParamWrapS, s.WrapS)
	dev.TexParameteri(device.TextureParamWrapT, s.WrapT)
}
