package postprocess

import (
	_ "embed"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/device"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/rendertarget"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	//go:embed assets/tint.frag
	tintSource string

	//go:embed assets/invert.frag
	invertSource string

	//go:embed assets/pixelate.frag
	pixelateSource string

	//go:embed assets/vignette.frag
	vignetteSource string

	//go:embed assets/color_reduce.frag
	colorReduceSource string

	//go:embed assets/bright_filter.frag
	brightFilterSource string

	//go:embed assets/horizontal_blur.frag
	horizontalBlurSource string

	//go:embed assets/vertical_blur.frag
	verticalBlurSource string

	//go:embed assets/additive_blend.frag
	additiveBlendSource string
)

// effect builds a Factory over an embedded fragment source with extra stored uniforms.
func effect(dev device.Device, source string, uniforms ...material.MaterialBuilderOption) Factory {
	return func(sampler material.Sampler2D) (material.Material, error) {
		return material.NewEffect(dev, source, sampler, material.WithMaterialOptions(uniforms...))
	}
}

// Tint converts the image to grayscale and multiplies it by color.
func Tint(dev device.Device, color common.Color) Factory {
	return effect(dev, tintSource, material.WithUniform("tintColor", material.Color(color)))
}

// Invert inverts the color channels.
func Invert(dev device.Device) Factory {
	return effect(dev, invertSource)
}

// Pixelate snaps texture lookups to blocks of pixelSize pixels.
//
// Parameters:
//   - dev: the device to compile on
//   - pixelSize: the block edge in pixels
//   - resolution: the size of the sampled texture
//
// Returns:
//   - Factory: the effect factory
func Pixelate(dev device.Device, pixelSize uint16, resolution rendertarget.Resolution) Factory {
	return effect(dev, pixelateSource,
		material.WithUniform("pixelSize", material.Float(pixelSize)),
		material.WithUniform("resolution", material.Vec2(resolutionVec(resolution))),
	)
}

// Vignette blends toward dimColor between the dimStart and dimEnd radii from the center.
//
// Parameters:
//   - dev: the device to compile on
//   - dimStart: the radius where dimming starts, in normalized device units
//   - dimEnd: the radius where the image is fully dimColor
//   - dimColor: the color at the edges
//
// Returns:
//   - Factory: the effect factory
func Vignette(dev device.Device, dimStart, dimEnd float32, dimColor common.Color) Factory {
	return effect(dev, vignetteSource,
		material.WithUniform("dimStart", material.Float(dimStart)),
		material.WithUniform("dimEnd", material.Float(dimEnd)),
		material.WithUniform("dimColor", material.Color(dimColor)),
	)
}

// ColorReduce quantizes every channel to the given number of levels.
func ColorReduce(dev device.Device, levels uint16) Factory {
	return effect(dev, colorReduceSource, material.WithUniform("levels", material.Float(levels)))
}

// BrightFilterProperties configures BrightFilter.
type BrightFilterProperties struct {
	// Threshold is the minimum r+g+b sum a fragment needs to be kept.
	Threshold float32
}

// DefaultBrightFilterProperties returns a threshold of 2.4.
func DefaultBrightFilterProperties() BrightFilterProperties {
	return BrightFilterProperties{Threshold: 2.4}
}

// BrightFilter discards fragments darker than the threshold.
func BrightFilter(dev device.Device, props BrightFilterProperties) Factory {
	return effect(dev, brightFilterSource, material.WithUniform("threshold", material.Float(props.Threshold)))
}

// BlurProperties configures HorizontalBlur and VerticalBlur.
type BlurProperties struct {
	TextureSize rendertarget.Resolution
	BlurRadius  int32
}

// DefaultBlurProperties returns a 20 pixel radius over a 512x512 texture.
func DefaultBlurProperties() BlurProperties {
	return BlurProperties{
		TextureSize: rendertarget.Resolution{Width: 512, Height: 512},
		BlurRadius:  20,
	}
}

func blurUniforms(props BlurProperties) []material.MaterialBuilderOption {
	return []material.MaterialBuilderOption{
		material.WithUniform("textureSize", material.Vec2(resolutionVec(props.TextureSize))),
		material.WithUniform("blurRadius", material.Int(props.BlurRadius)),
	}
}

// HorizontalBlur applies a triangle-weighted blur along x.
func HorizontalBlur(dev device.Device, props BlurProperties) Factory {
	return effect(dev, horizontalBlurSource, blurUniforms(props)...)
}

// VerticalBlur applies a triangle-weighted blur along y.
func VerticalBlur(dev device.Device, props BlurProperties) Factory {
	return effect(dev, verticalBlurSource, blurUniforms(props)...)
}

// BlendProperties configures AdditiveBlend.
type BlendProperties struct {
	OriginalStrength float32
	BlendStrength    float32
}

// DefaultBlendProperties returns full strength for both inputs.
func DefaultBlendProperties() BlendProperties {
	return BlendProperties{OriginalStrength: 1, BlendStrength: 1}
}

// AdditiveBlend adds a second texture, typically an earlier pass's output, to the sampled image.
//
// Parameters:
//   - dev: the device to compile on
//   - blendTexture: the second input; its unit must differ from the chain's texture unit
//   - props: the weight of each input
//
// Returns:
//   - Factory: the effect factory
func AdditiveBlend(dev device.Device, blendTexture material.Sampler2D, props BlendProperties) Factory {
	return effect(dev, additiveBlendSource,
		material.WithUniform("blendTexture", blendTexture),
		material.WithUniform("originalStrength", material.Float(props.OriginalStrength)),
		material.WithUniform("blendStrength", material.Float(props.BlendStrength)),
	)
}

func resolutionVec(r rendertarget.Resolution) mgl32.Vec2 {
	return mgl32.Vec2{float32(r.Width), float32(r.Height)}
}
