package material

import (
	_ "embed"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/device"
	"github.com/Carmen-Shannon/oxy-gl/engine/errs"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
	"github.com/go-gl/mathgl/mgl32"
)

// Uniform names pushed by meshes and the renderer.
const (
	UniformViewProjectionMatrix = "u_ViewProjectionMatrix"
	UniformModelMatrix          = "u_ModelMatrix"
	UniformNormalMatrix         = "u_NormalMatrix"
	UniformViewMatrix           = "u_ViewMatrix"
	UniformViewPosition         = "viewPosition"
	UniformUseShadow            = "useShadow"
	UniformMaterial             = "material"
)

// IncludeMaterialLit is the @oxy:include key of the Material struct shared by lit kinds.
const IncludeMaterialLit shader.AnnotationArg = "material_lit"

var (
	//go:embed assets/material_lit.glsl
	litMaterialSource string

	//go:embed assets/basic.vert
	basicVertexSource string
	//go:embed assets/basic.frag
	basicFragmentSource string

	//go:embed assets/flat.vert
	flatVertexSource string
	//go:embed assets/flat.frag
	flatFragmentSource string

	//go:embed assets/lit.vert
	litVertexSource string
	//go:embed assets/lambert.frag
	lambertFragmentSource string
	//go:embed assets/phong.frag
	phongFragmentSource string

	//go:embed assets/depth.vert
	depthVertexSource string
	//go:embed assets/depth.frag
	depthFragmentSource string

	//go:embed assets/sprite.vert
	spriteVertexSource string
	//go:embed assets/sprite.frag
	spriteFragmentSource string

	//go:embed assets/texture.vert
	textureVertexSource string
	//go:embed assets/texture.frag
	textureFragmentSource string

	//go:embed assets/effect.vert
	effectVertexSource string
)

// BasicProperties configures the unlit basic material.
type BasicProperties struct {
	BaseColor       common.Color
	UseVertexColors bool
}

// DefaultBasicProperties returns white, without vertex colors.
func DefaultBasicProperties() BasicProperties {
	return BasicProperties{BaseColor: common.White}
}

// PointProperties configures a basic material drawn as points.
type PointProperties struct {
	Basic         BasicProperties
	PointSize     float32
	RoundedPoints bool
}

// DefaultPointProperties returns 8 pixel square points.
func DefaultPointProperties() PointProperties {
	return PointProperties{Basic: DefaultBasicProperties(), PointSize: 8}
}

// LineType selects how a line material connects vertices.
type LineType int

const (
	// LineConnected draws a line strip.
	LineConnected LineType = iota

	// LineLoop closes the strip back to the first vertex.
	LineLoop

	// LineSegments draws independent pairs.
	LineSegments
)

func (t LineType) drawMode() device.DrawMode {
	switch t {
	case LineLoop:
		return device.DrawModeLineLoop
	case LineSegments:
		return device.DrawModeLines
	default:
		return device.DrawModeLineStrip
	}
}

// LineProperties configures a basic material drawn as lines.
type LineProperties struct {
	Basic     BasicProperties
	LineWidth float32
	LineType  LineType
}

// DefaultLineProperties returns 1 pixel connected lines.
func DefaultLineProperties() LineProperties {
	return LineProperties{Basic: DefaultBasicProperties(), LineWidth: 1}
}

// SurfaceProperties configures a basic material drawn as triangles.
type SurfaceProperties struct {
	Basic       BasicProperties
	DoubleSided bool
}

// DefaultSurfaceProperties returns single sided white surfaces.
func DefaultSurfaceProperties() SurfaceProperties {
	return SurfaceProperties{Basic: DefaultBasicProperties()}
}

// LitProperties configures the flat, lambert and phong materials.
// Specular and bump fields are only read by phong; UseShadow by lambert and phong.
type LitProperties struct {
	DoubleSided      bool
	Ambient          common.Color
	Diffuse          common.Color
	Texture          *Sampler2D
	SpecularStrength float32
	Shininess        float32
	BumpTexture      *Sampler2D
	BumpStrength     float32
	UseShadow        bool
}

// DefaultLitProperties returns a double sided white diffuse surface with no ambient term.
func DefaultLitProperties() LitProperties {
	return LitProperties{
		DoubleSided:      true,
		Ambient:          common.Black,
		Diffuse:          common.White,
		SpecularStrength: 1,
		Shininess:        32,
		BumpStrength:     1,
	}
}

// materialStruct builds the value of the "material" uniform struct.
func (p LitProperties) materialStruct(phong bool) Struct {
	s := Struct{
		"ambient":    Color(p.Ambient),
		"diffuse":    Color(p.Diffuse),
		"useTexture": Bool(p.Texture != nil),
	}
	if p.Texture != nil {
		s["texture0"] = *p.Texture
	}
	if phong {
		s["specularStrength"] = Float(p.SpecularStrength)
		s["shininess"] = Float(p.Shininess)
		s["useBumpTexture"] = Bool(p.BumpTexture != nil)
		s["bumpStrength"] = Float(p.BumpStrength)
		if p.BumpTexture != nil {
			s["bumpTexture"] = *p.BumpTexture
		}
	}
	return s
}

// SpriteProperties configures the sprite material.
// A TileNumber of -1 samples the whole texture.
type SpriteProperties struct {
	BaseColor   common.Color
	Billboard   bool
	TileNumber  float32
	TileCount   mgl32.Vec2
	DoubleSided bool
}

// DefaultSpriteProperties returns an untiled, non-billboarded, double sided sprite.
func DefaultSpriteProperties() SpriteProperties {
	return SpriteProperties{
		BaseColor:   common.White,
		TileNumber:  -1,
		TileCount:   mgl32.Vec2{1, 1},
		DoubleSided: true,
	}
}

// TextureProperties configures the texture material.
type TextureProperties struct {
	BaseColor   common.Color
	RepeatUV    mgl32.Vec2
	OffsetUV    mgl32.Vec2
	DoubleSided bool
}

// DefaultTextureProperties returns an unscaled, double sided white texture material.
func DefaultTextureProperties() TextureProperties {
	return TextureProperties{
		BaseColor:   common.White,
		RepeatUV:    mgl32.Vec2{1, 1},
		DoubleSided: true,
	}
}

// build pre-processes a kind's sources and compiles them.
func build(dev device.Device, kind Kind, vertexSource, fragmentSource string, options []KindBuilderOption, defaults ...MaterialBuilderOption) (Material, error) {
	cfg := newKindConfig(options)
	pp := []shader.PreProcessorBuilderOption{
		shader.WithLightCount(cfg.lightCount),
		shader.WithInclude(IncludeMaterialLit, litMaterialSource),
	}
	vs, err := shader.NewShader(kind.String()+".vert", device.ShaderTypeVertex, vertexSource, pp...)
	if err != nil {
		return nil, errs.Wrap(errs.KindShaderCompile, "pre-process "+kind.String()+" material", err)
	}
	fs, err := shader.NewShader(kind.String()+".frag", device.ShaderTypeFragment, fragmentSource, pp...)
	if err != nil {
		return nil, errs.Wrap(errs.KindShaderCompile, "pre-process "+kind.String()+" material", err)
	}

	opts := make([]MaterialBuilderOption, 0, len(defaults)+len(cfg.options)+1)
	opts = append(opts, withKind(kind))
	opts = append(opts, defaults...)
	opts = append(opts, cfg.options...)
	return NewMaterial(dev, vs.Source(), fs.Source(), opts...)
}

func basicUniforms(props BasicProperties) []MaterialBuilderOption {
	return []MaterialBuilderOption{
		WithUniform("baseColor", Color(props.BaseColor)),
		WithUniform("useVertexColors", Bool(props.UseVertexColors)),
	}
}

// NewPoints creates a basic material drawing each vertex as a point sprite.
//
// Parameters:
//   - dev: the device to compile on
//   - props: color, point size and shape
//   - options: light count and forwarded material options
//
// Returns:
//   - Material: the new material
//   - error: compile, link or resource errors
func NewPoints(dev device.Device, props PointProperties, options ...KindBuilderOption) (Material, error) {
	defaults := append(basicUniforms(props.Basic),
		WithDrawMode(device.DrawModePoints),
		WithUniform("pointSize", Float(props.PointSize)),
		WithUniform("roundedPoints", Bool(props.RoundedPoints)),
	)
	return build(dev, KindBasic, basicVertexSource, basicFragmentSource, options, defaults...)
}

// NewLines creates a basic material drawn as a line strip, loop or segments.
//
// Parameters:
//   - dev: the device to compile on
//   - props: color, width and connection style
//   - options: light count and forwarded material options
//
// Returns:
//   - Material: the new material
//   - error: compile, link or resource errors
func NewLines(dev device.Device, props LineProperties, options ...KindBuilderOption) (Material, error) {
	defaults := append(basicUniforms(props.Basic),
		WithDrawMode(props.LineType.drawMode()),
		WithLineWidth(props.LineWidth),
	)
	return build(dev, KindBasic, basicVertexSource, basicFragmentSource, options, defaults...)
}

// NewSurface creates a basic material drawn as filled triangles.
//
// Parameters:
//   - dev: the device to compile on
//   - props: color and sidedness
//   - options: light count and forwarded material options
//
// Returns:
//   - Material: the new material
//   - error: compile, link or resource errors
func NewSurface(dev device.Device, props SurfaceProperties, options ...KindBuilderOption) (Material, error) {
	defaults := append(basicUniforms(props.Basic), WithDoubleSided(props.DoubleSided))
	return build(dev, KindBasic, basicVertexSource, basicFragmentSource, options, defaults...)
}

// NewFlat creates a material lit per vertex by every light slot.
func NewFlat(dev device.Device, props LitProperties, options ...KindBuilderOption) (Material, error) {
	return build(dev, KindFlat, flatVertexSource, flatFragmentSource, options,
		WithDoubleSided(props.DoubleSided),
		WithUniform(UniformMaterial, props.materialStruct(false)),
	)
}

// NewLambert creates a material with per fragment diffuse lighting and optional shadows.
func NewLambert(dev device.Device, props LitProperties, options ...KindBuilderOption) (Material, error) {
	return build(dev, KindLambert, litVertexSource, lambertFragmentSource, options,
		WithDoubleSided(props.DoubleSided),
		WithUniform(UniformMaterial, props.materialStruct(false)),
		WithUniform(UniformUseShadow, Bool(props.UseShadow)),
	)
}

// NewPhong creates a material with diffuse and specular lighting, bump mapping and optional shadows.
func NewPhong(dev device.Device, props LitProperties, options ...KindBuilderOption) (Material, error) {
	return build(dev, KindPhong, litVertexSource, phongFragmentSource, options,
		WithDoubleSided(props.DoubleSided),
		WithUniform(UniformMaterial, props.materialStruct(true)),
		WithUniform(UniformUseShadow, Bool(props.UseShadow)),
	)
}

// NewDepth creates the depth-only material used by the shadow pass.
// Fragment color holds window space depth in every channel.
func NewDepth(dev device.Device, options ...KindBuilderOption) (Material, error) {
	return build(dev, KindDepth, depthVertexSource, depthFragmentSource, options)
}

// NewSprite creates a textured quad material with optional billboarding and sprite sheet tiling.
//
// Parameters:
//   - dev: the device to compile on
//   - sampler: the sprite texture and unit
//   - props: tint, billboarding and tiling
//   - options: light count and forwarded material options
//
// Returns:
//   - Material: the new material
//   - error: compile, link or resource errors
func NewSprite(dev device.Device, sampler Sampler2D, props SpriteProperties, options ...KindBuilderOption) (Material, error) {
	return build(dev, KindSprite, spriteVertexSource, spriteFragmentSource, options,
		WithDoubleSided(props.DoubleSided),
		WithUniform("baseColor", Color(props.BaseColor)),
		WithUniform("texture0", sampler),
		WithUniform("billboard", Bool(props.Billboard)),
		WithUniform("tileNumber", Float(props.TileNumber)),
		WithUniform("tileCount", Vec2(props.TileCount)),
	)
}

// NewTextureMaterial creates an unlit textured material with UV repeat and offset.
//
// Parameters:
//   - dev: the device to compile on
//   - sampler: the texture and unit
//   - props: tint and UV transform
//   - options: light count and forwarded material options
//
// Returns:
//   - Material: the new material
//   - error: compile, link or resource errors
func NewTextureMaterial(dev device.Device, sampler Sampler2D, props TextureProperties, options ...KindBuilderOption) (Material, error) {
	return build(dev, KindTexture, textureVertexSource, textureFragmentSource, options,
		WithDoubleSided(props.DoubleSided),
		WithUniform("baseColor", Color(props.BaseColor)),
		WithUniform("textureSampler", sampler),
		WithUniform("repeatUV", Vec2(props.RepeatUV)),
		WithUniform("offsetUV", Vec2(props.OffsetUV)),
	)
}

// NewEffect creates a full-screen postprocess material. The fragment source receives the
// previous pass as "texture0" and the interpolated screen UV as v_uv.
//
// Parameters:
//   - dev: the device to compile on
//   - fragmentSource: GLSL fragment source with @oxy: annotations
//   - texture0: the previous pass output
//   - options: light count and forwarded material options, e.g. WithUniform for effect parameters
//
// Returns:
//   - Material: the new material
//   - error: compile, link or resource errors
func NewEffect(dev device.Device, fragmentSource string, texture0 Sampler2D, options ...KindBuilderOption) (Material, error) {
	return build(dev, KindEffect, effectVertexSource, fragmentSource, options,
		WithDoubleSided(true),
		WithUniform("texture0", texture0),
	)
}
