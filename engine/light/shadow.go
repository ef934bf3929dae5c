package light

import "github.com/go-gl/mathgl/mgl32"

// ShadowMapResolution is the default width and height in texels of the shadow
// depth texture.
const ShadowMapResolution = 512

// DefaultShadowStrength is how much a fully shadowed fragment is darkened, in [0, 1].
const DefaultShadowStrength float32 = 0.5

// DefaultShadowBias is the constant depth bias applied to shadow comparisons
// to reduce shadow acne artifacts.
const DefaultShadowBias float32 = 0.01

// ShadowBounds is the axis-aligned box, in light view space, captured by the
// directional light's orthographic shadow camera. Near and far come from Min.Z and Max.Z.
type ShadowBounds struct {
	Min, Max mgl32.Vec3
}

// DefaultShadowBounds spans 10x10 units across the light direction and 20 units along it.
var DefaultShadowBounds = ShadowBounds{
	Min: mgl32.Vec3{-5, -5, 0},
	Max: mgl32.Vec3{5, 5, 20},
}

// Uniform struct member names of the GLSL Shadow struct.
const (
	MemberLightDirection   = "lightDirection"
	MemberProjectionMatrix = "projectionMatrix"
	MemberViewMatrix       = "viewMatrix"
	MemberDepthTexture     = "depthTexture"
	MemberStrength         = "strength"
	MemberBias             = "bias"
)
