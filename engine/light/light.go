package light

import (
	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/go-gl/mathgl/mgl32"
)

// LightType identifies the kind of light source. The numeric values are the
// lightType codes read by the GLSL Light struct.
type LightType int32

const (
	// LightTypeNone is an inert light slot. Shaders skip it entirely; used to pad
	// the fixed-size light array when a scene has fewer lights than slots.
	LightTypeNone LightType = iota

	// LightTypeDirectional represents a light with no position, only direction.
	// Used for large distant sources like the sun. Affects all fragments uniformly
	// with no distance attenuation.
	LightTypeDirectional

	// LightTypePoint represents a light that emits in all directions from a position
	// and attenuates with distance.
	LightTypePoint
)

// String returns the light type name.
func (t LightType) String() string {
	switch t {
	case LightTypeDirectional:
		return "directional"
	case LightTypePoint:
		return "point"
	default:
		return "none"
	}
}

// forward is the node-space direction a light points along.
var forward = mgl32.Vec3{0, 0, -1}

// Attenuation holds the constant, linear and quadratic distance falloff coefficients.
type Attenuation struct {
	Constant, Linear, Quadratic float32
}

// Vec3 returns the coefficients as a vector in (constant, linear, quadratic) order.
func (a Attenuation) Vec3() mgl32.Vec3 {
	return mgl32.Vec3{a.Constant, a.Linear, a.Quadratic}
}

// DefaultAttenuation is the falloff used by directional and inert lights (no falloff).
var DefaultAttenuation = Attenuation{Constant: 1}

// DefaultPointAttenuation is the falloff used by point lights unless overridden.
var DefaultPointAttenuation = Attenuation{Constant: 1, Quadratic: 0.1}

// Fields is the flat value of a light as consumed by the GLSL Light struct.
type Fields struct {
	LightType   LightType
	Color       mgl32.Vec3
	Direction   mgl32.Vec3
	Position    mgl32.Vec3
	Attenuation mgl32.Vec3
}

// Uniform struct member names of the GLSL Light struct.
const (
	MemberLightType   = "lightType"
	MemberColor       = "color"
	MemberDirection   = "direction"
	MemberPosition    = "position"
	MemberAttenuation = "attenuation"
)

// lightImpl is the implementation of the Light interface.
type lightImpl struct {
	lightType   LightType
	position    mgl32.Vec3
	direction   mgl32.Vec3
	color       common.Color
	attenuation Attenuation
}

// Light defines the interface for a light source in the scene.
//
// A light is a closed variant over directional, point and none. Only the field of
// its own variant is meaningful: direction for directional lights, position for
// point lights. The field is kept in step with the owning node through two explicit
// operations; UpdateFromNode pulls it out of the node's world transform and
// ApplyToNode pushes it into the node's local transform.
type Light interface {
	// Type returns the kind of light source.
	//
	// Returns:
	//   - LightType: the light type (none, directional, or point)
	Type() LightType

	// IsDirectional reports whether the light is a directional light.
	//
	// Returns:
	//   - bool: true for LightTypeDirectional
	IsDirectional() bool

	// Position returns the world-space position of the light.
	// Meaningless unless the light is a point light.
	//
	// Returns:
	//   - mgl32.Vec3: the position
	Position() mgl32.Vec3

	// Direction returns the normalized direction of the light.
	// Meaningless unless the light is a directional light.
	//
	// Returns:
	//   - mgl32.Vec3: the normalized direction
	Direction() mgl32.Vec3

	// Color returns the light color.
	//
	// Returns:
	//   - common.Color: the color
	Color() common.Color

	// Attenuation returns the distance falloff coefficients.
	//
	// Returns:
	//   - Attenuation: the coefficients
	Attenuation() Attenuation

	// SetPosition sets the position of a point light.
	//
	// Parameters:
	//   - position: the new position
	SetPosition(position mgl32.Vec3)

	// SetDirection sets the direction of a directional light. The vector is normalized.
	//
	// Parameters:
	//   - direction: the new direction
	SetDirection(direction mgl32.Vec3)

	// SetColor sets the light color.
	//
	// Parameters:
	//   - color: the new color
	SetColor(color common.Color)

	// SetAttenuation sets the distance falloff coefficients.
	//
	// Parameters:
	//   - attenuation: the new coefficients
	SetAttenuation(attenuation Attenuation)

	// UpdateFromNode pulls the light's variant field out of its node's world transform.
	// Directional lights take the rotated forward axis, point lights take the translation.
	//
	// Parameters:
	//   - world: the owning node's global transform
	UpdateFromNode(world mgl32.Mat4)

	// ApplyToNode pushes the light's variant field into its node's local transform.
	// Directional lights re-aim the node along their direction, keeping its position.
	// Point lights move the node to their position, keeping its rotation.
	//
	// Parameters:
	//   - local: the owning node's current local transform
	//
	// Returns:
	//   - mgl32.Mat4: the updated local transform
	ApplyToNode(local mgl32.Mat4) mgl32.Mat4

	// Fields returns the flat GLSL Light struct value.
	//
	// Returns:
	//   - Fields: the struct members
	Fields() Fields
}

var _ Light = &lightImpl{}

// NewLight creates a new Light of the specified type with the defaults of that type
// and any provided options applied.
//
// Parameters:
//   - lightType: the kind of light to create
//   - opts: variadic list of LightBuilderOption functions to configure the light
//
// Returns:
//   - Light: a new Light instance
func NewLight(lightType LightType, opts ...LightBuilderOption) Light {
	l := &lightImpl{
		lightType:   lightType,
		direction:   forward,
		color:       common.White,
		attenuation: DefaultAttenuation,
	}
	if lightType == LightTypePoint {
		l.attenuation = DefaultPointAttenuation
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// NewDirectional creates a directional light shining along direction.
//
// Parameters:
//   - color: the light color
//   - direction: the light direction, normalized on construction
//
// Returns:
//   - Light: a new directional light
func NewDirectional(color common.Color, direction mgl32.Vec3) Light {
	return NewLight(LightTypeDirectional, WithColor(color), WithDirection(direction))
}

// NewPoint creates a point light at position with the default point falloff.
//
// Parameters:
//   - color: the light color
//   - position: the light position
//
// Returns:
//   - Light: a new point light
func NewPoint(color common.Color, position mgl32.Vec3) Light {
	return NewLight(LightTypePoint, WithColor(color), WithPosition(position))
}

// Inert returns a light that contributes nothing, used to fill unused light slots.
//
// Returns:
//   - Light: a new LightTypeNone light
func Inert() Light {
	return NewLight(LightTypeNone)
}

func (l *lightImpl) Type() LightType {
	return l.lightType
}

func (l *lightImpl) IsDirectional() bool {
	return l.lightType == LightTypeDirectional
}

func (l *lightImpl) Position() mgl32.Vec3 {
	return l.position
}

func (l *lightImpl) Direction() mgl32.Vec3 {
	return l.direction
}

func (l *lightImpl) Color() common.Color {
	return l.color
}

func (l *lightImpl) Attenuation() Attenuation {
	return l.attenuation
}

func (l *lightImpl) SetPosition(position mgl32.Vec3) {
	l.position = position
}

func (l *lightImpl) SetDirection(direction mgl32.Vec3) {
	l.direction = common.Normalize3(direction)
}

func (l *lightImpl) SetColor(color common.Color) {
	l.color = color
}

func (l *lightImpl) SetAttenuation(attenuation Attenuation) {
	l.attenuation = attenuation
}

func (l *lightImpl) UpdateFromNode(world mgl32.Mat4) {
	switch l.lightType {
	case LightTypeDirectional:
		l.direction = common.Normalize3(common.RotationMatrix(world).Mul4x1(forward.Vec4(0)).Vec3())
	case LightTypePoint:
		l.position = common.Position(world)
	}
}

func (l *lightImpl) ApplyToNode(local mgl32.Mat4) mgl32.Mat4 {
	switch l.lightType {
	case LightTypeDirectional:
		eye := common.Position(local)
		return common.LookAtWorld(eye, eye.Add(l.direction), mgl32.Vec3{0, 1, 0})
	case LightTypePoint:
		return common.SetPosition(local, l.position)
	default:
		return local
	}
}

func (l *lightImpl) Fields() Fields {
	f := Fields{
		LightType:   l.lightType,
		Color:       l.color.Vec3(),
		Attenuation: l.attenuation.Vec3(),
	}
	switch l.lightType {
	case LightTypeDirectional:
		f.Direction = l.direction
	case LightTypePoint:
		f.Position = l.position
	}
	return f
}
