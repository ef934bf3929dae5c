package material

import (
	"maps"
	"slices"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/device"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/texture"
	"github.com/go-gl/mathgl/mgl32"
)

// Value is a typed uniform value that can be uploaded to an active uniform slot.
type Value interface {
	// Type returns the GLSL type the value is compatible with.
	//
	// Returns:
	//   - device.UniformType: the declared type a matching uniform must have
	Type() device.UniformType

	// Upload pushes the value to location on the program currently in use.
	//
	// Parameters:
	//   - dev: the device to upload on
	//   - location: the uniform location
	Upload(dev device.Device, location device.UniformLocation)
}

// Bool uploads as a GLSL bool.
type Bool bool

// Int uploads as a GLSL int.
type Int int32

// Float uploads as a GLSL float.
type Float float32

// Vec2 uploads as a GLSL vec2.
type Vec2 mgl32.Vec2

// Vec3 uploads as a GLSL vec3.
type Vec3 mgl32.Vec3

// Vec4 uploads as a GLSL vec4.
type Vec4 mgl32.Vec4

// Mat3 uploads as a GLSL mat3.
type Mat3 mgl32.Mat3

// Mat4 uploads as a GLSL mat4.
type Mat4 mgl32.Mat4

// Color uploads as a GLSL vec4 in RGBA order.
type Color common.Color

// Sampler2D binds a texture to a texture unit and uploads the unit index.
type Sampler2D struct {
	Texture *texture.Texture
	Unit    uint32
}

// Struct expands to one upload per member, addressed as "name.member".
type Struct map[string]Value

var (
	_ Value = Bool(false)
	_ Value = Int(0)
	_ Value = Float(0)
	_ Value = Vec2{}
	_ Value = Vec3{}
	_ Value = Vec4{}
	_ Value = Mat3{}
	_ Value = Mat4{}
	_ Value = Color{}
	_ Value = Sampler2D{}
	_ Value = Struct{}
)

func (Bool) Type() device.UniformType { return device.UniformTypeBool }

func (v Bool) Upload(dev device.Device, location device.UniformLocation) {
	if v {
		dev.Uniform1i(location, 1)
	} else {
		dev.Uniform1i(location, 0)
	}
}

func (Int) Type() device.UniformType { return device.UniformTypeInt }

func (v Int) Upload(dev device.Device, location device.UniformLocation) {
	dev.Uniform1i(location, int32(v))
}

func (Float) Type() device.UniformType { return device.UniformTypeFloat }

func (v Float) Upload(dev device.Device, location device.UniformLocation) {
	dev.Uniform1f(location, float32(v))
}

func (Vec2) Type() device.UniformType { return device.UniformTypeFloatVec2 }

func (v Vec2) Upload(dev device.Device, location device.UniformLocation) {
	dev.Uniform2f(location, v[0], v[1])
}

func (Vec3) Type() device.UniformType { return device.UniformTypeFloatVec3 }

func (v Vec3) Upload(dev device.Device, location device.UniformLocation) {
	dev.Uniform3f(location, v[0], v[1], v[2])
}

func (Vec4) Type() device.UniformType { return device.UniformTypeFloatVec4 }

func (v Vec4) Upload(dev device.Device, location device.UniformLocation) {
	dev.Uniform4f(location, v[0], v[1], v[2], v[3])
}

func (Mat3) Type() device.UniformType { return device.UniformTypeFloatMat3 }

func (v Mat3) Upload(dev device.Device, location device.UniformLocation) {
	dev.UniformMatrix3fv(location, [9]float32(v))
}

func (Mat4) Type() device.UniformType { return device.UniformTypeFloatMat4 }

func (v Mat4) Upload(dev device.Device, location device.UniformLocation) {
	dev.UniformMatrix4fv(location, [16]float32(v))
}

func (Color) Type() device.UniformType { return device.UniformTypeFloatVec4 }

func (v Color) Upload(dev device.Device, location device.UniformLocation) {
	dev.Uniform4f(location, v.R, v.G, v.B, v.A)
}

func (Sampler2D) Type() device.UniformType { return device.UniformTypeSampler2D }

// Upload binds the texture to the sampler's unit, then points the sampler uniform at that unit.
func (v Sampler2D) Upload(dev device.Device, location device.UniformLocation) {
	if v.Texture != nil {
		v.Texture.Bind(dev, v.Unit)
	}
	dev.Uniform1i(location, int32(v.Unit))
}

// Type returns zero; structs have no single declared type and are expanded per member.
func (Struct) Type() device.UniformType { return 0 }

// Upload is a no-op. Program.UpdateUniform expands structs into their members.
func (Struct) Upload(device.Device, device.UniformLocation) {}

// Members returns the member names in sorted order.
func (s Struct) Members() []string {
	return slices.Sorted(maps.Keys(s))
}
