package device

// Enum values mirror the OpenGL / WebGL2 numeric constants so a GL backend can pass them straight through.

// DrawMode is the primitive topology used by draw calls.
type DrawMode uint32

const (
	DrawModePoints        DrawMode = 0x0000
	DrawModeLines         DrawMode = 0x0001
	DrawModeLineLoop      DrawMode = 0x0002
	DrawModeLineStrip     DrawMode = 0x0003
	DrawModeTriangles     DrawMode = 0x0004
	DrawModeTriangleStrip DrawMode = 0x0005
	DrawModeTriangleFan   DrawMode = 0x0006
)

// String returns the GL name of the draw mode.
func (m DrawMode) String() string {
	switch m {
	case DrawModePoints:
		return "POINTS"
	case DrawModeLines:
		return "LINES"
	case DrawModeLineLoop:
		return "LINE_LOOP"
	case DrawModeLineStrip:
		return "LINE_STRIP"
	case DrawModeTriangles:
		return "TRIANGLES"
	case DrawModeTriangleStrip:
		return "TRIANGLE_STRIP"
	case DrawModeTriangleFan:
		return "TRIANGLE_FAN"
	default:
		return "UNKNOWN_DRAW_MODE"
	}
}

// IsTriangleBased reports whether the mode rasterizes filled triangles.
func (m DrawMode) IsTriangleBased() bool {
	return m == DrawModeTriangles || m == DrawModeTriangleStrip || m == DrawModeTriangleFan
}

// ComponentType is the scalar type of vertex, index, or pixel data.
type ComponentType uint32

const (
	ComponentTypeByte          ComponentType = 0x1400
	ComponentTypeUnsignedByte  ComponentType = 0x1401
	ComponentTypeShort         ComponentType = 0x1402
	ComponentTypeUnsignedShort ComponentType = 0x1403
	ComponentTypeInt           ComponentType = 0x1404
	ComponentTypeUnsignedInt   ComponentType = 0x1405
	ComponentTypeFloat         ComponentType = 0x1406
)

// Size returns the byte size of one component, or 0 for unknown types.
func (c ComponentType) Size() int {
	switch c {
	case ComponentTypeByte, ComponentTypeUnsignedByte:
		return 1
	case ComponentTypeShort, ComponentTypeUnsignedShort:
		return 2
	case ComponentTypeInt, ComponentTypeUnsignedInt, ComponentTypeFloat:
		return 4
	default:
		return 0
	}
}

// BufferTarget is the binding point for a GPU buffer.
type BufferTarget uint32

const (
	BufferTargetArray        BufferTarget = 0x8892
	BufferTargetElementArray BufferTarget = 0x8893
)

// BufferUsage is the data store usage hint.
type BufferUsage uint32

const (
	BufferUsageStaticDraw  BufferUsage = 0x88E4
	BufferUsageDynamicDraw BufferUsage = 0x88E8
)

// ShaderType identifies a shader stage.
type ShaderType uint32

const (
	ShaderTypeFragment ShaderType = 0x8B30
	ShaderTypeVertex   ShaderType = 0x8B31
)

// String returns the lower-case stage name.
func (s ShaderType) String() string {
	switch s {
	case ShaderTypeVertex:
		return "vertex"
	case ShaderTypeFragment:
		return "fragment"
	default:
		return "unknown"
	}
}

// UniformType is the GLSL type of an active uniform as reported by the driver.
type UniformType uint32

const (
	UniformTypeInt         UniformType = 0x1404
	UniformTypeUnsignedInt UniformType = 0x1405
	UniformTypeFloat       UniformType = 0x1406
	UniformTypeFloatVec2   UniformType = 0x8B50
	UniformTypeFloatVec3   UniformType = 0x8B51
	UniformTypeFloatVec4   UniformType = 0x8B52
	UniformTypeBool        UniformType = 0x8B56
	UniformTypeFloatMat2   UniformType = 0x8B5A
	UniformTypeFloatMat3   UniformType = 0x8B5B
	UniformTypeFloatMat4   UniformType = 0x8B5C
	UniformTypeSampler2D   UniformType = 0x8B5E
)

// String returns the GLSL spelling of the type.
func (u UniformType) String() string {
	switch u {
	case UniformTypeInt:
		return "int"
	case UniformTypeUnsignedInt:
		return "uint"
	case UniformTypeFloat:
		return "float"
	case UniformTypeFloatVec2:
		return "vec2"
	case UniformTypeFloatVec3:
		return "vec3"
	case UniformTypeFloatVec4:
		return "vec4"
	case UniformTypeBool:
		return "bool"
	case UniformTypeFloatMat2:
		return "mat2"
	case UniformTypeFloatMat3:
		return "mat3"
	case UniformTypeFloatMat4:
		return "mat4"
	case UniformTypeSampler2D:
		return "sampler2D"
	default:
		return "unknown"
	}
}

// Capability is a server-side GL capability toggled with Enable/Disable.
type Capability uint32

const (
	CapabilityCullFace         Capability = 0x0B44
	CapabilityDepthTest        Capability = 0x0B71
	CapabilityBlend            Capability = 0x0BE2
	CapabilityProgramPointSize Capability = 0x8642
)

// ClearMask selects which buffers Clear resets.
type ClearMask uint32

const (
	ClearDepth ClearMask = 0x00000100
	ClearColor ClearMask = 0x00004000

	// ClearAll clears both color and depth.
	ClearAll = ClearColor | ClearDepth
)

// BlendFactor is a blend equation source or destination factor.
type BlendFactor uint32

const (
	BlendZero             BlendFactor = 0
	BlendOne              BlendFactor = 1
	BlendSrcAlpha         BlendFactor = 0x0302
	BlendOneMinusSrcAlpha BlendFactor = 0x0303
)

// TextureParameter is a texture sampling parameter name.
type TextureParameter uint32

const (
	TextureParamMagFilter TextureParameter = 0x2800
	TextureParamMinFilter TextureParameter = 0x2801
	TextureParamWrapS     TextureParameter = 0x2802
	TextureParamWrapT     TextureParameter = 0x2803
)

// Texture filter and wrap values used with TexParameter.
const (
	FilterNearest              int32 = 0x2600
	FilterLinear               int32 = 0x2601
	FilterNearestMipmapNearest int32 = 0x2700
	FilterLinearMipmapNearest  int32 = 0x2701
	FilterNearestMipmapLinear  int32 = 0x2702
	FilterLinearMipmapLinear   int32 = 0x2703

	WrapRepeat         int32 = 0x2901
	WrapClampToEdge    int32 = 0x812F
	WrapMirroredRepeat int32 = 0x8370
)

// TextureFormat is an internal or client pixel format.
type TextureFormat uint32

const (
	TextureFormatDepthComponent   TextureFormat = 0x1902
	TextureFormatRGBA             TextureFormat = 0x1908
	TextureFormatRGBA8            TextureFormat = 0x8058
	TextureFormatDepthComponent16 TextureFormat = 0x81A5
	TextureFormatDepthComponent24 TextureFormat = 0x81A6
)

// FramebufferStatus is the completeness status of the bound framebuffer.
type FramebufferStatus uint32

const (
	FramebufferComplete                    FramebufferStatus = 0x8CD5
	FramebufferIncompleteAttachment        FramebufferStatus = 0x8CD6
	FramebufferIncompleteMissingAttachment FramebufferStatus = 0x8CD7
	FramebufferUnsupported                 FramebufferStatus = 0x8CDD
)

// String returns the GL enum name of the status.
func (s FramebufferStatus) String() string {
	switch s {
	case FramebufferComplete:
		return "FRAMEBUFFER_COMPLETE"
	case FramebufferIncompleteAttachment:
		return "FRAMEBUFFER_INCOMPLETE_ATTACHMENT"
	case FramebufferIncompleteMissingAttachment:
		return "FRAMEBUFFER_INCOMPLETE_MISSING_ATTACHMENT"
	case FramebufferUnsupported:
		return "FRAMEBUFFER_UNSUPPORTED"
	default:
		return "UNKNOWN_FRAMEBUFFER_STATUS"
	}
}

// ParameterName is a driver string query.
type ParameterName uint32

const (
	ParameterVendor                 ParameterName = 0x1F00
	ParameterRenderer               ParameterName = 0x1F01
	ParameterVersion                ParameterName = 0x1F02
	ParameterShadingLanguageVersion ParameterName = 0x8B8C
)
