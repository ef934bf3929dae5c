// Package gldevice implements device.Device on OpenGL 4.1 core through go-gl.
//
// A glDevice must be created and used on the thread that owns the current GL context
// (see window.Window.MakeContextCurrent).
package gldevice

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Carmen-Shannon/oxy-gl/engine/device"
	"github.com/Carmen-Shannon/oxy-gl/engine/logger"
)

// glDevice is the OpenGL implementation of device.Device.
type glDevice struct {
	drawingBufferSize func() (int, int)
}

var _ device.Device = &glDevice{}

// NewDevice initializes the GL function pointers for the current context and logs the driver identity.
//
// Parameters:
//   - options: functional options to configure the device
//
// Returns:
//   - device.Device: the GL device
//   - error: error if the GL bindings fail to initialize
func NewDevice(options ...DeviceBuilderOption) (device.Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL bindings: %w", err)
	}
	d := &glDevice{
		drawingBufferSize: func() (int, int) {
			var vp [4]int32
			gl.GetIntegerv(gl.VIEWPORT, &vp[0])
			return int(vp[2]), int(vp[3])
		},
	}
	for _, opt := range options {
		opt(d)
	}

	logger.Named("device").Info("OpenGL context ready",
		zap.String("vendor", d.Parameter(device.ParameterVendor)),
		zap.String("renderer", d.Parameter(device.ParameterRenderer)),
		zap.String("version", d.Parameter(device.ParameterVersion)),
		zap.String("glsl", d.Parameter(device.ParameterShadingLanguageVersion)),
	)
	return d, nil
}

// pointer returns a pointer to the first byte of data, or nil for empty data.
func pointer(data []byte) unsafe.Pointer {
	if len(data) == 0 {
		return nil
	}
	return gl.Ptr(data)
}

// glError converts the pending GL error flag into an error for creation calls.
func glError(op string) error {
	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("%s: GL error 0x%04X", op, code)
	}
	return nil
}

func (d *glDevice) Parameter(name device.ParameterName) string {
	p := gl.GetString(uint32(name))
	if p == nil {
		return ""
	}
	return gl.GoStr(p)
}

func (d *glDevice) DrawingBufferSize() (int, int) {
	return d.drawingBufferSize()
}

func (d *glDevice) Enable(capability device.Capability) {
	gl.Enable(uint32(capability))
}

func (d *glDevice) Disable(capability device.Capability) {
	gl.Disable(uint32(capability))
}

func (d *glDevice) BlendFunc(src, dst device.BlendFactor) {
	gl.BlendFunc(uint32(src), uint32(dst))
}

func (d *glDevice) LineWidth(width float32) {
	gl.LineWidth(width)
}

func (d *glDevice) ClearColor(r, g, b, a float32) {
	gl.ClearColor(r, g, b, a)
}

func (d *glDevice) Clear(mask device.ClearMask) {
	gl.Clear(uint32(mask))
}

func (d *glDevice) Viewport(x, y, width, height int32) {
	gl.Viewport(x, y, width, height)
}

func (d *glDevice) CreateShader(shaderType device.ShaderType) (device.Shader, error) {
	s := gl.CreateShader(uint32(shaderType))
	if s == 0 {
		return 0, fmt.Errorf("glCreateShader returned 0 for %s shader", shaderType)
	}
	return device.Shader(s), nil
}

func (d *glDevice) ShaderSource(shader device.Shader, source string) {
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(uint32(shader), 1, csources, nil)
	free()
}

func (d *glDevice) CompileShader(shader device.Shader) bool {
	gl.CompileShader(uint32(shader))
	var status int32
	gl.GetShaderiv(uint32(shader), gl.COMPILE_STATUS, &status)
	return status != gl.FALSE
}

func (d *glDevice) ShaderInfoLog(shader device.Shader) string {
	var logLength int32
	gl.GetShaderiv(uint32(shader), gl.INFO_LOG_LENGTH, &logLength)
	if logLength == 0 {
		return ""
	}
	logText := strings.Repeat("\x00", int(logLength+1))
	gl.GetShaderInfoLog(uint32(shader), logLength, nil, gl.Str(logText))
	return strings.TrimRight(logText, "\x00")
}

func (d *glDevice) DeleteShader(shader device.Shader) {
	gl.DeleteShader(uint32(shader))
}

func (d *glDevice) CreateProgram() (device.Program, error) {
	p := gl.CreateProgram()
	if p == 0 {
		return 0, fmt.Errorf("glCreateProgram returned 0")
	}
	return device.Program(p), nil
}

func (d *glDevice) AttachShader(program device.Program, shader device.Shader) {
	gl.AttachShader(uint32(program), uint32(shader))
}

func (d *glDevice) LinkProgram(program device.Program) bool {
	gl.LinkProgram(uint32(program))
	var status int32
	gl.GetProgramiv(uint32(program), gl.LINK_STATUS, &status)
	return status != gl.FALSE
}

func (d *glDevice) ProgramInfoLog(program device.Program) string {
	var logLength int32
	gl.GetProgramiv(uint32(program), gl.INFO_LOG_LENGTH, &logLength)
	if logLength == 0 {
		return ""
	}
	logText := strings.Repeat("\x00", int(logLength+1))
	gl.GetProgramInfoLog(uint32(program), logLength, nil, gl.Str(logText))
	return strings.TrimRight(logText, "\x00")
}

func (d *glDevice) DeleteProgram(program device.Program) {
	gl.DeleteProgram(uint32(program))
}

func (d *glDevice) UseProgram(program device.Program) {
	gl.UseProgram(uint32(program))
}

func (d *glDevice) ActiveUniforms(program device.Program) []device.ActiveInfo {
	var count, maxLength int32
	gl.GetProgramiv(uint32(program), gl.ACTIVE_UNIFORMS, &count)
	gl.GetProgramiv(uint32(program), gl.ACTIVE_UNIFORM_MAX_LENGTH, &maxLength)
	out := make([]device.ActiveInfo, 0, count)
	buf := make([]uint8, maxLength+1)
	for i := range uint32(count) {
		var length, size int32
		var xtype uint32
		gl.GetActiveUniform(uint32(program), i, maxLength+1, &length, &size, &xtype, &buf[0])
		name := string(buf[:length])
		loc := gl.GetUniformLocation(uint32(program), gl.Str(name+"\x00"))
		out = append(out, device.ActiveInfo{Name: name, Type: device.UniformType(xtype), Size: size, Location: loc})
	}
	return out
}

func (d *glDevice) ActiveAttributes(program device.Program) []device.ActiveInfo {
	var count, maxLength int32
	gl.GetProgramiv(uint32(program), gl.ACTIVE_ATTRIBUTES, &count)
	gl.GetProgramiv(uint32(program), gl.ACTIVE_ATTRIBUTE_MAX_LENGTH, &maxLength)
	out := make([]device.ActiveInfo, 0, count)
	buf := make([]uint8, maxLength+1)
	for i := range uint32(count) {
		var length, size int32
		var xtype uint32
		gl.GetActiveAttrib(uint32(program), i, maxLength+1, &length, &size, &xtype, &buf[0])
		name := string(buf[:length])
		loc := gl.GetAttribLocation(uint32(program), gl.Str(name+"\x00"))
		out = append(out, device.ActiveInfo{Name: name, Type: device.UniformType(xtype), Size: size, Location: loc})
	}
	return out
}

func (d *glDevice) Uniform1i(location device.UniformLocation, v int32) {
	gl.Uniform1i(int32(location), v)
}

func (d *glDevice) Uniform1f(location device.UniformLocation, v float32) {
	gl.Uniform1f(int32(location), v)
}

func (d *glDevice) Uniform2f(location device.UniformLocation, x, y float32) {
	gl.Uniform2f(int32(location), x, y)
}

func (d *glDevice) Uniform3f(location device.UniformLocation, x, y, z float32) {
	gl.Uniform3f(int32(location), x, y, z)
}

func (d *glDevice) Uniform4f(location device.UniformLocation, x, y, z, w float32) {
	gl.Uniform4f(int32(location), x, y, z, w)
}

func (d *glDevice) UniformMatrix3fv(location device.UniformLocation, m [9]float32) {
	gl.UniformMatrix3fv(int32(location), 1, false, &m[0])
}

func (d *glDevice) UniformMatrix4fv(location device.UniformLocation, m [16]float32) {
	gl.UniformMatrix4fv(int32(location), 1, false, &m[0])
}

func (d *glDevice) CreateBuffer() (device.Buffer, error) {
	var b uint32
	gl.GenBuffers(1, &b)
	if err := glError("glGenBuffers"); err != nil {
		return 0, err
	}
	return device.Buffer(b), nil
}

func (d *glDevice) BindBuffer(target device.BufferTarget, buffer device.Buffer) {
	gl.BindBuffer(uint32(target), uint32(buffer))
}

func (d *glDevice) BufferData(target device.BufferTarget, data []byte, usage device.BufferUsage) {
	gl.BufferData(uint32(target), len(data), pointer(data), uint32(usage))
}

func (d *glDevice) DeleteBuffer(buffer device.Buffer) {
	b := uint32(buffer)
	gl.DeleteBuffers(1, &b)
}

func (d *glDevice) CreateVertexArray() (device.VertexArray, error) {
	var v uint32
	gl.GenVertexArrays(1, &v)
	if err := glError("glGenVertexArrays"); err != nil {
		return 0, err
	}
	return device.VertexArray(v), nil
}

func (d *glDevice) BindVertexArray(vao device.VertexArray) {
	gl.BindVertexArray(uint32(vao))
}

func (d *glDevice) DeleteVertexArray(vao device.VertexArray) {
	v := uint32(vao)
	gl.DeleteVertexArrays(1, &v)
}

func (d *glDevice) EnableVertexAttribArray(index uint32) {
	gl.EnableVertexAttribArray(index)
}

func (d *glDevice) VertexAttribPointer(index uint32, size int32, componentType device.ComponentType, normalized bool, stride int32, offset int) {
	gl.VertexAttribPointerWithOffset(index, size, uint32(componentType), normalized, stride, uintptr(offset))
}

func (d *glDevice) CreateTexture() (device.Texture, error) {
	var t uint32
	gl.GenTextures(1, &t)
	if err := glError("glGenTextures"); err != nil {
		return 0, err
	}
	return device.Texture(t), nil
}

func (d *glDevice) ActiveTexture(unit uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
}

func (d *glDevice) BindTexture(texture device.Texture) {
	gl.BindTexture(gl.TEXTURE_2D, uint32(texture))
}

func (d *glDevice) TexImage2D(internalFormat device.TextureFormat, width, height int32, format device.TextureFormat, componentType device.ComponentType, pixels []byte) {
	gl.TexImage2D(gl.TEXTURE_2D, 0, int32(internalFormat), width, height, 0, uint32(format), uint32(componentType), pointer(pixels))
}

func (d *glDevice) TexParameteri(param device.TextureParameter, value int32) {
	gl.TexParameteri(gl.TEXTURE_2D, uint32(param), value)
}

func (d *glDevice) GenerateMipmap() {
	gl.GenerateMipmap(gl.TEXTURE_2D)
}

func (d *glDevice) DeleteTexture(texture device.Texture) {
	t := uint32(texture)
	gl.DeleteTextures(1, &t)
}

func (d *glDevice) CreateFramebuffer() (device.Framebuffer, error) {
	var f uint32
	gl.GenFramebuffers(1, &f)
	if err := glError("glGenFramebuffers"); err != nil {
		return 0, err
	}
	return device.Framebuffer(f), nil
}

func (d *glDevice) BindFramebuffer(framebuffer device.Framebuffer) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(framebuffer))
}

func (d *glDevice) FramebufferTexture2D(texture device.Texture) {
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, uint32(texture), 0)
}

func (d *glDevice) FramebufferRenderbuffer(renderbuffer device.Renderbuffer) {
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.RENDERBUFFER, uint32(renderbuffer))
}

func (d *glDevice) CheckFramebufferStatus() device.FramebufferStatus {
	return device.FramebufferStatus(gl.CheckFramebufferStatus(gl.FRAMEBUFFER))
}

func (d *glDevice) DeleteFramebuffer(framebuffer device.Framebuffer) {
	f := uint32(framebuffer)
	gl.DeleteFramebuffers(1, &f)
}

func (d *glDevice) CreateRenderbuffer() (device.Renderbuffer, error) {
	var r uint32
	gl.GenRenderbuffers(1, &r)
	if err := glError("glGenRenderbuffers"); err != nil {
		return 0, err
	}
	return device.Renderbuffer(r), nil
}

func (d *glDevice) BindRenderbuffer(renderbuffer device.Renderbuffer) {
	gl.BindRenderbuffer(gl.RENDERBUFFER, uint32(renderbuffer))
}

func (d *glDevice) RenderbufferStorage(format device.TextureFormat, width, height int32) {
	gl.RenderbufferStorage(gl.RENDERBUFFER, uint32(format), width, height)
}

func (d *glDevice) DeleteRenderbuffer(renderbuffer device.Renderbuffer) {
	r := uint32(renderbuffer)
	gl.DeleteRenderbuffers(1, &r)
}

func (d *glDevice) DrawArrays(mode device.DrawMode, first, count int32) {
	gl.DrawArrays(uint32(mode), first, count)
}

func (d *glDevice) DrawElements(mode device.DrawMode, count int32, componentType device.ComponentType, offset int) {
	gl.DrawElementsWithOffset(uint32(mode), count, uint32(componentType), uintptr(offset))
}
