// Package devicetest provides a call-counting fake device.Device for tests.
//
// The fake keeps enough state to behave like a GL context from the engine's point of
// view: shader sources are scanned for uniform and attribute declarations so a linked
// program reports a realistic active-uniform table, bound framebuffers and programs are
// tracked, and every clear, viewport, uniform upload and draw is recorded for assertions.
package devicetest

import (
	"fmt"
	"sort"

	"github.com/Carmen-Shannon/oxy-gl/engine/device"
)

// DrawCall records a single DrawArrays or DrawElements invocation.
type DrawCall struct {
	Mode        device.DrawMode
	Count       int32
	Indexed     bool
	IndexType   device.ComponentType
	// Offset is the byte offset into the element array buffer for indexed draws.
	Offset      int
	Program     device.Program
	Framebuffer device.Framebuffer
	VertexArray device.VertexArray
}

// ClearCall records a Clear invocation together with the clear color in effect.
type ClearCall struct {
	Mask        device.ClearMask
	Color       [4]float32
	Framebuffer device.Framebuffer
}

// UniformUpload records a uniform value pushed to a program.
type UniformUpload struct {
	Program  device.Program
	Location device.UniformLocation
	Name     string
	Value    any
}

type fakeShader struct {
	shaderType device.ShaderType
	source     string
}

type fakeProgram struct {
	shaders    []device.Shader
	linked     bool
	uniforms   []device.ActiveInfo
	attributes []device.ActiveInfo
	byLocation map[device.UniformLocation]string
}

// FakeDevice is an in-memory device.Device that counts calls.
type FakeDevice struct {
	width, height int

	compileFailures map[device.ShaderType]string
	linkFailure     string
	createFailures  map[string]error
	fbStatus        device.FramebufferStatus
	parameters      map[device.ParameterName]string

	calls   map[string]int
	callLog []string
	nextID  uint32

	shaders  map[device.Shader]*fakeShader
	programs map[device.Program]*fakeProgram

	// Buffers holds the uploaded data store of each buffer.
	Buffers map[device.Buffer][]byte

	// Textures maps each texture to its uploaded size.
	Textures map[device.Texture][2]int32

	// FramebufferAttachments maps each framebuffer to its color texture.
	FramebufferAttachments map[device.Framebuffer]device.Texture

	boundBuffers     map[device.BufferTarget]device.Buffer
	boundFramebuffer device.Framebuffer
	boundVAO         device.VertexArray
	boundTextures    map[uint32]device.Texture
	activeUnit       uint32
	currentProgram   device.Program
	clearColor       [4]float32

	// Enabled holds the current state of each capability.
	Enabled map[device.Capability]bool

	// Blend holds the last BlendFunc factors.
	Blend [2]device.BlendFactor

	// LineWidths records every LineWidth call.
	LineWidths []float32

	// Draws records draw calls in order.
	Draws []DrawCall

	// Clears records clear calls in order.
	Clears []ClearCall

	// Viewports records viewport calls in order as x, y, width, height.
	Viewports [][4]int32

	// Uploads records uniform uploads in order.
	Uploads []UniformUpload

	// TextureBindings records (unit, texture) pairs as they are bound.
	TextureBindings [][2]uint32

	// FramebufferBindings records framebuffer binds in order.
	FramebufferBindings []device.Framebuffer
}

var _ device.Device = &FakeDevice{}

// NewFakeDevice creates a FakeDevice with an 800x600 default framebuffer.
//
// Parameters:
//   - options: functional options to script failures and resolution
//
// Returns:
//   - *FakeDevice: the new fake
func NewFakeDevice(options ...FakeDeviceOption) *FakeDevice {
	d := &FakeDevice{
		width:                  800,
		height:                 600,
		compileFailures:        make(map[device.ShaderType]string),
		createFailures:         make(map[string]error),
		fbStatus:               device.FramebufferComplete,
		parameters:             map[device.ParameterName]string{device.ParameterVendor: "fake", device.ParameterRenderer: "fake", device.ParameterVersion: "4.1 fake", device.ParameterShadingLanguageVersion: "4.10"},
		calls:                  make(map[string]int),
		shaders:                make(map[device.Shader]*fakeShader),
		programs:               make(map[device.Program]*fakeProgram),
		Buffers:                make(map[device.Buffer][]byte),
		Textures:               make(map[device.Texture][2]int32),
		FramebufferAttachments: make(map[device.Framebuffer]device.Texture),
		boundBuffers:           make(map[device.BufferTarget]device.Buffer),
		boundTextures:          make(map[uint32]device.Texture),
		Enabled:                make(map[device.Capability]bool),
	}
	for _, opt := range options {
		opt(d)
	}
	return d
}

// Calls returns how many times the named method was invoked.
//
// Parameters:
//   - method: the Device method name (e.g. "CreateBuffer")
//
// Returns:
//   - int: the call count
func (d *FakeDevice) Calls(method string) int {
	return d.calls[method]
}

// TotalCalls returns the number of Device method invocations of any kind.
func (d *FakeDevice) TotalCalls() int {
	return len(d.callLog)
}

// CallLog returns the method names in invocation order.
func (d *FakeDevice) CallLog() []string {
	out := make([]string, len(d.callLog))
	copy(out, d.callLog)
	return out
}

// Reset clears all counters and recorded calls while keeping allocated objects.
func (d *FakeDevice) Reset() {
	d.calls = make(map[string]int)
	d.callLog = nil
	d.Draws = nil
	d.Clears = nil
	d.Viewports = nil
	d.Uploads = nil
	d.LineWidths = nil
	d.TextureBindings = nil
	d.FramebufferBindings = nil
}

// LastUpload returns the most recent value uploaded to the named uniform of a program.
//
// Parameters:
//   - program: the program the value was uploaded to
//   - name: the fully qualified uniform name
//
// Returns:
//   - any: the uploaded value
//   - bool: false if no upload was recorded
func (d *FakeDevice) LastUpload(program device.Program, name string) (any, bool) {
	for i := len(d.Uploads) - 1; i >= 0; i-- {
		u := d.Uploads[i]
		if u.Program == program && u.Name == name {
			return u.Value, true
		}
	}
	return nil, false
}

// UploadedNames returns the distinct uniform names uploaded to a program, sorted.
func (d *FakeDevice) UploadedNames(program device.Program) []string {
	seen := make(map[string]bool)
	var out []string
	for _, u := range d.Uploads {
		if u.Program == program && !seen[u.Name] {
			seen[u.Name] = true
			out = append(out, u.Name)
		}
	}
	sort.Strings(out)
	return out
}

// SourceOf returns the source attached to a shader, for assertions on preprocessed GLSL.
func (d *FakeDevice) SourceOf(shader device.Shader) string {
	if s, ok := d.shaders[shader]; ok {
		return s.source
	}
	return ""
}

// CurrentProgram returns the program last passed to UseProgram.
func (d *FakeDevice) CurrentProgram() device.Program {
	return d.currentProgram
}

// BoundFramebuffer returns the currently bound framebuffer.
func (d *FakeDevice) BoundFramebuffer() device.Framebuffer {
	return d.boundFramebuffer
}

// LiveShaders returns the number of shader objects not yet deleted.
func (d *FakeDevice) LiveShaders() int {
	return len(d.shaders)
}

// LivePrograms returns the number of program objects not yet deleted.
func (d *FakeDevice) LivePrograms() int {
	return len(d.programs)
}

// FailCreate makes every later call of the named allocation method return err.
//
// Parameters:
//   - method: the Device method name (e.g. "CreateVertexArray")
//   - err: the error to return
func (d *FakeDevice) FailCreate(method string, err error) {
	if d.createFailures == nil {
		d.createFailures = make(map[string]error)
	}
	d.createFailures[method] = err
}

func (d *FakeDevice) record(method string) {
	d.calls[method]++
	d.callLog = append(d.callLog, method)
}

func (d *FakeDevice) allocate(method string) (uint32, error) {
	d.record(method)
	if err, ok := d.createFailures[method]; ok {
		return 0, err
	}
	d.nextID++
	return d.nextID, nil
}

func (d *FakeDevice) Parameter(name device.ParameterName) string {
	d.record("Parameter")
	return d.parameters[name]
}

func (d *FakeDevice) DrawingBufferSize() (int, int) {
	d.record("DrawingBufferSize")
	return d.width, d.height
}

func (d *FakeDevice) Enable(capability device.Capability) {
	d.record("Enable")
	d.Enabled[capability] = true
}

func (d *FakeDevice) Disable(capability device.Capability) {
	d.record("Disable")
	d.Enabled[capability] = false
}

func (d *FakeDevice) BlendFunc(src, dst device.BlendFactor) {
	d.record("BlendFunc")
	d.Blend = [2]device.BlendFactor{src, dst}
}

func (d *FakeDevice) LineWidth(width float32) {
	d.record("LineWidth")
	d.LineWidths = append(d.LineWidths, width)
}

func (d *FakeDevice) ClearColor(r, g, b, a float32) {
	d.record("ClearColor")
	d.clearColor = [4]float32{r, g, b, a}
}

func (d *FakeDevice) Clear(mask device.ClearMask) {
	d.record("Clear")
	d.Clears = append(d.Clears, ClearCall{Mask: mask, Color: d.clearColor, Framebuffer: d.boundFramebuffer})
}

func (d *FakeDevice) Viewport(x, y, width, height int32) {
	d.record("Viewport")
	d.Viewports = append(d.Viewports, [4]int32{x, y, width, height})
}

func (d *FakeDevice) CreateShader(shaderType device.ShaderType) (device.Shader, error) {
	id, err := d.allocate("CreateShader")
	if err != nil {
		return 0, err
	}
	s := device.Shader(id)
	d.shaders[s] = &fakeShader{shaderType: shaderType}
	return s, nil
}

func (d *FakeDevice) ShaderSource(shader device.Shader, source string) {
	d.record("ShaderSource")
	if s, ok := d.shaders[shader]; ok {
		s.source = source
	}
}

func (d *FakeDevice) CompileShader(shader device.Shader) bool {
	d.record("CompileShader")
	s, ok := d.shaders[shader]
	if !ok {
		return false
	}
	_, fail := d.compileFailures[s.shaderType]
	return !fail
}

func (d *FakeDevice) ShaderInfoLog(shader device.Shader) string {
	d.record("ShaderInfoLog")
	if s, ok := d.shaders[shader]; ok {
		return d.compileFailures[s.shaderType]
	}
	return ""
}

func (d *FakeDevice) DeleteShader(shader device.Shader) {
	d.record("DeleteShader")
	delete(d.shaders, shader)
}

func (d *FakeDevice) CreateProgram() (device.Program, error) {
	id, err := d.allocate("CreateProgram")
	if err != nil {
		return 0, err
	}
	p := device.Program(id)
	d.programs[p] = &fakeProgram{byLocation: make(map[device.UniformLocation]string)}
	return p, nil
}

func (d *FakeDevice) AttachShader(program device.Program, shader device.Shader) {
	d.record("AttachShader")
	if p, ok := d.programs[program]; ok {
		p.shaders = append(p.shaders, shader)
	}
}

func (d *FakeDevice) LinkProgram(program device.Program) bool {
	d.record("LinkProgram")
	p, ok := d.programs[program]
	if !ok || d.linkFailure != "" {
		return false
	}
	var vertex, fragment string
	for _, sh := range p.shaders {
		s, ok := d.shaders[sh]
		if !ok {
			continue
		}
		switch s.shaderType {
		case device.ShaderTypeVertex:
			vertex = s.source
		case device.ShaderTypeFragment:
			fragment = s.source
		}
	}
	p.uniforms = scanUniforms(vertex, fragment)
	for i := range p.uniforms {
		p.uniforms[i].Location = int32(i)
		p.byLocation[device.UniformLocation(i)] = p.uniforms[i].Name
	}
	p.attributes = scanAttributes(vertex)
	for i := range p.attributes {
		p.attributes[i].Location = int32(i)
	}
	p.linked = true
	return true
}

func (d *FakeDevice) ProgramInfoLog(program device.Program) string {
	d.record("ProgramInfoLog")
	return d.linkFailure
}

func (d *FakeDevice) DeleteProgram(program device.Program) {
	d.record("DeleteProgram")
	delete(d.programs, program)
}

func (d *FakeDevice) UseProgram(program device.Program) {
	d.record("UseProgram")
	d.currentProgram = program
}

func (d *FakeDevice) ActiveUniforms(program device.Program) []device.ActiveInfo {
	d.record("ActiveUniforms")
	if p, ok := d.programs[program]; ok {
		return append([]device.ActiveInfo(nil), p.uniforms...)
	}
	return nil
}

func (d *FakeDevice) ActiveAttributes(program device.Program) []device.ActiveInfo {
	d.record("ActiveAttributes")
	if p, ok := d.programs[program]; ok {
		return append([]device.ActiveInfo(nil), p.attributes...)
	}
	return nil
}

func (d *FakeDevice) upload(method string, location device.UniformLocation, value any) {
	d.record(method)
	name := fmt.Sprintf("location(%d)", location)
	if p, ok := d.programs[d.currentProgram]; ok {
		if n, ok := p.byLocation[location]; ok {
			name = n
		}
	}
	d.Uploads = append(d.Uploads, UniformUpload{Program: d.currentProgram, Location: location, Name: name, Value: value})
}

func (d *FakeDevice) Uniform1i(location device.UniformLocation, v int32) {
	d.upload("Uniform1i", location, v)
}

func (d *FakeDevice) Uniform1f(location device.UniformLocation, v float32) {
	d.upload("Uniform1f", location, v)
}

func (d *FakeDevice) Uniform2f(location device.UniformLocation, x, y float32) {
	d.upload("Uniform2f", location, [2]float32{x, y})
}

func (d *FakeDevice) Uniform3f(location device.UniformLocation, x, y, z float32) {
	d.upload("Uniform3f", location, [3]float32{x, y, z})
}

func (d *FakeDevice) Uniform4f(location device.UniformLocation, x, y, z, w float32) {
	d.upload("Uniform4f", location, [4]float32{x, y, z, w})
}

func (d *FakeDevice) UniformMatrix3fv(location device.UniformLocation, m [9]float32) {
	d.upload("UniformMatrix3fv", location, m)
}

func (d *FakeDevice) UniformMatrix4fv(location device.UniformLocation, m [16]float32) {
	d.upload("UniformMatrix4fv", location, m)
}

func (d *FakeDevice) CreateBuffer() (device.Buffer, error) {
	id, err := d.allocate("CreateBuffer")
	if err != nil {
		return 0, err
	}
	b := device.Buffer(id)
	d.Buffers[b] = nil
	return b, nil
}

func (d *FakeDevice) BindBuffer(target device.BufferTarget, buffer device.Buffer) {
	d.record("BindBuffer")
	d.boundBuffers[target] = buffer
}

func (d *FakeDevice) BufferData(target device.BufferTarget, data []byte, usage device.BufferUsage) {
	d.record("BufferData")
	if b, ok := d.boundBuffers[target]; ok && b != 0 {
		d.Buffers[b] = append([]byte(nil), data...)
	}
}

func (d *FakeDevice) DeleteBuffer(buffer device.Buffer) {
	d.record("DeleteBuffer")
	delete(d.Buffers, buffer)
}

func (d *FakeDevice) CreateVertexArray() (device.VertexArray, error) {
	id, err := d.allocate("CreateVertexArray")
	if err != nil {
		return 0, err
	}
	return device.VertexArray(id), nil
}

func (d *FakeDevice) BindVertexArray(vao device.VertexArray) {
	d.record("BindVertexArray")
	d.boundVAO = vao
}

func (d *FakeDevice) DeleteVertexArray(vao device.VertexArray) {
	d.record("DeleteVertexArray")
}

func (d *FakeDevice) EnableVertexAttribArray(index uint32) {
	d.record("EnableVertexAttribArray")
}

func (d *FakeDevice) VertexAttribPointer(index uint32, size int32, componentType device.ComponentType, normalized bool, stride int32, offset int) {
	d.record("VertexAttribPointer")
}

func (d *FakeDevice) CreateTexture() (device.Texture, error) {
	id, err := d.allocate("CreateTexture")
	if err != nil {
		return 0, err
	}
	t := device.Texture(id)
	d.Textures[t] = [2]int32{}
	return t, nil
}

func (d *FakeDevice) ActiveTexture(unit uint32) {
	d.record("ActiveTexture")
	d.activeUnit = unit
}

func (d *FakeDevice) BindTexture(texture device.Texture) {
	d.record("BindTexture")
	d.boundTextures[d.activeUnit] = texture
	d.TextureBindings = append(d.TextureBindings, [2]uint32{d.activeUnit, uint32(texture)})
}

// BoundTexture returns the texture bound to a texture unit.
func (d *FakeDevice) BoundTexture(unit uint32) device.Texture {
	return d.boundTextures[unit]
}

func (d *FakeDevice) TexImage2D(internalFormat device.TextureFormat, width, height int32, format device.TextureFormat, componentType device.ComponentType, pixels []byte) {
	d.record("TexImage2D")
	if t, ok := d.boundTextures[d.activeUnit]; ok && t != 0 {
		d.Textures[t] = [2]int32{width, height}
	}
}

func (d *FakeDevice) TexParameteri(param device.TextureParameter, value int32) {
	d.record("TexParameteri")
}

func (d *FakeDevice) GenerateMipmap() {
	d.record("GenerateMipmap")
}

func (d *FakeDevice) DeleteTexture(texture device.Texture) {
	d.record("DeleteTexture")
	delete(d.Textures, texture)
}

func (d *FakeDevice) CreateFramebuffer() (device.Framebuffer, error) {
	id, err := d.allocate("CreateFramebuffer")
	if err != nil {
		return 0, err
	}
	return device.Framebuffer(id), nil
}

func (d *FakeDevice) BindFramebuffer(framebuffer device.Framebuffer) {
	d.record("BindFramebuffer")
	d.boundFramebuffer = framebuffer
	d.FramebufferBindings = append(d.FramebufferBindings, framebuffer)
}

func (d *FakeDevice) FramebufferTexture2D(texture device.Texture) {
	d.record("FramebufferTexture2D")
	d.FramebufferAttachments[d.boundFramebuffer] = texture
}

func (d *FakeDevice) FramebufferRenderbuffer(renderbuffer device.Renderbuffer) {
	d.record("FramebufferRenderbuffer")
}

func (d *FakeDevice) CheckFramebufferStatus() device.FramebufferStatus {
	d.record("CheckFramebufferStatus")
	return d.fbStatus
}

func (d *FakeDevice) DeleteFramebuffer(framebuffer device.Framebuffer) {
	d.record("DeleteFramebuffer")
	delete(d.FramebufferAttachments, framebuffer)
}

func (d *FakeDevice) CreateRenderbuffer() (device.Renderbuffer, error) {
	id, err := d.allocate("CreateRenderbuffer")
	if err != nil {
		return 0, err
	}
	return device.Renderbuffer(id), nil
}

func (d *FakeDevice) BindRenderbuffer(renderbuffer device.Renderbuffer) {
	d.record("BindRenderbuffer")
}

func (d *FakeDevice) RenderbufferStorage(format device.TextureFormat, width, height int32) {
	d.record("RenderbufferStorage")
}

func (d *FakeDevice) DeleteRenderbuffer(renderbuffer device.Renderbuffer) {
	d.record("DeleteRenderbuffer")
}

func (d *FakeDevice) DrawArrays(mode device.DrawMode, first, count int32) {
	d.record("DrawArrays")
	d.Draws = append(d.Draws, DrawCall{Mode: mode, Count: count, Program: d.currentProgram, Framebuffer: d.boundFramebuffer, VertexArray: d.boundVAO})
}

func (d *FakeDevice) DrawElements(mode device.DrawMode, count int32, componentType device.ComponentType, offset int) {
	d.record("DrawElements")
	d.Draws = append(d.Draws, DrawCall{Mode: mode, Count: count, Indexed: true, IndexType: componentType, Offset: offset, Program: d.currentProgram, Framebuffer: d.boundFramebuffer, VertexArray: d.boundVAO})
}
