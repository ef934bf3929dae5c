// Package device defines the GPU context contract the renderer is built on.
//
// Device is a thin, GL-shaped surface: it compiles and links programs, enumerates their
// active uniforms and attributes, allocates buffers, textures, framebuffers and vertex
// arrays, toggles fixed-function state, and issues draw calls. The renderer never talks
// to a graphics API directly; it only consumes this interface. Two implementations ship
// with the engine: gldevice (OpenGL 4.1 core via go-gl) and devicetest (a call-counting
// fake used by tests).
package device

// Shader is an opaque shader object name.
type Shader uint32

// Program is an opaque linked program name.
type Program uint32

// Buffer is an opaque GPU buffer name.
type Buffer uint32

// Texture is an opaque texture name.
type Texture uint32

// Framebuffer is an opaque framebuffer name. The zero value is the default framebuffer.
type Framebuffer uint32

// Renderbuffer is an opaque renderbuffer name.
type Renderbuffer uint32

// VertexArray is an opaque vertex array object name.
type VertexArray uint32

// UniformLocation is a program uniform slot. Negative values mean "not present".
type UniformLocation int32

// DefaultFramebuffer is the window-system framebuffer.
const DefaultFramebuffer Framebuffer = 0

// ActiveInfo describes an active uniform or vertex attribute reported by a linked program.
type ActiveInfo struct {
	// Name is the fully qualified GLSL name (struct members appear as "light0.color").
	Name string

	// Type is the GLSL type of the variable.
	Type UniformType

	// Size is the array length (1 for non-arrays).
	Size int32

	// Location is the uniform location or attribute index.
	Location int32
}

// Device is the opaque GPU context consumed by the engine.
// All creation methods are fallible; the returned error carries a driver-provided message.
// State and draw methods are assumed infallible, matching the GL call surface.
type Device interface {
	// Parameter returns a driver string such as the vendor or GLSL version.
	//
	// Parameters:
	//   - name: the parameter to query
	//
	// Returns:
	//   - string: the driver-provided value
	Parameter(name ParameterName) string

	// DrawingBufferSize returns the size in pixels of the default framebuffer.
	//
	// Returns:
	//   - width, height: the default framebuffer resolution
	DrawingBufferSize() (width, height int)

	Enable(capability Capability)
	Disable(capability Capability)
	BlendFunc(src, dst BlendFactor)
	LineWidth(width float32)
	ClearColor(r, g, b, a float32)
	Clear(mask ClearMask)
	Viewport(x, y, width, height int32)

	// CreateShader allocates a shader object of the given stage.
	//
	// Parameters:
	//   - shaderType: the pipeline stage
	//
	// Returns:
	//   - Shader: the new shader name
	//   - error: error if allocation fails
	CreateShader(shaderType ShaderType) (Shader, error)
	ShaderSource(shader Shader, source string)

	// CompileShader compiles the shader's source and reports success.
	// On failure ShaderInfoLog returns the driver diagnostic.
	CompileShader(shader Shader) bool
	ShaderInfoLog(shader Shader) string
	DeleteShader(shader Shader)

	// CreateProgram allocates a program object.
	//
	// Returns:
	//   - Program: the new program name
	//   - error: error if allocation fails
	CreateProgram() (Program, error)
	AttachShader(program Program, shader Shader)

	// LinkProgram links the attached shaders and reports success.
	// On failure ProgramInfoLog returns the driver diagnostic.
	LinkProgram(program Program) bool
	ProgramInfoLog(program Program) string
	DeleteProgram(program Program)
	UseProgram(program Program)

	// ActiveUniforms enumerates the uniforms a linked program actually uses.
	// Struct members are reported individually ("shadow0.bias").
	ActiveUniforms(program Program) []ActiveInfo

	// ActiveAttributes enumerates the vertex attributes a linked program actually uses.
	ActiveAttributes(program Program) []ActiveInfo

	Uniform1i(location UniformLocation, v int32)
	Uniform1f(location UniformLocation, v float32)
	Uniform2f(location UniformLocation, x, y float32)
	Uniform3f(location UniformLocation, x, y, z float32)
	Uniform4f(location UniformLocation, x, y, z, w float32)
	UniformMatrix3fv(location UniformLocation, m [9]float32)
	UniformMatrix4fv(location UniformLocation, m [16]float32)

	// CreateBuffer allocates a GPU buffer.
	//
	// Returns:
	//   - Buffer: the new buffer name
	//   - error: error if allocation fails
	CreateBuffer() (Buffer, error)
	BindBuffer(target BufferTarget, buffer Buffer)
	BufferData(target BufferTarget, data []byte, usage BufferUsage)
	DeleteBuffer(buffer Buffer)

	// CreateVertexArray allocates a vertex array object.
	//
	// Returns:
	//   - VertexArray: the new vertex array name
	//   - error: error if allocation fails
	CreateVertexArray() (VertexArray, error)
	BindVertexArray(vao VertexArray)
	DeleteVertexArray(vao VertexArray)
	EnableVertexAttribArray(index uint32)
	VertexAttribPointer(index uint32, size int32, componentType ComponentType, normalized bool, stride int32, offset int)

	// CreateTexture allocates a 2D texture object.
	//
	// Returns:
	//   - Texture: the new texture name
	//   - error: error if allocation fails
	CreateTexture() (Texture, error)
	ActiveTexture(unit uint32)
	BindTexture(texture Texture)
	TexImage2D(internalFormat TextureFormat, width, height int32, format TextureFormat, componentType ComponentType, pixels []byte)
	TexParameteri(param TextureParameter, value int32)
	GenerateMipmap()
	DeleteTexture(texture Texture)

	// CreateFramebuffer allocates a framebuffer object.
	//
	// Returns:
	//   - Framebuffer: the new framebuffer name
	//   - error: error if allocation fails
	CreateFramebuffer() (Framebuffer, error)
	BindFramebuffer(framebuffer Framebuffer)
	FramebufferTexture2D(texture Texture)
	FramebufferRenderbuffer(renderbuffer Renderbuffer)
	CheckFramebufferStatus() FramebufferStatus
	DeleteFramebuffer(framebuffer Framebuffer)

	// CreateRenderbuffer allocates a renderbuffer object.
	//
	// Returns:
	//   - Renderbuffer: the new renderbuffer name
	//   - error: error if allocation fails
	CreateRenderbuffer() (Renderbuffer, error)
	BindRenderbuffer(renderbuffer Renderbuffer)
	RenderbufferStorage(format TextureFormat, width, height int32)
	DeleteRenderbuffer(renderbuffer Renderbuffer)

	DrawArrays(mode DrawMode, first, count int32)
	DrawElements(mode DrawMode, count int32, componentType ComponentType, offset int)
}
