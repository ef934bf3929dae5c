package material

import (
	"sort"
	"strings"

	"github.com/Carmen-Shannon/oxy-gl/engine/device"
	"github.com/Carmen-Shannon/oxy-gl/engine/errs"
	"github.com/Carmen-Shannon/oxy-gl/engine/logger"
	"go.uber.org/zap"
)

// Uniform is an active uniform slot of a linked program.
type Uniform struct {
	Name     string
	Location device.UniformLocation
	Type     device.UniformType
	Size     int32
}

// Program is a linked GPU program together with its active uniform and attribute tables.
type Program struct {
	handle     device.Program
	uniforms   map[string]Uniform
	attributes map[string]uint32
}

// Compile compiles a vertex and fragment shader pair and links them into a Program.
// Every object that failed is deleted before the error is returned, and the shader objects
// are deleted after a successful link.
//
// Parameters:
//   - dev: the device to compile on
//   - vertexSource: GLSL vertex stage source, already pre-processed
//   - fragmentSource: GLSL fragment stage source, already pre-processed
//
// Returns:
//   - *Program: the linked program
//   - error: ShaderCompile or ShaderLink carrying the driver log, or ResourceCreation
func Compile(dev device.Device, vertexSource, fragmentSource string) (*Program, error) {
	vs, err := compileShader(dev, device.ShaderTypeVertex, vertexSource)
	if err != nil {
		return nil, err
	}
	fs, err := compileShader(dev, device.ShaderTypeFragment, fragmentSource)
	if err != nil {
		dev.DeleteShader(vs)
		return nil, err
	}

	handle, err := dev.CreateProgram()
	if err != nil {
		dev.DeleteShader(vs)
		dev.DeleteShader(fs)
		return nil, errs.Wrap(errs.KindResourceCreation, "create program", err)
	}
	dev.AttachShader(handle, vs)
	dev.AttachShader(handle, fs)
	ok := dev.LinkProgram(handle)
	dev.DeleteShader(vs)
	dev.DeleteShader(fs)
	if !ok {
		log := dev.ProgramInfoLog(handle)
		dev.DeleteProgram(handle)
		logger.Named("material").Error("program link failed", zap.String("log", log))
		return nil, errs.New(errs.KindShaderLink, "link program", log)
	}

	p := &Program{
		handle:     handle,
		uniforms:   make(map[string]Uniform),
		attributes: make(map[string]uint32),
	}
	for _, info := range dev.ActiveUniforms(handle) {
		u := Uniform{Name: info.Name, Location: device.UniformLocation(info.Location), Type: info.Type, Size: info.Size}
		p.uniforms[info.Name] = u
		// Arrays are reported as "name[0]"; the bare name addresses the first element too.
		if base, found := strings.CutSuffix(info.Name, "[0]"); found {
			if _, exists := p.uniforms[base]; !exists {
				p.uniforms[base] = u
			}
		}
	}
	for _, info := range dev.ActiveAttributes(handle) {
		if info.Location >= 0 {
			p.attributes[info.Name] = uint32(info.Location)
		}
	}
	logger.Named("material").Debug("program linked",
		zap.Uint32("program", uint32(handle)),
		zap.Int("uniforms", len(p.uniforms)),
		zap.Int("attributes", len(p.attributes)))
	return p, nil
}

func compileShader(dev device.Device, shaderType device.ShaderType, source string) (device.Shader, error) {
	s, err := dev.CreateShader(shaderType)
	if err != nil {
		return 0, errs.Wrap(errs.KindResourceCreation, "create "+shaderType.String()+" shader", err)
	}
	dev.ShaderSource(s, source)
	if !dev.CompileShader(s) {
		log := dev.ShaderInfoLog(s)
		dev.DeleteShader(s)
		logger.Named("material").Error("shader compile failed", zap.Stringer("stage", shaderType), zap.String("log", log))
		return 0, errs.New(errs.KindShaderCompile, "compile "+shaderType.String()+" shader", log)
	}
	return s, nil
}

// Handle returns the GPU program name.
func (p *Program) Handle() device.Program {
	return p.handle
}

// Use makes the program current.
func (p *Program) Use(dev device.Device) {
	dev.UseProgram(p.handle)
}

// Release deletes the GPU program.
func (p *Program) Release(dev device.Device) {
	if p.handle != 0 {
		dev.DeleteProgram(p.handle)
		p.handle = 0
	}
}

// Uniform looks up an active uniform by its fully qualified name.
//
// Parameters:
//   - name: the uniform name, e.g. "light0.color"
//
// Returns:
//   - Uniform: the active uniform
//   - bool: false if the program has no such uniform
func (p *Program) Uniform(name string) (Uniform, bool) {
	u, ok := p.uniforms[name]
	return u, ok
}

// UniformLocation returns the location of an active uniform.
//
// Parameters:
//   - name: the uniform name
//
// Returns:
//   - device.UniformLocation: the location
//   - bool: false if the program has no such uniform
func (p *Program) UniformLocation(name string) (device.UniformLocation, bool) {
	u, ok := p.uniforms[name]
	return u.Location, ok
}

// AttributeLocation returns the location of an active vertex attribute.
//
// Parameters:
//   - name: the attribute name, e.g. "a_position"
//
// Returns:
//   - uint32: the attribute location
//   - bool: false if the program has no such attribute
func (p *Program) AttributeLocation(name string) (uint32, bool) {
	loc, ok := p.attributes[name]
	return loc, ok
}

// HasUniform reports whether the program declares name, either exactly or as a struct
// or array whose members are active ("light0" matches "light0.color").
//
// Parameters:
//   - name: the uniform, struct or array name
//
// Returns:
//   - bool: true if the name is declared
func (p *Program) HasUniform(name string) bool {
	if _, ok := p.uniforms[name]; ok {
		return true
	}
	for n := range p.uniforms {
		if strings.HasPrefix(n, name) && len(n) > len(name) && (n[len(name)] == '.' || n[len(name)] == '[') {
			return true
		}
	}
	return false
}

// Uniforms returns the active uniforms sorted by name.
func (p *Program) Uniforms() []Uniform {
	out := make([]Uniform, 0, len(p.uniforms))
	for _, u := range p.uniforms {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// UpdateUniform uploads value to the named uniform of this program, which must be in use.
// Struct values expand to one upload per "name.member". A declared and supplied type that
// disagree is reported through level and the value is still uploaded. A name the program
// does not declare is reported through level and nothing is uploaded.
//
// Parameters:
//   - dev: the device to upload on
//   - name: the uniform name
//   - value: the value to upload
//   - level: how mismatches are reported
//
// Returns:
//   - bool: true if at least one upload happened
func (p *Program) UpdateUniform(dev device.Device, name string, value Value, level Level) bool {
	if s, ok := value.(Struct); ok {
		uploaded := false
		for _, member := range s.Members() {
			if p.UpdateUniform(dev, name+"."+member, s[member], level) {
				uploaded = true
			}
		}
		return uploaded
	}
	u, ok := p.uniforms[name]
	if !ok {
		level.Report(errs.Newf(errs.KindUniformBindingMismatch, "update uniform", "uniform %q not found", name))
		return false
	}
	if u.Type != value.Type() {
		level.Report(errs.Newf(errs.KindUniformBindingMismatch, "update uniform",
			"incompatible types of uniform value %q: uniform type = %s, value type = %s", name, u.Type, value.Type()))
	}
	value.Upload(dev, u.Location)
	return true
}
