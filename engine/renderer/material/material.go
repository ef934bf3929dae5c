// Package material compiles GLSL programs, tracks their active uniforms and binds typed
// uniform values and render state before each draw.
//
// A Material pairs a Program with stored uniform values, render settings and a default
// draw mode. The built-in kinds (basic, flat, lambert, phong, depth, sprite, texture and
// full-screen effect) ship their GLSL as embedded sources run through the shader
// pre-processor, so lit kinds declare the same fixed set of light slots the renderer fills.
package material

import (
	"github.com/Carmen-Shannon/oxy-gl/engine/device"
)

// Kind identifies a built-in material variant.
type Kind int

const (
	KindCustom Kind = iota
	KindBasic
	KindFlat
	KindLambert
	KindPhong
	KindDepth
	KindSprite
	KindTexture
	KindEffect
)

func (k Kind) String() string {
	switch k {
	case KindCustom:
		return "custom"
	case KindBasic:
		return "basic"
	case KindFlat:
		return "flat"
	case KindLambert:
		return "lambert"
	case KindPhong:
		return "phong"
	case KindDepth:
		return "depth"
	case KindSprite:
		return "sprite"
	case KindTexture:
		return "texture"
	case KindEffect:
		return "effect"
	default:
		return "unknown"
	}
}

// Blend is a blend function applied while the material is bound.
type Blend struct {
	Src device.BlendFactor
	Dst device.BlendFactor
}

// Settings is the render state a material applies when bound.
type Settings struct {
	// DoubleSided disables back-face culling.
	DoubleSided bool

	// LineWidth is applied when positive.
	LineWidth float32

	// Blend enables blending with the given factors when set.
	Blend *Blend
}

// apply pushes the settings to the device.
func (s Settings) apply(dev device.Device) {
	if s.DoubleSided {
		dev.Disable(device.CapabilityCullFace)
	} else {
		dev.Enable(device.CapabilityCullFace)
	}
	if s.LineWidth > 0 {
		dev.LineWidth(s.LineWidth)
	}
	if s.Blend != nil {
		dev.Enable(device.CapabilityBlend)
		dev.BlendFunc(s.Blend.Src, s.Blend.Dst)
	}
}

// UniformUpdater pushes scene-wide uniforms (time, ambient terms) into a program in use.
type UniformUpdater interface {
	UpdateUniforms(dev device.Device, program *Program)
}

// UniformUpdaterFunc adapts a function to UniformUpdater.
type UniformUpdaterFunc func(dev device.Device, program *Program)

// UpdateUniforms calls f.
func (f UniformUpdaterFunc) UpdateUniforms(dev device.Device, program *Program) {
	f(dev, program)
}

// NoopUpdater is the default global uniform updater.
var NoopUpdater UniformUpdater = UniformUpdaterFunc(func(device.Device, *Program) {})

type namedValue struct {
	name  string
	value Value
}

// materialImpl is the implementation of the Material interface.
type materialImpl struct {
	kind     Kind
	program  *Program
	values   []namedValue
	settings Settings
	drawMode device.DrawMode
	level    Level
}

// Material is a compiled program plus the uniform values and render state it binds.
type Material interface {
	// Kind returns the built-in variant this material was created as.
	//
	// Returns:
	//   - Kind: the material kind
	Kind() Kind

	// Program returns the compiled program.
	//
	// Returns:
	//   - *Program: the program
	Program() *Program

	// DrawMode returns the default primitive topology for meshes using this material.
	//
	// Returns:
	//   - device.DrawMode: the draw mode
	DrawMode() device.DrawMode

	// Settings returns the render state applied on Bind.
	//
	// Returns:
	//   - Settings: the render settings
	Settings() Settings

	// SetSettings replaces the render state applied on Bind.
	//
	// Parameters:
	//   - settings: the new render settings
	SetSettings(settings Settings)

	// Level returns the strictness used for stored values.
	//
	// Returns:
	//   - Level: the mismatch reporting level
	Level() Level

	// SetUniform stores a value uploaded on every Bind, replacing any value stored under name.
	//
	// Parameters:
	//   - name: the uniform name
	//   - value: the value to store
	SetUniform(name string, value Value)

	// Uniform returns a stored value.
	//
	// Parameters:
	//   - name: the uniform name
	//
	// Returns:
	//   - Value: the stored value
	//   - bool: false if nothing is stored under name
	Uniform(name string) (Value, bool)

	// HasUniform reports whether the program declares name (exact, struct or array prefix).
	//
	// Parameters:
	//   - name: the uniform name
	//
	// Returns:
	//   - bool: true if the name is declared
	HasUniform(name string) bool

	// UpdateUniform makes the program current and uploads value immediately.
	//
	// Parameters:
	//   - dev: the device to upload on
	//   - name: the uniform name
	//   - value: the value to upload
	//   - level: how mismatches are reported
	//
	// Returns:
	//   - bool: true if at least one upload happened
	UpdateUniform(dev device.Device, name string, value Value, level Level) bool

	// Bind makes the program current, uploads every stored value and applies the render settings.
	//
	// Parameters:
	//   - dev: the device to bind on
	Bind(dev device.Device)

	// Update makes the program current and invokes the global uniform updater against it.
	//
	// Parameters:
	//   - dev: the device to upload on
	//   - updater: the scene-wide uniform updater, nil is ignored
	Update(dev device.Device, updater UniformUpdater)

	// Release deletes the program.
	//
	// Parameters:
	//   - dev: the device the program was created on
	Release(dev device.Device)
}

var _ Material = &materialImpl{}

// NewMaterial compiles vertexSource and fragmentSource into a custom material.
//
// Parameters:
//   - dev: the device to compile on
//   - vertexSource: GLSL vertex stage source, already pre-processed
//   - fragmentSource: GLSL fragment stage source, already pre-processed
//   - options: functional options for settings, level, draw mode and initial uniforms
//
// Returns:
//   - Material: the new material
//   - error: ShaderCompile, ShaderLink or ResourceCreation errors from Compile
func NewMaterial(dev device.Device, vertexSource, fragmentSource string, options ...MaterialBuilderOption) (Material, error) {
	program, err := Compile(dev, vertexSource, fragmentSource)
	if err != nil {
		return nil, err
	}
	m := &materialImpl{
		kind:     KindCustom,
		program:  program,
		drawMode: device.DrawModeTriangles,
		level:    LevelIgnore,
	}
	for _, opt := range options {
		opt(m)
	}
	return m, nil
}

func (m *materialImpl) Kind() Kind {
	return m.kind
}

func (m *materialImpl) Program() *Program {
	return m.program
}

func (m *materialImpl) DrawMode() device.DrawMode {
	return m.drawMode
}

func (m *materialImpl) Settings() Settings {
	return m.settings
}

func (m *materialImpl) SetSettings(settings Settings) {
	m.settings = settings
}

func (m *materialImpl) Level() Level {
	return m.level
}

func (m *materialImpl) SetUniform(name string, value Value) {
	for i := range m.values {
		if m.values[i].name == name {
			m.values[i].value = value
			return
		}
	}
	m.values = append(m.values, namedValue{name: name, value: value})
}

func (m *materialImpl) Uniform(name string) (Value, bool) {
	for _, nv := range m.values {
		if nv.name == name {
			return nv.value, true
		}
	}
	return nil, false
}

func (m *materialImpl) HasUniform(name string) bool {
	return m.program.HasUniform(name)
}

func (m *materialImpl) UpdateUniform(dev device.Device, name string, value Value, level Level) bool {
	m.program.Use(dev)
	return m.program.UpdateUniform(dev, name, value, level)
}

func (m *materialImpl) Bind(dev device.Device) {
	m.program.Use(dev)
	for _, nv := range m.values {
		m.program.UpdateUniform(dev, nv.name, nv.value, m.level)
	}
	m.settings.apply(dev)
}

func (m *materialImpl) Update(dev device.Device, updater UniformUpdater) {
	if updater != nil {
		m.program.Use(dev)
		updater.UpdateUniforms(dev, m.program)
	}
}

func (m *materialImpl) Release(dev device.Device) {
	m.program.Release(dev)
}
