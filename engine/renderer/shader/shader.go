package shader

import (
	"fmt"
	"os"

	"github.com/Carmen-Shannon/oxy-gl/engine/device"
)

// shader is the implementation of the Shader interface.
type shader struct {
	key        string
	source     string
	shaderType device.ShaderType

	pp PreProcessor
}

// Shader is a pre-processed GLSL stage ready to be handed to the device compiler.
type Shader interface {
	// Key retrieves the unique identifier for this shader, used for diagnostics.
	//
	// Returns:
	//   - string: the shader's unique key
	Key() string

	// Source retrieves the pre-processed GLSL source code.
	//
	// Returns:
	//   - string: the GLSL source with all annotations expanded
	Source() string

	// ShaderType returns the pipeline stage of the shader.
	//
	// Returns:
	//   - device.ShaderType: vertex or fragment
	ShaderType() device.ShaderType

	// Declarations returns the annotations the source was expanded from.
	//
	// Returns:
	//   - []Annotation: the annotations in source order
	Declarations() []Annotation
}

var _ Shader = &shader{}

// NewShader pre-processes source and returns the resulting Shader.
//
// Parameters:
//   - key: a unique identifier for the shader
//   - shaderType: the pipeline stage
//   - source: raw GLSL containing @oxy: annotations
//   - options: pre-processor options (light count, version, extra includes)
//
// Returns:
//   - Shader: the processed shader
//   - error: an error if pre-processing fails
func NewShader(key string, shaderType device.ShaderType, source string, options ...PreProcessorBuilderOption) (Shader, error) {
	s := &shader{
		key:        key,
		shaderType: shaderType,
		pp:         NewPreProcessor(options...),
	}
	processed, err := s.pp.Process(source)
	if err != nil {
		return nil, fmt.Errorf("shader %s: failed to pre-process source: %w", key, err)
	}
	s.source = processed
	return s, nil
}

// NewShaderFromPath reads a GLSL file and pre-processes it.
//
// Parameters:
//   - key: a unique identifier for the shader
//   - shaderType: the pipeline stage
//   - path: the file path to read GLSL source from
//   - options: pre-processor options
//
// Returns:
//   - Shader: the processed shader
//   - error: an error if the file cannot be read or pre-processing fails
func NewShaderFromPath(key string, shaderType device.ShaderType, path string, options ...PreProcessorBuilderOption) (Shader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("shader %s: failed to read source file %q: %w", key, path, err)
	}
	return NewShader(key, shaderType, string(data), options...)
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) ShaderType() device.ShaderType {
	return s.shaderType
}

func (s *shader) Declarations() []Annotation {
	return s.pp.Declarations()
}
