package geometry

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-gl/engine/errs"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/buffer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func triangle() map[string][]float32 {
	return map[string][]float32{
		AttributePosition:  {0, 0, 0, 1, 0, 0, 0, 1, 0},
		AttributeNormal:    {0, 0, 1, 0, 0, 1, 0, 0, 1},
		AttributeTexcoord0: {0, 0, 1, 0, 0, 1},
	}
}

func TestCountVerticesRoundTrip(t *testing.T) {
	g, err := FromFloat32(triangle(), map[string]buffer.ElementType{AttributeTexcoord0: buffer.ElementVec2},
		AttributePosition, AttributeNormal, AttributeTexcoord0)
	require.NoError(t, err)

	n, err := g.CountVertices()
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.NoError(t, g.Validate())

	var names []string
	for _, a := range g.Attributes() {
		names = append(names, a.Name)
	}
	assert.Equal(t, []string{AttributePosition, AttributeNormal, AttributeTexcoord0}, names)
}

func TestCountVerticesMismatch(t *testing.T) {
	attrs := triangle()
	attrs[AttributeNormal] = []float32{0, 0, 1, 0, 0, 1}
	g, err := FromFloat32(attrs, nil, AttributePosition, AttributeNormal)
	require.NoError(t, err)

	_, err = g.CountVertices()
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrGeometryValidation)
	assert.ErrorIs(t, g.Validate(), errs.ErrGeometryValidation)
}

func TestValidateRequiresPosition(t *testing.T) {
	g, err := FromFloat32(triangle(), nil, AttributeNormal)
	require.NoError(t, err)

	err = g.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrGeometryValidation)
	assert.Contains(t, err.Error(), "POSITION")
}

func TestEmptyGeometry(t *testing.T) {
	g, err := New()
	require.NoError(t, err)
	_, err = g.CountVertices()
	assert.ErrorIs(t, err, errs.ErrGeometryValidation)
}

func TestDuplicateAttribute(t *testing.T) {
	acc, err := buffer.FromFloat32([]float32{0, 0, 0}, buffer.ElementVec3)
	require.NoError(t, err)
	_, err = New(Attribute{Name: AttributePosition, Accessor: acc}, Attribute{Name: AttributePosition, Accessor: acc})
	assert.ErrorIs(t, err, errs.ErrGeometryValidation)
}

func TestSetReplacesInPlace(t *testing.T) {
	a, err := buffer.FromFloat32([]float32{0, 0, 0}, buffer.ElementVec3)
	require.NoError(t, err)
	b, err := buffer.FromFloat32([]float32{1, 1, 1}, buffer.ElementVec3)
	require.NoError(t, err)

	g, err := New(Attribute{Name: AttributePosition, Accessor: a}, Attribute{Name: AttributeColor0, Accessor: a})
	require.NoError(t, err)
	g.Set(AttributePosition, b)

	got, ok := g.Get(AttributePosition)
	require.True(t, ok)
	assert.Same(t, b, got)
	assert.Equal(t, 2, g.Len())
	assert.Equal(t, AttributePosition, g.Attributes()[0].Name)
}

func TestShaderAttributeName(t *testing.T) {
	assert.Equal(t, "a_position", ShaderAttributeName(AttributePosition))
	assert.Equal(t, "a_texcoord_0", ShaderAttributeName(AttributeTexcoord0))
	assert.Equal(t, "a_color_0", ShaderAttributeName(AttributeColor0))
}
