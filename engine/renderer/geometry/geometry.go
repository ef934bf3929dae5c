// Package geometry groups named vertex attribute accessors into a drawable vertex set.
package geometry

import (
	"strings"

	"github.com/Carmen-Shannon/oxy-gl/engine/errs"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/buffer"
)

// Well-known attribute names.
const (
	AttributePosition  = "POSITION"
	AttributeNormal    = "NORMAL"
	AttributeTangent   = "TANGENT"
	AttributeTexcoord0 = "TEXCOORD_0"
	AttributeTexcoord1 = "TEXCOORD_1"
	AttributeColor0    = "COLOR_0"
)

// Geometry is an insertion-ordered mapping from attribute name to Accessor.
type Geometry struct {
	names      []string
	attributes map[string]*buffer.Accessor
}

// Attribute pairs an attribute name with its accessor.
type Attribute struct {
	Name     string
	Accessor *buffer.Accessor
}

// New creates a geometry from attributes in the given order.
// Fails with a GeometryValidation error on duplicate or empty names.
//
// Parameters:
//   - attributes: the named accessors
//
// Returns:
//   - *Geometry: the new geometry
//   - error: error if a name is empty or repeated
func New(attributes ...Attribute) (*Geometry, error) {
	g := &Geometry{attributes: make(map[string]*buffer.Accessor, len(attributes))}
	for _, a := range attributes {
		if a.Name == "" || a.Accessor == nil {
			return nil, errs.New(errs.KindGeometryValidation, "new geometry", "attribute needs a name and an accessor")
		}
		if _, dup := g.attributes[a.Name]; dup {
			return nil, errs.Newf(errs.KindGeometryValidation, "new geometry", "duplicate attribute %q", a.Name)
		}
		g.Set(a.Name, a.Accessor)
	}
	return g, nil
}

// FromFloat32 builds a geometry from tightly packed float attribute arrays.
//
// Parameters:
//   - attributes: attribute name to flat component values
//   - shapes: attribute name to element shape; names without an entry default to VEC3
//   - order: the insertion order of the attributes
//
// Returns:
//   - *Geometry: the new geometry
//   - error: error if an array does not form whole elements or order names a missing array
func FromFloat32(attributes map[string][]float32, shapes map[string]buffer.ElementType, order ...string) (*Geometry, error) {
	g := &Geometry{attributes: make(map[string]*buffer.Accessor, len(attributes))}
	for _, name := range order {
		values, ok := attributes[name]
		if !ok {
			return nil, errs.Newf(errs.KindGeometryValidation, "geometry from float32", "no values for attribute %q", name)
		}
		shape, ok := shapes[name]
		if !ok {
			shape = buffer.ElementVec3
		}
		acc, err := buffer.FromFloat32(values, shape)
		if err != nil {
			return nil, err
		}
		g.Set(name, acc)
	}
	return g, nil
}

// Set adds or replaces an attribute. New names are appended to the iteration order.
func (g *Geometry) Set(name string, accessor *buffer.Accessor) {
	if g.attributes == nil {
		g.attributes = make(map[string]*buffer.Accessor)
	}
	if _, ok := g.attributes[name]; !ok {
		g.names = append(g.names, name)
	}
	g.attributes[name] = accessor
}

// Get returns the accessor for name.
func (g *Geometry) Get(name string) (*buffer.Accessor, bool) {
	a, ok := g.attributes[name]
	return a, ok
}

// Len returns the number of attributes.
func (g *Geometry) Len() int {
	return len(g.names)
}

// Attributes returns the attributes in insertion order.
func (g *Geometry) Attributes() []Attribute {
	out := make([]Attribute, 0, len(g.names))
	for _, n := range g.names {
		out = append(out, Attribute{Name: n, Accessor: g.attributes[n]})
	}
	return out
}

// CountVertices returns the shared vertex count of every attribute.
//
// Returns:
//   - int: the vertex count
//   - error: a GeometryValidation error if the geometry is empty or counts differ
func (g *Geometry) CountVertices() (int, error) {
	if len(g.names) == 0 {
		return 0, errs.New(errs.KindGeometryValidation, "count vertices", "geometry has no attributes")
	}
	count := g.attributes[g.names[0]].Count()
	for _, n := range g.names[1:] {
		if c := g.attributes[n].Count(); c != count {
			return 0, errs.Newf(errs.KindGeometryValidation, "count vertices",
				"attribute %q has %d vertices, %q has %d", n, c, g.names[0], count)
		}
	}
	return count, nil
}

// Validate checks that POSITION is present and every attribute has the same vertex count.
func (g *Geometry) Validate() error {
	if _, ok := g.attributes[AttributePosition]; !ok {
		return errs.Newf(errs.KindGeometryValidation, "validate geometry", "missing %s attribute", AttributePosition)
	}
	_, err := g.CountVertices()
	return err
}

// ShaderAttributeName maps a geometry attribute name to its vertex shader input, e.g. POSITION to a_position.
func ShaderAttributeName(name string) string {
	return "a_" + strings.ToLower(name)
}
