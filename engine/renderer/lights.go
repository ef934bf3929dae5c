package renderer

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-gl/engine/light"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-gl/engine/scene"
)

// Lights is the ordered set of light nodes found in one traversal of a scene.
type Lights struct {
	graph scene.Graph
	nodes []scene.NodeID
}

// CollectLights gathers the light nodes below root in breadth-first order.
//
// Parameters:
//   - graph: the scene graph
//   - root: the traversal root, included in the search
//
// Returns:
//   - *Lights: the collected lights
func CollectLights(graph scene.Graph, root scene.NodeID) *Lights {
	l := &Lights{graph: graph}
	for _, id := range graph.Descendants(root) {
		if kind, _ := graph.Kind(id); kind == scene.KindLight {
			l.nodes = append(l.nodes, id)
		}
	}
	return l
}

// Len returns the number of light nodes collected.
func (l *Lights) Len() int {
	return len(l.nodes)
}

// Nodes returns the collected light node ids in traversal order.
func (l *Lights) Nodes() []scene.NodeID {
	out := make([]scene.NodeID, len(l.nodes))
	copy(out, l.nodes)
	return out
}

// Update pulls each light's world-derived position and direction from its node.
func (l *Lights) Update() {
	for _, id := range l.nodes {
		l.graph.PullLight(id)
	}
}

// ForEachIndexed calls fn exactly count times. Slots past the collected lights receive an inert
// light and collected lights past count are skipped.
//
// Parameters:
//   - count: the fixed number of light slots
//   - fn: called with the slot index and the light occupying it
func (l *Lights) ForEachIndexed(count int, fn func(i int, li light.Light)) {
	for i := 0; i < count; i++ {
		var li light.Light
		if i < len(l.nodes) {
			li, _ = l.graph.Light(l.nodes[i])
		}
		if li == nil {
			li = light.Inert()
		}
		fn(i, li)
	}
}

// lightUniformName returns the name of the i-th light slot, "light0" for the first.
func lightUniformName(i int) string {
	return fmt.Sprintf("light%d", i)
}

// lightUniform converts a light to the Light struct value. An inert light only sets its type.
func lightUniform(l light.Light) material.Struct {
	f := l.Fields()
	if f.LightType == light.LightTypeNone {
		return material.Struct{light.MemberLightType: material.Int(f.LightType)}
	}
	return material.Struct{
		light.MemberLightType:   material.Int(f.LightType),
		light.MemberColor:       material.Vec3(f.Color),
		light.MemberDirection:   material.Vec3(f.Direction),
		light.MemberPosition:    material.Vec3(f.Position),
		light.MemberAttenuation: material.Vec3(f.Attenuation),
	}
}
