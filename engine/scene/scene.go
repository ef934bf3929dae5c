// Package scene implements the node hierarchy: an arena of nodes addressed by NodeID, each
// holding a local transform, an optional payload and cached global and normal transforms.
//
// The arena owns every node, so parent links are plain ids and no ownership cycle can
// form. Changing a node's local transform or parent invalidates its cached transforms and
// those of all of its descendants; reads recompute lazily and memoize.
package scene

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-gl/engine/camera"
	"github.com/Carmen-Shannon/oxy-gl/engine/device"
	"github.com/Carmen-Shannon/oxy-gl/engine/light"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/mesh"
	"github.com/go-gl/mathgl/mgl32"
)

// NodeID addresses a node in a Graph.
type NodeID int

// NoNode is returned where no node exists, e.g. the parent of a root.
const NoNode NodeID = -1

// Kind is the closed set of node payload kinds.
type Kind int

const (
	KindGroup Kind = iota
	KindMesh
	KindCamera
	KindLight
	KindMovementRig
)

func (k Kind) String() string {
	switch k {
	case KindGroup:
		return "group"
	case KindMesh:
		return "mesh"
	case KindCamera:
		return "camera"
	case KindLight:
		return "light"
	case KindMovementRig:
		return "movement rig"
	default:
		return "unknown"
	}
}

var (
	// ErrUnknownNode is returned when an id does not address a node of the graph.
	ErrUnknownNode = errors.New("unknown node")

	// ErrCycle is returned when an edge would make a node its own ancestor.
	ErrCycle = errors.New("node cannot be attached below itself")

	// ErrNotChild is returned when removing a node that is not a child of the given parent.
	ErrNotChild = errors.New("node is not a child of parent")
)

type node struct {
	kind     Kind
	name     string
	local    mgl32.Mat4
	parent   NodeID
	children []NodeID

	global      mgl32.Mat4
	globalValid bool
	normal      mgl32.Mat4
	normalValid bool

	mesh   *mesh.Mesh
	camera camera.Camera
	light  light.Light
	rig    *MovementRig
}

// graphImpl is the implementation of the Graph interface.
type graphImpl struct {
	mu    *sync.Mutex
	nodes []*node

	globalComputations int
	normalComputations int
}

// Graph is an arena of scene nodes.
//
// Methods taking a NodeID treat an unknown id as an empty node: transform reads return
// identity, payload reads return false, and mutations do nothing. Structural edits
// (AddChild, RemoveChild) report ErrUnknownNode instead.
type Graph interface {
	// NewGroup adds a node without a payload.
	//
	// Returns:
	//   - NodeID: the id of the new node
	NewGroup() NodeID

	// NewMesh adds a node drawing m with its global transform.
	//
	// Parameters:
	//   - m: the mesh payload
	//
	// Returns:
	//   - NodeID: the id of the new node
	NewMesh(m *mesh.Mesh) NodeID

	// NewCamera adds a node owning c. The camera's view matrix follows the node through UpdateCamera.
	//
	// Parameters:
	//   - c: the camera payload
	//
	// Returns:
	//   - NodeID: the id of the new node
	NewCamera(c camera.Camera) NodeID

	// NewLight adds a node owning l. The light's field follows the node through PullLight and PushLight.
	//
	// Parameters:
	//   - l: the light payload
	//
	// Returns:
	//   - NodeID: the id of the new node
	NewLight(l light.Light) NodeID

	// NewMovementRig adds a keyboard-driven rig node together with its look attachment child.
	// Children added to the rig are attached to the look attachment.
	//
	// Parameters:
	//   - props: speeds and key bindings
	//
	// Returns:
	//   - NodeID: the id of the rig node
	NewMovementRig(props RigProperties) NodeID

	// Len returns the number of nodes in the arena.
	Len() int

	// Contains reports whether id addresses a node of the graph.
	Contains(id NodeID) bool

	// Kind returns the payload kind of a node.
	//
	// Parameters:
	//   - id: the node
	//
	// Returns:
	//   - Kind: the payload kind
	//   - bool: false if id is unknown
	Kind(id NodeID) (Kind, bool)

	// Name returns the debug name of a node.
	Name(id NodeID) string

	// SetName sets the debug name of a node.
	SetName(id NodeID, name string)

	// Mesh returns the mesh payload of a node.
	//
	// Returns:
	//   - *mesh.Mesh: the mesh
	//   - bool: false if the node is not a mesh node
	Mesh(id NodeID) (*mesh.Mesh, bool)

	// Camera returns the camera payload of a node.
	//
	// Returns:
	//   - camera.Camera: the camera
	//   - bool: false if the node is not a camera node
	Camera(id NodeID) (camera.Camera, bool)

	// Light returns the light payload of a node.
	//
	// Returns:
	//   - light.Light: the light
	//   - bool: false if the node is not a light node
	Light(id NodeID) (light.Light, bool)

	// Rig returns the movement rig payload of a node.
	//
	// Returns:
	//   - *MovementRig: the rig
	//   - bool: false if the node is not a rig node
	Rig(id NodeID) (*MovementRig, bool)

	// AddChild attaches child below parent, detaching it from any previous parent, and
	// invalidates the cached transforms of child and its descendants. A rig parent
	// attaches to its look attachment instead.
	//
	// Parameters:
	//   - parent: the new parent
	//   - child: the node to attach
	//
	// Returns:
	//   - error: ErrUnknownNode for an unknown id, ErrCycle if child is parent or one of its ancestors
	AddChild(parent, child NodeID) error

	// RemoveChild detaches child from parent, making it a root. A rig parent removes from its look attachment.
	//
	// Parameters:
	//   - parent: the current parent
	//   - child: the node to detach
	//
	// Returns:
	//   - error: ErrUnknownNode for an unknown id, ErrNotChild if child is not attached to parent
	RemoveChild(parent, child NodeID) error

	// Parent returns the parent of a node.
	//
	// Returns:
	//   - NodeID: the parent, NoNode for a root
	//   - bool: false if the node is a root or unknown
	Parent(id NodeID) (NodeID, bool)

	// Children returns a copy of the children of a node in insertion order.
	Children(id NodeID) []NodeID

	// Descendants returns id and every node below it in breadth-first order.
	Descendants(id NodeID) []NodeID

	// IsAncestorOf reports whether ancestor is a strict ancestor of id.
	IsAncestorOf(ancestor, id NodeID) bool

	// LocalTransform returns the node's transform relative to its parent.
	LocalTransform(id NodeID) mgl32.Mat4

	// SetLocalTransform replaces the node's local transform and invalidates the subtree.
	SetLocalTransform(id NodeID, m mgl32.Mat4)

	// GlobalTransform returns parent.GlobalTransform() * LocalTransform(), memoized.
	GlobalTransform(id NodeID) mgl32.Mat4

	// NormalTransform returns the inverse-transpose of the global transform's upper 3x3
	// extended to 4x4, memoized. A singular matrix yields identity.
	NormalTransform(id NodeID) mgl32.Mat4

	// GlobalComputations returns how many global transforms have been computed on cache misses.
	GlobalComputations() int

	// NormalComputations returns how many normal transforms have been computed on cache misses.
	NormalComputations() int

	// ApplyTransform multiplies m into the local transform, on the right in SpaceLocal and on the left in SpaceGlobal.
	ApplyTransform(id NodeID, m mgl32.Mat4, space Space)

	// Translate applies a translation in the given space.
	Translate(id NodeID, x, y, z float32, space Space)

	// RotateX applies a rotation of angle radians about X in the given space.
	RotateX(id NodeID, angle float32, space Space)

	// RotateY applies a rotation of angle radians about Y in the given space.
	RotateY(id NodeID, angle float32, space Space)

	// RotateZ applies a rotation of angle radians about Z in the given space.
	RotateZ(id NodeID, angle float32, space Space)

	// Scale applies a uniform scale in the given space.
	Scale(id NodeID, s float32, space Space)

	// Position returns the translation of the local transform.
	Position(id NodeID) mgl32.Vec3

	// SetPosition replaces the translation of the local transform.
	SetPosition(id NodeID, position mgl32.Vec3)

	// WorldPosition returns the translation of the global transform.
	WorldPosition(id NodeID) mgl32.Vec3

	// LookAt orients the node so its -Z axis faces target, keeping its world position.
	LookAt(id NodeID, target mgl32.Vec3)

	// RotationMatrix returns the rotation part of the local transform.
	RotationMatrix(id NodeID) mgl32.Mat4

	// Direction returns the local -Z axis of the node rotated by its local transform.
	Direction(id NodeID) mgl32.Vec3

	// SetDirection orients the node along direction, keeping its position.
	SetDirection(id NodeID, direction mgl32.Vec3)

	// UpdateCamera pushes the node's global transform into its camera's view matrix.
	//
	// Returns:
	//   - bool: false if the node holds no camera or its transform is singular
	UpdateCamera(id NodeID) bool

	// PullLight refreshes the light's direction or position from the node's global transform.
	//
	// Returns:
	//   - bool: false if the node holds no light
	PullLight(id NodeID) bool

	// PushLight writes the light's direction or position into the node's local transform.
	//
	// Returns:
	//   - bool: false if the node holds no light
	PushLight(id NodeID) bool

	// UpdateRig moves a rig node according to the keys held, scaled by dt seconds.
	//
	// Returns:
	//   - bool: false if the node is not a rig
	UpdateRig(id NodeID, keys KeyState, dt float32) bool

	// UpdateRigs runs UpdateRig on every rig in the subtree at root.
	UpdateRigs(root NodeID, keys KeyState, dt float32)

	// Render draws every mesh node in the subtree at root, depth-first with children in insertion order.
	//
	// Parameters:
	//   - dev: the device to draw on
	//   - root: the subtree to draw
	//   - viewProjection: the camera's view-projection matrix
	//   - updater: the scene-wide uniform updater, may be nil; it may read the graph
	Render(dev device.Device, root NodeID, viewProjection mgl32.Mat4, updater material.UniformUpdater)
}

var _ Graph = &graphImpl{}

// NewGraph creates an empty graph.
//
// Parameters:
//   - options: functional options
//
// Returns:
//   - Graph: the new graph
func NewGraph(options ...GraphBuilderOption) Graph {
	g := &graphImpl{mu: &sync.Mutex{}}
	for _, opt := range options {
		opt(g)
	}
	return g
}

func (g *graphImpl) add(n *node) NodeID {
	n.local = mgl32.Ident4()
	n.parent = NoNode
	g.nodes = append(g.nodes, n)
	return NodeID(len(g.nodes) - 1)
}

func (g *graphImpl) NewGroup() NodeID {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.add(&node{kind: KindGroup})
}

func (g *graphImpl) NewMesh(m *mesh.Mesh) NodeID {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.add(&node{kind: KindMesh, mesh: m})
}

func (g *graphImpl) NewCamera(c camera.Camera) NodeID {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.add(&node{kind: KindCamera, camera: c})
}

func (g *graphImpl) NewLight(l light.Light) NodeID {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.add(&node{kind: KindLight, light: l})
}

func (g *graphImpl) NewMovementRig(props RigProperties) NodeID {
	g.mu.Lock()
	defer g.mu.Unlock()
	look := g.add(&node{kind: KindGroup, name: "look attachment"})
	id := g.add(&node{kind: KindMovementRig, rig: &MovementRig{properties: props, lookAttachment: look}})
	g.link(id, look)
	return id
}

func (g *graphImpl) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.nodes)
}

func (g *graphImpl) Contains(id NodeID) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.get(id) != nil
}

func (g *graphImpl) get(id NodeID) *node {
	if id < 0 || int(id) >= len(g.nodes) {
		return nil
	}
	return g.nodes[id]
}

func (g *graphImpl) Kind(id NodeID) (Kind, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := g.get(id)
	if n == nil {
		return KindGroup, false
	}
	return n.kind, true
}

func (g *graphImpl) Name(id NodeID) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if n := g.get(id); n != nil {
		return n.name
	}
	return ""
}

func (g *graphImpl) SetName(id NodeID, name string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if n := g.get(id); n != nil {
		n.name = name
	}
}

func (g *graphImpl) Mesh(id NodeID) (*mesh.Mesh, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := g.get(id)
	if n == nil || n.kind != KindMesh {
		return nil, false
	}
	return n.mesh, true
}

func (g *graphImpl) Camera(id NodeID) (camera.Camera, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := g.get(id)
	if n == nil || n.kind != KindCamera {
		return nil, false
	}
	return n.camera, true
}

func (g *graphImpl) Light(id NodeID) (light.Light, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := g.get(id)
	if n == nil || n.kind != KindLight {
		return nil, false
	}
	return n.light, true
}

func (g *graphImpl) Rig(id NodeID) (*MovementRig, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := g.get(id)
	if n == nil || n.kind != KindMovementRig {
		return nil, false
	}
	return n.rig, true
}

func (g *graphImpl) AddChild(parent, child NodeID) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	p, c := g.get(parent), g.get(child)
	if p == nil || c == nil {
		return fmt.Errorf("add child %d to %d: %w", child, parent, ErrUnknownNode)
	}
	if p.kind == KindMovementRig {
		parent = p.rig.lookAttachment
	}
	if parent == child || g.isAncestorOf(child, parent) {
		return fmt.Errorf("add child %d to %d: %w", child, parent, ErrCycle)
	}
	if c.parent != NoNode {
		g.unlink(c.parent, child)
	}
	g.link(parent, child)
	return nil
}

func (g *graphImpl) RemoveChild(parent, child NodeID) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	p, c := g.get(parent), g.get(child)
	if p == nil || c == nil {
		return fmt.Errorf("remove child %d from %d: %w", child, parent, ErrUnknownNode)
	}
	if p.kind == KindMovementRig {
		parent = p.rig.lookAttachment
	}
	if c.parent != parent {
		return fmt.Errorf("remove child %d from %d: %w", child, parent, ErrNotChild)
	}
	g.unlink(parent, child)
	return nil
}

// link requires both ids to be valid and child to be a root.
func (g *graphImpl) link(parent, child NodeID) {
	g.nodes[parent].children = append(g.nodes[parent].children, child)
	g.nodes[child].parent = parent
	g.invalidate(child)
}

func (g *graphImpl) unlink(parent, child NodeID) {
	p := g.nodes[parent]
	for i, id := range p.children {
		if id == child {
			p.children = append(p.children[:i], p.children[i+1:]...)
			break
		}
	}
	g.nodes[child].parent = NoNode
	g.invalidate(child)
}

func (g *graphImpl) Parent(id NodeID) (NodeID, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := g.get(id)
	if n == nil || n.parent == NoNode {
		return NoNode, false
	}
	return n.parent, true
}

func (g *graphImpl) Children(id NodeID) []NodeID {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := g.get(id)
	if n == nil {
		return nil
	}
	out := make([]NodeID, len(n.children))
	copy(out, n.children)
	return out
}

func (g *graphImpl) Descendants(id NodeID) []NodeID {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.descendants(id)
}

func (g *graphImpl) descendants(id NodeID) []NodeID {
	if g.get(id) == nil {
		return nil
	}
	result := []NodeID{id}
	for i := 0; i < len(result); i++ {
		result = append(result, g.nodes[result[i]].children...)
	}
	return result
}

func (g *graphImpl) IsAncestorOf(ancestor, id NodeID) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.isAncestorOf(ancestor, id)
}

func (g *graphImpl) isAncestorOf(ancestor, id NodeID) bool {
	n := g.get(id)
	if n == nil || g.get(ancestor) == nil {
		return false
	}
	for p := n.parent; p != NoNode; p = g.nodes[p].parent {
		if p == ancestor {
			return true
		}
	}
	return false
}

func (g *graphImpl) UpdateCamera(id NodeID) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := g.get(id)
	if n == nil || n.kind != KindCamera {
		return false
	}
	return n.camera.UpdateViewMatrix(g.globalTransform(id))
}

func (g *graphImpl) PullLight(id NodeID) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := g.get(id)
	if n == nil || n.kind != KindLight {
		return false
	}
	n.light.UpdateFromNode(g.globalTransform(id))
	return true
}

func (g *graphImpl) PushLight(id NodeID) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := g.get(id)
	if n == nil || n.kind != KindLight {
		return false
	}
	g.setLocal(id, n.light.ApplyToNode(n.local))
	return true
}

func (g *graphImpl) Render(dev device.Device, root NodeID, viewProjection mgl32.Mat4, updater material.UniformUpdater) {
	g.mu.Lock()
	draws := g.collectDraws(root, nil)
	g.mu.Unlock()

	// Drawing runs unlocked so the updater may read the graph.
	for _, d := range draws {
		d.mesh.Render(dev, d.global, d.normal, viewProjection, updater)
	}
}

// meshDraw is a mesh with the transforms it is drawn with.
type meshDraw struct {
	mesh           *mesh.Mesh
	global, normal mgl32.Mat4
}

// collectDraws appends the meshes under id in depth-first insertion order.
func (g *graphImpl) collectDraws(id NodeID, out []meshDraw) []meshDraw {
	n := g.get(id)
	if n == nil {
		return out
	}
	if n.kind == KindMesh && n.mesh != nil {
		out = append(out, meshDraw{mesh: n.mesh, global: g.globalTransform(id), normal: g.normalTransform(id)})
	}
	for _, child := range n.children {
		out = g.collectDraws(child, out)
	}
	return out
}
