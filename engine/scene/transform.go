package scene

import (
	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/go-gl/mathgl/mgl32"
)

// Space selects which side a transform is multiplied onto.
type Space int

const (
	// SpaceLocal right-multiplies, moving the node along its own axes.
	SpaceLocal Space = iota

	// SpaceGlobal left-multiplies, moving the node along its parent's axes.
	SpaceGlobal
)

var (
	worldUp = mgl32.Vec3{0, 1, 0}
	forward = mgl32.Vec3{0, 0, -1}
)

// invalidate clears the cached transforms of id and its subtree. A node whose caches are
// already clear has clear descendants too, so the walk stops there.
func (g *graphImpl) invalidate(id NodeID) {
	n := g.nodes[id]
	if !n.globalValid && !n.normalValid {
		return
	}
	n.globalValid = false
	n.normalValid = false
	for _, child := range n.children {
		g.invalidate(child)
	}
}

func (g *graphImpl) setLocal(id NodeID, m mgl32.Mat4) {
	n := g.get(id)
	if n == nil {
		return
	}
	n.local = m
	if n.globalValid || n.normalValid {
		g.invalidate(id)
	}
}

func (g *graphImpl) globalTransform(id NodeID) mgl32.Mat4 {
	n := g.get(id)
	if n == nil {
		return mgl32.Ident4()
	}
	if n.globalValid {
		return n.global
	}
	g.globalComputations++
	if n.parent == NoNode {
		n.global = n.local
	} else {
		n.global = g.globalTransform(n.parent).Mul4(n.local)
	}
	n.globalValid = true
	return n.global
}

func (g *graphImpl) normalTransform(id NodeID) mgl32.Mat4 {
	n := g.get(id)
	if n == nil {
		return mgl32.Ident4()
	}
	if n.normalValid {
		return n.normal
	}
	g.normalComputations++
	n.normal, _ = common.NormalMatrix(g.globalTransform(id))
	n.normalValid = true
	return n.normal
}

func (g *graphImpl) LocalTransform(id NodeID) mgl32.Mat4 {
	g.mu.Lock()
	defer g.mu.Unlock()
	if n := g.get(id); n != nil {
		return n.local
	}
	return mgl32.Ident4()
}

func (g *graphImpl) SetLocalTransform(id NodeID, m mgl32.Mat4) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.setLocal(id, m)
}

func (g *graphImpl) GlobalTransform(id NodeID) mgl32.Mat4 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.globalTransform(id)
}

func (g *graphImpl) NormalTransform(id NodeID) mgl32.Mat4 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.normalTransform(id)
}

func (g *graphImpl) GlobalComputations() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.globalComputations
}

func (g *graphImpl) NormalComputations() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.normalComputations
}

func (g *graphImpl) applyTransform(id NodeID, m mgl32.Mat4, space Space) {
	n := g.get(id)
	if n == nil {
		return
	}
	if space == SpaceGlobal {
		g.setLocal(id, m.Mul4(n.local))
		return
	}
	g.setLocal(id, n.local.Mul4(m))
}

func (g *graphImpl) ApplyTransform(id NodeID, m mgl32.Mat4, space Space) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.applyTransform(id, m, space)
}

func (g *graphImpl) Translate(id NodeID, x, y, z float32, space Space) {
	g.ApplyTransform(id, mgl32.Translate3D(x, y, z), space)
}

func (g *graphImpl) RotateX(id NodeID, angle float32, space Space) {
	g.ApplyTransform(id, mgl32.HomogRotate3DX(angle), space)
}

func (g *graphImpl) RotateY(id NodeID, angle float32, space Space) {
	g.ApplyTransform(id, mgl32.HomogRotate3DY(angle), space)
}

func (g *graphImpl) RotateZ(id NodeID, angle float32, space Space) {
	g.ApplyTransform(id, mgl32.HomogRotate3DZ(angle), space)
}

func (g *graphImpl) Scale(id NodeID, s float32, space Space) {
	g.ApplyTransform(id, mgl32.Scale3D(s, s, s), space)
}

func (g *graphImpl) Position(id NodeID) mgl32.Vec3 {
	return common.Position(g.LocalTransform(id))
}

func (g *graphImpl) SetPosition(id NodeID, position mgl32.Vec3) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if n := g.get(id); n != nil {
		g.setLocal(id, common.SetPosition(n.local, position))
	}
}

func (g *graphImpl) WorldPosition(id NodeID) mgl32.Vec3 {
	return common.Position(g.GlobalTransform(id))
}

func (g *graphImpl) LookAt(id NodeID, target mgl32.Vec3) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.get(id) == nil {
		return
	}
	eye := common.Position(g.globalTransform(id))
	g.setLocal(id, common.LookAtWorld(eye, target, worldUp))
}

func (g *graphImpl) RotationMatrix(id NodeID) mgl32.Mat4 {
	return common.RotationMatrix(g.LocalTransform(id))
}

func (g *graphImpl) Direction(id NodeID) mgl32.Vec3 {
	return g.RotationMatrix(id).Mul4x1(forward.Vec4(0)).Vec3()
}

func (g *graphImpl) SetDirection(id NodeID, direction mgl32.Vec3) {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := g.get(id)
	if n == nil {
		return
	}
	position := common.Position(n.local)
	g.setLocal(id, common.LookAtWorld(position, position.Add(direction), worldUp))
}
