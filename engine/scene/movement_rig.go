package scene

import (
	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/go-gl/mathgl/mgl32"
)

// KeyState reports whether a key is currently held.
type KeyState interface {
	IsPressed(key int) bool
}

// RigProperties configures a movement rig. A zero key code disables that action.
type RigProperties struct {
	// LinearSpeed is in units per second.
	LinearSpeed float32

	// AngularSpeed is in degrees per second.
	AngularSpeed float32

	KeyMoveForwards  int
	KeyMoveBackwards int
	KeyMoveLeft      int
	KeyMoveRight     int
	KeyMoveUp        int
	KeyMoveDown      int
	KeyTurnLeft      int
	KeyTurnRight     int
	KeyLookUp        int
	KeyLookDown      int
}

// DefaultRigProperties moves 1 unit and turns 60 degrees per second on W/S A/D R/F Q/E T/G.
func DefaultRigProperties() RigProperties {
	return RigProperties{
		LinearSpeed:      1,
		AngularSpeed:     60,
		KeyMoveForwards:  common.KeyW,
		KeyMoveBackwards: common.KeyS,
		KeyMoveLeft:      common.KeyA,
		KeyMoveRight:     common.KeyD,
		KeyMoveUp:        common.KeyR,
		KeyMoveDown:      common.KeyF,
		KeyTurnLeft:      common.KeyQ,
		KeyTurnRight:     common.KeyE,
		KeyLookUp:        common.KeyT,
		KeyLookDown:      common.KeyG,
	}
}

// MovementRig is the payload of a rig node. The rig node translates and yaws; its look
// attachment child pitches, so a camera attached to the rig looks up and down without
// tilting the movement plane.
type MovementRig struct {
	properties     RigProperties
	lookAttachment NodeID
}

// Properties returns the rig's speeds and key bindings.
func (r *MovementRig) Properties() RigProperties {
	return r.properties
}

// SetProperties replaces the rig's speeds and key bindings.
func (r *MovementRig) SetProperties(props RigProperties) {
	r.properties = props
}

// LookAttachment returns the child node that receives the rig's children and pitch.
func (r *MovementRig) LookAttachment() NodeID {
	return r.lookAttachment
}

func pressed(keys KeyState, key int) bool {
	return key != 0 && keys.IsPressed(key)
}

func (g *graphImpl) UpdateRig(id NodeID, keys KeyState, dt float32) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.updateRig(id, keys, dt)
}

func (g *graphImpl) updateRig(id NodeID, keys KeyState, dt float32) bool {
	n := g.get(id)
	if n == nil || n.kind != KindMovementRig || keys == nil {
		return false
	}
	p := n.rig.properties
	linear := p.LinearSpeed * dt
	angular := mgl32.DegToRad(p.AngularSpeed) * dt

	moves := []struct {
		key int
		m   mgl32.Mat4
	}{
		{p.KeyMoveForwards, mgl32.Translate3D(0, 0, -linear)},
		{p.KeyMoveBackwards, mgl32.Translate3D(0, 0, linear)},
		{p.KeyMoveLeft, mgl32.Translate3D(-linear, 0, 0)},
		{p.KeyMoveRight, mgl32.Translate3D(linear, 0, 0)},
		{p.KeyMoveUp, mgl32.Translate3D(0, linear, 0)},
		{p.KeyMoveDown, mgl32.Translate3D(0, -linear, 0)},
		{p.KeyTurnRight, mgl32.HomogRotate3DY(-angular)},
		{p.KeyTurnLeft, mgl32.HomogRotate3DY(angular)},
	}
	for _, mv := range moves {
		if pressed(keys, mv.key) {
			g.applyTransform(id, mv.m, SpaceLocal)
		}
	}
	if pressed(keys, p.KeyLookUp) {
		g.applyTransform(n.rig.lookAttachment, mgl32.HomogRotate3DX(angular), SpaceLocal)
	}
	if pressed(keys, p.KeyLookDown) {
		g.applyTransform(n.rig.lookAttachment, mgl32.HomogRotate3DX(-angular), SpaceLocal)
	}
	return true
}

func (g *graphImpl) UpdateRigs(root NodeID, keys KeyState, dt float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, id := range g.descendants(root) {
		if g.nodes[id].kind == KindMovementRig {
			g.updateRig(id, keys, dt)
		}
	}
}
