package light

import (
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestNewLightDefaults(t *testing.T) {
	tests := []struct {
		name        string
		light       Light
		lightType   LightType
		attenuation Attenuation
	}{
		{"none", Inert(), LightTypeNone, DefaultAttenuation},
		{"directional", NewDirectional(common.Red, mgl32.Vec3{0, -2, 0}), LightTypeDirectional, DefaultAttenuation},
		{"point", NewPoint(common.Green, mgl32.Vec3{1, 2, 3}), LightTypePoint, DefaultPointAttenuation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.lightType, tt.light.Type())
			assert.Equal(t, tt.attenuation, tt.light.Attenuation())
			assert.Equal(t, tt.name, tt.light.Type().String())
		})
	}
}

func TestFieldsByType(t *testing.T) {
	sun := NewDirectional(common.White, mgl32.Vec3{0, -2, 0})
	f := sun.Fields()
	assert.Equal(t, mgl32.Vec3{0, -1, 0}, f.Direction)
	assert.Equal(t, mgl32.Vec3{}, f.Position)
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, f.Attenuation)

	bulb := NewPoint(common.Blue, mgl32.Vec3{1, 2, 3})
	f = bulb.Fields()
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, f.Position)
	assert.Equal(t, mgl32.Vec3{}, f.Direction)
	assert.Equal(t, common.Blue.Vec3(), f.Color)

	f = Inert().Fields()
	assert.Equal(t, LightTypeNone, f.LightType)
	assert.Equal(t, mgl32.Vec3{}, f.Direction)
}

func TestNodeRoundTrip(t *testing.T) {
	dir := mgl32.Vec3{1, -1, 0}.Normalize()
	sun := NewDirectional(common.White, dir)
	world := sun.ApplyToNode(mgl32.Translate3D(4, 5, 6))
	assert.Equal(t, mgl32.Vec3{4, 5, 6}, common.Position(world))

	other := NewDirectional(common.White, mgl32.Vec3{0, 0, -1})
	other.UpdateFromNode(world)
	for i := range 3 {
		assert.InDelta(t, dir[i], other.Direction()[i], 1e-5)
	}

	bulb := NewPoint(common.White, mgl32.Vec3{})
	bulb.UpdateFromNode(mgl32.Translate3D(-1, 0, 2))
	assert.Equal(t, mgl32.Vec3{-1, 0, 2}, bulb.Position())
	assert.Equal(t, mgl32.Vec3{-1, 0, 2}, common.Position(bulb.ApplyToNode(mgl32.Ident4())))

	none := Inert()
	local := mgl32.Translate3D(1, 1, 1)
	assert.Equal(t, local, none.ApplyToNode(local))
}

func TestGLSLSourcesDeclareMembers(t *testing.T) {
	for _, member := range []string{MemberLightType, MemberColor, MemberDirection, MemberPosition, MemberAttenuation} {
		assert.True(t, strings.Contains(GLSLLightSource, member+";"), member)
	}
	assert.Contains(t, GLSLShadowSource, "struct Shadow")
}
