package input

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/scene"
	"github.com/Carmen-Shannon/oxy-gl/engine/window"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ scene.KeyState = NewKeyState()

// keyWindow records only the key callbacks.
type keyWindow struct {
	window.Window
	down func(int)
	up   func(int)
}

func (w *keyWindow) SetKeyDownCallback(callback func(keyCode int)) { w.down = callback }
func (w *keyWindow) SetKeyUpCallback(callback func(keyCode int))   { w.up = callback }

func TestPressRelease(t *testing.T) {
	k := NewKeyState()
	assert.False(t, k.IsPressed(common.KeyW))

	k.Press(common.KeyW)
	k.Press(common.KeyW)
	k.Press(common.KeyA)
	assert.True(t, k.IsPressed(common.KeyW))
	assert.Equal(t, []int{common.KeyA, common.KeyW}, k.Pressed())

	k.Release(common.KeyW)
	assert.False(t, k.IsPressed(common.KeyW))
	assert.True(t, k.IsPressed(common.KeyA))

	k.Clear()
	assert.Empty(t, k.Pressed())
}

func TestAttachFollowsWindowEvents(t *testing.T) {
	w := &keyWindow{}
	k := NewKeyState()
	k.Attach(w)
	require.NotNil(t, w.down)
	require.NotNil(t, w.up)

	w.down(common.KeySpace)
	assert.True(t, k.IsPressed(common.KeySpace))
	w.up(common.KeySpace)
	assert.False(t, k.IsPressed(common.KeySpace))
}
