package window

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	w := newEngineWindow()
	assert.Equal(t, 1280, w.Width())
	assert.Equal(t, 720, w.Height())
	assert.True(t, w.vsync)
	assert.Equal(t, [2]int{4, 1}, [2]int{w.glMajor, w.glMinor})
}

func TestOptions(t *testing.T) {
	w := newEngineWindow(
		WithTitle("demo"),
		WithWidth(640),
		WithHeight(480),
		WithMinWidth(320),
		WithMaxHeight(900),
		WithVSync(false),
		WithContextVersion(3, 3),
	)
	assert.Equal(t, "demo", w.title)
	assert.Equal(t, 640, w.Width())
	assert.Equal(t, 480, w.Height())
	assert.Equal(t, 320, w.minWidth)
	assert.Equal(t, 900, w.maxHeight)
	assert.False(t, w.vsync)
	assert.Equal(t, 3, w.glMinor)
}

func TestUninitializedWindow(t *testing.T) {
	w := newEngineWindow()
	assert.False(t, w.IsRunning())
	assert.Error(t, w.Close())
	w.SwapBuffers()
	w.MakeContextCurrent()
}
