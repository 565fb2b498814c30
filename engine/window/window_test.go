package window

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEngineWindow_Dispatch(t *testing.T) {
	w := &engineWindow{}

	var down, up []uint32
	var clicks [][3]int32
	var moves [][2]int32
	var resized [2]int
	focusLost := 0

	w.SetKeyDownCallback(func(k uint32) { down = append(down, k) })
	w.SetKeyUpCallback(func(k uint32) { up = append(up, k) })
	w.SetRightMouseDownCallback(func(x, y int32) { clicks = append(clicks, [3]int32{x, y, 1}) })
	w.SetRightMouseUpCallback(func(x, y int32) { clicks = append(clicks, [3]int32{x, y, 0}) })
	w.SetMouseMoveCallback(func(x, y int32) { moves = append(moves, [2]int32{x, y}) })
	w.SetResizeCallback(func(width, height int) { resized = [2]int{width, height} })
	w.SetFocusLostCallback(func() { focusLost++ })

	w.keyEvent(87, true)
	w.keyEvent(87, false)
	w.rightButtonEvent(10, 20, true)
	w.cursorEvent(15, 25)
	w.rightButtonEvent(15, 25, false)
	w.resizeEvent(800, 600)
	w.focusEvent(true)
	w.focusEvent(false)

	assert.Equal(t, []uint32{87}, down)
	assert.Equal(t, []uint32{87}, up)
	assert.Equal(t, [][3]int32{{10, 20, 1}, {15, 25, 0}}, clicks)
	assert.Equal(t, [][2]int32{{15, 25}}, moves)
	assert.Equal(t, [2]int{800, 600}, resized)
	assert.Equal(t, 800, w.Width())
	assert.Equal(t, 600, w.Height())
	assert.Equal(t, 1, focusLost, "only losing focus is reported")
}

func TestEngineWindow_NoCallbacks(t *testing.T) {
	w := &engineWindow{}

	assert.NotPanics(t, func() {
		w.keyEvent(1, true)
		w.rightButtonEvent(0, 0, true)
		w.cursorEvent(0, 0)
		w.resizeEvent(10, 10)
		w.focusEvent(false)
	})
}

func TestEngineWindow_NotOpen(t *testing.T) {
	w := &engineWindow{}

	assert.False(t, w.IsRunning())
	assert.Nil(t, w.SurfaceDescriptor())
	assert.Error(t, w.Close())
	assert.NotPanics(t, func() { w.SetTitle("x") })
	assert.NotPanics(t, w.ProcessMessages, "returns at once without a window")
}

func TestLimitOrDontCare(t *testing.T) {
	assert.Equal(t, 640, limitOrDontCare(640))
	assert.Less(t, limitOrDontCare(0), 0)
}
