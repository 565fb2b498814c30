package window

import (
	"fmt"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
)

// Window is the game window: it pumps platform events on the main thread, forwards
// keyboard and mouse input, and hands out the surface the renderer draws into.
//
// Every callback runs on the main thread inside ProcessMessages.
type Window interface {
	// SetUpdateCallback sets the function called once per message loop iteration.
	// It is the only place where the window may be changed while the game runs.
	//
	// Parameters:
	//   - callback: function to call, nil to disable
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function called when the framebuffer is resized.
	//
	// Parameters:
	//   - callback: function receiving the new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetKeyDownCallback sets the callback for key presses. Auto-repeat is not reported.
	//
	// Parameters:
	//   - callback: function receiving the key code, see the common package
	SetKeyDownCallback(callback func(keyCode uint32))

	// SetKeyUpCallback sets the callback for key releases.
	//
	// Parameters:
	//   - callback: function receiving the key code
	SetKeyUpCallback(callback func(keyCode uint32))

	// SetRightMouseDownCallback sets the callback for right mouse button presses.
	//
	// Parameters:
	//   - callback: function receiving the cursor position
	SetRightMouseDownCallback(callback func(x, y int32))

	// SetRightMouseUpCallback sets the callback for right mouse button releases.
	//
	// Parameters:
	//   - callback: function receiving the cursor position
	SetRightMouseUpCallback(callback func(x, y int32))

	// SetMouseMoveCallback sets the callback for cursor movement.
	//
	// Parameters:
	//   - callback: function receiving the cursor position
	SetMouseMoveCallback(callback func(x, y int32))

	// SetFocusLostCallback sets the function called when the window loses keyboard focus.
	// Key releases that happen while unfocused are never delivered, so held keys should be
	// dropped here.
	//
	// Parameters:
	//   - callback: function to call, nil to disable
	SetFocusLostCallback(callback func())

	// SurfaceDescriptor returns the platform surface descriptor for WebGPU.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the descriptor, nil if the window is not open
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning reports whether the window is still open.
	//
	// Returns:
	//   - bool: false once the window was closed
	IsRunning() bool

	// Close destroys the window and shuts GLFW down.
	//
	// Returns:
	//   - error: if the window was never opened
	Close() error

	// ProcessMessages pumps events until the window closes.
	ProcessMessages()

	// SetTitle replaces the text in the title bar.
	//
	// Parameters:
	//   - title: the new title
	SetTitle(title string)

	// Width returns the framebuffer width in pixels.
	Width() int

	// Height returns the framebuffer height in pixels.
	Height() int
}

type sizeLimits struct {
	minWidth, minHeight int
	maxWidth, maxHeight int
}

// engineWindow implements Window on top of GLFW.
type engineWindow struct {
	title         string
	width, height int
	limits        sizeLimits
	closeOnEscape bool

	platform *glfwWindow

	onUpdate         func()
	onResize         func(width, height int)
	onKeyDown        func(keyCode uint32)
	onKeyUp          func(keyCode uint32)
	onRightMouseDown func(x, y int32)
	onRightMouseUp   func(x, y int32)
	onMouseMove      func(x, y int32)
	onFocusLost      func()
}

var _ Window = &engineWindow{}

// NewWindow opens a window with the given options.
// Must be called from the main goroutine; the calling OS thread is locked for GLFW.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the open window
//   - error: if GLFW could not create the window
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := &engineWindow{
		title:         "Snake3D",
		width:         1280,
		height:        720,
		limits:        sizeLimits{minWidth: 600, minHeight: 200},
		closeOnEscape: true,
	}
	for _, opt := range options {
		opt(w)
	}
	if w.width <= 0 || w.height <= 0 {
		return nil, fmt.Errorf("invalid window size %dx%d", w.width, w.height)
	}
	if err := openGLFWWindow(w); err != nil {
		return nil, fmt.Errorf("failed to create platform window: %w", err)
	}
	return w, nil
}

func (w *engineWindow) SetUpdateCallback(callback func()) {
	w.onUpdate = callback
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *engineWindow) SetKeyDownCallback(callback func(keyCode uint32)) {
	w.onKeyDown = callback
}

func (w *engineWindow) SetKeyUpCallback(callback func(keyCode uint32)) {
	w.onKeyUp = callback
}

func (w *engineWindow) SetRightMouseDownCallback(callback func(x, y int32)) {
	w.onRightMouseDown = callback
}

func (w *engineWindow) SetRightMouseUpCallback(callback func(x, y int32)) {
	w.onRightMouseUp = callback
}

func (w *engineWindow) SetMouseMoveCallback(callback func(x, y int32)) {
	w.onMouseMove = callback
}

func (w *engineWindow) SetFocusLostCallback(callback func()) {
	w.onFocusLost = callback
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	if w.platform == nil {
		return nil
	}
	return w.platform.surfaceDescriptor()
}

func (w *engineWindow) IsRunning() bool {
	return w.platform != nil && w.platform.open()
}

func (w *engineWindow) Close() error {
	if w.platform == nil {
		return fmt.Errorf("window is not open")
	}
	w.platform.destroy()
	w.platform = nil
	return nil
}

func (w *engineWindow) ProcessMessages() {
	for w.IsRunning() {
		w.platform.poll()
		if !w.IsRunning() {
			break
		}
		if w.onUpdate != nil {
			w.onUpdate()
		}
		runtime.Gosched()
	}
}

func (w *engineWindow) SetTitle(title string) {
	w.title = title
	if w.platform != nil {
		w.platform.window.SetTitle(title)
	}
}

func (w *engineWindow) Width() int {
	return w.width
}

func (w *engineWindow) Height() int {
	return w.height
}

// Event dispatch. The GLFW callbacks translate their arguments and call these.

func (w *engineWindow) keyEvent(key uint32, down bool) {
	switch {
	case down && w.onKeyDown != nil:
		w.onKeyDown(key)
	case !down && w.onKeyUp != nil:
		w.onKeyUp(key)
	}
}

func (w *engineWindow) rightButtonEvent(x, y int32, down bool) {
	switch {
	case down && w.onRightMouseDown != nil:
		w.onRightMouseDown(x, y)
	case !down && w.onRightMouseUp != nil:
		w.onRightMouseUp(x, y)
	}
}

func (w *engineWindow) cursorEvent(x, y int32) {
	if w.onMouseMove != nil {
		w.onMouseMove(x, y)
	}
}

func (w *engineWindow) resizeEvent(width, height int) {
	w.width, w.height = width, height
	if w.onResize != nil {
		w.onResize(width, height)
	}
}

func (w *engineWindow) focusEvent(focused bool) {
	if !focused && w.onFocusLost != nil {
		w.onFocusLost()
	}
}
