package window

import (
	"fmt"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// glfwWindow is the GLFW side of an engineWindow.
type glfwWindow struct {
	window  *glfw.Window
	closing bool
}

// openGLFWWindow creates the GLFW window for w and routes its events to w.
// GLFW must stay on one OS thread, so the calling thread is locked.
func openGLFWWindow(w *engineWindow) error {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	// WebGPU owns the surface; no OpenGL context.
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)

	win, err := glfw.CreateWindow(w.width, w.height, w.title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return fmt.Errorf("failed to create GLFW window: %w", err)
	}
	win.SetSizeLimits(limitOrDontCare(w.limits.minWidth), limitOrDontCare(w.limits.minHeight),
		limitOrDontCare(w.limits.maxWidth), limitOrDontCare(w.limits.maxHeight))

	gw := &glfwWindow{window: win}
	w.platform = gw

	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if key == glfw.KeyUnknown || action == glfw.Repeat {
			return
		}
		if w.closeOnEscape && key == glfw.KeyEscape {
			if action == glfw.Press {
				gw.closing = true
				win.SetShouldClose(true)
			}
			return
		}
		w.keyEvent(uint32(key), action == glfw.Press)
	})

	win.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		if button != glfw.MouseButtonRight {
			return
		}
		x, y := win.GetCursorPos()
		w.rightButtonEvent(int32(x), int32(y), action == glfw.Press)
	})

	win.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		w.cursorEvent(int32(x), int32(y))
	})

	// The framebuffer size is what the surface needs; it differs from the window size on
	// high-DPI displays.
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.resizeEvent(width, height)
	})

	win.SetFocusCallback(func(_ *glfw.Window, focused bool) {
		w.focusEvent(focused)
	})

	w.width, w.height = win.GetFramebufferSize()
	return nil
}

func limitOrDontCare(limit int) int {
	if limit <= 0 {
		return glfw.DontCare
	}
	return limit
}

func (gw *glfwWindow) surfaceDescriptor() *wgpu.SurfaceDescriptor {
	return wgpuglfw.GetSurfaceDescriptor(gw.window)
}

func (gw *glfwWindow) open() bool {
	return !gw.closing && !gw.window.ShouldClose()
}

// poll handles pending events without blocking.
func (gw *glfwWindow) poll() {
	glfw.PollEvents()
}

func (gw *glfwWindow) destroy() {
	gw.closing = true
	gw.window.Destroy()
	glfw.Terminate()
}
