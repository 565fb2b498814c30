package renderer

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// MSAASampleCount controls the number of samples used for multisample anti-aliasing (MSAA).
// WebGPU guarantees support for 1 (off) and 4.
type MSAASampleCount uint32

const (
	// MSAAOff disables multisample anti-aliasing (sample count 1).
	MSAAOff MSAASampleCount = 1

	// MSAA4x enables 4× multisample anti-aliasing. This is the default.
	MSAA4x MSAASampleCount = 4
)

// RendererBackend is the GPU side of the Renderer. The Renderer prepares instance data on the
// CPU and the backend uploads and draws it.
type RendererBackend interface {
	// ConfigureSurface (re)creates the swapchain and the depth target for a new surface size.
	// Sizes of zero are ignored.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	ConfigureSurface(width, height int)

	// DrawInstances clears the surface, draws count unit boxes described by instances and presents.
	//
	// Parameters:
	//   - instances: InstanceFloats values per box (clip matrix then RGBA color)
	//   - count: the number of boxes
	//
	// Returns:
	//   - error: if the surface texture could not be acquired or the commands failed
	DrawInstances(instances []float32, count int) error

	// Release frees the GPU resources held by the backend.
	Release()
}
