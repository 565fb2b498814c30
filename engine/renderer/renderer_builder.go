package renderer

import (
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/rs/zerolog"
)

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithSurface makes NewRenderer create the WebGPU backend for the given surface.
//
// Parameters:
//   - descriptor: the platform surface descriptor, usually from the window
//   - width: the initial surface width in pixels
//   - height: the initial surface height in pixels
//
// Returns:
//   - RendererBuilderOption: a function that applies the surface option to a renderer
func WithSurface(descriptor *wgpu.SurfaceDescriptor, width, height int) RendererBuilderOption {
	return func(r *renderer) {
		r.surfaceDescriptor = descriptor
		r.width, r.height = width, height
	}
}

// WithBackend sets the backend directly instead of creating the WebGPU one.
//
// Parameters:
//   - backend: the backend to draw with
//
// Returns:
//   - RendererBuilderOption: a function that applies the backend option to a renderer
func WithBackend(backend RendererBackend) RendererBuilderOption {
	return func(r *renderer) {
		r.backend = backend
	}
}

// WithStyle registers the style of a model path.
//
// Parameters:
//   - path: the model path
//   - style: the box color and size
//
// Returns:
//   - RendererBuilderOption: a function that applies the style option to a renderer
func WithStyle(path string, style Style) RendererBuilderOption {
	return func(r *renderer) {
		r.styles[path] = style
	}
}

// WithClearColor sets the background color.
//
// Parameters:
//   - red, green, blue, alpha: the color components in [0, 1]
//
// Returns:
//   - RendererBuilderOption: a function that applies the clear color option to a renderer
func WithClearColor(red, green, blue, alpha float64) RendererBuilderOption {
	return func(r *renderer) {
		r.clearColor = [4]float64{red, green, blue, alpha}
	}
}

// WithPresentMode sets the surface present mode which controls how frames are delivered to the display.
//
// Parameters:
//   - mode: the PresentMode to use (VSync or Uncapped)
//
// Returns:
//   - RendererBuilderOption: a function that applies the present mode option to a renderer
func WithPresentMode(mode PresentMode) RendererBuilderOption {
	return func(r *renderer) {
		r.presentMode = mode
	}
}

// WithMSAA sets the multisample anti-aliasing sample count. The default is MSAA4x.
//
// Parameters:
//   - count: MSAAOff or MSAA4x
//
// Returns:
//   - RendererBuilderOption: a function that applies the MSAA option to a renderer
func WithMSAA(count MSAASampleCount) RendererBuilderOption {
	return func(r *renderer) {
		r.sampleCount = count
	}
}

// WithForceSoftwareRenderer forces WGPU to use a CPU/software fallback adapter instead of
// hardware GPU acceleration. This requires a software Vulkan ICD to be installed on the system.
//
// Parameters:
//   - force: true to force the software fallback adapter
//
// Returns:
//   - RendererBuilderOption: a function that applies the force software renderer option to a renderer
func WithForceSoftwareRenderer(force bool) RendererBuilderOption {
	return func(r *renderer) {
		r.forceFallbackAdapter = force
	}
}

// WithLogger sets the renderer logger.
//
// Parameters:
//   - logger: the zerolog logger
//
// Returns:
//   - RendererBuilderOption: a function that applies the logger option to a renderer
func WithLogger(logger zerolog.Logger) RendererBuilderOption {
	return func(r *renderer) {
		r.log = logger
	}
}
