package renderer

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/eriks112/Snake3D/common"
	"github.com/eriks112/Snake3D/engine/scene"
	"github.com/rs/zerolog"
)

// InstanceFloats is the number of float32 values per drawn box: a column-major clip matrix
// followed by an RGBA color.
const InstanceFloats = 20

// Style is the placeholder look of a model path: a colored box of the given size.
type Style struct {
	Color [4]float32
	Size  [3]float32
}

// DefaultStyle is used for model paths without a registered style.
var DefaultStyle = Style{
	Color: [4]float32{0.7, 0.7, 0.7, 1},
	Size:  [3]float32{40, 40, 40},
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backend RendererBackend
	styles  map[string]Style
	loaded  map[string]struct{}

	instances []float32
	drawn     int
	culled    int

	log zerolog.Logger

	// Pre-creation config collected from builder options
	surfaceDescriptor    *wgpu.SurfaceDescriptor
	width, height        int
	forceFallbackAdapter bool
	presentMode          PresentMode
	sampleCount          MSAASampleCount
	clearColor           [4]float64
}

// Renderer draws the baked scene frames. Every visible object with a model path is drawn as a
// box styled by its path, and objects outside the camera frustum are skipped.
//
// The Renderer also serves as the model loader of the game: LoadModel registers a path so the
// renderer knows how to draw it.
type Renderer interface {
	// LoadModel registers a model path. Paths without a style get DefaultStyle.
	//
	// Parameters:
	//   - path: the opaque model path
	//
	// Returns:
	//   - error: if the path is empty
	LoadModel(path string) error

	// Loaded reports whether LoadModel was called for the path.
	//
	// Parameters:
	//   - path: the model path
	//
	// Returns:
	//   - bool: true if the path was loaded
	Loaded(path string) bool

	// Style returns the style used to draw a model path.
	//
	// Parameters:
	//   - path: the model path
	//
	// Returns:
	//   - Style: the registered style, or DefaultStyle
	Style(path string) Style

	// SetStyle sets the style of a model path.
	//
	// Parameters:
	//   - path: the model path
	//   - style: the box color and size
	SetStyle(path string, style Style)

	// Resize configures the backend for a new surface size.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	Resize(width, height int)

	// Render draws the frames in order. Later frames draw over earlier ones.
	//
	// Parameters:
	//   - frames: the baked frames, one per active scene
	//
	// Returns:
	//   - error: if the backend failed to draw
	Render(frames []scene.Frame) error

	// Stats returns the instance counts of the last Render.
	//
	// Returns:
	//   - drawn: the boxes drawn
	//   - culled: the visible objects skipped by the frustum test
	Stats() (drawn, culled int)

	// Release frees the backend.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a Renderer. With WithSurface the WebGPU backend is created on the
// calling goroutine; without a surface or backend the renderer only prepares instance data.
//
// Parameters:
//   - options: functional options for the renderer
//
// Returns:
//   - Renderer: the new renderer
//   - error: if the GPU backend could not be created
func NewRenderer(options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		mu:          &sync.Mutex{},
		styles:      make(map[string]Style),
		loaded:      make(map[string]struct{}),
		log:         zerolog.Nop(),
		presentMode: PresentModeVSync,
		sampleCount: MSAA4x,
		clearColor:  [4]float64{0.1, 0.1, 0.1, 1},
	}
	for _, option := range options {
		option(r)
	}

	if r.backend == nil && r.surfaceDescriptor != nil {
		b, err := newWGPURendererBackend(r.surfaceDescriptor, r.forceFallbackAdapter, r.presentMode, r.sampleCount, r.clearColor)
		if err != nil {
			return nil, fmt.Errorf("failed to create wgpu backend: %w", err)
		}
		r.backend = b
		r.log.Info().Int("width", r.width).Int("height", r.height).Msg("wgpu renderer created")
	}
	if r.backend != nil {
		r.backend.ConfigureSurface(r.width, r.height)
	}
	return r, nil
}

func (r *renderer) LoadModel(path string) error {
	if path == "" {
		return errors.New("empty model path")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.loaded[path] = struct{}{}
	if _, ok := r.styles[path]; !ok {
		r.log.Debug().Str("path", path).Msg("model has no style, using default")
	}
	return nil
}

func (r *renderer) Loaded(path string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.loaded[path]
	return ok
}

func (r *renderer) Style(path string) Style {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.styleLocked(path)
}

func (r *renderer) styleLocked(path string) Style {
	if s, ok := r.styles[path]; ok {
		return s
	}
	return DefaultStyle
}

func (r *renderer) SetStyle(path string, style Style) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.styles[path] = style
}

func (r *renderer) Resize(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.width, r.height = width, height
	if r.backend != nil {
		r.backend.ConfigureSurface(width, height)
	}
}

func (r *renderer) Render(frames []scene.Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.instances = r.instances[:0]
	r.drawn, r.culled = 0, 0
	for _, f := range frames {
		frustum := common.ExtractFrustumFromMatrix(f.ViewProjection[:])
		for _, obj := range f.Visible() {
			if obj.ModelPath == "" {
				continue
			}
			style := r.styleLocked(obj.ModelPath)
			center := [3]float32{obj.Matrix[12], obj.Matrix[13], obj.Matrix[14]}
			if !frustum.SphereInside(center, boundingRadius(obj.Matrix, style.Size)) {
				r.culled++
				continue
			}
			r.instances = appendInstance(r.instances, f.ViewProjection, obj.Matrix, style)
			r.drawn++
		}
	}

	if r.backend == nil {
		return nil
	}
	return r.backend.DrawInstances(r.instances, r.drawn)
}

func (r *renderer) Stats() (drawn, culled int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.drawn, r.culled
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.backend != nil {
		r.backend.Release()
		r.backend = nil
	}
}

// appendInstance appends viewProj * model * scale(size) and the style color.
func appendInstance(dst []float32, viewProj, model [16]float32, style Style) []float32 {
	sized := model
	for col := range 3 {
		for row := range 4 {
			sized[col*4+row] *= style.Size[col]
		}
	}
	var clip [16]float32
	common.Mul4(clip[:], viewProj[:], sized[:])
	dst = append(dst, clip[:]...)
	return append(dst, style.Color[:]...)
}

// boundingRadius is the half diagonal of the styled box under the largest axis scale of model.
func boundingRadius(model [16]float32, size [3]float32) float32 {
	var maxScale float32
	for col := range 3 {
		axis := [3]float32{model[col*4], model[col*4+1], model[col*4+2]}
		maxScale = float32(math.Max(float64(maxScale), float64(common.Length3(axis))))
	}
	return common.Length3(size) / 2 * maxScale
}
