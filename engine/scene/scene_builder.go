package scene

import (
	"github.com/eriks112/Snake3D/engine/camera"
	"github.com/eriks112/Snake3D/engine/game_object"
	"github.com/rs/zerolog"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithActive sets whether the scene is active for rendering.
//
// Parameters:
//   - active: whether the scene is active
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithActive(active bool) SceneBuilderOption {
	return func(s *scene) {
		s.active = active
	}
}

// WithObjects adds initial objects to the scene.
// Objects without IDs will be assigned new IDs.
//
// Parameters:
//   - objects: the objects to add
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithObjects(objects ...game_object.GameObject) SceneBuilderOption {
	return func(s *scene) {
		for _, obj := range objects {
			if obj != nil {
				s.addLocked(obj)
			}
		}
	}
}

// WithCamera attaches the camera whose matrices are baked into each Frame.
//
// Parameters:
//   - cam: the camera
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithCamera(cam camera.Camera) SceneBuilderOption {
	return func(s *scene) {
		s.cam = cam
	}
}

// WithComputeWorkers sets the number of worker goroutines used by Bake.
// Defaults to runtime.NumCPU()-1.
//
// Parameters:
//   - n: the number of compute workers (minimum 1)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithComputeWorkers(n int) SceneBuilderOption {
	return func(s *scene) {
		if n < 1 {
			n = 1
		}
		s.computeWorkers = n
	}
}

// WithLogger sets the logger used for scene lifecycle messages.
//
// Parameters:
//   - log: the logger
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithLogger(log zerolog.Logger) SceneBuilderOption {
	return func(s *scene) {
		s.log = log
	}
}
