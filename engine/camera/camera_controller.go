package camera

import "github.com/eriks112/Snake3D/engine/game_object"

// KeyQuery reports whether a key is currently held down.
// Key codes are the values in the common package.
type KeyQuery interface {
	Pressed(key uint32) bool
}

// CameraController drives a Camera from keyboard and mouse input.
// While enabled it flies the camera freely and claims the keyboard for itself;
// while the camera is in third person it orbits the rig with the arrow keys.
type CameraController interface {
	// Camera returns the controlled camera.
	//
	// Returns:
	//   - Camera: the camera passed to NewCameraController
	Camera() Camera

	// Enabled reports whether free-fly control is active.
	//
	// Returns:
	//   - bool: true while the free camera is active
	Enabled() bool

	// SetEnabled toggles free-fly control.
	//
	// Parameters:
	//   - enabled: true to fly the camera with the keyboard
	SetEnabled(enabled bool)

	// Update applies one tick of keyboard input.
	//
	// Parameters:
	//   - keys: the current key state
	//   - dt: elapsed time in milliseconds
	//
	// Returns:
	//   - bool: true if the controller consumed the keyboard and game input should be ignored
	Update(keys KeyQuery, dt float32) bool

	// Look rotates the free camera by a mouse movement. No-op unless enabled.
	//
	// Parameters:
	//   - dx: horizontal mouse movement in pixels
	//   - dy: vertical mouse movement in pixels
	Look(dx, dy float32)

	// Light returns the light node that the controller can move to the camera.
	//
	// Returns:
	//   - game_object.GameObject: the light, nil if none was configured
	Light() game_object.GameObject
}
