package camera

import "github.com/eriks112/Snake3D/engine/game_object"

// CameraControllerOption is a functional option for configuring a CameraController.
type CameraControllerOption func(*cameraControllerImpl)

// WithSpeed sets the free-fly speed.
//
// Parameters:
//   - speed: units per millisecond
//
// Returns:
//   - CameraControllerOption: functional option to set the speed
func WithSpeed(speed float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.speed = speed
	}
}

// WithBoostSpeed sets the free-fly speed used while shift is held.
//
// Parameters:
//   - speed: units per millisecond
//
// Returns:
//   - CameraControllerOption: functional option to set the boost speed
func WithBoostSpeed(speed float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.boostSpeed = speed
	}
}

// WithMouseSensitivity sets the mouse look sensitivity.
//
// Parameters:
//   - sensitivity: radians per pixel
//
// Returns:
//   - CameraControllerOption: functional option to set mouse sensitivity
func WithMouseSensitivity(sensitivity float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.mouseSensitivity = sensitivity
	}
}

// WithLight sets the light node that the C key moves to the free camera.
//
// Parameters:
//   - light: the light node
//
// Returns:
//   - CameraControllerOption: functional option to set the light
func WithLight(light game_object.GameObject) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.light = light
	}
}

// WithEnabled sets whether free-fly control starts enabled.
//
// Parameters:
//   - enabled: true to start with the free camera
//
// Returns:
//   - CameraControllerOption: functional option to set the initial state
func WithEnabled(enabled bool) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.enabled = enabled
	}
}
