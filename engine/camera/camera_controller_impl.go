package camera

import (
	"sync"

	"github.com/eriks112/Snake3D/common"
	"github.com/eriks112/Snake3D/engine/game_object"
)

// cameraControllerImpl is the single implementation of CameraController.
type cameraControllerImpl struct {
	mu *sync.Mutex

	camera  Camera
	light   game_object.GameObject
	enabled bool

	// units per millisecond
	speed      float32
	boostSpeed float32

	mouseSensitivity float32

	// divides the speed into radians per millisecond for the rig orbit
	orbitDivisor float32
}

// Compile-time interface compliance check
var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates a controller for cam. Free-fly control starts disabled.
//
// Parameters:
//   - cam: the camera to drive
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(cam Camera, options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		mu:               &sync.Mutex{},
		camera:           cam,
		speed:            0.4,
		boostSpeed:       0.8,
		mouseSensitivity: 0.01,
		orbitDivisor:     200,
	}

	for _, option := range options {
		option(cc)
	}
	return cc
}

func (cc *cameraControllerImpl) Camera() Camera {
	return cc.camera
}

func (cc *cameraControllerImpl) Enabled() bool {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.enabled
}

func (cc *cameraControllerImpl) SetEnabled(enabled bool) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.enabled = enabled
}

func (cc *cameraControllerImpl) Light() game_object.GameObject {
	return cc.light
}

func (cc *cameraControllerImpl) Update(keys KeyQuery, dt float32) bool {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	if cc.enabled {
		cc.fly(keys, dt)
		return true
	}

	if rig := cc.camera.Rig(); rig != nil {
		orbit := cc.speed * dt / cc.orbitDivisor
		if keys.Pressed(common.KeyLeft) {
			rig.AdjustParentRotationOffset([3]float32{0, -orbit, 0})
		}
		if keys.Pressed(common.KeyRight) {
			rig.AdjustParentRotationOffset([3]float32{0, orbit, 0})
		}
	}
	return false
}

func (cc *cameraControllerImpl) Look(dx, dy float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	if !cc.enabled {
		return
	}
	cc.camera.Node().AdjustRotation([3]float32{dy * cc.mouseSensitivity, dx * cc.mouseSensitivity, 0})
}

// fly moves the camera along its own axes. Caller must hold the mutex.
func (cc *cameraControllerImpl) fly(keys KeyQuery, dt float32) {
	node := cc.camera.Node()

	speed := cc.speed
	if keys.Pressed(common.KeyLeftShift) || keys.Pressed(common.KeyRightShift) {
		speed = cc.boostSpeed
	}
	dist := speed * dt

	if keys.Pressed(common.KeyW) {
		node.AdjustPosition(common.Scale3(node.ForwardVector(false), dist))
	}
	if keys.Pressed(common.KeyS) {
		node.AdjustPosition(common.Scale3(node.BackwardVector(false), dist))
	}
	if keys.Pressed(common.KeyA) {
		node.AdjustPosition(common.Scale3(node.LeftVector(false), dist))
	}
	if keys.Pressed(common.KeyD) {
		node.AdjustPosition(common.Scale3(node.RightVector(false), dist))
	}
	if keys.Pressed(common.KeySpace) {
		node.AdjustPosition([3]float32{0, dist, 0})
	}
	if keys.Pressed(common.KeyZ) {
		node.AdjustPosition([3]float32{0, -dist, 0})
	}

	if cc.light != nil && keys.Pressed(common.KeyC) {
		cc.light.SetPosition(common.Add3(node.Position(), node.ForwardVector(false)))
		cc.light.SetRotation(node.Rotation())
	}
}
