package camera

import (
	"math"
	"sync"

	"github.com/eriks112/Snake3D/common"
	"github.com/eriks112/Snake3D/engine/game_object"
)

// Third-person rig placement relative to the followed object.
var (
	// RigOffset is the rig's tracking offset along the target's forward, up and right axes.
	RigOffset = [3]float32{-350, 300, 0}

	// RigRotationOffset tilts the rig down towards the target.
	RigRotationOffset = [3]float32{0.3, 0, 0}
)

type cameraImpl struct {
	mu *sync.Mutex

	node game_object.GameObject

	fov    float32
	aspect float32
	near   float32
	far    float32

	viewMatrix           [16]float32
	projectionMatrix     [16]float32
	viewProjectionMatrix [16]float32

	rig          game_object.GameObject
	freePosition [3]float32
	freeRotation [3]float32
}

// Camera defines the interface for the camera system.
// The camera wraps a KindCamera game object whose world matrix is the view matrix, and
// holds the perspective settings used to build the projection matrix each frame via Update().
type Camera interface {
	// Node returns the game object that carries the camera transform.
	//
	// Returns:
	//   - game_object.GameObject: the camera node
	Node() game_object.GameObject

	// Fov returns the vertical field of view in radians.
	//
	// Returns:
	//   - float32: field of view in radians
	Fov() float32

	// Aspect returns the aspect ratio (width / height).
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

	// Near returns the near clipping plane distance.
	//
	// Returns:
	//   - float32: near plane distance
	Near() float32

	// Far returns the far clipping plane distance.
	//
	// Returns:
	//   - float32: far plane distance
	Far() float32

	// SetAspect sets the aspect ratio, typically after a window resize.
	//
	// Parameters:
	//   - aspect: the aspect ratio to set, ignored if not positive
	SetAspect(aspect float32)

	// SetProjection replaces all perspective settings at once.
	//
	// Parameters:
	//   - fov: vertical field of view in radians
	//   - aspect: width / height
	//   - near: near plane distance
	//   - far: far plane distance
	SetProjection(fov, aspect, near, far float32)

	// ViewMatrix returns the view matrix computed by the last Update.
	//
	// Returns:
	//   - [16]float32: column-major view matrix
	ViewMatrix() [16]float32

	// ProjectionMatrix returns the projection matrix computed by the last Update.
	//
	// Returns:
	//   - [16]float32: column-major projection matrix
	ProjectionMatrix() [16]float32

	// ViewProjectionMatrix returns projection * view computed by the last Update.
	//
	// Returns:
	//   - [16]float32: column-major view-projection matrix
	ViewProjectionMatrix() [16]float32

	// Update rebuilds the node's view matrix and the projection matrices.
	// Call once per frame after parent tracking has moved the node.
	Update()

	// EnableThirdPerson parents the camera to a rig so that it follows the rig's transform.
	// The free camera transform is remembered and restored by DisableThirdPerson.
	//
	// Parameters:
	//   - rig: the rig node, usually created with NewThirdPersonRig
	EnableThirdPerson(rig game_object.GameObject)

	// DisableThirdPerson detaches the camera from its rig and restores the free camera transform.
	// No-op if third person is not enabled.
	DisableThirdPerson()

	// ThirdPerson reports whether the camera is attached to a rig.
	//
	// Returns:
	//   - bool: true while third person is enabled
	ThirdPerson() bool

	// Rig returns the rig the camera is attached to.
	//
	// Returns:
	//   - game_object.GameObject: the rig, nil if third person is disabled
	Rig() game_object.GameObject
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new Camera overlooking the arena with default perspective settings.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu: &sync.Mutex{},
		node: game_object.NewGameObject(
			game_object.WithName("camera"),
			game_object.WithKind(game_object.KindCamera),
			game_object.WithVisible(false),
			game_object.WithPosition(-161, 1020, -840),
			game_object.WithRotation(0.953005, -0.00063, 0),
		),
		fov:    70.0 * (math.Pi / 180.0), // radians
		aspect: 16.0 / 9.0,
		near:   5,
		far:    30000,
	}
	for _, option := range options {
		option(c)
	}
	c.updateMatrices()
	return c
}

// NewThirdPersonRig creates an invisible node that tracks target from behind and above.
// Register it with the scene so that parent tracking moves it every frame.
//
// Parameters:
//   - target: the object to follow, usually the snake head
//
// Returns:
//   - game_object.GameObject: the rig node
func NewThirdPersonRig(target game_object.GameObject) game_object.GameObject {
	rig := game_object.NewGameObject(
		game_object.WithName("camera rig"),
		game_object.WithKind(game_object.KindStatic),
		game_object.WithVisible(false),
	)
	rig.SetParent(target)
	rig.SetParentOffset(RigOffset)
	rig.SetParentRotationOffset(RigRotationOffset)
	return rig
}

func (c *cameraImpl) Node() game_object.GameObject {
	return c.node
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) SetAspect(aspect float32) {
	if aspect <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aspect = aspect
	c.updateMatrices()
}

func (c *cameraImpl) SetProjection(fov, aspect, near, far float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fov, c.aspect, c.near, c.far = fov, aspect, near, far
	c.updateMatrices()
}

func (c *cameraImpl) ViewMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *cameraImpl) ViewProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProjectionMatrix
}

func (c *cameraImpl) Update() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.updateMatrices()
}

func (c *cameraImpl) EnableThirdPerson(rig game_object.GameObject) {
	if rig == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.rig == nil {
		c.freePosition = c.node.Position()
		c.freeRotation = c.node.Rotation()
	}
	c.rig = rig
	c.node.SetParentTracking(true)
	c.node.SetParent(rig)
	c.node.SetRotation(rig.Rotation())
	c.updateMatrices()
}

func (c *cameraImpl) DisableThirdPerson() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.rig == nil {
		return
	}
	c.rig = nil
	c.node.SetParent(nil)
	c.node.SetPosition(c.freePosition)
	c.node.SetRotation(c.freeRotation)
	c.updateMatrices()
}

func (c *cameraImpl) ThirdPerson() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rig != nil
}

func (c *cameraImpl) Rig() game_object.GameObject {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rig
}

// updateMatrices recalculates the view, projection and view-projection matrices.
// Caller must hold the mutex.
func (c *cameraImpl) updateMatrices() {
	c.node.UpdateMatrix()
	c.viewMatrix = c.node.WorldMatrix()

	common.Perspective(c.projectionMatrix[:],
		c.fov, c.aspect, c.near, c.far,
	)

	common.Mul4(c.viewProjectionMatrix[:], c.projectionMatrix[:], c.viewMatrix[:])
}
