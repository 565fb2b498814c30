package game_object

import (
	"math"

	"github.com/eriks112/Snake3D/common"
)

// Kind tags what an object is used for. UpdateMatrix selects the world matrix
// computation from the kind instead of dispatching through a type hierarchy.
type Kind int

const (
	// KindStatic is a transform-only object that is never drawn (camera rigs, markers).
	KindStatic Kind = iota

	// KindRenderable is an object with a model that the renderer draws.
	KindRenderable

	// KindCamera is a viewpoint. Its world matrix is the view matrix.
	KindCamera

	// KindLight is a light source positioned in the scene.
	KindLight
)

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case KindRenderable:
		return "renderable"
	case KindCamera:
		return "camera"
	case KindLight:
		return "light"
	default:
		return "static"
	}
}

var (
	defaultForward  = [3]float32{0, 0, 1}
	defaultBackward = [3]float32{0, 0, -1}
	defaultLeft     = [3]float32{-1, 0, 0}
	defaultRight    = [3]float32{1, 0, 0}
	defaultUp       = [3]float32{0, 1, 0}
	defaultDown     = [3]float32{0, -1, 0}
)

type gameObject struct {
	id        uint64
	name      string
	kind      Kind
	visible   bool
	modelPath string

	position [3]float32
	rotation [3]float32
	scale    [3]float32

	animationActive bool

	parent               GameObject
	parentTracking       bool
	parentOffset         [3]float32
	parentRotationOffset [3]float32

	worldMatrix [16]float32

	forward, backward       [3]float32
	left, right             [3]float32
	up, down                [3]float32
	forwardNoY, backwardNoY [3]float32
	leftNoY, rightNoY       [3]float32
}

// GameObject is a positioned, rotated and scaled scene entity.
// Rotation is stored as Euler angles in radians (pitch, yaw, roll). Direction vectors
// and the world matrix are recomputed whenever the transform changes.
//
// The animation-active flag is owned by the animation scheduler: it is true while exactly
// one animation targets the object and must not be toggled by anything else.
type GameObject interface {
	// ID returns the object's unique identifier.
	//
	// Returns:
	//   - uint64: the object ID
	ID() uint64

	// SetID sets the object's unique identifier.
	//
	// Parameters:
	//   - id: the ID to assign
	SetID(id uint64)

	// Name returns the object's display name.
	//
	// Returns:
	//   - string: the name, empty if unset
	Name() string

	// Kind returns the kind tag used to select the world matrix computation.
	//
	// Returns:
	//   - Kind: the object kind
	Kind() Kind

	// Visible returns whether the renderer should draw this object.
	//
	// Returns:
	//   - bool: true if visible
	Visible() bool

	// SetVisible sets whether the renderer should draw this object.
	//
	// Parameters:
	//   - visible: true to draw the object
	SetVisible(visible bool)

	// ModelPath returns the opaque asset path handed to the model loader.
	//
	// Returns:
	//   - string: the model path, empty for objects without a model
	ModelPath() string

	// SetModelPath replaces the asset path, e.g. when a tail segment is promoted to a body segment.
	//
	// Parameters:
	//   - path: the new model path
	SetModelPath(path string)

	// Position returns the world-space position.
	//
	// Returns:
	//   - [3]float32: position (x, y, z)
	Position() [3]float32

	// Rotation returns the Euler rotation in radians.
	//
	// Returns:
	//   - [3]float32: rotation (pitch, yaw, roll)
	Rotation() [3]float32

	// Scale returns the scale factors.
	//
	// Returns:
	//   - [3]float32: scale (x, y, z)
	Scale() [3]float32

	// SetPosition sets the absolute position.
	//
	// Parameters:
	//   - pos: the new position
	SetPosition(pos [3]float32)

	// SetRotation sets the absolute rotation.
	//
	// Parameters:
	//   - rot: the new Euler rotation in radians
	SetRotation(rot [3]float32)

	// SetScale sets the absolute scale.
	//
	// Parameters:
	//   - scale: the new scale factors
	SetScale(scale [3]float32)

	// AdjustPosition adds a relative offset to the position.
	//
	// Parameters:
	//   - delta: the offset to add
	AdjustPosition(delta [3]float32)

	// AdjustRotation adds a relative rotation.
	//
	// Parameters:
	//   - delta: the Euler angles to add in radians
	AdjustRotation(delta [3]float32)

	// AdjustScale adds a relative change to the scale.
	//
	// Parameters:
	//   - delta: the scale change to add
	AdjustScale(delta [3]float32)

	// ForwardVector returns the unit vector the object faces (+Z rotated).
	//
	// Parameters:
	//   - omitY: if true the vector is derived from yaw only and stays on the XZ plane
	//
	// Returns:
	//   - [3]float32: the forward direction
	ForwardVector(omitY bool) [3]float32

	// BackwardVector returns the opposite of ForwardVector.
	//
	// Parameters:
	//   - omitY: if true the vector is derived from yaw only
	//
	// Returns:
	//   - [3]float32: the backward direction
	BackwardVector(omitY bool) [3]float32

	// LeftVector returns the object's local -X axis in world space.
	//
	// Parameters:
	//   - omitY: if true the vector is derived from yaw only
	//
	// Returns:
	//   - [3]float32: the left direction
	LeftVector(omitY bool) [3]float32

	// RightVector returns the object's local +X axis in world space.
	//
	// Parameters:
	//   - omitY: if true the vector is derived from yaw only
	//
	// Returns:
	//   - [3]float32: the right direction
	RightVector(omitY bool) [3]float32

	// UpVector returns the object's local +Y axis in world space.
	//
	// Returns:
	//   - [3]float32: the up direction
	UpVector() [3]float32

	// DownVector returns the object's local -Y axis in world space.
	//
	// Returns:
	//   - [3]float32: the down direction
	DownVector() [3]float32

	// WorldMatrix returns the last computed world matrix (column-major).
	// For camera objects this is the view matrix.
	//
	// Returns:
	//   - [16]float32: the world matrix
	WorldMatrix() [16]float32

	// UpdateMatrix recomputes the direction vectors and world matrix from the current transform.
	UpdateMatrix()

	// ComputeWorldMatrix builds the world matrix from the current transform without storing it.
	// It only reads the object and is safe to call from several goroutines while nothing mutates it.
	//
	// Returns:
	//   - [16]float32: the world matrix
	ComputeWorldMatrix() [16]float32

	// AnimationActive reports whether an animation currently targets this object.
	//
	// Returns:
	//   - bool: true while an animation is registered for this object
	AnimationActive() bool

	// SetAnimationActive is called by the animation scheduler when it registers or
	// removes the object's animation.
	//
	// Parameters:
	//   - active: the new flag state
	SetAnimationActive(active bool)

	// Parent returns the parent object, or nil.
	//
	// Returns:
	//   - GameObject: the parent or nil
	Parent() GameObject

	// SetParent attaches the object to a parent and resets the position offset.
	// If parent tracking is enabled the object is moved onto the parent immediately.
	// Passing nil detaches the object.
	//
	// Parameters:
	//   - parent: the new parent, or nil to detach
	SetParent(parent GameObject)

	// ParentTracking reports whether the scene copies the parent's transform onto this object each frame.
	//
	// Returns:
	//   - bool: true if tracking is enabled
	ParentTracking() bool

	// SetParentTracking enables or disables parent tracking.
	//
	// Parameters:
	//   - tracking: true to follow the parent's transform
	SetParentTracking(tracking bool)

	// ParentOffset returns the tracking offset along the parent's forward, up and right axes.
	//
	// Returns:
	//   - [3]float32: (forward, up, right) offset
	ParentOffset() [3]float32

	// SetParentOffset sets the tracking offset along the parent's forward, up and right axes.
	//
	// Parameters:
	//   - offset: (forward, up, right) offset
	SetParentOffset(offset [3]float32)

	// ParentRotationOffset returns the rotation added to the parent's rotation while tracking.
	//
	// Returns:
	//   - [3]float32: the Euler offset in radians
	ParentRotationOffset() [3]float32

	// SetParentRotationOffset sets the rotation added to the parent's rotation while tracking.
	//
	// Parameters:
	//   - offset: the Euler offset in radians
	SetParentRotationOffset(offset [3]float32)

	// AdjustParentRotationOffset adds to the tracking rotation offset.
	//
	// Parameters:
	//   - delta: the Euler angles to add in radians
	AdjustParentRotationOffset(delta [3]float32)

	// SetLookAt rotates the object so that its forward vector points at target.
	// No-op if target equals the object's position.
	//
	// Parameters:
	//   - target: the world-space point to face
	SetLookAt(target [3]float32)
}

var _ GameObject = &gameObject{}

// NewGameObject creates a new GameObject configured with the given options.
// Objects start at the origin with unit scale, visible and with parent tracking enabled.
//
// Parameters:
//   - options: functional options to configure the object
//
// Returns:
//   - GameObject: the newly created object
func NewGameObject(options ...GameObjectBuilderOption) GameObject {
	obj := &gameObject{
		kind:           KindRenderable,
		visible:        true,
		scale:          [3]float32{1, 1, 1},
		parentTracking: true,
	}
	for _, option := range options {
		option(obj)
	}
	obj.UpdateMatrix()
	return obj
}

func (g *gameObject) ID() uint64 {
	return g.id
}

func (g *gameObject) SetID(id uint64) {
	g.id = id
}

func (g *gameObject) Name() string {
	return g.name
}

func (g *gameObject) Kind() Kind {
	return g.kind
}

func (g *gameObject) Visible() bool {
	return g.visible
}

func (g *gameObject) SetVisible(visible bool) {
	g.visible = visible
}

func (g *gameObject) ModelPath() string {
	return g.modelPath
}

func (g *gameObject) SetModelPath(path string) {
	g.modelPath = path
}

func (g *gameObject) Position() [3]float32 {
	return g.position
}

func (g *gameObject) Rotation() [3]float32 {
	return g.rotation
}

func (g *gameObject) Scale() [3]float32 {
	return g.scale
}

func (g *gameObject) SetPosition(pos [3]float32) {
	g.position = pos
	g.UpdateMatrix()
}

func (g *gameObject) SetRotation(rot [3]float32) {
	g.rotation = rot
	g.UpdateMatrix()
}

func (g *gameObject) SetScale(scale [3]float32) {
	g.scale = scale
	g.UpdateMatrix()
}

func (g *gameObject) AdjustPosition(delta [3]float32) {
	g.position = common.Add3(g.position, delta)
	g.UpdateMatrix()
}

func (g *gameObject) AdjustRotation(delta [3]float32) {
	g.rotation = common.Add3(g.rotation, delta)
	g.UpdateMatrix()
}

func (g *gameObject) AdjustScale(delta [3]float32) {
	g.scale = common.Add3(g.scale, delta)
	g.UpdateMatrix()
}

func (g *gameObject) ForwardVector(omitY bool) [3]float32 {
	if omitY {
		return g.forwardNoY
	}
	return g.forward
}

func (g *gameObject) BackwardVector(omitY bool) [3]float32 {
	if omitY {
		return g.backwardNoY
	}
	return g.backward
}

func (g *gameObject) LeftVector(omitY bool) [3]float32 {
	if omitY {
		return g.leftNoY
	}
	return g.left
}

func (g *gameObject) RightVector(omitY bool) [3]float32 {
	if omitY {
		return g.rightNoY
	}
	return g.right
}

func (g *gameObject) UpVector() [3]float32 {
	return g.up
}

func (g *gameObject) DownVector() [3]float32 {
	return g.down
}

func (g *gameObject) WorldMatrix() [16]float32 {
	return g.worldMatrix
}

// UpdateMatrix refreshes the direction vectors, then stores the world matrix for the object's kind.
func (g *gameObject) UpdateMatrix() {
	g.updateDirectionVectors()
	g.worldMatrix = g.ComputeWorldMatrix()
}

// ComputeWorldMatrix selects the matrix by kind. Cameras get a view matrix looking down their
// forward vector; every other kind gets a scale * rotation * translation model matrix.
func (g *gameObject) ComputeWorldMatrix() [16]float32 {
	var m [16]float32
	p, r, s := g.position, g.rotation, g.scale
	switch g.kind {
	case KindCamera:
		center := common.Add3(p, g.forward)
		common.LookAt(m[:], p[0], p[1], p[2], center[0], center[1], center[2], g.up[0], g.up[1], g.up[2])
	default:
		common.BuildModelMatrix(m[:], p[0], p[1], p[2], r[0], r[1], r[2], s[0], s[1], s[2])
	}
	return m
}

// updateDirectionVectors derives the six local axes from pitch and yaw. Roll is ignored so
// that a rolling object keeps moving in the same direction.
func (g *gameObject) updateDirectionVectors() {
	pitch, yaw := g.rotation[0], g.rotation[1]

	g.forward = common.RotateDirection(defaultForward, pitch, yaw, 0)
	g.backward = common.RotateDirection(defaultBackward, pitch, yaw, 0)
	g.left = common.RotateDirection(defaultLeft, pitch, yaw, 0)
	g.right = common.RotateDirection(defaultRight, pitch, yaw, 0)
	g.up = common.RotateDirection(defaultUp, pitch, yaw, 0)
	g.down = common.RotateDirection(defaultDown, pitch, yaw, 0)

	g.forwardNoY = common.RotateDirection(defaultForward, 0, yaw, 0)
	g.backwardNoY = common.RotateDirection(defaultBackward, 0, yaw, 0)
	g.leftNoY = common.RotateDirection(defaultLeft, 0, yaw, 0)
	g.rightNoY = common.RotateDirection(defaultRight, 0, yaw, 0)
}

func (g *gameObject) AnimationActive() bool {
	return g.animationActive
}

func (g *gameObject) SetAnimationActive(active bool) {
	g.animationActive = active
}

func (g *gameObject) Parent() GameObject {
	return g.parent
}

func (g *gameObject) SetParent(parent GameObject) {
	if parent == nil {
		g.parent = nil
		return
	}

	g.parent = parent
	g.parentOffset = [3]float32{}
	if g.parentTracking {
		g.SetPosition(parent.Position())
	}
}

func (g *gameObject) ParentTracking() bool {
	return g.parentTracking
}

func (g *gameObject) SetParentTracking(tracking bool) {
	g.parentTracking = tracking
}

func (g *gameObject) ParentOffset() [3]float32 {
	return g.parentOffset
}

func (g *gameObject) SetParentOffset(offset [3]float32) {
	g.parentOffset = offset
}

func (g *gameObject) ParentRotationOffset() [3]float32 {
	return g.parentRotationOffset
}

func (g *gameObject) SetParentRotationOffset(offset [3]float32) {
	g.parentRotationOffset = offset
}

func (g *gameObject) AdjustParentRotationOffset(delta [3]float32) {
	g.parentRotationOffset = common.Add3(g.parentRotationOffset, delta)
}

func (g *gameObject) SetLookAt(target [3]float32) {
	if target == g.position {
		return
	}

	d := common.Sub3(target, g.position)
	horizontal := common.Length3([3]float32{d[0], 0, d[2]})
	pitch := -atan2(d[1], horizontal)
	yaw := atan2(d[0], d[2])
	g.SetRotation([3]float32{pitch, yaw, 0})
}

func atan2(y, x float32) float32 {
	return float32(math.Atan2(float64(y), float64(x)))
}
