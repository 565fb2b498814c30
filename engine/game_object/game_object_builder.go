package game_object

// GameObjectBuilderOption is a functional option for configuring a GameObject during construction.
type GameObjectBuilderOption func(*gameObject)

// WithID sets the ID of the GameObject.
//
// Parameters:
//   - id: unique identifier for the GameObject
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the ID
func WithID(id uint64) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.id = id
	}
}

// WithName sets a display name used in logs and the debug overlay.
//
// Parameters:
//   - name: the display name
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the name
func WithName(name string) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.name = name
	}
}

// WithKind sets the kind tag of the GameObject. Defaults to KindRenderable.
//
// Parameters:
//   - kind: the object kind
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the kind
func WithKind(kind Kind) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.kind = kind
	}
}

// WithVisible sets whether the GameObject is drawn. Defaults to true.
//
// Parameters:
//   - visible: true to draw the object
//
// Returns:
//   - GameObjectBuilderOption: functional option to set visibility
func WithVisible(visible bool) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.visible = visible
	}
}

// WithModelPath sets the opaque asset path handed to the model loader.
//
// Parameters:
//   - path: the model file path
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the model path
func WithModelPath(path string) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.modelPath = path
	}
}

// WithPosition sets the initial position of the GameObject.
//
// Parameters:
//   - x: the x position
//   - y: the y position
//   - z: the z position
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the initial position
func WithPosition(x, y, z float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.position = [3]float32{x, y, z}
	}
}

// WithRotation sets the initial rotation of the GameObject.
//
// Parameters:
//   - rx: the x rotation angle (pitch)
//   - ry: the y rotation angle (yaw)
//   - rz: the z rotation angle (roll)
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the initial rotation
func WithRotation(rx, ry, rz float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.rotation = [3]float32{rx, ry, rz}
	}
}

// WithScale sets the initial scale of the GameObject.
//
// Parameters:
//   - sx: the x scale factor
//   - sy: the y scale factor
//   - sz: the z scale factor
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the initial scale
func WithScale(sx, sy, sz float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.scale = [3]float32{sx, sy, sz}
	}
}

// WithParentTracking sets whether the object follows its parent's transform each frame. Defaults to true.
//
// Parameters:
//   - tracking: true to follow the parent
//
// Returns:
//   - GameObjectBuilderOption: functional option to set parent tracking
func WithParentTracking(tracking bool) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.parentTracking = tracking
	}
}

// WithParentOffset sets the tracking offset along the parent's forward, up and right axes.
//
// Parameters:
//   - forward: offset along the parent's forward vector
//   - up: offset along the parent's up vector
//   - right: offset along the parent's right vector
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the parent offset
func WithParentOffset(forward, up, right float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.parentOffset = [3]float32{forward, up, right}
	}
}

// WithParentRotationOffset sets the rotation added to the parent's rotation while tracking.
//
// Parameters:
//   - rx, ry, rz: the Euler offset in radians
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the parent rotation offset
func WithParentRotationOffset(rx, ry, rz float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.parentRotationOffset = [3]float32{rx, ry, rz}
	}
}
