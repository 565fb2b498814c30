package game_object

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-5

func assertVec(t *testing.T, expected, actual [3]float32) {
	t.Helper()
	for i := range expected {
		assert.InDelta(t, expected[i], actual[i], eps, "component %d of %v", i, actual)
	}
}

func TestNewGameObject_Defaults(t *testing.T) {
	obj := NewGameObject()

	assert.Equal(t, KindRenderable, obj.Kind())
	assert.True(t, obj.Visible())
	assert.True(t, obj.ParentTracking())
	assert.False(t, obj.AnimationActive())
	assert.Nil(t, obj.Parent())
	assert.Equal(t, [3]float32{1, 1, 1}, obj.Scale())
	assert.Equal(t, [3]float32{}, obj.Position())
	assertVec(t, [3]float32{0, 0, 1}, obj.ForwardVector(false))
}

func TestNewGameObject_Options(t *testing.T) {
	obj := NewGameObject(
		WithID(7),
		WithName("head"),
		WithKind(KindStatic),
		WithVisible(false),
		WithModelPath("Data/head.fbx"),
		WithPosition(1, 2, 3),
		WithRotation(0, 0.5, 0),
		WithScale(2, 2, 2),
		WithParentTracking(false),
		WithParentOffset(-350, 300, 0),
		WithParentRotationOffset(0.3, 0, 0),
	)

	assert.Equal(t, uint64(7), obj.ID())
	assert.Equal(t, "head", obj.Name())
	assert.Equal(t, KindStatic, obj.Kind())
	assert.Equal(t, "static", obj.Kind().String())
	assert.False(t, obj.Visible())
	assert.Equal(t, "Data/head.fbx", obj.ModelPath())
	assert.Equal(t, [3]float32{1, 2, 3}, obj.Position())
	assert.Equal(t, [3]float32{0, 0.5, 0}, obj.Rotation())
	assert.Equal(t, [3]float32{2, 2, 2}, obj.Scale())
	assert.False(t, obj.ParentTracking())
	assert.Equal(t, [3]float32{-350, 300, 0}, obj.ParentOffset())
	assert.Equal(t, [3]float32{0.3, 0, 0}, obj.ParentRotationOffset())
}

func TestDirectionVectors(t *testing.T) {
	tests := []struct {
		name     string
		rotation [3]float32
		forward  [3]float32
		right    [3]float32
	}{
		{"facing +z", [3]float32{0, 0, 0}, [3]float32{0, 0, 1}, [3]float32{1, 0, 0}},
		{"facing +x", [3]float32{0, math.Pi / 2, 0}, [3]float32{1, 0, 0}, [3]float32{0, 0, -1}},
		{"facing -x", [3]float32{0, -math.Pi / 2, 0}, [3]float32{-1, 0, 0}, [3]float32{0, 0, 1}},
		{"facing -z", [3]float32{0, math.Pi, 0}, [3]float32{0, 0, -1}, [3]float32{-1, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj := NewGameObject(WithRotation(tt.rotation[0], tt.rotation[1], tt.rotation[2]))

			assertVec(t, tt.forward, obj.ForwardVector(false))
			assertVec(t, tt.forward, obj.ForwardVector(true))
			assertVec(t, tt.right, obj.RightVector(false))
			assertVec(t, [3]float32{-tt.forward[0], -tt.forward[1], -tt.forward[2]}, obj.BackwardVector(false))
			assertVec(t, [3]float32{-tt.right[0], -tt.right[1], -tt.right[2]}, obj.LeftVector(true))
			assertVec(t, [3]float32{0, 1, 0}, obj.UpVector())
			assertVec(t, [3]float32{0, -1, 0}, obj.DownVector())
		})
	}
}

func TestDirectionVectors_OmitYIgnoresPitch(t *testing.T) {
	obj := NewGameObject(WithRotation(0.3, 0, 0))

	fwd := obj.ForwardVector(false)
	assert.Less(t, fwd[1], float32(0), "positive pitch tilts forward downwards")
	assertVec(t, [3]float32{0, 0, 1}, obj.ForwardVector(true))
}

func TestAdjustTransform(t *testing.T) {
	obj := NewGameObject(WithPosition(1, 1, 1))

	obj.AdjustPosition([3]float32{1, -1, 2})
	obj.AdjustRotation([3]float32{0, 0.25, 0})
	obj.AdjustRotation([3]float32{0, 0.25, 0})
	obj.AdjustScale([3]float32{1, 0, 0})

	assert.Equal(t, [3]float32{2, 0, 3}, obj.Position())
	assert.Equal(t, [3]float32{0, 0.5, 0}, obj.Rotation())
	assert.Equal(t, [3]float32{2, 1, 1}, obj.Scale())
}

func TestWorldMatrix_Renderable(t *testing.T) {
	obj := NewGameObject(WithPosition(4, 5, 6), WithScale(2, 3, 4))

	m := obj.WorldMatrix()
	assert.Equal(t, float32(4), m[12])
	assert.Equal(t, float32(5), m[13])
	assert.Equal(t, float32(6), m[14])
	assert.Equal(t, float32(2), m[0])
	assert.Equal(t, float32(3), m[5])
	assert.Equal(t, float32(4), m[10])

	obj.SetPosition([3]float32{0, 0, 0})
	m = obj.WorldMatrix()
	assert.Equal(t, float32(0), m[12])
}

func TestWorldMatrix_CameraIsViewMatrix(t *testing.T) {
	cam := NewGameObject(WithKind(KindCamera), WithPosition(0, 0, 10))

	// The view looks down -z, so the world origin behind the camera ends up at +10.
	m := cam.WorldMatrix()
	origin := [3]float32{m[12], m[13], m[14]}
	assert.InDelta(t, 0, origin[0], eps)
	assert.InDelta(t, 0, origin[1], eps)
	assert.InDelta(t, 10, origin[2], eps)
	assert.Equal(t, float32(1), m[15])
}

func TestSetParent(t *testing.T) {
	parent := NewGameObject(WithPosition(10, 0, 5))
	child := NewGameObject(WithParentOffset(1, 2, 3))

	child.SetParent(parent)
	assert.Equal(t, parent, child.Parent())
	assert.Equal(t, [3]float32{}, child.ParentOffset(), "attaching resets the offset")
	assert.Equal(t, [3]float32{10, 0, 5}, child.Position(), "tracking child moves onto the parent")

	child.SetParent(nil)
	assert.Nil(t, child.Parent())
	assert.Equal(t, [3]float32{10, 0, 5}, child.Position())
}

func TestSetParent_NoTracking(t *testing.T) {
	parent := NewGameObject(WithPosition(10, 0, 5))
	child := NewGameObject(WithParentTracking(false), WithPosition(1, 1, 1))

	child.SetParent(parent)
	assert.Equal(t, [3]float32{1, 1, 1}, child.Position())
}

func TestParentRotationOffset(t *testing.T) {
	obj := NewGameObject()
	obj.SetParentRotationOffset([3]float32{0.1, 0, 0})
	obj.AdjustParentRotationOffset([3]float32{0.2, 0.5, 0})

	off := obj.ParentRotationOffset()
	assert.InDelta(t, 0.3, off[0], eps)
	assert.InDelta(t, 0.5, off[1], eps)
}

func TestSetLookAt(t *testing.T) {
	obj := NewGameObject(WithPosition(0, 0, 0))

	obj.SetLookAt([3]float32{10, 0, 0})
	assertVec(t, [3]float32{1, 0, 0}, obj.ForwardVector(false))

	obj.SetLookAt([3]float32{0, 10, 10})
	fwd := obj.ForwardVector(false)
	s := float32(math.Sqrt2 / 2)
	assertVec(t, [3]float32{0, s, s}, fwd)

	before := obj.Rotation()
	obj.SetLookAt(obj.Position())
	require.Equal(t, before, obj.Rotation(), "looking at own position is a no-op")
}

func TestAnimationActiveFlag(t *testing.T) {
	obj := NewGameObject()
	obj.SetAnimationActive(true)
	assert.True(t, obj.AnimationActive())
	obj.SetAnimationActive(false)
	assert.False(t, obj.AnimationActive())
}
