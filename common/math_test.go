package common

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMul4_Identity(t *testing.T) {
	var id, m, out [16]float32
	Identity(id[:])
	BuildModelMatrix(m[:], 1, 2, 3, 0.3, 0.2, 0.1, 1, 2, 3)

	Mul4(out[:], id[:], m[:])
	assert.Equal(t, m, out)
}

func TestFrustum_SphereInside(t *testing.T) {
	var vp [16]float32
	Perspective(vp[:], math.Pi/2, 1, 1, 1000)
	f := ExtractFrustumFromMatrix(vp[:])

	tests := []struct {
		name     string
		center   [3]float32
		radius   float32
		expected bool
	}{
		{"in front", [3]float32{0, 0, -100}, 1, true},
		{"behind", [3]float32{0, 0, 100}, 1, false},
		{"far left", [3]float32{-500, 0, -100}, 1, false},
		{"touching left plane", [3]float32{-101, 0, -100}, 5, true},
		{"past far plane", [3]float32{0, 0, -2000}, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, f.SphereInside(tt.center, tt.radius))
		})
	}
}

func TestSliceToBytes(t *testing.T) {
	assert.Nil(t, SliceToBytes[float32](nil))
	assert.Len(t, SliceToBytes([]float32{1, 2, 3}), 12)
	assert.Len(t, SliceToBytes([]uint32{1}), 4)
}

func TestNearXZ(t *testing.T) {
	assert.True(t, NearXZ([3]float32{0, 100, 0}, [3]float32{39, -5, -39}, 40), "y is ignored")
	assert.False(t, NearXZ([3]float32{0, 0, 0}, [3]float32{40, 0, 0}, 40))
}
