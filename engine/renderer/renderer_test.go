package renderer

import (
	"errors"
	"math"
	"testing"

	"github.com/eriks112/Snake3D/common"
	"github.com/eriks112/Snake3D/engine/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	configured [][2]int
	instances  []float32
	count      int
	draws      int
	released   int
	err        error
}

func (b *fakeBackend) ConfigureSurface(width, height int) {
	b.configured = append(b.configured, [2]int{width, height})
}

func (b *fakeBackend) DrawInstances(instances []float32, count int) error {
	b.instances = append([]float32(nil), instances...)
	b.count = count
	b.draws++
	return b.err
}

func (b *fakeBackend) Release() { b.released++ }

// lookDownNegZ is a camera at the origin looking down -Z.
func lookDownNegZ() [16]float32 {
	var vp [16]float32
	common.Perspective(vp[:], math.Pi/2, 1, 1, 1000)
	return vp
}

func translated(x, y, z float32) [16]float32 {
	var m [16]float32
	common.Identity(m[:])
	m[12], m[13], m[14] = x, y, z
	return m
}

func TestRenderer_LoadModelAndStyles(t *testing.T) {
	red := Style{Color: [4]float32{1, 0, 0, 1}, Size: [3]float32{2, 2, 2}}
	r, err := NewRenderer(WithStyle("a.fbx", red))
	require.NoError(t, err)

	assert.Error(t, r.LoadModel(""))
	require.NoError(t, r.LoadModel("a.fbx"))
	require.NoError(t, r.LoadModel("b.fbx"))

	assert.True(t, r.Loaded("a.fbx"))
	assert.False(t, r.Loaded("c.fbx"))
	assert.Equal(t, red, r.Style("a.fbx"))
	assert.Equal(t, DefaultStyle, r.Style("b.fbx"))

	r.SetStyle("b.fbx", red)
	assert.Equal(t, red, r.Style("b.fbx"))
}

func TestRenderer_RenderCullsAndPacks(t *testing.T) {
	backend := &fakeBackend{}
	red := Style{Color: [4]float32{1, 0, 0, 1}, Size: [3]float32{2, 2, 2}}
	r, err := NewRenderer(WithBackend(backend), WithStyle("box", red))
	require.NoError(t, err)

	frame := scene.Frame{
		ViewProjection: lookDownNegZ(),
		Objects: []scene.FrameObject{
			{ID: 1, Visible: true, ModelPath: "box", Matrix: translated(0, 0, -100)},
			{ID: 2, Visible: true, ModelPath: "box", Matrix: translated(0, 0, 100)},
			{ID: 3, Visible: false, ModelPath: "box", Matrix: translated(0, 0, -50)},
			{ID: 4, Visible: true, Matrix: translated(0, 0, -50)},
		},
	}

	require.NoError(t, r.Render([]scene.Frame{frame}))

	drawn, culled := r.Stats()
	assert.Equal(t, 1, drawn)
	assert.Equal(t, 1, culled, "the box behind the camera is culled")
	require.Equal(t, 1, backend.count)
	require.Len(t, backend.instances, InstanceFloats)

	clip := backend.instances
	assert.InDelta(t, 2, clip[0], 1e-5, "size folded into the clip matrix")
	assert.InDelta(t, 2, clip[5], 1e-5)
	assert.InDelta(t, 100, clip[15], 1e-4, "w is the distance in front of the camera")
	assert.Equal(t, red.Color[:], clip[16:20])
}

func TestRenderer_RenderSeveralFrames(t *testing.T) {
	backend := &fakeBackend{}
	r, err := NewRenderer(WithBackend(backend))
	require.NoError(t, err)

	obj := scene.FrameObject{Visible: true, ModelPath: "x", Matrix: translated(0, 0, -200)}
	frames := []scene.Frame{
		{ViewProjection: lookDownNegZ(), Objects: []scene.FrameObject{obj, obj}},
		{ViewProjection: lookDownNegZ(), Objects: []scene.FrameObject{obj}},
	}
	require.NoError(t, r.Render(frames))
	assert.Equal(t, 3, backend.count)
	assert.Len(t, backend.instances, 3*InstanceFloats)

	require.NoError(t, r.Render(nil))
	assert.Equal(t, 0, backend.count)
	assert.Equal(t, 2, backend.draws, "an empty frame still clears the screen")
}

func TestRenderer_BackendLifecycle(t *testing.T) {
	backend := &fakeBackend{}
	r, err := NewRenderer(WithBackend(backend))
	require.NoError(t, err)

	r.Resize(800, 600)
	assert.Equal(t, [][2]int{{0, 0}, {800, 600}}, backend.configured)

	backend.err = errors.New("surface lost")
	assert.ErrorContains(t, r.Render(nil), "surface lost")

	r.Release()
	r.Release()
	assert.Equal(t, 1, backend.released)
	assert.NoError(t, r.Render(nil), "a released renderer only packs instances")
}

func TestBoxMesh(t *testing.T) {
	vertices, indices := boxMesh()

	require.Len(t, vertices, 24*boxVertexFloats)
	require.Len(t, indices, 36)
	for i := 0; i < len(vertices); i += boxVertexFloats {
		pos := [3]float32{vertices[i], vertices[i+1], vertices[i+2]}
		normal := [3]float32{vertices[i+3], vertices[i+4], vertices[i+5]}
		for _, c := range pos {
			assert.InDelta(t, 0.5, math.Abs(float64(c)), 1e-6)
		}
		assert.InDelta(t, 1, common.Length3(normal), 1e-6)
		dot := pos[0]*normal[0] + pos[1]*normal[1] + pos[2]*normal[2]
		assert.InDelta(t, 0.5, dot, 1e-6, "vertex lies on its face")
	}
	for _, idx := range indices {
		assert.Less(t, idx, uint32(24))
	}
}

func TestBoundingRadius(t *testing.T) {
	var m [16]float32
	common.BuildModelMatrix(m[:], 5, 5, 5, 0, 0, 0, 3, 1, 1)
	assert.InDelta(t, float32(math.Sqrt(3))*3, boundingRadius(m, [3]float32{2, 2, 2}), 1e-5)
}
