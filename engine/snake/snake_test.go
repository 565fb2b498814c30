package snake

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/eriks112/Snake3D/common"
	"github.com/eriks112/Snake3D/engine/animation"
	"github.com/eriks112/Snake3D/engine/game_object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type keys map[uint32]bool

func (k keys) Pressed(key uint32) bool {
	return k[key]
}

type countingRegistry struct {
	objects []game_object.GameObject
}

func (r *countingRegistry) Add(obj game_object.GameObject) uint64 {
	r.objects = append(r.objects, obj)
	return uint64(len(r.objects))
}

type failingLoader struct {
	path   string
	loaded []string
}

func (l *failingLoader) LoadModel(path string) error {
	l.loaded = append(l.loaded, path)
	if path == l.path {
		return errors.New("missing asset")
	}
	return nil
}

// newStartedGame loads and starts a game driven by the returned key map.
func newStartedGame(t *testing.T, options ...GameBuilderOption) (*game, keys, animation.Scheduler) {
	t.Helper()
	in := keys{}
	s := animation.NewScheduler()
	options = append([]GameBuilderOption{WithInput(in), WithScheduler(s), WithSeed(1)}, options...)

	g := NewGame(options...).(*game)
	require.NoError(t, g.Load())
	g.Start()
	return g, in, s
}

func TestLoad(t *testing.T) {
	reg := &countingRegistry{}
	loader := &failingLoader{}
	s := animation.NewScheduler()
	g := NewGame(WithRegistry(reg), WithModelLoader(loader), WithScheduler(s))

	assert.Nil(t, g.Character())
	assert.False(t, g.CreateSnakeChild(), "no head before Load")

	require.NoError(t, g.Load())
	assert.Error(t, g.Load(), "loading twice")

	status := g.Status()
	assert.True(t, status.CharacterLoaded)
	assert.False(t, status.Started)
	assert.False(t, status.Over)

	assert.Equal(t, []string{HeadModel, BodyModel, TailModel, PickupModel, WindmillModel}, loader.loaded)
	assert.Len(t, reg.objects, 1+pickupRows*pickupColumns+1+1)

	head := g.Character()
	assert.Equal(t, [3]float32{0, DefaultHeadY, 0}, head.Position())
	assert.Equal(t, HeadModel, head.ModelPath())

	segments := g.Segments()
	require.Len(t, segments, 1)
	assertVec(t, [3]float32{0, DefaultHeadY, -DefaultSpacing}, segments[0].Node().Position())
	assert.Equal(t, VariantTail, segments[0].Variant())
	assert.Equal(t, head, segments[0].Node().Parent())
	assert.False(t, segments[0].Node().ParentTracking())
	assert.Equal(t, DefaultSpeed, g.Snapshot().Speed, "the first segment does not speed the head up")

	assert.Equal(t, 1, s.Count(), "the windmill rotates forever")
}

func TestLoad_ModelFailure(t *testing.T) {
	g := NewGame(WithModelLoader(&failingLoader{path: TailModel}))

	err := g.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), TailModel)
	assert.False(t, g.Status().CharacterLoaded)
	assert.Nil(t, g.Character())
}

func TestPickupGrid(t *testing.T) {
	g := NewGame()
	require.NoError(t, g.Load())

	pickups := g.Pickups()
	require.Len(t, pickups, 23*24)
	assert.Equal(t, [3]float32{-930, 5, 930}, pickups[0].Position())
	assert.Equal(t, [3]float32{-850, 5, 930}, pickups[1].Position())
	assert.Equal(t, [3]float32{-930, 5, 845}, pickups[24].Position())
	assert.Equal(t, [3]float32{910, 5, -940}, pickups[len(pickups)-1].Position())
	for _, p := range pickups {
		assert.False(t, p.Visible())
	}
}

func TestUpdate_WaitsForEnter(t *testing.T) {
	in := keys{}
	g := NewGame(WithInput(in))
	require.NoError(t, g.Load())
	start := g.Character().Position()

	g.Update(10)
	assert.Equal(t, start, g.Character().Position())
	assert.False(t, g.Status().Started)

	in[common.KeyEnter] = true
	g.Update(10)
	assert.True(t, g.Status().Started)
	assertVec(t, [3]float32{0, DefaultHeadY, 2}, g.Character().Position())
}

func TestCreateSnakeChild(t *testing.T) {
	g, _, _ := newStartedGame(t)
	first := g.Segments()[0]
	first.Node().SetRotation([3]float32{0, math.Pi / 2, 0})

	require.True(t, g.CreateSnakeChild())

	segments := g.Segments()
	require.Len(t, segments, 2)
	second := segments[1]

	assert.Equal(t, VariantBody, first.Variant())
	assert.Equal(t, BodyModel, first.Node().ModelPath())
	assert.Equal(t, VariantTail, second.Variant())
	assert.Equal(t, TailModel, second.Node().ModelPath())

	assert.Equal(t, first.Node(), second.Node().Parent())
	assert.Equal(t, first.Node().Rotation(), second.Node().Rotation())
	expected := common.Sub3(first.Node().Position(), [3]float32{DefaultSpacing, 0, 0})
	assertVec(t, expected, second.Node().Position())
	assert.InDelta(t, DefaultSpeed+DefaultSpeedIncrement, g.Snapshot().Speed, eps)
}

func TestPathMode_HeadRecordsTrailAndSegmentsFollow(t *testing.T) {
	g, _, _ := newStartedGame(t)
	g.CreateSnakeChild()
	g.CreateSnakeChild()
	segments := len(g.Segments())

	for range 400 {
		g.Update(10)
		require.LessOrEqual(t, g.Trail().Len(), segments+1)
	}

	assert.Equal(t, segments+1, g.Trail().Len())
	head := g.Character().Position()
	for i, seg := range g.Segments() {
		pos := seg.Node().Position()
		assert.Less(t, pos[2], head[2], "segment %d stays behind the head", i)
		assert.InDelta(t, 0, pos[0], eps, "segment %d stays on the straight path", i)
	}
	assert.False(t, g.Status().Over)
}

func TestPathMode_Steering(t *testing.T) {
	g, in, _ := newStartedGame(t)

	in[common.KeyD] = true
	g.Update(10)
	assert.InDelta(t, DefaultSpeed/steerRate*10, g.Character().Rotation()[1], eps)

	in[common.KeyD] = false
	in[common.KeyA] = true
	g.Update(10)
	g.Update(10)
	assert.InDelta(t, -DefaultSpeed/steerRate*10, g.Character().Rotation()[1], eps)
}

func TestTurnMode_SegmentFollowsStraight(t *testing.T) {
	g, _, _ := newStartedGame(t, WithMode(KinematicsTurn))

	g.Update(10)

	assertVec(t, [3]float32{0, DefaultHeadY, 2}, g.Character().Position())
	assertVec(t, [3]float32{0, DefaultHeadY, -71}, g.Segments()[0].Node().Position())
}

func TestTurnMode_TurnIsHandedToTheTail(t *testing.T) {
	g, in, _ := newStartedGame(t, WithMode(KinematicsTurn))
	head := g.Head()
	tail := g.Segments()[0]

	in[common.KeyD] = true
	g.Update(10)
	in[common.KeyD] = false

	require.True(t, head.MovePending())
	assertVec(t, [3]float32{0, math.Pi / 2, 0}, head.Node().Rotation())

	for n := 0; n < 100 && head.MovePending(); n++ {
		g.Update(10)
	}
	require.False(t, head.MovePending())

	assert.False(t, tail.MovePending())
	assert.False(t, tail.TurnPending())
	assert.Equal(t, head.Node().Rotation(), tail.Node().Rotation())

	// The tail was placed one spacing behind the head, then the head moved once more.
	h, p := head.Node().Position(), tail.Node().Position()
	assert.InDelta(t, h[0]-DefaultSpacing-2, p[0], eps)
	assert.InDelta(t, h[2], p[2], 1e-3)
}

func TestTurnMode_TurnTravelsDownTheChain(t *testing.T) {
	g, in, _ := newStartedGame(t, WithMode(KinematicsTurn))
	g.CreateSnakeChild()
	first, second := g.Segments()[0], g.Segments()[1]

	in[common.KeyD] = true
	g.Update(10)
	in[common.KeyD] = false

	handedOn := false
	for range 200 {
		g.Update(10)
		handedOn = handedOn || first.MovePending()
	}

	assert.True(t, handedOn, "the first segment passed the turn on")
	assert.False(t, first.MovePending())
	assert.False(t, second.MovePending())
	assert.Equal(t, g.Character().Rotation(), first.Node().Rotation())
	assert.Equal(t, g.Character().Rotation(), second.Node().Rotation())
	assert.Greater(t, first.Node().Position()[0], second.Node().Position()[0])
	assert.False(t, g.Status().Over)
}

func TestTurnMode_InputRules(t *testing.T) {
	g, in, _ := newStartedGame(t, WithMode(KinematicsTurn))
	head := g.Head()

	in[common.KeyS] = true
	g.Update(10)
	assert.False(t, head.MovePending(), "no reversal")
	in[common.KeyS] = false

	in[common.KeyW] = true
	g.Update(10)
	assert.False(t, head.MovePending(), "no same-axis turn")
	in[common.KeyW] = false

	in[common.KeyA] = true
	g.Update(10)
	require.True(t, head.MovePending())
	assertVec(t, [3]float32{0, -math.Pi / 2, 0}, head.Node().Rotation())
	in[common.KeyA] = false

	in[common.KeyW] = true
	g.Update(10)
	assertVec(t, [3]float32{0, -math.Pi / 2, 0}, head.Node().Rotation(), "blocked while the move is pending")
}

func TestTurnMode_ThirdPersonQueuesQuarterTurn(t *testing.T) {
	g, in, s := newStartedGame(t, WithMode(KinematicsTurn), WithThirdPerson(true))
	head := g.Head()
	before := s.Count()

	in[common.KeyD] = true
	g.Update(10)

	assert.True(t, head.MovePending())
	assert.True(t, head.Node().AnimationActive())
	assert.Equal(t, before+1, s.Count())
	assert.Equal(t, float32(0), head.Node().Rotation()[1], "the scheduler performs the turn")

	g.Update(10)
	assert.Equal(t, before+1, s.Count(), "no second turn while animating")
}

func TestTurnMode_RelativeTurnKeepsAbsoluteHeading(t *testing.T) {
	now := time.Unix(0, 0)
	s := animation.NewScheduler(animation.WithClock(func() time.Time { return now }))
	g, in, _ := newStartedGame(t, WithMode(KinematicsTurn), WithThirdPerson(true), WithScheduler(s))
	head := g.Head()

	in[common.KeyD] = true
	g.Update(10)
	in[common.KeyD] = false
	require.True(t, head.Node().AnimationActive())

	for n := 0; n < 200 && (head.MovePending() || head.Node().AnimationActive()); n++ {
		g.Update(10)
		now = now.Add(20 * time.Millisecond)
		s.Update()
	}
	require.False(t, head.MovePending())
	require.False(t, head.Node().AnimationActive())
	assert.InDelta(t, math.Pi/2, head.Node().Rotation()[1], eps)

	g.SetThirdPerson(false)
	in[common.KeyA] = true
	g.Update(10)
	in[common.KeyA] = false

	assert.False(t, head.MovePending(), "A is a reversal while heading right")
	assertVec(t, [3]float32{1, 0, 0}, head.Node().ForwardVector(false), "no reversal after leaving third person")

	in[common.KeyW] = true
	g.Update(10)
	assert.True(t, head.MovePending())
	assert.InDelta(t, 0, head.Node().Rotation()[1], eps)
}

func TestHeadingFromYaw(t *testing.T) {
	tests := []struct {
		yaw      float32
		expected heading
	}{
		{0, headingUp},
		{math.Pi / 2, headingRight},
		{math.Pi, headingDown},
		{-math.Pi / 2, headingLeft},
		{3 * math.Pi / 2, headingLeft},
		{-math.Pi, headingDown},
		{2 * math.Pi, headingUp},
		{math.Pi/2 + 0.01, headingRight},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, headingFromYaw(tt.yaw), "yaw %v", tt.yaw)
	}
}

func TestPickups_SpawnAndCollect(t *testing.T) {
	g, _, _ := newStartedGame(t)

	g.spawnPickups(minSpawnMillis + spawnJitterMilli + 1)
	visible := 0
	for _, p := range g.Pickups() {
		if p.Visible() {
			visible++
		}
	}
	assert.Equal(t, 1, visible)

	// Pickup row 11, column 12 lies at (30, 5, -5), within reach of the head at the origin.
	for _, p := range g.Pickups() {
		p.SetVisible(false)
	}
	target := g.Pickups()[11*pickupColumns+12]
	require.Equal(t, [3]float32{30, 5, -5}, target.Position())
	target.SetVisible(true)

	g.Update(1)

	snap := g.Snapshot()
	assert.False(t, target.Visible())
	assert.Equal(t, 1, snap.Score)
	assert.Equal(t, 2, snap.Segments)
	assert.InDelta(t, DefaultSpeed+DefaultSpeedIncrement, snap.Speed, eps)
}

func TestGameOver_LeavingTheArena(t *testing.T) {
	g, _, _ := newStartedGame(t)
	g.Character().SetPosition([3]float32{0, DefaultHeadY, ArenaBound - 1})

	g.Update(10)
	require.True(t, g.Status().Over)

	pos := g.Character().Position()
	g.Update(10)
	assert.Equal(t, pos, g.Character().Position(), "nothing moves after game over")

	g2, _, _ := newStartedGame(t)
	g2.Character().SetPosition([3]float32{-ArenaBound - 1, DefaultHeadY, 0})
	g2.Update(1)
	assert.True(t, g2.Status().Over)
}

func TestGameOver_HittingOwnBody(t *testing.T) {
	g, _, _ := newStartedGame(t, WithMode(KinematicsTurn))
	g.CreateSnakeChild()
	g.CreateSnakeChild()

	third := g.Segments()[2].Node()
	third.SetPosition(g.Character().Position())

	g.Update(1)
	assert.True(t, g.Status().Over)
}

func TestGameOver_HittingFirstSegment(t *testing.T) {
	g, _, _ := newStartedGame(t, WithMode(KinematicsTurn))

	g.Segments()[0].Node().SetPosition(g.Character().Position())

	g.Update(1)
	assert.True(t, g.Status().Over)
}

func TestSnapshot(t *testing.T) {
	g, _, _ := newStartedGame(t, WithMode(KinematicsTurn), WithSpeed(30))
	g.Update(10)

	snap := g.Snapshot()
	assert.Equal(t, "turn", snap.Mode)
	assert.Equal(t, float32(30), snap.Speed)
	assert.Equal(t, 1, snap.Segments)
	assert.Equal(t, 0, snap.Score)
	assertVec(t, [3]float32{0, DefaultHeadY, 3}, snap.HeadPosition)
	assert.True(t, snap.Status.Started)
}
