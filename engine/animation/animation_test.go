package animation

import (
	"math"
	"testing"
	"time"

	"github.com/eriks112/Snake3D/common"
	"github.com/eriks112/Snake3D/engine/game_object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type manualClock struct {
	now time.Time
}

func (c *manualClock) Now() time.Time {
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

const tickInterval = time.Second / DefaultTickRate

func newTestScheduler(options ...SchedulerBuilderOption) (Scheduler, *manualClock) {
	clk := &manualClock{now: time.Unix(1700000000, 0)}
	options = append([]SchedulerBuilderOption{WithClock(clk.Now)}, options...)
	return NewScheduler(options...), clk
}

// tick advances the clock by one interval and runs one scheduler pass.
func tick(s Scheduler, clk *manualClock) {
	clk.Advance(tickInterval)
	s.Update()
}

// runUntilEmpty ticks until the scheduler holds no animations and returns the number of ticks.
func runUntilEmpty(t *testing.T, s Scheduler, clk *manualClock, limit int) int {
	t.Helper()
	for n := 1; n <= limit; n++ {
		tick(s, clk)
		if s.Count() == 0 {
			return n
		}
	}
	require.FailNow(t, "animations did not finish", "still %d after %d ticks", s.Count(), limit)
	return 0
}

func TestCreateAnimation_FrameCount(t *testing.T) {
	tests := []struct {
		name     string
		speed    float32
		delta    [3]float32
		expected int
	}{
		{"pythagorean distance", 5, [3]float32{3, 4, 0}, 60},
		{"quarter turn at speed 12", 12, [3]float32{0, math.Pi / 2, 0}, 7},
		{"full windmill turn", 1, [3]float32{0, 0, 2 * math.Pi}, 376},
		{"non divisible", 0.7, [3]float32{1, 0, 0}, 85},
		{"zero distance", 3, [3]float32{}, 0},
		{"shorter than one frame", 10, [3]float32{0.001, 0, 0}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestScheduler()
			obj := game_object.NewGameObject()

			h, ok := s.CreateAnimation(obj, KindPosition, tt.speed, tt.delta, false)
			require.True(t, ok)
			assert.Equal(t, tt.expected, h.TotalFrames())
			assert.Equal(t, 0, h.CurrentFrame())
			assert.Equal(t, StatePaused, h.State())
			assert.True(t, obj.AnimationActive())
		})
	}
}

func TestCreateAnimation_Rejected(t *testing.T) {
	s, _ := newTestScheduler()
	obj := game_object.NewGameObject()

	_, ok := s.CreateAnimation(nil, KindPosition, 1, [3]float32{1, 0, 0}, false)
	assert.False(t, ok, "nil target")

	_, ok = s.CreateAnimation(obj, KindPosition, 0, [3]float32{1, 0, 0}, false)
	assert.False(t, ok, "zero speed")
	_, ok = s.CreateAnimation(obj, KindPosition, -2, [3]float32{1, 0, 0}, false)
	assert.False(t, ok, "negative speed")
	assert.False(t, obj.AnimationActive())
	assert.Equal(t, 0, s.Count())
}

func TestCreateAnimation_DuplicateLeavesExistingUntouched(t *testing.T) {
	s, clk := newTestScheduler()
	obj := game_object.NewGameObject()

	first, ok := s.CreateAnimation(obj, KindPosition, 5, [3]float32{3, 4, 0}, false)
	require.True(t, ok)
	require.True(t, first.Start())
	tick(s, clk)
	tick(s, clk)

	second, ok := s.CreateAnimation(obj, KindRotation, 1, [3]float32{0, 1, 0}, true)
	assert.False(t, ok)
	assert.False(t, second.Valid())

	assert.Equal(t, 1, s.Count())
	assert.Equal(t, StateRunning, first.State())
	assert.Equal(t, 2, first.CurrentFrame())
	assert.Equal(t, 60, first.TotalFrames())
	assert.True(t, obj.AnimationActive())
}

func TestUpdate_PausedAnimationDoesNotMove(t *testing.T) {
	s, clk := newTestScheduler()
	obj := game_object.NewGameObject()

	h, ok := s.CreateAnimation(obj, KindPosition, 5, [3]float32{3, 4, 0}, false)
	require.True(t, ok)

	for range 10 {
		tick(s, clk)
	}
	assert.Equal(t, [3]float32{}, obj.Position())
	assert.Equal(t, StatePaused, h.State())
	assert.Equal(t, 0, h.CurrentFrame())
}

func TestUpdate_TickGate(t *testing.T) {
	s, clk := newTestScheduler()
	obj := game_object.NewGameObject()

	h, ok := s.CreateAnimation(obj, KindPosition, 1, [3]float32{1, 0, 0}, false)
	require.True(t, ok)
	h.Start()

	s.Update()
	assert.Equal(t, 0, h.CurrentFrame(), "no time elapsed")

	clk.Advance(tickInterval / 2)
	s.Update()
	assert.Equal(t, 0, h.CurrentFrame(), "half an interval elapsed")

	clk.Advance(tickInterval / 2)
	s.Update()
	assert.Equal(t, 1, h.CurrentFrame())

	s.Update()
	assert.Equal(t, 1, h.CurrentFrame(), "timer was reset by the previous tick")
}

func TestUpdate_TimerResetsOnlyAfterWork(t *testing.T) {
	s, clk := newTestScheduler()
	obj := game_object.NewGameObject()

	h, ok := s.CreateAnimation(obj, KindPosition, 1, [3]float32{1, 0, 0}, false)
	require.True(t, ok)

	clk.Advance(tickInterval)
	s.Update()
	assert.Equal(t, 0, h.CurrentFrame())

	// The idle pass above did not reset the timer, so the next call ticks immediately.
	h.Start()
	s.Update()
	assert.Equal(t, 1, h.CurrentFrame())
}

func TestUpdate_ExactFinalization(t *testing.T) {
	s, clk := newTestScheduler()
	obj := game_object.NewGameObject(game_object.WithPosition(0.1, 0.2, 0.3))
	start := obj.Position()
	delta := [3]float32{1, 0, 0}

	h, ok := s.CreateAnimation(obj, KindPosition, 0.7, delta, false)
	require.True(t, ok)
	require.Equal(t, 85, h.TotalFrames())
	h.Start()

	ticks := runUntilEmpty(t, s, clk, 500)

	assert.Equal(t, 86, ticks)
	assert.Equal(t, common.Add3(start, delta), obj.Position())
	assert.False(t, obj.AnimationActive())
	assert.False(t, h.Valid())
	assert.Equal(t, StateFinished, h.State())
}

func TestUpdate_QuarterTurnScenario(t *testing.T) {
	s, clk := newTestScheduler()
	obj := game_object.NewGameObject(game_object.WithRotation(0, 0.25, 0))
	before := obj.Rotation()[1]

	h, ok := s.CreateAnimation(obj, KindRotation, 12, [3]float32{0, math.Pi / 2, 0}, false)
	require.True(t, ok)
	require.True(t, h.Start())

	runUntilEmpty(t, s, clk, 100)

	assert.Equal(t, before+float32(math.Pi/2), obj.Rotation()[1])
	assert.Equal(t, float32(0), obj.Rotation()[0])
	assert.False(t, obj.AnimationActive())
}

func TestUpdate_ScaleFinalization(t *testing.T) {
	s, clk := newTestScheduler()
	obj := game_object.NewGameObject()

	h, ok := s.CreateAnimation(obj, KindScale, 0.9, [3]float32{0.5, 0.5, 0.5}, false)
	require.True(t, ok)
	h.Start()

	runUntilEmpty(t, s, clk, 200)
	assert.Equal(t, [3]float32{1.5, 1.5, 1.5}, obj.Scale())
}

func TestUpdate_ContinuousNeverFinishes(t *testing.T) {
	s, clk := newTestScheduler()
	windmill := game_object.NewGameObject()

	h, ok := s.CreateAnimation(windmill, KindRotation, 1, [3]float32{0, 0, 2 * math.Pi}, true)
	require.True(t, ok)
	h.Start()

	for range 1000 {
		tick(s, clk)
	}

	assert.Equal(t, 1, s.Count())
	assert.Equal(t, StateRunning, h.State())
	assert.Equal(t, 1000, h.CurrentFrame())
	assert.Greater(t, h.CurrentFrame(), h.TotalFrames())
	assert.True(t, windmill.AnimationActive())
	assert.Greater(t, windmill.Rotation()[2], float32(2*math.Pi))

	assert.True(t, s.RemoveAnimation(h))
	assert.False(t, windmill.AnimationActive())
	assert.False(t, h.Valid())
	assert.Equal(t, 0, s.Count())
}

func TestUpdate_ZeroFrameSnapsToEnd(t *testing.T) {
	tests := []struct {
		name       string
		delta      [3]float32
		continuous bool
	}{
		{"zero distance", [3]float32{}, false},
		{"sub frame distance", [3]float32{0.001, 0, 0}, false},
		{"continuous zero distance", [3]float32{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, clk := newTestScheduler()
			obj := game_object.NewGameObject(game_object.WithPosition(5, 5, 5))
			expected := common.Add3(obj.Position(), tt.delta)

			h, ok := s.CreateAnimation(obj, KindPosition, 10, tt.delta, tt.continuous)
			require.True(t, ok)
			h.Start()

			tick(s, clk)
			assert.Equal(t, 0, s.Count())
			assert.Equal(t, expected, obj.Position())
			assert.False(t, obj.AnimationActive())
		})
	}
}

func TestPauseResumeAll_PreservesFrames(t *testing.T) {
	s, clk := newTestScheduler()
	a := game_object.NewGameObject()
	b := game_object.NewGameObject()

	ha, ok := s.CreateAnimation(a, KindPosition, 1, [3]float32{10, 0, 0}, false)
	require.True(t, ok)
	hb, ok := s.CreateAnimation(b, KindRotation, 1, [3]float32{0, 0, 1}, true)
	require.True(t, ok)
	ha.Start()
	hb.Start()

	for range 3 {
		tick(s, clk)
	}
	require.Equal(t, 3, ha.CurrentFrame())
	require.Equal(t, 3, hb.CurrentFrame())

	s.PauseAllAnimations()
	assert.Equal(t, StatePaused, ha.State())
	assert.Equal(t, StatePaused, hb.State())
	posBefore := a.Position()
	tick(s, clk)
	assert.Equal(t, posBefore, a.Position())

	s.ResumeAllAnimations()
	assert.Equal(t, StateRunning, ha.State())
	assert.Equal(t, StateRunning, hb.State())
	assert.Equal(t, 3, ha.CurrentFrame())
	assert.Equal(t, 3, hb.CurrentFrame())
}

func TestHandle_PauseResume(t *testing.T) {
	s, clk := newTestScheduler()
	obj := game_object.NewGameObject()

	h, ok := s.CreateAnimation(obj, KindPosition, 1, [3]float32{10, 0, 0}, false)
	require.True(t, ok)
	h.Start()
	tick(s, clk)

	assert.True(t, h.Pause())
	tick(s, clk)
	assert.Equal(t, 1, h.CurrentFrame())

	assert.True(t, h.Resume())
	tick(s, clk)
	assert.Equal(t, 2, h.CurrentFrame())
	assert.Equal(t, obj, h.Target())
}

func TestUpdate_NonRunningEntriesAreSkipped(t *testing.T) {
	s, clk := newTestScheduler()
	paused := game_object.NewGameObject()
	running := game_object.NewGameObject()

	_, ok := s.CreateAnimation(paused, KindPosition, 1, [3]float32{1, 0, 0}, false)
	require.True(t, ok)
	h, ok := s.CreateAnimation(running, KindPosition, 1, [3]float32{1, 0, 0}, false)
	require.True(t, ok)
	h.Start()

	tick(s, clk)
	assert.Equal(t, 1, h.CurrentFrame())
	assert.NotEqual(t, [3]float32{}, running.Position())
}

func TestUpdate_StrictOrderingStopsAtFirstNonRunning(t *testing.T) {
	s, clk := newTestScheduler(WithStrictOrdering(true))
	first := game_object.NewGameObject()
	paused := game_object.NewGameObject()
	last := game_object.NewGameObject()

	h1, ok := s.CreateAnimation(first, KindPosition, 1, [3]float32{1, 0, 0}, false)
	require.True(t, ok)
	_, ok = s.CreateAnimation(paused, KindPosition, 1, [3]float32{1, 0, 0}, false)
	require.True(t, ok)
	h3, ok := s.CreateAnimation(last, KindPosition, 1, [3]float32{1, 0, 0}, false)
	require.True(t, ok)
	h1.Start()
	h3.Start()

	tick(s, clk)
	assert.Equal(t, 1, h1.CurrentFrame(), "entries before the paused one are processed")
	assert.Equal(t, 0, h3.CurrentFrame(), "entries after the paused one are not")
	assert.Equal(t, [3]float32{}, last.Position())
	assert.Equal(t, 3, s.Count())

	// An aborted pass leaves the timer untouched.
	s.Update()
	assert.Equal(t, 2, h1.CurrentFrame())
}

func TestRemoveAnimation(t *testing.T) {
	s, _ := newTestScheduler()
	other, _ := newTestScheduler()
	a := game_object.NewGameObject()
	b := game_object.NewGameObject()

	ha, ok := s.CreateAnimation(a, KindPosition, 1, [3]float32{1, 0, 0}, false)
	require.True(t, ok)
	_, ok = s.CreateAnimation(b, KindPosition, 1, [3]float32{1, 0, 0}, false)
	require.True(t, ok)

	assert.False(t, other.RemoveAnimation(ha), "handle from another scheduler")
	assert.False(t, s.RemoveAnimation(Handle{}), "zero handle")
	assert.False(t, s.RemoveAnimationFor(nil))
	assert.False(t, s.RemoveAnimationFor(game_object.NewGameObject()))

	assert.True(t, s.RemoveAnimation(ha))
	assert.False(t, s.RemoveAnimation(ha), "already removed")
	assert.False(t, a.AnimationActive())
	assert.False(t, ha.Start())
	assert.False(t, ha.Pause())
	assert.Nil(t, ha.Target())

	assert.True(t, s.RemoveAnimationFor(b))
	assert.False(t, b.AnimationActive())
	assert.Equal(t, 0, s.Count())

	// The target can be animated again once its animation is gone.
	_, ok = s.CreateAnimation(a, KindRotation, 1, [3]float32{0, 1, 0}, false)
	assert.True(t, ok)
}

func TestAnimationActiveFlagMatchesScheduler(t *testing.T) {
	s, clk := newTestScheduler()
	objs := []game_object.GameObject{
		game_object.NewGameObject(),
		game_object.NewGameObject(),
		game_object.NewGameObject(),
	}

	handles := make([]Handle, len(objs))
	speeds := []float32{60, 6, 1}
	for i, obj := range objs {
		h, ok := s.CreateAnimation(obj, KindPosition, speeds[i], [3]float32{1, 0, 0}, false)
		require.True(t, ok)
		h.Start()
		handles[i] = h
	}

	check := func() {
		for i, obj := range objs {
			assert.Equal(t, handles[i].Valid(), obj.AnimationActive(), "object %d", i)
		}
	}

	for range 20 {
		tick(s, clk)
		check()
	}
	assert.False(t, handles[0].Valid())
	assert.False(t, handles[1].Valid())
	assert.True(t, handles[2].Valid())

	s.RemoveAnimationFor(objs[2])
	check()
}

func TestWithTickRate(t *testing.T) {
	s := NewScheduler(WithTickRate(30))
	assert.Equal(t, 30, s.TickRate())

	s = NewScheduler(WithTickRate(-1))
	assert.Equal(t, DefaultTickRate, s.TickRate())

	h, ok := NewScheduler(WithTickRate(30)).CreateAnimation(game_object.NewGameObject(), KindPosition, 5, [3]float32{3, 4, 0}, false)
	require.True(t, ok)
	assert.Equal(t, 30, h.TotalFrames())
}
