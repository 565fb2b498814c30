package animation

import (
	"math"
	"slices"
	"time"

	"github.com/eriks112/Snake3D/common"
	"github.com/eriks112/Snake3D/engine/game_object"
	"github.com/rs/zerolog"
)

// DefaultTickRate is the logical update frequency of the scheduler in Hz.
const DefaultTickRate = 60

// Kind selects the transform attribute an animation drives.
type Kind int

const (
	KindPosition Kind = iota
	KindScale
	KindRotation
)

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case KindPosition:
		return "position"
	case KindScale:
		return "scale"
	case KindRotation:
		return "rotation"
	default:
		return "unknown"
	}
}

// State is the lifecycle state of an animation.
type State int

const (
	// StatePaused is the initial state. Paused animations are never resumed automatically.
	StatePaused State = iota
	StateRunning
	// StateFinished is terminal and only reached by non-continuous animations.
	StateFinished
)

// String returns the lower-case name of the state.
func (s State) String() string {
	switch s {
	case StatePaused:
		return "paused"
	case StateRunning:
		return "running"
	default:
		return "finished"
	}
}

// property is a single animation stored by value in the scheduler's arena.
// Only currentFrame and state change after creation.
type property struct {
	id         uint64
	target     game_object.GameObject
	kind       Kind
	delta      [3]float32
	step       [3]float32
	speed      float32
	continuous bool

	currentFrame int
	totalFrames  int
	state        State

	startPosition [3]float32
	startRotation [3]float32
	startScale    [3]float32
}

// end returns the exact value the animated attribute must hold once the animation completes.
func (p *property) end() [3]float32 {
	switch p.kind {
	case KindScale:
		return common.Add3(p.startScale, p.delta)
	case KindRotation:
		return common.Add3(p.startRotation, p.delta)
	default:
		return common.Add3(p.startPosition, p.delta)
	}
}

// finalize sets the target attribute to start + delta instead of trusting the sum of per-frame steps.
func (p *property) finalize() {
	v := p.end()
	switch p.kind {
	case KindScale:
		p.target.SetScale(v)
	case KindRotation:
		p.target.SetRotation(v)
	default:
		p.target.SetPosition(v)
	}
}

// advance applies one frame step to the target attribute.
func (p *property) advance() {
	switch p.kind {
	case KindScale:
		p.target.AdjustScale(p.step)
	case KindRotation:
		p.target.AdjustRotation(p.step)
	default:
		p.target.AdjustPosition(p.step)
	}
}

type scheduler struct {
	animations []property
	nextID     uint64

	tickRate       int
	tickInterval   time.Duration
	clock          func() time.Time
	lastTick       time.Time
	strictOrdering bool

	log zerolog.Logger
}

// Scheduler owns every active animation and advances them at a fixed logical tick rate,
// independent of how often Update is called.
//
// At most one animation may target a GameObject at a time. The GameObject's animation-active
// flag mirrors this: it is set when an animation is created and cleared when it is removed.
// Invalid requests are reported through return values only.
type Scheduler interface {
	// CreateAnimation registers a new animation in the Paused state. The target's current
	// position, rotation and scale are captured as the start snapshot.
	// The total frame count is floor(|delta| / speed * tickRate).
	//
	// Parameters:
	//   - target: the object to animate
	//   - kind: the attribute to drive
	//   - speed: units per second, must be > 0
	//   - delta: the total change to apply to the attribute
	//   - continuous: if true the animation loops forever and is only removed explicitly
	//
	// Returns:
	//   - Handle: identity handle to the new animation
	//   - bool: false with no side effect if target is nil, already animating, or speed <= 0
	CreateAnimation(target game_object.GameObject, kind Kind, speed float32, delta [3]float32, continuous bool) (Handle, bool)

	// Update advances every running animation by one frame if at least one tick interval has
	// elapsed since the last tick that performed work. Zero-frame animations snap to their end
	// value and are removed. Non-continuous animations that reach their frame count are
	// finalized, marked Finished and removed.
	Update()

	// RemoveAnimation removes the animation identified by h and clears its target's flag.
	//
	// Parameters:
	//   - h: the handle returned by CreateAnimation
	//
	// Returns:
	//   - bool: false if the handle is invalid or belongs to another scheduler
	RemoveAnimation(h Handle) bool

	// RemoveAnimationFor removes the animation targeting the given object and clears its flag.
	//
	// Parameters:
	//   - target: the animated object
	//
	// Returns:
	//   - bool: false if target is nil or has no animation
	RemoveAnimationFor(target game_object.GameObject) bool

	// PauseAllAnimations pauses every animation that is not Finished.
	PauseAllAnimations()

	// ResumeAllAnimations resumes every animation that is not Finished.
	ResumeAllAnimations()

	// Count returns the number of animations currently held by the scheduler.
	//
	// Returns:
	//   - int: the animation count
	Count() int

	// TickRate returns the logical update frequency in Hz.
	//
	// Returns:
	//   - int: ticks per second
	TickRate() int
}

var _ Scheduler = &scheduler{}

// NewScheduler creates an empty Scheduler ticking at DefaultTickRate on the wall clock.
//
// Parameters:
//   - options: functional options to configure the scheduler
//
// Returns:
//   - Scheduler: the newly created scheduler
func NewScheduler(options ...SchedulerBuilderOption) Scheduler {
	s := &scheduler{
		tickRate: DefaultTickRate,
		clock:    time.Now,
		log:      zerolog.Nop(),
	}
	for _, option := range options {
		option(s)
	}
	s.tickInterval = time.Second / time.Duration(s.tickRate)
	s.lastTick = s.clock()
	return s
}

func (s *scheduler) CreateAnimation(target game_object.GameObject, kind Kind, speed float32, delta [3]float32, continuous bool) (Handle, bool) {
	if target == nil || target.AnimationActive() || speed <= 0 {
		return Handle{}, false
	}

	s.nextID++
	p := property{
		id:            s.nextID,
		target:        target,
		kind:          kind,
		delta:         delta,
		speed:         speed,
		continuous:    continuous,
		state:         StatePaused,
		startPosition: target.Position(),
		startRotation: target.Rotation(),
		startScale:    target.Scale(),
	}
	p.totalFrames = frameCount(delta, speed, s.tickRate)
	if p.totalFrames > 0 {
		p.step = common.Scale3(delta, 1/float32(p.totalFrames))
	}

	s.animations = append(s.animations, p)
	target.SetAnimationActive(true)
	return Handle{id: p.id, s: s}, true
}

// frameCount returns floor(|delta| / speed * tickRate).
func frameCount(delta [3]float32, speed float32, tickRate int) int {
	distance := float64(common.Length3(delta))
	if distance == 0 {
		return 0
	}
	return int(math.Floor(distance / float64(speed) * float64(tickRate)))
}

func (s *scheduler) Update() {
	if len(s.animations) == 0 {
		return
	}

	now := s.clock()
	if now.Sub(s.lastTick) < s.tickInterval {
		return
	}

	worked, aborted := false, false
	kept := s.animations[:0]
	for i := 0; i < len(s.animations); i++ {
		p := s.animations[i]
		if p.state != StateRunning {
			if s.strictOrdering {
				// the rest of the pass is abandoned and the timer is left untouched
				kept = append(kept, s.animations[i:]...)
				aborted = true
				break
			}
			kept = append(kept, p)
			continue
		}
		worked = true

		if p.totalFrames == 0 {
			p.finalize()
			s.release(&p)
			continue
		}

		p.advance()
		if p.currentFrame >= p.totalFrames && !p.continuous {
			p.finalize()
			p.state = StateFinished
			s.release(&p)
			continue
		}
		p.currentFrame++
		kept = append(kept, p)
	}

	clear(s.animations[len(kept):])
	s.animations = kept
	if worked && !aborted {
		s.lastTick = now
	}
}

// release clears the target's flag for a property that is leaving the arena.
func (s *scheduler) release(p *property) {
	p.target.SetAnimationActive(false)
	s.log.Debug().
		Uint64("animation", p.id).
		Str("kind", p.kind.String()).
		Int("frames", p.totalFrames).
		Msg("animation finished")
}

func (s *scheduler) RemoveAnimation(h Handle) bool {
	if h.s != s {
		return false
	}
	i := s.indexOf(h.id)
	if i < 0 {
		return false
	}
	s.removeAt(i)
	return true
}

func (s *scheduler) RemoveAnimationFor(target game_object.GameObject) bool {
	if target == nil {
		return false
	}
	for i := range s.animations {
		if s.animations[i].target == target {
			s.removeAt(i)
			return true
		}
	}
	return false
}

func (s *scheduler) removeAt(i int) {
	s.animations[i].target.SetAnimationActive(false)
	s.animations = slices.Delete(s.animations, i, i+1)
}

func (s *scheduler) PauseAllAnimations() {
	for i := range s.animations {
		if s.animations[i].state != StateFinished {
			s.animations[i].state = StatePaused
		}
	}
}

func (s *scheduler) ResumeAllAnimations() {
	for i := range s.animations {
		if s.animations[i].state != StateFinished {
			s.animations[i].state = StateRunning
		}
	}
}

func (s *scheduler) Count() int {
	return len(s.animations)
}

func (s *scheduler) TickRate() int {
	return s.tickRate
}

// indexOf returns the arena index of the animation with the given id, or -1.
func (s *scheduler) indexOf(id uint64) int {
	if id == 0 {
		return -1
	}
	for i := range s.animations {
		if s.animations[i].id == id {
			return i
		}
	}
	return -1
}
