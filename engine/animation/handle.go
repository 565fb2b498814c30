package animation

import "github.com/eriks112/Snake3D/engine/game_object"

// Handle identifies an animation owned by a Scheduler. It never points into the scheduler's
// storage, so it stays safe to hold after the animation has been removed; every method on a
// stale or zero Handle is a no-op.
type Handle struct {
	id uint64
	s  *scheduler
}

// lookup returns the live arena entry for the handle, or nil once it has been removed.
func (h Handle) lookup() *property {
	if h.s == nil {
		return nil
	}
	i := h.s.indexOf(h.id)
	if i < 0 {
		return nil
	}
	return &h.s.animations[i]
}

// Valid reports whether the animation is still held by its scheduler.
//
// Returns:
//   - bool: false for zero handles and removed animations
func (h Handle) Valid() bool {
	return h.lookup() != nil
}

// Start moves the animation into the Running state.
//
// Returns:
//   - bool: false if the handle is stale or the animation is Finished
func (h Handle) Start() bool {
	p := h.lookup()
	if p == nil || p.state == StateFinished {
		return false
	}
	p.state = StateRunning
	return true
}

// Pause stops a running animation without losing its current frame.
//
// Returns:
//   - bool: false if the handle is stale or the animation is Finished
func (h Handle) Pause() bool {
	p := h.lookup()
	if p == nil || p.state == StateFinished {
		return false
	}
	p.state = StatePaused
	return true
}

// Resume restarts a paused animation from its current frame.
//
// Returns:
//   - bool: false if the handle is stale or the animation is Finished
func (h Handle) Resume() bool {
	return h.Start()
}

// State returns the lifecycle state. Removed animations report StateFinished.
//
// Returns:
//   - State: the current state
func (h Handle) State() State {
	p := h.lookup()
	if p == nil {
		return StateFinished
	}
	return p.state
}

// CurrentFrame returns the number of frames applied so far.
//
// Returns:
//   - int: the current frame, 0 for a stale handle
func (h Handle) CurrentFrame() int {
	if p := h.lookup(); p != nil {
		return p.currentFrame
	}
	return 0
}

// TotalFrames returns the frame count computed at creation.
//
// Returns:
//   - int: the total frame count, 0 for a stale handle
func (h Handle) TotalFrames() int {
	if p := h.lookup(); p != nil {
		return p.totalFrames
	}
	return 0
}

// Target returns the animated object.
//
// Returns:
//   - game_object.GameObject: the target, nil for a stale handle
func (h Handle) Target() game_object.GameObject {
	if p := h.lookup(); p != nil {
		return p.target
	}
	return nil
}
