package snake

import (
	"github.com/eriks112/Snake3D/common"
	"github.com/eriks112/Snake3D/engine/game_object"
)

// Waypoint is a sampled head transform that a segment steers towards.
type Waypoint struct {
	Position [3]float32
	Rotation [3]float32
}

// Trail records the head's path as a list of waypoints spaced one segment apart.
// The newest waypoint is at index 0.
type Trail struct {
	spacing     float32
	baseline    [3]float32
	baselineSet bool
	points      []Waypoint
}

// NewTrail creates an empty trail that samples the head every spacing units.
//
// Parameters:
//   - spacing: distance the head must travel between two samples
//
// Returns:
//   - *Trail: the new trail
func NewTrail(spacing float32) *Trail {
	return &Trail{spacing: spacing}
}

// Record samples the head. The first call only sets the baseline. Once the head is at
// least spacing units away from the baseline its position and rotation are prepended and
// the baseline moves to the head. The trail is then trimmed to segments + 1 entries.
//
// Parameters:
//   - head: the node being followed
//   - segments: the current number of follower segments
//
// Returns:
//   - bool: true if a waypoint was added
func (t *Trail) Record(head game_object.GameObject, segments int) bool {
	pos := head.Position()
	if !t.baselineSet {
		t.baseline = pos
		t.baselineSet = true
	}

	added := false
	if common.Distance3(pos, t.baseline) >= t.spacing {
		t.points = append(t.points, Waypoint{})
		copy(t.points[1:], t.points)
		t.points[0] = Waypoint{Position: pos, Rotation: head.Rotation()}
		t.baseline = pos
		added = true
	}

	limit := max(segments+1, 0)
	if len(t.points) > limit {
		clear(t.points[limit:])
		t.points = t.points[:limit]
	}
	return added
}

// Waypoint returns the waypoint at index i, where 0 is the newest.
//
// Parameters:
//   - i: the waypoint index
//
// Returns:
//   - Waypoint: the sample
//   - bool: false if the trail has no entry at i
func (t *Trail) Waypoint(i int) (Waypoint, bool) {
	if i < 0 || i >= len(t.points) {
		return Waypoint{}, false
	}
	return t.points[i], true
}

// Waypoints returns a copy of the trail, newest first.
func (t *Trail) Waypoints() []Waypoint {
	out := make([]Waypoint, len(t.points))
	copy(out, t.points)
	return out
}

// Len returns the number of recorded waypoints.
func (t *Trail) Len() int {
	return len(t.points)
}

// Spacing returns the sampling distance.
func (t *Trail) Spacing() float32 {
	return t.spacing
}

// Reset drops every waypoint and forgets the baseline.
func (t *Trail) Reset() {
	t.points = t.points[:0]
	t.baselineSet = false
}
