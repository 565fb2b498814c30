package snake

import (
	"github.com/eriks112/Snake3D/common"
	"github.com/eriks112/Snake3D/engine/animation"
	"github.com/eriks112/Snake3D/engine/game_object"
)

// Mode selects how segments follow the head.
type Mode int

const (
	// KinematicsPath makes segments steer along the waypoints recorded by the Trail.
	KinematicsPath Mode = iota

	// KinematicsTurn makes segments copy their parent's heading, handing a turn down the
	// chain once each segment reaches the point where its parent turned.
	KinematicsTurn
)

// String returns the config name of the mode.
func (m Mode) String() string {
	if m == KinematicsTurn {
		return "turn"
	}
	return "path"
}

// ParseMode resolves a config name to a Mode.
//
// Parameters:
//   - name: "path" or "turn"
//
// Returns:
//   - Mode: the mode
//   - bool: false if the name is unknown
func ParseMode(name string) (Mode, bool) {
	switch name {
	case "path":
		return KinematicsPath, true
	case "turn":
		return KinematicsTurn, true
	default:
		return KinematicsPath, false
	}
}

// Variant is the visual representation of a segment.
type Variant int

const (
	VariantTail Variant = iota
	VariantBody
)

// String returns the lower-case name of the variant.
func (v Variant) String() string {
	if v == VariantBody {
		return "body"
	}
	return "tail"
}

// Link is one element of the snake chain: the head at index 0 followed by the segments.
// It carries the turn hand-off state, which is owned by the kinematics and not by the node.
type Link struct {
	node    game_object.GameObject
	variant Variant

	movePending    bool
	turnPending    bool
	positionAtTurn [3]float32
}

// Node returns the transform node of the link.
func (l *Link) Node() game_object.GameObject {
	return l.node
}

// Variant returns the segment's visual variant. Meaningless for the head.
func (l *Link) Variant() Variant {
	return l.variant
}

// MovePending reports whether the link has turned and its follower has not caught up yet.
func (l *Link) MovePending() bool {
	return l.movePending
}

// TurnPending reports whether the link has latched its parent's turn point.
func (l *Link) TurnPending() bool {
	return l.turnPending
}

// PositionAtTurn returns the latched turn point of the parent.
func (l *Link) PositionAtTurn() [3]float32 {
	return l.positionAtTurn
}

// turnThreshold is the minimum forward component that counts as moving along an axis.
const turnThreshold = 0.1

// pathTurnSpeedFactor scales the head speed into the speed of a segment's rotation animation.
const pathTurnSpeedFactor = 0.3

// step returns the displacement for moving along dir for dt milliseconds at speed.
// Speed is expressed in hundredths of a unit per millisecond.
func step(dir [3]float32, speed, dt float32) [3]float32 {
	return common.Scale3(dir, speed/100*dt)
}

// followPath moves every segment one tick along the trail. Segment i steers towards
// waypoint i: its rotation is handed to the scheduler and it moves on the normalized
// direction to the waypoint. A segment without a waypoint keeps going straight.
func followPath(segments []*Link, trail *Trail, scheduler animation.Scheduler, speed, dt float32) {
	for i, seg := range segments {
		node := seg.node
		dir := node.ForwardVector(false)

		if wp, ok := trail.Waypoint(i); ok {
			delta := common.Sub3(wp.Rotation, node.Rotation())
			if h, ok := scheduler.CreateAnimation(node, animation.KindRotation, pathTurnSpeedFactor*speed, delta, false); ok {
				h.Start()
			}

			if toward, ok := common.Normalize3(common.Sub3(wp.Position, node.Position())); ok {
				dir = toward
			}
		}

		node.AdjustPosition(step(dir, speed, dt))
	}
}

// followTurns moves every segment one tick in turn hand-off mode. chain[0] is the head and
// is not moved here. Segments are processed in chain order so each sees its parent's state
// for this tick.
//
// It returns true if any segment completed a turn this tick.
func followTurns(chain []*Link, speed, dt, spacing float32) bool {
	turned := false
	last := len(chain) - 1

	for i := 1; i < len(chain); i++ {
		seg, parent := chain[i], chain[i-1]
		node := seg.node

		if !parent.movePending {
			node.AdjustPosition(step(parent.node.ForwardVector(false), speed, dt))
			continue
		}

		node.AdjustPosition(step(node.ForwardVector(false), speed, dt))
		if !seg.turnPending {
			seg.positionAtTurn = parent.node.Position()
			seg.turnPending = true
		}

		if !passedTurn(node.ForwardVector(false), node.Position(), seg.positionAtTurn) {
			continue
		}

		// the last segment settles the chain, every other one hands the turn on
		seg.movePending = i != last
		parent.movePending = false
		seg.turnPending = false
		node.SetRotation(parent.node.Rotation())
		if pos, ok := behind(parent.node, spacing); ok {
			node.SetPosition(pos)
		}
		turned = true
	}
	return turned
}

// passedTurn reports whether a node moving along dir is past the latched point on any axis
// it has a significant component on.
func passedTurn(dir, pos, latched [3]float32) bool {
	switch {
	case dir[0] > turnThreshold && latched[0]-pos[0] < 0:
		return true
	case dir[0] < -turnThreshold && pos[0]-latched[0] < 0:
		return true
	case dir[2] > turnThreshold && latched[2]-pos[2] < 0:
		return true
	case dir[2] < -turnThreshold && pos[2]-latched[2] < 0:
		return true
	}
	return false
}

// behind returns the point spacing units behind parent along its dominant forward axis,
// checking z before x. It returns false if the parent faces no axis significantly.
func behind(parent game_object.GameObject, spacing float32) ([3]float32, bool) {
	p := parent.Position()
	fwd := parent.ForwardVector(false)

	switch {
	case fwd[2] > turnThreshold:
		p[2] -= spacing
	case fwd[2] < -turnThreshold:
		p[2] += spacing
	case fwd[0] > turnThreshold:
		p[0] -= spacing
	case fwd[0] < -turnThreshold:
		p[0] += spacing
	default:
		return p, false
	}
	return p, true
}
