package snake

import (
	"math/rand/v2"

	"github.com/eriks112/Snake3D/engine/animation"
	"github.com/rs/zerolog"
)

// GameBuilderOption is a functional option for configuring a Game.
type GameBuilderOption func(*game)

// WithMode selects the segment kinematics. Defaults to KinematicsPath.
//
// Parameters:
//   - mode: the kinematics mode
//
// Returns:
//   - GameBuilderOption: option function to apply
func WithMode(mode Mode) GameBuilderOption {
	return func(g *game) {
		g.mode = mode
	}
}

// WithSpeed sets the head's starting speed. Values <= 0 keep DefaultSpeed.
//
// Parameters:
//   - speed: hundredths of a unit per millisecond
//
// Returns:
//   - GameBuilderOption: option function to apply
func WithSpeed(speed float32) GameBuilderOption {
	return func(g *game) {
		if speed > 0 {
			g.speed = speed
		}
	}
}

// WithSpeedIncrement sets how much the head speeds up per grown segment.
//
// Parameters:
//   - increment: speed added per segment
//
// Returns:
//   - GameBuilderOption: option function to apply
func WithSpeedIncrement(increment float32) GameBuilderOption {
	return func(g *game) {
		g.speedIncrement = increment
	}
}

// WithSpacing sets the distance between chain links. Values <= 0 keep DefaultSpacing.
//
// Parameters:
//   - spacing: link distance in world units
//
// Returns:
//   - GameBuilderOption: option function to apply
func WithSpacing(spacing float32) GameBuilderOption {
	return func(g *game) {
		if spacing > 0 {
			g.spacing = spacing
		}
	}
}

// WithHeadY sets the height of the head and therefore of every segment.
//
// Parameters:
//   - y: the head height
//
// Returns:
//   - GameBuilderOption: option function to apply
func WithHeadY(y float32) GameBuilderOption {
	return func(g *game) {
		g.headY = y
	}
}

// WithThirdPerson enables relative quarter turns in turn mode.
//
// Parameters:
//   - enabled: true for third-person controls
//
// Returns:
//   - GameBuilderOption: option function to apply
func WithThirdPerson(enabled bool) GameBuilderOption {
	return func(g *game) {
		g.thirdPerson = enabled
	}
}

// WithScheduler sets the animation scheduler segment and head turns are queued on.
// A private scheduler is created if none is given.
//
// Parameters:
//   - s: the scheduler, advanced by the caller
//
// Returns:
//   - GameBuilderOption: option function to apply
func WithScheduler(s animation.Scheduler) GameBuilderOption {
	return func(g *game) {
		g.scheduler = s
	}
}

// WithInput sets the keyboard source.
//
// Parameters:
//   - in: the key query source
//
// Returns:
//   - GameBuilderOption: option function to apply
func WithInput(in Input) GameBuilderOption {
	return func(g *game) {
		g.input = in
	}
}

// WithModelLoader sets the collaborator that prepares model assets during Load.
//
// Parameters:
//   - loader: the model loader
//
// Returns:
//   - GameBuilderOption: option function to apply
func WithModelLoader(loader ModelLoader) GameBuilderOption {
	return func(g *game) {
		g.loader = loader
	}
}

// WithRegistry sets where created nodes are registered.
//
// Parameters:
//   - r: the node registry, usually the scene
//
// Returns:
//   - GameBuilderOption: option function to apply
func WithRegistry(r Registry) GameBuilderOption {
	return func(g *game) {
		g.registry = r
	}
}

// WithSeed makes pickup spawning deterministic.
//
// Parameters:
//   - seed: the random seed
//
// Returns:
//   - GameBuilderOption: option function to apply
func WithSeed(seed uint64) GameBuilderOption {
	return func(g *game) {
		g.rng = rand.New(rand.NewPCG(seed, seed))
	}
}

// WithLogger sets the logger for game events.
//
// Parameters:
//   - logger: the zerolog logger
//
// Returns:
//   - GameBuilderOption: option function to apply
func WithLogger(logger zerolog.Logger) GameBuilderOption {
	return func(g *game) {
		g.log = logger
	}
}
