package replay

import (
	"github.com/eriks112/Snake3D/engine/snake"
	"github.com/rs/zerolog"
)

type runner struct {
	log      zerolog.Logger
	registry snake.Registry
	onTick   func(tick int, g snake.Game)
}

// RunOption configures a replay run.
type RunOption func(*runner)

// WithLogger sets the logger handed to the game and the scheduler.
//
// Parameters:
//   - logger: the logger to use
//
// Returns:
//   - RunOption: a function that applies the logger
func WithLogger(logger zerolog.Logger) RunOption {
	return func(r *runner) {
		r.log = logger
	}
}

// WithRegistry registers the game's nodes with r, usually a scene that is baked per tick.
//
// Parameters:
//   - registry: the node registry
//
// Returns:
//   - RunOption: a function that applies the registry
func WithRegistry(registry snake.Registry) RunOption {
	return func(r *runner) {
		r.registry = registry
	}
}

// WithTickCallback calls fn after every simulated tick.
//
// Parameters:
//   - fn: receives the zero-based tick and the game
//
// Returns:
//   - RunOption: a function that applies the callback
func WithTickCallback(fn func(tick int, g snake.Game)) RunOption {
	return func(r *runner) {
		r.onTick = fn
	}
}
