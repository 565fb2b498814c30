// Package replay drives a snake game from a YAML key script without a window.
package replay

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/eriks112/Snake3D/common"
	"github.com/eriks112/Snake3D/engine/animation"
	"github.com/eriks112/Snake3D/engine/input"
	"github.com/eriks112/Snake3D/engine/snake"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// ScriptVersion is the only script version Run accepts.
const ScriptVersion = 1

// Action is what happens to a key on a scripted tick.
type Action string

const (
	Press   Action = "press"
	Release Action = "release"
)

// Event presses or releases a key before the game update of the given tick.
type Event struct {
	Tick   int    `yaml:"tick"`
	Key    string `yaml:"key"`
	Action Action `yaml:"action"`
}

// Script is a deterministic game session.
type Script struct {
	Version     int     `yaml:"version"`
	Mode        string  `yaml:"mode"`
	ThirdPerson bool    `yaml:"thirdPerson,omitempty"`
	Speed       float32 `yaml:"speed,omitempty"`
	Seed        uint64  `yaml:"seed"`
	DeltaMs     float32 `yaml:"deltaMs"`
	Ticks       int     `yaml:"ticks"`
	Events      []Event `yaml:"events"`
}

// Result is the state of the game when the script ended.
type Result struct {
	TicksRun int `yaml:"ticksRun"`
	snake.Snapshot `yaml:",inline"`
}

// Validate checks the script before it is run.
func (s *Script) Validate() error {
	if s.Version != ScriptVersion {
		return fmt.Errorf("unsupported script version %d", s.Version)
	}
	if _, ok := snake.ParseMode(s.Mode); !ok {
		return fmt.Errorf("unknown mode %q", s.Mode)
	}
	if s.DeltaMs <= 0 {
		return fmt.Errorf("deltaMs must be positive, got %v", s.DeltaMs)
	}
	if s.Ticks < 0 {
		return fmt.Errorf("ticks must not be negative, got %d", s.Ticks)
	}
	if s.Speed < 0 {
		return fmt.Errorf("speed must not be negative, got %v", s.Speed)
	}
	for i, e := range s.Events {
		if e.Tick < 0 || e.Tick >= s.Ticks {
			return fmt.Errorf("event %d: tick %d outside [0, %d)", i, e.Tick, s.Ticks)
		}
		if _, ok := common.KeyCode(e.Key); !ok {
			return fmt.Errorf("event %d: unknown key %q", i, e.Key)
		}
		if e.Action != Press && e.Action != Release {
			return fmt.Errorf("event %d: unknown action %q", i, e.Action)
		}
	}
	return nil
}

// ReadScript reads and validates a script from a YAML file.
func ReadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}

	var script Script
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("failed to parse script %s: %w", path, err)
	}
	if err := script.Validate(); err != nil {
		return nil, fmt.Errorf("invalid script %s: %w", path, err)
	}
	return &script, nil
}

// WriteScript writes a script to a YAML file.
func WriteScript(script *Script, path string) error {
	data, err := yaml.Marshal(script)
	if err != nil {
		return fmt.Errorf("failed to encode script: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Run plays the script against a fresh game. Each tick applies the tick's key events,
// updates the game by DeltaMs and advances the animation scheduler on a simulated clock.
// The run stops early when the game is over.
//
// Parameters:
//   - ctx: cancels the run between ticks
//   - script: the script to play
//   - options: functional options for the run
//
// Returns:
//   - Result: the game state after the last tick
//   - error: if the script is invalid, the game fails to load or ctx is done
func Run(ctx context.Context, script *Script, options ...RunOption) (Result, error) {
	if script == nil {
		return Result{}, errors.New("nil script")
	}
	if err := script.Validate(); err != nil {
		return Result{}, fmt.Errorf("invalid script: %w", err)
	}

	r := &runner{log: zerolog.Nop()}
	for _, option := range options {
		option(r)
	}

	mode, _ := snake.ParseMode(script.Mode)
	step := time.Duration(float64(script.DeltaMs) * float64(time.Millisecond))
	now := time.Unix(0, 0)
	scheduler := animation.NewScheduler(
		animation.WithClock(func() time.Time { return now }),
		animation.WithLogger(r.log),
	)
	keys := input.NewKeyState()

	gameOptions := []snake.GameBuilderOption{
		snake.WithMode(mode),
		snake.WithThirdPerson(script.ThirdPerson),
		snake.WithSeed(script.Seed),
		snake.WithInput(keys),
		snake.WithScheduler(scheduler),
		snake.WithLogger(r.log),
	}
	if script.Speed > 0 {
		gameOptions = append(gameOptions, snake.WithSpeed(script.Speed))
	}
	if r.registry != nil {
		gameOptions = append(gameOptions, snake.WithRegistry(r.registry))
	}
	g := snake.NewGame(gameOptions...)
	if err := g.Load(); err != nil {
		return Result{}, fmt.Errorf("failed to load game: %w", err)
	}

	events := slices.Clone(script.Events)
	slices.SortStableFunc(events, func(a, b Event) int { return a.Tick - b.Tick })

	result := Result{}
	next := 0
	for tick := range script.Ticks {
		if err := ctx.Err(); err != nil {
			return Result{}, fmt.Errorf("replay stopped at tick %d: %w", tick, err)
		}

		for ; next < len(events) && events[next].Tick == tick; next++ {
			key, _ := common.KeyCode(events[next].Key)
			if events[next].Action == Press {
				keys.Press(key)
			} else {
				keys.Release(key)
			}
		}

		g.Update(script.DeltaMs)
		now = now.Add(step)
		scheduler.Update()
		result.TicksRun = tick + 1

		if r.onTick != nil {
			r.onTick(tick, g)
		}
		if g.Status().Over {
			break
		}
	}

	result.Snapshot = g.Snapshot()
	r.log.Info().
		Int("ticks", result.TicksRun).
		Int("score", result.Score).
		Bool("over", result.Status.Over).
		Msg("replay finished")
	return result, nil
}
