package animation

import (
	"time"

	"github.com/rs/zerolog"
)

// SchedulerBuilderOption is a functional option for configuring a Scheduler.
type SchedulerBuilderOption func(*scheduler)

// WithTickRate sets the logical update frequency in Hz.
// Values <= 0 are treated as DefaultTickRate.
//
// Parameters:
//   - hz: ticks per second
//
// Returns:
//   - SchedulerBuilderOption: option function to apply
func WithTickRate(hz int) SchedulerBuilderOption {
	return func(s *scheduler) {
		if hz <= 0 {
			hz = DefaultTickRate
		}
		s.tickRate = hz
	}
}

// WithClock replaces the wall clock used by the tick gate. Replays and tests use it to
// step time deterministically.
//
// Parameters:
//   - clock: function returning the current time
//
// Returns:
//   - SchedulerBuilderOption: option function to apply
func WithClock(clock func() time.Time) SchedulerBuilderOption {
	return func(s *scheduler) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithStrictOrdering makes Update abandon the whole pass at the first animation that is not
// running, leaving later animations untouched for that tick. By default such entries are skipped.
//
// Parameters:
//   - strict: true to stop at the first non-running animation
//
// Returns:
//   - SchedulerBuilderOption: option function to apply
func WithStrictOrdering(strict bool) SchedulerBuilderOption {
	return func(s *scheduler) {
		s.strictOrdering = strict
	}
}

// WithLogger sets the logger used for animation lifecycle debug output.
//
// Parameters:
//   - logger: the zerolog logger
//
// Returns:
//   - SchedulerBuilderOption: option function to apply
func WithLogger(logger zerolog.Logger) SchedulerBuilderOption {
	return func(s *scheduler) {
		s.log = logger
	}
}
