package profiler

import (
	"runtime"
	"time"

	"github.com/rs/zerolog"
)

// Stats is one profiling sample.
type Stats struct {
	// FPS is the number of ticks per second over the sample interval.
	FPS float64

	// HeapMB is the live heap in MiB.
	HeapMB float64

	// AllocRateMB is the allocation churn in MiB per second.
	AllocRateMB float64

	// GCCount is the total number of completed GC cycles.
	GCCount uint32

	// LastPauseUs and MaxPauseUs are the last and the longest GC pause since the previous sample.
	LastPauseUs uint64
	MaxPauseUs  uint64

	// SysMB is the memory obtained from the OS in MiB.
	SysMB float64
}

// Profiler tracks frame rate and memory statistics for performance monitoring.
// Outputs stats to the logger at a configurable interval.
type Profiler struct {
	name           string
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	now            func() time.Time
	log            zerolog.Logger
	last           Stats

	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
}

// ProfilerOption is a functional option for configuring a Profiler.
type ProfilerOption func(*Profiler)

// WithInterval sets how often stats are sampled and logged. Non-positive values are ignored.
//
// Parameters:
//   - interval: the sample interval
//
// Returns:
//   - ProfilerOption: option function to apply
func WithInterval(interval time.Duration) ProfilerOption {
	return func(p *Profiler) {
		if interval > 0 {
			p.updateInterval = interval
		}
	}
}

// WithLogger sets the logger that receives the samples.
//
// Parameters:
//   - log: the logger
//
// Returns:
//   - ProfilerOption: option function to apply
func WithLogger(log zerolog.Logger) ProfilerOption {
	return func(p *Profiler) {
		p.log = log
	}
}

// WithClock replaces time.Now, mainly for tests.
//
// Parameters:
//   - now: the clock function
//
// Returns:
//   - ProfilerOption: option function to apply
func WithClock(now func() time.Time) ProfilerOption {
	return func(p *Profiler) {
		if now != nil {
			p.now = now
		}
	}
}

// NewProfiler creates a new Profiler with default settings.
// Update interval defaults to 1 second.
//
// Parameters:
//   - name: the loop being profiled, added to every log line
//   - options: functional options to configure the profiler
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(name string, options ...ProfilerOption) *Profiler {
	p := &Profiler{
		name:           name,
		updateInterval: time.Second,
		now:            time.Now,
		log:            zerolog.Nop(),
	}
	for _, opt := range options {
		opt(p)
	}
	p.lastTime = p.now()
	return p
}

// Tick should be called once per frame to track frame timing.
// Logs performance statistics when the update interval has elapsed.
//
// Returns:
//   - bool: true if stats were sampled this tick, false otherwise
func (p *Profiler) Tick() bool {
	p.frameCount++
	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	s := Stats{FPS: float64(p.frameCount) / elapsed.Seconds()}

	runtime.ReadMemStats(&p.memStats)
	s.HeapMB = float64(p.memStats.Alloc) / 1024 / 1024
	s.SysMB = float64(p.memStats.Sys) / 1024 / 1024
	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	s.AllocRateMB = float64(allocDelta) / 1024 / 1024 / elapsed.Seconds()

	// PauseNs is a circular buffer of the last 256 GC pauses
	s.GCCount = p.memStats.NumGC
	if s.GCCount > 0 {
		s.LastPauseUs = p.memStats.PauseNs[(s.GCCount-1)%256] / 1000

		startIdx := p.lastGCCount
		if s.GCCount-startIdx > 256 {
			startIdx = s.GCCount - 256
		}
		for i := startIdx; i < s.GCCount; i++ {
			s.MaxPauseUs = max(s.MaxPauseUs, p.memStats.PauseNs[i%256]/1000)
		}
	}

	p.log.Info().
		Str("loop", p.name).
		Float64("fps", s.FPS).
		Float64("heapMB", s.HeapMB).
		Float64("allocRateMB", s.AllocRateMB).
		Uint32("gc", s.GCCount).
		Uint64("gcLastPauseUs", s.LastPauseUs).
		Uint64("gcMaxPauseUs", s.MaxPauseUs).
		Float64("sysMB", s.SysMB).
		Msg("profiler")

	p.last = s
	p.frameCount = 0
	p.lastTime = currentTime
	p.lastGCCount = s.GCCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}

// Last returns the most recent sample, the zero value before the first one.
//
// Returns:
//   - Stats: the last sample
func (p *Profiler) Last() Stats {
	return p.last
}
