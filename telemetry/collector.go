package telemetry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/fountain/systems"
)

// Collector diffs particle field counters between windows and produces
// WindowStats for every emitter.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32

	// Current window tracking
	windowStartTick int32
	windowStartTime float64

	// Counters of each field at the start of the current window, by position
	baseline []systems.FieldCounters
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: nominal seconds per tick (used to size the window in ticks)
func NewCollector(windowDurationSec, dt float64) *Collector {
	ticksPerWindow := int32(1)
	if dt > 0 {
		ticksPerWindow = int32(math.Round(windowDurationSec / dt))
	}
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
	}
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces one WindowStats per field and starts a new window.
// simTime is the simulated seconds elapsed at currentTick; frames in windowed
// mode use the real frame delta, so it is not derived from the tick count.
func (c *Collector) Flush(currentTick int32, simTime float64, fields []*systems.ParticleField) []WindowStats {
	elapsed := simTime - c.windowStartTime
	out := make([]WindowStats, 0, len(fields))

	if len(c.baseline) != len(fields) {
		c.baseline = make([]systems.FieldCounters, len(fields))
	}

	for i, f := range fields {
		now := f.Counters()
		prev := c.baseline[i]
		c.baseline[i] = now

		s := WindowStats{
			Emitter:         f.Name(),
			Mode:            f.Mode().String(),
			WindowStartTick: c.windowStartTick,
			WindowEndTick:   currentTick,
			SimTimeSec:      simTime,

			Capacity:      f.Capacity(),
			SpawnInterval: f.SpawnInterval(),

			Spawned:   now.Spawned - prev.Spawned,
			Skipped:   now.Skipped - prev.Skipped,
			Retired:   now.Retired - prev.Retired,
			Resamples: now.Resamples - prev.Resamples,
		}

		if elapsed > 0 {
			s.SpawnRate = float64(s.Spawned) / elapsed
		}
		if attempts := s.Spawned + s.Skipped; attempts > 0 {
			s.SkipRate = float64(s.Skipped) / float64(attempts)
		}

		var lifetimes, speeds []float64
		for _, p := range f.Pool() {
			if !p.Active {
				continue
			}
			lifetimes = append(lifetimes, p.LifeTime)
			speeds = append(speeds, r3.Norm(p.Velocity))
		}
		s.Active = len(lifetimes)
		if s.Capacity > 0 {
			s.Occupancy = float64(s.Active) / float64(s.Capacity)
		}
		s.LifeTimeMean, s.LifeTimeStd, s.LifeTimeP10, s.LifeTimeP50, s.LifeTimeP90 = ComputeDistribution(lifetimes)
		s.SpeedMean, _, _, _, _ = ComputeDistribution(speeds)
		for _, v := range speeds {
			s.SpeedMax = math.Max(s.SpeedMax, v)
		}

		out = append(out, s)
	}

	c.windowStartTick = currentTick
	c.windowStartTime = simTime
	return out
}

// WindowDurationSec returns the configured window length in seconds.
func (c *Collector) WindowDurationSec() float64 {
	return c.windowDurationSec
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
