package telemetry

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics of one emitter over a time window.
type WindowStats struct {
	Emitter         string  `csv:"emitter"`
	Mode            string  `csv:"mode"`
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Pool state at window end
	Capacity      int     `csv:"capacity"`
	Active        int     `csv:"active"`
	Occupancy     float64 `csv:"occupancy"`
	SpawnInterval float64 `csv:"spawn_interval"`

	// Events during window
	Spawned   int     `csv:"spawned"`
	Skipped   int     `csv:"skipped"`
	Retired   int     `csv:"retired"`
	Resamples int     `csv:"resamples"`
	SpawnRate float64 `csv:"spawn_rate"` // Spawns per simulated second
	SkipRate  float64 `csv:"skip_rate"`  // Skipped / (Spawned + Skipped)

	// Remaining lifetime of active particles (sampled at window end)
	LifeTimeMean float64 `csv:"lifetime_mean"`
	LifeTimeStd  float64 `csv:"lifetime_std"`
	LifeTimeP10  float64 `csv:"lifetime_p10"`
	LifeTimeP50  float64 `csv:"lifetime_p50"`
	LifeTimeP90  float64 `csv:"lifetime_p90"`

	// Speed of active particles
	SpeedMean float64 `csv:"speed_mean"`
	SpeedMax  float64 `csv:"speed_max"`
}

// Percentile returns the empirical p-th quantile of a sorted slice.
// p is clamped to [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	p = math.Max(0, math.Min(1, p))
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// ComputeDistribution calculates mean, std, and percentiles from values.
// The standard deviation is the sample one and is zero below two values.
func ComputeDistribution(values []float64) (mean, std, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0, 0
	}

	if n < 2 {
		mean = stat.Mean(values, nil)
	} else {
		mean, std = stat.MeanStdDev(values, nil)
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, std, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("emitter", s.Emitter),
		slog.String("mode", s.Mode),
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("capacity", s.Capacity),
		slog.Int("active", s.Active),
		slog.Float64("occupancy", s.Occupancy),
		slog.Float64("spawn_interval", s.SpawnInterval),
		slog.Int("spawned", s.Spawned),
		slog.Int("skipped", s.Skipped),
		slog.Int("retired", s.Retired),
		slog.Int("resamples", s.Resamples),
		slog.Float64("spawn_rate", s.SpawnRate),
		slog.Float64("skip_rate", s.SkipRate),
		slog.Float64("lifetime_mean", s.LifeTimeMean),
		slog.Float64("lifetime_std", s.LifeTimeStd),
		slog.Float64("lifetime_p10", s.LifeTimeP10),
		slog.Float64("lifetime_p50", s.LifeTimeP50),
		slog.Float64("lifetime_p90", s.LifeTimeP90),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_max", s.SpeedMax),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"emitter", s.Emitter,
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"active", s.Active,
		"capacity", s.Capacity,
		"occupancy", s.Occupancy,
		"spawned", s.Spawned,
		"skipped", s.Skipped,
		"retired", s.Retired,
		"spawn_rate", s.SpawnRate,
		"spawn_interval", s.SpawnInterval,
		"lifetime_mean", s.LifeTimeMean,
		"lifetime_p50", s.LifeTimeP50,
		"speed_mean", s.SpeedMean,
	)
}
