package game

// Options configures a Game beyond what the config file holds.
type Options struct {
	Seed           int64   // Root seed; each emitter derives its own stream
	LogStats       bool    // Log window stats via slog
	StatsWindowSec float64 // Overrides telemetry.stats_window when > 0
	OutputDir      string  // CSV and config snapshot directory (empty = disabled)
	Headless       bool
	StepsPerUpdate int // Field updates per Update call, clamped to [1, MaxStepsPerUpdate]
}

// MaxStepsPerUpdate bounds the fast-forward multiplier.
const MaxStepsPerUpdate = 10

// DefaultOptions returns options for an interactive run.
func DefaultOptions() Options {
	return Options{
		StepsPerUpdate: 1,
	}
}
