package telemetry

import (
	"context"
	"log/slog"
	"math"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Phase names for the host tick.
const (
	PhaseFields    = "fields"    // ParticleField.Update for every emitter
	PhaseViews     = "views"     // Emitter snapshots for the HUD and renderer
	PhaseTelemetry = "telemetry" // Window flush and CSV output
)

// Phases lists the tick phases in execution order.
var Phases = []string{PhaseFields, PhaseViews, PhaseTelemetry}

// PerfCollector keeps a rolling window of tick and phase durations.
// Samples live in ring buffers of nanoseconds; every phase buffer is
// aligned with the tick buffer, holding zero for ticks that skipped it.
type PerfCollector struct {
	window int
	next   int // ring slot the next tick writes
	filled int // valid samples, at most window

	ticks  []float64
	phases map[string][]float64

	current    map[string]time.Duration
	tickStart  time.Time
	phaseStart time.Time
	phase      string

	// Frame timing (for graphics mode)
	lastFrame time.Time
	frame     time.Duration
}

// NewPerfCollector creates a collector averaging over window ticks (60 if
// window < 1).
func NewPerfCollector(window int) *PerfCollector {
	if window < 1 {
		window = 60
	}
	return &PerfCollector{
		window:  window,
		ticks:   make([]float64, window),
		phases:  make(map[string][]float64),
		current: make(map[string]time.Duration),
	}
}

// StartTick begins timing a new tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	clear(p.current)
	p.phase = ""
}

// StartPhase closes the running phase, if any, and starts timing phase.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	p.closePhase(now)
	p.phaseStart = now
	p.phase = phase
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.phase != "" {
		p.current[p.phase] += now.Sub(p.phaseStart)
	}
}

// EndTick closes the running phase and stores the tick in the window.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	p.closePhase(now)
	p.phase = ""

	for name := range p.current {
		if _, ok := p.phases[name]; !ok {
			p.phases[name] = make([]float64, p.window)
		}
	}
	for name, buf := range p.phases {
		buf[p.next] = float64(p.current[name])
	}
	p.ticks[p.next] = float64(now.Sub(p.tickStart))

	p.next = (p.next + 1) % p.window
	if p.filled < p.window {
		p.filled++
	}
}

// RecordFrame records frame timing for graphics mode.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrame.IsZero() {
		p.frame = now.Sub(p.lastFrame)
	}
	p.lastFrame = now
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	// Tick timing
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration

	// Phase breakdown (average durations)
	PhaseAvg map[string]time.Duration

	// Phase percentages of total tick time
	PhasePct map[string]float64

	// Throughput
	TicksPerSecond float64

	// Frame timing (graphics mode)
	FrameDuration time.Duration
	FPS           float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	out := PerfStats{
		PhaseAvg:      make(map[string]time.Duration, len(p.phases)),
		PhasePct:      make(map[string]float64, len(p.phases)),
		FrameDuration: p.frame,
	}
	if p.frame > 0 {
		out.FPS = float64(time.Second) / float64(p.frame)
	}
	if p.filled == 0 {
		return out
	}

	ticks := p.ticks[:p.filled]
	avg := stat.Mean(ticks, nil)
	out.AvgTickDuration = time.Duration(avg)
	out.MinTickDuration = time.Duration(floats.Min(ticks))
	out.MaxTickDuration = time.Duration(floats.Max(ticks))
	if avg > 0 {
		out.TicksPerSecond = float64(time.Second) / avg
	}

	for name, buf := range p.phases {
		mean := stat.Mean(buf[:p.filled], nil)
		out.PhaseAvg[name] = time.Duration(mean)
		if avg > 0 {
			out.PhasePct[name] = mean / avg * 100
		}
	}
	return out
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	slog.LogAttrs(context.Background(), slog.LevelInfo, "perf", s.attrs()...)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	return slog.GroupValue(s.attrs()...)
}

// attrs lists tick timings, then FPS when rendering, then phase shares in
// execution order. Phases under 0.1% are omitted.
func (s PerfStats) attrs() []slog.Attr {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("min_tick_us", s.MinTickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Int("ticks_per_sec", int(s.TicksPerSecond)),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Int("fps", int(s.FPS)))
	}
	for _, phase := range Phases {
		if pct := s.PhasePct[phase]; pct > 0.1 {
			attrs = append(attrs, slog.Float64(phase+"_pct", math.Round(pct*10)/10))
		}
	}
	return attrs
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	WindowEnd    int32   `csv:"window_end"`
	AvgTickUS    int64   `csv:"avg_tick_us"`
	MinTickUS    int64   `csv:"min_tick_us"`
	MaxTickUS    int64   `csv:"max_tick_us"`
	TicksPerSec  float64 `csv:"ticks_per_sec"`
	FPS          float64 `csv:"fps"`
	FieldsPct    float64 `csv:"fields_pct"`
	ViewsPct     float64 `csv:"views_pct"`
	TelemetryPct float64 `csv:"telemetry_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:    windowEnd,
		AvgTickUS:    s.AvgTickDuration.Microseconds(),
		MinTickUS:    s.MinTickDuration.Microseconds(),
		MaxTickUS:    s.MaxTickDuration.Microseconds(),
		TicksPerSec:  s.TicksPerSecond,
		FPS:          s.FPS,
		FieldsPct:    s.PhasePct[PhaseFields],
		ViewsPct:     s.PhasePct[PhaseViews],
		TelemetryPct: s.PhasePct[PhaseTelemetry],
	}
}
