// Package game hosts the emitter world: one ECS entity per configured emitter,
// stepped together with shared telemetry.
package game

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/fountain/components"
	"github.com/pthm-cable/fountain/config"
	"github.com/pthm-cable/fountain/systems"
	"github.com/pthm-cable/fountain/telemetry"
)

// Game holds the complete host state.
type Game struct {
	cfg   *config.Config
	world *ecs.World
	seed  int64

	emitterMapper *ecs.Map3[components.Emitter, components.Placement, components.Readout]
	emitterFilter *ecs.Filter3[components.Emitter, components.Placement, components.Readout]
	placementMap  *ecs.Map1[components.Placement]

	// Entities and fields in config order
	entities []ecs.Entity
	fields   []*systems.ParticleField

	// Telemetry
	collector     *telemetry.Collector
	perfCollector *telemetry.PerfCollector
	outputManager *telemetry.OutputManager
	emitterClock  *emitterClock
	logStats      bool
	statsCallback func([]telemetry.WindowStats)
	lastStats     []telemetry.WindowStats

	// State
	tick           int32
	simTime        float64
	paused         bool
	stepsPerUpdate int
}

// NewGame creates a game with default options and the global config.
func NewGame() (*Game, error) {
	return NewGameWithOptions(config.Cfg(), DefaultOptions())
}

// NewGameWithOptions creates a game from cfg. Every emitter gets its own RNG
// stream derived from opts.Seed, so adding an emitter does not perturb the
// others' earlier draws.
func NewGameWithOptions(cfg *config.Config, opts Options) (*Game, error) {
	if cfg == nil {
		return nil, fmt.Errorf("creating game: nil config")
	}

	seed := opts.Seed
	if seed == 0 {
		seed = cfg.Simulation.Seed
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	statsWindow := cfg.Telemetry.StatsWindow
	if opts.StatsWindowSec > 0 {
		statsWindow = opts.StatsWindowSec
	}

	world := ecs.NewWorld()
	g := &Game{
		cfg:            cfg,
		world:          world,
		seed:           seed,
		emitterMapper:  ecs.NewMap3[components.Emitter, components.Placement, components.Readout](world),
		emitterFilter:  ecs.NewFilter3[components.Emitter, components.Placement, components.Readout](world),
		placementMap:   ecs.NewMap1[components.Placement](world),
		collector:      telemetry.NewCollector(statsWindow, cfg.Simulation.DT),
		perfCollector:  telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		emitterClock:   newEmitterClock(),
		logStats:       opts.LogStats,
		stepsPerUpdate: clampSteps(opts.StepsPerUpdate),
	}

	if err := g.spawnEmitters(); err != nil {
		return nil, err
	}

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("creating output manager: %w", err)
	}
	g.outputManager = om
	if err := om.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
	}

	slog.Info("game created",
		"emitters", len(g.fields),
		"seed", seed,
		"stats_window", statsWindow,
		"output_dir", om.Dir(),
	)

	return g, nil
}

// spawnEmitters creates one entity per configured emitter.
func (g *Game) spawnEmitters() error {
	root := rand.New(rand.NewSource(g.seed))

	for i, ec := range g.cfg.Emitters {
		field, err := systems.NewParticleField(ec, rand.New(rand.NewSource(root.Int63())))
		if err != nil {
			return err
		}

		em := components.Emitter{Field: field, Index: i}
		pl := components.Placement{Offset: ec.Offset, Visible: true}
		ro := components.Readout{Capacity: field.Capacity()}
		entity := g.emitterMapper.NewEntity(&em, &pl, &ro)

		g.entities = append(g.entities, entity)
		g.fields = append(g.fields, field)
	}
	return nil
}

// Reset discards all particles and rebuilds every field with fresh RNG
// streams derived from the same seed.
func (g *Game) Reset() error {
	for _, e := range g.entities {
		g.world.RemoveEntity(e)
	}
	g.entities = g.entities[:0]
	g.fields = g.fields[:0]
	g.tick = 0
	g.simTime = 0
	g.lastStats = nil
	g.emitterClock.clear()
	g.collector = telemetry.NewCollector(g.collector.WindowDurationSec(), g.cfg.Simulation.DT)

	return g.spawnEmitters()
}

// Update advances the world by dt per step, stepsPerUpdate times.
// Does nothing while paused.
func (g *Game) Update(dt float64) {
	if g.paused {
		return
	}
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.Step(dt)
	}
}

// UpdateHeadless advances by the configured fixed dt, ignoring pause.
func (g *Game) UpdateHeadless() {
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.Step(g.cfg.Simulation.DT)
	}
}

// Step performs one update of every field.
func (g *Game) Step(dt float64) {
	g.perfCollector.StartTick()

	g.perfCollector.StartPhase(telemetry.PhaseFields)
	query := g.emitterFilter.Query()
	for query.Next() {
		em, _, _ := query.Get()
		start := time.Now()
		em.Field.Update(dt)
		g.emitterClock.observe(em.Field.Name(), time.Since(start))
	}

	g.tick++
	g.simTime += dt

	g.perfCollector.StartPhase(telemetry.PhaseViews)
	g.refreshReadouts()

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.flushTelemetry()

	g.perfCollector.EndTick()
}

// refreshReadouts copies field state into each entity's Readout.
func (g *Game) refreshReadouts() {
	query := g.emitterFilter.Query()
	for query.Next() {
		em, _, ro := query.Get()
		ro.Active = em.Field.ActiveCount()
		ro.Capacity = em.Field.Capacity()
		ro.SpawnInterval = em.Field.SpawnInterval()
		ro.Counters = em.Field.Counters()
	}
}

// SetPaused pauses or resumes Update.
func (g *Game) SetPaused(paused bool) {
	g.paused = paused
}

// TogglePause flips the paused state.
func (g *Game) TogglePause() {
	g.paused = !g.paused
}

// Paused reports whether Update is suspended.
func (g *Game) Paused() bool {
	return g.paused
}

// SetStepsPerUpdate sets the fast-forward multiplier.
func (g *Game) SetStepsPerUpdate(n int) {
	g.stepsPerUpdate = clampSteps(n)
}

// StepsPerUpdate returns the fast-forward multiplier.
func (g *Game) StepsPerUpdate() int {
	return g.stepsPerUpdate
}

// SetVisible shows or hides an emitter in Emitters views.
func (g *Game) SetVisible(index int, visible bool) {
	if index < 0 || index >= len(g.entities) {
		return
	}
	g.placementMap.Get(g.entities[index]).Visible = visible
}

// SetStatsCallback registers fn to receive every flushed window.
func (g *Game) SetStatsCallback(fn func([]telemetry.WindowStats)) {
	g.statsCallback = fn
}

// Fields returns the particle fields in config order.
func (g *Game) Fields() []*systems.ParticleField {
	return g.fields
}

// LastStats returns the most recent flushed window, one row per emitter.
func (g *Game) LastStats() []telemetry.WindowStats {
	return g.lastStats
}

// EmitterTimings returns smoothed per-emitter update durations, slowest
// first, and their sum.
func (g *Game) EmitterTimings() ([]EmitterTiming, time.Duration) {
	return g.emitterClock.snapshot()
}

// Perf returns current rolling performance stats.
func (g *Game) Perf() telemetry.PerfStats {
	return g.perfCollector.Stats()
}

// RecordFrame records a rendered frame for FPS reporting.
func (g *Game) RecordFrame() {
	g.perfCollector.RecordFrame()
}

// Tick returns the number of steps taken.
func (g *Game) Tick() int32 {
	return g.tick
}

// SimTime returns the simulated seconds elapsed.
func (g *Game) SimTime() float64 {
	return g.simTime
}

// Config returns the configuration the game was built from.
func (g *Game) Config() *config.Config {
	return g.cfg
}

// Unload writes a final particle dump and closes output files.
func (g *Game) Unload() {
	if err := g.DumpParticles(); err != nil {
		slog.Error("failed to dump particles", "error", err)
	}
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}

func clampSteps(n int) int {
	if n < 1 {
		return 1
	}
	if n > MaxStepsPerUpdate {
		return MaxStepsPerUpdate
	}
	return n
}
