package main

import (
	"log/slog"
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/fountain/config"
	"github.com/pthm-cable/fountain/game"
	"github.com/pthm-cable/fountain/telemetry"
)

// Fitness component weights.
const (
	weightOccupancy = 1.0
	weightSkip      = 0.5
	weightStability = 0.25

	warmupWindows = 2 // skip first N windows while the pool fills
)

// FitnessEvaluator runs headless fields and scores how closely the pool
// settles at the target occupancy.
type FitnessEvaluator struct {
	params      *ParamVector
	emitter     config.EmitterConfig
	baseConfig  *config.Config
	target      float64
	frames      int
	seeds       []int64
	statsWindow float64

	mu       sync.Mutex
	lastMean float64 // mean occupancy from the most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator for one emitter of baseCfg.
func NewFitnessEvaluator(params *ParamVector, baseCfg *config.Config, emitter config.EmitterConfig, target float64, frames int, seeds []int64) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		emitter:     emitter,
		baseConfig:  baseCfg,
		target:      target,
		frames:      frames,
		seeds:       seeds,
		statsWindow: 1.0,
	}
}

// LastOccupancy returns the mean occupancy from the most recent evaluation.
func (fe *FitnessEvaluator) LastOccupancy() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastMean
}

// Evaluate computes fitness for a raw parameter vector (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.candidateConfig(x)

	type seedResult struct {
		fitness   float64
		occupancy float64
	}
	results := make([]seedResult, len(fe.seeds))

	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			windows := fe.run(cfg, s)
			results[idx] = seedResult{
				fitness:   computeFitness(windows, fe.target),
				occupancy: meanOccupancy(windows),
			}
		}(i, seed)
	}
	wg.Wait()

	var totalFitness, totalOccupancy float64
	for _, r := range results {
		totalFitness += r.fitness
		totalOccupancy += r.occupancy
	}
	n := float64(len(fe.seeds))

	fe.mu.Lock()
	fe.lastMean = totalOccupancy / n
	fe.mu.Unlock()

	return totalFitness / n
}

// candidateConfig builds a config holding only the tuned emitter with x applied.
func (fe *FitnessEvaluator) candidateConfig(x []float64) *config.Config {
	cfg := fe.baseConfig.Clone()
	ec := fe.emitter
	fe.params.ApplyToEmitter(&ec, x)
	cfg.Emitters = []config.EmitterConfig{ec}
	return cfg.Clone()
}

// run executes a single headless run and returns the flushed windows.
func (fe *FitnessEvaluator) run(cfg *config.Config, seed int64) []telemetry.WindowStats {
	g, err := game.NewGameWithOptions(cfg, game.Options{
		Seed:           seed,
		Headless:       true,
		StatsWindowSec: fe.statsWindow,
		StepsPerUpdate: 1,
	})
	if err != nil {
		slog.Warn("candidate rejected", "seed", seed, "error", err)
		return nil
	}
	defer g.Unload()

	var windows []telemetry.WindowStats
	g.SetStatsCallback(func(stats []telemetry.WindowStats) {
		windows = append(windows, stats...)
	})

	for i := 0; i < fe.frames; i++ {
		g.UpdateHeadless()
	}
	return windows
}

// computeFitness scores windows after warmup: squared distance of mean
// occupancy from target, plus the mean skip rate and the squared coefficient
// of variation of the active count. Too few windows score +Inf.
func computeFitness(windows []telemetry.WindowStats, target float64) float64 {
	if len(windows) <= warmupWindows {
		return math.Inf(1)
	}
	valid := windows[warmupWindows:]

	occupancy := make([]float64, len(valid))
	skip := make([]float64, len(valid))
	active := make([]float64, len(valid))
	for i, w := range valid {
		occupancy[i] = w.Occupancy
		skip[i] = w.SkipRate
		active[i] = float64(w.Active)
	}

	occErr := stat.Mean(occupancy, nil) - target
	stability := 0.0
	if len(active) >= 2 {
		mean, std := stat.MeanStdDev(active, nil)
		if mean > 0 {
			cv := std / mean
			stability = cv * cv
		}
	}

	return weightOccupancy*occErr*occErr +
		weightSkip*stat.Mean(skip, nil) +
		weightStability*stability
}

// meanOccupancy averages occupancy over windows past warmup.
func meanOccupancy(windows []telemetry.WindowStats) float64 {
	if len(windows) <= warmupWindows {
		return 0
	}
	valid := windows[warmupWindows:]
	occ := make([]float64, len(valid))
	for i, w := range valid {
		occ[i] = w.Occupancy
	}
	return stat.Mean(occ, nil)
}
