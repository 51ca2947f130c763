package main

import (
	"math"
	"testing"

	"github.com/pthm-cable/fountain/config"
	"github.com/pthm-cable/fountain/telemetry"
)

func windowsAt(occupancy []float64, capacity int) []telemetry.WindowStats {
	w := make([]telemetry.WindowStats, len(occupancy))
	for i, occ := range occupancy {
		w[i] = telemetry.WindowStats{
			Capacity:  capacity,
			Active:    int(occ * float64(capacity)),
			Occupancy: occ,
		}
	}
	return w
}

func TestComputeFitnessTooFewWindows(t *testing.T) {
	got := computeFitness(windowsAt([]float64{0.5, 0.5}, 100), 0.5)
	if !math.IsInf(got, 1) {
		t.Errorf("expected +Inf for warmup-only run, got %f", got)
	}
}

func TestComputeFitnessOnTarget(t *testing.T) {
	// Warmup windows are ignored even when far off target.
	w := windowsAt([]float64{0, 0.1, 0.5, 0.5, 0.5}, 100)
	got := computeFitness(w, 0.5)
	if math.Abs(got) > 1e-12 {
		t.Errorf("steady on-target run should score 0, got %g", got)
	}
}

func TestComputeFitnessPenalties(t *testing.T) {
	steady := windowsAt([]float64{0, 0, 0.5, 0.5, 0.5}, 100)
	base := computeFitness(steady, 0.5)

	off := windowsAt([]float64{0, 0, 0.7, 0.7, 0.7}, 100)
	if got := computeFitness(off, 0.5); got <= base {
		t.Errorf("off-target fitness %g should exceed on-target %g", got, base)
	}

	skipping := windowsAt([]float64{0, 0, 0.5, 0.5, 0.5}, 100)
	for i := range skipping {
		skipping[i].SkipRate = 0.2
	}
	if got := computeFitness(skipping, 0.5); math.Abs(got-weightSkip*0.2) > 1e-12 {
		t.Errorf("skip penalty = %g, want %g", got, weightSkip*0.2)
	}

	noisy := windowsAt([]float64{0, 0, 0.3, 0.7, 0.5}, 100)
	if got := computeFitness(noisy, 0.5); got <= base {
		t.Errorf("unstable fitness %g should exceed steady %g", got, base)
	}
}

func TestMeanOccupancy(t *testing.T) {
	w := windowsAt([]float64{0, 0, 0.4, 0.6}, 10)
	if got := meanOccupancy(w); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("meanOccupancy = %f, want 0.5", got)
	}
	if got := meanOccupancy(w[:2]); got != 0 {
		t.Errorf("meanOccupancy of warmup only = %f, want 0", got)
	}
}

func TestParamVectorRoundTrip(t *testing.T) {
	cfg := config.Default()
	ec := cfg.Emitters[0]
	pv := NewParamVector(ec)

	if pv.Dim() != numParams {
		t.Fatalf("Dim = %d, want %d", pv.Dim(), numParams)
	}

	raw := pv.DefaultVector()
	back := pv.Denormalize(pv.Normalize(raw))
	for i := range raw {
		if math.Abs(back[i]-raw[i]) > 1e-9 {
			t.Errorf("param %s: %f -> %f", pv.Specs[i].Name, raw[i], back[i])
		}
	}

	applied := ec
	pv.ApplyToEmitter(&applied, raw)
	lo, hi := applied.RateRange()
	wantLo, wantHi := ec.RateRange()
	if math.Abs(lo-wantLo) > 1e-9 || math.Abs(hi-wantHi) > 1e-9 {
		t.Errorf("rate range = [%f, %f], want [%f, %f]", lo, hi, wantLo, wantHi)
	}
}

func TestApplyKeepsRangesOrdered(t *testing.T) {
	cfg := config.Default()
	ec := cfg.Emitters[1]
	pv := NewParamVector(ec)

	// Negative spreads and out-of-bounds lows are clamped.
	pv.ApplyToEmitter(&ec, []float64{-5, -1, 100, -3})
	rateLo, rateHi := ec.RateRange()
	lifeLo, lifeHi := ec.LifeTimeRange()
	if rateLo > rateHi || lifeLo > lifeHi {
		t.Errorf("ranges out of order: rate [%f, %f] life [%f, %f]", rateLo, rateHi, lifeLo, lifeHi)
	}
	if rateLo != pv.Specs[paramRateLo].Min {
		t.Errorf("rate lo = %f, want clamp to %f", rateLo, pv.Specs[paramRateLo].Min)
	}
	if lifeLo != pv.Specs[paramLifeLo].Max {
		t.Errorf("lifetime lo = %f, want clamp to %f", lifeLo, pv.Specs[paramLifeLo].Max)
	}
	if err := ec.Validate(); err != nil {
		t.Errorf("tuned emitter invalid: %v", err)
	}
}

func TestEvaluateRunsHeadless(t *testing.T) {
	cfg := config.Default()
	cfg.Simulation.DT = 0.1
	ec := cfg.Emitters[0]
	pv := NewParamVector(ec)

	fe := NewFitnessEvaluator(pv, cfg, ec, 0.5, 60, []int64{1, 2})
	got := fe.Evaluate(pv.DefaultVector())
	if math.IsInf(got, 0) || math.IsNaN(got) {
		t.Fatalf("fitness = %f, want finite", got)
	}
	if occ := fe.LastOccupancy(); occ <= 0 || occ > 1 {
		t.Errorf("LastOccupancy = %f, want in (0, 1]", occ)
	}
}

func TestEvaluateInvalidCandidateScoresInf(t *testing.T) {
	cfg := config.Default()
	ec := cfg.Emitters[0]
	pv := NewParamVector(ec)

	// Pool size is not a tuned parameter, so every candidate fails validation.
	ec.Global.PoolSize = 0
	fe := NewFitnessEvaluator(pv, cfg, ec, 0.5, 10, []int64{1})
	if got := fe.Evaluate(pv.DefaultVector()); !math.IsInf(got, 1) {
		t.Errorf("fitness = %f, want +Inf for a rejected candidate", got)
	}
	if occ := fe.LastOccupancy(); occ != 0 {
		t.Errorf("LastOccupancy = %f, want 0", occ)
	}
}
