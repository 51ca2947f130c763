package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/fountain/config"
)

// evalRow is one line of tune_log.csv.
type evalRow struct {
	Eval      int     `csv:"eval"`
	Fitness   float64 `csv:"fitness"`
	Occupancy float64 `csv:"occupancy"`
	RateLo    float64 `csv:"rate_lo"`
	RateHi    float64 `csv:"rate_hi"`
	LifeLo    float64 `csv:"lifetime_lo"`
	LifeHi    float64 `csv:"lifetime_hi"`
}

// formatDuration formats a duration as HH:MM:SS or MM:SS for shorter durations.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	emitterName := flag.String("emitter", "", "Emitter to tune (empty = first)")
	target := flag.Float64("target", 0.75, "Target steady-state pool occupancy in [0, 1]")
	frames := flag.Int("frames", 1800, "Headless frames per run")
	seeds := flag.Int("seeds", 3, "Number of seeds per evaluation")
	maxEvals := flag.Int("max-evals", 100, "Maximum number of evaluations")
	population := flag.Int("population", 0, "CMA-ES population size (0 = auto)")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	if *outputDir == "" {
		log.Fatal("--output is required")
	}

	// Each evaluation builds a game; keep its info logs out of the progress output.
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	baseCfg := config.Cfg()
	if len(baseCfg.Emitters) == 0 {
		log.Fatal("config has no emitters")
	}

	idx := 0
	if *emitterName != "" {
		i, ok := baseCfg.Derived.EmitterIndex[*emitterName]
		if !ok {
			log.Fatalf("unknown emitter %q", *emitterName)
		}
		idx = i
	}
	emitter := baseCfg.Emitters[idx]

	params := NewParamVector(emitter)

	evalSeeds := make([]int64, *seeds)
	for i := range evalSeeds {
		evalSeeds[i] = int64(i*1000 + 42)
	}

	evaluator := NewFitnessEvaluator(params, baseCfg, emitter, *target, *frames, evalSeeds)

	dim := params.Dim()
	initX := params.Normalize(params.DefaultVector())

	popSize := *population
	if popSize == 0 {
		popSize = 4 + int(3.0*float64(dim)/2.0)
	}

	method := &optimize.CmaEsChol{
		InitStepSize: 0.3,
		Population:   popSize,
	}
	settings := &optimize.Settings{
		FuncEvaluations: *maxEvals,
		Concurrent:      0,
	}

	logPath := filepath.Join(*outputDir, "tune_log.csv")
	logFile, err := os.Create(logPath)
	if err != nil {
		log.Fatalf("failed to create log file: %v", err)
	}
	defer logFile.Close()

	evalCount := 0
	bestFitness := 1e18
	var bestParams []float64
	startTime := time.Now()

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			raw := params.Clamp(params.Denormalize(x))
			fitness := evaluator.Evaluate(raw)
			evalCount++

			if fitness < bestFitness {
				bestFitness = fitness
				bestParams = append([]float64(nil), raw...)
			}

			ec := emitter
			params.ApplyToEmitter(&ec, raw)
			rateLo, rateHi := ec.RateRange()
			lifeLo, lifeHi := ec.LifeTimeRange()
			row := []evalRow{{
				Eval:      evalCount,
				Fitness:   fitness,
				Occupancy: evaluator.LastOccupancy(),
				RateLo:    rateLo,
				RateHi:    rateHi,
				LifeLo:    lifeLo,
				LifeHi:    lifeHi,
			}}
			if evalCount == 1 {
				err = gocsv.Marshal(row, logFile)
			} else {
				err = gocsv.MarshalWithoutHeaders(row, logFile)
			}
			if err != nil {
				log.Printf("failed to write log row: %v", err)
			}

			elapsed := time.Since(startTime)
			avgPerEval := elapsed / time.Duration(evalCount)
			remaining := time.Duration(*maxEvals-evalCount) * avgPerEval
			fmt.Printf("Eval %d/%d: occupancy=%.3f fitness=%.5f (best=%.5f) | elapsed: %s, ETA: %s\n",
				evalCount, *maxEvals, evaluator.LastOccupancy(), fitness, bestFitness,
				formatDuration(elapsed), formatDuration(remaining))

			return fitness
		},
	}

	fmt.Printf("Tuning emitter %q (%s) toward occupancy %.2f\n", emitter.Name, emitter.Mode, *target)
	fmt.Printf("CMA-ES with %d parameters, population=%d, max_evals=%d, seeds=%d, frames=%d\n",
		dim, popSize, *maxEvals, *seeds, *frames)

	result, err := optimize.Minimize(problem, initX, settings, method)
	if err != nil {
		log.Printf("optimization ended: %v", err)
	}

	if bestParams == nil && result != nil {
		bestParams = params.Clamp(params.Denormalize(result.X))
	}
	if bestParams == nil {
		log.Fatal("no evaluations completed")
	}

	fmt.Printf("\nTuning complete after %d evaluations in %s\n", evalCount, formatDuration(time.Since(startTime)))
	fmt.Printf("Best fitness: %.5f\n", bestFitness)
	fmt.Println("\nBest parameters:")
	for i, spec := range params.Specs {
		fmt.Printf("  %s: %.4f\n", spec.Name, bestParams[i])
	}

	// Best config keeps every emitter, with the tuned one updated in place
	bestCfg := baseCfg.Clone()
	params.ApplyToEmitter(&bestCfg.Emitters[idx], bestParams)

	configOutPath := filepath.Join(*outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(configOutPath); err != nil {
		log.Printf("failed to write best config: %v", err)
	} else {
		fmt.Printf("\nBest config saved to: %s\n", configOutPath)
	}
}
