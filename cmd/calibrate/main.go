// Package main searches with CMA-ES for the eviction rate and probability
// that drive one class's homophily to a target value.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/schelling/config"
)

// EvalRecord is one row of calibrate_log.csv.
type EvalRecord struct {
	Eval        int     `csv:"eval"`
	Fitness     float64 `csv:"fitness"`
	Homophily   float64 `csv:"homophily"`
	Rate        float64 `csv:"eviction_rate"`
	Probability float64 `csv:"eviction_probability"`
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

// evalSeeds derives the per-evaluation seeds from a master seed.
func evalSeeds(master int64, n int) []int64 {
	seeds := make([]int64, n)
	for i := range seeds {
		seeds[i] = master + int64(i)*1000
	}
	return seeds
}

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	target := flag.Float64("target", 0.6, "Target homophily of the evicted class")
	class := flag.Int("class", 0, "Class targeted by evictions (0 = use config)")
	seeds := flag.Int("seeds", 3, "Number of seeds per evaluation")
	trials := flag.Int("trials", 0, "Trials per seed (0 = use config)")
	maxEvals := flag.Int("max-evals", 60, "Maximum number of evaluations")
	maxRounds := flag.Int("max-rounds", 2000, "Relocation round limit per trial (0 = until settled)")
	population := flag.Int("population", 0, "CMA-ES population size (0 = auto)")
	masterSeed := flag.Int64("seed", 42, "Master seed for evaluation seeds")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	if *outputDir == "" {
		log.Fatal("--output is required")
	}
	if *target < 0 || *target > 1 {
		log.Fatalf("--target must be in [0, 1], got %v", *target)
	}

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	// Load base config
	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	baseCfg := config.Cfg().Clone()
	baseCfg.Limits.MaxRounds = *maxRounds
	if *trials > 0 {
		baseCfg.Experiment.Trials = *trials
	}
	targetClass := baseCfg.Eviction.TargetClass
	if *class > 0 {
		targetClass = *class
	}
	if targetClass < 1 || targetClass > baseCfg.Population.Classes {
		log.Fatalf("target class %d outside 1..%d", targetClass, baseCfg.Population.Classes)
	}

	// Simulator log lines would drown the progress output.
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})))

	params := NewParamVector(baseCfg)
	evaluator := NewFitnessEvaluator(params, evalSeeds(*masterSeed, *seeds), baseCfg.Experiment.Trials,
		uint8(targetClass), *target, baseCfg)

	dim := params.Dim()
	initX := params.Normalize(params.DefaultVector())

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			return evaluator.Evaluate(params.Denormalize(x))
		},
	}

	settings := &optimize.Settings{
		FuncEvaluations: *maxEvals,
		Concurrent:      0, // Sequential evaluation; seeds already run in parallel
	}

	popSize := *population
	if popSize == 0 {
		popSize = 4 + int(3.0*math.Log(float64(dim)))
	}

	method := &optimize.CmaEsChol{
		InitStepSize: 0.3,
		Population:   popSize,
	}

	logPath := filepath.Join(*outputDir, "calibrate_log.csv")
	logFile, err := os.Create(logPath)
	if err != nil {
		log.Fatalf("failed to create log file: %v", err)
	}
	defer logFile.Close()

	evalCount := 0
	bestFitness := math.Inf(1)
	var bestParams []float64
	var bestMean float64
	startTime := time.Now()

	originalFunc := problem.Func
	problem.Func = func(x []float64) float64 {
		fitness := originalFunc(x)
		evalCount++

		// Clamped values are the ones actually simulated
		clamped := params.Clamp(params.Denormalize(x))
		mean := evaluator.LastMean()
		if fitness < bestFitness {
			bestFitness = fitness
			bestParams = clamped
			bestMean = mean
		}

		rec := []EvalRecord{{
			Eval:        evalCount,
			Fitness:     fitness,
			Homophily:   mean,
			Rate:        clamped[0],
			Probability: clamped[1],
		}}
		if evalCount == 1 {
			err = gocsv.Marshal(rec, logFile)
		} else {
			err = gocsv.MarshalWithoutHeaders(rec, logFile)
		}
		if err != nil {
			log.Printf("failed to write log row: %v", err)
		}

		elapsed := time.Since(startTime)
		avgPerEval := elapsed / time.Duration(evalCount)
		remaining := time.Duration(*maxEvals-evalCount) * avgPerEval

		fmt.Printf("Eval %d/%d: rate=%.3f prob=%.3f homophily=%.4f err=%.5f (best=%.5f) | elapsed: %s, ETA: %s\n",
			evalCount, *maxEvals, clamped[0], clamped[1], mean, fitness, bestFitness,
			formatDuration(elapsed), formatDuration(remaining))

		return fitness
	}

	fmt.Printf("Starting CMA-ES calibration of class %d toward homophily %.3f, population=%d, max_evals=%d\n",
		targetClass, *target, popSize, *maxEvals)
	fmt.Printf("Seeds per evaluation: %d, trials per seed: %d\n", *seeds, baseCfg.Experiment.Trials)

	result, err := optimize.Minimize(problem, initX, settings, method)
	if err != nil {
		log.Printf("optimization ended: %v", err)
	}

	// Use best params found (may be from any evaluation, not just final)
	if bestParams == nil && result != nil {
		bestParams = params.Clamp(params.Denormalize(result.X))
	}
	if bestParams == nil {
		log.Fatal("no evaluation completed")
	}

	totalTime := time.Since(startTime)
	fmt.Printf("\nCalibration complete after %d evaluations in %s\n", evalCount, formatDuration(totalTime))
	fmt.Printf("Best squared error: %.6f (homophily %.4f)\n", bestFitness, bestMean)

	fmt.Println("\nBest parameters:")
	for i, spec := range params.Specs {
		fmt.Printf("  %s: %.6f\n", spec.Name, bestParams[i])
	}

	bestCfg := baseCfg.Clone()
	params.ApplyToConfig(bestCfg, bestParams, uint8(targetClass))

	configOutPath := filepath.Join(*outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(configOutPath); err != nil {
		log.Printf("failed to write best config: %v", err)
	} else {
		fmt.Printf("\nBest config saved to: %s\n", configOutPath)
	}
}
