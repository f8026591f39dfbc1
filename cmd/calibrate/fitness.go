package main

import (
	"log/slog"
	"math"
	"sync"

	"github.com/pthm-cable/schelling/config"
	"github.com/pthm-cable/schelling/simulator"
	"github.com/pthm-cable/schelling/telemetry"
)

// undefinedPenalty is the fitness of a parameter set whose target class
// homophily is undefined on every seed. Squared errors never exceed 1.
const undefinedPenalty = 2.0

// FitnessEvaluator runs headless experiments and scores how far the target
// class's mean homophily lands from the goal.
type FitnessEvaluator struct {
	params      *ParamVector
	seeds       []int64
	trials      int
	targetClass uint8
	target      float64
	baseConfig  *config.Config

	mu       sync.Mutex
	lastMean float64 // mean homophily from the most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, seeds []int64, trials int, targetClass uint8, target float64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		seeds:       seeds,
		trials:      trials,
		targetClass: targetClass,
		target:      target,
		baseConfig:  baseCfg,
		lastMean:    math.NaN(),
	}
}

// LastMean returns the target class mean from the most recent evaluation.
func (fe *FitnessEvaluator) LastMean() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastMean
}

// Evaluate computes fitness for raw parameter values (lower = better): the
// squared distance between the target class's mean homophily and the goal.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	mean := fe.MeanHomophily(x)

	fe.mu.Lock()
	fe.lastMean = mean
	fe.mu.Unlock()

	if math.IsNaN(mean) {
		return undefinedPenalty
	}
	d := mean - fe.target
	return d * d
}

// MeanHomophily runs every seed in parallel, each on its own simulator, and
// averages the target class's homophily over all defined trials.
func (fe *FitnessEvaluator) MeanHomophily(x []float64) float64 {
	ev := fe.params.Eviction(x, fe.targetClass)

	series := make([][]float64, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			sim, err := simulator.New(simulator.Options{Seed: s, Config: fe.baseConfig})
			if err != nil {
				slog.Error("failed to create simulator", "seed", s, "error", err)
				return
			}
			byClass, err := sim.SimulateWithEvictions(fe.trials, ev)
			if err != nil {
				slog.Error("experiment failed", "seed", s, "error", err)
				return
			}
			series[idx] = byClass[fe.targetClass]
		}(i, seed)
	}
	wg.Wait()

	// Seed order is fixed, so the pooled series is deterministic.
	var pooled []float64
	for _, s := range series {
		pooled = append(pooled, s...)
	}
	return telemetry.Summarize(int(fe.targetClass), pooled).Mean
}
