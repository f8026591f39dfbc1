// Package simulator drives Schelling experiments: it owns one grid and one
// random stream and runs trials strictly in sequence.
package simulator

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/pthm-cable/schelling/config"
	"github.com/pthm-cable/schelling/grid"
	"github.com/pthm-cable/schelling/systems"
	"github.com/pthm-cable/schelling/telemetry"
)

// Options configures a Simulator.
type Options struct {
	Seed   int64
	Config *config.Config // nil = config.Cfg()

	// TrialCallback, when set, receives every finished trial.
	TrialCallback func(telemetry.TrialStats, []telemetry.ClassStats)
}

// Simulator holds the state of one experiment series. The grid keeps the
// final state of the most recent trial for inspection.
type Simulator struct {
	cfg  *config.Config
	seed int64
	rng  *rand.Rand
	grid *grid.Grid

	rules      systems.Rules
	classes    int
	population int
	maxRounds  int

	trialCallback func(telemetry.TrialStats, []telemetry.ClassStats)
	perf          *telemetry.PerfCollector
}

// New creates a simulator. It fails when the configuration cannot run,
// most importantly when the population does not fit on the grid.
func New(opts Options) (*Simulator, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}
	cfg = cfg.Clone()
	cfg.Recompute()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("simulator config: %w", err)
	}

	return &Simulator{
		cfg:  cfg,
		seed: opts.Seed,
		rng:  rand.New(rand.NewSource(opts.Seed)),
		grid: grid.New(cfg.Grid.Width, cfg.Grid.Height),
		rules: systems.Rules{
			MinNeighbors:   cfg.Satisfaction.MinNeighbors,
			Wraparound:     cfg.Grid.Wraparound,
			SampleAttempts: cfg.Limits.SampleAttempts,
		},
		classes:       cfg.Population.Classes,
		population:    cfg.Derived.Population,
		maxRounds:     cfg.Limits.MaxRounds,
		trialCallback: opts.TrialCallback,
		perf:          telemetry.NewPerfCollector(50),
	}, nil
}

// Width returns the grid width.
func (s *Simulator) Width() int { return s.grid.W }

// Height returns the grid height.
func (s *Simulator) Height() int { return s.grid.H }

// Cell returns the class label at (x, y), 0 when empty.
func (s *Simulator) Cell(x, y int) int { return int(s.grid.Get(x, y)) }

// Grid exposes the grid. Callers must not mutate it while a trial runs.
func (s *Simulator) Grid() *grid.Grid { return s.grid }

// Classes returns the number of classes.
func (s *Simulator) Classes() int { return s.classes }

// Population returns the configured agent count.
func (s *Simulator) Population() int { return s.population }

// Seed returns the seed the random stream started from.
func (s *Simulator) Seed() int64 { return s.seed }

// Config returns the simulator's private copy of the configuration.
func (s *Simulator) Config() *config.Config { return s.cfg }

// Perf returns timing statistics over the most recent trials.
func (s *Simulator) Perf() telemetry.PerfStats { return s.perf.Stats() }

// Simulate runs k trials without evictions and returns the aggregate
// homophily of each, in trial order.
func (s *Simulator) Simulate(k int) ([]float64, error) {
	c, err := s.Run(k, nil)
	if err != nil {
		return nil, err
	}
	return c.Aggregate(), nil
}

// SimulateWithEvictions runs k trials with eviction shocks and returns each
// class's per-trial homophily keyed by class id.
func (s *Simulator) SimulateWithEvictions(k int, ev systems.EvictionParams) (map[uint8][]float64, error) {
	c, err := s.Run(k, &ev)
	if err != nil {
		return nil, err
	}
	return c.ClassSeries(), nil
}

// Run executes k trials and returns the collected results. A nil ev runs
// the plain relocation process.
func (s *Simulator) Run(k int, ev *systems.EvictionParams) (*telemetry.Collector, error) {
	if k < 0 {
		return nil, fmt.Errorf("negative trial count %d", k)
	}
	if ev != nil {
		if err := ev.Validate(s.classes); err != nil {
			return nil, err
		}
	}

	c := telemetry.NewCollector(s.classes)
	for i := 0; i < k; i++ {
		ts, cs, err := s.runTrial(i, ev)
		if err != nil {
			return c, fmt.Errorf("trial %d: %w", i, err)
		}
		c.Record(ts, cs)
		if s.trialCallback != nil {
			s.trialCallback(ts, cs)
		}
	}
	return c, nil
}

// runTrial resets the grid, places the population and relocates until the
// grid settles. Hitting the optional round cap ends the trial unconverged.
func (s *Simulator) runTrial(trial int, ev *systems.EvictionParams) (telemetry.TrialStats, []telemetry.ClassStats, error) {
	s.perf.StartTrial()
	s.perf.StartPhase(telemetry.PhasePopulate)

	s.grid.Clear()
	if err := systems.Populate(s.grid, s.rng, s.classes, s.population, s.rules.SampleAttempts); err != nil {
		return telemetry.TrialStats{}, nil, err
	}

	s.perf.StartPhase(telemetry.PhaseRelocate)
	var conv systems.Convergence
	var err error
	if ev == nil {
		conv, err = systems.RunToConvergence(s.grid, s.rng, s.rules, s.maxRounds)
	} else {
		conv, err = systems.RunWithEvictions(s.grid, s.rng, s.rules, *ev, s.population, s.maxRounds)
	}
	converged := err == nil
	if err != nil {
		if !errors.Is(err, systems.ErrRoundLimit) {
			return telemetry.TrialStats{}, nil, err
		}
		slog.Warn("trial stopped before settling", "trial", trial, "rounds", conv.Rounds)
	}

	s.perf.StartPhase(telemetry.PhaseMeasure)
	h := systems.MeasureHomophily(s.grid, s.classes, s.rules.Wraparound)
	ts := telemetry.TrialStats{
		Trial:     trial,
		Rounds:    conv.Rounds,
		Moves:     conv.Moves,
		Shocks:    conv.Evictions,
		Evicted:   conv.Evicted,
		Converged: converged,
		Occupied:  s.grid.Occupied(),
		Counted:   h.Counted,
		Homophily: h.Aggregate(),
	}
	ts.DurationMs = float64(s.perf.EndTrial().Microseconds()) / 1000
	return ts, telemetry.NewClassStats(trial, h), nil
}
