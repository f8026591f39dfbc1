package game

import (
	"log/slog"

	"github.com/pthm-cable/schelling/grid"
	"github.com/pthm-cable/schelling/simulator"
	"github.com/pthm-cable/schelling/systems"
	"github.com/pthm-cable/schelling/telemetry"
	"github.com/pthm-cable/schelling/ui"
)

type trialRecord struct {
	stats   telemetry.TrialStats
	classes []telemetry.ClassStats
}

type experimentResult struct {
	collector *telemetry.Collector
	final     *grid.Grid
	err       error
}

// experiment is one background run with its own simulator. Trials are
// streamed back over progress; the result arrives once on done.
type experiment struct {
	seed     int64
	trials   int
	eviction *systems.EvictionParams
	progress chan trialRecord
	done     chan experimentResult
}

// startExperiment launches a run with the panel's current settings. Each run
// uses the next seed so results are reproducible run by run.
func (g *Game) startExperiment() {
	e := &experiment{
		seed:     g.seed + int64(g.runs),
		trials:   g.panel.Trials,
		eviction: g.panel.Eviction(),
	}
	e.progress = make(chan trialRecord, e.trials)
	e.done = make(chan experimentResult, 1)
	g.runs++
	g.current = e
	g.state = ui.PanelState{Running: true, Total: e.trials}

	slog.Info("starting experiment",
		"run", g.runs,
		"seed", e.seed,
		"trials", e.trials,
		"eviction", e.eviction != nil,
	)

	cfg := g.cfg
	go func() {
		sim, err := simulator.New(simulator.Options{
			Seed:   e.seed,
			Config: cfg,
			TrialCallback: func(ts telemetry.TrialStats, cs []telemetry.ClassStats) {
				e.progress <- trialRecord{stats: ts, classes: cs}
			},
		})
		if err != nil {
			e.done <- experimentResult{err: err}
			return
		}
		c, err := sim.Run(e.trials, e.eviction)
		e.done <- experimentResult{collector: c, final: sim.Grid().Clone(), err: err}
	}()
}

// pollExperiment drains finished trials and picks up the final result
// without blocking the frame.
func (g *Game) pollExperiment() {
	e := g.current
	if e == nil {
		return
	}

drain:
	for {
		select {
		case rec := <-e.progress:
			g.onTrial(rec)
		default:
			break drain
		}
	}

	select {
	case res := <-e.done:
		// Trials sent before done are already buffered.
		for len(e.progress) > 0 {
			g.onTrial(<-e.progress)
		}
		g.onFinished(res)
	default:
	}
}

// wait blocks until the background run has delivered its result, keeping
// the result for the next poll.
func (e *experiment) wait() {
	res := <-e.done
	e.done <- res
}

func (g *Game) onTrial(rec trialRecord) {
	g.state.Completed++
	if rec.stats.Converged {
		g.state.Converged++
	}
	if g.logTrials {
		rec.stats.LogStats(rec.classes)
	}
	if err := g.outputManager.WriteTrial(rec.stats, rec.classes); err != nil {
		slog.Error("failed to write trial", "error", err)
	}
}

func (g *Game) onFinished(res experimentResult) {
	g.current = nil
	g.state.Running = false
	g.state.Err = res.err

	if res.final != nil {
		g.snapshot = res.final
		g.gridRenderer.Invalidate()
	}
	if res.collector == nil {
		slog.Error("experiment failed", "error", res.err)
		return
	}

	g.state.Summary = res.collector.Summary()
	for _, s := range g.state.Summary {
		slog.Info("summary", "series", s)
	}
	if res.err != nil {
		slog.Error("experiment stopped early", "error", res.err)
	}
	if err := g.outputManager.WriteSummary(g.state.Summary); err != nil {
		slog.Error("failed to write summary", "error", err)
	}
}
