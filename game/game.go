// Package game is the interactive viewer: it runs experiments in the
// background and shows the final grid of the last trial next to a control
// panel.
package game

import (
	"log/slog"

	"github.com/pthm-cable/schelling/config"
	"github.com/pthm-cable/schelling/grid"
	"github.com/pthm-cable/schelling/renderer"
	"github.com/pthm-cable/schelling/systems"
	"github.com/pthm-cable/schelling/telemetry"
	"github.com/pthm-cable/schelling/ui"
)

// Options configures a Game.
type Options struct {
	Seed      int64
	Config    *config.Config // nil = config.Cfg()
	Trials    int            // Initial trial count (0 = config)
	Eviction  *systems.EvictionParams
	OutputDir string
	LogTrials bool
	AutoRun   bool // Start an experiment immediately
}

// Game holds the viewer state.
type Game struct {
	cfg  *config.Config
	seed int64
	runs int

	gridRenderer *renderer.GridRenderer
	panel        *ui.ExperimentPanel
	snapshot     *grid.Grid

	state        ui.PanelState
	current      *experiment
	runRequested bool

	outputManager *telemetry.OutputManager
	logTrials     bool
}

// NewGameWithOptions creates a viewer. Raylib must already be initialised.
func NewGameWithOptions(opts Options) *Game {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}

	gridW, _ := GridPixels(cfg)
	_, screenH := WindowSize(cfg)

	panel := ui.NewExperimentPanel(gridW, 0, int32(cfg.Screen.PanelWidth), screenH, cfg.Population.Classes)
	panel.Trials = cfg.Experiment.Trials
	if opts.Trials > 0 {
		panel.Trials = opts.Trials
	}
	ev := opts.Eviction
	if ev == nil && cfg.Eviction.Enabled {
		ev = &systems.EvictionParams{
			Rate:        cfg.Eviction.Rate,
			Probability: cfg.Eviction.Probability,
			TargetClass: uint8(cfg.Eviction.TargetClass),
		}
	}
	if ev != nil {
		panel.Evict = true
		panel.Rate = float32(ev.Rate)
		panel.Probability = float32(ev.Probability)
		panel.TargetClass = int(ev.TargetClass)
	} else {
		panel.Rate = float32(cfg.Eviction.Rate)
		panel.Probability = float32(cfg.Eviction.Probability)
		panel.TargetClass = cfg.Eviction.TargetClass
	}

	g := &Game{
		cfg:          cfg,
		seed:         opts.Seed,
		gridRenderer: renderer.NewGridRenderer(cfg.Grid.Width, cfg.Grid.Height, cfg.Screen.CellSize),
		panel:        panel,
		logTrials:    opts.LogTrials,
	}

	if opts.OutputDir != "" {
		om, err := telemetry.NewOutputManager(opts.OutputDir)
		if err != nil {
			slog.Error("failed to create output manager", "error", err)
		} else {
			g.outputManager = om
			if err := om.WriteConfig(cfg); err != nil {
				slog.Error("failed to write config", "error", err)
			}
		}
	}

	g.runRequested = opts.AutoRun
	return g
}

// GridPixels returns the on-screen size of the grid.
func GridPixels(cfg *config.Config) (int32, int32) {
	return int32(cfg.Grid.Width * cfg.Screen.CellSize), int32(cfg.Grid.Height * cfg.Screen.CellSize)
}

// WindowSize returns a window size that fits the grid and the panel, never
// smaller than the configured screen.
func WindowSize(cfg *config.Config) (int32, int32) {
	gridW, gridH := GridPixels(cfg)
	w := max(int32(cfg.Screen.Width), gridW+int32(cfg.Screen.PanelWidth))
	h := max(int32(cfg.Screen.Height), gridH+30) // status line below the grid
	return w, h
}

// Running reports whether an experiment is in progress.
func (g *Game) Running() bool {
	return g.current != nil
}

// Runs returns the number of experiments started.
func (g *Game) Runs() int {
	return g.runs
}

// Update advances the viewer by one frame.
func (g *Game) Update() {
	g.handleInput()
	g.pollExperiment()

	if g.runRequested && g.current == nil {
		g.runRequested = false
		g.startExperiment()
	}
}

// Unload waits for a running experiment and frees resources.
func (g *Game) Unload() {
	if g.current != nil {
		g.current.wait()
		g.pollExperiment()
	}
	g.gridRenderer.Unload()
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}
