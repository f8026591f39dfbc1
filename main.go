package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/schelling/config"
	"github.com/pthm-cable/schelling/game"
	"github.com/pthm-cable/schelling/simulator"
	"github.com/pthm-cable/schelling/systems"
	"github.com/pthm-cable/schelling/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	seed := flag.Int64("seed", 0, "RNG seed (0 = use config, then time-based)")
	trials := flag.Int("trials", 0, "Number of trials (0 = use config)")
	evict := flag.Bool("evict", false, "Enable eviction shocks")
	evictionRate := flag.Float64("eviction-rate", -1, "Fraction of the population evicted per shock (-1 = use config)")
	evictionProb := flag.Float64("eviction-prob", -1, "Per-round shock probability (-1 = use config)")
	targetClass := flag.Int("target-class", 0, "Class targeted by evictions (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	logTrials := flag.Bool("log-trials", false, "Log every trial via slog")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = cfg.Experiment.Seed
	}
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	k := cfg.Experiment.Trials
	if *trials > 0 {
		k = *trials
	}

	if *targetClass != 0 && (*targetClass < 1 || *targetClass > cfg.Population.Classes) {
		slog.Error("target class out of range", "target_class", *targetClass, "classes", cfg.Population.Classes)
		os.Exit(1)
	}

	var ev *systems.EvictionParams
	if *evict || cfg.Eviction.Enabled {
		ev = &systems.EvictionParams{
			Rate:        cfg.Eviction.Rate,
			Probability: cfg.Eviction.Probability,
			TargetClass: uint8(cfg.Eviction.TargetClass),
		}
		if *evictionRate >= 0 {
			ev.Rate = *evictionRate
		}
		if *evictionProb >= 0 {
			ev.Probability = *evictionProb
		}
		if *targetClass > 0 {
			ev.TargetClass = uint8(*targetClass)
		}
	}

	logTrialStats := *logTrials || cfg.Telemetry.LogTrials

	if *headless {
		if err := runHeadless(cfg, rngSeed, k, ev, *outputDir, logTrialStats); err != nil {
			slog.Error("experiment failed", "error", err)
			os.Exit(1)
		}
		return
	}

	// Graphical mode
	w, h := game.WindowSize(cfg)
	rl.InitWindow(w, h, "Schelling Segregation")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g := game.NewGameWithOptions(game.Options{
		Seed:      rngSeed,
		Config:    cfg,
		Trials:    k,
		Eviction:  ev,
		OutputDir: *outputDir,
		LogTrials: logTrialStats,
		AutoRun:   true,
	})
	defer g.Unload()

	for !rl.WindowShouldClose() {
		g.Update()
		g.Draw()
	}
}

// runHeadless runs one experiment and logs its summary.
func runHeadless(cfg *config.Config, seed int64, k int, ev *systems.EvictionParams, outputDir string, logTrials bool) error {
	om, err := telemetry.NewOutputManager(outputDir)
	if err != nil {
		return err
	}
	defer om.Close()
	if err := om.WriteConfig(cfg); err != nil {
		return err
	}

	sim, err := simulator.New(simulator.Options{
		Seed:   seed,
		Config: cfg,
		TrialCallback: func(ts telemetry.TrialStats, cs []telemetry.ClassStats) {
			if logTrials {
				ts.LogStats(cs)
			}
			if err := om.WriteTrial(ts, cs); err != nil {
				slog.Error("failed to write trial", "error", err)
			}
		},
	})
	if err != nil {
		return err
	}

	slog.Info("starting headless experiment",
		"seed", seed,
		"trials", k,
		"width", sim.Width(),
		"height", sim.Height(),
		"population", sim.Population(),
		"classes", sim.Classes(),
		"eviction", ev != nil,
	)

	start := time.Now()
	c, err := sim.Run(k, ev)
	if err != nil {
		return err
	}

	summary := c.Summary()
	if ev == nil {
		// Plain runs report the aggregate series only.
		summary = summary[:1]
	}
	for _, s := range summary {
		slog.Info("summary", "series", s)
	}
	slog.Info("experiment complete", "elapsed", time.Since(start).Round(time.Millisecond).String())
	sim.Perf().LogStats()

	if err := om.WriteSummary(summary); err != nil {
		return err
	}
	if om != nil {
		slog.Info("output written", "dir", om.Dir())
	}
	return nil
}
