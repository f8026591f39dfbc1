package main

import (
	"fmt"
	"log/slog"
	"math"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pthm-cable/schelling/config"
	"github.com/pthm-cable/schelling/simulator"
	"github.com/pthm-cable/schelling/store"
	"github.com/pthm-cable/schelling/systems"
	"github.com/pthm-cable/schelling/telemetry"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run an eviction sweep and store the results",
		Long: `Run one experiment per (rate, probability) pair. Every pair starts
from the same seed, so differences between runs come from the eviction
parameters and not from the random stream.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dbPath, _ := cmd.Flags().GetString("db")
			ratesFlag, _ := cmd.Flags().GetString("rates")
			probsFlag, _ := cmd.Flags().GetString("probs")
			class, _ := cmd.Flags().GetInt("class")
			trials, _ := cmd.Flags().GetInt("trials")
			seed, _ := cmd.Flags().GetInt64("seed")
			maxRounds, _ := cmd.Flags().GetInt("max-rounds")
			outputDir, _ := cmd.Flags().GetString("output-dir")
			label, _ := cmd.Flags().GetString("label")

			rates, err := parseValues(ratesFlag)
			if err != nil {
				return fmt.Errorf("--rates: %w", err)
			}
			probs, err := parseValues(probsFlag)
			if err != nil {
				return fmt.Errorf("--probs: %w", err)
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if class == 0 {
				class = cfg.Eviction.TargetClass
			}
			if class < 1 || class > cfg.Population.Classes {
				return fmt.Errorf("--class must be in [1,%d], got %d", cfg.Population.Classes, class)
			}
			if trials <= 0 {
				trials = cfg.Experiment.Trials
			}
			if seed == 0 {
				seed = cfg.Experiment.Seed
			}
			if maxRounds > 0 {
				cfg.Limits.MaxRounds = maxRounds
			}

			rs, err := store.Open(dbPath)
			if err != nil {
				return err
			}
			defer rs.Close()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-6s %-6s %-6s %s\n", "RUN", "RATE", "PROB", "MEAN HOMOPHILY BY CLASS")

			for _, rate := range rates {
				for _, prob := range probs {
					ev := systems.EvictionParams{Rate: rate, Probability: prob, TargetClass: uint8(class)}

					c, err := runOne(cfg, seed, trials, ev, runDir(outputDir, rate, prob))
					if err != nil {
						return fmt.Errorf("rate %.3f prob %.3f: %w", rate, prob, err)
					}

					runLabel := fmt.Sprintf("rate=%g prob=%g", rate, prob)
					if label != "" {
						runLabel = label + " " + runLabel
					}
					id, err := rs.SaveRun(cmd.Context(), runLabel, seed, cfg, &ev, c)
					if err != nil {
						return err
					}

					fmt.Fprintf(out, "%-6d %-6.3f %-6.3f %s\n", id, rate, prob, formatMeans(c.Summary()))
				}
			}
			return nil
		},
	}

	cmd.Flags().String("rates", "0.1,0.3,0.5", "Eviction rates: list or start:stop:step")
	cmd.Flags().String("probs", "0.5,0.9", "Eviction probabilities: list or start:stop:step")
	cmd.Flags().Int("class", 0, "Target class (0 = use config)")
	cmd.Flags().Int("trials", 0, "Trials per run (0 = use config)")
	cmd.Flags().Int64("seed", 0, "RNG seed shared by every run (0 = use config)")
	cmd.Flags().Int("max-rounds", 0, "Relocation round limit per trial (0 = use config)")
	cmd.Flags().String("output-dir", "", "Also write CSV logs per run under this directory")
	cmd.Flags().String("label", "", "Label prefix stored with every run")

	return cmd
}

// runOne runs a single experiment, writing CSV logs when dir is set.
func runOne(cfg *config.Config, seed int64, trials int, ev systems.EvictionParams, dir string) (*telemetry.Collector, error) {
	om, err := telemetry.NewOutputManager(dir)
	if err != nil {
		return nil, err
	}
	defer om.Close()
	if err := om.WriteConfig(cfg); err != nil {
		return nil, err
	}

	sim, err := simulator.New(simulator.Options{
		Seed:   seed,
		Config: cfg,
		TrialCallback: func(ts telemetry.TrialStats, cs []telemetry.ClassStats) {
			if !ts.Converged {
				slog.Warn("trial hit round limit", "trial", ts.Trial, "rate", ev.Rate, "prob", ev.Probability)
			}
			if err := om.WriteTrial(ts, cs); err != nil {
				slog.Error("failed to write trial", "error", err)
			}
		},
	})
	if err != nil {
		return nil, err
	}

	c, err := sim.Run(trials, &ev)
	if err != nil {
		return nil, err
	}
	if err := om.WriteSummary(c.Summary()); err != nil {
		return nil, err
	}
	return c, nil
}

// runDir names the CSV directory of one sweep cell.
func runDir(base string, rate, prob float64) string {
	if base == "" {
		return ""
	}
	return filepath.Join(base, fmt.Sprintf("rate_%g_prob_%g", rate, prob))
}

// formatMeans renders the per-class means of a summary, skipping the
// aggregate.
func formatMeans(summary []telemetry.SeriesSummary) string {
	var parts []string
	for _, s := range summary {
		if s.Class == 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%d=%s", s.Class, formatFloat(s.Mean)))
	}
	return strings.Join(parts, " ")
}

func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.4f", v)
}
