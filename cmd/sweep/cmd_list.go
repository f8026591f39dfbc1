package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pthm-cable/schelling/store"
	"github.com/pthm-cable/schelling/telemetry"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			dbPath, _ := cmd.Flags().GetString("db")
			rs, err := store.Open(dbPath)
			if err != nil {
				return err
			}
			defer rs.Close()

			runs, err := rs.ListRuns(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs stored.")
				return nil
			}
			fmt.Fprintf(out, "%-6s %-20s %-9s %-7s %-6s %s\n", "RUN", "CREATED", "GRID", "TRIALS", "SEED", "LABEL")
			for _, r := range runs {
				fmt.Fprintf(out, "%-6d %-20s %-9s %-7d %-6d %s\n",
					r.ID,
					r.CreatedAt.Format("2006-01-02 15:04:05"),
					fmt.Sprintf("%dx%d", r.Width, r.Height),
					r.Trials,
					r.Seed,
					r.Label,
				)
			}
			return nil
		},
	}
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show the per-class summary of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid run id %q", args[0])
			}

			dbPath, _ := cmd.Flags().GetString("db")
			rs, err := store.Open(dbPath)
			if err != nil {
				return err
			}
			defer rs.Close()

			ctx := cmd.Context()
			run, err := rs.GetRun(ctx, id)
			if err != nil {
				return err
			}
			agg, err := rs.AggregateSeries(ctx, id)
			if err != nil {
				return err
			}
			series, err := rs.ClassSeries(ctx, id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Run %d  %s\n", run.ID, run.Label)
			fmt.Fprintf(out, "  grid %dx%d  wraparound=%t  classes=%d  population=%d  min_neighbors=%d\n",
				run.Width, run.Height, run.Wraparound, run.Classes, run.Population, run.MinNeighbors)
			fmt.Fprintf(out, "  seed %d  trials %d\n", run.Seed, run.Trials)
			if run.Eviction != nil {
				fmt.Fprintf(out, "  eviction rate=%g probability=%g class=%d\n",
					run.Eviction.Rate, run.Eviction.Probability, run.Eviction.TargetClass)
			}

			fmt.Fprintf(out, "\n%-10s %-6s %-8s %-8s %-8s %-8s\n", "SERIES", "VALID", "MEAN", "STD", "MIN", "MAX")
			printSummary(cmd, "aggregate", telemetry.Summarize(0, agg))
			for class := 1; class <= run.Classes; class++ {
				printSummary(cmd, fmt.Sprintf("class %d", class), telemetry.Summarize(class, series[uint8(class)]))
			}
			return nil
		},
	}
}

func printSummary(cmd *cobra.Command, name string, s telemetry.SeriesSummary) {
	fmt.Fprintf(cmd.OutOrStdout(), "%-10s %-6d %-8s %-8s %-8s %-8s\n",
		name, s.Valid, formatFloat(s.Mean), formatFloat(s.StdDev), formatFloat(s.Min), formatFloat(s.Max))
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <run-id>",
		Short: "Delete a stored run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid run id %q", args[0])
			}

			dbPath, _ := cmd.Flags().GetString("db")
			rs, err := store.Open(dbPath)
			if err != nil {
				return err
			}
			defer rs.Close()

			if err := rs.DeleteRun(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted run %d\n", id)
			return nil
		},
	}
}
