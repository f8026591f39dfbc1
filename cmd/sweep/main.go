// Command sweep runs eviction experiments over a grid of rates and
// probabilities and stores every run in a SQLite database.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/pthm-cable/schelling/config"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	rootCmd := newRootCmd()
	rootCmd.AddCommand(
		newRunCmd(),
		newListCmd(),
		newShowCmd(),
		newDeleteCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sweep",
		Short: "Eviction parameter sweeps for the segregation model",
		Long: `sweep runs the segregation model with eviction shocks across a grid
of eviction rates and probabilities. Every run is stored in a SQLite
database and can be listed and inspected afterwards.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("db", "sweep.db", "Path to the results database")
	rootCmd.PersistentFlags().String("config", "", "Path to config.yaml (empty = use defaults)")
	return rootCmd
}

// loadConfig reads the --config flag.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}
