package telemetry

import (
	"log/slog"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/schelling/systems"
)

// TrialStats holds the outcome of one trial.
type TrialStats struct {
	Trial      int     `csv:"trial"`
	Rounds     int     `csv:"rounds"`
	Moves      int     `csv:"moves"`
	Shocks     int     `csv:"shocks"`  // Rounds that started with an eviction
	Evicted    int     `csv:"evicted"` // Agents displaced across all shocks
	Converged  bool    `csv:"converged"`
	Occupied   int     `csv:"occupied"` // Agents on the grid at trial end
	Counted    int     `csv:"counted"`  // Agents whose neighbourhood was measured
	Homophily  float64 `csv:"homophily"`
	DurationMs float64 `csv:"duration_ms"`
}

// ClassStats holds one class's homophily for one trial.
type ClassStats struct {
	Trial     int     `csv:"trial"`
	Class     int     `csv:"class"`
	Agents    int     `csv:"agents"`
	Like      int     `csv:"like"`
	Unlike    int     `csv:"unlike"`
	Homophily float64 `csv:"homophily"`
	Share     float64 `csv:"share"`
}

// SeriesSummary aggregates one series of per-trial ratios.
// Class 0 denotes the whole-grid aggregate.
type SeriesSummary struct {
	Class  int     `csv:"class"`
	Trials int     `csv:"trials"`
	Valid  int     `csv:"valid"` // Trials with a defined ratio
	Mean   float64 `csv:"mean"`
	StdDev float64 `csv:"std_dev"`
	Min    float64 `csv:"min"`
	Max    float64 `csv:"max"`
}

// NewClassStats flattens a homophily measurement into per-class records.
func NewClassStats(trial int, h systems.Homophily) []ClassStats {
	out := make([]ClassStats, len(h.Classes))
	for i, c := range h.Classes {
		out[i] = ClassStats{
			Trial:     trial,
			Class:     int(c.Class),
			Agents:    c.Agents,
			Like:      c.Like,
			Unlike:    c.Unlike,
			Homophily: c.Ratio,
			Share:     c.Share,
		}
	}
	return out
}

// Summarize computes population mean and standard deviation over the
// defined values of a series. NaN entries are skipped; a series without
// any defined value summarises to NaN.
func Summarize(class int, values []float64) SeriesSummary {
	s := SeriesSummary{Class: class, Trials: len(values)}

	defined := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			defined = append(defined, v)
		}
	}
	s.Valid = len(defined)
	if s.Valid == 0 {
		s.Mean, s.StdDev, s.Min, s.Max = math.NaN(), math.NaN(), math.NaN(), math.NaN()
		return s
	}

	s.Mean, s.StdDev = stat.PopMeanStdDev(defined, nil)
	s.Min, s.Max = defined[0], defined[0]
	for _, v := range defined[1:] {
		s.Min = math.Min(s.Min, v)
		s.Max = math.Max(s.Max, v)
	}
	return s
}

// LogValue implements slog.LogValuer for structured logging.
func (s TrialStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("trial", s.Trial),
		slog.Int("rounds", s.Rounds),
		slog.Int("moves", s.Moves),
		slog.Int("shocks", s.Shocks),
		slog.Int("evicted", s.Evicted),
		slog.Bool("converged", s.Converged),
		slog.Int("occupied", s.Occupied),
		slog.Int("counted", s.Counted),
		slog.Float64("homophily", s.Homophily),
		slog.Float64("duration_ms", s.DurationMs),
	)
}

// LogStats logs the trial and its per-class ratios using slog.
func (s TrialStats) LogStats(classes []ClassStats) {
	attrs := []any{
		"trial", s.Trial,
		"rounds", s.Rounds,
		"moves", s.Moves,
		"shocks", s.Shocks,
		"evicted", s.Evicted,
		"converged", s.Converged,
		"homophily", s.Homophily,
	}
	for _, c := range classes {
		attrs = append(attrs, slog.Group("class",
			"id", c.Class,
			"homophily", c.Homophily,
			"share", c.Share,
		))
	}
	slog.Info("trial", attrs...)
}

// LogValue implements slog.LogValuer for structured logging.
func (s SeriesSummary) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("class", s.Class),
		slog.Int("trials", s.Trials),
		slog.Int("valid", s.Valid),
		slog.Float64("mean", s.Mean),
		slog.Float64("std_dev", s.StdDev),
		slog.Float64("min", s.Min),
		slog.Float64("max", s.Max),
	)
}
