package store

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/schelling/config"
	"github.com/pthm-cable/schelling/systems"
	"github.com/pthm-cable/schelling/telemetry"
)

func newTestStore(t *testing.T) *ResultStore {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testCollector() *telemetry.Collector {
	c := telemetry.NewCollector(2)
	values := [][2]float64{{0.5, 0.7}, {0.6, math.NaN()}, {0.55, 0.75}}
	for trial, v := range values {
		ts := telemetry.TrialStats{Trial: trial, Rounds: 3, Moves: 20, Converged: true, Homophily: (v[0] + v[1]) / 2}
		cs := []telemetry.ClassStats{
			{Trial: trial, Class: 1, Agents: 20, Like: 40, Unlike: 40, Homophily: v[0]},
			{Trial: trial, Class: 2, Agents: 20, Like: 50, Unlike: 20, Homophily: v[1]},
		}
		c.Record(ts, cs)
	}
	return c
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	return cfg
}

func TestSaveAndReadRun(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	cfg := testConfig(t)
	ev := &systems.EvictionParams{Rate: 0.3, Probability: 0.9, TargetClass: 1}

	id, err := s.SaveRun(ctx, "shock", 1211, cfg, ev, testCollector())
	if err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}

	run, err := s.GetRun(ctx, id)
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if run.Label != "shock" || run.Seed != 1211 || run.Trials != 3 {
		t.Errorf("run mismatch: %+v", run)
	}
	if run.Population != cfg.Derived.Population || run.Width != cfg.Grid.Width {
		t.Errorf("run config mismatch: %+v", run)
	}
	if run.Eviction == nil || run.Eviction.Rate != 0.3 || run.Eviction.TargetClass != 1 {
		t.Errorf("eviction params mismatch: %+v", run.Eviction)
	}

	series, err := s.ClassSeries(ctx, id)
	if err != nil {
		t.Fatalf("ClassSeries failed: %v", err)
	}
	if len(series[1]) != 3 || series[1][2] != 0.55 {
		t.Errorf("class 1 series = %v", series[1])
	}
	if len(series[2]) != 3 || !math.IsNaN(series[2][1]) {
		t.Errorf("class 2 series should keep NaN at trial 1: %v", series[2])
	}

	agg, err := s.AggregateSeries(ctx, id)
	if err != nil {
		t.Fatalf("AggregateSeries failed: %v", err)
	}
	if len(agg) != 3 || !math.IsNaN(agg[1]) || math.Abs(agg[0]-0.6) > 1e-12 {
		t.Errorf("aggregate series = %v", agg)
	}
}

func TestPlainRunHasNoEviction(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.SaveRun(ctx, "", 1, testConfig(t), nil, testCollector())
	if err != nil {
		t.Fatal(err)
	}
	run, err := s.GetRun(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if run.Eviction != nil {
		t.Errorf("plain run has eviction params %+v", run.Eviction)
	}
}

func TestListAndDeleteRuns(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	cfg := testConfig(t)

	first, err := s.SaveRun(ctx, "a", 1, cfg, nil, testCollector())
	if err != nil {
		t.Fatal(err)
	}
	second, err := s.SaveRun(ctx, "b", 2, cfg, nil, testCollector())
	if err != nil {
		t.Fatal(err)
	}

	runs, err := s.ListRuns(ctx)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != second || runs[1].ID != first {
		t.Fatalf("ListRuns order = %+v, want newest first", runs)
	}

	if err := s.DeleteRun(ctx, first); err != nil {
		t.Fatalf("DeleteRun failed: %v", err)
	}
	if _, err := s.GetRun(ctx, first); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("GetRun after delete = %v, want ErrRunNotFound", err)
	}
	series, err := s.ClassSeries(ctx, first)
	if err != nil {
		t.Fatal(err)
	}
	if len(series) != 0 {
		t.Errorf("class results survived delete: %v", series)
	}
	if err := s.DeleteRun(ctx, first); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("second DeleteRun = %v, want ErrRunNotFound", err)
	}
}

func TestReopenFileDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results", "runs.db")
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	id, err := s.SaveRun(ctx, "persisted", 5, testConfig(t), nil, testCollector())
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s.Close()
	run, err := s.GetRun(ctx, id)
	if err != nil {
		t.Fatalf("GetRun after reopen: %v", err)
	}
	if run.Label != "persisted" {
		t.Errorf("label = %q, want persisted", run.Label)
	}
}
