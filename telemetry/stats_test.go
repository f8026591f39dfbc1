package telemetry

import (
	"math"
	"testing"

	"github.com/pthm-cable/schelling/systems"
)

func TestSummarize(t *testing.T) {
	tests := []struct {
		name      string
		values    []float64
		wantValid int
		wantMean  float64
		wantStd   float64
	}{
		{"single", []float64{0.6}, 1, 0.6, 0},
		{"population std", []float64{0.2, 0.4, 0.6, 0.8}, 4, 0.5, math.Sqrt(0.05)},
		{"skips NaN", []float64{0.5, math.NaN(), 0.7}, 2, 0.6, 0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Summarize(1, tt.values)
			if s.Trials != len(tt.values) {
				t.Errorf("trials = %d, want %d", s.Trials, len(tt.values))
			}
			if s.Valid != tt.wantValid {
				t.Errorf("valid = %d, want %d", s.Valid, tt.wantValid)
			}
			if math.Abs(s.Mean-tt.wantMean) > 1e-9 {
				t.Errorf("mean = %v, want %v", s.Mean, tt.wantMean)
			}
			if math.Abs(s.StdDev-tt.wantStd) > 1e-9 {
				t.Errorf("std = %v, want %v", s.StdDev, tt.wantStd)
			}
		})
	}
}

func TestSummarizeAllUndefined(t *testing.T) {
	s := Summarize(2, []float64{math.NaN(), math.NaN()})
	if s.Valid != 0 {
		t.Errorf("valid = %d, want 0", s.Valid)
	}
	if !math.IsNaN(s.Mean) || !math.IsNaN(s.StdDev) {
		t.Errorf("undefined series should summarise to NaN, got mean %v std %v", s.Mean, s.StdDev)
	}

	empty := Summarize(0, nil)
	if empty.Trials != 0 || !math.IsNaN(empty.Mean) {
		t.Errorf("empty series = %+v", empty)
	}
}

func TestSummarizeMinMax(t *testing.T) {
	s := Summarize(0, []float64{0.4, 0.9, 0.1, math.NaN()})
	if s.Min != 0.1 || s.Max != 0.9 {
		t.Errorf("min/max = %v/%v, want 0.1/0.9", s.Min, s.Max)
	}
}

func TestNewClassStats(t *testing.T) {
	h := systems.Homophily{
		Classes: []systems.ClassHomophily{
			{Class: 1, Agents: 4, Like: 10, Unlike: 6, Ratio: 0.625, Share: 0.4},
			{Class: 2, Agents: 6, Like: 0, Unlike: 0, Ratio: math.NaN(), Share: 0.6},
		},
		Counted: 10,
	}

	cs := NewClassStats(3, h)
	if len(cs) != 2 {
		t.Fatalf("len = %d, want 2", len(cs))
	}
	if cs[0].Trial != 3 || cs[0].Class != 1 || cs[0].Homophily != 0.625 || cs[0].Like != 10 {
		t.Errorf("class 1 record mismatch: %+v", cs[0])
	}
	if cs[1].Class != 2 || !math.IsNaN(cs[1].Homophily) {
		t.Errorf("class 2 record mismatch: %+v", cs[1])
	}
}

func TestCollector(t *testing.T) {
	c := NewCollector(2)
	for trial := 0; trial < 3; trial++ {
		ts := TrialStats{Trial: trial, Homophily: 0.5 + 0.1*float64(trial)}
		cs := []ClassStats{
			{Trial: trial, Class: 1, Homophily: 0.4 + 0.1*float64(trial)},
			{Trial: trial, Class: 2, Homophily: 0.6 + 0.1*float64(trial)},
		}
		c.Record(ts, cs)
	}

	agg := c.Aggregate()
	if len(agg) != 3 || agg[0] != 0.5 {
		t.Errorf("aggregate = %v", agg)
	}

	series := c.ClassSeries()
	if len(series) != 2 {
		t.Fatalf("series classes = %d, want 2", len(series))
	}
	if len(series[1]) != 3 || series[1][0] != 0.4 {
		t.Errorf("class 1 series = %v", series[1])
	}
	if math.Abs(series[2][2]-0.8) > 1e-12 {
		t.Errorf("class 2 last value = %v, want 0.8", series[2][2])
	}

	summary := c.Summary()
	if len(summary) != 3 {
		t.Fatalf("summary rows = %d, want 3", len(summary))
	}
	if summary[0].Class != 0 || summary[1].Class != 1 || summary[2].Class != 2 {
		t.Errorf("summary class order = %d,%d,%d", summary[0].Class, summary[1].Class, summary[2].Class)
	}
	if math.Abs(summary[0].Mean-0.6) > 1e-9 {
		t.Errorf("aggregate mean = %v, want 0.6", summary[0].Mean)
	}

	c.Reset()
	if len(c.Trials()) != 0 || len(c.Aggregate()) != 0 {
		t.Error("Reset left recorded trials")
	}
}
