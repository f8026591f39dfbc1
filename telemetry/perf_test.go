package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollectorPhases(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 3; i++ {
		pc.StartTrial()
		pc.StartPhase(PhasePopulate)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(PhaseRelocate)
		time.Sleep(200 * time.Microsecond)
		if d := pc.EndTrial(); d <= 0 {
			t.Errorf("trial %d duration = %v, want positive", i, d)
		}
	}

	stats := pc.Stats()
	if stats.Trials != 3 {
		t.Errorf("trials = %d, want 3", stats.Trials)
	}
	if stats.AvgTrialDuration <= 0 {
		t.Error("expected positive average trial duration")
	}
	for _, phase := range []string{PhasePopulate, PhaseRelocate} {
		if _, ok := stats.PhaseAvg[phase]; !ok {
			t.Errorf("expected %s phase to be tracked", phase)
		}
	}
	if _, ok := stats.PhaseAvg[PhaseMeasure]; ok {
		t.Error("measure phase was never started but is tracked")
	}
}

func TestPerfCollectorRollingWindow(t *testing.T) {
	pc := NewPerfCollector(5)

	for i := 0; i < 12; i++ {
		pc.StartTrial()
		pc.StartPhase(PhaseMeasure)
		pc.EndTrial()
	}

	stats := pc.Stats()
	if stats.Trials != 5 {
		t.Errorf("trials in window = %d, want 5", stats.Trials)
	}
	if stats.MinTrialDuration > stats.MaxTrialDuration {
		t.Errorf("min %v > max %v", stats.MinTrialDuration, stats.MaxTrialDuration)
	}
}

func TestPerfCollectorEmpty(t *testing.T) {
	stats := NewPerfCollector(0).Stats()
	if stats.Trials != 0 || stats.AvgTrialDuration != 0 {
		t.Errorf("empty stats = %+v", stats)
	}
	if stats.PhaseAvg == nil || stats.PhasePct == nil {
		t.Error("empty stats should carry non-nil maps")
	}
}
