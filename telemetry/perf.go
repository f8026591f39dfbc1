package telemetry

import (
	"log/slog"
	"time"
)

// Phase names for one trial.
const (
	PhasePopulate = "populate"
	PhaseRelocate = "relocate"
	PhaseMeasure  = "measure"
)

var phases = []string{PhasePopulate, PhaseRelocate, PhaseMeasure}

// PerfSample holds timing data for a single trial.
type PerfSample struct {
	TrialDuration time.Duration
	Phases        map[string]time.Duration
}

// PerfCollector tracks trial timings over a rolling window.
type PerfCollector struct {
	windowSize    int
	samples       []PerfSample
	writeIndex    int
	sampleCount   int
	currentPhases map[string]time.Duration
	trialStart    time.Time
	phaseStart    time.Time
	lastPhase     string
}

// NewPerfCollector creates a new performance collector averaging over the
// last windowSize trials.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 50
	}
	return &PerfCollector{
		windowSize:    windowSize,
		samples:       make([]PerfSample, windowSize),
		currentPhases: make(map[string]time.Duration),
	}
}

// StartTrial begins timing a new trial.
func (p *PerfCollector) StartTrial() {
	p.trialStart = time.Now()
	p.currentPhases = make(map[string]time.Duration)
	p.lastPhase = ""
}

// StartPhase begins timing a specific phase, ending the previous one.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.lastPhase = phase
}

// EndTrial finishes timing the current trial, records the sample and
// returns the trial's duration.
func (p *PerfCollector) EndTrial() time.Duration {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}

	sample := PerfSample{
		TrialDuration: now.Sub(p.trialStart),
		Phases:        p.currentPhases,
	}

	p.samples[p.writeIndex] = sample
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
	return sample.TrialDuration
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	Trials           int
	AvgTrialDuration time.Duration
	MinTrialDuration time.Duration
	MaxTrialDuration time.Duration

	// Phase breakdown (average durations and share of trial time)
	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	if p.sampleCount == 0 {
		return PerfStats{
			PhaseAvg: make(map[string]time.Duration),
			PhasePct: make(map[string]float64),
		}
	}

	var total, minDur, maxDur time.Duration
	phaseSum := make(map[string]time.Duration)
	for i := 0; i < p.sampleCount; i++ {
		s := p.samples[i]
		total += s.TrialDuration
		if i == 0 || s.TrialDuration < minDur {
			minDur = s.TrialDuration
		}
		if s.TrialDuration > maxDur {
			maxDur = s.TrialDuration
		}
		for phase, dur := range s.Phases {
			phaseSum[phase] += dur
		}
	}

	avg := total / time.Duration(p.sampleCount)
	phaseAvg := make(map[string]time.Duration)
	phasePct := make(map[string]float64)
	for phase, sum := range phaseSum {
		phaseAvg[phase] = sum / time.Duration(p.sampleCount)
		if avg > 0 {
			phasePct[phase] = float64(phaseAvg[phase]) / float64(avg) * 100
		}
	}

	return PerfStats{
		Trials:           p.sampleCount,
		AvgTrialDuration: avg,
		MinTrialDuration: minDur,
		MaxTrialDuration: maxDur,
		PhaseAvg:         phaseAvg,
		PhasePct:         phasePct,
	}
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	attrs := []any{
		"trials", s.Trials,
		"avg_trial_ms", float64(s.AvgTrialDuration.Microseconds()) / 1000,
		"min_trial_ms", float64(s.MinTrialDuration.Microseconds()) / 1000,
		"max_trial_ms", float64(s.MaxTrialDuration.Microseconds()) / 1000,
	}
	for _, phase := range phases {
		if pct, ok := s.PhasePct[phase]; ok && pct > 0.1 {
			attrs = append(attrs, phase+"_pct", int(pct*10)/10.0)
		}
	}
	slog.Info("perf", attrs...)
}
