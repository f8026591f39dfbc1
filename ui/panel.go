package ui

import (
	"fmt"
	"math"

	"github.com/pthm-cable/schelling/renderer"
	"github.com/pthm-cable/schelling/systems"
	"github.com/pthm-cable/schelling/telemetry"
)

// PanelState is what the panel reports about the current experiment.
type PanelState struct {
	Running   bool
	Completed int // Trials finished in the current or last run
	Total     int
	Converged int // Trials that settled within the round limit
	Summary   []telemetry.SeriesSummary
	Err       error
}

// ExperimentPanel holds the eviction controls and draws the result readout.
type ExperimentPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	height   int32
	classes  int

	Evict       bool
	Rate        float32
	Probability float32
	TargetClass int
	Trials      int
}

// NewExperimentPanel creates a panel occupying the given screen rectangle.
func NewExperimentPanel(x, y, width, height int32, classes int) *ExperimentPanel {
	return &ExperimentPanel{
		renderer:    NewRenderer(),
		x:           x,
		y:           y,
		width:       width,
		height:      height,
		classes:     classes,
		TargetClass: 1,
		Trials:      1,
	}
}

// Eviction returns the eviction parameters selected on the panel, or nil
// when evictions are switched off.
func (p *ExperimentPanel) Eviction() *systems.EvictionParams {
	if !p.Evict {
		return nil
	}
	return &systems.EvictionParams{
		Rate:        float64(p.Rate),
		Probability: float64(p.Probability),
		TargetClass: uint8(p.TargetClass),
	}
}

// Draw renders the panel and reports whether a new run was requested.
func (p *ExperimentPanel) Draw(state PanelState) bool {
	r := p.renderer
	th := r.Theme
	r.DrawPanel(p.x, p.y, p.width, p.height)

	x := p.x + th.Padding
	y := p.y + th.Padding
	w := p.width - 2*th.Padding

	y = r.DrawSectionHeader(x, y, "Experiment")

	toggle := "Evictions: off"
	if p.Evict {
		toggle = "Evictions: on"
	}
	var clicked bool
	if clicked, y = r.DrawButton(x, y, w, toggle); clicked {
		p.Evict = !p.Evict
	}

	if p.Evict {
		p.Rate, y = r.DrawSlider(x, y, w, "Eviction rate", "%.2f", p.Rate, 0, 1)
		p.Probability, y = r.DrawSlider(x, y, w, "Eviction probability", "%.2f", p.Probability, 0, 1)
		if p.classes > 1 {
			var class float32
			class, y = r.DrawSlider(x, y, w, "Target class", "%.0f", float32(p.TargetClass), 1, float32(p.classes))
			p.TargetClass = int(math.Round(float64(class)))
		}
	}

	var trials float32
	trials, y = r.DrawSlider(x, y, w, "Trials", "%.0f", float32(p.Trials), 1, 200)
	p.Trials = int(math.Round(float64(trials)))

	label := "Run"
	if state.Running {
		label = fmt.Sprintf("Running %d/%d", state.Completed, state.Total)
	}
	var run bool
	run, y = r.DrawButton(x, y, w, label)
	run = run && !state.Running

	y += th.Padding
	y = r.DrawSectionHeader(x, y, "Homophily")
	if state.Err != nil {
		r.DrawText(x, y, state.Err.Error(), th.ErrorColor)
		return run
	}
	if len(state.Summary) == 0 {
		r.DrawText(x, y, "No results yet", th.MutedColor)
		return run
	}

	for _, s := range state.Summary {
		if s.Class == 0 {
			y = r.DrawBar(x, y, "Aggregate", s.Mean, w)
			continue
		}
		y = r.DrawColorSwatch(x, y, renderer.ClassColor(uint8(s.Class)), fmt.Sprintf("Class %d", s.Class))
		y = r.DrawBar(x, y, "Mean", s.Mean, w)
		y = r.DrawLabelValue(x, y, "Std dev", formatRatio(s.StdDev))
	}
	y += th.Padding / 2
	y = r.DrawLabelValue(x, y, "Trials", fmt.Sprintf("%d", state.Completed))
	r.DrawLabelValue(x, y, "Settled", fmt.Sprintf("%d", state.Converged))
	return run
}

func formatRatio(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.3f", v)
}
