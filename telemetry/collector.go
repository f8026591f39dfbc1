// Package telemetry records trial outcomes, summarises them across an
// experiment and writes them out as CSV.
package telemetry

// Collector accumulates trial results across an experiment, keeping each
// series in trial order.
type Collector struct {
	classes   int
	trials    []TrialStats
	records   []ClassStats
	aggregate []float64
	perClass  [][]float64 // Indexed by class id - 1
}

// NewCollector creates a collector for the given number of classes.
func NewCollector(classes int) *Collector {
	return &Collector{
		classes:  classes,
		perClass: make([][]float64, classes),
	}
}

// Record appends one finished trial.
func (c *Collector) Record(ts TrialStats, cs []ClassStats) {
	c.trials = append(c.trials, ts)
	c.aggregate = append(c.aggregate, ts.Homophily)
	c.records = append(c.records, cs...)
	for _, s := range cs {
		if s.Class >= 1 && s.Class <= c.classes {
			c.perClass[s.Class-1] = append(c.perClass[s.Class-1], s.Homophily)
		}
	}
}

// Trials returns the recorded trial stats.
func (c *Collector) Trials() []TrialStats {
	return c.trials
}

// ClassTrials returns every recorded class record in trial order.
func (c *Collector) ClassTrials() []ClassStats {
	return c.records
}

// Aggregate returns the whole-grid homophily of every trial.
func (c *Collector) Aggregate() []float64 {
	out := make([]float64, len(c.aggregate))
	copy(out, c.aggregate)
	return out
}

// ClassSeries returns each class's per-trial homophily keyed by class id.
func (c *Collector) ClassSeries() map[uint8][]float64 {
	out := make(map[uint8][]float64, c.classes)
	for i, series := range c.perClass {
		cp := make([]float64, len(series))
		copy(cp, series)
		out[uint8(i+1)] = cp
	}
	return out
}

// Summary returns the aggregate series summary (class 0) followed by one
// summary per class.
func (c *Collector) Summary() []SeriesSummary {
	out := make([]SeriesSummary, 0, c.classes+1)
	out = append(out, Summarize(0, c.aggregate))
	for i, series := range c.perClass {
		out = append(out, Summarize(i+1, series))
	}
	return out
}

// Reset clears all recorded trials.
func (c *Collector) Reset() {
	c.trials = nil
	c.records = nil
	c.aggregate = nil
	c.perClass = make([][]float64, c.classes)
}
