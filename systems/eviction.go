package systems

import (
	"fmt"
	"math/rand"

	"github.com/pthm-cable/schelling/grid"
)

// EvictionParams configures the forced-displacement shock.
type EvictionParams struct {
	Rate        float64 // Fraction of the total population evicted per shock
	Probability float64 // Chance that a round starts with a shock
	TargetClass uint8   // Class whose agents are evicted
}

// Validate checks ranges against the number of classes in play.
func (p EvictionParams) Validate(classes int) error {
	if p.Rate < 0 || p.Rate > 1 {
		return fmt.Errorf("%w: rate %v outside [0,1]", ErrInvalidEviction, p.Rate)
	}
	if p.Probability < 0 || p.Probability > 1 {
		return fmt.Errorf("%w: probability %v outside [0,1]", ErrInvalidEviction, p.Probability)
	}
	if p.TargetClass < 1 || int(p.TargetClass) > classes {
		return fmt.Errorf("%w: target class %d outside [1,%d]", ErrInvalidEviction, p.TargetClass, classes)
	}
	return nil
}

// EvictionCount returns floor(population * rate).
func EvictionCount(population int, rate float64) int {
	return int(float64(population) * rate)
}

// EvictAndRelocate evicts floor(population*rate) agents of the target class
// and reinserts them at uniformly random empty cells. The count is clamped
// to the agents of that class currently on the grid.
//
// All sources are cleared before any destination is drawn, so an agent may
// land on a cell vacated by the same shock. Returns the number evicted.
func EvictAndRelocate(g *grid.Grid, rng *rand.Rand, population int, rate float64, target uint8, attempts int) (int, error) {
	n := EvictionCount(population, rate)
	if avail := g.CountClass(target); n > avail {
		n = avail
	}
	if n <= 0 {
		return 0, nil
	}

	cells := g.Cells()
	selected := make([]bool, len(cells))
	sources := make([]int, 0, n)
	for len(sources) < n {
		idx, ok := sampleCell(g, rng, attempts, func(i int) bool {
			return cells[i] == target && !selected[i]
		})
		if !ok {
			// Unreachable after clamping.
			break
		}
		selected[idx] = true
		sources = append(sources, idx)
	}

	for _, idx := range sources {
		cells[idx] = grid.Empty
	}

	for range sources {
		idx, ok := sampleEmpty(g, rng, attempts)
		if !ok {
			return 0, fmt.Errorf("reinserting evicted agent: %w", ErrNoEmptyCell)
		}
		cells[idx] = target
	}
	return len(sources), nil
}

// EvictionRound draws one uniform value and, when it falls below the
// configured probability, runs an eviction shock before the normal
// relocation pass. No value is drawn when the probability is zero, which
// keeps the random stream identical to a run without evictions.
func EvictionRound(g *grid.Grid, rng *rand.Rand, r Rules, ev EvictionParams, population int) (RoundResult, error) {
	var evicted int
	fired := false
	if ev.Probability > 0 && rng.Float64() < ev.Probability {
		n, err := EvictAndRelocate(g, rng, population, ev.Rate, ev.TargetClass, r.SampleAttempts)
		if err != nil {
			return RoundResult{}, err
		}
		evicted = n
		fired = true
	}

	res := MovementRound(g, rng, r)
	res.EvictionFired = fired
	res.Evicted = evicted
	return res, nil
}

// RunWithEvictions repeats EvictionRound until a relocation pass makes no
// moves. A shock can unsettle the grid and extend the run, but never keeps
// it going on its own: the stop test looks only at relocations.
func RunWithEvictions(g *grid.Grid, rng *rand.Rand, r Rules, ev EvictionParams, population, maxRounds int) (Convergence, error) {
	var c Convergence
	for {
		if maxRounds > 0 && c.Rounds >= maxRounds {
			return c, fmt.Errorf("%w after %d rounds", ErrRoundLimit, c.Rounds)
		}
		res, err := EvictionRound(g, rng, r, ev, population)
		if err != nil {
			return c, err
		}
		c.add(res)
		if res.Settled() {
			return c, nil
		}
	}
}
