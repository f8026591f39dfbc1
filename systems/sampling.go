// Package systems implements the Schelling engine operations: placement,
// satisfaction, relocation rounds, eviction shocks and homophily metrics.
//
// Every operation works on an explicitly passed *grid.Grid and *rand.Rand.
// Nothing here is safe for concurrent use on the same grid.
package systems

import (
	"errors"
	"math/rand"

	"github.com/pthm-cable/schelling/grid"
)

var (
	// ErrOverCapacity means more agents were requested than the grid has cells.
	ErrOverCapacity = errors.New("population exceeds grid capacity")
	// ErrNoEmptyCell means a relocation target was requested on a full grid.
	ErrNoEmptyCell = errors.New("no empty cell available")
	// ErrRoundLimit means the round cap was reached before the grid settled.
	ErrRoundLimit = errors.New("relocation round limit reached")
	// ErrInvalidEviction means eviction parameters are out of range.
	ErrInvalidEviction = errors.New("invalid eviction parameters")
)

// sampleCell picks a uniformly random cell index satisfying accept.
//
// It first draws up to attempts random (x, y) pairs, x before y. When every
// draw is rejected it enumerates the accepted cells and picks one of them,
// which keeps the choice uniform while bounding the work near full occupancy.
// Returns false only when no cell is acceptable.
func sampleCell(g *grid.Grid, rng *rand.Rand, attempts int, accept func(i int) bool) (int, bool) {
	for a := 0; a < attempts; a++ {
		x := rng.Intn(g.W)
		y := rng.Intn(g.H)
		if i := g.Index(x, y); accept(i) {
			return i, true
		}
	}

	var candidates []int
	for i := range g.Cells() {
		if accept(i) {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		return 0, false
	}
	return candidates[rng.Intn(len(candidates))], true
}

// sampleEmpty picks a uniformly random empty cell index.
func sampleEmpty(g *grid.Grid, rng *rand.Rand, attempts int) (int, bool) {
	cells := g.Cells()
	return sampleCell(g, rng, attempts, func(i int) bool {
		return cells[i] == grid.Empty
	})
}
