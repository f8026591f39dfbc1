package systems

import (
	"fmt"
	"math/rand"

	"github.com/pthm-cable/schelling/grid"
)

// Populate places exactly population agents on distinct empty cells, each
// with a uniformly random class in [1, classes]. The grid is expected to be
// cleared beforehand; existing occupants are left in place.
func Populate(g *grid.Grid, rng *rand.Rand, classes, population, attempts int) error {
	if population > g.Capacity() {
		return fmt.Errorf("%w: only %d cells exist, requested %d", ErrOverCapacity, g.Capacity(), population)
	}
	if population > g.EmptyCells() {
		return fmt.Errorf("%w: only %d empty cells left, requested %d", ErrOverCapacity, g.EmptyCells(), population)
	}

	cells := g.Cells()
	for i := 0; i < population; i++ {
		idx, ok := sampleEmpty(g, rng, attempts)
		if !ok {
			return fmt.Errorf("placing agent %d: %w", i, ErrNoEmptyCell)
		}
		cells[idx] = uint8(rng.Intn(classes) + 1)
	}
	return nil
}
