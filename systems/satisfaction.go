package systems

import "github.com/pthm-cable/schelling/grid"

// Rules holds the fixed relocation parameters of a simulator.
type Rules struct {
	MinNeighbors   int  // Like neighbours needed to be satisfied
	Wraparound     bool // Toroidal neighbourhoods; disables the border exemption
	SampleAttempts int  // Random draws before enumerating candidate cells
}

// LikeNeighbors counts cells in the 3x3 neighbourhood of (x, y) that hold
// the same class, minus one for the cell itself. Lookups wrap toroidally;
// callers that exclude the border never reach a wrapped cell.
func LikeNeighbors(g *grid.Grid, x, y int) int {
	self := g.Get(x, y)
	n := -1
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			if g.At(x+dx, y+dy) == self {
				n++
			}
		}
	}
	return n
}

// UnlikeNeighbors counts cells in the 3x3 neighbourhood of (x, y) holding a
// different value than (x, y). Empty cells count as unlike.
func UnlikeNeighbors(g *grid.Grid, x, y int) int {
	self := g.Get(x, y)
	n := 0
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			if g.At(x+dx, y+dy) != self {
				n++
			}
		}
	}
	return n
}

// Satisfied reports whether the occupant of (x, y) stays put.
// Empty cells are always satisfied, and so is every border cell unless the
// grid wraps around.
func Satisfied(g *grid.Grid, x, y int, r Rules) bool {
	if g.Get(x, y) == grid.Empty {
		return true
	}
	if !r.Wraparound && g.IsEdge(x, y) {
		return true
	}
	return LikeNeighbors(g, x, y) >= r.MinNeighbors
}
