// Package grid holds the rectangular cell array the simulation runs on.
//
// A cell stores 0 when empty or the class id (1..C) of the agent living
// there. Agents have no identity beyond that value.
package grid

// Empty is the value of an unoccupied cell.
const Empty uint8 = 0

// Grid stores class labels in row-major order.
type Grid struct {
	W, H  int
	cells []uint8
}

// New allocates an empty grid with the given dimensions. Non-positive
// dimensions are raised to 1, so New(0, 0) returns a 1x1 grid; callers that
// need to reject them check first, as config.Validate does.
func New(w, h int) *Grid {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return &Grid{W: w, H: h, cells: make([]uint8, w*h)}
}

// Clone returns an independent copy of the grid.
func (g *Grid) Clone() *Grid {
	cells := make([]uint8, len(g.cells))
	copy(cells, g.cells)
	return &Grid{W: g.W, H: g.H, cells: cells}
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.W }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.H }

// Capacity returns the total number of cells.
func (g *Grid) Capacity() int { return len(g.cells) }

// Cells exposes the backing slice.
func (g *Grid) Cells() []uint8 { return g.cells }

// Index returns the linear slice index for (x, y).
func (g *Grid) Index(x, y int) int { return y*g.W + x }

// Coords is the inverse of Index.
func (g *Grid) Coords(i int) (int, int) { return i % g.W, i / g.W }

// Get returns the class at (x, y).
func (g *Grid) Get(x, y int) uint8 { return g.cells[y*g.W+x] }

// Set writes a class at (x, y).
func (g *Grid) Set(x, y int, class uint8) { g.cells[y*g.W+x] = class }

// At returns the class at (x, y) after toroidal wrapping.
func (g *Grid) At(x, y int) uint8 {
	x, y = g.Wrap(x, y)
	return g.cells[y*g.W+x]
}

// Wrap applies toroidal wrapping to the provided coordinates.
func (g *Grid) Wrap(x, y int) (int, int) {
	x = (x%g.W + g.W) % g.W
	y = (y%g.H + g.H) % g.H
	return x, y
}

// IsEdge reports whether (x, y) lies on the outer border.
func (g *Grid) IsEdge(x, y int) bool {
	return x == 0 || y == 0 || x == g.W-1 || y == g.H-1
}

// Move copies the occupant of the source cell to the destination and
// clears the source.
func (g *Grid) Move(fromX, fromY, toX, toY int) {
	g.cells[toY*g.W+toX] = g.cells[fromY*g.W+fromX]
	g.cells[fromY*g.W+fromX] = Empty
}

// Clear empties every cell.
func (g *Grid) Clear() {
	for i := range g.cells {
		g.cells[i] = Empty
	}
}

// Occupied counts non-empty cells.
func (g *Grid) Occupied() int {
	n := 0
	for _, c := range g.cells {
		if c != Empty {
			n++
		}
	}
	return n
}

// EmptyCells counts unoccupied cells.
func (g *Grid) EmptyCells() int {
	return len(g.cells) - g.Occupied()
}

// CountClass counts cells holding the given class.
func (g *Grid) CountClass(class uint8) int {
	n := 0
	for _, c := range g.cells {
		if c == class {
			n++
		}
	}
	return n
}

// ClassCounts returns per-class occupancy indexed by class id.
// Index 0 holds the empty-cell count.
func (g *Grid) ClassCounts(classes int) []int {
	counts := make([]int, classes+1)
	for _, c := range g.cells {
		if int(c) <= classes {
			counts[c]++
		}
	}
	return counts
}
