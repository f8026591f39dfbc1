package systems

import (
	"math"

	"github.com/pthm-cable/schelling/grid"
)

// ClassHomophily holds the neighbour tallies of one class.
type ClassHomophily struct {
	Class  uint8
	Agents int // Counted agents of this class
	Like   int // Sum of self-corrected like-neighbour counts
	Unlike int // Sum of unlike counts over the full 3x3 neighbourhood
	Ratio  float64
	Share  float64 // Agents / all counted agents
}

// Homophily is the per-class segregation measure of one grid state.
type Homophily struct {
	Classes []ClassHomophily // Indexed by class id - 1
	Counted int              // Agents whose neighbourhood was counted
}

// Aggregate returns the unweighted mean of the per-class ratios.
// A NaN class ratio makes the aggregate NaN.
func (h Homophily) Aggregate() float64 {
	if len(h.Classes) == 0 {
		return math.NaN()
	}
	var sum float64
	for _, c := range h.Classes {
		sum += c.Ratio
	}
	return sum / float64(len(h.Classes))
}

// Ratios returns the per-class ratios indexed by class id - 1.
func (h Homophily) Ratios() []float64 {
	out := make([]float64, len(h.Classes))
	for i, c := range h.Classes {
		out[i] = c.Ratio
	}
	return out
}

// Ratio divides like by like+unlike, returning NaN when nothing was counted.
func Ratio(like, unlike int) float64 {
	total := like + unlike
	if total == 0 {
		return math.NaN()
	}
	return float64(like) / float64(total)
}

// MeasureHomophily tallies like and unlike neighbours per class.
//
// Only occupied cells with a fully defined neighbourhood are counted: all of
// them when the grid wraps, interior cells otherwise. The like count drops
// the cell itself while the unlike count does not, so the two are not
// complementary. Experiments compare against this exact definition.
func MeasureHomophily(g *grid.Grid, classes int, wraparound bool) Homophily {
	h := Homophily{Classes: make([]ClassHomophily, classes)}
	for i := range h.Classes {
		h.Classes[i].Class = uint8(i + 1)
	}

	for x := 0; x < g.W; x++ {
		for y := 0; y < g.H; y++ {
			c := g.Get(x, y)
			if c == grid.Empty || int(c) > classes {
				continue
			}
			if !wraparound && g.IsEdge(x, y) {
				continue
			}
			ch := &h.Classes[c-1]
			ch.Agents++
			ch.Like += LikeNeighbors(g, x, y)
			ch.Unlike += UnlikeNeighbors(g, x, y)
			h.Counted++
		}
	}

	for i := range h.Classes {
		ch := &h.Classes[i]
		ch.Ratio = Ratio(ch.Like, ch.Unlike)
		if h.Counted > 0 {
			ch.Share = float64(ch.Agents) / float64(h.Counted)
		} else {
			ch.Share = math.NaN()
		}
	}
	return h
}
