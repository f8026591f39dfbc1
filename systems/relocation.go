package systems

import (
	"fmt"
	"math/rand"

	"github.com/pthm-cable/schelling/grid"
)

// RoundResult describes one pass over the grid.
type RoundResult struct {
	Moves         int  // Unsatisfied agents relocated
	EvictionFired bool // An eviction shock ran before the pass
	Evicted       int  // Agents displaced by that shock
}

// Settled reports whether the pass relocated nobody.
func (r RoundResult) Settled() bool { return r.Moves == 0 }

// Convergence summarises a run of rounds until the grid settled.
type Convergence struct {
	Rounds    int // Rounds executed, including the final settled one
	Moves     int // Relocations across all rounds
	Evictions int // Rounds in which an eviction shock fired
	Evicted   int // Agents displaced across all shocks
}

func (c *Convergence) add(r RoundResult) {
	c.Rounds++
	c.Moves += r.Moves
	c.Evicted += r.Evicted
	if r.EvictionFired {
		c.Evictions++
	}
}

// MoveToRandom relocates the occupant of (x, y) to a uniformly random empty
// cell and leaves (x, y) empty.
func MoveToRandom(g *grid.Grid, rng *rand.Rand, x, y, attempts int) error {
	dst, ok := sampleEmpty(g, rng, attempts)
	if !ok {
		return ErrNoEmptyCell
	}
	dx, dy := g.Coords(dst)
	g.Move(x, y, dx, dy)
	return nil
}

// MovementRound runs one in-place pass, x outer and y inner, relocating
// every unsatisfied occupant as soon as it is found. A relocated agent may
// be visited again later in the same pass.
//
// On a full grid nobody can move, so the round is settled.
func MovementRound(g *grid.Grid, rng *rand.Rand, r Rules) RoundResult {
	var res RoundResult
	if g.EmptyCells() == 0 {
		return res
	}

	for x := 0; x < g.W; x++ {
		for y := 0; y < g.H; y++ {
			if Satisfied(g, x, y, r) {
				continue
			}
			if err := MoveToRandom(g, rng, x, y, r.SampleAttempts); err == nil {
				res.Moves++
			}
		}
	}
	return res
}

// RunToConvergence repeats MovementRound until a round makes no moves.
//
// The classic process is not guaranteed to terminate. maxRounds of 0 keeps
// that behaviour; a positive cap stops with ErrRoundLimit.
func RunToConvergence(g *grid.Grid, rng *rand.Rand, r Rules, maxRounds int) (Convergence, error) {
	var c Convergence
	for {
		if maxRounds > 0 && c.Rounds >= maxRounds {
			return c, fmt.Errorf("%w after %d rounds", ErrRoundLimit, c.Rounds)
		}
		res := MovementRound(g, rng, r)
		c.add(res)
		if res.Settled() {
			return c, nil
		}
	}
}
