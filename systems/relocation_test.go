package systems

import (
	"errors"
	"testing"

	"github.com/pthm-cable/schelling/grid"
)

func TestMoveToRandom(t *testing.T) {
	g := fill([][]uint8{
		{1, 2, 1},
		{2, 1, 0},
		{1, 2, 1},
	})

	if err := MoveToRandom(g, newRNG(5), 0, 0, 8); err != nil {
		t.Fatalf("MoveToRandom failed: %v", err)
	}
	if g.Get(0, 0) != grid.Empty {
		t.Error("source not cleared")
	}
	if g.Get(2, 1) != 1 {
		t.Errorf("only empty cell should receive the agent, got %d", g.Get(2, 1))
	}

	if err := MoveToRandom(g, newRNG(5), 1, 1, 8); err != nil {
		t.Fatalf("second move failed: %v", err)
	}
	if g.Get(0, 0) != 1 || g.Get(1, 1) != grid.Empty {
		t.Error("second move should land on the vacated corner")
	}
}

func TestMoveToRandomFullGrid(t *testing.T) {
	g := fill([][]uint8{{1, 2}, {2, 1}})
	if err := MoveToRandom(g, newRNG(1), 0, 0, 8); !errors.Is(err, ErrNoEmptyCell) {
		t.Fatalf("MoveToRandom on full grid = %v, want ErrNoEmptyCell", err)
	}
}

func TestMovementRoundFullGridSettles(t *testing.T) {
	g := grid.New(5, 5)
	if err := Populate(g, newRNG(2), 2, 25, 16); err != nil {
		t.Fatal(err)
	}
	// Nobody can be satisfied with 9 like neighbours, but nobody can move.
	res := MovementRound(g, newRNG(2), Rules{MinNeighbors: 9, Wraparound: true, SampleAttempts: 16})
	if !res.Settled() {
		t.Errorf("full grid round reported %d moves", res.Moves)
	}
}

func TestRunToConvergence(t *testing.T) {
	g := grid.New(10, 10)
	rng := newRNG(42)
	if err := Populate(g, rng, 2, 50, 64); err != nil {
		t.Fatal(err)
	}
	rules := Rules{MinNeighbors: 3, SampleAttempts: 64}

	conv, err := RunToConvergence(g, rng, rules, 0)
	if err != nil {
		t.Fatalf("RunToConvergence failed: %v", err)
	}
	if conv.Rounds < 1 {
		t.Errorf("expected at least one round, got %d", conv.Rounds)
	}
	if got := g.Occupied(); got != 50 {
		t.Errorf("population not conserved: got %d, want 50", got)
	}
	for x := 0; x < g.W; x++ {
		for y := 0; y < g.H; y++ {
			if !Satisfied(g, x, y, rules) {
				t.Fatalf("cell (%d,%d) unsatisfied after convergence", x, y)
			}
		}
	}
}

func TestRunToConvergenceRoundLimit(t *testing.T) {
	g := grid.New(6, 6)
	rng := newRNG(11)
	if err := Populate(g, rng, 2, 20, 64); err != nil {
		t.Fatal(err)
	}
	// Eight like neighbours plus empty cells on a torus never settles.
	rules := Rules{MinNeighbors: 9, Wraparound: true, SampleAttempts: 64}

	conv, err := RunToConvergence(g, rng, rules, 3)
	if !errors.Is(err, ErrRoundLimit) {
		t.Fatalf("RunToConvergence = %v, want ErrRoundLimit", err)
	}
	if conv.Rounds != 3 {
		t.Errorf("rounds mismatch: got %d, want 3", conv.Rounds)
	}
	if g.Occupied() != 20 {
		t.Errorf("population not conserved: got %d, want 20", g.Occupied())
	}
}

func TestMovementRoundCountsCompletedMoves(t *testing.T) {
	// One agent and one empty cell on a 2x1 torus. The agent can never be
	// satisfied, so it moves right when first visited and back when the scan
	// reaches it again.
	g := fill([][]uint8{{1, 0}})
	res := MovementRound(g, newRNG(3), Rules{MinNeighbors: 9, Wraparound: true, SampleAttempts: 4})

	if res.Moves != 2 {
		t.Errorf("moves mismatch: got %d, want 2", res.Moves)
	}
	if g.Get(0, 0) != 1 || g.Get(1, 0) != grid.Empty {
		t.Errorf("agent should end where it started, got %v", g.Cells())
	}
	if g.Occupied() != 1 {
		t.Errorf("population not conserved: got %d, want 1", g.Occupied())
	}
}
