package systems

import (
	"errors"
	"math"
	"testing"

	"github.com/pthm-cable/schelling/grid"
)

func TestMeasureHomophilyInteriorOnly(t *testing.T) {
	g := fill([][]uint8{
		{1, 1, 1},
		{1, 1, 1},
		{1, 1, 1},
	})

	h := MeasureHomophily(g, 2, false)
	if h.Counted != 1 {
		t.Fatalf("counted mismatch: got %d, want 1", h.Counted)
	}
	c1 := h.Classes[0]
	if c1.Like != 8 || c1.Unlike != 0 || c1.Ratio != 1 {
		t.Errorf("class 1 = like %d unlike %d ratio %v, want 8/0/1", c1.Like, c1.Unlike, c1.Ratio)
	}
	if c1.Share != 1 {
		t.Errorf("class 1 share mismatch: got %v, want 1", c1.Share)
	}

	// Class 2 has no counted agents, so its ratio is undefined.
	if !math.IsNaN(h.Classes[1].Ratio) {
		t.Errorf("class 2 ratio should be NaN, got %v", h.Classes[1].Ratio)
	}
	if !math.IsNaN(h.Aggregate()) {
		t.Errorf("aggregate should propagate NaN, got %v", h.Aggregate())
	}
}

func TestMeasureHomophilyCheckerboardTorus(t *testing.T) {
	g := grid.New(4, 4)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			g.Set(x, y, uint8((x+y)%2+1))
		}
	}

	h := MeasureHomophily(g, 2, true)
	if h.Counted != 16 {
		t.Fatalf("counted mismatch: got %d, want 16", h.Counted)
	}
	// Diagonals match, orthogonal neighbours do not: 4 like, 4 unlike each.
	for _, c := range h.Classes {
		if c.Agents != 8 || c.Like != 32 || c.Unlike != 32 {
			t.Errorf("class %d = agents %d like %d unlike %d, want 8/32/32", c.Class, c.Agents, c.Like, c.Unlike)
		}
		if c.Ratio != 0.5 || c.Share != 0.5 {
			t.Errorf("class %d ratio %v share %v, want 0.5/0.5", c.Class, c.Ratio, c.Share)
		}
	}
	if h.Aggregate() != 0.5 {
		t.Errorf("aggregate mismatch: got %v, want 0.5", h.Aggregate())
	}
}

func TestMeasureHomophilyAsymmetry(t *testing.T) {
	// Centre 1 with two like neighbours and three empty cells.
	g := fill([][]uint8{
		{1, 0, 2},
		{0, 1, 2},
		{1, 2, 0},
	})

	h := MeasureHomophily(g, 2, false)
	c1 := h.Classes[0]
	// like = 3 ones - self; unlike = 6 cells that are not 1.
	if c1.Like != 2 || c1.Unlike != 6 {
		t.Fatalf("class 1 like %d unlike %d, want 2/6", c1.Like, c1.Unlike)
	}
	if want := 2.0 / 8.0; c1.Ratio != want {
		t.Errorf("ratio mismatch: got %v, want %v", c1.Ratio, want)
	}
}

func TestHomophilyBounds(t *testing.T) {
	for seed := int64(1); seed <= 5; seed++ {
		for _, wrap := range []bool{false, true} {
			g := grid.New(15, 15)
			rng := newRNG(seed)
			if err := Populate(g, rng, 3, 150, 64); err != nil {
				t.Fatal(err)
			}
			rules := Rules{MinNeighbors: 2, Wraparound: wrap, SampleAttempts: 64}
			if _, err := RunToConvergence(g, rng, rules, 5000); err != nil && !errors.Is(err, ErrRoundLimit) {
				t.Fatalf("seed %d: %v", seed, err)
			}

			h := MeasureHomophily(g, 3, wrap)
			for _, c := range h.Classes {
				if c.Like+c.Unlike == 0 {
					continue
				}
				if c.Ratio < 0 || c.Ratio > 1 {
					t.Errorf("seed %d wrap %v class %d ratio %v outside [0,1]", seed, wrap, c.Class, c.Ratio)
				}
			}
		}
	}
}

func TestRatio(t *testing.T) {
	if !math.IsNaN(Ratio(0, 0)) {
		t.Error("Ratio(0,0) should be NaN")
	}
	if Ratio(3, 1) != 0.75 {
		t.Errorf("Ratio(3,1) = %v, want 0.75", Ratio(3, 1))
	}
}
