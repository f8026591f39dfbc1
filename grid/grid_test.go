package grid

import "testing"

func TestWrap(t *testing.T) {
	g := New(5, 4)

	tests := []struct {
		x, y, wantX, wantY int
	}{
		{0, 0, 0, 0},
		{-1, 0, 4, 0},
		{5, 0, 0, 0},
		{2, -1, 2, 3},
		{2, 4, 2, 0},
		{-1, -1, 4, 3},
	}
	for _, tt := range tests {
		x, y := g.Wrap(tt.x, tt.y)
		if x != tt.wantX || y != tt.wantY {
			t.Errorf("Wrap(%d,%d) = (%d,%d), want (%d,%d)", tt.x, tt.y, x, y, tt.wantX, tt.wantY)
		}
	}
}

func TestIsEdge(t *testing.T) {
	g := New(4, 3)
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			want := !(x >= 1 && x <= 2 && y == 1)
			if got := g.IsEdge(x, y); got != want {
				t.Errorf("IsEdge(%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestMoveAndCounts(t *testing.T) {
	g := New(3, 3)
	g.Set(0, 0, 1)
	g.Set(1, 1, 2)
	g.Set(2, 2, 2)

	if got := g.Occupied(); got != 3 {
		t.Fatalf("Occupied mismatch: got %d, want 3", got)
	}

	g.Move(0, 0, 2, 0)
	if g.Get(0, 0) != Empty {
		t.Error("source cell not cleared")
	}
	if g.Get(2, 0) != 1 {
		t.Errorf("destination mismatch: got %d, want 1", g.Get(2, 0))
	}
	if got := g.Occupied(); got != 3 {
		t.Errorf("move changed population: got %d, want 3", got)
	}

	counts := g.ClassCounts(2)
	if counts[0] != 6 || counts[1] != 1 || counts[2] != 2 {
		t.Errorf("ClassCounts mismatch: got %v, want [6 1 2]", counts)
	}
	if g.CountClass(2) != 2 {
		t.Errorf("CountClass(2) mismatch: got %d, want 2", g.CountClass(2))
	}

	g.Clear()
	if g.Occupied() != 0 || g.EmptyCells() != 9 {
		t.Error("Clear left occupied cells")
	}
}

func TestIndexCoords(t *testing.T) {
	g := New(7, 5)
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			cx, cy := g.Coords(g.Index(x, y))
			if cx != x || cy != y {
				t.Fatalf("Coords(Index(%d,%d)) = (%d,%d)", x, y, cx, cy)
			}
		}
	}
}

func TestClone(t *testing.T) {
	g := New(3, 3)
	g.Set(1, 1, 2)

	c := g.Clone()
	c.Set(0, 0, 1)

	if c.Get(1, 1) != 2 {
		t.Errorf("clone lost cell (1,1): got %d", c.Get(1, 1))
	}
	if g.Get(0, 0) != Empty {
		t.Error("writing to the clone changed the original")
	}
}

func TestNewClampsDimensions(t *testing.T) {
	tests := []struct {
		w, h, wantW, wantH int
	}{
		{0, 0, 1, 1},
		{-3, 4, 1, 4},
		{5, -1, 5, 1},
		{3, 2, 3, 2},
	}
	for _, tt := range tests {
		g := New(tt.w, tt.h)
		if g.W != tt.wantW || g.H != tt.wantH {
			t.Errorf("New(%d,%d) = %dx%d, want %dx%d", tt.w, tt.h, g.W, g.H, tt.wantW, tt.wantH)
		}
		if g.Capacity() != tt.wantW*tt.wantH {
			t.Errorf("New(%d,%d) capacity = %d, want %d", tt.w, tt.h, g.Capacity(), tt.wantW*tt.wantH)
		}
	}
}
