package game

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/schelling/renderer"
)

// Draw renders the grid, the control panel and a status line.
func (g *Game) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.RayWhite)

	var src renderer.CellSource
	if g.snapshot != nil {
		src = g.snapshot
	}
	g.gridRenderer.Draw(src, 0, 0)

	if g.panel.Draw(g.state) {
		g.runRequested = true
	}

	_, gridH := g.gridRenderer.PixelSize()
	status := fmt.Sprintf("run %d  seed %d  [R] rerun  [E] evictions", g.runs, g.seed+int64(max(g.runs-1, 0)))
	rl.DrawText(status, 10, gridH+8, 14, rl.DarkGray)

	rl.EndDrawing()
}
