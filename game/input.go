package game

import rl "github.com/gen2brain/raylib-go/raylib"

// handleInput processes keyboard input.
func (g *Game) handleInput() {
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	// R reruns with the current panel settings
	if rl.IsKeyPressed(rl.KeyR) {
		g.runRequested = true
	}

	if rl.IsKeyPressed(rl.KeyE) && g.current == nil {
		g.panel.Evict = !g.panel.Evict
	}
}
