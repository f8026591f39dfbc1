// Package renderer draws simulation state with raylib.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// CellSource is anything that can report a grid of class labels.
type CellSource interface {
	Width() int
	Height() int
	Get(x, y int) uint8
}

// Default cell colors. Class 1 is blue and class 2 yellow; further classes
// cycle through the rest of the palette.
var (
	EmptyColor = rl.Color{R: 211, G: 211, B: 211, A: 255}
	palette    = []rl.Color{
		{R: 0, G: 0, B: 255, A: 255},
		{R: 255, G: 255, B: 0, A: 255},
		{R: 220, G: 60, B: 60, A: 255},
		{R: 60, G: 170, B: 90, A: 255},
		{R: 150, G: 80, B: 200, A: 255},
		{R: 240, G: 140, B: 40, A: 255},
	}
)

// ClassColor returns the display color of a cell value.
func ClassColor(class uint8) rl.Color {
	if class == 0 {
		return EmptyColor
	}
	return palette[int(class-1)%len(palette)]
}

// GridRenderer draws a class grid into an offscreen texture, redrawing the
// texture only after Invalidate.
type GridRenderer struct {
	cellSize    int32
	width       int32
	height      int32
	target      rl.RenderTexture2D
	dirty       bool
	initialized bool
}

// NewGridRenderer creates a renderer for a w x h grid.
func NewGridRenderer(w, h, cellSize int) *GridRenderer {
	return &GridRenderer{
		cellSize: int32(cellSize),
		width:    int32(w),
		height:   int32(h),
		dirty:    true,
	}
}

// Init allocates the render texture (must be called after raylib window is created).
func (r *GridRenderer) Init() {
	if r.initialized {
		return
	}
	r.target = rl.LoadRenderTexture(r.width*r.cellSize, r.height*r.cellSize)
	r.initialized = true
	r.dirty = true
}

// PixelSize returns the drawn size of the grid in pixels.
func (r *GridRenderer) PixelSize() (int32, int32) {
	return r.width * r.cellSize, r.height * r.cellSize
}

// Invalidate marks the cached texture stale.
func (r *GridRenderer) Invalidate() {
	r.dirty = true
}

// Draw renders src with its top-left corner at (x, y).
func (r *GridRenderer) Draw(src CellSource, x, y int32) {
	if !r.initialized {
		r.Init()
	}
	if r.dirty {
		r.redraw(src)
		r.dirty = false
	}

	tex := r.target.Texture
	// Render textures are stored upside down.
	srcRect := rl.Rectangle{X: 0, Y: 0, Width: float32(tex.Width), Height: -float32(tex.Height)}
	rl.DrawTextureRec(tex, srcRect, rl.Vector2{X: float32(x), Y: float32(y)}, rl.White)
}

// redraw repaints the texture; a nil source leaves every cell empty.
func (r *GridRenderer) redraw(src CellSource) {
	rl.BeginTextureMode(r.target)
	defer rl.EndTextureMode()
	rl.ClearBackground(EmptyColor)
	if src == nil {
		return
	}

	w, h := int32(src.Width()), int32(src.Height())
	if w > r.width {
		w = r.width
	}
	if h > r.height {
		h = r.height
	}

	for cx := int32(0); cx < w; cx++ {
		for cy := int32(0); cy < h; cy++ {
			class := src.Get(int(cx), int(cy))
			if class == 0 {
				continue
			}
			rl.DrawRectangle(cx*r.cellSize, cy*r.cellSize, r.cellSize, r.cellSize, ClassColor(class))
		}
	}
}

// Unload frees resources.
func (r *GridRenderer) Unload() {
	if r.initialized {
		rl.UnloadRenderTexture(r.target)
		r.initialized = false
	}
}
