package ui

import (
	"fmt"
	"math"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Renderer handles all UI drawing with consistent styling.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawPanel draws a panel background with border.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, r.Theme.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, r.Theme.PanelBorder)
}

// DrawSectionHeader draws a section header and returns the new Y position.
func (r *Renderer) DrawSectionHeader(x, y int32, title string) int32 {
	rl.DrawText(title, x, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
	return y + r.Theme.LineHeight + 6
}

// DrawText draws a line of text in the given color and returns the new Y.
func (r *Renderer) DrawText(x, y int32, text string, color rl.Color) int32 {
	rl.DrawText(text, x, y, r.Theme.FontSize, color)
	return y + r.Theme.LineHeight
}

// DrawLabelValue draws a label and value on the same line.
func (r *Renderer) DrawLabelValue(x, y int32, label, value string) int32 {
	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawText(value, x+r.Theme.LabelWidth, y, r.Theme.FontSize, r.Theme.ValueColor)
	return y + r.Theme.LineHeight
}

// DrawBar draws a progress bar for [0, 1] values. NaN draws an empty bar
// labelled n/a.
func (r *Renderer) DrawBar(x, y int32, label string, value float64, width int32) int32 {
	text := "n/a"
	fill := float32(0)
	if !math.IsNaN(value) {
		text = fmt.Sprintf("%.3f", value)
		fill = float32(math.Max(0, math.Min(1, value)))
	}

	barX := x + r.Theme.LabelWidth
	barWidth := width - r.Theme.LabelWidth - 50

	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawRectangle(barX, y+2, barWidth, r.Theme.BarHeight, r.Theme.BarBg)
	rl.DrawRectangle(barX, y+2, int32(float32(barWidth)*fill), r.Theme.BarHeight, r.Theme.BarFill)
	rl.DrawText(text, barX+barWidth+5, y, r.Theme.FontSize, r.Theme.ValueColor)

	return y + r.Theme.LineHeight + 2
}

// DrawColorSwatch draws a small color square followed by a label.
func (r *Renderer) DrawColorSwatch(x, y int32, color rl.Color, label string) int32 {
	size := r.Theme.FontSize
	rl.DrawRectangle(x, y, size, size, color)
	rl.DrawRectangleLines(x, y, size, size, r.Theme.PanelBorder)
	rl.DrawText(label, x+size+6, y, r.Theme.FontSize, r.Theme.ValueColor)
	return y + r.Theme.LineHeight
}

// DrawSlider draws a titled raygui slider with its current value printed on
// the right. It returns the new value and the new Y position.
func (r *Renderer) DrawSlider(x, y, width int32, title, format string, value, min, max float32) (float32, int32) {
	rl.DrawText(title, x, y, r.Theme.FontSize, r.Theme.LabelColor)
	y += r.Theme.LineHeight

	v := gui.SliderBar(
		rl.Rectangle{X: float32(x), Y: float32(y), Width: float32(width - 60), Height: float32(r.Theme.SliderHeight)},
		"", "",
		value, min, max,
	)
	rl.DrawText(fmt.Sprintf(format, v), x+width-52, y+2, r.Theme.FontSize, r.Theme.ValueColor)
	return v, y + r.Theme.SliderHeight + 10
}

// DrawButton draws a raygui button and reports whether it was clicked.
func (r *Renderer) DrawButton(x, y, width int32, text string) (bool, int32) {
	clicked := gui.Button(rl.Rectangle{X: float32(x), Y: float32(y), Width: float32(width), Height: float32(r.Theme.ButtonHeight)}, text)
	return clicked, y + r.Theme.ButtonHeight + 8
}
