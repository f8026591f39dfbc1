// Package ui draws the experiment control panel next to the grid.
package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// Theme holds UI styling constants.
type Theme struct {
	PanelBg        rl.Color
	PanelBorder    rl.Color
	SectionHeader  rl.Color
	LabelColor     rl.Color
	ValueColor     rl.Color
	MutedColor     rl.Color
	BarBg          rl.Color
	BarFill        rl.Color
	ErrorColor     rl.Color
	Padding        int32
	LineHeight     int32
	LabelWidth     int32
	BarHeight      int32
	SliderHeight   int32
	ButtonHeight   int32
	FontSize       int32
	HeaderFontSize int32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:        rl.Color{R: 245, G: 245, B: 245, A: 255},
		PanelBorder:    rl.Color{R: 180, G: 180, B: 180, A: 255},
		SectionHeader:  rl.DarkGray,
		LabelColor:     rl.Gray,
		ValueColor:     rl.DarkGray,
		MutedColor:     rl.LightGray,
		BarBg:          rl.Color{R: 220, G: 220, B: 220, A: 255},
		BarFill:        rl.Color{R: 100, G: 150, B: 200, A: 255},
		ErrorColor:     rl.Color{R: 200, G: 60, B: 60, A: 255},
		Padding:        10,
		LineHeight:     18,
		LabelWidth:     90,
		BarHeight:      12,
		SliderHeight:   20,
		ButtonHeight:   30,
		FontSize:       14,
		HeaderFontSize: 18,
	}
}
