package grid

import "image/color"

// Style holds the colours a grid paints its tiles with.
type Style struct {
	Fill           color.RGBA // Accessible tiles
	CollidableFill color.RGBA // Solid tiles
	Background     color.RGBA // Shown through tile spacing
	Outline        color.RGBA
	ShowOutline    bool
}

// DefaultStyle returns the stock grid palette.
func DefaultStyle() Style {
	return Style{
		Fill:           color.RGBA{R: 36, G: 40, B: 52, A: 255},
		CollidableFill: color.RGBA{R: 150, G: 72, B: 60, A: 255},
		Background:     color.RGBA{R: 18, G: 20, B: 26, A: 255},
		Outline:        color.RGBA{R: 60, G: 66, B: 82, A: 255},
		ShowOutline:    false,
	}
}

// fillFor picks the tile colour for a collidable state.
func (s Style) fillFor(collidable bool) color.RGBA {
	if collidable {
		return s.CollidableFill
	}
	return s.Fill
}
