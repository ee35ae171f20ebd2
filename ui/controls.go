package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/tilewalk/mover"
)

// ControlsPanel lists the overlays and their key bindings.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetVisible shows or hides the panel.
func (c *ControlsPanel) SetVisible(visible bool) {
	c.visible = visible
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Draw renders the controls panel and returns the Y below it.
func (c *ControlsPanel) Draw(overlays *OverlayRegistry) int32 {
	if !c.visible {
		return c.y
	}

	r := c.renderer
	padding := r.Theme.Padding
	lineHeight := r.Theme.LineHeight

	categories := overlays.Categories()
	totalItems := 0
	for _, cat := range categories {
		totalItems += len(overlays.ByCategory(cat)) + 1 // +1 for category header
	}
	panelHeight := int32(totalItems)*lineHeight + padding*3 + lineHeight

	r.DrawPanel(c.x, c.y, c.width, panelHeight)

	y := c.y + padding
	rl.DrawText("Overlays", c.x+padding, y, 16, rl.White)
	y += lineHeight + 4

	for _, category := range categories {
		rl.DrawText(categoryLabel(category), c.x+padding, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
		y += lineHeight

		for _, desc := range overlays.ByCategory(category) {
			c.drawToggle(c.x+padding, y, desc, overlays.IsEnabled(desc.ID), c.width-padding*2)
			y += lineHeight
		}
		y += 4
	}

	return y
}

// drawToggle draws a single overlay toggle line.
func (c *ControlsPanel) drawToggle(x, y int32, desc OverlayDescriptor, enabled bool, width int32) {
	r := c.renderer

	statusColor := rl.Color{R: 80, G: 80, B: 80, A: 255}
	nameColor := r.Theme.LabelColor
	if enabled {
		statusColor = rl.Color{R: 100, G: 200, B: 100, A: 255}
		nameColor = rl.White
	}
	rl.DrawRectangle(x, y+2, 8, 8, statusColor)
	rl.DrawText(desc.Name, x+14, y, r.Theme.FontSize, nameColor)

	if desc.KeyLabel != "" {
		keyText := fmt.Sprintf("[%s]", desc.KeyLabel)
		keyWidth := rl.MeasureText(keyText, r.Theme.FontSize)
		rl.DrawText(keyText, x+width-keyWidth, y, r.Theme.FontSize, rl.Color{R: 150, G: 150, B: 150, A: 255})
	}
}

// categoryLabel returns a display label for a category.
func categoryLabel(cat string) string {
	switch cat {
	case "grid":
		return "Grid"
	case "debug":
		return "Debug"
	default:
		return cat
	}
}

// Controls is the state edited by the ControlPanel.
type Controls struct {
	Paused          bool
	Adaptive        bool // Walkers replan around blocked steps
	Frozen          bool // Player movement frozen
	Restriction     mover.Restriction
	SpeedMultiplier float32
}

// restrictionCycle is the order the restriction button steps through.
var restrictionCycle = []mover.Restriction{
	mover.RestrictNonDiagonal,
	mover.RestrictHorizontal,
	mover.RestrictVertical,
	mover.RestrictNone,
	mover.RestrictDiagonal,
	mover.RestrictAll,
}

// NextRestriction returns the restriction after r in the button cycle.
func NextRestriction(r mover.Restriction) mover.Restriction {
	for i, c := range restrictionCycle {
		if c == r {
			return restrictionCycle[(i+1)%len(restrictionCycle)]
		}
	}
	return restrictionCycle[0]
}

// ControlPanel draws raygui buttons for the simulation controls.
type ControlPanel struct {
	renderer *Renderer
	x, y     float32
	width    float32
}

// NewControlPanel creates a control panel anchored at (x, y).
func NewControlPanel(x, y, width float32) *ControlPanel {
	return &ControlPanel{renderer: NewRenderer(), x: x, y: y, width: width}
}

// SetPosition moves the panel.
func (p *ControlPanel) SetPosition(x, y float32) {
	p.x, p.y = x, y
}

// Contains reports whether a screen point is over the panel, so clicks on
// it are not treated as world clicks.
func (p *ControlPanel) Contains(x, y float32) bool {
	return x >= p.x && x < p.x+p.width && y >= p.y && y < p.y+p.height()
}

func (p *ControlPanel) height() float32 {
	return 5*34 + 30 + float32(p.renderer.Theme.Padding)*2
}

// Draw renders the panel and applies clicks to c. Returns true if any
// control changed.
func (p *ControlPanel) Draw(c *Controls) bool {
	pad := float32(p.renderer.Theme.Padding)
	p.renderer.DrawPanel(int32(p.x), int32(p.y), int32(p.width), int32(p.height()))

	changed := false
	bw := p.width - 2*pad
	y := p.y + pad

	button := func(label string) bool {
		pressed := gui.Button(rl.Rectangle{X: p.x + pad, Y: y, Width: bw, Height: 28}, label)
		y += 34
		return pressed
	}

	if button(toggleText(c.Paused, "Resume", "Pause")) {
		c.Paused = !c.Paused
		changed = true
	}
	if button(toggleText(c.Adaptive, "Adaptive: on", "Adaptive: off")) {
		c.Adaptive = !c.Adaptive
		changed = true
	}
	if button(toggleText(c.Frozen, "Player: frozen", "Player: free")) {
		c.Frozen = !c.Frozen
		changed = true
	}
	if button("Moves: " + c.Restriction.String()) {
		c.Restriction = NextRestriction(c.Restriction)
		changed = true
	}

	rl.DrawText(fmt.Sprintf("Speed x%.2f", c.SpeedMultiplier), int32(p.x+pad), int32(y), p.renderer.Theme.FontSize, p.renderer.Theme.LabelColor)
	y += 18
	speed := gui.SliderBar(
		rl.Rectangle{X: p.x + pad + 20, Y: y, Width: bw - 40, Height: 20},
		"0", "3",
		c.SpeedMultiplier, 0, 3,
	)
	if speed != c.SpeedMultiplier {
		c.SpeedMultiplier = speed
		changed = true
	}

	return changed
}

func toggleText(on bool, onText, offText string) string {
	if on {
		return onText
	}
	return offText
}
