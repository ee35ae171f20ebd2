package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/tilewalk/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title    string
	Rows     int
	Cols     int
	Walkers  int
	Moving   int
	Arrivals int
	Tick     int32
	Speed    int
	FPS      int32
	Paused   bool
	Hover    string // Description of the tile under the cursor
	Player   string // Player tile and direction
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Grid: %dx%d | Walkers: %d | Moving: %d | Arrivals: %d",
			data.Rows, data.Cols, data.Walkers, data.Moving, data.Arrivals),
		10, 35, 16, rl.LightGray,
	)
	rl.DrawText(
		fmt.Sprintf("Tick: %d | Speed: %dx | FPS: %d", data.Tick, data.Speed, data.FPS),
		10, 55, 16, rl.LightGray,
	)

	statusText := "Running"
	if data.Paused {
		statusText = "PAUSED"
	}
	rl.DrawText(statusText, 10, 75, 16, rl.Yellow)

	y := int32(95)
	if data.Player != "" {
		rl.DrawText(data.Player, 10, y, 14, rl.LightGray)
		y += 18
	}
	if data.Hover != "" {
		rl.DrawText(data.Hover, 10, y, 14, rl.Gray)
	}
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders step phase timings.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{renderer: NewRenderer(), x: x, y: y}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.ProfileStats) {
	x := p.x
	y := p.y

	rl.DrawText("Step Performance", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Tick: %s (p95 %s, max %s)", stats.TickMean.Round(time.Microsecond),
		stats.TickP95.Round(time.Microsecond), stats.TickMax.Round(time.Microsecond)), x, y, 14, rl.Yellow)
	y += 18
	rl.DrawText(fmt.Sprintf("Searches: %.2f/tick, %.0f nodes avg", stats.SearchesPerTick, stats.ExploredMean),
		x, y, 14, rl.LightGray)
	y += 18

	for _, ph := range telemetry.Phases() {
		y = p.renderer.DrawBar(x, y, ph.String(), float32(stats.Share(ph)), 260)
	}
	p.renderer.DrawBar(x, y, "search", float32(stats.SearchShare), 260)
}
