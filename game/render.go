package game

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/tilewalk/grid"
	"github.com/pthm-cable/tilewalk/renderer"
	"github.com/pthm-cable/tilewalk/ui"
)

const controlsLegend = "Arrows: move player | Click: select/send walkers | Tab: cycle | Space: pause | </>: speed | F: follow | F1: overlays"

var pathColors = []rl.Color{
	{R: 90, G: 180, B: 230, A: 200},
	{R: 120, G: 220, B: 140, A: 200},
	{R: 230, G: 140, B: 200, A: 200},
	{R: 240, G: 180, B: 90, A: 200},
}

// Draw renders the game state.
func (g *Game) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(renderer.Color(g.grid.Style().Background))

	rl.BeginMode2D(renderer.Camera2D(g.camera))
	g.tileRenderer.Draw(g.grid, g.camera)

	if g.overlays.IsEnabled(ui.OverlayColliders) {
		for _, b := range g.physics.StaticBoxes() {
			rl.DrawRectangleLinesEx(rl.NewRectangle(b.X, b.Y, b.W, b.H), 1, rl.Red)
		}
	}
	if g.overlays.IsEnabled(ui.OverlayPaths) {
		for i, w := range g.walkers {
			if e, ok := w.Target(); ok {
				g.entityRenderer.DrawPath(g.grid, e, w.Path(), pathColors[i%len(pathColors)])
			}
		}
	}

	g.entityRenderer.DrawChildren(g.grid, g.camera)

	if g.overlays.IsEnabled(ui.OverlayIndices) || g.overlays.IsEnabled(ui.OverlayOccupancy) {
		g.drawTileLabels()
	}
	rl.EndMode2D()

	g.drawUI()

	rl.EndDrawing()
}

// drawTileLabels writes the row and column, or the child count, on every
// visible tile.
func (g *Game) drawTileLabels() {
	occupancy := g.overlays.IsEnabled(ui.OverlayOccupancy)
	g.grid.ForEachTile(func(t grid.Tile) {
		if !g.camera.IsRectVisible(t.X, t.Y, t.W, t.H) {
			return
		}
		text := fmt.Sprintf("%d,%d", t.Index.Row, t.Index.Col)
		if occupancy {
			n := len(g.grid.Occupants(t.Index))
			if n == 0 {
				return
			}
			text = fmt.Sprintf("%d", n)
		}
		rl.DrawText(text, int32(t.X)+2, int32(t.Y)+2, 10, rl.LightGray)
	})
}

// drawUI renders the screen-space panels.
func (g *Game) drawUI() {
	data := ui.HUDData{
		Title:    "tilewalk",
		Rows:     g.grid.Rows(),
		Cols:     g.grid.Cols(),
		Walkers:  len(g.walkers),
		Moving:   g.Moving(),
		Arrivals: g.arrivals,
		Tick:     g.tick,
		Speed:    g.stepsPerUpdate,
		FPS:      rl.GetFPS(),
		Paused:   g.controls.Paused,
		Hover:    g.hoverText(),
	}
	if g.player != nil {
		data.Player = fmt.Sprintf("Player: %s facing %s", g.player.CurrentTile().Index, g.player.Direction())
	}
	g.hud.Draw(data)
	g.hud.DrawControls(int32(g.screenHeight), controlsLegend)

	g.controlsPanel.Draw(g.overlays)
	if g.controlPanel.Draw(&g.controls) {
		g.applyControls()
	}
	if g.overlays.IsEnabled(ui.OverlayPerfPanel) {
		g.perfPanel.Draw(g.profiler.Stats())
	}
}

// hoverText describes the tile under the mouse cursor.
func (g *Game) hoverText() string {
	mouse := rl.GetMousePosition()
	wx, wy := g.camera.ScreenToWorld(mouse.X, mouse.Y)
	t, ok := g.grid.TileAt(wx, wy)
	if !ok {
		return ""
	}
	state := "open"
	if t.Collidable {
		state = "solid"
	}
	return fmt.Sprintf("Tile %s '%c' %s, %d children", t.Index, t.ID, state, len(g.grid.Occupants(t.Index)))
}
