package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/tilewalk/grid"
	"github.com/pthm-cable/tilewalk/ui"
)

// Update handles input, then runs StepsPerUpdate steps unless paused.
func (g *Game) Update() {
	g.handleInput()
	if !g.controls.Paused {
		for i := 0; i < g.stepsPerUpdate; i++ {
			g.Step(g.dt)
		}
	}
	g.profiler.RecordFrame()
}

// handleInput processes keyboard and mouse input.
func (g *Game) handleInput() {
	g.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		g.controls.Paused = !g.controls.Paused
	}

	// Steps-per-update control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) && g.stepsPerUpdate > 1 {
		g.stepsPerUpdate--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && g.stepsPerUpdate < 10 {
		g.stepsPerUpdate++
	}

	if rl.IsKeyPressed(rl.KeyF1) {
		g.controlsPanel.Toggle()
	}
	if rl.IsKeyPressed(rl.KeyTab) {
		g.cycleSelection()
	}

	for key := rl.GetKeyPressed(); key != 0; key = rl.GetKeyPressed() {
		if id, on, ok := g.overlays.HandleKeyPress(key); ok {
			g.applyOverlay(id, on)
		}
	}

	g.handlePlayerInput()
	g.handleCameraInput()
	g.handleMouse()
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == g.screenWidth && h == g.screenHeight {
		return
	}
	g.screenWidth = w
	g.screenHeight = h

	g.camera.Resize(w, h)
	g.controlPanel.SetPosition(w-230, 10)
	g.perfPanel.SetPosition(int32(w)-380, int32(h)-180)
}

// handlePlayerInput turns held arrow keys into a player step. Two keys
// combine into a diagonal.
func (g *Game) handlePlayerInput() {
	if g.player == nil {
		return
	}
	var dRow, dCol int
	if rl.IsKeyDown(rl.KeyUp) {
		dRow--
	}
	if rl.IsKeyDown(rl.KeyDown) {
		dRow++
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		dCol--
	}
	if rl.IsKeyDown(rl.KeyRight) {
		dCol++
	}
	d := grid.DirectionBetween(grid.Index{}, grid.Index{Row: dRow, Col: dCol})
	if d == grid.None {
		return
	}
	// A diagonal the restriction forbids falls back to its vertical part
	if !g.player.RequestMove(d) && d.IsDiagonal() {
		g.player.RequestMove(grid.DirectionBetween(grid.Index{}, grid.Index{Row: dRow}))
	}
}

// handleCameraInput processes camera pan/zoom controls.
func (g *Game) handleCameraInput() {
	// Right drag pans
	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		delta := rl.GetMouseDelta()
		g.camera.Pan(-delta.X, -delta.Y)
	}

	wheelMove := rl.GetMouseWheelMove()
	if wheelMove != 0 {
		g.camera.ZoomBy(1 + wheelMove*0.1)
	}

	// Keyboard zoom with +/- (= and - keys)
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		g.camera.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		g.camera.ZoomBy(0.8)
	}

	if rl.IsKeyPressed(rl.KeyHome) {
		g.camera.Reset()
	}
	if rl.IsKeyPressed(rl.KeyF) && g.player != nil {
		if e, ok := g.player.Target(); ok {
			pos := g.scene.Position(e)
			g.camera.CenterOn(pos.X, pos.Y)
		}
	}
}

// handleMouse selects a walker on click, or sends the selected walker
// (all walkers when none is selected) to the clicked tile.
func (g *Game) handleMouse() {
	if !rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		return
	}
	mouse := rl.GetMousePosition()
	if g.controlPanel.Contains(mouse.X, mouse.Y) {
		return
	}
	wx, wy := g.camera.ScreenToWorld(mouse.X, mouse.Y)
	t, ok := g.grid.TileAt(wx, wy)
	if !ok {
		return
	}

	for i, w := range g.walkers {
		if w.CurrentTile().Index == t.Index {
			g.selectWalker(i)
			return
		}
	}

	if g.selected >= 0 {
		g.SetWalkerDestination(g.selected, t.Index)
		return
	}
	for i := range g.walkers {
		g.SetWalkerDestination(i, t.Index)
	}
}

func (g *Game) selectWalker(i int) {
	g.selected = i
	if i < 0 {
		g.entityRenderer.ClearSelection()
		return
	}
	e, _ := g.walkers[i].Target()
	g.entityRenderer.Select(e)
}

// cycleSelection steps through the walkers, then back to none.
func (g *Game) cycleSelection() {
	next := g.selected + 1
	if next >= len(g.walkers) {
		next = -1
	}
	g.selectWalker(next)
}

// applyOverlay reacts to overlays that change grid state.
func (g *Game) applyOverlay(id ui.OverlayID, on bool) {
	if id == ui.OverlayOutlines {
		style := g.grid.Style()
		style.ShowOutline = on
		g.grid.SetStyle(style)
	}
}
