package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/tilewalk/camera"
	"github.com/pthm-cable/tilewalk/grid"
	"github.com/pthm-cable/tilewalk/scene"
)

// Palette maps collider groups to entity colours.
type Palette map[string]rl.Color

// DefaultPalette colours the groups the game spawns.
func DefaultPalette() Palette {
	return Palette{
		"player": rl.NewColor(240, 200, 80, 255),
		"walker": rl.NewColor(90, 180, 230, 255),
		"crate":  rl.NewColor(150, 110, 70, 255),
	}
}

var fallbackColor = rl.NewColor(200, 200, 200, 255)

// EntityRenderer draws grid children and planned paths.
type EntityRenderer struct {
	palette     Palette
	selected    ecs.Entity
	hasSelected bool
}

// NewEntityRenderer creates an entity renderer. A nil palette uses
// DefaultPalette.
func NewEntityRenderer(p Palette) *EntityRenderer {
	if p == nil {
		p = DefaultPalette()
	}
	return &EntityRenderer{palette: p}
}

// Select highlights e.
func (r *EntityRenderer) Select(e ecs.Entity) {
	r.selected = e
	r.hasSelected = true
}

// ClearSelection removes the highlight.
func (r *EntityRenderer) ClearSelection() {
	r.hasSelected = false
}

// DrawChildren draws every active child of g at its current position.
// Must be called between rl.BeginMode2D and rl.EndMode2D.
func (r *EntityRenderer) DrawChildren(g *grid.Grid, cam *camera.Camera) {
	sc := g.Scene()
	tw, th := g.TileSize()
	radius := min(tw, th) * 0.35

	g.ForEachChild(func(e ecs.Entity) {
		if !sc.IsActive(e) {
			return
		}
		pos := sc.Position(e)
		if cam != nil && !cam.IsRectVisible(pos.X-radius, pos.Y-radius, 2*radius, 2*radius) {
			return
		}
		c := r.colorOf(sc, e)
		if col, ok := sc.Collider(e); ok && col.Obstacle {
			rl.DrawRectangleV(rl.NewVector2(pos.X-radius, pos.Y-radius), rl.NewVector2(2*radius, 2*radius), c)
		} else {
			rl.DrawCircleV(rl.NewVector2(pos.X, pos.Y), radius, c)
		}
		if r.hasSelected && e == r.selected {
			rl.DrawCircleLines(int32(pos.X), int32(pos.Y), radius+3, rl.White)
		}
	})
}

// DrawPath draws a polyline from the entity through the tile centres of
// path, with a marker on the destination.
func (r *EntityRenderer) DrawPath(g *grid.Grid, from ecs.Entity, path []grid.Index, c rl.Color) {
	if len(path) == 0 || !g.Scene().Alive(from) {
		return
	}
	pos := g.Scene().Position(from)
	prev := rl.NewVector2(pos.X, pos.Y)
	for _, idx := range path {
		t, ok := g.Tile(idx)
		if !ok {
			return
		}
		x, y := t.Center()
		next := rl.NewVector2(x, y)
		rl.DrawLineEx(prev, next, 2, c)
		prev = next
	}
	rl.DrawCircleV(prev, 4, c)
}

func (r *EntityRenderer) colorOf(sc *scene.Scene, e ecs.Entity) rl.Color {
	if col, ok := sc.Collider(e); ok {
		if c, ok := r.palette[col.Group]; ok {
			return c
		}
	}
	return fallbackColor
}
