package renderer

import (
	"image/color"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/ojrac/opensimplex-go"

	"github.com/pthm-cable/tilewalk/camera"
	"github.com/pthm-cable/tilewalk/grid"
)

// TileRenderer draws the tiles of a grid in world coordinates.
// Solid tiles get bevelled edges where they border open tiles, and a
// noise texture keeps large wall areas from looking flat.
type TileRenderer struct {
	noise opensimplex.Noise
}

// NewTileRenderer creates a tile renderer with a seeded texture.
func NewTileRenderer(seed int64) *TileRenderer {
	return &TileRenderer{noise: opensimplex.NewNormalized(seed)}
}

// Draw renders every visible tile inside the camera view.
// Must be called between rl.BeginMode2D and rl.EndMode2D.
func (r *TileRenderer) Draw(g *grid.Grid, cam *camera.Camera) {
	style := g.Style()
	gx, gy := g.Position()
	gw, gh := g.Size()
	rl.DrawRectangle(int32(gx), int32(gy), int32(gw), int32(gh), Color(style.Background))

	g.ForEachTile(func(t grid.Tile) {
		if !t.Visible || (cam != nil && !cam.IsRectVisible(t.X, t.Y, t.W, t.H)) {
			return
		}
		base := Color(t.Fill)
		if t.Collidable {
			n := float32(r.noise.Eval2(float64(t.Index.Col)*0.35, float64(t.Index.Row)*0.35))
			base = shade(base, 0.85+n*0.3)
		}
		rl.DrawRectangleV(rl.NewVector2(t.X, t.Y), rl.NewVector2(t.W, t.H), base)

		if t.Collidable {
			r.drawEdges(g, t, base)
		}
		if style.ShowOutline {
			rl.DrawRectangleLinesEx(rl.NewRectangle(t.X, t.Y, t.W, t.H), 1, Color(style.Outline))
		}
	})
}

// drawEdges lights the top and left edges and darkens the bottom and right
// edges of a solid tile that face open tiles.
func (r *TileRenderer) drawEdges(g *grid.Grid, t grid.Tile, base rl.Color) {
	open := func(d grid.Direction) bool {
		n, ok := g.Neighbour(t.Index, d)
		return ok && !n.Collidable
	}
	edge := min(t.W, t.H) * 0.15

	if open(grid.Up) {
		rl.DrawRectangleV(rl.NewVector2(t.X, t.Y), rl.NewVector2(t.W, edge), brighten(base, 40, 200))
	}
	if open(grid.Left) {
		rl.DrawRectangleV(rl.NewVector2(t.X, t.Y), rl.NewVector2(edge, t.H), brighten(base, 20, 150))
	}
	if open(grid.Down) {
		c := shade(base, 0.6)
		c.A = 200
		rl.DrawRectangleV(rl.NewVector2(t.X, t.Y+t.H-edge), rl.NewVector2(t.W, edge), c)
	}
	if open(grid.Right) {
		c := shade(base, 0.7)
		c.A = 150
		rl.DrawRectangleV(rl.NewVector2(t.X+t.W-edge, t.Y), rl.NewVector2(edge, t.H), c)
	}
}

// Color converts a grid style colour to a raylib colour.
func Color(c color.RGBA) rl.Color {
	return rl.NewColor(c.R, c.G, c.B, c.A)
}

func shade(c rl.Color, f float32) rl.Color {
	return rl.Color{
		R: uint8(math.Min(float64(c.R)*float64(f), 255)),
		G: uint8(math.Min(float64(c.G)*float64(f), 255)),
		B: uint8(math.Min(float64(c.B)*float64(f), 255)),
		A: c.A,
	}
}

func brighten(c rl.Color, amount float64, alpha uint8) rl.Color {
	return rl.Color{
		R: uint8(math.Min(float64(c.R)+amount, 255)),
		G: uint8(math.Min(float64(c.G)+amount, 255)),
		B: uint8(math.Min(float64(c.B)+amount+5, 255)),
		A: alpha,
	}
}
