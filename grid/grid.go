package grid

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/tilewalk/physics"
	"github.com/pthm-cable/tilewalk/scene"
)

// Options configures tile layout and collaborators of a new grid.
type Options struct {
	TileWidth, TileHeight float32
	Spacing               float32 // Uniform gap between tiles and around the edge
	X, Y                  float32 // Top-left corner of the grid
	Style                 *Style  // nil = DefaultStyle
	Physics               physics.Engine
}

// Grid is a fixed-shape 2D array of tiles plus the entities registered on it.
//
// Occupancy is a multiset: several children may share a tile. Deciding
// whether that is allowed is the business of grid movers, not the grid.
type Grid struct {
	id      uint32
	scene   *scene.Scene
	physics physics.Engine
	logger  *slog.Logger

	tiles      []Tile // row-major
	rows, cols int

	tileW, tileH float32
	spacing      float32
	x, y         float32
	width        float32
	height       float32
	style        Style

	children  map[ecs.Entity]Index
	order     []ecs.Entity // insertion order for deterministic traversal
	hookToken int
}

// New creates an empty grid. Call Construct or one of the Load methods to
// populate tiles.
func New(sc *scene.Scene, opts Options) *Grid {
	style := DefaultStyle()
	if opts.Style != nil {
		style = *opts.Style
	}
	g := &Grid{
		id:       sc.NextGridID(),
		scene:    sc,
		physics:  opts.Physics,
		logger:   slog.Default(),
		tileW:    opts.TileWidth,
		tileH:    opts.TileHeight,
		spacing:  opts.Spacing,
		x:        opts.X,
		y:        opts.Y,
		style:    style,
		children: make(map[ecs.Entity]Index),
	}
	// Destroyed entities leave the grid on their own
	g.hookToken = sc.OnDestroy(func(e ecs.Entity) {
		g.RemoveChild(e)
	})
	return g
}

// SetLogger replaces the logger used for load diagnostics.
func (g *Grid) SetLogger(l *slog.Logger) {
	g.logger = l
}

// ID returns the grid identifier stored in child membership components.
func (g *Grid) ID() uint32 {
	return g.id
}

// Scene returns the entity registry the grid reads positions from.
func (g *Grid) Scene() *scene.Scene {
	return g.scene
}

// Physics returns the attached physics engine, or nil.
func (g *Grid) Physics() physics.Engine {
	return g.physics
}

// SetPhysics attaches a physics engine used by later collider requests.
func (g *Grid) SetPhysics(p physics.Engine) {
	g.physics = p
}

// Rows returns the number of rows.
func (g *Grid) Rows() int { return g.rows }

// Cols returns the number of columns.
func (g *Grid) Cols() int { return g.cols }

// TileSize returns the uniform tile size in pixels.
func (g *Grid) TileSize() (w, h float32) { return g.tileW, g.tileH }

// Spacing returns the gap between tiles in pixels.
func (g *Grid) Spacing() float32 { return g.spacing }

// Position returns the grid's top-left corner.
func (g *Grid) Position() (x, y float32) { return g.x, g.y }

// Size returns the grid's total size in pixels, spacing included.
func (g *Grid) Size() (w, h float32) { return g.width, g.height }

// Style returns the tile palette.
func (g *Grid) Style() Style { return g.style }

// SetStyle replaces the palette and repaints every tile.
func (g *Grid) SetStyle(s Style) {
	g.style = s
	for i := range g.tiles {
		g.tiles[i].Fill = s.fillFor(g.tiles[i].Collidable)
	}
}

// IsIndexValid reports whether the index lies inside the grid.
func (g *Grid) IsIndexValid(idx Index) bool {
	return idx.Row >= 0 && idx.Row < g.rows && idx.Col >= 0 && idx.Col < g.cols
}

// tileRef returns a pointer to the stored tile, or nil when out of bounds.
func (g *Grid) tileRef(idx Index) *Tile {
	if !g.IsIndexValid(idx) {
		return nil
	}
	return &g.tiles[idx.Row*g.cols+idx.Col]
}

// Tile returns the tile at the index. ok is false when out of bounds.
func (g *Grid) Tile(idx Index) (Tile, bool) {
	t := g.tileRef(idx)
	if t == nil {
		return Tile{Index: InvalidIndex}, false
	}
	return *t, true
}

// TileAt returns the tile containing the world position.
// Points in the spacing between tiles belong to no tile.
func (g *Grid) TileAt(x, y float32) (Tile, bool) {
	lx := x - g.x - g.spacing
	ly := y - g.y - g.spacing
	if lx < 0 || ly < 0 {
		return Tile{Index: InvalidIndex}, false
	}
	idx := Index{
		Row: int(ly / (g.tileH + g.spacing)),
		Col: int(lx / (g.tileW + g.spacing)),
	}
	t := g.tileRef(idx)
	if t == nil || !t.Contains(x, y) {
		return Tile{Index: InvalidIndex}, false
	}
	return *t, true
}

// Neighbour returns the tile one step away in the given direction.
func (g *Grid) Neighbour(idx Index, d Direction) (Tile, bool) {
	if !g.IsIndexValid(idx) || !d.Valid() {
		return Tile{Index: InvalidIndex}, false
	}
	return g.Tile(idx.Step(d))
}

// TileAbove returns the tile in the previous row.
func (g *Grid) TileAbove(idx Index) (Tile, bool) { return g.Neighbour(idx, Up) }

// TileBelow returns the tile in the next row.
func (g *Grid) TileBelow(idx Index) (Tile, bool) { return g.Neighbour(idx, Down) }

// TileLeftOf returns the tile in the previous column.
func (g *Grid) TileLeftOf(idx Index) (Tile, bool) { return g.Neighbour(idx, Left) }

// TileRightOf returns the tile in the next column.
func (g *Grid) TileRightOf(idx Index) (Tile, bool) { return g.Neighbour(idx, Right) }

// IsCollidable reports whether the tile at idx is solid.
// Out-of-bounds indices are not collidable; they are borders.
func (g *Grid) IsCollidable(idx Index) bool {
	t := g.tileRef(idx)
	return t != nil && t.Collidable
}

// SetTileVisible toggles whether the tile is drawn.
func (g *Grid) SetTileVisible(idx Index, visible bool) {
	if t := g.tileRef(idx); t != nil {
		t.Visible = visible
	}
}

// SetPosition moves the grid, its tiles, colliders and children.
func (g *Grid) SetPosition(x, y float32) {
	dx, dy := x-g.x, y-g.y
	if dx == 0 && dy == 0 {
		return
	}
	g.x, g.y = x, y
	for i := range g.tiles {
		t := &g.tiles[i]
		t.X += dx
		t.Y += dy
		if t.Collider != 0 && g.physics != nil {
			g.physics.RemoveBody(t.Collider)
			t.Collider = g.physics.CreateStaticBox(t.X, t.Y, t.W, t.H)
		}
	}
	for _, e := range g.order {
		pos := g.scene.Position(e)
		pos.X += dx
		pos.Y += dy
	}
}

// Update advances per-frame grid logic. The grid has none yet.
func (g *Grid) Update(dt float32) {}

// Destroy detaches every child and releases tile colliders.
// Children are not destroyed.
func (g *Grid) Destroy() {
	g.RemoveAllChildren()
	g.releaseColliders()
	g.scene.RemoveDestroyHook(g.hookToken)
}

func (g *Grid) releaseColliders() {
	for i := range g.tiles {
		t := &g.tiles[i]
		if t.Collider != 0 && g.physics != nil {
			g.physics.RemoveBody(t.Collider)
		}
		t.Collider = 0
	}
}
