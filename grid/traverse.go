package grid

import "github.com/mlange-42/ark/ecs"

// ForEachTile calls fn for every tile, row by row.
func (g *Grid) ForEachTile(fn func(t Tile)) {
	for _, t := range g.tiles {
		fn(t)
	}
}

// ForEachTileWithID calls fn for every tile built from the given id.
func (g *Grid) ForEachTileWithID(id byte, fn func(t Tile)) {
	for _, t := range g.tiles {
		if t.ID == id {
			fn(t)
		}
	}
}

// ForEachTileExcept calls fn for every tile whose id differs from id.
func (g *Grid) ForEachTileExcept(id byte, fn func(t Tile)) {
	for _, t := range g.tiles {
		if t.ID != id {
			fn(t)
		}
	}
}

// ForEachTileInRange calls fn for the tiles from start to end inclusive.
//
// Ranges must lie within one row. Ranges spanning rows, invalid endpoints or
// an end before the start visit nothing.
func (g *Grid) ForEachTileInRange(start, end Index, fn func(t Tile)) {
	g.forEachTileRefInRange(start, end, func(t *Tile) {
		fn(*t)
	})
}

func (g *Grid) forEachTileRefInRange(start, end Index, fn func(t *Tile)) {
	if !g.IsIndexValid(start) || !g.IsIndexValid(end) || start.Row != end.Row {
		return
	}
	for c := start.Col; c <= end.Col; c++ {
		fn(g.tileRef(Index{Row: start.Row, Col: c}))
	}
}

// ForEachChild calls fn for every child in insertion order.
func (g *Grid) ForEachChild(fn func(e ecs.Entity)) {
	for _, e := range append([]ecs.Entity(nil), g.order...) {
		fn(e)
	}
}

// ForEachChildInTile calls fn for every child registered on the tile.
func (g *Grid) ForEachChildInTile(idx Index, fn func(e ecs.Entity)) {
	if !g.IsIndexValid(idx) {
		return
	}
	for _, e := range append([]ecs.Entity(nil), g.order...) {
		if g.children[e] == idx {
			fn(e)
		}
	}
}
