package grid

// setCollidable updates one tile's solid state, colour and collider.
func (g *Grid) setCollidable(t *Tile, collidable, attachCollider bool) {
	t.Collidable = collidable
	t.Fill = g.style.fillFor(collidable)

	if g.physics == nil {
		return
	}
	if collidable && attachCollider && t.Collider == 0 {
		t.Collider = g.physics.CreateStaticBox(t.X, t.Y, t.W, t.H)
	}
	if !collidable && t.Collider != 0 {
		g.physics.RemoveBody(t.Collider)
		t.Collider = 0
	}
}

// SetCollidableByIndex marks a single tile solid or accessible.
// With attachCollider a static body is created for the tile when a physics
// engine is set and the tile has none yet. Invalid indices are ignored.
func (g *Grid) SetCollidableByIndex(idx Index, collidable, attachCollider bool) {
	if t := g.tileRef(idx); t != nil {
		g.setCollidable(t, collidable, attachCollider)
	}
}

// SetCollidableByIndices applies SetCollidableByIndex to each index.
func (g *Grid) SetCollidableByIndices(indices []Index, collidable, attachCollider bool) {
	for _, idx := range indices {
		g.SetCollidableByIndex(idx, collidable, attachCollider)
	}
}

// SetCollidableByID updates every tile built from the given map id.
func (g *Grid) SetCollidableByID(id byte, collidable, attachCollider bool) {
	for i := range g.tiles {
		if g.tiles[i].ID == id {
			g.setCollidable(&g.tiles[i], collidable, attachCollider)
		}
	}
}

// SetCollidableByExclusion updates every tile whose id differs from id.
func (g *Grid) SetCollidableByExclusion(id byte, collidable, attachCollider bool) {
	for i := range g.tiles {
		if g.tiles[i].ID != id {
			g.setCollidable(&g.tiles[i], collidable, attachCollider)
		}
	}
}

// SetCollidableByRange updates the tiles from start to end inclusive.
// Only ranges within a single row are supported; see ForEachTileInRange.
func (g *Grid) SetCollidableByRange(start, end Index, collidable, attachCollider bool) {
	g.forEachTileRefInRange(start, end, func(t *Tile) {
		g.setCollidable(t, collidable, attachCollider)
	})
}
