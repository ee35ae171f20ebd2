package grid

import "github.com/mlange-42/ark/ecs"

// AddChild registers an entity on the tile at idx and centres it there.
// Fails if the index is out of bounds, the entity is dead, or it already
// belongs to a grid.
func (g *Grid) AddChild(e ecs.Entity, idx Index) bool {
	t := g.tileRef(idx)
	if t == nil || !g.scene.Alive(e) {
		return false
	}
	if _, member := g.scene.Membership(e); member {
		return false
	}

	g.children[e] = idx
	g.order = append(g.order, e)
	g.scene.SetMembership(e, g.id)

	pos := g.scene.Position(e)
	pos.X, pos.Y = t.Center()
	return true
}

// HasChild reports whether the entity is registered on this grid.
func (g *Grid) HasChild(e ecs.Entity) bool {
	_, ok := g.children[e]
	return ok
}

// ChildCount returns the number of registered children.
func (g *Grid) ChildCount() int {
	return len(g.order)
}

// Children returns the registered children in insertion order.
func (g *Grid) Children() []ecs.Entity {
	return append([]ecs.Entity(nil), g.order...)
}

// RemoveChild deregisters the entity and clears its back-reference.
// Returns false if it was not a child.
func (g *Grid) RemoveChild(e ecs.Entity) bool {
	if _, ok := g.children[e]; !ok {
		return false
	}
	delete(g.children, e)
	for i, c := range g.order {
		if c == e {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
	g.scene.ClearMembership(e)
	return true
}

// RemoveChildWithID removes the child whose entity id matches.
func (g *Grid) RemoveChildWithID(id uint32) bool {
	for _, e := range g.order {
		if e.ID() == id {
			return g.RemoveChild(e)
		}
	}
	return false
}

// RemoveChildIf removes every child the predicate accepts.
// Returns the number removed.
func (g *Grid) RemoveChildIf(pred func(e ecs.Entity) bool) int {
	var doomed []ecs.Entity
	for _, e := range g.order {
		if pred(e) {
			doomed = append(doomed, e)
		}
	}
	for _, e := range doomed {
		g.RemoveChild(e)
	}
	return len(doomed)
}

// RemoveAllChildren detaches every child.
func (g *Grid) RemoveAllChildren() {
	for _, e := range append([]ecs.Entity(nil), g.order...) {
		g.RemoveChild(e)
	}
}

// ChangeTile moves a child to another tile and centres it there instantly.
// Non-members and invalid indices are ignored.
func (g *Grid) ChangeTile(e ecs.Entity, idx Index) {
	t := g.tileRef(idx)
	if t == nil {
		return
	}
	if _, ok := g.children[e]; !ok {
		return
	}
	g.children[e] = idx
	pos := g.scene.Position(e)
	pos.X, pos.Y = t.Center()
}

// TileOccupiedByChild returns the tile the child is registered on.
func (g *Grid) TileOccupiedByChild(e ecs.Entity) (Tile, bool) {
	idx, ok := g.children[e]
	if !ok {
		return Tile{Index: InvalidIndex}, false
	}
	return g.Tile(idx)
}

// IsTileOccupied reports whether at least one child is registered on the tile.
//
// Membership, not drawn position, decides occupancy: a mover claims its
// destination tile as soon as a move starts, while the entity is still
// travelling towards it.
func (g *Grid) IsTileOccupied(idx Index) bool {
	if !g.IsIndexValid(idx) {
		return false
	}
	for _, e := range g.order {
		if g.children[e] == idx {
			return true
		}
	}
	return false
}

// Occupants returns the children registered on the tile in insertion order.
func (g *Grid) Occupants(idx Index) []ecs.Entity {
	var out []ecs.Entity
	g.ForEachChildInTile(idx, func(e ecs.Entity) {
		out = append(out, e)
	})
	return out
}
