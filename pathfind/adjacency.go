// Package pathfind searches tile grids for paths between indices.
//
// Searches run over an AdjacencyList, a snapshot of which accessible tiles
// connect to which. Strategies rebuild it on every call, so results always
// reflect the grid's current collidability.
package pathfind

import "github.com/pthm-cable/tilewalk/grid"

// neighbourOrder fixes discovery order, which decides ties between equally
// short paths.
var neighbourOrder = [...]grid.Direction{grid.Up, grid.Down, grid.Left, grid.Right}

var noNeighbours = []grid.Index{}

// AdjacencyList maps every accessible index to its accessible 4-neighbours.
// It holds no reference to the grid and goes stale when collidability changes.
type AdjacencyList struct {
	links map[grid.Index][]grid.Index
}

// NewAdjacencyList creates an empty list.
func NewAdjacencyList() *AdjacencyList {
	return &AdjacencyList{links: make(map[grid.Index][]grid.Index)}
}

// GenerateFrom rebuilds the list from the grid's current state.
func (a *AdjacencyList) GenerateFrom(g *grid.Grid) {
	a.GenerateAvoiding(g, nil)
}

// GenerateAvoiding rebuilds the list as if every index in avoid were
// collidable. The grid is not modified.
func (a *AdjacencyList) GenerateAvoiding(g *grid.Grid, avoid AvoidSet) {
	clear(a.links)
	open := func(idx grid.Index) bool {
		return g.IsIndexValid(idx) && !g.IsCollidable(idx) && !avoid.Has(idx)
	}
	g.ForEachTile(func(t grid.Tile) {
		if !open(t.Index) {
			return
		}
		var out []grid.Index
		for _, d := range neighbourOrder {
			if n := t.Index.Step(d); open(n) {
				out = append(out, n)
			}
		}
		a.links[t.Index] = out
	})
}

// Neighbours returns the accessible neighbours of idx in up, down, left,
// right order. Unknown indices get a shared empty slice that must not be
// modified.
func (a *AdjacencyList) Neighbours(idx grid.Index) []grid.Index {
	if n, ok := a.links[idx]; ok && n != nil {
		return n
	}
	return noNeighbours
}

// Has reports whether idx was accessible at generation time.
func (a *AdjacencyList) Has(idx grid.Index) bool {
	_, ok := a.links[idx]
	return ok
}

// Len returns the number of accessible indices.
func (a *AdjacencyList) Len() int {
	return len(a.links)
}
