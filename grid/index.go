// Package grid implements the tile grid: tile layout, map loading, spatial
// queries, collidability and membership of movable entities.
package grid

import "fmt"

// Index addresses a tile by row and column.
type Index struct {
	Row, Col int
}

// InvalidIndex is returned where no tile exists.
var InvalidIndex = Index{Row: -1, Col: -1}

// Valid reports whether both components are non-negative.
// It says nothing about grid bounds; use Grid.IsIndexValid for that.
func (i Index) Valid() bool {
	return i.Row >= 0 && i.Col >= 0
}

// Offset returns the index shifted by the given amounts.
func (i Index) Offset(dRow, dCol int) Index {
	return Index{Row: i.Row + dRow, Col: i.Col + dCol}
}

// Step returns the index one tile away in the given direction.
func (i Index) Step(d Direction) Index {
	dRow, dCol := d.Offset()
	return i.Offset(dRow, dCol)
}

// Manhattan returns the hop distance between two indices on a 4-connected grid.
func (i Index) Manhattan(o Index) int {
	return abs(i.Row-o.Row) + abs(i.Col-o.Col)
}

func (i Index) String() string {
	return fmt.Sprintf("{%d,%d}", i.Row, i.Col)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
