package grid

import (
	"image/color"

	"github.com/pthm-cable/tilewalk/physics"
)

// Tile is a single grid cell. Tiles live inside their Grid and are handed
// out by value, so changes go through Grid methods.
type Tile struct {
	Index      Index
	ID         byte    // Map character the tile was built from
	X, Y       float32 // Top-left corner in pixels
	W, H       float32 // Size in pixels
	Collidable bool
	Collider   physics.BodyID // Attached static body, 0 = none
	Visible    bool
	Fill       color.RGBA
}

// Center returns the tile centre in pixels.
func (t Tile) Center() (x, y float32) {
	return t.X + t.W/2, t.Y + t.H/2
}

// Contains reports whether the point lies inside the tile bounds.
// The right and bottom edges belong to the neighbouring tile.
func (t Tile) Contains(x, y float32) bool {
	return x >= t.X && x < t.X+t.W && y >= t.Y && y < t.Y+t.H
}

// HasCollider reports whether a static body is attached.
func (t Tile) HasCollider() bool {
	return t.Collider != 0
}
