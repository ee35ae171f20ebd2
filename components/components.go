// Package components defines ECS components for grid entities.
package components

import "slices"

// Meta holds identity and lifecycle flags shared by every entity.
type Meta struct {
	Name   string
	Active bool // Inactive entities never collide
}

// Collider holds the collision tags that decide which entity pairs interact.
type Collider struct {
	Group string // Collision group name
	ID    int    // Only entities with equal ids collide

	// Groups this entity never collides with.
	Exclusions []string
	// Groups allowed to pass through this entity while still reporting contact.
	// Only meaningful when Obstacle is set.
	ObstacleFilter []string

	// Obstacle entities block movement into their tile.
	Obstacle bool
}

// Excludes reports whether the collider ignores the given group.
func (c *Collider) Excludes(group string) bool {
	return slices.Contains(c.Exclusions, group)
}

// LetsThrough reports whether members of group may pass through this obstacle.
func (c *Collider) LetsThrough(group string) bool {
	return slices.Contains(c.ObstacleFilter, group)
}

// GridMembership is the back-reference from a child entity to its grid.
// An entity holds at most one, which limits it to one grid at a time.
type GridMembership struct {
	GridID uint32
}

// Controlled marks an entity currently driven by a grid mover.
type Controlled struct {
	MoverID uint32
}
