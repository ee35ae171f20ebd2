package event

import (
	"time"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/tilewalk/grid"
)

// Event is a single notification.
type Event struct {
	Type    Type
	Source  ecs.Entity // Entity the emitter controls, zero if none
	Payload any
}

// DirectionPayload carries the newly requested direction.
type DirectionPayload struct {
	Direction grid.Direction
}

// IndexPayload carries a grid index.
type IndexPayload struct {
	Index grid.Index
}

// PositionPayload carries a pixel position.
type PositionPayload struct {
	X, Y float32
}

// CollisionPayload names both entities of an object collision.
type CollisionPayload struct {
	Mover    ecs.Entity
	Other    ecs.Entity
	Index    grid.Index // Tile where they met
	Obstacle bool       // Other blocked the move
}

// PathPayload carries a generated path, destination last, and the cost of
// the searches that produced it.
type PathPayload struct {
	Destination grid.Index
	Path        []grid.Index
	Searches    int           // Strategy calls, 2 when a detour search fell back
	Explored    int           // Nodes expanded across those calls
	Elapsed     time.Duration // Wall time spent searching
}

// EntityPayload carries a single entity.
type EntityPayload struct {
	Entity ecs.Entity
}

// Index extracts the index from index-carrying payloads.
func (e Event) Index() (grid.Index, bool) {
	switch p := e.Payload.(type) {
	case IndexPayload:
		return p.Index, true
	case CollisionPayload:
		return p.Index, true
	case PathPayload:
		return p.Destination, true
	}
	return grid.InvalidIndex, false
}
