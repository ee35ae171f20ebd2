// Package event carries grid and mover notifications.
//
// Every event has a Type and a typed payload. Listeners subscribe per type
// (or to every type) and receive an integer token for unsubscribing.
package event

// Type identifies an event kind.
type Type uint8

const (
	// DirectionChange fires when a mover accepts a direction request.
	// Payload: DirectionPayload
	DirectionChange Type = iota

	// MoveBegin fires when a mover commits to a tile transition.
	// Payload: nil
	MoveBegin

	// PreMove fires before a mover advances the entity within a frame.
	// Payload: PositionPayload (position before the step)
	PreMove

	// PostMove fires after a mover advances the entity within a frame.
	// Payload: PositionPayload (position after the step)
	PostMove

	// MoveEnd fires when the entity snaps onto its destination tile.
	// Payload: IndexPayload (destination)
	MoveEnd

	// TileCollision fires when a move is blocked by a collidable tile.
	// Payload: IndexPayload (blocking tile)
	TileCollision

	// BorderCollision fires when a move would leave the grid.
	// Payload: nil
	BorderCollision

	// ObjectCollision fires when two eligible entities meet.
	// Payload: CollisionPayload
	ObjectCollision

	// TargetTileReset fires when a mover re-anchors on the entity's grid tile.
	// Payload: IndexPayload (new tile)
	TargetTileReset

	// TargetChange fires when a mover is bound to a different entity.
	// Payload: EntityPayload (new target, zero when detached)
	TargetChange

	// PathGenerated fires when a target mover finishes planning.
	// Payload: PathPayload
	PathGenerated

	// DestinationReached fires when a target mover arrives.
	// Payload: IndexPayload (destination)
	DestinationReached

	// AdaptiveReplan fires when a blocked path is recomputed.
	// Payload: IndexPayload (tile that blocked the old path)
	AdaptiveReplan

	// PathStalled fires when the next path step is a direction the mover's
	// restriction forbids. Path following stops until StartMovement.
	// Payload: DirectionPayload (forbidden step)
	PathStalled

	typeCount
)

var typeNames = [...]string{
	DirectionChange:    "direction_change",
	MoveBegin:          "move_begin",
	PreMove:            "pre_move",
	PostMove:           "post_move",
	MoveEnd:            "move_end",
	TileCollision:      "tile_collision",
	BorderCollision:    "border_collision",
	ObjectCollision:    "object_collision",
	TargetTileReset:    "target_tile_reset",
	TargetChange:       "target_change",
	PathGenerated:      "path_generated",
	DestinationReached: "destination_reached",
	AdaptiveReplan:     "adaptive_replan",
	PathStalled:        "path_stalled",
}

// String returns the snake_case event name.
func (t Type) String() string {
	if t >= typeCount {
		return "unknown"
	}
	return typeNames[t]
}

// Types lists every event type in declaration order.
func Types() []Type {
	out := make([]Type, typeCount)
	for i := range out {
		out[i] = Type(i)
	}
	return out
}
