package components

// Position represents an entity's world position in pixels.
// Grid children are centred on their tile, so this is the entity centre.
type Position struct {
	X, Y float32
}

// Velocity represents an entity's velocity in pixels per second.
type Velocity struct {
	X, Y float32
}
