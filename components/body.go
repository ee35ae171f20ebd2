package components

// BodyType selects how the physics step treats a rigid body.
type BodyType uint8

const (
	BodyStatic    BodyType = iota // Never moves
	BodyKinematic                 // Moved by velocity only, ignores forces
	BodyDynamic                   // Fully simulated
)

// String returns the display name of the body type.
func (t BodyType) String() string {
	switch t {
	case BodyStatic:
		return "static"
	case BodyKinematic:
		return "kinematic"
	case BodyDynamic:
		return "dynamic"
	}
	return "unknown"
}

// RigidBody marks an entity whose position is driven by the physics step.
type RigidBody struct {
	Type BodyType
}
