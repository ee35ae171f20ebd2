package mover

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/tilewalk/scene"
)

// CanCollide reports whether two entities are eligible to collide.
//
// They are not when they are the same entity, either is inactive or has no
// collider, either excludes the other's group, or their collision ids differ.
func CanCollide(sc *scene.Scene, a, b ecs.Entity) bool {
	if a == b || !sc.IsActive(a) || !sc.IsActive(b) {
		return false
	}
	ca, ok := sc.Collider(a)
	if !ok {
		return false
	}
	cb, ok := sc.Collider(b)
	if !ok {
		return false
	}
	if ca.Excludes(cb.Group) || cb.Excludes(ca.Group) {
		return false
	}
	return ca.ID == cb.ID
}

// contact is an eligible occupant of a tile a mover is entering.
type contact struct {
	other  ecs.Entity
	blocks bool // Obstacle that does not let the mover through
}

// contactsAt classifies the occupants of the tile at idx from e's point of
// view. Obstacles are reported before anything else on the tile so a
// blocking obstacle is found first.
func (m *GridMover) contactsAt(e ecs.Entity, occupants []ecs.Entity) (obstacles, others []contact) {
	mc, _ := m.scene.Collider(e)
	for _, o := range occupants {
		if !CanCollide(m.scene, e, o) {
			continue
		}
		oc, _ := m.scene.Collider(o)
		if !oc.Obstacle {
			others = append(others, contact{other: o})
			continue
		}
		obstacles = append(obstacles, contact{other: o, blocks: !oc.LetsThrough(mc.Group)})
	}
	return obstacles, others
}
