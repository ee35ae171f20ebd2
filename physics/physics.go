// Package physics is the rigid-body collaborator used by grids and movers.
//
// It tracks static box colliders for solid tiles and integrates kinematic
// bodies each step. Nothing here resolves contacts: grid movement does its
// own collision checks before a move starts.
package physics

import (
	"sort"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/tilewalk/components"
	"github.com/pthm-cable/tilewalk/scene"
)

// BodyID identifies a static body. Zero means no body.
type BodyID uint32

// Box is an axis-aligned static collider, top-left anchored.
type Box struct {
	ID         BodyID
	X, Y, W, H float32
}

// Contains reports whether the point lies inside the box.
func (b Box) Contains(x, y float32) bool {
	return x >= b.X && x < b.X+b.W && y >= b.Y && y < b.Y+b.H
}

// Engine is the subset of a physics engine the grid needs.
type Engine interface {
	// CreateStaticBox creates a static body with a box collider.
	CreateStaticBox(x, y, w, h float32) BodyID
	// RemoveBody destroys a body created by CreateStaticBox.
	RemoveBody(id BodyID)
	// HasBody reports whether the body exists.
	HasBody(id BodyID) bool
}

// World holds static colliders and steps kinematic bodies.
type World struct {
	filter  *ecs.Filter3[components.Position, components.Velocity, components.RigidBody]
	statics map[BodyID]Box
	nextID  BodyID
}

// NewWorld creates a physics world bound to the scene's entities.
func NewWorld(sc *scene.Scene) *World {
	return &World{
		filter:  ecs.NewFilter3[components.Position, components.Velocity, components.RigidBody](sc.World()),
		statics: make(map[BodyID]Box),
	}
}

// CreateStaticBox implements Engine.
func (w *World) CreateStaticBox(x, y, width, height float32) BodyID {
	w.nextID++
	w.statics[w.nextID] = Box{ID: w.nextID, X: x, Y: y, W: width, H: height}
	return w.nextID
}

// RemoveBody implements Engine.
func (w *World) RemoveBody(id BodyID) {
	delete(w.statics, id)
}

// HasBody implements Engine.
func (w *World) HasBody(id BodyID) bool {
	_, ok := w.statics[id]
	return ok
}

// StaticCount returns the number of static bodies.
func (w *World) StaticCount() int {
	return len(w.statics)
}

// StaticBoxes returns all static colliders ordered by id.
func (w *World) StaticBoxes() []Box {
	boxes := make([]Box, 0, len(w.statics))
	for _, b := range w.statics {
		boxes = append(boxes, b)
	}
	sort.Slice(boxes, func(i, j int) bool { return boxes[i].ID < boxes[j].ID })
	return boxes
}

// PointBlocked reports whether any static collider contains the point.
func (w *World) PointBlocked(x, y float32) bool {
	for _, b := range w.statics {
		if b.Contains(x, y) {
			return true
		}
	}
	return false
}

// Step advances every non-static rigid body by its velocity.
// Dynamic bodies are treated like kinematic ones since no forces are modelled.
func (w *World) Step(dt float32) {
	query := w.filter.Query()
	for query.Next() {
		pos, vel, body := query.Get()
		if body.Type == components.BodyStatic {
			continue
		}
		pos.X += vel.X * dt
		pos.Y += vel.Y * dt
	}
}
