// Package scene owns the entity registry shared by grids and movers.
//
// Entities are ark handles. Grids and movers keep those handles instead of
// pointers, and the back-references they need (grid membership, controlling
// mover) are stored as components on the entity itself.
package scene

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/tilewalk/components"
)

// SpawnSpec describes a new entity.
type SpawnSpec struct {
	Name     string
	X, Y     float32
	Inactive bool

	// Optional components
	Collider  *components.Collider
	RigidBody *components.RigidBody
}

// DestroyHook runs just before an entity is removed from the world.
type DestroyHook func(e ecs.Entity)

type destroyHook struct {
	token int
	fn    DestroyHook
}

// Scene wraps the ark world with typed component access and destroy hooks.
type Scene struct {
	world *ecs.World

	spawner     *ecs.Map3[components.Position, components.Velocity, components.Meta]
	posMap      *ecs.Map[components.Position]
	velMap      *ecs.Map[components.Velocity]
	metaMap     *ecs.Map[components.Meta]
	colliderMap *ecs.Map[components.Collider]
	bodyMap     *ecs.Map[components.RigidBody]
	memberMap   *ecs.Map[components.GridMembership]
	controlMap  *ecs.Map[components.Controlled]

	hooks     []destroyHook
	nextToken int

	nextGridID  uint32
	nextMoverID uint32
}

// New creates an empty scene.
func New() *Scene {
	world := ecs.NewWorld()
	return &Scene{
		world:       world,
		spawner:     ecs.NewMap3[components.Position, components.Velocity, components.Meta](world),
		posMap:      ecs.NewMap[components.Position](world),
		velMap:      ecs.NewMap[components.Velocity](world),
		metaMap:     ecs.NewMap[components.Meta](world),
		colliderMap: ecs.NewMap[components.Collider](world),
		bodyMap:     ecs.NewMap[components.RigidBody](world),
		memberMap:   ecs.NewMap[components.GridMembership](world),
		controlMap:  ecs.NewMap[components.Controlled](world),
	}
}

// World returns the underlying ark world for systems that run their own filters.
func (s *Scene) World() *ecs.World {
	return s.world
}

// Spawn creates a new active entity.
func (s *Scene) Spawn(spec SpawnSpec) ecs.Entity {
	pos := components.Position{X: spec.X, Y: spec.Y}
	vel := components.Velocity{}
	meta := components.Meta{Name: spec.Name, Active: !spec.Inactive}

	e := s.spawner.NewEntity(&pos, &vel, &meta)
	if spec.Collider != nil {
		c := *spec.Collider
		s.colliderMap.Add(e, &c)
	}
	if spec.RigidBody != nil {
		b := *spec.RigidBody
		s.bodyMap.Add(e, &b)
	}
	return e
}

// Alive reports whether the entity still exists.
func (s *Scene) Alive(e ecs.Entity) bool {
	return s.world.Alive(e)
}

// Destroy runs the destroy hooks and removes the entity.
// Destroying a dead entity is a no-op.
func (s *Scene) Destroy(e ecs.Entity) {
	if !s.world.Alive(e) {
		return
	}
	// Copy so hooks may unregister themselves
	hooks := append([]destroyHook(nil), s.hooks...)
	for _, h := range hooks {
		h.fn(e)
	}
	s.world.RemoveEntity(e)
}

// OnDestroy registers a hook called for every destroyed entity.
// Returns a token for RemoveDestroyHook.
func (s *Scene) OnDestroy(fn DestroyHook) int {
	s.nextToken++
	s.hooks = append(s.hooks, destroyHook{token: s.nextToken, fn: fn})
	return s.nextToken
}

// RemoveDestroyHook unregisters a hook. Returns false if the token is unknown.
func (s *Scene) RemoveDestroyHook(token int) bool {
	for i, h := range s.hooks {
		if h.token == token {
			s.hooks = append(s.hooks[:i], s.hooks[i+1:]...)
			return true
		}
	}
	return false
}

// Position returns the entity position.
func (s *Scene) Position(e ecs.Entity) *components.Position {
	return s.posMap.Get(e)
}

// Velocity returns the entity velocity.
func (s *Scene) Velocity(e ecs.Entity) *components.Velocity {
	return s.velMap.Get(e)
}

// Meta returns the entity identity and flags.
func (s *Scene) Meta(e ecs.Entity) *components.Meta {
	return s.metaMap.Get(e)
}

// IsActive reports whether the entity is alive and active.
func (s *Scene) IsActive(e ecs.Entity) bool {
	return s.world.Alive(e) && s.metaMap.Get(e).Active
}

// SetActive toggles the active flag.
func (s *Scene) SetActive(e ecs.Entity, active bool) {
	s.metaMap.Get(e).Active = active
}

// Collider returns the entity collider if it has one.
func (s *Scene) Collider(e ecs.Entity) (*components.Collider, bool) {
	if !s.colliderMap.Has(e) {
		return nil, false
	}
	return s.colliderMap.Get(e), true
}

// SetCollider adds or replaces the entity collider.
func (s *Scene) SetCollider(e ecs.Entity, c components.Collider) {
	if s.colliderMap.Has(e) {
		*s.colliderMap.Get(e) = c
		return
	}
	s.colliderMap.Add(e, &c)
}

// RigidBody returns the entity rigid body if it has one.
func (s *Scene) RigidBody(e ecs.Entity) (*components.RigidBody, bool) {
	if !s.bodyMap.Has(e) {
		return nil, false
	}
	return s.bodyMap.Get(e), true
}

// Membership returns the id of the grid the entity belongs to.
func (s *Scene) Membership(e ecs.Entity) (uint32, bool) {
	if !s.memberMap.Has(e) {
		return 0, false
	}
	return s.memberMap.Get(e).GridID, true
}

// SetMembership records the entity as a child of the grid.
func (s *Scene) SetMembership(e ecs.Entity, gridID uint32) {
	if s.memberMap.Has(e) {
		s.memberMap.Get(e).GridID = gridID
		return
	}
	s.memberMap.Add(e, &components.GridMembership{GridID: gridID})
}

// ClearMembership removes the grid back-reference.
func (s *Scene) ClearMembership(e ecs.Entity) {
	if s.world.Alive(e) && s.memberMap.Has(e) {
		s.memberMap.Remove(e)
	}
}

// Controller returns the id of the mover driving the entity.
func (s *Scene) Controller(e ecs.Entity) (uint32, bool) {
	if !s.controlMap.Has(e) {
		return 0, false
	}
	return s.controlMap.Get(e).MoverID, true
}

// SetController records the mover driving the entity.
func (s *Scene) SetController(e ecs.Entity, moverID uint32) {
	if s.controlMap.Has(e) {
		s.controlMap.Get(e).MoverID = moverID
		return
	}
	s.controlMap.Add(e, &components.Controlled{MoverID: moverID})
}

// ClearController removes the mover back-reference.
func (s *Scene) ClearController(e ecs.Entity) {
	if s.world.Alive(e) && s.controlMap.Has(e) {
		s.controlMap.Remove(e)
	}
}

// NextGridID allocates a grid identifier.
func (s *Scene) NextGridID() uint32 {
	s.nextGridID++
	return s.nextGridID
}

// NextMoverID allocates a mover identifier.
func (s *Scene) NextMoverID() uint32 {
	s.nextMoverID++
	return s.nextMoverID
}
