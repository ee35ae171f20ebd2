// Package mover moves grid children one tile at a time.
//
// A GridMover drives a single entity in response to direction requests,
// checking the grid border, solid tiles and obstacle entities before each
// step and interpolating the entity between tile centres. A TargetGridMover
// adds destinations and path following on top.
package mover

import (
	"fmt"
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/tilewalk/components"
	"github.com/pthm-cable/tilewalk/event"
	"github.com/pthm-cable/tilewalk/grid"
	"github.com/pthm-cable/tilewalk/scene"
)

// Options configures a new mover.
type Options struct {
	MaxSpeedX   float32 // Pixels per second
	MaxSpeedY   float32
	Restriction Restriction
}

// GridMover is the per-frame movement state machine for one entity.
//
// States follow from its flags: idle (no requested direction, not moving),
// pending (direction accepted, not yet started), moving, and frozen.
type GridMover struct {
	id     uint32
	grid   *grid.Grid
	scene  *scene.Scene
	events *event.Emitter
	logger *slog.Logger

	target    ecs.Entity
	hasTarget bool
	physical  bool // Target has a kinematic rigid body

	currentTile grid.Index // Logical tile, the destination while moving
	prevTile    grid.Index

	targetDir grid.Direction // Requested, not yet completed
	dir       grid.Direction // Realized direction of the move in progress
	prevDir   grid.Direction

	speedX, speedY float32
	multiplier     float32
	restriction    Restriction

	frozen bool
	moving bool
	doneX  bool // Axis reached the destination centre
	doneY  bool

	hookToken int
}

// New creates a mover bound to g and attached to target.
// target must already be a child of g.
func New(g *grid.Grid, target ecs.Entity, opts Options) *GridMover {
	m := NewDetached(g, opts)
	m.SetTarget(target)
	return m
}

// NewDetached creates a mover with no target. Call SetTarget before Update
// has any effect.
func NewDetached(g *grid.Grid, opts Options) *GridMover {
	sc := g.Scene()
	m := &GridMover{
		id:          sc.NextMoverID(),
		grid:        g,
		scene:       sc,
		events:      event.NewEmitter(),
		logger:      slog.Default(),
		currentTile: grid.InvalidIndex,
		prevTile:    grid.InvalidIndex,
		multiplier:  1,
		restriction: opts.Restriction,
	}
	m.SetSpeed(opts.MaxSpeedX, opts.MaxSpeedY)
	m.hookToken = sc.OnDestroy(func(e ecs.Entity) {
		if m.hasTarget && e == m.target {
			m.detach()
		}
	})
	return m
}

// SetLogger replaces the logger used for attach diagnostics.
func (m *GridMover) SetLogger(l *slog.Logger) {
	m.logger = l
}

// ID returns the identifier stored on the controlled entity.
func (m *GridMover) ID() uint32 {
	return m.id
}

// Grid returns the grid the mover walks on.
func (m *GridMover) Grid() *grid.Grid {
	return m.grid
}

// Events returns the emitter the mover reports through.
func (m *GridMover) Events() *event.Emitter {
	return m.events
}

// SetTarget attaches the mover to e, replacing any previous target.
//
// Panics if e is controlled by another mover, is not a child of the mover's
// grid, or has a rigid body that is not kinematic.
func (m *GridMover) SetTarget(e ecs.Entity) {
	if m.hasTarget && m.target == e {
		return
	}
	if owner, ok := m.scene.Controller(e); ok && owner != m.id {
		panic(fmt.Sprintf("mover: entity %d is already controlled by mover %d", e.ID(), owner))
	}
	if !m.grid.HasChild(e) {
		panic(fmt.Sprintf("mover: entity %d is not a child of grid %d", e.ID(), m.grid.ID()))
	}
	physical := false
	if body, ok := m.scene.RigidBody(e); ok {
		if body.Type != components.BodyKinematic {
			panic(fmt.Sprintf("mover: entity %d has a %s rigid body, want kinematic", e.ID(), body.Type))
		}
		physical = true
	}

	if m.hasTarget {
		m.release()
	}

	m.scene.SetController(e, m.id)
	m.target = e
	m.hasTarget = true
	m.physical = physical

	tile, _ := m.grid.TileOccupiedByChild(e)
	m.currentTile = tile.Index
	m.prevTile = tile.Index
	m.resetMotion()

	m.logger.Debug("mover attached", "mover", m.id, "entity", e.ID(), "tile", tile.Index.String())
	m.emit(event.TargetChange, event.EntityPayload{Entity: e})
}

// Target returns the controlled entity.
func (m *GridMover) Target() (ecs.Entity, bool) {
	return m.target, m.hasTarget
}

// RequestMove asks the mover to step one tile in d.
//
// Rejected when there is no target, d is not a movement direction, the
// restriction forbids it, or a move is already pending or in progress.
// Accepting does not start motion; that happens on the next Update.
func (m *GridMover) RequestMove(d grid.Direction) bool {
	if !m.hasTarget || !m.restriction.Allows(d) {
		return false
	}
	if m.targetDir != grid.None || m.moving {
		return false
	}
	m.targetDir = d
	m.emit(event.DirectionChange, event.DirectionPayload{Direction: d})
	return true
}

// Update advances the mover by dt seconds.
func (m *GridMover) Update(dt float32) {
	if !m.hasTarget || m.frozen || !m.grid.HasChild(m.target) {
		return
	}
	if m.targetDir != grid.None && !m.moving {
		if !m.begin() {
			return
		}
	}
	if m.moving {
		m.advance(dt)
	}
}

// begin runs the border, tile and obstacle checks for the requested
// direction and commits the move if nothing blocks it.
func (m *GridMover) begin() bool {
	dest := m.currentTile.Step(m.targetDir)

	if !m.grid.IsIndexValid(dest) {
		m.targetDir = grid.None
		m.emit(event.BorderCollision, nil)
		return false
	}
	if m.grid.IsCollidable(dest) {
		m.targetDir = grid.None
		m.emit(event.TileCollision, event.IndexPayload{Index: dest})
		return false
	}

	obstacles, _ := m.contactsAt(m.target, m.grid.Occupants(dest))
	for _, c := range obstacles {
		if c.blocks {
			m.targetDir = grid.None
			m.emitCollision(c.other, dest, true)
			return false
		}
	}
	for _, c := range obstacles {
		m.emitCollision(c.other, dest, false)
	}

	m.prevTile = m.currentTile
	m.currentTile = dest
	m.prevDir = m.dir
	m.dir = m.targetDir
	m.moving = true
	dRow, dCol := m.dir.Offset()
	m.doneX = dCol == 0
	m.doneY = dRow == 0

	// Claim the destination now, keep drawing the entity where it is
	pos := m.scene.Position(m.target)
	x, y := pos.X, pos.Y
	m.grid.ChangeTile(m.target, dest)
	pos.X, pos.Y = x, y

	m.emit(event.MoveBegin, nil)
	return true
}

// advance moves the entity towards the destination centre, finishing the
// move when both axes arrive.
func (m *GridMover) advance(dt float32) {
	tile, _ := m.grid.Tile(m.currentTile)
	cx, cy := tile.Center()
	pos := m.scene.Position(m.target)
	dRow, dCol := m.dir.Offset()
	stepX := m.speedX * m.multiplier * dt
	stepY := m.speedY * m.multiplier * dt

	if !m.doneX && abs32(cx-pos.X) <= stepX {
		m.doneX = true
	}
	if !m.doneY && abs32(cy-pos.Y) <= stepY {
		m.doneY = true
	}
	if m.doneX && m.doneY {
		m.finish(cx, cy)
		return
	}

	if m.physical {
		vel := m.scene.Velocity(m.target)
		vel.X, vel.Y = 0, 0
		if !m.doneX {
			vel.X = float32(dCol) * m.speedX * m.multiplier
		}
		if !m.doneY {
			vel.Y = float32(dRow) * m.speedY * m.multiplier
		}
		return
	}

	m.emit(event.PreMove, event.PositionPayload{X: pos.X, Y: pos.Y})
	if m.doneX {
		pos.X = cx
	} else {
		pos.X += float32(dCol) * stepX
	}
	if m.doneY {
		pos.Y = cy
	} else {
		pos.Y += float32(dRow) * stepY
	}
	m.emit(event.PostMove, event.PositionPayload{X: pos.X, Y: pos.Y})
}

// finish snaps the entity onto the destination and reports who it met there.
func (m *GridMover) finish(cx, cy float32) {
	pos := m.scene.Position(m.target)
	pos.X, pos.Y = cx, cy
	if m.physical {
		vel := m.scene.Velocity(m.target)
		vel.X, vel.Y = 0, 0
	}

	m.moving = false
	m.targetDir = grid.None
	m.prevDir = m.dir
	m.dir = grid.None

	dest := m.currentTile
	m.emit(event.MoveEnd, event.IndexPayload{Index: dest})

	// A MoveEnd listener may have detached or redirected the mover
	if !m.hasTarget || m.currentTile != dest {
		return
	}
	_, others := m.contactsAt(m.target, m.grid.Occupants(dest))
	for _, c := range others {
		m.emitCollision(c.other, dest, false)
	}
}

// IsTargetMoving reports whether a tile transition is in progress.
func (m *GridMover) IsTargetMoving() bool {
	return m.moving
}

// Direction returns the direction of the move in progress, or None.
func (m *GridMover) Direction() grid.Direction {
	return m.dir
}

// PrevDirection returns the direction of the last completed or replaced move.
func (m *GridMover) PrevDirection() grid.Direction {
	return m.prevDir
}

// TargetDirection returns the requested direction that has not completed yet.
func (m *GridMover) TargetDirection() grid.Direction {
	return m.targetDir
}

// CurrentTile returns the tile the entity occupies. While moving this is
// the tile it is moving to.
func (m *GridMover) CurrentTile() grid.Tile {
	t, _ := m.grid.Tile(m.currentTile)
	return t
}

// PrevTile returns the tile the entity occupied before the latest move.
func (m *GridMover) PrevTile() grid.Tile {
	t, _ := m.grid.Tile(m.prevTile)
	return t
}

// SetSpeed sets the maximum speed per axis in pixels per second.
// Panics if the restriction allows diagonals and the speeds differ.
func (m *GridMover) SetSpeed(x, y float32) {
	if m.restriction.AllowsDiagonal() && x != y {
		panic(fmt.Sprintf("mover: restriction %s needs equal axis speeds, got (%v, %v)", m.restriction, x, y))
	}
	m.speedX, m.speedY = x, y
}

// Speed returns the maximum speed per axis.
func (m *GridMover) Speed() (x, y float32) {
	return m.speedX, m.speedY
}

// SetSpeedMultiplier scales both axis speeds. Negative values are clamped
// to zero.
func (m *GridMover) SetSpeedMultiplier(mult float32) {
	m.multiplier = max(mult, 0)
}

// SpeedMultiplier returns the current speed scale.
func (m *GridMover) SpeedMultiplier() float32 {
	return m.multiplier
}

// SetMovementRestriction changes the allowed directions.
// Panics if r allows diagonals and the axis speeds differ.
func (m *GridMover) SetMovementRestriction(r Restriction) {
	if r.AllowsDiagonal() && m.speedX != m.speedY {
		panic(fmt.Sprintf("mover: restriction %s needs equal axis speeds, got (%v, %v)", r, m.speedX, m.speedY))
	}
	m.restriction = r
}

// MovementRestriction returns the allowed directions.
func (m *GridMover) MovementRestriction() Restriction {
	return m.restriction
}

// SetMovementFreeze suspends or resumes movement. Position, pending
// direction and progress are kept.
func (m *GridMover) SetMovementFreeze(freeze bool) {
	m.frozen = freeze
	if freeze && m.hasTarget && m.physical {
		vel := m.scene.Velocity(m.target)
		vel.X, vel.Y = 0, 0
	}
}

// IsMovementFrozen reports whether movement is suspended.
func (m *GridMover) IsMovementFrozen() bool {
	return m.frozen
}

// SyncWith copies speed, restriction and freeze state from other. If other
// is on its way somewhere and this mover is idle, the same direction is
// requested so both entities travel in step.
func (m *GridMover) SyncWith(other *GridMover) {
	if other == nil || other == m {
		return
	}
	m.speedX, m.speedY = other.speedX, other.speedY
	m.multiplier = other.multiplier
	m.restriction = other.restriction
	m.SetMovementFreeze(other.frozen)

	d := other.dir
	if d == grid.None {
		d = other.targetDir
	}
	if d != grid.None {
		m.RequestMove(d)
	}
}

// ResetTargetTile re-anchors the mover on the tile the grid has the entity
// registered on, cancelling any move in progress. Use it after the entity
// was moved behind the mover's back.
func (m *GridMover) ResetTargetTile() {
	if !m.hasTarget {
		return
	}
	tile, ok := m.grid.TileOccupiedByChild(m.target)
	if !ok {
		return
	}
	m.currentTile = tile.Index
	m.prevTile = tile.Index
	m.resetMotion()

	pos := m.scene.Position(m.target)
	pos.X, pos.Y = tile.Center()
	m.emit(event.TargetTileReset, event.IndexPayload{Index: tile.Index})
}

// TeleportTarget moves the entity to idx instantly. Returns false if idx is
// out of bounds or collidable.
func (m *GridMover) TeleportTarget(idx grid.Index) bool {
	if !m.hasTarget || !m.grid.IsIndexValid(idx) || m.grid.IsCollidable(idx) {
		return false
	}
	m.grid.ChangeTile(m.target, idx)
	m.ResetTargetTile()
	return true
}

// Destroy detaches the mover from its target and the scene. Neither the
// entity nor the grid is destroyed.
func (m *GridMover) Destroy() {
	if m.hasTarget {
		m.release()
		m.detach()
	}
	m.scene.RemoveDestroyHook(m.hookToken)
	m.events.Clear()
}

func (m *GridMover) resetMotion() {
	m.moving = false
	m.targetDir = grid.None
	m.dir = grid.None
	m.prevDir = grid.None
	m.doneX, m.doneY = false, false
	if m.hasTarget && m.physical {
		vel := m.scene.Velocity(m.target)
		vel.X, vel.Y = 0, 0
	}
}

// release hands the current target back: stops it and clears the controller.
func (m *GridMover) release() {
	if !m.scene.Alive(m.target) {
		return
	}
	if m.physical {
		vel := m.scene.Velocity(m.target)
		vel.X, vel.Y = 0, 0
	}
	m.scene.ClearController(m.target)
}

func (m *GridMover) detach() {
	m.hasTarget = false
	m.physical = false
	m.moving = false
	m.targetDir = grid.None
	m.dir = grid.None
	m.currentTile = grid.InvalidIndex
	m.prevTile = grid.InvalidIndex
}

func (m *GridMover) emit(t event.Type, payload any) {
	m.events.Emit(event.Event{Type: t, Source: m.target, Payload: payload})
}

func (m *GridMover) emitCollision(other ecs.Entity, idx grid.Index, obstacle bool) {
	m.emit(event.ObjectCollision, event.CollisionPayload{
		Mover:    m.target,
		Other:    other,
		Index:    idx,
		Obstacle: obstacle,
	})
}

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
