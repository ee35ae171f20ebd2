package mover

import (
	"time"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/tilewalk/event"
	"github.com/pthm-cable/tilewalk/grid"
	"github.com/pthm-cable/tilewalk/pathfind"
)

// TargetGridMover walks its entity along a path to a destination tile.
//
// Each idle frame the next path step becomes a direction request on the
// embedded GridMover. In adaptive mode a step that is about to be blocked
// triggers a replan around the blocking tile; with no way around, the mover
// keeps its path and waits for the tile to clear. Otherwise a blocked step
// stops movement and stays at the head of the path until StartMovement.
// A step the movement restriction forbids stops movement and fires
// PathStalled.
type TargetGridMover struct {
	*GridMover

	strategy pathfind.Strategy

	destination    grid.Index
	hasDestination bool
	arrived        bool
	path           []grid.Index // Traversal order, destination last

	started  bool
	adaptive bool

	pending     grid.Index // Step handed to RequestMove, not yet begun
	hasPending  bool
	lastBlocked grid.Index
}

// NewTarget creates a path-following mover attached to target.
// A nil strategy selects breadth-first search.
func NewTarget(g *grid.Grid, target ecs.Entity, strategy pathfind.Strategy, opts Options) *TargetGridMover {
	if strategy == nil {
		strategy = pathfind.NewBFS()
	}
	t := &TargetGridMover{
		GridMover:   NewDetached(g, opts),
		strategy:    strategy,
		destination: grid.InvalidIndex,
		started:     true,
		lastBlocked: grid.InvalidIndex,
	}

	ev := t.Events()
	ev.On(event.MoveBegin, func(event.Event) {
		t.hasPending = false
		t.lastBlocked = grid.InvalidIndex
	})
	ev.On(event.MoveEnd, t.onMoveEnd)
	ev.On(event.BorderCollision, t.onBlocked)
	ev.On(event.TileCollision, t.onBlocked)
	ev.On(event.ObjectCollision, func(e event.Event) {
		if p, ok := e.Payload.(event.CollisionPayload); ok && p.Obstacle {
			t.onBlocked(e)
		}
	})
	ev.On(event.TargetTileReset, func(event.Event) {
		t.hasPending = false
		if t.hasDestination && !t.arrived {
			t.generatePath()
		}
	})

	t.SetTarget(target)
	return t
}

// SetTarget attaches the mover to e and forgets the current destination.
func (t *TargetGridMover) SetTarget(e ecs.Entity) {
	t.GridMover.SetTarget(e)
	t.clearDestination()
}

// SetDestination sets the tile to walk to and plans a path from the
// entity's tile. Returns false if idx is out of bounds. An unreachable
// destination leaves the path empty.
func (t *TargetGridMover) SetDestination(idx grid.Index) bool {
	if !t.hasTarget || !t.grid.IsIndexValid(idx) {
		return false
	}
	t.destination = idx
	t.hasDestination = true
	t.arrived = false
	t.hasPending = false
	t.lastBlocked = grid.InvalidIndex
	t.generatePath()

	if idx == t.currentTile && !t.moving {
		t.arrive()
	}
	return true
}

// SetDestinationAt sets the destination to the tile under a world position.
func (t *TargetGridMover) SetDestinationAt(x, y float32) bool {
	tile, ok := t.grid.TileAt(x, y)
	if !ok {
		return false
	}
	return t.SetDestination(tile.Index)
}

// Destination returns the current destination.
func (t *TargetGridMover) Destination() (grid.Index, bool) {
	return t.destination, t.hasDestination
}

// HasArrived reports whether the entity reached the current destination.
func (t *TargetGridMover) HasArrived() bool {
	return t.hasDestination && t.arrived
}

// IsDestinationReachable runs a full search from the entity's tile to idx.
// Nothing is cached, so avoid calling it every frame.
func (t *TargetGridMover) IsDestinationReachable(idx grid.Index) bool {
	if !t.hasTarget || !t.grid.IsIndexValid(idx) {
		return false
	}
	if idx == t.currentTile {
		return true
	}
	return len(t.strategy.FindPath(t.grid, t.currentTile, idx)) > 0
}

// Path returns a copy of the remaining path, destination last.
func (t *TargetGridMover) Path() []grid.Index {
	return append([]grid.Index(nil), t.path...)
}

// PathLen returns the number of steps left on the path.
func (t *TargetGridMover) PathLen() int {
	return len(t.path)
}

// StartMovement lets path steps turn into move requests.
func (t *TargetGridMover) StartMovement() {
	t.started = true
}

// StopMovement stops issuing move requests. A tile transition already in
// progress still completes.
func (t *TargetGridMover) StopMovement() {
	t.started = false
}

// IsMovementStarted reports whether path steps are being followed.
func (t *TargetGridMover) IsMovementStarted() bool {
	return t.started
}

// SetAdaptiveMoveEnable toggles replanning around blocked steps.
func (t *TargetGridMover) SetAdaptiveMoveEnable(enable bool) {
	t.adaptive = enable
}

// IsAdaptiveMoveEnabled reports whether blocked steps trigger a replan.
func (t *TargetGridMover) IsAdaptiveMoveEnabled() bool {
	return t.adaptive
}

// SetStrategy replaces the path finder. The current path is kept until the
// next replan.
func (t *TargetGridMover) SetStrategy(s pathfind.Strategy) {
	if s != nil {
		t.strategy = s
	}
}

// Strategy returns the path finder.
func (t *TargetGridMover) Strategy() pathfind.Strategy {
	return t.strategy
}

// Update issues the next path step when idle, then advances the mover.
func (t *TargetGridMover) Update(dt float32) {
	if t.hasTarget && t.started && !t.frozen && t.idle() && len(t.path) > 0 {
		t.step()
	}
	t.GridMover.Update(dt)
}

func (t *TargetGridMover) idle() bool {
	return !t.moving && t.targetDir == grid.None
}

// step turns the head of the path into a direction request.
func (t *TargetGridMover) step() {
	next := t.path[0]

	if t.adaptive && t.isBlocked(next) {
		if next == t.lastBlocked {
			// Already replanned around this tile, wait for it to clear
			return
		}
		t.lastBlocked = next
		t.replanAround(next)
		if len(t.path) == 0 || t.isBlocked(t.path[0]) {
			return
		}
		next = t.path[0]
	}

	d := grid.DirectionBetween(t.currentTile, next)
	if d == grid.None {
		// Path no longer starts next to the entity
		t.generatePath()
		return
	}
	if !t.restriction.Allows(d) {
		t.StopMovement()
		t.logger.Warn("path step forbidden by restriction",
			"mover", t.id,
			"restriction", t.restriction.String(),
			"direction", d.String(),
			"tile", t.currentTile,
		)
		t.emit(event.PathStalled, event.DirectionPayload{Direction: d})
		return
	}
	if !t.RequestMove(d) {
		return
	}
	t.path = t.path[1:]
	t.pending = next
	t.hasPending = true
}

// isBlocked reports whether entering idx would be refused right now.
func (t *TargetGridMover) isBlocked(idx grid.Index) bool {
	if !t.grid.IsIndexValid(idx) || t.grid.IsCollidable(idx) {
		return true
	}
	obstacles, _ := t.contactsAt(t.target, t.grid.Occupants(idx))
	for _, c := range obstacles {
		if c.blocks {
			return true
		}
	}
	return false
}

// onBlocked handles a collision that aborted the pending step.
func (t *TargetGridMover) onBlocked(event.Event) {
	if !t.hasPending {
		return
	}
	blocked := t.pending
	t.hasPending = false

	if t.adaptive {
		t.lastBlocked = blocked
		t.replanAround(blocked)
		return
	}
	t.path = append([]grid.Index{blocked}, t.path...)
	t.StopMovement()
}

// replanAround recomputes the path around blocked, a tile held by an
// obstacle or newly made solid. The destination itself is never avoided.
func (t *TargetGridMover) replanAround(blocked grid.Index) {
	var avoid pathfind.AvoidSet
	if blocked != t.destination {
		avoid = pathfind.NewAvoidSet(blocked)
	}
	t.plan(avoid)
	t.emit(event.AdaptiveReplan, event.IndexPayload{Index: blocked})
}

func (t *TargetGridMover) generatePath() {
	t.plan(nil)
}

// plan searches from the entity's tile to the destination, staying out of
// avoid when the strategy supports it. If no such path exists the direct
// path is kept instead.
func (t *TargetGridMover) plan(avoid pathfind.AvoidSet) {
	if !t.hasDestination {
		return
	}
	start := time.Now()
	p := event.PathPayload{Destination: t.destination}

	var path []grid.Index
	if a, ok := t.strategy.(pathfind.Avoider); ok && len(avoid) > 0 {
		path = a.FindPathAvoiding(t.grid, t.currentTile, t.destination, avoid)
		p.Searches++
		p.Explored += t.lastExplored()
	}
	if len(path) == 0 {
		path = t.strategy.FindPath(t.grid, t.currentTile, t.destination)
		p.Searches++
		p.Explored += t.lastExplored()
	}

	t.path = path
	p.Path = t.Path()
	p.Elapsed = time.Since(start)
	t.emit(event.PathGenerated, p)
}

func (t *TargetGridMover) lastExplored() int {
	if e, ok := t.strategy.(pathfind.Explorer); ok {
		return e.LastExplored()
	}
	return 0
}

func (t *TargetGridMover) onMoveEnd(e event.Event) {
	idx, _ := e.Index()
	if t.hasDestination && !t.arrived && idx == t.destination && len(t.path) == 0 {
		t.arrive()
	}
}

func (t *TargetGridMover) arrive() {
	t.arrived = true
	t.emit(event.DestinationReached, event.IndexPayload{Index: t.destination})
}

func (t *TargetGridMover) clearDestination() {
	t.destination = grid.InvalidIndex
	t.hasDestination = false
	t.arrived = false
	t.path = nil
	t.hasPending = false
	t.lastBlocked = grid.InvalidIndex
}
