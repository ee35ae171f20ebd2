package game

import (
	"fmt"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/tilewalk/components"
	"github.com/pthm-cable/tilewalk/grid"
	"github.com/pthm-cable/tilewalk/mover"
	"github.com/pthm-cable/tilewalk/pathfind"
	"github.com/pthm-cable/tilewalk/scene"
)

// Collider groups of the spawned entities.
const (
	GroupPlayer = "player"
	GroupWalker = "walker"
	GroupCrate  = "crate"
)

// spawnPopulation places the player, the crates and the walkers on free
// tiles, in that order.
func (g *Game) spawnPopulation() error {
	cfg := g.cfg
	free := g.freeTiles()

	want := grid.Index{Row: cfg.Simulation.PlayerRow, Col: cfg.Simulation.PlayerCol}
	playerTile, ok := takeTile(&free, want)
	if !ok {
		playerTile, ok = takeTile(&free, grid.InvalidIndex)
	}
	if ok {
		e := g.spawnOnTile("player", playerTile, &components.Collider{Group: GroupPlayer, Obstacle: true},
			&components.RigidBody{Type: components.BodyKinematic})
		g.player = mover.New(g.grid, e, g.moverOpts)
		g.player.SetLogger(g.logger)
		g.player.SetSpeedMultiplier(g.controls.SpeedMultiplier)
		g.watch(g.player)
	}

	g.rng.Shuffle(len(free), func(i, j int) { free[i], free[j] = free[j], free[i] })

	if need := cfg.Simulation.Crates + cfg.Simulation.Walkers; need > len(free) {
		return fmt.Errorf("spawning population: %d entities need free tiles, only %d left", need, len(free))
	}

	for i := 0; i < cfg.Simulation.Crates; i++ {
		idx, _ := takeTile(&free, grid.InvalidIndex)
		g.spawnOnTile(fmt.Sprintf("crate-%d", i), idx, &components.Collider{Group: GroupCrate, Obstacle: true}, nil)
		g.crates++
	}

	for i := 0; i < cfg.Simulation.Walkers; i++ {
		idx, _ := takeTile(&free, grid.InvalidIndex)
		e := g.spawnOnTile(fmt.Sprintf("walker-%d", i), idx, &components.Collider{Group: GroupWalker, Obstacle: true}, nil)

		// One strategy per walker, searches reuse their buffers
		strategy, _ := pathfind.NewStrategy(cfg.Target.Strategy)
		w := mover.NewTarget(g.grid, e, strategy, g.moverOpts)
		w.SetLogger(g.logger)
		w.SetAdaptiveMoveEnable(g.controls.Adaptive)
		w.SetSpeedMultiplier(g.controls.SpeedMultiplier)
		if !cfg.Target.StartMoving {
			w.StopMovement()
		}
		g.watch(w.GridMover)
		g.walkers = append(g.walkers, w)
		g.idleTicks = append(g.idleTicks, 0)
	}
	return nil
}

// spawnOnTile creates an entity and registers it as a child of the grid.
func (g *Game) spawnOnTile(name string, idx grid.Index, col *components.Collider, body *components.RigidBody) ecs.Entity {
	t, _ := g.grid.Tile(idx)
	x, y := t.Center()
	e := g.scene.Spawn(scene.SpawnSpec{Name: name, X: x, Y: y, Collider: col, RigidBody: body})
	g.grid.AddChild(e, idx)
	return e
}

// freeTiles lists accessible tiles without children, row-major.
func (g *Game) freeTiles() []grid.Index {
	var free []grid.Index
	g.grid.ForEachTile(func(t grid.Tile) {
		if !t.Collidable && !g.grid.IsTileOccupied(t.Index) {
			free = append(free, t.Index)
		}
	})
	return free
}

// takeTile removes want from free and returns it. InvalidIndex takes the
// last entry.
func takeTile(free *[]grid.Index, want grid.Index) (grid.Index, bool) {
	list := *free
	if len(list) == 0 {
		return grid.InvalidIndex, false
	}
	if want == grid.InvalidIndex {
		idx := list[len(list)-1]
		*free = list[:len(list)-1]
		return idx, true
	}
	for i, idx := range list {
		if idx == want {
			*free = append(list[:i], list[i+1:]...)
			return idx, true
		}
	}
	return grid.InvalidIndex, false
}

// walkerPatience is how many idle ticks a walker waits on a blocked path
// before giving up on its destination.
const walkerPatience = 180

// planWalkers gives idle walkers a new random destination.
func (g *Game) planWalkers() {
	for i, w := range g.walkers {
		if w.IsTargetMoving() {
			g.idleTicks[i] = 0
			continue
		}
		g.idleTicks[i]++

		if !w.IsMovementStarted() {
			if !g.cfg.Target.StartMoving {
				continue
			}
			// Stopped by a collision, try somewhere else
			w.StartMovement()
		} else if _, ok := w.Destination(); ok && !w.HasArrived() && w.PathLen() > 0 && g.idleTicks[i] < walkerPatience {
			continue
		}
		g.idleTicks[i] = 0
		g.pickDestination(w)
	}
}

// pickDestination sends w to a random free tile other than its own.
func (g *Game) pickDestination(w *mover.TargetGridMover) {
	rows, cols := g.grid.Rows(), g.grid.Cols()
	cur := w.CurrentTile().Index
	for attempt := 0; attempt < 8; attempt++ {
		idx := grid.Index{Row: g.rng.Intn(rows), Col: g.rng.Intn(cols)}
		if idx == cur || g.grid.IsCollidable(idx) || g.grid.IsTileOccupied(idx) {
			continue
		}
		w.SetDestination(idx)
		return
	}
}
