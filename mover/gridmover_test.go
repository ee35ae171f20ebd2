package mover

import (
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/tilewalk/components"
	"github.com/pthm-cable/tilewalk/event"
	"github.com/pthm-cable/tilewalk/grid"
	"github.com/pthm-cable/tilewalk/physics"
	"github.com/pthm-cable/tilewalk/scene"
)

// 64 px/s over 32 px tiles with dt 1/8 s takes exactly four frames per tile.
const (
	testDT    = 0.125
	testSpeed = 64
)

var testOpts = Options{MaxSpeedX: testSpeed, MaxSpeedY: testSpeed, Restriction: RestrictNone}

// newTestGrid builds a grid of 32px tiles without spacing. 'X' is collidable.
func newTestGrid(t *testing.T, rows ...string) (*grid.Grid, *scene.Scene) {
	t.Helper()
	sc := scene.New()
	g := grid.New(sc, grid.Options{TileWidth: 32, TileHeight: 32})
	ids := make([][]byte, len(rows))
	for i, r := range rows {
		ids[i] = []byte(r)
	}
	if err := g.LoadFromVector(ids); err != nil {
		t.Fatalf("loading grid: %v", err)
	}
	g.SetCollidableByID('X', true, false)
	return g, sc
}

func openGrid(t *testing.T) (*grid.Grid, *scene.Scene) {
	return newTestGrid(t, ".....", ".....", ".....", ".....", ".....")
}

func idx(row, col int) grid.Index {
	return grid.Index{Row: row, Col: col}
}

// spawnAt creates a child on the tile at i.
func spawnAt(t *testing.T, g *grid.Grid, sc *scene.Scene, i grid.Index, spec scene.SpawnSpec) ecs.Entity {
	t.Helper()
	e := sc.Spawn(spec)
	if !g.AddChild(e, i) {
		t.Fatalf("adding child at %v", i)
	}
	return e
}

func walker() scene.SpawnSpec {
	return scene.SpawnSpec{Name: "walker", Collider: &components.Collider{Group: "walker"}}
}

func crate() scene.SpawnSpec {
	return scene.SpawnSpec{Name: "crate", Collider: &components.Collider{Group: "crate", Obstacle: true}}
}

func centre(g *grid.Grid, i grid.Index) (float32, float32) {
	tile, _ := g.Tile(i)
	return tile.Center()
}

func run(m interface{ Update(float32) }, frames int) {
	for i := 0; i < frames; i++ {
		m.Update(testDT)
	}
}

func expectPanic(t *testing.T, what string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("expected panic: %s", what)
		}
	}()
	fn()
}

func TestMoveOneTileRight(t *testing.T) {
	g, sc := openGrid(t)
	e := spawnAt(t, g, sc, idx(2, 2), walker())
	m := New(g, e, testOpts)

	if !m.RequestMove(grid.Right) {
		t.Fatal("expected request to be accepted")
	}
	if m.IsTargetMoving() {
		t.Error("expected request alone not to start motion")
	}

	run(m, 3)
	if !m.IsTargetMoving() {
		t.Fatal("expected move in progress after 3 frames")
	}
	if got := sc.Position(e).X; got != 104 {
		t.Errorf("expected x=104 after 3 frames, got %v", got)
	}

	run(m, 1)
	if m.IsTargetMoving() {
		t.Error("expected move to be finished after 4 frames")
	}
	if m.CurrentTile().Index != idx(2, 3) {
		t.Errorf("expected entity on {2,3}, got %v", m.CurrentTile().Index)
	}
	if m.PrevTile().Index != idx(2, 2) {
		t.Errorf("expected previous tile {2,2}, got %v", m.PrevTile().Index)
	}
	x, y := centre(g, idx(2, 3))
	if pos := sc.Position(e); pos.X != x || pos.Y != y {
		t.Errorf("expected entity snapped to (%v, %v), got (%v, %v)", x, y, pos.X, pos.Y)
	}

	ev := m.Events()
	if ev.Count(event.MoveBegin) != 1 || ev.Count(event.MoveEnd) != 1 {
		t.Errorf("expected one move_begin and one move_end, got %d and %d",
			ev.Count(event.MoveBegin), ev.Count(event.MoveEnd))
	}
	if m.Direction() != grid.None || m.PrevDirection() != grid.Right {
		t.Errorf("expected direction none after right, got %s after %s", m.Direction(), m.PrevDirection())
	}
}

func TestMoveEndCarriesDestination(t *testing.T) {
	g, sc := openGrid(t)
	e := spawnAt(t, g, sc, idx(2, 2), walker())
	m := New(g, e, testOpts)

	var got grid.Index
	m.Events().On(event.MoveEnd, func(ev event.Event) {
		got, _ = ev.Index()
	})
	m.RequestMove(grid.Down)
	run(m, 4)

	if got != idx(3, 2) {
		t.Errorf("expected move_end at {3,2}, got %v", got)
	}
}

func TestDestinationClaimedWhileMoving(t *testing.T) {
	g, sc := openGrid(t)
	e := spawnAt(t, g, sc, idx(2, 2), walker())
	m := New(g, e, testOpts)

	m.RequestMove(grid.Right)
	run(m, 1)

	tile, _ := g.TileOccupiedByChild(e)
	if tile.Index != idx(2, 3) {
		t.Errorf("expected grid to register {2,3} at move start, got %v", tile.Index)
	}
	if g.IsTileOccupied(idx(2, 2)) {
		t.Error("expected source tile to be released")
	}
	if got := sc.Position(e).X; got != 88 {
		t.Errorf("expected entity drawn at x=88 after one frame, got %v", got)
	}
}

func TestRequestMoveRejectedWhileBusy(t *testing.T) {
	g, sc := openGrid(t)
	e := spawnAt(t, g, sc, idx(2, 2), walker())
	m := New(g, e, testOpts)

	m.RequestMove(grid.Right)
	if m.RequestMove(grid.Left) {
		t.Error("expected second request to be rejected while pending")
	}

	run(m, 1)
	x := sc.Position(e).X
	for _, d := range grid.Directions {
		if m.RequestMove(d) {
			t.Errorf("expected %s to be rejected while moving", d)
		}
	}
	if m.TargetDirection() != grid.Right || m.Direction() != grid.Right {
		t.Error("expected in-flight move to be untouched")
	}
	if sc.Position(e).X != x {
		t.Error("expected rejected requests not to move the entity")
	}
	if m.Events().Count(event.DirectionChange) != 1 {
		t.Errorf("expected a single direction_change, got %d", m.Events().Count(event.DirectionChange))
	}

	run(m, 3)
	if !m.RequestMove(grid.Left) {
		t.Error("expected request to be accepted once idle")
	}
}

func TestRequestMoveRejectsInvalidDirection(t *testing.T) {
	g, sc := openGrid(t)
	e := spawnAt(t, g, sc, idx(2, 2), walker())
	m := New(g, e, testOpts)

	if m.RequestMove(grid.None) {
		t.Error("expected None to be rejected")
	}
	if m.RequestMove(grid.Direction(42)) {
		t.Error("expected unknown direction to be rejected")
	}

	detached := NewDetached(g, testOpts)
	if detached.RequestMove(grid.Up) {
		t.Error("expected detached mover to reject requests")
	}
}

func TestBorderCollision(t *testing.T) {
	g, sc := openGrid(t)
	e := spawnAt(t, g, sc, idx(0, 4), walker())
	m := New(g, e, testOpts)

	x, y := centre(g, idx(0, 4))
	for _, d := range []grid.Direction{grid.Right, grid.Up, grid.UpRight} {
		m.RequestMove(d)
		m.Update(testDT)
		if m.CurrentTile().Index != idx(0, 4) {
			t.Errorf("%s: expected entity to stay on {0,4}, got %v", d, m.CurrentTile().Index)
		}
		if pos := sc.Position(e); pos.X != x || pos.Y != y {
			t.Errorf("%s: expected position unchanged", d)
		}
	}

	if got := m.Events().Count(event.BorderCollision); got != 3 {
		t.Errorf("expected one border_collision per request, got %d", got)
	}
	if m.Events().Count(event.MoveBegin) != 0 {
		t.Error("expected no move to begin")
	}
	if m.TargetDirection() != grid.None {
		t.Error("expected requested direction cleared after collision")
	}
}

func TestTileCollision(t *testing.T) {
	g, sc := openGrid(t)
	e := spawnAt(t, g, sc, idx(2, 2), walker())
	m := New(g, e, testOpts)

	var blocked []grid.Index
	m.Events().On(event.TileCollision, func(ev event.Event) {
		i, _ := ev.Index()
		blocked = append(blocked, i)
	})

	m.RequestMove(grid.Right)
	g.SetCollidableByIndex(idx(2, 3), true, false)
	m.Update(testDT)

	if m.CurrentTile().Index != idx(2, 2) {
		t.Errorf("expected entity to stay on {2,2}, got %v", m.CurrentTile().Index)
	}
	if len(blocked) != 1 || blocked[0] != idx(2, 3) {
		t.Errorf("expected one tile_collision at {2,3}, got %v", blocked)
	}
	x, y := centre(g, idx(2, 2))
	if pos := sc.Position(e); pos.X != x || pos.Y != y {
		t.Error("expected entity not to be repositioned")
	}
	if m.IsTargetMoving() {
		t.Error("expected no move in progress")
	}
}

func TestRestrictions(t *testing.T) {
	g, sc := openGrid(t)

	cases := []struct {
		r       Restriction
		allowed []grid.Direction
	}{
		{RestrictNone, grid.Directions[:]},
		{RestrictAll, nil},
		{RestrictHorizontal, []grid.Direction{grid.Left, grid.Right}},
		{RestrictVertical, []grid.Direction{grid.Up, grid.Down}},
		{RestrictDiagonal, []grid.Direction{grid.UpLeft, grid.UpRight, grid.DownLeft, grid.DownRight}},
		{RestrictNonDiagonal, []grid.Direction{grid.Left, grid.Right, grid.Up, grid.Down}},
	}

	for _, c := range cases {
		t.Run(c.r.String(), func(t *testing.T) {
			e := spawnAt(t, g, sc, idx(2, 2), walker())
			opts := testOpts
			opts.Restriction = c.r
			m := New(g, e, opts)
			defer func() {
				m.Destroy()
				g.RemoveChild(e)
			}()

			allowed := make(map[grid.Direction]bool)
			for _, d := range c.allowed {
				allowed[d] = true
			}
			for _, d := range grid.Directions {
				got := m.RequestMove(d)
				if got != allowed[d] {
					t.Errorf("%s: accepted=%v, want %v", d, got, allowed[d])
				}
				if got {
					// Cancel the pending request for the next direction
					m.ResetTargetTile()
				}
			}
		})
	}
}

func TestRestrictionNeedsEqualSpeeds(t *testing.T) {
	g, _ := openGrid(t)
	m := NewDetached(g, Options{MaxSpeedX: 64, MaxSpeedY: 32, Restriction: RestrictNonDiagonal})

	expectPanic(t, "diagonal restriction with unequal speeds", func() {
		m.SetMovementRestriction(RestrictDiagonal)
	})
	expectPanic(t, "unequal speeds under a diagonal restriction", func() {
		NewDetached(g, Options{MaxSpeedX: 64, MaxSpeedY: 32, Restriction: RestrictNone})
	})

	m.SetMovementRestriction(RestrictHorizontal)
	if m.MovementRestriction() != RestrictHorizontal {
		t.Error("expected horizontal restriction to be accepted")
	}
}

func TestParseRestriction(t *testing.T) {
	for _, name := range []string{"none", "all", "horizontal", "vertical", "diagonal", "non_diagonal"} {
		r, err := ParseRestriction(name)
		if err != nil {
			t.Errorf("parsing %q: %v", name, err)
		}
		if r.String() != name {
			t.Errorf("expected %q to round-trip, got %q", name, r.String())
		}
	}
	if _, err := ParseRestriction("sideways"); err == nil {
		t.Error("expected error for unknown restriction")
	}
}

func TestAllowsCardinal(t *testing.T) {
	want := map[Restriction]bool{
		RestrictNone:        true,
		RestrictNonDiagonal: true,
		RestrictAll:         false,
		RestrictHorizontal:  false,
		RestrictVertical:    false,
		RestrictDiagonal:    false,
	}
	for r, ok := range want {
		if r.AllowsCardinal() != ok {
			t.Errorf("%s: expected AllowsCardinal %v", r, ok)
		}
	}
}

func TestDiagonalMove(t *testing.T) {
	g, sc := openGrid(t)
	e := spawnAt(t, g, sc, idx(2, 2), walker())
	m := New(g, e, testOpts)

	m.RequestMove(grid.DownRight)
	run(m, 4)

	if m.CurrentTile().Index != idx(3, 3) || m.IsTargetMoving() {
		t.Errorf("expected arrival on {3,3}, got %v (moving=%v)", m.CurrentTile().Index, m.IsTargetMoving())
	}
}

func TestSpeedMultiplier(t *testing.T) {
	g, sc := openGrid(t)
	e := spawnAt(t, g, sc, idx(2, 2), walker())
	m := New(g, e, testOpts)
	m.SetSpeedMultiplier(2)

	m.RequestMove(grid.Left)
	run(m, 2)
	if m.IsTargetMoving() || m.CurrentTile().Index != idx(2, 1) {
		t.Errorf("expected double speed to finish in 2 frames, moving=%v tile=%v", m.IsTargetMoving(), m.CurrentTile().Index)
	}

	m.SetSpeedMultiplier(-1)
	if m.SpeedMultiplier() != 0 {
		t.Errorf("expected negative multiplier clamped to 0, got %v", m.SpeedMultiplier())
	}
}

func TestBlockingObstacle(t *testing.T) {
	g, sc := openGrid(t)
	e := spawnAt(t, g, sc, idx(2, 2), walker())
	box := spawnAt(t, g, sc, idx(2, 3), crate())
	m := New(g, e, testOpts)

	var hits []event.CollisionPayload
	m.Events().On(event.ObjectCollision, func(ev event.Event) {
		hits = append(hits, ev.Payload.(event.CollisionPayload))
	})

	m.RequestMove(grid.Right)
	m.Update(testDT)

	if m.CurrentTile().Index != idx(2, 2) || m.IsTargetMoving() {
		t.Error("expected obstacle to block the move")
	}
	if len(hits) != 1 {
		t.Fatalf("expected one object_collision, got %d", len(hits))
	}
	if hits[0].Mover != e || hits[0].Other != box || !hits[0].Obstacle {
		t.Errorf("unexpected collision payload %+v", hits[0])
	}
}

func TestObstacleFilterLetsThrough(t *testing.T) {
	g, sc := openGrid(t)
	e := spawnAt(t, g, sc, idx(2, 2), walker())
	spec := crate()
	spec.Collider.ObstacleFilter = []string{"walker"}
	spawnAt(t, g, sc, idx(2, 3), spec)
	m := New(g, e, testOpts)

	m.RequestMove(grid.Right)
	m.Update(testDT)
	if !m.IsTargetMoving() {
		t.Fatal("expected filtered obstacle to let the walker through")
	}
	if got := m.Events().Count(event.ObjectCollision); got != 1 {
		t.Errorf("expected contact reported on entry, got %d", got)
	}

	run(m, 3)
	if m.CurrentTile().Index != idx(2, 3) {
		t.Errorf("expected arrival on {2,3}, got %v", m.CurrentTile().Index)
	}
	if got := m.Events().Count(event.ObjectCollision); got != 1 {
		t.Errorf("expected no second report on arrival, got %d", got)
	}
}

func TestArrivalCollidesWithOccupants(t *testing.T) {
	g, sc := openGrid(t)
	e := spawnAt(t, g, sc, idx(2, 2), walker())
	other := spawnAt(t, g, sc, idx(2, 3), scene.SpawnSpec{Name: "coin", Collider: &components.Collider{Group: "pickup"}})
	m := New(g, e, testOpts)

	var hit event.CollisionPayload
	m.Events().On(event.ObjectCollision, func(ev event.Event) {
		hit = ev.Payload.(event.CollisionPayload)
	})

	m.RequestMove(grid.Right)
	run(m, 3)
	if m.Events().Count(event.ObjectCollision) != 0 {
		t.Error("expected no collision before arrival")
	}
	run(m, 1)
	if m.Events().Count(event.ObjectCollision) != 1 || hit.Other != other || hit.Obstacle {
		t.Errorf("expected one arrival collision with the coin, got %+v", hit)
	}
	if g.ChildCount() != 2 || len(g.Occupants(idx(2, 3))) != 2 {
		t.Error("expected both entities to share {2,3}")
	}
}

func TestIneligibleObstaclesDoNotBlock(t *testing.T) {
	cases := map[string]func(sc *scene.Scene, mover, box ecs.Entity){
		"different ids": func(sc *scene.Scene, _, box ecs.Entity) {
			c, _ := sc.Collider(box)
			c.ID = 7
		},
		"excluded group": func(sc *scene.Scene, mover, _ ecs.Entity) {
			c, _ := sc.Collider(mover)
			c.Exclusions = []string{"crate"}
		},
		"inactive obstacle": func(sc *scene.Scene, _, box ecs.Entity) {
			sc.SetActive(box, false)
		},
	}

	for name, prepare := range cases {
		t.Run(name, func(t *testing.T) {
			g, sc := openGrid(t)
			e := spawnAt(t, g, sc, idx(2, 2), walker())
			box := spawnAt(t, g, sc, idx(2, 3), crate())
			prepare(sc, e, box)
			m := New(g, e, testOpts)

			m.RequestMove(grid.Right)
			run(m, 4)
			if m.CurrentTile().Index != idx(2, 3) {
				t.Errorf("expected move through ineligible obstacle, got %v", m.CurrentTile().Index)
			}
			if m.Events().Count(event.ObjectCollision) != 0 {
				t.Error("expected no collision events")
			}
		})
	}
}

func TestCanCollide(t *testing.T) {
	sc := scene.New()
	a := sc.Spawn(walker())
	b := sc.Spawn(crate())
	plain := sc.Spawn(scene.SpawnSpec{})

	if !CanCollide(sc, a, b) || !CanCollide(sc, b, a) {
		t.Error("expected walker and crate to collide")
	}
	if CanCollide(sc, a, a) {
		t.Error("expected entity not to collide with itself")
	}
	if CanCollide(sc, a, plain) {
		t.Error("expected entity without collider not to collide")
	}

	c, _ := sc.Collider(b)
	c.Exclusions = []string{"walker"}
	if CanCollide(sc, a, b) {
		t.Error("expected exclusion on either side to prevent collision")
	}
}

func TestFreezeResumesWhereItLeftOff(t *testing.T) {
	g, sc := openGrid(t)
	e := spawnAt(t, g, sc, idx(2, 2), walker())
	m := New(g, e, testOpts)

	m.RequestMove(grid.Up)
	run(m, 2)
	y := sc.Position(e).Y

	m.SetMovementFreeze(true)
	run(m, 10)
	if sc.Position(e).Y != y || !m.IsTargetMoving() {
		t.Error("expected frozen mover to hold position and progress")
	}

	m.SetMovementFreeze(false)
	run(m, 2)
	if m.IsTargetMoving() || m.CurrentTile().Index != idx(1, 2) {
		t.Errorf("expected move to complete after unfreezing, tile=%v", m.CurrentTile().Index)
	}
}

func TestFrozenPendingRequestWaits(t *testing.T) {
	g, sc := openGrid(t)
	e := spawnAt(t, g, sc, idx(2, 2), walker())
	m := New(g, e, testOpts)

	m.SetMovementFreeze(true)
	m.RequestMove(grid.Left)
	run(m, 5)
	if m.IsTargetMoving() || m.TargetDirection() != grid.Left {
		t.Error("expected pending request to wait while frozen")
	}

	m.SetMovementFreeze(false)
	run(m, 4)
	if m.CurrentTile().Index != idx(2, 1) {
		t.Errorf("expected move after unfreeze, got %v", m.CurrentTile().Index)
	}
}

func TestKinematicBodyMovedByPhysics(t *testing.T) {
	g, sc := openGrid(t)
	world := physics.NewWorld(sc)
	spec := walker()
	spec.RigidBody = &components.RigidBody{Type: components.BodyKinematic}
	e := spawnAt(t, g, sc, idx(2, 2), spec)
	m := New(g, e, testOpts)

	m.RequestMove(grid.Right)
	m.Update(testDT)
	if vel := sc.Velocity(e); vel.X != testSpeed || vel.Y != 0 {
		t.Errorf("expected velocity (%v, 0), got (%v, %v)", testSpeed, vel.X, vel.Y)
	}
	if m.Events().Count(event.PreMove) != 0 {
		t.Error("expected no pre_move for physics-driven entities")
	}

	for i := 0; i < 8 && m.IsTargetMoving(); i++ {
		world.Step(testDT)
		m.Update(testDT)
	}
	if m.IsTargetMoving() || m.CurrentTile().Index != idx(2, 3) {
		t.Fatalf("expected arrival on {2,3}, got %v", m.CurrentTile().Index)
	}
	if vel := sc.Velocity(e); vel.X != 0 || vel.Y != 0 {
		t.Error("expected velocity cleared on arrival")
	}
	x, _ := centre(g, idx(2, 3))
	if sc.Position(e).X != x {
		t.Errorf("expected snap to x=%v, got %v", x, sc.Position(e).X)
	}
}

func TestAttachMisuse(t *testing.T) {
	g, sc := openGrid(t)
	e := spawnAt(t, g, sc, idx(2, 2), walker())
	New(g, e, testOpts)

	expectPanic(t, "second mover on the same entity", func() {
		New(g, e, testOpts)
	})
	expectPanic(t, "entity outside the grid", func() {
		New(g, sc.Spawn(walker()), testOpts)
	})
	expectPanic(t, "static rigid body", func() {
		spec := walker()
		spec.RigidBody = &components.RigidBody{Type: components.BodyStatic}
		New(g, spawnAt(t, g, sc, idx(0, 0), spec), testOpts)
	})
}

func TestDestroyReleasesTarget(t *testing.T) {
	g, sc := openGrid(t)
	e := spawnAt(t, g, sc, idx(2, 2), walker())
	m := New(g, e, testOpts)
	m.Destroy()

	if _, ok := sc.Controller(e); ok {
		t.Error("expected controller cleared")
	}
	if !sc.Alive(e) || !g.HasChild(e) {
		t.Error("expected entity to survive as a grid child")
	}

	m2 := New(g, e, testOpts)
	if got, ok := m2.Target(); !ok || got != e {
		t.Error("expected a new mover to take over")
	}
}

func TestDestroyedTargetDetaches(t *testing.T) {
	g, sc := openGrid(t)
	e := spawnAt(t, g, sc, idx(2, 2), walker())
	m := New(g, e, testOpts)

	m.RequestMove(grid.Right)
	m.Update(testDT)
	sc.Destroy(e)

	if _, ok := m.Target(); ok {
		t.Error("expected mover to drop a destroyed target")
	}
	m.Update(testDT)
	if m.IsTargetMoving() {
		t.Error("expected no motion without a target")
	}
}

func TestTeleportAndReset(t *testing.T) {
	g, sc := newTestGrid(t, "...", ".X.", "...")
	e := spawnAt(t, g, sc, idx(0, 0), walker())
	m := New(g, e, testOpts)

	if m.TeleportTarget(idx(1, 1)) {
		t.Error("expected teleport onto a wall to fail")
	}
	if !m.TeleportTarget(idx(2, 2)) {
		t.Fatal("expected teleport to succeed")
	}
	if m.CurrentTile().Index != idx(2, 2) {
		t.Errorf("expected mover re-anchored on {2,2}, got %v", m.CurrentTile().Index)
	}
	if m.Events().Count(event.TargetTileReset) != 1 {
		t.Error("expected one target_tile_reset")
	}

	// Moved behind the mover's back
	m.RequestMove(grid.Up)
	m.Update(testDT)
	g.ChangeTile(e, idx(0, 2))
	m.ResetTargetTile()
	if m.IsTargetMoving() || m.CurrentTile().Index != idx(0, 2) {
		t.Errorf("expected reset to cancel the move and adopt {0,2}, got %v", m.CurrentTile().Index)
	}
	x, y := centre(g, idx(0, 2))
	if pos := sc.Position(e); pos.X != x || pos.Y != y {
		t.Error("expected entity centred after reset")
	}
}

func TestSyncWith(t *testing.T) {
	g, sc := openGrid(t)
	lead := New(g, spawnAt(t, g, sc, idx(1, 1), walker()), testOpts)
	follow := New(g, spawnAt(t, g, sc, idx(3, 1), walker()), Options{MaxSpeedX: 10, MaxSpeedY: 10})

	lead.SetSpeedMultiplier(2)
	lead.RequestMove(grid.Right)
	lead.Update(testDT)
	follow.SyncWith(lead)

	if x, y := follow.Speed(); x != testSpeed || y != testSpeed || follow.SpeedMultiplier() != 2 {
		t.Error("expected speeds copied from the leader")
	}
	if follow.TargetDirection() != grid.Right {
		t.Errorf("expected follower to request right, got %s", follow.TargetDirection())
	}

	run(lead, 1)
	run(follow, 2)
	if lead.CurrentTile().Index != idx(1, 2) || follow.CurrentTile().Index != idx(3, 2) {
		t.Error("expected both movers to finish one tile right")
	}
}
