package grid

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/tilewalk/physics"
	"github.com/pthm-cable/tilewalk/scene"
)

// newTestGrid builds a grid of 32px tiles with 1px spacing from string rows.
// 'X' marks collidable tiles.
func newTestGrid(t *testing.T, rows ...string) (*Grid, *scene.Scene) {
	t.Helper()
	sc := scene.New()
	g := New(sc, Options{TileWidth: 32, TileHeight: 32, Spacing: 1})
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

func TestIndexValidity(t *testing.T) {
	g, _ := newTestGrid(t, "....", "....", "....")

	for row := -2; row <= 4; row++ {
		for col := -2; col <= 5; col++ {
			want := row >= 0 && row < 3 && col >= 0 && col < 4
			if got := g.IsIndexValid(Index{row, col}); got != want {
				t.Errorf("IsIndexValid({%d,%d}) = %v, want %v", row, col, got, want)
			}
		}
	}
}

func TestTileIndexMatchesStorage(t *testing.T) {
	g, _ := newTestGrid(t, "abc", "def")

	g.ForEachTile(func(tile Tile) {
		stored, ok := g.Tile(tile.Index)
		if !ok || stored.Index != tile.Index {
			t.Errorf("tile %v not stored at its own index", tile.Index)
		}
	})
	tile, _ := g.Tile(Index{1, 2})
	if tile.ID != 'f' {
		t.Errorf("expected id 'f' at {1,2}, got %q", tile.ID)
	}
}

func TestTileLayout(t *testing.T) {
	g, _ := newTestGrid(t, "...", "...")

	w, h := g.Size()
	if w != 3*33+1 || h != 2*33+1 {
		t.Errorf("expected size (100, 67), got (%v, %v)", w, h)
	}

	tile, _ := g.Tile(Index{1, 2})
	if tile.X != 67 || tile.Y != 34 {
		t.Errorf("expected tile {1,2} at (67, 34), got (%v, %v)", tile.X, tile.Y)
	}
	cx, cy := tile.Center()
	if cx != 83 || cy != 50 {
		t.Errorf("expected centre (83, 50), got (%v, %v)", cx, cy)
	}
}

func TestNeighboursAreInverse(t *testing.T) {
	g, _ := newTestGrid(t, "....", "....", "....")

	g.ForEachTile(func(tile Tile) {
		below, ok := g.TileBelow(tile.Index)
		if !ok {
			if tile.Index.Row != 2 {
				t.Errorf("expected a tile below %v", tile.Index)
			}
			return
		}
		back, ok := g.TileAbove(below.Index)
		if !ok || back.Index != tile.Index {
			t.Errorf("above(below(%v)) = %v", tile.Index, back.Index)
		}
	})
}

func TestNeighbourAtEdges(t *testing.T) {
	g, _ := newTestGrid(t, "...", "...")

	checks := []struct {
		name string
		fn   func(Index) (Tile, bool)
		idx  Index
	}{
		{"above top row", g.TileAbove, Index{0, 1}},
		{"below bottom row", g.TileBelow, Index{1, 1}},
		{"left of first col", g.TileLeftOf, Index{1, 0}},
		{"right of last col", g.TileRightOf, Index{0, 2}},
	}
	for _, c := range checks {
		tile, ok := c.fn(c.idx)
		if ok {
			t.Errorf("%s: expected no tile, got %v", c.name, tile.Index)
		}
		if tile.Index != InvalidIndex {
			t.Errorf("%s: expected invalid index, got %v", c.name, tile.Index)
		}
	}

	if tile, ok := g.Neighbour(Index{0, 0}, DownRight); !ok || tile.Index != (Index{1, 1}) {
		t.Errorf("expected diagonal neighbour {1,1}, got %v (ok=%v)", tile.Index, ok)
	}
}

func TestTileAt(t *testing.T) {
	g, _ := newTestGrid(t, "...", "...")

	tile, ok := g.TileAt(40, 40)
	if !ok || tile.Index != (Index{1, 1}) {
		t.Errorf("expected {1,1} at (40, 40), got %v (ok=%v)", tile.Index, ok)
	}
	if _, ok := g.TileAt(33.5, 10); ok {
		t.Error("expected spacing gap to belong to no tile")
	}
	if _, ok := g.TileAt(-5, 10); ok {
		t.Error("expected point left of grid to miss")
	}
	if _, ok := g.TileAt(500, 10); ok {
		t.Error("expected point right of grid to miss")
	}
}

func TestLoadFromReader(t *testing.T) {
	sc := scene.New()
	g := New(sc, Options{TileWidth: 8, TileHeight: 8})

	src := "# comment\n\na,b,c\n\nd,e,f\n"
	if err := g.LoadFromReader(strings.NewReader(src), ','); err != nil {
		t.Fatalf("loading: %v", err)
	}
	if g.Rows() != 2 || g.Cols() != 3 {
		t.Fatalf("expected 2x3 grid, got %dx%d", g.Rows(), g.Cols())
	}
	if tile, _ := g.Tile(Index{1, 0}); tile.ID != 'd' {
		t.Errorf("expected 'd' at {1,0}, got %q", tile.ID)
	}
}

func TestLoadErrors(t *testing.T) {
	sc := scene.New()
	g := New(sc, Options{TileWidth: 8, TileHeight: 8})

	if err := g.LoadFromReader(strings.NewReader("# only comments\n\n"), 0); !errors.Is(err, ErrEmptyMap) {
		t.Errorf("expected ErrEmptyMap, got %v", err)
	}
	if err := g.LoadFromReader(strings.NewReader("...\n..\n"), 0); !errors.Is(err, ErrRaggedMap) {
		t.Errorf("expected ErrRaggedMap, got %v", err)
	}
	if err := g.LoadFromVector(nil); !errors.Is(err, ErrEmptyMap) {
		t.Errorf("expected ErrEmptyMap for nil vector, got %v", err)
	}
	if err := g.Construct(0, 3, '.'); !errors.Is(err, ErrEmptyMap) {
		t.Errorf("expected ErrEmptyMap for zero rows, got %v", err)
	}
	if err := g.LoadFromFile(filepath.Join(t.TempDir(), "missing.txt"), 0); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.txt")
	if err := os.WriteFile(path, []byte("XXXX\nX..X\nXXXX\n"), 0644); err != nil {
		t.Fatal(err)
	}

	sc := scene.New()
	g := New(sc, Options{TileWidth: 8, TileHeight: 8})
	if err := g.LoadFromFile(path, 0); err != nil {
		t.Fatalf("loading file: %v", err)
	}
	if g.Rows() != 3 || g.Cols() != 4 {
		t.Errorf("expected 3x4 grid, got %dx%d", g.Rows(), g.Cols())
	}

	walls := 0
	g.ForEachTileWithID('X', func(Tile) { walls++ })
	if walls != 10 {
		t.Errorf("expected 10 wall tiles, got %d", walls)
	}
	floors := 0
	g.ForEachTileExcept('X', func(Tile) { floors++ })
	if floors != 2 {
		t.Errorf("expected 2 floor tiles, got %d", floors)
	}
}

func TestCollidability(t *testing.T) {
	g, _ := newTestGrid(t, "..X", "...")

	if !g.IsCollidable(Index{0, 2}) {
		t.Error("expected wall at {0,2}")
	}
	if g.IsCollidable(Index{5, 5}) {
		t.Error("expected out-of-bounds index to not be collidable")
	}

	g.SetCollidableByIndex(Index{1, 0}, true, false)
	tile, _ := g.Tile(Index{1, 0})
	if !tile.Collidable || tile.Fill != g.Style().CollidableFill {
		t.Error("expected {1,0} collidable and recoloured")
	}

	g.SetCollidableByExclusion('X', true, false)
	count := 0
	g.ForEachTile(func(tile Tile) {
		if tile.Collidable {
			count++
		}
	})
	if count != 6 {
		t.Errorf("expected every tile collidable, got %d", count)
	}

	g.SetCollidableByIndices([]Index{{0, 0}, {0, 1}, {9, 9}}, false, false)
	if g.IsCollidable(Index{0, 0}) || g.IsCollidable(Index{0, 1}) {
		t.Error("expected {0,0} and {0,1} cleared")
	}
}

func TestCollidableRangeIsSameRowOnly(t *testing.T) {
	g, _ := newTestGrid(t, ".....", ".....")

	g.SetCollidableByRange(Index{0, 1}, Index{0, 3}, true, false)
	for c := 0; c < 5; c++ {
		want := c >= 1 && c <= 3
		if got := g.IsCollidable(Index{0, c}); got != want {
			t.Errorf("{0,%d}: collidable = %v, want %v", c, got, want)
		}
	}

	g.SetCollidableByRange(Index{0, 0}, Index{1, 4}, true, false)
	visited := 0
	g.ForEachTileInRange(Index{0, 0}, Index{1, 4}, func(Tile) { visited++ })
	if visited != 0 {
		t.Errorf("expected cross-row range to visit nothing, got %d", visited)
	}
	if g.IsCollidable(Index{1, 2}) {
		t.Error("expected cross-row range to change nothing")
	}
}

func TestCollidersFollowCollidability(t *testing.T) {
	sc := scene.New()
	world := physics.NewWorld(sc)
	g := New(sc, Options{TileWidth: 32, TileHeight: 32, Physics: world})
	if err := g.Construct(2, 2, '.'); err != nil {
		t.Fatal(err)
	}

	g.SetCollidableByIndex(Index{0, 1}, true, true)
	tile, _ := g.Tile(Index{0, 1})
	if !tile.HasCollider() || !world.HasBody(tile.Collider) {
		t.Fatal("expected a static body on {0,1}")
	}
	first := tile.Collider

	g.SetCollidableByIndex(Index{0, 1}, true, true)
	tile, _ = g.Tile(Index{0, 1})
	if tile.Collider != first || world.StaticCount() != 1 {
		t.Error("expected existing collider to be kept")
	}

	g.SetCollidableByIndex(Index{1, 1}, true, false)
	if world.StaticCount() != 1 {
		t.Error("expected no collider without attach")
	}

	g.SetCollidableByIndex(Index{0, 1}, false, false)
	if world.HasBody(first) {
		t.Error("expected collider removed with collidability")
	}

	g.SetCollidableByIndex(Index{0, 0}, true, true)
	g.Destroy()
	if world.StaticCount() != 0 {
		t.Errorf("expected destroy to release colliders, got %d", world.StaticCount())
	}
}

func TestChildren(t *testing.T) {
	g, sc := newTestGrid(t, "...", "...")

	e := sc.Spawn(scene.SpawnSpec{Name: "walker"})
	if g.AddChild(e, Index{3, 0}) {
		t.Error("expected invalid index to be rejected")
	}
	if !g.AddChild(e, Index{1, 1}) {
		t.Fatal("expected child to be added")
	}
	if g.AddChild(e, Index{0, 0}) {
		t.Error("expected second add to be rejected")
	}

	other := New(sc, Options{TileWidth: 32, TileHeight: 32})
	if err := other.Construct(2, 2, '.'); err != nil {
		t.Fatal(err)
	}
	if other.AddChild(e, Index{0, 0}) {
		t.Error("expected entity to belong to one grid only")
	}

	pos := sc.Position(e)
	if pos.X != 50 || pos.Y != 50 {
		t.Errorf("expected child centred at (50, 50), got (%v, %v)", pos.X, pos.Y)
	}
	if id, ok := sc.Membership(e); !ok || id != g.ID() {
		t.Errorf("expected membership of grid %d, got %d (ok=%v)", g.ID(), id, ok)
	}
	if !g.IsTileOccupied(Index{1, 1}) || g.IsTileOccupied(Index{0, 0}) {
		t.Error("unexpected occupancy")
	}

	g.ChangeTile(e, Index{0, 2})
	tile, ok := g.TileOccupiedByChild(e)
	if !ok || tile.Index != (Index{0, 2}) {
		t.Errorf("expected child on {0,2}, got %v", tile.Index)
	}
	if pos.X != 83 || pos.Y != 17 {
		t.Errorf("expected child recentred at (83, 17), got (%v, %v)", pos.X, pos.Y)
	}

	g.ChangeTile(e, Index{-1, 0})
	if tile, _ := g.TileOccupiedByChild(e); tile.Index != (Index{0, 2}) {
		t.Error("expected invalid ChangeTile to be ignored")
	}

	if !g.RemoveChild(e) {
		t.Fatal("expected child removal")
	}
	if _, ok := sc.Membership(e); ok {
		t.Error("expected membership cleared")
	}
	if g.RemoveChild(e) {
		t.Error("expected second removal to fail")
	}
}

func TestOccupancyIsMultiset(t *testing.T) {
	g, sc := newTestGrid(t, "...")

	a := sc.Spawn(scene.SpawnSpec{Name: "a"})
	b := sc.Spawn(scene.SpawnSpec{Name: "b"})
	g.AddChild(a, Index{0, 1})
	g.AddChild(b, Index{0, 1})

	occ := g.Occupants(Index{0, 1})
	if len(occ) != 2 || occ[0] != a || occ[1] != b {
		t.Errorf("expected both children in insertion order, got %v", occ)
	}
}

func TestRemoveChildVariants(t *testing.T) {
	g, sc := newTestGrid(t, "....")

	var es []ecs.Entity
	for c := 0; c < 4; c++ {
		e := sc.Spawn(scene.SpawnSpec{})
		g.AddChild(e, Index{0, c})
		es = append(es, e)
	}

	if !g.RemoveChildWithID(es[0].ID()) {
		t.Error("expected removal by id")
	}
	removed := g.RemoveChildIf(func(e ecs.Entity) bool {
		tile, _ := g.TileOccupiedByChild(e)
		return tile.Index.Col >= 2
	})
	if removed != 2 || g.ChildCount() != 1 {
		t.Errorf("expected 2 removed and 1 left, got %d and %d", removed, g.ChildCount())
	}

	g.RemoveAllChildren()
	if g.ChildCount() != 0 {
		t.Errorf("expected no children, got %d", g.ChildCount())
	}
}

func TestDestroyedEntityLeavesGrid(t *testing.T) {
	g, sc := newTestGrid(t, "...")

	e := sc.Spawn(scene.SpawnSpec{})
	g.AddChild(e, Index{0, 0})
	sc.Destroy(e)

	if g.HasChild(e) || g.IsTileOccupied(Index{0, 0}) {
		t.Error("expected destroyed entity to be removed from grid")
	}
}

func TestDestroyDetachesButKeepsChildren(t *testing.T) {
	g, sc := newTestGrid(t, "...")

	e := sc.Spawn(scene.SpawnSpec{})
	g.AddChild(e, Index{0, 0})
	g.Destroy()

	if !sc.Alive(e) {
		t.Error("expected child to survive grid destruction")
	}
	if _, ok := sc.Membership(e); ok {
		t.Error("expected membership cleared on destroy")
	}
}

func TestReloadDetachesChildren(t *testing.T) {
	g, sc := newTestGrid(t, "...")

	e := sc.Spawn(scene.SpawnSpec{})
	g.AddChild(e, Index{0, 2})
	if err := g.Construct(1, 1, '.'); err != nil {
		t.Fatal(err)
	}
	if g.HasChild(e) {
		t.Error("expected reload to detach children")
	}
}

func TestSetPositionMovesEverything(t *testing.T) {
	g, sc := newTestGrid(t, "..")

	e := sc.Spawn(scene.SpawnSpec{})
	g.AddChild(e, Index{0, 0})
	g.SetPosition(100, 10)

	tile, _ := g.Tile(Index{0, 0})
	if tile.X != 101 || tile.Y != 11 {
		t.Errorf("expected tile at (101, 11), got (%v, %v)", tile.X, tile.Y)
	}
	pos := sc.Position(e)
	if pos.X != 117 || pos.Y != 27 {
		t.Errorf("expected child at (117, 27), got (%v, %v)", pos.X, pos.Y)
	}
}

func TestForEachChildInTile(t *testing.T) {
	g, sc := newTestGrid(t, "...")

	a := sc.Spawn(scene.SpawnSpec{})
	b := sc.Spawn(scene.SpawnSpec{})
	g.AddChild(a, Index{0, 0})
	g.AddChild(b, Index{0, 2})

	var seen []ecs.Entity
	g.ForEachChildInTile(Index{0, 2}, func(e ecs.Entity) { seen = append(seen, e) })
	if len(seen) != 1 || seen[0] != b {
		t.Errorf("expected only b on {0,2}, got %v", seen)
	}

	total := 0
	g.ForEachChild(func(ecs.Entity) { total++ })
	if total != 2 {
		t.Errorf("expected 2 children, got %d", total)
	}
}

func TestDirectionBetween(t *testing.T) {
	from := Index{2, 2}
	for _, d := range Directions {
		if got := DirectionBetween(from, from.Step(d)); got != d {
			t.Errorf("DirectionBetween(%v, step %s) = %s", from, d, got)
		}
		if d.Opposite().Opposite() != d {
			t.Errorf("opposite of opposite of %s is not itself", d)
		}
	}
	if DirectionBetween(from, from) != None {
		t.Error("expected None for equal indices")
	}
	if DirectionBetween(from, Index{2, 4}) != None {
		t.Error("expected None for non-adjacent indices")
	}
}
