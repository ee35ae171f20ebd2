package pathfind

import "github.com/pthm-cable/tilewalk/grid"

// Strategy finds paths on a grid.
type Strategy interface {
	// FindPath returns the indices leading from src to dst in traversal
	// order. src is excluded and dst is last. The path is empty when src
	// equals dst, either index is out of bounds, or dst is unreachable.
	FindPath(g *grid.Grid, src, dst grid.Index) []grid.Index
	// Type names the algorithm.
	Type() string
}

// Avoider is implemented by strategies that can search around tiles the
// grid itself considers walkable, such as tiles held by obstacle entities.
type Avoider interface {
	// FindPathAvoiding behaves like FindPath with every index in avoid
	// treated as collidable.
	FindPathAvoiding(g *grid.Grid, src, dst grid.Index, avoid AvoidSet) []grid.Index
}

// Explorer reports the effort of the most recent search.
type Explorer interface {
	LastExplored() int
}

// AvoidSet is a set of indices a search must not enter. The nil set is
// empty.
type AvoidSet map[grid.Index]struct{}

// NewAvoidSet builds a set from idx.
func NewAvoidSet(idx ...grid.Index) AvoidSet {
	s := make(AvoidSet, len(idx))
	for _, i := range idx {
		s[i] = struct{}{}
	}
	return s
}

// Has reports whether idx is in the set.
func (s AvoidSet) Has(idx grid.Index) bool {
	_, ok := s[idx]
	return ok
}

// Node is an explored index and the index it was reached from.
// The search root is its own parent.
type Node struct {
	Index  grid.Index
	Parent grid.Index
}

// Backtrack rebuilds the path to target by following parent links through
// the explored nodes until it reaches the self-parented root. Returns nil if
// target was never explored.
func Backtrack(explored []Node, target grid.Index) []grid.Index {
	parents := make(map[grid.Index]grid.Index, len(explored))
	for _, n := range explored {
		if _, seen := parents[n.Index]; !seen {
			parents[n.Index] = n.Parent
		}
	}
	if _, ok := parents[target]; !ok {
		return nil
	}

	var path []grid.Index
	cur := target
	for {
		parent := parents[cur]
		if parent == cur {
			break
		}
		path = append(path, cur)
		if _, ok := parents[parent]; !ok {
			// Broken chain
			return nil
		}
		cur = parent
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// ValidatePath reports whether path is a walkable route from src on the
// grid as it is now: every step is 4-adjacent, in bounds and not collidable.
func ValidatePath(g *grid.Grid, src grid.Index, path []grid.Index) bool {
	prev := src
	for _, idx := range path {
		if prev.Manhattan(idx) != 1 {
			return false
		}
		if !g.IsIndexValid(idx) || g.IsCollidable(idx) {
			return false
		}
		prev = idx
	}
	return true
}
