package pathfind

import (
	"container/heap"
	"fmt"
	"strings"

	"github.com/pthm-cable/tilewalk/grid"
)

// AStar finds shortest paths with A* and a Manhattan heuristic. Paths have
// the same length as BFS paths but usually expand fewer nodes.
//
// Buffers are reused between calls, so an AStar must not be shared between
// goroutines.
type AStar struct {
	adjacency *AdjacencyList
	open      nodeHeap
	closed    []bool
	gScore    []int // -1 = unseen
	explored  []Node
	cols      int

	lastExplored int
}

// astarNode is an entry in the open set.
type astarNode struct {
	idx    grid.Index
	parent grid.Index
	g, f   int
	seq    int // Insertion order, breaks f ties
	index  int // Heap index
}

// nodeHeap implements heap.Interface for the A* open set.
type nodeHeap []*astarNode

func (h nodeHeap) Len() int { return len(h) }
func (h nodeHeap) Less(i, j int) bool {
	if h[i].f != h[j].f {
		return h[i].f < h[j].f
	}
	return h[i].seq < h[j].seq
}
func (h nodeHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *nodeHeap) Push(x any) {
	n := x.(*astarNode)
	n.index = len(*h)
	*h = append(*h, n)
}

func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	node := old[n-1]
	old[n-1] = nil
	node.index = -1
	*h = old[0 : n-1]
	return node
}

// NewAStar creates an A* strategy.
func NewAStar() *AStar {
	return &AStar{adjacency: NewAdjacencyList()}
}

// Type implements Strategy.
func (a *AStar) Type() string {
	return "AStar"
}

// LastExplored returns how many nodes the previous FindPath call closed.
func (a *AStar) LastExplored() int {
	return a.lastExplored
}

// FindPath implements Strategy.
func (a *AStar) FindPath(g *grid.Grid, src, dst grid.Index) []grid.Index {
	return a.FindPathAvoiding(g, src, dst, nil)
}

// FindPathAvoiding implements Avoider.
func (a *AStar) FindPathAvoiding(g *grid.Grid, src, dst grid.Index, avoid AvoidSet) []grid.Index {
	a.lastExplored = 0
	if src == dst || !g.IsIndexValid(src) || !g.IsIndexValid(dst) {
		return nil
	}

	a.adjacency.GenerateAvoiding(g, avoid)
	a.cols = g.Cols()
	n := g.Rows() * g.Cols()
	if cap(a.closed) < n {
		a.closed = make([]bool, n)
		a.gScore = make([]int, n)
	} else {
		a.closed = a.closed[:n]
		a.gScore = a.gScore[:n]
	}
	for i := range a.gScore {
		a.gScore[i] = -1
	}
	a.open = a.open[:0]
	a.explored = a.explored[:0]

	seq := 0
	a.gScore[a.id(src)] = 0
	heap.Push(&a.open, &astarNode{idx: src, parent: src, f: src.Manhattan(dst)})

	for a.open.Len() > 0 {
		cur := heap.Pop(&a.open).(*astarNode)
		cid := a.id(cur.idx)
		if a.closed[cid] || cur.g > a.gScore[cid] {
			// Stale entry
			continue
		}
		a.closed[cid] = true
		a.explored = append(a.explored, Node{Index: cur.idx, Parent: cur.parent})
		if cur.idx == dst {
			break
		}

		for _, nb := range a.adjacency.Neighbours(cur.idx) {
			nid := a.id(nb)
			if a.closed[nid] {
				continue
			}
			tentative := cur.g + 1
			if old := a.gScore[nid]; old >= 0 && tentative >= old {
				continue
			}
			a.gScore[nid] = tentative
			seq++
			heap.Push(&a.open, &astarNode{
				idx:    nb,
				parent: cur.idx,
				g:      tentative,
				f:      tentative + nb.Manhattan(dst),
				seq:    seq,
			})
		}
	}

	a.lastExplored = len(a.explored)
	clear(a.closed)
	a.open = a.open[:0]

	return Backtrack(a.explored, dst)
}

func (a *AStar) id(idx grid.Index) int {
	return idx.Row*a.cols + idx.Col
}

// NewStrategy returns the strategy registered under name: "bfs" or
// "astar", case-insensitive.
func NewStrategy(name string) (Strategy, error) {
	switch strings.ToLower(name) {
	case "", "bfs":
		return NewBFS(), nil
	case "astar", "a*":
		return NewAStar(), nil
	}
	return nil, fmt.Errorf("unknown path strategy %q", name)
}
