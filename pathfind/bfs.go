package pathfind

import "github.com/pthm-cable/tilewalk/grid"

// BFS finds shortest paths by hop count using breadth-first search.
//
// Buffers are reused between calls, so a BFS must not be shared between
// goroutines.
type BFS struct {
	adjacency *AdjacencyList
	queue     []Node
	explored  []Node
	visited   []bool // row-major, sized to the last searched grid
	cols      int

	lastExplored int
}

// NewBFS creates a breadth-first strategy.
func NewBFS() *BFS {
	return &BFS{adjacency: NewAdjacencyList()}
}

// Type implements Strategy.
func (b *BFS) Type() string {
	return "BFS"
}

// LastExplored returns how many nodes the previous FindPath call expanded.
func (b *BFS) LastExplored() int {
	return b.lastExplored
}

// FindPath implements Strategy.
func (b *BFS) FindPath(g *grid.Grid, src, dst grid.Index) []grid.Index {
	return b.FindPathAvoiding(g, src, dst, nil)
}

// FindPathAvoiding implements Avoider.
func (b *BFS) FindPathAvoiding(g *grid.Grid, src, dst grid.Index, avoid AvoidSet) []grid.Index {
	b.lastExplored = 0
	if src == dst || !g.IsIndexValid(src) || !g.IsIndexValid(dst) {
		return nil
	}

	b.adjacency.GenerateAvoiding(g, avoid)
	b.cols = g.Cols()
	if n := g.Rows() * g.Cols(); cap(b.visited) < n {
		b.visited = make([]bool, n)
	} else {
		b.visited = b.visited[:n]
	}

	b.queue = append(b.queue[:0], Node{Index: src, Parent: src})
	b.explored = b.explored[:0]

	for head := 0; head < len(b.queue); head++ {
		node := b.queue[head]
		if b.isVisited(node.Index) {
			continue
		}
		if node.Index == dst {
			b.explored = append(b.explored, node)
			break
		}
		b.markVisited(node.Index)
		b.explored = append(b.explored, node)

		for _, n := range b.adjacency.Neighbours(node.Index) {
			if !b.isVisited(n) {
				b.queue = append(b.queue, Node{Index: n, Parent: node.Index})
			}
		}
	}

	b.lastExplored = len(b.explored)
	clear(b.visited)
	b.queue = b.queue[:0]

	return Backtrack(b.explored, dst)
}

func (b *BFS) isVisited(idx grid.Index) bool {
	return b.visited[idx.Row*b.cols+idx.Col]
}

func (b *BFS) markVisited(idx grid.Index) {
	b.visited[idx.Row*b.cols+idx.Col] = true
}
