package spatial

import (
	"fmt"
	"math"
)

// qnode is one quad-tree node. Children are arena indices; 0 means absent
// since the root (index 0) is never a child. Only leaves carry a value.
type qnode[T any] struct {
	children [4]int32
	value    T
}

// QuadTree maps (x, z) coordinates in [0, side) to values. Nodes live in a
// single arena slice so a Clear is a truncation.
//
// Child i of a node covering size cells has its origin offset by
// (i&1)*size/2 along x and (i>>1)*size/2 along z.
type QuadTree[T any] struct {
	side  int
	nodes []qnode[T]
	free  []int32
	count int
}

// NewQuadTree returns an empty tree. side must be a positive power of two.
func NewQuadTree[T any](side int) *QuadTree[T] {
	if side <= 0 || side&(side-1) != 0 {
		panic(fmt.Sprintf("spatial: quad-tree side %d is not a power of two", side))
	}
	return &QuadTree[T]{
		side:  side,
		nodes: make([]qnode[T], 1, 64),
	}
}

// Side returns the tree extent along each axis.
func (q *QuadTree[T]) Side() int { return q.side }

// Len returns the number of occupied cells.
func (q *QuadTree[T]) Len() int { return q.count }

// InBounds reports whether (x, z) is addressable.
func (q *QuadTree[T]) InBounds(x, z int) bool {
	return x >= 0 && z >= 0 && x < q.side && z < q.side
}

func quadIndex(x, z, w int) int {
	i := 0
	if x&w != 0 {
		i = 1
	}
	if z&w != 0 {
		i += 2
	}
	return i
}

func (q *QuadTree[T]) alloc() int32 {
	if n := len(q.free); n > 0 {
		id := q.free[n-1]
		q.free = q.free[:n-1]
		return id
	}
	q.nodes = append(q.nodes, qnode[T]{})
	return int32(len(q.nodes) - 1)
}

// find returns the arena index of the leaf at (x, z), or -1.
func (q *QuadTree[T]) find(x, z int) int32 {
	if !q.InBounds(x, z) {
		return -1
	}
	n := int32(0)
	for w := q.side >> 1; w > 0; w >>= 1 {
		c := q.nodes[n].children[quadIndex(x, z, w)]
		if c == 0 {
			return -1
		}
		n = c
	}
	if n == 0 && q.count == 0 {
		return -1
	}
	return n
}

// Get returns the value at (x, z), or nil when the cell is empty or out of
// bounds. The pointer is valid until the next insertion.
func (q *QuadTree[T]) Get(x, z int) *T {
	n := q.find(x, z)
	if n < 0 {
		return nil
	}
	return &q.nodes[n].value
}

// Item returns the value at (x, z), creating a zero value when the cell is
// empty. It panics when (x, z) is out of bounds.
func (q *QuadTree[T]) Item(x, z int) *T {
	if !q.InBounds(x, z) {
		panic(fmt.Sprintf("spatial: (%d,%d) outside quad-tree of side %d", x, z, q.side))
	}
	n := int32(0)
	created := false
	for w := q.side >> 1; w > 0; w >>= 1 {
		i := quadIndex(x, z, w)
		c := q.nodes[n].children[i]
		if c == 0 {
			c = q.alloc()
			q.nodes[n].children[i] = c
			created = true
		}
		n = c
	}
	if created || (q.side == 1 && q.count == 0) {
		q.count++
	}
	return &q.nodes[n].value
}

// Insert stores v at (x, z), replacing any existing value.
func (q *QuadTree[T]) Insert(x, z int, v T) {
	*q.Item(x, z) = v
}

// Remove deletes the cell at (x, z) and prunes the branch that only led to
// it. It reports whether a cell was removed.
func (q *QuadTree[T]) Remove(x, z int) bool {
	if !q.InBounds(x, z) {
		return false
	}
	if q.side == 1 {
		if q.count == 0 {
			return false
		}
		var zero T
		q.nodes[0].value = zero
		q.count = 0
		return true
	}

	type step struct {
		node  int32
		child int
	}
	path := make([]step, 0, 32)
	n := int32(0)
	for w := q.side >> 1; w > 0; w >>= 1 {
		i := quadIndex(x, z, w)
		c := q.nodes[n].children[i]
		if c == 0 {
			return false
		}
		path = append(path, step{node: n, child: i})
		n = c
	}

	// Cut below the deepest ancestor that still has another child.
	cut := 0
	for k := len(path) - 1; k > 0; k-- {
		if q.branches(path[k].node) > 1 {
			cut = k
			break
		}
	}
	at := path[cut]
	detached := q.nodes[at.node].children[at.child]
	q.nodes[at.node].children[at.child] = 0
	q.release(detached)
	q.count--
	return true
}

func (q *QuadTree[T]) branches(n int32) int {
	k := 0
	for _, c := range q.nodes[n].children {
		if c != 0 {
			k++
		}
	}
	return k
}

func (q *QuadTree[T]) release(n int32) {
	for _, c := range q.nodes[n].children {
		if c != 0 {
			q.release(c)
		}
	}
	q.nodes[n] = qnode[T]{}
	q.free = append(q.free, n)
}

// Clear removes every cell.
func (q *QuadTree[T]) Clear() {
	clear(q.nodes)
	q.nodes = q.nodes[:1]
	q.free = q.free[:0]
	q.count = 0
}

// ForEach visits every occupied cell in child order 0, 1, 2, 3 at each
// level. fn must not insert into the tree.
func (q *QuadTree[T]) ForEach(fn func(x, z int, v *T)) {
	if q.count == 0 {
		return
	}
	q.visit(0, 0, 0, q.side, fn)
}

func (q *QuadTree[T]) visit(n int32, x, z, size int, fn func(x, z int, v *T)) {
	if size == 1 {
		fn(x, z, &q.nodes[n].value)
		return
	}
	half := size >> 1
	for i, c := range q.nodes[n].children {
		if c != 0 {
			q.visit(c, x+(i&1)*half, z+(i>>1)*half, half, fn)
		}
	}
}

// ---------------------------------------------------------------------------
// Extents
// ---------------------------------------------------------------------------

// Left returns the smallest occupied x, or 0 when empty.
func (q *QuadTree[T]) Left() int {
	return q.extent(func(x, z int) int { return x }, [2][2]int{{0, 2}, {1, 3}}, false, 0)
}

// Right returns one past the largest occupied x, or 0 when empty.
func (q *QuadTree[T]) Right() int {
	return q.extent(func(x, z int) int { return x }, [2][2]int{{1, 3}, {0, 2}}, true, 1)
}

// Top returns the smallest occupied z, or 0 when empty.
func (q *QuadTree[T]) Top() int {
	return q.extent(func(x, z int) int { return z }, [2][2]int{{0, 1}, {2, 3}}, false, 0)
}

// Bottom returns one past the largest occupied z, or 0 when empty.
func (q *QuadTree[T]) Bottom() int {
	return q.extent(func(x, z int) int { return z }, [2][2]int{{2, 3}, {0, 1}}, true, 1)
}

// extent scans the half of each node that lies toward the wanted edge first
// and only falls back to the other half when the first is empty.
func (q *QuadTree[T]) extent(coord func(x, z int) int, halves [2][2]int, largest bool, bias int) int {
	if q.count == 0 {
		return 0
	}
	v, ok := q.scan(0, 0, 0, q.side, coord, halves, largest)
	if !ok {
		return 0
	}
	return v + bias
}

func (q *QuadTree[T]) scan(n int32, x, z, size int, coord func(x, z int) int, halves [2][2]int, largest bool) (int, bool) {
	if size == 1 {
		return coord(x, z), true
	}
	half := size >> 1
	for _, group := range halves {
		best := math.MaxInt
		if largest {
			best = math.MinInt
		}
		found := false
		for _, i := range group {
			c := q.nodes[n].children[i]
			if c == 0 {
				continue
			}
			v, ok := q.scan(c, x+(i&1)*half, z+(i>>1)*half, half, coord, halves, largest)
			if !ok {
				continue
			}
			found = true
			if (largest && v > best) || (!largest && v < best) {
				best = v
			}
		}
		if found {
			return best, true
		}
	}
	return 0, false
}
