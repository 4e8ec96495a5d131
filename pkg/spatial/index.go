// Package spatial provides the sparse volumetric index behind a
// construction: a quad-tree over the horizontal (x, z) plane whose leaves
// are run-length columns along y.
package spatial

// Index stores at most one item per integer (x, y, z) cell. x and z must lie
// in [0, side); y is unbounded.
type Index[T any] struct {
	tree  *QuadTree[Column[T]]
	count int
}

// NewIndex returns an empty index whose horizontal extent is side, which
// must be a power of two.
func NewIndex[T any](side int) *Index[T] {
	return &Index[T]{tree: NewQuadTree[Column[T]](side)}
}

// Side returns the horizontal extent of the index.
func (ix *Index[T]) Side() int { return ix.tree.Side() }

// Len returns the number of stored items.
func (ix *Index[T]) Len() int { return ix.count }

// InBounds reports whether column (x, z) is addressable.
func (ix *Index[T]) InBounds(x, z int) bool { return ix.tree.InBounds(x, z) }

// Insert stores v at (x, y, z), replacing any existing item. It panics when
// (x, z) is outside the index.
func (ix *Index[T]) Insert(x, y, z int, v T) {
	if ix.tree.Item(x, z).Insert(y, v) {
		ix.count++
	}
}

// Lookup returns the item at (x, y, z), or nil when the cell is empty or out
// of bounds. The pointer stays valid until the next insertion or removal in
// the same column.
func (ix *Index[T]) Lookup(x, y, z int) *T {
	col := ix.tree.Get(x, z)
	if col == nil {
		return nil
	}
	return col.At(y)
}

// Column returns the column at (x, z), or nil.
func (ix *Index[T]) Column(x, z int) *Column[T] { return ix.tree.Get(x, z) }

// Remove deletes the item at (x, y, z) and drops the column when it becomes
// empty. It reports whether an item was removed.
func (ix *Index[T]) Remove(x, y, z int) bool {
	col := ix.tree.Get(x, z)
	if col == nil || !col.Remove(y) {
		return false
	}
	ix.count--
	if col.Empty() {
		ix.tree.Remove(x, z)
	}
	return true
}

// Clear removes every item.
func (ix *Index[T]) Clear() {
	ix.tree.Clear()
	ix.count = 0
}

// ForEach visits every item, column by column in quad-tree order and
// bottom-up within a column. fn may modify items but must not insert or
// remove.
func (ix *Index[T]) ForEach(fn func(x, y, z int, v *T)) {
	ix.tree.ForEach(func(x, z int, col *Column[T]) {
		col.ForEach(func(y int, v *T) {
			fn(x, y, z, v)
		})
	})
}

// Footprint returns the horizontal extent of occupied columns as
// [left, right) x [top, bottom).
func (ix *Index[T]) Footprint() (left, top, right, bottom int) {
	return ix.tree.Left(), ix.tree.Top(), ix.tree.Right(), ix.tree.Bottom()
}
