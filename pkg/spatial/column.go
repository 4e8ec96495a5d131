package spatial

import "sort"

// run is a contiguous span of occupied heights starting at start.
type run[T any] struct {
	start int
	items []T
}

func (r *run[T]) end() int { return r.start + len(r.items) }

// Column is a sparse vertical list of items keyed by height. Items are kept
// as sorted, non-overlapping, non-adjacent runs so a pillar of N contiguous
// cells costs one run.
type Column[T any] struct {
	runs []run[T]
}

// search returns the index of the first run starting above y.
func (c *Column[T]) search(y int) int {
	return sort.Search(len(c.runs), func(i int) bool { return c.runs[i].start > y })
}

// At returns the item stored at height y, or nil.
func (c *Column[T]) At(y int) *T {
	i := c.search(y) - 1
	if i < 0 {
		return nil
	}
	r := &c.runs[i]
	if y >= r.end() {
		return nil
	}
	return &r.items[y-r.start]
}

// Insert stores v at height y and reports whether the cell was empty.
// An existing item at y is replaced.
func (c *Column[T]) Insert(y int, v T) bool {
	i := c.search(y)
	if i > 0 {
		prev := &c.runs[i-1]
		if y < prev.end() {
			prev.items[y-prev.start] = v
			return false
		}
		if y == prev.end() {
			prev.items = append(prev.items, v)
			if i < len(c.runs) && c.runs[i].start == y+1 {
				prev.items = append(prev.items, c.runs[i].items...)
				c.runs = append(c.runs[:i], c.runs[i+1:]...)
			}
			return true
		}
	}
	if i < len(c.runs) && c.runs[i].start == y+1 {
		next := &c.runs[i]
		next.items = append([]T{v}, next.items...)
		next.start = y
		return true
	}
	c.runs = append(c.runs, run[T]{})
	copy(c.runs[i+1:], c.runs[i:])
	c.runs[i] = run[T]{start: y, items: []T{v}}
	return true
}

// Remove deletes the item at height y, splitting its run if needed.
// It reports whether an item was removed.
func (c *Column[T]) Remove(y int) bool {
	i := c.search(y) - 1
	if i < 0 || y >= c.runs[i].end() {
		return false
	}
	r := &c.runs[i]
	k := y - r.start
	switch {
	case len(r.items) == 1:
		c.runs = append(c.runs[:i], c.runs[i+1:]...)
	case k == 0:
		r.items = r.items[1:]
		r.start++
	case k == len(r.items)-1:
		r.items = r.items[:k]
	default:
		tail := run[T]{start: y + 1, items: append([]T(nil), r.items[k+1:]...)}
		r.items = r.items[:k]
		c.runs = append(c.runs, run[T]{})
		copy(c.runs[i+2:], c.runs[i+1:])
		c.runs[i+1] = tail
	}
	return true
}

// ForEach calls fn for every item in ascending height order.
func (c *Column[T]) ForEach(fn func(y int, v *T)) {
	for ri := range c.runs {
		r := &c.runs[ri]
		for k := range r.items {
			fn(r.start+k, &r.items[k])
		}
	}
}

// Len returns the number of stored items.
func (c *Column[T]) Len() int {
	n := 0
	for _, r := range c.runs {
		n += len(r.items)
	}
	return n
}

// Runs returns the number of contiguous runs.
func (c *Column[T]) Runs() int { return len(c.runs) }

// Empty reports whether the column holds no items.
func (c *Column[T]) Empty() bool { return len(c.runs) == 0 }

// Start returns the lowest occupied height.
func (c *Column[T]) Start() (int, bool) {
	if len(c.runs) == 0 {
		return 0, false
	}
	return c.runs[0].start, true
}

// End returns one past the highest occupied height.
func (c *Column[T]) End() (int, bool) {
	if len(c.runs) == 0 {
		return 0, false
	}
	return c.runs[len(c.runs)-1].end(), true
}
