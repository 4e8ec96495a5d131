package berth

import (
	"github.com/chazu/berth/pkg/direction"
	"github.com/chazu/berth/pkg/hull"
)

var _ hull.Source = (*Core)(nil)

// Cells hands every occupied cell to the hull builder.
func (c *Core) Cells(fn func(hull.Cell)) {
	c.ForEach(func(pos direction.Vec3i, e *Element) {
		fn(e.Cell(pos))
	})
}

// Cell describes e at pos for the hull builder. It carries the template
// type currently in effect, so morphed wedges render as corners.
func (e *Element) Cell(pos direction.Vec3i) hull.Cell {
	return hull.Cell{
		Position:    pos,
		Type:        e.Construction.Type,
		Mask:        e.Mask,
		Orientation: e.Direction,
	}
}
