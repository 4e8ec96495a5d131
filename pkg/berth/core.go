// Package berth is the grid core of a construction: it places template
// elements on an integer grid, keeps neighbor masks and connectivity groups
// up to date, morphs wedges into corner pieces and hands the result to the
// hull builder.
package berth

import (
	"fmt"

	"github.com/chazu/berth/pkg/construction"
	"github.com/chazu/berth/pkg/direction"
	"github.com/chazu/berth/pkg/spatial"
)

// DefaultGridSide is the horizontal extent of a construction.
const DefaultGridSide = 256

// Core is the construction aggregate. It is not safe for concurrent use.
type Core struct {
	library   *construction.Library
	elements  *spatial.Index[Element]
	reference construction.Description
	bbox      construction.BBox
	lastGroup uint32
	updated   bool
}

// NewCore returns an empty construction reading templates from lib. side is
// the horizontal grid extent and must be a power of two.
func NewCore(lib *construction.Library, side int) *Core {
	if lib == nil {
		panic("berth: nil library")
	}
	return &Core{
		library:   lib,
		elements:  spatial.NewIndex[Element](side),
		reference: construction.Description{Type: construction.Reference, Name: "Reference"},
		bbox:      construction.EmptyBox(),
	}
}

// Place puts an element built from desc at pos facing dir. copyFrom selects
// the neighbor whose group the element joins; direction.NY is the usual
// choice. Multi-cell templates also mark every other covered cell.
//
// Place panics when desc is nil or pos lies outside the grid.
func (c *Core) Place(desc *construction.Description, pos direction.Vec3i, dir, copyFrom direction.Direction) {
	if desc == nil {
		panic("berth: place with nil template")
	}
	if !c.elements.InBounds(pos.X, pos.Z) {
		panic(fmt.Sprintf("berth: position %v outside grid of side %d", pos, c.elements.Side()))
	}
	c.updated = true
	c.bbox = c.bbox.Union(desc.BBox.Translate(pos))

	e := Element{
		Construction:      desc,
		Type:              desc.Type,
		Direction:         dir,
		OriginalDirection: dir,
	}
	if desc.Morphable() {
		c.morph(pos, &e)
	}
	c.copySettingsFrom(pos, &e, copyFrom)
	c.updateNeighbourhood(pos, &e)
	c.elements.Insert(pos.X, pos.Y, pos.Z, e)

	if !desc.MultiCell() {
		return
	}
	marker := Element{
		Construction:      &c.reference,
		Type:              desc.Type,
		Direction:         dir,
		OriginalDirection: dir,
		Group:             e.Group,
	}
	b := desc.BBox
	for x := b.Min.X; x < b.Max.X; x++ {
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for z := b.Min.Z; z < b.Max.Z; z++ {
				if x == 0 && y == 0 && z == 0 {
					continue
				}
				p := pos.Add(direction.V(x, y, z))
				if c.elements.InBounds(p.X, p.Z) {
					c.elements.Insert(p.X, p.Y, p.Z, marker)
				}
			}
		}
	}
}

// Element returns the element at pos, or nil. The handle stays valid until
// the next placement in the same column.
func (c *Core) Element(pos direction.Vec3i) *Element {
	return c.elements.Lookup(pos.X, pos.Y, pos.Z)
}

// Group returns the group of the element at pos, or NoGroup.
func (c *Core) Group(pos direction.Vec3i) uint32 {
	if e := c.Element(pos); e != nil {
		return e.Group
	}
	return NoGroup
}

// ForEach visits every element, reference markers included.
func (c *Core) ForEach(fn func(pos direction.Vec3i, e *Element)) {
	c.elements.ForEach(func(x, y, z int, e *Element) {
		fn(direction.V(x, y, z), e)
	})
}

// Len returns the number of occupied cells.
func (c *Core) Len() int { return c.elements.Len() }

// BoundingBox returns the union of every placed template's footprint.
func (c *Core) BoundingBox() construction.BBox { return c.bbox }

// Library returns the template library the core reads from.
func (c *Core) Library() *construction.Library { return c.library }

// IsUpdated reports whether the construction changed since the last call
// and clears the flag.
func (c *Core) IsUpdated() bool {
	u := c.updated
	c.updated = false
	return u
}

// Reset discards every element and restarts group numbering.
func (c *Core) Reset() {
	c.updated = true
	c.lastGroup = 0
	c.elements.Clear()
	c.bbox = construction.EmptyBox()
}

// ---------------------------------------------------------------------------
// Adjacency
// ---------------------------------------------------------------------------

// updateNeighbourhood compares self with every neighbor its template relates
// to. When two same-group elements face each other, the side with the
// weaker or equal relation is hidden on each of them.
func (c *Core) updateNeighbourhood(pos direction.Vec3i, self *Element) {
	for _, n := range self.Construction.Neighbors {
		rel := direction.Rotate(n.Offset, self.Direction)
		item := c.Element(pos.Add(rel))
		if item == nil || item.Group != self.Group {
			continue
		}
		back, ok := facing(item, rel)
		if !ok {
			continue
		}
		if back.Weight <= n.Weight {
			item.Mask |= back.Flag
		}
		if back.Weight >= n.Weight {
			self.Mask |= n.Flag
		}
	}
}

// facing finds the relation of item that points back along rel.
func facing(item *Element, rel direction.Vec3i) (construction.Neighbor, bool) {
	want := rel.Neg()
	for _, r := range item.Construction.Neighbors {
		if direction.Rotate(r.Offset, item.Direction) == want {
			return r, true
		}
	}
	return construction.Neighbor{}, false
}
