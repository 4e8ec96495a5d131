package berth

import (
	"github.com/chazu/berth/pkg/construction"
	"github.com/chazu/berth/pkg/direction"
)

// morph turns a freshly placed wedge, or the wedges beside it, into corner
// pieces when their slopes meet at a right angle.
//
// Directions are compared in the XZ plane through the forward vectors of
// the original orientations. A wedge behind self makes self an outer
// corner; one in front makes it an inner corner. Wedges to the left or
// right are rewritten instead of self.
func (c *Core) morph(pos direction.Vec3i, self *Element) {
	outer := c.library.Description(construction.WedgeOutCorner)
	inner := c.library.Description(construction.WedgeInCorner)
	if outer == nil || inner == nil {
		return
	}
	sD := direction.Forward(self.OriginalDirection)

	// behind
	if iD, ok := c.wedgeForward(pos, self, direction.NZIndex, self.Direction); ok && perpendicular(iD, sD) {
		self.Construction = outer
		if cross(iD, sD) > 0 {
			self.Direction |= direction.LeftToRight
		}
	}

	// in front
	if iD, ok := c.wedgeForward(pos, self, direction.PZIndex, self.OriginalDirection); ok && perpendicular(iD, sD) {
		self.Construction = inner
		if cross(iD, sD) < 0 {
			self.Direction |= direction.LeftToRight
		}
	}

	// left
	if item := c.wedgeAt(pos, self, direction.NXIndex); item != nil {
		iD := direction.Forward(item.OriginalDirection)
		if perpendicular(iD, sD) {
			item.Direction |= direction.LeftToRight
			if cross(iD, sD) < 0 {
				item.Construction = outer
			} else {
				item.Construction = inner
			}
		}
	}

	// right
	if item := c.wedgeAt(pos, self, direction.PXIndex); item != nil {
		iD := direction.Forward(item.OriginalDirection)
		if perpendicular(iD, sD) {
			if cross(iD, sD) > 0 {
				item.Construction = outer
			} else {
				item.Construction = inner
			}
		}
	}
}

// wedgeForward returns the forward vector of the wedge related to self
// through slot, with the slot offset rotated by dir.
func (c *Core) wedgeForward(pos direction.Vec3i, self *Element, slot int, dir direction.Direction) (direction.Vec3i, bool) {
	off := direction.Rotate(self.Construction.Relation(slot).Offset, dir)
	item := c.Element(pos.Add(off))
	if item == nil || item.Type != construction.Wedge {
		return direction.Vec3i{}, false
	}
	return direction.Forward(item.OriginalDirection), true
}

// wedgeAt returns the wedge beside self through slot, using the original
// orientation.
func (c *Core) wedgeAt(pos direction.Vec3i, self *Element, slot int) *Element {
	off := direction.Rotate(self.Construction.Relation(slot).Offset, self.OriginalDirection)
	item := c.Element(pos.Add(off))
	if item == nil || item.Type != construction.Wedge {
		return nil
	}
	return item
}

func perpendicular(a, b direction.Vec3i) bool { return a.X*b.X+a.Z*b.Z == 0 }

func cross(a, b direction.Vec3i) int { return a.X*b.Z - a.Z*b.X }
