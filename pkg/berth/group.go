package berth

import "github.com/chazu/berth/pkg/direction"

// copySettingsFrom assigns self's group. Elements on the ground placed from
// below join group 0; otherwise the element joins the group of the
// neighbor in the copyFrom direction, or opens a new group when there is
// none.
func (c *Core) copySettingsFrom(pos direction.Vec3i, self *Element, copyFrom direction.Direction) {
	if copyFrom == direction.NY && pos.Y == 0 {
		self.Group = 0
		return
	}
	src := c.Element(pos.Add(direction.Rotate(direction.V(0, 0, 1), copyFrom)))
	if src != nil {
		self.Group = src.Group
		return
	}
	c.lastGroup++
	self.Group = c.lastGroup
}

// Weld merges group g2 into g1 and recomputes neighbor masks across the
// merged group. It reports whether any element of g2 existed. Welding a
// group to itself is a no-op.
func (c *Core) Weld(g1, g2 uint32) bool {
	if g1 == g2 {
		return false
	}
	welded := false
	c.ForEach(func(pos direction.Vec3i, e *Element) {
		if e.Group != g1 && e.Group != g2 {
			return
		}
		welded = welded || e.Group == g2
		e.Group = g1
		c.updateNeighbourhood(pos, e)
	})
	if welded {
		c.updated = true
	}
	return welded
}

// LastGroup returns the highest group id handed out since the last reset.
func (c *Core) LastGroup() uint32 { return c.lastGroup }
