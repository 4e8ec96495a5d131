// Package direction implements the axis-aligned direction algebra shared by
// the grid, the adjacency engine and the hull builder.
//
// A Direction is a bitmask: the low byte holds one-hot axis flags, the high
// byte holds orientation modifiers. The same type doubles as a neighbor mask,
// where several axis flags may be set at once.
package direction

import (
	"fmt"
	"strings"
)

// Direction is a one-hot axis flag optionally combined with modifiers, or a
// set of axis flags when used as a neighbor mask.
type Direction uint16

// Axis flags.
const (
	PX Direction = 1 << iota
	PY
	PZ
	NX
	NY
	NZ
)

// Orientation modifiers.
const (
	LeftToRight Direction = 1 << (8 + iota)
	FrontToBack
	UpSideDown
)

const (
	// Mask selects the axis flags.
	Mask Direction = 0x00ff
	// ModifierMask selects the orientation modifiers.
	ModifierMask Direction = 0xff00
	// All is every axis flag set.
	All = PX | PY | PZ | NX | NY | NZ
	// None is the empty direction.
	None Direction = 0
)

// Index positions of the axis flags, in neighbor-slot order.
const (
	PXIndex = iota
	PYIndex
	PZIndex
	NXIndex
	NYIndex
	NZIndex
	Count
)

var names = [Count]string{"px", "py", "pz", "nx", "ny", "nz"}

// Axis returns the axis flags of d with modifiers stripped.
func (d Direction) Axis() Direction { return d & Mask }

// Modifiers returns the modifier bits of d.
func (d Direction) Modifiers() Direction { return d & ModifierMask }

// Mirrored reports whether the modifier bits are exactly LeftToRight.
func (d Direction) Mirrored() bool { return d&ModifierMask == LeftToRight }

// Index returns the slot index of a one-hot axis flag, or -1.
func (d Direction) Index() int {
	switch d.Axis() {
	case PX:
		return PXIndex
	case PY:
		return PYIndex
	case PZ:
		return PZIndex
	case NX:
		return NXIndex
	case NY:
		return NYIndex
	case NZ:
		return NZIndex
	}
	return -1
}

// FromIndex returns the axis flag stored at slot i.
func FromIndex(i int) Direction {
	if i < 0 || i >= Count {
		panic(fmt.Sprintf("direction: index %d out of range", i))
	}
	return Direction(1) << uint(i)
}

// Opposite returns the axis flag pointing the other way, keeping modifiers.
func (d Direction) Opposite() Direction {
	var out Direction
	for i := 0; i < Count; i++ {
		if d&FromIndex(i) != 0 {
			out |= FromIndex((i + 3) % Count)
		}
	}
	return out | d.Modifiers()
}

// String formats d as "px", "nz|lr", "px|py" and so on.
func (d Direction) String() string {
	if d == None {
		return "none"
	}
	var parts []string
	for i := 0; i < Count; i++ {
		if d&FromIndex(i) != 0 {
			parts = append(parts, names[i])
		}
	}
	if d&LeftToRight != 0 {
		parts = append(parts, "lr")
	}
	if d&FrontToBack != 0 {
		parts = append(parts, "fb")
	}
	if d&UpSideDown != 0 {
		parts = append(parts, "ud")
	}
	return strings.Join(parts, "|")
}

// Parse reads a direction written the way String formats it.
// Single flags may also be written with a sign ("+x", "-z").
func Parse(s string) (Direction, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" || s == "none" {
		return None, nil
	}
	var d Direction
	for _, part := range strings.Split(s, "|") {
		switch part {
		case "px", "+x":
			d |= PX
		case "py", "+y":
			d |= PY
		case "pz", "+z":
			d |= PZ
		case "nx", "-x":
			d |= NX
		case "ny", "-y":
			d |= NY
		case "nz", "-z":
			d |= NZ
		case "lr":
			d |= LeftToRight
		case "fb":
			d |= FrontToBack
		case "ud":
			d |= UpSideDown
		default:
			return None, fmt.Errorf("direction: unknown flag %q in %q", part, s)
		}
	}
	return d, nil
}
