// Package construction holds construction templates: the per-primitive
// bounding box and neighbor-influence tables the grid core reads when an
// element is placed. A Library registers templates by name and id and maps
// object names onto them.
package construction

import (
	"fmt"
	"math"

	"github.com/chazu/berth/pkg/direction"
)

// ElementType identifies a construction template.
type ElementType uint32

// Built-in element types. Ids below SimplePrimitivesCount are reserved for
// the reference catalog; user templates are numbered from there upward.
const (
	Space ElementType = iota
	Cube
	Wedge
	WedgeOutCorner
	WedgeInCorner
	Ledder
	Cylinder
	CylindricPlatform
	Sphere
	SimplePrimitivesCount
)

const (
	// UserCreated tags elements built from user templates.
	UserCreated ElementType = 0xffff
	// Reference is the type of the shared template behind footprint markers.
	Reference ElementType = 0xffffffff
	// NoElement is returned by name lookups that fail.
	NoElement ElementType = math.MaxUint32 - 1
)

var builtinNames = [SimplePrimitivesCount]string{
	"Space", "Cube", "Wedge", "WedgeOutCorner", "WedgeInCorner",
	"Ledder", "Cylinder", "CylindricPlatform", "Sphere",
}

func (t ElementType) String() string {
	switch {
	case t < SimplePrimitivesCount:
		return builtinNames[t]
	case t == Reference:
		return "Reference"
	case t == NoElement:
		return "NoElement"
	}
	return fmt.Sprintf("Element(%d)", uint32(t))
}

// Influence is the strength of a relation toward a neighbor cell. When two
// elements face each other, the stronger (or equal) side hides the other's
// face.
type Influence uint8

const (
	NotAffected    Influence = 0
	WedgeTriangle  Influence = 5
	LedderTriangle Influence = 6
	CylinderCap    Influence = 8
	FullyCovered   Influence = 10
)

// Neighbor is one relation of a template: the local offset of the
// neighboring cell, how strongly the template covers that side, and the
// mask bit set when the side is hidden.
type Neighbor struct {
	Weight Influence
	Offset direction.Vec3i
	Flag   direction.Direction
}

// BBox is an integer box [Min, Max).
type BBox struct {
	Min direction.Vec3i
	Max direction.Vec3i
}

// UnitBox is the footprint of a single cell.
var UnitBox = BBox{Max: direction.V(1, 1, 1)}

// EmptyBox returns the sentinel box that any union replaces.
func EmptyBox() BBox {
	return BBox{
		Min: direction.V(math.MaxInt32, math.MaxInt32, math.MaxInt32),
		Max: direction.V(math.MinInt32, math.MinInt32, math.MinInt32),
	}
}

// IsEmpty reports whether b covers no cell.
func (b BBox) IsEmpty() bool {
	return b.Max.X <= b.Min.X || b.Max.Y <= b.Min.Y || b.Max.Z <= b.Min.Z
}

// Size returns Max - Min, or zero for an empty box.
func (b BBox) Size() direction.Vec3i {
	if b.IsEmpty() {
		return direction.Vec3i{}
	}
	return b.Max.Sub(b.Min)
}

// Translate shifts b by p.
func (b BBox) Translate(p direction.Vec3i) BBox {
	return BBox{Min: b.Min.Add(p), Max: b.Max.Add(p)}
}

// Union returns the smallest box covering b and o.
func (b BBox) Union(o BBox) BBox {
	if b.IsEmpty() {
		return o
	}
	if o.IsEmpty() {
		return b
	}
	return BBox{Min: b.Min.Min(o.Min), Max: b.Max.Max(o.Max)}
}

// Contains reports whether cell p lies inside b.
func (b BBox) Contains(p direction.Vec3i) bool {
	return p.X >= b.Min.X && p.Y >= b.Min.Y && p.Z >= b.Min.Z &&
		p.X < b.Max.X && p.Y < b.Max.Y && p.Z < b.Max.Z
}

func (b BBox) String() string { return fmt.Sprintf("[%v %v)", b.Min, b.Max) }

// Description is a construction template. Descriptions are shared and
// immutable once registered; elements point at them.
type Description struct {
	Type      ElementType
	Name      string
	BBox      BBox
	Neighbors []Neighbor
}

// Morphable reports whether placing this template runs the wedge morph.
func (d *Description) Morphable() bool { return d.Type == Wedge }

// MultiCell reports whether the template covers more than its anchor cell.
func (d *Description) MultiCell() bool {
	return d.BBox.Size() != direction.V(1, 1, 1)
}

// Relation returns the neighbor relation at slot i, falling back to an
// unweighted relation toward the slot's axis when the template has fewer
// relations.
func (d *Description) Relation(i int) Neighbor {
	if i < len(d.Neighbors) {
		return d.Neighbors[i]
	}
	f := direction.FromIndex(i)
	return Neighbor{Offset: direction.Offset(f), Flag: f}
}
