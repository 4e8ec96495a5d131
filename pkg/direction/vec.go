package direction

import "fmt"

// Vec3i is an integer grid position or offset.
type Vec3i struct {
	X, Y, Z int
}

// V is shorthand for Vec3i{x, y, z}.
func V(x, y, z int) Vec3i { return Vec3i{X: x, Y: y, Z: z} }

// Add returns v + o.
func (v Vec3i) Add(o Vec3i) Vec3i { return Vec3i{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

// Sub returns v - o.
func (v Vec3i) Sub(o Vec3i) Vec3i { return Vec3i{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

// Neg returns -v.
func (v Vec3i) Neg() Vec3i { return Vec3i{-v.X, -v.Y, -v.Z} }

// Min returns the component-wise minimum.
func (v Vec3i) Min(o Vec3i) Vec3i { return Vec3i{min(v.X, o.X), min(v.Y, o.Y), min(v.Z, o.Z)} }

// Max returns the component-wise maximum.
func (v Vec3i) Max(o Vec3i) Vec3i { return Vec3i{max(v.X, o.X), max(v.Y, o.Y), max(v.Z, o.Z)} }

func (v Vec3i) String() string { return fmt.Sprintf("(%d,%d,%d)", v.X, v.Y, v.Z) }

// Offset returns the unit step toward a one-hot axis flag.
func Offset(d Direction) Vec3i {
	switch d.Axis() {
	case PX:
		return Vec3i{1, 0, 0}
	case PY:
		return Vec3i{0, 1, 0}
	case PZ:
		return Vec3i{0, 0, 1}
	case NX:
		return Vec3i{-1, 0, 0}
	case NY:
		return Vec3i{0, -1, 0}
	case NZ:
		return Vec3i{0, 0, -1}
	}
	return Vec3i{}
}

// Rotate maps an offset expressed in a template's local frame (facing +Z)
// into world space for an element facing dst.
//
// A LeftToRight modifier mirrors x first. The axis byte then selects the
// turn; +Z and an empty axis leave the vector unchanged.
func Rotate(v Vec3i, dst Direction) Vec3i {
	out := v
	if dst.Mirrored() {
		out.X = -out.X
	}
	switch dst.Axis() {
	case NX:
		return Vec3i{-out.Z, out.Y, out.X}
	case PX:
		return Vec3i{out.Z, out.Y, -out.X}
	case NZ:
		return Vec3i{-out.X, out.Y, -out.Z}
	case NY:
		return Vec3i{out.X, -out.Z, out.Y}
	case PY:
		return Vec3i{out.X, out.Z, out.Y}
	}
	return out
}

// Forward is the world-space facing vector of an element oriented along d.
func Forward(d Direction) Vec3i { return Rotate(Vec3i{0, 0, 1}, d) }
