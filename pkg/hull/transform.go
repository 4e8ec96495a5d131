package hull

import (
	"github.com/chazu/berth/pkg/direction"
	"github.com/chazu/berth/pkg/kernel"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

var cellCenter = v3.Vec{X: 0.5, Y: 0.5, Z: 0.5}

// orient turns a point given in the unit cell frame around the cell center,
// the same way direction.Rotate turns neighbor offsets.
func orient(v v3.Vec, d direction.Direction) v3.Vec {
	c := v.Sub(cellCenter)
	if d.Mirrored() {
		c.X = -c.X
	}
	switch d.Axis() {
	case direction.NX:
		c = v3.Vec{X: -c.Z, Y: c.Y, Z: c.X}
	case direction.PX:
		c = v3.Vec{X: c.Z, Y: c.Y, Z: -c.X}
	case direction.NZ:
		c = v3.Vec{X: -c.X, Y: c.Y, Z: -c.Z}
	case direction.NY:
		c = v3.Vec{X: c.X, Y: -c.Z, Z: c.Y}
	case direction.PY:
		c = v3.Vec{X: c.X, Y: c.Z, Z: c.Y}
	}
	return c.Add(cellCenter)
}

// reflects reports whether orienting by d flips handedness. Mirroring
// reflects, and so does the +Y turn, which swaps y and z.
func reflects(d direction.Direction) bool {
	return d.Mirrored() != (d.Axis() == direction.PY)
}

// emit appends triangle (a, b, c), given in the unit cell frame, to m.
func emit(m *kernel.Mesh, p Props, a, b, c v3.Vec) {
	a = orient(a, p.Orientation).Add(p.Offset)
	b = orient(b, p.Orientation).Add(p.Offset)
	c = orient(c, p.Orientation).Add(p.Offset)
	if reflects(p.Orientation) {
		a, b = b, a
	}
	n := b.Sub(a).Cross(c.Sub(a))
	if l := n.Length(); l > 0 {
		n = n.MulScalar(1 / l)
	}
	m.AddTriangle(
		[3][3]float32{vec32(a), vec32(b), vec32(c)},
		vec32(n),
	)
}

func vec32(v v3.Vec) [3]float32 {
	return [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
}
