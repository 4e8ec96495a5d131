package construction

import "github.com/chazu/berth/pkg/direction"

// relations builds the six standard relations in slot order (px, py, pz,
// nx, ny, nz) from their weights.
func relations(px, py, pz, nx, ny, nz Influence) []Neighbor {
	w := [direction.Count]Influence{px, py, pz, nx, ny, nz}
	out := make([]Neighbor, direction.Count)
	for i := range out {
		f := direction.FromIndex(i)
		out[i] = Neighbor{Weight: w[i], Offset: direction.Offset(f), Flag: f}
	}
	return out
}

// builtins is the reference catalog.
func builtins() []Description {
	const (
		no = NotAffected
		wt = WedgeTriangle
		lt = LedderTriangle
		cc = CylinderCap
		fc = FullyCovered
	)
	return []Description{
		{Type: Space, BBox: UnitBox},
		{Type: Cube, BBox: UnitBox, Neighbors: relations(fc, fc, fc, fc, fc, fc)},
		{Type: Wedge, BBox: UnitBox, Neighbors: relations(wt, no, no, wt, fc, fc)},
		{Type: WedgeOutCorner, BBox: UnitBox, Neighbors: relations(no, no, no, wt, fc, wt)},
		{Type: WedgeInCorner, BBox: UnitBox, Neighbors: relations(wt, no, wt, fc, fc, fc)},
		{Type: Ledder, BBox: UnitBox, Neighbors: relations(lt, no, fc, lt, fc, no)},
		{Type: Cylinder, BBox: UnitBox, Neighbors: relations(fc, cc, fc, fc, cc, fc)},
		{
			Type:      CylindricPlatform,
			BBox:      BBox{Min: direction.V(-1, 0, -1), Max: direction.V(2, 1, 2)},
			Neighbors: relations(fc, cc, fc, fc, cc, fc),
		},
		{Type: Sphere, BBox: UnitBox, Neighbors: relations(fc, fc, fc, fc, fc, fc)},
	}
}

// RegisterDefaults installs the reference catalog into l.
func RegisterDefaults(l *Library) {
	for _, d := range builtins() {
		l.RegisterSimplePrimitive(d.Type.String(), d)
	}
}

// Defaults returns a library holding the reference catalog.
func Defaults() *Library {
	l := NewLibrary()
	RegisterDefaults(l)
	return l
}
