package hull

import (
	"github.com/chazu/berth/pkg/direction"
	"github.com/chazu/berth/pkg/kernel"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// face is a triangle list emitted when any of the when flags is visible.
// A zero when emits unconditionally.
type face struct {
	when    direction.Direction
	indices []int
}

// tableGenerator emits fixed triangle lists over a unit cell vertex table.
type tableGenerator struct {
	vertices []v3.Vec
	faces    []face
}

func (g *tableGenerator) Generate(p Props, m *kernel.Mesh) error {
	for _, f := range g.faces {
		if f.when != 0 && p.Flags&f.when == 0 {
			continue
		}
		for i := 0; i+2 < len(f.indices); i += 3 {
			emit(m, p,
				g.vertices[f.indices[i]],
				g.vertices[f.indices[i+1]],
				g.vertices[f.indices[i+2]])
		}
	}
	return nil
}

// Triangles returns how many triangles g emits for the given visible flags.
func (g *tableGenerator) Triangles(flags direction.Direction) int {
	n := 0
	for _, f := range g.faces {
		if f.when == 0 || flags&f.when != 0 {
			n += len(f.indices) / 3
		}
	}
	return n
}

// emptyGenerator emits nothing. It stands in for Space.
type emptyGenerator struct{}

func (emptyGenerator) Generate(Props, *kernel.Mesh) error { return nil }

func vertices(xyz ...float64) []v3.Vec {
	out := make([]v3.Vec, 0, len(xyz)/3)
	for i := 0; i+2 < len(xyz); i += 3 {
		out = append(out, v3.Vec{X: xyz[i], Y: xyz[i+1], Z: xyz[i+2]})
	}
	return out
}

// NewCube returns the unit cube generator. Each side is emitted only when
// visible.
func NewCube() Generator {
	return &tableGenerator{
		vertices: vertices(
			0, 0, 1,
			0, 1, 1,
			1, 0, 1,
			1, 1, 1,
			1, 1, 0,
			1, 0, 0,
			0, 1, 0,
			0, 0, 0,
		),
		faces: []face{
			{direction.PX, []int{3, 2, 4, 4, 2, 5}},
			{direction.PY, []int{6, 1, 4, 4, 1, 3}},
			{direction.PZ, []int{1, 0, 2, 1, 2, 3}},
			{direction.NX, []int{0, 1, 7, 7, 1, 6}},
			{direction.NY, []int{2, 0, 7, 5, 2, 7}},
			{direction.NZ, []int{5, 7, 4, 4, 7, 6}},
		},
	}
}

// NewWedge returns the wedge generator: a slope rising from the +Z edge to
// the top of the -Z side. The slope shows whenever any side it touches is
// open.
func NewWedge() Generator {
	return &tableGenerator{
		vertices: vertices(
			0, 0, 1,
			1, 0, 1,
			1, 1, 0,
			1, 0, 0,
			0, 1, 0,
			0, 0, 0,
		),
		faces: []face{
			{direction.PX | direction.NX | direction.PZ | direction.PY, []int{2, 0, 1, 4, 0, 2}},
			{direction.PX, []int{2, 1, 3}},
			{direction.NX, []int{5, 0, 4}},
			{direction.NY, []int{1, 0, 5, 3, 1, 5}},
			{direction.NZ, []int{3, 5, 2, 2, 5, 4}},
		},
	}
}

// NewWedgeOutCorner returns the outer corner pyramid. It is always emitted
// whole.
func NewWedgeOutCorner() Generator {
	return &tableGenerator{
		vertices: vertices(
			0, 0, 1,
			1, 0, 1,
			1, 0, 0,
			0, 0, 0,
			1, 1, 0,
		),
		faces: []face{
			{0, []int{2, 4, 1}},
			{0, []int{0, 4, 3, 1, 4, 0}},
			{0, []int{3, 4, 2}},
			{0, []int{1, 0, 3, 2, 1, 3}},
		},
	}
}

// NewWedgeInCorner returns the inner corner block. It is always emitted
// whole.
func NewWedgeInCorner() Generator {
	return &tableGenerator{
		vertices: vertices(
			0, 0, 1,
			1, 0, 1,
			0, 1, 1,
			0, 1, 0,
			1, 1, 0,
			0, 0, 0,
			1, 0, 0,
		),
		faces: []face{
			{0, []int{4, 1, 6}},
			{0, []int{1, 3, 2, 4, 3, 1}},
			{0, []int{1, 2, 0}},
			{0, []int{5, 0, 3, 3, 0, 2}},
			{0, []int{5, 6, 0, 0, 6, 1}},
			{0, []int{3, 4, 5, 5, 4, 6}},
		},
	}
}

// NewCylinder returns an octagonal column of radius 0.4 around the cell's
// vertical axis.
func NewCylinder() Generator {
	return &tableGenerator{
		vertices: vertices(
			0.782843, 0, 0.217157,
			0.500000, 0, 0.100000,
			0.217157, 0, 0.217157,
			0.100000, 0, 0.500000,
			0.217157, 0, 0.782843,
			0.500000, 0, 0.900000,
			0.782843, 0, 0.782843,
			0.900000, 0, 0.500000,
			0.782843, 1, 0.217157,
			0.500000, 1, 0.100000,
			0.217157, 1, 0.217157,
			0.100000, 1, 0.500000,
			0.217157, 1, 0.782843,
			0.500000, 1, 0.900000,
			0.782843, 1, 0.782843,
			0.900000, 1, 0.500000,
		),
		faces: []face{
			// side
			{0, []int{
				0, 1, 8, 8, 1, 9,
				1, 2, 9, 9, 2, 10,
				2, 3, 10, 10, 3, 11,
				3, 4, 11, 11, 4, 12,
				4, 5, 12, 12, 5, 13,
				5, 6, 13, 13, 6, 14,
				6, 7, 14, 14, 7, 15,
				7, 0, 15, 15, 0, 8,
			}},
			// bottom cap
			{0, []int{6, 5, 7, 5, 4, 7, 4, 3, 7, 3, 2, 7, 2, 1, 7, 1, 0, 7}},
			// top cap
			{0, []int{15, 8, 14, 8, 9, 14, 9, 10, 14, 10, 11, 14, 11, 12, 14, 12, 13, 14}},
		},
	}
}
