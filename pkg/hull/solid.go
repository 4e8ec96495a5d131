package hull

import (
	"fmt"
	"sync"

	"github.com/chazu/berth/pkg/direction"
	"github.com/chazu/berth/pkg/kernel"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// solidGenerator meshes a kernel solid once, in the unit cell frame, and
// stamps the cached triangles for every element. The surface is emitted
// whole as long as any side is visible.
type solidGenerator struct {
	kernel kernel.Kernel
	build  func(k kernel.Kernel) kernel.Solid

	once sync.Once
	tris [][3]v3.Vec
	err  error
}

func newSolidGenerator(k kernel.Kernel, build func(k kernel.Kernel) kernel.Solid) *solidGenerator {
	return &solidGenerator{kernel: k, build: build}
}

func (g *solidGenerator) load() error {
	g.once.Do(func() {
		mesh, err := g.kernel.ToMesh(g.build(g.kernel))
		if err != nil {
			g.err = fmt.Errorf("tessellate: %w", err)
			return
		}
		g.tris = make([][3]v3.Vec, mesh.TriangleCount())
		for i := range g.tris {
			v, _ := mesh.Triangle(i)
			for j := 0; j < 3; j++ {
				g.tris[i][j] = v3.Vec{X: float64(v[j][0]), Y: float64(v[j][1]), Z: float64(v[j][2])}
			}
		}
	})
	return g.err
}

func (g *solidGenerator) Generate(p Props, m *kernel.Mesh) error {
	if p.Flags&direction.All == 0 {
		return nil
	}
	if err := g.load(); err != nil {
		return err
	}
	for _, t := range g.tris {
		emit(m, p, t[0], t[1], t[2])
	}
	return nil
}

// NewSphere returns a generator for a ball inscribed in the cell.
func NewSphere(k kernel.Kernel) Generator {
	return newSolidGenerator(k, func(k kernel.Kernel) kernel.Solid {
		return k.Translate(k.Sphere(0.5), 0.5, 0.5, 0.5)
	})
}

// NewCylindricPlatform returns a generator for a one cell high disc of
// radius 1.5 centered on the anchor cell, clipped to the 3x3 footprint.
func NewCylindricPlatform(k kernel.Kernel) Generator {
	return newSolidGenerator(k, func(k kernel.Kernel) kernel.Solid {
		disc := k.Translate(k.Rotate(k.Cylinder(1, 1.5, 32), 90, 0, 0), 0.5, 0.5, 0.5)
		footprint := k.Translate(k.Box(3, 1, 3), -1, 0, -1)
		return k.Intersection(disc, footprint)
	})
}

// Ledder frame, in cell units.
const (
	ledderDepth = 0.15
	ledderRail  = 0.15
	ledderRung  = 0.15
)

// NewLedder returns a generator for a ladder against the cell's +Z side:
// two rails and three rungs cut from one plate.
func NewLedder(k kernel.Kernel) Generator {
	return newSolidGenerator(k, func(k kernel.Kernel) kernel.Solid {
		plate := k.Translate(k.Box(1, 1, ledderDepth), 0, 0, 1-ledderDepth)
		w := 1 - 2*ledderRail
		h := (1 - 3*ledderRung) / 2
		// windows run past both faces of the plate
		lower := k.Translate(k.Box(w, h, 2*ledderDepth), ledderRail, ledderRung, 1-1.5*ledderDepth)
		upper := k.Translate(k.Box(w, h, 2*ledderDepth), ledderRail, 2*ledderRung+h, 1-1.5*ledderDepth)
		return k.Difference(plate, k.Union(lower, upper))
	})
}
