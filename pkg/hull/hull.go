// Package hull turns a grid of placed elements into a renderable triangle
// mesh. Every element type has a Generator that appends the faces left
// visible by its neighbor mask, moved to the element's cell and turned to
// its orientation.
package hull

import (
	"fmt"

	"github.com/chazu/berth/pkg/construction"
	"github.com/chazu/berth/pkg/direction"
	"github.com/chazu/berth/pkg/kernel"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Props describes one element instance handed to a Generator.
type Props struct {
	// Flags has a bit set for every side that is NOT covered by a neighbor.
	Flags direction.Direction
	// Offset is the world position of the element's anchor cell.
	Offset v3.Vec
	// Orientation is the element's facing direction with modifiers.
	Orientation direction.Direction
}

// Generator appends the triangles of one primitive to a mesh.
type Generator interface {
	Generate(p Props, m *kernel.Mesh) error
}

// Cell is one placed element as seen by the hull builder.
type Cell struct {
	Position    direction.Vec3i
	Type        construction.ElementType
	Mask        direction.Direction
	Orientation direction.Direction
}

// Props returns the generator input for c.
func (c Cell) Props() Props {
	return Props{
		Flags:       ^c.Mask & direction.All,
		Offset:      v3.Vec{X: float64(c.Position.X), Y: float64(c.Position.Y), Z: float64(c.Position.Z)},
		Orientation: c.Orientation,
	}
}

// Source enumerates the cells of a construction.
type Source interface {
	Cells(fn func(Cell))
}

// Mesh names.
const (
	MeshName = "hull"
	BaseName = "base"
)

// Hull owns the mesh of one construction and rebuilds it on demand.
type Hull struct {
	registry *Registry
	mesh     kernel.Mesh
}

// New creates a hull builder backed by the given generators.
func New(r *Registry) *Hull {
	if r == nil {
		panic("hull: nil registry")
	}
	return &Hull{registry: r, mesh: kernel.Mesh{Name: MeshName}}
}

// Construct discards the current mesh and regenerates it from src.
func (h *Hull) Construct(src Source) error {
	h.mesh.Reset()
	var err error
	src.Cells(func(c Cell) {
		if err != nil || c.Type == construction.Reference {
			return
		}
		if gerr := h.registry.Resolve(c.Type).Generate(c.Props(), &h.mesh); gerr != nil {
			err = fmt.Errorf("hull: %v at %v: %w", c.Type, c.Position, gerr)
		}
	})
	return err
}

// Mesh returns the last constructed mesh. The result is owned by the hull
// and reused by the next Construct.
func (h *Hull) Mesh() *kernel.Mesh { return &h.mesh }

// Registry returns the generator registry.
func (h *Hull) Registry() *Registry { return h.registry }

// Base returns an upward facing ground quad under the footprint of box.
// An empty box yields an empty mesh.
func Base(box construction.BBox) *kernel.Mesh {
	m := &kernel.Mesh{Name: BaseName}
	if box.IsEmpty() {
		return m
	}
	x0, z0 := float32(box.Min.X), float32(box.Min.Z)
	x1, z1 := float32(box.Max.X), float32(box.Max.Z)
	up := [3]float32{0, 1, 0}
	m.AddTriangle([3][3]float32{{x0, 0, z0}, {x0, 0, z1}, {x1, 0, z1}}, up)
	m.AddTriangle([3][3]float32{{x0, 0, z0}, {x1, 0, z1}, {x1, 0, z0}}, up)
	return m
}
