// Package tessellate splits a construction into triangle meshes. One mesh is
// produced per connectivity group, so every welded piece can be drawn and
// colored on its own.
package tessellate

import (
	"fmt"
	"slices"

	"github.com/chazu/berth/pkg/berth"
	"github.com/chazu/berth/pkg/direction"
	"github.com/chazu/berth/pkg/hull"
	"github.com/chazu/berth/pkg/kernel"
	"github.com/samber/lo"
)

// groupCells is a hull source restricted to the elements of one group.
// Neighbor masks never cross groups, so the group meshes together equal
// the full hull.
type groupCells struct {
	core  *berth.Core
	group uint32
}

func (g groupCells) Cells(fn func(hull.Cell)) {
	g.core.ForEach(func(pos direction.Vec3i, e *berth.Element) {
		if e.Group == g.group {
			fn(e.Cell(pos))
		}
	})
}

// Groups returns the ids of every group with at least one element, in
// ascending order.
func Groups(c *berth.Core) []uint32 {
	var ids []uint32
	c.ForEach(func(_ direction.Vec3i, e *berth.Element) {
		ids = append(ids, e.Group)
	})
	ids = lo.Uniq(ids)
	slices.Sort(ids)
	return ids
}

// MeshName is the name given to the mesh of group g.
func MeshName(g uint32) string { return fmt.Sprintf("group %d", g) }

// Tessellate builds one mesh per group of b using b's hull generators.
// Groups whose every face is covered produce no mesh. The tessellator is
// read-only and never mutates the construction.
func Tessellate(b *berth.Berth) ([]*kernel.Mesh, error) {
	if b == nil {
		return nil, nil
	}

	var meshes []*kernel.Mesh
	for _, g := range Groups(b.Core()) {
		h := hull.New(b.Generators())
		if err := h.Construct(groupCells{core: b.Core(), group: g}); err != nil {
			return nil, fmt.Errorf("tessellate: group %d: %w", g, err)
		}
		if h.Mesh().IsEmpty() {
			continue
		}
		mesh := h.Mesh()
		mesh.Name = MeshName(g)
		meshes = append(meshes, mesh)
	}
	return meshes, nil
}
