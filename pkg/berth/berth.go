package berth

import (
	"errors"
	"fmt"

	"github.com/chazu/berth/pkg/construction"
	"github.com/chazu/berth/pkg/direction"
	"github.com/chazu/berth/pkg/hull"
	"github.com/chazu/berth/pkg/kernel"
	"github.com/chazu/berth/pkg/kernel/sdfx"
)

var (
	// ErrResourceNotFound reports an unknown object or template.
	ErrResourceNotFound = errors.New("berth: resource not found")
	// ErrOutOfBounds reports a position outside the grid.
	ErrOutOfBounds = errors.New("berth: position out of bounds")
)

// PlacementParameters places a named object.
type PlacementParameters struct {
	Name           string
	Position       direction.Vec3i
	Orientation    direction.Direction
	PlaceDirection direction.Direction
}

// Berth is the building berth: a template library, the construction built
// from it and the hull mesh of that construction.
type Berth struct {
	library *construction.Library
	core    *Core
	hull    *hull.Hull
}

type options struct {
	side    int
	kernel  kernel.Kernel
	library *construction.Library
}

// Option configures New.
type Option func(*options)

// WithGridSide sets the horizontal grid extent. It must be a power of two.
func WithGridSide(side int) Option {
	return func(o *options) { o.side = side }
}

// WithKernel sets the geometry kernel used for smooth primitives.
func WithKernel(k kernel.Kernel) Option {
	return func(o *options) { o.kernel = k }
}

// WithMeshCells tessellates smooth primitives with the sdfx kernel at the
// given marching cubes resolution.
func WithMeshCells(cells int) Option {
	return func(o *options) { o.kernel = sdfx.NewWithCells(cells) }
}

// WithLibrary uses lib instead of a fresh library holding the built-in
// catalog.
func WithLibrary(lib *construction.Library) Option {
	return func(o *options) { o.library = lib }
}

// New returns an empty building berth.
func New(opts ...Option) *Berth {
	o := options{side: DefaultGridSide}
	for _, opt := range opts {
		opt(&o)
	}
	if o.kernel == nil {
		o.kernel = sdfx.New()
	}
	if o.library == nil {
		o.library = construction.Defaults()
	}
	return &Berth{
		library: o.library,
		core:    NewCore(o.library, o.side),
		hull:    hull.New(hull.Defaults(o.kernel)),
	}
}

// NewConstruction clears the construction and keeps the library.
func (b *Berth) NewConstruction() { b.core.Reset() }

// Reset puts the berth back into its freshly constructed state: the library
// holds only the built-in catalog and the construction is empty.
func (b *Berth) Reset() {
	b.library.Cleanup()
	construction.RegisterDefaults(b.library)
	b.core.Reset()
}

// PlaceObject places the object named by p. Objects without a template
// occupy nothing and succeed without touching the construction.
func (b *Berth) PlaceObject(p PlacementParameters) error {
	obj, ok := b.library.Object(p.Name)
	if !ok {
		return fmt.Errorf("%w: object %q", ErrResourceNotFound, p.Name)
	}
	if obj.Element == construction.Space {
		return nil
	}
	desc := b.library.Description(obj.Element)
	if desc == nil {
		return fmt.Errorf("%w: template %v of object %q", ErrResourceNotFound, obj.Element, p.Name)
	}
	if !b.core.elements.InBounds(p.Position.X, p.Position.Z) {
		return fmt.Errorf("%w: %v", ErrOutOfBounds, p.Position)
	}
	b.core.Place(desc, p.Position, p.Orientation, p.PlaceDirection)
	return nil
}

// SetElement places a built-in primitive. It returns false for Space, for
// user template ids and for positions outside the grid.
func (b *Berth) SetElement(t construction.ElementType, pos direction.Vec3i, dir, copyFrom direction.Direction) bool {
	if t == construction.Space || t >= construction.SimplePrimitivesCount {
		return false
	}
	desc := b.library.Description(t)
	if desc == nil || !b.core.elements.InBounds(pos.X, pos.Z) {
		return false
	}
	b.core.Place(desc, pos, dir, copyFrom)
	return true
}

// Weld merges group g2 into g1.
func (b *Berth) Weld(g1, g2 uint32) bool { return b.core.Weld(g1, g2) }

// Group returns the group at pos, or NoGroup.
func (b *Berth) Group(pos direction.Vec3i) uint32 { return b.core.Group(pos) }

// Mesh returns the hull mesh, rebuilding it when the construction changed
// since the last call. The mesh is owned by the berth.
func (b *Berth) Mesh() (*kernel.Mesh, error) {
	if b.core.IsUpdated() {
		if err := b.hull.Construct(b.core); err != nil {
			b.core.updated = true
			return nil, err
		}
	}
	return b.hull.Mesh(), nil
}

// Base returns the ground quad under the construction.
func (b *Berth) Base() *kernel.Mesh { return hull.Base(b.core.BoundingBox()) }

// BoundingBox returns the union of every placed template's footprint.
func (b *Berth) BoundingBox() construction.BBox { return b.core.BoundingBox() }

// Generators returns the hull generator registry.
func (b *Berth) Generators() *hull.Registry { return b.hull.Registry() }

// Library returns the template and object library.
func (b *Berth) Library() *construction.Library { return b.library }

// Core returns the construction aggregate.
func (b *Berth) Core() *Core { return b.core }
