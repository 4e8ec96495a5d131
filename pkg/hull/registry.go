package hull

import (
	"slices"

	"github.com/chazu/berth/pkg/construction"
	"github.com/chazu/berth/pkg/kernel"
	"github.com/samber/lo"
)

// Registry maps element types to generators. Types without a registered
// generator resolve to the cube fallback.
type Registry struct {
	generators map[construction.ElementType]Generator
	fallback   Generator
}

// NewRegistry returns an empty registry with a cube fallback.
func NewRegistry() *Registry {
	return &Registry{
		generators: make(map[construction.ElementType]Generator),
		fallback:   NewCube(),
	}
}

// Register binds g to t, replacing any previous binding.
func (r *Registry) Register(t construction.ElementType, g Generator) {
	if g == nil {
		panic("hull: nil generator for " + t.String())
	}
	r.generators[t] = g
}

// Lookup returns the generator bound to t.
func (r *Registry) Lookup(t construction.ElementType) (Generator, bool) {
	g, ok := r.generators[t]
	return g, ok
}

// Resolve returns the generator bound to t or the fallback.
func (r *Registry) Resolve(t construction.ElementType) Generator {
	if g, ok := r.generators[t]; ok {
		return g
	}
	return r.fallback
}

// Types lists the registered element types in ascending order.
func (r *Registry) Types() []construction.ElementType {
	types := lo.Keys(r.generators)
	slices.Sort(types)
	return types
}

// Defaults returns a registry covering every built-in primitive. Smooth
// primitives are tessellated through k.
func Defaults(k kernel.Kernel) *Registry {
	r := NewRegistry()
	r.Register(construction.Space, emptyGenerator{})
	r.Register(construction.Cube, NewCube())
	r.Register(construction.Wedge, NewWedge())
	r.Register(construction.WedgeOutCorner, NewWedgeOutCorner())
	r.Register(construction.WedgeInCorner, NewWedgeInCorner())
	r.Register(construction.Ledder, NewLedder(k))
	r.Register(construction.Cylinder, NewCylinder())
	r.Register(construction.CylindricPlatform, NewCylindricPlatform(k))
	r.Register(construction.Sphere, NewSphere(k))
	return r
}
