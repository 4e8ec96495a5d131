package hull

import (
	"errors"
	"math"
	"testing"

	"github.com/chazu/berth/pkg/construction"
	"github.com/chazu/berth/pkg/direction"
	"github.com/chazu/berth/pkg/kernel"
	"github.com/chazu/berth/pkg/kernel/sdfx"
)

// cells is a Source over a fixed list.
type cells []Cell

func (cs cells) Cells(fn func(Cell)) {
	for _, c := range cs {
		fn(c)
	}
}

func cell(t construction.ElementType, x, y, z int, mask, dir direction.Direction) Cell {
	return Cell{Position: direction.V(x, y, z), Type: t, Mask: mask, Orientation: dir}
}

func build(t *testing.T, src Source) *kernel.Mesh {
	t.Helper()
	h := New(Defaults(sdfx.NewWithCells(8)))
	if err := h.Construct(src); err != nil {
		t.Fatalf("Construct failed: %v", err)
	}
	return h.Mesh()
}

func bounds(m *kernel.Mesh) (lo, hi [3]float32) {
	lo = [3]float32{math.MaxFloat32, math.MaxFloat32, math.MaxFloat32}
	hi = [3]float32{-math.MaxFloat32, -math.MaxFloat32, -math.MaxFloat32}
	for i := 0; i+2 < len(m.Vertices); i += 3 {
		for a := 0; a < 3; a++ {
			lo[a] = min(lo[a], m.Vertices[i+a])
			hi[a] = max(hi[a], m.Vertices[i+a])
		}
	}
	return lo, hi
}

func near(a, b, tol float32) bool { return float32(math.Abs(float64(a-b))) <= tol }

func assertBounds(t *testing.T, m *kernel.Mesh, wantLo, wantHi [3]float32, tol float32) {
	t.Helper()
	lo, hi := bounds(m)
	for a := 0; a < 3; a++ {
		if !near(lo[a], wantLo[a], tol) || !near(hi[a], wantHi[a], tol) {
			t.Fatalf("bounds = %v..%v, want %v..%v", lo, hi, wantLo, wantHi)
		}
	}
}

func TestSingleCube(t *testing.T) {
	m := build(t, cells{cell(construction.Cube, 0, 0, 0, 0, direction.PZ)})
	if m.TriangleCount() != 12 {
		t.Fatalf("triangles = %d, want 12", m.TriangleCount())
	}
	if m.VertexCount() != 36 {
		t.Fatalf("vertices = %d, want 36", m.VertexCount())
	}
	if m.Name != MeshName {
		t.Errorf("name = %q, want %q", m.Name, MeshName)
	}
	assertBounds(t, m, [3]float32{0, 0, 0}, [3]float32{1, 1, 1}, 0)
}

func TestCubeOffset(t *testing.T) {
	m := build(t, cells{cell(construction.Cube, 2, 3, 4, 0, direction.NX)})
	assertBounds(t, m, [3]float32{2, 3, 4}, [3]float32{3, 4, 5}, 1e-6)
}

func TestCoveredFacesSkipped(t *testing.T) {
	m := build(t, cells{
		cell(construction.Cube, 0, 0, 0, direction.PX, direction.PZ),
		cell(construction.Cube, 1, 0, 0, direction.NX, direction.PZ),
	})
	if m.TriangleCount() != 20 {
		t.Fatalf("triangles = %d, want 20", m.TriangleCount())
	}
	cube := NewCube().(*tableGenerator)
	if n := 2 * cube.Triangles(direction.All&^direction.PX); n != m.TriangleCount() {
		t.Fatalf("table count for two touching cubes = %d, mesh has %d", n, m.TriangleCount())
	}
	if n := cube.Triangles(0); n != 0 {
		t.Fatalf("table count with no visible side = %d", n)
	}

	m = build(t, cells{cell(construction.Cube, 0, 0, 0, direction.All, direction.PZ)})
	if !m.IsEmpty() {
		t.Fatalf("enclosed cube emitted %d triangles", m.TriangleCount())
	}
}

func TestWedgeFaces(t *testing.T) {
	tests := []struct {
		name string
		mask direction.Direction
		want int
	}{
		{"open", 0, 8},
		{"only bottom visible", direction.All &^ direction.NY, 2},
		{"slope kept by top", direction.All &^ direction.PY, 2},
		{"back covered", direction.NZ, 6},
		{"closed", direction.All, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := build(t, cells{cell(construction.Wedge, 0, 0, 0, tt.mask, direction.PZ)})
			if m.TriangleCount() != tt.want {
				t.Fatalf("triangles = %d, want %d", m.TriangleCount(), tt.want)
			}
		})
	}
}

func TestAlwaysWholePrimitives(t *testing.T) {
	tests := []struct {
		typ  construction.ElementType
		want int
	}{
		{construction.WedgeOutCorner, 6},
		{construction.WedgeInCorner, 10},
		{construction.Cylinder, 28},
	}
	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			for _, mask := range []direction.Direction{0, direction.All} {
				m := build(t, cells{cell(tt.typ, 0, 0, 0, mask, direction.PZ)})
				if m.TriangleCount() != tt.want {
					t.Fatalf("mask %v: triangles = %d, want %d", mask, m.TriangleCount(), tt.want)
				}
			}
		})
	}
}

func TestWedgeSlopeFollowsOrientation(t *testing.T) {
	tests := []struct {
		dir  direction.Direction
		want [3]float32
	}{
		{direction.PZ, [3]float32{0, 0.7071, 0.7071}},
		{direction.NZ, [3]float32{0, 0.7071, -0.7071}},
		{direction.PX, [3]float32{0.7071, 0.7071, 0}},
		{direction.NX, [3]float32{-0.7071, 0.7071, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.dir.String(), func(t *testing.T) {
			m := build(t, cells{cell(construction.Wedge, 0, 0, 0, 0, tt.dir)})
			_, n := m.Triangle(0)
			for a := 0; a < 3; a++ {
				if !near(n[a], tt.want[a], 1e-3) {
					t.Fatalf("slope normal = %v, want %v", n, tt.want)
				}
			}
		})
	}
}

func TestNormalsPointOutward(t *testing.T) {
	dirs := []direction.Direction{
		direction.PZ, direction.NZ, direction.PX, direction.NX, direction.PY, direction.NY,
		direction.PZ | direction.LeftToRight,
		direction.NX | direction.LeftToRight,
		direction.PY | direction.LeftToRight,
		direction.PZ | direction.FrontToBack,
	}
	for _, d := range dirs {
		t.Run(d.String(), func(t *testing.T) {
			m := build(t, cells{cell(construction.Cube, 0, 0, 0, 0, d)})
			for i := 0; i < m.TriangleCount(); i++ {
				v, n := m.Triangle(i)
				var dot float32
				for a := 0; a < 3; a++ {
					c := (v[0][a]+v[1][a]+v[2][a])/3 - 0.5
					dot += c * n[a]
				}
				if dot <= 0 {
					t.Fatalf("triangle %d faces inward: %v normal %v", i, v, n)
				}
			}
		})
	}
}

func TestReferencesSkipped(t *testing.T) {
	m := build(t, cells{
		cell(construction.Reference, 0, 0, 0, 0, direction.PZ),
		cell(construction.Space, 1, 0, 0, 0, direction.PZ),
	})
	if !m.IsEmpty() {
		t.Fatalf("expected empty mesh, got %d triangles", m.TriangleCount())
	}
}

func TestUnregisteredTypeFallsBack(t *testing.T) {
	m := build(t, cells{cell(construction.SimplePrimitivesCount+3, 0, 0, 0, 0, direction.PZ)})
	if m.TriangleCount() != 12 {
		t.Fatalf("triangles = %d, want cube fallback", m.TriangleCount())
	}
}

func TestConstructReplacesMesh(t *testing.T) {
	h := New(Defaults(sdfx.NewWithCells(8)))
	src := cells{cell(construction.Cube, 0, 0, 0, 0, direction.PZ)}
	for i := 0; i < 2; i++ {
		if err := h.Construct(src); err != nil {
			t.Fatalf("Construct failed: %v", err)
		}
	}
	if h.Mesh().TriangleCount() != 12 {
		t.Fatalf("triangles = %d after rebuild, want 12", h.Mesh().TriangleCount())
	}
}

type failingGenerator struct{ err error }

func (g failingGenerator) Generate(Props, *kernel.Mesh) error { return g.err }

func TestConstructReportsGeneratorError(t *testing.T) {
	boom := errors.New("boom")
	r := NewRegistry()
	r.Register(construction.Cube, failingGenerator{boom})
	h := New(r)
	err := h.Construct(cells{cell(construction.Cube, 1, 2, 3, 0, direction.PZ)})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped boom", err)
	}
}

func TestSmoothPrimitives(t *testing.T) {
	tests := []struct {
		typ    construction.ElementType
		lo, hi [3]float32
	}{
		{construction.Sphere, [3]float32{0, 0, 0}, [3]float32{1, 1, 1}},
		{construction.Ledder, [3]float32{0, 0, 0.85}, [3]float32{1, 1, 1}},
		{construction.CylindricPlatform, [3]float32{-1, 0, -1}, [3]float32{2, 1, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			m := build(t, cells{cell(tt.typ, 0, 0, 0, 0, direction.PZ)})
			if m.IsEmpty() {
				t.Fatal("expected geometry")
			}
			assertBounds(t, m, tt.lo, tt.hi, 0.1)

			m = build(t, cells{cell(tt.typ, 0, 0, 0, direction.All, direction.PZ)})
			if !m.IsEmpty() {
				t.Fatalf("enclosed %v emitted %d triangles", tt.typ, m.TriangleCount())
			}
		})
	}
}

func TestLedderWindows(t *testing.T) {
	m := &kernel.Mesh{}
	p := Props{Flags: direction.All, Orientation: direction.PZ}
	if err := NewLedder(sdfx.NewWithCells(32)).Generate(p, m); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if m.IsEmpty() {
		t.Fatal("expected geometry")
	}
	for i := 0; i+2 < len(m.Vertices); i += 3 {
		x, y := m.Vertices[i], m.Vertices[i+1]
		if x > 0.3 && x < 0.7 && ((y > 0.22 && y < 0.36) || (y > 0.64 && y < 0.78)) {
			t.Fatalf("vertex (%v, %v) inside a window between rungs", x, y)
		}
	}
}

func TestPlatformStaysInFootprint(t *testing.T) {
	m := &kernel.Mesh{}
	p := Props{Flags: direction.All, Orientation: direction.PZ}
	if err := NewCylindricPlatform(sdfx.NewWithCells(16)).Generate(p, m); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	assertBounds(t, m, [3]float32{-1, 0, -1}, [3]float32{2, 1, 2}, 0.1)
}

func TestRegistryTypes(t *testing.T) {
	types := Defaults(sdfx.New()).Types()
	if len(types) != int(construction.SimplePrimitivesCount) {
		t.Fatalf("registered %d types, want %d", len(types), construction.SimplePrimitivesCount)
	}
	for i, typ := range types {
		if typ != construction.ElementType(i) {
			t.Fatalf("types[%d] = %v", i, typ)
		}
	}
	if _, ok := NewRegistry().Lookup(construction.Cube); ok {
		t.Fatal("empty registry should not resolve Cube")
	}
}

func TestBase(t *testing.T) {
	box := construction.BBox{Min: direction.V(-1, 0, 2), Max: direction.V(3, 2, 5)}
	m := Base(box)
	if m.TriangleCount() != 2 || m.Name != BaseName {
		t.Fatalf("base = %d triangles named %q", m.TriangleCount(), m.Name)
	}
	assertBounds(t, m, [3]float32{-1, 0, 2}, [3]float32{3, 0, 5}, 0)
	for i := 0; i < 2; i++ {
		if _, n := m.Triangle(i); n != [3]float32{0, 1, 0} {
			t.Fatalf("base normal = %v", n)
		}
	}
	if !Base(construction.EmptyBox()).IsEmpty() {
		t.Fatal("empty box should give an empty base")
	}
}
