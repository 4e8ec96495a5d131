package berth

import (
	"testing"

	"github.com/chazu/berth/pkg/construction"
	"github.com/chazu/berth/pkg/direction"
)

func newTestBerth(t *testing.T) *Berth {
	t.Helper()
	return New(WithMeshCells(8))
}

// set places a built-in primitive grouped from below.
func set(t *testing.T, b *Berth, typ construction.ElementType, x, y, z int, dir direction.Direction) {
	t.Helper()
	setFrom(t, b, typ, x, y, z, dir, direction.NY)
}

func setFrom(t *testing.T, b *Berth, typ construction.ElementType, x, y, z int, dir, from direction.Direction) {
	t.Helper()
	if !b.SetElement(typ, direction.V(x, y, z), dir, from) {
		t.Fatalf("SetElement(%v, (%d,%d,%d)) refused", typ, x, y, z)
	}
}

// at looks the element up again; handles move when a column grows.
func at(t *testing.T, b *Berth, x, y, z int) *Element {
	t.Helper()
	e := b.Core().Element(direction.V(x, y, z))
	if e == nil {
		t.Fatalf("no element at (%d,%d,%d)", x, y, z)
	}
	return e
}

func assertMask(t *testing.T, b *Berth, x, y, z int, want direction.Direction) {
	t.Helper()
	if got := at(t, b, x, y, z).Mask; got != want {
		t.Fatalf("mask at (%d,%d,%d) = %v, want %v", x, y, z, got, want)
	}
}

func assertTemplate(t *testing.T, b *Berth, x, y, z int, want construction.ElementType) {
	t.Helper()
	if got := at(t, b, x, y, z).Construction.Type; got != want {
		t.Fatalf("template at (%d,%d,%d) = %v, want %v", x, y, z, got, want)
	}
}

func assertDirection(t *testing.T, b *Berth, x, y, z int, want direction.Direction) {
	t.Helper()
	if got := at(t, b, x, y, z).Direction; got != want {
		t.Fatalf("direction at (%d,%d,%d) = %v, want %v", x, y, z, got, want)
	}
}
