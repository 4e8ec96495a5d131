package spatial

import "testing"

func TestIndexInsertLookup(t *testing.T) {
	ix := NewIndex[string](256)
	ix.Insert(1, 2, 3, "a")
	ix.Insert(1, -4, 3, "b")
	if v := ix.Lookup(1, 2, 3); v == nil || *v != "a" {
		t.Fatalf("Lookup(1,2,3) = %v", v)
	}
	if v := ix.Lookup(1, -4, 3); v == nil || *v != "b" {
		t.Fatalf("Lookup(1,-4,3) = %v", v)
	}
	if ix.Lookup(1, 3, 3) != nil {
		t.Error("expected empty cell")
	}
	if ix.Lookup(-1, 0, 0) != nil || ix.Lookup(0, 0, 256) != nil {
		t.Error("out of bounds lookups should return nil")
	}
	ix.Insert(1, 2, 3, "c")
	if ix.Len() != 2 {
		t.Errorf("Len() = %d, want 2", ix.Len())
	}
}

func TestIndexPillarIsOneRun(t *testing.T) {
	ix := NewIndex[int](256)
	for y := 0; y < 100; y++ {
		ix.Insert(0, y, 0, y)
	}
	col := ix.Column(0, 0)
	if col == nil || col.Runs() != 1 || col.Len() != 100 {
		t.Fatalf("pillar column = %+v", col)
	}
}

func TestIndexRemoveDropsColumn(t *testing.T) {
	ix := NewIndex[int](256)
	ix.Insert(5, 0, 5, 1)
	if !ix.Remove(5, 0, 5) {
		t.Fatal("expected removal")
	}
	if ix.Column(5, 5) != nil {
		t.Error("empty column should be dropped")
	}
	if ix.Remove(5, 0, 5) {
		t.Error("second removal should report false")
	}
}

func TestIndexForEachAndFootprint(t *testing.T) {
	ix := NewIndex[int](256)
	for x := 2; x < 5; x++ {
		for z := 1; z < 3; z++ {
			for y := 0; y < 2; y++ {
				ix.Insert(x, y, z, x*100+y*10+z)
			}
		}
	}
	count := 0
	ix.ForEach(func(x, y, z int, v *int) {
		count++
		if *v != x*100+y*10+z {
			t.Errorf("value at (%d,%d,%d) = %d", x, y, z, *v)
		}
	})
	if count != 12 {
		t.Errorf("visited %d items, want 12", count)
	}
	l, tp, r, b := ix.Footprint()
	if l != 2 || tp != 1 || r != 5 || b != 3 {
		t.Errorf("Footprint() = %d,%d,%d,%d, want 2,1,5,3", l, tp, r, b)
	}
	ix.Clear()
	if ix.Len() != 0 || ix.Lookup(2, 0, 1) != nil {
		t.Error("Clear left items behind")
	}
}
