package engine

import (
	"strings"
	"testing"

	"github.com/chazu/berth/pkg/berth"
	"github.com/chazu/berth/pkg/construction"
	"github.com/chazu/berth/pkg/direction"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Preprocessing tests
// ---------------------------------------------------------------------------

func TestPreprocessKeywords(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "simple keyword",
			input:  `(place "Block" 0 0 0 :dir :nx)`,
			expect: `(place "Block" 0 0 0 "__kw_dir" "__kw_nx")`,
		},
		{
			name:   "multiple keywords",
			input:  `(new-object "Block" :element "Cube" :material "stone")`,
			expect: `(new_object "Block" "__kw_element" "Cube" "__kw_material" "stone")`,
		},
		{
			name:   "keyword in string preserved",
			input:  `"thing with :keyword inside"`,
			expect: `"thing with :keyword inside"`,
		},
		{
			name:   "assignment operator preserved",
			input:  `(def x := 10)`,
			expect: `(def x := 10)`,
		},
		{
			name:   "kebab-case identifier",
			input:  `(set-element "Wedge" 1 0 1)`,
			expect: `(set_element "Wedge" 1 0 1)`,
		},
		{
			name:   "minus operator preserved",
			input:  `(- 10 5)`,
			expect: `(- 10 5)`,
		},
		{
			name:   "comment converted to // style",
			input:  `;; comment with :keyword`,
			expect: `// comment with :keyword`,
		},
		{
			name:   "single semicolon comment",
			input:  `; simple comment`,
			expect: `// simple comment`,
		},
		{
			name:   "hyphen in keyword preserved",
			input:  `:copy-from`,
			expect: `"__kw_copy-from"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := preprocessSource(tt.input)
			if got != tt.expect {
				t.Errorf("preprocessSource(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// run evaluates source against b and returns the value of the last form.
func run(t *testing.T, b *berth.Berth, source string) zygo.Sexp {
	t.Helper()
	env := zygo.NewZlispSandbox()
	defer env.Stop()
	registerBuiltins(env, b)
	if err := env.LoadString(preprocessSource(source)); err != nil {
		t.Fatalf("load %q: %v", source, err)
	}
	out, err := env.Run()
	if err != nil {
		t.Fatalf("run %q: %v", source, err)
	}
	return out
}

// runErr evaluates source and expects a runtime error.
func runErr(t *testing.T, b *berth.Berth, source string) error {
	t.Helper()
	env := zygo.NewZlispSandbox()
	defer env.Stop()
	registerBuiltins(env, b)
	if err := env.LoadString(preprocessSource(source)); err != nil {
		return err
	}
	_, err := env.Run()
	if err == nil {
		t.Fatalf("run %q: expected an error", source)
	}
	return err
}

func newBerth() *berth.Berth { return berth.New(berth.WithGridSide(16)) }

func wantBool(t *testing.T, s zygo.Sexp, want bool) {
	t.Helper()
	v, ok := s.(*zygo.SexpBool)
	if !ok {
		t.Fatalf("expected bool, got %T", s)
	}
	if v.Val != want {
		t.Fatalf("got %v, want %v", v.Val, want)
	}
}

func wantInt(t *testing.T, s zygo.Sexp, want int) {
	t.Helper()
	v, err := toInt(s)
	if err != nil {
		t.Fatal(err)
	}
	if v != want {
		t.Fatalf("got %d, want %d", v, want)
	}
}

func wantStrings(t *testing.T, s zygo.Sexp, n int) []string {
	t.Helper()
	items, err := sexpListToSlice(s)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != n {
		t.Fatalf("list has %d items, want %d", len(items), n)
	}
	out := make([]string, 0, n)
	for _, it := range items {
		if str, ok := it.(*zygo.SexpStr); ok {
			out = append(out, str.S)
		}
	}
	return out
}

// ---------------------------------------------------------------------------
// Objects and placement
// ---------------------------------------------------------------------------

func TestNewObjectStatus(t *testing.T) {
	b := newBerth()
	out := run(t, b, `(new-object "Block" :element "Cube" :mesh "block" :material "stone")`)
	if s, _ := toString(out); s != "ready" {
		t.Fatalf("status = %q, want ready", s)
	}
	obj, ok := b.Library().Object("Block")
	if !ok {
		t.Fatal("object not registered")
	}
	if obj.Element != construction.Cube || obj.Properties.MaterialName != "stone" {
		t.Errorf("object = %+v", obj)
	}

	out = run(t, b, `(new-object "Arch" :element "ArchTemplate")`)
	if s, _ := toString(out); s != "pending" {
		t.Fatalf("status = %q, want pending", s)
	}
}

func TestNewObjectTwice(t *testing.T) {
	b := newBerth()
	err := runErr(t, b, `(new-object "Block" :element "Cube") (new-object "Block" :element "Cube")`)
	if !strings.Contains(err.Error(), "new-object") {
		t.Errorf("error %q should name the builtin", err)
	}
}

func TestPlaceStacksBlocks(t *testing.T) {
	b := newBerth()
	run(t, b, `
(new-object "Block" :element "Cube")
(place "Block" 2 0 3)
(place "Block" 2 1 3 :dir :nx :from :ny)
`)
	if n := b.Core().Len(); n != 2 {
		t.Fatalf("elements = %d, want 2", n)
	}
	bottom := b.Core().Element(direction.V(2, 0, 3))
	top := b.Core().Element(direction.V(2, 1, 3))
	if bottom == nil || top == nil {
		t.Fatal("expected both blocks placed")
	}
	if bottom.Mask != direction.PY || top.Mask != direction.NY {
		t.Errorf("masks = %v / %v, want py / ny", bottom.Mask, top.Mask)
	}
	if top.Direction != direction.NX {
		t.Errorf("top direction = %v, want nx", top.Direction)
	}
}

func TestPlaceAcceptsPositionList(t *testing.T) {
	b := newBerth()
	run(t, b, `(new-object "Block" :element "Cube") (place "Block" (list 1 0 1))`)
	if b.Core().Element(direction.V(1, 0, 1)) == nil {
		t.Fatal("expected a block at (1,0,1)")
	}
}

func TestPlaceErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"unknown object", `(place "Nope" 0 0 0)`, "not found"},
		{"missing position", `(place "Block")`, "position"},
		{"short position", `(place "Block" 1 2)`, "x y z"},
		{"fractional coordinate", `(place "Block" 1.5 0 0)`, "integer"},
		{"bad direction", `(place "Block" 0 0 0 :dir :up)`, "dir"},
		{"out of bounds", `(place "Block" 99 0 0)`, "out of bounds"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBerth()
			run(t, b, `(new-object "Block" :element "Cube")`)
			err := runErr(t, b, tt.source)
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should contain %q", err, tt.want)
			}
		})
	}
}

func TestPlaceSpaceObject(t *testing.T) {
	b := newBerth()
	out := run(t, b, `(new-object "Air" :element "Space") (place "Air" 0 0 0)`)
	wantBool(t, out, true)
	if n := b.Core().Len(); n != 0 {
		t.Errorf("elements = %d, want 0", n)
	}
}

// ---------------------------------------------------------------------------
// Elements and morphing
// ---------------------------------------------------------------------------

func TestSetElement(t *testing.T) {
	b := newBerth()
	wantBool(t, run(t, b, `(set-element "Cube" 0 0 0)`), true)
	wantBool(t, run(t, b, `(set-element "Space" 1 0 0)`), false)
	wantBool(t, run(t, b, `(set-element "Cube" 40 0 0)`), false)

	err := runErr(t, b, `(set-element "Arch" 0 0 0)`)
	if !strings.Contains(err.Error(), "no template") {
		t.Errorf("error %q should report the missing template", err)
	}
}

func TestElementReportsMorph(t *testing.T) {
	b := newBerth()
	out := run(t, b, `
(set-element "Wedge" 0 0 0 :dir :nx)
(set-element "Wedge" 0 0 1 :dir :pz)
(element 0 0 1)
`)
	items, err := sexpListToSlice(out)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 5 {
		t.Fatalf("element list has %d items, want 5", len(items))
	}
	names := wantStrings(t, out, 5)
	if names[0] != "Wedge" || names[1] != "WedgeOutCorner" {
		t.Errorf("type/template = %s/%s, want Wedge/WedgeOutCorner", names[0], names[1])
	}
	if _, err := direction.Parse(names[2]); err != nil {
		t.Errorf("direction %q does not parse: %v", names[2], err)
	}
	wantInt(t, items[4], 0)
}

func TestElementEmptyCell(t *testing.T) {
	b := newBerth()
	if out := run(t, b, `(element 3 3 3)`); out != zygo.SexpNull {
		t.Fatalf("expected nil, got %s", out.SexpString(nil))
	}
}

// ---------------------------------------------------------------------------
// Groups
// ---------------------------------------------------------------------------

func TestGroupAndWeld(t *testing.T) {
	b := newBerth()
	run(t, b, `
(set-element "Cube" 0 0 0)
(set-element "Cube" 0 1 0 :from :pz)
`)
	g0 := run(t, b, `(group 0 0 0)`)
	g1 := run(t, b, `(group 0 1 0)`)
	wantInt(t, g0, 0)
	wantInt(t, g1, 1)
	wantInt(t, run(t, b, `(group 5 5 5)`), -1)

	wantBool(t, run(t, b, `(weld 0 1)`), true)
	wantInt(t, run(t, b, `(group 0 1 0)`), 0)
	wantBool(t, run(t, b, `(weld 0 1)`), false)

	if e := b.Core().Element(direction.V(0, 0, 0)); e.Mask != direction.PY {
		t.Errorf("welded mask = %v, want py", e.Mask)
	}
}

func TestWeldRejectsOutOfRangeGroup(t *testing.T) {
	for _, src := range []string{`(weld 0 -1)`, `(weld 1 4294967297)`, `(weld 4294967296 0)`} {
		b := newBerth()
		run(t, b, `
(set-element "Cube" 0 0 0)
(set-element "Cube" 0 1 0 :from :pz)
`)
		err := runErr(t, b, src)
		if !strings.Contains(err.Error(), "non-negative integer") {
			t.Errorf("%s: error %q should reject the group id", src, err)
		}
		wantInt(t, run(t, b, `(group 0 1 0)`), 1)
	}
}

// ---------------------------------------------------------------------------
// Queries
// ---------------------------------------------------------------------------

func TestBBox(t *testing.T) {
	b := newBerth()
	if out := run(t, b, `(bbox)`); out != zygo.SexpNull {
		t.Fatalf("empty bbox = %s, want nil", out.SexpString(nil))
	}
	out := run(t, b, `(set-element "Cube" 1 0 2) (set-element "Cube" 3 2 2) (bbox)`)
	items, err := sexpListToSlice(out)
	if err != nil {
		t.Fatal(err)
	}
	want := []int{1, 0, 2, 4, 3, 3}
	if len(items) != len(want) {
		t.Fatalf("bbox has %d items, want %d", len(items), len(want))
	}
	for i, w := range want {
		wantInt(t, items[i], w)
	}
}

func TestElementCountAndReset(t *testing.T) {
	b := newBerth()
	wantInt(t, run(t, b, `(set-element "CylindricPlatform" 4 0 4) (element-count)`), 9)
	wantInt(t, run(t, b, `(reset) (element-count)`), 0)
	if b.Library().Len() != int(construction.SimplePrimitivesCount) {
		t.Error("reset should keep the library")
	}
}

func TestTemplates(t *testing.T) {
	names := wantStrings(t, run(t, newBerth(), `(templates)`), int(construction.SimplePrimitivesCount))
	if names[0] != "Cube" {
		t.Errorf("first template = %q, want Cube", names[0])
	}
}

// ---------------------------------------------------------------------------
// End to end
// ---------------------------------------------------------------------------

func TestPyramidScript(t *testing.T) {
	source := `
(new-object "Slope" :element "Wedge")
(place "Slope" 0 0 1 :dir :nx)
(place "Slope" 1 0 0 :dir :px)
(place "Slope" 1 0 1 :dir :pz)
(place "Slope" 0 0 0 :dir :nz)
`
	b := evalOK(t, NewEngine(), source)
	for _, c := range [][2]int{{0, 0}, {0, 1}, {1, 0}, {1, 1}} {
		e := b.Core().Element(direction.V(c[0], 0, c[1]))
		if e == nil {
			t.Fatalf("no element at (%d,0,%d)", c[0], c[1])
		}
		if e.Construction.Type != construction.WedgeOutCorner {
			t.Errorf("(%d,0,%d) = %v, want WedgeOutCorner", c[0], c[1], e.Construction.Type)
		}
	}
}

func TestScriptVariables(t *testing.T) {
	source := `
(new-object "Block" :element "Cube")
(def x 2)
(def h 1)
(place "Block" x 0 x)
(place "Block" x h x)
(place "Block" x (+ h 1) x)
`
	b := evalOK(t, NewEngine(), source)
	if n := b.Core().Len(); n != 3 {
		t.Fatalf("elements = %d, want 3", n)
	}
	if g := b.Group(direction.V(2, 2, 2)); g != 0 {
		t.Errorf("top of the stack group = %d, want 0", g)
	}
}
