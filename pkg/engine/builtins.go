package engine

import (
	"fmt"
	"math"
	"strings"

	"github.com/chazu/berth/pkg/berth"
	"github.com/chazu/berth/pkg/construction"
	"github.com/chazu/berth/pkg/direction"
	zygo "github.com/glycerine/zygomys/zygo"
	"github.com/samber/lo"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms berth Lisp source code before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: set-element -> set_element
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value: treat as flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_z) and plain strings ("z").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// toInt extracts an integer from a Sexp. Floats must be integral.
func toInt(s zygo.Sexp) (int, error) {
	if v, ok := s.(*zygo.SexpInt); ok {
		return int(v.Val), nil
	}
	f, err := toFloat64(s)
	if err != nil {
		return 0, err
	}
	if f != float64(int(f)) {
		return 0, fmt.Errorf("expected integer, got %v", f)
	}
	return int(f), nil
}

// toDirection converts a keyword or string such as :nx or "pz|lr".
func toDirection(s zygo.Sexp) (direction.Direction, error) {
	name, err := toKeywordString(s)
	if err != nil {
		return 0, fmt.Errorf("expected direction keyword (:px ... :nz): %w", err)
	}
	return direction.Parse(name)
}

// toPosition reads a grid position from either three integers or a single
// list of three integers at the front of args. It returns the arguments
// left over.
func toPosition(args []zygo.Sexp) (direction.Vec3i, []zygo.Sexp, error) {
	if len(args) == 0 {
		return direction.Vec3i{}, nil, fmt.Errorf("expected a position")
	}
	coords := args
	rest := args[min(3, len(args)):]
	if items, err := sexpListToSlice(args[0]); err == nil && items != nil {
		coords, rest = items, args[1:]
	}
	if len(coords) < 3 {
		return direction.Vec3i{}, nil, fmt.Errorf("position needs x y z, got %d values", len(coords))
	}
	var xyz [3]int
	for i := range xyz {
		v, err := toInt(coords[i])
		if err != nil {
			return direction.Vec3i{}, nil, fmt.Errorf("position %c: %w", "xyz"[i], err)
		}
		xyz[i] = v
	}
	return direction.V(xyz[0], xyz[1], xyz[2]), rest, nil
}

// placement reads the shared (name x y z :dir d :from f) argument shape.
func placement(fn string, args []zygo.Sexp) (name string, pos direction.Vec3i, dir, from direction.Direction, err error) {
	pa := parseArgs(args)
	if len(pa.positional) < 2 {
		return "", pos, 0, 0, fmt.Errorf("%s requires a name and a position", fn)
	}
	if name, err = toString(pa.positional[0]); err != nil {
		return "", pos, 0, 0, fmt.Errorf("%s: name: %w", fn, err)
	}
	if pos, _, err = toPosition(pa.positional[1:]); err != nil {
		return "", pos, 0, 0, fmt.Errorf("%s: %w", fn, err)
	}
	dir, from = direction.PZ, direction.NY
	if v, ok := pa.kw["dir"]; ok {
		if dir, err = toDirection(v); err != nil {
			return "", pos, 0, 0, fmt.Errorf("%s: dir: %w", fn, err)
		}
	}
	if v, ok := pa.kw["from"]; ok {
		if from, err = toDirection(v); err != nil {
			return "", pos, 0, 0, fmt.Errorf("%s: from: %w", fn, err)
		}
	}
	return name, pos, dir, from, nil
}

// templateName prefers the registered name of d over the id.
func templateName(d *construction.Description, t construction.ElementType) string {
	if d != nil && d.Name != "" {
		return d.Name
	}
	return t.String()
}

func intList(vs ...int) zygo.Sexp {
	return zygo.MakeList(lo.Map(vs, func(v int, _ int) zygo.Sexp {
		return &zygo.SexpInt{Val: int64(v)}
	}))
}

func strList(vs ...string) zygo.Sexp {
	return zygo.MakeList(lo.Map(vs, func(v string, _ int) zygo.Sexp {
		return &zygo.SexpStr{S: v}
	}))
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the berth DSL builtins into a zygomys
// environment. The builtins operate on b.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, b *berth.Berth) {

	// -----------------------------------------------------------------------
	// (new-object "Block" :element "Cube" :mesh "block" :material "stone")
	// -----------------------------------------------------------------------
	env.AddFunction("new_object", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("new-object requires a name argument")
		}
		objName, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("new-object: name: %w", err)
		}
		props := construction.ObjectProperties{Name: objName}
		fields := map[string]*string{
			"element":  &props.ElementName,
			"mesh":     &props.MeshName,
			"material": &props.MaterialName,
		}
		for kw, dst := range fields {
			if v, ok := pa.kw[kw]; ok {
				s, err := toString(v)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("new-object: %s: %w", kw, err)
				}
				*dst = s
			}
		}
		status, err := b.Library().NewObject(props)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("new-object: %w", err)
		}
		return &zygo.SexpStr{S: status.String()}, nil
	})

	// -----------------------------------------------------------------------
	// (place "Block" 1 0 2 :dir :nx :from :ny)
	// -----------------------------------------------------------------------
	env.AddFunction("place", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		objName, pos, dir, from, err := placement("place", args)
		if err != nil {
			return zygo.SexpNull, err
		}
		err = b.PlaceObject(berth.PlacementParameters{
			Name:           objName,
			Position:       pos,
			Orientation:    dir,
			PlaceDirection: from,
		})
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("place: %w", err)
		}
		return &zygo.SexpBool{Val: true}, nil
	})

	// -----------------------------------------------------------------------
	// (set-element "Wedge" (list 3 0 4) :dir :pz)
	// -----------------------------------------------------------------------
	env.AddFunction("set_element", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		tmpl, pos, dir, from, err := placement("set-element", args)
		if err != nil {
			return zygo.SexpNull, err
		}
		id := b.Library().ID(tmpl)
		if id == construction.NoElement {
			return zygo.SexpNull, fmt.Errorf("set-element: no template named %q", tmpl)
		}
		return &zygo.SexpBool{Val: b.SetElement(id, pos, dir, from)}, nil
	})

	// -----------------------------------------------------------------------
	// (weld 0 3)
	// -----------------------------------------------------------------------
	env.AddFunction("weld", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("weld requires exactly 2 group ids, got %d", len(args))
		}
		var groups [2]uint32
		for i := range groups {
			g, err := toInt(args[i])
			if err != nil || g < 0 || int64(g) > math.MaxUint32 {
				return zygo.SexpNull, fmt.Errorf("weld: group %d: expected a non-negative integer", i+1)
			}
			groups[i] = uint32(g)
		}
		return &zygo.SexpBool{Val: b.Weld(groups[0], groups[1])}, nil
	})

	// -----------------------------------------------------------------------
	// (group 0 1 0) -> group id, or -1 for an empty cell
	// -----------------------------------------------------------------------
	env.AddFunction("group", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pos, _, err := toPosition(args)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("group: %w", err)
		}
		g := b.Group(pos)
		if g == berth.NoGroup {
			return &zygo.SexpInt{Val: -1}, nil
		}
		return &zygo.SexpInt{Val: int64(g)}, nil
	})

	// -----------------------------------------------------------------------
	// (element 0 0 1) -> ("Wedge" "WedgeOutCorner" "pz|lr" "px" 0), or nil
	// -----------------------------------------------------------------------
	env.AddFunction("element", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pos, _, err := toPosition(args)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("element: %w", err)
		}
		e := b.Core().Element(pos)
		if e == nil {
			return zygo.SexpNull, nil
		}
		return zygo.MakeList([]zygo.Sexp{
			&zygo.SexpStr{S: templateName(b.Library().Description(e.Type), e.Type)},
			&zygo.SexpStr{S: templateName(e.Construction, e.Construction.Type)},
			&zygo.SexpStr{S: e.Direction.String()},
			&zygo.SexpStr{S: e.Mask.String()},
			&zygo.SexpInt{Val: int64(e.Group)},
		}), nil
	})

	// -----------------------------------------------------------------------
	// (bbox) -> (minx miny minz maxx maxy maxz), or nil when empty
	// -----------------------------------------------------------------------
	env.AddFunction("bbox", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		box := b.BoundingBox()
		if box.IsEmpty() {
			return zygo.SexpNull, nil
		}
		return intList(box.Min.X, box.Min.Y, box.Min.Z, box.Max.X, box.Max.Y, box.Max.Z), nil
	})

	// -----------------------------------------------------------------------
	// (element-count) -> occupied cells, footprint markers included
	// -----------------------------------------------------------------------
	env.AddFunction("element_count", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return &zygo.SexpInt{Val: int64(b.Core().Len())}, nil
	})

	// -----------------------------------------------------------------------
	// (templates) -> sorted template names
	// -----------------------------------------------------------------------
	env.AddFunction("templates", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return strList(b.Library().Names()...), nil
	})

	// -----------------------------------------------------------------------
	// (reset) clears the construction and keeps the library
	// -----------------------------------------------------------------------
	env.AddFunction("reset", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		b.NewConstruction()
		return zygo.SexpNull, nil
	})
}
