package construction

import (
	"fmt"

	"github.com/chazu/berth/pkg/direction"
)

// ValidationSeverity indicates whether a validation finding blocks
// registration or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // blocks registration
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	Template string             // which template has the problem (empty if catalog-level)
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	if e.Template == "" {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] template %q: %s", e.Severity, e.Template, e.Message)
}

// ValidationResult bundles blocking errors and advisory warnings.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// OK reports whether no blocking error was found.
func (r ValidationResult) OK() bool { return len(r.Errors) == 0 }

// Validate checks one template and returns every finding. It never mutates
// the template.
func Validate(d *Description) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateShape(d)...)
	errs = append(errs, validateRelations(d)...)
	return errs
}

// ValidateAll checks a batch of templates against each other and against
// the names already registered in l (which may be nil).
func ValidateAll(l *Library, ds []Description) ValidationResult {
	var result ValidationResult
	add := func(errs []ValidationError) {
		for _, e := range errs {
			if e.Severity == SeverityWarning {
				result.Warnings = append(result.Warnings, e)
			} else {
				result.Errors = append(result.Errors, e)
			}
		}
	}

	seen := make(map[string]bool)
	for i := range ds {
		d := &ds[i]
		add(Validate(d))
		if d.Name == "" {
			continue
		}
		if seen[d.Name] {
			add([]ValidationError{{
				Template: d.Name,
				Message:  "duplicate template name in catalog",
				Severity: SeverityError,
			}})
		}
		seen[d.Name] = true
		if l != nil && l.ID(d.Name) != NoElement {
			add([]ValidationError{{
				Template: d.Name,
				Message:  "template name is already registered",
				Severity: SeverityError,
			}})
		}
	}
	return result
}

// validateShape checks the name and footprint.
func validateShape(d *Description) []ValidationError {
	var errs []ValidationError
	if d.Name == "" {
		errs = append(errs, ValidationError{
			Message:  "template has no name",
			Severity: SeverityError,
		})
	}
	if d.BBox.IsEmpty() {
		errs = append(errs, ValidationError{
			Template: d.Name,
			Message:  fmt.Sprintf("bounding box %v is empty", d.BBox),
			Severity: SeverityError,
		})
	} else if !d.BBox.Contains(direction.Vec3i{}) {
		errs = append(errs, ValidationError{
			Template: d.Name,
			Message:  fmt.Sprintf("bounding box %v does not cover the anchor cell", d.BBox),
			Severity: SeverityWarning,
		})
	}
	return errs
}

// validateRelations checks weights, offsets and flags of every relation.
func validateRelations(d *Description) []ValidationError {
	var errs []ValidationError
	offsets := make(map[direction.Vec3i]bool)
	for i, n := range d.Neighbors {
		if n.Weight > FullyCovered {
			errs = append(errs, ValidationError{
				Template: d.Name,
				Message:  fmt.Sprintf("relation %d: weight %d exceeds %d", i, n.Weight, FullyCovered),
				Severity: SeverityError,
			})
		}
		axis := unitAxis(n.Offset)
		if axis == direction.None {
			errs = append(errs, ValidationError{
				Template: d.Name,
				Message:  fmt.Sprintf("relation %d: offset %v is not a unit axis step", i, n.Offset),
				Severity: SeverityError,
			})
		}
		if n.Flag.Modifiers() != 0 || n.Flag.Index() < 0 {
			errs = append(errs, ValidationError{
				Template: d.Name,
				Message:  fmt.Sprintf("relation %d: flag %v is not a single axis", i, n.Flag),
				Severity: SeverityError,
			})
		} else if axis != direction.None && axis != n.Flag {
			errs = append(errs, ValidationError{
				Template: d.Name,
				Message:  fmt.Sprintf("relation %d: flag %v does not match offset %v", i, n.Flag, n.Offset),
				Severity: SeverityWarning,
			})
		}
		if offsets[n.Offset] {
			errs = append(errs, ValidationError{
				Template: d.Name,
				Message:  fmt.Sprintf("relation %d: offset %v listed twice", i, n.Offset),
				Severity: SeverityError,
			})
		}
		offsets[n.Offset] = true
	}
	if n := len(d.Neighbors); n > 0 && n < direction.Count {
		errs = append(errs, ValidationError{
			Template: d.Name,
			Message:  fmt.Sprintf("only %d of %d relations defined", n, direction.Count),
			Severity: SeverityWarning,
		})
	}
	return errs
}

// unitAxis returns the axis flag of a unit step, or None.
func unitAxis(v direction.Vec3i) direction.Direction {
	for i := 0; i < direction.Count; i++ {
		f := direction.FromIndex(i)
		if direction.Offset(f) == v {
			return f
		}
	}
	return direction.None
}
