package berth

import (
	"fmt"

	"github.com/chazu/berth/pkg/construction"
	"github.com/chazu/berth/pkg/direction"
)

// NoGroup is returned for cells that hold no element.
const NoGroup = ^uint32(0)

// Element is one occupied grid cell.
type Element struct {
	// Construction is the template in effect, which morphing may swap for
	// a corner variant.
	Construction *construction.Description
	// Type is the type the element was placed as. Morphing never changes it.
	Type construction.ElementType
	// Direction is the current orientation, including a mirror modifier
	// morphing may add.
	Direction direction.Direction
	// OriginalDirection is the orientation given at placement.
	OriginalDirection direction.Direction
	// Mask holds a flag for every side hidden by a neighbor.
	Mask direction.Direction
	// Group is the connectivity group id.
	Group uint32
}

// IsReference reports whether e only marks a cell covered by a multi-cell
// element anchored elsewhere.
func (e *Element) IsReference() bool {
	return e.Construction != nil && e.Construction.Type == construction.Reference
}

func (e *Element) String() string {
	kind := "nil"
	if e.Construction != nil {
		kind = e.Construction.Type.String()
	}
	return fmt.Sprintf("%s(%s) dir=%v mask=%v group=%d", e.Type, kind, e.Direction, e.Mask, e.Group)
}
