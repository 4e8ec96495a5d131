package construction

import (
	"errors"
	"fmt"
	"slices"

	"github.com/samber/lo"
)

var (
	// ErrNotFound reports a name or id that is not registered.
	ErrNotFound = errors.New("construction: not found")
	// ErrAlreadyExists reports a duplicate registration.
	ErrAlreadyExists = errors.New("construction: already exists")
)

// Library is the registry of construction templates and of the objects that
// refer to them. It is not safe for concurrent mutation.
type Library struct {
	primitives []*Description
	ids        map[string]ElementType
	objects    map[string]Object
	pending    map[string][]ObjectProperties
}

// NewLibrary returns a library with the built-in slots reserved but empty.
func NewLibrary() *Library {
	l := &Library{}
	l.Cleanup()
	return l
}

// Cleanup drops every template and object.
func (l *Library) Cleanup() {
	l.primitives = make([]*Description, SimplePrimitivesCount)
	l.ids = make(map[string]ElementType)
	l.objects = make(map[string]Object)
	l.pending = make(map[string][]ObjectProperties)
}

// RegisterSimplePrimitive installs a built-in template in the slot given by
// its type. It panics when the type is not a built-in id.
func (l *Library) RegisterSimplePrimitive(name string, d Description) {
	if d.Type >= SimplePrimitivesCount {
		panic(fmt.Sprintf("construction: %s is not a simple primitive", d.Type))
	}
	d.Name = name
	l.primitives[d.Type] = &d
	l.ids[name] = d.Type
	l.resolvePending(name, d.Type)
}

// RegisterPrimitive adds a user template under the next free id.
func (l *Library) RegisterPrimitive(name string, d Description) (ElementType, error) {
	if _, ok := l.ids[name]; ok {
		return NoElement, fmt.Errorf("construction: template %q: %w", name, ErrAlreadyExists)
	}
	id := ElementType(len(l.primitives))
	d.Type = id
	d.Name = name
	l.primitives = append(l.primitives, &d)
	l.ids[name] = id
	l.resolvePending(name, id)
	return id, nil
}

// ID returns the id registered under name, or NoElement.
func (l *Library) ID(name string) ElementType {
	if id, ok := l.ids[name]; ok {
		return id
	}
	return NoElement
}

// Description returns the template registered under id, or nil.
func (l *Library) Description(id ElementType) *Description {
	if int(id) >= len(l.primitives) {
		return nil
	}
	return l.primitives[id]
}

// DescriptionByName returns the template registered under name, or nil.
func (l *Library) DescriptionByName(name string) *Description {
	id, ok := l.ids[name]
	if !ok {
		return nil
	}
	return l.primitives[id]
}

// Names returns every registered template name in sorted order.
func (l *Library) Names() []string {
	names := lo.Keys(l.ids)
	slices.Sort(names)
	return names
}

// Len returns the number of registered templates.
func (l *Library) Len() int {
	return lo.CountBy(l.primitives, func(d *Description) bool { return d != nil })
}
