package construction

import "fmt"

// ObjectProperties describes a placeable object. ElementName names the
// construction template the object is built from; an empty name means the
// object occupies no cell.
type ObjectProperties struct {
	Name         string `yaml:"name" json:"name"`
	ElementName  string `yaml:"element" json:"element"`
	MeshName     string `yaml:"mesh,omitempty" json:"mesh,omitempty"`
	MaterialName string `yaml:"material,omitempty" json:"material,omitempty"`
}

// Object is a registered object bound to a template id.
type Object struct {
	Properties ObjectProperties
	Element    ElementType
}

// ObjectStatus is the registration state of an object name.
type ObjectStatus int

const (
	ObjectMissing ObjectStatus = iota
	ObjectReady
	// ObjectPending objects wait for their template to be registered.
	ObjectPending
)

func (s ObjectStatus) String() string {
	switch s {
	case ObjectReady:
		return "ready"
	case ObjectPending:
		return "pending"
	}
	return "missing"
}

// NewObject registers an object. When its template is not known yet the
// object is parked and becomes ready once RegisterPrimitive adds a template
// of that name.
func (l *Library) NewObject(p ObjectProperties) (ObjectStatus, error) {
	if l.ObjectStatus(p.Name) != ObjectMissing {
		return ObjectMissing, fmt.Errorf("construction: object %q: %w", p.Name, ErrAlreadyExists)
	}
	if p.ElementName == "" {
		l.objects[p.Name] = Object{Properties: p, Element: Space}
		return ObjectReady, nil
	}
	if id, ok := l.ids[p.ElementName]; ok {
		l.objects[p.Name] = Object{Properties: p, Element: id}
		return ObjectReady, nil
	}
	l.pending[p.ElementName] = append(l.pending[p.ElementName], p)
	return ObjectPending, nil
}

// Object returns the ready object registered under name.
func (l *Library) Object(name string) (Object, bool) {
	o, ok := l.objects[name]
	return o, ok
}

// ObjectStatus reports whether name is ready, pending or unknown.
func (l *Library) ObjectStatus(name string) ObjectStatus {
	if _, ok := l.objects[name]; ok {
		return ObjectReady
	}
	for _, waiting := range l.pending {
		for _, p := range waiting {
			if p.Name == name {
				return ObjectPending
			}
		}
	}
	return ObjectMissing
}

// resolvePending binds objects waiting for the template name.
func (l *Library) resolvePending(name string, id ElementType) {
	for _, p := range l.pending[name] {
		l.objects[p.Name] = Object{Properties: p, Element: id}
	}
	delete(l.pending, name)
}
