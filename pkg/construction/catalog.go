package construction

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/chazu/berth/pkg/direction"
)

// ErrInvalidCatalog reports a catalog rejected by validation.
var ErrInvalidCatalog = errors.New("construction: invalid catalog")

//go:embed catalog.schema.json
var catalogSchemaSource string

var catalogSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	return jsonschema.CompileString("catalog.schema.json", catalogSchemaSource)
})

// Catalog is the file form of a set of templates and objects.
type Catalog struct {
	Templates []TemplateSpec     `yaml:"templates" json:"templates"`
	Objects   []ObjectProperties `yaml:"objects" json:"objects"`
}

// TemplateSpec describes one template in a catalog file. Relations are given
// either as six slot weights (px, py, pz, nx, ny, nz) or as an explicit list.
type TemplateSpec struct {
	Name      string         `yaml:"name" json:"name"`
	BBox      *BoxSpec       `yaml:"bbox,omitempty" json:"bbox,omitempty"`
	Weights   []int          `yaml:"weights,omitempty" json:"weights,omitempty"`
	Neighbors []NeighborSpec `yaml:"neighbors,omitempty" json:"neighbors,omitempty"`
}

// BoxSpec is a bounding box in catalog form.
type BoxSpec struct {
	Min [3]int `yaml:"min" json:"min"`
	Max [3]int `yaml:"max" json:"max"`
}

// NeighborSpec is one relation in catalog form.
type NeighborSpec struct {
	Weight int    `yaml:"weight" json:"weight"`
	Offset [3]int `yaml:"offset" json:"offset"`
	Flag   string `yaml:"flag" json:"flag"`
}

// ParseCatalog decodes a YAML catalog and checks it against the catalog
// schema.
func ParseCatalog(data []byte) (*Catalog, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("construction: parse catalog: %w", err)
	}
	if doc == nil {
		return &Catalog{}, nil
	}

	// The schema validator works on JSON-shaped values.
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("construction: catalog is not JSON-compatible: %w", err)
	}
	var inst any
	if err := json.Unmarshal(raw, &inst); err != nil {
		return nil, fmt.Errorf("construction: catalog is not JSON-compatible: %w", err)
	}
	schema, err := catalogSchema()
	if err != nil {
		return nil, fmt.Errorf("construction: compile catalog schema: %w", err)
	}
	if err := schema.Validate(inst); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}

	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("construction: decode catalog: %w", err)
	}
	return &c, nil
}

// Descriptions converts the catalog templates. Templates without a bbox
// cover a single cell.
func (c *Catalog) Descriptions() ([]Description, error) {
	out := make([]Description, 0, len(c.Templates))
	for _, t := range c.Templates {
		d := Description{Name: t.Name, Type: UserCreated, BBox: UnitBox}
		if t.BBox != nil {
			d.BBox = BBox{Min: vec(t.BBox.Min), Max: vec(t.BBox.Max)}
		}
		switch {
		case len(t.Weights) == direction.Count:
			w := t.Weights
			d.Neighbors = relations(Influence(w[0]), Influence(w[1]), Influence(w[2]),
				Influence(w[3]), Influence(w[4]), Influence(w[5]))
		case len(t.Weights) != 0:
			return nil, fmt.Errorf("construction: template %q: want %d weights, got %d",
				t.Name, direction.Count, len(t.Weights))
		}
		for _, n := range t.Neighbors {
			flag, err := direction.Parse(n.Flag)
			if err != nil {
				return nil, fmt.Errorf("construction: template %q: %w", t.Name, err)
			}
			d.Neighbors = append(d.Neighbors, Neighbor{
				Weight: Influence(n.Weight),
				Offset: vec(n.Offset),
				Flag:   flag,
			})
		}
		out = append(out, d)
	}
	return out, nil
}

func vec(v [3]int) direction.Vec3i { return direction.V(v[0], v[1], v[2]) }

// LoadCatalog parses, validates and registers a catalog into l. Templates
// are registered before objects so objects may refer to them. Nothing is
// registered when validation finds an error; the findings are returned
// either way.
func LoadCatalog(l *Library, data []byte) (ValidationResult, error) {
	c, err := ParseCatalog(data)
	if err != nil {
		return ValidationResult{}, err
	}
	ds, err := c.Descriptions()
	if err != nil {
		return ValidationResult{}, err
	}
	result := ValidateAll(l, ds)
	if !result.OK() {
		return result, fmt.Errorf("%w: %s", ErrInvalidCatalog, result.Errors[0].Error())
	}
	for _, d := range ds {
		if _, err := l.RegisterPrimitive(d.Name, d); err != nil {
			return result, err
		}
	}
	for _, o := range c.Objects {
		if _, err := l.NewObject(o); err != nil {
			return result, err
		}
	}
	return result, nil
}

// LoadCatalogFile reads and registers the catalog at path.
func LoadCatalogFile(l *Library, path string) (ValidationResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ValidationResult{}, fmt.Errorf("construction: read catalog: %w", err)
	}
	return LoadCatalog(l, data)
}
