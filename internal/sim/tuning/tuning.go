package tuning

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"voxelgen.ai/internal/sim/facet"
	"voxelgen.ai/internal/sim/geom"
)

const (
	KindArray  = "array"
	KindSparse = "sparse"
)

//go:embed facets.schema.json
var schemaJSON string

var schema = jsonschema.MustCompileString("facets.schema.json", schemaJSON)

type Tuning struct {
	Facets []Layout `yaml:"facets"`
	Probe  Probe    `yaml:"probe"`
}

type Layout struct {
	Name    string     `yaml:"name"`
	Kind    string     `yaml:"kind"`
	Bounds  RegionSpec `yaml:"region"`
	Padding BorderSpec `yaml:"border"`
	Default float32    `yaml:"default"`
}

type RegionSpec struct {
	Min  [3]int `yaml:"min"`
	Size [3]int `yaml:"size"`
}

type BorderSpec struct {
	Top    int `yaml:"top"`
	Bottom int `yaml:"bottom"`
	Sides  int `yaml:"sides"`
}

type Probe struct {
	Seed  int64   `yaml:"seed"`
	Scale float32 `yaml:"scale"`
}

// Defaults is a single dense facet over min=(10,20,30) size=(40,50,60)
// with bottom=15 sides=10.
func Defaults() Tuning {
	return Tuning{
		Facets: []Layout{{
			Name:    "density",
			Kind:    KindArray,
			Bounds:  RegionSpec{Min: [3]int{10, 20, 30}, Size: [3]int{40, 50, 60}},
			Padding: BorderSpec{Bottom: 15, Sides: 10},
		}},
		Probe: Probe{Seed: 1337, Scale: 64},
	}
}

func Load(path string) (Tuning, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Tuning{}, err
	}
	t, err := Parse(raw)
	if err != nil {
		return Tuning{}, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return t, nil
}

// Parse validates raw YAML against the layout schema before decoding it.
func Parse(raw []byte) (Tuning, error) {
	var t Tuning
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return t, err
	}
	normalized, err := toJSONValue(doc)
	if err != nil {
		return t, err
	}
	if err := schema.Validate(normalized); err != nil {
		return t, fmt.Errorf("schema: %w", err)
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, err
	}

	seen := map[string]bool{}
	for i := range t.Facets {
		if t.Facets[i].Kind == "" {
			t.Facets[i].Kind = KindArray
		}
		if seen[t.Facets[i].Name] {
			return t, fmt.Errorf("duplicate facet name %q", t.Facets[i].Name)
		}
		seen[t.Facets[i].Name] = true
	}
	if t.Probe.Scale == 0 {
		t.Probe.Scale = Defaults().Probe.Scale
	}
	return t, nil
}

// toJSONValue turns a YAML document into the value shapes the schema validator expects.
func toJSONValue(doc any) (any, error) {
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

func (l Layout) Region() geom.Region {
	return geom.RegionFromMinAndSize(
		geom.V(l.Bounds.Min[0], l.Bounds.Min[1], l.Bounds.Min[2]),
		geom.V(l.Bounds.Size[0], l.Bounds.Size[1], l.Bounds.Size[2]),
	)
}

func (l Layout) Border() (geom.Border3D, error) {
	return geom.NewBorder3D(l.Padding.Top, l.Padding.Bottom, l.Padding.Sides)
}

// Build allocates the facet described by l.
func (l Layout) Build() (facet.FieldFacet3D, error) {
	border, err := l.Border()
	if err != nil {
		return nil, fmt.Errorf("facet %s: %w", l.Name, err)
	}
	var f facet.FieldFacet3D
	switch l.Kind {
	case KindArray, "":
		f, err = facet.NewArrayFieldFacet3D(l.Region(), border)
	case KindSparse:
		f, err = facet.NewSparseFieldFacet3D(l.Region(), border, l.Default)
	default:
		err = fmt.Errorf("unknown kind %q", l.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("facet %s: %w", l.Name, err)
	}
	return f, nil
}
