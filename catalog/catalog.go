// Package catalog holds static per-unit combat definitions loaded from YAML
package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/threatfield/core"
)

//go:embed units.schema.json
var schemaJSON string

//go:embed builtin.yaml
var builtinYAML []byte

// ErrDuplicateDef is returned when a catalog file defines the same id twice
var ErrDuplicateDef = errors.New("catalog: duplicate unit definition")

var unitSchema = jsonschema.MustCompileString("units.schema.json", schemaJSON)

// Catalog resolves definition ids to combat stats
// Immutable after load, safe for concurrent reads
type Catalog struct {
	defs map[string]UnitDef
}

type fileFormat struct {
	Units []fileDef `yaml:"units"`
}

type fileDef struct {
	ID      string  `yaml:"id"`
	Damage  float64 `yaml:"damage"`
	Health  float64 `yaml:"health"`
	Falloff string  `yaml:"falloff"`
	Range   struct {
		Air   float64 `yaml:"air"`
		Land  float64 `yaml:"land"`
		Water float64 `yaml:"water"`
	} `yaml:"range"`
	DetectRange float64 `yaml:"detect_range"`
	Shield      struct {
		Radius float64 `yaml:"radius"`
		Power  float64 `yaml:"power"`
	} `yaml:"shield"`
	Move  string  `yaml:"move"`
	Speed float64 `yaml:"speed"`
}

// New builds a catalog from already-typed definitions
func New(defs ...UnitDef) (*Catalog, error) {
	c := &Catalog{defs: make(map[string]UnitDef, len(defs))}
	for _, d := range defs {
		if _, dup := c.defs[d.ID]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateDef, d.ID)
		}
		c.defs[d.ID] = d
	}
	return c, nil
}

// Load reads and validates a catalog file
func Load(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Builtin returns the catalog shipped with the binary, used by the sandbox and commands
func Builtin() *Catalog {
	c, err := Parse(builtinYAML)
	if err != nil {
		panic(fmt.Sprintf("catalog: builtin: %v", err))
	}
	return c
}

// Parse validates raw YAML against the unit schema and builds a catalog
func Parse(raw []byte) (*Catalog, error) {
	if err := validate(raw); err != nil {
		return nil, err
	}

	var f fileFormat
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	defs := make([]UnitDef, 0, len(f.Units))
	for _, fd := range f.Units {
		d, err := fd.toDef()
		if err != nil {
			return nil, err
		}
		defs = append(defs, d)
	}
	return New(defs...)
}

// validate round-trips YAML through JSON so the schema sees plain JSON values
func validate(raw []byte) error {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	js, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("normalize: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(js))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("normalize: %w", err)
	}
	if err := unitSchema.Validate(v); err != nil {
		return fmt.Errorf("schema: %w", err)
	}
	return nil
}

func (fd fileDef) toDef() (UnitDef, error) {
	falloff, ok := core.ParseFalloff(fd.Falloff)
	if !ok {
		return UnitDef{}, fmt.Errorf("unit %q: unknown falloff %q", fd.ID, fd.Falloff)
	}
	move, ok := core.ParseLocomotion(fd.Move)
	if !ok {
		return UnitDef{}, fmt.Errorf("unit %q: unknown move %q", fd.ID, fd.Move)
	}
	return UnitDef{
		ID:           fd.ID,
		Damage:       fd.Damage,
		Health:       fd.Health,
		Falloff:      falloff,
		AirRange:     fd.Range.Air,
		LandRange:    fd.Range.Land,
		WaterRange:   fd.Range.Water,
		DetectRange:  fd.DetectRange,
		ShieldRadius: fd.Shield.Radius,
		ShieldPower:  fd.Shield.Power,
		Move:         move,
		Speed:        fd.Speed,
	}, nil
}

// Lookup resolves a definition id
func (c *Catalog) Lookup(id string) (UnitDef, bool) {
	d, ok := c.defs[id]
	return d, ok
}

// Len returns the number of definitions
func (c *Catalog) Len() int {
	return len(c.defs)
}

// IDs returns all definition ids in sorted order
func (c *Catalog) IDs() []string {
	return slices.Sorted(maps.Keys(c.defs))
}
