package config

import (
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultTimestep     = 0.04
	DefaultSubsteps     = 10
	DefaultIntegrator   = "verlet"
	DefaultDamping      = 1.5
	DefaultGenerator    = "icosphere"
	DefaultSubdivisions = 2
	DefaultStiffness    = 200.0
	DefaultShear        = 50.0
	DefaultNodeMass     = 1.0
)

var ErrUnsupportedFormat = errors.New("config: unsupported scene file format")

// SceneConfig describes one scene. The same structure is read from XML
// (attributes) and from YAML.
type SceneConfig struct {
	XMLName xml.Name     `xml:"scene" yaml:"-"`
	Name    string       `xml:"name,attr" yaml:"name"`
	Solver  SolverConfig `xml:"solver" yaml:"solver"`
	Body    BodyConfig   `xml:"body" yaml:"body"`
}

type SolverConfig struct {
	Timestep   float64 `xml:"timestep,attr" yaml:"timestep"`
	Substeps   int     `xml:"substeps,attr" yaml:"substeps"`
	Integrator string  `xml:"integrator,attr" yaml:"integrator"`
	Damping    float64 `xml:"damping,attr" yaml:"damping"`
	Gravity    Triple  `xml:"gravity,attr" yaml:"gravity"`
}

type BodyConfig struct {
	Name         string  `xml:"name,attr" yaml:"name"`
	Generator    string  `xml:"generator,attr,omitempty" yaml:"generator,omitempty"`
	Subdivisions int     `xml:"subdivisions,attr,omitempty" yaml:"subdivisions,omitempty"`
	Lattice      Triple  `xml:"lattice,attr" yaml:"lattice"`
	Mesh         string  `xml:"mesh,attr,omitempty" yaml:"mesh,omitempty"`
	Scale        Triple  `xml:"scale,attr" yaml:"scale"`
	Stiffness    float64 `xml:"stiffness,attr" yaml:"stiffness"`
	Shear        float64 `xml:"shear,attr" yaml:"shear"`
	NodeMass     float64 `xml:"mass,attr" yaml:"mass"`
}

// Triple is an (x, y, z) value. In XML it is written as a single
// whitespace separated attribute, e.g. gravity="0 -9.81 0".
type Triple [3]float64

func (t *Triple) UnmarshalXMLAttr(attr xml.Attr) error {
	fields := strings.Fields(attr.Value)
	if len(fields) != 3 {
		return fmt.Errorf("attribute %s: expected 3 values, got %d", attr.Name.Local, len(fields))
	}
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return fmt.Errorf("attribute %s: %w", attr.Name.Local, err)
		}
		t[i] = v
	}
	return nil
}

func (t Triple) MarshalXMLAttr(name xml.Name) (xml.Attr, error) {
	parts := make([]string, 3)
	for i, v := range t {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return xml.Attr{Name: name, Value: strings.Join(parts, " ")}, nil
}

func DefaultSceneConfig() *SceneConfig {
	return &SceneConfig{
		Name: "bunnyexpand",
		Solver: SolverConfig{
			Timestep:   DefaultTimestep,
			Substeps:   DefaultSubsteps,
			Integrator: DefaultIntegrator,
			Damping:    DefaultDamping,
		},
		Body: BodyConfig{
			Name:         "bunny",
			Generator:    DefaultGenerator,
			Subdivisions: DefaultSubdivisions,
			Scale:        Triple{1, 1, 1},
			Stiffness:    DefaultStiffness,
			Shear:        DefaultShear,
			NodeMass:     DefaultNodeMass,
		},
	}
}

// Load reads a scene file, choosing the decoder from the file extension.
// Values missing from the file keep their defaults.
func Load(path string) (*SceneConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultSceneConfig()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xml":
		err = xml.Unmarshal(data, cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *SceneConfig) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xml":
		data, err = xml.MarshalIndent(cfg, "", "  ")
	case ".yaml", ".yml":
		data, err = yaml.Marshal(cfg)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *SceneConfig) Validate() error {
	if c.Solver.Timestep <= 0 {
		return fmt.Errorf("timestep must be positive, got %f", c.Solver.Timestep)
	}
	if c.Solver.Substeps < 1 {
		return fmt.Errorf("substeps must be at least 1, got %d", c.Solver.Substeps)
	}
	if c.Solver.Damping < 0 {
		return fmt.Errorf("damping must not be negative, got %f", c.Solver.Damping)
	}
	if c.Body.NodeMass <= 0 {
		return fmt.Errorf("node mass must be positive, got %f", c.Body.NodeMass)
	}
	if c.Body.Stiffness < 0 || c.Body.Shear < 0 {
		return fmt.Errorf("stiffness must not be negative")
	}
	if c.Body.Mesh == "" {
		switch c.Body.Generator {
		case "icosphere", "lattice":
		default:
			return fmt.Errorf("unknown body generator %q", c.Body.Generator)
		}
	}
	return nil
}

// Dt is the duration of one substep.
func (c *SceneConfig) Dt() float64 {
	return c.Solver.Timestep / float64(c.Solver.Substeps)
}
