// Package scene holds what the viewers draw: the body mesh as it currently
// sits, its extent, and the lights placed around it.
package scene

import (
	"fmt"
	"path/filepath"

	"github.com/san-kum/elastisim/internal/config"
	"github.com/san-kum/elastisim/internal/dynamo"
	"github.com/san-kum/elastisim/internal/mesh"
)

type Light struct {
	Name      string
	Position  mesh.Vec3
	Color     mesh.Vec3
	Intensity float64
}

type Scene struct {
	Name   string
	Mesh   *mesh.Mesh
	Lights []Light
	Center mesh.Vec3
	Radius float64

	// set once lights are placed explicitly; Refresh leaves them alone afterwards
	pinnedLights bool
}

// New wraps m, which the scene takes ownership of, and lights it from its own extent.
func New(name string, m *mesh.Mesh) *Scene {
	s := &Scene{Name: name, Mesh: m}
	s.updateBounds()
	s.Lights = threePoint(s.Center, s.Radius)
	return s
}

// Refresh copies the node positions into the scene mesh and recomputes
// the bounds. Lighting follows the new extent unless it was pinned with
// MakeThreePointLighting.
func (s *Scene) Refresh(pos dynamo.Positions) error {
	if err := pos.Validate(); err != nil {
		return err
	}
	if pos.Len() != s.Mesh.NumVertices() {
		return fmt.Errorf("%w: %d nodes for %d vertices", dynamo.ErrDimensionMismatch, pos.Len(), s.Mesh.NumVertices())
	}
	copy(s.Mesh.Vertices, pos)
	s.updateBounds()
	if !s.pinnedLights {
		s.Lights = threePoint(s.Center, s.Radius)
	}
	return nil
}

// MakeThreePointLighting places key, fill and back lights around center at
// a distance proportional to radius, and pins them.
func (s *Scene) MakeThreePointLighting(center mesh.Vec3, radius float64) {
	s.Lights = threePoint(center, radius)
	s.pinnedLights = true
}

func (s *Scene) updateBounds() {
	s.Center = s.Mesh.Center()
	s.Radius = s.Mesh.Radius()
}

func threePoint(center mesh.Vec3, radius float64) []Light {
	dist := radius * 2
	place := func(dir mesh.Vec3) mesh.Vec3 { return center.Add(dir.Normalize().Scale(dist)) }
	return []Light{
		{Name: "key", Position: place(mesh.Vec3{X: 1, Y: 1, Z: 1}), Color: mesh.Vec3{X: 1, Y: 0.95, Z: 0.9}, Intensity: 1.0},
		{Name: "fill", Position: place(mesh.Vec3{X: -1, Y: 0.5, Z: 1}), Color: mesh.Vec3{X: 0.8, Y: 0.85, Z: 1}, Intensity: 0.5},
		{Name: "back", Position: place(mesh.Vec3{X: 0, Y: 1, Z: -1}), Color: mesh.Vec3{X: 1, Y: 1, Z: 1}, Intensity: 0.7},
	}
}

// BuildMesh creates the rest mesh for a body. Mesh paths are resolved
// relative to baseDir, the directory of the scene file.
func BuildMesh(body config.BodyConfig, baseDir string) (*mesh.Mesh, error) {
	var (
		m   *mesh.Mesh
		err error
	)
	switch {
	case body.Mesh != "":
		path := body.Mesh
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		m, err = mesh.LoadOBJFile(path)
		if err != nil {
			return nil, fmt.Errorf("load mesh: %w", err)
		}
	case body.Generator == "icosphere":
		m = mesh.Icosphere(body.Subdivisions)
	case body.Generator == "lattice":
		d := body.Lattice
		m = mesh.Lattice(int(d[0]), int(d[1]), int(d[2]), 1.0)
	default:
		return nil, fmt.Errorf("unknown body generator %q", body.Generator)
	}
	if m.NumVertices() == 0 {
		return nil, fmt.Errorf("body %q has no vertices", body.Name)
	}
	sc := body.Scale
	m.Transform(mesh.Vec3{X: sc[0], Y: sc[1], Z: sc[2]}, mesh.Vec3{})
	return m, nil
}
