package config

import "sort"

var Presets = map[string]*SceneConfig{
	"bunnyexpand": {
		Name: "bunnyexpand",
		Solver: SolverConfig{
			Timestep: 0.04, Substeps: 10, Integrator: "verlet", Damping: 1.5,
		},
		Body: BodyConfig{
			Name: "bunny", Generator: "icosphere", Subdivisions: 2,
			Scale: Triple{1.0, 1.2, 0.9}, Stiffness: 200, Shear: 50, NodeMass: 1,
		},
	},
	"lattice": {
		Name: "lattice",
		Solver: SolverConfig{
			Timestep: 0.04, Substeps: 20, Integrator: "verlet", Damping: 2.0,
		},
		Body: BodyConfig{
			Name: "block", Generator: "lattice", Lattice: Triple{4, 4, 4},
			Scale: Triple{0.5, 0.5, 0.5}, Stiffness: 200, Shear: 50, NodeMass: 1,
		},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *SceneConfig {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
