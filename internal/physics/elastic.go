package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/elastisim/internal/dynamo"
	"github.com/san-kum/elastisim/internal/mesh"
)

const (
	DefaultStiffness      = 200.0
	DefaultShearStiffness = 50.0
	DefaultDamping        = 1.5
	DefaultNodeMass       = 1.0

	// below this length a spring has no usable direction and pushes along its rest direction
	degenerateLength = 1e-9
)

type Params struct {
	Stiffness      float64
	ShearStiffness float64
	Damping        float64
	NodeMass       float64
	Gravity        mesh.Vec3
}

func DefaultParams() Params {
	return Params{
		Stiffness:      DefaultStiffness,
		ShearStiffness: DefaultShearStiffness,
		Damping:        DefaultDamping,
		NodeMass:       DefaultNodeMass,
	}
}

type spring struct {
	a, b  int
	rest  float64
	dir   mesh.Vec3 // unit rest direction from a to b
	shear bool
}

// ElasticBody is a mass-spring network built over a rest mesh.
// Structural springs follow the mesh edges; shear springs join every
// vertex to its second ring of neighbours and keep the surface from folding.
// State: [x0, y0, z0, x1, ..., vx0, vy0, vz0, ...]
type ElasticBody struct {
	nodes   int
	springs []spring
	params  Params
}

func NewElasticBody(rest *mesh.Mesh, params Params) *ElasticBody {
	b := &ElasticBody{nodes: rest.NumVertices(), params: params}

	edges := rest.Edges()
	direct := make(map[mesh.Edge]struct{}, len(edges))
	for _, e := range edges {
		direct[e] = struct{}{}
		b.addSpring(rest, e.A, e.B, false)
	}

	adj := rest.Neighbors()
	shear := make(map[mesh.Edge]struct{})
	for v, ring := range adj {
		for _, n := range ring {
			for _, far := range adj[n] {
				if far == v {
					continue
				}
				e := mesh.Edge{A: min(v, far), B: max(v, far)}
				if _, ok := direct[e]; ok {
					continue
				}
				if _, ok := shear[e]; ok {
					continue
				}
				shear[e] = struct{}{}
				b.addSpring(rest, e.A, e.B, true)
			}
		}
	}
	return b
}

func (b *ElasticBody) addSpring(rest *mesh.Mesh, i, j int, shear bool) {
	d := rest.Vertex(j).Sub(rest.Vertex(i))
	b.springs = append(b.springs, spring{a: i, b: j, rest: d.Length(), dir: d.Normalize(), shear: shear})
}

func (b *ElasticBody) StateDim() int  { return b.nodes * 6 }
func (b *ElasticBody) Nodes() int     { return b.nodes }
func (b *ElasticBody) Springs() int   { return len(b.springs) }
func (b *ElasticBody) Params() Params { return b.params }

func (b *ElasticBody) stiffness(s spring) float64 {
	if s.shear {
		return b.params.ShearStiffness
	}
	return b.params.Stiffness
}

func (b *ElasticBody) Derive(x dynamo.State, _ float64) dynamo.State {
	n := b.nodes * 3
	dx := make(dynamo.State, n*2)
	pos, vel := x.Positions(), x.Velocities()
	copy(dx[:n], vel)
	acc := dx[n:]

	for _, s := range b.springs {
		d := mesh.Vec3{
			X: pos[s.b*3] - pos[s.a*3],
			Y: pos[s.b*3+1] - pos[s.a*3+1],
			Z: pos[s.b*3+2] - pos[s.a*3+2],
		}
		l := d.Length()
		u := s.dir
		if l > degenerateLength {
			u = d.Scale(1 / l)
		}
		f := u.Scale(b.stiffness(s) * (l - s.rest))
		acc[s.a*3] += f.X
		acc[s.a*3+1] += f.Y
		acc[s.a*3+2] += f.Z
		acc[s.b*3] -= f.X
		acc[s.b*3+1] -= f.Y
		acc[s.b*3+2] -= f.Z
	}

	inv := 1 / b.params.NodeMass
	g := b.params.Gravity
	for i := 0; i < b.nodes; i++ {
		acc[i*3] = acc[i*3]*inv - b.params.Damping*vel[i*3] + g.X
		acc[i*3+1] = acc[i*3+1]*inv - b.params.Damping*vel[i*3+1] + g.Y
		acc[i*3+2] = acc[i*3+2]*inv - b.params.Damping*vel[i*3+2] + g.Z
	}
	return dx
}

// Energy is kinetic plus spring potential plus gravitational potential.
func (b *ElasticBody) Energy(x dynamo.State) float64 {
	pos, vel := x.Positions(), x.Velocities()
	energy := 0.0
	for _, v := range vel {
		energy += 0.5 * b.params.NodeMass * v * v
	}
	for _, s := range b.springs {
		dxs := pos[s.b*3] - pos[s.a*3]
		dys := pos[s.b*3+1] - pos[s.a*3+1]
		dzs := pos[s.b*3+2] - pos[s.a*3+2]
		stretch := math.Sqrt(dxs*dxs+dys*dys+dzs*dzs) - s.rest
		energy += 0.5 * b.stiffness(s) * stretch * stretch
	}
	g := b.params.Gravity
	for i := 0; i < b.nodes; i++ {
		energy -= b.params.NodeMass * (g.X*pos[i*3] + g.Y*pos[i*3+1] + g.Z*pos[i*3+2])
	}
	return energy
}

// GetParams implements dynamo.Configurable
func (b *ElasticBody) GetParams() map[string]float64 {
	return map[string]float64{
		"stiffness": b.params.Stiffness,
		"shear":     b.params.ShearStiffness,
		"damping":   b.params.Damping,
		"mass":      b.params.NodeMass,
	}
}

// SetParam implements dynamo.Configurable
func (b *ElasticBody) SetParam(name string, value float64) error {
	switch name {
	case "stiffness":
		b.params.Stiffness = value
	case "shear":
		b.params.ShearStiffness = value
	case "damping":
		b.params.Damping = value
	case "mass":
		if value <= 0 {
			return fmt.Errorf("mass must be positive, got %f", value)
		}
		b.params.NodeMass = value
	default:
		return fmt.Errorf("unknown parameter: %s", name)
	}
	return nil
}
