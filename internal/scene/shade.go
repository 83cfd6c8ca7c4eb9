package scene

import (
	"math"

	"github.com/san-kum/elastisim/internal/mesh"
)

const (
	ambient      = 0.12
	displayGamma = 2.2
)

// Shade returns the linear RGB reaching a surface point p with normal n
// from the scene lights (Lambert plus a small ambient term), clamped to [0, 1].
// A zero normal is replaced by the direction from the scene center.
func (s *Scene) Shade(p, n mesh.Vec3) mesh.Vec3 {
	if n == (mesh.Vec3{}) {
		n = p.Sub(s.Center).Normalize()
	}
	c := mesh.Vec3{X: ambient, Y: ambient, Z: ambient}
	if n == (mesh.Vec3{}) {
		return c
	}
	for _, l := range s.Lights {
		dir := l.Position.Sub(p).Normalize()
		if lambert := n.Dot(dir); lambert > 0 {
			c = c.Add(l.Color.Scale(lambert * l.Intensity))
		}
	}
	return clamp01(c)
}

// GammaEncode converts linear RGB to display space.
func GammaEncode(c mesh.Vec3) mesh.Vec3 {
	c = clamp01(c)
	inv := 1 / displayGamma
	return mesh.Vec3{X: math.Pow(c.X, inv), Y: math.Pow(c.Y, inv), Z: math.Pow(c.Z, inv)}
}

func clamp01(c mesh.Vec3) mesh.Vec3 {
	f := func(v float64) float64 { return math.Max(0, math.Min(1, v)) }
	return mesh.Vec3{X: f(c.X), Y: f(c.Y), Z: f(c.Z)}
}
