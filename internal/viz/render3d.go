package viz

import (
	"math"

	"github.com/san-kum/elastisim/internal/mesh"
)

// Camera orbits a target at a fixed distance. Zoom is the distance from
// the target to the eye, so larger values show more of the scene.
type Camera struct {
	Target     mesh.Vec3
	Zoom       float64
	Yaw, Pitch float64
	FOV        float64
}

func NewCamera(zoom float64) *Camera {
	return &Camera{Zoom: zoom, Pitch: 0.3, Yaw: 0.6, FOV: math.Pi / 4}
}

func (c *Camera) Orbit(dyaw, dpitch float64) {
	c.Yaw += dyaw
	c.Pitch = math.Max(-1.5, math.Min(1.5, c.Pitch+dpitch))
}

func (c *Camera) ZoomIn()  { c.Zoom = math.Max(0.5, c.Zoom/1.2) }
func (c *Camera) ZoomOut() { c.Zoom = math.Min(100, c.Zoom*1.2) }

// View rotates p into camera space: x right, y up, z towards the eye.
func (c *Camera) View(p mesh.Vec3) mesh.Vec3 {
	p = p.Sub(c.Target)
	cy, sy := math.Cos(c.Yaw), math.Sin(c.Yaw)
	p.X, p.Z = p.X*cy-p.Z*sy, p.X*sy+p.Z*cy
	cp, sp := math.Cos(c.Pitch), math.Sin(c.Pitch)
	p.Y, p.Z = p.Y*cp-p.Z*sp, p.Y*sp+p.Z*cp
	return p
}

// Eye is the world position the camera looks from.
func (c *Camera) Eye() mesh.Vec3 {
	cp, sp := math.Cos(c.Pitch), math.Sin(c.Pitch)
	cy, sy := math.Cos(c.Yaw), math.Sin(c.Yaw)
	return c.Target.Add(mesh.Vec3{X: cp * sy, Y: sp, Z: cp * cy}.Scale(c.Zoom))
}

// Project converts world coordinates to pixel coordinates on a sw x sh
// surface. Returns x, y, depth (distance from the eye) and visibility.
func (c *Camera) Project(p mesh.Vec3, sw, sh int) (int, int, float64, bool) {
	v := c.View(p)
	depth := c.Zoom - v.Z
	if depth <= 1e-3 {
		return 0, 0, 0, false
	}
	focal := float64(min(sw, sh)) / 2 / math.Tan(c.FOV/2)
	sx := int(v.X/depth*focal) + sw/2
	sy := int(-v.Y/depth*focal) + sh/2
	return sx, sy, depth, sx >= 0 && sx < sw && sy >= 0 && sy < sh
}

type Edge struct {
	Start, End mesh.Vec3
}

type Wireframe struct{ Edges []Edge }

func NewWireframe() *Wireframe            { return &Wireframe{Edges: make([]Edge, 0)} }
func (w *Wireframe) AddEdge(s, e mesh.Vec3) { w.Edges = append(w.Edges, Edge{s, e}) }

// MeshWireframe collects the unique edges of m at its current vertex positions.
func MeshWireframe(m *mesh.Mesh) *Wireframe {
	edges := m.Edges()
	w := &Wireframe{Edges: make([]Edge, 0, len(edges))}
	for _, e := range edges {
		w.AddEdge(m.Vertex(e.A), m.Vertex(e.B))
	}
	return w
}

// Render3D draws the wireframe onto the canvas. Edges with both ends
// behind the eye or off screen are skipped.
func Render3D(c *Canvas, w *Wireframe, cam *Camera) {
	if c == nil || w == nil || cam == nil {
		return
	}
	pw, ph := c.PixelSize()
	for _, e := range w.Edges {
		x1, y1, d1, v1 := cam.Project(e.Start, pw, ph)
		x2, y2, d2, v2 := cam.Project(e.End, pw, ph)
		if d1 == 0 || d2 == 0 || !(v1 || v2) {
			continue
		}
		if x1 == x2 && y1 == y2 {
			c.Set(x1, y1)
		} else {
			c.DrawLine(x1, y1, x2, y2)
		}
	}
}

// CreateAxesWireframe returns the three coordinate axes of length l.
func CreateAxesWireframe(l float64) *Wireframe {
	w, o := NewWireframe(), mesh.Vec3{}
	w.AddEdge(o, mesh.Vec3{X: l})
	w.AddEdge(o, mesh.Vec3{Y: l})
	w.AddEdge(o, mesh.Vec3{Z: l})
	return w
}
