// Package mesh holds triangle surface meshes: generators, an OBJ reader
// and the geometric queries the solver and the viewers need.
package mesh

import (
	"math"
	"sort"
)

// Mesh is a triangle mesh. Vertices are stored flat, 3 scalars per vertex,
// in the same layout as the solver's node position buffer.
type Mesh struct {
	Vertices []float64
	Faces    [][3]int
}

// Edge is an undirected vertex pair with A < B.
type Edge struct {
	A, B int
}

func (m *Mesh) NumVertices() int { return len(m.Vertices) / 3 }

func (m *Mesh) Vertex(i int) Vec3 {
	return Vec3{m.Vertices[i*3], m.Vertices[i*3+1], m.Vertices[i*3+2]}
}

func (m *Mesh) SetVertex(i int, v Vec3) {
	m.Vertices[i*3], m.Vertices[i*3+1], m.Vertices[i*3+2] = v.X, v.Y, v.Z
}

func (m *Mesh) Clone() *Mesh {
	c := &Mesh{
		Vertices: make([]float64, len(m.Vertices)),
		Faces:    make([][3]int, len(m.Faces)),
	}
	copy(c.Vertices, m.Vertices)
	copy(c.Faces, m.Faces)
	return c
}

// Edges returns the unique edges of all faces, sorted.
func (m *Mesh) Edges() []Edge {
	seen := make(map[Edge]struct{}, len(m.Faces)*3/2)
	for _, f := range m.Faces {
		for k := 0; k < 3; k++ {
			seen[makeEdge(f[k], f[(k+1)%3])] = struct{}{}
		}
	}
	edges := make([]Edge, 0, len(seen))
	for e := range seen {
		edges = append(edges, e)
	}
	sortEdges(edges)
	return edges
}

// Neighbors returns the vertex adjacency lists implied by Edges.
func (m *Mesh) Neighbors() [][]int {
	adj := make([][]int, m.NumVertices())
	for _, e := range m.Edges() {
		adj[e.A] = append(adj[e.A], e.B)
		adj[e.B] = append(adj[e.B], e.A)
	}
	return adj
}

// Bounds returns the axis-aligned bounding box. An empty mesh yields two zero vectors.
func (m *Mesh) Bounds() (lo, hi Vec3) {
	n := m.NumVertices()
	if n == 0 {
		return Vec3{}, Vec3{}
	}
	lo, hi = m.Vertex(0), m.Vertex(0)
	for i := 1; i < n; i++ {
		v := m.Vertex(i)
		lo = Vec3{math.Min(lo.X, v.X), math.Min(lo.Y, v.Y), math.Min(lo.Z, v.Z)}
		hi = Vec3{math.Max(hi.X, v.X), math.Max(hi.Y, v.Y), math.Max(hi.Z, v.Z)}
	}
	return lo, hi
}

// Center is the middle of the bounding box.
func (m *Mesh) Center() Vec3 {
	lo, hi := m.Bounds()
	return lo.Add(hi).Scale(0.5)
}

// Radius is the largest distance from Center to any vertex. It is zero
// when every vertex sits on the same point.
func (m *Mesh) Radius() float64 {
	c := m.Center()
	r := 0.0
	for i := 0; i < m.NumVertices(); i++ {
		r = math.Max(r, m.Vertex(i).Sub(c).Length())
	}
	return r
}

// Transform scales then translates every vertex.
func (m *Mesh) Transform(scale, offset Vec3) {
	for i := 0; i < m.NumVertices(); i++ {
		m.SetVertex(i, m.Vertex(i).Mul(scale).Add(offset))
	}
}

// Subdivide splits every triangle into four using edge midpoints.
func (m *Mesh) Subdivide() *Mesh {
	out := &Mesh{
		Vertices: append([]float64(nil), m.Vertices...),
		Faces:    make([][3]int, 0, len(m.Faces)*4),
	}
	mid := make(map[Edge]int)
	midpoint := func(a, b int) int {
		e := makeEdge(a, b)
		if idx, ok := mid[e]; ok {
			return idx
		}
		p := m.Vertex(a).Add(m.Vertex(b)).Scale(0.5)
		idx := len(out.Vertices) / 3
		out.Vertices = append(out.Vertices, p.X, p.Y, p.Z)
		mid[e] = idx
		return idx
	}
	for _, f := range m.Faces {
		ab := midpoint(f[0], f[1])
		bc := midpoint(f[1], f[2])
		ca := midpoint(f[2], f[0])
		out.Faces = append(out.Faces,
			[3]int{f[0], ab, ca},
			[3]int{f[1], bc, ab},
			[3]int{f[2], ca, bc},
			[3]int{ab, bc, ca},
		)
	}
	return out
}

func makeEdge(a, b int) Edge {
	if a > b {
		a, b = b, a
	}
	return Edge{a, b}
}

func sortEdges(edges []Edge) {
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].A != edges[j].A {
			return edges[i].A < edges[j].A
		}
		return edges[i].B < edges[j].B
	})
}

// VertexNormals returns area-weighted vertex normals. Vertices with no
// usable face area get the zero vector.
func (m *Mesh) VertexNormals() []Vec3 {
	normals := make([]Vec3, m.NumVertices())
	for _, f := range m.Faces {
		a, b, c := m.Vertex(f[0]), m.Vertex(f[1]), m.Vertex(f[2])
		n := b.Sub(a).Cross(c.Sub(a))
		for _, i := range f {
			normals[i] = normals[i].Add(n)
		}
	}
	for i := range normals {
		normals[i] = normals[i].Normalize()
	}
	return normals
}
