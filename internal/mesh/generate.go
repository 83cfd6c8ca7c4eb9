package mesh

import "math"

// Icosphere returns a unit sphere built by repeatedly subdividing an
// icosahedron and pushing the new vertices back onto the sphere.
func Icosphere(subdivisions int) *Mesh {
	t := (1 + math.Sqrt(5)) / 2
	base := []Vec3{
		{-1, t, 0}, {1, t, 0}, {-1, -t, 0}, {1, -t, 0},
		{0, -1, t}, {0, 1, t}, {0, -1, -t}, {0, 1, -t},
		{t, 0, -1}, {t, 0, 1}, {-t, 0, -1}, {-t, 0, 1},
	}
	m := &Mesh{
		Faces: [][3]int{
			{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
			{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
			{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
			{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
		},
	}
	for _, v := range base {
		v = v.Normalize()
		m.Vertices = append(m.Vertices, v.X, v.Y, v.Z)
	}
	for i := 0; i < subdivisions; i++ {
		m = m.Subdivide()
		for j := 0; j < m.NumVertices(); j++ {
			m.SetVertex(j, m.Vertex(j).Normalize())
		}
	}
	return m
}

// Lattice returns an nx*ny*nz grid of vertices centred on the origin.
// Every axis-aligned grid square is split into two triangles, so the
// edge set carries both the grid lines and one diagonal per square.
func Lattice(nx, ny, nz int, spacing float64) *Mesh {
	m := &Mesh{Vertices: make([]float64, 0, nx*ny*nz*3)}
	if nx <= 0 || ny <= 0 || nz <= 0 {
		return m
	}
	off := Vec3{float64(nx-1) / 2, float64(ny-1) / 2, float64(nz-1) / 2}.Scale(spacing)
	idx := func(i, j, k int) int { return (i*ny+j)*nz + k }
	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			for k := 0; k < nz; k++ {
				p := Vec3{float64(i), float64(j), float64(k)}.Scale(spacing).Sub(off)
				m.Vertices = append(m.Vertices, p.X, p.Y, p.Z)
			}
		}
	}
	quad := func(a, b, c, d int) {
		m.Faces = append(m.Faces, [3]int{a, b, c}, [3]int{a, c, d})
	}
	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			for k := 0; k < nz; k++ {
				if i+1 < nx && j+1 < ny {
					quad(idx(i, j, k), idx(i+1, j, k), idx(i+1, j+1, k), idx(i, j+1, k))
				}
				if j+1 < ny && k+1 < nz {
					quad(idx(i, j, k), idx(i, j+1, k), idx(i, j+1, k+1), idx(i, j, k+1))
				}
				if i+1 < nx && k+1 < nz {
					quad(idx(i, j, k), idx(i, j, k+1), idx(i+1, j, k+1), idx(i+1, j, k))
				}
			}
		}
	}
	return m
}
