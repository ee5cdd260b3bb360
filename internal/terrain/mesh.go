package terrain

import "github.com/go-gl/mathgl/mgl32"

// Mesh is the derived surface of a Store: one vertex per column corner at
// the column's surface height, two triangles per cell.
type Mesh struct {
	Vertices []mgl32.Vec3
	// Normals is nil unless the mesh was built as final geometry.
	Normals []mgl32.Vec3
	Indices []uint32
	Final   bool
}

// BuildMesh samples s.SurfaceHeight on a (w+1)×(h+1) lattice. Final meshes
// also carry per-vertex normals averaged from the adjacent faces.
func BuildMesh(s Store, final bool) *Mesh {
	w, h := s.Width(), s.Height()
	stride := h + 1
	m := &Mesh{
		Vertices: make([]mgl32.Vec3, 0, (w+1)*stride),
		Indices:  make([]uint32, 0, w*h*6),
		Final:    final,
	}
	for x := 0; x <= w; x++ {
		for y := 0; y <= h; y++ {
			z := s.SurfaceHeight(x, y)
			m.Vertices = append(m.Vertices, mgl32.Vec3{float32(x), float32(y), float32(z)})
		}
	}
	at := func(x, y int) uint32 { return uint32(x*stride + y) }
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			m.Indices = append(m.Indices,
				at(x, y), at(x+1, y), at(x, y+1),
				at(x, y+1), at(x+1, y), at(x+1, y+1),
			)
		}
	}
	if final {
		m.Normals = faceNormals(m.Vertices, m.Indices)
	}
	return m
}

func faceNormals(verts []mgl32.Vec3, idx []uint32) []mgl32.Vec3 {
	normals := make([]mgl32.Vec3, len(verts))
	for i := 0; i+2 < len(idx); i += 3 {
		a, b, c := verts[idx[i]], verts[idx[i+1]], verts[idx[i+2]]
		n := b.Sub(a).Cross(c.Sub(b))
		if n.Len() == 0 {
			continue
		}
		n = n.Normalize()
		for j := 0; j < 3; j++ {
			normals[idx[i+j]] = normals[idx[i+j]].Add(n)
		}
	}
	for i, n := range normals {
		if n.Len() > 0 {
			normals[i] = n.Normalize()
		}
	}
	return normals
}
