package kernel

// Mesh is a triangle mesh suitable for rendering.
// All arrays are flat: vertices has 3 floats per vertex (x,y,z),
// normals has 3 floats per vertex, indices has 3 uint32s per triangle.
// Meshes built with AddTriangle do not share vertices between triangles.
type Mesh struct {
	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`  // [nx0,ny0,nz0, ...]
	Indices  []uint32  `json:"indices"`  // [i0,i1,i2, ...] triangles
	Name     string    `json:"name"`     // which layer of the construction this is
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// AddTriangle appends one triangle with a flat normal.
func (m *Mesh) AddTriangle(v [3][3]float32, n [3]float32) {
	base := uint32(m.VertexCount())
	for j := 0; j < 3; j++ {
		m.Vertices = append(m.Vertices, v[j][0], v[j][1], v[j][2])
		m.Normals = append(m.Normals, n[0], n[1], n[2])
		m.Indices = append(m.Indices, base+uint32(j))
	}
}

// Triangle returns the corners and the normal of the first corner of
// triangle i.
func (m *Mesh) Triangle(i int) (v [3][3]float32, n [3]float32) {
	for j := 0; j < 3; j++ {
		k := int(m.Indices[i*3+j]) * 3
		v[j] = [3]float32{m.Vertices[k], m.Vertices[k+1], m.Vertices[k+2]}
		if j == 0 {
			n = [3]float32{m.Normals[k], m.Normals[k+1], m.Normals[k+2]}
		}
	}
	return v, n
}

// Reset drops the geometry but keeps the allocated capacity.
func (m *Mesh) Reset() {
	m.Vertices = m.Vertices[:0]
	m.Normals = m.Normals[:0]
	m.Indices = m.Indices[:0]
}
