package kernel

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Mesh is an indexed triangle mesh in the flat layout shared with hosts.
// All arrays are flat: vertices has 3 doubles per vertex (x,y,z),
// indices has 3 int32s per triangle, each referencing a vertex position.
// Indices are not validated; every index must be in [0, VertexCount).
type Mesh struct {
	Vertices []float64 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Indices  []int32   `json:"indices"`  // [i0,i1,i2, ...] triangles
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

// Vertex returns vertex i as a vector.
func (m *Mesh) Vertex(i int32) v3.Vec {
	return v3.Vec{
		X: m.Vertices[i*3],
		Y: m.Vertices[i*3+1],
		Z: m.Vertices[i*3+2],
	}
}

// Triangle returns the three vertex indices of triangle t.
func (m *Mesh) Triangle(t int) (a, b, c int32) {
	return m.Indices[t*3], m.Indices[t*3+1], m.Indices[t*3+2]
}

// Plane is a cutting plane given by an origin point and a normal vector.
// The normal need not be unit length but must be non-zero; a zero normal
// is a caller contract violation.
type Plane struct {
	Origin v3.Vec
	Normal v3.Vec
}

// SignedDistance returns the signed distance-like value of p from the
// plane: positive on the normal side, negative on the other, zero on the
// plane. It is not normalized; only the sign and zero-ness matter to the
// sectioner, and skipping the division keeps results bit-reproducible.
func (pl Plane) SignedDistance(p v3.Vec) float64 {
	return pl.Normal.Dot(p.Sub(pl.Origin))
}

// Loop is one polyline of a section result: closed when the curve returns
// to its starting point (a ring on the mesh surface), open when it ends on
// a mesh boundary.
type Loop struct {
	Points []v3.Vec
	Closed bool
}

// PointCount returns the number of points in the loop.
func (l Loop) PointCount() int {
	return len(l.Points)
}
