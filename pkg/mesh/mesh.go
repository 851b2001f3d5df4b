// Package mesh defines the in-memory polygon mesh shared by the readers,
// writers and kernels, plus the per-face attributes derived from it.
package mesh

import (
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Vec3 is a position or direction in model space.
type Vec3 = v3.Vec

// Vec2 is a texture coordinate (u, v).
type Vec2 = v2.Vec

// Descriptor identifies one corner of a face by zero-based indices into
// the vertex, UV and normal sequences of its mesh.
type Descriptor struct {
	Vertex int
	UV     int
	Normal int
}

// Face is an ordered polygon of corners. Any arity is allowed.
type Face []Descriptor

// Mesh is a polygon mesh. The four sequences are independent and indexed
// by the descriptors stored in Faces. Nothing is validated on construction.
type Mesh struct {
	Vertices []Vec3
	UVs      []Vec2
	Normals  []Vec3
	Faces    []Face
}

// New returns an empty mesh that owns its own slices.
func New() *Mesh {
	return &Mesh{
		Vertices: make([]Vec3, 0),
		UVs:      make([]Vec2, 0),
		Normals:  make([]Vec3, 0),
		Faces:    make([]Face, 0),
	}
}

// AddVertex appends a position and returns its index.
func (m *Mesh) AddVertex(v Vec3) int {
	m.Vertices = append(m.Vertices, v)
	return len(m.Vertices) - 1
}

// AddUV appends a texture coordinate and returns its index.
func (m *Mesh) AddUV(uv Vec2) int {
	m.UVs = append(m.UVs, uv)
	return len(m.UVs) - 1
}

// AddNormal appends a normal and returns its index.
func (m *Mesh) AddNormal(n Vec3) int {
	m.Normals = append(m.Normals, n)
	return len(m.Normals) - 1
}

// AddFace appends a copy of f and returns its index, so callers may reuse
// the descriptor buffer.
func (m *Mesh) AddFace(f Face) int {
	face := make(Face, len(f))
	copy(face, f)
	m.Faces = append(m.Faces, face)
	return len(m.Faces) - 1
}

// VertexCount returns the number of vertex positions.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// FaceCount returns the number of faces.
func (m *Mesh) FaceCount() int {
	return len(m.Faces)
}

// TriangleCount returns the number of triangles a fan triangulation of
// every face would produce. Faces with fewer than three corners count zero.
func (m *Mesh) TriangleCount() int {
	n := 0
	for _, f := range m.Faces {
		if len(f) >= 3 {
			n += len(f) - 2
		}
	}
	return n
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0 && len(m.Faces) == 0
}

// BoundingBox returns the axis-aligned bounds of all vertex positions.
// ok is false when the mesh has no vertices.
func (m *Mesh) BoundingBox() (min, max Vec3, ok bool) {
	if len(m.Vertices) == 0 {
		return Vec3{}, Vec3{}, false
	}
	min, max = m.Vertices[0], m.Vertices[0]
	for _, v := range m.Vertices[1:] {
		min = min.Min(v)
		max = max.Max(v)
	}
	return min, max, true
}
