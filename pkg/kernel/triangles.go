package kernel

import "github.com/chazu/wrangle/pkg/mesh"

// Triangle is one tessellated facet with its outward normal.
type Triangle struct {
	Corners [3]mesh.Vec3
	Normal  mesh.Vec3
}

// FromTriangles builds an indexed mesh from a triangle soup. Identical
// positions and identical normals are stored once; every face gets the
// single UV (0,0) since kernels do not produce texture coordinates.
func FromTriangles(tris []Triangle) *mesh.Mesh {
	m := mesh.New()
	if len(tris) == 0 {
		return m
	}
	uv := m.AddUV(mesh.Vec2{})

	vertexIndex := make(map[mesh.Vec3]int)
	normalIndex := make(map[mesh.Vec3]int)
	face := make(mesh.Face, 3)

	for _, tri := range tris {
		n, ok := normalIndex[tri.Normal]
		if !ok {
			n = m.AddNormal(tri.Normal)
			normalIndex[tri.Normal] = n
		}
		for j, c := range tri.Corners {
			v, ok := vertexIndex[c]
			if !ok {
				v = m.AddVertex(c)
				vertexIndex[c] = v
			}
			face[j] = mesh.Descriptor{Vertex: v, UV: uv, Normal: n}
		}
		m.AddFace(face)
	}
	return m
}
