package mesh

import "testing"

func TestNewMeshesDoNotShareStorage(t *testing.T) {
	a := New()
	b := New()
	a.AddVertex(Vec3{X: 1, Y: 2, Z: 3})
	a.AddFace(Face{{0, 0, 0}})
	if b.VertexCount() != 0 {
		t.Errorf("second mesh VertexCount() = %d, want 0", b.VertexCount())
	}
	if b.FaceCount() != 0 {
		t.Errorf("second mesh FaceCount() = %d, want 0", b.FaceCount())
	}
}

func TestAddFaceCopiesDescriptors(t *testing.T) {
	m := New()
	buf := Face{{0, 0, 0}, {1, 1, 1}, {2, 2, 2}}
	m.AddFace(buf)
	buf[0] = Descriptor{Vertex: 9, UV: 9, Normal: 9}
	if got := m.Faces[0][0]; got != (Descriptor{}) {
		t.Errorf("stored descriptor = %+v, want zero descriptor", got)
	}
}

func TestAddReturnsIndex(t *testing.T) {
	m := New()
	if i := m.AddVertex(Vec3{}); i != 0 {
		t.Errorf("AddVertex() = %d, want 0", i)
	}
	if i := m.AddVertex(Vec3{X: 1}); i != 1 {
		t.Errorf("AddVertex() = %d, want 1", i)
	}
	if i := m.AddUV(Vec2{X: 0.5, Y: 0.5}); i != 0 {
		t.Errorf("AddUV() = %d, want 0", i)
	}
	if i := m.AddNormal(Vec3{Z: 1}); i != 0 {
		t.Errorf("AddNormal() = %d, want 0", i)
	}
}

func TestMeshTriangleCount(t *testing.T) {
	tests := []struct {
		name  string
		faces []Face
		want  int
	}{
		{"empty", nil, 0},
		{"one triangle", []Face{make(Face, 3)}, 1},
		{"quad", []Face{make(Face, 4)}, 2},
		{"triangle and pentagon", []Face{make(Face, 3), make(Face, 5)}, 4},
		{"degenerate faces", []Face{make(Face, 1), make(Face, 2)}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{Faces: tt.faces}
			if got := m.TriangleCount(); got != tt.want {
				t.Errorf("TriangleCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMeshIsEmpty(t *testing.T) {
	t.Run("empty mesh", func(t *testing.T) {
		if !New().IsEmpty() {
			t.Error("IsEmpty() = false for empty mesh, want true")
		}
	})
	t.Run("non-empty mesh", func(t *testing.T) {
		m := New()
		m.AddVertex(Vec3{X: 1, Y: 2, Z: 3})
		if m.IsEmpty() {
			t.Error("IsEmpty() = true for non-empty mesh, want false")
		}
	})
}

func TestMeshBoundingBox(t *testing.T) {
	m := New()
	if _, _, ok := m.BoundingBox(); ok {
		t.Fatal("BoundingBox() ok = true for empty mesh")
	}
	m.AddVertex(Vec3{X: 1, Y: -2, Z: 3})
	m.AddVertex(Vec3{X: -1, Y: 5, Z: 0})
	m.AddVertex(Vec3{X: 0, Y: 0, Z: 7})
	min, max, ok := m.BoundingBox()
	if !ok {
		t.Fatal("BoundingBox() ok = false")
	}
	if min != (Vec3{X: -1, Y: -2, Z: 0}) {
		t.Errorf("min = %v, want {-1 -2 0}", min)
	}
	if max != (Vec3{X: 1, Y: 5, Z: 7}) {
		t.Errorf("max = %v, want {1 5 7}", max)
	}
}
