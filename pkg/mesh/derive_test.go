package mesh

import (
	"errors"
	"testing"
)

func TestFaceNormalsAverages(t *testing.T) {
	m := New()
	m.AddNormal(Vec3{X: 1})
	m.AddNormal(Vec3{Y: 1})
	m.AddFace(Face{{Normal: 0}, {Normal: 1}})

	got, err := FaceNormals(m)
	if err != nil {
		t.Fatalf("FaceNormals() error = %v", err)
	}
	want := Vec3{X: 0.5, Y: 0.5, Z: 0}
	if len(got) != 1 || got[0] != want {
		t.Errorf("FaceNormals() = %v, want [%v]", got, want)
	}
}

func TestFaceNormalsPolygon(t *testing.T) {
	m := New()
	m.AddNormal(Vec3{Z: 1})
	m.AddNormal(Vec3{Z: 3})
	m.AddFace(Face{{Normal: 0}, {Normal: 0}, {Normal: 1}, {Normal: 1}})
	m.AddFace(Face{{Normal: 1}, {Normal: 1}, {Normal: 1}})

	got, err := FaceNormals(m)
	if err != nil {
		t.Fatalf("FaceNormals() error = %v", err)
	}
	want := []Vec3{{Z: 2}, {Z: 3}}
	if len(got) != len(want) {
		t.Fatalf("len(FaceNormals()) = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("FaceNormals()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestFaceNormalsOutOfRange(t *testing.T) {
	m := New()
	for i := 0; i < 3; i++ {
		m.AddNormal(Vec3{Z: 1})
	}
	m.AddFace(Face{{Normal: 0}, {Normal: 5}, {Normal: 1}})

	got, err := FaceNormals(m)
	if got != nil {
		t.Errorf("FaceNormals() = %v, want nil on error", got)
	}
	if !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("FaceNormals() error = %v, want ErrIndexOutOfRange", err)
	}
	var ie *IndexError
	if !errors.As(err, &ie) {
		t.Fatalf("error %T is not *IndexError", err)
	}
	if ie.Face != 0 || ie.Corner != 1 || ie.Attribute != "normal" || ie.Index != 5 || ie.Len != 3 {
		t.Errorf("IndexError = %+v", ie)
	}
}

func TestFaceNormalsNegativeIndex(t *testing.T) {
	m := New()
	m.AddNormal(Vec3{Z: 1})
	m.AddFace(Face{{Normal: -1}})
	if _, err := FaceNormals(m); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("FaceNormals() error = %v, want ErrIndexOutOfRange", err)
	}
}

func TestFaceNormalsEmptyFace(t *testing.T) {
	m := New()
	m.AddFace(Face{})
	if _, err := FaceNormals(m); !errors.Is(err, ErrEmptyFace) {
		t.Errorf("FaceNormals() error = %v, want ErrEmptyFace", err)
	}
}

func TestFaceVerticesOrder(t *testing.T) {
	m := New()
	m.AddVertex(Vec3{X: 1})
	m.AddVertex(Vec3{})
	m.AddVertex(Vec3{Y: 1})
	m.AddFace(Face{{Vertex: 1}, {Vertex: 0}, {Vertex: 2}})

	got, err := FaceVertices(m)
	if err != nil {
		t.Fatalf("FaceVertices() error = %v", err)
	}
	want := []Vec3{{}, {X: 1}, {Y: 1}}
	if len(got) != 1 || len(got[0]) != len(want) {
		t.Fatalf("FaceVertices() = %v, want [%v]", got, want)
	}
	for i := range want {
		if got[0][i] != want[i] {
			t.Errorf("FaceVertices()[0][%d] = %v, want %v", i, got[0][i], want[i])
		}
	}
}

func TestFaceVerticesOutOfRange(t *testing.T) {
	m := New()
	m.AddVertex(Vec3{})
	m.AddFace(Face{{Vertex: 0}})
	m.AddFace(Face{{Vertex: 0}, {Vertex: 1}})

	_, err := FaceVertices(m)
	var ie *IndexError
	if !errors.As(err, &ie) {
		t.Fatalf("FaceVertices() error = %v, want *IndexError", err)
	}
	if ie.Face != 1 || ie.Corner != 1 || ie.Attribute != "vertex" {
		t.Errorf("IndexError = %+v", ie)
	}
}

func TestDerivedLengthMatchesFaces(t *testing.T) {
	m := New()
	m.AddVertex(Vec3{})
	m.AddNormal(Vec3{Z: 1})
	for i := 0; i < 4; i++ {
		m.AddFace(Face{{}, {}, {}})
	}
	normals, err := FaceNormals(m)
	if err != nil {
		t.Fatalf("FaceNormals() error = %v", err)
	}
	positions, err := FaceVertices(m)
	if err != nil {
		t.Fatalf("FaceVertices() error = %v", err)
	}
	if len(normals) != 4 || len(positions) != 4 {
		t.Errorf("derived lengths = %d, %d, want 4, 4", len(normals), len(positions))
	}
}
