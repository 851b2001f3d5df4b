package mesh

import (
	"errors"
	"fmt"
)

var (
	// ErrIndexOutOfRange is matched by every *IndexError.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrEmptyFace is returned when a face with no corners has to be averaged.
	ErrEmptyFace = errors.New("face has no vertex descriptors")
)

// IndexError reports a descriptor that points past the end of one of the
// mesh sequences.
type IndexError struct {
	Face      int    // face index
	Corner    int    // descriptor index within the face
	Attribute string // "vertex", "uv" or "normal"
	Index     int
	Len       int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("face %d corner %d: %s index %d out of range [0,%d)",
		e.Face, e.Corner, e.Attribute, e.Index, e.Len)
}

// Unwrap lets errors.Is match ErrIndexOutOfRange.
func (e *IndexError) Unwrap() error {
	return ErrIndexOutOfRange
}

// FaceNormals returns one normal per face: the component-wise mean of the
// normals referenced by the face's descriptors. The result is never cached.
func FaceNormals(m *Mesh) ([]Vec3, error) {
	normals := make([]Vec3, 0, len(m.Faces))
	for fi, f := range m.Faces {
		if len(f) == 0 {
			return nil, fmt.Errorf("face %d: %w", fi, ErrEmptyFace)
		}
		var sum Vec3
		for ci, d := range f {
			if d.Normal < 0 || d.Normal >= len(m.Normals) {
				return nil, &IndexError{Face: fi, Corner: ci, Attribute: "normal", Index: d.Normal, Len: len(m.Normals)}
			}
			sum = sum.Add(m.Normals[d.Normal])
		}
		normals = append(normals, sum.DivScalar(float64(len(f))))
	}
	return normals, nil
}

// FaceVertices returns, for each face, the positions referenced by its
// descriptors in descriptor order.
func FaceVertices(m *Mesh) ([][]Vec3, error) {
	faces := make([][]Vec3, 0, len(m.Faces))
	for fi, f := range m.Faces {
		positions := make([]Vec3, 0, len(f))
		for ci, d := range f {
			if d.Vertex < 0 || d.Vertex >= len(m.Vertices) {
				return nil, &IndexError{Face: fi, Corner: ci, Attribute: "vertex", Index: d.Vertex, Len: len(m.Vertices)}
			}
			positions = append(positions, m.Vertices[d.Vertex])
		}
		faces = append(faces, positions)
	}
	return faces, nil
}
