package format

import (
	"bytes"

	"github.com/chazu/wrangle/pkg/mesh"
)

// writeStlASCII emits one facet per face. Faces are not triangulated; each
// facet loop lists every corner of its polygon.
func writeStlASCII(buf *bytes.Buffer, m *mesh.Mesh, name string) error {
	normals, err := mesh.FaceNormals(m)
	if err != nil {
		return err
	}
	positions, err := mesh.FaceVertices(m)
	if err != nil {
		return err
	}

	buf.WriteString("solid " + name + "\n")
	for i, n := range normals {
		writeLine(buf, "\tfacet normal", n.X, n.Y, n.Z)
		buf.WriteString("\t\touter loop\n")
		for _, v := range positions[i] {
			writeLine(buf, "\t\t\tvertex", v.X, v.Y, v.Z)
		}
		buf.WriteString("\t\tendloop\n")
		buf.WriteString("\tendfacet\n")
	}
	buf.WriteString("endsolid " + name + "\n")
	return nil
}
