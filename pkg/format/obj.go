package format

import (
	"bytes"
	"strconv"

	"github.com/chazu/wrangle/pkg/mesh"
)

// writeObj emits vertices, UVs, normals and faces in that order. Indices
// are written 1-based.
func writeObj(buf *bytes.Buffer, m *mesh.Mesh) {
	for _, v := range m.Vertices {
		writeLine(buf, "v", v.X, v.Y, v.Z)
	}
	for _, vt := range m.UVs {
		writeLine(buf, "vt", vt.X, vt.Y)
	}
	for _, vn := range m.Normals {
		writeLine(buf, "vn", vn.X, vn.Y, vn.Z)
	}
	for _, f := range m.Faces {
		buf.WriteString("f")
		for _, d := range f {
			buf.WriteByte(' ')
			buf.WriteString(strconv.Itoa(d.Vertex + 1))
			buf.WriteByte('/')
			buf.WriteString(strconv.Itoa(d.UV + 1))
			buf.WriteByte('/')
			buf.WriteString(strconv.Itoa(d.Normal + 1))
		}
		buf.WriteByte('\n')
	}
}

// writeLine writes a keyword followed by space separated values.
func writeLine(buf *bytes.Buffer, keyword string, values ...float64) {
	buf.WriteString(keyword)
	for _, v := range values {
		buf.WriteByte(' ')
		buf.WriteString(formatFloat(v))
	}
	buf.WriteByte('\n')
}
