// Package format reads and writes polygon meshes as text. The reader
// understands the v/vt/vn/f subset of Wavefront OBJ; the writer emits that
// same subset or ASCII STL.
package format

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format selects an output serialization.
type Format int

const (
	Obj Format = iota
	StlASCII
)

// String returns the identifier accepted by ParseFormat.
func (f Format) String() string {
	switch f {
	case Obj:
		return "obj"
	case StlASCII:
		return "stl_ascii"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// ParseFormat maps an identifier such as "obj" or "stl_ascii" to a Format.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "obj":
		return Obj, nil
	case "stl_ascii":
		return StlASCII, nil
	default:
		return 0, fmt.Errorf("format: %q: %w", s, ErrUnsupportedFormat)
	}
}

// FormatFromPath infers the output format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".obj":
		return Obj, nil
	case ".stl":
		return StlASCII, nil
	default:
		return 0, fmt.Errorf("format: extension %q: %w", ext, ErrUnsupportedFormat)
	}
}

// solidName is the STL solid name for a destination: its base name without
// the extension.
func solidName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
