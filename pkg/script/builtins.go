package script

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/chazu/wrangle/pkg/format"
	"github.com/chazu/wrangle/pkg/kernel"
	"github.com/chazu/wrangle/pkg/mesh"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource rewrites script source into something zygomys accepts:
//
//  1. ;-comments become //-comments.
//  2. :keyword becomes the string literal "__kw_keyword", recognised by
//     parseArgs.
//  3. Hyphens inside identifiers become underscores (open-mesh ->
//     open_mesh), since zygomys reads them as subtraction.
//
// String literals are copied untouched.
func preprocessSource(source string) string {
	b := []byte(source)
	out := make([]byte, 0, len(b)+len(b)/4)

	for i := 0; i < len(b); {
		c := b[i]
		switch {
		case c == '"':
			j := i + 1
			for j < len(b) && b[j] != '"' {
				if b[j] == '\\' {
					j++
				}
				j++
			}
			if j < len(b) {
				j++
			}
			if j > len(b) {
				j = len(b)
			}
			out = append(out, b[i:j]...)
			i = j

		case c == ';':
			out = append(out, '/', '/')
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				out = append(out, b[i])
				i++
			}

		case c == ':' && i+1 < len(b) && b[i+1] == '=':
			out = append(out, ':', '=')
			i += 2

		case c == ':' && i+1 < len(b) && isLetter(b[i+1]):
			j := i + 1
			for j < len(b) && isKWChar(b[j]) {
				j++
			}
			out = append(out, '"')
			out = append(out, kwPrefix...)
			out = append(out, b[i+1:j]...)
			out = append(out, '"')
			i = j

		case c == '-' && i > 0 && i+1 < len(b) && isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]):
			out = append(out, '_')
			i++

		default:
			out = append(out, c)
			i++
		}
	}
	return string(out)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c) || c == '_'
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpMesh wraps a *mesh.Mesh.
type sexpMesh struct {
	m *mesh.Mesh
}

func (s *sexpMesh) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(mesh %d vertices %d faces)", s.m.VertexCount(), s.m.FaceCount())
}
func (s *sexpMesh) Type() *zygo.RegisteredType { return nil }

// sexpSolid wraps a kernel.Solid.
type sexpSolid struct {
	s kernel.Solid
}

func (s *sexpSolid) SexpString(ps *zygo.PrintState) string {
	min, max := s.s.BoundingBox()
	return fmt.Sprintf("(solid %.1f,%.1f,%.1f .. %.1f,%.1f,%.1f)", min[0], min[1], min[2], max[0], max[1], max[2])
}
func (s *sexpSolid) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Argument helpers
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// kwArgs holds a mixed positional and keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		str, ok := args[i].(*zygo.SexpStr)
		if !ok || !strings.HasPrefix(str.S, kwPrefix) {
			result.positional = append(result.positional, args[i])
			continue
		}
		name := str.S[len(kwPrefix):]
		if i+1 < len(args) {
			result.kw[name] = args[i+1]
			i++
		} else {
			result.kw[name] = zygo.SexpNull
		}
	}
	return result
}

func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

func toBool(s zygo.Sexp) (bool, error) {
	if b, ok := s.(*zygo.SexpBool); ok {
		return b.Val, nil
	}
	return false, fmt.Errorf("expected boolean, got %T (%s)", s, s.SexpString(nil))
}

func toMesh(s zygo.Sexp) (*mesh.Mesh, error) {
	if m, ok := s.(*sexpMesh); ok {
		return m.m, nil
	}
	return nil, fmt.Errorf("expected mesh, got %T (%s)", s, s.SexpString(nil))
}

func toSolid(s zygo.Sexp) (kernel.Solid, error) {
	if sol, ok := s.(*sexpSolid); ok {
		return sol.s, nil
	}
	return nil, fmt.Errorf("expected solid, got %T (%s)", s, s.SexpString(nil))
}

// floats converts exactly n positional number arguments.
func floats(fn string, args []zygo.Sexp, n int) ([]float64, error) {
	if len(args) != n {
		return nil, fmt.Errorf("%s requires exactly %d numbers, got %d", fn, n, len(args))
	}
	out := make([]float64, n)
	for i, a := range args {
		f, err := toFloat64(a)
		if err != nil {
			return nil, fmt.Errorf("%s: argument %d: %w", fn, i+1, err)
		}
		out[i] = f
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// session is the state shared by the builtins of one run.
type session struct {
	kernel  kernel.Kernel
	baseDir string
	result  *Result
}

func (s *session) resolve(path string) string {
	if s.baseDir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(s.baseDir, path)
}

func (s *session) requireKernel(fn string) error {
	if s.kernel == nil {
		return fmt.Errorf("%s: no geometry kernel configured", fn)
	}
	return nil
}

// registerBuiltins installs the mesh and kernel builtins. Source must go
// through preprocessSource first so that :keywords and kebab-case names
// resolve.
func registerBuiltins(env *zygo.Zlisp, s *session) {

	// (open-mesh "in.obj" :strict true)
	env.AddFunction("open_mesh", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 1 {
			return zygo.SexpNull, fmt.Errorf("open-mesh requires a path argument")
		}
		path, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("open-mesh: path: %w", err)
		}
		var opts []format.ReadOption
		if v, ok := pa.kw["strict"]; ok {
			strict, err := toBool(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("open-mesh: strict: %w", err)
			}
			if strict {
				opts = append(opts, format.WithStrict())
			}
		}
		m, err := format.Open(s.resolve(path), opts...)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("open-mesh: %w", err)
		}
		return &sexpMesh{m: m}, nil
	})

	// (save-mesh m "out.stl" :format "stl_ascii")
	env.AddFunction("save_mesh", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 2 {
			return zygo.SexpNull, fmt.Errorf("save-mesh requires a mesh and a path")
		}
		m, err := toMesh(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("save-mesh: mesh: %w", err)
		}
		path, err := toString(pa.positional[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("save-mesh: path: %w", err)
		}

		var f format.Format
		if v, ok := pa.kw["format"]; ok {
			id, err := toString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("save-mesh: format: %w", err)
			}
			if f, err = format.ParseFormat(id); err != nil {
				return zygo.SexpNull, fmt.Errorf("save-mesh: %w", err)
			}
		} else if f, err = format.FormatFromPath(path); err != nil {
			return zygo.SexpNull, fmt.Errorf("save-mesh: %w", err)
		}

		resolved := s.resolve(path)
		if err := format.Save(m, resolved, f); err != nil {
			return zygo.SexpNull, fmt.Errorf("save-mesh: %w", err)
		}
		s.result.Saved = append(s.result.Saved, SavedMesh{Path: resolved, Format: f, Faces: m.FaceCount()})
		return zygo.SexpNull, nil
	})

	// (face-count m) / (vertex-count m)
	env.AddFunction("face_count", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("face-count requires exactly 1 argument, got %d", len(args))
		}
		m, err := toMesh(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("face-count: %w", err)
		}
		return &zygo.SexpInt{Val: int64(m.FaceCount())}, nil
	})
	env.AddFunction("vertex_count", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("vertex-count requires exactly 1 argument, got %d", len(args))
		}
		m, err := toMesh(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vertex-count: %w", err)
		}
		return &zygo.SexpInt{Val: int64(m.VertexCount())}, nil
	})

	// (box 10 20 30)
	env.AddFunction("box", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if err := s.requireKernel("box"); err != nil {
			return zygo.SexpNull, err
		}
		v, err := floats("box", args, 3)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpSolid{s: s.kernel.Box(v[0], v[1], v[2])}, nil
	})

	// (cylinder height radius)
	env.AddFunction("cylinder", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if err := s.requireKernel("cylinder"); err != nil {
			return zygo.SexpNull, err
		}
		v, err := floats("cylinder", args, 2)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpSolid{s: s.kernel.Cylinder(v[0], v[1], 32)}, nil
	})

	// (sphere radius)
	env.AddFunction("sphere", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if err := s.requireKernel("sphere"); err != nil {
			return zygo.SexpNull, err
		}
		v, err := floats("sphere", args, 1)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpSolid{s: s.kernel.Sphere(v[0], 32)}, nil
	})

	// (translate solid x y z) / (rotate solid x y z)
	transforms := map[string]func(kernel.Solid, float64, float64, float64) kernel.Solid{
		"translate": func(sol kernel.Solid, x, y, z float64) kernel.Solid { return s.kernel.Translate(sol, x, y, z) },
		"rotate":    func(sol kernel.Solid, x, y, z float64) kernel.Solid { return s.kernel.Rotate(sol, x, y, z) },
	}
	for fn, apply := range transforms {
		fn, apply := fn, apply
		env.AddFunction(fn, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if err := s.requireKernel(fn); err != nil {
				return zygo.SexpNull, err
			}
			if len(args) != 4 {
				return zygo.SexpNull, fmt.Errorf("%s requires a solid and 3 numbers, got %d arguments", fn, len(args))
			}
			sol, err := toSolid(args[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", fn, err)
			}
			v, err := floats(fn, args[1:], 3)
			if err != nil {
				return zygo.SexpNull, err
			}
			return &sexpSolid{s: apply(sol, v[0], v[1], v[2])}, nil
		})
	}

	// (union a b) / (difference a b) / (intersection a b)
	booleans := map[string]func(a, b kernel.Solid) kernel.Solid{
		"union":        func(a, b kernel.Solid) kernel.Solid { return s.kernel.Union(a, b) },
		"difference":   func(a, b kernel.Solid) kernel.Solid { return s.kernel.Difference(a, b) },
		"intersection": func(a, b kernel.Solid) kernel.Solid { return s.kernel.Intersection(a, b) },
	}
	for fn, apply := range booleans {
		fn, apply := fn, apply
		env.AddFunction(fn, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if err := s.requireKernel(fn); err != nil {
				return zygo.SexpNull, err
			}
			if len(args) != 2 {
				return zygo.SexpNull, fmt.Errorf("%s requires exactly 2 solids, got %d", fn, len(args))
			}
			a, err := toSolid(args[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: first: %w", fn, err)
			}
			b, err := toSolid(args[1])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: second: %w", fn, err)
			}
			return &sexpSolid{s: apply(a, b)}, nil
		})
	}

	// (tessellate solid)
	env.AddFunction("tessellate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if err := s.requireKernel("tessellate"); err != nil {
			return zygo.SexpNull, err
		}
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("tessellate requires exactly 1 solid, got %d", len(args))
		}
		sol, err := toSolid(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("tessellate: %w", err)
		}
		m, err := s.kernel.ToMesh(sol)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("tessellate: %w", err)
		}
		return &sexpMesh{m: m}, nil
	})
}
