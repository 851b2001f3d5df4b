package format

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/chazu/wrangle/pkg/mesh"
)

// defaultMaxLineBytes bounds a single input line. Large polygons need more.
const defaultMaxLineBytes = 1 << 20

type readConfig struct {
	strict       bool
	maxLineBytes int
}

// ReadOption configures Read and Open.
type ReadOption func(*readConfig)

// WithStrict rejects directives other than v, vt, vn and f instead of
// skipping them.
func WithStrict() ReadOption {
	return func(c *readConfig) { c.strict = true }
}

// WithMaxLineBytes sets the longest line the reader accepts.
func WithMaxLineBytes(n int) ReadOption {
	return func(c *readConfig) {
		if n > 0 {
			c.maxLineBytes = n
		}
	}
}

// Open reads the mesh stored at path. The file is closed before Open
// returns, whatever the outcome.
func Open(path string, opts ...ReadOption) (*mesh.Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("format: open: %w", err)
	}
	defer f.Close()

	m, err := Read(f, opts...)
	if err != nil {
		return nil, fmt.Errorf("format: %s: %w", path, err)
	}
	return m, nil
}

// Read parses a mesh from r one line at a time. Either a fully populated
// mesh or an error is returned, never both. Reader errors are *ParseError
// values carrying the 1-based line number.
func Read(r io.Reader, opts ...ReadOption) (*mesh.Mesh, error) {
	cfg := readConfig{maxLineBytes: defaultMaxLineBytes}
	for _, opt := range opts {
		opt(&cfg)
	}

	p := &parser{m: mesh.New(), strict: cfg.strict}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), cfg.maxLineBytes)

	for scanner.Scan() {
		p.line++
		if err := p.parseLine(strings.TrimSuffix(scanner.Text(), "\r")); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read after line %d: %w", p.line, err)
	}
	return p.m, nil
}

// parser holds the mesh under construction and the current line number.
type parser struct {
	m      *mesh.Mesh
	line   int
	strict bool
	face   mesh.Face
}

func (p *parser) parseLine(text string) error {
	if text == "" || text[0] == '#' {
		return nil
	}

	tok := strings.Split(text, " ")
	if len(tok) < 2 {
		return lineError(p.line, ErrMalformedLine, "insufficient data: %d token(s)", len(tok))
	}

	switch tok[0] {
	case "v":
		v, err := p.floats(tok, 3)
		if err != nil {
			return err
		}
		p.m.AddVertex(mesh.Vec3{X: v[0], Y: v[1], Z: v[2]})

	case "vt":
		v, err := p.floats(tok, 2)
		if err != nil {
			return err
		}
		p.m.AddUV(mesh.Vec2{X: v[0], Y: v[1]})

	case "vn":
		v, err := p.floats(tok, 3)
		if err != nil {
			return err
		}
		p.m.AddNormal(mesh.Vec3{X: v[0], Y: v[1], Z: v[2]})

	case "f":
		p.face = p.face[:0]
		for _, s := range tok[1:] {
			d, err := p.descriptor(s)
			if err != nil {
				return err
			}
			p.face = append(p.face, d)
		}
		p.m.AddFace(p.face)

	default:
		if p.strict {
			return tokenError(p.line, tok[0], ErrUnrecognizedDirective, "expected v, vt, vn or f")
		}
	}
	return nil
}

// floats converts the n values following the directive. Extra values are
// ignored.
func (p *parser) floats(tok []string, n int) ([]float64, error) {
	if len(tok)-1 < n {
		return nil, lineError(p.line, ErrMalformedLine, "%s expects %d values, got %d", tok[0], n, len(tok)-1)
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		f, err := parseFloat(tok[i+1])
		if err != nil {
			return nil, tokenError(p.line, tok[i+1], ErrNumericFormat, "%s value %d is not a number", tok[0], i+1)
		}
		out[i] = f
	}
	return out, nil
}

// descriptor parses "a/b/c" with 1-based indices into a zero-based
// descriptor.
func (p *parser) descriptor(s string) (mesh.Descriptor, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return mesh.Descriptor{}, tokenError(p.line, s, ErrMalformedDescriptor, "expected v/t/n, got %d component(s)", len(parts))
	}
	var idx [3]int
	for i, part := range parts {
		if part == "" {
			return mesh.Descriptor{}, tokenError(p.line, s, ErrMalformedDescriptor, "component %d is missing", i+1)
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return mesh.Descriptor{}, tokenError(p.line, s, ErrNumericFormat, "descriptor component %q is not an integer", part)
		}
		// Relative (negative) and zero indices are not part of the grammar.
		if n < 1 {
			return mesh.Descriptor{}, tokenError(p.line, s, ErrMalformedDescriptor, "index %d is not 1-based", n)
		}
		idx[i] = n - 1
	}
	return mesh.Descriptor{Vertex: idx[0], UV: idx[1], Normal: idx[2]}, nil
}
