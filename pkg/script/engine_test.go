package script

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chazu/wrangle/pkg/format"
	"github.com/chazu/wrangle/pkg/kernel/sdfx"
)

const triangleObj = `v 0 0 0
v 1 0 0
v 0 1 0
vt 0 0
vn 0 0 1
f 1/1/1 2/1/1 3/1/1
`

func newTestEngine(t *testing.T) (*Engine, string) {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "in.obj"), []byte(triangleObj), 0o644); err != nil {
		t.Fatal(err)
	}
	eng := NewEngine(&sdfx.SdfxKernel{MeshCells: 30})
	eng.BaseDir = dir
	return eng, dir
}

func TestRunEmpty(t *testing.T) {
	eng, _ := newTestEngine(t)
	res, scriptErrs, err := eng.Run("  \n\t ")
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(scriptErrs) > 0 {
		t.Fatalf("unexpected script errors: %v", scriptErrs)
	}
	if res == nil || len(res.Saved) != 0 {
		t.Errorf("Run() = %+v, want empty result", res)
	}
}

func TestRunConvertsToStl(t *testing.T) {
	eng, dir := newTestEngine(t)

	source := `
; load the original and save it as STL
(def m (open-mesh "in.obj"))
(save-mesh m "out.stl" :format "stl_ascii")
`
	res, scriptErrs, err := eng.Run(source)
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(scriptErrs) > 0 {
		t.Fatalf("unexpected script errors: %v", scriptErrs)
	}
	if len(res.Saved) != 1 {
		t.Fatalf("saved = %d, want 1", len(res.Saved))
	}
	saved := res.Saved[0]
	if saved.Format != format.StlASCII || saved.Faces != 1 {
		t.Errorf("saved = %+v", saved)
	}

	data, err := os.ReadFile(filepath.Join(dir, "out.stl"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "solid out\n") {
		t.Errorf("out.stl starts with %q", string(data[:20]))
	}
}

func TestRunInfersFormatFromExtension(t *testing.T) {
	eng, dir := newTestEngine(t)
	res, scriptErrs, err := eng.Run(`(save-mesh (open-mesh "in.obj") "copy.obj")`)
	if err != nil || len(scriptErrs) > 0 {
		t.Fatalf("Run() = %v, %v", scriptErrs, err)
	}
	if res.Saved[0].Format != format.Obj {
		t.Errorf("format = %v, want obj", res.Saved[0].Format)
	}
	m, err := format.Open(filepath.Join(dir, "copy.obj"))
	if err != nil {
		t.Fatalf("Open(copy.obj) error = %v", err)
	}
	if m.FaceCount() != 1 {
		t.Errorf("faces = %d, want 1", m.FaceCount())
	}
}

func TestRunGeneratesPrimitive(t *testing.T) {
	eng, dir := newTestEngine(t)
	source := `
(def part (difference (box 20 20 20) (translate (cylinder 30 4) 10 10 10)))
(save-mesh (tessellate part) "part.stl")
`
	res, scriptErrs, err := eng.Run(source)
	if err != nil || len(scriptErrs) > 0 {
		t.Fatalf("Run() = %v, %v", scriptErrs, err)
	}
	if len(res.Saved) != 1 || res.Saved[0].Faces == 0 {
		t.Fatalf("saved = %+v, want one non-empty mesh", res.Saved)
	}
	if _, err := os.Stat(filepath.Join(dir, "part.stl")); err != nil {
		t.Errorf("part.stl not written: %v", err)
	}
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"unsupported format", `(save-mesh (open-mesh "in.obj") "out.x" :format "unknown")`, "unsupported format"},
		{"missing file", `(open-mesh "missing.obj")`, "open-mesh"},
		{"wrong type", `(face-count 3)`, "expected mesh"},
		{"box arity", `(box 1 2)`, "box requires exactly 3 numbers"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng, dir := newTestEngine(t)
			res, scriptErrs, err := eng.Run(tt.source)
			if err != nil {
				t.Fatalf("unexpected fatal error: %v", err)
			}
			if res != nil {
				t.Errorf("Run() result = %+v, want nil on error", res)
			}
			if len(scriptErrs) == 0 {
				t.Fatal("expected script errors")
			}
			if !strings.Contains(scriptErrs[0].Message, tt.want) {
				t.Errorf("error = %q, want it to contain %q", scriptErrs[0].Message, tt.want)
			}
			if _, err := os.Stat(filepath.Join(dir, "out.x")); !os.IsNotExist(err) {
				t.Errorf("out.x exists after failed run")
			}
		})
	}
}

func TestRunParseError(t *testing.T) {
	eng, _ := newTestEngine(t)
	_, scriptErrs, err := eng.Run("(def m (open-mesh \"in.obj\")")
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(scriptErrs) == 0 {
		t.Fatal("expected script errors for unbalanced parens")
	}
}

func TestRunWithoutKernel(t *testing.T) {
	eng := NewEngine(nil)
	_, scriptErrs, err := eng.Run(`(box 1 1 1)`)
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(scriptErrs) == 0 || !strings.Contains(scriptErrs[0].Message, "no geometry kernel") {
		t.Errorf("script errors = %v, want missing kernel error", scriptErrs)
	}
}

func TestScriptErrorString(t *testing.T) {
	if got := (ScriptError{Line: 3, Message: "boom"}).Error(); got != "line 3: boom" {
		t.Errorf("Error() = %q", got)
	}
	if got := (ScriptError{Message: "boom"}).Error(); got != "boom" {
		t.Errorf("Error() = %q", got)
	}
}

func TestParseZygomysError(t *testing.T) {
	tests := []struct {
		msg  string
		line int
		want string
	}{
		{"Error on line 4: unexpected token", 4, "unexpected token"},
		{"line 2: bad", 2, "bad"},
		{"  something broke  ", 0, "something broke"},
	}
	for _, tt := range tests {
		errs := parseZygomysError(stringError(tt.msg))
		if len(errs) != 1 || errs[0].Line != tt.line || errs[0].Message != tt.want {
			t.Errorf("parseZygomysError(%q) = %+v", tt.msg, errs)
		}
	}
}

type stringError string

func (e stringError) Error() string { return string(e) }
