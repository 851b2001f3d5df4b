// Package script runs mesh processing scripts. It wraps zygomys in a
// sandboxed environment and exposes mesh I/O and the geometry kernel as
// builtins, so a conversion such as
//
//	(def m (open-mesh "sphere_tris.obj"))
//	(save-mesh m "out.stl" :format "stl_ascii")
//
// can be written and re-run without recompiling.
package script

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/chazu/wrangle/pkg/format"
	"github.com/chazu/wrangle/pkg/kernel"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ScriptError represents a non-fatal error encountered while running a
// script, such as a parse error or a failing builtin.
type ScriptError struct {
	Line    int
	Col     int
	Message string
}

func (e ScriptError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// SavedMesh records one successful save-mesh call.
type SavedMesh struct {
	Path   string
	Format format.Format
	Faces  int
}

// Result is what a script did.
type Result struct {
	Saved []SavedMesh
}

// Engine runs scripts. It is safe for concurrent use; each call to Run
// creates a fresh sandboxed environment.
type Engine struct {
	// BaseDir resolves relative paths passed to open-mesh and save-mesh.
	// Empty means the process working directory.
	BaseDir string

	kernel     kernel.Kernel
	mu         sync.Mutex
	generation uint64
}

// NewEngine creates an Engine whose primitive builtins use k.
func NewEngine(k kernel.Kernel) *Engine {
	return &Engine{kernel: k}
}

// Run evaluates source.
//
// Return semantics:
//   - On success: returns result + nil errors + nil error
//   - On parse/eval failure: returns nil result + script errors + nil error
//   - On fatal failure (timeout, panic): returns nil + nil + error
func (e *Engine) Run(source string) (*Result, []ScriptError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan runResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- runResult{err: fmt.Errorf("panic during script run: %v", r)}
			}
		}()

		res, scriptErrs, err := e.run(source)
		ch <- runResult{result: res, errors: scriptErrs, err: err}
	}()

	return waitWithTimeout(ch, gen, &e.mu, &e.generation)
}

// run performs the actual zygomys evaluation in a fresh sandbox.
func (e *Engine) run(source string) (*Result, []ScriptError, error) {
	res := &Result{}
	if strings.TrimSpace(source) == "" {
		return res, nil, nil
	}

	env := zygo.NewZlispSandbox()
	defer env.Stop()

	registerBuiltins(env, &session{
		kernel:  e.kernel,
		baseDir: e.BaseDir,
		result:  res,
	})

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return nil, parseZygomysError(err), nil
	}
	if _, err := env.Run(); err != nil {
		return nil, parseZygomysError(err), nil
	}
	return res, nil, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into script errors, pulling
// out a line number when the message carries one.
func parseZygomysError(err error) []ScriptError {
	msg := err.Error()

	for _, re := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := re.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []ScriptError{{Line: line, Message: strings.TrimSpace(m[2])}}
		}
	}

	return []ScriptError{{Message: strings.TrimSpace(msg)}}
}
