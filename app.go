package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/chazu/wrangle/pkg/config"
	"github.com/chazu/wrangle/pkg/format"
	"github.com/chazu/wrangle/pkg/kernel"
	"github.com/chazu/wrangle/pkg/kernel/manifold"
	"github.com/chazu/wrangle/pkg/kernel/sdfx"
	"github.com/chazu/wrangle/pkg/mesh"
	"github.com/chazu/wrangle/pkg/script"
)

// App is the command-line backend. Each method is one subcommand.
type App struct {
	kernel kernel.Kernel
}

// MeshInfo is the JSON summary printed by the info command.
type MeshInfo struct {
	Path      string      `json:"path"`
	Vertices  int         `json:"vertices"`
	UVs       int         `json:"uvs"`
	Normals   int         `json:"normals"`
	Faces     int         `json:"faces"`
	Triangles int         `json:"triangles"`
	Min       *[3]float64 `json:"min,omitempty"`
	Max       *[3]float64 `json:"max,omitempty"`
}

// NewApp creates a new App backed by the sdfx kernel.
func NewApp() *App {
	return &App{kernel: sdfx.New()}
}

// UseKernel selects the geometry backend used by gen and run: "sdfx" (the
// default) or "manifold", which needs a build with -tags=manifold.
func (a *App) UseKernel(name string) error {
	switch name {
	case "", "sdfx":
		a.kernel = sdfx.New()
	case "manifold":
		k, err := manifold.New()
		if err != nil {
			return err
		}
		a.kernel = k
	default:
		return fmt.Errorf("unknown kernel %q (want sdfx or manifold)", name)
	}
	return nil
}

// Convert reads in and writes it to out. An empty formatID infers the
// format from the extension of out.
func (a *App) Convert(in, out, formatID string, strict bool) error {
	f, err := outputFormat(out, formatID)
	if err != nil {
		return err
	}
	var opts []format.ReadOption
	if strict {
		opts = append(opts, format.WithStrict())
	}
	m, err := format.Open(in, opts...)
	if err != nil {
		return err
	}
	return format.Save(m, out, f)
}

// Info summarises the mesh stored at path.
func (a *App) Info(path string) (MeshInfo, error) {
	m, err := format.Open(path)
	if err != nil {
		return MeshInfo{}, err
	}
	info := MeshInfo{
		Path:      path,
		Vertices:  m.VertexCount(),
		UVs:       len(m.UVs),
		Normals:   len(m.Normals),
		Faces:     m.FaceCount(),
		Triangles: m.TriangleCount(),
	}
	if min, max, ok := m.BoundingBox(); ok {
		info.Min = &[3]float64{min.X, min.Y, min.Z}
		info.Max = &[3]float64{max.X, max.Y, max.Z}
	}
	return info, nil
}

// Generate tessellates a primitive and writes it to out. dims are the box
// sizes (x y z), the cylinder height and radius, or the sphere radius.
func (a *App) Generate(shape string, dims []float64, out, formatID string) (*mesh.Mesh, error) {
	f, err := outputFormat(out, formatID)
	if err != nil {
		return nil, err
	}

	for _, d := range dims {
		if d <= 0 {
			return nil, fmt.Errorf("%s: dimensions must be positive, got %g", shape, d)
		}
	}

	var solid kernel.Solid
	switch shape {
	case "box":
		if len(dims) != 3 {
			return nil, fmt.Errorf("box needs 3 dimensions, got %d", len(dims))
		}
		solid = a.kernel.Box(dims[0], dims[1], dims[2])
	case "cylinder":
		if len(dims) != 2 {
			return nil, fmt.Errorf("cylinder needs height and radius, got %d values", len(dims))
		}
		solid = a.kernel.Cylinder(dims[0], dims[1], 32)
	case "sphere":
		if len(dims) != 1 {
			return nil, fmt.Errorf("sphere needs a radius, got %d values", len(dims))
		}
		solid = a.kernel.Sphere(dims[0], 32)
	default:
		return nil, fmt.Errorf("unknown shape %q (want box, cylinder or sphere)", shape)
	}

	m, err := a.kernel.ToMesh(solid)
	if err != nil {
		log.Printf("Generate tessellation error: %v", err)
		return nil, fmt.Errorf("tessellation failed: %w", err)
	}
	if err := format.Save(m, out, f); err != nil {
		return nil, err
	}
	return m, nil
}

// RunScript runs the script at path. Relative paths inside the script are
// resolved against the script's directory.
func (a *App) RunScript(path string) (*script.Result, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	eng := script.NewEngine(a.kernel)
	eng.BaseDir = filepath.Dir(path)

	res, scriptErrs, err := eng.Run(string(source))
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		log.Printf("RunScript fatal error: %v", err)
		return nil, err
	}
	if len(scriptErrs) > 0 {
		errs := make([]error, 0, len(scriptErrs))
		for _, e := range scriptErrs {
			errs = append(errs, e)
		}
		return nil, fmt.Errorf("%s: %w", path, errors.Join(errs...))
	}
	return res, nil
}

// RunBatch runs every job of a batch file and stops at the first failure.
// It returns the number of jobs that completed.
func (a *App) RunBatch(path string) (int, error) {
	b, err := config.Load(path)
	if err != nil {
		return 0, err
	}
	for i, j := range b.Jobs {
		if err := a.Convert(j.Input, j.Output, j.Format, j.Strict); err != nil {
			return i, fmt.Errorf("job %d (%s): %w", i+1, j.Input, err)
		}
	}
	return len(b.Jobs), nil
}

func outputFormat(out, formatID string) (format.Format, error) {
	if formatID != "" {
		return format.ParseFormat(formatID)
	}
	return format.FormatFromPath(out)
}
