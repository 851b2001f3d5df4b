package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/goccy/go-json"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("wrangle: ")

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	app := NewApp()
	var err error
	switch sub := os.Args[1]; sub {
	case "convert":
		err = convertCmd(app, os.Args[2:])
	case "info":
		err = infoCmd(app, os.Args[2:])
	case "gen":
		err = genCmd(app, os.Args[2:])
	case "run":
		err = runCmd(app, os.Args[2:])
	case "batch":
		err = batchCmd(app, os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.Print(err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `wrangle converts polygon meshes.

Usage:
  wrangle convert [-format obj|stl_ascii] [-strict] in.obj out.stl
  wrangle info in.obj
  wrangle gen [-format obj|stl_ascii] [-kernel sdfx|manifold] box|cylinder|sphere out.stl dims...
  wrangle run [-kernel sdfx|manifold] script.wrangle
  wrangle batch jobs.yaml

Without -format the output format follows the extension (.obj, .stl).`)
}

func convertCmd(app *App, args []string) error {
	fs := flag.NewFlagSet("convert", flag.ExitOnError)
	formatID := fs.String("format", "", "output format: obj or stl_ascii")
	strict := fs.Bool("strict", false, "reject directives other than v, vt, vn and f")
	_ = fs.Parse(args)
	if fs.NArg() != 2 {
		usage()
		os.Exit(2)
	}
	return app.Convert(fs.Arg(0), fs.Arg(1), *formatID, *strict)
}

func infoCmd(app *App, args []string) error {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	_ = fs.Parse(args)
	if fs.NArg() != 1 {
		usage()
		os.Exit(2)
	}
	info, err := app.Info(fs.Arg(0))
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}

func genCmd(app *App, args []string) error {
	fs := flag.NewFlagSet("gen", flag.ExitOnError)
	formatID := fs.String("format", "", "output format: obj or stl_ascii")
	kernelName := fs.String("kernel", "sdfx", "geometry kernel: sdfx or manifold")
	_ = fs.Parse(args)
	if fs.NArg() < 3 {
		usage()
		os.Exit(2)
	}
	if err := app.UseKernel(*kernelName); err != nil {
		return err
	}
	dims := make([]float64, 0, fs.NArg()-2)
	for _, s := range fs.Args()[2:] {
		d, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("gen: dimension %q: %w", s, err)
		}
		dims = append(dims, d)
	}
	m, err := app.Generate(fs.Arg(0), dims, fs.Arg(1), *formatID)
	if err != nil {
		return err
	}
	log.Printf("wrote %s: %d vertices, %d faces", fs.Arg(1), m.VertexCount(), m.FaceCount())
	return nil
}

func runCmd(app *App, args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	kernelName := fs.String("kernel", "sdfx", "geometry kernel: sdfx or manifold")
	_ = fs.Parse(args)
	if fs.NArg() != 1 {
		usage()
		os.Exit(2)
	}
	if err := app.UseKernel(*kernelName); err != nil {
		return err
	}
	res, err := app.RunScript(fs.Arg(0))
	if err != nil {
		return err
	}
	for _, s := range res.Saved {
		log.Printf("wrote %s (%s, %d faces)", s.Path, s.Format, s.Faces)
	}
	return nil
}

func batchCmd(app *App, args []string) error {
	fs := flag.NewFlagSet("batch", flag.ExitOnError)
	_ = fs.Parse(args)
	if fs.NArg() != 1 {
		usage()
		os.Exit(2)
	}
	n, err := app.RunBatch(fs.Arg(0))
	if err != nil {
		return err
	}
	log.Printf("%d job(s) done", n)
	return nil
}
