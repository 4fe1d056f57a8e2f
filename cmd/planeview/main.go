// Command planeview renders a 2D slice of a volumetric scalar field to PNG.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/planeview/internal/config"
	"github.com/banshee-data/planeview/internal/field"
	"github.com/banshee-data/planeview/internal/fsutil"
	"github.com/banshee-data/planeview/internal/palette"
	"github.com/banshee-data/planeview/internal/plane"
	"github.com/banshee-data/planeview/internal/render"
	"github.com/banshee-data/planeview/internal/version"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr, fsutil.OSFileSystem{}); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		log.Fatalf("planeview: %v", err)
	}
}

// run parses args, loads the job and renders it. Flags given on the
// command line override the job file.
func run(args []string, stdout, stderr io.Writer, fsys fsutil.FileSystem) error {
	fl := flag.NewFlagSet("planeview", flag.ContinueOnError)
	fl.SetOutput(stderr)

	var (
		configPath  = fl.String("config", "", "Path to a JSON job file")
		cube        = fl.String("cube", "", "Gaussian cube file (default: built-in demo field)")
		out         = fl.String("out", "", "PNG output path")
		scheme      = fl.String("scheme", "", "Colour scheme name or id (see -list-schemes)")
		isolines    = fl.Bool("isolines", false, "Overlay isolines")
		legend      = fl.Bool("legend", false, "Draw the colour legend")
		figure      = fl.String("figure", "", "Also write an annotated figure (png, svg, pdf, eps, jpg, tiff)")
		manifest    = fl.String("manifest", "", "Also write a JSON run manifest")
		workers     = fl.Int("workers", 0, "Extraction goroutines (0 = GOMAXPROCS)")
		showVersion = fl.Bool("version", false, "Print version and exit")
		listSchemes = fl.Bool("list-schemes", false, "List colour schemes and exit")
		quiet       = fl.Bool("quiet", false, "Only log warnings and errors")
		trace       = fl.Bool("trace", false, "Log per-level and per-row detail")
	)
	if err := fl.Parse(args); err != nil {
		return err
	}

	if *showVersion {
		fmt.Fprintln(stdout, version.String())
		return nil
	}
	if *listSchemes {
		for _, s := range palette.Schemes() {
			fmt.Fprintf(stdout, "%2d  %s\n", int(s), s)
		}
		return nil
	}

	var diag, tr io.Writer
	if !*quiet {
		diag = stderr
	}
	if *trace {
		tr = stderr
	}
	plane.SetLogWriters(stderr, diag, tr)
	render.SetLogWriters(stderr, diag, tr)
	logger := log.New(stderr, "[planeview] ", log.LstdFlags)

	cfg := config.EmptyJobConfig()
	if *configPath != "" {
		var err error
		if cfg, err = config.LoadJobConfigFS(fsys, *configPath); err != nil {
			return err
		}
	}

	// Only flags the user actually passed override the job file.
	fl.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "cube":
			cfg.Cube = cube
		case "out":
			cfg.Output = out
		case "scheme":
			cfg.Scheme = scheme
		case "isolines":
			cfg.Isolines = isolines
		case "legend":
			cfg.Legend = legend
		case "figure":
			cfg.Figure = figure
		case "manifest":
			cfg.Manifest = manifest
		case "workers":
			cfg.Workers = workers
		}
	})
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	sampler, err := loadField(fsys, cfg)
	if err != nil {
		return err
	}
	ramp, err := cfg.Ramp()
	if err != nil {
		return err
	}

	p := render.NewProjector(sampler, cfg.GetMin(), cfg.GetMax(), ramp,
		render.WithWorkers(cfg.GetWorkers()),
		render.WithLevelMode(cfg.GetLevelMode()),
		render.WithFileSystem(fsys),
		render.WithUnit(cfg.GetUnit()),
	)
	p.Extract(cfg.GetBasis(), cfg.GetWindow(), cfg.GetNegative())
	if err := p.Plot(); err != nil {
		return err
	}
	if cfg.GetIsolines() {
		if err := p.Isolines(cfg.GetBins(), cfg.GetNegative()); err != nil {
			return err
		}
	}
	if cfg.GetLegend() {
		if err := p.DrawLegend(); err != nil {
			return err
		}
	}
	if err := p.Write(cfg.GetOutput()); err != nil {
		return err
	}

	if path := cfg.GetFigure(); path != "" {
		w := vg.Length(cfg.GetFigureWidth()) * vg.Inch
		h := vg.Length(cfg.GetFigureHeight()) * vg.Inch
		title := strings.TrimSuffix(filepath.Base(cfg.GetOutput()), filepath.Ext(cfg.GetOutput()))
		if err := p.WriteFigure(path, w, h, title); err != nil {
			return err
		}
	}
	if path := cfg.GetManifest(); path != "" {
		m := p.Manifest(cfg.GetOutput())
		m.Scheme = cfg.SchemeName()
		if err := p.WriteManifest(path, m); err != nil {
			return err
		}
	}

	g := p.Grid()
	if !*quiet {
		logger.Printf("rendered %s: %dx%d px, crop %s, %d isolines, scheme %s",
			cfg.GetOutput(), g.Width, g.Height, p.Bounds(), len(p.Levels()), cfg.SchemeName())
	}
	return nil
}

// loadField opens the configured cube, or returns the demo field when
// none is set.
func loadField(fsys fsutil.FileSystem, cfg *config.JobConfig) (field.Sampler, error) {
	path := cfg.GetCube()
	if path == "" {
		return field.DefaultDimer, nil
	}
	f, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cube: %w", err)
	}
	defer f.Close()

	c, err := field.ReadCube(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	g := c.Grid
	if cfg.GetAngstrom() {
		g = g.Scaled(field.BohrToAngstrom)
	}
	g.Periodic = cfg.GetPeriodic()
	return g, nil
}
