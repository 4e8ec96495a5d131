package main

import (
	"fmt"
	"log"
	"os"

	"github.com/chazu/berth/pkg/berth"
	"github.com/chazu/berth/pkg/config"
	"github.com/chazu/berth/pkg/construction"
	"github.com/chazu/berth/pkg/engine"
	"github.com/chazu/berth/pkg/kernel/manifold"
	"github.com/chazu/berth/pkg/tessellate"
)

// colorPalette is a default palette used to assign distinct colors to meshes.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// App drives the script engine and turns the resulting construction into
// renderable meshes.
type App struct {
	engine   *engine.Engine
	warnings []EvalErrorData
}

// MeshData is the JSON-serializable mesh format.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	Name     string    `json:"name"`
	Color    string    `json:"color"`
}

// EvalErrorData is a JSON-serializable eval error.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// Summary describes the construction a script built.
type Summary struct {
	Elements  int    `json:"elements"`
	Groups    int    `json:"groups"`
	BBox      [6]int `json:"bbox"`
	Triangles int    `json:"triangles"`
}

// EvalResult is the full result of one evaluation.
type EvalResult struct {
	Meshes   []MeshData      `json:"meshes"`
	Errors   []EvalErrorData `json:"errors"`
	Warnings []EvalErrorData `json:"warnings"`
	Summary  Summary         `json:"summary"`
}

// NewApp creates an App from cfg. A configured catalog is read and checked
// once here and registered into every berth the engine creates.
func NewApp(cfg config.Config) (*App, error) {
	var catalog []byte
	var warnings []EvalErrorData
	if cfg.Catalog != "" {
		data, err := os.ReadFile(cfg.Catalog)
		if err != nil {
			return nil, fmt.Errorf("read catalog: %w", err)
		}
		res, err := construction.LoadCatalog(construction.Defaults(), data)
		if err != nil {
			return nil, fmt.Errorf("catalog %s: %w", cfg.Catalog, err)
		}
		for _, w := range res.Warnings {
			warnings = append(warnings, EvalErrorData{Message: w.Error()})
		}
		catalog = data
	}

	geometry := berth.WithMeshCells(cfg.MeshCells)
	if cfg.Kernel == config.KernelManifold {
		k, err := manifold.New()
		if err != nil {
			return nil, err
		}
		geometry = berth.WithKernel(k)
	}

	factory := func() (*berth.Berth, error) {
		lib := construction.Defaults()
		if catalog != nil {
			if _, err := construction.LoadCatalog(lib, catalog); err != nil {
				return nil, err
			}
		}
		return berth.New(
			berth.WithGridSide(cfg.GridSide),
			geometry,
			berth.WithLibrary(lib),
		), nil
	}

	return &App{
		engine: engine.NewEngine(
			engine.WithTimeout(cfg.EvalTimeout()),
			engine.WithBerthFactory(factory),
		),
		warnings: warnings,
	}, nil
}

// Evaluate takes Lisp source and returns mesh data + errors.
func (a *App) Evaluate(source string) EvalResult {
	result := EvalResult{
		Meshes:   []MeshData{},
		Errors:   []EvalErrorData{},
		Warnings: append([]EvalErrorData{}, a.warnings...),
	}

	// Step 1: Evaluate the Lisp source into a construction.
	b, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		log.Printf("Evaluate fatal error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}

	// Step 2: Convert eval errors to the result format.
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return result
	}

	// Step 3: Tessellate the construction, one mesh per group.
	meshes, err := tessellate.Tessellate(b)
	if err != nil {
		log.Printf("Tessellate error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{
			Message: "tessellation failed: " + err.Error(),
		})
		return result
	}

	// Step 4: Convert kernel meshes to MeshData. The ground base goes last.
	triangles := 0
	for _, m := range meshes {
		triangles += m.TriangleCount()
	}
	if base := b.Base(); !base.IsEmpty() {
		meshes = append(meshes, base)
	}
	for i, m := range meshes {
		result.Meshes = append(result.Meshes, MeshData{
			Vertices: m.Vertices,
			Normals:  m.Normals,
			Indices:  m.Indices,
			Name:     m.Name,
			Color:    colorPalette[i%len(colorPalette)],
		})
	}

	result.Summary = summarize(b, triangles)
	return result
}

func summarize(b *berth.Berth, triangles int) Summary {
	s := Summary{
		Elements:  b.Core().Len(),
		Groups:    len(tessellate.Groups(b.Core())),
		Triangles: triangles,
	}
	if box := b.BoundingBox(); !box.IsEmpty() {
		s.BBox = [6]int{box.Min.X, box.Min.Y, box.Min.Z, box.Max.X, box.Max.Y, box.Max.Z}
	}
	return s
}
