// Command berth evaluates a construction script and writes the resulting
// hull meshes as JSON.
package main

import (
	"encoding/json"
	"flag"
	"io"
	"log"
	"os"

	"github.com/chazu/berth/pkg/config"
)

func main() {
	var (
		scriptPath = flag.String("script", "", "construction script to evaluate (- for stdin)")
		configPath = flag.String("config", "", "YAML config file (optional)")
		outPath    = flag.String("out", "", "write mesh JSON to this file (default stdout)")
	)
	flag.Parse()

	if *scriptPath == "" {
		log.Fatalf("berth: -script is required")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("berth: %v", err)
	}

	app, err := NewApp(cfg)
	if err != nil {
		log.Fatalf("berth: %v", err)
	}

	source, err := readScript(*scriptPath)
	if err != nil {
		log.Fatalf("berth: read script: %v", err)
	}

	result := app.Evaluate(string(source))
	for _, w := range result.Warnings {
		log.Printf("warning: %s", w.Message)
	}
	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			if e.Line > 0 {
				log.Printf("error (line %d): %s", e.Line, e.Message)
			} else {
				log.Printf("error: %s", e.Message)
			}
		}
		os.Exit(1)
	}

	s := result.Summary
	log.Printf("berth: %d elements in %d groups, bbox %v, %d hull triangles",
		s.Elements, s.Groups, s.BBox, s.Triangles)

	if err := writeResult(*outPath, result); err != nil {
		log.Fatalf("berth: write result: %v", err)
	}
}

// writeResult encodes result as indented JSON to path, or to stdout when
// path is empty.
func writeResult(path string, result EvalResult) (err error) {
	if path == "" {
		return encodeResult(os.Stdout, result)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return encodeResult(f, result)
}

func encodeResult(w io.Writer, result EvalResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func readScript(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}
