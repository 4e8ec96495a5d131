// Package config loads the berth tool configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds tool settings. Zero fields in a file keep their defaults.
type Config struct {
	// GridSide is the horizontal grid extent, a power of two.
	GridSide int `yaml:"grid_side"`
	// Catalog is an optional YAML catalog of extra templates and objects.
	// A relative path is resolved against the config file's directory.
	Catalog string `yaml:"catalog,omitempty"`
	// Kernel selects the geometry kernel for smooth primitives.
	Kernel string `yaml:"kernel"`
	// MeshCells is the marching cubes resolution of the sdfx kernel.
	MeshCells int `yaml:"mesh_cells"`
	// EvalTimeoutMS bounds script evaluation.
	EvalTimeoutMS int `yaml:"eval_timeout_ms"`
}

// Geometry kernels.
const (
	KernelSdfx     = "sdfx"
	KernelManifold = "manifold"
)

// Default returns the built-in settings.
func Default() Config {
	return Config{
		GridSide:      256,
		Kernel:        KernelSdfx,
		MeshCells:     24,
		EvalTimeoutMS: 5000,
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("config %s: %w", filepath.Base(path), err)
	}
	cfg.Normalize()
	if cfg.Catalog != "" && !filepath.IsAbs(cfg.Catalog) {
		cfg.Catalog = filepath.Join(filepath.Dir(path), cfg.Catalog)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", filepath.Base(path), err)
	}
	return cfg, nil
}

// Normalize fills unset fields with defaults.
func (c *Config) Normalize() {
	d := Default()
	if c.GridSide == 0 {
		c.GridSide = d.GridSide
	}
	if c.MeshCells == 0 {
		c.MeshCells = d.MeshCells
	}
	if c.EvalTimeoutMS == 0 {
		c.EvalTimeoutMS = d.EvalTimeoutMS
	}
	if c.Kernel == "" {
		c.Kernel = d.Kernel
	}
	c.Kernel = strings.ToLower(strings.TrimSpace(c.Kernel))
	c.Catalog = strings.TrimSpace(c.Catalog)
}

// Validate reports every invalid setting.
func (c Config) Validate() error {
	var errs []error
	if c.GridSide <= 0 || c.GridSide&(c.GridSide-1) != 0 {
		errs = append(errs, fmt.Errorf("grid_side %d is not a power of two", c.GridSide))
	}
	if c.Kernel != KernelSdfx && c.Kernel != KernelManifold {
		errs = append(errs, fmt.Errorf("kernel %q is not one of %s, %s", c.Kernel, KernelSdfx, KernelManifold))
	}
	if c.MeshCells < 2 {
		errs = append(errs, fmt.Errorf("mesh_cells %d must be at least 2", c.MeshCells))
	}
	if c.EvalTimeoutMS < 0 {
		errs = append(errs, fmt.Errorf("eval_timeout_ms %d is negative", c.EvalTimeoutMS))
	}
	return errors.Join(errs...)
}

// EvalTimeout returns the script evaluation bound.
func (c Config) EvalTimeout() time.Duration {
	return time.Duration(c.EvalTimeoutMS) * time.Millisecond
}
