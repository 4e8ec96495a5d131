//go:build !manifold

// Package manifold binds the Manifold library as an alternative geometry
// kernel. Without the "manifold" build tag this stub is compiled instead and
// New reports that the kernel is unavailable.
//
// Build with: go build -tags=manifold
package manifold

import "github.com/chazu/berth/pkg/kernel"

// New returns ErrUnavailable.
func New() (kernel.Kernel, error) {
	return nil, ErrUnavailable
}
