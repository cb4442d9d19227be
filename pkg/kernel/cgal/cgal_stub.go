//go:build !cgal

// Package cgal provides a CGo-based sectioner binding to the CGAL
// Polygon_mesh_slicer. When the "cgal" build tag is not set, this stub
// package is compiled instead, returning an error from New().
//
// Build with: go build -tags=cgal
package cgal

import (
	"errors"

	"github.com/crft3d/crft/pkg/kernel"
)

// New returns an error indicating the CGAL backend is not available.
// Build with -tags=cgal to enable.
func New() (kernel.Sectioner, error) {
	return nil, errors.New("cgal sectioner not available: build with -tags=cgal")
}
