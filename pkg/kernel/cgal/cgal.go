//go:build cgal

// Package cgal provides a CGo-based sectioner binding to CGAL's
// Polygon_mesh_slicer. CGAL's filtered-exact predicates give the same
// determinism guarantee the pure-Go backend provides, at higher cost per
// call but with robust handling of near-degenerate input.
//
// This package requires CGAL headers and GMP to be installed.
// Build with: go build -tags=cgal
package cgal

/*
#cgo CXXFLAGS: -std=c++17
#cgo LDFLAGS: -lgmp -lstdc++

#include <stdlib.h>
#include "section.h"
*/
import "C"

import (
	"errors"
	"unsafe"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/crft3d/crft/pkg/kernel"
)

// Compile-time interface check.
var _ kernel.Sectioner = (*Sectioner)(nil)

// Sectioner implements kernel.Sectioner through the CGAL slicer.
type Sectioner struct{}

// New returns a new CGAL-backed Sectioner.
func New() (kernel.Sectioner, error) {
	return &Sectioner{}, nil
}

// Section builds a CGAL surface mesh from the flat arrays, runs the
// slicer, and converts the flat C result back into loops. CGAL reports
// closed polylines with the first point repeated at the end; the repeat
// is dropped and the loop marked closed.
func (s *Sectioner) Section(m *kernel.Mesh, p kernel.Plane) ([]kernel.Loop, error) {
	if m == nil || m.IsEmpty() || m.TriangleCount() == 0 {
		return nil, nil
	}

	origin := [3]C.double{C.double(p.Origin.X), C.double(p.Origin.Y), C.double(p.Origin.Z)}
	normal := [3]C.double{C.double(p.Normal.X), C.double(p.Normal.Y), C.double(p.Normal.Z)}

	var out C.crft_section_result
	rc := C.crft_section_mesh(
		(*C.double)(unsafe.Pointer(&m.Vertices[0])), C.int32_t(m.VertexCount()),
		(*C.int32_t)(unsafe.Pointer(&m.Indices[0])), C.int32_t(m.TriangleCount()),
		&origin[0], &normal[0], &out,
	)
	if rc != 0 {
		return nil, errors.New("cgal: section failed")
	}
	defer C.crft_section_free(&out)

	loopCount := int(out.loop_count)
	if loopCount == 0 {
		return nil, nil
	}

	pointCount := int(out.point_count)
	points := unsafe.Slice((*float64)(unsafe.Pointer(out.points)), pointCount*3)
	offsets := unsafe.Slice((*int32)(unsafe.Pointer(out.offsets)), loopCount+1)

	loops := make([]kernel.Loop, 0, loopCount)
	for i := 0; i < loopCount; i++ {
		n := int(offsets[i+1] - offsets[i])
		pts := make([]v3.Vec, n)
		base := int(offsets[i]) * 3
		for j := 0; j < n; j++ {
			pts[j] = v3.Vec{
				X: points[base+j*3],
				Y: points[base+j*3+1],
				Z: points[base+j*3+2],
			}
		}
		closed := n > 2 && pts[0] == pts[n-1]
		if closed {
			pts = pts[:n-1]
		}
		loops = append(loops, kernel.Loop{Points: pts, Closed: closed})
	}
	return loops, nil
}
