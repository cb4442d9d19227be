// Package slicer cuts a mesh into a stack of parallel section layers.
// It walks a range of evenly spaced cutting planes and collects the
// section loops of each one, which is the shape of work a toolpath or
// preview generator sits on top of.
package slicer

import (
	"fmt"
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/crft3d/crft/pkg/kernel"
)

// Layer is the section of one cutting plane. Offset is the plane's
// signed distance from the origin along the slicing direction.
type Layer struct {
	Offset float64
	Loops  []kernel.Loop
}

// Slicer produces layer stacks using a Sectioner. The zero value is not
// usable; construct with New.
type Slicer struct {
	sec kernel.Sectioner
}

// New returns a Slicer that cuts with sec.
func New(sec kernel.Sectioner) *Slicer {
	return &Slicer{sec: sec}
}

// Slice sections the mesh with planes perpendicular to dir, spaced
// spacing apart, starting at the first multiple of spacing within the
// mesh's extent along dir. Planes that miss the mesh produce no layer.
// An empty mesh yields no layers.
//
// The layer stack inherits the Sectioner's determinism: identical
// inputs produce identical stacks.
func (s *Slicer) Slice(m *kernel.Mesh, dir v3.Vec, spacing float64) ([]Layer, error) {
	if spacing <= 0 {
		return nil, fmt.Errorf("slicer: spacing %v must be positive", spacing)
	}
	if dir.Length() == 0 {
		return nil, fmt.Errorf("slicer: slicing direction is the zero vector")
	}
	if m == nil || m.IsEmpty() {
		return nil, nil
	}

	n := dir.Normalize()

	// Extent of the mesh along the slicing direction.
	dmin := math.Inf(1)
	dmax := math.Inf(-1)
	for i := 0; i < m.VertexCount(); i++ {
		d := n.Dot(m.Vertex(int32(i)))
		dmin = math.Min(dmin, d)
		dmax = math.Max(dmax, d)
	}

	start := math.Ceil(dmin/spacing) * spacing

	var layers []Layer
	for i := 0; ; i++ {
		d := start + float64(i)*spacing
		if d > dmax {
			break
		}
		loops, err := s.sec.Section(m, kernel.Plane{
			Origin: n.MulScalar(d),
			Normal: n,
		})
		if err != nil {
			return nil, fmt.Errorf("slicer: layer at offset %v: %w", d, err)
		}
		if len(loops) == 0 {
			continue
		}
		layers = append(layers, Layer{Offset: d, Loops: loops})
	}
	return layers, nil
}

// SliceAt sections the mesh at explicit offsets along dir, in the order
// given. Unlike Slice it reports a layer for every offset, empty or not.
func (s *Slicer) SliceAt(m *kernel.Mesh, dir v3.Vec, offsets []float64) ([]Layer, error) {
	if dir.Length() == 0 {
		return nil, fmt.Errorf("slicer: slicing direction is the zero vector")
	}
	n := dir.Normalize()

	layers := make([]Layer, 0, len(offsets))
	for _, d := range offsets {
		loops, err := s.sec.Section(m, kernel.Plane{
			Origin: n.MulScalar(d),
			Normal: n,
		})
		if err != nil {
			return nil, fmt.Errorf("slicer: layer at offset %v: %w", d, err)
		}
		layers = append(layers, Layer{Offset: d, Loops: loops})
	}
	return layers, nil
}
