// Package section marshals planar-section results into the flat
// two-buffer layout shared with hosts that cannot consume nested
// containers: one coordinate buffer and one run-length offsets buffer.
//
// The encoding: for a result of L loops, offsets has L+1 entries with
// offsets[0] == 0; loop i owns points[3*offsets[i] : 3*offsets[i+1]];
// offsets[L]*3 == len(points). A host walks loops with nothing but the
// two buffers and the two counts.
//
// Buffers are allocated in a strict two-pass, count-then-fill order:
// sizes are known before the single allocation of each buffer, so no
// buffer ever grows or moves after allocation. Ownership of both buffers
// transfers to the caller on success; Release returns them to the paired
// allocator exactly once.
package section

import (
	"fmt"

	"github.com/crft3d/crft/pkg/kernel"
)

// Result owns the two flat buffers of a marshaled section. The zero
// value (and a released Result) represents the empty sentinel: no loops,
// no points, nil buffers.
type Result struct {
	points  []float64
	offsets []int32
	alloc   Allocator
}

// Points returns the flat coordinate buffer (3 entries per point).
// The buffer is nil for an empty result.
func (r *Result) Points() []float64 {
	if r == nil {
		return nil
	}
	return r.points
}

// Offsets returns the loop-offset buffer (LoopCount()+1 entries, or nil
// for an empty result).
func (r *Result) Offsets() []int32 {
	if r == nil {
		return nil
	}
	return r.offsets
}

// LoopCount returns the number of loops.
func (r *Result) LoopCount() int {
	if r == nil || len(r.offsets) == 0 {
		return 0
	}
	return len(r.offsets) - 1
}

// PointCount returns the total number of points across all loops.
func (r *Result) PointCount() int {
	if r == nil {
		return 0
	}
	return len(r.points) / 3
}

// Loop returns the coordinate slice of loop i, a view into the points
// buffer. The view is invalidated by Release.
func (r *Result) Loop(i int) []float64 {
	return r.points[3*r.offsets[i] : 3*r.offsets[i+1]]
}

// Release returns both buffers to the allocator they came from. It is
// safe to call on a nil or empty result, and safe to call more than
// once: the internal references are nilled on the first call, so a
// second call finds nothing to free.
func (r *Result) Release() {
	if r == nil || r.alloc == nil {
		return
	}
	if r.points != nil {
		r.alloc.FreeFloats(r.points)
		r.points = nil
	}
	if r.offsets != nil {
		r.alloc.FreeOffsets(r.offsets)
		r.offsets = nil
	}
}

// Flatten marshals loops into a Result using buffers from alloc (the
// default pool allocator when alloc is nil).
//
// Zero loops is a success: the returned Result is the empty sentinel and
// needs no release (releasing it is still harmless). On allocation
// failure any partially allocated buffer is freed internally and an
// error is returned; there is nothing for the caller to release.
func Flatten(loops []kernel.Loop, alloc Allocator) (*Result, error) {
	if alloc == nil {
		alloc = defaultAlloc
	}
	if len(loops) == 0 {
		return &Result{alloc: alloc}, nil
	}

	// Pass one: count.
	total := 0
	for _, l := range loops {
		total += len(l.Points)
	}

	// Exactly one allocation per buffer, exactly sized.
	points, err := alloc.Floats(total * 3)
	if err != nil {
		return nil, fmt.Errorf("section: points buffer (%d entries): %w", total*3, err)
	}
	offsets, err := alloc.Offsets(len(loops) + 1)
	if err != nil {
		alloc.FreeFloats(points)
		return nil, fmt.Errorf("section: offsets buffer (%d entries): %w", len(loops)+1, err)
	}

	// Pass two: fill.
	offsets[0] = 0
	n := 0
	for i, l := range loops {
		for _, p := range l.Points {
			points[n] = p.X
			points[n+1] = p.Y
			points[n+2] = p.Z
			n += 3
		}
		offsets[i+1] = offsets[i] + int32(len(l.Points))
	}

	return &Result{points: points, offsets: offsets, alloc: alloc}, nil
}

// Section runs the kernel and marshals its loops in one step.
func Section(s kernel.Sectioner, m *kernel.Mesh, p kernel.Plane, alloc Allocator) (*Result, error) {
	loops, err := s.Section(m, p)
	if err != nil {
		return nil, fmt.Errorf("section: kernel: %w", err)
	}
	return Flatten(loops, alloc)
}
