package capi

import (
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/crft3d/crft/pkg/kernel"
	"github.com/crft3d/crft/pkg/kernel/cartesian"
	"github.com/crft3d/crft/pkg/section"
)

// sectioner is stateless and shared by all calls.
var sectioner = cartesian.New()

// alloc is the allocator paired with ReleaseBuffer. Buffers returned by
// SectionMesh come from it and go back to it.
var alloc = section.NewPoolAllocator()

// SectionMesh intersects a triangle mesh with a plane and returns the
// section as two flat buffers: points (3 doubles per point) and offsets
// (loopCount+1 entries; loop i owns points[3*offsets[i]:3*offsets[i+1]]).
//
// verts holds 3*vertCount doubles; tris holds 3*triCount indices, each
// in [0, vertCount). Indices are trusted, not validated; the plane
// normal must be non-zero. The call is deterministic: bit-identical
// input produces bit-identical output.
//
// Ownership of both buffers transfers to the caller, who must pass each
// to ReleaseBuffer exactly once. When the plane misses the mesh the
// call succeeds with zero counts and nil buffers; nothing needs
// releasing (releasing nil is harmless). On failure ok is false and
// both buffers are nil — the caller must not release anything.
func SectionMesh(
	verts []float64, vertCount int,
	tris []int32, triCount int,
	planeOrigin, planeNormal [3]float64,
) (points []float64, pointCount int, offsets []int32, loopCount int, ok bool) {
	if planeNormal == [3]float64{} {
		return nil, 0, nil, 0, false
	}

	m := &kernel.Mesh{
		Vertices: verts[:3*vertCount],
		Indices:  tris[:3*triCount],
	}
	p := kernel.Plane{
		Origin: v3.Vec{X: planeOrigin[0], Y: planeOrigin[1], Z: planeOrigin[2]},
		Normal: v3.Vec{X: planeNormal[0], Y: planeNormal[1], Z: planeNormal[2]},
	}

	r, err := section.Section(sectioner, m, p, alloc)
	if err != nil {
		return nil, 0, nil, 0, false
	}

	// Ownership of the result buffers moves to the caller; the Result
	// wrapper is discarded without release.
	return r.Points(), r.PointCount(), r.Offsets(), r.LoopCount(), true
}

// ReleaseBuffer returns a buffer obtained from SectionMesh to the
// allocator. It accepts either output slot ([]float64 points or []int32
// offsets). nil is a no-op. Passing a buffer that did not come from
// SectionMesh, or passing the same buffer twice, violates the contract;
// neither is detected.
func ReleaseBuffer(buf any) {
	switch b := buf.(type) {
	case nil:
	case []float64:
		alloc.FreeFloats(b)
	case []int32:
		alloc.FreeOffsets(b)
	}
}
