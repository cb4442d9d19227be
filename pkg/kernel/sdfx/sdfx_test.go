package sdfx

import (
	"math"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/crft3d/crft/pkg/kernel"
	"github.com/crft3d/crft/pkg/kernel/cartesian"
)

func TestBox(t *testing.T) {
	k := New()
	box := k.Box(100, 50, 25)
	mesh, err := k.ToMesh(box)
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	if mesh.IsEmpty() {
		t.Fatal("mesh is empty")
	}
	if mesh.VertexCount() == 0 {
		t.Fatal("expected non-zero vertex count")
	}
	if mesh.TriangleCount() == 0 {
		t.Fatal("expected non-zero triangle count")
	}
	if len(mesh.Indices)%3 != 0 {
		t.Fatalf("indices length %d not a multiple of 3", len(mesh.Indices))
	}
	// Welding must not leave dangling indices.
	nv := int32(mesh.VertexCount())
	for i, idx := range mesh.Indices {
		if idx < 0 || idx >= nv {
			t.Fatalf("index %d out of range at %d (vertex count %d)", idx, i, nv)
		}
	}
	t.Logf("box mesh: %d vertices, %d triangles", mesh.VertexCount(), mesh.TriangleCount())
}

func TestVertexWelding(t *testing.T) {
	k := New()
	mesh, err := k.ToMesh(k.Box(10, 10, 10))
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	// A welded closed surface has roughly half as many vertices as
	// index entries; triangle soup would have exactly as many.
	if mesh.VertexCount() >= len(mesh.Indices) {
		t.Errorf("welding ineffective: %d vertices for %d index entries",
			mesh.VertexCount(), len(mesh.Indices))
	}
}

func TestCylinder(t *testing.T) {
	k := New()
	cyl := k.Cylinder(50, 10, 32)
	mesh, err := k.ToMesh(cyl)
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	if mesh.IsEmpty() {
		t.Fatal("mesh is empty")
	}
	t.Logf("cylinder triangle count: %d", mesh.TriangleCount())
}

func TestDifference(t *testing.T) {
	k := New()

	box := k.Box(100, 100, 100)
	boxMesh, err := k.ToMesh(box)
	if err != nil {
		t.Fatalf("ToMesh(box) failed: %v", err)
	}

	cyl := k.Cylinder(120, 20, 32)
	diff := k.Difference(box, k.Translate(cyl, 50, 50, 50))
	diffMesh, err := k.ToMesh(diff)
	if err != nil {
		t.Fatalf("ToMesh(diff) failed: %v", err)
	}
	if diffMesh.IsEmpty() {
		t.Fatal("difference mesh is empty")
	}
	t.Logf("box triangles: %d, difference triangles: %d",
		boxMesh.TriangleCount(), diffMesh.TriangleCount())
}

func TestTranslateBoundingBox(t *testing.T) {
	k := New()
	box := k.Box(10, 10, 10)
	translated := k.Translate(box, 100, 200, 300)

	min, max := translated.BoundingBox()

	// Box(10,10,10) has its min corner at the origin; translating by
	// (100,200,300) moves the bounds to (100,200,300)..(110,210,310).
	const tol = 0.5
	expectMin := [3]float64{100, 200, 300}
	expectMax := [3]float64{110, 210, 310}

	for i := 0; i < 3; i++ {
		if math.Abs(min[i]-expectMin[i]) > tol {
			t.Errorf("min[%d] = %f, expected ~%f", i, min[i], expectMin[i])
		}
		if math.Abs(max[i]-expectMax[i]) > tol {
			t.Errorf("max[%d] = %f, expected ~%f", i, max[i], expectMax[i])
		}
	}
}

func TestRotate(t *testing.T) {
	k := New()
	box := k.Box(100, 10, 10)

	// A long box along X rotated 90 degrees around Z should extend
	// along Y instead.
	rotated := k.Rotate(box, 0, 0, 90)
	min, max := rotated.BoundingBox()

	xExtent := max[0] - min[0]
	yExtent := max[1] - min[1]

	const tol = 1.0
	if math.Abs(xExtent-10) > tol {
		t.Errorf("rotated X extent = %f, expected ~10", xExtent)
	}
	if math.Abs(yExtent-100) > tol {
		t.Errorf("rotated Y extent = %f, expected ~100", yExtent)
	}
}

func TestSectionModeledBox(t *testing.T) {
	if testing.Short() {
		t.Skip("marching cubes is slow in -short mode")
	}
	k := New()
	mesh, err := k.ToMesh(k.Box(10, 10, 10))
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}

	s := cartesian.New()
	loops, err := s.Section(mesh, kernel.Plane{
		Origin: v3.Vec{X: 5, Y: 5, Z: 5},
		Normal: v3.Vec{Z: 1},
	})
	if err != nil {
		t.Fatalf("Section failed: %v", err)
	}
	if len(loops) == 0 {
		t.Fatal("expected at least one loop through the box center")
	}
	closed := 0
	for _, l := range loops {
		if l.Closed {
			closed++
		}
	}
	if closed == 0 {
		t.Error("expected a closed loop from a watertight surface")
	}
	t.Logf("section of meshed box: %d loops (%d closed)", len(loops), closed)
}
