package slicer

import (
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/crft3d/crft/pkg/kernel"
	"github.com/crft3d/crft/pkg/kernel/cartesian"
)

func unitCube() *kernel.Mesh {
	return &kernel.Mesh{
		Vertices: []float64{
			0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0,
			0, 0, 1, 1, 0, 1, 1, 1, 1, 0, 1, 1,
		},
		Indices: []int32{
			0, 2, 1, 0, 3, 2,
			4, 5, 6, 4, 6, 7,
			0, 1, 5, 0, 5, 4,
			1, 2, 6, 1, 6, 5,
			2, 3, 7, 2, 7, 6,
			3, 0, 4, 3, 4, 7,
		},
	}
}

var zAxis = v3.Vec{Z: 1}

func TestSliceCube(t *testing.T) {
	s := New(cartesian.New())
	layers, err := s.Slice(unitCube(), zAxis, 0.25)
	if err != nil {
		t.Fatalf("Slice failed: %v", err)
	}

	// Offsets 0, 0.25, 0.5, 0.75, 1 all intersect the cube.
	if len(layers) != 5 {
		t.Fatalf("layer count = %d, want 5", len(layers))
	}
	for i, l := range layers {
		want := float64(i) * 0.25
		if l.Offset != want {
			t.Errorf("layer %d offset = %v, want %v", i, l.Offset, want)
		}
		if len(l.Loops) != 1 {
			t.Errorf("layer %d has %d loops, want 1", i, len(l.Loops))
			continue
		}
		if got := l.Loops[0].PointCount(); got != 4 {
			t.Errorf("layer %d loop has %d points, want 4", i, got)
		}
	}
}

func TestSliceMiss(t *testing.T) {
	// A spacing wider than the mesh extent but aligned past it: planes
	// below and above only.
	s := New(cartesian.New())
	m := unitCube()

	layers, err := s.SliceAt(m, zAxis, []float64{-1, 2})
	if err != nil {
		t.Fatalf("SliceAt failed: %v", err)
	}
	if len(layers) != 2 {
		t.Fatalf("layer count = %d, want 2", len(layers))
	}
	for i, l := range layers {
		if len(l.Loops) != 0 {
			t.Errorf("layer %d has %d loops, want 0", i, len(l.Loops))
		}
	}
}

func TestSliceEmptyMesh(t *testing.T) {
	s := New(cartesian.New())
	layers, err := s.Slice(&kernel.Mesh{}, zAxis, 0.5)
	if err != nil {
		t.Fatalf("Slice failed: %v", err)
	}
	if layers != nil {
		t.Errorf("empty mesh produced %d layers", len(layers))
	}
}

func TestSliceBadArgs(t *testing.T) {
	s := New(cartesian.New())
	if _, err := s.Slice(unitCube(), zAxis, 0); err == nil {
		t.Error("expected an error for zero spacing")
	}
	if _, err := s.Slice(unitCube(), v3.Vec{}, 0.5); err == nil {
		t.Error("expected an error for a zero direction")
	}
	if _, err := s.SliceAt(unitCube(), v3.Vec{}, []float64{0.5}); err == nil {
		t.Error("expected an error for a zero direction")
	}
}

func TestSliceDeterminism(t *testing.T) {
	s := New(cartesian.New())
	a, err := s.Slice(unitCube(), zAxis, 0.2)
	if err != nil {
		t.Fatal(err)
	}
	b, err := s.Slice(unitCube(), zAxis, 0.2)
	if err != nil {
		t.Fatal(err)
	}
	if len(a) != len(b) {
		t.Fatalf("layer counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Offset != b[i].Offset || len(a[i].Loops) != len(b[i].Loops) {
			t.Fatalf("layer %d differs", i)
		}
		for j := range a[i].Loops {
			la, lb := a[i].Loops[j], b[i].Loops[j]
			if la.Closed != lb.Closed || len(la.Points) != len(lb.Points) {
				t.Fatalf("layer %d loop %d differs", i, j)
			}
			for k := range la.Points {
				if la.Points[k] != lb.Points[k] {
					t.Fatalf("layer %d loop %d point %d differs", i, j, k)
				}
			}
		}
	}
}
