// Package kernel defines the abstract geometry kernel interfaces.
// Implementations (cartesian, cgal) provide planar sectioning behind the
// Sectioner interface; the sdfx backend provides solid modeling behind
// Modeler. The kernel abstraction allows swapping backends without
// changing the rest of the system.
package kernel

// Solid is an opaque handle to a modeler solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Modeler is the solid-modeling interface. It exists to produce input
// meshes for the sectioner; a host that already has meshes never needs it.
type Modeler interface {
	// Primitives
	Box(x, y, z float64) Solid
	Cylinder(height, radius float64, segments int) Solid

	// Boolean operations
	Union(a, b Solid) Solid
	Difference(a, b Solid) Solid
	Intersection(a, b Solid) Solid

	// Transforms
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in degrees

	// Mesh output
	ToMesh(s Solid) (*Mesh, error)
}

// Sectioner computes the planar section of a triangle mesh: the ordered
// set of polylines formed by intersecting the plane with the mesh surface.
//
// Implementations must be deterministic: two calls with bit-identical
// mesh and plane produce bit-identical loops, in the same order. A plane
// that misses the mesh yields an empty slice and a nil error; that is a
// normal outcome, not a failure.
//
// Triangle indices are trusted. An index outside [0, VertexCount) is a
// caller contract violation and the result is undefined.
type Sectioner interface {
	Section(m *Mesh, p Plane) ([]Loop, error)
}
