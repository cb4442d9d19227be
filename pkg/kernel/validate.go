package kernel

import (
	"fmt"
	"math"
)

// ValidationError represents a mesh defect that makes results
// meaningless: sectioning a mesh that fails validation is undefined.
type ValidationError struct {
	Code     string
	Message  string
	Triangle int // index of the offending triangle, or -1
}

func (e ValidationError) Error() string {
	if e.Triangle >= 0 {
		return fmt.Sprintf("%s: %s (triangle %d)", e.Code, e.Message, e.Triangle)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// ValidationWarning represents a mesh oddity that sectioning tolerates
// but that usually indicates an upstream bug.
type ValidationWarning struct {
	Code     string
	Message  string
	Triangle int // index of the offending triangle, or -1
}

// ValidateMesh checks a mesh's buffers for structural defects. Errors
// are blocking; warnings are advisory. An empty mesh is valid.
func ValidateMesh(m *Mesh) ([]ValidationError, []ValidationWarning) {
	var errs []ValidationError
	var warnings []ValidationWarning

	if m == nil {
		return nil, nil
	}

	if len(m.Vertices)%3 != 0 {
		errs = append(errs, ValidationError{
			Code:     "BAD_VERTEX_BUFFER",
			Message:  fmt.Sprintf("vertex buffer holds %d values, not a multiple of 3", len(m.Vertices)),
			Triangle: -1,
		})
	}
	if len(m.Indices)%3 != 0 {
		errs = append(errs, ValidationError{
			Code:     "BAD_INDEX_BUFFER",
			Message:  fmt.Sprintf("index buffer holds %d values, not a multiple of 3", len(m.Indices)),
			Triangle: -1,
		})
	}
	if len(errs) > 0 {
		return errs, warnings
	}

	for i, v := range m.Vertices {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			errs = append(errs, ValidationError{
				Code:     "NONFINITE_COORDINATE",
				Message:  fmt.Sprintf("vertex %d has a non-finite coordinate", i/3),
				Triangle: -1,
			})
		}
	}

	nv := int32(m.VertexCount())
	referenced := make([]bool, nv)
	for t := 0; t < m.TriangleCount(); t++ {
		i0, i1, i2 := m.Triangle(t)

		rangeOK := true
		for _, idx := range [3]int32{i0, i1, i2} {
			if idx < 0 || idx >= nv {
				errs = append(errs, ValidationError{
					Code:     "INDEX_RANGE",
					Message:  fmt.Sprintf("index %d out of range [0, %d)", idx, nv),
					Triangle: t,
				})
				rangeOK = false
			} else {
				referenced[idx] = true
			}
		}
		if !rangeOK {
			continue
		}

		if i0 == i1 || i1 == i2 || i0 == i2 {
			warnings = append(warnings, ValidationWarning{
				Code:     "DEGENERATE_TRIANGLE",
				Message:  "triangle repeats a vertex index",
				Triangle: t,
			})
			continue
		}

		// Distinct indices but exactly collinear corners still span no area.
		a, b, c := m.Vertex(i0), m.Vertex(i1), m.Vertex(i2)
		cr := b.Sub(a).Cross(c.Sub(a))
		if cr.X == 0 && cr.Y == 0 && cr.Z == 0 {
			warnings = append(warnings, ValidationWarning{
				Code:     "ZERO_AREA_TRIANGLE",
				Message:  "triangle corners are collinear",
				Triangle: t,
			})
		}
	}

	unreferenced := 0
	for _, r := range referenced {
		if !r {
			unreferenced++
		}
	}
	if unreferenced > 0 && m.TriangleCount() > 0 {
		warnings = append(warnings, ValidationWarning{
			Code:     "UNREFERENCED_VERTEX",
			Message:  fmt.Sprintf("%d vertices are referenced by no triangle", unreferenced),
			Triangle: -1,
		})
	}

	return errs, warnings
}
