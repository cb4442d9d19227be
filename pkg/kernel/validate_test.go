package kernel

import (
	"math"
	"testing"
)

func validQuad() *Mesh {
	return &Mesh{
		Vertices: []float64{0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0},
		Indices:  []int32{0, 1, 2, 0, 2, 3},
	}
}

func hasCode(codes []string, want string) bool {
	for _, c := range codes {
		if c == want {
			return true
		}
	}
	return false
}

func errorCodes(errs []ValidationError) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Code
	}
	return out
}

func warningCodes(ws []ValidationWarning) []string {
	out := make([]string, len(ws))
	for i, w := range ws {
		out[i] = w.Code
	}
	return out
}

func TestValidateMeshClean(t *testing.T) {
	errs, warnings := ValidateMesh(validQuad())
	if len(errs) != 0 {
		t.Errorf("unexpected errors: %v", errs)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
}

func TestValidateMeshNil(t *testing.T) {
	errs, warnings := ValidateMesh(nil)
	if errs != nil || warnings != nil {
		t.Errorf("nil mesh produced %v %v", errs, warnings)
	}
}

func TestValidateMeshErrors(t *testing.T) {
	tests := []struct {
		name string
		mod  func(m *Mesh)
		code string
	}{
		{
			name: "ragged vertex buffer",
			mod:  func(m *Mesh) { m.Vertices = m.Vertices[:len(m.Vertices)-1] },
			code: "BAD_VERTEX_BUFFER",
		},
		{
			name: "ragged index buffer",
			mod:  func(m *Mesh) { m.Indices = m.Indices[:len(m.Indices)-1] },
			code: "BAD_INDEX_BUFFER",
		},
		{
			name: "index out of range",
			mod:  func(m *Mesh) { m.Indices[0] = 99 },
			code: "INDEX_RANGE",
		},
		{
			name: "negative index",
			mod:  func(m *Mesh) { m.Indices[0] = -1 },
			code: "INDEX_RANGE",
		},
		{
			name: "NaN coordinate",
			mod:  func(m *Mesh) { m.Vertices[4] = math.NaN() },
			code: "NONFINITE_COORDINATE",
		},
		{
			name: "infinite coordinate",
			mod:  func(m *Mesh) { m.Vertices[0] = math.Inf(1) },
			code: "NONFINITE_COORDINATE",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := validQuad()
			tt.mod(m)
			errs, _ := ValidateMesh(m)
			if !hasCode(errorCodes(errs), tt.code) {
				t.Errorf("errors %v do not include %s", errs, tt.code)
			}
		})
	}
}

func TestValidateMeshWarnings(t *testing.T) {
	tests := []struct {
		name string
		mod  func(m *Mesh)
		code string
	}{
		{
			name: "repeated index",
			mod:  func(m *Mesh) { m.Indices[1] = m.Indices[0] },
			code: "DEGENERATE_TRIANGLE",
		},
		{
			name: "collinear corners",
			mod: func(m *Mesh) {
				// Move vertex 2 onto the line through 0 and 1.
				m.Vertices[6], m.Vertices[7], m.Vertices[8] = 2, 0, 0
			},
			code: "ZERO_AREA_TRIANGLE",
		},
		{
			name: "unreferenced vertex",
			mod: func(m *Mesh) {
				m.Vertices = append(m.Vertices, 5, 5, 5)
			},
			code: "UNREFERENCED_VERTEX",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := validQuad()
			tt.mod(m)
			errs, warnings := ValidateMesh(m)
			if len(errs) != 0 {
				t.Fatalf("unexpected errors: %v", errs)
			}
			if !hasCode(warningCodes(warnings), tt.code) {
				t.Errorf("warnings %v do not include %s", warnings, tt.code)
			}
		})
	}
}

func TestValidationErrorString(t *testing.T) {
	e := ValidationError{Code: "INDEX_RANGE", Message: "index 9 out of range [0, 4)", Triangle: 1}
	want := "INDEX_RANGE: index 9 out of range [0, 4) (triangle 1)"
	if got := e.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	e.Triangle = -1
	if got := e.Error(); got != "INDEX_RANGE: index 9 out of range [0, 4)" {
		t.Errorf("Error() = %q", got)
	}
}
