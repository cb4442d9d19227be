// Package crft bundles two embeddable engines behind one module: a
// deterministic mesh-sectioning kernel (pkg/kernel and friends) and a
// frame-graph image pipeline (pkg/vision). The pkg/capi package exposes
// both as a flat, C-shaped boundary for non-Go hosts; this root package
// is the convenience surface for Go callers.
package crft

import (
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/crft3d/crft/pkg/kernel"
	"github.com/crft3d/crft/pkg/kernel/cartesian"
	"github.com/crft3d/crft/pkg/slicer"
	"github.com/crft3d/crft/pkg/vision"
	"github.com/crft3d/crft/pkg/vision/config"
)

// Section intersects a mesh with a cutting plane and returns the
// section loops, using the default pure-Go sectioner.
func Section(m *kernel.Mesh, p kernel.Plane) ([]kernel.Loop, error) {
	return cartesian.New().Section(m, p)
}

// Slice cuts a mesh into evenly spaced layers along dir.
func Slice(m *kernel.Mesh, dir v3.Vec, spacing float64) ([]slicer.Layer, error) {
	return slicer.New(cartesian.New()).Slice(m, dir, spacing)
}

// NewPipeline evaluates graph config text and builds a ready-to-start
// session. Config problems are folded into a single error; hosts that
// need per-line diagnostics use pkg/vision/config directly.
func NewPipeline(configText string, opts ...vision.Option) (*vision.Graph, error) {
	stages, evalErrs, err := config.NewEngine().Evaluate(configText)
	if err != nil {
		return nil, err
	}
	if len(evalErrs) > 0 {
		return nil, fmt.Errorf("config: %s", evalErrs[0].Error())
	}
	return vision.NewGraph(stages, opts...), nil
}
