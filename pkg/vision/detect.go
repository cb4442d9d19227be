package vision

import (
	"fmt"

	pigo "github.com/esimov/pigo/core"
)

// defaultMinScore filters out low-confidence cascade hits.
const defaultMinScore = 5.0

// FaceDetector runs the pigo cascade classifier over the luminance plane
// and appends hits to the frame's Detections. Pixels are not modified.
type FaceDetector struct {
	classifier *pigo.Pigo
	minSize    int
	minScore   float32
}

// NewFaceDetector unpacks a binary cascade (the pigo facefinder format)
// into a detector. The cascade bytes come from the graph config; loading
// them is the caller's problem.
func NewFaceDetector(cascade []byte) (*FaceDetector, error) {
	classifier, err := pigo.NewPigo().Unpack(cascade)
	if err != nil {
		return nil, fmt.Errorf("detect-faces: unpack cascade: %w", err)
	}
	return &FaceDetector{
		classifier: classifier,
		minSize:    20,
		minScore:   defaultMinScore,
	}, nil
}

func (*FaceDetector) Name() string { return "detect-faces" }

func (d *FaceDetector) Process(f *Frame) error {
	gray := requireGray(f)

	maxSize := f.Width
	if f.Height < maxSize {
		maxSize = f.Height
	}
	if maxSize < d.minSize {
		return nil
	}

	params := pigo.CascadeParams{
		MinSize:     d.minSize,
		MaxSize:     maxSize,
		ShiftFactor: 0.1,
		ScaleFactor: 1.1,
		ImageParams: pigo.ImageParams{
			Pixels: gray,
			Rows:   f.Height,
			Cols:   f.Width,
			Dim:    f.Width,
		},
	}

	dets := d.classifier.RunCascade(params, 0.0)
	dets = d.classifier.ClusterDetections(dets, 0.2)

	for _, det := range dets {
		if det.Q < d.minScore {
			continue
		}
		f.Detections = append(f.Detections, Detection{
			Row:   det.Row,
			Col:   det.Col,
			Size:  det.Scale,
			Score: det.Q,
		})
	}
	return nil
}
