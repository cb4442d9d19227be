package vision

import (
	"errors"
	"fmt"
	"testing"
)

// failStage always fails, for exercising pipeline error wrapping.
type failStage struct{}

func (failStage) Name() string         { return "fail" }
func (failStage) Process(*Frame) error { return errors.New("boom") }

// recordStage logs the order it was called in.
type recordStage struct {
	id    int
	calls *[]int
}

func (s recordStage) Name() string { return fmt.Sprintf("record-%d", s.id) }
func (s recordStage) Process(*Frame) error {
	*s.calls = append(*s.calls, s.id)
	return nil
}

func testFrame() *Frame {
	return &Frame{
		Pixels: make([]byte, 16),
		Width:  4, Height: 4, Stride: 4,
		Format: FormatGray8,
	}
}

func TestGraphLifecycle(t *testing.T) {
	g := NewGraph(nil)
	if g.State() != StateCreated {
		t.Fatalf("initial state = %s, want created", g.State())
	}

	if err := g.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if g.State() != StateRunning {
		t.Fatalf("state = %s, want running", g.State())
	}
	if err := g.Start(); !errors.Is(err, ErrRunning) {
		t.Errorf("second Start = %v, want ErrRunning", err)
	}

	if err := g.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if g.State() != StateStopped {
		t.Fatalf("state = %s, want stopped", g.State())
	}
	if err := g.Stop(); !errors.Is(err, ErrNotRunning) {
		t.Errorf("second Stop = %v, want ErrNotRunning", err)
	}

	// Stopped sessions restart.
	if err := g.Start(); err != nil {
		t.Errorf("restart failed: %v", err)
	}
}

func TestProcessRequiresRunning(t *testing.T) {
	g := NewGraph(nil)
	if err := g.Process(testFrame()); !errors.Is(err, ErrNotRunning) {
		t.Errorf("Process before Start = %v, want ErrNotRunning", err)
	}

	if err := g.Start(); err != nil {
		t.Fatal(err)
	}
	if err := g.Stop(); err != nil {
		t.Fatal(err)
	}
	if err := g.Process(testFrame()); !errors.Is(err, ErrNotRunning) {
		t.Errorf("Process after Stop = %v, want ErrNotRunning", err)
	}
}

func TestProcessStageOrder(t *testing.T) {
	var calls []int
	g := NewGraph([]Stage{
		recordStage{1, &calls},
		recordStage{2, &calls},
		recordStage{3, &calls},
	})
	if err := g.Start(); err != nil {
		t.Fatal(err)
	}
	if err := g.Process(testFrame()); err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	want := []int{1, 2, 3}
	if len(calls) != len(want) {
		t.Fatalf("calls = %v, want %v", calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Fatalf("calls = %v, want %v", calls, want)
		}
	}
}

func TestProcessStageFailure(t *testing.T) {
	var calls []int
	g := NewGraph([]Stage{
		recordStage{1, &calls},
		failStage{},
		recordStage{2, &calls},
	})
	if err := g.Start(); err != nil {
		t.Fatal(err)
	}

	err := g.Process(testFrame())
	if err == nil {
		t.Fatal("expected a stage error")
	}
	// The error names the failing stage; later stages never run.
	if got := err.Error(); got != "stage fail: boom" {
		t.Errorf("error = %q, want %q", got, "stage fail: boom")
	}
	if len(calls) != 1 || calls[0] != 1 {
		t.Errorf("calls = %v, want [1]", calls)
	}
}

func TestProcessInvalidFrame(t *testing.T) {
	g := NewGraph(nil)
	if err := g.Start(); err != nil {
		t.Fatal(err)
	}
	f := testFrame()
	f.Format = FormatUnknown
	if err := g.Process(f); !errors.Is(err, ErrBadFrame) {
		t.Errorf("Process = %v, want ErrBadFrame", err)
	}
}

func TestProcessPipeline(t *testing.T) {
	// grayscale then threshold over an RGB ramp: output is binary.
	g := NewGraph([]Stage{NewGrayscale(), NewThreshold(128)})
	if err := g.Start(); err != nil {
		t.Fatal(err)
	}

	f := &Frame{
		Pixels: []byte{
			0, 0, 0, 255, 255, 255,
			40, 40, 40, 220, 220, 220,
		},
		Width: 2, Height: 2, Stride: 6,
		Format: FormatRGB24,
	}
	if err := g.Process(f); err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	want := []byte{0, 255, 0, 255}
	for i, v := range want {
		if f.Pixels[i] != v {
			t.Errorf("pixel %d = %d, want %d", i, f.Pixels[i], v)
		}
	}
}

func TestStageCount(t *testing.T) {
	g := NewGraph([]Stage{NewGrayscale(), NewSobel()})
	if got := g.StageCount(); got != 2 {
		t.Errorf("StageCount = %d, want 2", got)
	}
}
