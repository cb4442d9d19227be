package capi

import (
	"errors"
	"sync"

	"github.com/crft3d/crft/pkg/vision"
	"github.com/crft3d/crft/pkg/vision/config"
)

// Handle identifies a live graph session. Zero is never a valid handle;
// CreateGraph returns 0 on failure.
type Handle uint64

// Status codes returned by the vision surface. Zero means success.
const (
	StatusOK             = 0
	StatusInvalidHandle  = 1
	StatusNotRunning     = 2
	StatusAlreadyRunning = 3
	StatusBadFrame       = 4
	StatusStageFailed    = 5
)

var (
	sessionMu  sync.Mutex
	sessions   = make(map[Handle]*vision.Graph)
	lastHandle Handle
)

// engine is shared by all CreateGraph calls; each evaluation runs in a
// fresh sandbox regardless.
var engine = config.NewEngine()

func lookup(h Handle) (*vision.Graph, bool) {
	sessionMu.Lock()
	defer sessionMu.Unlock()
	g, ok := sessions[h]
	return g, ok
}

// CreateGraph evaluates config text, builds a graph session and
// registers it in the session table. It returns the session handle, or
// 0 if the config fails to evaluate. Handles are never reused within a
// process.
func CreateGraph(configText string) Handle {
	stages, evalErrs, err := engine.Evaluate(configText)
	if err != nil || len(evalErrs) > 0 {
		return 0
	}

	g := vision.NewGraph(stages)

	sessionMu.Lock()
	defer sessionMu.Unlock()
	lastHandle++
	sessions[lastHandle] = g
	return lastHandle
}

// DestroyGraph removes a session from the table. The handle is dead
// afterwards; every later call with it reports StatusInvalidHandle.
// Destroying an unknown or already-destroyed handle is a no-op.
func DestroyGraph(h Handle) {
	sessionMu.Lock()
	defer sessionMu.Unlock()
	delete(sessions, h)
}

// StartGraph moves a session into the running state.
func StartGraph(h Handle) int {
	g, ok := lookup(h)
	if !ok {
		return StatusInvalidHandle
	}
	if err := g.Start(); err != nil {
		return StatusAlreadyRunning
	}
	return StatusOK
}

// StopGraph moves a running session into the stopped state.
func StopGraph(h Handle) int {
	g, ok := lookup(h)
	if !ok {
		return StatusInvalidHandle
	}
	if err := g.Stop(); err != nil {
		return StatusNotRunning
	}
	return StatusOK
}

// ProcessFrame pushes one frame through a running session and writes
// the transformed pixels back into the caller's buffer. Stages that
// convert to luminance repack the plane as tightly packed Gray8, so on
// return the result may occupy only the first width*height bytes of the
// buffer; bytes past the result are left untouched. format takes the
// vision.Format codes.
func ProcessFrame(h Handle, pixels []byte, width, height, stride int, format int32) int {
	g, ok := lookup(h)
	if !ok {
		return StatusInvalidHandle
	}

	f := &vision.Frame{
		Pixels: pixels,
		Width:  width,
		Height: height,
		Stride: stride,
		Format: vision.Format(format),
	}
	if err := g.Process(f); err != nil {
		switch {
		case errors.Is(err, vision.ErrNotRunning):
			return StatusNotRunning
		case errors.Is(err, vision.ErrBadFrame):
			return StatusBadFrame
		default:
			return StatusStageFailed
		}
	}

	// Stages that repack the plane replace f.Pixels with a fresh slice;
	// the caller only sees its own buffer. A repacked plane never grows,
	// so it always fits.
	if len(f.Pixels) <= len(pixels) {
		copy(pixels, f.Pixels)
	}
	return StatusOK
}
