package section

import (
	"sync"
)

// Allocator provides the buffers that section results are marshaled
// into. Allocation and release are paired: a buffer obtained from an
// allocator must be returned to the same allocator, exactly once.
// Handing a buffer to FreeFloats/FreeOffsets that did not come from the
// matching Floats/Offsets call is a contract violation, not a checked
// error.
//
// The interface exists so hosts can substitute their own allocation
// strategy (or an instrumented allocator in tests) without changing the
// marshaling code.
type Allocator interface {
	// Floats returns a coordinate buffer of exactly n entries.
	Floats(n int) ([]float64, error)
	// Offsets returns a loop-offset buffer of exactly n entries.
	Offsets(n int) ([]int32, error)
	// FreeFloats returns a coordinate buffer to the allocator. nil is a no-op.
	FreeFloats(buf []float64)
	// FreeOffsets returns an offset buffer to the allocator. nil is a no-op.
	FreeOffsets(buf []int32)
}

// poolAllocator recycles released buffers through sync.Pools. Buffers
// with insufficient capacity are reallocated; released buffers are kept
// for reuse at their full capacity.
type poolAllocator struct {
	floats  sync.Pool
	offsets sync.Pool
}

// NewPoolAllocator returns an Allocator backed by sync.Pool recycling.
func NewPoolAllocator() Allocator {
	return &poolAllocator{}
}

// defaultAlloc serves callers that do not bring their own allocator.
var defaultAlloc = NewPoolAllocator()

// DefaultAllocator returns the shared pool allocator.
func DefaultAllocator() Allocator {
	return defaultAlloc
}

func (a *poolAllocator) Floats(n int) ([]float64, error) {
	if v := a.floats.Get(); v != nil {
		buf := v.([]float64)
		if cap(buf) >= n {
			return buf[:n], nil
		}
	}
	return make([]float64, n), nil
}

func (a *poolAllocator) Offsets(n int) ([]int32, error) {
	if v := a.offsets.Get(); v != nil {
		buf := v.([]int32)
		if cap(buf) >= n {
			return buf[:n], nil
		}
	}
	return make([]int32, n), nil
}

func (a *poolAllocator) FreeFloats(buf []float64) {
	if buf == nil {
		return
	}
	a.floats.Put(buf[:0])
}

func (a *poolAllocator) FreeOffsets(buf []int32) {
	if buf == nil {
		return
	}
	a.offsets.Put(buf[:0])
}
