// Package capi is the flat boundary surface of the library: plain
// functions, flat buffers, opaque handles and status codes, shaped for
// hosts that bind a C-style calling convention rather than Go types.
//
// Two independent surfaces live here. The geometry surface
// (SectionMesh, ReleaseBuffer) is stateless: every call is an
// independent transformation with an explicit buffer-ownership
// handoff. The vision surface (CreateGraph through ProcessFrame) keeps
// exactly one piece of state, a table of live graph sessions indexed by
// opaque handle.
//
// Nothing in this package logs, retries or recovers; failures surface
// only as booleans, zero handles and status codes. Policy belongs to
// the caller.
package capi
