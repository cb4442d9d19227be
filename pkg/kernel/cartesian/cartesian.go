// Package cartesian implements the kernel.Sectioner interface with a
// pure-Go plane/mesh intersection over double-precision cartesian
// coordinates.
//
// Determinism is the load-bearing property here. Every intersection point
// is identified topologically (a mesh vertex lying on the plane, or a
// mesh edge crossing it) and its coordinates are computed exactly once,
// always interpolating from the lower vertex index toward the higher.
// Two triangles sharing an edge therefore agree bit-for-bit on the
// crossing point, which lets segments be chained by identity instead of
// by distance tolerance.
package cartesian

import (
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/crft3d/crft/pkg/kernel"
)

// Compile-time interface check.
var _ kernel.Sectioner = (*Sectioner)(nil)

// Sectioner computes planar sections of triangle meshes. The zero value
// is ready to use; it holds no state between calls and is safe for
// concurrent use.
type Sectioner struct{}

// New returns a new Sectioner.
func New() *Sectioner {
	return &Sectioner{}
}

// endpoint identifies an intersection point topologically. Either a mesh
// vertex lying exactly on the plane (onVertex), or the crossing of the
// undirected mesh edge (a,b) with a < b.
type endpoint struct {
	onVertex bool
	v        int32 // vertex index, when onVertex
	a, b     int32 // edge vertex indices, a < b, when !onVertex
}

func vertexEndpoint(v int32) endpoint {
	return endpoint{onVertex: true, v: v}
}

func edgeEndpoint(a, b int32) endpoint {
	if a > b {
		a, b = b, a
	}
	return endpoint{a: a, b: b}
}

// segment is one intersection segment contributed by a single triangle.
type segment struct {
	e0, e1 endpoint
}

// key returns the segment under a canonical endpoint order, for
// deduplication of segments produced twice (an on-plane edge is reported
// by both triangles sharing it).
func (s segment) key() segment {
	if less(s.e1, s.e0) {
		return segment{e0: s.e1, e1: s.e0}
	}
	return s
}

// less is an arbitrary total order on endpoints.
func less(x, y endpoint) bool {
	if x.onVertex != y.onVertex {
		return x.onVertex
	}
	if x.onVertex {
		return x.v < y.v
	}
	if x.a != y.a {
		return x.a < y.a
	}
	return x.b < y.b
}

// Section intersects the plane with the mesh surface and chains the
// resulting segments into loops. A miss yields (nil, nil).
func (s *Sectioner) Section(m *kernel.Mesh, p kernel.Plane) ([]kernel.Loop, error) {
	if m == nil || m.IsEmpty() || m.TriangleCount() == 0 {
		return nil, nil
	}

	// Signed distance of every vertex, computed once.
	nv := m.VertexCount()
	dist := make([]float64, nv)
	for i := 0; i < nv; i++ {
		dist[i] = p.SignedDistance(m.Vertex(int32(i)))
	}

	segs := collectSegments(m, dist)
	if len(segs) == 0 {
		return nil, nil
	}

	pts := newPointCache(m, dist)
	return chainLoops(segs, pts), nil
}

// collectSegments walks the triangles in index order and emits one
// segment per triangle crossed by the plane. Coplanar triangles and
// single-vertex touches contribute nothing.
func collectSegments(m *kernel.Mesh, dist []float64) []segment {
	var segs []segment
	seen := make(map[segment]bool)

	emit := func(e0, e1 endpoint) {
		if e0 == e1 {
			return
		}
		sg := segment{e0: e0, e1: e1}
		k := sg.key()
		if seen[k] {
			return
		}
		seen[k] = true
		segs = append(segs, sg)
	}

	nt := m.TriangleCount()
	for t := 0; t < nt; t++ {
		i0, i1, i2 := m.Triangle(t)
		d0, d1, d2 := dist[i0], dist[i1], dist[i2]

		zeros := 0
		if d0 == 0 {
			zeros++
		}
		if d1 == 0 {
			zeros++
		}
		if d2 == 0 {
			zeros++
		}

		switch zeros {
		case 3:
			// Coplanar triangle: a degenerate feature, ignored.
			continue

		case 2:
			// The on-plane edge is the section segment.
			switch {
			case d0 != 0:
				emit(vertexEndpoint(i1), vertexEndpoint(i2))
			case d1 != 0:
				emit(vertexEndpoint(i0), vertexEndpoint(i2))
			default:
				emit(vertexEndpoint(i0), vertexEndpoint(i1))
			}

		case 1:
			// One vertex on the plane. A segment exists only if the
			// opposite edge crosses; otherwise it is a point touch.
			var onV int32
			var oa, ob int32
			var da, db float64
			switch {
			case d0 == 0:
				onV, oa, ob, da, db = i0, i1, i2, d1, d2
			case d1 == 0:
				onV, oa, ob, da, db = i1, i0, i2, d0, d2
			default:
				onV, oa, ob, da, db = i2, i0, i1, d0, d1
			}
			if (da > 0) != (db > 0) {
				emit(vertexEndpoint(onV), edgeEndpoint(oa, ob))
			}

		default:
			// No vertex on the plane: either two edges cross or none.
			p0, p1, p2 := d0 > 0, d1 > 0, d2 > 0
			if p0 == p1 && p1 == p2 {
				continue
			}
			var ends []endpoint
			if p0 != p1 {
				ends = append(ends, edgeEndpoint(i0, i1))
			}
			if p1 != p2 {
				ends = append(ends, edgeEndpoint(i1, i2))
			}
			if p0 != p2 {
				ends = append(ends, edgeEndpoint(i0, i2))
			}
			emit(ends[0], ends[1])
		}
	}
	return segs
}

// pointCache materializes endpoint coordinates, each computed exactly once.
type pointCache struct {
	m     *kernel.Mesh
	dist  []float64
	cache map[endpoint]v3.Vec
}

func newPointCache(m *kernel.Mesh, dist []float64) *pointCache {
	return &pointCache{m: m, dist: dist, cache: make(map[endpoint]v3.Vec)}
}

func (pc *pointCache) point(e endpoint) v3.Vec {
	if p, ok := pc.cache[e]; ok {
		return p
	}
	var p v3.Vec
	if e.onVertex {
		p = pc.m.Vertex(e.v)
	} else {
		// Interpolate from the lower index toward the higher, always.
		va := pc.m.Vertex(e.a)
		vb := pc.m.Vertex(e.b)
		da := pc.dist[e.a]
		db := pc.dist[e.b]
		t := da / (da - db)
		p = va.Add(vb.Sub(va).MulScalar(t))
	}
	pc.cache[e] = p
	return p
}

// chainLoops connects segments end to end by endpoint identity. Chains
// that return to their starting endpoint become closed loops; the rest
// stay open (they end on a mesh boundary). Chains are started from the
// lowest-index unused segment so the output order is deterministic.
func chainLoops(segs []segment, pts *pointCache) []kernel.Loop {
	// Incidence: endpoint -> indices of segments touching it.
	incident := make(map[endpoint][]int)
	for i, sg := range segs {
		incident[sg.e0] = append(incident[sg.e0], i)
		incident[sg.e1] = append(incident[sg.e1], i)
	}

	used := make([]bool, len(segs))
	var loops []kernel.Loop

	// next returns the lowest-index unused segment at e, or -1.
	next := func(e endpoint) int {
		for _, i := range incident[e] {
			if !used[i] {
				return i
			}
		}
		return -1
	}

	for start := range segs {
		if used[start] {
			continue
		}
		used[start] = true
		chain := []endpoint{segs[start].e0, segs[start].e1}

		// Extend forward from the tail.
		closed := false
		for {
			tail := chain[len(chain)-1]
			if tail == chain[0] {
				closed = true
				break
			}
			i := next(tail)
			if i < 0 {
				break
			}
			used[i] = true
			chain = append(chain, other(segs[i], tail))
		}

		// Extend backward from the head for open chains.
		if !closed {
			for {
				head := chain[0]
				i := next(head)
				if i < 0 {
					break
				}
				used[i] = true
				chain = append([]endpoint{other(segs[i], head)}, chain...)
				if chain[0] == chain[len(chain)-1] {
					closed = true
					break
				}
			}
		}

		if closed {
			chain = chain[:len(chain)-1] // drop the repeated endpoint
		}

		points := make([]v3.Vec, len(chain))
		for i, e := range chain {
			points[i] = pts.point(e)
		}
		loops = append(loops, simplify(kernel.Loop{Points: points, Closed: closed}))
	}
	return loops
}

// other returns the endpoint of sg that is not e.
func other(sg segment, e endpoint) endpoint {
	if sg.e0 == e {
		return sg.e1
	}
	return sg.e0
}

// simplify removes interior points that are exactly collinear with their
// neighbors, such as a face-diagonal crossing that lands on the straight
// run between two face-edge crossings. The collinearity test is an exact
// zero cross product, never a tolerance, so simplification cannot perturb
// the determinism contract.
func simplify(l kernel.Loop) kernel.Loop {
	n := len(l.Points)
	if n < 3 {
		return l
	}

	keep := make([]v3.Vec, 0, n)
	collinear := func(a, b, c v3.Vec) bool {
		cr := b.Sub(a).Cross(c.Sub(b))
		return cr.X == 0 && cr.Y == 0 && cr.Z == 0
	}

	if l.Closed {
		for i := 0; i < n; i++ {
			prev := l.Points[(i+n-1)%n]
			cur := l.Points[i]
			nxt := l.Points[(i+1)%n]
			if !collinear(prev, cur, nxt) {
				keep = append(keep, cur)
			}
		}
		if len(keep) < 3 {
			return l
		}
	} else {
		keep = append(keep, l.Points[0])
		for i := 1; i < n-1; i++ {
			if !collinear(l.Points[i-1], l.Points[i], l.Points[i+1]) {
				keep = append(keep, l.Points[i])
			}
		}
		keep = append(keep, l.Points[n-1])
	}
	return kernel.Loop{Points: keep, Closed: l.Closed}
}
