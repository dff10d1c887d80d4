package detect

import (
	"sort"

	"github.com/PlanLab/plancad/pkg/geom"
	"github.com/PlanLab/plancad/pkg/plan"
)

// Just to make the traversal code readable.
type vertexIndex int
type edgeIndex int

const noEdge = edgeIndex(-1)

// vertexRec is a merged graph node. Vertices, like edges, live in flat
// slices and reference each other by index; the planar graph is cyclic and
// index arenas avoid reference cycles entirely.
type vertexRec struct {
	pos      geom.Point
	outgoing []edgeIndex // sorted by angle, counter-clockwise
}

// halfEdge is one direction of an undirected sub-segment. Twins are stored
// adjacently: edge 2k and 2k+1 are each other's twin.
type halfEdge struct {
	from   vertexIndex
	to     vertexIndex
	wallID string
	angle  float64 // direction angle at from, radians
}

func (e halfEdge) twin(i edgeIndex) edgeIndex {
	return i ^ 1
}

// graph is the half-edge planar graph built from a wall snapshot.
type graph struct {
	verts []vertexRec
	edges []halfEdge
}

// buildGraph constructs the planar graph: every pairwise wall intersection
// and endpoint-on-segment incidence becomes a split point, each resulting
// sub-segment becomes a twin pair of half-edges, and endpoints within tol
// merge into shared vertices. The stored wall list is never mutated; this is
// graph construction, not a committed edit.
func buildGraph(walls []plan.Wall, tol float64) *graph {
	g := &graph{}

	type subseg struct {
		a, b   geom.Point
		wallID string
	}
	var segs []subseg

	for i, w := range walls {
		if w.Length() <= tol {
			continue
		}
		seg := w.Segment()
		params := []float64{0, 1}

		for j, other := range walls {
			if i == j || other.Length() <= tol {
				continue
			}
			if _, t, _, ok := geom.SegmentIntersection(seg, other.Segment()); ok {
				params = append(params, t)
			}
			// Collinear touches have no transversal intersection;
			// endpoint-on-segment incidences catch them.
			for _, ep := range []geom.Point{other.Start, other.End} {
				if seg.DistanceTo(ep) <= tol {
					params = append(params, seg.ClosestParam(ep))
				}
			}
		}

		sort.Float64s(params)
		minStep := tol / w.Length()
		prev := params[0]
		for _, t := range params[1:] {
			if t-prev < minStep {
				continue
			}
			segs = append(segs, subseg{a: seg.PointAt(prev), b: seg.PointAt(t), wallID: w.ID})
			prev = t
		}
	}

	// Merge sub-segment endpoints into vertices and emit twin pairs,
	// skipping duplicate coverage of the same vertex pair.
	type vpair struct{ lo, hi vertexIndex }
	seen := make(map[vpair]struct{})
	for _, s := range segs {
		va := g.vertexAt(s.a, tol)
		vb := g.vertexAt(s.b, tol)
		if va == vb {
			continue
		}
		key := vpair{lo: va, hi: vb}
		if va > vb {
			key = vpair{lo: vb, hi: va}
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		g.addEdgePair(va, vb, s.wallID)
	}

	for vi := range g.verts {
		v := &g.verts[vi]
		sort.Slice(v.outgoing, func(a, b int) bool {
			return g.edges[v.outgoing[a]].angle < g.edges[v.outgoing[b]].angle
		})
	}
	return g
}

func (g *graph) vertexAt(p geom.Point, tol float64) vertexIndex {
	for i := range g.verts {
		if g.verts[i].pos.Near(p, tol) {
			return vertexIndex(i)
		}
	}
	g.verts = append(g.verts, vertexRec{pos: p})
	return vertexIndex(len(g.verts) - 1)
}

func (g *graph) addEdgePair(a, b vertexIndex, wallID string) {
	pa, pb := g.verts[a].pos, g.verts[b].pos
	fwd := halfEdge{from: a, to: b, wallID: wallID, angle: pb.Sub(pa).Angle()}
	rev := halfEdge{from: b, to: a, wallID: wallID, angle: pa.Sub(pb).Angle()}

	fi := edgeIndex(len(g.edges))
	g.edges = append(g.edges, fwd, rev)
	g.verts[a].outgoing = append(g.verts[a].outgoing, fi)
	g.verts[b].outgoing = append(g.verts[b].outgoing, fi+1)
}

// nextAroundFace returns the half-edge that continues a face walk after e:
// arriving at e.to, take the outgoing edge next clockwise from e's reverse.
// Returns noEdge when the arrival vertex has no outgoing edges, which means
// the boundary is malformed.
func (g *graph) nextAroundFace(ei edgeIndex) edgeIndex {
	e := g.edges[ei]
	twin := e.twin(ei)
	out := g.verts[e.to].outgoing
	if len(out) == 0 {
		return noEdge
	}
	// Position of the twin in the CCW-sorted order; its predecessor is the
	// next edge clockwise.
	pos := -1
	for i, cand := range out {
		if cand == twin {
			pos = i
			break
		}
	}
	if pos == -1 {
		return noEdge
	}
	return out[(pos-1+len(out))%len(out)]
}

// faceLoop walks one face starting at the given half-edge. It returns the
// edge loop, or false for malformed boundaries: a walk that revisits an edge
// before closing or runs out of outgoing edges. Rooms only ever come from
// clean closed loops.
func (g *graph) faceLoop(start edgeIndex) ([]edgeIndex, bool) {
	var loop []edgeIndex
	inLoop := make(map[edgeIndex]struct{})
	cur := start
	for {
		if _, again := inLoop[cur]; again {
			return nil, false
		}
		loop = append(loop, cur)
		inLoop[cur] = struct{}{}

		next := g.nextAroundFace(cur)
		if next == noEdge {
			return nil, false
		}
		if next == start {
			return loop, true
		}
		cur = next
		if len(loop) > len(g.edges) {
			return nil, false
		}
	}
}

// ring returns the polygon traced by a face loop.
func (g *graph) ring(loop []edgeIndex) []geom.Point {
	pts := make([]geom.Point, len(loop))
	for i, ei := range loop {
		pts[i] = g.verts[g.edges[ei].from].pos
	}
	return pts
}

// distinctWalls returns the unique wall ids contributing to a loop, sorted.
func (g *graph) distinctWalls(loop []edgeIndex) []string {
	set := make(map[string]struct{})
	for _, ei := range loop {
		set[g.edges[ei].wallID] = struct{}{}
	}
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
