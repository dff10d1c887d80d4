package plan

import (
	"math"
	"sort"

	"github.com/PlanLab/plancad/pkg/geom"
	"github.com/google/uuid"
)

// minSplitParam rejects splits that resolve within 0.1% of either wall
// endpoint; such splits would leave a sliver segment behind.
const minSplitParam = 0.001

// SplitWallAtPoint splits w at the centerline point nearest to p. It returns
// the two resulting walls, the first keeping the original id. The second
// return is false when the wall is degenerate (zero length) or the split
// parameter resolves within 0.1% of either endpoint.
//
// Openings are redistributed by position: an opening whose center lies before
// the split lands on the first wall, otherwise on the second, with its
// normalized position rescaled to the new segment. An opening never spans the
// split point.
func SplitWallAtPoint(w Wall, p geom.Point) (Wall, Wall, bool) {
	if w.Length() == 0 {
		return Wall{}, Wall{}, false
	}
	t := w.Segment().ClosestParam(p)
	if t < minSplitParam || t > 1-minSplitParam {
		return Wall{}, Wall{}, false
	}
	split := w.PointAt(t)

	first := w.Clone()
	first.End = split
	first.Openings = nil
	first.ConnectedWallIDs = nil

	second := w.Clone()
	second.ID = uuid.NewString()
	second.Start = split
	second.Openings = nil
	second.ConnectedWallIDs = nil

	for _, op := range w.Openings {
		if op.Position < t {
			op.Position = op.Position / t
			first.Openings = append(first.Openings, op)
		} else {
			op.Position = (op.Position - t) / (1 - t)
			second.Openings = append(second.Openings, op)
		}
	}
	return first, second, true
}

// RebuildWallAdjacency recomputes ConnectedWallIDs for every wall from
// scratch: two walls are connected when any pair of their endpoints lies
// within tol. The result is a new slice; the input is left untouched. O(n²)
// endpoint comparison, fine at this editor's scale.
func RebuildWallAdjacency(walls []Wall, tol float64) []Wall {
	out := CloneWalls(walls)
	for i := range out {
		out[i].ConnectedWallIDs = nil
	}
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if !endpointsTouch(out[i], out[j], tol) {
				continue
			}
			out[i].ConnectedWallIDs = appendUnique(out[i].ConnectedWallIDs, out[j].ID)
			out[j].ConnectedWallIDs = appendUnique(out[j].ConnectedWallIDs, out[i].ID)
		}
	}
	for i := range out {
		sort.Strings(out[i].ConnectedWallIDs)
	}
	return out
}

func endpointsTouch(a, b Wall, tol float64) bool {
	for _, pa := range []geom.Point{a.Start, a.End} {
		for _, pb := range []geom.Point{b.Start, b.End} {
			if pa.Near(pb, tol) {
				return true
			}
		}
	}
	return false
}

// interval is a 1D span along the new edge's direction, in mm from the edge
// start.
type interval struct {
	lo float64
	hi float64
}

// AddEdgeWithWallReuse adds the edge start→end to the wall set without ever
// double-drawing: existing walls collinear with the edge are split at the
// overlap boundaries and reused, and brand-new segments (copying tmpl's
// thickness, height, type and layer) are created only for the sub-intervals
// no existing wall covers. Adjacency is rebuilt on the result.
//
// It returns the new wall set plus the ids of walls created for uncovered
// gaps. Degenerate edges (shorter than tol) return the input unchanged.
func AddEdgeWithWallReuse(walls []Wall, start, end geom.Point, tmpl Wall, tol float64) ([]Wall, []string) {
	// Snap the new edge onto existing endpoints so shared corners merge
	// into single vertices.
	start = snapToEndpoints(walls, start, tol)
	end = snapToEndpoints(walls, end, tol)

	length := start.Distance(end)
	if length <= tol {
		return walls, nil
	}
	edge := geom.Segment{A: start, B: end}
	dir := edge.Direction()

	out := CloneWalls(walls)

	// Project each collinear wall onto the edge axis and collect its
	// covered interval, splitting the wall wherever an overlap boundary
	// falls strictly inside it.
	var covered []interval
	for i := 0; i < len(out); i++ {
		w := out[i]
		if w.Length() == 0 || !geom.Collinear(edge, w.Segment(), tol) {
			continue
		}
		s0 := w.Start.Sub(start).Dot(dir)
		s1 := w.End.Sub(start).Dot(dir)
		lo, hi := math.Min(s0, s1), math.Max(s0, s1)
		clampedLo, clampedHi := math.Max(lo, 0), math.Min(hi, length)
		if clampedHi-clampedLo <= tol {
			continue // touches at most a point of the edge
		}

		// Split the wall at whichever overlap boundary lies strictly
		// inside it, so the retraced part becomes its own segment. The
		// piece still covering the overlap stays under iteration.
		overlapMid := start.Add(dir.Scale((clampedLo + clampedHi) / 2))
		for _, cut := range []float64{clampedLo, clampedHi} {
			w = out[i]
			s0 = w.Start.Sub(start).Dot(dir)
			s1 = w.End.Sub(start).Dot(dir)
			lo, hi = math.Min(s0, s1), math.Max(s0, s1)
			if cut-lo <= tol || hi-cut <= tol {
				continue
			}
			cutPoint := start.Add(dir.Scale(cut))
			first, second, ok := SplitWallAtPoint(out[i], cutPoint)
			if !ok {
				continue
			}
			if first.Segment().DistanceTo(overlapMid) <= second.Segment().DistanceTo(overlapMid) {
				out[i] = first
				out = append(out, second)
			} else {
				out[i] = second
				out = append(out, first)
			}
		}
		covered = append(covered, interval{lo: clampedLo, hi: clampedHi})
	}

	// Create new walls only for the gaps the merged coverage leaves.
	var addedIDs []string
	for _, gap := range gaps(covered, length, tol) {
		w := NewWall(start.Add(dir.Scale(gap.lo)), start.Add(dir.Scale(gap.hi)), tmpl.Thickness)
		w.Height = tmpl.Height
		if w.Height == 0 {
			w.Height = DefaultWallHeight
		}
		if tmpl.Type != "" {
			w.Type = tmpl.Type
		}
		if tmpl.Layer != "" {
			w.Layer = tmpl.Layer
		}
		w.InteriorSide = tmpl.InteriorSide
		out = append(out, w)
		addedIDs = append(addedIDs, w.ID)
	}

	return RebuildWallAdjacency(out, tol), addedIDs
}

// gaps merges the covered intervals and returns the uncovered spans of
// [0, length] longer than tol.
func gaps(covered []interval, length, tol float64) []interval {
	sort.Slice(covered, func(i, j int) bool { return covered[i].lo < covered[j].lo })

	var merged []interval
	for _, iv := range covered {
		if n := len(merged); n > 0 && iv.lo <= merged[n-1].hi+tol {
			if iv.hi > merged[n-1].hi {
				merged[n-1].hi = iv.hi
			}
			continue
		}
		merged = append(merged, iv)
	}

	var out []interval
	cursor := 0.0
	for _, iv := range merged {
		if iv.lo-cursor > tol {
			out = append(out, interval{lo: cursor, hi: iv.lo})
		}
		if iv.hi > cursor {
			cursor = iv.hi
		}
	}
	if length-cursor > tol {
		out = append(out, interval{lo: cursor, hi: length})
	}
	return out
}

func snapToEndpoints(walls []Wall, p geom.Point, tol float64) geom.Point {
	best := p
	bestDist := tol
	for _, w := range walls {
		for _, ep := range []geom.Point{w.Start, w.End} {
			if d := p.Distance(ep); d <= bestDist {
				best = ep
				bestDist = d
			}
		}
	}
	return best
}

// MoveVertex moves every wall endpoint within tol of from to the point to,
// returning a new wall set with adjacency rebuilt. Walls collapsed to zero
// length by the move are dropped.
func MoveVertex(walls []Wall, from, to geom.Point, tol float64) []Wall {
	out := make([]Wall, 0, len(walls))
	for _, w := range CloneWalls(walls) {
		if w.Start.Near(from, tol) {
			w.Start = to
		}
		if w.End.Near(from, tol) {
			w.End = to
		}
		if w.Length() > tol {
			out = append(out, w)
		}
	}
	return RebuildWallAdjacency(out, tol)
}

// DeleteWalls removes the identified walls and rebuilds adjacency.
func DeleteWalls(walls []Wall, ids []string, tol float64) []Wall {
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	out := make([]Wall, 0, len(walls))
	for _, w := range walls {
		if _, gone := drop[w.ID]; !gone {
			out = append(out, w.Clone())
		}
	}
	return RebuildWallAdjacency(out, tol)
}
