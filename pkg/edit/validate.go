package edit

import (
	"fmt"
	"math"

	"github.com/PlanLab/plancad/pkg/geom"
	"github.com/PlanLab/plancad/pkg/plan"
)

// Validate checks the post-conditions of a tentative edit. Violations block
// the commit; warnings are surfaced but do not. Hosts also run it over
// freshly loaded plans before trusting them.
func Validate(p *plan.Plan, cfg *Config) (violations, warnings []string) {
	wallIDs := make(map[string]struct{}, len(p.Walls))
	for _, w := range p.Walls {
		if w.Length() <= cfg.Tolerance {
			violations = append(violations, fmt.Sprintf("wall %s is degenerate (length %.1f mm)", w.ID, w.Length()))
		}
		wallIDs[w.ID] = struct{}{}
	}

	for _, r := range p.Rooms {
		if len(r.Vertices) < 3 {
			violations = append(violations, fmt.Sprintf("room %s has a broken polygon (%d vertices)", r.ID, len(r.Vertices)))
			continue
		}
		if geom.SignedArea(r.Vertices) <= 0 {
			violations = append(violations, fmt.Sprintf("room %s polygon is not counter-clockwise", r.ID))
		}
		for _, wid := range r.WallIDs {
			if _, ok := wallIDs[wid]; !ok {
				violations = append(violations, fmt.Sprintf("room %s references missing wall %s", r.ID, wid))
			}
		}
	}

	violations = append(violations, nestingViolations(p.Rooms)...)

	for _, r := range p.Rooms {
		bb := r.Bounds()
		if minDim := math.Min(bb.Width(), bb.Height()); minDim < cfg.MinRoomDimension {
			warnings = append(warnings, fmt.Sprintf("room %s is narrower than the %.0f mm guideline (%.0f mm)", r.ID, cfg.MinRoomDimension, minDim))
		} else if r.Area < cfg.MinRoomArea {
			warnings = append(warnings, fmt.Sprintf("room %s is smaller than the %.1f m² guideline", r.ID, cfg.MinRoomArea/1e6))
		}
	}
	return violations, warnings
}

// nestingViolations rejects partial overlap between room polygons: two rooms
// must be disjoint or cleanly nested. Mixed containment of one room's
// vertices in another means the tentative edit produced illegal topology.
func nestingViolations(rooms []plan.Room) []string {
	var out []string
	for i := range rooms {
		for j := i + 1; j < len(rooms); j++ {
			a, b := rooms[i], rooms[j]
			if !a.Bounds().Intersects(b.Bounds()) {
				continue
			}
			if partiallyInside(a.Vertices, b.Vertices) || partiallyInside(b.Vertices, a.Vertices) {
				out = append(out, fmt.Sprintf("rooms %s and %s overlap without nesting", a.ID, b.ID))
			}
		}
	}
	return out
}

// partiallyInside reports whether some but not all of pts lie strictly
// inside ring. Vertices shared with the ring's boundary are ignored;
// adjacent rooms legitimately share walls.
func partiallyInside(pts, ring []geom.Point) bool {
	const edgeTol = 1e-6
	inside, outside := 0, 0
	for _, p := range pts {
		if onRingBoundary(p, ring, edgeTol) {
			continue
		}
		if geom.ContainsPoint(ring, p) {
			inside++
		} else {
			outside++
		}
	}
	return inside > 0 && outside > 0
}

func onRingBoundary(p geom.Point, ring []geom.Point, tol float64) bool {
	n := len(ring)
	for i := 0; i < n; i++ {
		seg := geom.Segment{A: ring[i], B: ring[(i+1)%n]}
		if seg.DistanceTo(p) <= tol {
			return true
		}
	}
	return false
}
