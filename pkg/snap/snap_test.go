package snap

import (
	"math"
	"testing"

	"github.com/PlanLab/plancad/pkg/geom"
	"github.com/PlanLab/plancad/pkg/plan"
)

func gridOnlyConfig(spacing, threshold float64) *Config {
	return &Config{
		Threshold:   threshold,
		GridSpacing: spacing,
		SnapToGrid:  true,
	}
}

func TestGridSnapWithinThreshold(t *testing.T) {
	e := NewEngine(gridOnlyConfig(10, 10))

	res := e.Resolve(geom.Point{X: 14, Y: 3}, Request{})
	if !res.Snapped {
		t.Fatalf("expected a grid snap")
	}
	if res.Winner.Kind != KindGrid {
		t.Fatalf("winner kind = %s, want grid", res.Winner.Kind)
	}
	if !res.Point.Near(geom.Point{X: 10, Y: 0}, 1e-9) {
		t.Fatalf("snapped point = %+v, want (10,0)", res.Point)
	}
	if len(res.Guides) == 0 {
		t.Fatalf("accepted candidate must emit guides")
	}
}

func TestGridSnapBeyondThresholdReturnsRawPoint(t *testing.T) {
	e := NewEngine(gridOnlyConfig(100, 10))

	raw := geom.Point{X: 40, Y: 40}
	res := e.Resolve(raw, Request{})
	if res.Snapped {
		t.Fatalf("candidate beyond threshold must not snap: %+v", res.Winner)
	}
	if res.Point != raw {
		t.Fatalf("unsnapped point = %+v, want raw %+v", res.Point, raw)
	}
}

func TestBypassSkipsSnapping(t *testing.T) {
	e := NewEngine(gridOnlyConfig(10, 10))

	raw := geom.Point{X: 14, Y: 3}
	res := e.Resolve(raw, Request{Bypass: true})
	if res.Snapped || res.Point != raw {
		t.Fatalf("bypass must return the raw point, got %+v", res)
	}
}

func TestVertexOutranksGridAndSegment(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Threshold = 50
	cfg.GridSpacing = 10
	e := NewEngine(cfg)
	e.SetScene([]plan.Wall{
		plan.NewWall(geom.Point{X: 0, Y: 0}, geom.Point{X: 4000, Y: 0}, 150),
	})

	// Near the wall start: the merged vertex, the wall endpoint, the wall
	// segment and a grid point all compete.
	res := e.Resolve(geom.Point{X: 22, Y: 18}, Request{})
	if !res.Snapped || res.Winner.Kind != KindVertex {
		t.Fatalf("winner = %+v, want a vertex snap", res.Winner)
	}
	if !res.Point.Near(geom.Point{X: 0, Y: 0}, 1e-9) {
		t.Fatalf("snapped point = %+v, want the wall start", res.Point)
	}

	if len(res.Candidates) < 3 {
		t.Fatalf("expected competing candidates, got %d", len(res.Candidates))
	}
	for i := 1; i < len(res.Candidates); i++ {
		a, b := res.Candidates[i-1], res.Candidates[i]
		if a.Priority < b.Priority {
			t.Fatalf("candidates out of order: %s before %s", a.Kind, b.Kind)
		}
	}
}

func TestMidpointSnap(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Threshold = 60
	cfg.SnapToGrid = false
	e := NewEngine(cfg)
	e.SetScene([]plan.Wall{
		plan.NewWall(geom.Point{X: 0, Y: 0}, geom.Point{X: 2000, Y: 0}, 150),
	})

	res := e.Resolve(geom.Point{X: 1010, Y: 40}, Request{})
	if !res.Snapped || res.Winner.Kind != KindWallMidpoint {
		t.Fatalf("winner = %+v, want the wall midpoint", res.Winner)
	}
	if !res.Point.Near(geom.Point{X: 1000, Y: 0}, 1e-9) {
		t.Fatalf("snapped point = %+v, want (1000,0)", res.Point)
	}
}

func TestAngleSnapRoundsToIncrement(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Threshold = 300
	cfg.SnapToGrid = false
	e := NewEngine(cfg)

	// Drag from the origin at roughly 43°: the 45° increment should win.
	anchor := geom.Point{X: 0, Y: 0}
	raw := geom.FromAngle(43 * math.Pi / 180).Scale(1000)
	res := e.Resolve(raw, Request{Anchor: &anchor})
	if !res.Snapped || res.Winner.Kind != KindAngle {
		t.Fatalf("winner = %+v, want an angle snap", res.Winner)
	}
	want := geom.FromAngle(45 * math.Pi / 180).Scale(1000)
	if !res.Point.Near(want, 1e-6) {
		t.Fatalf("snapped point = %+v, want %+v", res.Point, want)
	}
	// Drag length is preserved.
	if math.Abs(res.Point.Distance(anchor)-1000) > 1e-6 {
		t.Fatalf("angle snap changed the drag length: %v", res.Point.Distance(anchor))
	}
}

func TestParallelSnapFollowsNearbyWall(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Threshold = 300
	cfg.SnapToGrid = false
	cfg.SnapToAngles = false
	cfg.SnapToVertices = false
	cfg.SnapToWallPoints = false
	cfg.SnapToWallSegments = false
	cfg.SnapPerpendicular = false
	e := NewEngine(cfg)

	// A reference wall at 30° near the drag.
	dir := geom.FromAngle(30 * math.Pi / 180)
	e.SetScene([]plan.Wall{
		plan.NewWall(geom.Point{X: 0, Y: 200}, geom.Point{X: 0, Y: 200}.Add(dir.Scale(3000)), 150),
	})

	anchor := geom.Point{X: 0, Y: 0}
	raw := geom.FromAngle(33 * math.Pi / 180).Scale(1000)
	res := e.Resolve(raw, Request{Anchor: &anchor})
	if !res.Snapped || res.Winner.Kind != KindParallel {
		t.Fatalf("winner = %+v, want a parallel snap", res.Winner)
	}
	want := dir.Scale(1000)
	if !res.Point.Near(want, 1e-6) {
		t.Fatalf("snapped point = %+v, want %+v", res.Point, want)
	}
	if len(res.Guides) != 1 || res.Guides[0].Kind != KindParallel {
		t.Fatalf("guides = %+v, want one parallel guide", res.Guides)
	}
}

func TestPerpendicularOutranksParallel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Threshold = 500
	cfg.SnapToGrid = false
	cfg.SnapToAngles = false
	cfg.SnapToVertices = false
	cfg.SnapToWallPoints = false
	cfg.SnapToWallSegments = false
	e := NewEngine(cfg)

	// A horizontal reference wall; a near-vertical drag should land on the
	// perpendicular, not the parallel half turn away.
	e.SetScene([]plan.Wall{
		plan.NewWall(geom.Point{X: -200, Y: 100}, geom.Point{X: 3000, Y: 100}, 150),
	})

	anchor := geom.Point{X: 0, Y: 0}
	raw := geom.FromAngle(87 * math.Pi / 180).Scale(1000)
	res := e.Resolve(raw, Request{Anchor: &anchor})
	if !res.Snapped || res.Winner.Kind != KindPerpendicular {
		t.Fatalf("winner = %+v, want a perpendicular snap", res.Winner)
	}
	want := geom.Point{X: 0, Y: 1000}
	if !res.Point.Near(want, 1e-6) {
		t.Fatalf("snapped point = %+v, want %+v", res.Point, want)
	}
}
