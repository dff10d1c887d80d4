package ui

import (
	"testing"

	"github.com/PlanLab/plancad/pkg/corner"
	"github.com/PlanLab/plancad/pkg/geom"
	"github.com/PlanLab/plancad/pkg/plan"
)

func outlineFixture(t *testing.T, walls []plan.Wall) (map[string]plan.Wall, []plan.Wall) {
	t.Helper()
	walls = plan.RebuildWallAdjacency(walls, plan.CoarseTolerance)
	byID := make(map[string]plan.Wall, len(walls))
	for _, w := range walls {
		byID[w.ID] = w
	}
	return byID, walls
}

func TestWallOutlineFreeEndsAreSquare(t *testing.T) {
	byID, walls := outlineFixture(t, []plan.Wall{
		plan.NewWall(geom.Point{X: 0, Y: 0}, geom.Point{X: 1000, Y: 0}, 100),
	})

	outline := WallOutline(walls[0], byID, plan.CoarseTolerance, corner.DefaultPolicy())
	if len(outline) != 4 {
		t.Fatalf("outline has %d points, want 4", len(outline))
	}
	want := []geom.Point{
		{X: 0, Y: 50},
		{X: 1000, Y: 50},
		{X: 1000, Y: -50},
		{X: 0, Y: -50},
	}
	for i, p := range want {
		if !outline[i].Near(p, 1e-9) {
			t.Errorf("outline[%d] = (%v, %v), want (%v, %v)", i, outline[i].X, outline[i].Y, p.X, p.Y)
		}
	}
}

func TestWallOutlineMitersAtRightAngleCorner(t *testing.T) {
	byID, walls := outlineFixture(t, []plan.Wall{
		plan.NewWall(geom.Point{X: 0, Y: 0}, geom.Point{X: 1000, Y: 0}, 100),
		plan.NewWall(geom.Point{X: 1000, Y: 0}, geom.Point{X: 1000, Y: 1000}, 100),
	})

	outline := WallOutline(walls[0], byID, plan.CoarseTolerance, corner.DefaultPolicy())
	if len(outline) != 4 {
		t.Fatalf("outline has %d points, want 4", len(outline))
	}
	// Start end stays square, the shared corner miters to the offset-line
	// intersections.
	cases := []struct {
		idx  int
		want geom.Point
	}{
		{0, geom.Point{X: 0, Y: 50}},
		{1, geom.Point{X: 950, Y: 50}},
		{2, geom.Point{X: 1050, Y: -50}},
		{3, geom.Point{X: 0, Y: -50}},
	}
	for _, tc := range cases {
		if !outline[tc.idx].Near(tc.want, 1e-6) {
			t.Errorf("outline[%d] = (%v, %v), want (%v, %v)",
				tc.idx, outline[tc.idx].X, outline[tc.idx].Y, tc.want.X, tc.want.Y)
		}
	}
}

func TestWallOutlineSharedCornersAgree(t *testing.T) {
	byID, walls := outlineFixture(t, []plan.Wall{
		plan.NewWall(geom.Point{X: 0, Y: 0}, geom.Point{X: 1000, Y: 0}, 100),
		plan.NewWall(geom.Point{X: 1000, Y: 0}, geom.Point{X: 1000, Y: 1000}, 100),
	})

	a := WallOutline(walls[0], byID, plan.CoarseTolerance, corner.DefaultPolicy())
	b := WallOutline(walls[1], byID, plan.CoarseTolerance, corner.DefaultPolicy())

	// Both walls resolve the same joint, so the two corner cuts must be the
	// same pair of points; otherwise the rendered bodies would gap.
	match := func(p geom.Point) bool {
		for _, q := range b {
			if q.Near(p, 1e-6) {
				return true
			}
		}
		return false
	}
	if !match(a[1]) || !match(a[2]) {
		t.Fatalf("corner points (%v, %v) and (%v, %v) missing from neighbor outline %v",
			a[1].X, a[1].Y, a[2].X, a[2].Y, b)
	}
}

func TestWallOutlineThreeWayJunctionStaysSquare(t *testing.T) {
	byID, walls := outlineFixture(t, []plan.Wall{
		plan.NewWall(geom.Point{X: 0, Y: 0}, geom.Point{X: 1000, Y: 0}, 100),
		plan.NewWall(geom.Point{X: 1000, Y: 0}, geom.Point{X: 1000, Y: 1000}, 100),
		plan.NewWall(geom.Point{X: 1000, Y: 0}, geom.Point{X: 2000, Y: 0}, 100),
	})

	outline := WallOutline(walls[0], byID, plan.CoarseTolerance, corner.DefaultPolicy())
	// Three walls at the node: no pairwise joint applies, the end is cut
	// square at the node.
	if !outline[1].Near(geom.Point{X: 1000, Y: 50}, 1e-9) || !outline[2].Near(geom.Point{X: 1000, Y: -50}, 1e-9) {
		t.Fatalf("junction end = (%v, %v), (%v, %v), want square cut at x=1000",
			outline[1].X, outline[1].Y, outline[2].X, outline[2].Y)
	}
}

func TestRoomColorStableByType(t *testing.T) {
	kitchen := plan.Room{Type: plan.RoomTypeKitchen}
	if RoomColor(kitchen, 0) != RoomColor(kitchen, 3) {
		t.Fatal("typed room color depends on index")
	}
	plainA := plan.Room{}
	plainB := plan.Room{}
	if RoomColor(plainA, 0) == RoomColor(plainB, 1) {
		t.Fatal("adjacent plain rooms share a color")
	}
}
