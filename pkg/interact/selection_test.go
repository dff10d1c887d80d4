package interact

import (
	"reflect"
	"testing"

	"github.com/PlanLab/plancad/pkg/detect"
	"github.com/PlanLab/plancad/pkg/geom"
	"github.com/PlanLab/plancad/pkg/plan"
)

func rectangleScene(t *testing.T, w, h float64) *Scene {
	t.Helper()
	walls := []plan.Wall{
		plan.NewWall(geom.Point{X: 0, Y: 0}, geom.Point{X: w, Y: 0}, 150),
		plan.NewWall(geom.Point{X: w, Y: 0}, geom.Point{X: w, Y: h}, 150),
		plan.NewWall(geom.Point{X: w, Y: h}, geom.Point{X: 0, Y: h}, 150),
		plan.NewWall(geom.Point{X: 0, Y: h}, geom.Point{X: 0, Y: 0}, 150),
	}
	walls = plan.RebuildWallAdjacency(walls, plan.CoarseTolerance)
	rooms := detect.DetectRooms(walls, nil)
	if len(rooms) != 1 {
		t.Fatalf("fixture expects one room, got %d", len(rooms))
	}
	return NewScene(walls, rooms, plan.CoarseTolerance)
}

func TestPropagateWallPullsInRoomAndVertices(t *testing.T) {
	sc := rectangleScene(t, 4000, 3000)

	sel := NewSelection()
	sel.Walls[sc.Walls[0].ID] = struct{}{}

	got := Propagate(sel, sc, DefaultPropagationRules())

	// One wall of a closed rectangle reaches the whole boundary through
	// vertex and room propagation.
	if len(got.Walls) != 4 {
		t.Fatalf("walls = %d, want all 4", len(got.Walls))
	}
	if len(got.Rooms) != 1 {
		t.Fatalf("rooms = %d, want 1", len(got.Rooms))
	}
	if len(got.Vertices) != 4 {
		t.Fatalf("vertices = %d, want 4", len(got.Vertices))
	}
	if got.Primary.Level != LevelVertex {
		t.Fatalf("primary = %+v, want a vertex", got.Primary)
	}
}

func TestPropagateIsIdempotent(t *testing.T) {
	sc := rectangleScene(t, 4000, 3000)

	sel := NewSelection()
	sel.Walls[sc.Walls[1].ID] = struct{}{}

	once := Propagate(sel, sc, DefaultPropagationRules())
	twice := Propagate(once, sc, DefaultPropagationRules())

	if !reflect.DeepEqual(once.SortedWalls(), twice.SortedWalls()) ||
		!reflect.DeepEqual(once.SortedVertices(), twice.SortedVertices()) ||
		!reflect.DeepEqual(once.SortedRooms(), twice.SortedRooms()) {
		t.Fatalf("propagation is not a fixed point:\nonce:  %v %v %v\ntwice: %v %v %v",
			once.SortedVertices(), once.SortedWalls(), once.SortedRooms(),
			twice.SortedVertices(), twice.SortedWalls(), twice.SortedRooms())
	}
	if once.Primary != twice.Primary {
		t.Fatalf("primary drifted: %+v vs %+v", once.Primary, twice.Primary)
	}
}

func TestPropagateRespectsDisabledDirections(t *testing.T) {
	sc := rectangleScene(t, 4000, 3000)

	sel := NewSelection()
	sel.Walls[sc.Walls[0].ID] = struct{}{}

	got := Propagate(sel, sc, PropagationRules{WallToVertices: true})

	if len(got.Walls) != 1 {
		t.Fatalf("walls = %d, want only the original", len(got.Walls))
	}
	if len(got.Vertices) != 2 {
		t.Fatalf("vertices = %d, want the wall's two endpoints", len(got.Vertices))
	}
	if len(got.Rooms) != 0 {
		t.Fatalf("rooms = %v, want none with room propagation off", got.SortedRooms())
	}
}

func TestHitTestPriority(t *testing.T) {
	sc := rectangleScene(t, 4000, 3000)

	// Near a corner: vertex beats the walls meeting there.
	hit := sc.HitTest(geom.Point{X: 30, Y: 20}, 80)
	if hit.Level != LevelVertex {
		t.Fatalf("corner hit = %+v, want a vertex", hit)
	}

	// On a wall away from its endpoints: the wall wins.
	hit = sc.HitTest(geom.Point{X: 2000, Y: 10}, 80)
	if hit.Level != LevelWall {
		t.Fatalf("edge hit = %+v, want a wall", hit)
	}

	// In open floor area: the containing room.
	hit = sc.HitTest(geom.Point{X: 2000, Y: 1500}, 80)
	if hit.Level != LevelRoom {
		t.Fatalf("interior hit = %+v, want a room", hit)
	}

	// Outside everything: nothing.
	if hit := sc.HitTest(geom.Point{X: 9000, Y: 9000}, 80); !hit.IsZero() {
		t.Fatalf("open-space hit = %+v, want none", hit)
	}
}

func TestHitTestInnermostRoomWins(t *testing.T) {
	// A 4000x3000 envelope with a 1000x1000 closet in its corner. Points in
	// the closet must hit the closet, not the surrounding room.
	walls := []plan.Wall{
		plan.NewWall(geom.Point{X: 0, Y: 0}, geom.Point{X: 4000, Y: 0}, 150),
		plan.NewWall(geom.Point{X: 4000, Y: 0}, geom.Point{X: 4000, Y: 3000}, 150),
		plan.NewWall(geom.Point{X: 4000, Y: 3000}, geom.Point{X: 0, Y: 3000}, 150),
		plan.NewWall(geom.Point{X: 0, Y: 3000}, geom.Point{X: 0, Y: 0}, 150),
		plan.NewWall(geom.Point{X: 1000, Y: 0}, geom.Point{X: 1000, Y: 1000}, 150),
		plan.NewWall(geom.Point{X: 1000, Y: 1000}, geom.Point{X: 0, Y: 1000}, 150),
	}
	rooms := detect.DetectRooms(walls, nil)
	if len(rooms) != 2 {
		t.Fatalf("fixture expects two rooms, got %d", len(rooms))
	}
	sc := NewScene(walls, rooms, plan.CoarseTolerance)

	hit := sc.HitTest(geom.Point{X: 500, Y: 500}, 80)
	if hit.Level != LevelRoom {
		t.Fatalf("closet hit = %+v, want a room", hit)
	}
	var closet plan.Room
	for _, r := range rooms {
		if closet.ID == "" || r.Area < closet.Area {
			closet = r
		}
	}
	if hit.ID != closet.ID {
		t.Fatalf("hit room %s, want the smaller room %s", hit.ID, closet.ID)
	}
}

func TestBoxSelectWindowVsCrossing(t *testing.T) {
	// Two separate horizontal walls; the box fully encloses the first and
	// only clips the second.
	walls := []plan.Wall{
		plan.NewWall(geom.Point{X: 0, Y: 0}, geom.Point{X: 1000, Y: 0}, 150),
		plan.NewWall(geom.Point{X: 0, Y: 500}, geom.Point{X: 3000, Y: 500}, 150),
	}
	sc := NewScene(walls, nil, plan.CoarseTolerance)

	box := geom.BoundingBox{Min: geom.Point{X: -100, Y: -100}, Max: geom.Point{X: 1200, Y: 700}}

	window := sc.BoxSelect(box, BoxWindow)
	if _, ok := window.Walls[walls[0].ID]; !ok {
		t.Fatalf("window box must select the enclosed wall")
	}
	if _, ok := window.Walls[walls[1].ID]; ok {
		t.Fatalf("window box must not select the partially crossed wall")
	}

	crossing := sc.BoxSelect(box, BoxCrossing)
	if len(crossing.Walls) != 2 {
		t.Fatalf("crossing box walls = %v, want both", crossing.SortedWalls())
	}
}

func TestLassoSelectContainment(t *testing.T) {
	walls := []plan.Wall{
		plan.NewWall(geom.Point{X: 0, Y: 0}, geom.Point{X: 1000, Y: 0}, 150),
		plan.NewWall(geom.Point{X: 0, Y: 2000}, geom.Point{X: 1000, Y: 2000}, 150),
	}
	sc := NewScene(walls, nil, plan.CoarseTolerance)

	// A triangle around the first wall only.
	ring := []geom.Point{{X: -200, Y: -200}, {X: 1500, Y: -200}, {X: 600, Y: 800}}
	sel := sc.LassoSelect(ring)
	if _, ok := sel.Walls[walls[0].ID]; !ok {
		t.Fatalf("lasso must select the enclosed wall")
	}
	if _, ok := sel.Walls[walls[1].ID]; ok {
		t.Fatalf("lasso must not select the distant wall")
	}
}
