package planfile

import (
	"reflect"
	"strings"
	"testing"

	"github.com/PlanLab/plancad/pkg/detect"
	"github.com/PlanLab/plancad/pkg/geom"
	"github.com/PlanLab/plancad/pkg/plan"
)

func fixturePlan() *plan.Plan {
	walls := []plan.Wall{
		{
			ID: "w-south", Start: geom.Point{X: 0, Y: 0}, End: geom.Point{X: 4000, Y: 0},
			Thickness: 150, Height: 2438.4, Type: plan.WallTypeExterior, Layer: "walls",
			InteriorSide: plan.SideLeft,
			Openings: []plan.Opening{
				{ID: "door-1", Kind: plan.OpeningDoor, Position: 0.25, Width: 812.8},
				{ID: "win-1", Kind: plan.OpeningWindow, Position: 0.75, Width: 600},
			},
		},
		{ID: "w-east", Start: geom.Point{X: 4000, Y: 0}, End: geom.Point{X: 4000, Y: 3000}, Thickness: 150, Height: 2438.4, Type: plan.WallTypeExterior, Layer: "walls"},
		{ID: "w-north", Start: geom.Point{X: 4000, Y: 3000}, End: geom.Point{X: 0, Y: 3000}, Thickness: 150, Height: 2438.4, Type: plan.WallTypeExterior, Layer: "walls"},
		{ID: "w-west", Start: geom.Point{X: 0, Y: 3000}, End: geom.Point{X: 0, Y: 0}, Thickness: 114.3, Height: 2438.4, Type: plan.WallTypeLoadBearing, Layer: "structure", InteriorSide: plan.SideRight},
	}
	walls = plan.RebuildWallAdjacency(walls, plan.CoarseTolerance)
	return &plan.Plan{
		Name:  "Ground Floor",
		Walls: walls,
		Rooms: detect.DetectRooms(walls, nil),
	}
}

func roundTrip(t *testing.T, p *plan.Plan) *plan.Plan {
	t.Helper()
	var b strings.Builder
	if err := Encode(&b, p); err != nil {
		t.Fatalf("encode: %v", err)
	}
	parser, err := NewParser()
	if err != nil {
		t.Fatalf("build parser: %v", err)
	}
	f, err := parser.ParseString(b.String())
	if err != nil {
		t.Fatalf("parse: %v\n%s", err, b.String())
	}
	got, err := Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return got
}

func TestRoundTripPreservesWallFields(t *testing.T) {
	want := fixturePlan()
	got := roundTrip(t, want)

	if got.Name != want.Name {
		t.Fatalf("name = %q, want %q", got.Name, want.Name)
	}
	if len(got.Walls) != len(want.Walls) {
		t.Fatalf("wall count = %d, want %d", len(got.Walls), len(want.Walls))
	}
	for i, w := range want.Walls {
		g := got.Walls[i]
		if g.ID != w.ID || g.Start != w.Start || g.End != w.End ||
			g.Thickness != w.Thickness || g.Height != w.Height ||
			g.Type != w.Type || g.Layer != w.Layer || g.InteriorSide != w.InteriorSide {
			t.Fatalf("wall %d mismatch:\ngot  %+v\nwant %+v", i, g, w)
		}
		if !reflect.DeepEqual(g.Openings, w.Openings) {
			t.Fatalf("wall %s openings mismatch:\ngot  %+v\nwant %+v", w.ID, g.Openings, w.Openings)
		}
	}
}

func TestRoundTripRecomputesAdjacency(t *testing.T) {
	want := fixturePlan()
	got := roundTrip(t, want)

	// Adjacency is never stored; the decoded plan must carry a freshly
	// rebuilt, identical cache.
	for i, w := range want.Walls {
		if !reflect.DeepEqual(got.Walls[i].ConnectedWallIDs, w.ConnectedWallIDs) {
			t.Fatalf("wall %s adjacency = %v, want %v", w.ID, got.Walls[i].ConnectedWallIDs, w.ConnectedWallIDs)
		}
	}
}

func TestRoundTripPreservesRooms(t *testing.T) {
	want := fixturePlan()
	got := roundTrip(t, want)

	if len(got.Rooms) != 1 {
		t.Fatalf("room count = %d, want 1", len(got.Rooms))
	}
	g, w := got.Rooms[0], want.Rooms[0]
	if g.ID != w.ID || g.Type != w.Type {
		t.Fatalf("room identity mismatch: %+v vs %+v", g, w)
	}
	if !reflect.DeepEqual(g.WallIDs, w.WallIDs) {
		t.Fatalf("room walls = %v, want %v", g.WallIDs, w.WallIDs)
	}
	if len(g.Vertices) != len(w.Vertices) {
		t.Fatalf("room vertices = %d, want %d", len(g.Vertices), len(w.Vertices))
	}
	// Derived measurements are recomputed, not stored; they must land on
	// the same values.
	if diff := g.Area - w.Area; diff > 1e-6 || diff < -1e-6 {
		t.Fatalf("room area = %v, want %v", g.Area, w.Area)
	}
	if !g.Centroid.Near(w.Centroid, 1e-6) {
		t.Fatalf("room centroid = %+v, want %+v", g.Centroid, w.Centroid)
	}
}

func TestEncodeIsCanonical(t *testing.T) {
	p := fixturePlan()

	var first strings.Builder
	if err := Encode(&first, p); err != nil {
		t.Fatalf("encode: %v", err)
	}
	again := roundTrip(t, p)
	var second strings.Builder
	if err := Encode(&second, again); err != nil {
		t.Fatalf("re-encode: %v", err)
	}
	if first.String() != second.String() {
		t.Fatalf("encoding is not stable:\n--- first ---\n%s\n--- second ---\n%s", first.String(), second.String())
	}
}

func TestParseComments(t *testing.T) {
	src := `; drawn by hand
(plan
  (name "Sketch") ; a comment after a form
  (wall (id "a") (start 0 0) (end 1000 0) (thickness 150)))
`
	parser, err := NewParser()
	if err != nil {
		t.Fatalf("build parser: %v", err)
	}
	f, err := parser.ParseString(src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	p, err := Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if p.Name != "Sketch" || len(p.Walls) != 1 {
		t.Fatalf("decoded = %+v", p)
	}
}

func TestDecodeRejectsBadInput(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"wall without id", `(plan (wall (start 0 0) (end 1 1)))`},
		{"wall without endpoints", `(plan (wall (id "a")))`},
		{"opening position out of range", `(plan (wall (id "a") (start 0 0) (end 1000 0) (opening (id "o") (kind door) (position 1.5) (width 100))))`},
		{"room with dangling wall", `(plan (room (id "r") (vertices 0 0 10 0 10 10) (walls "missing")))`},
		{"room with too few vertices", `(plan (room (id "r") (vertices 0 0 10 0)))`},
	}
	parser, err := NewParser()
	if err != nil {
		t.Fatalf("build parser: %v", err)
	}
	for _, tc := range cases {
		f, err := parser.ParseString(tc.src)
		if err != nil {
			continue // rejected at parse time is fine too
		}
		if _, err := Decode(f); err == nil {
			t.Fatalf("%s: decode accepted bad input", tc.name)
		}
	}
}

func TestClampOnLoad(t *testing.T) {
	src := `(plan (wall (id "thin") (start 0 0) (end 1000 0) (thickness 10)))`
	parser, _ := NewParser()
	f, err := parser.ParseString(src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	p, err := Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if p.Walls[0].Thickness != plan.MinWallThickness {
		t.Fatalf("thickness = %v, want clamped to %v", p.Walls[0].Thickness, plan.MinWallThickness)
	}
}
