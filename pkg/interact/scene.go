package interact

import (
	"sort"
	"strings"

	"github.com/PlanLab/plancad/pkg/geom"
	"github.com/PlanLab/plancad/pkg/plan"
	"github.com/PlanLab/plancad/pkg/spatial"
)

// Spatial-hash id prefixes; walls, rooms and vertices share one grid.
const (
	wallPrefix   = "w:"
	roomPrefix   = "r:"
	vertexPrefix = "v:"
)

// Scene is one hit-testable snapshot of the plan: walls, derived rooms and
// vertices, indexed in a spatial grid. Build a fresh scene after every
// structural edit; the scene itself never mutates.
type Scene struct {
	Walls []plan.Wall
	Rooms []plan.Room
	Verts []plan.Vertex

	grid    *spatial.Grid
	wallIdx map[string]plan.Wall
	roomIdx map[string]plan.Room
	vertIdx map[string]plan.Vertex

	// Derived incidence used by selection propagation.
	wallVertices map[string][]string
	wallRooms    map[string][]string

	// Rooms sorted by area ascending so the innermost containing room wins
	// point hit-tests over the rooms nested around it.
	roomsByArea []plan.Room
}

// NewScene indexes a plan snapshot for hit-testing. Vertices are derived from
// the wall endpoints with tol.
func NewScene(walls []plan.Wall, rooms []plan.Room, tol float64) *Scene {
	sc := &Scene{
		Walls:        walls,
		Rooms:        rooms,
		Verts:        plan.DeriveVertices(walls, tol),
		grid:         spatial.NewGrid(spatial.DefaultCellSize),
		wallIdx:      make(map[string]plan.Wall, len(walls)),
		roomIdx:      make(map[string]plan.Room, len(rooms)),
		wallVertices: make(map[string][]string),
		wallRooms:    make(map[string][]string),
	}

	var items []spatial.Item
	for _, w := range walls {
		sc.wallIdx[w.ID] = w
		items = append(items, spatial.Item{ID: wallPrefix + w.ID, Bounds: w.Bounds()})
	}
	for _, r := range rooms {
		sc.roomIdx[r.ID] = r
		items = append(items, spatial.Item{ID: roomPrefix + r.ID, Bounds: r.Bounds()})
		for _, wid := range r.WallIDs {
			sc.wallRooms[wid] = append(sc.wallRooms[wid], r.ID)
		}
	}
	sc.vertIdx = make(map[string]plan.Vertex, len(sc.Verts))
	for _, v := range sc.Verts {
		sc.vertIdx[v.ID] = v
		items = append(items, spatial.Item{ID: vertexPrefix + v.ID, Bounds: geom.BoxAround(v.Point, tol)})
		for _, wid := range v.WallIDs {
			sc.wallVertices[wid] = append(sc.wallVertices[wid], v.ID)
		}
	}
	sc.grid.Rebuild(items)

	sc.roomsByArea = append([]plan.Room(nil), rooms...)
	sort.Slice(sc.roomsByArea, func(i, j int) bool {
		if sc.roomsByArea[i].Area != sc.roomsByArea[j].Area {
			return sc.roomsByArea[i].Area < sc.roomsByArea[j].Area
		}
		return sc.roomsByArea[i].ID < sc.roomsByArea[j].ID
	})
	return sc
}

// WallByID returns the wall with the given id.
func (sc *Scene) WallByID(id string) (plan.Wall, bool) {
	w, ok := sc.wallIdx[id]
	return w, ok
}

// RoomByID returns the room with the given id.
func (sc *Scene) RoomByID(id string) (plan.Room, bool) {
	r, ok := sc.roomIdx[id]
	return r, ok
}

// VertexByID returns the derived vertex with the given id.
func (sc *Scene) VertexByID(id string) (plan.Vertex, bool) {
	v, ok := sc.vertIdx[id]
	return v, ok
}

// HitTest finds the entity under p. Priority is vertex over wall over room,
// and among containing rooms the smallest wins, which handles nested rooms.
// The zero Ref means open space.
func (sc *Scene) HitTest(p geom.Point, radius float64) Ref {
	ids := sc.grid.QueryRadius(p, radius)

	bestVertex, bestVertexDist := "", radius
	bestWall, bestWallDist := "", radius
	for _, id := range ids {
		switch {
		case strings.HasPrefix(id, vertexPrefix):
			vid := strings.TrimPrefix(id, vertexPrefix)
			v := sc.vertIdx[vid]
			if d := v.Point.Distance(p); d <= bestVertexDist {
				if bestVertex == "" || d < bestVertexDist || vid < bestVertex {
					bestVertex, bestVertexDist = vid, d
				}
			}
		case strings.HasPrefix(id, wallPrefix):
			wid := strings.TrimPrefix(id, wallPrefix)
			w := sc.wallIdx[wid]
			reach := radius + w.Thickness/2
			if d := w.Segment().DistanceTo(p); d <= reach && (bestWall == "" || d < bestWallDist) {
				bestWall, bestWallDist = wid, d
			}
		}
	}
	if bestVertex != "" {
		return Ref{Level: LevelVertex, ID: bestVertex}
	}
	if bestWall != "" {
		return Ref{Level: LevelWall, ID: bestWall}
	}
	for _, r := range sc.roomsByArea {
		if r.Contains(p) {
			return Ref{Level: LevelRoom, ID: r.ID}
		}
	}
	return Ref{}
}

// BoxMode picks the membership rule for box selection.
type BoxMode int

const (
	// BoxWindow selects only entities fully contained in the box
	// (left-to-right drag).
	BoxWindow BoxMode = iota
	// BoxCrossing selects entities merely touched by the box
	// (right-to-left drag).
	BoxCrossing
)

func (m BoxMode) String() string {
	if m == BoxCrossing {
		return "crossing"
	}
	return "window"
}

// BoxSelect collects the entities matched by a selection box under the given
// mode. Candidates come from the spatial hash; exact geometry decides
// membership.
func (sc *Scene) BoxSelect(box geom.BoundingBox, mode BoxMode) Selection {
	sel := NewSelection()
	for _, id := range sc.grid.QueryBounds(box) {
		switch {
		case strings.HasPrefix(id, vertexPrefix):
			vid := strings.TrimPrefix(id, vertexPrefix)
			if box.Contains(sc.vertIdx[vid].Point) {
				sel.Vertices[vid] = struct{}{}
			}
		case strings.HasPrefix(id, wallPrefix):
			wid := strings.TrimPrefix(id, wallPrefix)
			w := sc.wallIdx[wid]
			if wallInBox(w, box, mode) {
				sel.Walls[wid] = struct{}{}
			}
		case strings.HasPrefix(id, roomPrefix):
			rid := strings.TrimPrefix(id, roomPrefix)
			if roomInBox(sc.roomIdx[rid], box, mode) {
				sel.Rooms[rid] = struct{}{}
			}
		}
	}
	return sel
}

// LassoSelect collects the entities matched by a freeform lasso ring. Lasso
// membership is containment: vertices inside the ring, walls with both
// endpoints inside, rooms with every polygon vertex inside.
func (sc *Scene) LassoSelect(ring []geom.Point) Selection {
	sel := NewSelection()
	if len(ring) < 3 {
		return sel
	}
	for _, id := range sc.grid.QueryBounds(geom.RingBounds(ring)) {
		switch {
		case strings.HasPrefix(id, vertexPrefix):
			vid := strings.TrimPrefix(id, vertexPrefix)
			if geom.ContainsPoint(ring, sc.vertIdx[vid].Point) {
				sel.Vertices[vid] = struct{}{}
			}
		case strings.HasPrefix(id, wallPrefix):
			wid := strings.TrimPrefix(id, wallPrefix)
			w := sc.wallIdx[wid]
			if geom.ContainsPoint(ring, w.Start) && geom.ContainsPoint(ring, w.End) {
				sel.Walls[wid] = struct{}{}
			}
		case strings.HasPrefix(id, roomPrefix):
			rid := strings.TrimPrefix(id, roomPrefix)
			if ringContainsAll(ring, sc.roomIdx[rid].Vertices) {
				sel.Rooms[rid] = struct{}{}
			}
		}
	}
	return sel
}

func wallInBox(w plan.Wall, box geom.BoundingBox, mode BoxMode) bool {
	if mode == BoxWindow {
		return box.Contains(w.Start) && box.Contains(w.End)
	}
	return segmentTouchesBox(w.Segment(), box)
}

func roomInBox(r plan.Room, box geom.BoundingBox, mode BoxMode) bool {
	if mode == BoxWindow {
		for _, p := range r.Vertices {
			if !box.Contains(p) {
				return false
			}
		}
		return len(r.Vertices) > 0
	}
	for _, p := range r.Vertices {
		if box.Contains(p) {
			return true
		}
	}
	n := len(r.Vertices)
	for i := 0; i < n; i++ {
		if segmentTouchesBox(geom.Segment{A: r.Vertices[i], B: r.Vertices[(i+1)%n]}, box) {
			return true
		}
	}
	// A box dropped entirely inside the room crosses it too.
	return r.Contains(box.Center())
}

func segmentTouchesBox(s geom.Segment, box geom.BoundingBox) bool {
	if box.Contains(s.A) || box.Contains(s.B) {
		return true
	}
	corners := []geom.Point{
		box.Min,
		{X: box.Max.X, Y: box.Min.Y},
		box.Max,
		{X: box.Min.X, Y: box.Max.Y},
	}
	for i := 0; i < 4; i++ {
		edge := geom.Segment{A: corners[i], B: corners[(i+1)%4]}
		if _, _, _, ok := geom.SegmentIntersection(s, edge); ok {
			return true
		}
	}
	return false
}

func ringContainsAll(ring, pts []geom.Point) bool {
	if len(pts) == 0 {
		return false
	}
	for _, p := range pts {
		if !geom.ContainsPoint(ring, p) {
			return false
		}
	}
	return true
}
