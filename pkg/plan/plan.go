package plan

import (
	"fmt"
	"sort"

	"github.com/PlanLab/plancad/pkg/geom"
)

// Endpoint-merge tolerances in mm. Coarse is used for graph building and
// endpoint snapping; fine for adjacency where endpoints are already snapped.
const (
	CoarseTolerance = 10.0
	FineTolerance   = 0.5
)

// Plan is one floor-plan scene snapshot: the wall list plus the rooms last
// derived from it. The struct itself carries no hidden state; every kernel
// operation takes a snapshot in and hands a new one out.
type Plan struct {
	Name  string
	Walls []Wall
	Rooms []Room
}

// WallByID returns the wall with the given id.
func (p *Plan) WallByID(id string) (Wall, bool) {
	for _, w := range p.Walls {
		if w.ID == id {
			return w, true
		}
	}
	return Wall{}, false
}

// MustWall returns the wall with the given id and panics if it does not
// exist. A missing id means the adjacency/derivation invariants were broken
// elsewhere, which must fail loudly rather than be tolerated.
func (p *Plan) MustWall(id string) Wall {
	w, ok := p.WallByID(id)
	if !ok {
		panic(fmt.Sprintf("plan: wall %q does not exist", id))
	}
	return w
}

// RoomByID returns the room with the given id.
func (p *Plan) RoomByID(id string) (Room, bool) {
	for _, r := range p.Rooms {
		if r.ID == id {
			return r, true
		}
	}
	return Room{}, false
}

// BoundingBox returns the bounds of all walls including thickness.
func (p *Plan) BoundingBox() geom.BoundingBox {
	bb := geom.NewBoundingBox()
	for _, w := range p.Walls {
		bb.ExpandBox(w.Bounds())
	}
	return bb
}

// Clone deep-copies the plan snapshot.
func (p *Plan) Clone() *Plan {
	return &Plan{
		Name:  p.Name,
		Walls: CloneWalls(p.Walls),
		Rooms: CloneRooms(p.Rooms),
	}
}

// Vertex is a derived graph node: the merge of all wall endpoints within
// tolerance of one another. Vertices are recomputed per operation and never
// persisted.
type Vertex struct {
	ID      string
	Point   geom.Point
	WallIDs []string
}

// DeriveVertices merges wall endpoints within tol into vertices. Ids are
// assigned deterministically by scanning position so repeated derivations of
// the same wall set agree.
func DeriveVertices(walls []Wall, tol float64) []Vertex {
	type endpoint struct {
		p      geom.Point
		wallID string
	}
	var eps []endpoint
	for _, w := range walls {
		eps = append(eps, endpoint{w.Start, w.ID}, endpoint{w.End, w.ID})
	}

	var verts []Vertex
	for _, ep := range eps {
		merged := false
		for i := range verts {
			if verts[i].Point.Near(ep.p, tol) {
				verts[i].WallIDs = appendUnique(verts[i].WallIDs, ep.wallID)
				merged = true
				break
			}
		}
		if !merged {
			verts = append(verts, Vertex{Point: ep.p, WallIDs: []string{ep.wallID}})
		}
	}

	sort.Slice(verts, func(i, j int) bool {
		if verts[i].Point.X != verts[j].Point.X {
			return verts[i].Point.X < verts[j].Point.X
		}
		return verts[i].Point.Y < verts[j].Point.Y
	})
	for i := range verts {
		verts[i].ID = fmt.Sprintf("v%d", i)
		sort.Strings(verts[i].WallIDs)
	}
	return verts
}

func appendUnique(ids []string, id string) []string {
	for _, have := range ids {
		if have == id {
			return ids
		}
	}
	return append(ids, id)
}
