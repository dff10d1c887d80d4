package planfile

import (
	"fmt"

	"github.com/PlanLab/plancad/pkg/geom"
	"github.com/PlanLab/plancad/pkg/plan"
)

// Decode converts a parsed file into a plan snapshot. Thickness is clamped
// to the buildable range, wall adjacency is rebuilt from geometry, and the
// derived room measurements (area, perimeter, centroid) are recomputed from
// the stored polygons rather than trusted from storage.
func Decode(f *File) (*plan.Plan, error) {
	p := &plan.Plan{}

	for _, e := range f.Entries {
		switch {
		case e.Name != nil:
			p.Name = *e.Name
		case e.Wall != nil:
			w, err := decodeWall(e.Wall)
			if err != nil {
				return nil, err
			}
			p.Walls = append(p.Walls, w)
		case e.Room != nil:
			r, err := decodeRoom(e.Room)
			if err != nil {
				return nil, err
			}
			p.Rooms = append(p.Rooms, r)
		}
	}

	p.Walls = plan.RebuildWallAdjacency(p.Walls, plan.CoarseTolerance)

	wallIDs := make(map[string]struct{}, len(p.Walls))
	for _, w := range p.Walls {
		wallIDs[w.ID] = struct{}{}
	}
	for _, r := range p.Rooms {
		for _, wid := range r.WallIDs {
			if _, ok := wallIDs[wid]; !ok {
				return nil, fmt.Errorf("room %s references unknown wall %q", r.ID, wid)
			}
		}
	}
	return p, nil
}

func decodeWall(n *WallNode) (plan.Wall, error) {
	w := plan.Wall{
		Thickness: plan.MinWallThickness,
		Height:    plan.DefaultWallHeight,
		Type:      plan.WallTypeInterior,
		Layer:     "walls",
	}
	hasStart, hasEnd := false, false
	for _, a := range n.Attrs {
		switch {
		case a.ID != nil:
			w.ID = *a.ID
		case a.Start != nil:
			w.Start = geom.Point{X: a.Start.X, Y: a.Start.Y}
			hasStart = true
		case a.End != nil:
			w.End = geom.Point{X: a.End.X, Y: a.End.Y}
			hasEnd = true
		case a.Thickness != nil:
			w.Thickness = plan.ClampThickness(*a.Thickness)
		case a.Height != nil:
			w.Height = *a.Height
		case a.Type != nil:
			w.Type = plan.WallType(*a.Type)
		case a.Layer != nil:
			w.Layer = *a.Layer
		case a.InteriorSide != nil:
			switch *a.InteriorSide {
			case "left":
				w.InteriorSide = plan.SideLeft
			case "right":
				w.InteriorSide = plan.SideRight
			default:
				return plan.Wall{}, fmt.Errorf("wall %s: unknown interior side %q", w.ID, *a.InteriorSide)
			}
		case a.Opening != nil:
			op, err := decodeOpening(a.Opening)
			if err != nil {
				return plan.Wall{}, fmt.Errorf("wall %s: %w", w.ID, err)
			}
			w.Openings = append(w.Openings, op)
		}
	}
	if w.ID == "" {
		return plan.Wall{}, fmt.Errorf("wall without an id")
	}
	if !hasStart || !hasEnd {
		return plan.Wall{}, fmt.Errorf("wall %s is missing start or end", w.ID)
	}
	return w, nil
}

func decodeOpening(n *OpeningNode) (plan.Opening, error) {
	var op plan.Opening
	for _, a := range n.Attrs {
		switch {
		case a.ID != nil:
			op.ID = *a.ID
		case a.Kind != nil:
			op.Kind = plan.OpeningKind(*a.Kind)
		case a.Position != nil:
			op.Position = *a.Position
		case a.Width != nil:
			op.Width = *a.Width
		}
	}
	if op.ID == "" {
		return plan.Opening{}, fmt.Errorf("opening without an id")
	}
	if op.Position < 0 || op.Position > 1 {
		return plan.Opening{}, fmt.Errorf("opening %s: position %v outside [0,1]", op.ID, op.Position)
	}
	return op, nil
}

func decodeRoom(n *RoomNode) (plan.Room, error) {
	r := plan.Room{Type: plan.RoomTypeUnknown}
	for _, a := range n.Attrs {
		switch {
		case a.ID != nil:
			r.ID = *a.ID
		case a.Type != nil:
			r.Type = plan.RoomType(*a.Type)
		case len(a.Vertices) > 0:
			if len(a.Vertices)%2 != 0 {
				return plan.Room{}, fmt.Errorf("room %s: odd vertex coordinate count", r.ID)
			}
			for i := 0; i < len(a.Vertices); i += 2 {
				r.Vertices = append(r.Vertices, geom.Point{X: a.Vertices[i], Y: a.Vertices[i+1]})
			}
		case len(a.Walls) > 0:
			r.WallIDs = append(r.WallIDs, a.Walls...)
		case len(a.Children) > 0:
			r.ChildRoomIDs = append(r.ChildRoomIDs, a.Children...)
		}
	}
	if r.ID == "" {
		return plan.Room{}, fmt.Errorf("room without an id")
	}
	if len(r.Vertices) < 3 {
		return plan.Room{}, fmt.Errorf("room %s has fewer than 3 vertices", r.ID)
	}
	r.Area = geom.Area(r.Vertices)
	r.Perimeter = geom.Perimeter(r.Vertices)
	r.Centroid = geom.Centroid(r.Vertices)
	return r, nil
}

// Load parses and decodes a .plan file from disk.
func Load(filename string) (*plan.Plan, error) {
	parser, err := NewParser()
	if err != nil {
		return nil, err
	}
	f, err := parser.ParseFile(filename)
	if err != nil {
		return nil, err
	}
	return Decode(f)
}
