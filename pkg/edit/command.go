// Package edit wraps wall-graph mutations in transactions. Every command is
// applied to a cloned snapshot, rooms are re-derived, and the result is
// validated before it replaces the current plan; a post-condition violation
// rolls the graph and the selection back to their pre-edit state. Committed
// snapshots feed a plain undo/redo stack, which immutable wall records make
// a matter of swapping slices.
package edit

import (
	"fmt"

	"github.com/PlanLab/plancad/pkg/geom"
	"github.com/PlanLab/plancad/pkg/plan"
)

// Command is one tentative wall-graph mutation. Apply never touches the
// input slice; it returns the mutated copy or an error for degenerate
// requests. Commands referencing a wall id that does not exist panic: a
// dangling id means the derivation invariants were broken upstream.
type Command interface {
	Name() string
	Apply(walls []plan.Wall, tol float64) ([]plan.Wall, error)
}

// DrawWall draws a wall edge from Start to End, reusing collinear spans of
// existing walls instead of double-drawing them.
type DrawWall struct {
	Start    geom.Point
	End      geom.Point
	Template plan.Wall // thickness, height, type and layer for new segments
}

func (c DrawWall) Name() string { return "draw wall" }

func (c DrawWall) Apply(walls []plan.Wall, tol float64) ([]plan.Wall, error) {
	if c.Start.Distance(c.End) <= tol {
		return nil, fmt.Errorf("wall too short to draw")
	}
	out, _ := plan.AddEdgeWithWallReuse(walls, c.Start, c.End, c.Template, tol)
	return out, nil
}

// SplitWall splits one wall at the nearest centerline point to At.
type SplitWall struct {
	WallID string
	At     geom.Point
}

func (c SplitWall) Name() string { return "split wall" }

func (c SplitWall) Apply(walls []plan.Wall, tol float64) ([]plan.Wall, error) {
	idx := mustWallIndex(walls, c.WallID)
	first, second, ok := plan.SplitWallAtPoint(walls[idx], c.At)
	if !ok {
		return nil, fmt.Errorf("split point too close to a wall end")
	}
	out := plan.CloneWalls(walls)
	out[idx] = first
	out = append(out, second)
	return plan.RebuildWallAdjacency(out, tol), nil
}

// MoveVertex moves every wall endpoint at From to To.
type MoveVertex struct {
	From geom.Point
	To   geom.Point
}

func (c MoveVertex) Name() string { return "move vertex" }

func (c MoveVertex) Apply(walls []plan.Wall, tol float64) ([]plan.Wall, error) {
	return plan.MoveVertex(walls, c.From, c.To, tol), nil
}

// DeleteWalls removes the identified walls.
type DeleteWalls struct {
	WallIDs []string
}

func (c DeleteWalls) Name() string { return "delete walls" }

func (c DeleteWalls) Apply(walls []plan.Wall, tol float64) ([]plan.Wall, error) {
	if len(c.WallIDs) == 0 {
		return nil, fmt.Errorf("nothing to delete")
	}
	for _, id := range c.WallIDs {
		mustWallIndex(walls, id)
	}
	return plan.DeleteWalls(walls, c.WallIDs, tol), nil
}

// CommitRoomPolygon draws every edge of a closed polygon, reusing existing
// collinear walls, so tracing a room over partial geometry never duplicates
// coverage.
type CommitRoomPolygon struct {
	Ring     []geom.Point
	Template plan.Wall
}

func (c CommitRoomPolygon) Name() string { return "commit room polygon" }

func (c CommitRoomPolygon) Apply(walls []plan.Wall, tol float64) ([]plan.Wall, error) {
	if len(c.Ring) < 3 {
		return nil, fmt.Errorf("room polygon needs at least 3 vertices")
	}
	if geom.Area(c.Ring) <= tol*tol {
		return nil, fmt.Errorf("room polygon is degenerate")
	}
	out := walls
	n := len(c.Ring)
	for i := 0; i < n; i++ {
		out, _ = plan.AddEdgeWithWallReuse(out, c.Ring[i], c.Ring[(i+1)%n], c.Template, tol)
	}
	return out, nil
}

// AddOpening places a door or window cut-out on a wall.
type AddOpening struct {
	WallID  string
	Opening plan.Opening
}

func (c AddOpening) Name() string { return "add opening" }

func (c AddOpening) Apply(walls []plan.Wall, tol float64) ([]plan.Wall, error) {
	idx := mustWallIndex(walls, c.WallID)
	if c.Opening.Position < 0 || c.Opening.Position > 1 {
		return nil, fmt.Errorf("opening position %v outside [0,1]", c.Opening.Position)
	}
	w := walls[idx]
	if c.Opening.Width <= 0 || c.Opening.Width >= w.Length() {
		return nil, fmt.Errorf("opening width %v does not fit the wall", c.Opening.Width)
	}
	out := plan.CloneWalls(walls)
	out[idx].Openings = append(out[idx].Openings, c.Opening)
	return out, nil
}

// SetWallThickness changes one wall's thickness, clamped to the buildable
// range.
type SetWallThickness struct {
	WallID    string
	Thickness float64
}

func (c SetWallThickness) Name() string { return "set wall thickness" }

func (c SetWallThickness) Apply(walls []plan.Wall, tol float64) ([]plan.Wall, error) {
	idx := mustWallIndex(walls, c.WallID)
	out := plan.CloneWalls(walls)
	out[idx].Thickness = plan.ClampThickness(c.Thickness)
	return out, nil
}

func mustWallIndex(walls []plan.Wall, id string) int {
	for i, w := range walls {
		if w.ID == id {
			return i
		}
	}
	panic(fmt.Sprintf("edit: wall %q does not exist", id))
}
