// Package interact translates pointer input into selection changes. It holds
// the editor's selection model with its vertex/wall/room propagation rules,
// point and box/lasso hit-testing over a scene snapshot, and the finite-state
// pointer machine that drives click, window/crossing box, lasso and
// handle-drag interactions.
package interact

import (
	"fmt"
	"sort"
)

// Level identifies which tier of the vertex→wall→room hierarchy an entity
// belongs to.
type Level int

const (
	LevelNone Level = iota
	LevelVertex
	LevelWall
	LevelRoom
)

var levelNames = map[Level]string{
	LevelNone:   "none",
	LevelVertex: "vertex",
	LevelWall:   "wall",
	LevelRoom:   "room",
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("Level(%d)", int(l))
}

// Ref names one selectable entity.
type Ref struct {
	Level Level
	ID    string
}

// IsZero reports whether the ref names nothing.
func (r Ref) IsZero() bool {
	return r.Level == LevelNone
}

// Selection is the current selection state: one id set per hierarchy level
// plus the primary entity the UI focuses property panels on.
type Selection struct {
	Vertices map[string]struct{}
	Walls    map[string]struct{}
	Rooms    map[string]struct{}
	Primary  Ref
}

// NewSelection returns an empty selection.
func NewSelection() Selection {
	return Selection{
		Vertices: make(map[string]struct{}),
		Walls:    make(map[string]struct{}),
		Rooms:    make(map[string]struct{}),
	}
}

// Clone deep-copies the selection.
func (s Selection) Clone() Selection {
	out := NewSelection()
	for id := range s.Vertices {
		out.Vertices[id] = struct{}{}
	}
	for id := range s.Walls {
		out.Walls[id] = struct{}{}
	}
	for id := range s.Rooms {
		out.Rooms[id] = struct{}{}
	}
	out.Primary = s.Primary
	return out
}

// IsEmpty reports whether nothing is selected.
func (s Selection) IsEmpty() bool {
	return len(s.Vertices) == 0 && len(s.Walls) == 0 && len(s.Rooms) == 0
}

// Count returns the total number of selected entities.
func (s Selection) Count() int {
	return len(s.Vertices) + len(s.Walls) + len(s.Rooms)
}

// Has reports whether the ref is in the selection.
func (s Selection) Has(r Ref) bool {
	set := s.set(r.Level)
	if set == nil {
		return false
	}
	_, ok := set[r.ID]
	return ok
}

// Add inserts the ref.
func (s Selection) Add(r Ref) {
	if set := s.set(r.Level); set != nil {
		set[r.ID] = struct{}{}
	}
}

// Toggle flips the ref's membership.
func (s Selection) Toggle(r Ref) {
	set := s.set(r.Level)
	if set == nil {
		return
	}
	if _, ok := set[r.ID]; ok {
		delete(set, r.ID)
	} else {
		set[r.ID] = struct{}{}
	}
}

func (s Selection) set(l Level) map[string]struct{} {
	switch l {
	case LevelVertex:
		return s.Vertices
	case LevelWall:
		return s.Walls
	case LevelRoom:
		return s.Rooms
	case LevelNone:
		return nil
	default:
		panic(fmt.Sprintf("interact: unhandled level %d", int(l)))
	}
}

// SortedVertices returns the selected vertex ids in sorted order.
func (s Selection) SortedVertices() []string { return sortedKeys(s.Vertices) }

// SortedWalls returns the selected wall ids in sorted order.
func (s Selection) SortedWalls() []string { return sortedKeys(s.Walls) }

// SortedRooms returns the selected room ids in sorted order.
func (s Selection) SortedRooms() []string { return sortedKeys(s.Rooms) }

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// PropagationRules switches each direction of selection propagation
// independently.
type PropagationRules struct {
	VertexToWalls  bool
	WallToVertices bool
	WallToRooms    bool
	RoomToWalls    bool
	RoomToVertices bool
}

// DefaultPropagationRules enables every direction.
func DefaultPropagationRules() PropagationRules {
	return PropagationRules{
		VertexToWalls:  true,
		WallToVertices: true,
		WallToRooms:    true,
		RoomToWalls:    true,
		RoomToVertices: true,
	}
}

// Propagate expands the selection through the entity hierarchy until a fixed
// point: vertices pull in incident walls, walls their endpoints and
// containing rooms, rooms their boundary walls and those walls' vertices.
// Applying it twice yields the same result as applying it once. The primary
// entity is re-inferred afterwards.
func Propagate(sel Selection, sc *Scene, rules PropagationRules) Selection {
	out := sel.Clone()
	for {
		before := out.Count()

		if rules.VertexToWalls {
			for _, id := range out.SortedVertices() {
				if v, ok := sc.VertexByID(id); ok {
					for _, wid := range v.WallIDs {
						out.Walls[wid] = struct{}{}
					}
				}
			}
		}
		if rules.WallToVertices {
			for _, id := range out.SortedWalls() {
				for _, vid := range sc.wallVertices[id] {
					out.Vertices[vid] = struct{}{}
				}
			}
		}
		if rules.WallToRooms {
			for _, id := range out.SortedWalls() {
				for _, rid := range sc.wallRooms[id] {
					out.Rooms[rid] = struct{}{}
				}
			}
		}
		if rules.RoomToWalls {
			for _, id := range out.SortedRooms() {
				if r, ok := sc.RoomByID(id); ok {
					for _, wid := range r.WallIDs {
						out.Walls[wid] = struct{}{}
					}
				}
			}
		}
		if rules.RoomToVertices {
			for _, id := range out.SortedRooms() {
				if r, ok := sc.RoomByID(id); ok {
					for _, wid := range r.WallIDs {
						for _, vid := range sc.wallVertices[wid] {
							out.Vertices[vid] = struct{}{}
						}
					}
				}
			}
		}

		if out.Count() == before {
			break
		}
	}
	out.Primary = inferPrimary(out)
	return out
}

// inferPrimary picks the primary entity: the first vertex, else the first
// wall, else the first room, in sorted id order so the choice is
// deterministic.
func inferPrimary(sel Selection) Ref {
	if ids := sel.SortedVertices(); len(ids) > 0 {
		return Ref{Level: LevelVertex, ID: ids[0]}
	}
	if ids := sel.SortedWalls(); len(ids) > 0 {
		return Ref{Level: LevelWall, ID: ids[0]}
	}
	if ids := sel.SortedRooms(); len(ids) > 0 {
		return Ref{Level: LevelRoom, ID: ids[0]}
	}
	return Ref{}
}
