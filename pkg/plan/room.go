package plan

import "github.com/PlanLab/plancad/pkg/geom"

// RoomType classifies a detected room. Informational; detection never
// assigns anything beyond unknown/exterior on its own.
type RoomType string

const (
	RoomTypeUnknown  RoomType = "unknown"
	RoomTypeExterior RoomType = "exterior"
	RoomTypeLiving   RoomType = "living"
	RoomTypeKitchen  RoomType = "kitchen"
	RoomTypeBedroom  RoomType = "bedroom"
	RoomTypeBathroom RoomType = "bathroom"
	RoomTypeHallway  RoomType = "hallway"
)

// Room is a closed region bounded by walls. Rooms are always derived from
// the wall graph by detection and replaced wholesale after every wall edit;
// a room that has gone stale relative to its walls is a bug, not a state.
type Room struct {
	ID           string
	Vertices     []geom.Point // closed CCW polygon, last point != first
	WallIDs      []string     // unique boundary wall ids
	Area         float64      // mm²
	Perimeter    float64      // mm
	Centroid     geom.Point
	ChildRoomIDs []string
	Type         RoomType
}

// Contains reports whether p lies inside the room polygon.
func (r Room) Contains(p geom.Point) bool {
	return geom.ContainsPoint(r.Vertices, p)
}

// Bounds returns the room polygon's bounding box.
func (r Room) Bounds() geom.BoundingBox {
	return geom.RingBounds(r.Vertices)
}

// Clone returns a deep copy of the room.
func (r Room) Clone() Room {
	c := r
	if len(r.Vertices) > 0 {
		c.Vertices = append([]geom.Point(nil), r.Vertices...)
	}
	if len(r.WallIDs) > 0 {
		c.WallIDs = append([]string(nil), r.WallIDs...)
	}
	if len(r.ChildRoomIDs) > 0 {
		c.ChildRoomIDs = append([]string(nil), r.ChildRoomIDs...)
	}
	return c
}

// CloneRooms deep-copies a room slice.
func CloneRooms(rooms []Room) []Room {
	out := make([]Room, len(rooms))
	for i, r := range rooms {
		out[i] = r.Clone()
	}
	return out
}
