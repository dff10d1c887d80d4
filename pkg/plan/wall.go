// Package plan holds the authoritative floor-plan model: wall segments, the
// rooms derived from them, and the graph operations that keep the wall set
// consistent while editing.
//
// Walls and rooms are immutable value records. Every mutation produces a new
// slice; nothing is edited through shared pointers. That keeps undo/redo a
// matter of swapping slice snapshots and lets a renderer read the current
// snapshot while an edit builds the next one.
package plan

import (
	"github.com/PlanLab/plancad/pkg/geom"
	"github.com/google/uuid"
)

// Wall thickness is clamped to the buildable range (4"–24" in mm).
const (
	MinWallThickness = 101.6
	MaxWallThickness = 609.6
)

// DefaultWallHeight is the ceiling height assigned to new walls in mm.
const DefaultWallHeight = 2438.4

// DefaultWallThickness is the thickness of freshly drawn walls (2x4 stud
// plus drywall, in mm).
const DefaultWallThickness = 114.3

// WallType tags the material/construction class of a wall.
type WallType string

const (
	WallTypeExterior    WallType = "exterior"
	WallTypeInterior    WallType = "interior"
	WallTypePartition   WallType = "partition"
	WallTypeLoadBearing WallType = "load-bearing"
)

// Side identifies which offset line of a wall is which, relative to the
// start→end direction.
type Side int

const (
	// SideLeft is the side 90° counter-clockwise from the wall direction.
	SideLeft Side = iota
	// SideRight is the side 90° clockwise from the wall direction.
	SideRight
)

func (s Side) String() string {
	if s == SideRight {
		return "right"
	}
	return "left"
}

// Opposite returns the other side.
func (s Side) Opposite() Side {
	if s == SideLeft {
		return SideRight
	}
	return SideLeft
}

// OpeningKind classifies a wall cut-out.
type OpeningKind string

const (
	OpeningDoor   OpeningKind = "door"
	OpeningWindow OpeningKind = "window"
)

// Opening is a door or window cut-out positioned along its wall.
type Opening struct {
	ID       string
	Kind     OpeningKind
	Position float64 // normalized center position in [0,1] along the wall
	Width    float64 // opening width in mm
}

// Wall is one straight wall segment. ConnectedWallIDs is a derived adjacency
// cache rebuilt by RebuildWallAdjacency after every structural edit; it is
// never edited by hand and never trusted as a source of truth.
type Wall struct {
	ID           string
	Start        geom.Point
	End          geom.Point
	Thickness    float64
	Height       float64
	Type         WallType
	Layer        string
	Openings     []Opening
	InteriorSide Side

	ConnectedWallIDs []string
}

// NewWall creates a wall with a fresh id, clamped thickness and default
// height/type.
func NewWall(start, end geom.Point, thickness float64) Wall {
	return Wall{
		ID:        uuid.NewString(),
		Start:     start,
		End:       end,
		Thickness: ClampThickness(thickness),
		Height:    DefaultWallHeight,
		Type:      WallTypeInterior,
		Layer:     "walls",
	}
}

// ClampThickness clamps t to [MinWallThickness, MaxWallThickness].
func ClampThickness(t float64) float64 {
	if t < MinWallThickness {
		return MinWallThickness
	}
	if t > MaxWallThickness {
		return MaxWallThickness
	}
	return t
}

// Segment returns the wall centerline.
func (w Wall) Segment() geom.Segment {
	return geom.Segment{A: w.Start, B: w.End}
}

// Length returns the centerline length in mm.
func (w Wall) Length() float64 {
	return w.Start.Distance(w.End)
}

// Direction returns the unit vector from Start toward End.
func (w Wall) Direction() geom.Point {
	return w.End.Sub(w.Start).Normalize()
}

// PointAt returns the centerline point at normalized parameter t.
func (w Wall) PointAt(t float64) geom.Point {
	return w.Start.Lerp(w.End, t)
}

// Midpoint returns the centerline midpoint.
func (w Wall) Midpoint() geom.Point {
	return w.PointAt(0.5)
}

// Bounds returns the wall's axis-aligned bounding box including thickness.
func (w Wall) Bounds() geom.BoundingBox {
	bb := geom.NewBoundingBox()
	bb.Expand(w.Start)
	bb.Expand(w.End)
	return bb.Inflate(w.Thickness / 2)
}

// InteriorNormal returns the unit normal pointing toward the wall's interior
// side.
func (w Wall) InteriorNormal() geom.Point {
	n := w.Direction().Perp() // left of direction
	if w.InteriorSide == SideRight {
		return n.Scale(-1)
	}
	return n
}

// Clone returns a deep copy of the wall. Openings and adjacency slices are
// copied so the result shares no storage with the original.
func (w Wall) Clone() Wall {
	c := w
	if len(w.Openings) > 0 {
		c.Openings = append([]Opening(nil), w.Openings...)
	}
	if len(w.ConnectedWallIDs) > 0 {
		c.ConnectedWallIDs = append([]string(nil), w.ConnectedWallIDs...)
	}
	return c
}

// CloneWalls deep-copies a wall slice. Edits always operate on a copy so the
// previous snapshot stays valid for undo and concurrent readers.
func CloneWalls(walls []Wall) []Wall {
	out := make([]Wall, len(walls))
	for i, w := range walls {
		out[i] = w.Clone()
	}
	return out
}
