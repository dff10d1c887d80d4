// Package snap proposes higher-priority replacement points for raw pointer
// input: grid intersections, vertices, wall endpoints/midpoints/segments,
// angle increments from an anchor, and parallel/perpendicular alignments with
// nearby walls. Candidates compete by priority, then by distance, and every
// accepted candidate also emits alignment guides for rendering.
package snap

import (
	"fmt"

	"github.com/PlanLab/plancad/pkg/geom"
)

// Kind identifies what a snap candidate locked onto.
type Kind int

const (
	KindVertex Kind = iota
	KindWallEndpoint
	KindWallMidpoint
	KindAngle
	KindPerpendicular
	KindParallel
	KindWallSegment
	KindGrid
)

var kindNames = map[Kind]string{
	KindVertex:        "vertex",
	KindWallEndpoint:  "wall-endpoint",
	KindWallMidpoint:  "wall-midpoint",
	KindAngle:         "angle",
	KindPerpendicular: "perpendicular",
	KindParallel:      "parallel",
	KindWallSegment:   "wall-segment",
	KindGrid:          "grid",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Priority ranks candidate kinds; higher wins regardless of distance.
func (k Kind) Priority() int {
	switch k {
	case KindVertex:
		return 100
	case KindWallEndpoint:
		return 80
	case KindWallMidpoint:
		return 70
	case KindAngle:
		return 60
	case KindPerpendicular:
		return 58
	case KindParallel:
		return 55
	case KindWallSegment:
		return 50
	case KindGrid:
		return 10
	default:
		panic(fmt.Sprintf("snap: unhandled kind %d", int(k)))
	}
}

// Config controls which candidate kinds are generated and how close a
// candidate must be to win. All distances are world millimeters.
type Config struct {
	// Threshold is the maximum distance at which a candidate replaces the
	// raw point.
	Threshold float64
	// GridSpacing is the grid pitch in mm; zero disables grid snapping.
	GridSpacing float64

	SnapToGrid         bool
	SnapToVertices     bool
	SnapToWallPoints   bool // endpoints and midpoints
	SnapToWallSegments bool
	SnapToAngles       bool
	SnapParallel       bool
	SnapPerpendicular  bool

	// AngleIncrementsDeg lists the directions angle snapping rounds to.
	AngleIncrementsDeg []float64
}

// DefaultConfig returns the editor's stock snap settings.
func DefaultConfig() *Config {
	return &Config{
		Threshold:          100,
		GridSpacing:        100,
		SnapToGrid:         true,
		SnapToVertices:     true,
		SnapToWallPoints:   true,
		SnapToWallSegments: true,
		SnapToAngles:       true,
		SnapParallel:       true,
		SnapPerpendicular:  true,
		AngleIncrementsDeg: []float64{0, 30, 45, 60, 90, 120, 135, 150, 180},
	}
}

// Validate normalizes degenerate settings in place.
func (c *Config) Validate() error {
	if c.Threshold <= 0 {
		c.Threshold = 100
	}
	if c.GridSpacing < 0 {
		c.GridSpacing = 0
	}
	if len(c.AngleIncrementsDeg) == 0 {
		c.AngleIncrementsDeg = []float64{0, 30, 45, 60, 90, 120, 135, 150, 180}
	}
	return nil
}

// Candidate is one proposed replacement point.
type Candidate struct {
	Point    geom.Point
	Kind     Kind
	Distance float64 // from the raw input point
	Priority int
}

// Guide is an alignment line emitted for rendering. Guides come from every
// accepted candidate, not only the winner.
type Guide struct {
	Kind Kind
	A    geom.Point
	B    geom.Point
}

// Result is the outcome of one snap resolution.
type Result struct {
	// Point is the winning candidate's point, or the raw input when nothing
	// snapped.
	Point geom.Point
	// Snapped reports whether a candidate won.
	Snapped bool
	// Winner is the winning candidate; zero value when Snapped is false.
	Winner Candidate
	// Candidates holds every accepted candidate, best first.
	Candidates []Candidate
	// Guides holds the alignment guides of all accepted candidates.
	Guides []Guide
}
