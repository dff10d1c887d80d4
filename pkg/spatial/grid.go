// Package spatial provides a uniform-grid index over axis-aligned bounding
// boxes keyed by item id. The editor rebuilds it wholesale after every
// structural edit; at a few hundred walls a full O(n) rebuild is cheaper to
// maintain than incremental updates.
package spatial

import (
	"math"

	"github.com/PlanLab/plancad/pkg/geom"
)

// DefaultCellSize is the grid cell edge length in world units.
const DefaultCellSize = 64.0

type cellKey struct {
	X int
	Y int
}

// Item pairs an id with the bounds it occupies, for bulk rebuilds.
type Item struct {
	ID     string
	Bounds geom.BoundingBox
}

// Grid is a uniform-grid spatial hash. An item spanning several cells is
// indexed in every covered cell and deduplicated on query.
type Grid struct {
	cellSize    float64
	invCellSize float64
	cells       map[cellKey][]string
	bounds      map[string]geom.BoundingBox
}

// NewGrid creates a grid with the given cell size. Non-positive sizes fall
// back to DefaultCellSize.
func NewGrid(cellSize float64) *Grid {
	if cellSize <= 0 {
		cellSize = DefaultCellSize
	}
	return &Grid{
		cellSize:    cellSize,
		invCellSize: 1.0 / cellSize,
		cells:       make(map[cellKey][]string),
		bounds:      make(map[string]geom.BoundingBox),
	}
}

// Insert registers an item in every cell its bounds cover. Inserting an id
// twice leaves stale cell entries behind; callers use Rebuild when identity
// is reused.
func (g *Grid) Insert(id string, bounds geom.BoundingBox) {
	if id == "" || bounds.IsEmpty() {
		return
	}
	g.bounds[id] = bounds
	for _, key := range g.coveredCells(bounds) {
		g.cells[key] = append(g.cells[key], id)
	}
}

// QueryBounds returns the ids of all items whose bounds intersect the query
// box, each id at most once.
func (g *Grid) QueryBounds(query geom.BoundingBox) []string {
	if query.IsEmpty() {
		return nil
	}
	var out []string
	seen := make(map[string]struct{})
	for _, key := range g.coveredCells(query) {
		for _, id := range g.cells[key] {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			if g.bounds[id].Intersects(query) {
				out = append(out, id)
			}
		}
	}
	return out
}

// QueryRadius returns the ids of items whose bounds intersect the square of
// radius r centered on p. Radius queries are conservative: callers that need
// exact circular distance filter afterwards with their own geometry.
func (g *Grid) QueryRadius(p geom.Point, r float64) []string {
	return g.QueryBounds(geom.BoxAround(p, r))
}

// Bounds returns the stored bounds for an item id.
func (g *Grid) Bounds(id string) (geom.BoundingBox, bool) {
	bb, ok := g.bounds[id]
	return bb, ok
}

// Len returns the number of indexed items.
func (g *Grid) Len() int {
	return len(g.bounds)
}

// Clear removes all items.
func (g *Grid) Clear() {
	g.cells = make(map[cellKey][]string)
	g.bounds = make(map[string]geom.BoundingBox)
}

// Rebuild clears the grid and re-indexes the given items.
func (g *Grid) Rebuild(items []Item) {
	g.Clear()
	for _, it := range items {
		g.Insert(it.ID, it.Bounds)
	}
}

func (g *Grid) coveredCells(bb geom.BoundingBox) []cellKey {
	minX := int(math.Floor(bb.Min.X * g.invCellSize))
	minY := int(math.Floor(bb.Min.Y * g.invCellSize))
	maxX := int(math.Floor(bb.Max.X * g.invCellSize))
	maxY := int(math.Floor(bb.Max.Y * g.invCellSize))

	keys := make([]cellKey, 0, (maxX-minX+1)*(maxY-minY+1))
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			keys = append(keys, cellKey{X: x, Y: y})
		}
	}
	return keys
}
