// Package detect derives rooms from the wall graph. It builds a half-edge
// planar graph over the wall centerlines, extracts closed faces, and returns
// them as room polygons with area, perimeter and centroid. Rooms are always
// replaced wholesale on every wall-graph change; detection never mutates the
// wall list.
package detect

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strings"

	"github.com/PlanLab/plancad/pkg/geom"
	"github.com/PlanLab/plancad/pkg/plan"
)

// Config controls room detection.
type Config struct {
	// MergeTolerance merges wall endpoints and injected split points into
	// shared vertices (mm).
	MergeTolerance float64
	// MinArea discards faces below this area (mm²).
	MinArea float64
	// MinWalls discards faces bounded by fewer distinct walls.
	MinWalls int
}

// DefaultConfig returns detection settings matching the editor defaults.
func DefaultConfig() *Config {
	return &Config{
		MergeTolerance: plan.CoarseTolerance,
		MinArea:        1.0,
		MinWalls:       3,
	}
}

// Validate normalizes out-of-range settings in place.
func (c *Config) Validate() error {
	if c.MergeTolerance <= 0 {
		c.MergeTolerance = plan.CoarseTolerance
	}
	if c.MinArea <= 0 {
		c.MinArea = 1.0
	}
	if c.MinWalls < 3 {
		c.MinWalls = 3
	}
	return nil
}

// DetectRooms extracts the closed faces of the wall graph as rooms. The
// result is deterministic for a fixed wall set regardless of wall order:
// faces are deduplicated and sorted by their canonical loop key, and room
// ids are derived from that key so a recompute over unchanged geometry
// yields identical ids.
func DetectRooms(walls []plan.Wall, cfg *Config) []plan.Room {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	cfg.Validate()

	g := buildGraph(walls, cfg.MergeTolerance)

	type face struct {
		key   string
		ring  []geom.Point
		walls []string
	}
	faces := make(map[string]face)

	visited := make(map[edgeIndex]struct{})
	for ei := range g.edges {
		start := edgeIndex(ei)
		if _, done := visited[start]; done {
			continue
		}
		loop, ok := g.faceLoop(start)
		if !ok {
			visited[start] = struct{}{}
			continue
		}
		for _, e := range loop {
			visited[e] = struct{}{}
		}

		ring := g.ring(loop)
		// The clockwise-from-twin traversal yields positive signed area
		// only for interior-bounded loops; the outer face comes out
		// negative and is dropped here.
		if geom.SignedArea(ring) <= 0 {
			continue
		}
		if geom.Area(ring) < cfg.MinArea {
			continue
		}
		wallIDs := g.distinctWalls(loop)
		if len(wallIDs) < cfg.MinWalls {
			continue
		}

		key := canonicalLoopKey(g, loop)
		if _, dup := faces[key]; dup {
			continue
		}
		faces[key] = face{key: key, ring: ring, walls: wallIDs}
	}

	keys := make([]string, 0, len(faces))
	for k := range faces {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rooms := make([]plan.Room, 0, len(keys))
	for _, k := range keys {
		f := faces[k]
		rooms = append(rooms, plan.Room{
			ID:        roomID(k),
			Vertices:  f.ring,
			WallIDs:   f.walls,
			Area:      geom.Area(f.ring),
			Perimeter: geom.Perimeter(f.ring),
			Centroid:  geom.Centroid(f.ring),
			Type:      plan.RoomTypeUnknown,
		})
	}

	classifyNesting(rooms)
	return rooms
}

// classifyNesting fills ChildRoomIDs and tags envelope faces. A face whose
// polygon contains another face's centroid encloses other rooms and is
// classified exterior — informational only, never a hard filter. The
// containment-of-centroid heuristic can misjudge non-convex envelopes; the
// surrounding code treats the tag as advisory.
func classifyNesting(rooms []plan.Room) {
	for i := range rooms {
		for j := range rooms {
			if i == j {
				continue
			}
			if rooms[i].Contains(rooms[j].Centroid) && rooms[i].Area > rooms[j].Area {
				rooms[i].ChildRoomIDs = append(rooms[i].ChildRoomIDs, rooms[j].ID)
				rooms[i].Type = plan.RoomTypeExterior
			}
		}
		sort.Strings(rooms[i].ChildRoomIDs)
	}
}

// canonicalLoopKey encodes a face's vertex loop invariantly under rotation
// and reflection. Vertices are encoded by rounded position, not arena index,
// so the key is identical regardless of wall array order: the same physical
// room always deduplicates to the same key and room id.
func canonicalLoopKey(g *graph, loop []edgeIndex) string {
	labels := make([]string, len(loop))
	for i, ei := range loop {
		p := g.verts[g.edges[ei].from].pos
		labels[i] = fmt.Sprintf("%.1f:%.1f", p.X, p.Y)
	}

	best := ""
	for _, seq := range [][]string{labels, reversed(labels)} {
		for shift := range seq {
			key := encodeLoop(seq, shift)
			if best == "" || key < best {
				best = key
			}
		}
	}
	return best
}

func encodeLoop(seq []string, shift int) string {
	var b strings.Builder
	n := len(seq)
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(seq[(shift+i)%n])
	}
	return b.String()
}

func reversed(seq []string) []string {
	out := make([]string, len(seq))
	for i, v := range seq {
		out[len(seq)-1-i] = v
	}
	return out
}

func roomID(key string) string {
	h := fnv.New64a()
	h.Write([]byte(key))
	return fmt.Sprintf("room-%016x", h.Sum64())
}
