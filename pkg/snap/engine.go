package snap

import (
	"math"
	"sort"

	"github.com/PlanLab/plancad/pkg/geom"
	"github.com/PlanLab/plancad/pkg/plan"
	"github.com/PlanLab/plancad/pkg/spatial"
)

// Request carries the per-resolution inputs that are not part of the scene.
type Request struct {
	// Anchor is the drag origin; angle, parallel and perpendicular snapping
	// need it and stay silent when it is nil.
	Anchor *geom.Point
	// Bypass skips snapping entirely (modifier key held); the raw point is
	// returned unchanged.
	Bypass bool
}

// Engine resolves snap points against one scene snapshot. The walls are
// indexed in a spatial grid so only nearby geometry competes; the engine
// keeps no other state between resolutions.
type Engine struct {
	cfg   *Config
	grid  *spatial.Grid
	walls map[string]plan.Wall
	verts []plan.Vertex
}

// NewEngine creates an engine with the given config. A nil config uses the
// defaults.
func NewEngine(cfg *Config) *Engine {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	cfg.Validate()
	return &Engine{
		cfg:   cfg,
		grid:  spatial.NewGrid(spatial.DefaultCellSize),
		walls: make(map[string]plan.Wall),
	}
}

// Config returns the engine's settings for callers that tune them between
// scenes.
func (e *Engine) Config() *Config {
	return e.cfg
}

// SetScene replaces the indexed scene. Call after every structural edit; the
// grid is rebuilt wholesale.
func (e *Engine) SetScene(walls []plan.Wall) {
	e.walls = make(map[string]plan.Wall, len(walls))
	items := make([]spatial.Item, 0, len(walls))
	for _, w := range walls {
		e.walls[w.ID] = w
		items = append(items, spatial.Item{ID: w.ID, Bounds: w.Bounds()})
	}
	e.grid.Rebuild(items)
	e.verts = plan.DeriveVertices(walls, plan.CoarseTolerance)
}

// Resolve proposes the best replacement for the raw point. All candidates
// within the threshold are accepted and reported; the winner is picked by
// priority, then distance. With req.Bypass set, or when nothing is within
// the threshold, the raw point comes back unchanged.
func (e *Engine) Resolve(raw geom.Point, req Request) Result {
	if req.Bypass {
		return Result{Point: raw}
	}

	var cands []Candidate
	add := func(p geom.Point, kind Kind) {
		d := p.Distance(raw)
		if d > e.cfg.Threshold {
			return
		}
		cands = append(cands, Candidate{Point: p, Kind: kind, Distance: d, Priority: kind.Priority()})
	}

	nearby := e.nearbyWalls(raw, req.Anchor)

	if e.cfg.SnapToVertices {
		for _, v := range e.verts {
			add(v.Point, KindVertex)
		}
	}
	if e.cfg.SnapToWallPoints {
		for _, w := range nearby {
			add(w.Start, KindWallEndpoint)
			add(w.End, KindWallEndpoint)
			add(w.Midpoint(), KindWallMidpoint)
		}
	}
	if e.cfg.SnapToWallSegments {
		for _, w := range nearby {
			add(w.Segment().ClosestPoint(raw), KindWallSegment)
		}
	}
	if req.Anchor != nil {
		anchor := *req.Anchor
		length := raw.Distance(anchor)
		if length > 0 {
			rawDeg := raw.Sub(anchor).Angle() * 180 / math.Pi
			if e.cfg.SnapToAngles {
				add(anchor.Add(geom.FromAngle(nearestIncrement(rawDeg, e.cfg.AngleIncrementsDeg)*math.Pi/180).Scale(length)), KindAngle)
			}
			for _, w := range nearby {
				wallDeg := w.Direction().Angle() * 180 / math.Pi
				if e.cfg.SnapParallel {
					add(anchor.Add(geom.FromAngle(closerOfOpposites(rawDeg, wallDeg)*math.Pi/180).Scale(length)), KindParallel)
				}
				if e.cfg.SnapPerpendicular {
					add(anchor.Add(geom.FromAngle(closerOfOpposites(rawDeg, wallDeg+90)*math.Pi/180).Scale(length)), KindPerpendicular)
				}
			}
		}
	}
	if e.cfg.SnapToGrid && e.cfg.GridSpacing > 0 {
		add(geom.Point{
			X: math.Round(raw.X/e.cfg.GridSpacing) * e.cfg.GridSpacing,
			Y: math.Round(raw.Y/e.cfg.GridSpacing) * e.cfg.GridSpacing,
		}, KindGrid)
	}

	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].Priority != cands[j].Priority {
			return cands[i].Priority > cands[j].Priority
		}
		return cands[i].Distance < cands[j].Distance
	})

	res := Result{Point: raw, Candidates: cands}
	for _, c := range cands {
		res.Guides = append(res.Guides, e.guidesFor(c, req)...)
	}
	if len(cands) > 0 {
		res.Snapped = true
		res.Winner = cands[0]
		res.Point = cands[0].Point
	}
	return res
}

// nearbyWalls collects the walls within threshold of the raw point, plus, for
// directional snapping, those near the anchor.
func (e *Engine) nearbyWalls(raw geom.Point, anchor *geom.Point) []plan.Wall {
	ids := e.grid.QueryRadius(raw, e.cfg.Threshold)
	if anchor != nil {
		ids = append(ids, e.grid.QueryRadius(*anchor, e.cfg.Threshold)...)
	}
	seen := make(map[string]struct{}, len(ids))
	out := make([]plan.Wall, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if w, ok := e.walls[id]; ok {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// guideLength sizes point-candidate crosshair guides relative to the snap
// threshold.
const guideLength = 4.0

func (e *Engine) guidesFor(c Candidate, req Request) []Guide {
	switch c.Kind {
	case KindAngle, KindParallel, KindPerpendicular:
		if req.Anchor == nil {
			return nil
		}
		return []Guide{{Kind: c.Kind, A: *req.Anchor, B: c.Point}}
	case KindGrid, KindVertex, KindWallEndpoint, KindWallMidpoint, KindWallSegment:
		r := e.cfg.Threshold * guideLength
		return []Guide{
			{Kind: c.Kind, A: geom.Point{X: c.Point.X - r, Y: c.Point.Y}, B: geom.Point{X: c.Point.X + r, Y: c.Point.Y}},
			{Kind: c.Kind, A: geom.Point{X: c.Point.X, Y: c.Point.Y - r}, B: geom.Point{X: c.Point.X, Y: c.Point.Y + r}},
		}
	default:
		return nil
	}
}

// nearestIncrement returns the increment (or its opposite direction) closest
// to deg. Increments are listed in [0, 180]; the opposite covers the other
// half turn.
func nearestIncrement(deg float64, increments []float64) float64 {
	best, bestDiff := deg, math.Inf(1)
	for _, inc := range increments {
		for _, cand := range []float64{inc, inc + 180} {
			if d := angleDiff(deg, cand); d < bestDiff {
				best, bestDiff = cand, d
			}
		}
	}
	return best
}

// closerOfOpposites picks deg or deg+180, whichever is nearer to the raw
// direction, so parallel snapping never flips a drag backwards.
func closerOfOpposites(rawDeg, deg float64) float64 {
	if angleDiff(rawDeg, deg+180) < angleDiff(rawDeg, deg) {
		return deg + 180
	}
	return deg
}

// angleDiff returns the absolute angular distance between two directions in
// degrees, in [0, 180].
func angleDiff(a, b float64) float64 {
	d := math.Mod(a-b, 360)
	if d < 0 {
		d += 360
	}
	if d > 180 {
		d = 360 - d
	}
	return d
}
