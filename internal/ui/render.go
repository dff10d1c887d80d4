package ui

import (
	"image"
	"image/color"
	"math"
	"sort"

	"gioui.org/f32"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"

	"github.com/PlanLab/plancad/pkg/corner"
	"github.com/PlanLab/plancad/pkg/geom"
	"github.com/PlanLab/plancad/pkg/interact"
	"github.com/PlanLab/plancad/pkg/plan"
	"github.com/PlanLab/plancad/pkg/snap"
)

// RenderPlan draws the full plan: grid, room fills, corner-resolved wall
// bodies, openings, then selection and hover highlights on top.
func RenderPlan(gtx layout.Context, cam *Camera, p *plan.Plan, sel interact.Selection, hover interact.Ref, gridSpacing float64, tol float64) {
	renderGrid(gtx, cam, gridSpacing)

	byID := make(map[string]plan.Wall, len(p.Walls))
	for _, w := range p.Walls {
		byID[w.ID] = w
	}

	// Rooms sorted by area descending so nested rooms paint over their
	// parents.
	rooms := make([]plan.Room, len(p.Rooms))
	copy(rooms, p.Rooms)
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].Area > rooms[j].Area })
	for i, r := range rooms {
		if r.Type == plan.RoomTypeExterior {
			continue
		}
		fillRing(gtx, cam, r.Vertices, RoomColor(r, i))
		if sel.Has(interact.Ref{Level: interact.LevelRoom, ID: r.ID}) {
			fillRing(gtx, cam, r.Vertices, ColorSelectionFill)
			strokeRing(gtx, cam, r.Vertices, 2, ColorSelection)
		}
	}

	policy := corner.DefaultPolicy()
	for _, w := range p.Walls {
		outline := WallOutline(w, byID, tol, policy)
		if len(outline) == 0 {
			continue
		}
		fillRing(gtx, cam, outline, WallColor(w))
		strokeRing(gtx, cam, outline, 1, ColorWallOutline)
		renderOpenings(gtx, cam, w)

		ref := interact.Ref{Level: interact.LevelWall, ID: w.ID}
		if sel.Has(ref) {
			strokeRing(gtx, cam, outline, 2.5, ColorSelection)
		} else if hover == ref {
			strokeRing(gtx, cam, outline, 2, ColorHover)
		}
	}

	renderVertices(gtx, cam, p, sel, hover)
}

// WallOutline returns the wall body polygon with both ends closed by the
// corner resolver where exactly one other wall shares the endpoint. Free
// ends and junctions of three or more walls get a square cut.
func WallOutline(w plan.Wall, byID map[string]plan.Wall, tol float64, policy corner.Policy) []geom.Point {
	dir := w.Direction()
	if dir.Length() == 0 {
		return nil
	}
	left := dir.Perp().Normalize()
	half := w.Thickness / 2

	sl := w.Start.Add(left.Scale(half))
	sr := w.Start.Sub(left.Scale(half))
	el := w.End.Add(left.Scale(half))
	er := w.End.Sub(left.Scale(half))

	if other, ok := soleNeighborAt(w, byID, w.Start, tol); ok {
		sl, sr = jointCut(w, other, true, left, tol, policy, sl, sr)
	}
	if other, ok := soleNeighborAt(w, byID, w.End, tol); ok {
		el, er = jointCut(w, other, false, left, tol, policy, el, er)
	}
	return []geom.Point{sl, el, er, sr}
}

// soleNeighborAt finds the single connected wall sharing the node, if there
// is exactly one.
func soleNeighborAt(w plan.Wall, byID map[string]plan.Wall, node geom.Point, tol float64) (plan.Wall, bool) {
	var found plan.Wall
	count := 0
	for _, id := range w.ConnectedWallIDs {
		other, ok := byID[id]
		if !ok {
			continue
		}
		if other.Start.Near(node, tol) || other.End.Near(node, tol) {
			found = other
			count++
		}
	}
	return found, count == 1
}

// jointCut resolves the corner against the neighboring wall and returns this
// wall's left and right boundary cut points at the node.
func jointCut(w, other plan.Wall, atStart bool, left geom.Point, tol float64, policy corner.Policy, defLeft, defRight geom.Point) (geom.Point, geom.Point) {
	a := corner.SeedFromWall(w, atStart)
	b := corner.SeedFromWall(other, other.Start.Near(a.Node, tol))
	c := corner.Resolve(a, b, policy)

	bis := a.Direction.Normalize().Add(b.Direction.Normalize())
	if bis.Length() < 1e-9 {
		bis = a.Direction.Perp().Normalize()
	}

	l, r := defLeft, defRight
	if p, ok := sideCut(c, bis, left); ok {
		l = p
	}
	if p, ok := sideCut(c, bis, left.Scale(-1)); ok {
		r = p
	}
	return l, r
}

// sideCut picks this wall's cut point on the boundary whose outward normal
// is n: the inner joint side when n points into the wedge, otherwise the
// outer side.
func sideCut(c corner.Corner, bis, n geom.Point) (geom.Point, bool) {
	side := c.Inner
	if n.Dot(bis) < 0 {
		side = c.Outer
	}
	switch side.Mode {
	case corner.ModeFlat:
		return side.EndA, true
	default:
		if side.Joint == (geom.Point{}) {
			return geom.Point{}, false
		}
		return side.Joint, true
	}
}

func renderOpenings(gtx layout.Context, cam *Camera, w plan.Wall) {
	if len(w.Openings) == 0 {
		return
	}
	dir := w.Direction()
	if dir.Length() == 0 {
		return
	}
	left := dir.Perp().Normalize()
	length := w.Length()
	half := w.Thickness / 2
	for _, o := range w.Openings {
		center := w.Start.Add(dir.Scale(o.Position * length))
		along := dir.Scale(o.Width / 2)
		// Gap slightly taller than the wall so the outline strokes are
		// covered too.
		across := left.Scale(half * 1.1)
		gap := []geom.Point{
			center.Sub(along).Add(across),
			center.Add(along).Add(across),
			center.Add(along).Sub(across),
			center.Sub(along).Sub(across),
		}
		fillRing(gtx, cam, gap, ColorOpening)
		// Jambs
		strokeLine(gtx, cam, center.Sub(along).Add(across), center.Sub(along).Sub(across), 1.5, ColorOpeningMark)
		strokeLine(gtx, cam, center.Add(along).Add(across), center.Add(along).Sub(across), 1.5, ColorOpeningMark)
		if o.Kind == plan.OpeningWindow {
			strokeLine(gtx, cam, center.Sub(along), center.Add(along), 1.5, ColorOpeningMark)
		}
	}
}

func renderVertices(gtx layout.Context, cam *Camera, p *plan.Plan, sel interact.Selection, hover interact.Ref) {
	for _, v := range plan.DeriveVertices(p.Walls, plan.CoarseTolerance) {
		ref := interact.Ref{Level: interact.LevelVertex, ID: v.ID}
		switch {
		case sel.Has(ref):
			fillCircle(gtx, cam, v.Point, 5, ColorSelection)
			fillCircle(gtx, cam, v.Point, 3, ColorHandle)
		case hover == ref:
			fillCircle(gtx, cam, v.Point, 4, ColorHover)
		}
	}
}

// renderGrid draws the world-space grid at the given mm spacing, skipping it
// entirely when cells would collapse below a few pixels.
func renderGrid(gtx layout.Context, cam *Camera, spacing float64) {
	if spacing <= 0 || spacing*cam.Zoom < 4 {
		return
	}
	bb := cam.VisibleBounds()
	major := spacing * 10
	for x := math.Floor(bb.Min.X/spacing) * spacing; x <= bb.Max.X; x += spacing {
		col := ColorGridMinor
		if math.Mod(math.Abs(x), major) < spacing/2 {
			col = ColorGridMajor
		}
		strokeLine(gtx, cam, geom.Point{X: x, Y: bb.Min.Y}, geom.Point{X: x, Y: bb.Max.Y}, 1, col)
	}
	for y := math.Floor(bb.Min.Y/spacing) * spacing; y <= bb.Max.Y; y += spacing {
		col := ColorGridMinor
		if math.Mod(math.Abs(y), major) < spacing/2 {
			col = ColorGridMajor
		}
		strokeLine(gtx, cam, geom.Point{X: bb.Min.X, Y: y}, geom.Point{X: bb.Max.X, Y: y}, 1, col)
	}
}

// RenderSnap draws the snap guides and the winner marker.
func RenderSnap(gtx layout.Context, cam *Camera, res snap.Result) {
	for _, g := range res.Guides {
		strokeLine(gtx, cam, g.A, g.B, 1, GuideColor(g.Kind))
	}
	if res.Snapped {
		strokeCircle(gtx, cam, res.Point, 6, 1.5, ColorSnapMarker)
	}
}

// RenderBoxPreview draws the live box-select rectangle.
func RenderBoxPreview(gtx layout.Context, cam *Camera, bp interact.BoxPreview) {
	ring := []geom.Point{
		bp.Box.Min,
		{X: bp.Box.Max.X, Y: bp.Box.Min.Y},
		bp.Box.Max,
		{X: bp.Box.Min.X, Y: bp.Box.Max.Y},
	}
	fill := ColorBoxWindow
	if bp.Mode == interact.BoxCrossing {
		fill = ColorBoxCrossing
	}
	fillRing(gtx, cam, ring, fill)
	strokeRing(gtx, cam, ring, 1, ColorBoxOutline)
}

// RenderLassoPreview draws the live lasso outline.
func RenderLassoPreview(gtx layout.Context, cam *Camera, pts []geom.Point) {
	if len(pts) < 2 {
		return
	}
	for i := 1; i < len(pts); i++ {
		strokeLine(gtx, cam, pts[i-1], pts[i], 1, ColorBoxOutline)
	}
}

// RenderRubberWall draws the wall being placed, from its anchor to the
// current (snapped) pointer.
func RenderRubberWall(gtx layout.Context, cam *Camera, a, b geom.Point, thickness float64) {
	dir := b.Sub(a)
	if dir.Length() == 0 {
		return
	}
	left := dir.Normalize().Perp().Scale(thickness / 2)
	ring := []geom.Point{a.Add(left), b.Add(left), b.Sub(left), a.Sub(left)}
	strokeRing(gtx, cam, ring, 1, ColorPreview)
	strokeLine(gtx, cam, a, b, 1, ColorPreview)
}

// RenderPolygonPreview draws the in-progress room polygon plus a rubber edge
// to the pointer.
func RenderPolygonPreview(gtx layout.Context, cam *Camera, pts []geom.Point, cursor geom.Point) {
	for i := 1; i < len(pts); i++ {
		strokeLine(gtx, cam, pts[i-1], pts[i], 1.5, ColorPreview)
	}
	if len(pts) > 0 {
		strokeLine(gtx, cam, pts[len(pts)-1], cursor, 1, ColorPreview)
		fillCircle(gtx, cam, pts[0], 4, ColorPreview)
	}
}

func fillRing(gtx layout.Context, cam *Camera, ring []geom.Point, col color.NRGBA) {
	if len(ring) < 3 {
		return
	}
	var path clip.Path
	path.Begin(gtx.Ops)
	x, y := cam.WorldToScreen(ring[0])
	path.MoveTo(f32.Pt(float32(x), float32(y)))
	for _, p := range ring[1:] {
		x, y = cam.WorldToScreen(p)
		path.LineTo(f32.Pt(float32(x), float32(y)))
	}
	path.Close()
	paint.FillShape(gtx.Ops, col, clip.Outline{Path: path.End()}.Op())
}

func strokeRing(gtx layout.Context, cam *Camera, ring []geom.Point, width float32, col color.NRGBA) {
	if len(ring) < 2 {
		return
	}
	var path clip.Path
	path.Begin(gtx.Ops)
	x, y := cam.WorldToScreen(ring[0])
	path.MoveTo(f32.Pt(float32(x), float32(y)))
	for _, p := range ring[1:] {
		x, y = cam.WorldToScreen(p)
		path.LineTo(f32.Pt(float32(x), float32(y)))
	}
	path.Close()
	paint.FillShape(gtx.Ops, col, clip.Stroke{Path: path.End(), Width: width}.Op())
}

func strokeLine(gtx layout.Context, cam *Camera, a, b geom.Point, width float32, col color.NRGBA) {
	var path clip.Path
	path.Begin(gtx.Ops)
	x, y := cam.WorldToScreen(a)
	path.MoveTo(f32.Pt(float32(x), float32(y)))
	x, y = cam.WorldToScreen(b)
	path.LineTo(f32.Pt(float32(x), float32(y)))
	paint.FillShape(gtx.Ops, col, clip.Stroke{Path: path.End(), Width: width}.Op())
}

// fillCircle draws a screen-space circle of radius r pixels at a world
// position. Handles and markers keep a constant pixel size across zoom.
func fillCircle(gtx layout.Context, cam *Camera, center geom.Point, r float32, col color.NRGBA) {
	x, y := cam.WorldToScreen(center)
	rect := image.Rect(int(float32(x)-r), int(float32(y)-r), int(float32(x)+r), int(float32(y)+r))
	paint.FillShape(gtx.Ops, col, clip.Ellipse(rect).Op(gtx.Ops))
}

func strokeCircle(gtx layout.Context, cam *Camera, center geom.Point, r, width float32, col color.NRGBA) {
	x, y := cam.WorldToScreen(center)
	rect := image.Rect(int(float32(x)-r), int(float32(y)-r), int(float32(x)+r), int(float32(y)+r))
	paint.FillShape(gtx.Ops, col, clip.Stroke{Path: clip.Ellipse(rect).Path(gtx.Ops), Width: width}.Op())
}
