package geom

import "math"

// Segment is the closed line segment from A to B.
type Segment struct {
	A Point
	B Point
}

// Length returns the segment length.
func (s Segment) Length() float64 {
	return s.A.Distance(s.B)
}

// Direction returns the unit vector from A toward B, or the zero vector for
// a degenerate segment.
func (s Segment) Direction() Point {
	return s.B.Sub(s.A).Normalize()
}

// PointAt returns the point at parameter t, with t=0 at A and t=1 at B.
func (s Segment) PointAt(t float64) Point {
	return s.A.Lerp(s.B, t)
}

// Midpoint returns the segment midpoint.
func (s Segment) Midpoint() Point {
	return s.PointAt(0.5)
}

// ClosestParam returns the parameter of the point on the segment closest to
// p, clamped to [0, 1]. A degenerate segment yields 0.
func (s Segment) ClosestParam(p Point) float64 {
	d := s.B.Sub(s.A)
	lenSq := d.Dot(d)
	if lenSq == 0 {
		return 0
	}
	t := p.Sub(s.A).Dot(d) / lenSq
	return math.Max(0, math.Min(1, t))
}

// ClosestPoint returns the point on the segment closest to p.
func (s Segment) ClosestPoint(p Point) Point {
	return s.PointAt(s.ClosestParam(p))
}

// DistanceTo returns the distance from p to the segment.
func (s Segment) DistanceTo(p Point) float64 {
	return p.Distance(s.ClosestPoint(p))
}

// Bounds returns the axis-aligned bounding box of the segment.
func (s Segment) Bounds() BoundingBox {
	bb := NewBoundingBox()
	bb.Expand(s.A)
	bb.Expand(s.B)
	return bb
}

// LineIntersection intersects the infinite lines through a and b. It returns
// false when the lines are parallel or either segment is degenerate; callers
// treat a missing intersection as expected input, not an error.
func LineIntersection(a, b Segment) (Point, bool) {
	da := a.B.Sub(a.A)
	db := b.B.Sub(b.A)
	denom := da.Cross(db)
	if math.Abs(denom) < 1e-12 {
		return Point{}, false
	}
	t := b.A.Sub(a.A).Cross(db) / denom
	return a.A.Add(da.Scale(t)), true
}

// SegmentIntersection intersects two closed segments. On success it returns
// the intersection point and the parameters along each segment, both in
// [0, 1]. Parallel, degenerate and non-overlapping cases return false.
func SegmentIntersection(a, b Segment) (Point, float64, float64, bool) {
	da := a.B.Sub(a.A)
	db := b.B.Sub(b.A)
	denom := da.Cross(db)
	if math.Abs(denom) < 1e-12 {
		return Point{}, 0, 0, false
	}
	diff := b.A.Sub(a.A)
	t := diff.Cross(db) / denom
	u := diff.Cross(da) / denom
	const eps = 1e-9
	if t < -eps || t > 1+eps || u < -eps || u > 1+eps {
		return Point{}, 0, 0, false
	}
	t = math.Max(0, math.Min(1, t))
	u = math.Max(0, math.Min(1, u))
	return a.A.Add(da.Scale(t)), t, u, true
}

// Collinear reports whether segment b lies on the infinite line through a,
// within tol of perpendicular distance at both of b's endpoints.
func Collinear(a, b Segment, tol float64) bool {
	dir := a.Direction()
	if dir.Length() == 0 {
		return false
	}
	for _, p := range []Point{b.A, b.B} {
		// Perpendicular distance from p to the line through a.
		d := math.Abs(dir.Cross(p.Sub(a.A)))
		if d > tol {
			return false
		}
	}
	return true
}
