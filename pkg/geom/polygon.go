package geom

import "math"

// SignedArea returns the signed area of the polygon via the shoelace
// formula. Counter-clockwise rings yield positive area. The ring is treated
// as closed; the last vertex must not repeat the first.
func SignedArea(ring []Point) float64 {
	n := len(ring)
	if n < 3 {
		return 0
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += ring[i].Cross(ring[j])
	}
	return sum / 2
}

// Area returns the absolute polygon area.
func Area(ring []Point) float64 {
	return math.Abs(SignedArea(ring))
}

// Perimeter returns the closed perimeter length of the ring.
func Perimeter(ring []Point) float64 {
	n := len(ring)
	if n < 2 {
		return 0
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += ring[i].Distance(ring[(i+1)%n])
	}
	return sum
}

// Centroid returns the area centroid of the ring. Degenerate rings (zero
// area) fall back to the vertex average so callers always get a usable
// anchor point.
func Centroid(ring []Point) Point {
	n := len(ring)
	if n == 0 {
		return Point{}
	}
	a := SignedArea(ring)
	if math.Abs(a) < 1e-9 {
		var avg Point
		for _, p := range ring {
			avg = avg.Add(p)
		}
		return avg.Scale(1 / float64(n))
	}
	var c Point
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		cross := ring[i].Cross(ring[j])
		c.X += (ring[i].X + ring[j].X) * cross
		c.Y += (ring[i].Y + ring[j].Y) * cross
	}
	return c.Scale(1 / (6 * a))
}

// IsCCW reports whether the ring winds counter-clockwise.
func IsCCW(ring []Point) bool {
	return SignedArea(ring) > 0
}

// ContainsPoint reports whether p lies inside the ring using the even-odd
// ray casting rule. Points exactly on an edge may land on either side; the
// kernel never depends on that case.
func ContainsPoint(ring []Point, p Point) bool {
	n := len(ring)
	if n < 3 {
		return false
	}
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		vi, vj := ring[i], ring[j]
		if (vi.Y > p.Y) != (vj.Y > p.Y) {
			x := vj.X + (p.Y-vj.Y)/(vi.Y-vj.Y)*(vi.X-vj.X)
			if p.X < x {
				inside = !inside
			}
		}
	}
	return inside
}

// RingBounds returns the axis-aligned bounding box of the ring.
func RingBounds(ring []Point) BoundingBox {
	bb := NewBoundingBox()
	for _, p := range ring {
		bb.Expand(p)
	}
	return bb
}
