package geom

import (
	"math"
	"testing"
)

func almostEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func TestSegmentIntersection(t *testing.T) {
	cases := []struct {
		name  string
		a, b  Segment
		want  Point
		hit   bool
		tWant float64
	}{
		{
			name:  "perpendicular cross",
			a:     Segment{A: Point{0, 0}, B: Point{10, 0}},
			b:     Segment{A: Point{5, -5}, B: Point{5, 5}},
			want:  Point{5, 0},
			hit:   true,
			tWant: 0.5,
		},
		{
			name: "parallel",
			a:    Segment{A: Point{0, 0}, B: Point{10, 0}},
			b:    Segment{A: Point{0, 1}, B: Point{10, 1}},
			hit:  false,
		},
		{
			name: "lines cross but segments do not",
			a:    Segment{A: Point{0, 0}, B: Point{10, 0}},
			b:    Segment{A: Point{20, -5}, B: Point{20, 5}},
			hit:  false,
		},
		{
			name:  "endpoint touch",
			a:     Segment{A: Point{0, 0}, B: Point{10, 0}},
			b:     Segment{A: Point{10, 0}, B: Point{10, 10}},
			want:  Point{10, 0},
			hit:   true,
			tWant: 1,
		},
	}

	for _, tc := range cases {
		p, tp, _, ok := SegmentIntersection(tc.a, tc.b)
		if ok != tc.hit {
			t.Fatalf("%s: hit = %v, want %v", tc.name, ok, tc.hit)
		}
		if !ok {
			continue
		}
		if !p.Near(tc.want, 1e-9) {
			t.Fatalf("%s: point = %+v, want %+v", tc.name, p, tc.want)
		}
		if !almostEqual(tp, tc.tWant, 1e-9) {
			t.Fatalf("%s: t = %v, want %v", tc.name, tp, tc.tWant)
		}
	}
}

func TestLineIntersectionParallel(t *testing.T) {
	a := Segment{A: Point{0, 0}, B: Point{1, 1}}
	b := Segment{A: Point{0, 1}, B: Point{1, 2}}
	if _, ok := LineIntersection(a, b); ok {
		t.Fatalf("parallel lines reported an intersection")
	}
}

func TestCollinear(t *testing.T) {
	a := Segment{A: Point{0, 0}, B: Point{100, 0}}
	on := Segment{A: Point{40, 0.2}, B: Point{160, -0.3}}
	off := Segment{A: Point{40, 5}, B: Point{160, 5}}

	if !Collinear(a, on, 0.5) {
		t.Fatalf("expected collinear within tolerance")
	}
	if Collinear(a, off, 0.5) {
		t.Fatalf("expected non-collinear beyond tolerance")
	}
}

func TestPolygonMetrics(t *testing.T) {
	// 4000x3000 rectangle, CCW.
	ring := []Point{{0, 0}, {4000, 0}, {4000, 3000}, {0, 3000}}

	if got := SignedArea(ring); !almostEqual(got, 12_000_000, 1e-6) {
		t.Fatalf("SignedArea = %v, want 12000000", got)
	}
	if got := Perimeter(ring); !almostEqual(got, 14_000, 1e-6) {
		t.Fatalf("Perimeter = %v, want 14000", got)
	}
	if got := Centroid(ring); !got.Near(Point{2000, 1500}, 1e-6) {
		t.Fatalf("Centroid = %+v, want (2000,1500)", got)
	}
	if !IsCCW(ring) {
		t.Fatalf("expected CCW ring")
	}
}

func TestContainsPoint(t *testing.T) {
	ring := []Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	if !ContainsPoint(ring, Point{5, 5}) {
		t.Fatalf("interior point reported outside")
	}
	if ContainsPoint(ring, Point{15, 5}) {
		t.Fatalf("exterior point reported inside")
	}
}

func TestClosestParamClamped(t *testing.T) {
	s := Segment{A: Point{0, 0}, B: Point{10, 0}}
	if got := s.ClosestParam(Point{-5, 3}); got != 0 {
		t.Fatalf("ClosestParam before A = %v, want 0", got)
	}
	if got := s.ClosestParam(Point{50, -2}); got != 1 {
		t.Fatalf("ClosestParam past B = %v, want 1", got)
	}
	if got := s.ClosestParam(Point{4, 7}); !almostEqual(got, 0.4, 1e-12) {
		t.Fatalf("ClosestParam = %v, want 0.4", got)
	}
}

func TestBoundingBox(t *testing.T) {
	bb := NewBoundingBox()
	if !bb.IsEmpty() {
		t.Fatalf("new box should be empty")
	}
	bb.Expand(Point{1, 2})
	bb.Expand(Point{-3, 8})
	if bb.Width() != 4 || bb.Height() != 6 {
		t.Fatalf("box size = %v x %v, want 4 x 6", bb.Width(), bb.Height())
	}
	if c := bb.Center(); !c.Near(Point{-1, 5}, 1e-12) {
		t.Fatalf("center = %+v", c)
	}
	if !bb.Intersects(BoxAround(Point{0, 5}, 1)) {
		t.Fatalf("expected intersection")
	}
	if bb.ContainsBox(BoxAround(Point{0, 5}, 10)) {
		t.Fatalf("larger box reported contained")
	}
}
