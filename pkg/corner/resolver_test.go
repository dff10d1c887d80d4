package corner

import (
	"math"
	"testing"

	"github.com/PlanLab/plancad/pkg/geom"
	"github.com/PlanLab/plancad/pkg/plan"
)

// seedPair builds two seeds meeting at the origin: one along +X, one at the
// given angle, both with the given half thickness.
func seedPair(angleDeg, halfThickness float64) (Seed, Seed) {
	a := Seed{Direction: geom.Point{X: 1, Y: 0}, HalfThickness: halfThickness}
	b := Seed{Direction: geom.FromAngle(angleDeg * math.Pi / 180), HalfThickness: halfThickness}
	return a, b
}

func TestRightAngleMiters(t *testing.T) {
	a, b := seedPair(90, 50)
	c := Resolve(a, b, DefaultPolicy())

	if c.Mode != ModeMiter {
		t.Fatalf("mode = %s, want miter", c.Mode)
	}
	want := 1 / (2 * math.Sin(45*math.Pi/180)) // ≈ 0.707
	if math.Abs(c.SpikeRatio-want) > 1e-3 {
		t.Fatalf("spike ratio = %v, want ~%v", c.SpikeRatio, want)
	}
	if !c.Inner.Joint.Near(geom.Point{X: 50, Y: 50}, 1e-6) {
		t.Fatalf("inner joint = %+v, want (50,50)", c.Inner.Joint)
	}
	if !c.Outer.Joint.Near(geom.Point{X: -50, Y: -50}, 1e-6) {
		t.Fatalf("outer joint = %+v, want (-50,-50)", c.Outer.Joint)
	}
}

func TestAcuteAngleGoesFlat(t *testing.T) {
	a, b := seedPair(10, 50)
	c := Resolve(a, b, DefaultPolicy())

	if c.Mode != ModeFlat {
		t.Fatalf("mode = %s, want flat for a 10° joint", c.Mode)
	}
	if math.Abs(c.EffectiveAngleDeg-10) > 1e-6 {
		t.Fatalf("effective angle = %v, want 10", c.EffectiveAngleDeg)
	}
}

func TestAsymmetricShallowJointTrims(t *testing.T) {
	// A thin wall meeting a thick wall at a shallow 170°: the offset lines
	// are nearly parallel, the intersection lands far out, and the joint
	// must be trimmed back toward the node.
	a := Seed{Direction: geom.Point{X: 1, Y: 0}, HalfThickness: 50}
	b := Seed{Direction: geom.FromAngle(170 * math.Pi / 180), HalfThickness: 300}
	c := Resolve(a, b, DefaultPolicy())

	if c.Mode != ModeTrim {
		t.Fatalf("mode = %s (ratio %v), want trim", c.Mode, c.SpikeRatio)
	}
	if c.SpikeRatio < DefaultPolicy().TrimStartMiterRatio {
		t.Fatalf("spike ratio = %v, want at least the trim threshold", c.SpikeRatio)
	}

	// The trimmed joint sits between the trim floor and the full miter
	// intersection.
	innerHit, ok := offsetIntersection(a, b, bisector(a, b))
	if !ok {
		t.Fatalf("expected an inner offset intersection")
	}
	full := innerHit.Distance(a.Node)
	trimmed := c.Inner.Joint.Distance(a.Node)
	if trimmed >= full {
		t.Fatalf("trim did not pull the joint back: %v >= %v", trimmed, full)
	}
	if trimmed < DefaultPolicy().MinTrimFactor*full-1e-6 {
		t.Fatalf("trim overshot the floor: %v < %v", trimmed, DefaultPolicy().MinTrimFactor*full)
	}
}

func TestCollinearContinuationIsFlat(t *testing.T) {
	// A straight continuation has no offset intersection at all; both sides
	// must fall back to flat rather than error.
	a := Seed{Direction: geom.Point{X: 1, Y: 0}, HalfThickness: 75}
	b := Seed{Direction: geom.Point{X: -1, Y: 0}, HalfThickness: 75}
	c := Resolve(a, b, DefaultPolicy())

	if c.Mode != ModeFlat {
		t.Fatalf("mode = %s, want flat for collinear walls", c.Mode)
	}
	if c.Inner.Mode != ModeFlat || c.Outer.Mode != ModeFlat {
		t.Fatalf("sides = %s/%s, want flat/flat", c.Inner.Mode, c.Outer.Mode)
	}
}

func TestZeroDirectionIsFlat(t *testing.T) {
	a := Seed{Direction: geom.Point{}, HalfThickness: 75}
	b := Seed{Direction: geom.Point{X: 0, Y: 1}, HalfThickness: 75}
	if c := Resolve(a, b, DefaultPolicy()); c.Mode != ModeFlat {
		t.Fatalf("mode = %s, want flat for a degenerate seed", c.Mode)
	}
}

func TestClassificationIsMonotonicOverAngle(t *testing.T) {
	// Sweeping the joint from nearly straight to nearly closed must walk
	// miter → trim → flat without ever reversing.
	rank := func(m Mode) int {
		switch m {
		case ModeMiter:
			return 0
		case ModeTrim:
			return 1
		case ModeFlat:
			return 2
		}
		t.Fatalf("unknown mode %v", m)
		return -1
	}

	prev := -1
	for deg := 179.0; deg >= 1; deg -= 1 {
		a, b := seedPair(deg, 50)
		c := Resolve(a, b, DefaultPolicy())
		r := rank(c.Mode)
		if r < prev {
			t.Fatalf("classification reversed at %v°: %s", deg, c.Mode)
		}
		prev = r
	}
}

func TestSeedFromWall(t *testing.T) {
	w := plan.NewWall(geom.Point{X: 100, Y: 200}, geom.Point{X: 1100, Y: 200}, 200)

	s := SeedFromWall(w, true)
	if !s.Node.Near(w.Start, 1e-9) || !s.Direction.Near(geom.Point{X: 1, Y: 0}, 1e-9) {
		t.Fatalf("start seed = %+v", s)
	}
	if s.HalfThickness != w.Thickness/2 {
		t.Fatalf("half thickness = %v, want %v", s.HalfThickness, w.Thickness/2)
	}

	s = SeedFromWall(w, false)
	if !s.Node.Near(w.End, 1e-9) || !s.Direction.Near(geom.Point{X: -1, Y: 0}, 1e-9) {
		t.Fatalf("end seed = %+v", s)
	}
}
