// Package corner resolves the offset-boundary geometry where two walls meet
// at a shared node. Naive mitering alone produces unbounded spikes on acute
// angles, so every joint is classified miter, trim or flat, and every branch
// re-validates intersection existence and corner width before returning.
package corner

import (
	"fmt"
	"math"

	"github.com/PlanLab/plancad/pkg/geom"
	"github.com/PlanLab/plancad/pkg/plan"
)

// Mode classifies how a joint side is closed.
type Mode int

const (
	// ModeMiter uses the full offset-line intersection.
	ModeMiter Mode = iota
	// ModeTrim pulls the intersection back toward the node.
	ModeTrim
	// ModeFlat bevels the joint with no far intersection.
	ModeFlat
)

var modeNames = map[Mode]string{
	ModeMiter: "miter",
	ModeTrim:  "trim",
	ModeFlat:  "flat",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Policy holds the classification thresholds. Angles are in degrees, ratios
// are multiples of nominal wall thickness.
type Policy struct {
	TrimStartAngleDeg   float64
	FlatAngleDeg        float64
	TrimStartMiterRatio float64
	FlatMiterRatio      float64
	MinTrimFactor       float64
}

// DefaultPolicy returns the editor's stock corner policy.
func DefaultPolicy() Policy {
	return Policy{
		TrimStartAngleDeg:   30,
		FlatAngleDeg:        72,
		TrimStartMiterRatio: 2.2,
		FlatMiterRatio:      3.6,
		MinTrimFactor:       0.55,
	}
}

// Validate normalizes degenerate threshold combinations in place.
func (p *Policy) Validate() error {
	if p.FlatAngleDeg <= 0 {
		p.FlatAngleDeg = 72
	}
	if p.TrimStartAngleDeg <= 0 {
		p.TrimStartAngleDeg = 30
	}
	if p.TrimStartMiterRatio <= 0 {
		p.TrimStartMiterRatio = 2.2
	}
	if p.FlatMiterRatio <= p.TrimStartMiterRatio {
		p.FlatMiterRatio = p.TrimStartMiterRatio + 1.4
	}
	if p.MinTrimFactor <= 0 || p.MinTrimFactor > 1 {
		p.MinTrimFactor = 0.55
	}
	return nil
}

// minWidthFactor forces a flat joint when the resolved corner width drops
// below this fraction of nominal thickness.
const minWidthFactor = 0.55

// Seed describes one wall's endpoint at the shared node.
type Seed struct {
	Node          geom.Point
	Direction     geom.Point // unit vector from the node into the wall
	HalfThickness float64
}

// SeedFromWall builds the seed for the wall end touching the node. atStart
// selects which wall endpoint sits at the node.
func SeedFromWall(w plan.Wall, atStart bool) Seed {
	dir := w.Direction()
	node := w.Start
	if !atStart {
		dir = dir.Scale(-1)
		node = w.End
	}
	return Seed{
		Node:          node,
		Direction:     dir,
		HalfThickness: w.Thickness / 2,
	}
}

// SideJoint is the resolved geometry for one boundary side of the joint.
type SideJoint struct {
	Mode Mode
	// Joint is the meeting point of the two offset lines, valid for miter
	// and trim joints.
	Joint geom.Point
	// EndA and EndB are the per-wall offset cut points at the node; a flat
	// joint bevels from EndA to EndB.
	EndA geom.Point
	EndB geom.Point
}

// Corner is the resolved joint geometry for two walls meeting at a node.
// Inner is the side inside the wedge between the walls, Outer the opposite
// side.
type Corner struct {
	Mode              Mode // the stricter of the two side modes
	EffectiveAngleDeg float64
	SpikeRatio        float64
	Inner             SideJoint
	Outer             SideJoint
}

// Resolve computes the joint geometry for two wall endpoint seeds meeting at
// a shared node. Degenerate inputs (zero directions, near-parallel offset
// lines) are expected and resolve to flat joints, never an error.
func Resolve(a, b Seed, policy Policy) Corner {
	policy.Validate()

	nominal := 2 * math.Max(a.HalfThickness, b.HalfThickness)
	eff := effectiveAngleDeg(a.Direction, b.Direction)

	// Degenerate directions cannot seed offset lines; flat is the only
	// safe answer.
	if a.Direction.Length() == 0 || b.Direction.Length() == 0 {
		inner := flatJoint(a, b, bisector(a, b))
		outer := flatJoint(a, b, bisector(a, b).Scale(-1))
		return Corner{Mode: ModeFlat, EffectiveAngleDeg: eff, SpikeRatio: theoreticalRatio(eff), Inner: inner, Outer: outer}
	}

	bis := bisector(a, b)
	innerHit, innerOK := offsetIntersection(a, b, bis)
	outerHit, outerOK := offsetIntersection(a, b, bis.Scale(-1))

	// Safety net: if either side's intersection does not exist the lines
	// are near-parallel; force both sides flat.
	if !innerOK || !outerOK {
		return Corner{
			Mode:              ModeFlat,
			EffectiveAngleDeg: eff,
			SpikeRatio:        theoreticalRatio(eff),
			Inner:             flatJoint(a, b, bis),
			Outer:             flatJoint(a, b, bis.Scale(-1)),
		}
	}

	// Spike ratio: measured offset intersection distance over nominal
	// thickness, with the theoretical miter ratio folded in as a floor.
	measured := math.Max(innerHit.Distance(a.Node), outerHit.Distance(a.Node)) / nominal
	ratio := math.Max(measured, theoreticalRatio(eff))

	mode := classify(eff, ratio, policy)

	c := Corner{Mode: mode, EffectiveAngleDeg: eff, SpikeRatio: ratio}
	switch mode {
	case ModeMiter:
		c.Inner = SideJoint{Mode: ModeMiter, Joint: innerHit}
		c.Outer = SideJoint{Mode: ModeMiter, Joint: outerHit}
	case ModeTrim:
		factor := trimFactor(eff, ratio, policy)
		c.Inner = SideJoint{Mode: ModeTrim, Joint: pullBack(a.Node, innerHit, factor)}
		c.Outer = SideJoint{Mode: ModeTrim, Joint: pullBack(a.Node, outerHit, factor)}
	case ModeFlat:
		// The side whose bevel sits farther from the node takes the
		// flat edge; pinching the outer corner looks worse than a long
		// inner cut.
		c.Inner = flatJoint(a, b, bis)
		c.Outer = flatJoint(a, b, bis.Scale(-1))
	}

	// Width safety net: a joint whose resolved width collapses below 55%
	// of nominal thickness is forced flat regardless of angle.
	if mode != ModeFlat {
		width := c.Inner.resolvedPoint().Distance(c.Outer.resolvedPoint())
		if width < minWidthFactor*nominal {
			c.Mode = ModeFlat
			c.Inner = flatJoint(a, b, bis)
			c.Outer = flatJoint(a, b, bis.Scale(-1))
		}
	}
	return c
}

func (s SideJoint) resolvedPoint() geom.Point {
	if s.Mode == ModeFlat {
		return s.EndA.Lerp(s.EndB, 0.5)
	}
	return s.Joint
}

// effectiveAngleDeg returns the angle between the outward wall directions in
// [0, 180] degrees. Reflex corners mirror onto their convex equivalent, so
// convex/concave corners classify identically.
func effectiveAngleDeg(da, db geom.Point) float64 {
	da, db = da.Normalize(), db.Normalize()
	dot := math.Max(-1, math.Min(1, da.Dot(db)))
	return math.Acos(dot) * 180 / math.Pi
}

// theoreticalRatio is the ideal miter ratio 1/(2·sin(angle/2)); the spike
// ratio never reports below it.
func theoreticalRatio(effDeg float64) float64 {
	s := math.Sin(effDeg / 2 * math.Pi / 180)
	if s < 1e-9 {
		return math.Inf(1)
	}
	return 1 / (2 * s)
}

// bisector returns the unit vector into the wedge between the two outward
// directions; the inner side of the joint lies along it.
func bisector(a, b Seed) geom.Point {
	sum := a.Direction.Normalize().Add(b.Direction.Normalize())
	if sum.Length() < 1e-9 {
		// Straight continuation: pick an arbitrary but stable side.
		return a.Direction.Perp().Normalize()
	}
	return sum.Normalize()
}

// offsetIntersection intersects the two walls' offset lines on the side of
// the given wedge direction.
func offsetIntersection(a, b Seed, side geom.Point) (geom.Point, bool) {
	la, ok := offsetLine(a, side)
	if !ok {
		return geom.Point{}, false
	}
	lb, ok := offsetLine(b, side)
	if !ok {
		return geom.Point{}, false
	}
	return geom.LineIntersection(la, lb)
}

// offsetLine returns the boundary line of the seeded wall on the side of the
// joint indicated by side.
func offsetLine(s Seed, side geom.Point) (geom.Segment, bool) {
	if s.Direction.Length() == 0 {
		return geom.Segment{}, false
	}
	n := s.Direction.Perp().Normalize()
	if n.Dot(side) < 0 {
		n = n.Scale(-1)
	}
	origin := s.Node.Add(n.Scale(s.HalfThickness))
	return geom.Segment{A: origin, B: origin.Add(s.Direction)}, true
}

// flatJoint bevels the joint on the given side: each wall's boundary is cut
// perpendicular at the node.
func flatJoint(a, b Seed, side geom.Point) SideJoint {
	end := func(s Seed) geom.Point {
		if s.Direction.Length() == 0 {
			return s.Node
		}
		n := s.Direction.Perp().Normalize()
		if n.Dot(side) < 0 {
			n = n.Scale(-1)
		}
		return s.Node.Add(n.Scale(s.HalfThickness))
	}
	return SideJoint{Mode: ModeFlat, EndA: end(a), EndB: end(b)}
}

func classify(effDeg, ratio float64, p Policy) Mode {
	if effDeg <= p.FlatAngleDeg || ratio >= p.FlatMiterRatio {
		return ModeFlat
	}
	if effDeg <= p.TrimStartAngleDeg || ratio >= p.TrimStartMiterRatio {
		return ModeTrim
	}
	return ModeMiter
}

// trimFactor interpolates the pull-back factor by trim severity: a joint
// just past the trim threshold keeps most of its miter, one approaching the
// flat threshold is pulled down to the MinTrimFactor floor.
func trimFactor(effDeg, ratio float64, p Policy) float64 {
	severity := 0.0
	if span := p.FlatMiterRatio - p.TrimStartMiterRatio; span > 0 && ratio > p.TrimStartMiterRatio {
		severity = math.Max(severity, (ratio-p.TrimStartMiterRatio)/span)
	}
	if span := p.TrimStartAngleDeg - p.FlatAngleDeg; span > 0 && effDeg < p.TrimStartAngleDeg {
		severity = math.Max(severity, (p.TrimStartAngleDeg-effDeg)/span)
	}
	if severity > 1 {
		severity = 1
	}
	factor := 1 - severity*(1-p.MinTrimFactor)
	if factor < p.MinTrimFactor {
		factor = p.MinTrimFactor
	}
	return factor
}

func pullBack(node, hit geom.Point, factor float64) geom.Point {
	return node.Add(hit.Sub(node).Scale(factor))
}
