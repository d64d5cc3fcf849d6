package force

import (
	"math"
	"testing"
)

func TestCenterForceMovesCentroid(t *testing.T) {
	nodes := []Node{{X: 0, Y: 0, VX: 1}, {X: 10, Y: 20, VY: -1}}
	centerForce{x: 100, y: 100}.apply(nodes)

	cx := (nodes[0].X + nodes[1].X) / 2
	cy := (nodes[0].Y + nodes[1].Y) / 2
	if math.Abs(cx-100) > 1e-9 || math.Abs(cy-100) > 1e-9 {
		t.Errorf("expected centroid (100,100), got (%v,%v)", cx, cy)
	}
	if nodes[1].X-nodes[0].X != 10 || nodes[1].Y-nodes[0].Y != 20 {
		t.Error("centering must not change relative positions")
	}
	if nodes[0].VX != 1 || nodes[1].VY != -1 {
		t.Error("centering must not touch velocities")
	}
}

func TestLinkForceBias(t *testing.T) {
	index := map[string]int{"hub": 0, "a": 1, "b": 2}
	edges := []Edge{{"hub", "a"}, {"hub", "b"}, {"a", "a"}, {"hub", "missing"}}
	f := newLinkForce(edges, index)

	if len(f.source) != 2 {
		t.Fatalf("expected self-loop and unknown edges to be skipped, got %d links", len(f.source))
	}
	// hub has two links, a has one: a moves 2/3 of the correction
	if math.Abs(f.bias[0]-2.0/3) > 1e-12 {
		t.Errorf("expected bias 2/3, got %v", f.bias[0])
	}
}

func TestLinkForcePullsTowardDistance(t *testing.T) {
	index := map[string]int{"a": 0, "b": 1}
	f := newLinkForce([]Edge{{"a", "b"}}, index)
	f.distance, f.strength = 50, 1

	// Too far apart: endpoints pulled together
	nodes := []Node{{X: 0}, {X: 100}}
	f.apply(nodes, 1, noJiggle)
	if nodes[0].VX <= 0 || nodes[1].VX >= 0 {
		t.Errorf("expected attraction, got v0=%v v1=%v", nodes[0].VX, nodes[1].VX)
	}
	// Equal degree: equal and opposite, together closing the gap of 50
	if math.Abs(nodes[0].VX+nodes[1].VX) > 1e-6 || math.Abs(nodes[0].VX-25) > 1e-6 {
		t.Errorf("unexpected velocities v0=%v v1=%v", nodes[0].VX, nodes[1].VX)
	}

	// Too close: endpoints pushed apart
	nodes = []Node{{X: 0}, {X: 10}}
	f.apply(nodes, 1, noJiggle)
	if nodes[0].VX >= 0 || nodes[1].VX <= 0 {
		t.Errorf("expected separation, got v0=%v v1=%v", nodes[0].VX, nodes[1].VX)
	}
}

func TestLinkForceZeroStrengthIsNoop(t *testing.T) {
	f := newLinkForce([]Edge{{"a", "b"}}, map[string]int{"a": 0, "b": 1})
	f.distance = 50
	nodes := []Node{{X: 0}, {X: 100}}
	f.apply(nodes, 1, noJiggle)
	if nodes[0].VX != 0 || nodes[1].VX != 0 {
		t.Error("zero strength must not change velocities")
	}
}

func TestCollideForceSeparatesOverlap(t *testing.T) {
	f := &collideForce{radius: 20, strength: 1}
	nodes := []Node{{X: 0}, {X: 10}, {X: 500}}
	f.apply(nodes, noJiggle)

	// Predicted positions end exactly 2r apart
	gap := (nodes[1].X + nodes[1].VX) - (nodes[0].X + nodes[0].VX)
	if math.Abs(gap-40) > 1e-6 {
		t.Errorf("expected predicted gap 40, got %v", gap)
	}
	if nodes[2].VX != 0 || nodes[2].VY != 0 {
		t.Error("a distant node must not be affected")
	}
}

func TestCollideForceIgnoresSeparatedPairs(t *testing.T) {
	f := &collideForce{radius: 20, strength: 1}
	nodes := []Node{{X: 0}, {X: 41}}
	f.apply(nodes, noJiggle)
	if nodes[0].VX != 0 || nodes[1].VX != 0 {
		t.Error("non-overlapping nodes must not move")
	}
}

func TestManyBodyAlphaScaling(t *testing.T) {
	f := &manyBody{strength: -30}
	a := []Node{{X: 0}, {X: 10}}
	b := []Node{{X: 0}, {X: 10}}
	f.apply(a, 1, noJiggle)
	f.apply(b, 0.5, noJiggle)
	if math.Abs(a[0].VX-2*b[0].VX) > 1e-9 {
		t.Errorf("expected force to scale with alpha, got %v and %v", a[0].VX, b[0].VX)
	}
}

func TestParamsClamp(t *testing.T) {
	p := Params{
		ChargeStrength: -5000,
		LinkStrength:   math.NaN(),
		LinkDistance:   2000,
		CollideRadius:  -1,
	}.Clamp()
	want := Params{ChargeStrength: -1000, LinkStrength: DefaultLinkStrength, LinkDistance: 1000, CollideRadius: 0}
	if p != want {
		t.Errorf("Clamp() = %+v, want %+v", p, want)
	}
	if d := DefaultParams(); d.Clamp() != d {
		t.Error("defaults must be within bounds")
	}
}
