package shadow

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/shadow2d/pkg/math"
)

func TestContractSquare(t *testing.T) {
	tests := []struct {
		name string
		path []math.Vec2
	}{
		{"clockwise", unitSquare},
		{"counter-clockwise", []math.Vec2{{X: -1, Y: -1}, {X: 1, Y: -1}, {X: 1, Y: 1}, {X: -1, Y: 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Contract(BuildShape(tt.path, ClosedLoop), 0.5, DefaultMiterLimit)
			for i, p := range got {
				want := tt.path[i].Scale(0.5)
				if !nearVec(p, want) {
					t.Errorf("vertex %d = %v, want %v", i, p, want)
				}
			}
		})
	}
}

func TestContractClampsToHalfEdge(t *testing.T) {
	got := Contract(BuildShape(unitSquare, ClosedLoop), 5, DefaultMiterLimit)

	// Corner travel is limited to half the 2-unit edge.
	step := float32(1 / gomath.Sqrt2)
	want := math.Vec2{X: -1 + step, Y: -1 + step}
	if !nearVec(got[0], want) {
		t.Errorf("vertex 0 = %v, want %v", got[0], want)
	}
	for i, p := range got {
		// Never crosses the center of the square.
		if p.X*unitSquare[i].X < 0 || p.Y*unitSquare[i].Y < 0 {
			t.Errorf("vertex %d crossed the interior: %v", i, p)
		}
	}
}

func TestContractMiterLimit(t *testing.T) {
	// Thin spike: the tip's miter distance would be far larger than 2x.
	spike := []math.Vec2{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 0.5}}
	got := Contract(BuildShape(spike, ClosedLoop), 0.1, 2)

	for i, p := range got {
		if moved := p.Distance(spike[i]); moved > 0.2+1e-4 {
			t.Errorf("vertex %d moved %v, limit is 0.2", i, moved)
		}
	}
}

func TestContractConcave(t *testing.T) {
	l := []math.Vec2{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 2}, {X: 0, Y: 2}}
	got := Contract(BuildShape(l, ClosedLoop), 0.1, DefaultMiterLimit)

	// Reflex corner moves diagonally out of the notch.
	if !nearVec(got[3], math.Vec2{X: 0.9, Y: 0.9}) {
		t.Errorf("reflex vertex = %v, want (0.9, 0.9)", got[3])
	}
	if !nearVec(got[0], math.Vec2{X: 0.1, Y: 0.1}) {
		t.Errorf("convex vertex = %v, want (0.1, 0.1)", got[0])
	}
}

func TestContractNoop(t *testing.T) {
	tests := []struct {
		name     string
		path     []math.Vec2
		topology Topology
		distance float32
	}{
		{"open polyline", unitSquare, OpenPolyline, 0.5},
		{"zero distance", unitSquare, ClosedLoop, 0},
		{"negative distance", unitSquare, ClosedLoop, -1},
		{"nan distance", unitSquare, ClosedLoop, float32(gomath.NaN())},
		{"inf distance", unitSquare, ClosedLoop, float32(gomath.Inf(1))},
		{"collinear ring", []math.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}}, ClosedLoop, 0.5},
		{"segment", []math.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}}, ClosedLoop, 0.5},
		{"self-intersecting", []math.Vec2{{X: 0, Y: 0}, {X: 4, Y: 2}, {X: 4, Y: 0}, {X: 0, Y: 3}}, ClosedLoop, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Contract(BuildShape(tt.path, tt.topology), tt.distance, DefaultMiterLimit)
			for i := range got {
				if got[i] != tt.path[i] {
					t.Errorf("vertex %d moved to %v", i, got[i])
				}
			}
		})
	}
}

// crosses reports whether any two non-adjacent edges of ring properly
// intersect.
func crosses(ring []math.Vec2) bool {
	n := len(ring)
	orient := func(a, b, c math.Vec2) float32 { return b.Sub(a).Cross(c.Sub(a)) }
	for i := 0; i < n; i++ {
		a, b := ring[i], ring[(i+1)%n]
		for j := 0; j < n; j++ {
			if j == i || (j+1)%n == i || (i+1)%n == j {
				continue
			}
			c, d := ring[j], ring[(j+1)%n]
			if orient(a, b, c)*orient(a, b, d) < 0 && orient(c, d, a)*orient(c, d, b) < 0 {
				return true
			}
		}
	}
	return false
}

func TestContractThinParts(t *testing.T) {
	chevron := []math.Vec2{{X: 0, Y: 0}, {X: 5, Y: 4}, {X: 10, Y: 0}, {X: 10, Y: 1}, {X: 5, Y: 5}, {X: 0, Y: 1}}
	comb := []math.Vec2{
		{X: 0, Y: 0}, {X: 5.5, Y: 0}, {X: 5.5, Y: 4}, {X: 5, Y: 4}, {X: 5, Y: 1}, {X: 3, Y: 1}, {X: 3, Y: 4},
		{X: 2.5, Y: 4}, {X: 2.5, Y: 1}, {X: 0.5, Y: 1}, {X: 0.5, Y: 4}, {X: 0, Y: 4},
	}

	tests := []struct {
		name     string
		path     []math.Vec2
		distance float32
	}{
		{"chevron", chevron, 0.6},
		{"comb", comb, 0.3},
		{"comb deep", comb, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Contract(BuildShape(tt.path, ClosedLoop), tt.distance, DefaultMiterLimit)
			before, after := signedArea(tt.path), signedArea(got)

			if before*after <= 0 {
				t.Fatalf("orientation flipped: area %v -> %v", before, after)
			}
			if abs32(after) > abs32(before) {
				t.Errorf("area grew: %v -> %v", before, after)
			}
			if crosses(got) {
				t.Errorf("contracted outline self-intersects: %v", got)
			}

			moved := false
			for i := range got {
				if got[i] != tt.path[i] {
					moved = true
				}
			}
			if !moved {
				t.Error("outline was not contracted at all")
			}

			covered := trianglesArea(got, Triangulate(got))
			if want := abs32(after) / 2; abs32(covered-want) > 1e-3*want {
				t.Errorf("triangulated area = %v, want %v", covered, want)
			}
		})
	}
}
