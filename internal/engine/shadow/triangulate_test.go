package shadow

import (
	"testing"

	"github.com/Faultbox/shadow2d/pkg/math"
)

func trianglesArea(ring []math.Vec2, tris []uint32) float32 {
	var area float32
	for i := 0; i+2 < len(tris); i += 3 {
		a, b, c := ring[tris[i]], ring[tris[i+1]], ring[tris[i+2]]
		area += b.Sub(a).Cross(c.Sub(a)) / 2
	}
	return area
}

func TestTriangulate(t *testing.T) {
	tests := []struct {
		name     string
		ring     []math.Vec2
		wantTris int
		wantArea float32
	}{
		{"square clockwise", unitSquare, 2, 4},
		{"triangle", []math.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}}, 1, 0.5},
		{"concave L", []math.Vec2{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 2}, {X: 0, Y: 2}}, 4, 3},
		{"duplicate vertices", []math.Vec2{{X: 0, Y: 0}, {X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}, {X: 0, Y: 0}}, 2, 1},
		{"collinear", []math.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}}, 0, 0},
		{"too few", []math.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tris := Triangulate(tt.ring)
			if len(tris)/3 != tt.wantTris {
				t.Fatalf("triangles = %d, want %d", len(tris)/3, tt.wantTris)
			}
			if area := trianglesArea(tt.ring, tris); !near(area, tt.wantArea) {
				t.Errorf("covered area = %v, want %v", area, tt.wantArea)
			}
		})
	}
}
