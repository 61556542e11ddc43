package shadow

import (
	gomath "math"

	"github.com/Faultbox/shadow2d/pkg/math"
)

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min math.Vec3
	Max math.Vec3
}

// NewAABB creates a box from its center and full size.
func NewAABB(center, size math.Vec3) AABB {
	half := size.Scale(0.5)
	return AABB{Min: center.Sub(half), Max: center.Add(half)}
}

// Center returns the center point of the AABB.
func (b AABB) Center() math.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Extents returns the half-size of the AABB.
func (b AABB) Extents() math.Vec3 {
	return b.Max.Sub(b.Min).Scale(0.5)
}

// Radius returns the distance from center to corner (half-diagonal).
func (b AABB) Radius() float32 {
	e := b.Extents()
	return sqrt32(e.LengthSq())
}

// BoundProvider exposes a world-space box, typically a renderer or collider.
type BoundProvider interface {
	GetBounds() AABB
}

// DefaultPath builds the rectangle used when a caster has no outline yet.
// Corners come from bounds (world space) mapped into the caster's descaled
// local space, so the outline stays correct if the scale changes later.
// Without bounds a unit box at position is used. A zero or non-finite scale
// collapses the outline onto the position instead of dividing by zero.
func DefaultPath(bounds *AABB, position, lossyScale math.Vec3) []math.Vec2 {
	b := NewAABB(position, math.One)
	if bounds != nil {
		b = *bounds
	}

	inverseScale := math.Vec2{}
	relOffset := position.XY()

	if validScale(lossyScale.X) && validScale(lossyScale.Y) {
		inverseScale = math.Vec2{X: 1 / lossyScale.X, Y: 1 / lossyScale.Y}
		relOffset = math.Vec2{X: inverseScale.X * -position.X, Y: inverseScale.Y * -position.Y}
	}

	corner := func(x, y float32) math.Vec2 {
		return relOffset.Add(math.Vec2{X: inverseScale.X * x, Y: inverseScale.Y * y})
	}

	return []math.Vec2{
		corner(b.Min.X, b.Min.Y),
		corner(b.Min.X, b.Max.Y),
		corner(b.Max.X, b.Max.Y),
		corner(b.Max.X, b.Min.Y),
	}
}

func validScale(s float32) bool {
	f := float64(s)
	return s != 0 && !gomath.IsNaN(f) && !gomath.IsInf(f, 0)
}

// sqrt32 returns the square root of a float32.
func sqrt32(x float32) float32 {
	return float32(gomath.Sqrt(float64(x)))
}

// abs32 returns the absolute value of a float32.
func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
