package caster

import (
	gomath "math"

	"github.com/Faultbox/shadow2d/pkg/math"
)

// Transform is the owning object's world placement.
type Transform struct {
	Position math.Vec3
	Rotation math.Quat
	// Scale is the lossy world scale, possibly non-uniform.
	Scale math.Vec3
}

// IdentityTransform returns a transform at the origin with unit scale.
func IdentityTransform() Transform {
	return Transform{Rotation: math.QuatIdentity(), Scale: math.One}
}

// At returns an identity transform moved to pos.
func At(x, y float32) Transform {
	t := IdentityTransform()
	t.Position = math.Vec3{X: x, Y: y}
	return t
}

// Degenerate reports whether the scale cannot be inverted along X or Y.
func (t Transform) Degenerate() bool {
	s := t.Scale
	return s.X == 0 || s.Y == 0 || !s.IsFinite()
}

// finiteScale returns the scale with NaN and infinite components flattened
// to 0, so a degenerate transform collapses geometry onto the position.
func (t Transform) finiteScale() math.Vec3 {
	flat := func(f float32) float32 {
		if gomath.IsNaN(float64(f)) || gomath.IsInf(float64(f), 0) {
			return 0
		}
		return f
	}
	s := t.Scale
	return math.Vec3{X: flat(s.X), Y: flat(s.Y), Z: flat(s.Z)}
}
