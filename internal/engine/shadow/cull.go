package shadow

// IsLit reports whether a caster sphere overlaps a light sphere. Both must be
// in the same space. The test is conservative: spheres over-approximate the
// real shapes, so it may report overlap that isn't there but never misses one.
func IsLit(caster, light BoundingSphere) bool {
	d := light.Center.Sub(caster.Center)
	radii := light.Radius + caster.Radius
	return d.LengthSq() <= radii*radii
}
