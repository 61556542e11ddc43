package scene

import (
	"github.com/Faultbox/shadow2d/internal/engine/shadow"
	"github.com/Faultbox/shadow2d/pkg/math"
)

// GetBounds implements shadow.BoundProvider.
func (b *Box) GetBounds() shadow.AABB {
	return shadow.AABB{
		Min: math.Vec3{X: b.Min[0], Y: b.Min[1]},
		Max: math.Vec3{X: b.Max[0], Y: b.Max[1]},
	}
}

// ProvideOutline implements caster.ShapeProvider.
func (o *OutlineSpec) ProvideOutline() ([]math.Vec2, shadow.Topology) {
	topology := shadow.OpenPolyline
	if o.Closed {
		topology = shadow.ClosedLoop
	}
	points := make([]math.Vec2, len(o.Points))
	for i, p := range o.Points {
		points[i] = math.Vec2{X: p[0], Y: p[1]}
	}
	return points, topology
}
