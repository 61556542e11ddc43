package shadow

import (
	gomath "math"

	"github.com/Faultbox/shadow2d/pkg/math"
)

// EnclosingSphere returns the minimal circle around pts on the z=0 plane.
// It runs Welzl's incremental construction in input order, so the result is
// deterministic. Fewer than two points yield a zero sphere at the origin.
func EnclosingSphere(pts []math.Vec2) BoundingSphere {
	if len(pts) < 2 {
		return BoundingSphere{}
	}

	c := circle{x: float64(pts[0].X), y: float64(pts[0].Y)}
	for i := 1; i < len(pts); i++ {
		if c.contains(pts[i]) {
			continue
		}
		c = circle{x: float64(pts[i].X), y: float64(pts[i].Y)}
		for j := 0; j < i; j++ {
			if c.contains(pts[j]) {
				continue
			}
			c = diameter(pts[i], pts[j])
			for k := 0; k < j; k++ {
				if !c.contains(pts[k]) {
					c = circumcircle(pts[i], pts[j], pts[k])
				}
			}
		}
	}

	return BoundingSphere{
		Center: math.Vec3{X: float32(c.x), Y: float32(c.y)},
		Radius: float32(c.r),
	}
}

type circle struct {
	x, y, r float64
}

func (c circle) contains(p math.Vec2) bool {
	dx := float64(p.X) - c.x
	dy := float64(p.Y) - c.y
	return gomath.Sqrt(dx*dx+dy*dy) <= c.r*(1+1e-9)+1e-6
}

func diameter(a, b math.Vec2) circle {
	ax, ay := float64(a.X), float64(a.Y)
	bx, by := float64(b.X), float64(b.Y)
	return circle{
		x: (ax + bx) / 2,
		y: (ay + by) / 2,
		r: gomath.Hypot(ax-bx, ay-by) / 2,
	}
}

func circumcircle(a, b, c math.Vec2) circle {
	ax, ay := float64(a.X), float64(a.Y)
	bx, by := float64(b.X)-ax, float64(b.Y)-ay
	cx, cy := float64(c.X)-ax, float64(c.Y)-ay

	d := 2 * (bx*cy - by*cx)
	if gomath.Abs(d) < 1e-12 {
		// Collinear: the widest pair spans the others.
		best := diameter(a, b)
		for _, cand := range []circle{diameter(a, c), diameter(b, c)} {
			if cand.r > best.r {
				best = cand
			}
		}
		return best
	}

	b2 := bx*bx + by*by
	c2 := cx*cx + cy*cy
	ux := (cy*b2 - by*c2) / d
	uy := (bx*c2 - cx*b2) / d
	return circle{x: ax + ux, y: ay + uy, r: gomath.Hypot(ux, uy)}
}
