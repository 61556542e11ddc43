package shadow

import (
	gomath "math"

	"github.com/Faultbox/shadow2d/pkg/math"
)

// DefaultMiterLimit caps a contracted corner's travel at this multiple of the
// contraction distance.
const DefaultMiterLimit = 2

const collinearEpsilon = 1e-6

// maxContractSteps is how many times Contract halves the distance before it
// gives up and returns the outline unchanged.
const maxContractSteps = 8

// Contract offsets every vertex of a closed outline inward by distance.
//
// Each vertex moves along the bisector of its two adjacent inward edge
// normals by distance / cos(θ/2), the miter point of the two offset edges.
// The travel is clamped to miterLimit * distance and to half of the shorter
// adjacent edge.
//
// Corner clamps cannot see how thick the shape is, so the result is then
// checked as a whole: it must keep the outline's orientation, must not grow,
// and must not self-intersect. When the check fails the distance is halved
// and the offset retried, up to maxContractSteps times, after which the
// outline is returned unchanged. Narrow parts therefore contract less than
// requested instead of folding inside out.
//
// Open shapes, shapes with fewer than three vertices, zero-area or
// self-intersecting rings, and non-positive or non-finite distances are
// returned unchanged.
func Contract(s *Shape, distance, miterLimit float32) []math.Vec2 {
	out := append([]math.Vec2(nil), s.Vertices...)
	if !s.Fillable() || !(distance > 0) || gomath.IsInf(float64(distance), 0) {
		return out
	}
	if miterLimit < 1 {
		miterLimit = 1
	}

	area := signedArea(s.Vertices)
	if area == 0 || !isSimple(s.Vertices) {
		return out
	}
	// Interior is left of each edge for counter-clockwise rings.
	side := float32(1)
	if area < 0 {
		side = -1
	}

	for step := 0; step < maxContractSteps; step++ {
		moved := offsetRing(s.Vertices, distance, miterLimit, side)
		a := signedArea(moved)
		if a*side > 0 && abs32(a) <= abs32(area) && isSimple(moved) {
			return moved
		}
		distance /= 2
	}
	return out
}

// offsetRing moves every vertex of ring along its miter direction.
func offsetRing(ring []math.Vec2, distance, miterLimit, side float32) []math.Vec2 {
	out := append([]math.Vec2(nil), ring...)
	for i, cur := range ring {
		prev, okPrev := neighbour(ring, i, -1)
		next, okNext := neighbour(ring, i, 1)
		if !okPrev || !okNext {
			continue
		}

		e1 := cur.Sub(prev)
		e2 := next.Sub(cur)
		l1, l2 := e1.Length(), e2.Length()

		n1 := e1.Scale(side / l1).Perp()
		n2 := e2.Scale(side / l2).Perp()

		dir := n1
		travel := distance
		if bisector := n1.Add(n2); bisector.Length() > collinearEpsilon {
			dir = bisector.Normalize()
			if cosHalf := dir.Dot(n1); cosHalf > collinearEpsilon {
				travel = distance / cosHalf
			} else {
				travel = distance * miterLimit
			}
		}

		travel = min(travel, distance*miterLimit, 0.5*min(l1, l2))
		out[i] = cur.Add(dir.Scale(travel))
	}
	return out
}

// isSimple reports whether no two non-adjacent edges of the closed ring
// cross. Coincident consecutive points are skipped.
func isSimple(ring []math.Vec2) bool {
	pts := distinctRing(ring)
	n := len(pts)
	if n < 3 {
		return false
	}
	for i := 0; i < n; i++ {
		a, b := pts[i], pts[(i+1)%n]
		for j := i + 2; j < n; j++ {
			if i == 0 && j == n-1 {
				continue // shares pts[0]
			}
			if segmentsCross(a, b, pts[j], pts[(j+1)%n]) {
				return false
			}
		}
	}
	return true
}

// segmentsCross reports whether segments ab and cd properly intersect.
func segmentsCross(a, b, c, d math.Vec2) bool {
	d1 := b.Sub(a).Cross(c.Sub(a))
	d2 := b.Sub(a).Cross(d.Sub(a))
	d3 := d.Sub(c).Cross(a.Sub(c))
	d4 := d.Sub(c).Cross(b.Sub(c))
	return d1*d2 < 0 && d3*d4 < 0
}

// distinctRing drops consecutive duplicates, including a closing point equal
// to the first.
func distinctRing(ring []math.Vec2) []math.Vec2 {
	pts := make([]math.Vec2, 0, len(ring))
	for _, p := range ring {
		if len(pts) > 0 && pts[len(pts)-1] == p {
			continue
		}
		pts = append(pts, p)
	}
	if len(pts) > 1 && pts[0] == pts[len(pts)-1] {
		pts = pts[:len(pts)-1]
	}
	return pts
}

// neighbour walks the ring from i in step direction until it finds a vertex
// at a different position.
func neighbour(ring []math.Vec2, i, step int) (math.Vec2, bool) {
	n := len(ring)
	for k := 1; k < n; k++ {
		j := ((i+step*k)%n + n) % n
		if ring[j] != ring[i] {
			return ring[j], true
		}
	}
	return math.Vec2{}, false
}
