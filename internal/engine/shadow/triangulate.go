package shadow

import "github.com/Faultbox/shadow2d/pkg/math"

// Triangulate fills a simple polygon by ear clipping. It returns
// counter-clockwise index triples into ring. Coincident consecutive vertices
// are skipped. A ring that collapses to zero area yields no triangles.
func Triangulate(ring []math.Vec2) []uint32 {
	idx := make([]int, 0, len(ring))
	for i, p := range ring {
		if len(idx) > 0 && ring[idx[len(idx)-1]] == p {
			continue
		}
		idx = append(idx, i)
	}
	if len(idx) > 1 && ring[idx[0]] == ring[idx[len(idx)-1]] {
		idx = idx[:len(idx)-1]
	}
	if len(idx) < 3 {
		return nil
	}

	pts := make([]math.Vec2, len(idx))
	for i, k := range idx {
		pts[i] = ring[k]
	}
	area := signedArea(pts)
	if abs32(area) <= collinearEpsilon {
		return nil
	}
	// Work counter-clockwise.
	if area < 0 {
		for i, j := 0, len(idx)-1; i < j; i, j = i+1, j-1 {
			idx[i], idx[j] = idx[j], idx[i]
		}
	}

	tris := make([]uint32, 0, (len(idx)-2)*3)
	for len(idx) > 3 {
		clipped := false
		for i := range idx {
			a := idx[(i+len(idx)-1)%len(idx)]
			b := idx[i]
			c := idx[(i+1)%len(idx)]
			if !isEar(ring, idx, a, b, c) {
				continue
			}
			tris = append(tris, uint32(a), uint32(b), uint32(c))
			idx = append(idx[:i], idx[i+1:]...)
			clipped = true
			break
		}
		if !clipped {
			// Self-intersecting or numerically degenerate input; fan the
			// remainder so every vertex is still covered.
			for i := 1; i+1 < len(idx); i++ {
				tris = append(tris, uint32(idx[0]), uint32(idx[i]), uint32(idx[i+1]))
			}
			return tris
		}
	}
	return append(tris, uint32(idx[0]), uint32(idx[1]), uint32(idx[2]))
}

func isEar(ring []math.Vec2, idx []int, a, b, c int) bool {
	pa, pb, pc := ring[a], ring[b], ring[c]
	if pb.Sub(pa).Cross(pc.Sub(pb)) <= 0 {
		return false // reflex or collinear
	}
	for _, k := range idx {
		if k == a || k == b || k == c {
			continue
		}
		if inTriangle(ring[k], pa, pb, pc) {
			return false
		}
	}
	return true
}

func inTriangle(p, a, b, c math.Vec2) bool {
	d1 := b.Sub(a).Cross(p.Sub(a))
	d2 := c.Sub(b).Cross(p.Sub(b))
	d3 := a.Sub(c).Cross(p.Sub(c))
	return d1 >= 0 && d2 >= 0 && d3 >= 0
}
