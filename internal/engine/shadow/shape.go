package shadow

import (
	"encoding/binary"
	"hash/fnv"
	gomath "math"

	"github.com/Faultbox/shadow2d/pkg/math"
)

// BuildShape converts an ordered path into edge topology. Each edge links
// consecutive indices, wrapping back to the start for ClosedLoop. Zero-length
// edges are dropped but their vertices stay in the arena so indices remain
// stable. A two-point path is always an open segment.
func BuildShape(path []math.Vec2, topology Topology) *Shape {
	s := &Shape{
		Vertices: append([]math.Vec2(nil), path...),
		Topology: topology,
	}
	if len(path) == 2 {
		s.Topology = OpenPolyline
	}

	n := len(s.Vertices)
	if n < 2 {
		return s
	}

	last := n - 1
	if s.Topology == ClosedLoop {
		last = n
	}

	s.Edges = make([]Edge, 0, last)
	for i := 0; i < last; i++ {
		j := (i + 1) % n
		if s.Vertices[i] == s.Vertices[j] {
			continue
		}
		s.Edges = append(s.Edges, Edge{V0: i, V1: j})
	}
	return s
}

// HashPath returns a content hash of an outline. It depends only on the
// point values and topology, so equal outlines always hash equally.
func HashPath(path []math.Vec2, topology Topology) uint64 {
	h := fnv.New64a()
	var buf [8]byte

	binary.LittleEndian.PutUint32(buf[:4], uint32(topology))
	binary.LittleEndian.PutUint32(buf[4:], uint32(len(path)))
	h.Write(buf[:])

	for _, p := range path {
		binary.LittleEndian.PutUint32(buf[:4], gomath.Float32bits(p.X))
		binary.LittleEndian.PutUint32(buf[4:], gomath.Float32bits(p.Y))
		h.Write(buf[:])
	}
	return h.Sum64()
}

// signedArea returns twice the signed area of a ring. Positive means
// counter-clockwise.
func signedArea(ring []math.Vec2) float32 {
	var area float32
	n := len(ring)
	for i := 0; i < n; i++ {
		area += ring[i].Cross(ring[(i+1)%n])
	}
	return area
}
