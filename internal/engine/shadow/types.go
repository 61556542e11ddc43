// Package shadow turns 2D caster outlines into shadow geometry: edge
// topology, a projected bounding sphere and a shadow-extrusion mesh.
package shadow

import "github.com/Faultbox/shadow2d/pkg/math"

// Topology describes how consecutive outline points are connected.
type Topology int

const (
	// OpenPolyline connects points in order without closing the outline.
	OpenPolyline Topology = iota
	// ClosedLoop connects the last point back to the first.
	ClosedLoop
)

// String returns the YAML/config name of the topology.
func (t Topology) String() string {
	switch t {
	case OpenPolyline:
		return "open"
	case ClosedLoop:
		return "closed"
	default:
		return "unknown"
	}
}

// Edge is a pair of vertex indices into a Shape's vertex arena.
type Edge struct {
	V0, V1 int
}

// Shape is an outline with its edge topology.
// Vertices is owned by the shape; edges index into it.
type Shape struct {
	Vertices []math.Vec2
	Edges    []Edge
	Topology Topology
}

// Fillable reports whether the shape encloses an area.
func (s *Shape) Fillable() bool {
	return s != nil && s.Topology == ClosedLoop && len(s.Vertices) >= 3
}

// BoundingSphere is a conservative sphere around an outline.
type BoundingSphere struct {
	Center math.Vec3
	Radius float32
}

// Transform moves a local-space sphere by m. The radius grows by the largest
// axis scale so the result still encloses the transformed outline.
func (b BoundingSphere) Transform(m math.Mat4) BoundingSphere {
	return BoundingSphere{
		Center: m.TransformVec3(b.Center),
		Radius: b.Radius * m.MaxAxisScale(),
	}
}

// Winding is the triangle winding order expected by the rendering backend.
type Winding int

const (
	CounterClockwise Winding = iota
	Clockwise
)

// ParseWinding maps a config value to a Winding. Unknown values fall back
// to CounterClockwise.
func ParseWinding(s string) Winding {
	if s == "cw" || s == "clockwise" {
		return Clockwise
	}
	return CounterClockwise
}

// Vertex is one shadow mesh vertex.
type Vertex struct {
	// Position.Z is the extrusion flag: 0 stays on the outline, 1 is pushed
	// away from the light by the shadow shader.
	Position math.Vec3
	// Edge holds the owning edge endpoints (x0, y0, x1, y1). Zero for fill.
	Edge [4]float32
}

// Mesh is the renderable shadow geometry.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
	// FillStart is the index offset where the self-shadow fill triangles
	// begin. Equal to len(Indices) when there is no fill.
	FillStart int
}

// Empty reports whether the mesh has no triangles.
func (m *Mesh) Empty() bool {
	return m == nil || len(m.Indices) == 0
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	if m == nil {
		return 0
	}
	return len(m.Indices) / 3
}

// Positions returns vertex positions as a flat slice for GPU upload.
// Format: [x0, y0, z0, x1, y1, z1, ...]
func (m *Mesh) Positions() []float32 {
	result := make([]float32, 0, len(m.Vertices)*3)
	for _, v := range m.Vertices {
		result = append(result, v.Position.X, v.Position.Y, v.Position.Z)
	}
	return result
}

// EdgeAttributes returns the per-vertex edge endpoints as a flat slice.
// Format: [x0, y0, x1, y1, ...]
func (m *Mesh) EdgeAttributes() []float32 {
	result := make([]float32, 0, len(m.Vertices)*4)
	for _, v := range m.Vertices {
		result = append(result, v.Edge[:]...)
	}
	return result
}
