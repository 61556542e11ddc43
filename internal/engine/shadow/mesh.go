package shadow

import "github.com/Faultbox/shadow2d/pkg/math"

// MeshOptions tunes mesh generation for the rendering backend.
type MeshOptions struct {
	Winding    Winding
	MiterLimit float32
}

// DefaultMeshOptions returns counter-clockwise winding and the default miter
// limit.
func DefaultMeshOptions() MeshOptions {
	return MeshOptions{Winding: CounterClockwise, MiterLimit: DefaultMiterLimit}
}

// GenerateMesh builds the shadow mesh and projected bounding sphere for s.
//
// The outline is contracted inward by contraction first (see Contract). Every
// edge becomes an extrusion quad: two vertices on the outline and two flagged
// for projection away from the light. Closed shapes also get a fill of the
// contracted outline for self-shadowing. The sphere encloses the outline
// before contraction. Shapes with fewer than two vertices produce an empty
// mesh and a zero sphere at the origin. The result depends only on the
// arguments.
func GenerateMesh(s *Shape, contraction float32, opts MeshOptions) (*Mesh, BoundingSphere) {
	mesh := &Mesh{}
	if s == nil || len(s.Vertices) < 2 {
		return mesh, BoundingSphere{}
	}
	if opts.MiterLimit == 0 {
		opts.MiterLimit = DefaultMiterLimit
	}

	sphere := EnclosingSphere(s.Vertices)
	outline := Contract(s, contraction, opts.MiterLimit)

	mesh.Vertices = make([]Vertex, 0, len(s.Edges)*4+len(outline))
	mesh.Indices = make([]uint32, 0, len(s.Edges)*6)

	for _, e := range s.Edges {
		a, b := outline[e.V0], outline[e.V1]
		if a == b {
			continue
		}
		attr := [4]float32{a.X, a.Y, b.X, b.Y}
		base := uint32(len(mesh.Vertices))
		mesh.Vertices = append(mesh.Vertices,
			Vertex{Position: a.Vec3(0), Edge: attr},
			Vertex{Position: b.Vec3(0), Edge: attr},
			Vertex{Position: b.Vec3(1), Edge: attr},
			Vertex{Position: a.Vec3(1), Edge: attr},
		)
		mesh.addTriangle(opts.Winding, base, base+1, base+2)
		mesh.addTriangle(opts.Winding, base, base+2, base+3)
	}

	mesh.FillStart = len(mesh.Indices)
	if s.Fillable() {
		base := uint32(len(mesh.Vertices))
		for _, p := range outline {
			mesh.Vertices = append(mesh.Vertices, Vertex{Position: p.Vec3(0)})
		}
		tris := Triangulate(outline)
		for i := 0; i+2 < len(tris); i += 3 {
			mesh.addTriangle(opts.Winding, base+tris[i], base+tris[i+1], base+tris[i+2])
		}
		if len(tris) == 0 {
			mesh.Vertices = mesh.Vertices[:base]
		}
	}

	return mesh, sphere
}

// addTriangle appends a counter-clockwise triangle, flipped for Clockwise.
func (m *Mesh) addTriangle(w Winding, a, b, c uint32) {
	if w == Clockwise {
		b, c = c, b
	}
	m.Indices = append(m.Indices, a, b, c)
}

// Outline returns the vertices of s as a closed polyline of line segments
// for debug drawing. The last vertex always joins the first, whatever the
// topology, and zero-length segments are dropped.
func Outline(s *Shape) [][2]math.Vec2 {
	if s == nil {
		return nil
	}
	pts := distinctRing(s.Vertices)
	switch len(pts) {
	case 0, 1:
		return nil
	case 2:
		return [][2]math.Vec2{{pts[0], pts[1]}}
	}
	segs := make([][2]math.Vec2, len(pts))
	for i, p := range pts {
		segs[i] = [2]math.Vec2{p, pts[(i+1)%len(pts)]}
	}
	return segs
}
