// Package scene owns the shadow casters, composites and lights of one
// session and the registry their frame updates mutate.
package scene

import (
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/Faultbox/shadow2d/internal/engine/caster"
	"github.com/Faultbox/shadow2d/internal/engine/lighting"
	"github.com/Faultbox/shadow2d/internal/engine/shadow"
	"github.com/Faultbox/shadow2d/internal/engine/sorting"
	"github.com/Faultbox/shadow2d/internal/logger"
	"github.com/Faultbox/shadow2d/pkg/math"
)

// Options contains scene-wide settings.
type Options struct {
	Mesh shadow.MeshOptions
}

// DefaultOptions returns the default scene options.
func DefaultOptions() Options {
	return Options{Mesh: shadow.DefaultMeshOptions()}
}

// Group is a registered root and the casters rendered under it.
type Group struct {
	Root    caster.ID
	Name    string
	Members []*caster.ShadowCaster
}

// entry keeps the scene objects a caster was built from so the scene can be
// written back out.
type entry struct {
	caster    *caster.ShadowCaster
	renderer  *Box
	collider  *Box
	outline   *OutlineSpec
	composite string
}

// Scene manages the casters, composites and lights of a session.
type Scene struct {
	opts Options
	log  *zap.Logger

	Registry *caster.Registry
	Layers   *sorting.Layers
	Lights   *lighting.PointLightBuffer

	entries    []*entry
	byID       map[caster.ID]*entry
	composites []*caster.Composite
	byName     map[string]*caster.Composite
	frame      int
}

// New creates an empty scene holding only the default sorting layer.
func New(opts Options) *Scene {
	return &Scene{
		opts:     opts,
		log:      logger.Named("scene"),
		Registry: caster.NewRegistry(),
		Layers:   sorting.NewLayers(),
		Lights:   lighting.NewPointLightBuffer(),
		byID:     make(map[caster.ID]*entry),
		byName:   make(map[string]*caster.Composite),
	}
}

// FromDocument builds a scene. Layers are defined before any caster is
// created so default layer sets capture all of them.
func FromDocument(doc *Document, opts Options) (*Scene, error) {
	s := New(opts)
	for _, l := range doc.Layers {
		if l.ID == sorting.DefaultLayerID {
			continue
		}
		if err := s.Layers.Add(l.ID, l.Name); err != nil {
			return nil, err
		}
	}
	for _, c := range doc.Composites {
		if _, err := s.AddComposite(c.Name, c.Parent, c.Enabled); err != nil {
			return nil, err
		}
	}
	for i, spec := range doc.Casters {
		if _, err := s.AddCaster(spec); err != nil {
			return nil, fmt.Errorf("caster %d: %w", i, err)
		}
	}
	for _, l := range doc.Lights {
		if err := s.AddLight(l); err != nil {
			return nil, err
		}
	}

	s.log.Info("scene loaded",
		zap.Int("layers", len(s.Layers.All())),
		zap.Int("composites", len(s.composites)),
		zap.Int("casters", len(s.entries)),
		zap.Int("lights", s.Lights.Count()))
	return s, nil
}

// AddComposite creates a composite under the named parent ("" for none).
func (s *Scene) AddComposite(name, parent string, enabled bool) (*caster.Composite, error) {
	if name == "" {
		return nil, fmt.Errorf("composite without a name")
	}
	if _, dup := s.byName[name]; dup {
		return nil, fmt.Errorf("composite %q defined twice", name)
	}
	var p *caster.Composite
	if parent != "" {
		var ok bool
		if p, ok = s.byName[parent]; !ok {
			return nil, fmt.Errorf("composite %q: unknown parent %q", name, parent)
		}
	}

	comp := caster.NewComposite(name, p)
	if enabled {
		comp.Enable(s.Registry)
	}
	s.composites = append(s.composites, comp)
	s.byName[name] = comp
	return comp, nil
}

// Composite looks a composite up by name.
func (s *Scene) Composite(name string) (*caster.Composite, bool) {
	c, ok := s.byName[name]
	return c, ok
}

// AddCaster creates a caster from spec and enables it unless the spec is
// disabled.
func (s *Scene) AddCaster(spec CasterSpec) (*caster.ShadowCaster, error) {
	env := caster.Env{
		Transform: transformOf(spec),
		Layers:    s.Layers,
		Mesh:      s.opts.Mesh,
	}
	if spec.Renderer != nil {
		env.Renderer = spec.Renderer
	}
	if spec.Collider != nil {
		env.Collider = spec.Collider
	}
	if spec.Outline != nil {
		env.ShapeProvider = spec.Outline
	}
	if spec.Composite != "" {
		comp, ok := s.byName[spec.Composite]
		if !ok {
			return nil, fmt.Errorf("unknown composite %q", spec.Composite)
		}
		env.Composite = comp
	}

	c, err := caster.FromData(spec.Data, env)
	if err != nil {
		return nil, err
	}
	if !spec.Disabled {
		c.Enable()
	}

	e := &entry{
		caster:    c,
		renderer:  spec.Renderer,
		collider:  spec.Collider,
		outline:   spec.Outline,
		composite: spec.Composite,
	}
	s.entries = append(s.entries, e)
	s.byID[c.ID()] = e
	return c, nil
}

// AddLight adds a point light.
func (s *Scene) AddLight(spec LightSpec) error {
	l := lighting.NewPointLight(spec.Name, math.Vec3{X: spec.Position[0], Y: spec.Position[1]}, spec.Range, spec.Color)
	if spec.Intensity > 0 {
		l.Intensity = spec.Intensity
	}
	if !s.Lights.AddLight(l) {
		return fmt.Errorf("light %q: scene already has %d lights", spec.Name, lighting.MaxPointLights)
	}
	return nil
}

// Casters returns every caster in insertion order.
func (s *Scene) Casters() []*caster.ShadowCaster {
	out := make([]*caster.ShadowCaster, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.caster
	}
	return out
}

// Caster looks a caster up by id.
func (s *Scene) Caster(id caster.ID) (*caster.ShadowCaster, bool) {
	e, ok := s.byID[id]
	if !ok {
		return nil, false
	}
	return e.caster, true
}

// CasterByName returns the first caster with the given name.
func (s *Scene) CasterByName(name string) (*caster.ShadowCaster, bool) {
	for _, e := range s.entries {
		if e.caster.Name() == name {
			return e.caster, true
		}
	}
	return nil, false
}

// Frame returns the number of completed updates.
func (s *Scene) Frame() int { return s.frame }

// Update runs one frame pass over every caster in insertion order.
func (s *Scene) Update() {
	for _, e := range s.entries {
		e.caster.Update(s.Registry)
	}
	s.frame++
}

// Validate checks the registry invariants.
func (s *Scene) Validate() error {
	return s.Registry.Validate()
}

// Groups returns the registered groups in registration order. Members the
// scene does not own are skipped.
func (s *Scene) Groups() []Group {
	roots := s.Registry.Groups()
	groups := make([]Group, 0, len(roots))
	for _, root := range roots {
		g := Group{Root: root, Name: s.rootName(root)}
		for _, id := range s.Registry.Members(root) {
			if c, ok := s.Caster(id); ok {
				g.Members = append(g.Members, c)
			}
		}
		groups = append(groups, g)
	}
	return groups
}

// VisibleCasters returns the casters that shadow layer under light, walking
// groups in registration order. Members that cast no shadow, target other
// layers, or whose bounds miss the light are culled.
func (s *Scene) VisibleCasters(light lighting.Light, layer int) []*caster.ShadowCaster {
	var out []*caster.ShadowCaster
	for _, g := range s.Groups() {
		for _, c := range g.Members {
			if !c.CastsShadows() && !c.SelfShadows() {
				continue
			}
			if !c.IsShadowedLayer(layer) || !c.IsLit(light) {
				continue
			}
			out = append(out, c)
		}
	}
	return out
}

// Close disables every caster and composite and drops all registry state.
func (s *Scene) Close() {
	for _, e := range slices.Backward(s.entries) {
		if e.caster.Enabled() {
			e.caster.Disable(s.Registry)
		}
	}
	for _, comp := range slices.Backward(s.composites) {
		if comp.Enabled() {
			comp.Disable(s.Registry)
		}
	}
	if err := s.Registry.Validate(); err != nil {
		s.log.Error("registry inconsistent at teardown", zap.Error(err))
	}
	s.Registry.Reset()
	s.Lights.Clear()
	s.entries = nil
	s.byID = make(map[caster.ID]*entry)
	s.composites = nil
	s.byName = make(map[string]*caster.Composite)
	s.log.Debug("scene closed", zap.Int("frames", s.frame))
}

// Document captures the scene's current state.
func (s *Scene) Document() *Document {
	doc := &Document{Layers: s.Layers.All()}
	for _, comp := range s.composites {
		spec := CompositeSpec{Name: comp.Name(), Enabled: comp.Enabled()}
		if p := comp.Parent(); p != nil {
			spec.Parent = p.Name()
		}
		doc.Composites = append(doc.Composites, spec)
	}
	for _, e := range s.entries {
		c := e.caster
		t := c.Transform()
		spec := CasterSpec{
			Data:      c.Data(),
			Position:  [2]float32{t.Position.X, t.Position.Y},
			Rotation:  t.Rotation.ZDegrees(),
			Renderer:  e.renderer,
			Collider:  e.collider,
			Outline:   e.outline,
			Composite: e.composite,
			Disabled:  !c.Enabled(),
		}
		if t.Scale.X != 1 || t.Scale.Y != 1 {
			spec.Scale = &[2]float32{t.Scale.X, t.Scale.Y}
		}
		doc.Casters = append(doc.Casters, spec)
	}
	for _, l := range s.Lights.Lights {
		doc.Lights = append(doc.Lights, LightSpec{
			Name:      l.Name,
			Position:  [2]float32{l.Position.X, l.Position.Y},
			Range:     l.Range,
			Color:     l.Color,
			Intensity: l.Intensity,
		})
	}
	return doc
}

func (s *Scene) rootName(root caster.ID) string {
	for _, comp := range s.composites {
		if comp.ID() == root {
			return comp.Name()
		}
	}
	if c, ok := s.Caster(root); ok {
		return c.Name()
	}
	return root.String()
}

func transformOf(spec CasterSpec) caster.Transform {
	t := caster.At(spec.Position[0], spec.Position[1])
	if spec.Rotation != 0 {
		t.Rotation = math.QuatFromDegrees(spec.Rotation)
	}
	if spec.Scale != nil {
		t.Scale = math.Vec3{X: spec.Scale[0], Y: spec.Scale[1], Z: 1}
	}
	return t
}
