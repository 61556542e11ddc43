// Package caster implements 2D shadow casters and the registry that groups
// them for rendering.
package caster

import (
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/Faultbox/shadow2d/internal/engine/lighting"
	"github.com/Faultbox/shadow2d/internal/engine/shadow"
	"github.com/Faultbox/shadow2d/internal/engine/sorting"
	"github.com/Faultbox/shadow2d/internal/logger"
	"github.com/Faultbox/shadow2d/pkg/math"
)

// ShapeProvider supplies an outline in place of the caster's own path.
type ShapeProvider interface {
	ProvideOutline() ([]math.Vec2, shadow.Topology)
}

// Env holds the collaborators a caster resolves once at creation.
type Env struct {
	Transform Transform
	// Layers is captured when the caster has no explicit sorting layers.
	Layers *sorting.Layers
	// Renderer is the filled-area provider. Its presence enables the
	// renderer silhouette, and its bounds seed the default shape.
	Renderer shadow.BoundProvider
	// Collider seeds the default shape when there is no renderer.
	Collider      shadow.BoundProvider
	ShapeProvider ShapeProvider
	Composite     *Composite
	Mesh          shadow.MeshOptions
}

// ShadowCaster is an entity that casts a 2D shadow from a polygon outline.
type ShadowCaster struct {
	id   ID
	name string

	path                  []math.Vec2
	pathHash              uint64
	castsShadows          bool
	selfShadows           bool
	useRendererSilhouette bool
	layers                []int
	source                CastingSource
	contraction           float32
	shadowGroup           int

	renderer      shadow.BoundProvider
	shapeProvider ShapeProvider
	composite     *Composite
	meshOpts      shadow.MeshOptions

	transform           Transform
	cachedPosition      math.Vec3
	cachedRotation      math.Quat
	cachedScale         math.Vec3
	shadowMatrix        math.Mat4
	inverseShadowMatrix math.Mat4
	localToWorld        math.Mat4

	shape      *shadow.Shape
	mesh       *shadow.Mesh
	sphere     shadow.BoundingSphere
	generation int

	enabled          bool
	root             ID
	prevShadowGroup  int
	prevCastsShadows bool
	prevPathHash     uint64
	prevContraction  float32
	prevSource       CastingSource
	prevDegenerate   bool
}

// New creates a caster from persisted data. A nil sorting layer list
// captures every layer currently defined in env.Layers; an empty path gets a
// rectangle from the renderer or collider bounds. The caster starts
// disabled.
func New(data Data, env Env) *ShadowCaster {
	c := &ShadowCaster{
		id:                    NewID(),
		name:                  data.Name,
		castsShadows:          data.CastsShadows,
		selfShadows:           data.SelfShadows,
		useRendererSilhouette: data.UseRendererSilhouette,
		layers:                slices.Clone(data.SortingLayers),
		source:                data.CastingSource,
		contraction:           data.Contraction,
		shadowGroup:           data.ShadowGroup,
		renderer:              env.Renderer,
		shapeProvider:         env.ShapeProvider,
		composite:             env.Composite,
		meshOpts:              env.Mesh,
		transform:             env.Transform,
		prevCastsShadows:      true,
		prevSource:            data.CastingSource,
	}
	if c.transform == (Transform{}) {
		c.transform = IdentityTransform()
	}

	if data.SortingLayers == nil && env.Layers != nil {
		c.layers = env.Layers.IDs()
	}

	path := data.PathVec2()
	if len(path) == 0 {
		var bounds *shadow.AABB
		switch {
		case env.Renderer != nil:
			b := env.Renderer.GetBounds()
			bounds = &b
		case env.Collider != nil:
			b := env.Collider.GetBounds()
			bounds = &b
		}
		t := c.transform
		path = shadow.DefaultPath(bounds, t.Position, t.Scale)
	}
	c.setPath(path)
	c.cacheValues()
	return c
}

// NewDefault creates a caster with default settings.
func NewDefault(env Env) *ShadowCaster {
	return New(DefaultData(), env)
}

// ID returns the caster's instance id.
func (c *ShadowCaster) ID() ID { return c.id }

// Name returns the caster's display name.
func (c *ShadowCaster) Name() string { return c.name }

// Enabled reports whether the caster takes part in frame updates.
func (c *ShadowCaster) Enabled() bool { return c.enabled }

// Root returns the group root the caster last joined.
func (c *ShadowCaster) Root() ID { return c.root }

// Path returns a copy of the editable outline.
func (c *ShadowCaster) Path() []math.Vec2 { return slices.Clone(c.path) }

// PathHash returns the content hash of the editable outline.
func (c *ShadowCaster) PathHash() uint64 { return c.pathHash }

// SetPath replaces the editable outline. Geometry is rebuilt on the next
// update only if the content actually changed.
func (c *ShadowCaster) SetPath(path []math.Vec2) { c.setPath(path) }

func (c *ShadowCaster) setPath(path []math.Vec2) {
	c.path = slices.Clone(path)
	c.pathHash = shadow.HashPath(c.path, shadow.ClosedLoop)
}

// CastsShadows reports whether the caster shadows other geometry.
func (c *ShadowCaster) CastsShadows() bool { return c.castsShadows }

// SetCastsShadows toggles shadowing of other geometry.
func (c *ShadowCaster) SetCastsShadows(v bool) { c.castsShadows = v }

// SelfShadows reports whether the caster shadows its own renderer.
func (c *ShadowCaster) SelfShadows() bool { return c.selfShadows }

// SetSelfShadows toggles shadowing of the caster's own renderer.
func (c *ShadowCaster) SetSelfShadows(v bool) { c.selfShadows = v }

// ShadowGroup returns the user-assigned shadow group number.
func (c *ShadowCaster) ShadowGroup() int { return c.shadowGroup }

// SetShadowGroup assigns the user group number. Takes effect on the next Update.
func (c *ShadowCaster) SetShadowGroup(g int) { c.shadowGroup = g }

// Contraction returns the inward offset applied to the outline.
func (c *ShadowCaster) Contraction() float32 { return c.contraction }

// SetContraction sets the inward outline offset. Takes effect on the next Update.
func (c *ShadowCaster) SetContraction(d float32) { c.contraction = d }

// UseRendererSilhouette reports whether the renderer's silhouette takes part
// in the shadow. Always false without a renderer.
func (c *ShadowCaster) UseRendererSilhouette() bool {
	return c.useRendererSilhouette && c.renderer != nil
}

// SetUseRendererSilhouette sets the stored flag.
func (c *ShadowCaster) SetUseRendererSilhouette(v bool) { c.useRendererSilhouette = v }

// HasRenderer reports whether a filled-area provider is attached.
func (c *ShadowCaster) HasRenderer() bool { return c.renderer != nil }

// CastingSource returns where the outline comes from.
func (c *ShadowCaster) CastingSource() CastingSource { return c.source }

// SetCastingSource changes where the outline comes from.
func (c *ShadowCaster) SetCastingSource(s CastingSource) { c.source = s }

// SortingLayers returns the target sorting layer ids.
func (c *ShadowCaster) SortingLayers() []int { return slices.Clone(c.layers) }

// SetSortingLayers replaces the target layers. nil shadows no layer.
func (c *ShadowCaster) SetSortingLayers(ids []int) { c.layers = slices.Clone(ids) }

// IsShadowedLayer reports whether the caster shadows layer.
func (c *ShadowCaster) IsShadowedLayer(layer int) bool {
	return sorting.IsShadowedLayer(c.layers, layer)
}

// Transform returns the owning transform.
func (c *ShadowCaster) Transform() Transform { return c.transform }

// SetTransform moves the caster. Cached matrices refresh on the next update.
func (c *ShadowCaster) SetTransform(t Transform) { c.transform = t }

// Composite returns the composite the caster sits under.
func (c *ShadowCaster) Composite() *Composite { return c.composite }

// SetComposite re-parents the caster. Group membership follows on the next
// update.
func (c *ShadowCaster) SetComposite(comp *Composite) { c.composite = comp }

// Shape returns the edge topology of the last rebuild.
func (c *ShadowCaster) Shape() *shadow.Shape { return c.shape }

// Mesh returns the shadow mesh of the last rebuild.
func (c *ShadowCaster) Mesh() *shadow.Mesh { return c.mesh }

// MeshGeneration counts geometry rebuilds.
func (c *ShadowCaster) MeshGeneration() int { return c.generation }

// BoundingSphere returns the projected bounding sphere in local space.
func (c *ShadowCaster) BoundingSphere() shadow.BoundingSphere { return c.sphere }

// WorldBoundingSphere returns the projected bounding sphere in world space
// as of the last cached transform.
func (c *ShadowCaster) WorldBoundingSphere() shadow.BoundingSphere {
	return c.sphere.Transform(c.localToWorld)
}

// Vertices returns the vertex arena of the current shape.
func (c *ShadowCaster) Vertices() []math.Vec2 {
	if c.shape == nil {
		return nil
	}
	return c.shape.Vertices
}

// Edges returns the edge records of the current shape, indexing Vertices.
func (c *ShadowCaster) Edges() []shadow.Edge {
	if c.shape == nil {
		return nil
	}
	return c.shape.Edges
}

// ShadowMatrix is the cached translation and rotation without scale.
func (c *ShadowCaster) ShadowMatrix() math.Mat4 { return c.shadowMatrix }

// InverseShadowMatrix is the inverse of ShadowMatrix.
func (c *ShadowCaster) InverseShadowMatrix() math.Mat4 { return c.inverseShadowMatrix }

// LocalToWorld is the cached full transform including scale.
func (c *ShadowCaster) LocalToWorld() math.Mat4 { return c.localToWorld }

// CachedPosition is the world position captured on the last update.
func (c *ShadowCaster) CachedPosition() math.Vec3 { return c.cachedPosition }

// IsLit reports whether the caster's bounds overlap light's bounds.
func (c *ShadowCaster) IsLit(light lighting.Light) bool {
	return shadow.IsLit(c.WorldBoundingSphere(), lighting.WorldSphere(light))
}

// Enable makes the caster take part in updates. Geometry is built if the
// caster has none yet.
func (c *ShadowCaster) Enable() {
	if c.mesh == nil {
		path, topology := c.outline()
		c.rebuild(path, topology)
	}
	c.root = NoGroup
	c.enabled = true
}

// Disable takes the caster out of its group.
func (c *ShadowCaster) Disable(reg *Registry) {
	reg.RemoveFromGroup(c.id, c.root)
	c.enabled = false
}

// Update runs the caster's frame pass: cache the transform, rebuild geometry
// when the outline changed, then reconcile group membership.
func (c *ShadowCaster) Update(reg *Registry) {
	if !c.enabled {
		return
	}
	c.cacheValues()

	path, topology := c.outline()
	hash := shadow.HashPath(path, topology)
	pathChanged := lighting.CheckForChange(hash, &c.prevPathHash)
	contractionChanged := lighting.CheckForChange(c.contraction, &c.prevContraction)
	sourceChanged := lighting.CheckForChange(c.source, &c.prevSource)
	if pathChanged || contractionChanged || sourceChanged {
		c.rebuild(path, topology)
	}

	reg.Do(c.updateGroup)
}

// updateGroup reconciles registry state. The order matters: join the new
// root before leaving the old one, and clear stale root registration before
// removal, so the caster is never orphaned or registered under two roots
// once the sequence completes.
func (c *ShadowCaster) updateGroup(tx Txn) {
	prevRoot := c.root
	joined, root := tx.AddToGroup(c.id, c.desiredRoot())
	c.root = root

	if joined && root != NoGroup {
		if prevRoot == c.id {
			tx.RemoveGroup(c.id)
		}
		tx.RemoveFromGroup(c.id, prevRoot)
		if root == c.id && c.castsAny() {
			tx.AddGroup(c.id)
		}
	}

	if lighting.CheckForChange(c.shadowGroup, &c.prevShadowGroup) {
		tx.RemoveGroup(c.id)
		if c.castsAny() {
			tx.AddGroup(c.id)
		}
	}

	if lighting.CheckForChange(c.castsShadows, &c.prevCastsShadows) {
		if c.castsAny() {
			tx.AddGroup(c.id)
		} else {
			tx.RemoveGroup(c.id)
		}
	}
}

func (c *ShadowCaster) castsAny() bool {
	return c.castsShadows || c.selfShadows
}

// desiredRoot is the top-most enabled composite above the caster, else the
// caster itself.
func (c *ShadowCaster) desiredRoot() ID {
	if top := TopMost(c.composite); top != nil {
		return top.ID()
	}
	return c.id
}

// outline returns the points the current casting source provides.
func (c *ShadowCaster) outline() ([]math.Vec2, shadow.Topology) {
	switch c.source {
	case SourceEditablePath:
		return c.path, shadow.ClosedLoop
	case SourceShapeProvider:
		if c.shapeProvider != nil {
			return c.shapeProvider.ProvideOutline()
		}
	}
	return nil, shadow.ClosedLoop
}

func (c *ShadowCaster) rebuild(path []math.Vec2, topology shadow.Topology) {
	c.shape = shadow.BuildShape(path, topology)
	c.mesh, c.sphere = shadow.GenerateMesh(c.shape, c.contraction, c.meshOpts)
	c.generation++

	c.prevPathHash = shadow.HashPath(path, topology)
	c.prevContraction = c.contraction
	c.prevSource = c.source

	logger.Debug("shadow mesh rebuilt",
		zap.Stringer("caster", c.id),
		zap.String("name", c.name),
		zap.Int("generation", c.generation),
		zap.Int("edges", len(c.shape.Edges)),
		zap.Int("triangles", c.mesh.TriangleCount()),
		zap.Float32("radius", c.sphere.Radius))
}

func (c *ShadowCaster) cacheValues() {
	t := c.transform
	c.cachedPosition = t.Position
	c.cachedRotation = t.Rotation
	c.cachedScale = t.Scale

	c.shadowMatrix = math.TRS(t.Position, t.Rotation, math.One)
	c.inverseShadowMatrix = c.shadowMatrix.Inverse()
	c.localToWorld = math.TRS(t.Position, t.Rotation, t.finiteScale())

	degenerate := t.Degenerate()
	if lighting.CheckForChange(degenerate, &c.prevDegenerate) && degenerate {
		logger.Warn("caster transform has zero or non-finite scale",
			zap.Stringer("caster", c.id),
			zap.String("name", c.name))
	}
}

// Data captures the caster's persisted fields.
func (c *ShadowCaster) Data() Data {
	d := Data{
		Version:               CurrentVersion,
		Name:                  c.name,
		Path:                  pointsFromVec2(c.path),
		CastsShadows:          c.castsShadows,
		SelfShadows:           c.selfShadows,
		UseRendererSilhouette: c.useRendererSilhouette,
		SortingLayers:         slices.Clone(c.layers),
		Contraction:           c.contraction,
		CastingSource:         c.source,
		ShadowGroup:           c.shadowGroup,
	}
	if d.SortingLayers == nil {
		d.SortingLayers = []int{}
	}
	return d
}

// FromData migrates data to the current version and creates a caster from
// it.
func FromData(data Data, env Env) (*ShadowCaster, error) {
	if err := data.Migrate(); err != nil {
		return nil, fmt.Errorf("load caster %q: %w", data.Name, err)
	}
	return New(data, env), nil
}
