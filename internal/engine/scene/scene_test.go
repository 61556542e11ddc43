package scene

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/shadow2d/internal/engine/caster"
	"github.com/Faultbox/shadow2d/internal/engine/lighting"
	"github.com/Faultbox/shadow2d/pkg/math"
)

const testScene = `
layers:
  - {id: 0, name: Default}
  - {id: 1, name: Walls}
  - {id: 2, name: Background}
composites:
  - {name: building, enabled: true}
casters:
  - version: 1
    name: crate
    path: [[-1, -1], [-1, 1], [1, 1], [1, -1]]
    casts_shadows: true
    use_renderer_silhouette: false
    casting_source: shape_editor
  - version: 1
    name: wall-a
    path: [[-1, -1], [-1, 1], [1, 1], [1, -1]]
    casts_shadows: true
    sorting_layers: [1]
    casting_source: shape_editor
    position: [10, 0]
    composite: building
  - version: 1
    name: wall-b
    path: [[-1, -1], [-1, 1], [1, 1], [1, -1]]
    casts_shadows: true
    sorting_layers: [1]
    casting_source: shape_editor
    position: [12, 0]
    composite: building
  - version: 1
    name: ghost
    path: [[-1, -1], [-1, 1], [1, 1], [1, -1]]
    casts_shadows: false
    casting_source: shape_editor
  - version: 1
    name: pillar
    casts_shadows: true
    use_renderer_silhouette: true
    casting_source: shape_editor
    position: [-5, 0]
    renderer: {min: [-6, -1], max: [-4, 1]}
lights:
  - {name: near, position: [0, 3], range: 2, color: [1, 1, 1]}
  - {name: far, position: [11, 0], range: 1, color: [1, 0.5, 0]}
`

var square = []math.Vec2{{X: -1, Y: -1}, {X: -1, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: -1}}

func loadTestScene(t *testing.T) *Scene {
	t.Helper()
	doc, err := ParseDocument([]byte(testScene))
	require.NoError(t, err)
	s, err := FromDocument(doc, DefaultOptions())
	require.NoError(t, err)
	return s
}

func mustCaster(t *testing.T, s *Scene, name string) *caster.ShadowCaster {
	t.Helper()
	c, ok := s.CasterByName(name)
	require.True(t, ok, "caster %q", name)
	return c
}

func mustLight(t *testing.T, s *Scene, name string) *lighting.PointLight {
	t.Helper()
	l, ok := s.Lights.Find(name)
	require.True(t, ok, "light %q", name)
	return l
}

func names(casters []*caster.ShadowCaster) []string {
	out := make([]string, len(casters))
	for i, c := range casters {
		out[i] = c.Name()
	}
	return out
}

func TestFromDocument(t *testing.T) {
	s := loadTestScene(t)
	assert.Len(t, s.Casters(), 5)
	assert.Equal(t, []int{0, 1, 2}, s.Layers.IDs())
	assert.Equal(t, 2, s.Lights.Count())

	crate := mustCaster(t, s, "crate")
	assert.True(t, crate.IsShadowedLayer(2), "omitted layers default to every defined layer")
	assert.False(t, mustCaster(t, s, "wall-a").IsShadowedLayer(0))

	pillar := mustCaster(t, s, "pillar")
	assert.Equal(t, square, pillar.Path(), "default path from renderer bounds in local space")
	assert.True(t, pillar.UseRendererSilhouette())
	assert.False(t, crate.UseRendererSilhouette())
}

func TestOmittedCasterFieldsUseDefaults(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unversioned", "casters:\n  - name: box\n    path: [[-1, -1], [-1, 1], [1, 1], [1, -1]]\n"},
		{"versioned", "casters:\n  - version: 1\n    name: box\n    path: [[-1, -1], [-1, 1], [1, 1], [1, -1]]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := ParseDocument([]byte(tt.doc))
			require.NoError(t, err)
			s, err := FromDocument(doc, DefaultOptions())
			require.NoError(t, err)

			box := mustCaster(t, s, "box")
			assert.True(t, box.CastsShadows())
			assert.Equal(t, caster.SourceEditablePath, box.CastingSource())

			s.Update()
			require.NoError(t, s.Validate())
			assert.Len(t, box.Edges(), 4)
			assert.Len(t, s.Groups(), 1)
		})
	}
}

func TestUpdateGroups(t *testing.T) {
	s := loadTestScene(t)
	s.Update()
	require.NoError(t, s.Validate())
	assert.Equal(t, 1, s.Frame())

	groups := s.Groups()
	require.Len(t, groups, 3)
	assert.Equal(t, "building", groups[0].Name)
	assert.Equal(t, []string{"wall-a", "wall-b"}, names(groups[0].Members))
	assert.Equal(t, "crate", groups[1].Name)
	assert.Equal(t, "pillar", groups[2].Name)

	ghost := mustCaster(t, s, "ghost")
	assert.Equal(t, caster.Ungrouped, s.Registry.Role(ghost.ID()))
}

func TestVisibleCasters(t *testing.T) {
	s := loadTestScene(t)
	s.Update()

	near := mustLight(t, s, "near")
	far := mustLight(t, s, "far")

	assert.Equal(t, []string{"crate"}, names(s.VisibleCasters(near, 0)))
	assert.Equal(t, []string{"wall-a", "wall-b"}, names(s.VisibleCasters(far, 1)))
	assert.Empty(t, s.VisibleCasters(far, 2))
	assert.Empty(t, s.VisibleCasters(near, 99), "unknown layers are shadowed by nothing")

	building, ok := s.Composite("building")
	require.True(t, ok)
	building.Disable(s.Registry)
	s.Update()
	require.NoError(t, s.Validate())
	assert.Len(t, s.Groups(), 4, "walls become their own roots")
	assert.Equal(t, []string{"wall-a", "wall-b"}, names(s.VisibleCasters(far, 1)))
}

func TestSelfShadowsStaysVisible(t *testing.T) {
	s := loadTestScene(t)
	ghost := mustCaster(t, s, "ghost")
	ghost.SetSelfShadows(true)
	s.Update()

	near := mustLight(t, s, "near")
	assert.Equal(t, []string{"crate", "ghost"}, names(s.VisibleCasters(near, 0)))
}

func TestSaveAndLoadFile(t *testing.T) {
	s := loadTestScene(t)
	s.Update()
	mustCaster(t, s, "crate").SetContraction(0.1)

	path := filepath.Join(t.TempDir(), "nested", "scene.yaml")
	require.NoError(t, s.SaveFile(path))

	loaded, err := LoadFile(path, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, names(s.Casters()), names(loaded.Casters()))
	assert.Equal(t, s.Layers.All(), loaded.Layers.All())
	assert.Equal(t, square, mustCaster(t, loaded, "pillar").Path())
	assert.Equal(t, float32(0.1), mustCaster(t, loaded, "crate").Contraction())
	assert.Equal(t, []int{1}, mustCaster(t, loaded, "wall-b").SortingLayers())

	wall := mustCaster(t, loaded, "wall-b")
	assert.Equal(t, float32(12), wall.Transform().Position.X)
	comp, ok := loaded.Composite("building")
	require.True(t, ok)
	assert.Same(t, comp, wall.Composite())

	loaded.Update()
	assert.Len(t, loaded.Groups(), 3)
}

func TestLoadFileErrors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"), DefaultOptions())
	assert.Error(t, err)

	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "unknown composite",
			doc:  "casters:\n  - {version: 1, composite: nope}\n",
			want: "unknown composite",
		},
		{
			name: "unknown parent",
			doc:  "composites:\n  - {name: a, parent: b}\n",
			want: "unknown parent",
		},
		{
			name: "duplicate layer",
			doc:  "layers:\n  - {id: 3, name: x}\n  - {id: 3, name: y}\n",
			want: "already defined",
		},
		{
			name: "future caster version",
			doc:  "casters:\n  - {version: 9}\n",
			want: "newer than supported",
		},
		{
			name: "bad casting source",
			doc:  "casters:\n  - {casting_source: lasers}\n",
			want: "unknown casting source",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := ParseDocument([]byte(tt.doc))
			if err == nil {
				_, err = FromDocument(doc, DefaultOptions())
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestTooManyLights(t *testing.T) {
	var b strings.Builder
	b.WriteString("lights:\n")
	for i := 0; i <= lighting.MaxPointLights; i++ {
		fmt.Fprintf(&b, "  - {name: l%d, range: 1}\n", i)
	}
	doc, err := ParseDocument([]byte(b.String()))
	require.NoError(t, err)
	_, err = FromDocument(doc, DefaultOptions())
	assert.ErrorContains(t, err, "already has")
}

func TestClose(t *testing.T) {
	s := loadTestScene(t)
	s.Update()
	ids := make([]caster.ID, 0)
	for _, c := range s.Casters() {
		ids = append(ids, c.ID())
	}

	s.Close()
	assert.Zero(t, s.Registry.Len())
	assert.Empty(t, s.Registry.Groups())
	assert.Empty(t, s.Casters())
	assert.Zero(t, s.Lights.Count())
	for _, id := range ids {
		assert.NotPanics(t, func() { s.Registry.RemoveFromGroup(id, id) })
	}
}
