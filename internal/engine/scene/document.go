package scene

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/shadow2d/internal/engine/caster"
	"github.com/Faultbox/shadow2d/internal/engine/sorting"
)

// Document is the on-disk form of a scene.
type Document struct {
	Layers     []sorting.Layer `yaml:"layers"`
	Composites []CompositeSpec `yaml:"composites,omitempty"`
	Casters    []CasterSpec    `yaml:"casters"`
	Lights     []LightSpec     `yaml:"lights,omitempty"`
}

// CompositeSpec describes a composite group node. Parent names a composite
// declared earlier in the document.
type CompositeSpec struct {
	Name    string `yaml:"name"`
	Parent  string `yaml:"parent,omitempty"`
	Enabled bool   `yaml:"enabled"`
}

// Box is an axis-aligned world-space rectangle.
type Box struct {
	Min [2]float32 `yaml:"min,flow"`
	Max [2]float32 `yaml:"max,flow"`
}

// OutlineSpec is an outline supplied in place of the caster's own path.
type OutlineSpec struct {
	Points []caster.Point `yaml:"points,flow"`
	Closed bool           `yaml:"closed"`
}

// CasterSpec is a caster plus the scene objects attached to it.
type CasterSpec struct {
	caster.Data `yaml:",inline"`

	Position [2]float32 `yaml:"position,flow"`
	// Rotation is in degrees around Z.
	Rotation float32 `yaml:"rotation,omitempty"`
	// Scale defaults to (1, 1) when omitted.
	Scale *[2]float32 `yaml:"scale,omitempty,flow"`

	Renderer  *Box         `yaml:"renderer,omitempty"`
	Collider  *Box         `yaml:"collider,omitempty"`
	Outline   *OutlineSpec `yaml:"outline,omitempty"`
	Composite string       `yaml:"composite,omitempty"`
	Disabled  bool         `yaml:"disabled,omitempty"`
}

// UnmarshalYAML starts every caster from the settings of a freshly added
// caster, so omitted fields keep their defaults. An omitted version still
// reads as unversioned data.
func (s *CasterSpec) UnmarshalYAML(value *yaml.Node) error {
	type plain CasterSpec
	p := plain{Data: caster.DefaultData()}
	p.Version = caster.VersionUnserialized
	if err := value.Decode(&p); err != nil {
		return err
	}
	*s = CasterSpec(p)
	return nil
}

// LightSpec is a point light.
type LightSpec struct {
	Name      string     `yaml:"name"`
	Position  [2]float32 `yaml:"position,flow"`
	Range     float32    `yaml:"range"`
	Color     [3]float32 `yaml:"color,flow"`
	Intensity float32    `yaml:"intensity,omitempty"`
}

// ParseDocument decodes a YAML scene document.
func ParseDocument(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing scene: %w", err)
	}
	return &doc, nil
}

// Marshal encodes the document as YAML.
func (d *Document) Marshal() ([]byte, error) {
	return yaml.Marshal(d)
}

// LoadFile reads a scene document from path and builds a scene from it.
func LoadFile(path string, opts Options) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scene %s: %w", path, err)
	}
	doc, err := ParseDocument(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	s, err := FromDocument(doc, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// SaveFile writes the scene's current state to path.
func (s *Scene) SaveFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := s.Document().Marshal()
	if err != nil {
		return fmt.Errorf("encoding scene: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
