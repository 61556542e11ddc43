// Package sorting holds the sorting layers defined for a scene and the
// membership test casters use to decide which layers they shadow.
package sorting

import (
	"fmt"
	"slices"
)

// DefaultLayerID is the id of the layer every registry starts with.
const DefaultLayerID = 0

// Layer is a rendering order bucket.
type Layer struct {
	ID    int    `yaml:"id"`
	Name  string `yaml:"name"`
	Order int    `yaml:"order"`
}

// Layers is the set of sorting layers currently defined, kept in render
// order.
type Layers struct {
	layers []Layer
}

// NewLayers creates a registry holding only the "Default" layer.
func NewLayers() *Layers {
	return &Layers{layers: []Layer{{ID: DefaultLayerID, Name: "Default"}}}
}

// Add defines a new layer after the existing ones.
func (l *Layers) Add(id int, name string) error {
	if _, ok := l.Find(id); ok {
		return fmt.Errorf("sorting layer %d already defined", id)
	}
	l.layers = append(l.layers, Layer{ID: id, Name: name, Order: len(l.layers)})
	return nil
}

// Remove deletes a layer. Casters that captured its id keep it; the id
// simply never matches a rendered layer again.
func (l *Layers) Remove(id int) bool {
	for i, layer := range l.layers {
		if layer.ID == id {
			l.layers = slices.Delete(l.layers, i, i+1)
			for j := i; j < len(l.layers); j++ {
				l.layers[j].Order = j
			}
			return true
		}
	}
	return false
}

// Find looks a layer up by id.
func (l *Layers) Find(id int) (Layer, bool) {
	for _, layer := range l.layers {
		if layer.ID == id {
			return layer, true
		}
	}
	return Layer{}, false
}

// All returns a copy of the defined layers in order.
func (l *Layers) All() []Layer {
	return slices.Clone(l.layers)
}

// IDs returns a snapshot of every defined layer id in order.
func (l *Layers) IDs() []int {
	ids := make([]int, len(l.layers))
	for i, layer := range l.layers {
		ids[i] = layer.ID
	}
	return ids
}

// IsShadowedLayer reports whether layer is in a caster's target set. An
// empty or nil set shadows nothing; "all layers" is resolved to explicit ids
// when the caster is created.
func IsShadowedLayer(casterLayers []int, layer int) bool {
	return slices.Contains(casterLayers, layer)
}
