// Package lighting provides the light view consumed by shadow casters and
// the frame-to-frame change tracking they rely on.
package lighting

import (
	"github.com/Faultbox/shadow2d/internal/engine/shadow"
	"github.com/Faultbox/shadow2d/pkg/math"
)

// MaxPointLights is the maximum number of point lights a buffer holds.
const MaxPointLights = 32

// DefaultRange is used for lights configured without a positive range.
const DefaultRange float32 = 1

// Light is the read-only view of a light that casters cull against. The
// lighting subsystem owns and updates it.
type Light interface {
	// CachedPosition is the light's world position for this frame.
	CachedPosition() math.Vec3
	// BoundingSphere is centered relative to CachedPosition.
	BoundingSphere() shadow.BoundingSphere
}

// WorldSphere returns l's bounding sphere in world space.
func WorldSphere(l Light) shadow.BoundingSphere {
	s := l.BoundingSphere()
	s.Center = s.Center.Add(l.CachedPosition())
	return s
}

// PointLight is a radial light.
type PointLight struct {
	Name      string
	Position  math.Vec3  // World position
	Color     [3]float32 // RGB color (0-1 range)
	Range     float32    // Light radius/falloff distance
	Intensity float32    // Light intensity multiplier
}

// NewPointLight creates a point light with color and range clamped to valid
// values.
func NewPointLight(name string, pos math.Vec3, lightRange float32, color [3]float32) *PointLight {
	l := &PointLight{
		Name:      name,
		Position:  pos,
		Color:     color,
		Range:     lightRange,
		Intensity: 1.0,
	}

	for i := 0; i < 3; i++ {
		if l.Color[i] > 1.0 {
			l.Color[i] = 1.0
		}
		if l.Color[i] < 0.0 {
			l.Color[i] = 0.0
		}
	}

	if !(l.Range > 0) {
		l.Range = DefaultRange
	}
	return l
}

// CachedPosition implements Light.
func (l *PointLight) CachedPosition() math.Vec3 {
	return l.Position
}

// BoundingSphere implements Light. The sphere is centered on the light.
func (l *PointLight) BoundingSphere() shadow.BoundingSphere {
	return shadow.BoundingSphere{Radius: l.Range}
}

// PointLightBuffer holds lights gathered for a frame.
type PointLightBuffer struct {
	Lights []*PointLight
}

// NewPointLightBuffer creates an empty point light buffer.
func NewPointLightBuffer() *PointLightBuffer {
	return &PointLightBuffer{
		Lights: make([]*PointLight, 0, MaxPointLights),
	}
}

// Clear removes all lights from the buffer.
func (b *PointLightBuffer) Clear() {
	b.Lights = b.Lights[:0]
}

// AddLight adds a point light to the buffer.
// Returns false if buffer is full.
func (b *PointLightBuffer) AddLight(light *PointLight) bool {
	if len(b.Lights) >= MaxPointLights {
		return false
	}
	b.Lights = append(b.Lights, light)
	return true
}

// Count returns the number of buffered lights.
func (b *PointLightBuffer) Count() int {
	return len(b.Lights)
}

// Find returns the light with the given name.
func (b *PointLightBuffer) Find(name string) (*PointLight, bool) {
	for _, l := range b.Lights {
		if l.Name == name {
			return l, true
		}
	}
	return nil, false
}
