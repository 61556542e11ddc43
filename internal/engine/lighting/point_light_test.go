package lighting

import (
	"testing"

	"github.com/Faultbox/shadow2d/internal/engine/shadow"
	"github.com/Faultbox/shadow2d/pkg/math"
)

func TestNewPointLight(t *testing.T) {
	l := NewPointLight("torch", math.Vec3{X: 3, Y: 4}, -1, [3]float32{2, -1, 0.5})

	if l.Range != DefaultRange {
		t.Errorf("range = %v, want default %v", l.Range, DefaultRange)
	}
	if l.Color != [3]float32{1, 0, 0.5} {
		t.Errorf("color = %v, want clamped (1, 0, 0.5)", l.Color)
	}
	if l.Intensity != 1 {
		t.Errorf("intensity = %v, want 1", l.Intensity)
	}
}

func TestWorldSphere(t *testing.T) {
	l := NewPointLight("lamp", math.Vec3{X: 5}, 2, [3]float32{1, 1, 1})
	got := WorldSphere(l)
	want := shadow.BoundingSphere{Center: math.Vec3{X: 5}, Radius: 2}
	if got != want {
		t.Errorf("WorldSphere = %+v, want %+v", got, want)
	}
}

func TestPointLightBuffer(t *testing.T) {
	b := NewPointLightBuffer()
	for i := 0; i < MaxPointLights; i++ {
		if !b.AddLight(NewPointLight("", math.Vec3{X: float32(i)}, 1, [3]float32{})) {
			t.Fatalf("add %d failed before buffer was full", i)
		}
	}
	if b.AddLight(NewPointLight("extra", math.Vec3{}, 1, [3]float32{})) {
		t.Error("expected add to fail when buffer is full")
	}
	if b.Count() != MaxPointLights {
		t.Errorf("count = %d, want %d", b.Count(), MaxPointLights)
	}

	if b.Lights[1].Position.X != 1 {
		t.Errorf("second light x = %v, want 1", b.Lights[1].Position.X)
	}

	b.Clear()
	if b.Count() != 0 {
		t.Error("expected empty buffer after Clear")
	}
}

func TestPointLightBufferFind(t *testing.T) {
	b := NewPointLightBuffer()
	b.AddLight(NewPointLight("a", math.Vec3{}, 1, [3]float32{}))
	b.AddLight(NewPointLight("b", math.Vec3{X: 2}, 3, [3]float32{}))

	l, ok := b.Find("b")
	if !ok || l.Range != 3 {
		t.Errorf("Find(b) = %+v, %v", l, ok)
	}
	if _, ok := b.Find("missing"); ok {
		t.Error("Find(missing) should fail")
	}
}
