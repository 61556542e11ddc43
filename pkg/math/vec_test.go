package math

import (
	"math"
	"testing"
)

func TestVec2Add(t *testing.T) {
	a := Vec2{1, 2}
	b := Vec2{3, 4}
	got := a.Add(b)
	want := Vec2{4, 6}
	if got != want {
		t.Errorf("Vec2.Add() = %v, want %v", got, want)
	}
}

func TestVec2Length(t *testing.T) {
	v := Vec2{3, 4}
	got := v.Length()
	want := float32(5)
	if got != want {
		t.Errorf("Vec2.Length() = %v, want %v", got, want)
	}
	if v.LengthSq() != 25 {
		t.Errorf("Vec2.LengthSq() = %v, want 25", v.LengthSq())
	}
}

func TestVec2Normalize(t *testing.T) {
	v := Vec2{3, 4}
	n := v.Normalize()
	l := n.Length()
	if l < 0.999 || l > 1.001 {
		t.Errorf("Vec2.Normalize().Length() = %v, want ~1", l)
	}
	if (Vec2{}).Normalize() != (Vec2{}) {
		t.Error("zero vector should normalize to zero")
	}
}

func TestVec2CrossPerp(t *testing.T) {
	x := Vec2{1, 0}
	y := Vec2{0, 1}
	if x.Cross(y) != 1 {
		t.Errorf("x.Cross(y) = %v, want 1", x.Cross(y))
	}
	if y.Cross(x) != -1 {
		t.Errorf("y.Cross(x) = %v, want -1", y.Cross(x))
	}
	if x.Perp() != y {
		t.Errorf("x.Perp() = %v, want %v", x.Perp(), y)
	}
}

func TestVec2IsFinite(t *testing.T) {
	inf := float32(math.Inf(1))
	nan := float32(math.NaN())
	tests := []struct {
		v    Vec2
		want bool
	}{
		{Vec2{1, 2}, true},
		{Vec2{inf, 0}, false},
		{Vec2{0, nan}, false},
	}
	for _, tt := range tests {
		if got := tt.v.IsFinite(); got != tt.want {
			t.Errorf("%v.IsFinite() = %v, want %v", tt.v, got, tt.want)
		}
	}
}

func TestVec3Cross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	got := x.Cross(y)
	want := Vec3{0, 0, 1}
	if got != want {
		t.Errorf("Vec3.Cross() = %v, want %v", got, want)
	}
}

func TestVec3XY(t *testing.T) {
	v := Vec3{1, 2, 3}
	if v.XY() != (Vec2{1, 2}) {
		t.Errorf("Vec3.XY() = %v, want (1, 2)", v.XY())
	}
	if (Vec2{1, 2}).Vec3(3) != v {
		t.Error("Vec2.Vec3() should restore the z component")
	}
}
