package sorting

import (
	"reflect"
	"testing"
)

func TestNewLayers(t *testing.T) {
	l := NewLayers()
	if !reflect.DeepEqual(l.IDs(), []int{DefaultLayerID}) {
		t.Errorf("IDs() = %v, want only the default layer", l.IDs())
	}
}

func TestAddRemove(t *testing.T) {
	l := NewLayers()
	if err := l.Add(7, "Foreground"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := l.Add(7, "Duplicate"); err == nil {
		t.Error("expected error adding duplicate id")
	}
	if err := l.Add(3, "Background"); err != nil {
		t.Fatalf("Add: %v", err)
	}

	if !reflect.DeepEqual(l.IDs(), []int{0, 7, 3}) {
		t.Errorf("IDs() = %v, want [0 7 3]", l.IDs())
	}

	if !l.Remove(7) {
		t.Error("Remove(7) should succeed")
	}
	if l.Remove(7) {
		t.Error("second Remove(7) should report false")
	}
	layer, ok := l.Find(3)
	if !ok || layer.Order != 1 {
		t.Errorf("Find(3) = %+v, %v; want order 1 after removal", layer, ok)
	}
}

func TestIDsIsSnapshot(t *testing.T) {
	l := NewLayers()
	ids := l.IDs()
	_ = l.Add(5, "Late")
	if len(ids) != 1 {
		t.Error("IDs() snapshot should not see later layers")
	}
}

func TestIsShadowedLayer(t *testing.T) {
	tests := []struct {
		name   string
		layers []int
		layer  int
		want   bool
	}{
		{"member", []int{0, 4, 9}, 4, true},
		{"not member", []int{0, 4, 9}, 5, false},
		{"nil set", nil, 0, false},
		{"empty set", []int{}, 0, false},
		{"out of range id", []int{0, 1}, -12, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsShadowedLayer(tt.layers, tt.layer); got != tt.want {
				t.Errorf("IsShadowedLayer(%v, %d) = %v, want %v", tt.layers, tt.layer, got, tt.want)
			}
		})
	}
}
