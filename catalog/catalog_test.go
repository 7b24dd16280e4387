package catalog_test

import (
	"testing"

	"github.com/sdfgraph/voxelgraph/catalog"
)

func TestStructuralKinds(t *testing.T) {
	structural := []catalog.NodeKind{catalog.Constant, catalog.InputX, catalog.InputY, catalog.InputZ, catalog.OutputSDF}
	for _, k := range structural {
		if !k.IsStructural() {
			t.Errorf("%v: want structural", k)
		}
	}
	runtime := []catalog.NodeKind{catalog.Add, catalog.Noise3D, catalog.Image2D}
	for _, k := range runtime {
		if k.IsStructural() {
			t.Errorf("%v: want runtime, not structural", k)
		}
	}
}

func TestEveryKindHasASchema(t *testing.T) {
	for _, k := range catalog.All() {
		info, ok := catalog.Lookup(k)
		if !ok {
			t.Fatalf("%v: no schema registered", k)
		}
		if info.Name == "" {
			t.Errorf("%v: empty name", k)
		}
	}
}

func TestKindByNameRoundTrip(t *testing.T) {
	for _, k := range catalog.All() {
		info, _ := catalog.Lookup(k)
		got, ok := catalog.KindByName(info.Name)
		if !ok || got != k {
			t.Errorf("KindByName(%q) = %v, %v; want %v, true", info.Name, got, ok, k)
		}
	}
}

func TestRemapArity(t *testing.T) {
	info, ok := catalog.Lookup(catalog.Remap)
	if !ok {
		t.Fatal("Remap not registered")
	}
	if len(info.Inputs) != 1 {
		t.Errorf("Remap inputs = %d, want 1", len(info.Inputs))
	}
	if len(info.Params) != 4 {
		t.Errorf("Remap params = %d, want 4", len(info.Params))
	}
}
