package category

import "testing"

func TestAncestors_KnownCategory(t *testing.T) {
	chain := Ancestors("biolink:PhenotypicFeature")
	if chain[0] != "biolink:PhenotypicFeature" {
		t.Errorf("expected most-specific category first, got %s", chain[0])
	}
	if chain[len(chain)-1] != "biolink:Entity" {
		t.Errorf("expected chain to end in biolink:Entity, got %s", chain[len(chain)-1])
	}
}

func TestAncestors_UnknownCategoryFallsBack(t *testing.T) {
	chain := Ancestors("biolink:ChemicalEntity")
	want := []string{"biolink:ChemicalEntity", "biolink:NamedThing", "biolink:Entity"}
	if len(chain) != len(want) {
		t.Fatalf("unexpected chain length: %v", chain)
	}
	for i := range want {
		if chain[i] != want[i] {
			t.Errorf("at %d: want %s, got %s", i, want[i], chain[i])
		}
	}
}

func TestAncestors_DoesNotAliasSharedTable(t *testing.T) {
	chain := Ancestors("biolink:Gene")
	chain[0] = "mutated"
	if Ancestors("biolink:Gene")[0] == "mutated" {
		t.Error("Ancestors must return a defensive copy")
	}
}

func TestAncestors_Empty(t *testing.T) {
	chain := Ancestors("")
	if chain[0] != "biolink:NamedThing" {
		t.Errorf("expected empty category to fall back to NamedThing, got %s", chain[0])
	}
}
