// Package category resolves a Biolink category to its full ancestor chain.
//
// The Python original delegates this to the Biolink Model Toolkit's
// get_ancestors call. No equivalent Go library exists anywhere in the
// retrieved example corpus, so this package carries a small, immutable,
// hand-built ancestor table covering the categories this service's edges
// actually use (phenotypic features, diseases, genes, and named things in
// general). See DESIGN.md for why this is the one stdlib-only fallback in
// the repo.
package category

// ancestors maps a Biolink category to its full parent chain, most specific
// first, ending in "biolink:NamedThing", "biolink:Entity" — the same shape
// Toolkit.get_ancestors(..., formatted=True, mixin=False) returns.
var ancestors = map[string][]string{
	"biolink:PhenotypicFeature": {
		"biolink:PhenotypicFeature",
		"biolink:DiseaseOrPhenotypicFeature",
		"biolink:BiologicalEntity",
		"biolink:ThingWithTaxon",
		"biolink:NamedThing",
		"biolink:Entity",
	},
	"biolink:Disease": {
		"biolink:Disease",
		"biolink:DiseaseOrPhenotypicFeature",
		"biolink:BiologicalEntity",
		"biolink:ThingWithTaxon",
		"biolink:NamedThing",
		"biolink:Entity",
	},
	"biolink:Gene": {
		"biolink:Gene",
		"biolink:GenomicEntity",
		"biolink:ChemicalEntityOrGeneOrGeneProduct",
		"biolink:GeneOrGeneProduct",
		"biolink:BiologicalEntity",
		"biolink:ThingWithTaxon",
		"biolink:NamedThing",
		"biolink:Entity",
	},
	"biolink:NamedThing": {
		"biolink:NamedThing",
		"biolink:Entity",
	},
}

// Ancestors returns the full ancestor list for category, most specific
// first. Unknown categories fall back to just [category, NamedThing, Entity]
// (an empty category to [NamedThing, Entity]) so callers never get an empty
// list.
func Ancestors(category string) []string {
	if chain, ok := ancestors[category]; ok {
		out := make([]string, len(chain))
		copy(out, chain)
		return out
	}
	if category == "" || category == "biolink:NamedThing" {
		return []string{"biolink:NamedThing", "biolink:Entity"}
	}
	return []string{category, "biolink:NamedThing", "biolink:Entity"}
}
