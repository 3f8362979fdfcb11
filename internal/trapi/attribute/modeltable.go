package attribute

// The Python original resolves a missing attribute_type_id/value_type_id
// through the Biolink Model Toolkit (get_element, falling back to
// "<name>_qualifier"), reading slot_uri/class_uri and the slot's declared
// range to pick a value_type_id. No equivalent model-introspection library
// exists anywhere in the retrieved example corpus, so this carries a small,
// immutable table for the slots this service's own attributes and the
// handful of common upstream SemSimian/HPOA attribute names actually use.
// See DESIGN.md for why this is a stdlib-only fallback rather than a wired
// dependency.
type slotInfo struct {
	attributeTypeID string
	valueTypeID     string
}

var slotTable = map[string]slotInfo{
	"score":               {"biolink:score", "linkml:Float"},
	"has_evidence":        {"biolink:has_evidence", "linkml:Uriorcurie"},
	"agent_type":          {"biolink:agent_type", "linkml:String"},
	"knowledge_level":     {"biolink:knowledge_level", "linkml:String"},
	"support_graphs":      {"biolink:support_graphs", "linkml:String"},
	"match":               {"biolink:match", "linkml:Uriorcurie"},
	"ancestor_id":         {"biolink:match", "linkml:Uriorcurie"},
	"publications":        {"biolink:publications", "linkml:Uriorcurie"},
	"negated":             {"biolink:negated", "linkml:Boolean"},
	"frequency_qualifier": {"biolink:frequency_qualifier", "linkml:String"},
	"onset_qualifier":     {"biolink:onset_qualifier", "linkml:String"},
}

// skipList mirrors attribute_mapping.py's core-property skip list: names
// that are already valid attribute_type_id/value_type_id values and so
// never need fallback resolution.
var skipList = map[string]bool{
	"attribute_type_id": true,
	"value_type_id":     true,
	"value":             true,
	"original_attribute_name": true,
}

// resolveSlot looks up a bare attribute name (e.g. "score",
// "frequency_qualifier") in the static slot table, trying the name first and
// then "<name>_qualifier" the way the Python fallback does when the plain
// name isn't itself a recognized slot.
func resolveSlot(name string) (slotInfo, bool) {
	if info, ok := slotTable[name]; ok {
		return info, true
	}
	if info, ok := slotTable[name+"_qualifier"]; ok {
		return info, true
	}
	return slotInfo{}, false
}
