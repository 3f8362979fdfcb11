package attribute

import (
	"strings"

	"github.com/monarch-initiative/semsim-mcq/internal/trapi/model"
)

// MapAttributes fills in attribute_type_id/value_type_id for any attribute
// that arrived with only an original_attribute_name, grounded on
// attribute_mapping.py's get_attribute_bl_info fallback chain: skip
// attributes that already carry both ids, otherwise resolve the bare slot
// name (the final dotted path segment after any namespace prefix, so
// SemSimian's "object_best_matches.*.score" becomes "score") through the
// static slot table.
// Unresolvable names are left as-is with a generic string value type,
// mirroring the Python fallback's final "treat as string" branch.
func MapAttributes(attrs []model.Attribute) []model.Attribute {
	mapped := make([]model.Attribute, len(attrs))
	for i, a := range attrs {
		mapped[i] = MapAttribute(a)
	}
	return mapped
}

// MapAttribute fills in a single attribute's missing ids in place (returning
// a copy), leaving already-complete attributes untouched.
func MapAttribute(a model.Attribute) model.Attribute {
	if a.AttributeTypeID != "" && a.ValueTypeID != "" {
		return a
	}
	name := bareSlotName(a.OriginalAttributeName)
	if name == "" {
		if a.ValueTypeID == "" {
			a.ValueTypeID = "linkml:String"
		}
		return a
	}
	info, ok := resolveSlot(name)
	if !ok {
		if a.ValueTypeID == "" {
			a.ValueTypeID = "linkml:String"
		}
		return a
	}
	if a.AttributeTypeID == "" {
		a.AttributeTypeID = info.attributeTypeID
	}
	if a.ValueTypeID == "" {
		a.ValueTypeID = info.valueTypeID
	}
	return a
}

// bareSlotName strips a SemSimian-style namespace prefix and wildcard index
// path (e.g. "semsimian:object_best_matches.*.similarity.ancestor_id" ->
// "ancestor_id") down to the final path segment, the slot name itself.
func bareSlotName(originalAttributeName string) string {
	name := originalAttributeName
	if idx := strings.Index(name, ":"); idx >= 0 {
		name = name[idx+1:]
	}
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		name = name[idx+1:]
	}
	return name
}
