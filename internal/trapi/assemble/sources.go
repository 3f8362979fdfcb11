package assemble

import (
	"sort"
	"strings"

	"github.com/monarch-initiative/semsim-mcq/internal/trapi/model"
)

// rawSource is an unformatted provenance entry supplied while building an
// edge, before the full sources tree (with upstream_resource_ids) is
// constructed.
type rawSource struct {
	ResourceID   string
	ResourceRole string
}

// buildSourcesTree composes the final "sources" provenance list for an edge,
// grounded on question.py's _construct_sources_tree: group resource ids by
// role, point aggregator entries at the primary sources, point primary
// entries at the supporting sources, point the system's own aggregator entry
// at whatever aggregator/primary/supporting sources exist, and drop entries
// with an empty resource id (silently; nothing is logged).
//
// REDESIGN FLAG: the Python original strips a literal "biolink:" prefix with
// str.lstrip, which removes any of the characters b,i,o,l,n,k,: from either
// end of the string and can corrupt unrelated role names. This uses a
// proper prefix check instead.
func buildSourcesTree(sources []rawSource, systemInfoRes string) []model.SourceEntry {
	grouped := make(map[string]map[string]bool)
	var roleOrder []string

	for _, s := range sources {
		if s.ResourceID == "" {
			continue
		}
		role := trimBiolinkPrefix(s.ResourceRole)
		if grouped[role] == nil {
			grouped[role] = make(map[string]bool)
			roleOrder = append(roleOrder, role)
		}
		grouped[role][s.ResourceID] = true
	}

	primary := sortedKeys(grouped["primary_knowledge_source"])
	aggregator := sortedKeys(grouped["aggregator_knowledge_source"])
	supporting := sortedKeys(grouped["supporting_data_source"])

	var entries []model.SourceEntry
	for _, role := range roleOrder {
		var upstream []string
		switch role {
		case "aggregator_knowledge_source":
			upstream = primary
		case "primary_knowledge_source":
			upstream = supporting
		}
		for _, id := range sortedKeys(grouped[role]) {
			entries = append(entries, model.SourceEntry{
				ResourceID:          id,
				ResourceRole:        role,
				UpstreamResourceIDs: upstream,
			})
		}
	}

	systemUpstream := aggregator
	if len(systemUpstream) == 0 {
		systemUpstream = primary
	}
	if len(systemUpstream) == 0 {
		systemUpstream = supporting
	}

	entries = append(entries, model.SourceEntry{
		ResourceID:          systemInfoRes,
		ResourceRole:        "aggregator_knowledge_source",
		UpstreamResourceIDs: systemUpstream,
	})

	return entries
}

// trimBiolinkPrefix removes a leading "biolink:" from role, if present,
// using an exact prefix check rather than a character-class strip.
func trimBiolinkPrefix(role string) string {
	const prefix = "biolink:"
	if strings.HasPrefix(role, prefix) {
		return strings.TrimPrefix(role, prefix)
	}
	return role
}

func sortedKeys(set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
