package api

import "net/http"

// metaKnowledgeGraph is the static TRAPI meta_knowledge_graph descriptor for
// this service: it answers exactly one multi-CURIE query shape, a set node
// similar_to a single matched node, grounded on app_trapi_1_5.py's
// /meta_knowledge_graph handler.
var metaKnowledgeGraph = map[string]any{
	"nodes": map[string]any{
		"biolink:PhenotypicFeature": map[string]any{"id_prefixes": []string{"HP", "MP"}},
		"biolink:Disease":           map[string]any{"id_prefixes": []string{"MONDO"}},
		"biolink:Gene":              map[string]any{"id_prefixes": []string{"HGNC", "NCBIGene"}},
		"biolink:NamedThing":        map[string]any{"id_prefixes": []string{"HP", "MP", "MONDO", "HGNC", "NCBIGene"}},
	},
	"edges": []map[string]any{
		{
			"subject":   "biolink:NamedThing",
			"predicate": "biolink:similar_to",
			"object":    "biolink:NamedThing",
			"knowledge_types": []string{"inferred"},
		},
	},
}

// metadata is the static TRAPI /metadata descriptor.
var metadata = map[string]any{
	"attributes": map[string]any{},
}

func (s *Server) handleMetaKnowledgeGraph(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, metaKnowledgeGraph)
}

func (s *Server) handleMetadata(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, metadata)
}
