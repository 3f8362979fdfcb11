// Package assemble implements the Response Assembler: it turns a set of
// parsed SimilarityRecords into a TRAPI knowledge graph, auxiliary support
// graphs, and results, grounded on trapi.py's build_trapi_message.
package assemble

import (
	"github.com/monarch-initiative/semsim-mcq/internal/trapi/category"
	"github.com/monarch-initiative/semsim-mcq/internal/trapi/model"
)

// Synthetic original_attribute_name values for SemSimian-derived attributes,
// carried over from the Python original so downstream attribute mapping has
// something stable to key off.
const (
	aggregateSimilarityScore = "semsimian:score"
	matchTermScore           = "semsimian:object_best_matches.*.score"
	matchTermAttr            = "semsimian:object_best_matches.*.similarity.ancestor_id"
)

// Input bundles everything the assembler needs beyond the parsed matches.
// Matches is an order-preserving slice, not a map: spec.md's Determinism
// requirement has candidates iterated "in the order provided by the
// result_map", and Go map iteration order is randomized.
type Input struct {
	Subject                 model.MCQSubjectNode
	SubjectQNodeKey         string
	ObjectQNodeKey          string
	QEdgeKey                string
	Matches                 []*model.SimilarityRecord
	PrimaryKnowledgeSource  string
	IngestKnowledgeSource   string
	MatchPredicate          string
	SystemInfoRes           string
}

// nodeEntry is the mutable, pre-finalized form of a knowledge-graph node
// while it is being built up (mirrors the Python node_map dict entries).
type nodeEntry struct {
	name       string
	categories []string
	isSet      bool
	members    []string
	providedBy []string
}

// Assemble builds the knowledge graph, auxiliary graphs, and results for one
// MCQ query, in the exact node/edge construction order of trapi.py's
// build_trapi_message: the query-term set node and its member_of edges
// first, then one answer edge plus a support graph of pairwise match edges
// per similarity record.
func Assemble(in Input) *model.Message {
	edgeIDs := &EdgeIDAllocator{}
	kg := &model.KnowledgeGraph{
		Nodes: make(map[string]*model.KGNode),
		Edges: make(map[string]*model.KGEdge),
	}
	aux := make(map[string]*model.AuxGraph)
	var results []model.Result

	nodeOrder := []string{in.Subject.SetIdentifier}
	nodes := map[string]*nodeEntry{
		in.Subject.SetIdentifier: {
			members:    append([]string{}, in.Subject.MemberIDs...),
			categories: category.Ancestors(in.Subject.Category),
			isSet:      true,
			providedBy: []string{"infores:user-interface"},
		},
	}

	memberEdgeIDs := make(map[string]string, len(in.Subject.MemberIDs))
	for _, termID := range in.Subject.MemberIDs {
		if _, ok := nodes[termID]; !ok {
			nodeOrder = append(nodeOrder, termID)
			nodes[termID] = &nodeEntry{
				categories: category.Ancestors(in.Subject.Category),
				providedBy: []string{"infores:user-interface"},
			}
		}

		memberEdgeID := edgeIDs.Next()
		kg.Edges[memberEdgeID] = &model.KGEdge{
			Subject:   termID,
			Predicate: "biolink:member_of",
			Object:    in.Subject.SetIdentifier,
			Sources: []model.SourceEntry{
				{ResourceID: "infores:user-interface", ResourceRole: "primary_knowledge_source"},
			},
			Attributes: []model.Attribute{
				{AttributeTypeID: "biolink:agent_type", Value: "manual_agent"},
				{AttributeTypeID: "biolink:knowledge_level", Value: "knowledge_assertion"},
			},
		}
		memberEdgeIDs[termID] = memberEdgeID
	}

	commonSources := []rawSource{
		{ResourceID: in.PrimaryKnowledgeSource, ResourceRole: "primary_knowledge_source"},
		{ResourceID: in.IngestKnowledgeSource, ResourceRole: "supporting_data_source"},
	}

	for _, record := range in.Matches {
		matchedTermID := record.SubjectID

		// Phase C step 1: per-candidate dedup cache keyed by TermMatch.SubjectID,
		// insertion-order preserved for deterministic edge allocation.
		dedupedMatches := dedupeTermMatches(record.Matches)

		// Phase C step 2: ALL set-interpretation filter. MANY accepts partial
		// matches; ALL requires every input member to be observed in the cache.
		if in.Subject.SetInterpretation == "ALL" && !coversAllMembers(dedupedMatches, in.Subject.MemberIDs) {
			continue
		}

		if _, ok := nodes[matchedTermID]; !ok {
			nodeOrder = append(nodeOrder, matchedTermID)
			providedBy := []string{}
			if record.ProvidedBy != "" {
				providedBy = []string{record.ProvidedBy}
			}
			nodes[matchedTermID] = &nodeEntry{
				name:       record.Name,
				categories: category.Ancestors(record.Category),
				providedBy: providedBy,
			}
		}

		answerSources := append([]rawSource{}, commonSources...)
		if record.ProvidedBy != "" {
			answerSources = append(answerSources, rawSource{ResourceID: record.ProvidedBy, ResourceRole: "supporting_data_source"})
		}

		answerEdgeID := edgeIDs.Next()
		supportGraphID := "sg-" + answerEdgeID
		aux[supportGraphID] = &model.AuxGraph{Edges: []string{}}

		kg.Edges[answerEdgeID] = &model.KGEdge{
			Subject:   matchedTermID,
			Predicate: "biolink:similar_to",
			Object:    in.Subject.SetIdentifier,
			Sources:   buildSourcesTree(answerSources, in.SystemInfoRes),
			Attributes: []model.Attribute{
				{
					AttributeTypeID:       "biolink:score",
					OriginalAttributeName: aggregateSimilarityScore,
					Value:                 record.Score,
					ValueTypeID:           "linkml:Float",
					AttributeSource:       in.PrimaryKnowledgeSource,
				},
				{
					AttributeTypeID: "biolink:support_graphs",
					Value:           []string{supportGraphID},
					ValueTypeID:     "linkml:String",
					AttributeSource: in.PrimaryKnowledgeSource,
				},
				{AttributeTypeID: "biolink:agent_type", Value: "automated_agent"},
				{AttributeTypeID: "biolink:knowledge_level", Value: "knowledge_assertion"},
			},
		}

		for _, match := range dedupedMatches {
			if _, ok := nodes[match.SubjectID]; !ok {
				nodeOrder = append(nodeOrder, match.SubjectID)
				nodes[match.SubjectID] = &nodeEntry{
					name:       match.SubjectName,
					categories: category.Ancestors(match.Category),
				}
			} else if nodes[match.SubjectID].name == "" {
				nodes[match.SubjectID].name = match.SubjectName
			}

			if _, ok := nodes[match.ObjectID]; !ok {
				nodeOrder = append(nodeOrder, match.ObjectID)
				nodes[match.ObjectID] = &nodeEntry{
					name:       match.ObjectName,
					categories: category.Ancestors(match.Category),
				}
			} else if nodes[match.ObjectID].name == "" {
				nodes[match.ObjectID].name = match.ObjectName
			}

			matchToInputEdgeID := edgeIDs.Next()
			kg.Edges[matchToInputEdgeID] = &model.KGEdge{
				Subject:   match.SubjectID,
				Predicate: "biolink:similar_to",
				Object:    match.ObjectID,
				Sources:   buildSourcesTree(answerSources, in.SystemInfoRes),
				Attributes: []model.Attribute{
					{
						AttributeTypeID:       "biolink:score",
						OriginalAttributeName: matchTermScore,
						Value:                 match.Score,
						ValueTypeID:           "linkml:Float",
						AttributeSource:       in.PrimaryKnowledgeSource,
					},
					{
						AttributeTypeID:       "biolink:match",
						OriginalAttributeName: matchTermAttr,
						Value:                 match.MatchedTerm,
						ValueTypeID:           "linkml:Uriorcurie",
						AttributeSource:       in.PrimaryKnowledgeSource,
					},
					{AttributeTypeID: "biolink:agent_type", Value: "automated_agent"},
					{AttributeTypeID: "biolink:knowledge_level", Value: "knowledge_assertion"},
				},
			}
			aux[supportGraphID].Edges = append(aux[supportGraphID].Edges, matchToInputEdgeID)

			matchedTermEdgeID := edgeIDs.Next()
			kg.Edges[matchedTermEdgeID] = &model.KGEdge{
				Subject:   matchedTermID,
				Predicate: in.MatchPredicate,
				Object:    match.SubjectID,
				Sources: buildSourcesTree([]rawSource{
					{ResourceID: in.IngestKnowledgeSource, ResourceRole: "primary_knowledge_source"},
				}, in.SystemInfoRes),
				Attributes: []model.Attribute{
					{
						AttributeTypeID: "biolink:has_evidence",
						Value:           "ECO:0000304",
						ValueTypeID:     "linkml:Uriorcurie",
						AttributeSource: in.IngestKnowledgeSource,
					},
					{AttributeTypeID: "biolink:agent_type", Value: "automated_agent"},
					{AttributeTypeID: "biolink:knowledge_level", Value: "knowledge_assertion"},
				},
			}
			aux[supportGraphID].Edges = append(aux[supportGraphID].Edges, matchedTermEdgeID)

			if memberEdgeID, ok := memberEdgeIDs[match.ObjectID]; ok {
				aux[supportGraphID].Edges = append(aux[supportGraphID].Edges, memberEdgeID)
			}
		}

		results = append(results, model.Result{
			NodeBindings: map[string][]model.Binding{
				in.SubjectQNodeKey: {{ID: in.Subject.SetIdentifier}},
				in.ObjectQNodeKey:  {{ID: matchedTermID}},
			},
			Analyses: []model.Analysis{
				{
					ResourceID: in.SystemInfoRes,
					EdgeBindings: map[string][]model.Binding{
						in.QEdgeKey: {{ID: answerEdgeID}},
					},
				},
			},
		})
	}

	for _, id := range nodeOrder {
		entry := nodes[id]
		kg.Nodes[id] = &model.KGNode{
			Name:       entry.name,
			Categories: entry.categories,
			IsSet:      entry.isSet,
			Members:    entry.members,
			ProvidedBy: entry.providedBy,
		}
	}

	return &model.Message{
		KnowledgeGraph:  kg,
		AuxiliaryGraphs: aux,
		Results:         results,
	}
}

// dedupeTermMatches applies the §4.3 deduplication rule (keep the
// higher-scoring match, ties break by first-seen) within one candidate's
// TermMatches, keyed by SubjectID (the candidate-associated match term).
// Order-preserving: a later duplicate that wins keeps its first-seen
// position, matching the Response Assembler's insertion-order requirement
// for per-candidate supporting edges.
func dedupeTermMatches(matches []model.TermMatch) []model.TermMatch {
	var ordered []model.TermMatch
	index := make(map[string]int)

	for _, m := range matches {
		pos, ok := index[m.SubjectID]
		if !ok {
			index[m.SubjectID] = len(ordered)
			ordered = append(ordered, m)
			continue
		}
		if m.Score > ordered[pos].Score {
			ordered[pos] = m
		}
	}

	return ordered
}

// coversAllMembers reports whether every input member id was observed as the
// object (input-term) side of some TermMatch, the ALL set-interpretation
// filter's condition.
func coversAllMembers(matches []model.TermMatch, members []string) bool {
	observed := make(map[string]bool, len(matches))
	for _, m := range matches {
		observed[m.ObjectID] = true
	}
	for _, id := range members {
		if !observed[id] {
			return false
		}
	}
	return true
}
