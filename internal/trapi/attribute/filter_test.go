package attribute

import (
	"testing"

	"github.com/monarch-initiative/semsim-mcq/internal/trapi/model"
)

func TestCheckAttributeConstraint_EqualToMatch(t *testing.T) {
	c := model.AttributeConstraint{ID: "biolink:knowledge_level", Name: "knowledge level", Operator: OpEqualTo, Value: "knowledge_assertion"}
	attrs := map[string]any{"biolink:knowledge_level": "knowledge_assertion"}
	if !CheckAttributeConstraint(c, attrs) {
		t.Error("expected constraint to be satisfied")
	}
}

func TestCheckAttributeConstraint_Negated(t *testing.T) {
	c := model.AttributeConstraint{ID: "biolink:knowledge_level", Operator: OpEqualTo, Value: "prediction", Negated: true}
	attrs := map[string]any{"biolink:knowledge_level": "knowledge_assertion"}
	if !CheckAttributeConstraint(c, attrs) {
		t.Error("expected negated mismatch to satisfy the constraint")
	}
}

func TestCheckAttributeConstraint_MissingAttributeFails(t *testing.T) {
	c := model.AttributeConstraint{ID: "biolink:score", Operator: OpGreaterThan, Value: 5.0}
	if CheckAttributeConstraint(c, map[string]any{}) {
		t.Error("expected missing attribute to fail the constraint")
	}
}

func TestCheckAttributeConstraint_MatchesByIDNotName(t *testing.T) {
	c := model.AttributeConstraint{ID: "biolink:score", Name: "a human label unrelated to the key", Operator: OpGreaterThan, Value: 5.0}
	attrs := map[string]any{"biolink:score": 9.1}
	if !CheckAttributeConstraint(c, attrs) {
		t.Error("expected constraint to match by attribute_type_id even though Name differs")
	}
}

func TestCheckAttributes_AllMustPass(t *testing.T) {
	cs := []model.AttributeConstraint{
		{ID: "biolink:score", Operator: OpGreaterThan, Value: 5.0},
		{ID: "biolink:agent_type", Operator: OpEqualTo, Value: "automated_agent"},
	}
	attrs := map[string]any{"biolink:score": 9.1, "biolink:agent_type": "automated_agent"}
	if !CheckAttributes(cs, attrs) {
		t.Error("expected all constraints to pass")
	}

	attrs["biolink:score"] = 1.0
	if CheckAttributes(cs, attrs) {
		t.Error("expected failing score constraint to fail CheckAttributes")
	}
}

const testSetID = "UUID:4403ddf2-0000-0000-0000-000000000000"

func baseMessage() (*model.Message, *model.QueryGraph) {
	msg := &model.Message{
		KnowledgeGraph: &model.KnowledgeGraph{
			Nodes: map[string]*model.KGNode{
				testSetID:    {IsSet: true},
				"MONDO:1":    {Name: "disease one"},
				"MONDO:2":    {Name: "disease two, unbound"},
				"HP:0002104": {Name: "Apnea"},
			},
			Edges: map[string]*model.KGEdge{
				"e0001": {Subject: "HP:0002104", Predicate: "biolink:member_of", Object: testSetID},
				"e0002": {
					Subject: "MONDO:1", Predicate: "biolink:similar_to", Object: testSetID,
					Attributes: []model.Attribute{
						{AttributeTypeID: "biolink:score", Value: 9.1},
						{AttributeTypeID: "biolink:support_graphs", Value: []string{"sg-e0002"}},
					},
				},
				"e0003": {Subject: "HP:0002104", Predicate: "biolink:similar_to", Object: "HP:0002104"},
				"e0004": {Subject: "MONDO:2", Predicate: "biolink:similar_to", Object: testSetID},
			},
		},
		AuxiliaryGraphs: map[string]*model.AuxGraph{
			"sg-e0002": {Edges: []string{"e0003", "e0001"}},
		},
		Results: []model.Result{
			{
				NodeBindings: map[string][]model.Binding{
					"n0": {{ID: testSetID}},
					"n1": {{ID: "MONDO:1"}},
				},
				Analyses: []model.Analysis{
					{ResourceID: "infores:monarch-mcq", EdgeBindings: map[string][]model.Binding{"e0": {{ID: "e0002"}}}},
				},
			},
		},
	}
	qg := &model.QueryGraph{
		Nodes: map[string]*model.QueryNode{"n0": {}, "n1": {}},
		Edges: map[string]*model.QueryEdge{"e0": {}},
	}
	return msg, qg
}

func TestFilterResults_NoConstraintsKeepsEverything(t *testing.T) {
	msg, qg := baseMessage()
	filtered := FilterResults(msg, qg)
	if len(filtered.Results) != 1 {
		t.Fatalf("expected 1 result kept, got %d", len(filtered.Results))
	}
	if _, ok := filtered.AuxiliaryGraphs["sg-e0002"]; !ok {
		t.Error("expected auxiliary graph sg-e0002 preserved")
	}
	if _, ok := filtered.KnowledgeGraph.Nodes["MONDO:2"]; !ok {
		t.Error("expected unbound node MONDO:2 to remain in the knowledge graph")
	}
	if _, ok := filtered.KnowledgeGraph.Edges["e0004"]; !ok {
		t.Error("expected unbound edge e0004 to remain in the knowledge graph")
	}
}

func TestFilterResults_DropsResultFailingEdgeConstraint(t *testing.T) {
	msg, qg := baseMessage()
	qg.Edges["e0"].AttributeConstraints = []model.AttributeConstraint{
		{ID: "biolink:score", Operator: OpGreaterThan, Value: 20.0},
	}
	filtered := FilterResults(msg, qg)
	if len(filtered.Results) != 0 {
		t.Fatalf("expected result dropped, got %d", len(filtered.Results))
	}
	if _, ok := filtered.KnowledgeGraph.Nodes["MONDO:2"]; !ok {
		t.Error("expected unbound, non-failing node MONDO:2 to remain even though every result was dropped")
	}
	if _, ok := filtered.KnowledgeGraph.Edges["e0004"]; !ok {
		t.Error("expected unbound, non-failing edge e0004 to remain even though every result was dropped")
	}
	if _, ok := filtered.KnowledgeGraph.Edges["e0002"]; ok {
		t.Error("expected the constraint-failing edge e0002 to be removed")
	}
}

func TestFilterResults_RemovesNodeFailingConstraintAndItsIncidentEdges(t *testing.T) {
	msg, qg := baseMessage()
	qg.Nodes["n1"].Constraints = []model.AttributeConstraint{
		{ID: "biolink:never_present", Operator: OpEqualTo, Value: "x"},
	}
	filtered := FilterResults(msg, qg)

	if _, ok := filtered.KnowledgeGraph.Nodes["MONDO:1"]; ok {
		t.Error("expected MONDO:1 removed for failing its node constraint")
	}
	if _, ok := filtered.KnowledgeGraph.Edges["e0002"]; ok {
		t.Error("expected edge e0002 removed as incident to the failing node")
	}
	if len(filtered.Results) != 0 {
		t.Errorf("expected the result bound to the failing node to be dropped, got %d", len(filtered.Results))
	}
}

func TestFilterResults_PreservesAuxGraphReferentialIntegrity(t *testing.T) {
	msg, qg := baseMessage()
	filtered := FilterResults(msg, qg)

	for _, edgeID := range filtered.AuxiliaryGraphs["sg-e0002"].Edges {
		edge, ok := filtered.KnowledgeGraph.Edges[edgeID]
		if !ok {
			t.Fatalf("aux graph references edge %s not present in pruned knowledge graph", edgeID)
		}
		if _, ok := filtered.KnowledgeGraph.Nodes[edge.Subject]; !ok {
			t.Errorf("pruned knowledge graph missing subject node %s referenced by aux graph edge %s", edge.Subject, edgeID)
		}
		if _, ok := filtered.KnowledgeGraph.Nodes[edge.Object]; !ok {
			t.Errorf("pruned knowledge graph missing object node %s referenced by aux graph edge %s", edge.Object, edgeID)
		}
	}
}

func TestFilterResults_StripsDanglingAuxGraphEdgeReferences(t *testing.T) {
	msg, qg := baseMessage()
	qg.Nodes["n1"].Constraints = []model.AttributeConstraint{
		{ID: "biolink:never_present", Operator: OpEqualTo, Value: "x"},
	}
	msg.AuxiliaryGraphs["sg-e0002"].Edges = append(msg.AuxiliaryGraphs["sg-e0002"].Edges, "e0002")

	filtered := FilterResults(msg, qg)

	for _, edgeID := range filtered.AuxiliaryGraphs["sg-e0002"].Edges {
		if edgeID == "e0002" {
			t.Error("expected the dangling reference to the removed edge e0002 to be stripped from the aux graph")
		}
	}
}
