package attribute

import "github.com/monarch-initiative/semsim-mcq/internal/trapi/model"

// attrMap indexes a node's or edge's attributes by attribute_type_id for
// constraint lookup: constraints.py's check_attributes matches a constraint
// against a target attribute by attribute_type_id == constraint.id, not by
// the constraint's human-readable name.
func attrMap(attrs []model.Attribute) map[string]any {
	out := make(map[string]any, len(attrs))
	for _, a := range attrs {
		out[a.AttributeTypeID] = a.Value
	}
	return out
}

// CheckAttributeConstraint evaluates one constraint against an attribute
// value map, grounded on constraints.py's check_attribute_constraint:
// resolve the operator, apply it, and flip the result if the constraint is
// negated. A constraint whose attribute_type_id is absent from the
// attribute map never satisfies the constraint (negation included),
// matching the "no such attribute" branch of the original. A constraint
// with an unknown operator is not satisfied either.
func CheckAttributeConstraint(c model.AttributeConstraint, attrs map[string]any) bool {
	observed, ok := attrs[c.ID]
	if !ok {
		return false
	}
	op := Lookup(c.Operator)
	if op == nil {
		return false
	}
	result := op.Apply(c.Value, observed)
	if c.Negated {
		return !result
	}
	return result
}

// CheckAttributes reports whether attrs satisfies every constraint in cs
// (logical AND across constraints), grounded on constraints.py's
// check_attributes.
func CheckAttributes(cs []model.AttributeConstraint, attrs map[string]any) bool {
	for _, c := range cs {
		if !CheckAttributeConstraint(c, attrs) {
			return false
		}
	}
	return true
}

// FilterResults prunes the knowledge graph against the query graph's node
// and edge attribute_constraints, grounded on question.py's
// apply_attribute_constraints: only nodes and edges that fail a constraint
// (plus edges adjacent to a failed node) are removed from the knowledge
// graph, not just-anything-unreferenced-by-a-surviving-result. A result is
// dropped only if one of its bindings now points at a removed node or edge.
//
// This diverges from the Python original in one respect: that code rebuilds
// the message without its auxiliary_graphs entirely. This keeps
// auxiliary_graphs, stripping dangling edge references out of any aux graph
// whose member edge was removed, because the message invariant requires
// every referenced aux graph id (and every edge id within it) to remain
// resolvable.
func FilterResults(msg *model.Message, qg *model.QueryGraph) *model.Message {
	if qg == nil || msg.KnowledgeGraph == nil {
		return msg
	}

	failingNodes := make(map[string]bool)
	failingEdges := make(map[string]bool)

	for _, result := range msg.Results {
		for qnodeKey, bindings := range result.NodeBindings {
			qnode, ok := qg.Nodes[qnodeKey]
			if !ok || len(qnode.Constraints) == 0 {
				continue
			}
			for _, b := range bindings {
				node, ok := msg.KnowledgeGraph.Nodes[b.ID]
				if !ok || !CheckAttributes(qnode.Constraints, attrMap(node.Attributes)) {
					failingNodes[b.ID] = true
				}
			}
		}
		for _, analysis := range result.Analyses {
			for qedgeKey, bindings := range analysis.EdgeBindings {
				qedge, ok := qg.Edges[qedgeKey]
				if !ok || len(qedge.AttributeConstraints) == 0 {
					continue
				}
				for _, b := range bindings {
					edge, ok := msg.KnowledgeGraph.Edges[b.ID]
					if !ok || !CheckAttributes(qedge.AttributeConstraints, attrMap(edge.Attributes)) {
						failingEdges[b.ID] = true
					}
				}
			}
		}
	}

	for id, edge := range msg.KnowledgeGraph.Edges {
		if failingNodes[edge.Subject] || failingNodes[edge.Object] {
			failingEdges[id] = true
		}
	}

	prunedNodes := make(map[string]*model.KGNode, len(msg.KnowledgeGraph.Nodes))
	for id, n := range msg.KnowledgeGraph.Nodes {
		if !failingNodes[id] {
			prunedNodes[id] = n
		}
	}
	prunedEdges := make(map[string]*model.KGEdge, len(msg.KnowledgeGraph.Edges))
	for id, e := range msg.KnowledgeGraph.Edges {
		if !failingEdges[id] {
			prunedEdges[id] = e
		}
	}

	var prunedAux map[string]*model.AuxGraph
	if msg.AuxiliaryGraphs != nil {
		prunedAux = make(map[string]*model.AuxGraph, len(msg.AuxiliaryGraphs))
		for id, g := range msg.AuxiliaryGraphs {
			edges := make([]string, 0, len(g.Edges))
			for _, edgeID := range g.Edges {
				if !failingEdges[edgeID] {
					edges = append(edges, edgeID)
				}
			}
			prunedAux[id] = &model.AuxGraph{Edges: edges}
		}
	}

	kept := make([]model.Result, 0, len(msg.Results))
	for _, result := range msg.Results {
		if resultSurvives(result, failingNodes, failingEdges) {
			kept = append(kept, result)
		}
	}

	return &model.Message{
		QueryGraph:      msg.QueryGraph,
		KnowledgeGraph:  &model.KnowledgeGraph{Nodes: prunedNodes, Edges: prunedEdges},
		AuxiliaryGraphs: prunedAux,
		Results:         kept,
	}
}

// resultSurvives reports whether none of result's node or edge bindings
// point at an id removed by constraint filtering.
func resultSurvives(result model.Result, failingNodes, failingEdges map[string]bool) bool {
	for _, bindings := range result.NodeBindings {
		for _, b := range bindings {
			if failingNodes[b.ID] {
				return false
			}
		}
	}
	for _, analysis := range result.Analyses {
		for _, bindings := range analysis.EdgeBindings {
			for _, b := range bindings {
				if failingEdges[b.ID] {
					return false
				}
			}
		}
	}
	return true
}
