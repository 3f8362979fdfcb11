// Package query implements the Query Interpreter: it validates an inbound
// TRAPI query graph and extracts the MCQ subject node the rest of the
// pipeline needs.
package query

import (
	"errors"
	"fmt"
	"strings"

	"github.com/monarch-initiative/semsim-mcq/internal/trapi/model"
)

// Sentinel validation errors. Each is wrapped with request-specific detail
// via fmt.Errorf("%w: ...", ...) before being surfaced to the caller.
var (
	ErrNoQueryGraph      = errors.New("query graph is missing")
	ErrWrongNodeCount    = errors.New("query graph must define exactly two nodes")
	ErrNoMCQSubject      = errors.New("query graph has no properly formulated multi-curie subject node")
	ErrDanglingEdge      = errors.New("query edge has neither subject nor object defined")
	ErrUnknownEdgeNode   = errors.New("query edge references an undefined node")
	ErrSameSubjectObject = errors.New("query edge subject and object must reference different nodes")
)

// setInterpretations lists the set_interpretation values this service
// accepts as an MCQ subject node (spec.md §4.1).
var setInterpretations = map[string]bool{"MANY": true, "ALL": true}

// IsMCQSubject reports whether a query node qualifies as the MCQ subject:
// is_set true, a recognized set_interpretation, exactly one id carrying a
// case-insensitive "UUID:" prefix, and a non-empty member_ids list.
func IsMCQSubject(n *model.QueryNode) bool {
	return n != nil &&
		n.IsSet &&
		setInterpretations[n.SetInterpretation] &&
		len(n.IDs) == 1 &&
		hasUUIDPrefix(n.IDs[0]) &&
		len(n.MemberIDs) > 0
}

// hasUUIDPrefix reports whether id begins with "UUID:", case-insensitively.
func hasUUIDPrefix(id string) bool {
	return len(id) >= len("uuid:") && strings.EqualFold(id[:len("uuid:")], "uuid:")
}

// Interpreted is the result of validating and interpreting a query graph.
type Interpreted struct {
	Subject       model.MCQSubjectNode
	SubjectKey    string
	ObjectKey     string
	QEdgeKey      string
	QEdge         *model.QueryEdge
}

// Interpret validates qg against spec.md §4.1's invariants and extracts the
// MCQ subject node plus the qnode/qedge keys the Response Assembler needs.
func Interpret(qg *model.QueryGraph) (*Interpreted, error) {
	if qg == nil || qg.Nodes == nil {
		return nil, ErrNoQueryGraph
	}

	if len(qg.Nodes) != 2 {
		return nil, fmt.Errorf("%w: found %d", ErrWrongNodeCount, len(qg.Nodes))
	}

	var subjectKey, objectKey string
	var subjectNode *model.QueryNode
	for key, node := range qg.Nodes {
		if IsMCQSubject(node) {
			subjectKey = key
			subjectNode = node
		} else {
			objectKey = key
		}
	}

	if subjectNode == nil {
		return nil, ErrNoMCQSubject
	}

	for edgeKey, edge := range qg.Edges {
		if edge.Subject == "" && edge.Object == "" {
			return nil, fmt.Errorf("%w: edge %q", ErrDanglingEdge, edgeKey)
		}
		if edge.Subject == edge.Object {
			return nil, fmt.Errorf("%w: edge %q", ErrSameSubjectObject, edgeKey)
		}
		if edge.Subject != "" {
			if _, ok := qg.Nodes[edge.Subject]; !ok {
				return nil, fmt.Errorf("%w: edge %q subject %q", ErrUnknownEdgeNode, edgeKey, edge.Subject)
			}
		}
		if edge.Object != "" {
			if _, ok := qg.Nodes[edge.Object]; !ok {
				return nil, fmt.Errorf("%w: edge %q object %q", ErrUnknownEdgeNode, edgeKey, edge.Object)
			}
		}
	}

	category := "biolink:NamedThing"
	if len(subjectNode.Categories) > 0 {
		category = subjectNode.Categories[0]
	}

	var qedgeKey string
	var qedge *model.QueryEdge
	for key, edge := range qg.Edges {
		qedgeKey = key
		qedge = edge
		break
	}

	return &Interpreted{
		Subject: model.MCQSubjectNode{
			QNodeKey:          subjectKey,
			SetIdentifier:     subjectNode.IDs[0],
			SetInterpretation: subjectNode.SetInterpretation,
			MemberIDs:         subjectNode.MemberIDs,
			Category:          category,
		},
		SubjectKey: subjectKey,
		ObjectKey:  objectKey,
		QEdgeKey:   qedgeKey,
		QEdge:      qedge,
	}, nil
}
