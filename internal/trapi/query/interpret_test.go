package query

import (
	"errors"
	"testing"

	"github.com/monarch-initiative/semsim-mcq/internal/trapi/model"
)

func validGraph() *model.QueryGraph {
	return &model.QueryGraph{
		Nodes: map[string]*model.QueryNode{
			"n0": {
				IDs:               []string{"UUID:4403ddf2-0000-0000-0000-000000000000"},
				IsSet:             true,
				SetInterpretation: "MANY",
				MemberIDs:         []string{"HP:0002104", "HP:0012378"},
				Categories:        []string{"biolink:PhenotypicFeature"},
			},
			"n1": {Categories: []string{"biolink:Disease"}},
		},
		Edges: map[string]*model.QueryEdge{
			"e0": {Subject: "n1", Object: "n0", Predicates: []string{"biolink:has_phenotype"}},
		},
	}
}

func TestInterpret_Success(t *testing.T) {
	out, err := Interpret(validGraph())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Subject.SetIdentifier != "UUID:4403ddf2-0000-0000-0000-000000000000" {
		t.Errorf("unexpected set identifier: %s", out.Subject.SetIdentifier)
	}
	if len(out.Subject.MemberIDs) != 2 {
		t.Errorf("expected 2 member ids, got %d", len(out.Subject.MemberIDs))
	}
	if out.SubjectKey != "n0" || out.ObjectKey != "n1" {
		t.Errorf("unexpected keys: subject=%s object=%s", out.SubjectKey, out.ObjectKey)
	}
}

func TestInterpret_WrongNodeCount(t *testing.T) {
	qg := validGraph()
	qg.Nodes["n2"] = &model.QueryNode{}
	_, err := Interpret(qg)
	if !errors.Is(err, ErrWrongNodeCount) {
		t.Fatalf("expected ErrWrongNodeCount, got %v", err)
	}
}

func TestInterpret_NoMCQSubject(t *testing.T) {
	qg := validGraph()
	qg.Nodes["n0"].IsSet = false
	_, err := Interpret(qg)
	if !errors.Is(err, ErrNoMCQSubject) {
		t.Fatalf("expected ErrNoMCQSubject, got %v", err)
	}
}

func TestInterpret_DanglingEdge(t *testing.T) {
	qg := validGraph()
	qg.Edges["e0"].Subject = ""
	qg.Edges["e0"].Object = ""
	_, err := Interpret(qg)
	if !errors.Is(err, ErrDanglingEdge) {
		t.Fatalf("expected ErrDanglingEdge, got %v", err)
	}
}

func TestInterpret_SameSubjectObject(t *testing.T) {
	qg := validGraph()
	qg.Edges["e0"].Object = "n1"
	_, err := Interpret(qg)
	if !errors.Is(err, ErrSameSubjectObject) {
		t.Fatalf("expected ErrSameSubjectObject, got %v", err)
	}
}

func TestInterpret_UnknownEdgeNode(t *testing.T) {
	qg := validGraph()
	qg.Edges["e0"].Subject = "ghost"
	_, err := Interpret(qg)
	if !errors.Is(err, ErrUnknownEdgeNode) {
		t.Fatalf("expected ErrUnknownEdgeNode, got %v", err)
	}
}

func TestIsMCQSubject_RejectsSingleInterpretation(t *testing.T) {
	n := &model.QueryNode{IDs: []string{"UUID:1"}, MemberIDs: []string{"y"}, IsSet: true, SetInterpretation: "BATCH"}
	if IsMCQSubject(n) {
		t.Error("expected BATCH set_interpretation to be rejected")
	}
}

func TestIsMCQSubject_RejectsMissingUUIDPrefix(t *testing.T) {
	n := &model.QueryNode{IDs: []string{"PathSet:1"}, MemberIDs: []string{"y"}, IsSet: true, SetInterpretation: "MANY"}
	if IsMCQSubject(n) {
		t.Error("expected a non-UUID: prefixed id to be rejected")
	}
}

func TestIsMCQSubject_AcceptsCaseInsensitiveUUIDPrefix(t *testing.T) {
	n := &model.QueryNode{IDs: []string{"uuid:4403ddf2-0000-0000-0000-000000000000"}, MemberIDs: []string{"y"}, IsSet: true, SetInterpretation: "MANY"}
	if !IsMCQSubject(n) {
		t.Error("expected lowercase uuid: prefix to be accepted")
	}
}

func TestIsMCQSubject_RejectsMultipleIDs(t *testing.T) {
	n := &model.QueryNode{
		IDs:               []string{"UUID:1", "UUID:2"},
		MemberIDs:         []string{"y"},
		IsSet:             true,
		SetInterpretation: "MANY",
	}
	if IsMCQSubject(n) {
		t.Error("expected an ids list of length != 1 to be rejected")
	}
}
