package api

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/monarch-initiative/semsim-mcq/internal/config"
	"github.com/monarch-initiative/semsim-mcq/internal/querylog"
	"github.com/monarch-initiative/semsim-mcq/internal/similarity"
	"github.com/monarch-initiative/semsim-mcq/internal/trapi/assemble"
	"github.com/monarch-initiative/semsim-mcq/internal/trapi/attribute"
	"github.com/monarch-initiative/semsim-mcq/internal/trapi/model"
	"github.com/monarch-initiative/semsim-mcq/internal/trapi/query"
	"github.com/monarch-initiative/semsim-mcq/internal/trapi/resultparser"
)

// defaultLimitFallback is used when the request omits "limit" or sends an
// unparseable value, matching app_trapi_1_5.py's /query handler, which logs
// a warning and falls back to 10 rather than rejecting the request.
const defaultLimitFallback = 10

// lookupWorkflow is the only workflow step this service honors, mirroring
// the original's lookup-only gating: any request naming a different
// workflow id is rejected rather than silently ignored.
const lookupWorkflow = "lookup"

// ingestSourceByCategory maps an answer node's category to the knowledge
// source that asserts the match_predicate edge, grounded on
// monarch_adapter.py's per-flow ingest_knowledge_source constants.
var ingestSourceByCategory = map[string]string{
	"biolink:Disease":           "infores:hpo-annotations",
	"biolink:PhenotypicFeature": "infores:hpo-annotations",
	"biolink:Gene":              "infores:alliance-genome",
}

// groupByCategory maps an answer node's category to the SemSimian search
// group it should be matched against.
var groupByCategory = map[string]similarity.Group{
	"biolink:Disease":           similarity.HumanDiseases,
	"biolink:PhenotypicFeature": similarity.HumanDiseases,
	"biolink:Gene":              similarity.HumanGenes,
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	queryID := uuid.NewString()
	logger := s.logger.WithQueryID(queryID)
	ctx := querylog.WithQueryID(r.Context(), queryID)
	defer s.queryLogs.Forget(queryID)

	var req model.QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("failed to decode query request body", "error", err)
		s.writeQueryError(w, ErrQueryGraphInvalid, err.Error(), queryID)
		return
	}

	if len(req.Workflow) == 0 {
		req.Workflow = []model.Workflow{{ID: lookupWorkflow}}
	}
	for _, step := range req.Workflow {
		if step.ID != lookupWorkflow {
			s.writeQueryError(w, ErrQueryGraphInvalid, "only the \"lookup\" workflow is supported", queryID)
			return
		}
	}

	limit := resolveLimit(req.Limit, logger)

	interpreted, err := query.Interpret(req.Message.QueryGraph)
	if err != nil {
		logger.Warn("query graph validation failed", "error", err)
		s.writeQueryError(w, ErrQueryGraphInvalid, err.Error(), queryID)
		return
	}

	objectCategory := interpreted.Subject.Category
	if qnode, ok := req.Message.QueryGraph.Nodes[interpreted.ObjectKey]; ok && len(qnode.Categories) > 0 {
		objectCategory = qnode.Categories[0]
	}

	group, ok := groupByCategory[objectCategory]
	if !ok {
		group = similarity.HumanDiseases
	}
	ingestSource, ok := ingestSourceByCategory[objectCategory]
	if !ok {
		ingestSource = "infores:monarch-ingest"
	}
	matchPredicate := "biolink:has_phenotype"
	if len(interpreted.QEdge.Predicates) > 0 {
		matchPredicate = interpreted.QEdge.Predicates[0]
	}

	raw, err := s.similarity.Search(ctx, interpreted.Subject.MemberIDs, group, limit)
	if err != nil {
		logger.Error("similarity search failed", "error", err)
		s.writeQueryError(w, ErrSimilarityUnavailable, err.Error(), queryID)
		return
	}

	matches := resultparser.Parse(raw, objectCategory, logger.Logger)

	msg := assemble.Assemble(assemble.Input{
		Subject:                interpreted.Subject,
		SubjectQNodeKey:        interpreted.SubjectKey,
		ObjectQNodeKey:         interpreted.ObjectKey,
		QEdgeKey:               interpreted.QEdgeKey,
		Matches:                matches,
		PrimaryKnowledgeSource: "infores:semsimian-kp",
		IngestKnowledgeSource:  ingestSource,
		MatchPredicate:         matchPredicate,
		SystemInfoRes:          s.config.Provenance.InfoRes,
	})
	msg.QueryGraph = req.Message.QueryGraph

	for _, node := range msg.KnowledgeGraph.Nodes {
		node.Attributes = attribute.MapAttributes(node.Attributes)
	}
	for _, edge := range msg.KnowledgeGraph.Edges {
		edge.Attributes = attribute.MapAttributes(edge.Attributes)
	}

	filtered := attribute.FilterResults(msg, req.Message.QueryGraph)

	s.writeJSON(w, http.StatusOK, model.QueryResponse{
		Message:  *filtered,
		Workflow: req.Workflow,
	})
}

// resolveLimit extracts an integer limit from the loosely-typed JSON field.
// A present numeric value, even one out of the [1,50] range, flows through
// unchanged so similarity.Client.Search's own clamp applies (the Python
// original only defaults a missing "limit" to 10 and passes 0 or negative
// values straight through to be clamped to 50). Only a missing or
// unparseable value falls back to defaultLimitFallback, with a warning.
func resolveLimit(raw any, logger *config.Logger) int {
	switch v := raw.(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	if raw != nil {
		logger.Warn("invalid limit value in query request, using default", "limit", raw, "default", defaultLimitFallback)
	}
	return defaultLimitFallback
}

func (s *Server) writeQueryError(w http.ResponseWriter, code, details, queryID string) {
	NewAPIError(code).
		WithDetails(details).
		WithQueryLogs(queryID, s.queryLogs.Get(queryID)).
		WriteJSON(w)
}
