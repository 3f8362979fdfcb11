// Package resultparser implements the Result Parser: it turns raw SemSimian
// match objects into the SimilarityRecord shape the Response Assembler
// consumes.
package resultparser

import (
	"log/slog"
	"sort"

	"github.com/monarch-initiative/semsim-mcq/internal/similarity"
	"github.com/monarch-initiative/semsim-mcq/internal/trapi/model"
)

// sourceAlias maps a SemSimian "provided_by" value to its infores identifier,
// mirroring the Python original's _map_source table. Anything not listed
// here falls back to an "infores:" prefix over the raw value.
var sourceAlias = map[string]string{
	"phenio_nodes": "infores:upheno",
}

func resolveSource(providedBy string) string {
	if alias, ok := sourceAlias[providedBy]; ok {
		return alias
	}
	return "infores:" + providedBy
}

// Parse converts raw SemSimian match objects into SimilarityRecords, one per
// matched subject CURIE, collapsing duplicate subject ids (REDESIGN FLAG:
// keep the higher-scoring record, log the collision) rather than silently
// overwriting the earlier entry.
//
// The result is an order-preserving slice, not a map: spec.md's Determinism
// requirement has the Response Assembler iterate candidates "in the order
// provided by the result_map", and Go map iteration order is randomized, so
// the candidate order is carried as insertion order instead. A later
// duplicate that wins the dedup keeps its first-seen position.
func Parse(raw []similarity.RawMatch, matchCategory string, logger *slog.Logger) []*model.SimilarityRecord {
	var ordered []*model.SimilarityRecord
	index := make(map[string]int)

	for _, entry := range raw {
		subjectID, _ := tagString(entry, "subject", "id")
		if subjectID == "" {
			continue
		}

		score, _ := tagFloat(entry, "score")

		record := &model.SimilarityRecord{
			SubjectID: subjectID,
			Score:     score,
		}
		record.Name, _ = tagString(entry, "subject", "name")
		record.Category, _ = tagString(entry, "subject", "category")

		if providedBy, ok := tagString(entry, "subject", "provided_by"); ok && providedBy != "" {
			record.ProvidedBy = resolveSource(providedBy)
		}

		record.Matches = parseBestMatches(entry, matchCategory)

		if pos, ok := index[subjectID]; ok {
			existing := ordered[pos]
			if record.Score <= existing.Score {
				if logger != nil {
					logger.Warn("duplicate similarity subject id, keeping higher score",
						"subject_id", subjectID,
						"kept_score", existing.Score,
						"dropped_score", record.Score,
					)
				}
				continue
			}
			if logger != nil {
				logger.Warn("duplicate similarity subject id, keeping higher score",
					"subject_id", subjectID,
					"kept_score", record.Score,
					"dropped_score", existing.Score,
				)
			}
			ordered[pos] = record
			continue
		}

		index[subjectID] = len(ordered)
		ordered = append(ordered, record)
	}

	return ordered
}

// parseBestMatches extracts every similarity.object_best_matches entry, in
// sorted key order so that the resulting TermMatch order is deterministic.
// Entries are not checked against the input query terms.
func parseBestMatches(entry similarity.RawMatch, matchCategory string) []model.TermMatch {
	similarityBlock, ok := entry["similarity"].(map[string]any)
	if !ok {
		return nil
	}
	bestMatches, ok := similarityBlock["object_best_matches"].(map[string]any)
	if !ok {
		return nil
	}

	keys := make([]string, 0, len(bestMatches))
	for k := range bestMatches {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var matches []model.TermMatch
	for _, key := range keys {
		objectMatch, ok := bestMatches[key].(map[string]any)
		if !ok {
			continue
		}

		matchTarget, _ := objectMatch["match_target"].(string)
		matchTargetLabel, _ := objectMatch["match_target_label"].(string)
		matchSource, _ := objectMatch["match_source"].(string)
		matchSourceLabel, _ := objectMatch["match_source_label"].(string)
		score, _ := toFloat(objectMatch["score"])

		matchedTerm := matchTarget
		if sim, ok := objectMatch["similarity"].(map[string]any); ok {
			if ancestorID, ok := sim["ancestor_id"].(string); ok && ancestorID != "" {
				matchedTerm = ancestorID
			}
		}

		matches = append(matches, model.TermMatch{
			SubjectID:   matchTarget,
			SubjectName: matchTargetLabel,
			ObjectID:    matchSource,
			ObjectName:  matchSourceLabel,
			Category:    matchCategory,
			Score:       score,
			MatchedTerm: matchedTerm,
		})
	}

	return matches
}

func tagString(entry similarity.RawMatch, outer, inner string) (string, bool) {
	block, ok := entry[outer].(map[string]any)
	if !ok {
		return "", false
	}
	value, ok := block[inner].(string)
	return value, ok
}

func tagFloat(entry similarity.RawMatch, key string) (float64, bool) {
	return toFloat(entry[key])
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}
