package search

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"ai-docchat-be/internal/entity"
	"ai-docchat-be/internal/pkg/logger"
	"ai-docchat-be/pkg/searchindex"
)

const logModule = "vector-search"

// Status tells the caller why a search returned what it did. Retrieval
// is best-effort; a degraded search still lets the chat turn proceed.
type Status string

const (
	StatusOk       Status = "ok"
	StatusSkipped  Status = "skipped"
	StatusDegraded Status = "degraded"
)

// ChunkResult is one retrieval hit attributed to a specific chunk.
type ChunkResult struct {
	ChunkIndex int
	Text       string
	Score      float64
}

// Result carries the ranked hits together with the search status.
type Result struct {
	Status Status
	Hits   []ChunkResult
}

// candidateMultiplier widens the nearest-neighbor candidate pool so the
// owner filter does not starve the final topN.
const candidateMultiplier = 10

// Service runs owner-scoped similarity queries against the profile's
// backend index.
type Service struct {
	registry *searchindex.Registry
	log      logger.ILogger
}

func NewService(registry *searchindex.Registry, log logger.ILogger) *Service {
	return &Service{registry: registry, log: log}
}

// Search returns up to topN chunk hits sorted by descending score.
// Backend failures degrade to an empty result instead of an error.
func (s *Service) Search(ctx context.Context, profile entity.IndexProfile, queryVector []float32, ownerId uuid.UUID, topN int) Result {
	if len(queryVector) == 0 || topN <= 0 {
		return Result{Status: StatusSkipped}
	}

	adapter, ok := s.registry.Resolve(profile.Provider)
	if !ok {
		s.log.Debug(logModule, "no adapter for profile provider, skipping search", map[string]interface{}{
			"provider": profile.Provider,
		})
		return Result{Status: StatusSkipped}
	}

	hits, err := adapter.Query(ctx, profile.IndexName, searchindex.Query{
		OwnerId:    ownerId.String(),
		Vector:     queryVector,
		TopN:       topN,
		Candidates: topN * candidateMultiplier,
	})
	if err != nil {
		s.log.Warn(logModule, "backend query failed, returning empty result", map[string]interface{}{
			"index": profile.IndexName,
			"error": err.Error(),
		})
		return Result{Status: StatusDegraded}
	}

	results := make([]ChunkResult, len(hits))
	for i, hit := range hits {
		results[i] = ChunkResult{
			ChunkIndex: hit.ChunkIndex,
			Text:       hit.Text,
			Score:      hit.Score,
		}
	}

	// Hits from different parent entries carry no global order.
	sort.Slice(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if len(results) > topN {
		results = results[:topN]
	}

	return Result{Status: StatusOk, Hits: results}
}
