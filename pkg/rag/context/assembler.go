package ragcontext

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"ai-docchat-be/internal/entity"
	"ai-docchat-be/internal/pkg/logger"
	"ai-docchat-be/pkg/embedding"
	ragsearch "ai-docchat-be/pkg/rag/search"
)

const logModule = "rag-context"

// Delimiter separates chunk texts in the assembled context block.
const Delimiter = "\n---\n"

// DocumentCounter reports how many documents an owner has attached.
type DocumentCounter interface {
	CountDocuments(ctx context.Context, ownerId uuid.UUID) (int64, error)
}

// ProfileFinder resolves the configured index profile by name, returning
// (nil, nil) when the profile is not configured.
type ProfileFinder interface {
	FindByName(ctx context.Context, name string) (*entity.IndexProfile, error)
}

// TopNResolver returns the owner-specific result count override, or 0
// when the owner has none.
type TopNResolver interface {
	ResolveTopN(ctx context.Context, ownerId uuid.UUID) int
}

// Searcher is the retrieval collaborator, satisfied by the vector search
// service.
type Searcher interface {
	Search(ctx context.Context, profile entity.IndexProfile, queryVector []float32, ownerId uuid.UUID, topN int) ragsearch.Result
}

// Assembler builds the retrieval context block for a chat turn. Every
// failure branch degrades to "no context"; a chat turn must proceed
// unaugmented rather than fail.
type Assembler struct {
	documents   DocumentCounter
	profiles    ProfileFinder
	topN        TopNResolver
	provider    embedding.EmbeddingProvider
	searcher    Searcher
	log         logger.ILogger
	profileName string
	defaultTopN int
}

func NewAssembler(
	documents DocumentCounter,
	profiles ProfileFinder,
	topN TopNResolver,
	provider embedding.EmbeddingProvider,
	searcher Searcher,
	log logger.ILogger,
	profileName string,
	defaultTopN int,
) *Assembler {
	if defaultTopN <= 0 {
		defaultTopN = 3
	}
	return &Assembler{
		documents:   documents,
		profiles:    profiles,
		topN:        topN,
		provider:    provider,
		searcher:    searcher,
		log:         log,
		profileName: profileName,
		defaultTopN: defaultTopN,
	}
}

// BuildContext returns the concatenated top chunk texts for the prompt,
// or "" when retrieval has nothing to contribute.
func (a *Assembler) BuildContext(ctx context.Context, ownerId uuid.UUID, promptText string) string {
	count, err := a.documents.CountDocuments(ctx, ownerId)
	if err != nil {
		a.log.Warn(logModule, "failed to count documents, proceeding without context", map[string]interface{}{
			"owner_id": ownerId.String(),
			"error":    err.Error(),
		})
		return ""
	}
	if count == 0 {
		return ""
	}

	profile, err := a.profiles.FindByName(ctx, a.profileName)
	if err != nil {
		a.log.Warn(logModule, "failed to resolve index profile, proceeding without context", map[string]interface{}{
			"profile": a.profileName,
			"error":   err.Error(),
		})
		return ""
	}
	if profile == nil {
		a.log.Debug(logModule, "no index profile configured, retrieval disabled", map[string]interface{}{
			"profile": a.profileName,
		})
		return ""
	}

	if a.provider == nil {
		a.log.Debug(logModule, "no embedding provider configured, retrieval disabled", nil)
		return ""
	}

	vector, err := a.provider.Generate(ctx, promptText, embedding.TaskRetrievalQuery)
	if err != nil {
		a.log.Warn(logModule, "prompt embedding failed, proceeding without context", map[string]interface{}{
			"error": err.Error(),
		})
		return ""
	}
	if len(vector) == 0 {
		return ""
	}

	topN := a.defaultTopN
	if override := a.topN.ResolveTopN(ctx, ownerId); override > 0 {
		topN = override
	}

	result := a.searcher.Search(ctx, *profile, vector, ownerId, topN)
	if len(result.Hits) == 0 {
		return ""
	}

	texts := make([]string, len(result.Hits))
	for i, hit := range result.Hits {
		texts[i] = hit.Text
	}
	return strings.Join(texts, Delimiter)
}
