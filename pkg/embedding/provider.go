package embedding

import "context"

// Task hints passed to providers that distinguish document and query
// embeddings (Gemini does, Ollama ignores them).
const (
	TaskRetrievalDocument = "RETRIEVAL_DOCUMENT"
	TaskRetrievalQuery    = "RETRIEVAL_QUERY"
)

// EmbeddingProvider generates fixed-length float vectors for text.
// GenerateBatch makes one provider call for the whole slice; the pipeline
// embeds a document's accepted chunks in a single call to keep round trips
// down. Results are positionally aligned with the input.
type EmbeddingProvider interface {
	Generate(ctx context.Context, text string, taskType string) ([]float32, error)
	GenerateBatch(ctx context.Context, texts []string, taskType string) ([][]float32, error)
}
