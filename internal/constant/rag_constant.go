package constant

// Reserved tags selecting which index profiles and indexing tasks belong to
// the chat-document pipeline. Profiles with a different type tag are managed
// by other subsystems and must be ignored here.
const (
	// IndexTypeInteractionDocuments is the reserved IndexProfile type tag.
	IndexTypeInteractionDocuments = "interaction-documents"

	// RecordTypeInteraction tags indexing tasks produced for chat interactions.
	RecordTypeInteraction = "interaction"
)

// Chunking defaults. ChunkSize/ChunkOverlap are characters, not tokens;
// providers count tokens but characters are a safe conservative proxy.
const (
	DefaultChunkSize    = 2000
	DefaultChunkOverlap = 200
)

// DefaultEmbeddingCharBudget caps the total characters sent to the embedding
// provider per document. Chunks past the budget stay stored as plain text,
// permanently unembedded.
const DefaultEmbeddingCharBudget = 25000

// EmbeddableExtensions is the embed allow-list, narrower than the upload
// allow-list. Tabular formats upload fine but are stored as text only.
var EmbeddableExtensions = []string{"pdf", "docx", "txt", "md", "html"}

// Index synchronizer defaults.
const (
	DefaultSyncBatchSize = 100

	// WatermarkUnbounded is the sentinel for a profile that has never
	// processed a task. Task ids start at 1.
	WatermarkUnbounded int64 = 0

	// MaxDocumentsPerRecord bounds the index-entry positions staged for
	// removal when a record shrinks. Deleting an absent entry is a no-op,
	// so the bound only needs to cover the realistic maximum.
	MaxDocumentsPerRecord = 32
)

// DefaultTopN is the per-interaction retrieval depth when the owner has not
// set one.
const DefaultTopN = 3
