package searchindex

import (
	"context"
	"fmt"
	"sync"
)

// EntryChunk is one embeddable slice of a record's text, nested inside an
// index entry.
type EntryChunk struct {
	Index     int
	Text      string
	Embedding []float32
}

// IndexEntry is one indexed unit. A record that owns several documents is
// indexed as several entries, one per document position, so entry ids stay
// stable across re-indexing.
type IndexEntry struct {
	Id       string
	OwnerId  string
	RecordId string
	Position int
	Chunks   []EntryChunk
}

// EntryId builds the stable id for a record's document at the given
// position.
func EntryId(recordId string, position int) string {
	return fmt.Sprintf("%s_%d", recordId, position)
}

// ChunkHit is a single retrieval result attributed to the nested chunk
// that matched, not its parent entry.
type ChunkHit struct {
	EntryId    string
	ChunkIndex int
	Text       string
	Score      float64
}

// Query scopes a similarity search to one owner. Candidates controls how
// many nearest neighbors the backend considers before the owner filter
// and truncation are applied.
type Query struct {
	OwnerId    string
	Vector     []float32
	TopN       int
	Candidates int
}

// Adapter is the per-provider backend contract. All writes are
// idempotent by entry id so replays after a partial failure are safe.
type Adapter interface {
	Exists(ctx context.Context, indexName string) (bool, error)
	Upsert(ctx context.Context, indexName string, entries []IndexEntry) error
	Delete(ctx context.Context, indexName string, entryIds []string) error
	Query(ctx context.Context, indexName string, query Query) ([]ChunkHit, error)
}

// Registry maps provider names to adapters. Profiles reference providers
// by name, so an unknown provider simply has no adapter registered.
type Registry struct {
	mu       sync.RWMutex
	adapters map[string]Adapter
}

func NewRegistry() *Registry {
	return &Registry{adapters: make(map[string]Adapter)}
}

func (r *Registry) Register(provider string, adapter Adapter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adapters[provider] = adapter
}

func (r *Registry) Resolve(provider string) (Adapter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	adapter, ok := r.adapters[provider]
	return adapter, ok
}
