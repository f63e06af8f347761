package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"ai-docchat-be/pkg/searchindex"
)

// Adapter is an in-process backend used by tests and local development.
// Entries live in a nested map keyed by index name then entry id.
type Adapter struct {
	mu      sync.RWMutex
	indexes map[string]map[string]searchindex.IndexEntry
}

func NewAdapter(indexNames ...string) *Adapter {
	a := &Adapter{indexes: make(map[string]map[string]searchindex.IndexEntry)}
	for _, name := range indexNames {
		a.indexes[name] = make(map[string]searchindex.IndexEntry)
	}
	return a
}

// CreateIndex makes the named index visible to Exists.
func (a *Adapter) CreateIndex(indexName string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.indexes[indexName]; !ok {
		a.indexes[indexName] = make(map[string]searchindex.IndexEntry)
	}
}

func (a *Adapter) Exists(ctx context.Context, indexName string) (bool, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	_, ok := a.indexes[indexName]
	return ok, nil
}

func (a *Adapter) Upsert(ctx context.Context, indexName string, entries []searchindex.IndexEntry) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	index, ok := a.indexes[indexName]
	if !ok {
		index = make(map[string]searchindex.IndexEntry)
		a.indexes[indexName] = index
	}
	for _, entry := range entries {
		index[entry.Id] = entry
	}
	return nil
}

func (a *Adapter) Delete(ctx context.Context, indexName string, entryIds []string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	index, ok := a.indexes[indexName]
	if !ok {
		return nil
	}
	for _, id := range entryIds {
		delete(index, id)
	}
	return nil
}

func (a *Adapter) Query(ctx context.Context, indexName string, query searchindex.Query) ([]searchindex.ChunkHit, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	index, ok := a.indexes[indexName]
	if !ok {
		return nil, nil
	}

	var hits []searchindex.ChunkHit
	for _, entry := range index {
		if entry.OwnerId != query.OwnerId {
			continue
		}
		for _, chunk := range entry.Chunks {
			if len(chunk.Embedding) == 0 {
				continue
			}
			hits = append(hits, searchindex.ChunkHit{
				EntryId:    entry.Id,
				ChunkIndex: chunk.Index,
				Text:       chunk.Text,
				Score:      cosineSimilarity(query.Vector, chunk.Embedding),
			})
		}
	}

	sort.Slice(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })

	limit := query.Candidates
	if limit < query.TopN {
		limit = query.TopN
	}
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

// Entry returns a stored entry for test assertions.
func (a *Adapter) Entry(indexName, entryId string) (searchindex.IndexEntry, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	index, ok := a.indexes[indexName]
	if !ok {
		return searchindex.IndexEntry{}, false
	}
	entry, ok := index[entryId]
	return entry, ok
}

// EntryCount returns how many entries the named index holds.
func (a *Adapter) EntryCount(indexName string) int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.indexes[indexName])
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
