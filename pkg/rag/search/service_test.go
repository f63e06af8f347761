package search

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"ai-docchat-be/internal/entity"
	"ai-docchat-be/pkg/searchindex"
	"ai-docchat-be/pkg/searchindex/memory"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

type erroringAdapter struct{}

func (erroringAdapter) Exists(ctx context.Context, indexName string) (bool, error) {
	return true, nil
}
func (erroringAdapter) Upsert(ctx context.Context, indexName string, entries []searchindex.IndexEntry) error {
	return nil
}
func (erroringAdapter) Delete(ctx context.Context, indexName string, entryIds []string) error {
	return nil
}
func (erroringAdapter) Query(ctx context.Context, indexName string, query searchindex.Query) ([]searchindex.ChunkHit, error) {
	return nil, errors.New("backend unreachable")
}

const testIndexName = "documents-main"

func testProfile() entity.IndexProfile {
	return entity.IndexProfile{
		Id:        uuid.New(),
		Name:      "main",
		Provider:  "memory",
		IndexName: testIndexName,
	}
}

func seedEntries(t *testing.T, adapter *memory.Adapter, ownerId uuid.UUID) {
	t.Helper()
	entries := []searchindex.IndexEntry{
		{
			Id:      searchindex.EntryId(ownerId.String(), 0),
			OwnerId: ownerId.String(),
			Chunks: []searchindex.EntryChunk{
				{Index: 0, Text: "close match", Embedding: []float32{1, 0, 0}},
				{Index: 1, Text: "distant match", Embedding: []float32{0, 1, 0}},
			},
		},
		{
			Id:      searchindex.EntryId(ownerId.String(), 1),
			OwnerId: ownerId.String(),
			Chunks: []searchindex.EntryChunk{
				{Index: 0, Text: "middling match", Embedding: []float32{0.7, 0.7, 0}},
			},
		},
	}
	if err := adapter.Upsert(context.Background(), testIndexName, entries); err != nil {
		t.Fatalf("seeding failed: %v", err)
	}
}

func TestSearch_RanksByScoreDescending(t *testing.T) {
	ownerId := uuid.New()
	adapter := memory.NewAdapter(testIndexName)
	seedEntries(t, adapter, ownerId)

	registry := searchindex.NewRegistry()
	registry.Register("memory", adapter)
	service := NewService(registry, nopLogger{})

	result := service.Search(context.Background(), testProfile(), []float32{1, 0, 0}, ownerId, 3)
	if result.Status != StatusOk {
		t.Fatalf("expected StatusOk, got %s", result.Status)
	}
	if len(result.Hits) != 3 {
		t.Fatalf("expected 3 hits, got %d", len(result.Hits))
	}

	wantOrder := []string{"close match", "middling match", "distant match"}
	for i, want := range wantOrder {
		if result.Hits[i].Text != want {
			t.Errorf("hit %d: expected %q, got %q", i, want, result.Hits[i].Text)
		}
	}
	for i := 1; i < len(result.Hits); i++ {
		if result.Hits[i].Score > result.Hits[i-1].Score {
			t.Errorf("hits not sorted descending at position %d", i)
		}
	}
}

func TestSearch_TruncatesToTopN(t *testing.T) {
	ownerId := uuid.New()
	adapter := memory.NewAdapter(testIndexName)
	seedEntries(t, adapter, ownerId)

	registry := searchindex.NewRegistry()
	registry.Register("memory", adapter)
	service := NewService(registry, nopLogger{})

	result := service.Search(context.Background(), testProfile(), []float32{1, 0, 0}, ownerId, 1)
	if len(result.Hits) != 1 {
		t.Fatalf("expected 1 hit, got %d", len(result.Hits))
	}
	if result.Hits[0].Text != "close match" {
		t.Errorf("expected best hit first, got %q", result.Hits[0].Text)
	}
}

func TestSearch_ScopesToOwner(t *testing.T) {
	ownerId := uuid.New()
	otherId := uuid.New()
	adapter := memory.NewAdapter(testIndexName)
	seedEntries(t, adapter, otherId)

	registry := searchindex.NewRegistry()
	registry.Register("memory", adapter)
	service := NewService(registry, nopLogger{})

	result := service.Search(context.Background(), testProfile(), []float32{1, 0, 0}, ownerId, 3)
	if result.Status != StatusOk {
		t.Fatalf("expected StatusOk, got %s", result.Status)
	}
	if len(result.Hits) != 0 {
		t.Errorf("expected no hits for foreign owner, got %d", len(result.Hits))
	}
}

func TestSearch_BackendFailureDegrades(t *testing.T) {
	registry := searchindex.NewRegistry()
	registry.Register("memory", erroringAdapter{})
	service := NewService(registry, nopLogger{})

	result := service.Search(context.Background(), testProfile(), []float32{1, 0, 0}, uuid.New(), 3)
	if result.Status != StatusDegraded {
		t.Fatalf("expected StatusDegraded, got %s", result.Status)
	}
	if len(result.Hits) != 0 {
		t.Errorf("expected empty hits on failure, got %d", len(result.Hits))
	}
}

func TestSearch_SkipsWithoutAdapterOrVector(t *testing.T) {
	registry := searchindex.NewRegistry()
	service := NewService(registry, nopLogger{})

	if result := service.Search(context.Background(), testProfile(), []float32{1, 0, 0}, uuid.New(), 3); result.Status != StatusSkipped {
		t.Errorf("expected StatusSkipped for unknown provider, got %s", result.Status)
	}

	registry.Register("memory", memory.NewAdapter(testIndexName))
	if result := service.Search(context.Background(), testProfile(), nil, uuid.New(), 3); result.Status != StatusSkipped {
		t.Errorf("expected StatusSkipped for empty vector, got %s", result.Status)
	}
}
