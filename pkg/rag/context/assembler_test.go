package ragcontext

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"ai-docchat-be/internal/entity"
	"ai-docchat-be/pkg/embedding"
	ragsearch "ai-docchat-be/pkg/rag/search"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

type fakeCounter struct {
	count int64
	err   error
}

func (f fakeCounter) CountDocuments(ctx context.Context, ownerId uuid.UUID) (int64, error) {
	return f.count, f.err
}

type fakeProfiles struct {
	profile *entity.IndexProfile
	err     error
}

func (f fakeProfiles) FindByName(ctx context.Context, name string) (*entity.IndexProfile, error) {
	return f.profile, f.err
}

type fakeTopN struct {
	value int
}

func (f fakeTopN) ResolveTopN(ctx context.Context, ownerId uuid.UUID) int {
	return f.value
}

type fakeProvider struct {
	vector []float32
	err    error
}

func (f fakeProvider) Generate(ctx context.Context, text string, taskType string) ([]float32, error) {
	return f.vector, f.err
}

func (f fakeProvider) GenerateBatch(ctx context.Context, texts []string, taskType string) ([][]float32, error) {
	return nil, errors.New("not used")
}

type fakeSearcher struct {
	result   ragsearch.Result
	gotTopN  int
	searched bool
}

func (f *fakeSearcher) Search(ctx context.Context, profile entity.IndexProfile, queryVector []float32, ownerId uuid.UUID, topN int) ragsearch.Result {
	f.searched = true
	f.gotTopN = topN
	return f.result
}

func newAssembler(counter DocumentCounter, profiles ProfileFinder, topN TopNResolver, provider embedding.EmbeddingProvider, searcher Searcher) *Assembler {
	return NewAssembler(counter, profiles, topN, provider, searcher, nopLogger{}, "main", 3)
}

func configuredProfile() *entity.IndexProfile {
	return &entity.IndexProfile{Id: uuid.New(), Name: "main", Provider: "memory", IndexName: "documents-main"}
}

func TestBuildContext_ConcatenatesHits(t *testing.T) {
	searcher := &fakeSearcher{result: ragsearch.Result{
		Status: ragsearch.StatusOk,
		Hits: []ragsearch.ChunkResult{
			{Text: "first chunk", Score: 0.9},
			{Text: "second chunk", Score: 0.5},
		},
	}}

	assembler := newAssembler(
		fakeCounter{count: 2},
		fakeProfiles{profile: configuredProfile()},
		fakeTopN{},
		fakeProvider{vector: []float32{0.1, 0.2}},
		searcher,
	)

	got := assembler.BuildContext(context.Background(), uuid.New(), "what is in my documents?")
	want := "first chunk" + Delimiter + "second chunk"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
	if searcher.gotTopN != 3 {
		t.Errorf("expected default topN 3, got %d", searcher.gotTopN)
	}
}

func TestBuildContext_OwnerTopNOverride(t *testing.T) {
	searcher := &fakeSearcher{result: ragsearch.Result{
		Status: ragsearch.StatusOk,
		Hits:   []ragsearch.ChunkResult{{Text: "chunk", Score: 0.9}},
	}}

	assembler := newAssembler(
		fakeCounter{count: 1},
		fakeProfiles{profile: configuredProfile()},
		fakeTopN{value: 7},
		fakeProvider{vector: []float32{0.1}},
		searcher,
	)

	assembler.BuildContext(context.Background(), uuid.New(), "question")
	if searcher.gotTopN != 7 {
		t.Errorf("expected owner override topN 7, got %d", searcher.gotTopN)
	}
}

func TestBuildContext_NoOpBranches(t *testing.T) {
	okProfiles := fakeProfiles{profile: configuredProfile()}
	okProvider := fakeProvider{vector: []float32{0.1}}
	okSearcher := func() *fakeSearcher {
		return &fakeSearcher{result: ragsearch.Result{Status: ragsearch.StatusOk}}
	}

	tests := []struct {
		name      string
		counter   DocumentCounter
		profiles  ProfileFinder
		provider  embedding.EmbeddingProvider
		searcher  *fakeSearcher
		wantsHits bool
	}{
		{"zero documents", fakeCounter{count: 0}, okProfiles, okProvider, okSearcher(), false},
		{"document count error", fakeCounter{err: errors.New("db down")}, okProfiles, okProvider, okSearcher(), false},
		{"profile not configured", fakeCounter{count: 1}, fakeProfiles{}, okProvider, okSearcher(), false},
		{"profile lookup error", fakeCounter{count: 1}, fakeProfiles{err: errors.New("db down")}, okProvider, okSearcher(), false},
		{"no embedding provider", fakeCounter{count: 1}, okProfiles, nil, okSearcher(), false},
		{"embedding error", fakeCounter{count: 1}, okProfiles, fakeProvider{err: errors.New("quota")}, okSearcher(), false},
		{"empty embedding", fakeCounter{count: 1}, okProfiles, fakeProvider{}, okSearcher(), false},
		{"zero search hits", fakeCounter{count: 1}, okProfiles, okProvider, okSearcher(), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assembler := newAssembler(tt.counter, tt.profiles, fakeTopN{}, tt.provider, tt.searcher)
			got := assembler.BuildContext(context.Background(), uuid.New(), "question")
			if got != "" {
				t.Errorf("expected empty context, got %q", got)
			}
			if tt.searcher.searched != tt.wantsHits {
				t.Errorf("expected searched=%v, got %v", tt.wantsHits, tt.searcher.searched)
			}
		})
	}
}
