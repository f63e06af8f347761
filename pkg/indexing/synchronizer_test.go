package indexing

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

type fakeTaskSource struct {
	tasks []entity.IndexingTask
}

func (f *fakeTaskSource) FetchTasks(ctx context.Context, sinceId int64, batchSize int, recordType string) ([]entity.IndexingTask, error) {
	var out []entity.IndexingTask
	for _, task := range f.tasks {
		if task.Id > sinceId && task.RecordType == recordType {
			out = append(out, task)
			if len(out) == batchSize {
				break
			}
		}
	}
	return out, nil
}

type fakeStore struct {
	profiles []entity.IndexProfile
}

func (f *fakeStore) EligibleProfiles(ctx context.Context, typeTag string) ([]entity.IndexProfile, error) {
	var out []entity.IndexProfile
	for _, p := range f.profiles {
		if p.Type == typeTag {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeStore) Advance(ctx context.Context, profileId uuid.UUID, lastTaskId int64) error {
	for i := range f.profiles {
		if f.profiles[i].Id == profileId && f.profiles[i].LastTaskId < lastTaskId {
			f.profiles[i].LastTaskId = lastTaskId
		}
	}
	return nil
}

func (f *fakeStore) watermark(profileId uuid.UUID) int64 {
	for _, p := range f.profiles {
		if p.Id == profileId {
			return p.LastTaskId
		}
	}
	return -1
}

type fakeResolver struct {
	records map[uuid.UUID]*Record
}

func (f *fakeResolver) Resolve(ctx context.Context, recordId uuid.UUID) (*Record, error) {
	return f.records[recordId], nil
}

type failingAdapter struct {
	*memory.Adapter
	upsertErr     error
	failRemaining int
}

func (f *failingAdapter) Upsert(ctx context.Context, indexName string, entries []searchindex.IndexEntry) error {
	if f.failRemaining > 0 {
		f.failRemaining--
		return errors.New("backend down")
	}
	if f.upsertErr != nil {
		return f.upsertErr
	}
	return f.Adapter.Upsert(ctx, indexName, entries)
}

const (
	testTypeTag    = "interaction-documents"
	testRecordType = "interaction"
	testIndexName  = "documents-main"
)

func testProfile(lastTaskId int64) entity.IndexProfile {
	return entity.IndexProfile{
		Id:         uuid.New(),
		Name:       "main",
		Provider:   "memory",
		IndexName:  testIndexName,
		Type:       testTypeTag,
		LastTaskId: lastTaskId,
	}
}

func embeddedDocument(chunks int) entity.Document {
	doc := entity.Document{Id: uuid.New()}
	for i := 0; i < chunks; i++ {
		doc.Chunks = append(doc.Chunks, entity.Chunk{
			Index:     i,
			Text:      "chunk text",
			Embedding: []float32{0.1, 0.2, 0.3},
		})
	}
	return doc
}

func newSynchronizer(adapter searchindex.Adapter, tasks *fakeTaskSource, store *fakeStore, resolver *fakeResolver) *Synchronizer {
	registry := searchindex.NewRegistry()
	registry.Register("memory", adapter)
	return NewSynchronizer(registry, tasks, store, resolver, NewDocumentIndexBuilder(), nil, nopLogger{}, Options{
		TypeTag:      testTypeTag,
		RecordType:   testRecordType,
		BatchSize:    100,
		MaxPositions: 8,
	})
}

func TestSynchronizer_IndexesRecordDocuments(t *testing.T) {
	recordId := uuid.New()
	adapter := memory.NewAdapter(testIndexName)
	tasks := &fakeTaskSource{tasks: []entity.IndexingTask{
		{Id: 1, RecordId: recordId, Type: entity.IndexingTaskUpdate, RecordType: testRecordType},
	}}
	store := &fakeStore{profiles: []entity.IndexProfile{testProfile(0)}}
	resolver := &fakeResolver{records: map[uuid.UUID]*Record{
		recordId: {Id: recordId, Documents: []entity.Document{embeddedDocument(2), embeddedDocument(1)}},
	}}

	sync := newSynchronizer(adapter, tasks, store, resolver)
	if err := sync.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if got := adapter.EntryCount(testIndexName); got != 2 {
		t.Errorf("expected 2 index entries, got %d", got)
	}
	entry, ok := adapter.Entry(testIndexName, searchindex.EntryId(recordId.String(), 0))
	if !ok {
		t.Fatal("entry for position 0 not found")
	}
	if len(entry.Chunks) != 2 {
		t.Errorf("expected 2 chunks on first entry, got %d", len(entry.Chunks))
	}
	if got := store.watermark(store.profiles[0].Id); got != 1 {
		t.Errorf("expected watermark 1, got %d", got)
	}
}

func TestSynchronizer_ReplayIsIdempotent(t *testing.T) {
	recordId := uuid.New()
	adapter := memory.NewAdapter(testIndexName)
	tasks := &fakeTaskSource{tasks: []entity.IndexingTask{
		{Id: 5, RecordId: recordId, Type: entity.IndexingTaskUpdate, RecordType: testRecordType},
	}}
	store := &fakeStore{profiles: []entity.IndexProfile{testProfile(0)}}
	resolver := &fakeResolver{records: map[uuid.UUID]*Record{
		recordId: {Id: recordId, Documents: []entity.Document{embeddedDocument(1)}},
	}}

	sync := newSynchronizer(adapter, tasks, store, resolver)
	for i := 0; i < 3; i++ {
		if err := sync.Run(context.Background()); err != nil {
			t.Fatalf("Run %d returned error: %v", i, err)
		}
	}

	if got := adapter.EntryCount(testIndexName); got != 1 {
		t.Errorf("expected 1 index entry after replays, got %d", got)
	}
	if got := store.watermark(store.profiles[0].Id); got != 5 {
		t.Errorf("expected watermark 5, got %d", got)
	}
}

func TestSynchronizer_MissingRecordStillAdvances(t *testing.T) {
	adapter := memory.NewAdapter(testIndexName)
	tasks := &fakeTaskSource{tasks: []entity.IndexingTask{
		{Id: 7, RecordId: uuid.New(), Type: entity.IndexingTaskUpdate, RecordType: testRecordType},
	}}
	store := &fakeStore{profiles: []entity.IndexProfile{testProfile(0)}}
	resolver := &fakeResolver{records: map[uuid.UUID]*Record{}}

	sync := newSynchronizer(adapter, tasks, store, resolver)
	if err := sync.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if got := adapter.EntryCount(testIndexName); got != 0 {
		t.Errorf("expected no entries for a deleted record, got %d", got)
	}
	if got := store.watermark(store.profiles[0].Id); got != 7 {
		t.Errorf("expected watermark 7 past the tombstone, got %d", got)
	}
}

func TestSynchronizer_UpsertFailureLeavesWatermark(t *testing.T) {
	recordId := uuid.New()
	adapter := &failingAdapter{Adapter: memory.NewAdapter(testIndexName), upsertErr: errors.New("backend down")}
	tasks := &fakeTaskSource{tasks: []entity.IndexingTask{
		{Id: 3, RecordId: recordId, Type: entity.IndexingTaskUpdate, RecordType: testRecordType},
	}}
	store := &fakeStore{profiles: []entity.IndexProfile{testProfile(0)}}
	resolver := &fakeResolver{records: map[uuid.UUID]*Record{
		recordId: {Id: recordId, Documents: []entity.Document{embeddedDocument(1)}},
	}}

	sync := newSynchronizer(adapter, tasks, store, resolver)
	if err := sync.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if got := store.watermark(store.profiles[0].Id); got != 0 {
		t.Errorf("expected watermark to stay at 0 after upsert failure, got %d", got)
	}

	// The next run retries the same batch once the backend recovers.
	adapter.upsertErr = nil
	if err := sync.Run(context.Background()); err != nil {
		t.Fatalf("retry Run returned error: %v", err)
	}
	if got := store.watermark(store.profiles[0].Id); got != 3 {
		t.Errorf("expected watermark 3 after retry, got %d", got)
	}
	if got := adapter.EntryCount(testIndexName); got != 1 {
		t.Errorf("expected 1 entry after retry, got %d", got)
	}
}

func TestSynchronizer_FailedBatchBlocksLaterBatches(t *testing.T) {
	recordA := uuid.New()
	recordB := uuid.New()
	adapter := &failingAdapter{Adapter: memory.NewAdapter(testIndexName), failRemaining: 1}
	tasks := &fakeTaskSource{tasks: []entity.IndexingTask{
		{Id: 1, RecordId: recordA, Type: entity.IndexingTaskUpdate, RecordType: testRecordType},
		{Id: 2, RecordId: recordB, Type: entity.IndexingTaskUpdate, RecordType: testRecordType},
	}}
	store := &fakeStore{profiles: []entity.IndexProfile{testProfile(0)}}
	resolver := &fakeResolver{records: map[uuid.UUID]*Record{
		recordA: {Id: recordA, Documents: []entity.Document{embeddedDocument(1)}},
		recordB: {Id: recordB, Documents: []entity.Document{embeddedDocument(1)}},
	}}

	registry := searchindex.NewRegistry()
	registry.Register("memory", adapter)
	sync := NewSynchronizer(registry, tasks, store, resolver, NewDocumentIndexBuilder(), nil, nopLogger{}, Options{
		TypeTag:      testTypeTag,
		RecordType:   testRecordType,
		BatchSize:    1,
		MaxPositions: 8,
	})

	// First run: the batch holding task 1 fails its upsert. The batch
	// holding task 2 would succeed, but committing it would advance the
	// watermark past task 1 and record A would never be indexed.
	if err := sync.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if got := store.watermark(store.profiles[0].Id); got != 0 {
		t.Errorf("expected watermark to stay at 0 after a mid-run failure, got %d", got)
	}
	if got := adapter.EntryCount(testIndexName); got != 0 {
		t.Errorf("expected no entries committed after a mid-run failure, got %d", got)
	}

	// Second run: the backend has recovered; both tasks replay in order.
	if err := sync.Run(context.Background()); err != nil {
		t.Fatalf("retry Run returned error: %v", err)
	}
	if got := store.watermark(store.profiles[0].Id); got != 2 {
		t.Errorf("expected watermark 2 after retry, got %d", got)
	}
	if _, ok := adapter.Entry(testIndexName, searchindex.EntryId(recordA.String(), 0)); !ok {
		t.Error("expected record A to be indexed on retry")
	}
	if _, ok := adapter.Entry(testIndexName, searchindex.EntryId(recordB.String(), 0)); !ok {
		t.Error("expected record B to be indexed on retry")
	}
}

func TestSynchronizer_DeleteTaskRemovesEntries(t *testing.T) {
	recordId := uuid.New()
	adapter := memory.NewAdapter(testIndexName)
	seed := []searchindex.IndexEntry{
		{Id: searchindex.EntryId(recordId.String(), 0), OwnerId: recordId.String()},
		{Id: searchindex.EntryId(recordId.String(), 1), OwnerId: recordId.String()},
	}
	if err := adapter.Upsert(context.Background(), testIndexName, seed); err != nil {
		t.Fatalf("seeding failed: %v", err)
	}

	tasks := &fakeTaskSource{tasks: []entity.IndexingTask{
		{Id: 9, RecordId: recordId, Type: entity.IndexingTaskDelete, RecordType: testRecordType},
	}}
	store := &fakeStore{profiles: []entity.IndexProfile{testProfile(0)}}
	resolver := &fakeResolver{records: map[uuid.UUID]*Record{}}

	sync := newSynchronizer(adapter, tasks, store, resolver)
	if err := sync.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if got := adapter.EntryCount(testIndexName); got != 0 {
		t.Errorf("expected all entries removed, got %d", got)
	}
	if got := store.watermark(store.profiles[0].Id); got != 9 {
		t.Errorf("expected watermark 9, got %d", got)
	}
}

func TestSynchronizer_ShrinkRemovesStalePositions(t *testing.T) {
	recordId := uuid.New()
	adapter := memory.NewAdapter(testIndexName)
	seed := []searchindex.IndexEntry{
		{Id: searchindex.EntryId(recordId.String(), 0), OwnerId: recordId.String()},
		{Id: searchindex.EntryId(recordId.String(), 1), OwnerId: recordId.String()},
		{Id: searchindex.EntryId(recordId.String(), 2), OwnerId: recordId.String()},
	}
	if err := adapter.Upsert(context.Background(), testIndexName, seed); err != nil {
		t.Fatalf("seeding failed: %v", err)
	}

	tasks := &fakeTaskSource{tasks: []entity.IndexingTask{
		{Id: 4, RecordId: recordId, Type: entity.IndexingTaskUpdate, RecordType: testRecordType},
	}}
	store := &fakeStore{profiles: []entity.IndexProfile{testProfile(0)}}
	resolver := &fakeResolver{records: map[uuid.UUID]*Record{
		recordId: {Id: recordId, Documents: []entity.Document{embeddedDocument(1)}},
	}}

	sync := newSynchronizer(adapter, tasks, store, resolver)
	if err := sync.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if got := adapter.EntryCount(testIndexName); got != 1 {
		t.Errorf("expected stale positions removed, got %d entries", got)
	}
	if _, ok := adapter.Entry(testIndexName, searchindex.EntryId(recordId.String(), 0)); !ok {
		t.Error("expected entry at position 0 to remain")
	}
}

func TestSynchronizer_ProfilesAdvanceIndependently(t *testing.T) {
	recordId := uuid.New()
	adapter := memory.NewAdapter(testIndexName, "documents-secondary")

	ahead := testProfile(2)
	behind := testProfile(0)
	behind.Name = "secondary"
	behind.IndexName = "documents-secondary"

	tasks := &fakeTaskSource{tasks: []entity.IndexingTask{
		{Id: 1, RecordId: recordId, Type: entity.IndexingTaskUpdate, RecordType: testRecordType},
		{Id: 2, RecordId: recordId, Type: entity.IndexingTaskUpdate, RecordType: testRecordType},
		{Id: 3, RecordId: recordId, Type: entity.IndexingTaskUpdate, RecordType: testRecordType},
	}}
	store := &fakeStore{profiles: []entity.IndexProfile{ahead, behind}}
	resolver := &fakeResolver{records: map[uuid.UUID]*Record{
		recordId: {Id: recordId, Documents: []entity.Document{embeddedDocument(1)}},
	}}

	sync := newSynchronizer(adapter, tasks, store, resolver)
	if err := sync.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if got := store.watermark(ahead.Id); got != 3 {
		t.Errorf("expected ahead profile at watermark 3, got %d", got)
	}
	if got := store.watermark(behind.Id); got != 3 {
		t.Errorf("expected behind profile at watermark 3, got %d", got)
	}
	if got := adapter.EntryCount("documents-secondary"); got != 1 {
		t.Errorf("expected secondary index to hold 1 entry, got %d", got)
	}
}

func TestSynchronizer_SkipsProfileWithMissingIndex(t *testing.T) {
	recordId := uuid.New()
	adapter := memory.NewAdapter(testIndexName)

	missing := testProfile(0)
	missing.Name = "missing"
	missing.IndexName = "does-not-exist"

	tasks := &fakeTaskSource{tasks: []entity.IndexingTask{
		{Id: 1, RecordId: recordId, Type: entity.IndexingTaskUpdate, RecordType: testRecordType},
	}}
	store := &fakeStore{profiles: []entity.IndexProfile{missing}}
	resolver := &fakeResolver{records: map[uuid.UUID]*Record{
		recordId: {Id: recordId, Documents: []entity.Document{embeddedDocument(1)}},
	}}

	sync := newSynchronizer(adapter, tasks, store, resolver)
	if err := sync.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if got := store.watermark(missing.Id); got != 0 {
		t.Errorf("expected skipped profile to keep watermark 0, got %d", got)
	}
}
