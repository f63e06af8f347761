package indexing

import (
	"context"

	"github.com/google/uuid"

	"ai-docchat-be/internal/entity"
	"ai-docchat-be/pkg/searchindex"
)

// Record is an indexable source record together with the documents that
// belong to it, in upload order.
type Record struct {
	Id        uuid.UUID
	Documents []entity.Document
}

// TaskSource drains the shared indexing task stream. Tasks are returned
// in ascending id order, strictly after sinceId.
type TaskSource interface {
	FetchTasks(ctx context.Context, sinceId int64, batchSize int, recordType string) ([]entity.IndexingTask, error)
}

// WatermarkStore reads eligible index profiles and persists per-profile
// watermark advances.
type WatermarkStore interface {
	EligibleProfiles(ctx context.Context, typeTag string) ([]entity.IndexProfile, error)
	Advance(ctx context.Context, profileId uuid.UUID, lastTaskId int64) error
}

// RecordResolver loads the source record for a task. A missing record
// resolves to (nil, nil); concurrent deletion makes this a normal case.
type RecordResolver interface {
	Resolve(ctx context.Context, recordId uuid.UUID) (*Record, error)
}

// EntryBuilder turns a resolved record into backend index entries, one
// per document position.
type EntryBuilder interface {
	Build(record *Record) []searchindex.IndexEntry
}

// Locker serializes synchronization runs against a single profile
// across processes. Release is safe to call after the lock expired.
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(), acquired bool, err error)
}

// NoopLocker always grants the lock; single-instance deployments use it
// in place of the Redis locker.
type NoopLocker struct{}

func (NoopLocker) Acquire(ctx context.Context, key string) (func(), bool, error) {
	return func() {}, true, nil
}
