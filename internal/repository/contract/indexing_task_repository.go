package contract

import (
	"context"

	"ai-docchat-be/internal/entity"

	"github.com/google/uuid"
)

type IndexingTaskRepository interface {
	// Append records a change event. Id is assigned by the database.
	Append(ctx context.Context, recordId uuid.UUID, taskType entity.IndexingTaskType, recordType string) error
	// FetchSince returns up to batchSize tasks with id > sinceId, filtered by
	// record type, ordered by id ascending.
	FetchSince(ctx context.Context, sinceId int64, batchSize int, recordType string) ([]*entity.IndexingTask, error)
}
