package implementation

import (
	"context"

	"ai-docchat-be/internal/entity"
	"ai-docchat-be/internal/mapper"
	"ai-docchat-be/internal/model"
	"ai-docchat-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type IndexingTaskRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.IndexingTaskMapper
}

func NewIndexingTaskRepository(db *gorm.DB) contract.IndexingTaskRepository {
	return &IndexingTaskRepositoryImpl{
		db:     db,
		mapper: mapper.NewIndexingTaskMapper(),
	}
}

func (r *IndexingTaskRepositoryImpl) Append(ctx context.Context, recordId uuid.UUID, taskType entity.IndexingTaskType, recordType string) error {
	m := &model.IndexingTask{
		RecordId:   recordId,
		Type:       string(taskType),
		RecordType: recordType,
	}
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *IndexingTaskRepositoryImpl) FetchSince(ctx context.Context, sinceId int64, batchSize int, recordType string) ([]*entity.IndexingTask, error) {
	var models []*model.IndexingTask
	err := r.db.WithContext(ctx).
		Where("id > ? AND record_type = ?", sinceId, recordType).
		Order("id ASC").
		Limit(batchSize).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}
