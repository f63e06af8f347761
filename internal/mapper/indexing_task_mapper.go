package mapper

import (
	"ai-docchat-be/internal/entity"
	"ai-docchat-be/internal/model"
)

type IndexingTaskMapper struct{}

func NewIndexingTaskMapper() *IndexingTaskMapper {
	return &IndexingTaskMapper{}
}

func (m *IndexingTaskMapper) ToEntity(t *model.IndexingTask) *entity.IndexingTask {
	if t == nil {
		return nil
	}
	return &entity.IndexingTask{
		Id:         t.Id,
		RecordId:   t.RecordId,
		Type:       entity.IndexingTaskType(t.Type),
		RecordType: t.RecordType,
		CreatedAt:  t.CreatedAt,
	}
}

func (m *IndexingTaskMapper) ToModel(e *entity.IndexingTask) *model.IndexingTask {
	if e == nil {
		return nil
	}
	return &model.IndexingTask{
		Id:         e.Id,
		RecordId:   e.RecordId,
		Type:       string(e.Type),
		RecordType: e.RecordType,
		CreatedAt:  e.CreatedAt,
	}
}

func (m *IndexingTaskMapper) ToEntities(tasks []*model.IndexingTask) []*entity.IndexingTask {
	entities := make([]*entity.IndexingTask, len(tasks))
	for i, t := range tasks {
		entities[i] = m.ToEntity(t)
	}
	return entities
}
