package service

import (
	"context"

	"github.com/google/uuid"

	"ai-docchat-be/internal/entity"
	"ai-docchat-be/internal/repository/specification"
	"ai-docchat-be/internal/repository/unitofwork"
	"ai-docchat-be/pkg/indexing"
)

// IndexingGateway adapts the repositories to the synchronizer's ports:
// the task stream, the watermark store, and the record resolver.
type IndexingGateway struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewIndexingGateway(uowFactory unitofwork.RepositoryFactory) *IndexingGateway {
	return &IndexingGateway{uowFactory: uowFactory}
}

func (g *IndexingGateway) FetchTasks(ctx context.Context, sinceId int64, batchSize int, recordType string) ([]entity.IndexingTask, error) {
	uow := g.uowFactory.NewUnitOfWork(ctx)
	tasks, err := uow.IndexingTaskRepository().FetchSince(ctx, sinceId, batchSize, recordType)
	if err != nil {
		return nil, err
	}

	out := make([]entity.IndexingTask, len(tasks))
	for i, task := range tasks {
		out[i] = *task
	}
	return out, nil
}

func (g *IndexingGateway) EligibleProfiles(ctx context.Context, typeTag string) ([]entity.IndexProfile, error) {
	uow := g.uowFactory.NewUnitOfWork(ctx)
	profiles, err := uow.IndexProfileRepository().FindAll(ctx, specification.ByIndexType{Type: typeTag})
	if err != nil {
		return nil, err
	}

	out := make([]entity.IndexProfile, len(profiles))
	for i, profile := range profiles {
		out[i] = *profile
	}
	return out, nil
}

func (g *IndexingGateway) Advance(ctx context.Context, profileId uuid.UUID, lastTaskId int64) error {
	uow := g.uowFactory.NewUnitOfWork(ctx)
	return uow.IndexProfileRepository().AdvanceWatermark(ctx, profileId, lastTaskId)
}

func (g *IndexingGateway) Resolve(ctx context.Context, recordId uuid.UUID) (*indexing.Record, error) {
	uow := g.uowFactory.NewUnitOfWork(ctx)

	interaction, err := uow.InteractionRepository().FindOne(ctx, specification.ByID{ID: recordId})
	if err != nil {
		return nil, err
	}
	if interaction == nil {
		return nil, nil
	}

	documents, err := uow.DocumentRepository().FindByInteractionId(ctx, recordId)
	if err != nil {
		return nil, err
	}

	record := &indexing.Record{Id: interaction.Id}
	for _, document := range documents {
		record.Documents = append(record.Documents, *document)
	}
	return record, nil
}
