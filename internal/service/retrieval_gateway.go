package service

import (
	"context"

	"github.com/google/uuid"

	"ai-docchat-be/internal/constant"
	"ai-docchat-be/internal/entity"
	"ai-docchat-be/internal/repository/memory"
	"ai-docchat-be/internal/repository/specification"
	"ai-docchat-be/internal/repository/unitofwork"
)

// RetrievalGateway backs the context assembler's lookups with the
// repositories, caching per-interaction retrieval settings so a chat
// turn does not hit the database twice for the same interaction.
type RetrievalGateway struct {
	uowFactory    unitofwork.RepositoryFactory
	settingsCache *memory.RetrievalSettingsCache
}

func NewRetrievalGateway(uowFactory unitofwork.RepositoryFactory, settingsCache *memory.RetrievalSettingsCache) *RetrievalGateway {
	return &RetrievalGateway{
		uowFactory:    uowFactory,
		settingsCache: settingsCache,
	}
}

func (g *RetrievalGateway) CountDocuments(ctx context.Context, ownerId uuid.UUID) (int64, error) {
	settings, err := g.load(ctx, ownerId)
	if err != nil {
		return 0, err
	}
	return settings.DocumentCount, nil
}

func (g *RetrievalGateway) ResolveTopN(ctx context.Context, ownerId uuid.UUID) int {
	settings, err := g.load(ctx, ownerId)
	if err != nil {
		return 0
	}
	return settings.TopN
}

func (g *RetrievalGateway) FindByName(ctx context.Context, name string) (*entity.IndexProfile, error) {
	uow := g.uowFactory.NewUnitOfWork(ctx)
	return uow.IndexProfileRepository().FindOne(ctx,
		specification.ByName{Name: name},
		specification.ByIndexType{Type: constant.IndexTypeInteractionDocuments},
	)
}

func (g *RetrievalGateway) load(ctx context.Context, ownerId uuid.UUID) (memory.RetrievalSettings, error) {
	if settings, ok := g.settingsCache.Get(ownerId); ok {
		return settings, nil
	}

	uow := g.uowFactory.NewUnitOfWork(ctx)
	interaction, err := uow.InteractionRepository().FindOne(ctx, specification.ByID{ID: ownerId})
	if err != nil {
		return memory.RetrievalSettings{}, err
	}
	if interaction == nil {
		return memory.RetrievalSettings{}, nil
	}

	count, err := uow.DocumentRepository().Count(ctx, specification.ByInteractionID{InteractionID: ownerId})
	if err != nil {
		return memory.RetrievalSettings{}, err
	}

	settings := memory.RetrievalSettings{TopN: interaction.TopN, DocumentCount: count}
	g.settingsCache.Save(ownerId, settings)
	return settings, nil
}
