package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"ai-docchat-be/internal/constant"
	"ai-docchat-be/internal/dto"
	"ai-docchat-be/internal/entity"
	"ai-docchat-be/internal/pkg/logger"
	"ai-docchat-be/internal/repository/memory"
	"ai-docchat-be/internal/repository/specification"
	"ai-docchat-be/internal/repository/unitofwork"
	"ai-docchat-be/pkg/events"
	pkgNats "ai-docchat-be/pkg/nats"
)

type IInteractionService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateInteractionRequest) (*dto.CreateInteractionResponse, error)
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ShowInteractionResponse, error)
	List(ctx context.Context, userId uuid.UUID) ([]*dto.ShowInteractionResponse, error)
	Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateInteractionRequest) (*dto.UpdateInteractionResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
}

type interactionService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	eventPublisher   *pkgNats.Publisher
	settingsCache    *memory.RetrievalSettingsCache
	log              logger.ILogger
}

func NewInteractionService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	eventPublisher *pkgNats.Publisher,
	settingsCache *memory.RetrievalSettingsCache,
	log logger.ILogger,
) IInteractionService {
	return &interactionService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		settingsCache:    settingsCache,
		log:              log,
	}
}

func (s *interactionService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateInteractionRequest) (*dto.CreateInteractionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	interaction := entity.Interaction{
		Id:        uuid.New(),
		UserId:    userId,
		Title:     req.Title,
		TopN:      req.TopN,
		CreatedAt: time.Now(),
	}
	if err := uow.InteractionRepository().Create(ctx, &interaction); err != nil {
		return nil, err
	}

	return &dto.CreateInteractionResponse{Id: interaction.Id}, nil
}

func (s *interactionService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ShowInteractionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	interaction, err := uow.InteractionRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if interaction == nil {
		return nil, nil
	}

	count, err := uow.DocumentRepository().Count(ctx, specification.ByInteractionID{InteractionID: id})
	if err != nil {
		return nil, err
	}

	return toShowInteractionResponse(interaction, count), nil
}

func (s *interactionService) List(ctx context.Context, userId uuid.UUID) ([]*dto.ShowInteractionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	interactions, err := uow.InteractionRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.ShowInteractionResponse, 0, len(interactions))
	for _, interaction := range interactions {
		count, err := uow.DocumentRepository().Count(ctx, specification.ByInteractionID{InteractionID: interaction.Id})
		if err != nil {
			return nil, err
		}
		res = append(res, toShowInteractionResponse(interaction, count))
	}
	return res, nil
}

func (s *interactionService) Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateInteractionRequest) (*dto.UpdateInteractionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	interaction, err := uow.InteractionRepository().FindOne(ctx,
		specification.ByID{ID: req.Id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if interaction == nil {
		return nil, nil
	}

	now := time.Now()
	interaction.Title = req.Title
	interaction.TopN = req.TopN
	interaction.UpdatedAt = &now
	if err := uow.InteractionRepository().Update(ctx, interaction); err != nil {
		return nil, err
	}

	// The topN override is cached per interaction for chat turns.
	s.settingsCache.Invalidate(interaction.Id)

	return &dto.UpdateInteractionResponse{Id: interaction.Id}, nil
}

func (s *interactionService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	interaction, err := uow.InteractionRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if interaction == nil {
		return nil
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}

	// Owner cascade: documents go with their interaction, and the delete
	// task lands in the same transaction as the row removals.
	if err := uow.DocumentRepository().DeleteByInteractionId(ctx, id); err != nil {
		_ = uow.Rollback()
		return err
	}
	if err := uow.InteractionRepository().Delete(ctx, id); err != nil {
		_ = uow.Rollback()
		return err
	}
	if err := uow.IndexingTaskRepository().Append(ctx, id, entity.IndexingTaskDelete, constant.RecordTypeInteraction); err != nil {
		_ = uow.Rollback()
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	s.settingsCache.Invalidate(id)
	s.nudgeSynchronizer(ctx, id, "interaction-deleted")

	if s.eventPublisher != nil {
		if err := s.eventPublisher.Publish(ctx, events.NewInteractionDeleted(id)); err != nil {
			s.log.Warn("interaction-service", "failed to publish interaction deleted event", map[string]interface{}{
				"interaction_id": id.String(),
				"error":          err.Error(),
			})
		}
	}

	return nil
}

func (s *interactionService) nudgeSynchronizer(ctx context.Context, recordId uuid.UUID, reason string) {
	payload, err := json.Marshal(dto.PublishSyncMessage{RecordId: recordId, Reason: reason})
	if err != nil {
		return
	}
	if err := s.publisherService.Publish(ctx, payload); err != nil {
		s.log.Warn("interaction-service", "failed to nudge index synchronizer", map[string]interface{}{
			"record_id": recordId.String(),
			"error":     err.Error(),
		})
	}
}

func toShowInteractionResponse(interaction *entity.Interaction, documentCount int64) *dto.ShowInteractionResponse {
	return &dto.ShowInteractionResponse{
		Id:            interaction.Id,
		Title:         interaction.Title,
		TopN:          interaction.TopN,
		DocumentCount: documentCount,
		CreatedAt:     interaction.CreatedAt,
		UpdatedAt:     interaction.UpdatedAt,
	}
}
