package service

import (
	"context"

	"github.com/google/uuid"

	"ai-docchat-be/internal/dto"
	"ai-docchat-be/internal/pkg/logger"
	"ai-docchat-be/internal/repository/specification"
	"ai-docchat-be/internal/repository/unitofwork"
	"ai-docchat-be/pkg/llm"
	ragcontext "ai-docchat-be/pkg/rag/context"
	"ai-docchat-be/pkg/rag/prompt"
)

const chatLogModule = "chat-service"

type IChatService interface {
	Ask(ctx context.Context, userId uuid.UUID, req *dto.AskRequest) (*dto.AskResponse, error)
}

type chatService struct {
	uowFactory  unitofwork.RepositoryFactory
	assembler   *ragcontext.Assembler
	llmProvider llm.LLMProvider
	log         logger.ILogger
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	assembler *ragcontext.Assembler,
	llmProvider llm.LLMProvider,
	log logger.ILogger,
) IChatService {
	return &chatService{
		uowFactory:  uowFactory,
		assembler:   assembler,
		llmProvider: llmProvider,
		log:         log,
	}
}

func (s *chatService) Ask(ctx context.Context, userId uuid.UUID, req *dto.AskRequest) (*dto.AskResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	interaction, err := uow.InteractionRepository().FindOne(ctx,
		specification.ByID{ID: req.InteractionId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if interaction == nil {
		return nil, nil
	}

	// Retrieval is best-effort. An empty block means the turn proceeds
	// unaugmented.
	contextBlock := s.assembler.BuildContext(ctx, interaction.Id, req.Question)

	history := make([]llm.Message, 0, len(req.History))
	for _, msg := range req.History {
		history = append(history, llm.Message{Role: msg.Role, Content: msg.Content})
	}

	messages := prompt.NewCompletionBuilder(contextBlock, req.Question, history).Build()

	answer, err := s.llmProvider.Chat(ctx, messages)
	if err != nil {
		s.log.Error(chatLogModule, "chat completion failed", map[string]interface{}{
			"interaction_id": interaction.Id.String(),
			"error":          err.Error(),
		})
		return nil, err
	}

	return &dto.AskResponse{
		Answer:   answer,
		Grounded: contextBlock != "",
	}, nil
}
