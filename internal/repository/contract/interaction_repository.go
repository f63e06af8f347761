package contract

import (
	"context"

	"ai-docchat-be/internal/entity"
	"ai-docchat-be/internal/repository/specification"

	"github.com/google/uuid"
)

type InteractionRepository interface {
	Create(ctx context.Context, interaction *entity.Interaction) error
	Update(ctx context.Context, interaction *entity.Interaction) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Interaction, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Interaction, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
