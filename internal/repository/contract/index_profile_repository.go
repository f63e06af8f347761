package contract

import (
	"context"

	"ai-docchat-be/internal/entity"
	"ai-docchat-be/internal/repository/specification"

	"github.com/google/uuid"
)

type IndexProfileRepository interface {
	Create(ctx context.Context, profile *entity.IndexProfile) error
	Update(ctx context.Context, profile *entity.IndexProfile) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.IndexProfile, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.IndexProfile, error)
	// AdvanceWatermark persists the watermark for one profile. The guard
	// keeps it monotonic even under a racing concurrent run.
	AdvanceWatermark(ctx context.Context, id uuid.UUID, lastTaskId int64) error
}
