package contract

import (
	"context"

	"ai-docchat-be/internal/entity"
	"ai-docchat-be/internal/repository/specification"

	"github.com/google/uuid"
)

// DocumentRepository persists Document aggregates. Chunks live inside the
// aggregate and are written and read with their parent, never alone.
type DocumentRepository interface {
	// Create persists the document and its chunk list as one unit. A
	// duplicate document id is rejected, not overwritten.
	Create(ctx context.Context, document *entity.Document) error
	Delete(ctx context.Context, id uuid.UUID) error
	// DeleteByInteractionId implements the owner cascade.
	DeleteByInteractionId(ctx context.Context, interactionId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Document, error)
	// FindByInteractionId returns documents in upload order, chunks loaded.
	FindByInteractionId(ctx context.Context, interactionId uuid.UUID) ([]*entity.Document, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
