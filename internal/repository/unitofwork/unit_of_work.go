package unitofwork

import (
	"context"

	"ai-docchat-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	InteractionRepository() contract.InteractionRepository
	DocumentRepository() contract.DocumentRepository
	IndexProfileRepository() contract.IndexProfileRepository
	IndexingTaskRepository() contract.IndexingTaskRepository
}
