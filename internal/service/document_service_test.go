package service

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"ai-docchat-be/internal/constant"
	"ai-docchat-be/internal/dto"
	"ai-docchat-be/internal/entity"
	"ai-docchat-be/internal/repository/contract"
	"ai-docchat-be/internal/repository/memory"
	"ai-docchat-be/internal/repository/specification"
	"ai-docchat-be/internal/repository/unitofwork"
	"ai-docchat-be/pkg/chunker"
	"ai-docchat-be/pkg/embedding"
	"ai-docchat-be/pkg/textextract"
)

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

type captivePublisher struct {
	published int
}

func (p *captivePublisher) Publish(ctx context.Context, payload []byte) error {
	p.published++
	return nil
}

type fakeInteractionRepository struct {
	interaction *entity.Interaction
}

func (r *fakeInteractionRepository) Create(ctx context.Context, interaction *entity.Interaction) error {
	return nil
}

func (r *fakeInteractionRepository) Update(ctx context.Context, interaction *entity.Interaction) error {
	return nil
}

func (r *fakeInteractionRepository) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (r *fakeInteractionRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Interaction, error) {
	return r.interaction, nil
}

func (r *fakeInteractionRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Interaction, error) {
	return nil, nil
}

func (r *fakeInteractionRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return 0, nil
}

type fakeDocumentRepository struct {
	documents []*entity.Document
}

func (r *fakeDocumentRepository) Create(ctx context.Context, document *entity.Document) error {
	r.documents = append(r.documents, document)
	return nil
}

func (r *fakeDocumentRepository) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (r *fakeDocumentRepository) DeleteByInteractionId(ctx context.Context, interactionId uuid.UUID) error {
	return nil
}

func (r *fakeDocumentRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Document, error) {
	return nil, nil
}

func (r *fakeDocumentRepository) FindByInteractionId(ctx context.Context, interactionId uuid.UUID) ([]*entity.Document, error) {
	return r.documents, nil
}

func (r *fakeDocumentRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.documents)), nil
}

type fakeTaskRepository struct {
	appended int
}

func (r *fakeTaskRepository) Append(ctx context.Context, recordId uuid.UUID, taskType entity.IndexingTaskType, recordType string) error {
	r.appended++
	return nil
}

func (r *fakeTaskRepository) FetchSince(ctx context.Context, sinceId int64, batchSize int, recordType string) ([]*entity.IndexingTask, error) {
	return nil, nil
}

type fakeUnitOfWork struct {
	interactions *fakeInteractionRepository
	documents    *fakeDocumentRepository
	tasks        *fakeTaskRepository
}

func (u *fakeUnitOfWork) Begin(ctx context.Context) error { return nil }
func (u *fakeUnitOfWork) Commit() error                   { return nil }
func (u *fakeUnitOfWork) Rollback() error                 { return nil }

func (u *fakeUnitOfWork) InteractionRepository() contract.InteractionRepository {
	return u.interactions
}

func (u *fakeUnitOfWork) DocumentRepository() contract.DocumentRepository {
	return u.documents
}

func (u *fakeUnitOfWork) IndexProfileRepository() contract.IndexProfileRepository {
	return nil
}

func (u *fakeUnitOfWork) IndexingTaskRepository() contract.IndexingTaskRepository {
	return u.tasks
}

type fakeRepositoryFactory struct {
	uow *fakeUnitOfWork
}

func (f *fakeRepositoryFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}

func newUploadFixture(existingDocuments int) (IDocumentService, *fakeUnitOfWork, uuid.UUID, uuid.UUID) {
	userId := uuid.New()
	interactionId := uuid.New()

	documents := &fakeDocumentRepository{}
	for i := 0; i < existingDocuments; i++ {
		documents.documents = append(documents.documents, &entity.Document{
			Id:            uuid.New(),
			InteractionId: interactionId,
		})
	}

	uow := &fakeUnitOfWork{
		interactions: &fakeInteractionRepository{
			interaction: &entity.Interaction{Id: interactionId, UserId: userId},
		},
		documents: documents,
		tasks:     &fakeTaskRepository{},
	}

	svc := NewDocumentService(
		&fakeRepositoryFactory{uow: uow},
		&captivePublisher{},
		nil,
		textextract.NewExtractor(),
		chunker.New(chunker.Options{}),
		embedding.NewGate(0),
		nil,
		memory.NewRetrievalSettingsCache(),
		nopLogger{},
	)
	return svc, uow, userId, interactionId
}

func TestDocumentService_UploadEnforcesDocumentLimit(t *testing.T) {
	svc, uow, userId, interactionId := newUploadFixture(constant.MaxDocumentsPerRecord - 1)

	res, err := svc.Upload(context.Background(), userId, interactionId, []dto.UploadFile{
		{FileName: "fits.txt", ContentType: "text/plain", Data: []byte("within the limit")},
		{FileName: "overflow.txt", ContentType: "text/plain", Data: []byte("one too many")},
	})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	if len(res.Reports) != 2 {
		t.Fatalf("got %d reports, want 2", len(res.Reports))
	}
	if res.Reports[0].DocumentId == uuid.Nil {
		t.Fatalf("file within the limit was rejected: %q", res.Reports[0].Warning)
	}
	if res.Reports[1].DocumentId != uuid.Nil {
		t.Fatalf("file beyond the limit was stored")
	}
	if res.Reports[1].Warning == "" {
		t.Fatalf("rejected file carries no warning")
	}
	if got := len(uow.documents.documents); got != constant.MaxDocumentsPerRecord {
		t.Fatalf("stored %d documents, want %d", got, constant.MaxDocumentsPerRecord)
	}
	if uow.tasks.appended != 1 {
		t.Fatalf("appended %d tasks, want 1", uow.tasks.appended)
	}
}

func TestDocumentService_UploadToFullInteractionStoresNothing(t *testing.T) {
	svc, uow, userId, interactionId := newUploadFixture(constant.MaxDocumentsPerRecord)

	res, err := svc.Upload(context.Background(), userId, interactionId, []dto.UploadFile{
		{FileName: "late.txt", ContentType: "text/plain", Data: []byte("no room left")},
	})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	if res.Reports[0].DocumentId != uuid.Nil {
		t.Fatalf("document stored past the limit")
	}
	if got := len(uow.documents.documents); got != constant.MaxDocumentsPerRecord {
		t.Fatalf("stored %d documents, want %d", got, constant.MaxDocumentsPerRecord)
	}
	// Nothing was stored, so no indexing work exists to announce.
	if uow.tasks.appended != 0 {
		t.Fatalf("appended %d tasks, want 0", uow.tasks.appended)
	}
}
