package service

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"ai-docchat-be/internal/constant"
	"ai-docchat-be/internal/dto"
	"ai-docchat-be/internal/entity"
	"ai-docchat-be/internal/pkg/logger"
	"ai-docchat-be/internal/repository/memory"
	"ai-docchat-be/internal/repository/specification"
	"ai-docchat-be/internal/repository/unitofwork"
	"ai-docchat-be/pkg/chunker"
	"ai-docchat-be/pkg/embedding"
	"ai-docchat-be/pkg/events"
	pkgNats "ai-docchat-be/pkg/nats"
	"ai-docchat-be/pkg/textextract"
)

const docLogModule = "document-service"

type IDocumentService interface {
	Upload(ctx context.Context, userId, interactionId uuid.UUID, files []dto.UploadFile) (*dto.UploadDocumentsResponse, error)
	List(ctx context.Context, userId, interactionId uuid.UUID) ([]*dto.ShowDocumentResponse, error)
	Delete(ctx context.Context, userId, interactionId, documentId uuid.UUID) error
}

type documentService struct {
	uowFactory        unitofwork.RepositoryFactory
	publisherService  IPublisherService
	eventPublisher    *pkgNats.Publisher
	extractor         *textextract.Extractor
	chunker           *chunker.Chunker
	gate              *embedding.Gate
	embeddingProvider embedding.EmbeddingProvider
	settingsCache     *memory.RetrievalSettingsCache
	log               logger.ILogger
}

func NewDocumentService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	eventPublisher *pkgNats.Publisher,
	extractor *textextract.Extractor,
	textChunker *chunker.Chunker,
	gate *embedding.Gate,
	embeddingProvider embedding.EmbeddingProvider,
	settingsCache *memory.RetrievalSettingsCache,
	log logger.ILogger,
) IDocumentService {
	return &documentService{
		uowFactory:        uowFactory,
		publisherService:  publisherService,
		eventPublisher:    eventPublisher,
		extractor:         extractor,
		chunker:           textChunker,
		gate:              gate,
		embeddingProvider: embeddingProvider,
		settingsCache:     settingsCache,
		log:               log,
	}
}

func (s *documentService) Upload(ctx context.Context, userId, interactionId uuid.UUID, files []dto.UploadFile) (*dto.UploadDocumentsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	interaction, err := uow.InteractionRepository().FindOne(ctx,
		specification.ByID{ID: interactionId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if interaction == nil {
		return nil, fmt.Errorf("interaction %s not found", interactionId)
	}

	existing, err := uow.DocumentRepository().Count(ctx, specification.ByInteractionID{InteractionID: interactionId})
	if err != nil {
		return nil, err
	}
	// Index entries are addressed by document position, and the
	// synchronizer stages removals for positions below
	// MaxDocumentsPerRecord only. Admitting more documents than that
	// would leave entries no delete can ever reach.
	remaining := constant.MaxDocumentsPerRecord - int(existing)

	res := &dto.UploadDocumentsResponse{InteractionId: interactionId}
	stored := 0

	for _, file := range files {
		if remaining <= 0 {
			res.Reports = append(res.Reports, dto.UploadReport{
				FileName: file.FileName,
				Warning:  fmt.Sprintf("interaction document limit of %d reached", constant.MaxDocumentsPerRecord),
			})
			continue
		}
		report := s.ingestFile(ctx, uow, interactionId, file)
		res.Reports = append(res.Reports, report)
		if report.DocumentId != uuid.Nil {
			stored++
			remaining--
		}
	}

	if stored > 0 {
		if err := uow.IndexingTaskRepository().Append(ctx, interactionId, entity.IndexingTaskUpdate, constant.RecordTypeInteraction); err != nil {
			return nil, err
		}
		s.settingsCache.Invalidate(interactionId)
		s.nudgeSynchronizer(ctx, interactionId)
	}

	return res, nil
}

// ingestFile runs the per-file pipeline: extract, chunk, gate, embed,
// store. Embedding problems degrade to an unembedded document; only
// extraction or storage failures reject the file.
func (s *documentService) ingestFile(ctx context.Context, uow unitofwork.UnitOfWork, interactionId uuid.UUID, file dto.UploadFile) dto.UploadReport {
	report := dto.UploadReport{FileName: file.FileName}
	ext := fileExtension(file.FileName)

	if !s.extractor.Supports(ext) {
		report.Warning = fmt.Sprintf("unsupported file type %q", ext)
		return report
	}

	text, err := s.extractor.Extract(file.Data, ext)
	if err != nil {
		s.log.Warn(docLogModule, "text extraction failed", map[string]interface{}{
			"file_name": file.FileName,
			"error":     err.Error(),
		})
		report.Warning = "text extraction failed"
		return report
	}

	chunks := s.chunker.Chunk(text)
	report.TotalChunks = len(chunks)

	document := entity.Document{
		Id:            uuid.New(),
		InteractionId: interactionId,
		FileName:      file.FileName,
		ContentType:   file.ContentType,
		ByteSize:      int64(len(file.Data)),
		Text:          text,
		UploadedAt:    time.Now(),
	}
	for i, chunkText := range chunks {
		document.Chunks = append(document.Chunks, entity.Chunk{
			Index:   i,
			Text:    chunkText,
			CharLen: len([]rune(chunkText)),
		})
	}

	if s.gate.ShouldEmbed(ext, len([]rune(text)), s.embeddingProvider != nil, constant.EmbeddableExtensions) {
		accepted := s.gate.LimitForEmbedding(chunks)
		if len(accepted) > 0 {
			vectors, err := s.embeddingProvider.GenerateBatch(ctx, accepted, embedding.TaskRetrievalDocument)
			if err != nil {
				// Stored without embeddings; the upload still succeeds.
				s.log.Warn(docLogModule, "embedding generation failed, storing document unembedded", map[string]interface{}{
					"file_name": file.FileName,
					"error":     err.Error(),
				})
				report.Warning = "embedding generation failed"
			} else {
				for i := range vectors {
					document.Chunks[i].Embedding = vectors[i]
				}
				report.EmbeddedChunks = len(vectors)
			}
		}
		if report.EmbeddedChunks > 0 && report.EmbeddedChunks < report.TotalChunks && report.Warning == "" {
			report.Warning = "document partially embedded, trailing chunks exceeded the character budget"
		}
	}

	if err := uow.DocumentRepository().Create(ctx, &document); err != nil {
		s.log.Error(docLogModule, "failed to store document", map[string]interface{}{
			"file_name": file.FileName,
			"error":     err.Error(),
		})
		return dto.UploadReport{FileName: file.FileName, Warning: "failed to store document"}
	}

	report.DocumentId = document.Id
	report.Embedded = report.EmbeddedChunks > 0

	if s.eventPublisher != nil {
		evt := events.NewDocumentUploaded(interactionId, document.Id, file.FileName, report.EmbeddedChunks, report.TotalChunks)
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.log.Warn(docLogModule, "failed to publish document uploaded event", map[string]interface{}{
				"document_id": document.Id.String(),
				"error":       err.Error(),
			})
		}
	}

	return report
}

func (s *documentService) List(ctx context.Context, userId, interactionId uuid.UUID) ([]*dto.ShowDocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	interaction, err := uow.InteractionRepository().FindOne(ctx,
		specification.ByID{ID: interactionId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if interaction == nil {
		return nil, nil
	}

	documents, err := uow.DocumentRepository().FindByInteractionId(ctx, interactionId)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.ShowDocumentResponse, 0, len(documents))
	for _, document := range documents {
		embedded := 0
		for i := range document.Chunks {
			if document.Chunks[i].Embedded() {
				embedded++
			}
		}
		res = append(res, &dto.ShowDocumentResponse{
			Id:             document.Id,
			FileName:       document.FileName,
			ContentType:    document.ContentType,
			ByteSize:       document.ByteSize,
			TotalChunks:    len(document.Chunks),
			EmbeddedChunks: embedded,
			UploadedAt:     document.UploadedAt,
		})
	}
	return res, nil
}

func (s *documentService) Delete(ctx context.Context, userId, interactionId, documentId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	interaction, err := uow.InteractionRepository().FindOne(ctx,
		specification.ByID{ID: interactionId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if interaction == nil {
		return nil
	}

	document, err := uow.DocumentRepository().FindOne(ctx,
		specification.ByID{ID: documentId},
		specification.ByInteractionID{InteractionID: interactionId},
	)
	if err != nil {
		return err
	}
	if document == nil {
		return nil
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	if err := uow.DocumentRepository().Delete(ctx, documentId); err != nil {
		_ = uow.Rollback()
		return err
	}
	if err := uow.IndexingTaskRepository().Append(ctx, interactionId, entity.IndexingTaskUpdate, constant.RecordTypeInteraction); err != nil {
		_ = uow.Rollback()
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	s.settingsCache.Invalidate(interactionId)
	s.nudgeSynchronizer(ctx, interactionId)

	if s.eventPublisher != nil {
		if err := s.eventPublisher.Publish(ctx, events.NewDocumentDeleted(interactionId, documentId)); err != nil {
			s.log.Warn(docLogModule, "failed to publish document deleted event", map[string]interface{}{
				"document_id": documentId.String(),
				"error":       err.Error(),
			})
		}
	}

	return nil
}

func (s *documentService) nudgeSynchronizer(ctx context.Context, recordId uuid.UUID) {
	payload, err := json.Marshal(dto.PublishSyncMessage{RecordId: recordId, Reason: "documents-changed"})
	if err != nil {
		return
	}
	if err := s.publisherService.Publish(ctx, payload); err != nil {
		s.log.Warn(docLogModule, "failed to nudge index synchronizer", map[string]interface{}{
			"record_id": recordId.String(),
			"error":     err.Error(),
		})
	}
}

func fileExtension(fileName string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(fileName)), ".")
}
