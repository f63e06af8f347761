package mapper

import (
	"sort"
	"time"

	"ai-docchat-be/internal/entity"
	"ai-docchat-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type DocumentMapper struct{}

func NewDocumentMapper() *DocumentMapper {
	return &DocumentMapper{}
}

func (m *DocumentMapper) ToEntity(d *model.Document) *entity.Document {
	if d == nil {
		return nil
	}

	var deletedAt *time.Time
	if d.DeletedAt.Valid {
		t := d.DeletedAt.Time
		deletedAt = &t
	}

	chunks := make([]entity.Chunk, len(d.Chunks))
	for i, c := range d.Chunks {
		var vec []float32
		if c.Embedding != nil {
			vec = c.Embedding.Slice()
		}
		chunks[i] = entity.Chunk{
			Index:     c.ChunkIndex,
			Text:      c.Text,
			Embedding: vec,
			CharLen:   c.CharLen,
		}
	}
	// Preload order is not guaranteed; the aggregate contract is index order.
	sort.Slice(chunks, func(i, j int) bool { return chunks[i].Index < chunks[j].Index })

	return &entity.Document{
		Id:            d.Id,
		InteractionId: d.InteractionId,
		FileName:      d.FileName,
		ContentType:   d.ContentType,
		ByteSize:      d.ByteSize,
		Text:          d.Text,
		Chunks:        chunks,
		UploadedAt:    d.UploadedAt,
		DeletedAt:     deletedAt,
		IsDeleted:     d.DeletedAt.Valid,
	}
}

func (m *DocumentMapper) ToModel(e *entity.Document) *model.Document {
	if e == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if e.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *e.DeletedAt, Valid: true}
	} else if e.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	chunks := make([]model.DocumentChunk, len(e.Chunks))
	for i, c := range e.Chunks {
		var vec *pgvector.Vector
		if len(c.Embedding) > 0 {
			v := pgvector.NewVector(c.Embedding)
			vec = &v
		}
		chunks[i] = model.DocumentChunk{
			DocumentId: e.Id,
			ChunkIndex: c.Index,
			Text:       c.Text,
			Embedding:  vec,
			CharLen:    c.CharLen,
		}
	}

	return &model.Document{
		Id:            e.Id,
		InteractionId: e.InteractionId,
		FileName:      e.FileName,
		ContentType:   e.ContentType,
		ByteSize:      e.ByteSize,
		Text:          e.Text,
		Chunks:        chunks,
		UploadedAt:    e.UploadedAt,
		DeletedAt:     deletedAt,
	}
}

func (m *DocumentMapper) ToEntities(docs []*model.Document) []*entity.Document {
	entities := make([]*entity.Document, len(docs))
	for i, d := range docs {
		entities[i] = m.ToEntity(d)
	}
	return entities
}
