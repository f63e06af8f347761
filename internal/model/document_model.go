package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type Document struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey"`
	InteractionId uuid.UUID `gorm:"type:uuid;not null;index"`
	FileName      string    `gorm:"type:varchar(512)"`
	ContentType   string    `gorm:"type:varchar(255)"`
	ByteSize      int64
	Text          string          `gorm:"type:text"`
	Chunks        []DocumentChunk `gorm:"foreignKey:DocumentId;constraint:OnDelete:CASCADE"`
	UploadedAt    time.Time       `gorm:"autoCreateTime"`
	DeletedAt     gorm.DeletedAt  `gorm:"index"`
}

func (Document) TableName() string {
	return "documents"
}

type DocumentChunk struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DocumentId uuid.UUID `gorm:"type:uuid;not null;index"`
	ChunkIndex int       `gorm:"not null"` // 0-based, contiguous within a document
	Text       string    `gorm:"type:text"`
	// Nullable: chunks skipped by the embedding gate carry no vector.
	Embedding *pgvector.Vector `gorm:"type:vector(768)"`
	CharLen   int
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (DocumentChunk) TableName() string {
	return "document_chunks"
}
