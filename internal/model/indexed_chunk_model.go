package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

// SearchIndex registers the logical indexes served by the pgvector backend
// adapter. A profile whose index name has no row here is skipped by the
// synchronizer, mirroring a missing index on a remote backend.
type SearchIndex struct {
	Name      string    `gorm:"type:varchar(255);primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (SearchIndex) TableName() string {
	return "search_indexes"
}

// IndexedChunk is one nested chunk of a logical index entry in the pgvector
// backend. The entry id groups the chunks of one source document; upserting
// an entry replaces all of its chunk rows.
type IndexedChunk struct {
	Id         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	IndexName  string          `gorm:"type:varchar(255);not null;index:idx_indexed_chunks_entry"`
	EntryId    string          `gorm:"type:varchar(128);not null;index:idx_indexed_chunks_entry"`
	OwnerId    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ChunkIndex int             `gorm:"not null"`
	ChunkText  string          `gorm:"type:text"`
	Embedding  pgvector.Vector `gorm:"type:vector(768)"`
	CreatedAt  time.Time       `gorm:"autoCreateTime"`
}

func (IndexedChunk) TableName() string {
	return "indexed_chunks"
}
