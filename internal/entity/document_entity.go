package entity

import (
	"time"

	"github.com/google/uuid"
)

// Document is one uploaded file attached to an interaction. It owns its
// chunks; chunks are never addressed outside the parent document.
type Document struct {
	Id            uuid.UUID
	InteractionId uuid.UUID
	FileName      string
	ContentType   string
	ByteSize      int64
	Text          string // extracted plain text
	Chunks        []Chunk
	UploadedAt    time.Time
	DeletedAt     *time.Time
	IsDeleted     bool
}

// Chunk is a contiguous slice of the document text sized for one embedding
// call. Indices are contiguous from 0 and define order within the document.
// Embedding is nil when the embedding gate skipped this chunk.
type Chunk struct {
	Index     int
	Text      string
	Embedding []float32
	CharLen   int
}

// Embedded reports whether the chunk carries a vector.
func (c *Chunk) Embedded() bool {
	return len(c.Embedding) > 0
}
