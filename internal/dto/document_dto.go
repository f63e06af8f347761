package dto

import (
	"time"

	"github.com/google/uuid"
)

// UploadFile is one file from a multipart upload, already read into
// memory by the controller.
type UploadFile struct {
	FileName    string
	ContentType string
	Data        []byte
}

// UploadReport summarizes what happened to one uploaded file. Uploads
// succeed even when embedding is skipped or partial, so the report tells
// the caller how much of the document is retrievable by similarity.
type UploadReport struct {
	DocumentId     uuid.UUID `json:"document_id"`
	FileName       string    `json:"file_name"`
	TotalChunks    int       `json:"total_chunks"`
	EmbeddedChunks int       `json:"embedded_chunks"`
	Embedded       bool      `json:"embedded"`
	Warning        string    `json:"warning,omitempty"`
}

type UploadDocumentsResponse struct {
	InteractionId uuid.UUID      `json:"interaction_id"`
	Reports       []UploadReport `json:"reports"`
}

type ShowDocumentResponse struct {
	Id             uuid.UUID `json:"id"`
	FileName       string    `json:"file_name"`
	ContentType    string    `json:"content_type"`
	ByteSize       int64     `json:"byte_size"`
	TotalChunks    int       `json:"total_chunks"`
	EmbeddedChunks int       `json:"embedded_chunks"`
	UploadedAt     time.Time `json:"uploaded_at"`
}
