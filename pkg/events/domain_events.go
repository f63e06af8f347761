package events

import (
	"github.com/google/uuid"
)

const (
	TypeDocumentUploaded   = "DOCUMENT_UPLOADED"
	TypeDocumentDeleted    = "DOCUMENT_DELETED"
	TypeInteractionDeleted = "INTERACTION_DELETED"
	TypeIndexSynced        = "INDEX_SYNCED"
)

// NewDocumentUploaded signals that a document finished ingestion and is
// awaiting indexing.
func NewDocumentUploaded(interactionId, documentId uuid.UUID, fileName string, embeddedChunks, totalChunks int) Event {
	return newBase(TypeDocumentUploaded, map[string]interface{}{
		"interaction_id":  interactionId.String(),
		"document_id":     documentId.String(),
		"file_name":       fileName,
		"embedded_chunks": embeddedChunks,
		"total_chunks":    totalChunks,
	})
}

func NewDocumentDeleted(interactionId, documentId uuid.UUID) Event {
	return newBase(TypeDocumentDeleted, map[string]interface{}{
		"interaction_id": interactionId.String(),
		"document_id":    documentId.String(),
	})
}

func NewInteractionDeleted(interactionId uuid.UUID) Event {
	return newBase(TypeInteractionDeleted, map[string]interface{}{
		"interaction_id": interactionId.String(),
	})
}

func NewIndexSynced(profileName string, lastTaskId int64) Event {
	return newBase(TypeIndexSynced, map[string]interface{}{
		"profile":      profileName,
		"last_task_id": lastTaskId,
	})
}
