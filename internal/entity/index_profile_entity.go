package entity

import (
	"time"

	"github.com/google/uuid"
)

// IndexProfile names a target search index on a provider. The pipeline only
// consumes profiles whose Type equals the reserved interaction-documents tag;
// it reads the configuration and owns nothing but the watermark.
type IndexProfile struct {
	Id        uuid.UUID
	Name      string
	Provider  string // registry key of the backend adapter ("pgvector", ...)
	IndexName string // full index name on the backend
	Type      string // eligibility tag

	// LastTaskId is the watermark: the id of the last indexing task whose
	// results were successfully written to the backend. Zero means the
	// profile has never processed a task.
	LastTaskId int64

	Settings  map[string]interface{} // backend-specific options, opaque here
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}
