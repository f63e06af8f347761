package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByInteractionID scopes documents to their owning interaction.
type ByInteractionID struct {
	InteractionID uuid.UUID
}

func (s ByInteractionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("interaction_id = ?", s.InteractionID)
}

// UserOwnedBy scopes interactions to their user.
type UserOwnedBy struct {
	UserID uuid.UUID
}

func (s UserOwnedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserID)
}

// ByIndexType selects index profiles participating in a pipeline.
type ByIndexType struct {
	Type string
}

func (s ByIndexType) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("type = ?", s.Type)
}

// UploadOrder sorts documents by insertion order. Upload timestamps can
// collide within a multi-file upload, so the id tiebreak keeps it stable.
type UploadOrder struct{}

func (s UploadOrder) Apply(db *gorm.DB) *gorm.DB {
	return db.Order("uploaded_at ASC, id ASC")
}
