package entity

import (
	"time"

	"github.com/google/uuid"
)

// Interaction is one chat conversation. It owns the documents a user has
// attached to ground the conversation.
type Interaction struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Title     string
	TopN      int // per-interaction retrieval override, 0 = use settings default
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}
